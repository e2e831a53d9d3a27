// Package core models the query engine's canonical representation of field
// values and result trees. It is the input boundary of the prisma package:
// values arrive here already materialized by the engine and are converted to
// the application-facing types by prisma.FromCore and prisma.Resolve.
package core

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Kind identifies the variant held by a Value.
type Kind byte

const (
	KindNull Kind = iota
	KindString
	KindBoolean
	KindEnum
	KindInt
	KindUUID
	KindList
	KindJSON
	KindXML
	KindObject
	KindDateTime
	KindFloat
	KindBigInt
	KindBytes
)

var kindNames = [...]string{
	KindNull:     "Null",
	KindString:   "String",
	KindBoolean:  "Boolean",
	KindEnum:     "Enum",
	KindInt:      "Int",
	KindUUID:     "Uuid",
	KindList:     "List",
	KindJSON:     "Json",
	KindXML:      "Xml",
	KindObject:   "Object",
	KindDateTime: "DateTime",
	KindFloat:    "Float",
	KindBigInt:   "BigInt",
	KindBytes:    "Bytes",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Value is a canonical scalar or structured field value. Only the payload
// field matching Kind is meaningful. The zero Value is Null.
//
// Payload by kind:
//   - String, Enum, Xml: Str
//   - Json: Str, holding JSON text
//   - Boolean: Bool
//   - Int, BigInt: Int (Int is as wide as BigInt in the engine)
//   - Float: Decimal
//   - Uuid: UUID
//   - DateTime: Time
//   - Bytes: Bytes
//   - List: List
//   - Object: Object
type Value struct {
	Kind    Kind
	Str     string
	Bool    bool
	Int     int64
	Decimal pgtype.Numeric
	UUID    uuid.UUID
	Time    time.Time
	Bytes   []byte
	List    []Value
	Object  []Field
}

// Field is one key/value pair of an Object. Objects are sequences of fields,
// so keys may repeat.
type Field struct {
	Key   string
	Value Value
}

func Null() Value                       { return Value{} }
func StringValue(s string) Value        { return Value{Kind: KindString, Str: s} }
func BooleanValue(b bool) Value         { return Value{Kind: KindBoolean, Bool: b} }
func EnumValue(name string) Value       { return Value{Kind: KindEnum, Str: name} }
func IntValue(i int64) Value            { return Value{Kind: KindInt, Int: i} }
func UUIDValue(id uuid.UUID) Value      { return Value{Kind: KindUUID, UUID: id} }
func ListValue(vs ...Value) Value       { return Value{Kind: KindList, List: vs} }
func JSONValue(text string) Value       { return Value{Kind: KindJSON, Str: text} }
func XMLValue(text string) Value        { return Value{Kind: KindXML, Str: text} }
func ObjectValue(fs ...Field) Value     { return Value{Kind: KindObject, Object: fs} }
func DateTimeValue(t time.Time) Value   { return Value{Kind: KindDateTime, Time: t} }
func FloatValue(d pgtype.Numeric) Value { return Value{Kind: KindFloat, Decimal: d} }
func BigIntValue(i int64) Value         { return Value{Kind: KindBigInt, Int: i} }
func BytesValue(b []byte) Value         { return Value{Kind: KindBytes, Bytes: b} }

// IsNull reports whether v is the Null variant.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	out := v
	switch v.Kind {
	case KindBytes:
		if v.Bytes != nil {
			out.Bytes = append([]byte(nil), v.Bytes...)
		}
	case KindFloat:
		if v.Decimal.Int != nil {
			out.Decimal.Int = new(big.Int).Set(v.Decimal.Int)
		}
	case KindList:
		if v.List != nil {
			out.List = make([]Value, len(v.List))
			for i, e := range v.List {
				out.List[i] = e.Clone()
			}
		}
	case KindObject:
		if v.Object != nil {
			out.Object = make([]Field, len(v.Object))
			for i, f := range v.Object {
				out.Object[i] = Field{Key: f.Key, Value: f.Value.Clone()}
			}
		}
	}
	return out
}

// String renders v for debugging and error messages.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "Null"
	case KindString, KindEnum, KindXML, KindJSON:
		return fmt.Sprintf("%s(%q)", v.Kind, v.Str)
	case KindBoolean:
		return fmt.Sprintf("Boolean(%t)", v.Bool)
	case KindInt, KindBigInt:
		return fmt.Sprintf("%s(%d)", v.Kind, v.Int)
	case KindFloat:
		return fmt.Sprintf("Float(%s)", DecimalString(v.Decimal))
	case KindUUID:
		return fmt.Sprintf("Uuid(%s)", v.UUID)
	case KindDateTime:
		return fmt.Sprintf("DateTime(%s)", v.Time.Format(time.RFC3339Nano))
	case KindBytes:
		return fmt.Sprintf("Bytes(%x)", v.Bytes)
	case KindList:
		return fmt.Sprintf("List%v", v.List)
	case KindObject:
		return fmt.Sprintf("Object%v", v.Object)
	default:
		return v.Kind.String()
	}
}

func (f Field) String() string {
	return fmt.Sprintf("%s:%s", f.Key, f.Value)
}

// Equal reports whether two canonical values are structurally equal.
// Decimals compare by numeric value, so 1.50 equals 1.5. DateTimes must
// agree on both the instant and the UTC offset.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindString, KindEnum, KindXML, KindJSON:
		return a.Str == b.Str
	case KindBoolean:
		return a.Bool == b.Bool
	case KindInt, KindBigInt:
		return a.Int == b.Int
	case KindFloat:
		return CompareDecimal(a.Decimal, b.Decimal) == 0
	case KindUUID:
		return a.UUID == b.UUID
	case KindDateTime:
		_, aoff := a.Time.Zone()
		_, boff := b.Time.Zone()
		return a.Time.Equal(b.Time) && aoff == boff
	case KindBytes:
		return string(a.Bytes) == string(b.Bytes)
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.Object) != len(b.Object) {
			return false
		}
		for i := range a.Object {
			if a.Object[i].Key != b.Object[i].Key || !Equal(a.Object[i].Value, b.Object[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
