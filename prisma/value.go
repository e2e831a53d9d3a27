// Package prisma exposes query results as typed values that keep full type
// fidelity when serialized.
//
// The engine's own representation (package core) is tuned for internal
// processing: decimals stand in for floats, JSON is carried as text and shared
// sub-trees are reference counted. Value and Item are the application-facing
// forms. FromCore/ToCore convert single values in both directions and Resolve
// turns a whole canonical result tree into an exclusively owned Item tree.
//
// Values serialize untagged: the wire form carries only the payload, and Null
// is written exactly as an absent optional value would be.
package prisma

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Kind identifies the variant of a Value.
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

// Value is any value a database field can hold. The set of implementations
// is closed: String, Boolean, Enum, Int, UUID, List, JSON, XML, Object, Null,
// DateTime, Float, BigInt and Bytes.
//
// A nil Value is treated as Null everywhere in this package.
type Value interface {
	json.Marshaler
	Kind() Kind
	isValue()
}

type (
	// String is plain text.
	String string
	// Boolean is true or false.
	Boolean bool
	// Enum holds the name of an enum member.
	Enum string
	// Int is a 32-bit signed integer.
	Int int32
	// UUID is a 128-bit identifier.
	UUID uuid.UUID
	// List is an ordered sequence of values.
	List []Value
	// XML is an XML document kept as text.
	XML string
	// Object is an ordered sequence of fields. It is not a map: keys may
	// repeat and their order is significant.
	Object []Field
	// Null is the absence of a value.
	Null struct{}
	// DateTime is an instant with a fixed UTC offset.
	DateTime time.Time
	// Float is a 64-bit IEEE 754 double.
	Float float64
	// BigInt is a 64-bit signed integer. It is distinct from Int.
	BigInt int64
	// Bytes is a raw byte sequence.
	Bytes []byte
)

// JSON is an arbitrary structured document: nil, bool, string,
// json.Number, []any or map[string]any, nested freely.
type JSON struct {
	Doc any
}

// Field is one entry of an Object.
type Field struct {
	Key   string
	Value Value
}

func (String) Kind() Kind   { return KindString }
func (Boolean) Kind() Kind  { return KindBoolean }
func (Enum) Kind() Kind     { return KindEnum }
func (Int) Kind() Kind      { return KindInt }
func (UUID) Kind() Kind     { return KindUUID }
func (List) Kind() Kind     { return KindList }
func (JSON) Kind() Kind     { return KindJSON }
func (XML) Kind() Kind      { return KindXML }
func (Object) Kind() Kind   { return KindObject }
func (Null) Kind() Kind     { return KindNull }
func (DateTime) Kind() Kind { return KindDateTime }
func (Float) Kind() Kind    { return KindFloat }
func (BigInt) Kind() Kind   { return KindBigInt }
func (Bytes) Kind() Kind    { return KindBytes }

func (String) isValue()   {}
func (Boolean) isValue()  {}
func (Enum) isValue()     {}
func (Int) isValue()      {}
func (UUID) isValue()     {}
func (List) isValue()     {}
func (JSON) isValue()     {}
func (XML) isValue()      {}
func (Object) isValue()   {}
func (Null) isValue()     {}
func (DateTime) isValue() {}
func (Float) isValue()    {}
func (BigInt) isValue()   {}
func (Bytes) isValue()    {}

// KindOf returns the kind of v, reporting KindNull for a nil Value.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// Time returns the instant held by d.
func (d DateTime) Time() time.Time {
	return time.Time(d)
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// Get returns the value of the first field named key.
func (o Object) Get(key string) (Value, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}
