package prisma

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/spicyzboss/prisma-client-go/prisma/core"
)

var errMalformedJSON = errors.New("malformed JSON text")

// NarrowInt converts the engine's 64-bit Int to the 32-bit form by
// truncation: the low 32 bits are kept and reinterpreted as two's
// complement, so 3_000_000_000 becomes -1_294_967_296. Values outside the
// int32 range are never rejected or clamped.
func NarrowInt(i int64) int32 {
	return int32(i)
}

// FloatToDecimal converts f to the shortest decimal that reads back as f.
// NaN and infinities are rejected with a *NonFiniteFloatError.
func FloatToDecimal(f float64) (pgtype.Numeric, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return pgtype.Numeric{}, &NonFiniteFloatError{Value: f}
	}
	return core.ParseDecimal(strconv.FormatFloat(f, 'e', -1, 64))
}

// FromCore converts a canonical engine value to a Value.
//
// The conversion is total for well-formed input. Int is narrowed with
// NarrowInt and Float goes through a lossy decimal to float64 conversion.
// Input that breaks the engine's own guarantees (Json text that does not
// parse, a non-finite decimal, an unknown kind) panics with *FaultError.
func FromCore(v core.Value) Value {
	switch v.Kind {
	case core.KindNull:
		return Null{}
	case core.KindString:
		return String(v.Str)
	case core.KindBoolean:
		return Boolean(v.Bool)
	case core.KindEnum:
		return Enum(v.Str)
	case core.KindInt:
		return Int(NarrowInt(v.Int))
	case core.KindUUID:
		return UUID(v.UUID)
	case core.KindXML:
		return XML(v.Str)
	case core.KindDateTime:
		return DateTime(fixedOffset(v.Time))
	case core.KindBigInt:
		return BigInt(v.Int)
	case core.KindBytes:
		return Bytes(v.Bytes)
	case core.KindFloat:
		f, err := core.DecimalFloat64(v.Decimal)
		if err != nil {
			panic(fault(v.Kind, "is not a finite decimal", err))
		}
		return Float(f)
	case core.KindJSON:
		doc, err := parseJSONText(v.Str)
		if err != nil {
			panic(fault(v.Kind, "is not valid JSON", err))
		}
		return JSON{Doc: doc}
	case core.KindList:
		out := make(List, len(v.List))
		for i, e := range v.List {
			out[i] = FromCore(e)
		}
		return out
	case core.KindObject:
		out := make(Object, len(v.Object))
		for i, f := range v.Object {
			out[i] = Field{Key: f.Key, Value: FromCore(f.Value)}
		}
		return out
	default:
		panic(fault(v.Kind, "has an unknown kind", nil))
	}
}

// ToCore converts a Value back to the engine's canonical form. Int widens
// losslessly; Float becomes a decimal and fails with *NonFiniteFloatError
// for NaN and infinities; JSON is encoded back to text. A nil Value becomes
// Null. Errors inside List and Object values name the element that failed.
func ToCore(v Value) (core.Value, error) {
	switch v := v.(type) {
	case nil, Null:
		return core.Null(), nil
	case String:
		return core.StringValue(string(v)), nil
	case Boolean:
		return core.BooleanValue(bool(v)), nil
	case Enum:
		return core.EnumValue(string(v)), nil
	case Int:
		return core.IntValue(int64(v)), nil
	case UUID:
		return core.UUIDValue(uuid.UUID(v)), nil
	case XML:
		return core.XMLValue(string(v)), nil
	case DateTime:
		return core.DateTimeValue(time.Time(v)), nil
	case BigInt:
		return core.BigIntValue(int64(v)), nil
	case Bytes:
		return core.BytesValue([]byte(v)), nil
	case Float:
		d, err := FloatToDecimal(float64(v))
		if err != nil {
			return core.Value{}, err
		}
		return core.FloatValue(d), nil
	case JSON:
		text, err := json.Marshal(v.Doc)
		if err != nil {
			return core.Value{}, fmt.Errorf("encode json value: %w", err)
		}
		return core.JSONValue(string(text)), nil
	case List:
		out := make([]core.Value, len(v))
		for i, e := range v {
			c, err := ToCore(e)
			if err != nil {
				return core.Value{}, fmt.Errorf("list[%d]: %w", i, err)
			}
			out[i] = c
		}
		return core.ListValue(out...), nil
	case Object:
		out := make([]core.Field, len(v))
		for i, f := range v {
			c, err := ToCore(f.Value)
			if err != nil {
				return core.Value{}, fmt.Errorf("object[%q]: %w", f.Key, err)
			}
			out[i] = core.Field{Key: f.Key, Value: c}
		}
		return core.ObjectValue(out...), nil
	default:
		return core.Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// parseJSONText decodes Json text keeping numbers as json.Number, so
// integers wider than 53 bits survive.
func parseJSONText(text string) (any, error) {
	if !json.Valid([]byte(text)) {
		return nil, errMalformedJSON
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// fixedOffset pins t to a fixed zone with the same offset, dropping any
// location rules.
func fixedOffset(t time.Time) time.Time {
	name, offset := t.Zone()
	return t.In(time.FixedZone(name, offset))
}
