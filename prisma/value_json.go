package prisma

import (
	"bytes"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var nullJSON = []byte("null")

// marshalValue encodes v, writing a nil Value as null.
func marshalValue(v Value) ([]byte, error) {
	if v == nil {
		return nullJSON, nil
	}
	return v.MarshalJSON()
}

// Null serializes exactly like an absent optional value.
func (Null) MarshalJSON() ([]byte, error) {
	return nullJSON, nil
}

func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (b Boolean) MarshalJSON() ([]byte, error) {
	return strconv.AppendBool(nil, bool(b)), nil
}

func (e Enum) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(e))
}

func (i Int) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(i), 10), nil
}

func (u UUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(u).String())
}

func (x XML) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(x))
}

func (j JSON) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Doc)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.RFC3339Nano))
}

func (i BigInt) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(i), 10), nil
}

// MarshalJSON writes f as a JSON number that always carries a fraction or an
// exponent, so 1.0 is written "1.0" and decodes back as a Float rather than
// an Int. NaN and infinities have no JSON form and are written as null.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nullJSON, nil
	}
	abs := math.Abs(v)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	out := strconv.AppendFloat(nil, v, format, -1, 64)
	if !bytes.ContainsAny(out, ".e") {
		out = append(out, '.', '0')
	}
	return out, nil
}

// MarshalJSON writes the bytes as an array of numbers, not base64 text.
func (b Bytes) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, 2+len(b)*4)
	out = append(out, '[')
	for i, c := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(c), 10)
	}
	return append(out, ']'), nil
}

func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := marshalValue(v)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON writes the fields in order. Repeated keys are all written.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		data, err := marshalValue(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
