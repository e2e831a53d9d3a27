package prisma

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ErrTrailingData is returned by Decode when input continues after the
// first JSON value.
var ErrTrailingData = errors.New("trailing data after JSON value")

// Decode reads an untagged JSON value, inferring the variant from the shape
// of the payload:
//
//	null                         Null
//	true, false                  Boolean
//	"text"                       String
//	integer within int32         Int
//	integer within int64         BigInt
//	any other number             Float
//	[...]                        List
//	{...}                        Object, keeping key order and repeated keys
//
// The wire form is not injective. Enum, XML, UUID and DateTime values are
// all written as text and come back as String; Bytes come back as a List of
// Int; a JSON document comes back as whatever its shape decodes to; a BigInt
// small enough for 32 bits comes back as Int. Callers that need the original
// variant must carry it out of band.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	// the token stream skips separators without checking them
	if !json.Valid(data) {
		return nil, fmt.Errorf("decode value: %w", errMalformedJSON)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Boolean(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return decodeNumber(t.String())
	case json.Delim:
		switch t {
		case '[':
			return decodeList(dec)
		case '{':
			return decodeObject(dec)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeList(dec *json.Decoder) (Value, error) {
	list := List{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	// closing ]
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return list, nil
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj = append(obj, Field{Key: key, Value: v})
	}
	// closing }
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeNumber(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return Int(i), nil
			}
			return BigInt(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}

// Any holds a Value whose variant is inferred with Decode. It lets
// shape-decoded values sit in ordinary structs.
type Any struct {
	Value Value
}

func (a *Any) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	a.Value = v
	return nil
}

func (a Any) MarshalJSON() ([]byte, error) {
	return marshalValue(a.Value)
}
