package prisma

import (
	"math"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUntagged(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("", 2*3600))

	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", Null{}, `null`},
		{"string", String("hello"), `"hello"`},
		{"boolean", Boolean(true), `true`},
		{"enum", Enum("ADMIN"), `"ADMIN"`},
		{"int", Int(-42), `-42`},
		{"uuid", UUID(id), `"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`},
		{"datetime", DateTime(ts), `"2024-03-01T12:30:00+02:00"`},
		{"bigint", BigInt(9_000_000_000_000), `9000000000000`},
		{"float whole", Float(1), `1.0`},
		{"float zero", Float(0), `0.0`},
		{"float negative", Float(-2), `-2.0`},
		{"float fraction", Float(1.5), `1.5`},
		{"float large", Float(1e21), `1e+21`},
		{"float small", Float(1.5e-7), `1.5e-07`},
		{"float nan", Float(math.NaN()), `null`},
		{"float inf", Float(math.Inf(-1)), `null`},
		{"bytes", Bytes{0, 127, 255}, `[0,127,255]`},
		{"bytes empty", Bytes{}, `[]`},
		{"list", List{Int(1), String("a"), Null{}, nil}, `[1,"a",null,null]`},
		{"list empty", List{}, `[]`},
		{"json", JSON{Doc: map[string]any{"a": []any{json.Number("1"), true}}}, `{"a":[1,true]}`},
		{"json null", JSON{}, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalNullMatchesAbsentOptional(t *testing.T) {
	var absent *int
	want, err := json.Marshal(absent)
	require.NoError(t, err)

	got, err := json.Marshal(Null{})
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	// A nil Value inside a container behaves the same way
	got, err = json.Marshal(Object{{Key: "a", Value: nil}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":null}`, string(got))
}

func TestMarshalObjectOrderAndDuplicates(t *testing.T) {
	obj := Object{
		{Key: "z", Value: Int(1)},
		{Key: "a", Value: Int(2)},
		{Key: "z", Value: String("again")},
	}
	got, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"z":"again"}`, string(got))

	got, err = json.Marshal(Object{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
}

func TestMarshalXMLIsText(t *testing.T) {
	got, err := json.Marshal(XML("<a>1</a>"))
	require.NoError(t, err)

	var back string
	require.NoError(t, json.Unmarshal(got, &back))
	assert.Equal(t, "<a>1</a>", back)
}

func TestMarshalNested(t *testing.T) {
	v := Object{
		{Key: "tags", Value: List{Enum("A"), Enum("B")}},
		{Key: "score", Value: Float(3)},
		{Key: "raw", Value: Bytes("hi")},
	}
	got, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"tags":["A","B"],"score":3.0,"raw":[104,105]}`, string(got))
}
