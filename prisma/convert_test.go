package prisma

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/spicyzboss/prisma-client-go/prisma/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrowInt(t *testing.T) {
	tests := []struct {
		in   int64
		want int32
	}{
		{0, 0},
		{-1, -1},
		{math.MaxInt32, math.MaxInt32},
		{math.MinInt32, math.MinInt32},
		{math.MaxInt32 + 1, math.MinInt32},
		{3_000_000_000, -1_294_967_296},
		{9_000_000_000_000, 2_043_514_880},
		{math.MaxInt64, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NarrowInt(tt.in), "NarrowInt(%d)", tt.in)
	}

	assert.Equal(t, Int(2_043_514_880), FromCore(core.IntValue(9_000_000_000_000)))
}

func TestRoundTripExactVariants(t *testing.T) {
	ts := time.Date(2023, 11, 5, 8, 0, 0, 123_000_000, time.FixedZone("", -5*3600))

	values := []Value{
		Null{},
		String(""),
		String("héllo"),
		Boolean(false),
		Enum("PUBLISHED"),
		Int(math.MinInt32),
		Int(17),
		UUID(uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")),
		XML("<root attr=\"1\"/>"),
		DateTime(ts),
		BigInt(math.MaxInt64),
		Bytes{0xde, 0xad, 0xbe, 0xef},
		List{},
		List{Int(1), List{String("nested")}, Null{}},
		Object{},
		Object{{Key: "k", Value: Int(1)}, {Key: "k", Value: Boolean(true)}},
	}

	for _, v := range values {
		t.Run(v.Kind().String(), func(t *testing.T) {
			c, err := ToCore(v)
			require.NoError(t, err)
			assert.Equal(t, core.Kind(v.Kind()), c.Kind)

			back := FromCore(c)
			assert.True(t, Equal(v, back), "want %v, got %v", v, back)
		})
	}
}

func TestRoundTripCanonicalFirst(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   core.Value
	}{
		{"null", core.Null()},
		{"string", core.StringValue("héllo")},
		{"boolean", core.BooleanValue(true)},
		{"enum", core.EnumValue("DRAFT")},
		{"int", core.IntValue(math.MinInt32)},
		{"uuid", core.UUIDValue(uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"))},
		{"xml", core.XMLValue("<a><b/></a>")},
		{"datetime named zone", core.DateTimeValue(time.Date(2024, 7, 1, 12, 30, 0, 0, berlin))},
		{"datetime utc", core.DateTimeValue(time.Date(2024, 1, 1, 0, 0, 0, 1, time.UTC))},
		{"bigint", core.BigIntValue(math.MinInt64)},
		{"bytes nil", core.BytesValue(nil)},
		{"bytes", core.BytesValue([]byte{0, 0xff})},
		{"float", core.FloatValue(core.MustParseDecimal("1.50"))},
		{"json", core.JSONValue(`{"a":1,"b":[true,null]}`)},
		{"list empty", core.ListValue()},
		{"list", core.ListValue(core.IntValue(1), core.ListValue(core.StringValue("x")))},
		{"object duplicate keys", core.ObjectValue(
			core.Field{Key: "k", Value: core.IntValue(1)},
			core.Field{Key: "k", Value: core.Null()},
			core.Field{Key: "a", Value: core.EnumValue("X")},
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back, err := ToCore(FromCore(tt.in))
			require.NoError(t, err)
			assert.True(t, core.Equal(tt.in, back), "want %v, got %v", tt.in, back)
		})
	}
}

func TestRoundTripFloat(t *testing.T) {
	for _, f := range []float64{1.5, 0.0, -2.0, 0.1, 123456.789, 5e-324, math.MaxFloat64} {
		c, err := ToCore(Float(f))
		require.NoError(t, err)
		assert.Equal(t, core.KindFloat, c.Kind)

		back := FromCore(c)
		assert.Equal(t, Float(f), back, "round trip of %v", f)
	}
}

func TestFloatToDecimal(t *testing.T) {
	d, err := FloatToDecimal(0.1)
	require.NoError(t, err)
	assert.Equal(t, "0.1", core.DecimalString(d))

	d, err = FloatToDecimal(1.5)
	require.NoError(t, err)
	assert.Equal(t, "1.5", core.DecimalString(d))

	d, err = FloatToDecimal(-2)
	require.NoError(t, err)
	assert.Equal(t, 0, core.CompareDecimal(d, core.MustParseDecimal("-2")))
}

func TestToCoreRejectsNonFiniteFloat(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ToCore(Float(f))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonFiniteFloat)

		var nfe *NonFiniteFloatError
		require.ErrorAs(t, err, &nfe)
		if math.IsNaN(f) {
			assert.True(t, math.IsNaN(nfe.Value))
		} else {
			assert.Equal(t, f, nfe.Value)
		}
	}
}

func TestToCoreNestedNonFiniteFloat(t *testing.T) {
	v := Object{
		{Key: "ok", Value: Float(1)},
		{Key: "scores", Value: List{Float(2), Float(math.Inf(1))}},
	}
	_, err := ToCore(v)
	require.Error(t, err)

	var nfe *NonFiniteFloatError
	require.True(t, errors.As(err, &nfe))
	assert.True(t, math.IsInf(nfe.Value, 1))
	assert.Contains(t, err.Error(), `object["scores"]: list[1]`)
}

func TestFromCoreJSON(t *testing.T) {
	v := FromCore(core.JSONValue(`{"id": 12345678901234567890, "tags": ["a"], "ok": true}`))
	j, ok := v.(JSON)
	require.True(t, ok)

	doc, ok := j.Doc.(map[string]any)
	require.True(t, ok)
	// numbers keep their full precision
	assert.Equal(t, json.Number("12345678901234567890"), doc["id"])
	assert.Equal(t, []any{"a"}, doc["tags"])
	assert.Equal(t, true, doc["ok"])

	// and come back as equivalent text
	c, err := ToCore(j)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 12345678901234567890, "tags": ["a"], "ok": true}`, c.Str)
}

func TestFromCoreMalformedJSONFaults(t *testing.T) {
	var fe *FaultError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a panic")
			err, ok := r.(error)
			require.True(t, ok)
			require.ErrorAs(t, err, &fe)
		}()
		FromCore(core.JSONValue("{invalid"))
	}()

	assert.Equal(t, core.KindJSON, fe.Kind)
	assert.ErrorIs(t, fe, errMalformedJSON)
	assert.Contains(t, fe.Error(), "fault: canonical Json value")
}

func TestFromCoreFaultsInsideContainers(t *testing.T) {
	bad := core.ListValue(core.IntValue(1), core.ObjectValue(core.Field{Key: "doc", Value: core.JSONValue("[1,")}))
	assert.Panics(t, func() { FromCore(bad) })

	assert.Panics(t, func() { FromCore(core.FloatValue(pgtype.Numeric{NaN: true, Valid: true})) })
	assert.Panics(t, func() { FromCore(core.Value{Kind: core.Kind(200)}) })
}

func TestFromCoreDateTimeKeepsOffset(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	ts := time.Date(2024, 7, 1, 9, 0, 0, 0, loc)

	got := FromCore(core.DateTimeValue(ts)).(DateTime).Time()
	_, offset := got.Zone()
	assert.Equal(t, -4*3600, offset)
	assert.True(t, ts.Equal(got))
}

func TestToCoreNilIsNull(t *testing.T) {
	c, err := ToCore(nil)
	require.NoError(t, err)
	assert.True(t, c.IsNull())
}
