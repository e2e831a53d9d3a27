package omap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapOrder(t *testing.T) {
	m := New[int](0)
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	// Replacing keeps the original position
	m.Set("b", 10)
	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestMapZeroValue(t *testing.T) {
	var m Map[string]
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("x"))

	m.Set("x", "y")
	assert.True(t, m.Has("x"))

	var nilMap *Map[string]
	_, ok := nilMap.Get("x")
	assert.False(t, ok)
	assert.Nil(t, nilMap.Keys())
}

func TestMapRangeStops(t *testing.T) {
	m := New[int](3)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	var seen []string
	m.Range(func(k string, _ int) bool {
		seen = append(seen, k)
		return k != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestMapValues(t *testing.T) {
	m := New[int](2)
	m.Set("one", 1)
	m.Set("two", 2)

	doubled := MapValues(m, func(v int) int { return v * 2 })
	assert.Equal(t, m.Keys(), doubled.Keys())
	v, _ := doubled.Get("two")
	assert.Equal(t, 4, v)

	clone := m.Clone()
	clone.Set("one", 100)
	orig, _ := m.Get("one")
	assert.Equal(t, 1, orig, "clone must not alias the original")
}

func TestMapMarshalJSON(t *testing.T) {
	m := New[any](3)
	m.Set("z", 1)
	m.Set("a", "text")
	m.Set("m", nil)

	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"text","m":null}`, string(data))

	var empty *Map[any]
	data, err = empty.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
