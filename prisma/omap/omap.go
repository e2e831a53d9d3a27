// Package omap provides an insertion-ordered map with unique string keys.
//
// Result trees coming out of the engine keep their field order, so a plain Go
// map is not enough for them: the order in which keys were inserted is the
// order in which they are iterated and serialized.
package omap

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Map is an insertion-ordered map. The zero value is ready to use.
type Map[V any] struct {
	keys  []string
	index map[string]int
	vals  []V
}

// New creates a map with room for size entries.
func New[V any](size int) *Map[V] {
	return &Map[V]{
		keys:  make([]string, 0, size),
		index: make(map[string]int, size),
		vals:  make([]V, 0, size),
	}
}

// Set stores v under key. Replacing an existing key keeps its position.
func (m *Map[V]) Set(key string, v V) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[key]
	return ok
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map[V]) Range(fn func(key string, v V) bool) {
	if m == nil {
		return
	}
	for i, k := range m.keys {
		if !fn(k, m.vals[i]) {
			return
		}
	}
}

// Clone returns a shallow copy: entries are copied with plain assignment.
func (m *Map[V]) Clone() *Map[V] {
	return MapValues(m, func(v V) V { return v })
}

// MapValues builds a new map with the same keys, in the same order, applying fn to
// every value.
func MapValues[V, W any](m *Map[V], fn func(V) W) *Map[W] {
	out := New[W](m.Len())
	m.Range(func(k string, v V) bool {
		out.Set(k, fn(v))
		return true
	})
	return out
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (m *Map[V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
