package prisma

import (
	"github.com/goccy/go-json"
	"github.com/spicyzboss/prisma-client-go/prisma/omap"
)

// Item is a node of a resolved query result tree. Implementations are
// MapItem, ListItem, ValueItem and JSONItem. Every node is exclusively
// owned by its parent; shared sub-trees from the engine are resolved away.
type Item interface {
	json.Marshaler
	isItem()
}

// MapItem maps field names to child items. Keys are unique and keep the
// order in which the engine produced them.
type MapItem struct {
	Entries *omap.Map[Item]
}

// ListItem is an ordered sequence of items.
type ListItem []Item

// ValueItem is a single scalar or structured field value.
type ValueItem struct {
	Value Value
}

// JSONItem is a JSON document passed through from the engine untouched.
type JSONItem json.RawMessage

func (MapItem) isItem()   {}
func (ListItem) isItem()  {}
func (ValueItem) isItem() {}
func (JSONItem) isItem()  {}

// NewMapItem returns an empty MapItem with room for size entries.
func NewMapItem(size int) MapItem {
	return MapItem{Entries: omap.New[Item](size)}
}

// Get returns the child stored under key.
func (m MapItem) Get(key string) (Item, bool) {
	return m.Entries.Get(key)
}

func (m MapItem) MarshalJSON() ([]byte, error) {
	return m.Entries.MarshalJSON()
}

func (l ListItem) MarshalJSON() ([]byte, error) {
	out := []byte{'['}
	for i, it := range l {
		if i > 0 {
			out = append(out, ',')
		}
		data, err := marshalItem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return append(out, ']'), nil
}

func (v ValueItem) MarshalJSON() ([]byte, error) {
	return marshalValue(v.Value)
}

func (j JSONItem) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return nullJSON, nil
	}
	return j, nil
}

func marshalItem(it Item) ([]byte, error) {
	if it == nil {
		return nullJSON, nil
	}
	return it.MarshalJSON()
}
