package core

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spicyzboss/prisma-client-go/prisma/omap"
)

// ItemKind identifies the node type of a result tree Item.
type ItemKind byte

const (
	ItemValue ItemKind = iota
	ItemMap
	ItemList
	ItemJSON
	ItemRef
)

func (k ItemKind) String() string {
	switch k {
	case ItemValue:
		return "Value"
	case ItemMap:
		return "Map"
	case ItemList:
		return "List"
	case ItemJSON:
		return "Json"
	case ItemRef:
		return "Ref"
	default:
		return fmt.Sprintf("ItemKind(%d)", byte(k))
	}
}

// Item is a node of a canonical query result tree. Ref nodes point at
// sub-trees shared by several parents; see Ref.
type Item struct {
	Kind  ItemKind
	Map   *omap.Map[Item]
	List  []Item
	Value Value
	JSON  json.RawMessage
	Ref   *Ref
}

func MapItem(m *omap.Map[Item]) Item    { return Item{Kind: ItemMap, Map: m} }
func ListItem(items ...Item) Item       { return Item{Kind: ItemList, List: items} }
func ValueItem(v Value) Item            { return Item{Kind: ItemValue, Value: v} }
func JSONItem(raw json.RawMessage) Item { return Item{Kind: ItemJSON, JSON: raw} }
func RefItem(r *Ref) Item               { return Item{Kind: ItemRef, Ref: r} }

// Clone returns a deep copy of the item. Ref nodes are not copied: the clone
// becomes one more holder of the same shared sub-tree.
func (it Item) Clone() Item {
	switch it.Kind {
	case ItemMap:
		return MapItem(omap.MapValues(it.Map, Item.Clone))
	case ItemList:
		if it.List == nil {
			return it
		}
		out := make([]Item, len(it.List))
		for i, child := range it.List {
			out[i] = child.Clone()
		}
		return ListItem(out...)
	case ItemValue:
		return ValueItem(it.Value.Clone())
	case ItemJSON:
		if it.JSON == nil {
			return it
		}
		return JSONItem(append(json.RawMessage(nil), it.JSON...))
	case ItemRef:
		return RefItem(it.Ref.Share())
	default:
		return it
	}
}

// ItemsEqual reports whether two result trees are structurally equal. Ref
// nodes compare by the sub-tree they point at.
func ItemsEqual(a, b Item) bool {
	if a.Kind == ItemRef {
		return ItemsEqual(a.Ref.Item(), b)
	}
	if b.Kind == ItemRef {
		return ItemsEqual(a, b.Ref.Item())
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ItemValue:
		return Equal(a.Value, b.Value)
	case ItemJSON:
		return string(a.JSON) == string(b.JSON)
	case ItemList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !ItemsEqual(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case ItemMap:
		if a.Map.Len() != b.Map.Len() {
			return false
		}
		equal := true
		bkeys := b.Map.Keys()
		i := 0
		a.Map.Range(func(k string, av Item) bool {
			bv, _ := b.Map.Get(k)
			if bkeys[i] != k || !ItemsEqual(av, bv) {
				equal = false
				return false
			}
			i++
			return true
		})
		return equal
	}
	return false
}
