package prisma

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Equal reports whether two values are structurally equal: same variant,
// same payload. A nil Value equals Null.
//
// Variants never compare equal across kinds, so Int(1) and BigInt(1) differ.
// DateTimes must match in both instant and UTC offset. Floats compare with
// ==, so NaN is unequal to itself. JSON documents compare by their encoded
// form, which orders map keys.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}

	switch av := a.(type) {
	case nil, Null:
		return true
	case String:
		return av == b.(String)
	case Boolean:
		return av == b.(Boolean)
	case Enum:
		return av == b.(Enum)
	case Int:
		return av == b.(Int)
	case UUID:
		return uuid.UUID(av) == uuid.UUID(b.(UUID))
	case XML:
		return av == b.(XML)
	case Float:
		return av == b.(Float)
	case BigInt:
		return av == b.(BigInt)
	case Bytes:
		return bytes.Equal(av, b.(Bytes))
	case DateTime:
		return sameInstantAndOffset(time.Time(av), time.Time(b.(DateTime)))
	case JSON:
		return jsonEqual(av, b.(JSON))
	case List:
		bv := b.(List)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv := b.(Object)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func sameInstantAndOffset(a, b time.Time) bool {
	_, aoff := a.Zone()
	_, boff := b.Zone()
	return a.Equal(b) && aoff == boff
}

func jsonEqual(a, b JSON) bool {
	ad, aerr := json.Marshal(a.Doc)
	bd, berr := json.Marshal(b.Doc)
	if aerr != nil || berr != nil {
		return false
	}
	return bytes.Equal(ad, bd)
}

// ItemsEqual reports whether two resolved trees are structurally equal.
// Map entries must appear in the same order.
func ItemsEqual(a, b Item) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case ValueItem:
		bv, ok := b.(ValueItem)
		return ok && Equal(av.Value, bv.Value)
	case JSONItem:
		bv, ok := b.(JSONItem)
		return ok && bytes.Equal(av, bv)
	case ListItem:
		bv, ok := b.(ListItem)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !ItemsEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case MapItem:
		bv, ok := b.(MapItem)
		if !ok || av.Entries.Len() != bv.Entries.Len() {
			return false
		}
		bkeys := bv.Entries.Keys()
		equal, i := true, 0
		av.Entries.Range(func(k string, ai Item) bool {
			bi, _ := bv.Entries.Get(k)
			if bkeys[i] != k || !ItemsEqual(ai, bi) {
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
