package core

import (
	"sync/atomic"
)

// Ref is a result sub-tree shared by more than one parent. Every parent holds
// the Ref once; the holder count is tracked atomically so that holders on
// different goroutines can drop or reclaim the sub-tree concurrently.
//
// A holder that finishes with the Ref either releases it or takes the
// sub-tree with TryUnwrap/UnwrapOrClone. Only the last holder can take the
// sub-tree without copying it.
type Ref struct {
	holders  atomic.Int64
	consumed atomic.Bool
	item     Item
}

// NewRef wraps item in a Ref with a single holder.
func NewRef(item Item) *Ref {
	r := &Ref{item: item}
	r.holders.Store(1)
	return r
}

// Share registers one more holder and returns r.
func (r *Ref) Share() *Ref {
	for {
		n := r.holders.Load()
		if n <= 0 {
			panic("BUG: Ref.Share called on a ref with no holders left (already released or unwrapped)")
		}
		if r.holders.CompareAndSwap(n, n+1) {
			return r
		}
	}
}

// Release drops one holder without taking the sub-tree.
func (r *Ref) Release() {
	n := r.holders.Add(-1)
	if n < 0 {
		panic("BUG: Ref released more times than it was shared")
	}
}

// Holders returns the current number of holders.
func (r *Ref) Holders() int64 {
	return r.holders.Load()
}

// Consumed reports whether the sub-tree has been moved out by TryUnwrap.
func (r *Ref) Consumed() bool {
	return r.consumed.Load()
}

// Item returns the shared sub-tree for read-only access. The returned tree
// must not be modified: other holders see the same nodes.
func (r *Ref) Item() Item {
	if r.consumed.Load() {
		panic("BUG: Ref.Item called after the sub-tree was unwrapped")
	}
	return r.item
}

// TryUnwrap moves the sub-tree out of r when the caller is the only holder.
// On success the holder count drops to zero and r is consumed. Otherwise r
// is left untouched and the caller still holds it.
func (r *Ref) TryUnwrap() (Item, bool) {
	if !r.holders.CompareAndSwap(1, 0) {
		return Item{}, false
	}
	item := r.item
	r.item = Item{}
	r.consumed.Store(true)
	return item, true
}

// UnwrapOrClone takes exclusive ownership of the sub-tree. When the caller is
// the last holder the sub-tree is moved out with no copy; otherwise it is
// deep-copied and the caller's hold is released, leaving the original intact
// for the remaining holders. The bool reports whether the sub-tree was
// reclaimed without copying.
func (r *Ref) UnwrapOrClone() (Item, bool) {
	if item, ok := r.TryUnwrap(); ok {
		return item, true
	}
	// The clone must finish before Release: once this hold is dropped,
	// another holder may become unique and move the sub-tree out.
	item := r.item.Clone()
	r.Release()
	return item, false
}
