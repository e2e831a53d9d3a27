package prisma

import (
	"fmt"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/spicyzboss/prisma-client-go/prisma/annotations"
	"github.com/spicyzboss/prisma-client-go/prisma/core"
	"github.com/spicyzboss/prisma-client-go/prisma/omap"
)

// Stats counts resolver outcomes. It may be shared by resolvers running on
// several goroutines.
type Stats struct {
	reclaimed *xsync.Counter
	cloned    *xsync.Counter
	values    *xsync.Counter
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Reclaimed int64 // shared sub-trees taken over without copying
	Cloned    int64 // shared sub-trees deep-copied because other holders remained
	Values    int64 // scalar leaves converted with FromCore
}

// NewStats creates zeroed counters.
func NewStats() *Stats {
	return &Stats{
		reclaimed: xsync.NewCounter(),
		cloned:    xsync.NewCounter(),
		values:    xsync.NewCounter(),
	}
}

// Snapshot reads the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Reclaimed: s.reclaimed.Value(),
		Cloned:    s.cloned.Value(),
		Values:    s.values.Value(),
	}
}

// Reset zeroes the counters.
func (s *Stats) Reset() {
	s.reclaimed.Reset()
	s.cloned.Reset()
	s.values.Reset()
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHandler sends resolution events to h.
func WithHandler(h annotations.Handler) Option {
	return func(r *Resolver) { r.handler = h }
}

// WithStats accumulates resolution counts into s.
func WithStats(s *Stats) Option {
	return func(r *Resolver) { r.stats = s }
}

// Resolver turns canonical result trees into exclusively owned Item trees.
// A Resolver is safe for concurrent use.
type Resolver struct {
	handler annotations.Handler
	stats   *Stats
}

// NewResolver creates a resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = NewResolver()

// Resolve converts item with a resolver that records nothing.
func Resolve(item core.Item) Item {
	return defaultResolver.Resolve(item)
}

// resolution carries the per-call state of one Resolve.
type resolution struct {
	collector *annotations.Collector
	stats     *Stats
	local     StatsSnapshot
}

// Resolve walks item post-order and builds the resolved tree. Value leaves
// go through FromCore and Json leaves pass through unchanged.
//
// Each Ref node is resolved from the sub-tree it points to. If the caller's
// hold is the last one the sub-tree is moved out of the Ref and converted
// without copying; otherwise it is deep-copied first and the original stays
// intact for the other holders. Which path is taken depends on the holder
// count at that moment, so resolving the same tree shape can copy in one run
// and not in another. Either way the caller's hold on the Ref is consumed.
//
// A malformed canonical value panics with *FaultError; the panic is
// reported to the handler and then propagated.
func (r *Resolver) Resolve(item core.Item) Item {
	res := &resolution{
		collector: annotations.NewForwarder(r.handler),
		stats:     r.stats,
	}
	start := time.Now()
	if res.collector.Enabled() {
		res.collector.Add(annotations.Event{
			Name:  annotations.ResolveBegin,
			Start: start,
			End:   start,
			Data:  map[string]any{"root": item.Kind.String()},
		})
	}

	defer func() {
		if p := recover(); p != nil {
			if fe, ok := p.(*FaultError); ok {
				res.collector.AddTiming(annotations.ErrorFault, start, map[string]any{
					"error": fe.Error(),
				})
			}
			panic(p)
		}
	}()

	out := res.resolve(item)

	res.collector.AddTiming(annotations.ResolveComplete, start, map[string]any{
		"values.count":   res.local.Values,
		"refs.reclaimed": res.local.Reclaimed,
		"refs.cloned":    res.local.Cloned,
	})
	return out
}

func (res *resolution) resolve(item core.Item) Item {
	switch item.Kind {
	case core.ItemMap:
		return MapItem{Entries: omap.MapValues(item.Map, res.resolve)}

	case core.ItemList:
		out := make(ListItem, len(item.List))
		for i, child := range item.List {
			out[i] = res.resolve(child)
		}
		return out

	case core.ItemValue:
		res.local.Values++
		if res.stats != nil {
			res.stats.values.Inc()
		}
		return ValueItem{Value: FromCore(item.Value)}

	case core.ItemJSON:
		return JSONItem(item.JSON)

	case core.ItemRef:
		return res.resolveRef(item.Ref)

	default:
		panic(fmt.Sprintf("BUG: unknown result item kind %v", item.Kind))
	}
}

func (res *resolution) resolveRef(ref *core.Ref) Item {
	start := time.Now()
	holders := ref.Holders()

	sub, reclaimed := ref.UnwrapOrClone()
	if reclaimed {
		res.local.Reclaimed++
		if res.stats != nil {
			res.stats.reclaimed.Inc()
		}
		res.collector.AddTiming(annotations.RefReclaimed, start, map[string]any{
			"kind": sub.Kind.String(),
		})
	} else {
		res.local.Cloned++
		if res.stats != nil {
			res.stats.cloned.Inc()
		}
		res.collector.AddTiming(annotations.RefCloned, start, map[string]any{
			"kind":    sub.Kind.String(),
			"holders": holders,
		})
	}
	return res.resolve(sub)
}
