// Package annotations provides a low-overhead event system for observing
// result resolution: which shared sub-trees were reclaimed or copied, how many
// values were converted and where conversion faulted.
package annotations

import (
	"sync"
	"time"
)

// Event name constants following a hierarchical naming pattern
const (
	// Resolution lifecycle
	ResolveBegin    = "resolve/begin"
	ResolveComplete = "resolve/completed"

	// Shared sub-trees
	RefReclaimed = "ref/reclaimed"
	RefCloned    = "ref/cloned"

	// Errors
	ErrorFault = "error/fault"
)

// Event represents a single annotation event.
type Event struct {
	Name    string         // Event name using the constants above
	Start   time.Time      // Start timestamp
	End     time.Time      // End timestamp
	Latency time.Duration  // Duration (End - Start)
	Data    map[string]any // Event-specific data
}

// Handler processes annotation events as they occur.
type Handler func(event Event)

// Collector accumulates events and forwards them to a handler. A collector
// without a handler is disabled and records nothing.
type Collector struct {
	enabled bool
	retain  bool
	handler Handler

	mu     sync.Mutex
	events []Event
}

// NewCollector creates a new annotation collector.
func NewCollector(handler Handler) *Collector {
	return &Collector{
		enabled: handler != nil,
		retain:  true,
		handler: handler,
		events:  make([]Event, 0, 16),
	}
}

// NewForwarder creates a collector that only forwards events to handler.
// Events returns nothing for it.
func NewForwarder(handler Handler) *Collector {
	return &Collector{enabled: handler != nil, handler: handler}
}

// Enabled reports whether events are being recorded.
func (c *Collector) Enabled() bool {
	return c != nil && c.enabled
}

// Add records a new event.
// Thread-safe for concurrent access.
func (c *Collector) Add(event Event) {
	if !c.Enabled() {
		return
	}

	if c.retain {
		c.mu.Lock()
		c.events = append(c.events, event)
		c.mu.Unlock()
	}

	// Call handler outside the lock to avoid deadlocks
	c.handler(event)
}

// AddTiming records an event that started at start and ends now.
func (c *Collector) AddTiming(name string, start time.Time, data map[string]any) {
	if !c.Enabled() {
		return
	}

	end := time.Now()
	c.Add(Event{
		Name:    name,
		Start:   start,
		End:     end,
		Latency: end.Sub(start),
		Data:    data,
	})
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	eventsCopy := make([]Event, len(c.events))
	copy(eventsCopy, c.events)
	return eventsCopy
}

// Reset clears the collected events, keeping the handler.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
}

// Multi fans an event out to several handlers. Nil handlers are skipped.
func Multi(handlers ...Handler) Handler {
	var live []Handler
	for _, h := range handlers {
		if h != nil {
			live = append(live, h)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(event Event) {
		for _, h := range live {
			h(event)
		}
	}
}
