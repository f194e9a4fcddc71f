package events

import (
	"context"
	"sync"
)

// Emitted is one recorded event.
type Emitted struct {
	Event   string
	Payload interface{}
}

// MemoryBus records events in memory. Used by tests to assert on
// emission order and payloads.
type MemoryBus struct {
	mu     sync.Mutex
	events []Emitted
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

func (b *MemoryBus) Emit(_ context.Context, event string, payload interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, Emitted{Event: event, Payload: payload})
	return nil
}

// Events returns a copy of everything emitted so far.
func (b *MemoryBus) Events() []Emitted {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Emitted, len(b.events))
	copy(out, b.events)
	return out
}

// Names returns just the event names, in emission order.
func (b *MemoryBus) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, len(b.events))
	for i, e := range b.events {
		names[i] = e.Event
	}
	return names
}

// Reset clears the recorded events.
func (b *MemoryBus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}
