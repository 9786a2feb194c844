package resource

import (
	"sync"
)

// Subscription identifies a registered observer.
type Subscription uint64

type subscriber[T any] struct {
	obs Observer[T]
	id  Subscription
}

// Entry is a point-in-time copy of one live table entry.
type Entry[T any] struct {
	Value  T
	Handle Handle
	TypeID uint32
}

// Table tracks live values by handle and fans lifecycle events out to observers.
type Table[T any] struct {
	observers []subscriber[T]
	slots     slab[T]
	nextSub   Subscription
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{}
}

// Insert adds a value and returns its handle. It returns 0 once the table
// is closed or full.
func (t *Table[T]) Insert(typeID uint32, value T) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}
	handle, ok := t.slots.insert(typeID, value)
	t.mu.Unlock()
	if !ok {
		return 0
	}

	t.Notify(Event[T]{
		Type:   EventCreated,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return handle
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(handle Handle) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if c, ok := t.slots.lookup(handle); ok {
		return c.value, true
	}
	var zero T
	return zero, false
}

// GetTyped retrieves a value only if it was inserted with typeID.
func (t *Table[T]) GetTyped(handle Handle, typeID uint32) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if c, ok := t.slots.lookup(handle); ok && c.typeID == typeID {
		return c.value, true
	}
	var zero T
	return zero, false
}

// Remove drops an entry and emits EventDestroyed. The handle is dead
// afterwards even if its slot is reused.
func (t *Table[T]) Remove(handle Handle) (T, bool) {
	t.mu.Lock()
	value, typeID, ok := t.slots.drop(handle)
	t.mu.Unlock()
	if !ok {
		return value, false
	}

	t.Notify(Event[T]{
		Type:   EventDestroyed,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer[T]) Subscription {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.nextSub++
	t.observers = append(t.observers, subscriber[T]{obs: o, id: t.nextSub})
	return t.nextSub
}

// Unsubscribe removes an observer. Unknown subscriptions are ignored.
func (t *Table[T]) Unsubscribe(s Subscription) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, sub := range t.observers {
		if sub.id == s {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots.live
}

// Snapshot copies the live entries in slot order.
func (t *Table[T]) Snapshot() []Entry[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry[T], 0, t.slots.live)
	t.slots.each(func(h Handle, typeID uint32, value T) bool {
		out = append(out, Entry[T]{Handle: h, TypeID: typeID, Value: value})
		return true
	})
	return out
}

// Close stops accepting inserts and forgets every entry without notifying.
func (t *Table[T]) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.slots.reset()
}

// Notify delivers e to every observer in subscription order.
func (t *Table[T]) Notify(e Event[T]) {
	t.obsMu.RLock()
	subs := make([]subscriber[T], len(t.observers))
	copy(subs, t.observers)
	t.obsMu.RUnlock()

	for _, s := range subs {
		s.obs.OnResourceEvent(e)
	}
}
