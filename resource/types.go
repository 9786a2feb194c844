package resource

import "fmt"

const (
	slotBits = 20
	slotMask = 1<<slotBits - 1
	genMask  = 1<<(32-slotBits) - 1
)

// Handle identifies a live entry in a table. The low bits select a slot and
// the high bits carry the slot's generation, so a handle kept after its entry
// was removed never resolves to whatever reuses the slot later.
// Handle 0 is reserved and always invalid.
type Handle uint32

func makeHandle(slot, gen uint32) Handle {
	return Handle(gen&genMask<<slotBits | slot&slotMask)
}

// Slot returns the 1-based slot index encoded in h.
func (h Handle) Slot() uint32 {
	return uint32(h) & slotMask
}

// Generation returns how many times the slot was reused before h was issued.
func (h Handle) Generation() uint32 {
	return uint32(h) >> slotBits
}

func (h Handle) String() string {
	return fmt.Sprintf("%d.%d", h.Slot(), h.Generation())
}

// EventType enumerates instance lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReferenced
	EventReleased
	EventDestroyed
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventReferenced:
		return "referenced"
	case EventReleased:
		return "released"
	case EventDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Event represents one lifecycle transition of a tracked value.
type Event[T any] struct {
	Value  T
	Refs   int64
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives lifecycle notifications.
// Observers run synchronously on the goroutine that caused the transition.
type Observer[T any] interface {
	OnResourceEvent(Event[T])
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc[T any] func(Event[T])

// OnResourceEvent calls f(e).
func (f ObserverFunc[T]) OnResourceEvent(e Event[T]) {
	f(e)
}
