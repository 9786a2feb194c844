package signal

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/elemental/errors"
	"github.com/wippyai/elemental/types"
	"github.com/wippyai/elemental/value"
)

// ArgLocking is the construction argument selecting a locking signal.
var ArgLocking = value.Key("Signal", "locking")

var decl = types.Declare(func() *types.Info {
	return &types.Info{
		Name:      "Signal",
		Flags:     types.Static,
		Construct: construct,
		Destroy:   destroy,
	}
})

// Type returns the Signal type handle, registering it on first use.
func Type() types.Type {
	return decl.Type()
}

// Handler is invoked on every Emit. Results are passed back through
// pointer-valued arguments.
type Handler func(s *Signal, args value.Arguments, data any)

// Handle identifies one attachment.
type Handle uint64

type entry struct {
	handler Handler
	data    any
	id      Handle
}

// Signal dispatches to attached handlers synchronously, most recently
// attached first. A locking signal serializes Attach, Detach and Emit; a
// non-locking one leaves synchronization to the caller.
type Signal struct {
	inst *types.Instance
	// entries is replaced, never mutated, so Emit can iterate a snapshot.
	entries []entry
	nextID  Handle
	locking bool
	mu      sync.Mutex
}

func construct(inst *types.Instance, args value.Arguments) {
	inst.SetState(&Signal{
		inst:    inst,
		locking: args.Bool(ArgLocking, false),
	})
}

func destroy(inst *types.Instance) {
	s := inst.State().(*Signal)
	s.lock()
	n := len(s.entries)
	s.entries = nil
	s.unlock()

	Logger().Debug("signal destroyed",
		zap.Uint32("handle", uint32(inst.Handle())),
		zap.Int("entries", n),
	)
}

// New creates a signal in the default registry.
func New(locking bool) *Signal {
	inst := types.Default().New(Type(), value.Arguments{
		{Name: ArgLocking, Value: value.Bool(locking)},
	})
	return inst.State().(*Signal)
}

// NewLocking creates a locking signal.
func NewLocking() *Signal {
	return New(true)
}

// FromInstance returns the signal behind inst, if inst is one.
func FromInstance(inst *types.Instance) (*Signal, bool) {
	if inst == nil {
		return nil, false
	}
	v, ok := inst.Data(Type())
	if !ok {
		return nil, false
	}
	s, ok := v.State().(*Signal)
	return s, ok
}

func (s *Signal) lock() {
	if s.locking {
		s.mu.Lock()
	}
}

func (s *Signal) unlock() {
	if s.locking {
		s.mu.Unlock()
	}
}

func (s *Signal) check() {
	if s == nil {
		panic(errors.NilPointer(errors.PhaseDispatch, "signal"))
	}
	if !s.inst.Alive() {
		panic(errors.UseAfterFree(errors.PhaseDispatch, "Signal", uint32(Type())))
	}
}

// Attach adds h in front of every existing handler and returns a handle for
// Detach. Attaching the same handler and data twice yields two entries.
func (s *Signal) Attach(h Handler, data any) Handle {
	s.check()
	if h == nil {
		panic(errors.NilPointer(errors.PhaseDispatch, "handler"))
	}

	s.lock()
	defer s.unlock()

	s.nextID++
	entries := make([]entry, 0, len(s.entries)+1)
	entries = append(entries, entry{handler: h, data: data, id: s.nextID})
	s.entries = append(entries, s.entries...)

	Logger().Debug("handler attached",
		zap.Uint64("id", uint64(s.nextID)),
		zap.Int("entries", len(s.entries)),
	)

	return s.nextID
}

// Detach removes the entry for h. It reports false when h is not attached.
func (s *Signal) Detach(h Handle) bool {
	s.check()

	s.lock()
	defer s.unlock()

	for i, e := range s.entries {
		if e.id != h {
			continue
		}
		entries := make([]entry, 0, len(s.entries)-1)
		entries = append(entries, s.entries[:i]...)
		s.entries = append(entries, s.entries[i+1:]...)

		Logger().Debug("handler detached",
			zap.Uint64("id", uint64(h)),
			zap.Int("entries", len(s.entries)),
		)
		return true
	}
	return false
}

// Emit calls every attached handler with args, most recently attached first.
// A locking signal holds its lock for the whole emission, so handlers must
// not attach to or detach from it.
func (s *Signal) Emit(args value.Arguments) {
	s.check()

	s.lock()
	defer s.unlock()

	for _, e := range s.entries {
		e.handler(s, args, e.data)
	}
}

// Len returns the number of attached handlers.
func (s *Signal) Len() int {
	s.lock()
	defer s.unlock()
	return len(s.entries)
}

// Locking reports whether the signal serializes its operations.
func (s *Signal) Locking() bool {
	return s.locking
}

// Instance returns the underlying instance.
func (s *Signal) Instance() *types.Instance {
	return s.inst
}

// Ref records an extra reference to the signal.
func (s *Signal) Ref() *Signal {
	types.Ref(s.inst)
	return s
}

// Destroy releases one reference and frees the signal, dropping every
// handler without invoking it, once none remain. It reports whether the
// signal was freed.
func (s *Signal) Destroy() bool {
	return types.Destroy(s.inst)
}
