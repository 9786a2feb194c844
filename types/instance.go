package types

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/elemental/errors"
	"github.com/wippyai/elemental/resource"
	"github.com/wippyai/elemental/value"
)

const (
	statusAlive int32 = iota
	statusDestroying
	statusFreed
)

// allocation is the single block shared by every view of an instance.
type allocation struct {
	reg    *Registry
	entry  *entry
	block  []byte
	views  []Instance
	refs   atomic.Int64
	status atomic.Int32
	handle resource.Handle
}

// Instance is a view of one level of an allocated instance. The view
// returned by New is the outermost one; Data reaches the others.
type Instance struct {
	alloc *allocation
	state any
	slot  int
}

// Header is the decoded per-level header.
type Header struct {
	Type  Type
	Flags Flags
	// Size is this level's payload size.
	Size uint64
	// Offset is the distance from the start of the allocation to this level.
	Offset uint64
}

func encodeHeader(b []byte, h Header) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(h.Type))
	binary.LittleEndian.PutUint32(b[4:8], uint32(h.Flags))
	binary.LittleEndian.PutUint64(b[8:16], h.Size)
	binary.LittleEndian.PutUint64(b[16:24], h.Offset)
}

func decodeHeader(b []byte) Header {
	return Header{
		Type:   Type(binary.LittleEndian.Uint32(b[0:4])),
		Flags:  Flags(binary.LittleEndian.Uint32(b[4:8])),
		Size:   binary.LittleEndian.Uint64(b[8:16]),
		Offset: binary.LittleEndian.Uint64(b[16:24]),
	}
}

// New allocates an instance of t and constructs it base-first: every
// ancestor block in declaration order, recursively, then t itself. All
// levels receive the same args. It returns the outermost view.
func (r *Registry) New(t Type, args value.Arguments) *Instance {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		panic(errors.Closed(errors.PhaseConstruct))
	}
	e, ok := r.entries[t]
	r.mu.RUnlock()
	if !ok {
		panic(errors.NotFound(errors.PhaseConstruct, "type", uint32(t)))
	}

	a := &allocation{
		reg:   r,
		entry: e,
		block: make([]byte, e.layout.Size),
		views: make([]Instance, len(e.layout.Slots)),
	}

	for i, s := range e.layout.Slots {
		lvl := e.levels[i]
		a.views[i] = Instance{alloc: a, slot: i}
		encodeHeader(a.block[s.Offset:s.Offset+HeaderSize], Header{
			Type:   Type(s.Type),
			Flags:  lvl.info.Flags,
			Size:   uint64(lvl.info.Size),
			Offset: uint64(s.Offset),
		})
		if lvl.info.Construct != nil {
			lvl.info.Construct(&a.views[i], args)
		}
	}

	outer := &a.views[e.layout.Root()]
	if r.options.TrackInstances {
		a.handle = r.table.Insert(uint32(t), outer)
	}

	r.log.Debug("instance created",
		zap.Uint32("type", uint32(t)),
		zap.String("name", e.info.Name),
		zap.Uintptr("size", e.layout.Size),
		zap.Stringer("handle", a.handle),
	)

	return outer
}

// Ref records an additional reference to inst and returns it. For Owned
// types it only returns inst.
func Ref(inst *Instance) *Instance {
	a := inst.live(errors.PhaseLifecycle)
	refs := a.entry.policy.ref(a)
	if a.entry.own == Shared {
		a.notify(resource.EventReferenced, refs)
	}
	return inst
}

// Destroy drops one reference to inst. When no extra references remain it
// runs every level's destructor, self first and then each ancestor subtree
// from the last declared to the first, frees the instance and returns true.
// Destroying a freed instance panics.
func Destroy(inst *Instance) bool {
	a := inst.live(errors.PhaseLifecycle)

	refs, last := a.entry.policy.release(a)
	if !last {
		a.notify(resource.EventReleased, refs)
		return false
	}

	if !a.status.CompareAndSwap(statusAlive, statusDestroying) {
		panic(errors.UseAfterFree(errors.PhaseLifecycle, a.entry.info.Name, uint32(a.entry.info.ID)))
	}

	for _, i := range a.entry.layout.Teardown {
		if d := a.entry.levels[i].info.Destroy; d != nil {
			d(&a.views[i])
		}
	}

	a.status.Store(statusFreed)
	a.block = nil
	for i := range a.views {
		a.views[i].state = nil
	}

	if a.handle != 0 {
		a.reg.table.Remove(a.handle)
	}

	a.reg.log.Debug("instance destroyed",
		zap.Uint32("type", uint32(a.entry.info.ID)),
		zap.String("name", a.entry.info.Name),
		zap.Stringer("handle", a.handle),
	)

	return true
}

// InstanceOf extracts an instance from an Instance value. A nil instance
// yields nil; any other variant, or a foreign payload, panics.
func InstanceOf(v value.Value) *Instance {
	p := v.AsInstance()
	if p == nil {
		return nil
	}
	inst, ok := p.(*Instance)
	if !ok {
		panic(errors.TypeMismatch(errors.PhaseArgument, "", "*types.Instance", fmt.Sprintf("%T", p)))
	}
	return inst
}

func (a *allocation) notify(et resource.EventType, refs int64) {
	if a.handle == 0 {
		return
	}
	a.reg.table.Notify(Event{
		Type:   et,
		Handle: a.handle,
		TypeID: uint32(a.entry.info.ID),
		Refs:   refs,
		Value:  &a.views[a.entry.layout.Root()],
	})
}

// live returns the allocation behind inst, panicking if it has been freed.
// Levels still being torn down remain reachable.
func (inst *Instance) live(phase errors.Phase) *allocation {
	if inst == nil || inst.alloc == nil {
		panic(errors.NilPointer(phase, "instance"))
	}
	a := inst.alloc
	if a.status.Load() == statusFreed {
		panic(errors.UseAfterFree(phase, a.entry.info.Name, uint32(a.entry.info.ID)))
	}
	return a
}

func (inst *Instance) level() *entry {
	return inst.alloc.entry.levels[inst.slot]
}

// Outer returns the outermost view of the instance.
func (inst *Instance) Outer() *Instance {
	a := inst.live(errors.PhaseLookup)
	return &a.views[a.entry.layout.Root()]
}

// Data returns the view of the level belonging to t. Any view may be used;
// lookup always starts from the outermost level. When t occurs more than
// once in the ancestry the first occurrence in depth-first pre-order wins.
func (inst *Instance) Data(t Type) (*Instance, bool) {
	a := inst.live(errors.PhaseLookup)
	idx, ok := a.entry.layout.Index[uint32(t)]
	if !ok {
		return nil, false
	}
	return &a.views[idx], true
}

// MustData is like Data but panics when t is not part of the instance.
func (inst *Instance) MustData(t Type) *Instance {
	v, ok := inst.Data(t)
	if !ok {
		panic(errors.New(errors.PhaseLookup, errors.KindNotFound).
			Type(inst.alloc.entry.info.Name, uint32(inst.alloc.entry.info.ID)).
			Detail("type #%d is not part of this instance", t).
			Build())
	}
	return v
}

// Type returns the type of this view's level.
func (inst *Instance) Type() Type {
	return inst.level().info.ID
}

// Name returns the registered name of this view's level.
func (inst *Instance) Name() string {
	return inst.level().info.Name
}

// IsOf reports whether this view's level is base or extends it.
func (inst *Instance) IsOf(base Type) bool {
	lvl := inst.level()
	if lvl.info.ID == base {
		return true
	}
	_, ok := lvl.layout.Ancestors[uint32(base)]
	return ok
}

// Ownership returns the ownership mode of the outermost type.
func (inst *Instance) Ownership() Ownership {
	return inst.alloc.entry.own
}

// RefCount returns the number of extra references held.
func (inst *Instance) RefCount() int64 {
	return inst.alloc.refs.Load()
}

// Alive reports whether the instance has not been freed.
func (inst *Instance) Alive() bool {
	return inst != nil && inst.alloc != nil && inst.alloc.status.Load() != statusFreed
}

// Handle returns the tracking handle, or 0 when tracking is disabled.
func (inst *Instance) Handle() resource.Handle {
	return inst.alloc.handle
}

// Registry returns the registry that created the instance.
func (inst *Instance) Registry() *Registry {
	return inst.alloc.reg
}

// Size returns the payload size of this view's level.
func (inst *Instance) Size() uintptr {
	return inst.level().info.Size
}

func (inst *Instance) bounds() (uintptr, uintptr) {
	s := inst.alloc.entry.layout.Slots[inst.slot]
	return s.Offset, s.Offset + s.Size
}

// Header decodes this level's header from the allocation.
func (inst *Instance) Header() Header {
	a := inst.live(errors.PhaseLookup)
	start, _ := inst.bounds()
	return decodeHeader(a.block[start : start+HeaderSize])
}

// Bytes returns this level's payload. The slice aliases the allocation.
func (inst *Instance) Bytes() []byte {
	a := inst.live(errors.PhaseLookup)
	start, end := inst.bounds()
	return a.block[start+HeaderSize : end : end]
}

// Block returns the whole allocation, headers included.
func (inst *Instance) Block() []byte {
	return inst.live(errors.PhaseLookup).block
}

// State returns the Go value attached to this level.
func (inst *Instance) State() any {
	return inst.state
}

// SetState attaches a Go value to this level.
func (inst *Instance) SetState(v any) {
	inst.live(errors.PhaseLookup)
	inst.state = v
}

func (inst *Instance) String() string {
	if !inst.Alive() {
		return "instance(freed)"
	}
	return fmt.Sprintf("%s(#%d)@%d", inst.Name(), inst.Type(), inst.slot)
}
