package types

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/wippyai/elemental/errors"
	"github.com/wippyai/elemental/resource"
	"github.com/wippyai/elemental/types/internal/layout"
)

// HeaderSize is the number of bytes every level reserves ahead of its payload.
const HeaderSize = 24

// Options configures registry behavior.
type Options struct {
	// Logger receives registry activity. Nil falls back to the package Logger.
	Logger *zap.Logger
	// TrackInstances records every live instance in a handle table so that
	// Close can report leaks and observers receive lifecycle events.
	TrackInstances bool
}

// DefaultOptions returns default registry configuration.
func DefaultOptions() Options {
	return Options{
		TrackInstances: true,
	}
}

// Slot is one sub-block of a flattened instance.
type Slot struct {
	Offset uintptr
	// Size covers the header and the payload of this level.
	Size  uintptr
	Depth int
	Type  Type
}

type entry struct {
	info   Info
	layout layout.Info
	// levels holds the descriptor for each layout slot. Ancestor levels are
	// captured at registration and never resolved again.
	levels []*entry
	policy refPolicy
	own    Ownership
}

// Registry owns a set of type descriptors and the instances created from them.
// Thread-safe.
type Registry struct {
	entries map[Type]*entry
	calc    *layout.Calculator
	table   *resource.Table[*Instance]
	log     *zap.Logger
	// order is most recently registered first.
	order   []Type
	options Options
	nextID  Type
	closed  bool
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &Registry{
		entries: make(map[Type]*entry),
		calc:    layout.NewCalculator(HeaderSize),
		table:   resource.NewTable[*Instance](),
		log:     log,
		options: opts,
		nextID:  1,
	}
}

// NewRegistryWithDefaults creates an empty registry with default options.
func NewRegistryWithDefaults() *Registry {
	return NewRegistry(DefaultOptions())
}

// Options returns the configuration.
func (r *Registry) Options() Options {
	return r.options
}

// Register validates info, assigns it the next handle and returns it.
// Every ancestor must already be registered and Dynamic. The registry keeps
// its own copy of info, so later edits by the caller have no effect.
func (r *Registry) Register(info *Info) Type {
	if info == nil {
		panic(errors.NilPointer(errors.PhaseRegister, "type info"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		panic(errors.Closed(errors.PhaseRegister))
	}
	if info.ID != None {
		panic(errors.AlreadyRegistered(info.label(), uint32(info.ID)))
	}

	parents := make([]*entry, len(info.Extends))
	for i, anc := range info.Extends {
		parent, ok := r.entries[anc]
		if !ok {
			panic(errors.New(errors.PhaseRegister, errors.KindNotFound).
				Type(info.label(), 0).
				Detail("ancestor #%d not registered", anc).
				Build())
		}
		if parent.info.Flags.Has(Static) {
			panic(errors.NotExtendable(parent.info.label(), uint32(anc)))
		}
		parents[i] = parent
	}

	id := r.nextID
	r.nextID++

	e := &entry{info: info.clone()}
	e.info.ID = id
	e.own = OwnershipOf(e.info.Flags)
	e.policy = policyFor(e.own)

	extends := make([]uint32, len(e.info.Extends))
	for i, anc := range e.info.Extends {
		extends[i] = uint32(anc)
	}
	li, ok := r.calc.Calculate(layout.Node{ID: uint32(id), Size: e.info.Size, Extends: extends}, r.node)
	if !ok {
		panic(errors.NotFound(errors.PhaseRegister, "ancestor", uint32(id)))
	}
	e.layout = li
	e.levels = make([]*entry, 0, len(li.Slots))
	for _, parent := range parents {
		e.levels = append(e.levels, parent.levels...)
	}
	e.levels = append(e.levels, e)

	r.entries[id] = e
	r.order = append([]Type{id}, r.order...)
	info.ID = id

	r.log.Debug("type registered",
		zap.Uint32("type", uint32(id)),
		zap.String("name", e.info.Name),
		zap.Uintptr("size", li.Size),
		zap.Stringer("ownership", e.own),
	)

	return id
}

// describes reports whether info matches the registered descriptor.
func (e *entry) describes(info *Info) bool {
	return info.ID == e.info.ID &&
		info.Name == e.info.Name &&
		info.Size == e.info.Size &&
		info.Flags == e.info.Flags &&
		slices.Equal(info.Extends, e.info.Extends)
}

// node resolves layout input. Callers hold r.mu.
func (r *Registry) node(id uint32) (layout.Node, bool) {
	e, ok := r.entries[Type(id)]
	if !ok {
		return layout.Node{}, false
	}
	extends := make([]uint32, len(e.info.Extends))
	for i, anc := range e.info.Extends {
		extends[i] = uint32(anc)
	}
	return layout.Node{ID: id, Size: e.info.Size, Extends: extends}, true
}

// Unregister removes info from the registry and resets info.ID.
// Unknown descriptors are ignored. Types already extending info keep
// working since they captured its descriptor at registration.
func (r *Registry) Unregister(info *Info) {
	if info == nil || info.ID == None {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := info.ID
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	r.calc.Forget(uint32(id))
	for i, t := range r.order {
		if t == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	info.ID = None

	r.log.Debug("type unregistered",
		zap.Uint32("type", uint32(id)),
		zap.String("name", info.Name),
	)
}

func (r *Registry) lookup(t Type) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[t]
	return e, ok
}

// Lookup returns a copy of the descriptor registered under t.
func (r *Registry) Lookup(t Type) (*Info, bool) {
	e, ok := r.lookup(t)
	if !ok {
		return nil, false
	}
	info := e.info.clone()
	return &info, true
}

// MustLookup is like Lookup but panics when t is not registered.
func (r *Registry) MustLookup(t Type) *Info {
	info, ok := r.Lookup(t)
	if !ok {
		panic(errors.NotFound(errors.PhaseLookup, "type", uint32(t)))
	}
	return info
}

// Name returns the registered name of t, or "" when unknown.
func (r *Registry) Name(t Type) string {
	e, ok := r.lookup(t)
	if !ok {
		return ""
	}
	return e.info.Name
}

// IsOf reports whether base is in the transitive ancestry of t.
// A type is never its own ancestor.
func (r *Registry) IsOf(t, base Type) bool {
	e, ok := r.lookup(t)
	if !ok {
		return false
	}
	_, ok = e.layout.Ancestors[uint32(base)]
	return ok
}

// TotalSize returns the full allocation size for info, headers included.
// info does not need to be registered here, but its ancestors do. The cached
// layout is only used when info describes the type registered under its ID.
func (r *Registry) TotalSize(info *Info) uintptr {
	if info == nil {
		panic(errors.NilPointer(errors.PhaseLookup, "type info"))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[info.ID]; ok && e.describes(info) {
		return e.layout.Size
	}

	size := uintptr(HeaderSize) + info.Size
	for _, anc := range info.Extends {
		e, ok := r.entries[anc]
		if !ok {
			panic(errors.NotFound(errors.PhaseLookup, "ancestor", uint32(anc)))
		}
		size += e.layout.Size
	}
	return size
}

// SizeOf returns the full allocation size of a registered type.
func (r *Registry) SizeOf(t Type) uintptr {
	e, ok := r.lookup(t)
	if !ok {
		panic(errors.NotFound(errors.PhaseLookup, "type", uint32(t)))
	}
	return e.layout.Size
}

// OwnershipOf returns the ownership mode of a registered type.
func (r *Registry) OwnershipOf(t Type) (Ownership, bool) {
	e, ok := r.lookup(t)
	if !ok {
		return Shared, false
	}
	return e.own, true
}

// Layout returns the offset table of t in allocation order, or nil if t is
// unknown. The last slot is t itself.
func (r *Registry) Layout(t Type) []Slot {
	e, ok := r.lookup(t)
	if !ok {
		return nil
	}
	out := make([]Slot, len(e.layout.Slots))
	for i, s := range e.layout.Slots {
		out[i] = Slot{
			Type:   Type(s.Type),
			Offset: s.Offset,
			Size:   s.Size,
			Depth:  s.Depth,
		}
	}
	return out
}

// Types returns copies of every registered descriptor, most recent first.
func (r *Registry) Types() []*Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Info, 0, len(r.order))
	for _, t := range r.order {
		info := r.entries[t].info.clone()
		out = append(out, &info)
	}
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Observe subscribes o to instance lifecycle events. Events are only
// produced when instance tracking is enabled.
func (r *Registry) Observe(o Observer) resource.Subscription {
	return r.table.Subscribe(o)
}

// Unobserve removes a subscription made with Observe.
func (r *Registry) Unobserve(s resource.Subscription) {
	r.table.Unsubscribe(s)
}

// Live returns the outermost view of every tracked live instance.
func (r *Registry) Live() []*Instance {
	snap := r.table.Snapshot()
	out := make([]*Instance, len(snap))
	for i, e := range snap {
		out[i] = e.Value
	}
	return out
}

// LiveCount returns the number of tracked live instances.
func (r *Registry) LiveCount() int {
	return r.table.Len()
}

// Find returns the live instance tracked under h. Handles of destroyed
// instances never resolve, even after their slot is reused.
func (r *Registry) Find(h resource.Handle) (*Instance, bool) {
	return r.table.Get(h)
}

// FindTyped is like Find but also requires the instance to be of type t
// exactly.
func (r *Registry) FindTyped(h resource.Handle, t Type) (*Instance, bool) {
	return r.table.GetTyped(h, uint32(t))
}

// Close stops the registry from accepting registrations or creating
// instances. Every tracked instance still alive is reported in the returned
// error. Calling Close again returns nil.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	var err error
	for _, inst := range r.Live() {
		refs := inst.RefCount()
		r.log.Warn("instance alive at close",
			zap.Uint32("type", uint32(inst.Type())),
			zap.String("name", inst.Name()),
			zap.Uint32("handle", uint32(inst.Handle())),
			zap.Int64("refs", refs),
		)
		err = multierr.Append(err, errors.LiveInstance(inst.Name(), uint32(inst.Type()), uint32(inst.Handle()), refs))
	}

	r.table.Close()
	return err
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}
