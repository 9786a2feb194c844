package manifest

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/wippyai/elemental/types"
	"github.com/wippyai/elemental/value"
)

// Set maps the names of a registered manifest to their handles.
type Set struct {
	reg    *types.Registry
	byName map[string]types.Type
	byType map[types.Type]string
	infos  []*types.Info
	name   string
}

func newSet(reg *types.Registry, name string) *Set {
	return &Set{
		reg:    reg,
		name:   name,
		byName: make(map[string]types.Type),
		byType: make(map[types.Type]string),
	}
}

func (s *Set) add(name string, info *types.Info) {
	s.byName[name] = info.ID
	s.byType[info.ID] = name
	s.infos = append(s.infos, info)
}

// Name returns the manifest name.
func (s *Set) Name() string {
	return s.name
}

// Registry returns the registry the set was registered in.
func (s *Set) Registry() *types.Registry {
	return s.reg
}

// Type returns the handle registered for name.
func (s *Set) Type(name string) (types.Type, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// TypeName returns the declared name of t, or "" if t is not in the set.
func (s *Set) TypeName(t types.Type) string {
	return s.byType[t]
}

// Names returns the declared names in lexical order.
func (s *Set) Names() []string {
	names := maps.Keys(s.byName)
	slices.Sort(names)
	return names
}

// Len returns the number of types in the set.
func (s *Set) Len() int {
	return len(s.infos)
}

// Unregister removes every type of the set, most derived first.
func (s *Set) Unregister() {
	for i := len(s.infos) - 1; i >= 0; i-- {
		s.reg.Unregister(s.infos[i])
	}
	s.infos = nil
	maps.Clear(s.byName)
	maps.Clear(s.byType)
}

// TraceEvent is one recorded constructor or destructor call.
type TraceEvent struct {
	Op   string
	Type string
}

func (e TraceEvent) String() string {
	return e.Op + " " + e.Type
}

// Trace records lifecycle calls of traced types. Safe for concurrent use.
type Trace struct {
	events []TraceEvent
	mu     sync.Mutex
}

func (t *Trace) record(op, name string) {
	t.mu.Lock()
	t.events = append(t.events, TraceEvent{Op: op, Type: name})
	t.mu.Unlock()
}

func (t *Trace) hook(info *types.Info) {
	name := info.Name
	info.Construct = func(*types.Instance, value.Arguments) { t.record("construct", name) }
	info.Destroy = func(*types.Instance) { t.record("destroy", name) }
}

// Events returns a copy of the recorded events.
func (t *Trace) Events() []TraceEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.events)
}

// Reset drops every recorded event.
func (t *Trace) Reset() {
	t.mu.Lock()
	t.events = nil
	t.mu.Unlock()
}
