package list

import (
	"github.com/wippyai/elemental/errors"
	"github.com/wippyai/elemental/types"
	"github.com/wippyai/elemental/value"
)

// Construction arguments of the List type.
var (
	ArgPrev  = value.Key("List", "prev")
	ArgNext  = value.Key("List", "next")
	ArgValue = value.Key("List", "value")
)

var decl *types.Decl

// decl is assigned in init to break the initialization cycle
// decl -> construct -> FromInstance -> Type -> decl.
func init() {
	decl = types.Declare(func() *types.Info {
		return &types.Info{
			Name:      "List",
			Flags:     types.Static,
			Construct: construct,
			Destroy:   destroy,
		}
	})
}

// Type returns the List type handle, registering it on first use.
func Type() types.Type {
	return decl.Type()
}

// List is one node of a doubly-linked list of values. A nil *List is the
// empty list.
type List struct {
	inst  *types.Instance
	prev  *List
	next  *List
	value value.Value
}

func construct(inst *types.Instance, args value.Arguments) {
	l := &List{
		inst:  inst,
		value: args.Lookup(ArgValue, value.Pointer(nil)),
	}

	if prev := neighbour(args, ArgPrev); prev != nil {
		l.prev = prev
		prev.next = l
	}
	if next := neighbour(args, ArgNext); next != nil {
		l.next = next
		next.prev = l
	}

	inst.SetState(l)
}

func neighbour(args value.Arguments, name string) *List {
	v := args.Lookup(name, value.Instance(nil))
	if !v.Is(value.KindInstance) {
		panic(errors.TypeMismatch(errors.PhaseConstruct, name, value.KindInstance.String(), v.Kind().String()))
	}
	inst := types.InstanceOf(v)
	if inst == nil {
		return nil
	}
	l, ok := FromInstance(inst)
	if !ok {
		panic(errors.New(errors.PhaseConstruct, errors.KindTypeMismatch).
			Argument(name).
			Type(inst.Name(), uint32(inst.Type())).
			Detail("not a list node").
			Build())
	}
	return l
}

func destroy(inst *types.Instance) {
	inst.State().(*List).unlink()
}

func (l *List) unlink() {
	if l.prev != nil {
		l.prev.next = l.next
	}
	if l.next != nil {
		l.next.prev = l.prev
	}
	l.prev, l.next = nil, nil
}

func alloc(args value.Arguments) *List {
	return types.Default().New(Type(), args).State().(*List)
}

// FromInstance returns the node behind inst, if inst is one.
func FromInstance(inst *types.Instance) (*List, bool) {
	v, ok := inst.Data(Type())
	if !ok {
		return nil, false
	}
	l, ok := v.State().(*List)
	return l, ok
}

// Alloc creates a single-node list holding v.
func Alloc(v value.Value) *List {
	return alloc(value.Arguments{{Name: ArgValue, Value: v}})
}

// Head returns the first node of the list l belongs to.
func (l *List) Head() *List {
	if l == nil {
		return nil
	}
	for l.prev != nil {
		l = l.prev
	}
	return l
}

// Tail returns the last node of the list l belongs to.
func (l *List) Tail() *List {
	if l == nil {
		return nil
	}
	for l.next != nil {
		l = l.next
	}
	return l
}

// Len counts the nodes from l to the tail.
func (l *List) Len() int {
	n := 0
	for ; l != nil; l = l.next {
		n++
	}
	return n
}

// Prepend adds v before the head and returns the new head.
func (l *List) Prepend(v value.Value) *List {
	args := value.Arguments{{Name: ArgValue, Value: v}}
	if head := l.Head(); head != nil {
		args = args.With(ArgNext, value.Instance(head.inst))
	}
	return alloc(args)
}

// Append adds v after the tail and returns the head.
func (l *List) Append(v value.Value) *List {
	args := value.Arguments{{Name: ArgValue, Value: v}}
	tail := l.Tail()
	if tail != nil {
		args = args.With(ArgPrev, value.Instance(tail.inst))
	}
	item := alloc(args)
	if tail == nil {
		return item
	}
	return tail.Head()
}

// Value returns the value stored in the node.
func (l *List) Value() value.Value {
	return l.value
}

// SetValue replaces the value stored in the node.
func (l *List) SetValue(v value.Value) {
	l.value = v
}

// Next returns the following node, or nil at the tail.
func (l *List) Next() *List {
	if l == nil {
		return nil
	}
	return l.next
}

// Prev returns the preceding node, or nil at the head.
func (l *List) Prev() *List {
	if l == nil {
		return nil
	}
	return l.prev
}

// Each calls fn for l and every following node until fn returns false.
func (l *List) Each(fn func(n *List) bool) {
	for n := l; n != nil; {
		next := n.next
		if !fn(n) {
			return
		}
		n = next
	}
}

// Values collects the values from l to the tail.
func (l *List) Values() []value.Value {
	out := make([]value.Value, 0, l.Len())
	l.Each(func(n *List) bool {
		out = append(out, n.value)
		return true
	})
	return out
}

// Remove unlinks l, drops one reference to it and returns the head of what
// remains. A node still referenced elsewhere survives as a single-node list.
func (l *List) Remove() *List {
	if l == nil {
		return nil
	}
	rest := l.prev
	if rest == nil {
		rest = l.next
	}
	l.unlink()
	types.Destroy(l.inst)
	return rest.Head()
}

// Free unlinks every node of the list l belongs to and drops one reference
// to each.
func (l *List) Free() {
	l.Head().Each(func(n *List) bool {
		n.unlink()
		types.Destroy(n.inst)
		return true
	})
}

// Instance returns the node's underlying instance.
func (l *List) Instance() *types.Instance {
	return l.inst
}
