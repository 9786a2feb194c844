package text

import (
	"fmt"
	"strings"

	"github.com/wippyai/elemental/errors"
	"github.com/wippyai/elemental/types"
	"github.com/wippyai/elemental/value"
)

// Construction arguments of the String type.
var (
	ArgLength = value.Key("String", "length")
	ArgValue  = value.Key("String", "value")
)

var decl = types.Declare(func() *types.Info {
	return &types.Info{
		Name:      "String",
		Flags:     types.Static,
		Construct: construct,
	}
})

// Type returns the String type handle, registering it on first use.
func Type() types.Type {
	return decl.Type()
}

// String is a mutable string instance with an allocated size.
//
// Dynamic operations replace the contents and resize the allocation to fit.
// Fixed operations keep the allocated size and truncate what does not fit.
// A String constructed without a value is unset until a dynamic operation
// gives it one; fixed operations on an unset String panic.
type String struct {
	inst  *types.Instance
	value string
	size  int
	set   bool
}

func construct(inst *types.Instance, args value.Arguments) {
	size := args.Number(ArgLength, 0)
	if size < 0 {
		panic(errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Argument(ArgLength).
			Value(size).
			Detail("negative length").
			Build())
	}

	s := &String{inst: inst, size: size}
	if args.Has(ArgValue) {
		s.value = truncate(args.String(ArgValue, ""), size)
		s.set = true
	}
	inst.SetState(s)
}

func truncate(v string, size int) string {
	if len(v) > size {
		return v[:size]
	}
	return v
}

func alloc(args value.Arguments) *String {
	return types.Default().New(Type(), args).State().(*String)
}

// New creates a string holding v, sized to fit it.
func New(v string) *String {
	return NewFull(v, len(v))
}

// NewUnset creates a string with no value and no allocation.
func NewUnset() *String {
	return alloc(nil)
}

// NewAlloc creates a string of n copies of c. n must be positive.
func NewAlloc(n int, c byte) *String {
	if n <= 0 {
		panic(errors.InvalidInput(errors.PhaseConstruct, fmt.Sprintf("string allocation of %d bytes", n)))
	}
	return NewFull(strings.Repeat(string(c), n), n)
}

// NewFull creates a string with an allocated size of length holding v,
// truncated to length.
func NewFull(v string, length int) *String {
	return alloc(value.Arguments{
		{Name: ArgLength, Value: value.Number(length)},
		{Name: ArgValue, Value: value.String(v)},
	})
}

// FromInstance returns the string behind inst, if inst is one.
func FromInstance(inst *types.Instance) (*String, bool) {
	v, ok := inst.Data(Type())
	if !ok {
		return nil, false
	}
	s, ok := v.State().(*String)
	return s, ok
}

func (s *String) check() {
	if s == nil {
		panic(errors.NilPointer(errors.PhaseLifecycle, "string"))
	}
	if !s.inst.Alive() {
		panic(errors.UseAfterFree(errors.PhaseLifecycle, "String", uint32(Type())))
	}
}

func (s *String) checkSet() {
	s.check()
	if !s.set {
		panic(errors.InvalidInput(errors.PhaseArgument, "fixed write to an unset string"))
	}
}

// Value returns the contents and whether the string has been set.
func (s *String) Value() (string, bool) {
	s.check()
	return s.value, s.set
}

// Len returns the allocated size.
func (s *String) Len() int {
	s.check()
	return s.size
}

// IsSet reports whether the string holds a value.
func (s *String) IsSet() bool {
	s.check()
	return s.set
}

// String returns the contents, or "" when unset.
func (s *String) String() string {
	if s == nil || !s.inst.Alive() {
		return ""
	}
	return s.value
}

// Set replaces the contents with v and resizes the allocation to fit.
func (s *String) Set(v string) {
	s.check()
	s.value = v
	s.size = len(v)
	s.set = true
}

// SetFixed replaces the contents with v, cut to the allocated size. It
// reports whether v fit entirely.
func (s *String) SetFixed(v string) bool {
	s.checkSet()
	s.value = truncate(v, s.size)
	return len(v) <= s.size
}

// SetFixedStrict is like SetFixed but panics instead of truncating.
func (s *String) SetFixedStrict(v string) {
	s.checkSet()
	if len(v) > s.size {
		panic(errors.New(errors.PhaseArgument, errors.KindInvalidInput).
			Value(v).
			Detail("%d bytes do not fit in %d", len(v), s.size).
			Build())
	}
	s.value = v
}

// Printf formats into the string, resizing it to fit.
func (s *String) Printf(format string, args ...any) {
	s.Set(fmt.Sprintf(format, args...))
}

// FixedPrintf formats into the allocated size and reports whether the
// output fit.
func (s *String) FixedPrintf(format string, args ...any) bool {
	s.checkSet()
	return s.SetFixed(fmt.Sprintf(format, args...))
}

// Append adds v to the end, resizing to fit.
func (s *String) Append(v string) {
	s.check()
	s.Set(s.value + v)
}

// FixedAppend adds v to the end within the allocated size and reports
// whether it fit.
func (s *String) FixedAppend(v string) bool {
	s.checkSet()
	return s.SetFixed(s.value + v)
}

// Prepend adds v to the front, resizing to fit.
func (s *String) Prepend(v string) {
	s.check()
	s.Set(v + s.value)
}

// FixedPrepend adds v to the front within the allocated size and reports
// whether it fit. The tail is cut on overflow.
func (s *String) FixedPrepend(v string) bool {
	s.checkSet()
	return s.SetFixed(v + s.value)
}

// HasPrefix reports whether the contents start with prefix.
func (s *String) HasPrefix(prefix string) bool {
	s.check()
	return s.set && strings.HasPrefix(s.value, prefix)
}

// HasSuffix reports whether the contents end with suffix.
func (s *String) HasSuffix(suffix string) bool {
	s.check()
	return s.set && strings.HasSuffix(s.value, suffix)
}

// Instance returns the underlying instance.
func (s *String) Instance() *types.Instance {
	return s.inst
}

// Ref takes an extra reference and returns s.
func (s *String) Ref() *String {
	types.Ref(s.inst)
	return s
}

// Destroy drops one reference and reports whether the string was freed.
func (s *String) Destroy() bool {
	return types.Destroy(s.inst)
}
