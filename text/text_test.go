package text

import (
	"testing"

	"github.com/wippyai/elemental/errors"
	"github.com/wippyai/elemental/types"
	"github.com/wippyai/elemental/value"
)

func expectPanic(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	var got *errors.Error
	func() {
		defer func() { got = errors.Recover(recover()) }()
		fn()
	}()
	if got == nil || got.Kind != kind {
		t.Fatalf("expected %s panic, got %v", kind, got)
	}
}

func TestString_Printf(t *testing.T) {
	s := NewUnset()
	defer s.Destroy()

	if s.IsSet() {
		t.Fatal("new unset string should have no value")
	}

	s.Printf("ABC:%d", 123)
	v, ok := s.Value()
	if !ok || v != "ABC:123" {
		t.Fatalf("Value() = %q, %v", v, ok)
	}
	if s.Len() != 7 {
		t.Errorf("Len() = %d, want 7", s.Len())
	}
}

func TestString_Constructors(t *testing.T) {
	tests := []struct {
		name  string
		s     *String
		value string
		size  int
	}{
		{"new", New("hello"), "hello", 5},
		{"empty", New(""), "", 0},
		{"alloc", NewAlloc(3, 'x'), "xxx", 3},
		{"full_truncates", NewFull("hello", 2), "he", 2},
		{"full_larger", NewFull("hi", 8), "hi", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer tt.s.Destroy()
			if v, ok := tt.s.Value(); !ok || v != tt.value {
				t.Errorf("Value() = %q, %v, want %q", v, ok, tt.value)
			}
			if tt.s.Len() != tt.size {
				t.Errorf("Len() = %d, want %d", tt.s.Len(), tt.size)
			}
		})
	}

	expectPanic(t, errors.KindInvalidInput, func() { NewAlloc(0, 'x') })
	expectPanic(t, errors.KindInvalidInput, func() { NewFull("x", -1) })
}

func TestString_Dynamic(t *testing.T) {
	s := New("mid")
	defer s.Destroy()

	s.Append("-end")
	s.Prepend("start-")
	if got := s.String(); got != "start-mid-end" {
		t.Fatalf("String() = %q", got)
	}
	if s.Len() != len("start-mid-end") {
		t.Errorf("dynamic operations should resize, Len() = %d", s.Len())
	}

	s.Set("ab")
	if s.String() != "ab" || s.Len() != 2 {
		t.Errorf("Set should shrink, got %q/%d", s.String(), s.Len())
	}
}

func TestString_Fixed(t *testing.T) {
	tests := []struct {
		name string
		op   func(s *String) bool
		want string
		fit  bool
	}{
		{"set_fits", func(s *String) bool { return s.SetFixed("ab") }, "ab", true},
		{"set_truncates", func(s *String) bool { return s.SetFixed("abcdef") }, "abcd", false},
		{"printf_fits", func(s *String) bool { return s.FixedPrintf("%d", 42) }, "42", true},
		{"printf_truncates", func(s *String) bool { return s.FixedPrintf("n=%d", 12345) }, "n=12", false},
		{"append_fits", func(s *String) bool { s.SetFixed("a"); return s.FixedAppend("bc") }, "abc", true},
		{"append_truncates", func(s *String) bool { s.SetFixed("abc"); return s.FixedAppend("de") }, "abcd", false},
		{"prepend_cuts_tail", func(s *String) bool { s.SetFixed("cd"); return s.FixedPrepend("xyz") }, "xyzc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAlloc(4, ' ')
			defer s.Destroy()

			if fit := tt.op(s); fit != tt.fit {
				t.Errorf("fit = %v, want %v", fit, tt.fit)
			}
			if s.String() != tt.want {
				t.Errorf("String() = %q, want %q", s.String(), tt.want)
			}
			if s.Len() != 4 {
				t.Errorf("fixed operations must keep the size, Len() = %d", s.Len())
			}
		})
	}
}

func TestString_FixedViolations(t *testing.T) {
	s := NewAlloc(2, '.')
	defer s.Destroy()

	expectPanic(t, errors.KindInvalidInput, func() { s.SetFixedStrict("abc") })
	s.SetFixedStrict("ab")
	if s.String() != "ab" {
		t.Errorf("SetFixedStrict should store a fitting value, got %q", s.String())
	}

	unset := NewUnset()
	defer unset.Destroy()
	expectPanic(t, errors.KindInvalidInput, func() { unset.SetFixed("a") })
	expectPanic(t, errors.KindInvalidInput, func() { unset.FixedAppend("a") })
}

func TestString_PrefixSuffix(t *testing.T) {
	s := New("neutron.conf")
	defer s.Destroy()

	tests := []struct {
		arg          string
		prefix, suff bool
	}{
		{"neutron", true, false},
		{".conf", false, true},
		{"", true, true},
		{"neutron.conf.bak", false, false},
	}
	for _, tt := range tests {
		if got := s.HasPrefix(tt.arg); got != tt.prefix {
			t.Errorf("HasPrefix(%q) = %v", tt.arg, got)
		}
		if got := s.HasSuffix(tt.arg); got != tt.suff {
			t.Errorf("HasSuffix(%q) = %v", tt.arg, got)
		}
	}

	unset := NewUnset()
	defer unset.Destroy()
	if unset.HasPrefix("") {
		t.Error("unset string has no prefix")
	}
}

func TestString_Lifecycle(t *testing.T) {
	info, ok := types.Default().Lookup(Type())
	if !ok || !info.Flags.Has(types.Static) {
		t.Fatal("String should be a registered Static type")
	}

	s := New("x").Ref()
	if s.Destroy() {
		t.Fatal("referenced string should survive")
	}
	got, ok := FromInstance(s.Instance())
	if !ok || got != s {
		t.Error("FromInstance should return the string")
	}
	if !s.Destroy() {
		t.Fatal("last Destroy should free")
	}

	if s.String() != "" {
		t.Error("freed string renders empty")
	}
	expectPanic(t, errors.KindUseAfterFree, func() { s.Append("y") })

	var nilString *String
	expectPanic(t, errors.KindNilPointer, func() { nilString.Len() })
}

func TestString_ConstructArguments(t *testing.T) {
	inst := types.Default().New(Type(), value.Arguments{
		{Name: ArgValue, Value: value.String("abc")},
	})
	s, ok := FromInstance(inst)
	if !ok {
		t.Fatal("expected a String")
	}
	defer s.Destroy()

	if v, set := s.Value(); !set || v != "" {
		t.Errorf("missing length defaults to 0 and truncates, got %q/%v", v, set)
	}

	expectPanic(t, errors.KindTypeMismatch, func() {
		types.Default().New(Type(), value.Arguments{{Name: ArgLength, Value: value.String("3")}})
	})
}
