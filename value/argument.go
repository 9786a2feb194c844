package value

import (
	"github.com/wippyai/elemental/errors"
)

// Argument is one named construction parameter.
type Argument struct {
	Name  string
	Value Value
}

// Arguments is an ordered list of named parameters shared by every level of
// a construction chain. A nil list means "no arguments".
type Arguments []Argument

// Key builds the conventional "Owner::field" argument name so that fields of
// different ancestry levels sharing one list do not collide.
func Key(owner, field string) string {
	return owner + "::" + field
}

// Lookup returns the value of the first argument named exactly name, or def
// when args is empty or has no such entry.
func Lookup(args Arguments, name string, def Value) Value {
	for i := range args {
		if args[i].Name == name {
			return args[i].Value
		}
	}
	return def
}

// Lookup is the method form of the package-level Lookup.
func (a Arguments) Lookup(name string, def Value) Value {
	return Lookup(a, name, def)
}

// With returns a copy of a with one more argument appended.
func (a Arguments) With(name string, v Value) Arguments {
	out := make(Arguments, len(a), len(a)+1)
	copy(out, a)
	return append(out, Argument{Name: name, Value: v})
}

// Has reports whether an argument named name is present.
func (a Arguments) Has(name string) bool {
	for i := range a {
		if a[i].Name == name {
			return true
		}
	}
	return false
}

// Names returns argument names in order.
func (a Arguments) Names() []string {
	names := make([]string, len(a))
	for i := range a {
		names[i] = a[i].Name
	}
	return names
}

// Typed readers. Each returns def when the argument is absent and panics with
// the argument name when the stored tag differs from the one requested.

// Pointer reads a pointer argument.
func (a Arguments) Pointer(name string, def any) any {
	return a.typed(name, KindPointer, Pointer(def)).ref
}

// String reads a string argument.
func (a Arguments) String(name string, def string) string {
	return a.typed(name, KindString, String(def)).str
}

// Number reads a number argument.
func (a Arguments) Number(name string, def int) int {
	return a.typed(name, KindNumber, Number(def)).num
}

// Bool reads a bool argument.
func (a Arguments) Bool(name string, def bool) bool {
	return a.typed(name, KindBool, Bool(def)).b
}

// Instance reads an instance argument.
func (a Arguments) Instance(name string, def any) any {
	return a.typed(name, KindInstance, Instance(def)).ref
}

func (a Arguments) typed(name string, want Kind, def Value) Value {
	v := Lookup(a, name, def)
	if v.kind != want {
		panic(errors.TypeMismatch(errors.PhaseArgument, name, want.String(), v.kind.String()))
	}
	return v
}
