package value

import (
	"fmt"

	"github.com/wippyai/elemental/errors"
)

// Kind describes which variant a Value holds.
type Kind uint8

const (
	KindPointer Kind = iota
	KindString
	KindNumber
	KindBool
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindPointer:
		return "pointer"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a closed tagged union. There is no conversion between variants;
// reading a variant other than the stored one panics.
type Value struct {
	ref  any
	str  string
	num  int
	kind Kind
	b    bool
}

// Pointer wraps an arbitrary reference. A nil Pointer is the usual default.
func Pointer(p any) Value {
	return Value{kind: KindPointer, ref: p}
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number wraps an integer.
func Number(n int) Value {
	return Value{kind: KindNumber, num: n}
}

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Instance wraps a runtime instance reference. The value is kept opaque here;
// the types package provides the typed accessor.
func Instance(inst any) Value {
	return Value{kind: KindInstance, ref: inst}
}

// Kind returns the stored variant.
func (v Value) Kind() Kind {
	return v.kind
}

// Is reports whether v holds variant k.
func (v Value) Is(k Kind) bool {
	return v.kind == k
}

// AsPointer returns the stored reference. Panics unless v is a pointer.
func (v Value) AsPointer() any {
	v.expect(KindPointer)
	return v.ref
}

// AsString returns the stored string. Panics unless v is a string.
func (v Value) AsString() string {
	v.expect(KindString)
	return v.str
}

// AsNumber returns the stored integer. Panics unless v is a number.
func (v Value) AsNumber() int {
	v.expect(KindNumber)
	return v.num
}

// AsBool returns the stored boolean. Panics unless v is a bool.
func (v Value) AsBool() bool {
	v.expect(KindBool)
	return v.b
}

// AsInstance returns the stored instance reference. Panics unless v is an instance.
func (v Value) AsInstance() any {
	v.expect(KindInstance)
	return v.ref
}

// String renders the value for logs and inspection.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("string(%q)", v.str)
	case KindNumber:
		return fmt.Sprintf("number(%d)", v.num)
	case KindBool:
		return fmt.Sprintf("bool(%t)", v.b)
	case KindInstance:
		if v.ref == nil {
			return "instance(nil)"
		}
		return fmt.Sprintf("instance(%T)", v.ref)
	default:
		if v.ref == nil {
			return "pointer(nil)"
		}
		return fmt.Sprintf("pointer(%T)", v.ref)
	}
}

func (v Value) expect(k Kind) {
	if v.kind != k {
		panic(errors.TypeMismatch(errors.PhaseArgument, "", k.String(), v.kind.String()))
	}
}
