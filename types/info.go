package types

import (
	"strings"

	"github.com/wippyai/elemental/value"
)

// Type is a registry-assigned type handle.
type Type uint32

// None is the zero handle. No registered type ever carries it.
const None Type = 0

// Flags are per-type registration flags.
type Flags uint32

const (
	// Dynamic types may be extended. This is the zero value.
	Dynamic Flags = 0
	// Static types are leaves and cannot appear in another type's Extends.
	Static Flags = 1 << 0
	// NoRef types are not reference counted; one Destroy always frees.
	NoRef Flags = 1 << 1
)

// Has reports whether every bit in x is set.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

func (f Flags) String() string {
	if f == Dynamic {
		return "dynamic"
	}
	var parts []string
	if f.Has(Static) {
		parts = append(parts, "static")
	} else {
		parts = append(parts, "dynamic")
	}
	if f.Has(NoRef) {
		parts = append(parts, "noref")
	}
	return strings.Join(parts, "|")
}

// Info describes a type. Register assigns ID; everything else is supplied by
// the declaring package.
type Info struct {
	// Construct initializes this level of a new instance. It receives the
	// argument list passed to New, shared by every level.
	Construct func(inst *Instance, args value.Arguments)
	// Destroy releases this level's resources. It must not free the instance.
	Destroy func(inst *Instance)
	Name    string
	Extends []Type
	Size    uintptr
	Flags   Flags
	ID      Type
}

func (i *Info) label() string {
	if i.Name != "" {
		return i.Name
	}
	return "anonymous"
}

func (i *Info) clone() Info {
	c := *i
	if i.Extends != nil {
		c.Extends = make([]Type, len(i.Extends))
		copy(c.Extends, i.Extends)
	}
	return c
}
