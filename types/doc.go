// Package types provides the type registry and instance engine.
//
// A type is a payload size plus zero or more ancestor types. Instances are
// allocated as one contiguous block in which every ancestor's flattened block
// precedes the type's own level, each level starting with a HeaderSize-byte
// header.
//
// # Registering Types
//
//	reg := types.NewRegistryWithDefaults()
//	base := reg.Register(&types.Info{Name: "Base", Size: 8})
//	widget := reg.Register(&types.Info{
//	    Name:      "Widget",
//	    Size:      16,
//	    Extends:   []types.Type{base},
//	    Construct: func(inst *types.Instance, args value.Arguments) { ... },
//	    Destroy:   func(inst *types.Instance) { ... },
//	})
//
// Packages that own a type usually declare it lazily against the default
// registry:
//
//	var widgetDecl = types.Declare(func() *types.Info { return &types.Info{...} })
//	inst := types.Default().New(widgetDecl.Type(), nil)
//
// # Instance Lifecycle
//
// New constructs base-first. Ref and Destroy manage the reference count;
// the Destroy that finds no extra references runs destructors self-first,
// then each ancestor from the last declared to the first, and frees the
// block. Types registered with NoRef are Owned: Ref is a no-op and the first
// Destroy frees.
//
// # Views
//
// Every *Instance is a view of one level. Data(t) returns the view for an
// ancestor (or the type itself) from any view:
//
//	base := inst.MustData(baseType)
//	base.SetState(&baseState{})
//
// Bytes returns a level's raw payload; State/SetState carry a Go value per
// level next to it.
//
// # Contract Violations
//
// Misuse (unknown types, extending Static types, use after free, argument
// tag mismatches) panics with an *errors.Error.
package types
