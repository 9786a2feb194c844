// Package elemental is an embeddable object and type runtime.
//
// Types are registered at run time as a payload size plus zero or more
// extended parent types. The runtime allocates instances with a flattened
// multi-parent layout, constructs and destroys them level by level, counts
// references, and passes construction parameters as named tagged values.
// A synchronous signal primitive builds on top of it.
//
// # Architecture Overview
//
//	elemental/
//	├── value/            Tagged values and named arguments
//	├── types/            Type registry, layout and instance engine
//	├── signal/           Synchronous event dispatch
//	├── list/             Doubly-linked list of values
//	├── text/             Mutable strings
//	├── resource/         Live-instance handle table and lifecycle observers
//	├── manifest/         YAML type manifests and bulk registration
//	├── errors/           Structured contract-violation errors
//	└── cmd/ntinspect/    CLI and terminal browser for registries
//
// # Quick Start
//
//	reg := types.NewRegistryWithDefaults()
//	defer reg.Close()
//
//	base := reg.Register(&types.Info{Name: "Base", Size: 8})
//	leaf := reg.Register(&types.Info{
//	    Name:    "Leaf",
//	    Flags:   types.Static,
//	    Extends: []types.Type{base},
//	})
//
//	inst := reg.New(leaf, nil)
//	inst.MustData(base).Bytes()[0] = 1
//	types.Destroy(inst)
//
// # Signals
//
//	s := signal.New(false)
//	s.Attach(func(s *signal.Signal, args value.Arguments, data any) {
//	    fmt.Println(args.String("Event::name", ""))
//	}, nil)
//	s.Emit(value.Arguments{{Name: "Event::name", Value: value.String("ready")}})
//	s.Destroy()
//
// # Error Handling
//
// Misuse of the runtime (unknown types, extending a Static type, use after
// free, argument tag mismatches) panics with an *errors.Error carrying the
// phase and kind of the violation. Recoverable failures such as manifest
// parsing and leak reports at Close are returned as errors.
package elemental
