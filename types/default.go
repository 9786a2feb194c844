package types

import (
	"sync"
)

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistryWithDefaults()
	})
	return defaultRegistry
}

// Decl is a lazily registered type. The descriptor is built and registered
// in the default registry the first time Type is called.
type Decl struct {
	build func() *Info
	info  *Info
	once  sync.Once
	id    Type
}

// Declare returns a Decl that registers the descriptor returned by build.
func Declare(build func() *Info) *Decl {
	return &Decl{build: build}
}

// Type registers the declaration if needed and returns its handle.
func (d *Decl) Type() Type {
	d.once.Do(func() {
		d.info = d.build()
		d.id = Default().Register(d.info)
	})
	return d.id
}

// Info returns the registered descriptor, registering it if needed.
func (d *Decl) Info() *Info {
	d.Type()
	return d.info
}
