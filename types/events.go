package types

import "github.com/wippyai/elemental/resource"

// Event is an instance lifecycle notification. Value is the outermost view.
type Event = resource.Event[*Instance]

// Observer receives instance lifecycle events from a Registry.
type Observer = resource.Observer[*Instance]

// ObserverFunc adapts a function to Observer.
type ObserverFunc = resource.ObserverFunc[*Instance]
