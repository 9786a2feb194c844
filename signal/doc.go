// Package signal implements synchronous event dispatch on top of the type
// runtime.
//
// A Signal is an instance of the Static "Signal" type in the default
// registry. Handlers are called in most-recently-attached order on the
// emitting goroutine; there is no aggregation of results and no early stop.
// Handlers report back through pointer arguments:
//
//	s := signal.New(false)
//	h := s.Attach(func(s *signal.Signal, args value.Arguments, data any) {
//	    *args.Pointer("Query::count", nil).(*int)++
//	}, nil)
//
//	var count int
//	s.Emit(value.Arguments{{Name: "Query::count", Value: value.Pointer(&count)}})
//
//	s.Detach(h)
//	s.Destroy()
package signal
