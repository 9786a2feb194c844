// Package errors provides structured error types for the elemental runtime.
//
// Errors are categorized by Phase (which operation raised them) and Kind
// (error category). The Error type carries the offending type name and
// handle, the argument name for value access failures, and a cause chain.
//
// Contract violations (unknown type handles, value tag mismatches, extending
// a static type, touching a destroyed instance) are programmer errors. The
// runtime raises them by panicking with an *Error rather than returning it:
//
//	defer func() {
//		if err := errors.Recover(recover()); err != nil {
//			log.Printf("contract violation: %v", err)
//		}
//	}()
//
// Soft failures (manifest parsing, teardown leak reports) are returned as
// ordinary errors. Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseRegister, errors.KindNotExtendable).
//		Type("Signal", 3).
//		Detail("cannot extend %s", "Signal").
//		Build()
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
