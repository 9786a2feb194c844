package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates which runtime operation raised the error
type Phase string

const (
	PhaseRegister  Phase = "register"  // type registration
	PhaseConstruct Phase = "construct" // instance allocation and construction
	PhaseLookup    Phase = "lookup"    // descriptor and sub-instance lookup
	PhaseLifecycle Phase = "lifecycle" // ref/destroy
	PhaseArgument  Phase = "argument"  // value and argument access
	PhaseDispatch  Phase = "dispatch"  // signal attach/detach/emit
	PhaseManifest  Phase = "manifest"  // manifest parsing and loading
	PhaseTeardown  Phase = "teardown"  // registry shutdown
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindTypeMismatch      Kind = "type_mismatch"
	KindNotExtendable     Kind = "not_extendable"
	KindAlreadyRegistered Kind = "already_registered"
	KindUseAfterFree      Kind = "use_after_free"
	KindNilPointer        Kind = "nil_pointer"
	KindClosed            Kind = "closed"
	KindCycle             Kind = "cycle"
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidData       Kind = "invalid_data"
	KindLiveInstances     Kind = "live_instances"
)

// Error is the structured error type used throughout the runtime.
// Contract violations are raised by panicking with an *Error.
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Argument string
	Detail   string
	TypeID   uint32
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Argument != "" {
		b.WriteString(" at ")
		b.WriteString(e.Argument)
	}

	hasType := e.TypeName != "" || e.TypeID != 0
	if hasType {
		b.WriteString(": type ")
		b.WriteString(typeLabel(e.TypeName, e.TypeID))
	}

	if e.Detail != "" {
		if hasType {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func typeLabel(name string, id uint32) string {
	switch {
	case name != "" && id != 0:
		return fmt.Sprintf("%s(#%d)", name, id)
	case name != "":
		return name
	default:
		return fmt.Sprintf("#%d", id)
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Type sets the offending type name and handle
func (b *Builder) Type(name string, id uint32) *Builder {
	b.err.TypeName = name
	b.err.TypeID = id
	return b
}

// Argument sets the argument name involved
func (b *Builder) Argument(name string) *Builder {
	b.err.Argument = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotFound creates a not-found error for a type handle
func NotFound(phase Phase, what string, id uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		TypeID: id,
		Detail: fmt.Sprintf("%s not registered", what),
	}
}

// TypeMismatch creates a tag mismatch error for a value read under name
func TypeMismatch(phase Phase, argument, want, got string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Argument: argument,
		Detail:   fmt.Sprintf("expected %s, holds %s", want, got),
	}
}

// NotExtendable creates an error for extending a static type
func NotExtendable(name string, id uint32) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindNotExtendable,
		TypeName: name,
		TypeID:   id,
		Detail:   "static types cannot be extended",
	}
}

// AlreadyRegistered creates an error for registering a descriptor twice
func AlreadyRegistered(name string, id uint32) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindAlreadyRegistered,
		TypeName: name,
		TypeID:   id,
		Detail:   "descriptor already carries a handle",
	}
}

// UseAfterFree creates an error for operating on a destroyed instance
func UseAfterFree(phase Phase, name string, id uint32) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUseAfterFree,
		TypeName: name,
		TypeID:   id,
		Detail:   "instance already destroyed",
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Detail: fmt.Sprintf("nil %s", what),
	}
}

// Closed creates an error for using a registry after Close
func Closed(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: "registry closed",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Cycle creates an error for a cyclic extends chain
func Cycle(names []string) *Error {
	return &Error{
		Phase:  PhaseManifest,
		Kind:   KindCycle,
		Detail: "extends cycle between " + strings.Join(names, ", "),
		Value:  names,
	}
}

// LiveInstance creates an error describing an instance still alive at teardown
func LiveInstance(name string, id uint32, handle uint32, refs int64) *Error {
	return &Error{
		Phase:    PhaseTeardown,
		Kind:     KindLiveInstances,
		TypeName: name,
		TypeID:   id,
		Detail:   fmt.Sprintf("instance %d still alive with %d extra reference(s)", handle, refs),
		Value:    handle,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Recover converts a recovered panic value into an *Error when it is one.
// Any other value is re-panicked.
func Recover(r any) *Error {
	if r == nil {
		return nil
	}
	if e, ok := r.(*Error); ok {
		return e
	}
	panic(r)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
