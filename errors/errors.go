package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in a boundary crossing the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // host constructor call
	PhaseConvert   Phase = "convert"   // host value to native value
	PhaseOperator  Phase = "operator"  // operator dispatch
	PhaseIndex     Phase = "index"     // sequence indexing and slicing
	PhaseAttribute Phase = "attribute" // field and method lookup
	PhaseCall      Phase = "call"      // function and method calls
	PhaseTranslate Phase = "translate" // exception translation
	PhaseRegister  Phase = "register"  // class and exception registration
	PhaseConfig    Phase = "config"    // configuration loading
	PhaseWasm      Phase = "wasm"      // wasm host module adapter
)

// Kind categorizes the error
type Kind string

const (
	KindArgument       Kind = "argument"
	KindTypeMismatch   Kind = "type_mismatch"
	KindUnsupported    Kind = "unsupported"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindInvalidValue   Kind = "invalid_value"
	KindLengthMismatch Kind = "length_mismatch"
	KindOverflow       Kind = "overflow"
	KindNotFound       Kind = "not_found"
	KindUnregistered   Kind = "unregistered"
	KindRegistration   Kind = "registration"
	KindPanic          Kind = "panic"
	KindInvalidInput   Kind = "invalid_input"
)

// Error is the structured error type used by the binding layer
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	HostType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.HostType != "" {
		b.WriteString(": ")
		switch {
		case e.GoType != "" && e.HostType != "":
			b.WriteString("expected ")
			b.WriteString(e.GoType)
			b.WriteString(", got ")
			b.WriteString(e.HostType)
		case e.GoType != "":
			b.WriteString("expected ")
			b.WriteString(e.GoType)
		default:
			b.WriteString("got ")
			b.WriteString(e.HostType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.HostType != "" {
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

// Message returns the text shown to host code: the detail when present,
// otherwise the full rendering.
func (e *Error) Message() string {
	if e.Detail != "" && e.GoType == "" && e.HostType == "" {
		return e.Detail
	}
	return e.Error()
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

// Path sets the attribute path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the expected native type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// HostType sets the host type name that was received
func (b *Builder) HostType(t string) *Builder {
	b.err.HostType = t
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

// ArgumentCount reports a call with the wrong number of arguments
func ArgumentCount(phase Phase, callee string, want string, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArgument,
		Path:   []string{callee},
		Detail: fmt.Sprintf("%s() takes %s arguments (%d given)", callee, want, got),
		Value:  got,
	}
}

// ScalarKind reports a host value whose kind does not match the native scalar
func ScalarKind(phase Phase, path []string, want, got string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		GoType:   want,
		HostType: got,
	}
}

// TypeMismatch creates a type mismatch error with a free-form detail
func TypeMismatch(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// UnsupportedOperands reports a binary operator no rule accepts
func UnsupportedOperands(op, left, right string) *Error {
	return &Error{
		Phase:  PhaseOperator,
		Kind:   KindUnsupported,
		Detail: fmt.Sprintf("unsupported operand type(s) for %s: '%s' and '%s'", op, left, right),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of range (length %d)", index, length),
		Value:  index,
	}
}

// LengthMismatch reports two sequences that must have equal length
func LengthMismatch(phase Phase, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLengthMismatch,
		Detail: fmt.Sprintf("dimensions of source (%d) do not match destination (%d)", got, want),
		Value:  got,
	}
}

// InvalidValue creates an invalid value error
func InvalidValue(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidValue,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		GoType: target,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s has no attribute '%s'", what, name),
	}
}

// Unregistered reports an exception with no registered counterpart
func Unregistered(direction, class string) *Error {
	return &Error{
		Phase:  PhaseTranslate,
		Kind:   KindUnregistered,
		Detail: fmt.Sprintf("%s exception %s has no registered counterpart", direction, class),
	}
}

// Registration creates a registration error
func Registration(name string, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindRegistration,
		Path:   []string{name},
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Panic converts a recovered panic value into an error
func Panic(phase Phase, recovered any) *Error {
	e := &Error{
		Phase: phase,
		Kind:  KindPanic,
		Value: recovered,
	}
	if err, ok := recovered.(error); ok {
		e.Cause = err
		e.Detail = "native panic"
	} else {
		e.Detail = fmt.Sprintf("native panic: %v", recovered)
	}
	return e
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
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
