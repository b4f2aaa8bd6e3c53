package host

import (
	stderrors "errors"

	"github.com/wippyai/imath-bind/errors"
)

// Translator converts exceptions between native code and the host.
type Translator interface {
	// ToHost converts a native failure. It reports false when err is not a
	// native exception the translator knows about.
	ToHost(err error) (*Exception, bool)

	// ToNative converts a host exception into the native error to raise.
	ToNative(exc *Exception) error
}

// kindClasses maps binding error kinds to the builtin exception raised for
// them.
var kindClasses = map[errors.Kind]*Class{
	errors.KindArgument:       TypeError,
	errors.KindTypeMismatch:   TypeError,
	errors.KindUnsupported:    TypeError,
	errors.KindOutOfBounds:    IndexError,
	errors.KindInvalidValue:   ValueError,
	errors.KindLengthMismatch: ValueError,
	errors.KindOverflow:       OverflowError,
	errors.KindInvalidInput:   ValueError,
	errors.KindNotFound:       AttributeError,
	errors.KindUnregistered:   SystemError,
	errors.KindRegistration:   SystemError,
	errors.KindPanic:          RuntimeError,
}

// ClassForKind returns the builtin exception class raised for a binding
// error kind.
func ClassForKind(kind errors.Kind) *Class {
	if cls, ok := kindClasses[kind]; ok {
		return cls
	}
	return RuntimeError
}

// FromError maps a binding error onto a builtin exception by kind. Errors
// that carry no kind become a RuntimeError.
func FromError(err error) *Exception {
	cls := RuntimeError
	msg := err.Error()
	var be *errors.Error
	if stderrors.As(err, &be) {
		cls = ClassForKind(be.Kind)
		msg = be.Message()
	}
	return &Exception{cls: cls, Args: Tuple{msg}, Message: msg, Cause: err}
}

// ToHost converts any error leaving native code into a host exception.
// Host exceptions pass through; native exceptions go through the translator;
// binding errors map by kind; anything else is a RuntimeError.
func (r *Runtime) ToHost(err error) *Exception {
	if exc, ok := err.(*Exception); ok {
		return exc
	}
	if r.translator != nil {
		if exc, ok := r.translator.ToHost(err); ok {
			return exc
		}
	}
	return FromError(err)
}

// ToNative converts a host exception into a native error. Without a
// translator the exception itself is returned.
func (r *Runtime) ToNative(exc *Exception) error {
	if r.translator == nil {
		return exc
	}
	return r.translator.ToNative(exc)
}
