package host

import (
	"fmt"

	"github.com/wippyai/imath-bind/errors"
)

// Exception is a raised host exception. It is both an Object, so host code
// can inspect it, and a Go error.
type Exception struct {
	cls     *Class
	Args    Tuple
	Message string
	Cause   error
}

// NewException creates an exception of cls with a single message argument.
func NewException(cls *Class, msg string) *Exception {
	return &Exception{cls: cls, Args: Tuple{msg}, Message: msg}
}

// Raise creates an exception of cls with a formatted message.
func Raise(cls *Class, format string, args ...any) *Exception {
	return NewException(cls, fmt.Sprintf(format, args...))
}

// Class returns the exception class.
func (e *Exception) Class() *Class { return e.cls }

// IsInstance reports whether e is an instance of cls or a subclass.
func (e *Exception) IsInstance(cls *Class) bool {
	return e.cls.IsSubclass(cls)
}

// Error renders the exception the way the host prints it.
func (e *Exception) Error() string {
	if e.Message == "" {
		return e.cls.QualName()
	}
	return e.cls.QualName() + ": " + e.Message
}

// Unwrap returns the native error the exception was translated from.
func (e *Exception) Unwrap() error { return e.Cause }

// NewExceptionClass creates an exception class deriving from base.
func NewExceptionClass(name, module string, base *Class) (*Class, error) {
	if base == nil {
		base = ExceptionClass
	}
	if !base.exception {
		return nil, errors.Registration(name, "base %s is not an exception class", base.QualName())
	}
	return newClass(name, module, base), nil
}

func newBuiltinException(name string, base *Class) *Class {
	c := newClass(name, "builtins", base)
	c.exception = true
	return c
}

// Builtin exception classes.
var (
	BaseException       = newBuiltinException("BaseException", ObjectType)
	ExceptionClass      = newBuiltinException("Exception", BaseException)
	ArithmeticError     = newBuiltinException("ArithmeticError", ExceptionClass)
	ZeroDivisionError   = newBuiltinException("ZeroDivisionError", ArithmeticError)
	OverflowError       = newBuiltinException("OverflowError", ArithmeticError)
	LookupError         = newBuiltinException("LookupError", ExceptionClass)
	IndexError          = newBuiltinException("IndexError", LookupError)
	KeyError            = newBuiltinException("KeyError", LookupError)
	TypeError           = newBuiltinException("TypeError", ExceptionClass)
	ValueError          = newBuiltinException("ValueError", ExceptionClass)
	AttributeError      = newBuiltinException("AttributeError", ExceptionClass)
	NameError           = newBuiltinException("NameError", ExceptionClass)
	SyntaxError         = newBuiltinException("SyntaxError", ExceptionClass)
	ImportError         = newBuiltinException("ImportError", ExceptionClass)
	RuntimeError        = newBuiltinException("RuntimeError", ExceptionClass)
	NotImplementedError = newBuiltinException("NotImplementedError", RuntimeError)
	SystemError         = newBuiltinException("SystemError", ExceptionClass)
)

func init() {
	BaseException.init = exceptionInit
	BaseException.attrs["args"] = &Property{
		Get: func(_ *Call, self Value) (Value, error) {
			return self.(*Exception).Args, nil
		},
		Doc: "constructor arguments",
	}
	BaseException.order = append(BaseException.order, "args")
	BaseException.Slots.Str = func(_ *Call, self Value) string {
		return self.(*Exception).Message
	}
	BaseException.Slots.Repr = func(c *Call, self Value) string {
		e := self.(*Exception)
		if len(e.Args) == 1 {
			return e.cls.Name + "(" + c.Repr(e.Args[0]) + ")"
		}
		return e.cls.Name + c.Repr(e.Args)
	}
}

func exceptionInit(c *Call, cls *Class, args []Value) (Value, error) {
	e := &Exception{cls: cls, Args: append(Tuple(nil), args...)}
	switch len(args) {
	case 0:
	case 1:
		e.Message = c.Str(args[0])
	default:
		e.Message = c.Repr(e.Args)
	}
	return e, nil
}
