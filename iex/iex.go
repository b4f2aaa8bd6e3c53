// Package iex is the native exception hierarchy consumed by the bindings.
//
// Classes form a single-rooted tree under BaseExc. A thrown exception is an
// *Exc value carrying its class and a message; catching by base class is
// done with Catch, which walks the class chain.
package iex

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/wippyai/imath-bind/errors"
)

// Library tags name the native library a class belongs to.
const (
	LibraryIex   = "iex"
	LibraryImath = "imath"
)

// Class is a native exception class.
type Class struct {
	base    *Class
	name    string
	library string
	errno   string
	depth   int
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Base returns the parent class, nil for the root.
func (c *Class) Base() *Class { return c.base }

// Depth returns the distance from the root.
func (c *Class) Depth() int { return c.depth }

// Library returns the library tag of the class.
func (c *Class) Library() string { return c.library }

// Errno returns the symbolic errno name for errno classes, empty otherwise.
func (c *Class) Errno() string { return c.errno }

func (c *Class) String() string { return c.name }

// IsA reports whether c is ancestor or derives from it.
func (c *Class) IsA(ancestor *Class) bool {
	for k := c; k != nil; k = k.base {
		if k == ancestor {
			return true
		}
	}
	return false
}

// New creates an exception of class c with a verbatim message.
func (c *Class) New(msg string) *Exc {
	return &Exc{class: c, msg: msg}
}

// Newf creates an exception of class c with a formatted message.
func (c *Class) Newf(format string, args ...any) *Exc {
	return &Exc{class: c, msg: fmt.Sprintf(format, args...)}
}

// Exc is a thrown native exception.
type Exc struct {
	class *Class
	msg   string
}

// Error returns the message exactly as given at construction.
func (e *Exc) Error() string { return e.msg }

// Class returns the class the exception was raised as.
func (e *Exc) Class() *Class { return e.class }

// Catch reports whether err carries a native exception of class cls or a
// subclass of it.
func Catch(err error, cls *Class) (*Exc, bool) {
	var exc *Exc
	if !stderrors.As(err, &exc) {
		return nil, false
	}
	if !exc.class.IsA(cls) {
		return nil, false
	}
	return exc, true
}

var catalog = struct {
	mu      sync.RWMutex
	ordered []*Class
	byName  map[string]*Class
	byErrno map[string]*Class
}{
	byName:  make(map[string]*Class),
	byErrno: make(map[string]*Class),
}

// Define adds a class to the catalogue. Names are unique across the whole
// hierarchy; only the root may have no base.
func Define(name string, base *Class, library string) (*Class, error) {
	if name == "" {
		return nil, errors.Registration(name, "empty class name")
	}
	if base == nil {
		return nil, errors.Registration(name, "base class is required")
	}
	return define(name, base, library, "")
}

func define(name string, base *Class, library, errno string) (*Class, error) {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if _, exists := catalog.byName[name]; exists {
		return nil, errors.Registration(name, "class already defined")
	}

	c := &Class{name: name, base: base, library: library, errno: errno}
	if base != nil {
		c.depth = base.depth + 1
	}
	catalog.ordered = append(catalog.ordered, c)
	catalog.byName[name] = c
	if errno != "" {
		catalog.byErrno[errno] = c
	}
	return c, nil
}

func mustDefine(name string, base *Class, library string) *Class {
	c, err := define(name, base, library, "")
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup finds a class by name.
func Lookup(name string) (*Class, bool) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	c, ok := catalog.byName[name]
	return c, ok
}

// All returns every defined class in definition order. Bases always precede
// their subclasses.
func All() []*Class {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	out := make([]*Class, len(catalog.ordered))
	copy(out, catalog.ordered)
	return out
}

// Library returns the classes carrying the given library tag, in definition
// order.
func Library(tag string) []*Class {
	var out []*Class
	for _, c := range All() {
		if c.library == tag {
			out = append(out, c)
		}
	}
	return out
}

// Core classes.
var (
	BaseExc   = mustDefine("BaseExc", nil, LibraryIex)
	ArgExc    = mustDefine("ArgExc", BaseExc, LibraryIex)
	LogicExc  = mustDefine("LogicExc", BaseExc, LibraryIex)
	InputExc  = mustDefine("InputExc", BaseExc, LibraryIex)
	IoExc     = mustDefine("IoExc", BaseExc, LibraryIex)
	MathExc   = mustDefine("MathExc", BaseExc, LibraryIex)
	ErrnoExc  = mustDefine("ErrnoExc", BaseExc, LibraryIex)
	NoImplExc = mustDefine("NoImplExc", BaseExc, LibraryIex)
	NullExc   = mustDefine("NullExc", BaseExc, LibraryIex)
	TypeExc   = mustDefine("TypeExc", BaseExc, LibraryIex)
)

// Floating point exceptions.
var (
	OverflowExc    = mustDefine("OverflowExc", MathExc, LibraryIex)
	UnderflowExc   = mustDefine("UnderflowExc", MathExc, LibraryIex)
	DivzeroExc     = mustDefine("DivzeroExc", MathExc, LibraryIex)
	InexactExc     = mustDefine("InexactExc", MathExc, LibraryIex)
	InvalidFpOpExc = mustDefine("InvalidFpOpExc", MathExc, LibraryIex)
)

// Exceptions raised by the imath library.
var (
	NullVecExc         = mustDefine("NullVecExc", MathExc, LibraryImath)
	InfPointExc        = mustDefine("InfPointExc", MathExc, LibraryImath)
	NullQuatExc        = mustDefine("NullQuatExc", MathExc, LibraryImath)
	SingMatrixExc      = mustDefine("SingMatrixExc", MathExc, LibraryImath)
	ZeroScaleExc       = mustDefine("ZeroScaleExc", MathExc, LibraryImath)
	IntVecNormalizeExc = mustDefine("IntVecNormalizeExc", MathExc, LibraryImath)
)
