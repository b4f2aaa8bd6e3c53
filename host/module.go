package host

import (
	"sync"

	"github.com/wippyai/imath-bind/errors"
)

// Func is the implementation of a module-level function.
type Func func(c *Call, args []Value) (Value, error)

// Function is a callable module attribute.
type Function struct {
	Name   string
	Module string
	Doc    string
	fn     Func
}

// NewFunction creates a function object.
func NewFunction(module, name, doc string, fn Func) *Function {
	return &Function{Name: name, Module: module, Doc: doc, fn: fn}
}

// Class returns the builtin function class.
func (f *Function) Class() *Class { return FunctionType }

// BoundMethod is a method looked up on a receiver.
type BoundMethod struct {
	Self Value
	Name string
	fn   MethodFunc
}

// Class returns the builtin method class.
func (m *BoundMethod) Class() *Class { return MethodType }

// Module is a named collection of classes, functions and constants.
type Module struct {
	Name string
	Doc  string

	mu     sync.RWMutex
	attrs  map[string]Value
	order  []string
	frozen bool
}

// NewModule creates an empty module.
func NewModule(name, doc string) *Module {
	return &Module{
		Name:  name,
		Doc:   doc,
		attrs: make(map[string]Value),
	}
}

// Class returns the builtin module class.
func (m *Module) Class() *Class { return ModuleType }

// Set binds name to v. Names are unique within a module.
func (m *Module) Set(name string, v Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frozen {
		return errors.Registration(m.Name+"."+name, "module is frozen")
	}
	if _, exists := m.attrs[name]; exists {
		return errors.Registration(m.Name+"."+name, "name already bound")
	}
	m.attrs[name] = v
	m.order = append(m.order, name)
	return nil
}

// AddClass binds cls under its own name.
func (m *Module) AddClass(cls *Class) error {
	return m.Set(cls.Name, cls)
}

// AddFunc creates and binds a function.
func (m *Module) AddFunc(name, doc string, fn Func) error {
	return m.Set(name, NewFunction(m.Name, name, doc, fn))
}

// Get looks up a module attribute.
func (m *Module) Get(name string) (Value, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.attrs[name]
	return v, ok
}

// Names returns the bound names in binding order.
func (m *Module) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Classes returns the classes bound in the module, in binding order.
func (m *Module) Classes() []*Class {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Class
	for _, name := range m.order {
		if cls, ok := m.attrs[name].(*Class); ok {
			out = append(out, cls)
		}
	}
	return out
}

// Functions returns the functions bound in the module, in binding order.
func (m *Module) Functions() []*Function {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Function
	for _, name := range m.order {
		if fn, ok := m.attrs[name].(*Function); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Freeze stops further bindings and freezes every class defined by the
// module.
func (m *Module) Freeze() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frozen = true
	for _, v := range m.attrs {
		if cls, ok := v.(*Class); ok && cls.Module == m.Name {
			cls.Freeze()
		}
	}
}
