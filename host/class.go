package host

import (
	"fmt"
	"iter"
)

// InitFunc constructs a new value of cls from call arguments.
type InitFunc func(c *Call, cls *Class, args []Value) (Value, error)

// MethodFunc implements a method; self is the receiver.
type MethodFunc func(c *Call, self Value, args []Value) (Value, error)

// BinaryFunc implements a binary operator for self and other. It returns
// NotImplemented when it does not accept other.
type BinaryFunc func(c *Call, self, other Value) (Value, error)

// UnaryFunc implements a unary operator.
type UnaryFunc func(c *Call, self Value) (Value, error)

// Property is a named attribute computed from the receiver. A nil Set makes
// it read-only.
type Property struct {
	Get func(c *Call, self Value) (Value, error)
	Set func(c *Call, self Value, v Value) error
	Doc string
}

// Slots hold the sequence and rendering protocol of a class.
type Slots struct {
	Len     func(c *Call, self Value) (int, error)
	GetItem func(c *Call, self, key Value) (Value, error)
	SetItem func(c *Call, self, key, value Value) error
	Iter    func(c *Call, self Value) (iter.Seq[Value], error)
	Repr    func(c *Call, self Value) string
	Str     func(c *Call, self Value) string
}

type method struct {
	fn  MethodFunc
	doc string
}

// Class describes the behaviour of host objects.
type Class struct {
	Name   string
	Module string
	Doc    string
	Slots  Slots

	base      *Class
	init      InitFunc
	attrs     map[string]any
	order     []string
	binary    map[Op]BinaryFunc
	reflected map[Op]BinaryFunc
	inplace   map[Op]BinaryFunc
	unary     map[Op]UnaryFunc
	exception bool
	frozen    bool
}

// NewClass creates a class deriving from base; a nil base derives from object.
func NewClass(name, module string, base *Class) *Class {
	if base == nil {
		base = ObjectType
	}
	return newClass(name, module, base)
}

func newClass(name, module string, base *Class) *Class {
	c := &Class{
		Name:      name,
		Module:    module,
		base:      base,
		attrs:     make(map[string]any),
		binary:    make(map[Op]BinaryFunc),
		reflected: make(map[Op]BinaryFunc),
		inplace:   make(map[Op]BinaryFunc),
		unary:     make(map[Op]UnaryFunc),
	}
	if base != nil {
		c.exception = base.exception
	}
	return c
}

// Base returns the parent class, nil for object.
func (c *Class) Base() *Class { return c.base }

// QualName returns the module-qualified class name.
func (c *Class) QualName() string {
	if c.Module == "" || c.Module == "builtins" {
		return c.Name
	}
	return c.Module + "." + c.Name
}

// IsException reports whether instances of c can be raised.
func (c *Class) IsException() bool { return c.exception }

// IsSubclass reports whether c is other or derives from it.
func (c *Class) IsSubclass(other *Class) bool {
	for k := c; k != nil; k = k.base {
		if k == other {
			return true
		}
	}
	return false
}

// Depth returns the number of ancestors between c and object.
func (c *Class) Depth() int {
	d := 0
	for k := c.base; k != nil && k != ObjectType; k = k.base {
		d++
	}
	return d
}

// Freeze makes the class immutable. Mutating a frozen class panics.
func (c *Class) Freeze() { c.frozen = true }

func (c *Class) mutable() {
	if c.frozen {
		panic(fmt.Sprintf("host: class %s is frozen", c.QualName()))
	}
}

// SetInit sets the constructor.
func (c *Class) SetInit(fn InitFunc) *Class {
	c.mutable()
	c.init = fn
	return c
}

// AddMethod adds a method.
func (c *Class) AddMethod(name string, fn MethodFunc, doc string) *Class {
	c.setAttr(name, &method{fn: fn, doc: doc})
	return c
}

// AddProperty adds a computed attribute.
func (c *Class) AddProperty(name string, p Property) *Class {
	c.setAttr(name, &p)
	return c
}

// SetAttr adds a class-level value such as a constant or static function.
func (c *Class) SetAttr(name string, v Value) *Class {
	c.setAttr(name, v)
	return c
}

func (c *Class) setAttr(name string, v any) {
	c.mutable()
	if _, exists := c.attrs[name]; !exists {
		c.order = append(c.order, name)
	}
	c.attrs[name] = v
}

// SetBinary sets the operator function used when the object is the left
// operand.
func (c *Class) SetBinary(op Op, fn BinaryFunc) *Class {
	c.mutable()
	c.binary[op] = fn
	return c
}

// SetReflected sets the operator function used when the object is the right
// operand and the left operand declined.
func (c *Class) SetReflected(op Op, fn BinaryFunc) *Class {
	c.mutable()
	c.reflected[op] = fn
	return c
}

// SetInPlace sets the augmented assignment form of op.
func (c *Class) SetInPlace(op Op, fn BinaryFunc) *Class {
	c.mutable()
	c.inplace[op] = fn
	return c
}

// SetUnary sets a unary operator function.
func (c *Class) SetUnary(op Op, fn UnaryFunc) *Class {
	c.mutable()
	c.unary[op] = fn
	return c
}

// Attributes returns the names defined directly on c in definition order.
func (c *Class) Attributes() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Operators returns the operators c or its bases implement, left-operand
// form, in Op order.
func (c *Class) Operators() []Op {
	var out []Op
	for op := OpAdd; op < opCount; op++ {
		if c.binaryFunc(op) != nil || c.unaryFunc(op) != nil || c.reflectedFunc(op) != nil {
			out = append(out, op)
		}
	}
	return out
}

// HasAttr reports whether c or a base defines name.
func (c *Class) HasAttr(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

// MethodDoc returns the documentation of a method or property, empty when
// unknown.
func (c *Class) MethodDoc(name string) string {
	if a, ok := c.lookup(name); ok {
		switch m := a.(type) {
		case *method:
			return m.doc
		case *Property:
			return m.Doc
		}
	}
	return ""
}

func (c *Class) lookup(name string) (any, bool) {
	for k := c; k != nil; k = k.base {
		if a, ok := k.attrs[name]; ok {
			return a, true
		}
	}
	return nil, false
}

func (c *Class) initFunc() InitFunc {
	for k := c; k != nil; k = k.base {
		if k.init != nil {
			return k.init
		}
	}
	return nil
}

func (c *Class) binaryFunc(op Op) BinaryFunc {
	for k := c; k != nil; k = k.base {
		if fn, ok := k.binary[op]; ok {
			return fn
		}
	}
	return nil
}

func (c *Class) reflectedFunc(op Op) BinaryFunc {
	for k := c; k != nil; k = k.base {
		if fn, ok := k.reflected[op]; ok {
			return fn
		}
	}
	return nil
}

func (c *Class) inplaceFunc(op Op) BinaryFunc {
	for k := c; k != nil; k = k.base {
		if fn, ok := k.inplace[op]; ok {
			return fn
		}
	}
	return nil
}

func (c *Class) unaryFunc(op Op) UnaryFunc {
	for k := c; k != nil; k = k.base {
		if fn, ok := k.unary[op]; ok {
			return fn
		}
	}
	return nil
}

func (c *Class) slots() Slots {
	var s Slots
	for k := c; k != nil; k = k.base {
		if s.Len == nil {
			s.Len = k.Slots.Len
		}
		if s.GetItem == nil {
			s.GetItem = k.Slots.GetItem
		}
		if s.SetItem == nil {
			s.SetItem = k.Slots.SetItem
		}
		if s.Iter == nil {
			s.Iter = k.Slots.Iter
		}
		if s.Repr == nil {
			s.Repr = k.Slots.Repr
		}
		if s.Str == nil {
			s.Str = k.Slots.Str
		}
	}
	return s
}

// Builtin classes.
var (
	ObjectType   = newClass("object", "builtins", nil)
	TypeType     = newClass("type", "builtins", ObjectType)
	NoneType     = newClass("NoneType", "builtins", ObjectType)
	BoolType     = newClass("bool", "builtins", ObjectType)
	IntType      = newClass("int", "builtins", ObjectType)
	FloatType    = newClass("float", "builtins", ObjectType)
	StrType      = newClass("str", "builtins", ObjectType)
	TupleType    = newClass("tuple", "builtins", ObjectType)
	ListType     = newClass("list", "builtins", ObjectType)
	SliceType    = newClass("slice", "builtins", ObjectType)
	FunctionType = newClass("builtin_function_or_method", "builtins", ObjectType)
	MethodType   = newClass("method", "builtins", ObjectType)
	ModuleType   = newClass("module", "builtins", ObjectType)
)
