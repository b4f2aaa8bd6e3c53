package host

// Value is any value the host can hold: nil (None), bool, int64, float64,
// string, Tuple, *List, *Slice or an Object.
type Value = any

// Object is a host value whose behaviour is described by a class.
type Object interface {
	Class() *Class
}

// Tuple is an immutable host sequence.
type Tuple []Value

// List is a mutable host sequence.
type List struct {
	Items []Value
}

// NewList creates a list holding items.
func NewList(items ...Value) *List {
	return &List{Items: items}
}

// Slice is a slice key as passed to GetItem and SetItem. Nil bounds take the
// sequence defaults.
type Slice struct {
	Start Value
	Stop  Value
	Step  Value
}

type notImplemented struct{}

// NotImplemented is returned by operator functions that do not accept the
// other operand, so the host can try the reflected operation.
var NotImplemented Value = notImplemented{}

// Instance is an object wrapping a native value. The native value is owned by
// the instance; bindings copy it in and out across the boundary.
type Instance struct {
	cls    *Class
	Native any
}

// NewInstance wraps native as an instance of cls.
func NewInstance(cls *Class, native any) *Instance {
	return &Instance{cls: cls, Native: native}
}

// Class returns the instance's class.
func (i *Instance) Class() *Class { return i.cls }

// ClassOf returns the class describing v.
func ClassOf(v Value) *Class {
	switch x := v.(type) {
	case nil:
		return NoneType
	case bool:
		return BoolType
	case int64, int:
		return IntType
	case float64:
		return FloatType
	case string:
		return StrType
	case Tuple:
		return TupleType
	case *List:
		return ListType
	case *Slice:
		return SliceType
	case *Class:
		return TypeType
	case Object:
		return x.Class()
	}
	return ObjectType
}

// TypeName returns the host type name of v, as used in error messages.
func TypeName(v Value) string {
	return ClassOf(v).Name
}

// IsInstance reports whether v is an instance of cls or a subclass of it.
func IsInstance(v Value, cls *Class) bool {
	return ClassOf(v).IsSubclass(cls)
}

// AsInt converts a host integer (bool included) to int64.
func AsInt(v Value) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// AsFloat converts any host number to float64.
func AsFloat(v Value) (float64, bool) {
	if f, ok := v.(float64); ok {
		return f, true
	}
	if i, ok := AsInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

// IsNumber reports whether v is a host int, float or bool.
func IsNumber(v Value) bool {
	_, ok := AsFloat(v)
	return ok
}

// identical compares two values by identity, tolerating uncomparable types.
func identical(a, b Value) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
