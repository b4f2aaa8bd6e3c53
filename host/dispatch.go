package host

import (
	"fmt"
	"iter"

	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/internal/seq"
)

// The methods below run inside an active crossing. They return untranslated
// errors; translation happens once, when the outermost crossing ends.

// Call calls a function, bound method or class.
func (c *Call) Call(callee Value, args ...Value) (Value, error) {
	switch f := callee.(type) {
	case *Function:
		return f.fn(c, args)
	case *BoundMethod:
		return f.fn(c, f.Self, args)
	case *Class:
		ctor := f.initFunc()
		if ctor == nil {
			return nil, errors.Unsupported(errors.PhaseConstruct, fmt.Sprintf("cannot create '%s' instances", f.QualName()))
		}
		return ctor(c, f, args)
	}
	return nil, errors.Unsupported(errors.PhaseCall, fmt.Sprintf("'%s' object is not callable", TypeName(callee)))
}

// CallMethod looks up name on obj and calls it.
func (c *Call) CallMethod(obj Value, name string, args ...Value) (Value, error) {
	fn, err := c.GetAttr(obj, name)
	if err != nil {
		return nil, err
	}
	return c.Call(fn, args...)
}

// GetAttr reads an attribute of obj.
func (c *Call) GetAttr(obj Value, name string) (Value, error) {
	switch o := obj.(type) {
	case *Module:
		if v, ok := o.Get(name); ok {
			return v, nil
		}
		return nil, errors.NotFound(errors.PhaseAttribute, fmt.Sprintf("module '%s'", o.Name), name)
	case *Class:
		return c.classAttr(o, name)
	}

	cls := ClassOf(obj)
	if a, ok := cls.lookup(name); ok {
		switch a := a.(type) {
		case *method:
			return &BoundMethod{Self: obj, Name: name, fn: a.fn}, nil
		case *Property:
			return a.Get(c, obj)
		default:
			return a, nil
		}
	}
	return nil, errors.NotFound(errors.PhaseAttribute, fmt.Sprintf("'%s' object", cls.Name), name)
}

func (c *Call) classAttr(cls *Class, name string) (Value, error) {
	switch name {
	case "__name__":
		return cls.Name, nil
	case "__module__":
		return cls.Module, nil
	case "__doc__":
		return cls.Doc, nil
	}
	a, ok := cls.lookup(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseAttribute, fmt.Sprintf("type object '%s'", cls.Name), name)
	}
	if m, ok := a.(*method); ok {
		// Unbound: the receiver is the first argument.
		return NewFunction(cls.Module, cls.Name+"."+name, m.doc, func(c *Call, args []Value) (Value, error) {
			if len(args) == 0 {
				return nil, errors.ArgumentCount(errors.PhaseCall, cls.Name+"."+name, "at least 1", 0)
			}
			return m.fn(c, args[0], args[1:])
		}), nil
	}
	if _, ok := a.(*Property); ok {
		return nil, errors.NotFound(errors.PhaseAttribute, fmt.Sprintf("type object '%s'", cls.Name), name)
	}
	return a, nil
}

// SetAttr writes an attribute of obj.
func (c *Call) SetAttr(obj Value, name string, v Value) error {
	cls := ClassOf(obj)
	a, ok := cls.lookup(name)
	if !ok {
		return errors.NotFound(errors.PhaseAttribute, fmt.Sprintf("'%s' object", cls.Name), name)
	}
	p, ok := a.(*Property)
	if !ok || p.Set == nil {
		return errors.New(errors.PhaseAttribute, errors.KindNotFound).
			Path(cls.Name, name).
			Detail("attribute '%s' of '%s' objects is not writable", name, cls.Name).
			Build()
	}
	return p.Set(c, obj, v)
}

// Binary applies op to a and b following the reflected-operand protocol.
func (c *Call) Binary(op Op, a, b Value) (Value, error) {
	ca, cb := ClassOf(a), ClassOf(b)

	if fn := ca.binaryFunc(op); fn != nil {
		res, err := fn(c, a, b)
		if err != nil || res != NotImplemented {
			return res, err
		}
	}

	var reflected BinaryFunc
	if op.IsComparison() {
		reflected = cb.binaryFunc(op.swapped())
	} else {
		reflected = cb.reflectedFunc(op)
	}
	if reflected != nil {
		res, err := reflected(c, b, a)
		if err != nil || res != NotImplemented {
			return res, err
		}
	}

	if res, ok, err := c.builtinBinary(op, a, b); ok || err != nil {
		return res, err
	}

	switch op {
	case OpEq:
		return identical(a, b), nil
	case OpNe:
		return !identical(a, b), nil
	}
	if op.IsComparison() {
		return nil, errors.Unsupported(errors.PhaseOperator,
			fmt.Sprintf("'%s' not supported between instances of '%s' and '%s'", op, ca.Name, cb.Name))
	}
	return nil, errors.UnsupportedOperands(op.String(), ca.Name, cb.Name)
}

// InPlace applies the augmented form of op, falling back to Binary.
func (c *Call) InPlace(op Op, a, b Value) (Value, error) {
	if fn := ClassOf(a).inplaceFunc(op); fn != nil {
		res, err := fn(c, a, b)
		if err != nil || res != NotImplemented {
			return res, err
		}
	}
	return c.Binary(op, a, b)
}

// Unary applies a unary operator.
func (c *Call) Unary(op Op, a Value) (Value, error) {
	cls := ClassOf(a)
	if fn := cls.unaryFunc(op); fn != nil {
		res, err := fn(c, a)
		if err != nil || res != NotImplemented {
			return res, err
		}
	}
	if res, ok := builtinUnary(op, a); ok {
		return res, nil
	}
	return nil, errors.Unsupported(errors.PhaseOperator, fmt.Sprintf("bad operand type for %s: '%s'", op, cls.Name))
}

// Equal reports a == b as a Go bool.
func (c *Call) Equal(a, b Value) (bool, error) {
	res, err := c.Binary(OpEq, a, b)
	if err != nil {
		return false, err
	}
	return c.Truth(res), nil
}

// Truth reports the host truth value of v.
func (c *Call) Truth(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case int:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	case Tuple:
		return len(x) > 0
	case *List:
		return len(x.Items) > 0
	}
	if s := ClassOf(v).slots(); s.Len != nil {
		if n, err := s.Len(c, v); err == nil {
			return n > 0
		}
	}
	return true
}

// Len returns the length of a sequence.
func (c *Call) Len(obj Value) (int, error) {
	switch x := obj.(type) {
	case string:
		return len([]rune(x)), nil
	case Tuple:
		return len(x), nil
	case *List:
		return len(x.Items), nil
	}
	if s := ClassOf(obj).slots(); s.Len != nil {
		return s.Len(c, obj)
	}
	return 0, errors.Unsupported(errors.PhaseIndex, fmt.Sprintf("object of type '%s' has no len()", TypeName(obj)))
}

// GetItem indexes obj with an int or *Slice key.
func (c *Call) GetItem(obj, key Value) (Value, error) {
	switch x := obj.(type) {
	case Tuple:
		return getItems(c, "tuple", x, key, func(items []Value) Value { return Tuple(items) })
	case *List:
		return getItems(c, "list", x.Items, key, func(items []Value) Value { return NewList(items...) })
	}
	if s := ClassOf(obj).slots(); s.GetItem != nil {
		return s.GetItem(c, obj, key)
	}
	return nil, errors.Unsupported(errors.PhaseIndex, fmt.Sprintf("'%s' object is not subscriptable", TypeName(obj)))
}

func getItems(c *Call, name string, items []Value, key Value, wrap func([]Value) Value) (Value, error) {
	if sl, ok := key.(*Slice); ok {
		r, err := c.SliceRange(sl, len(items))
		if err != nil {
			return nil, err
		}
		out := make([]Value, r.Count)
		for i := range out {
			out[i] = items[r.Index(i)]
		}
		return wrap(out), nil
	}
	i, err := c.Index(name, key, len(items))
	if err != nil {
		return nil, err
	}
	return items[i], nil
}

// SetItem assigns through an int or *Slice key.
func (c *Call) SetItem(obj, key, v Value) error {
	if l, ok := obj.(*List); ok {
		i, err := c.Index("list", key, len(l.Items))
		if err != nil {
			return err
		}
		l.Items[i] = v
		return nil
	}
	if s := ClassOf(obj).slots(); s.SetItem != nil {
		return s.SetItem(c, obj, key, v)
	}
	return errors.Unsupported(errors.PhaseIndex, fmt.Sprintf("'%s' object does not support item assignment", TypeName(obj)))
}

// Iter returns the elements of obj. Sequences without an Iter slot are
// iterated through Len and GetItem.
func (c *Call) Iter(obj Value) (iter.Seq[Value], error) {
	switch x := obj.(type) {
	case Tuple:
		return valuesOf(x), nil
	case *List:
		return valuesOf(x.Items), nil
	}
	s := ClassOf(obj).slots()
	if s.Iter != nil {
		return s.Iter(c, obj)
	}
	if s.Len != nil && s.GetItem != nil {
		n, err := s.Len(c, obj)
		if err != nil {
			return nil, err
		}
		items := make([]Value, n)
		for i := range items {
			if items[i], err = s.GetItem(c, obj, int64(i)); err != nil {
				return nil, err
			}
		}
		return valuesOf(items), nil
	}
	return nil, errors.Unsupported(errors.PhaseIndex, fmt.Sprintf("'%s' object is not iterable", TypeName(obj)))
}

func valuesOf(items []Value) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, v := range items {
			if !yield(v) {
				return
			}
		}
	}
}

// Sequence collects the elements of an iterable into a new slice.
func (c *Call) Sequence(obj Value) ([]Value, error) {
	switch x := obj.(type) {
	case Tuple:
		return append([]Value(nil), x...), nil
	case *List:
		return append([]Value(nil), x.Items...), nil
	}
	it, err := c.Iter(obj)
	if err != nil {
		return nil, err
	}
	var out []Value
	for v := range it {
		out = append(out, v)
	}
	return out, nil
}

// IsSequence reports whether v is a tuple, a list or an object with a
// length and item access.
func (c *Call) IsSequence(v Value) bool {
	switch v.(type) {
	case Tuple, *List:
		return true
	case string:
		return false
	}
	s := ClassOf(v).slots()
	return s.Len != nil && s.GetItem != nil
}

// Index resolves an int key against a sequence of length n.
func (c *Call) Index(name string, key Value, n int) (int, error) {
	i, ok := AsInt(key)
	if !ok {
		return 0, errors.New(errors.PhaseIndex, errors.KindTypeMismatch).
			Detail("%s indices must be integers or slices, not %s", name, TypeName(key)).
			Build()
	}
	return seq.Index(name, int(i), n)
}

// SliceRange resolves a slice key against a sequence of length n.
func (c *Call) SliceRange(s *Slice, n int) (seq.Range, error) {
	start, err := sliceBound(s.Start)
	if err != nil {
		return seq.Range{}, err
	}
	stop, err := sliceBound(s.Stop)
	if err != nil {
		return seq.Range{}, err
	}
	step, err := sliceBound(s.Step)
	if err != nil {
		return seq.Range{}, err
	}
	return seq.Indices(start, stop, step, n)
}

func sliceBound(v Value) (*int, error) {
	if v == nil {
		return nil, nil
	}
	i, ok := AsInt(v)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseIndex, "slice indices must be integers or None, not %s", TypeName(v))
	}
	n := int(i)
	return &n, nil
}
