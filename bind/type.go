package bind

import (
	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/host"
)

// ModuleName is the host module the imath classes live in.
const ModuleName = "imath"

// Type binds the native value type V to a host class. Instances hold V by
// value; every crossing copies.
type Type[V any] struct {
	Class *host.Class

	// from converts host values that are not instances of Class, such as
	// tuples. Nil accepts instances only.
	from func(c *host.Call, v host.Value) (V, bool, error)

	// casts convert sibling types, e.g. a V3i for a V3f. Only constructors
	// apply them.
	casts []caster[V]

	left, right, aug map[host.Op][]rule[V]
}

// caster converts an instance of a sibling type.
type caster[V any] func(c *host.Call, v host.Value) (V, bool, error)

// castFrom converts instances of the sibling type src with f.
func castFrom[V, W any](src *Type[W], f func(W) V) caster[V] {
	return func(_ *host.Call, v host.Value) (V, bool, error) {
		w, ok := src.Unwrap(v)
		if !ok {
			var zero V
			return zero, false, nil
		}
		return f(w), true, nil
	}
}

// link lets each of two sibling types be constructed from the other.
func link[V, W any](a *Type[V], b *Type[W], ab func(V) W, ba func(W) V) {
	a.casts = append(a.casts, castFrom(b, ba))
	b.casts = append(b.casts, castFrom(a, ab))
}

func newType[V any](name, doc string, base *host.Class) *Type[V] {
	cls := host.NewClass(name, ModuleName, base)
	cls.Doc = doc
	return &Type[V]{
		Class: cls,
		left:  make(map[host.Op][]rule[V]),
		right: make(map[host.Op][]rule[V]),
		aug:   make(map[host.Op][]rule[V]),
	}
}

// Name returns the host class name.
func (t *Type[V]) Name() string { return t.Class.Name }

// Wrap copies v into a new host instance.
func (t *Type[V]) Wrap(v V) host.Value { return host.NewInstance(t.Class, v) }

// Unwrap returns the native value of an instance of the class or of a
// subclass holding the same native type.
func (t *Type[V]) Unwrap(v host.Value) (V, bool) {
	var zero V
	inst, ok := v.(*host.Instance)
	if !ok || !inst.Class().IsSubclass(t.Class) {
		return zero, false
	}
	n, ok := inst.Native.(V)
	if !ok {
		return zero, false
	}
	return n, true
}

// Accept converts v when it is an instance or something the type coerces.
// ok is false when v is neither.
func (t *Type[V]) Accept(c *host.Call, v host.Value) (V, bool, error) {
	if n, ok := t.Unwrap(v); ok {
		return n, true, nil
	}
	if t.from != nil {
		return t.from(c, v)
	}
	var zero V
	return zero, false, nil
}

// Convert is Accept for a required argument named path.
func (t *Type[V]) Convert(c *host.Call, path string, v host.Value) (V, error) {
	n, ok, err := t.Accept(c, v)
	if err != nil {
		return n, err
	}
	if !ok {
		return n, kindError(path, t.Class.Name, v)
	}
	return n, nil
}

// cast is Accept extended by the sibling conversions.
func (t *Type[V]) cast(c *host.Call, v host.Value) (V, bool, error) {
	if n, ok, err := t.Accept(c, v); ok || err != nil {
		return n, ok, err
	}
	for _, cv := range t.casts {
		if n, ok, err := cv(c, v); ok || err != nil {
			return n, ok, err
		}
	}
	var zero V
	return zero, false, nil
}

func (t *Type[V]) receiver(name string, self host.Value) (V, error) {
	n, ok := t.Unwrap(self)
	if !ok {
		return n, errors.TypeMismatch(errors.PhaseCall,
			"descriptor '%s' for '%s' objects doesn't apply to a '%s' object", name, t.Class.Name, host.TypeName(self))
	}
	return n, nil
}

// store replaces the native value held by self.
func (t *Type[V]) store(self host.Value, v V) {
	self.(*host.Instance).Native = v
}

// init sets the constructor. fn sees the raw arguments and picks the
// overload itself.
func (t *Type[V]) init(fn func(c *host.Call, args []host.Value) (V, error)) {
	t.Class.SetInit(func(c *host.Call, cls *host.Class, args []host.Value) (host.Value, error) {
		v, err := fn(c, args)
		if err != nil {
			return nil, err
		}
		return host.NewInstance(cls, v), nil
	})
}

// method adds a method taking lo to hi arguments; hi < 0 is unbounded.
func (t *Type[V]) method(name, doc string, lo, hi int, fn func(c *host.Call, self V, args []host.Value) (host.Value, error)) {
	qual := t.Class.Name + "." + name
	t.Class.AddMethod(name, func(c *host.Call, self host.Value, args []host.Value) (host.Value, error) {
		v, err := t.receiver(name, self)
		if err != nil {
			return nil, err
		}
		if err := arity(qual, args, lo, hi); err != nil {
			return nil, err
		}
		return fn(c, v, args)
	}, doc)
}

// mutator adds a method that modifies the receiver in place and returns it.
func (t *Type[V]) mutator(name, doc string, lo, hi int, fn func(c *host.Call, self *V, args []host.Value) error) {
	qual := t.Class.Name + "." + name
	t.Class.AddMethod(name, func(c *host.Call, self host.Value, args []host.Value) (host.Value, error) {
		v, err := t.receiver(name, self)
		if err != nil {
			return nil, err
		}
		if err := arity(qual, args, lo, hi); err != nil {
			return nil, err
		}
		if err := fn(c, &v, args); err != nil {
			return nil, err
		}
		t.store(self, v)
		return self, nil
	}, doc)
}

// field adds an attribute; a nil set makes it read-only.
func (t *Type[V]) field(name, doc string, get func(V) host.Value, set func(c *host.Call, v *V, x host.Value) error) {
	p := host.Property{
		Doc: doc,
		Get: func(_ *host.Call, self host.Value) (host.Value, error) {
			v, err := t.receiver(name, self)
			if err != nil {
				return nil, err
			}
			return get(v), nil
		},
	}
	if set != nil {
		p.Set = func(c *host.Call, self host.Value, x host.Value) error {
			v, err := t.receiver(name, self)
			if err != nil {
				return err
			}
			if err := set(c, &v, x); err != nil {
				return err
			}
			t.store(self, v)
			return nil
		}
	}
	t.Class.AddProperty(name, p)
}

// static adds a class-level function.
func (t *Type[V]) static(name, doc string, fn host.Func) {
	t.Class.SetAttr(name, host.NewFunction(ModuleName, t.Class.Name+"."+name, doc, fn))
}

// repr sets both repr and str.
func (t *Type[V]) repr(fn func(V) string) {
	render := func(_ *host.Call, self host.Value) string {
		v, _ := t.Unwrap(self)
		return fn(v)
	}
	t.Class.Slots.Repr = render
	t.Class.Slots.Str = render
}

func (t *Type[V]) unary(op host.Op, fn func(V) (host.Value, error)) {
	t.Class.SetUnary(op, func(_ *host.Call, self host.Value) (host.Value, error) {
		v, ok := t.Unwrap(self)
		if !ok {
			return host.NotImplemented, nil
		}
		return fn(v)
	})
}

// rule handles one kind of right operand. ok is false when other is not
// that kind.
type rule[V any] func(c *host.Call, self V, other host.Value) (result host.Value, ok bool, err error)

// with builds a rule from an operand converter and the operation.
func with[V, W any](accept func(c *host.Call, v host.Value) (W, bool, error), f func(a V, b W) (host.Value, error)) rule[V] {
	return func(c *host.Call, self V, other host.Value) (host.Value, bool, error) {
		w, ok, err := accept(c, other)
		if err != nil || !ok {
			return nil, ok, err
		}
		res, err := f(self, w)
		return res, true, err
	}
}

// dispatch tries the rules registered for op in order. The table is read at
// call time, so rules added later in the build take part.
func (t *Type[V]) dispatch(table map[host.Op][]rule[V], op host.Op) host.BinaryFunc {
	return func(c *host.Call, self, other host.Value) (host.Value, error) {
		a, ok := t.Unwrap(self)
		if !ok {
			return host.NotImplemented, nil
		}
		for _, r := range table[op] {
			res, ok, err := r(c, a, other)
			if err != nil {
				return nil, err
			}
			if ok {
				return res, nil
			}
		}
		return host.NotImplemented, nil
	}
}

// binary adds rules for op with the instance as left operand.
func (t *Type[V]) binary(op host.Op, rules ...rule[V]) {
	t.left[op] = append(t.left[op], rules...)
	t.Class.SetBinary(op, t.dispatch(t.left, op))
}

// reflected adds rules for op with the instance as right operand; rules see
// the instance as self and the left operand as other.
func (t *Type[V]) reflected(op host.Op, rules ...rule[V]) {
	t.right[op] = append(t.right[op], rules...)
	t.Class.SetReflected(op, t.dispatch(t.right, op))
}

// inplace adds rules for the augmented form of op. A result of the same type
// is stored back into the receiver, which keeps its identity.
func (t *Type[V]) inplace(op host.Op, rules ...rule[V]) {
	t.aug[op] = append(t.aug[op], rules...)
	d := t.dispatch(t.aug, op)
	t.Class.SetInPlace(op, func(c *host.Call, self, other host.Value) (host.Value, error) {
		res, err := d(c, self, other)
		if err != nil || res == host.NotImplemented {
			return res, err
		}
		if v, ok := t.Unwrap(res); ok {
			t.store(self, v)
			return self, nil
		}
		return res, nil
	})
}

// arith registers op together with its augmented form.
func (t *Type[V]) arith(op host.Op, rules ...rule[V]) {
	t.binary(op, rules...)
	t.inplace(op, rules...)
}

// equality registers == and != by native value equality.
func equality[V comparable](t *Type[V]) {
	t.binary(host.OpEq, with(t.Accept, func(a, b V) (host.Value, error) { return a == b, nil }))
	t.binary(host.OpNe, with(t.Accept, func(a, b V) (host.Value, error) { return a != b, nil }))
}

// wrapped adapts a native operation returning V to a rule body.
func wrapped[V, W any](t *Type[V], f func(a V, b W) V) func(a V, b W) (host.Value, error) {
	return func(a V, b W) (host.Value, error) { return t.Wrap(f(a, b)), nil }
}

// wrappedErr is wrapped for operations that can fail.
func wrappedErr[V, W any](t *Type[V], f func(a V, b W) (V, error)) func(a V, b W) (host.Value, error) {
	return func(a V, b W) (host.Value, error) {
		v, err := f(a, b)
		if err != nil {
			return nil, err
		}
		return t.Wrap(v), nil
	}
}
