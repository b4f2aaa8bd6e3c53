package bind

import (
	"iter"
	"strings"

	"github.com/wippyai/imath-bind/array"
	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/imath"
)

// codec moves single elements of kind T across the boundary.
type codec[T any] struct {
	accept func(c *host.Call, v host.Value) (T, bool, error)
	wrap   func(x T) host.Value
}

func scalarCodec[T imath.Scalar]() codec[T] {
	return codec[T]{accept: acceptScalar[T], wrap: func(x T) host.Value { return fromScalar(x) }}
}

func typeCodec[V any](t *Type[V]) codec[V] {
	return codec[V]{accept: t.Accept, wrap: t.Wrap}
}

// arrayOps maps host operators to array operations.
var arrayOps = map[host.Op]array.Op{
	host.OpAdd: array.OpAdd,
	host.OpSub: array.OpSub,
	host.OpMul: array.OpMul,
	host.OpDiv: array.OpDiv,
	host.OpMod: array.OpMod,
	host.OpPow: array.OpPow,
}

var arrayCmps = map[host.Op]array.Cmp{
	host.OpEq: array.CmpEq,
	host.OpNe: array.CmpNe,
	host.OpLt: array.CmpLt,
	host.OpLe: array.CmpLe,
	host.OpGt: array.CmpGt,
	host.OpGe: array.CmpGe,
}

// hostOrder keeps operator registration deterministic.
var hostOrder = []host.Op{host.OpAdd, host.OpSub, host.OpMul, host.OpDiv, host.OpMod, host.OpPow}

var cmpOrder = []host.Op{host.OpEq, host.OpNe, host.OpLt, host.OpLe, host.OpGt, host.OpGe}

// maskArray is the array type comparison results are returned as.
type maskArray = arrayType[array.Mask, array.Mask]

// arrayType binds a FixedArray of T whose elements scale by S.
type arrayType[T, S any] struct {
	*Type[*array.FixedArray[T]]
	ops    *array.Ops[T, S]
	elem   codec[T]
	scalar codec[S]

	// scalars is the array type of S, for products with scalar arrays and
	// for component projections. Nil when S has no bound array.
	scalars *Type[*array.FixedArray[S]]

	opts *options
}

// newArray binds name as an array of elem. A nil scalar.accept disables the
// scaling rules.
func newArray[T, S any](opts *options, name string, elem codec[T], scalar codec[S], ops *array.Ops[T, S]) *arrayType[T, S] {
	t := &arrayType[T, S]{
		Type:   newType[*array.FixedArray[T]](name, name+" is a fixed-length array", nil),
		ops:    ops,
		elem:   elem,
		scalar: scalar,
		opts:   opts,
	}
	t.init(func(c *host.Call, args []host.Value) (*array.FixedArray[T], error) {
		a, err := t.construct(c, args)
		if err != nil {
			return nil, err
		}
		a.SetPool(opts.pool)
		return a, nil
	})
	t.Class.Slots.Repr = t.render
	t.Class.Slots.Str = t.render
	t.bindSequence()
	t.bindOperators()
	t.bindReductions()
	return t
}

func (t *arrayType[T, S]) construct(c *host.Call, args []host.Value) (*array.FixedArray[T], error) {
	name := t.Name()
	switch len(args) {
	case 1:
		if n, ok := host.AsInt(args[0]); ok {
			if _, isBool := args[0].(bool); !isBool {
				return array.New[T](int(n))
			}
		}
		if a, ok := t.Unwrap(args[0]); ok {
			return a.Clone(), nil
		}
		if a, ok, err := t.cast(c, args[0]); ok || err != nil {
			return a, err
		}
		if xs, ok := items(args[0]); ok {
			return array.GenerateOn(t.opts.pool, len(xs), func(i int) (T, error) {
				return t.element(c, name, xs[i])
			})
		}
	case 2:
		// (value, length)
		n, err := toInt(name+".length", args[1])
		if err != nil {
			return nil, err
		}
		v, err := t.element(c, name+".value", args[0])
		if err != nil {
			return nil, err
		}
		return array.Filled(n, v)
	}
	return nil, badInit(name, args)
}

func (t *arrayType[T, S]) element(c *host.Call, path string, v host.Value) (T, error) {
	x, ok, err := t.elem.accept(c, v)
	if err != nil {
		return x, err
	}
	if !ok {
		return x, kindError(path, "an element of "+t.Name(), v)
	}
	return x, nil
}

func (t *arrayType[T, S]) render(c *host.Call, self host.Value) string {
	a, _ := t.Unwrap(self)
	if a == nil {
		return t.Name() + "()"
	}
	var b strings.Builder
	b.WriteString(t.Name())
	b.WriteString("([")
	limit := t.opts.reprLimit
	for i, x := range a.All() {
		if limit > 0 && i >= limit {
			b.WriteString(", ...")
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Repr(t.elem.wrap(x)))
	}
	b.WriteString("])")
	return b.String()
}

func (t *arrayType[T, S]) bindSequence() {
	name := t.Name()
	t.Class.Slots.Len = func(_ *host.Call, self host.Value) (int, error) {
		a, err := t.receiver("__len__", self)
		if err != nil {
			return 0, err
		}
		return a.Len(), nil
	}
	t.Class.Slots.GetItem = func(c *host.Call, self, key host.Value) (host.Value, error) {
		a, err := t.receiver("__getitem__", self)
		if err != nil {
			return nil, err
		}
		if s, ok := key.(*host.Slice); ok {
			r, err := c.SliceRange(s, a.Len())
			if err != nil {
				return nil, err
			}
			return t.Wrap(a.Range(r)), nil
		}
		if m, ok := t.maskKey(key); ok {
			sel, err := a.Select(m)
			if err != nil {
				return nil, err
			}
			return t.Wrap(sel), nil
		}
		i, err := c.Index(name, key, a.Len())
		if err != nil {
			return nil, err
		}
		x, err := a.Get(i)
		if err != nil {
			return nil, err
		}
		return t.elem.wrap(x), nil
	}
	t.Class.Slots.SetItem = func(c *host.Call, self, key, v host.Value) error {
		a, err := t.receiver("__setitem__", self)
		if err != nil {
			return err
		}
		if s, ok := key.(*host.Slice); ok {
			r, err := c.SliceRange(s, a.Len())
			if err != nil {
				return err
			}
			if src, ok := t.Unwrap(v); ok {
				return a.SetRange(r, src)
			}
			x, err := t.element(c, name+"[slice]", v)
			if err != nil {
				return err
			}
			a.FillRange(r, x)
			return nil
		}
		if m, ok := t.maskKey(key); ok {
			if src, ok := t.Unwrap(v); ok {
				return a.SetMask(m, src)
			}
			x, err := t.element(c, name+"[mask]", v)
			if err != nil {
				return err
			}
			return a.FillMask(m, x)
		}
		i, err := c.Index(name, key, a.Len())
		if err != nil {
			return err
		}
		x, err := t.element(c, name+"[]", v)
		if err != nil {
			return err
		}
		return a.Set(i, x)
	}
	t.Class.Slots.Iter = func(_ *host.Call, self host.Value) (iter.Seq[host.Value], error) {
		a, err := t.receiver("__iter__", self)
		if err != nil {
			return nil, err
		}
		return func(yield func(host.Value) bool) {
			for x := range a.Values() {
				if !yield(t.elem.wrap(x)) {
					return
				}
			}
		}, nil
	}
}

// maskKey accepts an IntArray used as a selection mask.
func (t *arrayType[T, S]) maskKey(key host.Value) (*array.FixedArray[array.Mask], bool) {
	if t.opts.mask == nil {
		return nil, false
	}
	return t.opts.mask.Unwrap(key)
}

func (t *arrayType[T, S]) bindOperators() {
	self := func(_ *host.Call, v host.Value) (*array.FixedArray[T], bool, error) {
		a, ok := t.Unwrap(v)
		return a, ok, nil
	}
	scalarArr := func(_ *host.Call, v host.Value) (*array.FixedArray[S], bool, error) {
		if t.scalars == nil {
			return nil, false, nil
		}
		a, ok := t.scalars.Unwrap(v)
		return a, ok, nil
	}

	for _, hop := range hostOrder {
		op := arrayOps[hop]
		var left, right []rule[*array.FixedArray[T]]
		if t.ops.Supports(op) {
			left = append(left,
				with(self, func(a, b *array.FixedArray[T]) (host.Value, error) {
					return t.wrapResult(t.ops.Apply(op, a, b))
				}),
				with(t.elem.accept, func(a *array.FixedArray[T], v T) (host.Value, error) {
					return t.wrapResult(t.ops.ApplyElem(op, a, v, false))
				}))
			right = append(right,
				with(t.elem.accept, func(a *array.FixedArray[T], v T) (host.Value, error) {
					return t.wrapResult(t.ops.ApplyElem(op, a, v, true))
				}))
		}
		if t.ops.SupportsScalar(op) && t.scalar.accept != nil {
			left = append(left,
				with(t.scalar.accept, func(a *array.FixedArray[T], s S) (host.Value, error) {
					return t.wrapResult(t.ops.ApplyScalar(op, a, s))
				}),
				with(scalarArr, func(a *array.FixedArray[T], s *array.FixedArray[S]) (host.Value, error) {
					return t.wrapResult(t.ops.ApplyScalars(op, a, s))
				}))
			if op == array.OpMul {
				right = append(right,
					with(t.scalar.accept, func(a *array.FixedArray[T], s S) (host.Value, error) {
						return t.wrapResult(t.ops.ApplyScalar(op, a, s))
					}),
					with(scalarArr, func(a *array.FixedArray[T], s *array.FixedArray[S]) (host.Value, error) {
						return t.wrapResult(t.ops.ApplyScalars(op, a, s))
					}))
			}
		}
		if len(left) > 0 {
			t.binary(hop, left...)
			t.inplaceArray(hop, left...)
		}
		if len(right) > 0 {
			t.reflected(hop, right...)
		}
	}

	if t.ops.Neg != nil {
		t.unary(host.OpNeg, func(a *array.FixedArray[T]) (host.Value, error) {
			return t.wrapResult(t.ops.Negate(a))
		})
	}

	for _, hop := range cmpOrder {
		cmp := arrayCmps[hop]
		if !t.ops.SupportsCmp(cmp) {
			continue
		}
		t.binary(hop,
			with(self, func(a, b *array.FixedArray[T]) (host.Value, error) {
				return t.wrapMask(t.ops.Compare(cmp, a, b))
			}),
			with(t.elem.accept, func(a *array.FixedArray[T], v T) (host.Value, error) {
				return t.wrapMask(t.ops.CompareElem(cmp, a, v))
			}))
	}
}

// inplaceArray registers the augmented operator: the result is assigned
// into the receiver's storage, so views of the instance see the update.
func (t *arrayType[T, S]) inplaceArray(op host.Op, rules ...rule[*array.FixedArray[T]]) {
	t.aug[op] = append(t.aug[op], rules...)
	d := t.dispatch(t.aug, op)
	t.Class.SetInPlace(op, func(c *host.Call, self, other host.Value) (host.Value, error) {
		res, err := d(c, self, other)
		if err != nil || res == host.NotImplemented {
			return res, err
		}
		dst, _ := t.Unwrap(self)
		src, ok := t.Unwrap(res)
		if !ok {
			return res, nil
		}
		if err := dst.Assign(src); err != nil {
			return nil, err
		}
		return self, nil
	})
}

func (t *arrayType[T, S]) wrapResult(a *array.FixedArray[T], err error) (host.Value, error) {
	if err != nil {
		return nil, err
	}
	return t.Wrap(a), nil
}

func (t *arrayType[T, S]) wrapMask(m *array.FixedArray[array.Mask], err error) (host.Value, error) {
	if err != nil {
		return nil, err
	}
	return t.opts.mask.Wrap(m), nil
}

func (t *arrayType[T, S]) bindReductions() {
	if t.ops.Add != nil {
		t.method("reduce", "reduce() sum of the elements", 0, 0, func(_ *host.Call, a *array.FixedArray[T], _ []host.Value) (host.Value, error) {
			x, err := t.ops.Reduce(a)
			if err != nil {
				return nil, err
			}
			return t.elem.wrap(x), nil
		})
	}
	if t.ops.Min != nil {
		t.method("min", "min() smallest element, componentwise for vectors", 0, 0, func(_ *host.Call, a *array.FixedArray[T], _ []host.Value) (host.Value, error) {
			x, err := t.ops.MinOf(a)
			if err != nil {
				return nil, err
			}
			return t.elem.wrap(x), nil
		})
	}
	if t.ops.Max != nil {
		t.method("max", "max() largest element, componentwise for vectors", 0, 0, func(_ *host.Call, a *array.FixedArray[T], _ []host.Value) (host.Value, error) {
			x, err := t.ops.MaxOf(a)
			if err != nil {
				return nil, err
			}
			return t.elem.wrap(x), nil
		})
	}
	t.method("ifelse", "ifelse(mask, other) elements of self where mask is set, of other elsewhere", 2, 2, func(c *host.Call, a *array.FixedArray[T], args []host.Value) (host.Value, error) {
		m, ok := t.maskKey(args[0])
		if !ok {
			return nil, kindError(t.Name()+".ifelse", "IntArray", args[0])
		}
		if m.Len() != a.Len() {
			return nil, errors.LengthMismatch(errors.PhaseCall, a.Len(), m.Len())
		}
		var other func(i int) T
		if o, ok := t.Unwrap(args[1]); ok {
			if o.Len() != a.Len() {
				return nil, errors.LengthMismatch(errors.PhaseCall, a.Len(), o.Len())
			}
			other = func(i int) T { return o.Items()[i] }
		} else {
			v, err := t.element(c, t.Name()+".ifelse", args[1])
			if err != nil {
				return nil, err
			}
			other = func(int) T { return v }
		}
		items, flags := a.Items(), m.Items()
		return t.wrapResult(array.GenerateOn(a.Pool(), a.Len(), func(i int) (T, error) {
			if flags[i] != 0 {
				return items[i], nil
			}
			return other(i), nil
		}))
	})
}
