package bind

import (
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/imath"
)

var (
	vecFields   = []string{"x", "y", "z", "w"}
	colorFields = []string{"r", "g", "b", "a"}
)

// vecType is a bound vector or colour type.
type vecType[V imath.Vector[V, T], T imath.Scalar] struct {
	*Type[V]
}

// convertVec converts a vector component by component.
func convertVec[V imath.Vector[V, T], W imath.Vector[W, U], T, U imath.Scalar](w W) V {
	var out V
	for i := range out.Dim() {
		out = out.WithComp(i, T(w.Comp(i)))
	}
	return out
}

func vecFromSeq[V imath.Vector[V, T], T imath.Scalar](_ *host.Call, v host.Value) (V, bool, error) {
	var out V
	xs, ok, err := scalars[T](v, out.Dim())
	if err != nil || !ok {
		return out, false, err
	}
	for i, x := range xs {
		out = out.WithComp(i, x)
	}
	return out, true, nil
}

func lessEqual[V imath.Vector[V, T], T imath.Scalar](a, b V) bool {
	for i := range a.Dim() {
		if a.Comp(i) > b.Comp(i) {
			return false
		}
	}
	return true
}

func (t *vecType[V, T]) construct(c *host.Call, args []host.Value) (V, error) {
	var v V
	switch len(args) {
	case 0:
		return v, nil
	case 1:
		if x, ok, err := scalarOf[T](args[0]); ok || err != nil {
			return imath.Splat[V, T](x), err
		}
		if n, ok, err := t.cast(c, args[0]); ok || err != nil {
			return n, err
		}
	case v.Dim():
		for i, a := range args {
			x, err := toScalar[T](t.Name()+"."+vecFields[i], a)
			if err != nil {
				return v, err
			}
			v = v.WithComp(i, x)
		}
		return v, nil
	}
	return v, badInit(t.Name(), args)
}

// reprOf renders v as a constructor call.
func (t *vecType[V, T]) reprOf(v V) string {
	xs := make([]T, v.Dim())
	for i := range xs {
		xs[i] = v.Comp(i)
	}
	return formatCall(t.Name(), xs...)
}

func scalarLimits[T imath.Scalar]() (lo, hi, smallest, eps T) {
	lo, hi = imath.MinValue[T](), imath.MaxValue[T]()
	var z T
	switch any(z).(type) {
	case float32:
		return lo, hi, T(imath.FloatLimits.Smallest), T(imath.FloatLimits.Epsilon)
	case float64:
		return lo, hi, T(imath.DoubleLimits.Smallest), T(imath.DoubleLimits.Epsilon)
	}
	return lo, hi, 1, 1
}

// bindVector binds one vector or colour type. fields names the components;
// a non-nil base makes the class a subclass, as colours are of vectors.
func bindVector[V imath.Vector[V, T], T imath.Scalar](name, doc string, base *host.Class, fields []string) *vecType[V, T] {
	t := &vecType[V, T]{Type: newType[V](name, doc, base)}
	t.from = vecFromSeq[V, T]
	var proto V
	dim := proto.Dim()
	isFloat := !imath.IsIntegral[T]()

	t.init(t.construct)
	t.repr(t.reprOf)

	for i := range dim {
		f := fields[i]
		t.field(f, "component "+f, func(v V) host.Value {
			return fromScalar(v.Comp(i))
		}, func(_ *host.Call, v *V, x host.Value) error {
			s, err := toScalar[T](name+"."+f, x)
			if err != nil {
				return err
			}
			*v = (*v).WithComp(i, s)
			return nil
		})
	}

	t.Class.Slots.Len = func(*host.Call, host.Value) (int, error) { return dim, nil }
	t.Class.Slots.GetItem = func(c *host.Call, self, key host.Value) (host.Value, error) {
		v, err := t.receiver("__getitem__", self)
		if err != nil {
			return nil, err
		}
		i, err := c.Index(name, key, dim)
		if err != nil {
			return nil, err
		}
		return fromScalar(v.Comp(i)), nil
	}
	t.Class.Slots.SetItem = func(c *host.Call, self, key, x host.Value) error {
		v, err := t.receiver("__setitem__", self)
		if err != nil {
			return err
		}
		i, err := c.Index(name, key, dim)
		if err != nil {
			return err
		}
		s, err := toScalar[T](name+"["+fields[i]+"]", x)
		if err != nil {
			return err
		}
		t.store(self, v.WithComp(i, s))
		return nil
	}

	t.method("dimensions", "dimensions() number of components", 0, 0, func(*host.Call, V, []host.Value) (host.Value, error) {
		return int64(dim), nil
	})
	t.method("dot", "dot(v) inner product", 1, 1, func(c *host.Call, a V, args []host.Value) (host.Value, error) {
		b, err := t.Convert(c, name+".dot", args[0])
		if err != nil {
			return nil, err
		}
		return fromScalar(a.Dot(b)), nil
	})
	t.method("length", "length() Euclidean length", 0, 0, func(_ *host.Call, a V, _ []host.Value) (host.Value, error) {
		return fromScalar(a.Length()), nil
	})
	t.method("length2", "length2() squared Euclidean length", 0, 0, func(_ *host.Call, a V, _ []host.Value) (host.Value, error) {
		return fromScalar(a.Length2()), nil
	})
	withError := func(method string, eq func(a, b V, e T) bool) {
		t.method(method, method+"(v, e) componentwise comparison within e", 2, 2, func(c *host.Call, a V, args []host.Value) (host.Value, error) {
			b, err := t.Convert(c, name+"."+method, args[0])
			if err != nil {
				return nil, err
			}
			e, err := toScalar[T](name+"."+method, args[1])
			if err != nil {
				return nil, err
			}
			return eq(a, b, e), nil
		})
	}
	withError("equalWithAbsError", func(a, b V, e T) bool { return a.EqualWithAbsError(b, e) })
	withError("equalWithRelError", func(a, b V, e T) bool { return a.EqualWithRelError(b, e) })
	t.method("min", "min(v) componentwise minimum", 1, 1, func(c *host.Call, a V, args []host.Value) (host.Value, error) {
		b, err := t.Convert(c, name+".min", args[0])
		if err != nil {
			return nil, err
		}
		return t.Wrap(a.Min(b)), nil
	})
	t.method("max", "max(v) componentwise maximum", 1, 1, func(c *host.Call, a V, args []host.Value) (host.Value, error) {
		b, err := t.Convert(c, name+".max", args[0])
		if err != nil {
			return nil, err
		}
		return t.Wrap(a.Max(b)), nil
	})
	t.mutator("negate", "negate() negates every component", 0, 0, func(_ *host.Call, v *V, _ []host.Value) error {
		*v = (*v).Neg()
		return nil
	})
	t.mutator("setValue", "setValue(...) assigns every component", 1, dim, func(c *host.Call, v *V, args []host.Value) error {
		n, err := t.construct(c, args)
		if err != nil {
			return err
		}
		*v = n
		return nil
	})

	lo, hi, smallest, eps := scalarLimits[T]()
	for _, lim := range []struct {
		name string
		val  T
	}{{"baseTypeMin", lo}, {"baseTypeMax", hi}, {"baseTypeSmallest", smallest}, {"baseTypeEpsilon", eps}} {
		val := fromScalar(lim.val)
		t.static(lim.name, lim.name+"() limit of the component type", func(_ *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(name+"."+lim.name, args, 0, 0); err != nil {
				return nil, err
			}
			return val, nil
		})
	}

	if isFloat {
		normalizers := []struct {
			name string
			fn   func(V) (V, error)
		}{
			{"normalize", imath.Normalized[V, T]},
			{"normalizeExc", imath.NormalizedExc[V, T]},
			{"normalizeNonNull", imath.Normalized[V, T]},
		}
		for _, n := range normalizers {
			t.mutator(n.name, n.name+"() scales to unit length in place", 0, 0, func(_ *host.Call, v *V, _ []host.Value) error {
				r, err := n.fn(*v)
				if err != nil {
					return err
				}
				*v = r
				return nil
			})
			copyName := "normalized" + n.name[len("normalize"):]
			t.method(copyName, copyName+"() unit length copy", 0, 0, func(_ *host.Call, v V, _ []host.Value) (host.Value, error) {
				r, err := n.fn(v)
				if err != nil {
					return nil, err
				}
				return t.Wrap(r), nil
			})
		}
	}

	bindVectorOps(t)
	return t
}

func bindVectorOps[V imath.Vector[V, T], T imath.Scalar](t *vecType[V, T]) {
	same := func(f func(a, b V) V) rule[V] { return with(t.Accept, wrapped(t.Type, f)) }
	scalar := func(f func(a V, s T) V) rule[V] { return with(acceptScalar[T], wrapped(t.Type, f)) }

	t.arith(host.OpAdd,
		same(func(a, b V) V { return a.Add(b) }),
		scalar(func(a V, s T) V { return a.Add(imath.Splat[V, T](s)) }))
	t.reflected(host.OpAdd, scalar(func(a V, s T) V { return a.Add(imath.Splat[V, T](s)) }))
	t.arith(host.OpSub,
		same(func(a, b V) V { return a.Sub(b) }),
		scalar(func(a V, s T) V { return a.Sub(imath.Splat[V, T](s)) }))
	t.reflected(host.OpSub,
		same(func(a, b V) V { return b.Sub(a) }),
		scalar(func(a V, s T) V { return imath.Splat[V, T](s).Sub(a) }))
	mul := same(func(a, b V) V { return a.Mul(b) })
	scale := scalar(func(a V, s T) V { return a.Scale(s) })
	t.arith(host.OpMul, mul, scale)
	t.reflected(host.OpMul, mul, scale)
	if !imath.IsIntegral[T]() {
		t.arith(host.OpDiv,
			same(func(a, b V) V { return a.Div(b) }),
			scalar(func(a V, s T) V { return a.DivScalar(s) }))
		t.reflected(host.OpDiv,
			same(func(a, b V) V { return b.Div(a) }),
			scalar(func(a V, s T) V { return imath.Splat[V, T](s).Div(a) }))
	}
	t.unary(host.OpNeg, func(v V) (host.Value, error) { return t.Wrap(v.Neg()), nil })

	equality(t.Type)
	order := func(op host.Op, f func(a, b V) bool) {
		t.binary(op, with(t.Accept, func(a, b V) (host.Value, error) { return f(a, b), nil }))
	}
	order(host.OpLt, imath.LessThan[V, T])
	order(host.OpLe, lessEqual[V, T])
	order(host.OpGt, imath.GreaterThan[V, T])
	order(host.OpGe, func(a, b V) bool { return lessEqual[V, T](b, a) })
}

// bindVec2 adds the 2D cross product, a scalar, as cross() and %.
func bindVec2[T imath.Scalar](name string) *vecType[imath.Vec2[T], T] {
	t := bindVector[imath.Vec2[T], T](name, name+" is a 2D vector", nil, vecFields)
	t.method("cross", "cross(v) z component of the 3D cross product", 1, 1, func(c *host.Call, a imath.Vec2[T], args []host.Value) (host.Value, error) {
		b, err := t.Convert(c, name+".cross", args[0])
		if err != nil {
			return nil, err
		}
		return fromScalar(a.Cross(b)), nil
	})
	t.binary(host.OpMod, with(t.Accept, func(a, b imath.Vec2[T]) (host.Value, error) {
		return fromScalar(a.Cross(b)), nil
	}))
	return t
}

// bindVec3 adds the cross product as cross() and %.
func bindVec3[T imath.Scalar](name string) *vecType[imath.Vec3[T], T] {
	t := bindVector[imath.Vec3[T], T](name, name+" is a 3D vector", nil, vecFields)
	t.method("cross", "cross(v) cross product", 1, 1, func(c *host.Call, a imath.Vec3[T], args []host.Value) (host.Value, error) {
		b, err := t.Convert(c, name+".cross", args[0])
		if err != nil {
			return nil, err
		}
		return t.Wrap(a.Cross(b)), nil
	})
	t.arith(host.OpMod, with(t.Accept, wrapped(t.Type, imath.Vec3[T].Cross)))
	return t
}

func bindVec4[T imath.Scalar](name string) *vecType[imath.Vec4[T], T] {
	return bindVector[imath.Vec4[T], T](name, name+" is a 4D vector", nil, vecFields)
}

// colorFrom lets a colour take plain vectors of its base type as well as
// tuples.
func colorFrom[V any](base *Type[V], seq func(*host.Call, host.Value) (V, bool, error)) func(*host.Call, host.Value) (V, bool, error) {
	return func(c *host.Call, v host.Value) (V, bool, error) {
		if n, ok := base.Unwrap(v); ok {
			return n, true, nil
		}
		return seq(c, v)
	}
}

// bindColor3 binds an RGB colour as a subclass of its vector type.
func bindColor3[T imath.Scalar](name string, base *vecType[imath.Vec3[T], T]) *vecType[imath.Vec3[T], T] {
	t := bindVector[imath.Vec3[T], T](name, name+" is an RGB colour", base.Class, colorFields)
	t.from = colorFrom(base.Type, vecFromSeq[imath.Vec3[T], T])
	t.method("hsv2rgb", "hsv2rgb() converts hue, saturation, value to RGB", 0, 0, func(_ *host.Call, v imath.Vec3[T], _ []host.Value) (host.Value, error) {
		return t.Wrap(imath.HSVToRGB(v)), nil
	})
	t.method("rgb2hsv", "rgb2hsv() converts RGB to hue, saturation, value", 0, 0, func(_ *host.Call, v imath.Vec3[T], _ []host.Value) (host.Value, error) {
		return t.Wrap(imath.RGBToHSV(v)), nil
	})
	return t
}

// bindColor4 binds an RGBA colour as a subclass of its vector type.
func bindColor4[T imath.Scalar](name string, base *vecType[imath.Vec4[T], T]) *vecType[imath.Vec4[T], T] {
	t := bindVector[imath.Vec4[T], T](name, name+" is an RGBA colour", base.Class, colorFields)
	t.from = colorFrom(base.Type, vecFromSeq[imath.Vec4[T], T])
	t.method("hsv2rgb", "hsv2rgb() converts the colour part from HSV to RGB", 0, 0, func(_ *host.Call, v imath.Vec4[T], _ []host.Value) (host.Value, error) {
		return t.Wrap(imath.HSVToRGB4(v)), nil
	})
	t.method("rgb2hsv", "rgb2hsv() converts the colour part from RGB to HSV", 0, 0, func(_ *host.Call, v imath.Vec4[T], _ []host.Value) (host.Value, error) {
		return t.Wrap(imath.RGBToHSV4(v)), nil
	})
	return t
}
