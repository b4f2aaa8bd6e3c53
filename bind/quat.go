package bind

import (
	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/imath"
)

func convertQuat[T, U imath.Float](q imath.Quat[U]) imath.Quat[T] {
	return imath.Quat[T]{R: T(q.R), V: convertVec[imath.Vec3[T], imath.Vec3[U], T](q.V)}
}

func quatFromSeq[T imath.Float](_ *host.Call, v host.Value) (imath.Quat[T], bool, error) {
	xs, ok, err := scalars[T](v, 4)
	if err != nil || !ok {
		return imath.Quat[T]{}, false, err
	}
	return imath.Quat[T]{R: xs[0], V: imath.Vec3[T]{X: xs[1], Y: xs[2], Z: xs[3]}}, true, nil
}

func bindQuat[T imath.Float](name string, v3 *vecType[imath.Vec3[T], T], m33 *Type[imath.Matrix33[T]], m44 *Type[imath.Matrix44[T]]) *Type[imath.Quat[T]] {
	t := newType[imath.Quat[T]](name, name+" is a quaternion", nil)
	t.from = quatFromSeq[T]

	t.init(func(c *host.Call, args []host.Value) (imath.Quat[T], error) {
		switch len(args) {
		case 0:
			return imath.IdentityQuat[T](), nil
		case 1:
			if q, ok, err := t.cast(c, args[0]); ok || err != nil {
				return q, err
			}
		case 2:
			r, err := toScalar[T](name+".r", args[0])
			if err != nil {
				return imath.Quat[T]{}, err
			}
			v, err := v3.Convert(c, name+".v", args[1])
			if err != nil {
				return imath.Quat[T]{}, err
			}
			return imath.Quat[T]{R: r, V: v}, nil
		case 4:
			if q, ok, err := quatFromSeq[T](c, host.Tuple(args)); ok || err != nil {
				return q, err
			}
		}
		return imath.Quat[T]{}, badInit(name, args)
	})
	t.repr(func(q imath.Quat[T]) string { return formatCall(name, q.R, q.V.X, q.V.Y, q.V.Z) })

	t.field("r", "real part", func(q imath.Quat[T]) host.Value { return float64(q.R) }, func(_ *host.Call, q *imath.Quat[T], x host.Value) error {
		r, err := toScalar[T](name+".r", x)
		q.R = r
		return err
	})
	t.field("v", "imaginary part", func(q imath.Quat[T]) host.Value { return v3.Wrap(q.V) }, func(c *host.Call, q *imath.Quat[T], x host.Value) error {
		v, err := v3.Convert(c, name+".v", x)
		q.V = v
		return err
	})

	t.method("length", "length() norm", 0, 0, func(_ *host.Call, q imath.Quat[T], _ []host.Value) (host.Value, error) {
		return float64(q.Length()), nil
	})
	t.method("normalized", "normalized() unit copy; the null quaternion becomes the identity", 0, 0, func(_ *host.Call, q imath.Quat[T], _ []host.Value) (host.Value, error) {
		return t.Wrap(q.Normalized()), nil
	})
	t.mutator("normalize", "normalize() scales to unit length in place", 0, 0, func(_ *host.Call, q *imath.Quat[T], _ []host.Value) error {
		*q = q.Normalized()
		return nil
	})
	t.method("inverse", "inverse() multiplicative inverse", 0, 0, func(_ *host.Call, q imath.Quat[T], _ []host.Value) (host.Value, error) {
		inv, err := q.Inverse()
		if err != nil {
			return nil, err
		}
		return t.Wrap(inv), nil
	})
	t.mutator("invert", "invert() inverts in place", 0, 0, func(_ *host.Call, q *imath.Quat[T], _ []host.Value) error {
		inv, err := q.Inverse()
		if err != nil {
			return err
		}
		*q = inv
		return nil
	})
	t.method("conjugate", "conjugate() conjugate", 0, 0, func(_ *host.Call, q imath.Quat[T], _ []host.Value) (host.Value, error) {
		return t.Wrap(q.Conjugate()), nil
	})
	t.method("dot", "dot(q) 4D inner product", 1, 1, func(c *host.Call, q imath.Quat[T], args []host.Value) (host.Value, error) {
		o, err := t.Convert(c, name+".dot", args[0])
		if err != nil {
			return nil, err
		}
		return float64(q.Dot(o)), nil
	})
	t.method("axis", "axis() rotation axis", 0, 0, func(_ *host.Call, q imath.Quat[T], _ []host.Value) (host.Value, error) {
		return v3.Wrap(q.Axis()), nil
	})
	t.method("angle", "angle() rotation angle in radians", 0, 0, func(_ *host.Call, q imath.Quat[T], _ []host.Value) (host.Value, error) {
		return float64(q.Angle()), nil
	})
	t.mutator("setAxisAngle", "setAxisAngle(axis, angle) makes a rotation about axis", 2, 2, func(c *host.Call, q *imath.Quat[T], args []host.Value) error {
		axis, err := v3.Convert(c, name+".setAxisAngle", args[0])
		if err != nil {
			return err
		}
		angle, err := toScalar[T](name+".setAxisAngle", args[1])
		if err != nil {
			return err
		}
		*q = imath.QuatFromAxisAngle(axis, angle)
		return nil
	})
	t.method("slerp", "slerp(q, t) spherical interpolation toward q", 2, 2, func(c *host.Call, q imath.Quat[T], args []host.Value) (host.Value, error) {
		o, err := t.Convert(c, name+".slerp", args[0])
		if err != nil {
			return nil, err
		}
		f, err := toScalar[T](name+".slerp", args[1])
		if err != nil {
			return nil, err
		}
		return t.Wrap(q.Slerp(o, f)), nil
	})
	t.method("toMatrix33", "toMatrix33() rotation matrix", 0, 0, func(_ *host.Call, q imath.Quat[T], _ []host.Value) (host.Value, error) {
		return m33.Wrap(q.ToMatrix33()), nil
	})
	t.method("toMatrix44", "toMatrix44() rotation matrix", 0, 0, func(_ *host.Call, q imath.Quat[T], _ []host.Value) (host.Value, error) {
		return m44.Wrap(q.ToMatrix44()), nil
	})
	t.method("rotateVector", "rotateVector(v) v rotated by the quaternion", 1, 1, func(c *host.Call, q imath.Quat[T], args []host.Value) (host.Value, error) {
		v, err := v3.Convert(c, name+".rotateVector", args[0])
		if err != nil {
			return nil, err
		}
		return v3.Wrap(q.Rotate(v)), nil
	})
	t.method("equalWithAbsError", "equalWithAbsError(q, e) componentwise comparison within e", 2, 2, func(c *host.Call, q imath.Quat[T], args []host.Value) (host.Value, error) {
		o, err := t.Convert(c, name+".equalWithAbsError", args[0])
		if err != nil {
			return nil, err
		}
		e, err := toScalar[T](name+".equalWithAbsError", args[1])
		if err != nil {
			return nil, err
		}
		return q.EqualWithAbsError(o, e), nil
	})

	same := func(f func(a, b imath.Quat[T]) imath.Quat[T]) rule[imath.Quat[T]] { return with(t.Accept, wrapped(t, f)) }
	scale := with(acceptScalar[T], wrapped(t, func(q imath.Quat[T], s T) imath.Quat[T] { return q.Scale(s) }))
	t.arith(host.OpAdd, same(func(a, b imath.Quat[T]) imath.Quat[T] { return a.Add(b) }))
	t.arith(host.OpSub, same(func(a, b imath.Quat[T]) imath.Quat[T] { return a.Sub(b) }))
	t.arith(host.OpMul, same(func(a, b imath.Quat[T]) imath.Quat[T] { return a.Mul(b) }), scale)
	t.reflected(host.OpMul, scale, func(_ *host.Call, q imath.Quat[T], other host.Value) (host.Value, bool, error) {
		v, ok := v3.Unwrap(other)
		if !ok {
			return nil, false, nil
		}
		return v3.Wrap(q.ToMatrix33().MulVec3(v)), true, nil
	})
	t.arith(host.OpDiv,
		with(t.Accept, wrappedErr(t, func(a, b imath.Quat[T]) (imath.Quat[T], error) { return a.Div(b) })),
		with(acceptScalar[T], wrapped(t, func(q imath.Quat[T], s T) imath.Quat[T] { return q.Scale(1 / s) })))
	t.unary(host.OpNeg, func(q imath.Quat[T]) (host.Value, error) { return t.Wrap(q.Neg()), nil })
	equality(t)
	return t
}

func eulerOrder(path string, v host.Value) (imath.EulerOrder, error) {
	i, err := toInt(path, v)
	if err != nil {
		return 0, err
	}
	o := imath.EulerOrder(i)
	if i < 0 || !o.Valid() {
		return 0, errors.InvalidValue(errors.PhaseConvert, "%s: invalid Euler order %d", path, i)
	}
	return o, nil
}

func convertEuler[T, U imath.Float](e imath.Euler[U]) imath.Euler[T] {
	return imath.Euler[T]{X: T(e.X), Y: T(e.Y), Z: T(e.Z), Order: e.Order}
}

// rotationTypes are the values an Euler rotation can be extracted from.
type rotationTypes[T imath.Float] struct {
	v3   *vecType[imath.Vec3[T], T]
	m33  *Type[imath.Matrix33[T]]
	m44  *Type[imath.Matrix44[T]]
	quat *Type[imath.Quat[T]]
}

// extract converts a matrix or quaternion into angles of order o. ok is
// false for any other value.
func (r *rotationTypes[T]) extract(v host.Value, o imath.EulerOrder) (imath.Euler[T], bool) {
	if m, ok := r.m33.Unwrap(v); ok {
		return imath.EulerFromMatrix33(m, o), true
	}
	if m, ok := r.m44.Unwrap(v); ok {
		return imath.EulerFromMatrix33(m.Rotation33(), o), true
	}
	if q, ok := r.quat.Unwrap(v); ok {
		return imath.EulerFromQuat(q, o), true
	}
	return imath.Euler[T]{}, false
}

func bindEuler[T imath.Float](name string, r *rotationTypes[T]) *Type[imath.Euler[T]] {
	t := newType[imath.Euler[T]](name, name+" is a rotation as three angles and an axis order", nil)

	t.init(func(c *host.Call, args []host.Value) (imath.Euler[T], error) {
		order := imath.EulerXYZ
		n := len(args)
		// A trailing int after a vector, matrix, quaternion or three angles
		// is the order.
		if n == 2 || n == 4 {
			o, err := eulerOrder(name+".order", args[n-1])
			if err != nil {
				return imath.Euler[T]{}, err
			}
			order = o
			n--
		}
		switch n {
		case 0:
			return imath.Euler[T]{Order: order}, nil
		case 1:
			if e, ok := r.extract(args[0], order); ok {
				return e, nil
			}
			if v, ok, err := r.v3.Accept(c, args[0]); ok || err != nil {
				return imath.NewEuler(v, order), err
			}
			if len(args) == 1 {
				if e, ok, err := t.cast(c, args[0]); ok || err != nil {
					return e, err
				}
			}
		case 3:
			var xs [3]T
			for i := range xs {
				x, err := toScalar[T](name+"."+vecFields[i], args[i])
				if err != nil {
					return imath.Euler[T]{}, err
				}
				xs[i] = x
			}
			return imath.Euler[T]{X: xs[0], Y: xs[1], Z: xs[2], Order: order}, nil
		}
		return imath.Euler[T]{}, badInit(name, args)
	})
	t.repr(func(e imath.Euler[T]) string {
		return name + "(" + formatScalar(e.X) + ", " + formatScalar(e.Y) + ", " + formatScalar(e.Z) + ", EULER_" + e.Order.String() + ")"
	})

	angle := func(field string, get func(imath.Euler[T]) T, set func(*imath.Euler[T], T)) {
		t.field(field, field+" angle in radians", func(e imath.Euler[T]) host.Value { return float64(get(e)) }, func(_ *host.Call, e *imath.Euler[T], x host.Value) error {
			a, err := toScalar[T](name+"."+field, x)
			if err != nil {
				return err
			}
			set(e, a)
			return nil
		})
	}
	angle("x", func(e imath.Euler[T]) T { return e.X }, func(e *imath.Euler[T], a T) { e.X = a })
	angle("y", func(e imath.Euler[T]) T { return e.Y }, func(e *imath.Euler[T], a T) { e.Y = a })
	angle("z", func(e imath.Euler[T]) T { return e.Z }, func(e *imath.Euler[T], a T) { e.Z = a })
	t.field("order", "axis order", func(e imath.Euler[T]) host.Value { return int64(e.Order) }, func(_ *host.Call, e *imath.Euler[T], x host.Value) error {
		o, err := eulerOrder(name+".order", x)
		if err != nil {
			return err
		}
		e.Order = o
		return nil
	})

	t.method("toMatrix33", "toMatrix33() rotation matrix", 0, 0, func(_ *host.Call, e imath.Euler[T], _ []host.Value) (host.Value, error) {
		return r.m33.Wrap(e.ToMatrix33()), nil
	})
	t.method("toMatrix44", "toMatrix44() rotation matrix", 0, 0, func(_ *host.Call, e imath.Euler[T], _ []host.Value) (host.Value, error) {
		return r.m44.Wrap(e.ToMatrix44()), nil
	})
	t.method("toQuat", "toQuat() rotation quaternion", 0, 0, func(_ *host.Call, e imath.Euler[T], _ []host.Value) (host.Value, error) {
		return r.quat.Wrap(e.ToQuat()), nil
	})
	t.method("toXYZVector", "toXYZVector() the angles as a vector", 0, 0, func(_ *host.Call, e imath.Euler[T], _ []host.Value) (host.Value, error) {
		return r.v3.Wrap(e.Angles()), nil
	})
	t.mutator("extract", "extract(m) takes the angles of a matrix or quaternion, keeping the order", 1, 1, func(c *host.Call, e *imath.Euler[T], args []host.Value) error {
		x, ok := r.extract(args[0], e.Order)
		if !ok {
			return kindError(name+".extract", "M33, M44 or Quat", args[0])
		}
		*e = x
		return nil
	})
	t.mutator("setXYZVector", "setXYZVector(v) replaces the angles", 1, 1, func(c *host.Call, e *imath.Euler[T], args []host.Value) error {
		v, err := r.v3.Convert(c, name+".setXYZVector", args[0])
		if err != nil {
			return err
		}
		*e = imath.NewEuler(v, e.Order)
		return nil
	})
	t.mutator("setOrder", "setOrder(o) changes the order, keeping the angles", 1, 1, func(_ *host.Call, e *imath.Euler[T], args []host.Value) error {
		o, err := eulerOrder(name+".setOrder", args[0])
		if err != nil {
			return err
		}
		e.Order = o
		return nil
	})

	for _, o := range imath.EulerOrders() {
		t.Class.SetAttr(o.String(), int64(o))
	}
	t.Class.SetAttr("X", int64(imath.AxisX))
	t.Class.SetAttr("Y", int64(imath.AxisY))
	t.Class.SetAttr("Z", int64(imath.AxisZ))

	equality(t)
	return t
}
