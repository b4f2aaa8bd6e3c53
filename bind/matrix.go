package bind

import (
	"strings"

	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/imath"
)

// squareOps describes one square matrix type to the shared binding code.
type squareOps[M comparable, T imath.Float] struct {
	n          int
	identity   func() M
	get        func(m M, i, j int) T
	set        func(m *M, i, j int, x T)
	add, sub   func(a, b M) M
	mul        func(a, b M) M
	scale      func(m M, s T) M
	transposed func(m M) M
	det        func(m M) T
	inverse    func(m M) (M, error)
	equalAbs   func(a, b M, e T) bool
}

// matrixRow is the value of m[i]: a live view of one row, so that
// m[i][j] = x writes through to the matrix.
type matrixRow struct {
	owner *host.Instance
	row   int
}

func convertMatrix33[T, U imath.Float](m imath.Matrix33[U]) imath.Matrix33[T] {
	var out imath.Matrix33[T]
	for i := range m {
		for j := range m[i] {
			out[i][j] = T(m[i][j])
		}
	}
	return out
}

func convertMatrix44[T, U imath.Float](m imath.Matrix44[U]) imath.Matrix44[T] {
	var out imath.Matrix44[T]
	for i := range m {
		for j := range m[i] {
			out[i][j] = T(m[i][j])
		}
	}
	return out
}

func (o *squareOps[M, T]) fromScalars(xs []T) M {
	var m M
	for i := range o.n {
		for j := range o.n {
			o.set(&m, i, j, xs[i*o.n+j])
		}
	}
	return m
}

// fromRows converts n row sequences of n numbers each.
func (o *squareOps[M, T]) fromRows(rows []host.Value) (M, bool, error) {
	var m M
	if len(rows) != o.n {
		return m, false, nil
	}
	for i, r := range rows {
		xs, ok, err := scalars[T](r, o.n)
		if err != nil || !ok {
			return m, false, err
		}
		for j, x := range xs {
			o.set(&m, i, j, x)
		}
	}
	return m, true, nil
}

func (o *squareOps[M, T]) format(name string, m M) string {
	rows := make([]string, o.n)
	xs := make([]string, o.n)
	for i := range o.n {
		for j := range o.n {
			xs[j] = formatScalar(o.get(m, i, j))
		}
		rows[i] = "(" + strings.Join(xs, ", ") + ")"
	}
	return name + "(" + strings.Join(rows, ", ") + ")"
}

// bindSquare binds the operations every square matrix type shares.
func bindSquare[M comparable, T imath.Float](name, doc string, o *squareOps[M, T]) *Type[M] {
	t := newType[M](name, doc, nil)
	t.from = func(_ *host.Call, v host.Value) (M, bool, error) {
		rows, ok := items(v)
		if !ok {
			var zero M
			return zero, false, nil
		}
		return o.fromRows(rows)
	}

	t.init(func(c *host.Call, args []host.Value) (M, error) {
		switch len(args) {
		case 0:
			return o.identity(), nil
		case 1:
			if x, ok, err := scalarOf[T](args[0]); ok || err != nil {
				var m M
				for i := range o.n {
					for j := range o.n {
						o.set(&m, i, j, x)
					}
				}
				return m, err
			}
			if m, ok, err := t.cast(c, args[0]); ok || err != nil {
				return m, err
			}
		case o.n:
			if m, ok, err := o.fromRows(args); ok || err != nil {
				return m, err
			}
		case o.n * o.n:
			xs := make([]T, len(args))
			for i, a := range args {
				x, err := toScalar[T](name, a)
				if err != nil {
					var zero M
					return zero, err
				}
				xs[i] = x
			}
			return o.fromScalars(xs), nil
		}
		var zero M
		return zero, badInit(name, args)
	})
	t.repr(func(m M) string { return o.format(name, m) })

	row := newType[*matrixRow](name+"Row", "row view of a "+name, nil)
	rowIndex := func(c *host.Call, self, key host.Value) (*matrixRow, int, error) {
		r, err := row.receiver("__getitem__", self)
		if err != nil {
			return nil, 0, err
		}
		j, err := c.Index(row.Name(), key, o.n)
		return r, j, err
	}
	row.Class.Slots.Len = func(*host.Call, host.Value) (int, error) { return o.n, nil }
	row.Class.Slots.GetItem = func(c *host.Call, self, key host.Value) (host.Value, error) {
		r, j, err := rowIndex(c, self, key)
		if err != nil {
			return nil, err
		}
		return fromScalar(o.get(r.owner.Native.(M), r.row, j)), nil
	}
	row.Class.Slots.SetItem = func(c *host.Call, self, key, x host.Value) error {
		r, j, err := rowIndex(c, self, key)
		if err != nil {
			return err
		}
		s, err := toScalar[T](row.Name(), x)
		if err != nil {
			return err
		}
		m := r.owner.Native.(M)
		o.set(&m, r.row, j, s)
		r.owner.Native = m
		return nil
	}
	row.repr(func(r *matrixRow) string {
		m := r.owner.Native.(M)
		xs := make([]string, o.n)
		for j := range o.n {
			xs[j] = formatScalar(o.get(m, r.row, j))
		}
		return "(" + strings.Join(xs, ", ") + ")"
	})

	t.Class.Slots.Len = func(*host.Call, host.Value) (int, error) { return o.n, nil }
	t.Class.Slots.GetItem = func(c *host.Call, self, key host.Value) (host.Value, error) {
		if _, err := t.receiver("__getitem__", self); err != nil {
			return nil, err
		}
		i, err := c.Index(name, key, o.n)
		if err != nil {
			return nil, err
		}
		return row.Wrap(&matrixRow{owner: self.(*host.Instance), row: i}), nil
	}
	t.Class.Slots.SetItem = func(c *host.Call, self, key, x host.Value) error {
		m, err := t.receiver("__setitem__", self)
		if err != nil {
			return err
		}
		i, err := c.Index(name, key, o.n)
		if err != nil {
			return err
		}
		xs, ok, err := scalars[T](x, o.n)
		if err != nil {
			return err
		}
		if !ok {
			return kindError(name+" row", "a sequence of "+hostKind[T]()+"s", x)
		}
		for j, v := range xs {
			o.set(&m, i, j, v)
		}
		t.store(self, m)
		return nil
	}

	t.method("transposed", "transposed() transposed copy", 0, 0, func(_ *host.Call, m M, _ []host.Value) (host.Value, error) {
		return t.Wrap(o.transposed(m)), nil
	})
	t.mutator("transpose", "transpose() transposes in place", 0, 0, func(_ *host.Call, m *M, _ []host.Value) error {
		*m = o.transposed(*m)
		return nil
	})
	t.method("determinant", "determinant() determinant", 0, 0, func(_ *host.Call, m M, _ []host.Value) (host.Value, error) {
		return float64(o.det(m)), nil
	})
	// inverse(singExc=True): a singular matrix raises SingMatrixExc, or
	// inverts to the identity when singExc is false.
	invert := func(c *host.Call, m M, args []host.Value) (M, error) {
		inv, err := o.inverse(m)
		if err != nil {
			if len(args) == 1 && !toBool(c, args[0]) {
				return o.identity(), nil
			}
			return m, err
		}
		return inv, nil
	}
	t.method("inverse", "inverse(singExc=True) inverted copy", 0, 1, func(c *host.Call, m M, args []host.Value) (host.Value, error) {
		inv, err := invert(c, m, args)
		if err != nil {
			return nil, err
		}
		return t.Wrap(inv), nil
	})
	t.mutator("invert", "invert(singExc=True) inverts in place", 0, 1, func(c *host.Call, m *M, args []host.Value) error {
		inv, err := invert(c, *m, args)
		if err != nil {
			return err
		}
		*m = inv
		return nil
	})
	t.mutator("makeIdentity", "makeIdentity() resets to the identity", 0, 0, func(_ *host.Call, m *M, _ []host.Value) error {
		*m = o.identity()
		return nil
	})
	t.mutator("negate", "negate() negates every element", 0, 0, func(_ *host.Call, m *M, _ []host.Value) error {
		*m = o.scale(*m, -1)
		return nil
	})
	t.method("equalWithAbsError", "equalWithAbsError(m, e) elementwise comparison within e", 2, 2, func(c *host.Call, m M, args []host.Value) (host.Value, error) {
		other, err := t.Convert(c, name+".equalWithAbsError", args[0])
		if err != nil {
			return nil, err
		}
		e, err := toScalar[T](name+".equalWithAbsError", args[1])
		if err != nil {
			return nil, err
		}
		return o.equalAbs(m, other, e), nil
	})

	same := func(f func(a, b M) M) rule[M] { return with(t.Accept, wrapped(t, f)) }
	scale := with(acceptScalar[T], wrapped(t, o.scale))
	t.arith(host.OpAdd, same(o.add))
	t.arith(host.OpSub, same(o.sub))
	t.arith(host.OpMul, same(o.mul), scale)
	t.reflected(host.OpMul, scale)
	t.arith(host.OpDiv, with(acceptScalar[T], wrapped(t, func(m M, s T) M { return o.scale(m, 1/s) })))
	t.unary(host.OpNeg, func(m M) (host.Value, error) { return t.Wrap(o.scale(m, -1)), nil })
	equality(t)
	return t
}

// rowTimes registers vec * matrix for the row vector type vt.
func rowTimes[M any, V imath.Vector[V, T], T imath.Float](t *Type[M], vt *vecType[V, T], f func(m M, v V) V) {
	t.reflected(host.OpMul, func(_ *host.Call, m M, other host.Value) (host.Value, bool, error) {
		v, ok := vt.Unwrap(other)
		if !ok {
			return nil, false, nil
		}
		return vt.Wrap(f(m, v)), true, nil
	})
}

// vecArg converts argument i of a method call to a vector of type vt.
func vecArg[V imath.Vector[V, T], T imath.Scalar](c *host.Call, vt *vecType[V, T], method string, v host.Value) (V, error) {
	return vt.Convert(c, method, v)
}

// scaleArg converts a scale given as a vector or as one uniform number.
func scaleArg[V imath.Vector[V, T], T imath.Scalar](c *host.Call, vt *vecType[V, T], method string, v host.Value) (V, error) {
	if x, ok, err := scalarOf[T](v); ok || err != nil {
		return imath.Splat[V, T](x), err
	}
	return vecArg(c, vt, method, v)
}

func bindMatrix33[T imath.Float](name string, v2 *vecType[imath.Vec2[T], T], v3 *vecType[imath.Vec3[T], T]) *Type[imath.Matrix33[T]] {
	o := &squareOps[imath.Matrix33[T], T]{
		n:          3,
		identity:   imath.Identity33[T],
		get:        func(m imath.Matrix33[T], i, j int) T { return m[i][j] },
		set:        func(m *imath.Matrix33[T], i, j int, x T) { m[i][j] = x },
		add:        func(a, b imath.Matrix33[T]) imath.Matrix33[T] { return a.Add(b) },
		sub:        func(a, b imath.Matrix33[T]) imath.Matrix33[T] { return a.Sub(b) },
		mul:        func(a, b imath.Matrix33[T]) imath.Matrix33[T] { return a.Mul(b) },
		scale:      func(m imath.Matrix33[T], s T) imath.Matrix33[T] { return m.Scale(s) },
		transposed: func(m imath.Matrix33[T]) imath.Matrix33[T] { return m.Transposed() },
		det:        func(m imath.Matrix33[T]) T { return m.Determinant() },
		inverse:    func(m imath.Matrix33[T]) (imath.Matrix33[T], error) { return m.Inverse() },
		equalAbs:   func(a, b imath.Matrix33[T], e T) bool { return a.EqualWithAbsError(b, e) },
	}
	t := bindSquare(name, name+" is a 3x3 matrix", o)

	t.method("multVecMatrix", "multVecMatrix(v) transforms a 2D point", 1, 1, func(c *host.Call, m imath.Matrix33[T], args []host.Value) (host.Value, error) {
		v, err := vecArg(c, v2, name+".multVecMatrix", args[0])
		if err != nil {
			return nil, err
		}
		return v2.Wrap(m.MultVecMatrix(v)), nil
	})
	t.method("multDirMatrix", "multDirMatrix(v) transforms a 2D direction", 1, 1, func(c *host.Call, m imath.Matrix33[T], args []host.Value) (host.Value, error) {
		v, err := vecArg(c, v2, name+".multDirMatrix", args[0])
		if err != nil {
			return nil, err
		}
		return v2.Wrap(m.MultDirMatrix(v)), nil
	})
	t.method("translation", "translation() translation part", 0, 0, func(_ *host.Call, m imath.Matrix33[T], _ []host.Value) (host.Value, error) {
		return v2.Wrap(m.Translation()), nil
	})
	vecMutator := func(method, doc string, arg func(*host.Call, *vecType[imath.Vec2[T], T], string, host.Value) (imath.Vec2[T], error), f func(imath.Matrix33[T], imath.Vec2[T]) imath.Matrix33[T]) {
		t.mutator(method, doc, 1, 1, func(c *host.Call, m *imath.Matrix33[T], args []host.Value) error {
			v, err := arg(c, v2, name+"."+method, args[0])
			if err != nil {
				return err
			}
			*m = f(*m, v)
			return nil
		})
	}
	vecMutator("setTranslation", "setTranslation(v) replaces the translation", vecArg[imath.Vec2[T], T], imath.Matrix33[T].SetTranslation)
	vecMutator("translate", "translate(v) prepends a translation", vecArg[imath.Vec2[T], T], imath.Matrix33[T].Translate)
	vecMutator("setScale", "setScale(s) makes a scaling matrix", scaleArg[imath.Vec2[T], T], imath.Matrix33[T].SetScale)
	vecMutator("scale", "scale(s) prepends a scaling", scaleArg[imath.Vec2[T], T], imath.Matrix33[T].ScaleBy)
	t.mutator("setRotation", "setRotation(r) makes a rotation by r radians", 1, 1, func(_ *host.Call, m *imath.Matrix33[T], args []host.Value) error {
		r, err := toScalar[T](name+".setRotation", args[0])
		if err != nil {
			return err
		}
		*m = m.SetRotation(r)
		return nil
	})

	rowTimes(t, v2, func(m imath.Matrix33[T], v imath.Vec2[T]) imath.Vec2[T] { return m.MultVecMatrix(v) })
	rowTimes(t, v3, func(m imath.Matrix33[T], v imath.Vec3[T]) imath.Vec3[T] { return m.MulVec3(v) })
	return t
}

func bindMatrix44[T imath.Float](name string, v3 *vecType[imath.Vec3[T], T], v4 *vecType[imath.Vec4[T], T]) *Type[imath.Matrix44[T]] {
	o := &squareOps[imath.Matrix44[T], T]{
		n:          4,
		identity:   imath.Identity44[T],
		get:        func(m imath.Matrix44[T], i, j int) T { return m[i][j] },
		set:        func(m *imath.Matrix44[T], i, j int, x T) { m[i][j] = x },
		add:        func(a, b imath.Matrix44[T]) imath.Matrix44[T] { return a.Add(b) },
		sub:        func(a, b imath.Matrix44[T]) imath.Matrix44[T] { return a.Sub(b) },
		mul:        func(a, b imath.Matrix44[T]) imath.Matrix44[T] { return a.Mul(b) },
		scale:      func(m imath.Matrix44[T], s T) imath.Matrix44[T] { return m.Scale(s) },
		transposed: func(m imath.Matrix44[T]) imath.Matrix44[T] { return m.Transposed() },
		det:        func(m imath.Matrix44[T]) T { return m.Determinant() },
		inverse:    func(m imath.Matrix44[T]) (imath.Matrix44[T], error) { return m.Inverse() },
		equalAbs:   func(a, b imath.Matrix44[T], e T) bool { return a.EqualWithAbsError(b, e) },
	}
	t := bindSquare(name, name+" is a 4x4 matrix", o)

	vecMethod := func(method, doc string, f func(imath.Matrix44[T], imath.Vec3[T]) imath.Vec3[T]) {
		t.method(method, doc, 1, 1, func(c *host.Call, m imath.Matrix44[T], args []host.Value) (host.Value, error) {
			v, err := vecArg(c, v3, name+"."+method, args[0])
			if err != nil {
				return nil, err
			}
			return v3.Wrap(f(m, v)), nil
		})
	}
	vecMethod("multVecMatrix", "multVecMatrix(v) transforms a point", imath.Matrix44[T].MultVecMatrix)
	vecMethod("multDirMatrix", "multDirMatrix(v) transforms a direction", imath.Matrix44[T].MultDirMatrix)

	getter := func(method, doc string, f func(imath.Matrix44[T]) imath.Vec3[T]) {
		t.method(method, doc, 0, 0, func(_ *host.Call, m imath.Matrix44[T], _ []host.Value) (host.Value, error) {
			return v3.Wrap(f(m)), nil
		})
	}
	getter("translation", "translation() translation part", imath.Matrix44[T].Translation)
	getter("extractEulerXYZ", "extractEulerXYZ() XYZ rotation angles", imath.Matrix44[T].ExtractEulerXYZ)
	getter("extractScaling", "extractScaling() scale factors", imath.Matrix44[T].ExtractScaling)

	vecMutator := func(method, doc string, arg func(*host.Call, *vecType[imath.Vec3[T], T], string, host.Value) (imath.Vec3[T], error), f func(imath.Matrix44[T], imath.Vec3[T]) imath.Matrix44[T]) {
		t.mutator(method, doc, 1, 1, func(c *host.Call, m *imath.Matrix44[T], args []host.Value) error {
			v, err := arg(c, v3, name+"."+method, args[0])
			if err != nil {
				return err
			}
			*m = f(*m, v)
			return nil
		})
	}
	vecMutator("setTranslation", "setTranslation(v) replaces the translation", vecArg[imath.Vec3[T], T], imath.Matrix44[T].SetTranslation)
	vecMutator("translate", "translate(v) prepends a translation", vecArg[imath.Vec3[T], T], imath.Matrix44[T].Translate)
	vecMutator("setScale", "setScale(s) makes a scaling matrix", scaleArg[imath.Vec3[T], T], imath.Matrix44[T].SetScale)
	vecMutator("scale", "scale(s) prepends a scaling", scaleArg[imath.Vec3[T], T], imath.Matrix44[T].ScaleBy)
	vecMutator("setEulerAngles", "setEulerAngles(r) makes an XYZ rotation", vecArg[imath.Vec3[T], T], imath.Matrix44[T].SetEulerAngles)
	vecMutator("rotate", "rotate(r) prepends an XYZ rotation", vecArg[imath.Vec3[T], T], imath.Matrix44[T].Rotate)
	t.mutator("setAxisAngle", "setAxisAngle(axis, angle) makes a rotation about axis", 2, 2, func(c *host.Call, m *imath.Matrix44[T], args []host.Value) error {
		axis, err := vecArg(c, v3, name+".setAxisAngle", args[0])
		if err != nil {
			return err
		}
		angle, err := toScalar[T](name+".setAxisAngle", args[1])
		if err != nil {
			return err
		}
		*m = m.SetAxisAngle(axis, angle)
		return nil
	})

	rowTimes(t, v3, func(m imath.Matrix44[T], v imath.Vec3[T]) imath.Vec3[T] { return m.MultVecMatrix(v) })
	rowTimes(t, v4, func(m imath.Matrix44[T], v imath.Vec4[T]) imath.Vec4[T] { return m.MulVec4(v) })
	return t
}
