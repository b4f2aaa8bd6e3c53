package bind

import (
	"github.com/x448/float16"

	"github.com/wippyai/imath-bind/array"
	"github.com/wippyai/imath-bind/excreg"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/imath"
	"github.com/wippyai/imath-bind/task"
)

type options struct {
	reprLimit int
	iex       *host.Module
	pool      *task.Pool

	// mask is IntArray, the type of comparison results and selection keys.
	mask *maskArray
}

// Option configures NewImathModule.
type Option func(*options)

// WithReprLimit truncates array reprs after n elements. Zero prints all.
func WithReprLimit(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.reprLimit = n
		}
	}
}

// WithIexModule exposes m as the iex attribute of the imath module.
func WithIexModule(m *host.Module) Option {
	return func(o *options) {
		o.iex = m
	}
}

// WithPool runs bulk array work of the module's arrays on p instead of
// task.Default.
func WithPool(p *task.Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// builder collects the first binding error so the module can be assembled
// without checking every call.
type builder struct {
	m   *host.Module
	err error
}

func (b *builder) set(name string, v host.Value) {
	if b.err == nil {
		b.err = b.m.Set(name, v)
	}
}

func (b *builder) class(classes ...*host.Class) {
	for _, cls := range classes {
		if b.err == nil {
			b.err = b.m.AddClass(cls)
		}
	}
}

func (b *builder) fn(name, doc string, f host.Func) {
	if b.err == nil {
		b.err = b.m.AddFunc(name, doc, f)
	}
}

func (b *builder) done() (*host.Module, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.m.Freeze()
	return b.m, nil
}

// scalarKinds are the bound arrays of plain numbers and bools.
type scalarKinds struct {
	bools   *arrayType[bool, bool]
	int8s   *arrayType[int8, int8]
	uint8s  *arrayType[uint8, uint8]
	int16s  *arrayType[int16, int16]
	uint16s *arrayType[uint16, uint16]
	int32s  *arrayType[int32, int32]
	uint32s *arrayType[uint32, uint32]
	floats  *arrayType[float32, float32]
	doubles *arrayType[float64, float64]
	halves  *arrayType[float16.Float16, float16.Float16]
}

func scalarArray[T imath.Scalar](o *options, name string, ops *array.Ops[T, T]) *arrayType[T, T] {
	t := newArray(o, name, scalarCodec[T](), scalarCodec[T](), ops)
	t.scalars = t.Type
	return t
}

func boolCodec() codec[bool] {
	return codec[bool]{
		accept: func(_ *host.Call, v host.Value) (bool, bool, error) {
			if b, ok := v.(bool); ok {
				return b, true, nil
			}
			if i, ok := host.AsInt(v); ok {
				return i != 0, true, nil
			}
			return false, false, nil
		},
		wrap: func(b bool) host.Value { return b },
	}
}

func halfCodec() codec[float16.Float16] {
	return codec[float16.Float16]{
		accept: func(_ *host.Call, v host.Value) (float16.Float16, bool, error) {
			f, ok := host.AsFloat(v)
			if !ok {
				return 0, false, nil
			}
			return float16.Fromfloat32(float32(f)), true, nil
		},
		wrap: func(h float16.Float16) host.Value { return float64(h.Float32()) },
	}
}

func bindScalarKinds(b *builder, o *options) *scalarKinds {
	s := &scalarKinds{}
	s.int32s = scalarArray(o, "IntArray", array.IntegerOps[int32]())
	o.mask = s.int32s

	s.bools = newArray(o, "BoolArray", boolCodec(), codec[bool]{}, array.BoolOps())
	s.int8s = scalarArray(o, "SignedCharArray", array.IntegerOps[int8]())
	s.uint8s = scalarArray(o, "UnsignedCharArray", array.IntegerOps[uint8]())
	s.int16s = scalarArray(o, "ShortArray", array.IntegerOps[int16]())
	s.uint16s = scalarArray(o, "UnsignedShortArray", array.IntegerOps[uint16]())
	s.uint32s = scalarArray(o, "UnsignedIntArray", array.IntegerOps[uint32]())
	s.floats = scalarArray(o, "FloatArray", array.FloatOps[float32]())
	s.doubles = scalarArray(o, "DoubleArray", array.FloatOps[float64]())
	s.halves = newArray(o, "HalfArray", halfCodec(), halfCodec(), array.HalfOps())
	s.halves.scalars = s.halves.Type

	// Every numeric array converts to and from the three wide kinds.
	linkScalarArrays(s.int32s, s.floats)
	linkScalarArrays(s.int32s, s.doubles)
	linkScalarArrays(s.floats, s.doubles)
	linkWide(s, s.int8s)
	linkWide(s, s.uint8s)
	linkWide(s, s.int16s)
	linkWide(s, s.uint16s)
	linkWide(s, s.uint32s)
	linkArrays(s.halves.Type, s.floats.Type, float16.Float16.Float32, float16.Fromfloat32)
	linkArrays(s.halves.Type, s.doubles.Type,
		func(h float16.Float16) float64 { return float64(h.Float32()) },
		func(f float64) float16.Float16 { return float16.Fromfloat32(float32(f)) })

	b.class(s.bools.Class, s.int8s.Class, s.uint8s.Class, s.int16s.Class, s.uint16s.Class,
		s.int32s.Class, s.uint32s.Class, s.floats.Class, s.doubles.Class, s.halves.Class)
	return s
}

func linkWide[T imath.Scalar](s *scalarKinds, a *arrayType[T, T]) {
	linkScalarArrays(a, s.int32s)
	linkScalarArrays(a, s.floats)
	linkScalarArrays(a, s.doubles)
}

// vectorKind holds the vector and box classes of one component kind.
type vectorKind[T imath.Scalar] struct {
	v2   *vecType[imath.Vec2[T], T]
	v3   *vecType[imath.Vec3[T], T]
	v4   *vecType[imath.Vec4[T], T]
	box2 *Type[imath.Box[imath.Vec2[T], T]]
	box3 *Type[imath.Box[imath.Vec3[T], T]]

	v2a   *arrayType[imath.Vec2[T], T]
	v3a   *arrayType[imath.Vec3[T], T]
	v4a   *arrayType[imath.Vec4[T], T]
	box2a *arrayType[imath.Box[imath.Vec2[T], T], T]
	box3a *arrayType[imath.Box[imath.Vec3[T], T], T]
}

func vectorArray[V imath.Vector[V, T], T imath.Scalar](o *options, name string, vt *vecType[V, T], scalars *arrayType[T, T], fields []string) *arrayType[V, T] {
	t := newArray(o, name, typeCodec(vt.Type), scalarCodec[T](), array.VectorOps[V, T]())
	bindVectorArray(t, vt, scalars, fields)
	return t
}

func bindVectorKind[T imath.Scalar](b *builder, o *options, suffix string, scalars *arrayType[T, T]) *vectorKind[T] {
	k := &vectorKind[T]{
		v2: bindVec2[T]("V2" + suffix),
		v3: bindVec3[T]("V3" + suffix),
		v4: bindVec4[T]("V4" + suffix),
	}
	k.box2 = bindBox("Box2"+suffix, k.v2)
	k.box3 = bindBox("Box3"+suffix, k.v3)

	k.v2a = vectorArray(o, "V2"+suffix+"Array", k.v2, scalars, vecFields)
	k.v3a = vectorArray(o, "V3"+suffix+"Array", k.v3, scalars, vecFields)
	k.v4a = vectorArray(o, "V4"+suffix+"Array", k.v4, scalars, vecFields)
	bindCrossArray(k.v3a, k.v3)
	bindBoundsArray(k.v2a, k.box2)
	bindBoundsArray(k.v3a, k.box3)
	k.box2a = newArray(o, "Box2"+suffix+"Array", typeCodec(k.box2), codec[T]{}, array.EqualityOps[imath.Box[imath.Vec2[T], T], T]())
	k.box3a = newArray(o, "Box3"+suffix+"Array", typeCodec(k.box3), codec[T]{}, array.EqualityOps[imath.Box[imath.Vec3[T], T], T]())

	b.class(k.v2.Class, k.v3.Class, k.v4.Class, k.box2.Class, k.box3.Class,
		k.v2a.Class, k.v3a.Class, k.v4a.Class, k.box2a.Class, k.box3a.Class)
	return k
}

func linkVectorKinds[T, U imath.Scalar](a *vectorKind[T], b *vectorKind[U]) {
	linkVectors(a.v2, b.v2)
	linkVectors(a.v3, b.v3)
	linkVectors(a.v4, b.v4)
	link(a.box2, b.box2,
		convertBox[imath.Vec2[U], imath.Vec2[T], U, T],
		convertBox[imath.Vec2[T], imath.Vec2[U], T, U])
	link(a.box3, b.box3,
		convertBox[imath.Vec3[U], imath.Vec3[T], U, T],
		convertBox[imath.Vec3[T], imath.Vec3[U], T, U])
	linkVectorArrays(a.v2a, b.v2a)
	linkVectorArrays(a.v3a, b.v3a)
	linkVectorArrays(a.v4a, b.v4a)
	linkArrays(a.box2a.Type, b.box2a.Type,
		convertBox[imath.Vec2[U], imath.Vec2[T], U, T],
		convertBox[imath.Vec2[T], imath.Vec2[U], T, U])
	linkArrays(a.box3a.Type, b.box3a.Type,
		convertBox[imath.Vec3[U], imath.Vec3[T], U, T],
		convertBox[imath.Vec3[T], imath.Vec3[U], T, U])
}

// floatKind adds the rotation and geometry classes of one precision.
type floatKind[T imath.Float] struct {
	*vectorKind[T]
	m33     *Type[imath.Matrix33[T]]
	m44     *Type[imath.Matrix44[T]]
	quat    *Type[imath.Quat[T]]
	euler   *Type[imath.Euler[T]]
	line    *Type[imath.Line3[T]]
	plane   *Type[imath.Plane3[T]]
	frustum *Type[imath.Frustum[T]]
	shear   *Type[imath.Shear6[T]]

	m33a   *arrayType[imath.Matrix33[T], T]
	m44a   *arrayType[imath.Matrix44[T], T]
	quata  *arrayType[imath.Quat[T], T]
	eulera *arrayType[imath.Euler[T], T]
}

func bindFloatKind[T imath.Float](b *builder, o *options, suffix string, scalars *arrayType[T, T]) *floatKind[T] {
	k := &floatKind[T]{vectorKind: bindVectorKind(b, o, suffix, scalars)}
	k.m33 = bindMatrix33("M33"+suffix, k.v2, k.v3)
	k.m44 = bindMatrix44("M44"+suffix, k.v3, k.v4)
	k.quat = bindQuat("Quat"+suffix, k.v3, k.m33, k.m44)
	k.euler = bindEuler("Euler"+suffix, &rotationTypes[T]{v3: k.v3, m33: k.m33, m44: k.m44, quat: k.quat})
	k.line = bindLine("Line3"+suffix, k.v3)
	k.plane = bindPlane("Plane3"+suffix, k.v3, k.line)
	k.frustum = bindFrustum("Frustum"+suffix, k.m44)
	k.shear = bindShear("Shear6"+suffix, k.v3, k.m44)

	k.m33a = newArray(o, "M33"+suffix+"Array", typeCodec(k.m33), scalarCodec[T](), array.Matrix33Ops[T]())
	k.m44a = newArray(o, "M44"+suffix+"Array", typeCodec(k.m44), scalarCodec[T](), array.Matrix44Ops[T]())
	k.quata = newArray(o, "Quat"+suffix+"Array", typeCodec(k.quat), scalarCodec[T](), array.QuatOps[T]())
	k.eulera = newArray(o, "Euler"+suffix+"Array", typeCodec(k.euler), codec[T]{}, array.EqualityOps[imath.Euler[T], T]())
	k.m33a.scalars = scalars.Type
	k.m44a.scalars = scalars.Type
	k.quata.scalars = scalars.Type

	b.class(k.m33.Class, k.m44.Class, k.quat.Class, k.euler.Class,
		k.line.Class, k.plane.Class, k.frustum.Class, k.shear.Class,
		k.m33a.Class, k.m44a.Class, k.quata.Class, k.eulera.Class)
	return k
}

func linkFloatKinds[T, U imath.Float](a *floatKind[T], b *floatKind[U]) {
	link(a.m33, b.m33, convertMatrix33[U, T], convertMatrix33[T, U])
	link(a.m44, b.m44, convertMatrix44[U, T], convertMatrix44[T, U])
	link(a.quat, b.quat, convertQuat[U, T], convertQuat[T, U])
	link(a.euler, b.euler, convertEuler[U, T], convertEuler[T, U])
	linkArrays(a.m33a.Type, b.m33a.Type, convertMatrix33[U, T], convertMatrix33[T, U])
	linkArrays(a.m44a.Type, b.m44a.Type, convertMatrix44[U, T], convertMatrix44[T, U])
	linkArrays(a.quata.Type, b.quata.Type, convertQuat[U, T], convertQuat[T, U])
	linkArrays(a.eulera.Type, b.eulera.Type, convertEuler[U, T], convertEuler[T, U])
}

// colorKind holds the colour classes of one component kind.
type colorKind[T imath.Scalar] struct {
	c3  *vecType[imath.Vec3[T], T]
	c4  *vecType[imath.Vec4[T], T]
	c3a *arrayType[imath.Vec3[T], T]
	c4a *arrayType[imath.Vec4[T], T]
}

func bindColorKind[T imath.Scalar](b *builder, o *options, suffix string, v3 *vecType[imath.Vec3[T], T], v4 *vecType[imath.Vec4[T], T], scalars *arrayType[T, T]) *colorKind[T] {
	k := &colorKind[T]{
		c3: bindColor3("Color3"+suffix, v3),
		c4: bindColor4("Color4"+suffix, v4),
	}
	k.c3a = vectorArray(o, "C3"+suffix+"Array", k.c3, scalars, colorFields)
	k.c4a = vectorArray(o, "C4"+suffix+"Array", k.c4, scalars, colorFields)
	b.class(k.c3.Class, k.c4.Class, k.c3a.Class, k.c4a.Class)
	return k
}

func linkColorKinds[T, U imath.Scalar](a *colorKind[T], b *colorKind[U]) {
	linkVectors(a.c3, b.c3)
	linkVectors(a.c4, b.c4)
	linkVectorArrays(a.c3a, b.c3a)
	linkVectorArrays(a.c4a, b.c4a)
}

// NewImathModule builds the imath module: the value classes, their fixed
// arrays, the imath exception classes mirrored by reg, the vectorised
// utility functions and the limit and Euler order constants.
func NewImathModule(reg *excreg.Registry, opts ...Option) (*host.Module, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	b := &builder{m: host.NewModule(ModuleName, "Vector, matrix, rotation and array types of the imath library")}
	if o.iex != nil {
		b.set("iex", o.iex)
	}
	b.class(reg.Classes(ModuleName)...)

	s := bindScalarKinds(b, o)
	vs := bindVectorKind(b, o, "s", s.int16s)
	vi := bindVectorKind(b, o, "i", s.int32s)
	vf := bindFloatKind(b, o, "f", s.floats)
	vd := bindFloatKind(b, o, "d", s.doubles)
	linkVectorKinds(vs, vi)
	linkVectorKinds(vs, vf.vectorKind)
	linkVectorKinds(vs, vd.vectorKind)
	linkVectorKinds(vi, vf.vectorKind)
	linkVectorKinds(vi, vd.vectorKind)
	linkVectorKinds(vf.vectorKind, vd.vectorKind)
	linkFloatKinds(vf, vd)

	// The byte vectors exist for colours; they have no arrays or boxes.
	v3c, v4c := bindVec3[uint8]("V3c"), bindVec4[uint8]("V4c")
	b.class(v3c.Class, v4c.Class)
	linkVectors(v3c, vi.v3)
	linkVectors(v3c, vf.v3)
	linkVectors(v4c, vi.v4)
	linkVectors(v4c, vf.v4)

	cc := bindColorKind(b, o, "c", v3c, v4c, s.uint8s)
	cf := bindColorKind(b, o, "f", vf.v3, vf.v4, s.floats)
	linkColorKinds(cc, cf)

	b.class(bindStringArray(o).Class)

	rt := &randTypes{spheres: spheres{sphereOf(vf.v2), sphereOf(vf.v3), sphereOf(vd.v2), sphereOf(vd.v3)}}
	r32 := bindRand(rt, "Rand32", "Rand32 is a fast 32-bit linear congruential generator", imath.NewRand32)
	r48 := bindRand(rt, "Rand48", "Rand48 is a 48-bit generator matching erand48", imath.NewRand48)
	b.class(r32.Class, r48.Class)

	addFunctions(b, &scalarArrays{ints: s.int32s, floats: s.floats, doubles: s.doubles})
	addRandFuncs(b, rt)
	addGeometryFuncs(b, vf, vd)
	addConstants(b)

	return b.done()
}

// addGeometryFuncs registers the functions over V3 values and arrays. The
// double form is chosen when any argument is a double vector or array.
func addGeometryFuncs(b *builder, f *floatKind[float32], d *floatKind[float64]) {
	b.fn("rotationXYZWithUpDir", "rotationXYZWithUpDir(from, to, up) Euler XYZ angles turning from toward to with up kept upward", func(c *host.Call, args []host.Value) (host.Value, error) {
		if err := arity("rotationXYZWithUpDir", args, 3, 3); err != nil {
			return nil, err
		}
		for _, a := range args {
			if host.IsInstance(a, d.v3.Class) {
				return rotationXYZ(c, d.v3, args)
			}
		}
		return rotationXYZ(c, f.v3, args)
	})
	b.fn("computeBoundingBox", "computeBoundingBox(position) bounding box of a V3fArray or V3dArray", func(_ *host.Call, args []host.Value) (host.Value, error) {
		if err := arity("computeBoundingBox", args, 1, 1); err != nil {
			return nil, err
		}
		if a, ok := f.v3a.Unwrap(args[0]); ok {
			return f.box3.Wrap(array.BoundingBox(a)), nil
		}
		if a, ok := d.v3a.Unwrap(args[0]); ok {
			return d.box3.Wrap(array.BoundingBox(a)), nil
		}
		return nil, kindError("computeBoundingBox", "V3fArray or V3dArray", args[0])
	})
}

func rotationXYZ[T imath.Float](c *host.Call, v3 *vecType[imath.Vec3[T], T], args []host.Value) (host.Value, error) {
	var vs [3]imath.Vec3[T]
	for i, a := range args {
		v, err := v3.Convert(c, "rotationXYZWithUpDir", a)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return v3.Wrap(imath.RotationXYZWithUpDir(vs[0], vs[1], vs[2])), nil
}

func addConstants(b *builder) {
	for _, o := range imath.EulerOrders() {
		b.set("EULER_"+o.String(), int64(o))
	}
	b.set("EULER_X_AXIS", int64(imath.AxisX))
	b.set("EULER_Y_AXIS", int64(imath.AxisY))
	b.set("EULER_Z_AXIS", int64(imath.AxisZ))

	b.set("INT_MIN", int64(imath.IntLimits.Min))
	b.set("INT_MAX", int64(imath.IntLimits.Max))
	b.set("INT_SMALLEST", int64(imath.IntLimits.Smallest))
	b.set("INT_EPS", int64(imath.IntLimits.Epsilon))
	limits := func(prefix string, l imath.Limits) {
		b.set(prefix+"_MIN", l.Min)
		b.set(prefix+"_MAX", l.Max)
		b.set(prefix+"_SMALLEST", l.Smallest)
		b.set(prefix+"_EPS", l.Epsilon)
	}
	limits("FLT", imath.FloatLimits)
	limits("DBL", imath.DoubleLimits)
}
