package imath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/imath-bind/iex"
)

const eps = 1e-9

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1.0, 2.0, 3.0)
	b := V3(4.0, 5.0, 6.0)

	assert.Equal(t, V3(5.0, 7.0, 9.0), a.Add(b))
	assert.Equal(t, V3(-3.0, -3.0, -3.0), a.Sub(b))
	assert.Equal(t, V3(4.0, 10.0, 18.0), a.Mul(b))
	assert.Equal(t, V3(2.0, 4.0, 6.0), a.Scale(2))
	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, V3(-3.0, 6.0, -3.0), a.Cross(b))
	assert.Equal(t, 14.0, a.Length2())
	assert.Equal(t, V3(1.0, 2.0, 3.0), a.Min(b))
	assert.Equal(t, V3(-1.0, -2.0, -3.0), a.Neg())

	assert.Equal(t, 3, V3(1, 2, 3).Dim())
	assert.Equal(t, int32(-2), V2[int32](1, 2).Cross(V2[int32](3, 4)))
}

func TestVecComparisons(t *testing.T) {
	a := V3(1.0, 2.0, 3.0)
	assert.True(t, a.EqualWithAbsError(V3(1.05, 1.95, 3.0), 0.1))
	assert.False(t, a.EqualWithAbsError(V3(1.2, 2.0, 3.0), 0.1))
	assert.True(t, a.EqualWithRelError(V3(1.1, 2.2, 3.3), 0.11))

	assert.True(t, LessThan[Vec3[float64], float64](a, V3(1.0, 2.0, 4.0)))
	assert.False(t, LessThan[Vec3[float64], float64](a, a))
	assert.False(t, LessThan[Vec3[float64], float64](a, V3(0.0, 5.0, 5.0)))
	assert.True(t, GreaterThan[Vec3[float64], float64](V3(2.0, 2.0, 3.0), a))

	// unsigned kinds must not wrap when measuring the difference
	assert.True(t, V3[uint8](10, 20, 30).EqualWithAbsError(V3[uint8](12, 18, 30), 2))
}

func TestNormalize(t *testing.T) {
	n, err := V3(3.0, 0.0, 4.0).Normalized()
	require.NoError(t, err)
	assert.InDelta(t, 0.6, n.X, eps)
	assert.InDelta(t, 0.8, n.Z, eps)

	zero, err := Vec3[float32]{}.Normalized()
	require.NoError(t, err)
	assert.Equal(t, Vec3[float32]{}, zero)

	_, err = Vec3[float32]{}.NormalizedExc()
	exc, ok := iex.Catch(err, iex.NullVecExc)
	require.True(t, ok)
	assert.Equal(t, "Cannot normalize null vector.", exc.Error())

	axis, err := V3[int32](0, -7, 0).Normalized()
	require.NoError(t, err)
	assert.Equal(t, V3[int32](0, -1, 0), axis)

	_, err = V3[int32](1, 1, 0).Normalized()
	_, ok = iex.Catch(err, iex.IntVecNormalizeExc)
	assert.True(t, ok)

	_, ok = iex.Catch(err, iex.MathExc)
	assert.True(t, ok, "IntVecNormalizeExc is a MathExc")
}

func TestColorHSV(t *testing.T) {
	tests := []struct {
		name string
		rgb  Vec3[float64]
		hsv  Vec3[float64]
	}{
		{"red", V3(1.0, 0.0, 0.0), V3(0.0, 1.0, 1.0)},
		{"green", V3(0.0, 1.0, 0.0), V3(1.0/3, 1.0, 1.0)},
		{"blue", V3(0.0, 0.0, 1.0), V3(2.0/3, 1.0, 1.0)},
		{"grey", V3(0.5, 0.5, 0.5), V3(0.0, 0.0, 0.5)},
		{"black", V3(0.0, 0.0, 0.0), V3(0.0, 0.0, 0.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hsv := RGBToHSV(tt.rgb)
			assert.True(t, hsv.EqualWithAbsError(tt.hsv, eps), "rgb2hsv = %v", hsv)
			rgb := HSVToRGB(hsv)
			assert.True(t, rgb.EqualWithAbsError(tt.rgb, eps), "hsv2rgb = %v", rgb)
		})
	}

	c := RGBToHSV4(V4(1.0, 0.0, 0.0, 0.25))
	assert.Equal(t, 0.25, c.W)

	// integer colours use the full range of the kind
	assert.Equal(t, V3[uint8](0, 255, 255), RGBToHSV(V3[uint8](255, 0, 0)))
}

func TestMatrixInverse(t *testing.T) {
	m := Identity44[float64]().SetTranslation(V3(1.0, 2.0, 3.0)).ScaleBy(V3(2.0, 2.0, 2.0))
	inv, err := m.Inverse()
	require.NoError(t, err)
	assert.True(t, m.Mul(inv).EqualWithAbsError(Identity44[float64](), eps))

	var singular Matrix44[float64]
	_, err = singular.Inverse()
	_, ok := iex.Catch(err, iex.SingMatrixExc)
	assert.True(t, ok)

	m3 := Matrix33[float64]{{2, 0, 0}, {0, 4, 0}, {1, 1, 1}}
	assert.InDelta(t, 8.0, m3.Determinant(), eps)
	inv3, err := m3.Inverse()
	require.NoError(t, err)
	assert.True(t, m3.Mul(inv3).EqualWithAbsError(Identity33[float64](), eps))
}

func TestMatrixTransforms(t *testing.T) {
	m := Identity44[float64]().SetTranslation(V3(10.0, 0.0, 0.0))
	assert.Equal(t, V3(11.0, 2.0, 3.0), m.MultVecMatrix(V3(1.0, 2.0, 3.0)))
	assert.Equal(t, V3(1.0, 2.0, 3.0), m.MultDirMatrix(V3(1.0, 2.0, 3.0)))
	assert.Equal(t, V3(10.0, 0.0, 0.0), m.Translation())

	r := Identity44[float64]().SetEulerAngles(V3(0.0, 0.0, math.Pi/2))
	v := r.MultDirMatrix(V3(1.0, 0.0, 0.0))
	assert.True(t, v.EqualWithAbsError(V3(0.0, 1.0, 0.0), eps), "got %v", v)

	m2 := Identity33[float64]().SetTranslation(V2(1.0, 1.0))
	assert.Equal(t, V2(2.0, 3.0), m2.MultVecMatrix(V2(1.0, 2.0)))

	rot := Identity44[float64]().SetEulerAngles(V3(0.3, -0.2, 0.1))
	angles := rot.ScaleBy(V3(2.0, 3.0, 4.0)).ExtractEulerXYZ()
	assert.True(t, angles.EqualWithAbsError(V3(0.3, -0.2, 0.1), 1e-7), "got %v", angles)
}

func TestQuat(t *testing.T) {
	q := QuatFromAxisAngle(V3(0.0, 0.0, 1.0), math.Pi/2)
	assert.InDelta(t, math.Pi/2, q.Angle(), eps)
	assert.True(t, q.Axis().EqualWithAbsError(V3(0.0, 0.0, 1.0), eps))

	v := q.Rotate(V3(1.0, 0.0, 0.0))
	assert.True(t, v.EqualWithAbsError(V3(0.0, 1.0, 0.0), eps), "got %v", v)
	assert.True(t, q.ToMatrix33().MulVec3(V3(1.0, 0.0, 0.0)).EqualWithAbsError(v, eps))

	inv, err := q.Inverse()
	require.NoError(t, err)
	assert.True(t, q.Mul(inv).EqualWithAbsError(IdentityQuat[float64](), eps))

	_, err = Quat[float64]{}.Inverse()
	_, ok := iex.Catch(err, iex.NullQuatExc)
	assert.True(t, ok)

	assert.Equal(t, IdentityQuat[float32](), Quat[float32]{}.Normalized())

	half := IdentityQuat[float64]().Slerp(q, 0.5)
	assert.True(t, half.EqualWithAbsError(QuatFromAxisAngle(V3(0.0, 0.0, 1.0), math.Pi/4), 1e-9))

	back := ExtractQuat(q.ToMatrix33())
	assert.True(t, back.EqualWithAbsError(q, eps))

	// largest-diagonal branch: a half turn has zero trace plus one
	flip := QuatFromAxisAngle(V3(1.0, 0.0, 0.0), math.Pi)
	got := ExtractQuat(flip.ToMatrix33())
	assert.True(t, got.EqualWithAbsError(flip, 1e-9) || got.EqualWithAbsError(flip.Neg(), 1e-9))
}

func TestEulerRoundTrip(t *testing.T) {
	angles := V3(0.3, -0.4, 0.5)
	for _, o := range EulerOrders() {
		t.Run(o.String(), func(t *testing.T) {
			e := NewEuler(angles, o)
			m := e.ToMatrix33()
			back := EulerFromMatrix33(m, o)
			assert.Equal(t, o, back.Order)
			assert.True(t, back.ToMatrix33().EqualWithAbsError(m, 1e-9),
				"order %s: %v does not reproduce the matrix", o, back.Angles())
		})
	}

	xyz := NewEuler(angles, EulerXYZ)
	assert.True(t, xyz.ToMatrix44().EqualWithAbsError(Identity44[float64]().SetEulerAngles(angles), eps))
	assert.True(t, xyz.ToQuat().ToMatrix33().EqualWithAbsError(xyz.ToMatrix33(), eps))

	// a rotating order is the static order read backwards
	r := NewEuler(angles, EulerXYZr).ToMatrix33()
	s := NewEuler(angles, EulerZYX).ToMatrix33()
	assert.True(t, r.EqualWithAbsError(s, eps))
}

func TestBox(t *testing.T) {
	b := EmptyBox[Vec3[float32], float32]()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, Vec3[float32]{}, b.Size())

	b = b.ExtendBy(V3[float32](1, 2, 3)).ExtendBy(V3[float32](-1, 0, 7))
	assert.False(t, b.IsEmpty())
	assert.True(t, b.HasVolume())
	assert.Equal(t, V3[float32](-1, 0, 3), b.Min)
	assert.Equal(t, V3[float32](1, 2, 7), b.Max)
	assert.Equal(t, V3[float32](2, 2, 4), b.Size())
	assert.Equal(t, V3[float32](0, 1, 5), b.Center())
	assert.Equal(t, 2, b.MajorAxis())
	assert.True(t, b.Intersects(V3[float32](0, 1, 5)))
	assert.False(t, b.Intersects(V3[float32](0, 1, 8)))

	flat := PointBox[Vec2[int32], int32](V2[int32](1, 1))
	assert.False(t, flat.HasVolume())
	assert.True(t, flat.IntersectsBox(Box2[int32]{Min: V2[int32](0, 0), Max: V2[int32](5, 5)}))

	bb := BoundingBox[Vec2[float64], float64]([]Vec2[float64]{V2(1.0, 5.0), V2(-2.0, 3.0), V2(0.0, 0.0)})
	assert.Equal(t, V2(-2.0, 0.0), bb.Min)
	assert.Equal(t, V2(1.0, 5.0), bb.Max)
}

func TestLinePlane(t *testing.T) {
	l := LineThrough(V3(0.0, 0.0, 0.0), V3(0.0, 0.0, 10.0))
	assert.Equal(t, V3(0.0, 0.0, 1.0), l.Dir)
	assert.InDelta(t, 3.0, l.Distance(V3(3.0, 0.0, 5.0)), eps)
	assert.Equal(t, V3(0.0, 0.0, 5.0), l.ClosestPointTo(V3(3.0, 0.0, 5.0)))

	pl := PlaneFromNormal(V3(0.0, 0.0, 2.0), V3(0.0, 0.0, 5.0))
	assert.InDelta(t, 2.0, pl.Distance, eps)
	assert.InDelta(t, -2.0, pl.DistanceTo(V3(0.0, 0.0, 0.0)), eps)

	p, ok := pl.Intersect(l)
	require.True(t, ok)
	assert.Equal(t, V3(0.0, 0.0, 2.0), p)

	_, ok = pl.Intersect(Line3[float64]{Dir: V3(1.0, 0.0, 0.0)})
	assert.False(t, ok)

	assert.Equal(t, V3(0.0, 0.0, 4.0), pl.ReflectPoint(V3(0.0, 0.0, 0.0)))

	three := PlaneThrough(V3(0.0, 0.0, 1.0), V3(1.0, 0.0, 1.0), V3(0.0, 1.0, 1.0))
	assert.Equal(t, V3(0.0, 0.0, 1.0), three.Normal)
	assert.InDelta(t, 1.0, three.Distance, eps)
}

func TestFrustum(t *testing.T) {
	f := DefaultFrustum[float64]()
	aspect, err := f.Aspect()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, aspect, eps)

	fov, err := FrustumFromFov(1.0, 100.0, 0, math.Pi/2, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fov.Top, eps)
	assert.InDelta(t, 2.0, fov.Right, eps)
	assert.InDelta(t, math.Pi/2, fov.FovY(), eps)

	_, err = FrustumFromFov(1.0, 100.0, 1, 1, 1.0)
	_, ok := iex.Catch(err, iex.ArgExc)
	assert.True(t, ok)

	m, err := f.ProjectionMatrix()
	require.NoError(t, err)
	assert.InDelta(t, -1.0, m[2][3], eps)

	flat := Frustum[float64]{Near: 1, Far: 1, Left: -1, Right: 1, Top: 1, Bottom: -1}
	_, err = flat.ProjectionMatrix()
	_, ok = iex.Catch(err, iex.DivzeroExc)
	assert.True(t, ok)
}

func TestShear(t *testing.T) {
	s := ShearFromVec(V3(1.0, 2.0, 3.0))
	assert.Equal(t, [6]float64{1, 2, 3, 0, 0, 0}, s.Comps())
	assert.Equal(t, ShearFromComps([6]float64{2, 4, 6, 0, 0, 0}), s.Add(s))
	assert.Equal(t, s.Scale(-1), s.Neg())
	assert.Equal(t, 1.0, s.Matrix()[1][0])
}

func TestFun(t *testing.T) {
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"lerp", Lerp(2.0, 4.0, 0.5), 3.0},
		{"ulerp", Ulerp(4.0, 2.0, 0.25), 3.5},
		{"lerpfactor", Lerpfactor(3.0, 2.0, 4.0), 0.5},
		{"lerpfactor degenerate", Lerpfactor(3.0, 2.0, 2.0), 0.0},
		{"clamp low", Clamp(-1, 0, 10), 0},
		{"clamp high", Clamp(11, 0, 10), 10},
		{"cmp", Cmp(1.0, 2.0), -1},
		{"cmpt", Cmpt(1.0, 1.05, 0.1), 0},
		{"iszero", IsZero(0.05, 0.1), true},
		{"equal", Equal(1.0, 1.2, 0.1), false},
		{"floor", Floor(-1.5), -2},
		{"floor integral", Floor(-2.0), -2},
		{"ceil", Ceil(1.2), 2},
		{"trunc", Trunc(-1.7), -1},
		{"divs", Divs(-7, 2), -3},
		{"mods", Mods(-7, 2), -1},
		{"divp", Divp(-7, 2), -4},
		{"modp", Modp(-7, 2), 1},
		{"divp negative divisor", Divp(-7, -2), 4},
		{"modp negative divisor", Modp(-7, -2), 1},
		{"sign", Sign(-3.0), -1.0},
		{"abs", Abs(int32(-4)), int32(4)},
		{"bias identity", Bias(0.3, 0.5), 0.3},
		{"gain midpoint", Gain(0.5, 0.7), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.InDelta(t, 0.25, Bias(0.5, 0.25), 1e-12)
}

func TestRotationXYZWithUpDir(t *testing.T) {
	r := RotationXYZWithUpDir(V3(1.0, 0.0, 0.0), V3(1.0, 0.0, 0.0), V3(0.0, 1.0, 0.0))
	assert.True(t, r.EqualWithAbsError(Vec3[float64]{}, 1e-9), "got %v", r)

	from, to := V3(1.0, 0.0, 0.0), V3(0.0, 1.0, 0.0)
	r = RotationXYZWithUpDir(from, to, V3(0.0, 0.0, 1.0))
	got := Identity44[float64]().SetEulerAngles(r).MultDirMatrix(from)
	assert.True(t, got.EqualWithAbsError(to, 1e-9), "rotated %v", got)
}

func TestRand32(t *testing.T) {
	r := NewRand32(0)
	assert.Equal(t, uint32(2781832689), r.NextI())

	a, b := NewRand32(7), NewRand32(7)
	for range 100 {
		require.Equal(t, a.NextF(), b.NextF())
	}

	for range 1000 {
		f := r.NextF()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
		g := r.NextFRange(-2, 3)
		require.GreaterOrEqual(t, g, -2.0)
		require.Less(t, g, 3.0)
	}
}

func TestRand48(t *testing.T) {
	r := NewRand48(0)
	assert.Equal(t, uint32(126254670), r.NextI())

	r.Init(0)
	assert.InDelta(t, 0.05879191247037241, r.NextF(), 1e-15)

	for range 1000 {
		f := r.NextF()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

func TestSphereRand(t *testing.T) {
	rnd := NewRand48(42)
	for range 200 {
		s := SolidSphereRand[Vec3[float64], float64](rnd)
		require.LessOrEqual(t, s.Length2(), 1.0)

		h := HollowSphereRand[Vec3[float64], float64](rnd)
		require.InDelta(t, 1.0, h.Length(), 1e-9)

		d := HollowSphereRand[Vec2[float32], float32](rnd)
		require.InDelta(t, 1.0, float64(d.Length()), 1e-6)
	}

	var sum float64
	const n = 5000
	for range n {
		sum += GaussRand(rnd)
	}
	assert.InDelta(t, 0.0, sum/n, 0.1)
}

func TestLimits(t *testing.T) {
	assert.Equal(t, int8(127), MaxValue[int8]())
	assert.Equal(t, int8(-128), MinValue[int8]())
	assert.Equal(t, uint16(0), MinValue[uint16]())
	assert.Equal(t, float32(-math.MaxFloat32), MinValue[float32]())
	assert.InDelta(t, 1.1920929e-07, FloatLimits.Epsilon, 1e-14)
	assert.True(t, IsIntegral[uint8]())
	assert.False(t, IsIntegral[float32]())
}
