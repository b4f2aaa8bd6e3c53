package imath

import (
	"math"

	"github.com/wippyai/imath-bind/iex"
)

// Vector is the method set shared by Vec2, Vec3 and Vec4. Generic code such
// as Box and the random sphere draws is written against it.
type Vector[V any, T Scalar] interface {
	comparable
	Dim() int
	Comp(i int) T
	WithComp(i int, x T) V
	Add(w V) V
	Sub(w V) V
	Mul(w V) V
	Div(w V) V
	Scale(s T) V
	DivScalar(s T) V
	Neg() V
	Dot(w V) T
	Length2() T
	Length() T
	Min(w V) V
	Max(w V) V
	EqualWithAbsError(w V, e T) bool
	EqualWithRelError(w V, e T) bool
}

// Vec2 is a two-component vector.
type Vec2[T Scalar] struct{ X, Y T }

// Vec3 is a three-component vector.
type Vec3[T Scalar] struct{ X, Y, Z T }

// Vec4 is a four-component vector.
type Vec4[T Scalar] struct{ X, Y, Z, W T }

// V2 returns the vector (x, y).
func V2[T Scalar](x, y T) Vec2[T] { return Vec2[T]{x, y} }

// V3 returns the vector (x, y, z).
func V3[T Scalar](x, y, z T) Vec3[T] { return Vec3[T]{x, y, z} }

// V4 returns the vector (x, y, z, w).
func V4[T Scalar](x, y, z, w T) Vec4[T] { return Vec4[T]{x, y, z, w} }

func absDiff[T Scalar](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}

func withAbsError[T Scalar](a, b, e T) bool { return absDiff(a, b) <= e }

func withRelError[T Scalar](a, b, e T) bool { return absDiff(a, b) <= e*abs(a) }

func (v Vec2[T]) Dim() int { return 2 }

func (v Vec2[T]) Comp(i int) T {
	if i == 0 {
		return v.X
	}
	return v.Y
}

func (v Vec2[T]) WithComp(i int, x T) Vec2[T] {
	if i == 0 {
		v.X = x
	} else {
		v.Y = x
	}
	return v
}

func (v Vec2[T]) Add(w Vec2[T]) Vec2[T] { return Vec2[T]{v.X + w.X, v.Y + w.Y} }
func (v Vec2[T]) Sub(w Vec2[T]) Vec2[T] { return Vec2[T]{v.X - w.X, v.Y - w.Y} }
func (v Vec2[T]) Mul(w Vec2[T]) Vec2[T] { return Vec2[T]{v.X * w.X, v.Y * w.Y} }
func (v Vec2[T]) Div(w Vec2[T]) Vec2[T] { return Vec2[T]{v.X / w.X, v.Y / w.Y} }
func (v Vec2[T]) Scale(s T) Vec2[T]     { return Vec2[T]{v.X * s, v.Y * s} }
func (v Vec2[T]) DivScalar(s T) Vec2[T] { return Vec2[T]{v.X / s, v.Y / s} }
func (v Vec2[T]) Neg() Vec2[T]          { return Vec2[T]{-v.X, -v.Y} }
func (v Vec2[T]) Dot(w Vec2[T]) T       { return v.X*w.X + v.Y*w.Y }
func (v Vec2[T]) Length2() T            { return v.Dot(v) }
func (v Vec2[T]) Length() T             { return sqrt(v.Length2()) }
func (v Vec2[T]) Min(w Vec2[T]) Vec2[T] { return Vec2[T]{min(v.X, w.X), min(v.Y, w.Y)} }
func (v Vec2[T]) Max(w Vec2[T]) Vec2[T] { return Vec2[T]{max(v.X, w.X), max(v.Y, w.Y)} }

// Cross returns the z component of the 3D cross product.
func (v Vec2[T]) Cross(w Vec2[T]) T { return v.X*w.Y - v.Y*w.X }

func (v Vec2[T]) EqualWithAbsError(w Vec2[T], e T) bool {
	return withAbsError(v.X, w.X, e) && withAbsError(v.Y, w.Y, e)
}

func (v Vec2[T]) EqualWithRelError(w Vec2[T], e T) bool {
	return withRelError(v.X, w.X, e) && withRelError(v.Y, w.Y, e)
}

func (v Vec3[T]) Dim() int { return 3 }

func (v Vec3[T]) Comp(i int) T {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func (v Vec3[T]) WithComp(i int, x T) Vec3[T] {
	switch i {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	default:
		v.Z = x
	}
	return v
}

func (v Vec3[T]) Add(w Vec3[T]) Vec3[T] { return Vec3[T]{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }
func (v Vec3[T]) Sub(w Vec3[T]) Vec3[T] { return Vec3[T]{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }
func (v Vec3[T]) Mul(w Vec3[T]) Vec3[T] { return Vec3[T]{v.X * w.X, v.Y * w.Y, v.Z * w.Z} }
func (v Vec3[T]) Div(w Vec3[T]) Vec3[T] { return Vec3[T]{v.X / w.X, v.Y / w.Y, v.Z / w.Z} }
func (v Vec3[T]) Scale(s T) Vec3[T]     { return Vec3[T]{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3[T]) DivScalar(s T) Vec3[T] { return Vec3[T]{v.X / s, v.Y / s, v.Z / s} }
func (v Vec3[T]) Neg() Vec3[T]          { return Vec3[T]{-v.X, -v.Y, -v.Z} }
func (v Vec3[T]) Dot(w Vec3[T]) T       { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }
func (v Vec3[T]) Length2() T            { return v.Dot(v) }
func (v Vec3[T]) Length() T             { return sqrt(v.Length2()) }

func (v Vec3[T]) Min(w Vec3[T]) Vec3[T] {
	return Vec3[T]{min(v.X, w.X), min(v.Y, w.Y), min(v.Z, w.Z)}
}

func (v Vec3[T]) Max(w Vec3[T]) Vec3[T] {
	return Vec3[T]{max(v.X, w.X), max(v.Y, w.Y), max(v.Z, w.Z)}
}

// Cross returns the right-handed cross product v × w.
func (v Vec3[T]) Cross(w Vec3[T]) Vec3[T] {
	return Vec3[T]{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

func (v Vec3[T]) EqualWithAbsError(w Vec3[T], e T) bool {
	return withAbsError(v.X, w.X, e) && withAbsError(v.Y, w.Y, e) && withAbsError(v.Z, w.Z, e)
}

func (v Vec3[T]) EqualWithRelError(w Vec3[T], e T) bool {
	return withRelError(v.X, w.X, e) && withRelError(v.Y, w.Y, e) && withRelError(v.Z, w.Z, e)
}

func (v Vec4[T]) Dim() int { return 4 }

func (v Vec4[T]) Comp(i int) T {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	return v.W
}

func (v Vec4[T]) WithComp(i int, x T) Vec4[T] {
	switch i {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	case 2:
		v.Z = x
	default:
		v.W = x
	}
	return v
}

func (v Vec4[T]) Add(w Vec4[T]) Vec4[T] { return Vec4[T]{v.X + w.X, v.Y + w.Y, v.Z + w.Z, v.W + w.W} }
func (v Vec4[T]) Sub(w Vec4[T]) Vec4[T] { return Vec4[T]{v.X - w.X, v.Y - w.Y, v.Z - w.Z, v.W - w.W} }
func (v Vec4[T]) Mul(w Vec4[T]) Vec4[T] { return Vec4[T]{v.X * w.X, v.Y * w.Y, v.Z * w.Z, v.W * w.W} }
func (v Vec4[T]) Div(w Vec4[T]) Vec4[T] { return Vec4[T]{v.X / w.X, v.Y / w.Y, v.Z / w.Z, v.W / w.W} }
func (v Vec4[T]) Scale(s T) Vec4[T]     { return Vec4[T]{v.X * s, v.Y * s, v.Z * s, v.W * s} }
func (v Vec4[T]) DivScalar(s T) Vec4[T] { return Vec4[T]{v.X / s, v.Y / s, v.Z / s, v.W / s} }
func (v Vec4[T]) Neg() Vec4[T]          { return Vec4[T]{-v.X, -v.Y, -v.Z, -v.W} }
func (v Vec4[T]) Dot(w Vec4[T]) T       { return v.X*w.X + v.Y*w.Y + v.Z*w.Z + v.W*w.W }
func (v Vec4[T]) Length2() T            { return v.Dot(v) }
func (v Vec4[T]) Length() T             { return sqrt(v.Length2()) }

func (v Vec4[T]) Min(w Vec4[T]) Vec4[T] {
	return Vec4[T]{min(v.X, w.X), min(v.Y, w.Y), min(v.Z, w.Z), min(v.W, w.W)}
}

func (v Vec4[T]) Max(w Vec4[T]) Vec4[T] {
	return Vec4[T]{max(v.X, w.X), max(v.Y, w.Y), max(v.Z, w.Z), max(v.W, w.W)}
}

func (v Vec4[T]) EqualWithAbsError(w Vec4[T], e T) bool {
	return withAbsError(v.X, w.X, e) && withAbsError(v.Y, w.Y, e) &&
		withAbsError(v.Z, w.Z, e) && withAbsError(v.W, w.W, e)
}

func (v Vec4[T]) EqualWithRelError(w Vec4[T], e T) bool {
	return withRelError(v.X, w.X, e) && withRelError(v.Y, w.Y, e) &&
		withRelError(v.Z, w.Z, e) && withRelError(v.W, w.W, e)
}

// Splat returns a vector with every component set to x.
func Splat[V Vector[V, T], T Scalar](x T) V {
	var v V
	for i := range v.Dim() {
		v = v.WithComp(i, x)
	}
	return v
}

func floatLength[V Vector[V, T], T Scalar](v V) float64 {
	var sum float64
	for i := range v.Dim() {
		c := float64(v.Comp(i))
		sum += c * c
	}
	return math.Sqrt(sum)
}

// Normalized returns v scaled to unit length. A null vector is returned
// unchanged. Integer vectors can only be normalized when they are parallel to
// a principal axis; any other integer vector is an IntVecNormalizeExc.
func Normalized[V Vector[V, T], T Scalar](v V) (V, error) {
	if IsIntegral[T]() {
		return normalizeIntegral[V, T](v)
	}
	l := floatLength[V, T](v)
	if l == 0 {
		return v, nil
	}
	for i := range v.Dim() {
		v = v.WithComp(i, T(float64(v.Comp(i))/l))
	}
	return v, nil
}

// NormalizedExc is Normalized, except that a null vector is a NullVecExc.
func NormalizedExc[V Vector[V, T], T Scalar](v V) (V, error) {
	var zero V
	if v == zero {
		return v, iex.NullVecExc.New("Cannot normalize null vector.")
	}
	return Normalized[V, T](v)
}

func normalizeIntegral[V Vector[V, T], T Scalar](v V) (V, error) {
	axis := -1
	for i := range v.Dim() {
		if v.Comp(i) == 0 {
			continue
		}
		if axis != -1 {
			return v, iex.IntVecNormalizeExc.New("Cannot normalize an integer vector unless it is parallel to a principal axis")
		}
		axis = i
	}
	if axis == -1 {
		return v, nil
	}
	var one T = 1
	if v.Comp(axis) > 0 {
		return v.WithComp(axis, one), nil
	}
	return v.WithComp(axis, -one), nil
}

// LessThan reports the partial order used by vectors and colours: every
// component of v is <= the matching component of w and v != w.
func LessThan[V Vector[V, T], T Scalar](v, w V) bool {
	for i := range v.Dim() {
		if v.Comp(i) > w.Comp(i) {
			return false
		}
	}
	return v != w
}

// GreaterThan is the mirror of LessThan.
func GreaterThan[V Vector[V, T], T Scalar](v, w V) bool {
	return LessThan[V, T](w, v)
}

func (v Vec2[T]) Normalized() (Vec2[T], error)    { return Normalized[Vec2[T], T](v) }
func (v Vec2[T]) NormalizedExc() (Vec2[T], error) { return NormalizedExc[Vec2[T], T](v) }
func (v Vec3[T]) Normalized() (Vec3[T], error)    { return Normalized[Vec3[T], T](v) }
func (v Vec3[T]) NormalizedExc() (Vec3[T], error) { return NormalizedExc[Vec3[T], T](v) }
func (v Vec4[T]) Normalized() (Vec4[T], error)    { return Normalized[Vec4[T], T](v) }
func (v Vec4[T]) NormalizedExc() (Vec4[T], error) { return NormalizedExc[Vec4[T], T](v) }
