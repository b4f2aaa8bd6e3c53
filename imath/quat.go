package imath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/wippyai/imath-bind/iex"
)

// Quat is a quaternion with real part R and imaginary part V.
type Quat[T Float] struct {
	R T
	V Vec3[T]
}

// IdentityQuat returns the quaternion (1, 0, 0, 0).
func IdentityQuat[T Float]() Quat[T] { return Quat[T]{R: 1} }

// QuatFromAxisAngle returns the rotation of angle radians about axis.
func QuatFromAxisAngle[T Float](axis Vec3[T], angle T) Quat[T] {
	s, c := math.Sincos(float64(angle) / 2)
	n, _ := axis.Normalized()
	return Quat[T]{R: T(c), V: n.Scale(T(s))}
}

// Mul returns the Hamilton product q·o.
func (q Quat[T]) Mul(o Quat[T]) Quat[T] {
	return Quat[T]{
		R: q.R*o.R - q.V.Dot(o.V),
		V: o.V.Scale(q.R).Add(q.V.Scale(o.R)).Add(q.V.Cross(o.V)),
	}
}

func (q Quat[T]) Add(o Quat[T]) Quat[T] { return Quat[T]{q.R + o.R, q.V.Add(o.V)} }
func (q Quat[T]) Sub(o Quat[T]) Quat[T] { return Quat[T]{q.R - o.R, q.V.Sub(o.V)} }
func (q Quat[T]) Scale(s T) Quat[T]     { return Quat[T]{q.R * s, q.V.Scale(s)} }
func (q Quat[T]) Neg() Quat[T]          { return Quat[T]{-q.R, q.V.Neg()} }
func (q Quat[T]) Conjugate() Quat[T]    { return Quat[T]{q.R, q.V.Neg()} }
func (q Quat[T]) Dot(o Quat[T]) T       { return q.R*o.R + q.V.Dot(o.V) }
func (q Quat[T]) Length() T             { return sqrt(q.Dot(q)) }

// Normalized returns q scaled to unit length. The null quaternion becomes the
// identity.
func (q Quat[T]) Normalized() Quat[T] {
	l := math.Sqrt(float64(q.Dot(q)))
	if l == 0 {
		return IdentityQuat[T]()
	}
	return q.Scale(T(1 / l))
}

// Inverse returns the multiplicative inverse, or a NullQuatExc for the null
// quaternion.
func (q Quat[T]) Inverse() (Quat[T], error) {
	d := q.Dot(q)
	if d == 0 {
		return q, iex.NullQuatExc.New("Cannot invert null quaternion.")
	}
	return Quat[T]{q.R / d, q.V.Neg().DivScalar(d)}, nil
}

// Div returns q·o⁻¹.
func (q Quat[T]) Div(o Quat[T]) (Quat[T], error) {
	inv, err := o.Inverse()
	if err != nil {
		return q, err
	}
	return q.Mul(inv), nil
}

// Axis returns the normalized rotation axis.
func (q Quat[T]) Axis() Vec3[T] {
	a, _ := q.V.Normalized()
	return a
}

// Angle returns the rotation angle in radians.
func (q Quat[T]) Angle() T {
	return T(2 * math.Atan2(float64(q.V.Length()), float64(q.R)))
}

// ToMatrix33 returns the rotation matrix for row vectors.
func (q Quat[T]) ToMatrix33() Matrix33[T] {
	r, x, y, z := q.R, q.V.X, q.V.Y, q.V.Z
	return Matrix33[T]{
		{1 - 2*(y*y+z*z), 2 * (x*y + z*r), 2 * (z*x - y*r)},
		{2 * (x*y - z*r), 1 - 2*(z*z+x*x), 2 * (y*z + x*r)},
		{2 * (z*x + y*r), 2 * (y*z - x*r), 1 - 2*(y*y+x*x)},
	}
}

func (q Quat[T]) ToMatrix44() Matrix44[T] { return Embed33(q.ToMatrix33()) }

// Rotate returns v rotated by q, the same as v multiplied by ToMatrix33.
func (q Quat[T]) Rotate(v Vec3[T]) Vec3[T] {
	a := q.V.Cross(v)
	b := q.V.Cross(a)
	return v.Add(a.Scale(q.R).Add(b).Scale(2))
}

func (q Quat[T]) EqualWithAbsError(o Quat[T], e T) bool {
	return withAbsError(q.R, o.R, e) && q.V.EqualWithAbsError(o.V, e)
}

func (q Quat[T]) mgl() mgl64.Quat {
	return mgl64.Quat{W: float64(q.R), V: mgl64.Vec3{float64(q.V.X), float64(q.V.Y), float64(q.V.Z)}}
}

// Slerp interpolates along the great arc from q to o.
func (q Quat[T]) Slerp(o Quat[T], t T) Quat[T] {
	s := mgl64.QuatSlerp(q.mgl(), o.mgl(), float64(t))
	return Quat[T]{R: T(s.W), V: Vec3[T]{T(s.V[0]), T(s.V[1]), T(s.V[2])}}
}

var quatNext = [3]int{1, 2, 0}

// ExtractQuat returns the quaternion of the rotation matrix m.
func ExtractQuat[T Float](m Matrix33[T]) Quat[T] {
	tr := float64(m[0][0] + m[1][1] + m[2][2])
	if tr > 0 {
		s := math.Sqrt(tr + 1)
		r := s / 2
		s = 0.5 / s
		return Quat[T]{
			R: T(r),
			V: Vec3[T]{
				T(float64(m[1][2]-m[2][1]) * s),
				T(float64(m[2][0]-m[0][2]) * s),
				T(float64(m[0][1]-m[1][0]) * s),
			},
		}
	}

	i := 0
	if m[1][1] > m[0][0] {
		i = 1
	}
	if m[2][2] > m[i][i] {
		i = 2
	}
	j := quatNext[i]
	k := quatNext[j]

	var v [3]float64
	s := math.Sqrt(float64(m[i][i]-(m[j][j]+m[k][k])) + 1)
	v[i] = s * 0.5
	if s != 0 {
		s = 0.5 / s
	}
	r := float64(m[j][k]-m[k][j]) * s
	v[j] = float64(m[i][j]+m[j][i]) * s
	v[k] = float64(m[i][k]+m[k][i]) * s
	return Quat[T]{R: T(r), V: Vec3[T]{T(v[0]), T(v[1]), T(v[2])}}
}
