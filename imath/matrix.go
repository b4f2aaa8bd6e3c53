package imath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/wippyai/imath-bind/iex"
)

// Matrix33 is a 3x3 matrix, row-major. Points are row vectors multiplied on
// the left; as a 2D transform the translation lives in row 2.
type Matrix33[T Float] [3][3]T

// Matrix44 is a 4x4 matrix, row-major, with the translation in row 3.
type Matrix44[T Float] [4][4]T

// Identity33 returns the 3x3 identity.
func Identity33[T Float]() Matrix33[T] {
	return Matrix33[T]{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Identity44 returns the 4x4 identity.
func Identity44[T Float]() Matrix44[T] {
	return Matrix44[T]{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

func errSingular() error {
	return iex.SingMatrixExc.New("Cannot invert singular matrix.")
}

// mgl64 matrices are column-major. Loading our row-major data unchanged
// hands mgl64 the transpose; determinant and inverse commute with
// transposition, so reading the result back the same way is exact.

func (m Matrix33[T]) mgl() mgl64.Mat3 {
	var out mgl64.Mat3
	for i := range 3 {
		for j := range 3 {
			out[i*3+j] = float64(m[i][j])
		}
	}
	return out
}

func fromMgl33[T Float](a mgl64.Mat3) Matrix33[T] {
	var m Matrix33[T]
	for i := range 3 {
		for j := range 3 {
			m[i][j] = T(a[i*3+j])
		}
	}
	return m
}

func (m Matrix44[T]) mgl() mgl64.Mat4 {
	var out mgl64.Mat4
	for i := range 4 {
		for j := range 4 {
			out[i*4+j] = float64(m[i][j])
		}
	}
	return out
}

func fromMgl44[T Float](a mgl64.Mat4) Matrix44[T] {
	var m Matrix44[T]
	for i := range 4 {
		for j := range 4 {
			m[i][j] = T(a[i*4+j])
		}
	}
	return m
}

func (m Matrix33[T]) Add(o Matrix33[T]) Matrix33[T] {
	for i := range 3 {
		for j := range 3 {
			m[i][j] += o[i][j]
		}
	}
	return m
}

func (m Matrix33[T]) Sub(o Matrix33[T]) Matrix33[T] {
	for i := range 3 {
		for j := range 3 {
			m[i][j] -= o[i][j]
		}
	}
	return m
}

// Mul returns the matrix product m·o: applying the result applies m first.
func (m Matrix33[T]) Mul(o Matrix33[T]) Matrix33[T] {
	var out Matrix33[T]
	for i := range 3 {
		for j := range 3 {
			var s T
			for k := range 3 {
				s += m[i][k] * o[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

func (m Matrix33[T]) Scale(s T) Matrix33[T] {
	for i := range 3 {
		for j := range 3 {
			m[i][j] *= s
		}
	}
	return m
}

func (m Matrix33[T]) Neg() Matrix33[T] { return m.Scale(-1) }

func (m Matrix33[T]) Transposed() Matrix33[T] {
	var out Matrix33[T]
	for i := range 3 {
		for j := range 3 {
			out[i][j] = m[j][i]
		}
	}
	return out
}

func (m Matrix33[T]) Determinant() T { return T(m.mgl().Det()) }

// Inverse returns the inverse of m, or a SingMatrixExc when m is singular.
func (m Matrix33[T]) Inverse() (Matrix33[T], error) {
	a := m.mgl()
	if a.Det() == 0 {
		return m, errSingular()
	}
	return fromMgl33[T](a.Inv()), nil
}

// MultVecMatrix transforms a 2D point, including translation and the
// homogeneous divide.
func (m Matrix33[T]) MultVecMatrix(v Vec2[T]) Vec2[T] {
	a := v.X*m[0][0] + v.Y*m[1][0] + m[2][0]
	b := v.X*m[0][1] + v.Y*m[1][1] + m[2][1]
	w := v.X*m[0][2] + v.Y*m[1][2] + m[2][2]
	return Vec2[T]{a / w, b / w}
}

// MultDirMatrix transforms a 2D direction: no translation, no divide.
func (m Matrix33[T]) MultDirMatrix(v Vec2[T]) Vec2[T] {
	return Vec2[T]{
		v.X*m[0][0] + v.Y*m[1][0],
		v.X*m[0][1] + v.Y*m[1][1],
	}
}

// MulVec3 returns the row vector v multiplied by m.
func (m Matrix33[T]) MulVec3(v Vec3[T]) Vec3[T] {
	return Vec3[T]{
		v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0],
		v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1],
		v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2],
	}
}

func (m Matrix33[T]) Translation() Vec2[T] { return Vec2[T]{m[2][0], m[2][1]} }

func (m Matrix33[T]) SetTranslation(t Vec2[T]) Matrix33[T] {
	m[0][2], m[1][2] = 0, 0
	m[2][0], m[2][1], m[2][2] = t.X, t.Y, 1
	return m
}

// Translate prepends a translation by t.
func (m Matrix33[T]) Translate(t Vec2[T]) Matrix33[T] {
	for j := range 3 {
		m[2][j] += t.X*m[0][j] + t.Y*m[1][j]
	}
	return m
}

// SetScale replaces m with a scaling matrix.
func (m Matrix33[T]) SetScale(s Vec2[T]) Matrix33[T] {
	return Matrix33[T]{{s.X, 0, 0}, {0, s.Y, 0}, {0, 0, 1}}
}

// ScaleBy prepends a scale by s.
func (m Matrix33[T]) ScaleBy(s Vec2[T]) Matrix33[T] {
	for j := range 3 {
		m[0][j] *= s.X
		m[1][j] *= s.Y
	}
	return m
}

// SetRotation replaces m with a 2D rotation by r radians.
func (m Matrix33[T]) SetRotation(r T) Matrix33[T] {
	s, c := math.Sincos(float64(r))
	return Matrix33[T]{{T(c), T(s), 0}, {T(-s), T(c), 0}, {0, 0, 1}}
}

func (m Matrix33[T]) EqualWithAbsError(o Matrix33[T], e T) bool {
	for i := range 3 {
		for j := range 3 {
			if !withAbsError(m[i][j], o[i][j], e) {
				return false
			}
		}
	}
	return true
}

func (m Matrix44[T]) Add(o Matrix44[T]) Matrix44[T] {
	for i := range 4 {
		for j := range 4 {
			m[i][j] += o[i][j]
		}
	}
	return m
}

func (m Matrix44[T]) Sub(o Matrix44[T]) Matrix44[T] {
	for i := range 4 {
		for j := range 4 {
			m[i][j] -= o[i][j]
		}
	}
	return m
}

// Mul returns the matrix product m·o: applying the result applies m first.
func (m Matrix44[T]) Mul(o Matrix44[T]) Matrix44[T] {
	var out Matrix44[T]
	for i := range 4 {
		for j := range 4 {
			var s T
			for k := range 4 {
				s += m[i][k] * o[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

func (m Matrix44[T]) Scale(s T) Matrix44[T] {
	for i := range 4 {
		for j := range 4 {
			m[i][j] *= s
		}
	}
	return m
}

func (m Matrix44[T]) Neg() Matrix44[T] { return m.Scale(-1) }

func (m Matrix44[T]) Transposed() Matrix44[T] {
	var out Matrix44[T]
	for i := range 4 {
		for j := range 4 {
			out[i][j] = m[j][i]
		}
	}
	return out
}

func (m Matrix44[T]) Determinant() T { return T(m.mgl().Det()) }

// Inverse returns the inverse of m, or a SingMatrixExc when m is singular.
func (m Matrix44[T]) Inverse() (Matrix44[T], error) {
	a := m.mgl()
	if a.Det() == 0 {
		return m, errSingular()
	}
	return fromMgl44[T](a.Inv()), nil
}

// MultVecMatrix transforms a point, including translation and the
// homogeneous divide.
func (m Matrix44[T]) MultVecMatrix(v Vec3[T]) Vec3[T] {
	a := v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0] + m[3][0]
	b := v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1] + m[3][1]
	c := v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2] + m[3][2]
	w := v.X*m[0][3] + v.Y*m[1][3] + v.Z*m[2][3] + m[3][3]
	return Vec3[T]{a / w, b / w, c / w}
}

// MultDirMatrix transforms a direction: no translation, no divide.
func (m Matrix44[T]) MultDirMatrix(v Vec3[T]) Vec3[T] {
	return Vec3[T]{
		v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0],
		v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1],
		v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2],
	}
}

// MulVec4 returns the row vector v multiplied by m.
func (m Matrix44[T]) MulVec4(v Vec4[T]) Vec4[T] {
	var out [4]T
	for j := range 4 {
		out[j] = v.X*m[0][j] + v.Y*m[1][j] + v.Z*m[2][j] + v.W*m[3][j]
	}
	return Vec4[T]{out[0], out[1], out[2], out[3]}
}

func (m Matrix44[T]) Translation() Vec3[T] { return Vec3[T]{m[3][0], m[3][1], m[3][2]} }

func (m Matrix44[T]) SetTranslation(t Vec3[T]) Matrix44[T] {
	m[0][3], m[1][3], m[2][3] = 0, 0, 0
	m[3] = [4]T{t.X, t.Y, t.Z, 1}
	return m
}

// Translate prepends a translation by t.
func (m Matrix44[T]) Translate(t Vec3[T]) Matrix44[T] {
	for j := range 4 {
		m[3][j] += t.X*m[0][j] + t.Y*m[1][j] + t.Z*m[2][j]
	}
	return m
}

// SetScale replaces m with a scaling matrix.
func (m Matrix44[T]) SetScale(s Vec3[T]) Matrix44[T] {
	return Matrix44[T]{{s.X, 0, 0, 0}, {0, s.Y, 0, 0}, {0, 0, s.Z, 0}, {0, 0, 0, 1}}
}

// ScaleBy prepends a scale by s.
func (m Matrix44[T]) ScaleBy(s Vec3[T]) Matrix44[T] {
	for j := range 4 {
		m[0][j] *= s.X
		m[1][j] *= s.Y
		m[2][j] *= s.Z
	}
	return m
}

// Rotation33 returns the upper-left 3x3 block.
func (m Matrix44[T]) Rotation33() Matrix33[T] {
	var out Matrix33[T]
	for i := range 3 {
		copy(out[i][:], m[i][:3])
	}
	return out
}

// Embed33 returns a 4x4 matrix with r as its upper-left block.
func Embed33[T Float](r Matrix33[T]) Matrix44[T] {
	out := Identity44[T]()
	for i := range 3 {
		copy(out[i][:3], r[i][:])
	}
	return out
}

// SetEulerAngles replaces m with the XYZ rotation by r radians.
func (m Matrix44[T]) SetEulerAngles(r Vec3[T]) Matrix44[T] {
	return Embed33(NewEuler(r, EulerXYZ).ToMatrix33())
}

// Rotate prepends the XYZ rotation by r radians.
func (m Matrix44[T]) Rotate(r Vec3[T]) Matrix44[T] {
	return m.SetEulerAngles(r).Mul(m)
}

// SetAxisAngle replaces m with a rotation of angle radians about axis.
func (m Matrix44[T]) SetAxisAngle(axis Vec3[T], angle T) Matrix44[T] {
	return QuatFromAxisAngle(axis, angle).ToMatrix44()
}

// ExtractEulerXYZ returns the XYZ angles of the rotation in m. Scaling is
// removed first.
func (m Matrix44[T]) ExtractEulerXYZ() Vec3[T] {
	var r Matrix33[T]
	for i := range 3 {
		row, _ := (Vec3[T]{m[i][0], m[i][1], m[i][2]}).Normalized()
		r[i] = [3]T{row.X, row.Y, row.Z}
	}
	e := EulerFromMatrix33(r, EulerXYZ)
	return Vec3[T]{e.X, e.Y, e.Z}
}

// ExtractScaling returns the lengths of the first three rows.
func (m Matrix44[T]) ExtractScaling() Vec3[T] {
	return Vec3[T]{
		Vec3[T]{m[0][0], m[0][1], m[0][2]}.Length(),
		Vec3[T]{m[1][0], m[1][1], m[1][2]}.Length(),
		Vec3[T]{m[2][0], m[2][1], m[2][2]}.Length(),
	}
}

func (m Matrix44[T]) EqualWithAbsError(o Matrix44[T], e T) bool {
	for i := range 4 {
		for j := range 4 {
			if !withAbsError(m[i][j], o[i][j], e) {
				return false
			}
		}
	}
	return true
}
