package imath

import (
	"math"

	"golang.org/x/exp/constraints"
)

func Abs[T Scalar](a T) T { return abs(a) }

// Sign returns 1, -1 or 0.
func Sign[T Scalar](a T) T {
	var one T = 1
	switch {
	case a > 0:
		return one
	case a < 0:
		return -one
	}
	return 0
}

func Log[T Float](a T) T   { return T(math.Log(float64(a))) }
func Log10[T Float](a T) T { return T(math.Log10(float64(a))) }

// Lerp interpolates linearly from a to b.
func Lerp[T Float](a, b, t T) T { return a*(1-t) + b*t }

// Ulerp is Lerp computed so that the result never overshoots b for t <= 1.
func Ulerp[T Float](a, b, t T) T {
	if a > b {
		return a - (a-b)*t
	}
	return a + (b-a)*t
}

// Lerpfactor returns t such that Lerp(a, b, t) == m, or 0 when a and b are
// too close to divide by.
func Lerpfactor[T Float](m, a, b T) T {
	d := b - a
	n := m - a
	if abs(d) > 1 || abs(n) < MaxValue[T]()*abs(d) {
		return n / d
	}
	return 0
}

func Clamp[T Scalar](a, lo, hi T) T {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

// Cmp returns 1, -1 or 0 as a is greater than, less than or equal to b.
func Cmp[T Scalar](a, b T) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

// Cmpt is Cmp where values within t of each other compare equal.
func Cmpt[T Scalar](a, b, t T) int {
	if withAbsError(a, b, t) {
		return 0
	}
	return Cmp(a, b)
}

// IsZero reports whether a lies strictly within t of zero.
func IsZero[T Scalar](a, t T) bool { return a > 0-t && a < t }

// Equal reports whether a and b differ by at most t.
func Equal[T Scalar](a, b, t T) bool { return withAbsError(a, b, t) }

// Floor returns the largest integer not greater than x.
func Floor[T Float](x T) int {
	if x >= 0 {
		return int(x)
	}
	n := -x
	i := int(n)
	if n > T(i) {
		i++
	}
	return -i
}

// Ceil returns the smallest integer not less than x.
func Ceil[T Float](x T) int { return -Floor(-x) }

// Trunc rounds x toward zero.
func Trunc[T Float](x T) int {
	if x >= 0 {
		return int(x)
	}
	return -int(-x)
}

// Divs divides with truncation toward zero. y must not be zero.
func Divs[T constraints.Signed](x, y T) T { return x / y }

// Mods is the remainder of Divs; its sign follows x.
func Mods[T constraints.Signed](x, y T) T { return x % y }

// Divp divides so that the remainder is never negative. y must not be zero.
func Divp[T constraints.Signed](x, y T) T {
	switch {
	case x >= 0 && y >= 0:
		return x / y
	case x >= 0:
		return -(x / -y)
	case y >= 0:
		return -((y - 1 - x) / y)
	}
	return (-y - 1 - x) / -y
}

// Modp is the non-negative remainder of Divp.
func Modp[T constraints.Signed](x, y T) T { return x - y*Divp(x, y) }

// Bias remaps x in [0, 1] so that 0.5 maps to b.
func Bias[T Float](x, b T) T {
	if b == 0.5 {
		return x
	}
	return T(math.Pow(float64(x), math.Log(float64(b))/math.Log(0.5)))
}

// Gain remaps x in [0, 1] with an S curve of strength g.
func Gain[T Float](x, g T) T {
	if x < 0.5 {
		return 0.5 * Bias(2*x, 1-g)
	}
	return 1 - 0.5*Bias(2-2*x, 1-g)
}

// AlignZAxisWithTargetDir returns the rotation taking +Z onto target while
// keeping +Y as close to up as possible. A zero target means +Z and a zero
// up means +Y.
func AlignZAxisWithTargetDir[T Float](target, up Vec3[T]) Matrix44[T] {
	if target.Length() == 0 {
		target = Vec3[T]{0, 0, 1}
	}
	if up.Length() == 0 {
		up = Vec3[T]{0, 1, 0}
	}
	if up.Cross(target).Length() == 0 {
		up = target.Cross(Vec3[T]{1, 0, 0})
		if up.Length() == 0 {
			up = target.Cross(Vec3[T]{0, 0, 1})
		}
	}

	perp := up.Cross(target)
	tup := target.Cross(perp)
	perp, _ = perp.Normalized()
	tup, _ = tup.Normalized()
	target, _ = target.Normalized()

	return Matrix44[T]{
		{perp.X, perp.Y, perp.Z, 0},
		{tup.X, tup.Y, tup.Z, 0},
		{target.X, target.Y, target.Z, 0},
		{0, 0, 0, 1},
	}
}

// RotationMatrixWithUpDir returns the rotation taking from onto to, with up
// fixing the roll. A zero from yields the identity.
func RotationMatrixWithUpDir[T Float](from, to, up Vec3[T]) Matrix44[T] {
	if from.Length() == 0 {
		return Identity44[T]()
	}
	fromToZ := AlignZAxisWithTargetDir(from, Vec3[T]{0, 1, 0}).Transposed()
	zToTo := AlignZAxisWithTargetDir(to, up)
	return fromToZ.Mul(zToTo)
}

// RotationXYZWithUpDir returns the XYZ Euler angles of
// RotationMatrixWithUpDir.
func RotationXYZWithUpDir[T Float](from, to, up Vec3[T]) Vec3[T] {
	return RotationMatrixWithUpDir(from, to, up).ExtractEulerXYZ()
}
