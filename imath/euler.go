package imath

import "math"

// EulerOrder names the axis sequence of an Euler rotation. Plain orders
// rotate about fixed (static) axes in the order listed; the r orders rotate
// about the moving frame, which is the static order read backwards.
type EulerOrder uint8

const (
	EulerXYZ EulerOrder = iota
	EulerXZY
	EulerYZX
	EulerYXZ
	EulerZXY
	EulerZYX
	EulerXZX
	EulerXYX
	EulerYXY
	EulerYZY
	EulerZYZ
	EulerZXZ
	EulerXYZr
	EulerXZYr
	EulerYZXr
	EulerYXZr
	EulerZXYr
	EulerZYXr
	EulerXZXr
	EulerXYXr
	EulerYXYr
	EulerYZYr
	EulerZYZr
	EulerZXZr

	eulerOrderCount
)

// Euler axis indices.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

var eulerNames = [eulerOrderCount]string{
	"XYZ", "XZY", "YZX", "YXZ", "ZXY", "ZYX",
	"XZX", "XYX", "YXY", "YZY", "ZYZ", "ZXZ",
	"XYZr", "XZYr", "YZXr", "YXZr", "ZXYr", "ZYXr",
	"XZXr", "XYXr", "YXYr", "YZYr", "ZYZr", "ZXZr",
}

// EulerOrders returns every order in declaration order.
func EulerOrders() []EulerOrder {
	out := make([]EulerOrder, eulerOrderCount)
	for i := range out {
		out[i] = EulerOrder(i)
	}
	return out
}

// Valid reports whether o is a known order.
func (o EulerOrder) Valid() bool { return o < eulerOrderCount }

func (o EulerOrder) String() string {
	if !o.Valid() {
		return "invalid"
	}
	return eulerNames[o]
}

// Rotating reports whether o rotates about the moving frame.
func (o EulerOrder) Rotating() bool { return o >= EulerXYZr }

// Repeated reports whether the first and last axes are the same.
func (o EulerOrder) Repeated() bool {
	n := eulerNames[o]
	return n[0] == n[2]
}

// sequence returns the static application order of axes and, per position,
// the index of the angle applied there. Distinct-axis orders take the angle
// of the axis itself; repeated orders take angles by position.
func (o EulerOrder) sequence() (axes, angles [3]int) {
	n := eulerNames[o]
	for p := range 3 {
		axes[p] = int(n[p] - 'X')
		angles[p] = p
	}
	if !o.Repeated() {
		angles = axes
	}
	if o.Rotating() {
		axes[0], axes[2] = axes[2], axes[0]
		angles[0], angles[2] = angles[2], angles[0]
	}
	return axes, angles
}

// Euler is a rotation given as three angles in radians and an order. X, Y
// and Z are the angles about those axes; for repeated orders they are the
// first, second and third angle.
type Euler[T Float] struct {
	X, Y, Z T
	Order   EulerOrder
}

// NewEuler returns the rotation with angles v in order o.
func NewEuler[T Float](v Vec3[T], o EulerOrder) Euler[T] {
	return Euler[T]{X: v.X, Y: v.Y, Z: v.Z, Order: o}
}

func (e Euler[T]) Angles() Vec3[T] { return Vec3[T]{e.X, e.Y, e.Z} }

func (e Euler[T]) angle(i int) T {
	switch i {
	case 0:
		return e.X
	case 1:
		return e.Y
	}
	return e.Z
}

func (e *Euler[T]) setAngle(i int, a T) {
	switch i {
	case 0:
		e.X = a
	case 1:
		e.Y = a
	default:
		e.Z = a
	}
}

// axisRotation returns the rotation about a principal axis. For axis a with
// successors b and c: R[b][b] = R[c][c] = cos, R[b][c] = sin, R[c][b] = -sin.
func axisRotation[T Float](axis int, angle T) Matrix33[T] {
	s, c := math.Sincos(float64(angle))
	b, k := (axis+1)%3, (axis+2)%3
	m := Identity33[T]()
	m[b][b], m[k][k] = T(c), T(c)
	m[b][k], m[k][b] = T(s), T(-s)
	return m
}

// ToMatrix33 returns the rotation matrix. Row vectors multiplied by it are
// rotated about the first axis of the static sequence first.
func (e Euler[T]) ToMatrix33() Matrix33[T] {
	axes, angles := e.Order.sequence()
	m := axisRotation(axes[0], e.angle(angles[0]))
	m = m.Mul(axisRotation(axes[1], e.angle(angles[1])))
	return m.Mul(axisRotation(axes[2], e.angle(angles[2])))
}

func (e Euler[T]) ToMatrix44() Matrix44[T] { return Embed33(e.ToMatrix33()) }

func (e Euler[T]) ToQuat() Quat[T] { return ExtractQuat(e.ToMatrix33()) }

// EulerFromMatrix33 extracts the angles of the rotation m in order o. The
// extraction works in a frame permuted so that the sequence reads X, Y, Z
// (or X, Y, X); an odd permutation flips the sign of every angle.
func EulerFromMatrix33[T Float](m Matrix33[T], o EulerOrder) Euler[T] {
	axes, angles := o.sequence()
	i, j := axes[0], axes[1]
	k := 3 - i - j
	even := j == (i+1)%3

	var p Matrix33[T]
	idx := [3]int{i, j, k}
	for a := range 3 {
		for b := range 3 {
			p[a][b] = m[idx[a]][idx[b]]
		}
	}

	var x, y, z T
	if axes[0] == axes[2] {
		x, y, z = extractXYX(p)
	} else {
		x, y, z = extractXYZ(p)
	}
	if !even {
		x, y, z = -x, -y, -z
	}

	e := Euler[T]{Order: o}
	e.setAngle(angles[0], x)
	e.setAngle(angles[1], y)
	e.setAngle(angles[2], z)
	return e
}

func extractXYZ[T Float](p Matrix33[T]) (x, y, z T) {
	x = T(math.Atan2(float64(p[1][2]), float64(p[2][2])))
	n := axisRotation(AxisX, -x).Mul(p)
	cy := math.Hypot(float64(n[0][0]), float64(n[0][1]))
	y = T(math.Atan2(float64(-n[0][2]), cy))
	z = T(math.Atan2(float64(-n[1][0]), float64(n[1][1])))
	return x, y, z
}

func extractXYX[T Float](p Matrix33[T]) (x, y, z T) {
	x = T(math.Atan2(float64(p[1][0]), float64(p[2][0])))
	n := axisRotation(AxisX, -x).Mul(p)
	sy := math.Hypot(float64(n[1][0]), float64(n[2][0]))
	y = T(math.Atan2(sy, float64(n[0][0])))
	z = T(math.Atan2(float64(n[1][2]), float64(n[1][1])))
	return x, y, z
}

// EulerFromQuat extracts the angles of q in order o.
func EulerFromQuat[T Float](q Quat[T], o EulerOrder) Euler[T] {
	return EulerFromMatrix33(q.ToMatrix33(), o)
}
