package imath

import (
	"math"

	"github.com/wippyai/imath-bind/iex"
)

// Line3 is a parametric line through Pos along the unit direction Dir.
type Line3[T Float] struct {
	Pos Vec3[T]
	Dir Vec3[T]
}

// LineThrough returns the line through p0 and p1, pointing from p0 to p1.
func LineThrough[T Float](p0, p1 Vec3[T]) Line3[T] {
	d, _ := p1.Sub(p0).Normalized()
	return Line3[T]{Pos: p0, Dir: d}
}

// PointAt returns Pos + Dir*t.
func (l Line3[T]) PointAt(t T) Vec3[T] { return l.Pos.Add(l.Dir.Scale(t)) }

// ClosestPointTo returns the point on the line nearest to p.
func (l Line3[T]) ClosestPointTo(p Vec3[T]) Vec3[T] {
	return l.PointAt(p.Sub(l.Pos).Dot(l.Dir))
}

// Distance returns the distance from p to the line.
func (l Line3[T]) Distance(p Vec3[T]) T {
	return l.ClosestPointTo(p).Sub(p).Length()
}

// Plane3 is the plane of points p with p·Normal = Distance.
type Plane3[T Float] struct {
	Normal   Vec3[T]
	Distance T
}

// PlaneFromNormal returns the plane through point with the given normal.
func PlaneFromNormal[T Float](point, normal Vec3[T]) Plane3[T] {
	n, _ := normal.Normalized()
	return Plane3[T]{Normal: n, Distance: n.Dot(point)}
}

// PlaneThrough returns the plane through three points, oriented by the right
// hand rule.
func PlaneThrough[T Float](p1, p2, p3 Vec3[T]) Plane3[T] {
	n, _ := p2.Sub(p1).Cross(p3.Sub(p1)).Normalized()
	return Plane3[T]{Normal: n, Distance: n.Dot(p1)}
}

// DistanceTo returns the signed distance of p from the plane.
func (pl Plane3[T]) DistanceTo(p Vec3[T]) T { return p.Dot(pl.Normal) - pl.Distance }

// ReflectPoint mirrors p across the plane.
func (pl Plane3[T]) ReflectPoint(p Vec3[T]) Vec3[T] {
	return p.Sub(pl.Normal.Scale(2 * pl.DistanceTo(p)))
}

// ReflectVector mirrors the direction v across the plane.
func (pl Plane3[T]) ReflectVector(v Vec3[T]) Vec3[T] {
	return pl.Normal.Scale(2 * v.Dot(pl.Normal)).Sub(v)
}

// IntersectT returns the line parameter where l meets the plane. It reports
// false for a line parallel to the plane.
func (pl Plane3[T]) IntersectT(l Line3[T]) (T, bool) {
	d := pl.Normal.Dot(l.Dir)
	if d == 0 {
		return 0, false
	}
	return -(pl.Normal.Dot(l.Pos) - pl.Distance) / d, true
}

// Intersect returns the point where l meets the plane.
func (pl Plane3[T]) Intersect(l Line3[T]) (Vec3[T], bool) {
	t, ok := pl.IntersectT(l)
	if !ok {
		return Vec3[T]{}, false
	}
	return l.PointAt(t), true
}

// Frustum is a viewing volume given by its clipping planes.
type Frustum[T Float] struct {
	Near, Far                T
	Left, Right, Top, Bottom T
	Ortho                    bool
}

// DefaultFrustum returns the perspective frustum with near 0.1, far 1000 and
// a [-1, 1] window.
func DefaultFrustum[T Float]() Frustum[T] {
	return Frustum[T]{Near: 0.1, Far: 1000, Left: -1, Right: 1, Top: 1, Bottom: -1}
}

// FrustumFromFov returns a perspective frustum from one field of view angle
// and an aspect ratio. Exactly one of fovx and fovy must be non-zero.
func FrustumFromFov[T Float](near, far, fovx, fovy, aspect T) (Frustum[T], error) {
	if fovx != 0 && fovy != 0 {
		return Frustum[T]{}, iex.ArgExc.New("fovx and fovy cannot both be non-zero.")
	}
	f := Frustum[T]{Near: near, Far: far}
	if fovx != 0 {
		f.Right = near * T(math.Tan(float64(fovx)/2))
		f.Left = -f.Right
		f.Top = (f.Right - f.Left) / aspect / 2
		f.Bottom = -f.Top
	} else {
		f.Top = near * T(math.Tan(float64(fovy)/2))
		f.Bottom = -f.Top
		f.Right = (f.Top - f.Bottom) * aspect / 2
		f.Left = -f.Right
	}
	return f, nil
}

// FovX returns the horizontal field of view in radians.
func (f Frustum[T]) FovX() T {
	return T(math.Atan2(float64(f.Right), float64(f.Near)) - math.Atan2(float64(f.Left), float64(f.Near)))
}

// FovY returns the vertical field of view in radians.
func (f Frustum[T]) FovY() T {
	return T(math.Atan2(float64(f.Top), float64(f.Near)) - math.Atan2(float64(f.Bottom), float64(f.Near)))
}

// Aspect returns width over height of the window.
func (f Frustum[T]) Aspect() (T, error) {
	h := f.Top - f.Bottom
	if h == 0 {
		return 0, iex.DivzeroExc.New("Bad viewing frustum: aspect ratio cannot be computed.")
	}
	return (f.Right - f.Left) / h, nil
}

// ProjectionMatrix returns the matrix mapping the frustum onto the unit
// clip cube.
func (f Frustum[T]) ProjectionMatrix() (Matrix44[T], error) {
	rpl, rml := f.Right+f.Left, f.Right-f.Left
	tpb, tmb := f.Top+f.Bottom, f.Top-f.Bottom
	fpn, fmn := f.Far+f.Near, f.Far-f.Near
	if rml == 0 || tmb == 0 || fmn == 0 {
		return Matrix44[T]{}, iex.DivzeroExc.New("Bad viewing frustum: projection matrix cannot be computed.")
	}

	if f.Ortho {
		return Matrix44[T]{
			{2 / rml, 0, 0, 0},
			{0, 2 / tmb, 0, 0},
			{0, 0, -2 / fmn, 0},
			{-rpl / rml, -tpb / tmb, -fpn / fmn, 1},
		}, nil
	}

	twoNear := 2 * f.Near
	return Matrix44[T]{
		{twoNear / rml, 0, 0, 0},
		{0, twoNear / tmb, 0, 0},
		{rpl / rml, tpb / tmb, -fpn / fmn, -1},
		{0, 0, -2 * f.Far * f.Near / fmn, 0},
	}, nil
}

// Shear6 holds the six shear factors of a 3D shear transform.
type Shear6[T Float] struct {
	XY, XZ, YZ, YX, ZX, ZY T
}

// ShearFromVec returns the shear (v.X, v.Y, v.Z, 0, 0, 0).
func ShearFromVec[T Float](v Vec3[T]) Shear6[T] {
	return Shear6[T]{XY: v.X, XZ: v.Y, YZ: v.Z}
}

func (s Shear6[T]) Comps() [6]T { return [6]T{s.XY, s.XZ, s.YZ, s.YX, s.ZX, s.ZY} }

// ShearFromComps is the inverse of Comps.
func ShearFromComps[T Float](c [6]T) Shear6[T] {
	return Shear6[T]{c[0], c[1], c[2], c[3], c[4], c[5]}
}

func (s Shear6[T]) Add(o Shear6[T]) Shear6[T] {
	return Shear6[T]{s.XY + o.XY, s.XZ + o.XZ, s.YZ + o.YZ, s.YX + o.YX, s.ZX + o.ZX, s.ZY + o.ZY}
}

func (s Shear6[T]) Sub(o Shear6[T]) Shear6[T] { return s.Add(o.Neg()) }

func (s Shear6[T]) Scale(k T) Shear6[T] {
	return Shear6[T]{s.XY * k, s.XZ * k, s.YZ * k, s.YX * k, s.ZX * k, s.ZY * k}
}

func (s Shear6[T]) Neg() Shear6[T] { return s.Scale(-1) }

// Matrix returns the 4x4 shear matrix.
func (s Shear6[T]) Matrix() Matrix44[T] {
	return Matrix44[T]{
		{1, s.YX, s.ZX, 0},
		{s.XY, 1, s.ZY, 0},
		{s.XZ, s.YZ, 1, 0},
		{0, 0, 0, 1},
	}
}
