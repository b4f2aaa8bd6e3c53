package imath

// Box is an axis-aligned bounding box. A box whose Max is below its Min in
// any dimension is empty.
type Box[V Vector[V, T], T Scalar] struct {
	Min, Max V
}

// Box2 and Box3 are the boxes of the 2D and 3D vector types.
type (
	Box2[T Scalar] = Box[Vec2[T], T]
	Box3[T Scalar] = Box[Vec3[T], T]
)

// EmptyBox returns a box that contains nothing and that any ExtendBy fills.
func EmptyBox[V Vector[V, T], T Scalar]() Box[V, T] {
	return Box[V, T]{
		Min: Splat[V](MaxValue[T]()),
		Max: Splat[V](MinValue[T]()),
	}
}

// PointBox returns the box holding the single point p.
func PointBox[V Vector[V, T], T Scalar](p V) Box[V, T] {
	return Box[V, T]{Min: p, Max: p}
}

// MakeEmpty returns the empty box.
func (b Box[V, T]) MakeEmpty() Box[V, T] { return EmptyBox[V, T]() }

// IsEmpty reports whether the box contains no point.
func (b Box[V, T]) IsEmpty() bool {
	for i := range b.Min.Dim() {
		if b.Max.Comp(i) < b.Min.Comp(i) {
			return true
		}
	}
	return false
}

// HasVolume reports whether the box is non-empty and not flat in any
// dimension.
func (b Box[V, T]) HasVolume() bool {
	for i := range b.Min.Dim() {
		if b.Max.Comp(i) <= b.Min.Comp(i) {
			return false
		}
	}
	return true
}

// ExtendBy grows the box to contain p.
func (b Box[V, T]) ExtendBy(p V) Box[V, T] {
	return Box[V, T]{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// ExtendByBox grows the box to contain o.
func (b Box[V, T]) ExtendByBox(o Box[V, T]) Box[V, T] {
	return Box[V, T]{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Size returns Max - Min, or the zero vector for an empty box.
func (b Box[V, T]) Size() V {
	if b.IsEmpty() {
		var zero V
		return zero
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Box[V, T]) Center() V {
	return b.Max.Add(b.Min).DivScalar(2)
}

// Intersects reports whether p lies inside the box or on its boundary.
func (b Box[V, T]) Intersects(p V) bool {
	for i := range p.Dim() {
		if p.Comp(i) < b.Min.Comp(i) || p.Comp(i) > b.Max.Comp(i) {
			return false
		}
	}
	return true
}

// IntersectsBox reports whether the two boxes overlap.
func (b Box[V, T]) IntersectsBox(o Box[V, T]) bool {
	for i := range b.Min.Dim() {
		if o.Max.Comp(i) < b.Min.Comp(i) || o.Min.Comp(i) > b.Max.Comp(i) {
			return false
		}
	}
	return true
}

// MajorAxis returns the dimension in which the box is largest. Ties go to
// the lower axis.
func (b Box[V, T]) MajorAxis() int {
	s := b.Size()
	axis := 0
	for i := 1; i < s.Dim(); i++ {
		if s.Comp(i) > s.Comp(axis) {
			axis = i
		}
	}
	return axis
}

// BoundingBox returns the smallest box holding every point.
func BoundingBox[V Vector[V, T], T Scalar](points []V) Box[V, T] {
	b := EmptyBox[V, T]()
	for _, p := range points {
		b = b.ExtendBy(p)
	}
	return b
}
