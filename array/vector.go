package array

import (
	"github.com/wippyai/imath-bind/imath"
)

// Component returns a new array holding component i of every vector.
func Component[V imath.Vector[V, T], T imath.Scalar](a *FixedArray[V], i int) *FixedArray[T] {
	return Map(a, func(v V) T { return v.Comp(i) })
}

// SetComponent stores component i of every vector from src.
func SetComponent[V imath.Vector[V, T], T imath.Scalar](a *FixedArray[V], i int, src *FixedArray[T]) error {
	if err := checkLen(a.Len(), src.Len()); err != nil {
		return err
	}
	for k, x := range src.data {
		a.data[k] = a.data[k].WithComp(i, x)
	}
	return nil
}

// Dot returns the elementwise inner products of a and b.
func Dot[V imath.Vector[V, T], T imath.Scalar](a, b *FixedArray[V]) (*FixedArray[T], error) {
	return Zip(a, b, func(x, y V) (T, error) { return x.Dot(y), nil })
}

// DotElem returns the inner product of every element with v.
func DotElem[V imath.Vector[V, T], T imath.Scalar](a *FixedArray[V], v V) *FixedArray[T] {
	return Map(a, func(x V) T { return x.Dot(v) })
}

// Length returns the length of every vector.
func Length[V imath.Vector[V, T], T imath.Scalar](a *FixedArray[V]) *FixedArray[T] {
	return Map(a, func(v V) T { return v.Length() })
}

// Length2 returns the squared length of every vector.
func Length2[V imath.Vector[V, T], T imath.Scalar](a *FixedArray[V]) *FixedArray[T] {
	return Map(a, func(v V) T { return v.Length2() })
}

// Normalized returns a new array of unit vectors. Null vectors stay null.
func Normalized[V imath.Vector[V, T], T imath.Scalar](a *FixedArray[V]) (*FixedArray[V], error) {
	return MapErr(a, imath.Normalized[V, T])
}

// Normalize normalizes every vector in place.
func Normalize[V imath.Vector[V, T], T imath.Scalar](a *FixedArray[V]) error {
	n, err := Normalized[V, T](a)
	if err != nil {
		return err
	}
	copy(a.data, n.data)
	return nil
}

// Cross returns the elementwise cross products of two Vec3 arrays.
func Cross[T imath.Scalar](a, b *FixedArray[imath.Vec3[T]]) (*FixedArray[imath.Vec3[T]], error) {
	return Zip(a, b, func(x, y imath.Vec3[T]) (imath.Vec3[T], error) { return x.Cross(y), nil })
}

// CrossElem returns the cross product of every element with v.
func CrossElem[T imath.Scalar](a *FixedArray[imath.Vec3[T]], v imath.Vec3[T]) *FixedArray[imath.Vec3[T]] {
	return Map(a, func(x imath.Vec3[T]) imath.Vec3[T] { return x.Cross(v) })
}

// BoundingBox returns the smallest box holding every vector.
func BoundingBox[V imath.Vector[V, T], T imath.Scalar](a *FixedArray[V]) imath.Box[V, T] {
	return imath.BoundingBox[V, T](a.data)
}
