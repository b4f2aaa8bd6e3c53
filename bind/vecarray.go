package bind

import (
	"github.com/wippyai/imath-bind/array"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/imath"
)

// bindVectorArray adds the component projections and vector methods to an
// array of vt elements. scalars is the array type of the components.
func bindVectorArray[V imath.Vector[V, T], T imath.Scalar](t *arrayType[V, T], vt *vecType[V, T], scalars *arrayType[T, T], fields []string) {
	t.scalars = scalars.Type
	name := t.Name()
	var proto V

	for i := range proto.Dim() {
		f := fields[i]
		t.field(f, "copy of component "+f+" of every element", func(a *array.FixedArray[V]) host.Value {
			return scalars.Wrap(array.Component[V, T](a, i))
		}, func(c *host.Call, a **array.FixedArray[V], x host.Value) error {
			if src, ok := scalars.Unwrap(x); ok {
				return array.SetComponent(*a, i, src)
			}
			s, err := toScalar[T](name+"."+f, x)
			if err != nil {
				return err
			}
			items := (*a).Items()
			for k := range items {
				items[k] = items[k].WithComp(i, s)
			}
			return nil
		})
	}

	t.method("dot", "dot(v) inner products with a vector or vector array", 1, 1, func(c *host.Call, a *array.FixedArray[V], args []host.Value) (host.Value, error) {
		if b, ok := t.Unwrap(args[0]); ok {
			d, err := array.Dot[V, T](a, b)
			if err != nil {
				return nil, err
			}
			return scalars.Wrap(d), nil
		}
		v, err := vt.Convert(c, name+".dot", args[0])
		if err != nil {
			return nil, err
		}
		return scalars.Wrap(array.DotElem[V, T](a, v)), nil
	})
	t.method("length", "length() length of every vector", 0, 0, func(_ *host.Call, a *array.FixedArray[V], _ []host.Value) (host.Value, error) {
		return scalars.Wrap(array.Length[V, T](a)), nil
	})
	t.method("length2", "length2() squared length of every vector", 0, 0, func(_ *host.Call, a *array.FixedArray[V], _ []host.Value) (host.Value, error) {
		return scalars.Wrap(array.Length2[V, T](a)), nil
	})
	if imath.IsIntegral[T]() {
		return
	}
	t.method("normalized", "normalized() unit copies; null vectors stay null", 0, 0, func(_ *host.Call, a *array.FixedArray[V], _ []host.Value) (host.Value, error) {
		return t.wrapResult(array.Normalized[V, T](a))
	})
	t.mutator("normalize", "normalize() normalizes every vector in place", 0, 0, func(_ *host.Call, a **array.FixedArray[V], _ []host.Value) error {
		return array.Normalize[V, T](*a)
	})
}

// bindCrossArray adds cross products to a V3 array.
func bindCrossArray[T imath.Scalar](t *arrayType[imath.Vec3[T], T], vt *vecType[imath.Vec3[T], T]) {
	t.method("cross", "cross(v) cross products with a vector or vector array", 1, 1, func(c *host.Call, a *array.FixedArray[imath.Vec3[T]], args []host.Value) (host.Value, error) {
		if b, ok := t.Unwrap(args[0]); ok {
			return t.wrapResult(array.Cross(a, b))
		}
		v, err := vt.Convert(c, t.Name()+".cross", args[0])
		if err != nil {
			return nil, err
		}
		return t.Wrap(array.CrossElem(a, v)), nil
	})
}

// bindBoundsArray adds bounds() returning the box around every element.
func bindBoundsArray[V imath.Vector[V, T], T imath.Scalar](t *arrayType[V, T], box *Type[imath.Box[V, T]]) {
	t.method("bounds", "bounds() smallest box holding every vector", 0, 0, func(_ *host.Call, a *array.FixedArray[V], _ []host.Value) (host.Value, error) {
		return box.Wrap(array.BoundingBox[V, T](a)), nil
	})
}

// linkArrays lets each array type be constructed from the other.
func linkArrays[T, U any](a *Type[*array.FixedArray[T]], b *Type[*array.FixedArray[U]], ab func(T) U, ba func(U) T) {
	link(a, b,
		func(x *array.FixedArray[T]) *array.FixedArray[U] { return array.Convert(x, ab) },
		func(x *array.FixedArray[U]) *array.FixedArray[T] { return array.Convert(x, ba) })
}

func numeric[T, U imath.Scalar](x T) U { return U(x) }

func linkScalarArrays[T, U imath.Scalar](a *arrayType[T, T], b *arrayType[U, U]) {
	linkArrays(a.Type, b.Type, numeric[T, U], numeric[U, T])
}

func linkVectorArrays[V imath.Vector[V, T], W imath.Vector[W, U], T, U imath.Scalar](a *arrayType[V, T], b *arrayType[W, U]) {
	linkArrays(a.Type, b.Type, convertVec[W, V, U, T], convertVec[V, W, T, U])
}

// linkVectors lets each vector type be constructed from the other.
func linkVectors[V imath.Vector[V, T], W imath.Vector[W, U], T, U imath.Scalar](a *vecType[V, T], b *vecType[W, U]) {
	link(a.Type, b.Type, convertVec[W, V, U, T], convertVec[V, W, T, U])
}
