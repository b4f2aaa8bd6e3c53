package bind

import (
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/imath"
)

func convertBox[V imath.Vector[V, T], W imath.Vector[W, U], T, U imath.Scalar](b imath.Box[W, U]) imath.Box[V, T] {
	return imath.Box[V, T]{Min: convertVec[V, W, T](b.Min), Max: convertVec[V, W, T](b.Max)}
}

// bindBox binds the box over the bound vector type vt.
func bindBox[V imath.Vector[V, T], T imath.Scalar](name string, vt *vecType[V, T]) *Type[imath.Box[V, T]] {
	t := newType[imath.Box[V, T]](name, name+" is an axis-aligned bounding box of "+vt.Name(), nil)
	t.from = func(c *host.Call, v host.Value) (imath.Box[V, T], bool, error) {
		xs, ok := items(v)
		if !ok || len(xs) != 2 {
			return imath.Box[V, T]{}, false, nil
		}
		lo, ok, err := vt.Accept(c, xs[0])
		if err != nil || !ok {
			return imath.Box[V, T]{}, false, err
		}
		hi, ok, err := vt.Accept(c, xs[1])
		if err != nil || !ok {
			return imath.Box[V, T]{}, false, err
		}
		return imath.Box[V, T]{Min: lo, Max: hi}, true, nil
	}

	t.init(func(c *host.Call, args []host.Value) (imath.Box[V, T], error) {
		switch len(args) {
		case 0:
			return imath.EmptyBox[V, T](), nil
		case 1:
			if p, ok, err := vt.Accept(c, args[0]); ok || err != nil {
				return imath.PointBox[V, T](p), err
			}
			if b, ok, err := t.cast(c, args[0]); ok || err != nil {
				return b, err
			}
		case 2:
			lo, err := vt.Convert(c, name+".min", args[0])
			if err != nil {
				return imath.Box[V, T]{}, err
			}
			hi, err := vt.Convert(c, name+".max", args[1])
			if err != nil {
				return imath.Box[V, T]{}, err
			}
			return imath.Box[V, T]{Min: lo, Max: hi}, nil
		}
		return imath.Box[V, T]{}, badInit(name, args)
	})
	t.repr(func(b imath.Box[V, T]) string {
		return name + "(" + vt.reprOf(b.Min) + ", " + vt.reprOf(b.Max) + ")"
	})

	t.field("min", "lower corner", func(b imath.Box[V, T]) host.Value { return vt.Wrap(b.Min) },
		func(c *host.Call, b *imath.Box[V, T], x host.Value) error {
			v, err := vt.Convert(c, name+".min", x)
			b.Min = v
			return err
		})
	t.field("max", "upper corner", func(b imath.Box[V, T]) host.Value { return vt.Wrap(b.Max) },
		func(c *host.Call, b *imath.Box[V, T], x host.Value) error {
			v, err := vt.Convert(c, name+".max", x)
			b.Max = v
			return err
		})

	t.mutator("makeEmpty", "makeEmpty() empties the box", 0, 0, func(_ *host.Call, b *imath.Box[V, T], _ []host.Value) error {
		*b = b.MakeEmpty()
		return nil
	})
	t.mutator("extendBy", "extendBy(p) grows the box to hold a point or box", 1, 1, func(c *host.Call, b *imath.Box[V, T], args []host.Value) error {
		if p, ok, err := vt.Accept(c, args[0]); ok || err != nil {
			*b = b.ExtendBy(p)
			return err
		}
		o, err := t.Convert(c, name+".extendBy", args[0])
		if err != nil {
			return err
		}
		*b = b.ExtendByBox(o)
		return nil
	})
	t.method("isEmpty", "isEmpty() reports whether the box holds nothing", 0, 0, func(_ *host.Call, b imath.Box[V, T], _ []host.Value) (host.Value, error) {
		return b.IsEmpty(), nil
	})
	t.method("hasVolume", "hasVolume() reports a positive extent in every dimension", 0, 0, func(_ *host.Call, b imath.Box[V, T], _ []host.Value) (host.Value, error) {
		return b.HasVolume(), nil
	})
	t.method("size", "size() extent of the box", 0, 0, func(_ *host.Call, b imath.Box[V, T], _ []host.Value) (host.Value, error) {
		return vt.Wrap(b.Size()), nil
	})
	t.method("center", "center() midpoint of the box", 0, 0, func(_ *host.Call, b imath.Box[V, T], _ []host.Value) (host.Value, error) {
		return vt.Wrap(b.Center()), nil
	})
	t.method("intersects", "intersects(x) reports overlap with a point or box", 1, 1, func(c *host.Call, b imath.Box[V, T], args []host.Value) (host.Value, error) {
		if p, ok, err := vt.Accept(c, args[0]); ok || err != nil {
			return b.Intersects(p), err
		}
		o, err := t.Convert(c, name+".intersects", args[0])
		if err != nil {
			return nil, err
		}
		return b.IntersectsBox(o), nil
	})
	t.method("majorAxis", "majorAxis() index of the longest side", 0, 0, func(_ *host.Call, b imath.Box[V, T], _ []host.Value) (host.Value, error) {
		return int64(b.MajorAxis()), nil
	})

	equality(t)
	return t
}
