package bind

import (
	"strings"

	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/imath"
)

// generator is the state both random classes share.
type generator interface {
	imath.Random
	Init(seed uint64)
	NextI() uint32
	NextB() bool
}

// sphere draws random vectors of one bound vector type.
type sphere struct {
	class                *host.Class
	solid, hollow, gauss func(imath.Random) host.Value
}

func sphereOf[V imath.Vector[V, T], T imath.Float](vt *vecType[V, T]) sphere {
	return sphere{
		class:  vt.Class,
		solid:  func(r imath.Random) host.Value { return vt.Wrap(imath.SolidSphereRand[V, T](r)) },
		hollow: func(r imath.Random) host.Value { return vt.Wrap(imath.HollowSphereRand[V, T](r)) },
		gauss:  func(r imath.Random) host.Value { return vt.Wrap(imath.GaussSphereRand[V, T](r)) },
	}
}

// spheres selects the draw by a prototype: a vector instance or class.
type spheres []sphere

func (s spheres) lookup(path string, proto host.Value) (sphere, error) {
	cls, ok := proto.(*host.Class)
	if !ok {
		cls = host.ClassOf(proto)
	}
	for _, sp := range s {
		if cls == sp.class {
			return sp, nil
		}
	}
	names := make([]string, len(s))
	for i, sp := range s {
		names[i] = sp.class.Name
	}
	return sphere{}, kindError(path, "one of "+strings.Join(names, ", "), proto)
}

func seedOf(path string, v host.Value) (uint64, error) {
	i, ok := host.AsInt(v)
	if !ok {
		return 0, kindError(path, "int", v)
	}
	return uint64(i), nil
}

// randTypes keeps the bound generator classes for the module functions.
type randTypes struct {
	gens    []func(v host.Value) (imath.Random, bool)
	spheres spheres
}

func (r *randTypes) generator(path string, v host.Value) (imath.Random, error) {
	for _, g := range r.gens {
		if rnd, ok := g(v); ok {
			return rnd, nil
		}
	}
	return nil, kindError(path, "Rand32 or Rand48", v)
}

// bindRand binds a generator whose state lives in the instance.
func bindRand[R generator](rt *randTypes, name, doc string, newGen func(seed uint64) R) *Type[R] {
	t := newType[R](name, doc, nil)
	rt.gens = append(rt.gens, func(v host.Value) (imath.Random, bool) {
		g, ok := t.Unwrap(v)
		return g, ok
	})

	t.init(func(_ *host.Call, args []host.Value) (R, error) {
		var zero R
		if err := arity(name, args, 0, 1); err != nil {
			return zero, err
		}
		var seed uint64
		if len(args) == 1 {
			s, err := seedOf(name+".seed", args[0])
			if err != nil {
				return zero, err
			}
			seed = s
		}
		return newGen(seed), nil
	})
	t.repr(func(R) string { return name + "()" })

	t.method("init", "init(seed) reseeds the generator", 1, 1, func(_ *host.Call, g R, args []host.Value) (host.Value, error) {
		s, err := seedOf(name+".init", args[0])
		if err != nil {
			return nil, err
		}
		g.Init(s)
		return nil, nil
	})
	t.method("nexti", "nexti() uniform 32-bit unsigned int", 0, 0, func(_ *host.Call, g R, _ []host.Value) (host.Value, error) {
		return int64(g.NextI()), nil
	})
	t.method("nextb", "nextb() uniform bool", 0, 0, func(_ *host.Call, g R, _ []host.Value) (host.Value, error) {
		return g.NextB(), nil
	})
	t.method("nextf", "nextf([lo, hi]) uniform float in [0, 1) or [lo, hi)", 0, 2, func(_ *host.Call, g R, args []host.Value) (host.Value, error) {
		switch len(args) {
		case 0:
			return g.NextF(), nil
		case 2:
			lo, err := toScalar[float64](name+".nextf", args[0])
			if err != nil {
				return nil, err
			}
			hi, err := toScalar[float64](name+".nextf", args[1])
			if err != nil {
				return nil, err
			}
			return g.NextFRange(lo, hi), nil
		}
		return nil, arity(name+".nextf", args, 0, 0)
	})
	t.method("nextGauss", "nextGauss() normal deviate with mean 0 and deviation 1", 0, 0, func(_ *host.Call, g R, _ []host.Value) (host.Value, error) {
		return imath.GaussRand(g), nil
	})
	draw := func(method, doc string, pick func(sphere) func(imath.Random) host.Value) {
		t.method(method, doc, 1, 1, func(_ *host.Call, g R, args []host.Value) (host.Value, error) {
			sp, err := rt.spheres.lookup(name+"."+method, args[0])
			if err != nil {
				return nil, err
			}
			return pick(sp)(g), nil
		})
	}
	draw("nextSolidSphere", "nextSolidSphere(proto) point inside the unit sphere", func(s sphere) func(imath.Random) host.Value { return s.solid })
	draw("nextHollowSphere", "nextHollowSphere(proto) point on the unit sphere", func(s sphere) func(imath.Random) host.Value { return s.hollow })
	draw("nextGaussSphere", "nextGaussSphere(proto) gaussian distributed vector", func(s sphere) func(imath.Random) host.Value { return s.gauss })
	return t
}

// addRandFuncs registers the module level draws, which take the generator
// as the first argument.
func addRandFuncs(b *builder, rt *randTypes) {
	draw := func(fname, doc string, pick func(sphere) func(imath.Random) host.Value) {
		b.fn(fname, doc, func(_ *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(fname, args, 2, 2); err != nil {
				return nil, err
			}
			g, err := rt.generator(fname, args[0])
			if err != nil {
				return nil, err
			}
			sp, err := rt.spheres.lookup(fname, args[1])
			if err != nil {
				return nil, err
			}
			return pick(sp)(g), nil
		})
	}
	draw("solidSphereRand", "solidSphereRand(rand, proto) point inside the unit sphere", func(s sphere) func(imath.Random) host.Value { return s.solid })
	draw("hollowSphereRand", "hollowSphereRand(rand, proto) point on the unit sphere", func(s sphere) func(imath.Random) host.Value { return s.hollow })
	draw("gaussSphereRand", "gaussSphereRand(rand, proto) gaussian distributed vector", func(s sphere) func(imath.Random) host.Value { return s.gauss })
	b.fn("gaussRand", "gaussRand(rand) normal deviate", func(_ *host.Call, args []host.Value) (host.Value, error) {
		if err := arity("gaussRand", args, 1, 1); err != nil {
			return nil, err
		}
		g, err := rt.generator("gaussRand", args[0])
		if err != nil {
			return nil, err
		}
		return imath.GaussRand(g), nil
	})
}
