package bind

import (
	"strings"

	"github.com/wippyai/imath-bind/array"
	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/iex"
	"github.com/wippyai/imath-bind/imath"
)

// kindFunc evaluates a scalar function for one element kind. Every argument
// is a scalar or an array of that kind; any array argument makes the result
// an array.
type kindFunc func(c *host.Call, name string, args []host.Value) (host.Value, error)

func kindCall[T, R imath.Scalar](arr *arrayType[T, T], out *arrayType[R, R], f func(xs []T) (R, error)) kindFunc {
	return func(_ *host.Call, name string, args []host.Value) (host.Value, error) {
		n := -1
		arrays := make([]*array.FixedArray[T], len(args))
		xs := make([]T, len(args))
		for i, a := range args {
			if v, ok := arr.Unwrap(a); ok {
				if n >= 0 && v.Len() != n {
					return nil, errors.LengthMismatch(errors.PhaseCall, n, v.Len())
				}
				n = v.Len()
				arrays[i] = v
				continue
			}
			x, err := toScalar[T](name, a)
			if err != nil {
				return nil, err
			}
			xs[i] = x
		}
		if n < 0 {
			r, err := f(xs)
			if err != nil {
				return nil, err
			}
			return fromScalar(r), nil
		}
		res, err := array.GenerateOn(out.opts.pool, n, func(k int) (R, error) {
			row := make([]T, len(xs))
			for i, x := range xs {
				if arrays[i] != nil {
					row[i] = arrays[i].Items()[k]
				} else {
					row[i] = x
				}
			}
			return f(row)
		})
		if err != nil {
			return nil, err
		}
		return out.Wrap(res), nil
	}
}

func lift1[T, R imath.Scalar](g func(T) R) func([]T) (R, error) {
	return func(xs []T) (R, error) { return g(xs[0]), nil }
}

func lift2[T, R imath.Scalar](g func(a, b T) R) func([]T) (R, error) {
	return func(xs []T) (R, error) { return g(xs[0], xs[1]), nil }
}

func lift3[T, R imath.Scalar](g func(a, b, c T) R) func([]T) (R, error) {
	return func(xs []T) (R, error) { return g(xs[0], xs[1], xs[2]), nil }
}

func floorInt[T imath.Float](g func(T) int) func(T) int32 {
	return func(x T) int32 { return int32(g(x)) }
}

// signedDiv guards the integer division functions against a zero divisor.
func signedDiv(g func(x, y int32) int32) func([]int32) (int32, error) {
	return func(xs []int32) (int32, error) {
		if xs[1] == 0 {
			return 0, errDivzero()
		}
		return g(xs[0], xs[1]), nil
	}
}

// scalarArrays are the arrays the vectorised functions accept.
type scalarArrays struct {
	ints    *arrayType[int32, int32]
	floats  *arrayType[float32, float32]
	doubles *arrayType[float64, float64]
}

// kinds holds one implementation per element kind; nil is unsupported.
type kinds struct {
	ints, floats, doubles kindFunc
}

// pick chooses the implementation from the arguments: the widest array
// kind present, else int for all-int scalars, else double.
func (s *scalarArrays) pick(k kinds, args []host.Value) kindFunc {
	var hasInt, hasFloat, hasDouble, allInts bool
	allInts = true
	for _, a := range args {
		switch {
		case host.IsInstance(a, s.doubles.Class):
			hasDouble = true
		case host.IsInstance(a, s.floats.Class):
			hasFloat = true
		case host.IsInstance(a, s.ints.Class):
			hasInt = true
		default:
			if _, ok := host.AsInt(a); !ok {
				allInts = false
			}
		}
	}
	switch {
	case hasDouble:
		return k.doubles
	case hasFloat:
		return k.floats
	case hasInt:
		if k.ints != nil {
			return k.ints
		}
		return nil
	case allInts && k.ints != nil:
		return k.ints
	}
	return k.doubles
}

func (s *scalarArrays) define(b *builder, name, doc string, nargs int, k kinds) {
	b.fn(name, doc, func(c *host.Call, args []host.Value) (host.Value, error) {
		if err := arity(name, args, nargs, nargs); err != nil {
			return nil, err
		}
		f := s.pick(k, args)
		if f == nil {
			names := make([]string, len(args))
			for i, a := range args {
				names[i] = host.TypeName(a)
			}
			return nil, errors.TypeMismatch(errors.PhaseCall, "%s(): no overload accepts (%s)", name, strings.Join(names, ", "))
		}
		return f(c, name, args)
	})
}

// addFunctions registers the scalar utility functions.
func addFunctions(b *builder, s *scalarArrays) {
	ints, floats, doubles := s.ints, s.floats, s.doubles
	same := func(i func([]int32) (int32, error), f func([]float32) (float32, error), d func([]float64) (float64, error)) kinds {
		var k kinds
		if i != nil {
			k.ints = kindCall(ints, ints, i)
		}
		if f != nil {
			k.floats = kindCall(floats, floats, f)
		}
		if d != nil {
			k.doubles = kindCall(doubles, doubles, d)
		}
		return k
	}

	s.define(b, "abs", "abs(x) absolute value", 1,
		same(lift1(imath.Abs[int32]), lift1(imath.Abs[float32]), lift1(imath.Abs[float64])))
	s.define(b, "sign", "sign(x) 1 or -1 by the sign of x, 0 for 0", 1,
		same(lift1(imath.Sign[int32]), lift1(imath.Sign[float32]), lift1(imath.Sign[float64])))
	s.define(b, "log", "log(x) natural logarithm", 1,
		same(nil, lift1(imath.Log[float32]), lift1(imath.Log[float64])))
	s.define(b, "log10", "log10(x) base 10 logarithm", 1,
		same(nil, lift1(imath.Log10[float32]), lift1(imath.Log10[float64])))
	s.define(b, "lerp", "lerp(a, b, t) linear interpolation of a to b", 3,
		same(nil, lift3(imath.Lerp[float32]), lift3(imath.Lerp[float64])))
	s.define(b, "ulerp", "ulerp(a, b, t) lerp for unsigned values", 3,
		same(nil, lift3(imath.Ulerp[float32]), lift3(imath.Ulerp[float64])))
	s.define(b, "lerpfactor", "lerpfactor(m, a, b) t such that lerp(a, b, t) is m; 0 if a equals b", 3,
		same(nil, lift3(imath.Lerpfactor[float32]), lift3(imath.Lerpfactor[float64])))
	s.define(b, "clamp", "clamp(x, lo, hi) x clamped to [lo, hi]", 3,
		same(lift3(imath.Clamp[int32]), lift3(imath.Clamp[float32]), lift3(imath.Clamp[float64])))
	s.define(b, "bias", "bias(x, b) gamma correction with bias(0.5, b) == b", 2,
		same(nil, lift2(imath.Bias[float32]), lift2(imath.Bias[float64])))
	s.define(b, "gain", "gain(x, g) S-shaped gamma correction with gain(0.5, g) == 0.5", 2,
		same(nil, lift2(imath.Gain[float32]), lift2(imath.Gain[float64])))

	rounding := func(name, doc string, f32 func(float32) int, f64 func(float64) int) {
		s.define(b, name, doc, 1, kinds{
			floats:  kindCall(floats, ints, lift1(floorInt(f32))),
			doubles: kindCall(doubles, ints, lift1(floorInt(f64))),
		})
	}
	rounding("floor", "floor(x) largest integer not above x", imath.Floor[float32], imath.Floor[float64])
	rounding("ceil", "ceil(x) smallest integer not below x", imath.Ceil[float32], imath.Ceil[float64])
	rounding("trunc", "trunc(x) x rounded toward zero", imath.Trunc[float32], imath.Trunc[float64])

	s.define(b, "divs", "divs(x, y) x/y with the remainder signed like x", 2, kinds{ints: kindCall(ints, ints, signedDiv(imath.Divs[int32]))})
	s.define(b, "mods", "mods(x, y) x - y*divs(x, y)", 2, kinds{ints: kindCall(ints, ints, signedDiv(imath.Mods[int32]))})
	s.define(b, "divp", "divp(x, y) x/y with a non-negative remainder", 2, kinds{ints: kindCall(ints, ints, signedDiv(imath.Divp[int32]))})
	s.define(b, "modp", "modp(x, y) x - y*divp(x, y)", 2, kinds{ints: kindCall(ints, ints, signedDiv(imath.Modp[int32]))})

	// The comparisons take plain numbers only.
	scalar := func(name, doc string, nargs int, f func(xs []float64) host.Value) {
		b.fn(name, doc, func(_ *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(name, args, nargs, nargs); err != nil {
				return nil, err
			}
			xs := make([]float64, nargs)
			for i, a := range args {
				x, err := toScalar[float64](name, a)
				if err != nil {
					return nil, err
				}
				xs[i] = x
			}
			return f(xs), nil
		})
	}
	scalar("cmp", "cmp(a, b) -1, 0 or 1", 2, func(xs []float64) host.Value { return int64(imath.Cmp(xs[0], xs[1])) })
	scalar("cmpt", "cmpt(a, b, t) cmp with tolerance t", 3, func(xs []float64) host.Value { return int64(imath.Cmpt(xs[0], xs[1], xs[2])) })
	scalar("iszero", "iszero(a, t) reports |a| < t", 2, func(xs []float64) host.Value { return imath.IsZero(xs[0], xs[1]) })
	scalar("equal", "equal(a, b, t) reports |a - b| <= t", 3, func(xs []float64) host.Value { return imath.Equal(xs[0], xs[1], xs[2]) })
}

func errDivzero() error { return iex.DivzeroExc.New("Integer division by zero.") }
