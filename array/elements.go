package array

import (
	"math"

	"github.com/x448/float16"
	"golang.org/x/exp/constraints"

	"github.com/wippyai/imath-bind/iex"
	"github.com/wippyai/imath-bind/imath"
)

func errDivzero() error { return iex.DivzeroExc.New("Integer division by zero.") }

func equal[T comparable](a, b T) bool { return a == b }

// BoolOps supports equality only.
func BoolOps() *Ops[bool, bool] {
	return &Ops[bool, bool]{Equal: equal[bool]}
}

// IntegerOps is the descriptor of integer scalar elements: arithmetic with
// checked division, modulo, equality and ordering.
func IntegerOps[T constraints.Integer]() *Ops[T, T] {
	div := func(a, b T) (T, error) {
		if b == 0 {
			return 0, errDivzero()
		}
		return a / b, nil
	}
	return &Ops[T, T]{
		Add: func(a, b T) T { return a + b },
		Sub: func(a, b T) T { return a - b },
		Mul: func(a, b T) T { return a * b },
		Div: div,
		Mod: func(a, b T) (T, error) {
			if b == 0 {
				return 0, errDivzero()
			}
			return a % b, nil
		},
		Neg:       func(a T) T { return -a },
		Scale:     func(a, s T) T { return a * s },
		DivScalar: div,
		Equal:     equal[T],
		Less:      func(a, b T) bool { return a < b },
		Min:       func(a, b T) T { return min(a, b) },
		Max:       func(a, b T) T { return max(a, b) },
	}
}

// FloatOps is the descriptor of floating scalar elements: arithmetic, pow,
// equality and ordering.
func FloatOps[T constraints.Float]() *Ops[T, T] {
	div := func(a, b T) (T, error) { return a / b, nil }
	return &Ops[T, T]{
		Add:       func(a, b T) T { return a + b },
		Sub:       func(a, b T) T { return a - b },
		Mul:       func(a, b T) T { return a * b },
		Div:       div,
		Pow:       func(a, b T) (T, error) { return T(math.Pow(float64(a), float64(b))), nil },
		Neg:       func(a T) T { return -a },
		Scale:     func(a, s T) T { return a * s },
		DivScalar: div,
		Equal:     equal[T],
		Less:      func(a, b T) bool { return a < b },
		Min:       func(a, b T) T { return min(a, b) },
		Max:       func(a, b T) T { return max(a, b) },
	}
}

// HalfOps is FloatOps for 16-bit floats, computed in single precision.
func HalfOps() *Ops[float16.Float16, float16.Float16] {
	f := FloatOps[float32]()
	lift := func(g func(a, b float32) float32) func(a, b float16.Float16) float16.Float16 {
		return func(a, b float16.Float16) float16.Float16 {
			return float16.Fromfloat32(g(a.Float32(), b.Float32()))
		}
	}
	liftErr := func(g func(a, b float32) (float32, error)) func(a, b float16.Float16) (float16.Float16, error) {
		return func(a, b float16.Float16) (float16.Float16, error) {
			r, err := g(a.Float32(), b.Float32())
			return float16.Fromfloat32(r), err
		}
	}
	return &Ops[float16.Float16, float16.Float16]{
		Add:       lift(f.Add),
		Sub:       lift(f.Sub),
		Mul:       lift(f.Mul),
		Div:       liftErr(f.Div),
		Pow:       liftErr(f.Pow),
		Neg:       func(a float16.Float16) float16.Float16 { return float16.Fromfloat32(-a.Float32()) },
		Scale:     lift(f.Mul),
		DivScalar: liftErr(f.Div),
		Equal:     func(a, b float16.Float16) bool { return a.Float32() == b.Float32() },
		Less:      func(a, b float16.Float16) bool { return a.Float32() < b.Float32() },
		Min:       lift(f.Min),
		Max:       lift(f.Max),
	}
}

// VectorOps is the descriptor of vector and colour elements. Division, by a
// vector or by a scalar, exists only for floating component kinds.
func VectorOps[V imath.Vector[V, T], T imath.Scalar]() *Ops[V, T] {
	o := &Ops[V, T]{
		Add:   func(a, b V) V { return a.Add(b) },
		Sub:   func(a, b V) V { return a.Sub(b) },
		Mul:   func(a, b V) V { return a.Mul(b) },
		Neg:   func(a V) V { return a.Neg() },
		Scale: func(a V, s T) V { return a.Scale(s) },
		Equal: equal[V],
		Min:   func(a, b V) V { return a.Min(b) },
		Max:   func(a, b V) V { return a.Max(b) },
	}
	if !imath.IsIntegral[T]() {
		o.Div = func(a, b V) (V, error) { return a.Div(b), nil }
		o.DivScalar = func(a V, s T) (V, error) { return a.DivScalar(s), nil }
	}
	return o
}

// QuatOps is the descriptor of quaternion elements.
func QuatOps[T imath.Float]() *Ops[imath.Quat[T], T] {
	return &Ops[imath.Quat[T], T]{
		Add:   imath.Quat[T].Add,
		Sub:   imath.Quat[T].Sub,
		Mul:   imath.Quat[T].Mul,
		Div:   imath.Quat[T].Div,
		Neg:   imath.Quat[T].Neg,
		Scale: imath.Quat[T].Scale,
		Equal: equal[imath.Quat[T]],
	}
}

// Matrix33Ops is the descriptor of 3x3 matrix elements.
func Matrix33Ops[T imath.Float]() *Ops[imath.Matrix33[T], T] {
	return &Ops[imath.Matrix33[T], T]{
		Add:   imath.Matrix33[T].Add,
		Sub:   imath.Matrix33[T].Sub,
		Mul:   imath.Matrix33[T].Mul,
		Neg:   imath.Matrix33[T].Neg,
		Scale: imath.Matrix33[T].Scale,
		Equal: equal[imath.Matrix33[T]],
	}
}

// Matrix44Ops is the descriptor of 4x4 matrix elements.
func Matrix44Ops[T imath.Float]() *Ops[imath.Matrix44[T], T] {
	return &Ops[imath.Matrix44[T], T]{
		Add:   imath.Matrix44[T].Add,
		Sub:   imath.Matrix44[T].Sub,
		Mul:   imath.Matrix44[T].Mul,
		Neg:   imath.Matrix44[T].Neg,
		Scale: imath.Matrix44[T].Scale,
		Equal: equal[imath.Matrix44[T]],
	}
}

// EqualityOps supports equality only; boxes, Euler angles and strings use it.
func EqualityOps[T comparable, S any]() *Ops[T, S] {
	return &Ops[T, S]{Equal: equal[T]}
}
