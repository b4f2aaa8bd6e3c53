package array

import (
	"fmt"

	"github.com/wippyai/imath-bind/errors"
)

// Op is an elementwise arithmetic operation.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

var opNames = [...]string{"+", "-", "*", "/", "%", "**"}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "?"
	}
	return opNames[o]
}

// Cmp is an elementwise comparison producing a mask.
type Cmp int

const (
	CmpEq Cmp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

var cmpNames = [...]string{"==", "!=", "<", "<=", ">", ">="}

func (c Cmp) String() string {
	if c < 0 || int(c) >= len(cmpNames) {
		return "?"
	}
	return cmpNames[c]
}

// Ordered reports whether c needs an ordering rather than equality.
func (c Cmp) Ordered() bool { return c >= CmpLt }

// Mask is the element type of comparison results.
type Mask = int32

// Ops describes the operations element type T supports. S is the scalar
// type T can be scaled by; it equals T for scalar elements. A nil field is an
// operation T does not have, and the array built on it does not have it
// either.
type Ops[T, S any] struct {
	Add, Sub, Mul func(a, b T) T
	Div, Mod, Pow func(a, b T) (T, error)
	Neg           func(a T) T

	Scale     func(a T, s S) T
	DivScalar func(a T, s S) (T, error)

	Equal func(a, b T) bool
	Less  func(a, b T) bool

	// Min and Max combine two elements, componentwise for vectors.
	Min, Max func(a, b T) T
}

// Supports reports whether op is available.
func (o *Ops[T, S]) Supports(op Op) bool {
	return o.binary(op) != nil
}

// SupportsScalar reports whether op is available with a scalar right
// operand. Only scaling and scalar division exist.
func (o *Ops[T, S]) SupportsScalar(op Op) bool {
	switch op {
	case OpMul:
		return o.Scale != nil
	case OpDiv:
		return o.DivScalar != nil
	}
	return false
}

// SupportsCmp reports whether c is available.
func (o *Ops[T, S]) SupportsCmp(c Cmp) bool {
	if c.Ordered() {
		return o.Less != nil
	}
	return o.Equal != nil
}

func (o *Ops[T, S]) binary(op Op) func(a, b T) (T, error) {
	total := func(f func(a, b T) T) func(a, b T) (T, error) {
		if f == nil {
			return nil
		}
		return func(a, b T) (T, error) { return f(a, b), nil }
	}
	switch op {
	case OpAdd:
		return total(o.Add)
	case OpSub:
		return total(o.Sub)
	case OpMul:
		return total(o.Mul)
	case OpDiv:
		return o.Div
	case OpMod:
		return o.Mod
	case OpPow:
		return o.Pow
	}
	return nil
}

func (o *Ops[T, S]) scalar(op Op) func(a T, s S) (T, error) {
	switch op {
	case OpMul:
		if o.Scale != nil {
			return func(a T, s S) (T, error) { return o.Scale(a, s), nil }
		}
	case OpDiv:
		return o.DivScalar
	}
	return nil
}

func (o *Ops[T, S]) compare(c Cmp) func(a, b T) bool {
	switch c {
	case CmpEq:
		return o.Equal
	case CmpNe:
		if o.Equal != nil {
			return func(a, b T) bool { return !o.Equal(a, b) }
		}
	case CmpLt:
		return o.Less
	case CmpLe:
		if o.Less != nil {
			return func(a, b T) bool { return !o.Less(b, a) }
		}
	case CmpGt:
		if o.Less != nil {
			return func(a, b T) bool { return o.Less(b, a) }
		}
	case CmpGe:
		if o.Less != nil {
			return func(a, b T) bool { return !o.Less(a, b) }
		}
	}
	return nil
}

func unsupported(what string, op fmt.Stringer) error {
	return errors.Unsupported(errors.PhaseOperator, fmt.Sprintf("operator %s is not defined for %s", op, what))
}

// Apply combines two arrays of equal length elementwise.
func (o *Ops[T, S]) Apply(op Op, a, b *FixedArray[T]) (*FixedArray[T], error) {
	f := o.binary(op)
	if f == nil {
		return nil, unsupported("these arrays", op)
	}
	return Zip(a, b, f)
}

// ApplyElem combines every element of a with v. With reflected set v is the
// left operand, as in v - a.
func (o *Ops[T, S]) ApplyElem(op Op, a *FixedArray[T], v T, reflected bool) (*FixedArray[T], error) {
	f := o.binary(op)
	if f == nil {
		return nil, unsupported("this array and element", op)
	}
	if reflected {
		return MapErr(a, func(x T) (T, error) { return f(v, x) })
	}
	return MapErr(a, func(x T) (T, error) { return f(x, v) })
}

// ApplyScalar combines every element of a with the scalar s.
func (o *Ops[T, S]) ApplyScalar(op Op, a *FixedArray[T], s S) (*FixedArray[T], error) {
	f := o.scalar(op)
	if f == nil {
		return nil, unsupported("this array and scalar", op)
	}
	return MapErr(a, func(x T) (T, error) { return f(x, s) })
}

// ApplyScalars combines a with an array of scalars of the same length.
func (o *Ops[T, S]) ApplyScalars(op Op, a *FixedArray[T], s *FixedArray[S]) (*FixedArray[T], error) {
	f := o.scalar(op)
	if f == nil {
		return nil, unsupported("this array and scalar array", op)
	}
	return Zip(a, s, f)
}

// Negate returns -a.
func (o *Ops[T, S]) Negate(a *FixedArray[T]) (*FixedArray[T], error) {
	if o.Neg == nil {
		return nil, errors.Unsupported(errors.PhaseOperator, "unary - is not defined for this array")
	}
	return Map(a, o.Neg), nil
}

// Assign stores src into a elementwise, the second half of every in-place
// operator.
func (a *FixedArray[T]) Assign(src *FixedArray[T]) error {
	if src.Len() != a.Len() {
		return errors.LengthMismatch(errors.PhaseOperator, a.Len(), src.Len())
	}
	copy(a.data, src.data)
	return nil
}

// Compare returns the mask of c over two arrays of equal length.
func (o *Ops[T, S]) Compare(c Cmp, a, b *FixedArray[T]) (*FixedArray[Mask], error) {
	f := o.compare(c)
	if f == nil {
		return nil, unsupported("these arrays", c)
	}
	return Zip(a, b, func(x, y T) (Mask, error) { return mask(f(x, y)), nil })
}

// CompareElem returns the mask of c between every element of a and v.
func (o *Ops[T, S]) CompareElem(c Cmp, a *FixedArray[T], v T) (*FixedArray[Mask], error) {
	f := o.compare(c)
	if f == nil {
		return nil, unsupported("this array and element", c)
	}
	return Map(a, func(x T) Mask { return mask(f(x, v)) }), nil
}

func mask(b bool) Mask {
	if b {
		return 1
	}
	return 0
}

// Reduce returns the sum of the elements, zero for an empty array.
func (o *Ops[T, S]) Reduce(a *FixedArray[T]) (T, error) {
	var sum T
	if o.Add == nil {
		return sum, errors.Unsupported(errors.PhaseOperator, "reduce is not defined for this array")
	}
	for _, v := range a.data {
		sum = o.Add(sum, v)
	}
	return sum, nil
}

// MinOf returns the smallest element, zero for an empty array.
func (o *Ops[T, S]) MinOf(a *FixedArray[T]) (T, error) {
	return fold(a, o.Min, "min")
}

// MaxOf returns the largest element, zero for an empty array.
func (o *Ops[T, S]) MaxOf(a *FixedArray[T]) (T, error) {
	return fold(a, o.Max, "max")
}

func fold[T any](a *FixedArray[T], f func(a, b T) T, name string) (T, error) {
	var acc T
	if f == nil {
		return acc, errors.Unsupported(errors.PhaseOperator, name+" is not defined for this array")
	}
	for i, v := range a.data {
		if i == 0 {
			acc = v
			continue
		}
		acc = f(acc, v)
	}
	return acc, nil
}
