package host

import (
	"math"
	"strings"
)

// builtinBinary implements operators between primitive values. ok is false
// when the operand types are not handled here.
func (c *Call) builtinBinary(op Op, a, b Value) (Value, bool, error) {
	if ai, aok := AsInt(a); aok {
		if bi, bok := AsInt(b); bok {
			return intBinary(op, ai, bi)
		}
	}
	if af, aok := AsFloat(a); aok {
		if bf, bok := AsFloat(b); bok {
			return floatBinary(op, af, bf)
		}
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return stringBinary(op, x, y)
		}
	case Tuple:
		if y, ok := b.(Tuple); ok {
			return c.sequenceBinary(op, x, y, func(items []Value) Value { return Tuple(items) })
		}
	case *List:
		if y, ok := b.(*List); ok {
			return c.sequenceBinary(op, x.Items, y.Items, func(items []Value) Value { return NewList(items...) })
		}
	}
	return nil, false, nil
}

func intBinary(op Op, a, b int64) (Value, bool, error) {
	switch op {
	case OpAdd:
		return a + b, true, nil
	case OpSub:
		return a - b, true, nil
	case OpMul:
		return a * b, true, nil
	case OpDiv:
		if b == 0 {
			return nil, true, NewException(ZeroDivisionError, "division by zero")
		}
		return float64(a) / float64(b), true, nil
	case OpFloorDiv:
		if b == 0 {
			return nil, true, NewException(ZeroDivisionError, "integer division or modulo by zero")
		}
		q := a / b
		if (a%b != 0) && ((a < 0) != (b < 0)) {
			q--
		}
		return q, true, nil
	case OpMod:
		if b == 0 {
			return nil, true, NewException(ZeroDivisionError, "integer division or modulo by zero")
		}
		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, true, nil
	case OpPow:
		if b < 0 {
			return math.Pow(float64(a), float64(b)), true, nil
		}
		r := int64(1)
		for base, e := a, b; e > 0; e >>= 1 {
			if e&1 == 1 {
				r *= base
			}
			base *= base
		}
		return r, true, nil
	case OpEq:
		return a == b, true, nil
	case OpNe:
		return a != b, true, nil
	case OpLt:
		return a < b, true, nil
	case OpLe:
		return a <= b, true, nil
	case OpGt:
		return a > b, true, nil
	case OpGe:
		return a >= b, true, nil
	}
	return nil, false, nil
}

func floatBinary(op Op, a, b float64) (Value, bool, error) {
	switch op {
	case OpAdd:
		return a + b, true, nil
	case OpSub:
		return a - b, true, nil
	case OpMul:
		return a * b, true, nil
	case OpDiv:
		if b == 0 {
			return nil, true, NewException(ZeroDivisionError, "float division by zero")
		}
		return a / b, true, nil
	case OpFloorDiv:
		if b == 0 {
			return nil, true, NewException(ZeroDivisionError, "float floor division by zero")
		}
		return math.Floor(a / b), true, nil
	case OpMod:
		if b == 0 {
			return nil, true, NewException(ZeroDivisionError, "float modulo")
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, true, nil
	case OpPow:
		return math.Pow(a, b), true, nil
	case OpEq:
		return a == b, true, nil
	case OpNe:
		return a != b, true, nil
	case OpLt:
		return a < b, true, nil
	case OpLe:
		return a <= b, true, nil
	case OpGt:
		return a > b, true, nil
	case OpGe:
		return a >= b, true, nil
	}
	return nil, false, nil
}

func stringBinary(op Op, a, b string) (Value, bool, error) {
	switch op {
	case OpAdd:
		return a + b, true, nil
	case OpEq:
		return a == b, true, nil
	case OpNe:
		return a != b, true, nil
	case OpLt:
		return strings.Compare(a, b) < 0, true, nil
	case OpLe:
		return strings.Compare(a, b) <= 0, true, nil
	case OpGt:
		return strings.Compare(a, b) > 0, true, nil
	case OpGe:
		return strings.Compare(a, b) >= 0, true, nil
	}
	return nil, false, nil
}

func (c *Call) sequenceBinary(op Op, a, b []Value, wrap func([]Value) Value) (Value, bool, error) {
	switch op {
	case OpAdd:
		out := make([]Value, 0, len(a)+len(b))
		out = append(out, a...)
		return wrap(append(out, b...)), true, nil
	case OpEq, OpNe:
		same := len(a) == len(b)
		for i := 0; same && i < len(a); i++ {
			eq, err := c.Equal(a[i], b[i])
			if err != nil {
				return nil, true, err
			}
			same = eq
		}
		if op == OpNe {
			return !same, true, nil
		}
		return same, true, nil
	}
	return nil, false, nil
}

func builtinUnary(op Op, a Value) (Value, bool) {
	if i, ok := AsInt(a); ok {
		switch op {
		case OpNeg:
			return -i, true
		case OpPos:
			return i, true
		case OpAbs:
			if i < 0 {
				return -i, true
			}
			return i, true
		}
	}
	if f, ok := a.(float64); ok {
		switch op {
		case OpNeg:
			return -f, true
		case OpPos:
			return f, true
		case OpAbs:
			return math.Abs(f), true
		}
	}
	return nil, false
}
