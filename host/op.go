package host

// Op identifies an operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpNeg
	OpPos
	OpAbs
	opCount
)

var opSymbols = [opCount]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "**",
	OpEq:       "==",
	OpNe:       "!=",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
	OpNeg:      "unary -",
	OpPos:      "unary +",
	OpAbs:      "abs()",
}

var opMethods = [opCount]string{
	OpAdd:      "__add__",
	OpSub:      "__sub__",
	OpMul:      "__mul__",
	OpDiv:      "__truediv__",
	OpFloorDiv: "__floordiv__",
	OpMod:      "__mod__",
	OpPow:      "__pow__",
	OpEq:       "__eq__",
	OpNe:       "__ne__",
	OpLt:       "__lt__",
	OpLe:       "__le__",
	OpGt:       "__gt__",
	OpGe:       "__ge__",
	OpNeg:      "__neg__",
	OpPos:      "__pos__",
	OpAbs:      "__abs__",
}

// String returns the operator symbol.
func (o Op) String() string {
	if o < 0 || o >= opCount {
		return "?"
	}
	return opSymbols[o]
}

// Method returns the dunder method name of the operator.
func (o Op) Method() string {
	if o < 0 || o >= opCount {
		return "?"
	}
	return opMethods[o]
}

// IsComparison reports whether o is a rich comparison.
func (o Op) IsComparison() bool {
	return o >= OpEq && o <= OpGe
}

// IsUnary reports whether o takes a single operand.
func (o Op) IsUnary() bool {
	return o >= OpNeg && o < opCount
}

// swapped returns the comparison to ask the right operand for.
func (o Op) swapped() Op {
	switch o {
	case OpLt:
		return OpGt
	case OpLe:
		return OpGe
	case OpGt:
		return OpLt
	case OpGe:
		return OpLe
	}
	return o
}
