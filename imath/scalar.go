package imath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Scalar is any element kind a vector, box or array can hold.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// Float is the element kind of matrices, quaternions, Euler angles and the
// other rotation types.
type Float interface {
	constraints.Float
}

// IsIntegral reports whether T truncates division.
func IsIntegral[T Scalar]() bool {
	var one T = 1
	return one/2 == 0
}

func abs[T Scalar](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func sqrt[T Scalar](x T) T {
	return T(math.Sqrt(float64(x)))
}

// MaxValue returns the largest finite value of T.
func MaxValue[T Scalar]() T {
	var z T
	switch any(z).(type) {
	case int8:
		return any(int8(math.MaxInt8)).(T)
	case uint8:
		return any(uint8(math.MaxUint8)).(T)
	case int16:
		return any(int16(math.MaxInt16)).(T)
	case uint16:
		return any(uint16(math.MaxUint16)).(T)
	case int32:
		return any(int32(math.MaxInt32)).(T)
	case uint32:
		return any(uint32(math.MaxUint32)).(T)
	case int64:
		return any(int64(math.MaxInt64)).(T)
	case uint64:
		return any(uint64(math.MaxUint64)).(T)
	case int:
		return any(int(math.MaxInt)).(T)
	case uint:
		return any(uint(math.MaxUint)).(T)
	case float32:
		return any(float32(math.MaxFloat32)).(T)
	case float64:
		return any(float64(math.MaxFloat64)).(T)
	}
	return z
}

// MinValue returns the most negative finite value of T: zero for unsigned
// kinds, -MaxValue for floating kinds.
func MinValue[T Scalar]() T {
	var z T
	switch any(z).(type) {
	case int8:
		return any(int8(math.MinInt8)).(T)
	case int16:
		return any(int16(math.MinInt16)).(T)
	case int32:
		return any(int32(math.MinInt32)).(T)
	case int64:
		return any(int64(math.MinInt64)).(T)
	case int:
		return any(int(math.MinInt)).(T)
	case float32:
		return any(float32(-math.MaxFloat32)).(T)
	case float64:
		return any(float64(-math.MaxFloat64)).(T)
	}
	return z
}

// Limits describes a scalar kind the way the module constants expose it.
type Limits struct {
	Min      float64
	Max      float64
	Smallest float64
	Epsilon  float64
}

// Limit tables for the kinds published as module constants. Min is the most
// negative value, Smallest the smallest positive normalized value.
var (
	IntLimits = Limits{
		Min:      math.MinInt32,
		Max:      math.MaxInt32,
		Smallest: 1,
		Epsilon:  1,
	}
	FloatLimits = Limits{
		Min:      -math.MaxFloat32,
		Max:      math.MaxFloat32,
		Smallest: 0x1p-126,
		Epsilon:  0x1p-23,
	}
	DoubleLimits = Limits{
		Min:      -math.MaxFloat64,
		Max:      math.MaxFloat64,
		Smallest: 0x1p-1022,
		Epsilon:  0x1p-52,
	}
)
