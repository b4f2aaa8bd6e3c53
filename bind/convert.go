package bind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/imath"
)

// hostKind names the host type a native scalar kind is exposed as.
func hostKind[T imath.Scalar]() string {
	if imath.IsIntegral[T]() {
		return "int"
	}
	return "float"
}

// scalarName names the native scalar kind in overflow reports.
func scalarName[T imath.Scalar]() string {
	var z T
	return fmt.Sprintf("%T", z)
}

func kindError(path, want string, v host.Value) error {
	return errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
		Path(path).
		Detail("%s must be %s, not %s", path, want, host.TypeName(v)).
		Build()
}

// scalarOf converts a host number to T. Integer kinds take host ints (and
// bools) only; floating kinds take ints and floats. ok is false for any other
// value. An int outside the range of T is an overflow error.
func scalarOf[T imath.Scalar](v host.Value) (T, bool, error) {
	if imath.IsIntegral[T]() {
		i, ok := host.AsInt(v)
		if !ok {
			return 0, false, nil
		}
		t := T(i)
		if int64(t) != i || (t < 0) != (i < 0) {
			return 0, true, errors.Overflow(errors.PhaseConvert, nil, i, scalarName[T]())
		}
		return t, true, nil
	}
	f, ok := host.AsFloat(v)
	if !ok {
		return 0, false, nil
	}
	return T(f), true, nil
}

func acceptScalar[T imath.Scalar](_ *host.Call, v host.Value) (T, bool, error) {
	return scalarOf[T](v)
}

// toScalar is scalarOf for a required argument named path.
func toScalar[T imath.Scalar](path string, v host.Value) (T, error) {
	x, ok, err := scalarOf[T](v)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, kindError(path, hostKind[T](), v)
	}
	return x, nil
}

// fromScalar returns the host value of x: an int for integer kinds, a float
// otherwise.
func fromScalar[T imath.Scalar](x T) host.Value {
	if imath.IsIntegral[T]() {
		return int64(x)
	}
	return float64(x)
}

func toInt(path string, v host.Value) (int, error) {
	i, ok := host.AsInt(v)
	if !ok {
		return 0, kindError(path, "int", v)
	}
	return int(i), nil
}

func toBool(c *host.Call, v host.Value) bool { return c.Truth(v) }

func toString(path string, v host.Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", kindError(path, "str", v)
	}
	return s, nil
}

// items returns the elements of a tuple or list.
func items(v host.Value) ([]host.Value, bool) {
	switch x := v.(type) {
	case host.Tuple:
		return x, true
	case *host.List:
		return x.Items, true
	}
	return nil, false
}

// scalars converts a tuple or list of exactly n numbers.
func scalars[T imath.Scalar](v host.Value, n int) ([]T, bool, error) {
	xs, ok := items(v)
	if !ok || len(xs) != n {
		return nil, false, nil
	}
	out := make([]T, n)
	for i, x := range xs {
		t, ok, err := scalarOf[T](x)
		if err != nil || !ok {
			return nil, false, err
		}
		out[i] = t
	}
	return out, true, nil
}

// arity checks the number of arguments of a call to name.
func arity(name string, args []host.Value, lo, hi int) error {
	n := len(args)
	if n >= lo && (hi < 0 || n <= hi) {
		return nil
	}
	var want string
	switch {
	case lo == hi:
		want = "exactly " + strconv.Itoa(lo)
	case hi < 0:
		want = "at least " + strconv.Itoa(lo)
	default:
		want = fmt.Sprintf("from %d to %d", lo, hi)
	}
	return errors.ArgumentCount(errors.PhaseCall, name, want, n)
}

// badInit reports constructor arguments no overload accepts.
func badInit(name string, args []host.Value) error {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = host.TypeName(a)
	}
	return errors.TypeMismatch(errors.PhaseConstruct,
		"%s(): incompatible constructor arguments (%s)", name, strings.Join(names, ", "))
}

// formatScalar renders x for repr: ints as ints, float32 with 9 and float64
// with 17 significant digits.
func formatScalar[T imath.Scalar](x T) string {
	var z T
	switch any(z).(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'g', 9, 64)
	case float64:
		return strconv.FormatFloat(float64(x), 'g', 17, 64)
	}
	return strconv.FormatInt(int64(x), 10)
}

func formatCall[T imath.Scalar](name string, xs ...T) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = formatScalar(x)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
