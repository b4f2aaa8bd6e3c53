package host

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/imath-bind/errors"
)

// pairClass is a minimal bound type: a pair of ints supporting + with
// pairs and ints, and * only from the right with ints.
func pairClass(t *testing.T) (*Module, *Class) {
	t.Helper()

	cls := NewClass("Pair", "test", nil)
	cls.SetInit(func(c *Call, cls *Class, args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, errors.ArgumentCount(errors.PhaseConstruct, "Pair", "2", len(args))
		}
		a, aok := AsInt(args[0])
		b, bok := AsInt(args[1])
		if !aok || !bok {
			return nil, errors.ScalarKind(errors.PhaseConvert, []string{"Pair"}, "int", TypeName(args[0]))
		}
		return NewInstance(cls, [2]int64{a, b}), nil
	})
	native := func(v Value) ([2]int64, bool) {
		if in, ok := v.(*Instance); ok && in.Class() == cls {
			return in.Native.([2]int64), true
		}
		return [2]int64{}, false
	}
	cls.AddProperty("first", Property{
		Get: func(_ *Call, self Value) (Value, error) {
			p, _ := native(self)
			return p[0], nil
		},
		Set: func(_ *Call, self Value, v Value) error {
			i, ok := AsInt(v)
			if !ok {
				return errors.ScalarKind(errors.PhaseConvert, []string{"Pair", "first"}, "int", TypeName(v))
			}
			in := self.(*Instance)
			p := in.Native.([2]int64)
			p[0] = i
			in.Native = p
			return nil
		},
	})
	cls.AddMethod("sum", func(_ *Call, self Value, _ []Value) (Value, error) {
		p, _ := native(self)
		return p[0] + p[1], nil
	}, "sum of both components")
	cls.AddMethod("fail", func(_ *Call, _ Value, _ []Value) (Value, error) {
		return nil, stderrors.New("native failure")
	}, "")
	cls.AddMethod("boom", func(_ *Call, _ Value, _ []Value) (Value, error) {
		panic("boom")
	}, "")
	cls.SetBinary(OpAdd, func(_ *Call, self, other Value) (Value, error) {
		p, _ := native(self)
		if q, ok := native(other); ok {
			return NewInstance(cls, [2]int64{p[0] + q[0], p[1] + q[1]}), nil
		}
		if i, ok := other.(int64); ok {
			return NewInstance(cls, [2]int64{p[0] + i, p[1] + i}), nil
		}
		return NotImplemented, nil
	})
	cls.SetReflected(OpMul, func(_ *Call, self, other Value) (Value, error) {
		p, _ := native(self)
		if i, ok := other.(int64); ok {
			return NewInstance(cls, [2]int64{p[0] * i, p[1] * i}), nil
		}
		return NotImplemented, nil
	})
	cls.SetBinary(OpEq, func(_ *Call, self, other Value) (Value, error) {
		p, _ := native(self)
		q, ok := native(other)
		if !ok {
			return NotImplemented, nil
		}
		return p == q, nil
	})
	cls.Slots.Repr = func(_ *Call, self Value) string {
		p, _ := native(self)
		return "Pair(" + FormatFloat(float64(p[0])) + ", " + FormatFloat(float64(p[1])) + ")"
	}

	m := NewModule("test", "test module")
	require.NoError(t, m.AddClass(cls))
	require.NoError(t, m.AddFunc("identity", "", func(_ *Call, args []Value) (Value, error) {
		return args[0], nil
	}))
	m.Freeze()
	return m, cls
}

func newTestRuntime(t *testing.T, opts ...Option) (*Runtime, *Class) {
	t.Helper()
	m, cls := pairClass(t)
	rt := New(opts...)
	require.NoError(t, rt.Install(m))
	return rt, cls
}

func requireException(t *testing.T, err error, cls *Class) *Exception {
	t.Helper()
	require.Error(t, err)
	var exc *Exception
	require.True(t, stderrors.As(err, &exc), "expected host exception, got %T: %v", err, err)
	require.True(t, exc.IsInstance(cls), "expected %s, got %s", cls.Name, exc.Class().Name)
	return exc
}

func TestConstructAndAttributes(t *testing.T) {
	ctx := context.Background()
	rt, cls := newTestRuntime(t)

	p, err := rt.Call(ctx, cls, int64(1), int64(2))
	require.NoError(t, err)

	first, err := rt.GetAttr(ctx, p, "first")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	require.NoError(t, rt.SetAttr(ctx, p, "first", int64(5)))
	sum, err := rt.CallMethod(ctx, p, "sum")
	require.NoError(t, err)
	assert.Equal(t, int64(7), sum)

	_, err = rt.Call(ctx, cls, int64(1))
	requireException(t, err, TypeError)

	err = rt.SetAttr(ctx, p, "first", 1.5)
	requireException(t, err, TypeError)

	_, err = rt.GetAttr(ctx, p, "missing")
	exc := requireException(t, err, AttributeError)
	assert.Equal(t, "'Pair' object has no attribute 'missing'", exc.Message)
}

func TestOperatorDispatch(t *testing.T) {
	ctx := context.Background()
	rt, cls := newTestRuntime(t)

	p, err := rt.Call(ctx, cls, int64(1), int64(2))
	require.NoError(t, err)

	sum, err := rt.Binary(ctx, OpAdd, p, p)
	require.NoError(t, err)
	repr, err := rt.Repr(ctx, sum)
	require.NoError(t, err)
	assert.Equal(t, "Pair(2.0, 4.0)", repr)

	scaled, err := rt.Binary(ctx, OpMul, int64(3), p)
	require.NoError(t, err, "reflected multiply should be used")
	eq, err := rt.Equal(ctx, scaled, NewInstance(cls, [2]int64{3, 6}))
	require.NoError(t, err)
	assert.True(t, eq)

	_, err = rt.Binary(ctx, OpMul, p, int64(3))
	exc := requireException(t, err, TypeError)
	assert.Equal(t, "unsupported operand type(s) for *: 'Pair' and 'int'", exc.Message)

	_, err = rt.Binary(ctx, OpAdd, p, "x")
	requireException(t, err, TypeError)

	_, err = rt.Binary(ctx, OpLt, p, p)
	requireException(t, err, TypeError)

	ne, err := rt.Binary(ctx, OpNe, p, "x")
	require.NoError(t, err)
	assert.Equal(t, true, ne)
}

func TestBuiltinArithmetic(t *testing.T) {
	ctx := context.Background()
	rt := New()

	tests := []struct {
		name string
		op   Op
		a, b Value
		want Value
	}{
		{"int add", OpAdd, int64(2), int64(3), int64(5)},
		{"true division", OpDiv, int64(7), int64(2), 3.5},
		{"floor division", OpFloorDiv, int64(-7), int64(2), int64(-4)},
		{"python modulo", OpMod, int64(-7), int64(3), int64(2)},
		{"int power", OpPow, int64(2), int64(10), int64(1024)},
		{"mixed", OpMul, int64(2), 1.5, 3.0},
		{"compare", OpLt, int64(1), 2.0, true},
		{"string concat", OpAdd, "a", "b", "ab"},
		{"tuple equality", OpEq, Tuple{int64(1), 2.0}, Tuple{1.0, int64(2)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rt.Binary(ctx, tt.op, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := rt.Binary(ctx, OpDiv, int64(1), int64(0))
	requireException(t, err, ZeroDivisionError)
	requireException(t, err, ArithmeticError)

	neg, err := rt.Unary(ctx, OpNeg, int64(4))
	require.NoError(t, err)
	assert.Equal(t, int64(-4), neg)
}

func TestSequences(t *testing.T) {
	ctx := context.Background()
	rt := New()
	tup := Tuple{int64(0), int64(1), int64(2), int64(3)}

	n, err := rt.Len(ctx, tup)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	last, err := rt.GetItem(ctx, tup, int64(-1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), last)

	rev, err := rt.GetItem(ctx, tup, &Slice{Step: int64(-2)})
	require.NoError(t, err)
	assert.Equal(t, Tuple{int64(3), int64(1)}, rev)

	_, err = rt.GetItem(ctx, tup, int64(4))
	requireException(t, err, IndexError)

	list := NewList(int64(1), int64(2))
	require.NoError(t, rt.SetItem(ctx, list, int64(0), "x"))
	assert.Equal(t, "x", list.Items[0])

	seq, err := rt.Iter(ctx, tup)
	require.NoError(t, err)
	count := 0
	for range seq {
		count++
	}
	for range seq {
		count++
	}
	assert.Equal(t, 8, count, "iteration is restartable")

	_, err = rt.Len(ctx, int64(1))
	requireException(t, err, TypeError)
}

func TestErrorTranslation(t *testing.T) {
	ctx := context.Background()
	rt, cls := newTestRuntime(t)

	p, err := rt.Call(ctx, cls, int64(1), int64(2))
	require.NoError(t, err)

	_, err = rt.CallMethod(ctx, p, "fail")
	exc := requireException(t, err, RuntimeError)
	assert.Equal(t, "native failure", exc.Message)

	_, err = rt.CallMethod(ctx, p, "boom")
	exc = requireException(t, err, RuntimeError)
	assert.Contains(t, exc.Message, "boom")
	assert.ErrorIs(t, exc, &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindPanic})

	assert.Equal(t, IndexError, ClassForKind(errors.KindOutOfBounds))
	assert.Equal(t, ValueError, ClassForKind(errors.KindLengthMismatch))
	assert.Equal(t, SystemError, ClassForKind(errors.KindUnregistered))
	assert.Equal(t, RuntimeError, ClassForKind("unknown"))
}

type stubTranslator struct {
	native *Class
}

type nativeErr struct{ msg string }

func (e *nativeErr) Error() string { return e.msg }

func (s stubTranslator) ToHost(err error) (*Exception, bool) {
	var ne *nativeErr
	if !stderrors.As(err, &ne) {
		return nil, false
	}
	return &Exception{cls: s.native, Args: Tuple{ne.msg}, Message: ne.msg, Cause: err}, true
}

func (s stubTranslator) ToNative(exc *Exception) error {
	return &nativeErr{msg: exc.Message}
}

func TestTranslatorAndInvoke(t *testing.T) {
	ctx := context.Background()
	nativeCls, err := NewExceptionClass("NativeExc", "test", nil)
	require.NoError(t, err)

	m := NewModule("native", "")
	require.NoError(t, m.AddFunc("raise", "", func(_ *Call, _ []Value) (Value, error) {
		return nil, &nativeErr{msg: "from native"}
	}))
	require.NoError(t, m.AddFunc("callback", "", func(c *Call, args []Value) (Value, error) {
		_, err := c.Invoke(args[0])
		var ne *nativeErr
		if stderrors.As(err, &ne) {
			return "caught " + ne.msg, nil
		}
		return nil, err
	}))

	rt := New(WithTranslator(stubTranslator{native: nativeCls}))
	require.NoError(t, rt.Install(m))

	raise, err := rt.Lookup(ctx, "native.raise")
	require.NoError(t, err)
	_, err = rt.Call(ctx, raise)
	exc := requireException(t, err, nativeCls)
	assert.Equal(t, "from native", exc.Message)
	assert.True(t, exc.IsInstance(ExceptionClass))

	hostRaiser := NewFunction("test", "raiser", "", func(_ *Call, _ []Value) (Value, error) {
		return nil, Raise(ValueError, "from host")
	})
	callback, err := rt.Lookup(ctx, "native.callback")
	require.NoError(t, err)
	res, err := rt.Call(ctx, callback, hostRaiser)
	require.NoError(t, err)
	assert.Equal(t, "caught from host", res)
}

func TestExceptionClasses(t *testing.T) {
	ctx := context.Background()
	rt := New()

	cls, err := NewExceptionClass("CustomError", "test", ValueError)
	require.NoError(t, err)
	assert.Equal(t, 3, cls.Depth())

	_, err = NewExceptionClass("Bad", "test", IntType)
	require.Error(t, err)

	v, err := rt.Call(ctx, cls, "message")
	require.NoError(t, err)
	exc, ok := v.(*Exception)
	require.True(t, ok)
	assert.Equal(t, "message", exc.Message)
	assert.Equal(t, "test.CustomError: message", exc.Error())

	args, err := rt.GetAttr(ctx, exc, "args")
	require.NoError(t, err)
	assert.Equal(t, Tuple{"message"}, args)

	repr, err := rt.Repr(ctx, exc)
	require.NoError(t, err)
	assert.Equal(t, "CustomError('message')", repr)
}

func TestModules(t *testing.T) {
	rt, _ := newTestRuntime(t)

	_, err := rt.Import("missing")
	requireException(t, err, ImportError)

	m, err := rt.Import("test")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pair", "identity"}, m.Names())
	assert.Len(t, m.Classes(), 1)
	assert.Len(t, m.Functions(), 1)

	require.Error(t, m.Set("late", int64(1)), "frozen module rejects new names")
	require.Error(t, rt.Install(m), "module names are unique")

	assert.Panics(t, func() {
		m.Classes()[0].AddMethod("late", nil, "")
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rt, cls := newTestRuntime(t, WithLogger(zap.New(core)))

	_, err := rt.Call(context.Background(), cls, int64(1), int64(2))
	require.NoError(t, err)

	entries := logs.FilterMessage("boundary call").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "call", fields["op"])
	assert.Equal(t, rt.ID().String(), fields["runtime"])
}

func TestReprFormatting(t *testing.T) {
	c := &Call{}
	tests := []struct {
		v    Value
		want string
	}{
		{nil, "None"},
		{true, "True"},
		{int64(-3), "-3"},
		{2.0, "2.0"},
		{0.1, "0.1"},
		{"it's", `'it\'s'`},
		{Tuple{int64(1)}, "(1,)"},
		{NewList(int64(1), "a"), "[1, 'a']"},
		{ValueError, "<class 'ValueError'>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Repr(tt.v))
	}
}
