package expr

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wippyai/imath-bind/bind"
	"github.com/wippyai/imath-bind/excreg"
	"github.com/wippyai/imath-bind/host"
)

func newEvaluator(t *testing.T) (*Evaluator, *host.Runtime) {
	t.Helper()
	reg := excreg.Default()
	iexMod, err := bind.NewIexModule(reg)
	require.NoError(t, err)
	imathMod, err := bind.NewImathModule(reg, bind.WithIexModule(iexMod))
	require.NoError(t, err)

	rt := host.New(host.WithTranslator(reg), host.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, rt.Install(iexMod))
	require.NoError(t, rt.Install(imathMod))
	return New(rt), rt
}

func raised(t *testing.T, err error) *host.Exception {
	t.Helper()
	var exc *host.Exception
	require.True(t, stderrors.As(err, &exc), "want a host exception, got %v", err)
	return exc
}

func TestTokenize(t *testing.T) {
	tokens, err := tokenize("a.x += 1.5e3 # note\nb = 'it\\'s'; c[1:]")
	require.NoError(t, err)

	var got []string
	for _, tok := range tokens {
		got = append(got, tok.Value)
	}
	assert.Equal(t, []string{"a", ".", "x", "+=", "1.5e3", "\n", "b", "=", "it's", ";", "c", "[", "1", ":", "]", ""}, got)
	assert.Equal(t, tokFloat, tokens[4].Type)
	assert.Equal(t, 2, tokens[6].Line)
	assert.Equal(t, 1, tokens[6].Col)
}

func TestTokenizeKeepsBracketsOnOneStatement(t *testing.T) {
	tokens, err := tokenize("f(1,\n  2)")
	require.NoError(t, err)
	for _, tok := range tokens {
		assert.NotEqual(t, tokNewline, tok.Type)
	}
}

func TestEvalPrimitives(t *testing.T) {
	e, _ := newEvaluator(t)
	ctx := context.Background()

	tests := []struct {
		src  string
		want host.Value
	}{
		{"1 + 2 * 3", int64(7)},
		{"(1 + 2) * 3", int64(9)},
		{"-2**2", int64(-4)},
		{"2**-1", 0.5},
		{"7 // 2, 7 % 3", host.Tuple{int64(3), int64(1)}},
		{"1 < 2 < 3", true},
		{"1 < 3 < 2", false},
		{"not 0", true},
		{"0 or 5", int64(5)},
		{"1 and 0", int64(0)},
		{"'a' \"b\"", "ab"},
		{"[1, 2][-1]", int64(2)},
		{"(1,)", host.Tuple{int64(1)}},
		{"()", host.Tuple{}},
		{"None", nil},
		{"len([1, 2, 3])", int64(3)},
		{"x = 4", nil},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := e.Eval(ctx, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalVectors(t *testing.T) {
	e, rt := newEvaluator(t)
	ctx := context.Background()

	got, err := e.Eval(ctx, "v = imath.V3f(1, 2, 3)\nv.x += 1\nrepr(v + v)")
	require.NoError(t, err)
	assert.Equal(t, "V3f(4, 4, 6)", got)

	got, err = e.Eval(ctx, "v.length2()")
	require.NoError(t, err)
	assert.Equal(t, 17.0, got)

	got, err = e.Eval(ctx, "isinstance(v, imath.V3f), isinstance(v, imath.V3d)")
	require.NoError(t, err)
	assert.Equal(t, host.Tuple{true, false}, got)

	v, ok := e.Get("v")
	require.True(t, ok)
	s, err := rt.Repr(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, "V3f(2, 2, 3)", s)
}

func TestEvalArrays(t *testing.T) {
	e, _ := newEvaluator(t)
	ctx := context.Background()

	got, err := e.Eval(ctx, "a = imath.FloatArray(4); a[1:3] = 2.5; a[0] = -1; list(a)")
	require.NoError(t, err)
	assert.Equal(t, host.NewList(-1.0, 2.5, 2.5, 0.0), got)

	got, err = e.Eval(ctx, "repr(a[a > 0])")
	require.NoError(t, err)
	assert.Equal(t, "FloatArray([2.5, 2.5])", got)

	got, err = e.Eval(ctx, "a += 1; a.reduce()")
	require.NoError(t, err)
	assert.Equal(t, 8.0, got)

	got, err = e.Eval(ctx, "repr(a[::2])")
	require.NoError(t, err)
	assert.Equal(t, "FloatArray([0.0, 3.5])", got)
}

func TestEvalUnpacking(t *testing.T) {
	e, _ := newEvaluator(t)
	ctx := context.Background()

	got, err := e.Eval(ctx, "a, b = 1, 2; b, a")
	require.NoError(t, err)
	assert.Equal(t, host.Tuple{int64(2), int64(1)}, got)

	_, err = e.Eval(ctx, "a, b = 1, 2, 3")
	assert.Equal(t, host.ValueError, raised(t, err).Class())
}

func TestEvalErrors(t *testing.T) {
	e, _ := newEvaluator(t)
	ctx := context.Background()

	tests := []struct {
		src  string
		want *host.Class
		msg  string
	}{
		{"missing", host.NameError, "name 'missing' is not defined"},
		{"1 +", host.SyntaxError, "unexpected end of input (line 1, column 4)"},
		{"f(1", host.SyntaxError, ""},
		{"'open", host.SyntaxError, "unterminated string literal (line 1, column 1)"},
		{"1 = 2", host.SyntaxError, "cannot assign to expression (line 1, column 3)"},
		{"a $ b", host.SyntaxError, ""},
		{"1 / 0", host.ZeroDivisionError, ""},
		{"imath.V3i(1.5, 2, 3)", host.TypeError, ""},
		{"imath.NoSuchThing", host.AttributeError, ""},
		{"len(1, 2)", host.TypeError, "len() takes exactly 1 argument(s) (2 given)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := e.Eval(ctx, tt.src)
			exc := raised(t, err)
			assert.True(t, exc.IsInstance(tt.want), "got %s", exc)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, exc.Message)
			}
		})
	}
}

func TestEvalNativeExceptions(t *testing.T) {
	e, _ := newEvaluator(t)

	_, err := e.Eval(context.Background(), "imath.M44d(0.0).inverse()")
	exc := raised(t, err)
	assert.Equal(t, "SingMatrixExc", exc.Class().Name)

	got, err := e.Eval(context.Background(), "iex.testBaseExcString(iex.testMakeArgExc('boom'))")
	require.NoError(t, err)
	assert.Equal(t, "boom", got)
}

func TestEvalStopsAtFirstFailure(t *testing.T) {
	e, _ := newEvaluator(t)

	_, err := e.Eval(context.Background(), "x = 1; y = missing; z = 3")
	require.Error(t, err)
	assert.Equal(t, []string{"x"}, e.Names())

	e.Reset()
	assert.Empty(t, e.Names())
}

func TestEvalHonoursContext(t *testing.T) {
	e, _ := newEvaluator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Eval(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheck(t *testing.T) {
	e, _ := newEvaluator(t)
	assert.NoError(t, e.Check("v = imath.V3f(1, 2, 3)"))
	assert.Error(t, e.Check("v = = 1"))
}
