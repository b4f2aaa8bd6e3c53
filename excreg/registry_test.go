package excreg

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/iex"
)

func registerCore(t *testing.T, r *Registry) {
	t.Helper()
	for _, c := range []*iex.Class{iex.BaseExc, iex.ArgExc, iex.MathExc} {
		_, err := r.Register(c, nil, "iex")
		require.NoError(t, err)
	}
}

func TestRegisterMirrorsHierarchy(t *testing.T) {
	r := New()
	registerCore(t, r)

	base, ok := r.HostClass(iex.BaseExc)
	require.True(t, ok)
	assert.Equal(t, "BaseExc", base.Name)
	assert.Equal(t, host.ExceptionClass, base.Base())

	arg, ok := r.HostClass(iex.ArgExc)
	require.True(t, ok)
	assert.Equal(t, base, arg.Base())
	assert.True(t, arg.IsSubclass(host.ExceptionClass))
	assert.Equal(t, base.Depth()+1, arg.Depth())
}

func TestRegisterIdempotent(t *testing.T) {
	r := New()
	registerCore(t, r)

	first, _ := r.HostClass(iex.ArgExc)
	again, err := r.Register(iex.ArgExc, nil, "iex")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Len(t, r.Entries(), 3)
}

func TestRegisterRejectsNonIsomorphicParent(t *testing.T) {
	r := New()
	registerCore(t, r)

	wrongParent, _ := r.HostClass(iex.MathExc)
	_, err := r.Register(iex.DivzeroExc, host.ValueError, "iex")
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRegister, Kind: errors.KindRegistration})

	_, err = r.Register(iex.LogicExc, wrongParent, "iex")
	require.Error(t, err)

	_, err = r.Register(iex.OverflowExc, nil, "iex")
	require.NoError(t, err, "base MathExc is registered")

	perm, ok := iex.Lookup("EpermExc")
	require.True(t, ok)
	_, err = r.Register(perm, nil, "iex")
	require.Error(t, err, "ErrnoExc base is not registered")
}

func TestSealRejectsNewClasses(t *testing.T) {
	r := New()
	registerCore(t, r)
	r.Seal()
	assert.True(t, r.Sealed())

	_, err := r.Register(iex.ArgExc, nil, "iex")
	require.NoError(t, err, "re-registration after seal stays idempotent")

	_, err = r.Register(iex.LogicExc, nil, "iex")
	require.Error(t, err)
}

func TestTranslateNativeToHost(t *testing.T) {
	r := New()
	registerCore(t, r)
	r.Seal()

	perm, ok := iex.Lookup("EpermExc")
	require.True(t, ok)

	tests := []struct {
		name  string
		exc   *iex.Exc
		class string
	}{
		{"exact match", iex.ArgExc.New("4"), "ArgExc"},
		{"root", iex.BaseExc.New("3"), "BaseExc"},
		{"nearest ancestor", iex.DivzeroExc.New("divide"), "MathExc"},
		{"grandchild", iex.NullVecExc.New("null vector"), "MathExc"},
		{"unregistered subtree", perm.New("perm"), "BaseExc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.TranslateNativeToHost(tt.exc)
			require.NoError(t, err)
			assert.Equal(t, tt.class, out.Class().Name)
			assert.Equal(t, tt.exc.Error(), out.Message, "message is preserved verbatim")
			assert.True(t, stderrors.Is(out, tt.exc), "native exception is the cause")
		})
	}
}

func TestTranslateAfterSealForLateClass(t *testing.T) {
	r := New()
	registerCore(t, r)
	r.Seal()

	late, ok := iex.Lookup("LateArgExc")
	if !ok {
		var err error
		late, err = iex.Define("LateArgExc", iex.ArgExc, "test")
		require.NoError(t, err)
	}

	out, err := r.TranslateNativeToHost(late.New("late"))
	require.NoError(t, err)
	assert.Equal(t, "ArgExc", out.Class().Name)
}

func TestUnregisteredCrossing(t *testing.T) {
	r := New()

	_, err := r.TranslateNativeToHost(iex.ArgExc.New("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseTranslate, Kind: errors.KindUnregistered})

	exc, ok := r.ToHost(iex.ArgExc.New("x"))
	require.True(t, ok)
	assert.True(t, exc.IsInstance(host.SystemError))

	_, err = r.TranslateHostToNative(host.NewException(host.ValueError, "v"))
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseTranslate, Kind: errors.KindUnregistered})

	_, ok = r.ToHost(stderrors.New("not native"))
	assert.False(t, ok)
}

func TestTranslateHostToNative(t *testing.T) {
	r := New()
	registerCore(t, r)

	argCls, _ := r.HostClass(iex.ArgExc)
	sub, err := host.NewExceptionClass("HostOnlyArgExc", "test", argCls)
	require.NoError(t, err)

	native, err := r.TranslateHostToNative(host.NewException(sub, "from host"))
	require.NoError(t, err)
	assert.Equal(t, iex.ArgExc, native.Class())
	assert.Equal(t, "from host", native.Error())
}

func TestDefaultRegistry(t *testing.T) {
	var wg sync.WaitGroup
	regs := make([]*Registry, 8)
	for i := range regs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			regs[i] = Default()
		}(i)
	}
	wg.Wait()
	for _, r := range regs {
		assert.Same(t, regs[0], r)
	}

	r := Default()
	assert.True(t, r.Sealed())

	perm, ok := iex.Lookup("EpermExc")
	require.True(t, ok)
	cls, ok := r.HostClass(perm)
	require.True(t, ok)
	assert.Equal(t, "iex", cls.Module)
	assert.Equal(t, "ErrnoExc", cls.Base().Name)

	nullVec, ok := r.HostClass(iex.NullVecExc)
	require.True(t, ok)
	assert.Equal(t, "imath", nullVec.Module)
	assert.Equal(t, "MathExc", nullVec.Base().Name)

	for _, e := range r.Entries() {
		if e.Native.Base() == nil {
			assert.Equal(t, host.ExceptionClass, e.Host.Base())
			continue
		}
		parent, ok := r.HostClass(e.Native.Base())
		require.True(t, ok)
		assert.Same(t, parent, e.Host.Base(), "%s parent mirrors native base", e.Native.Name())
	}
	assert.Len(t, r.Classes("imath"), 6)
}

func TestRuntimeBoundary(t *testing.T) {
	ctx := context.Background()
	r := Default()

	m := host.NewModule("native", "")
	require.NoError(t, m.AddFunc("divide", "", func(_ *host.Call, _ []host.Value) (host.Value, error) {
		return nil, iex.DivzeroExc.New("Division by zero")
	}))
	rt := host.New(host.WithTranslator(r))
	require.NoError(t, rt.Install(m))

	fn, err := rt.Lookup(ctx, "native.divide")
	require.NoError(t, err)

	_, err = rt.Call(ctx, fn)
	var exc *host.Exception
	require.True(t, stderrors.As(err, &exc))
	assert.Equal(t, "DivzeroExc", exc.Class().Name)
	mathCls, _ := r.HostClass(iex.MathExc)
	assert.True(t, exc.IsInstance(mathCls), "catchable by base class")
	assert.Equal(t, "Division by zero", exc.Message)
}

func TestPackageLoggerAppliesToExistingRegistries(t *testing.T) {
	r := New()
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	registerCore(t, r)
	assert.Equal(t, 3, logs.FilterMessage("exception registered").Len())

	empty := New()
	_, ok := empty.ToHost(iex.ArgExc.New("lost"))
	assert.True(t, ok)
	warned := logs.FilterMessage("untranslatable native exception").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "ArgExc", warned[0].ContextMap()["class"])

	own, ownLogs := observer.New(zapcore.DebugLevel)
	registerCore(t, New(WithLogger(zap.New(own))))
	assert.Equal(t, 3, ownLogs.FilterMessage("exception registered").Len())
	assert.Equal(t, 3, logs.FilterMessage("exception registered").Len())
}

func TestInvokeTranslatesHostExceptionsThroughDefault(t *testing.T) {
	ctx := context.Background()
	reg := Default()

	singular, ok := reg.HostClass(iex.SingMatrixExc)
	require.True(t, ok)
	argCls, ok := reg.HostClass(iex.ArgExc)
	require.True(t, ok)
	hostOnly, err := host.NewExceptionClass("HostOnlyArgError", "test", argCls)
	require.NoError(t, err)

	m := host.NewModule("native", "")
	require.NoError(t, m.AddFunc("callback", "", func(c *host.Call, args []host.Value) (host.Value, error) {
		_, err := c.Invoke(args[0])
		if exc, ok := iex.Catch(err, iex.MathExc); ok {
			return "math " + exc.Class().Name() + ": " + exc.Error(), nil
		}
		if exc, ok := iex.Catch(err, iex.ArgExc); ok {
			return "arg " + exc.Class().Name() + ": " + exc.Error(), nil
		}
		return nil, err
	}))
	rt := host.New(host.WithTranslator(reg))
	require.NoError(t, rt.Install(m))
	callback, err := rt.Lookup(ctx, "native.callback")
	require.NoError(t, err)

	raising := func(cls *host.Class, msg string) host.Value {
		return host.NewFunction("test", "raiser", "", func(_ *host.Call, _ []host.Value) (host.Value, error) {
			return nil, host.NewException(cls, msg)
		})
	}

	tests := []struct {
		name string
		cls  *host.Class
		want string
	}{
		{"exact counterpart", singular, "math SingMatrixExc: cannot invert"},
		{"host subclass maps to nearest native", hostOnly, "arg ArgExc: cannot invert"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := rt.Call(ctx, callback, raising(tt.cls, "cannot invert"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}

	res, err := rt.Call(ctx, callback, host.NewFunction("test", "fine", "", func(_ *host.Call, _ []host.Value) (host.Value, error) {
		return int64(1), nil
	}))
	require.NoError(t, err)
	assert.Nil(t, res)

	_, err = rt.Call(ctx, callback, raising(host.ValueError, "no native side"))
	var exc *host.Exception
	require.True(t, stderrors.As(err, &exc))
	assert.Equal(t, host.SystemError, exc.Class())
}
