package bind

import (
	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/excreg"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/iex"
)

// IexModuleName is the host module the iex exception classes live in.
const IexModuleName = iex.LibraryIex

// NewIexModule builds the iex module from the classes reg mirrored into it,
// plus the functions the binding tests use to cross the boundary.
func NewIexModule(reg *excreg.Registry) (*host.Module, error) {
	b := &builder{m: host.NewModule(IexModuleName, "Exception classes of the iex library")}
	for _, cls := range reg.Classes(IexModuleName) {
		b.class(cls)
	}

	b.fn("testCxxExceptions", "testCxxExceptions(i) raises a native exception chosen by i", func(_ *host.Call, args []host.Value) (host.Value, error) {
		if err := arity("testCxxExceptions", args, 1, 1); err != nil {
			return nil, err
		}
		i, err := toInt("testCxxExceptions", args[0])
		if err != nil {
			return nil, err
		}
		switch i {
		case 1:
			panic(1)
		case 2:
			return nil, errors.InvalidValue(errors.PhaseCall, "2")
		case 3:
			return nil, iex.BaseExc.New("3")
		case 4:
			return nil, iex.ArgExc.New("4")
		}
		return nil, nil
	})

	excString := func(fname string, want *iex.Class) host.Func {
		return func(_ *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(fname, args, 1, 1); err != nil {
				return nil, err
			}
			exc, ok := args[0].(*host.Exception)
			if !ok {
				return nil, kindError(fname, want.Name(), args[0])
			}
			native, err := reg.TranslateHostToNative(exc)
			if err != nil {
				return nil, err
			}
			if !native.Class().IsA(want) {
				return nil, kindError(fname, want.Name(), args[0])
			}
			return native.Error(), nil
		}
	}
	b.fn("testBaseExcString", "testBaseExcString(exc) message of a BaseExc seen from native code", excString("testBaseExcString", iex.BaseExc))
	b.fn("testArgExcString", "testArgExcString(exc) message of an ArgExc seen from native code", excString("testArgExcString", iex.ArgExc))

	makeExc := func(fname string, native *iex.Class) host.Func {
		return func(_ *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(fname, args, 1, 1); err != nil {
				return nil, err
			}
			msg, err := toString(fname, args[0])
			if err != nil {
				return nil, err
			}
			exc, err := reg.TranslateNativeToHost(native.New(msg))
			if err != nil {
				return nil, err
			}
			return exc, nil
		}
	}
	b.fn("testMakeBaseExc", "testMakeBaseExc(msg) BaseExc built in native code", makeExc("testMakeBaseExc", iex.BaseExc))
	b.fn("testMakeArgExc", "testMakeArgExc(msg) ArgExc built in native code", makeExc("testMakeArgExc", iex.ArgExc))

	return b.done()
}
