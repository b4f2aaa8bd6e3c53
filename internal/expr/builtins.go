package expr

import (
	"github.com/wippyai/imath-bind/host"
)

func builtins() map[string]host.Value {
	fns := []*host.Function{
		host.NewFunction("builtins", "len", "len(obj) -> int", func(c *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(c, "len", args, 1); err != nil {
				return nil, err
			}
			n, err := c.Len(args[0])
			return int64(n), err
		}),
		host.NewFunction("builtins", "repr", "repr(obj) -> str", func(c *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(c, "repr", args, 1); err != nil {
				return nil, err
			}
			return c.Repr(args[0]), nil
		}),
		host.NewFunction("builtins", "str", "str(obj) -> str", func(c *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(c, "str", args, 1); err != nil {
				return nil, err
			}
			return c.Str(args[0]), nil
		}),
		host.NewFunction("builtins", "abs", "abs(x)", func(c *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(c, "abs", args, 1); err != nil {
				return nil, err
			}
			return c.Unary(host.OpAbs, args[0])
		}),
		host.NewFunction("builtins", "list", "list(iterable) -> list", func(c *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(c, "list", args, 1); err != nil {
				return nil, err
			}
			items, err := c.Sequence(args[0])
			if err != nil {
				return nil, err
			}
			return host.NewList(items...), nil
		}),
		host.NewFunction("builtins", "tuple", "tuple(iterable) -> tuple", func(c *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(c, "tuple", args, 1); err != nil {
				return nil, err
			}
			items, err := c.Sequence(args[0])
			if err != nil {
				return nil, err
			}
			return host.Tuple(items), nil
		}),
		host.NewFunction("builtins", "isinstance", "isinstance(obj, cls) -> bool", func(c *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(c, "isinstance", args, 2); err != nil {
				return nil, err
			}
			cls, ok := args[1].(*host.Class)
			if !ok {
				return nil, c.Raise(host.TypeError, "isinstance() arg 2 must be a type")
			}
			return host.IsInstance(args[0], cls), nil
		}),
		host.NewFunction("builtins", "type", "type(obj) -> class", func(c *host.Call, args []host.Value) (host.Value, error) {
			if err := arity(c, "type", args, 1); err != nil {
				return nil, err
			}
			return host.ClassOf(args[0]), nil
		}),
	}

	out := make(map[string]host.Value, len(fns)+len(exceptions))
	for _, fn := range fns {
		out[fn.Name] = fn
	}
	for _, cls := range exceptions {
		out[cls.Name] = cls
	}
	return out
}

var exceptions = []*host.Class{
	host.ExceptionClass,
	host.ArithmeticError,
	host.ZeroDivisionError,
	host.IndexError,
	host.TypeError,
	host.ValueError,
	host.AttributeError,
	host.NameError,
	host.RuntimeError,
}

func arity(c *host.Call, name string, args []host.Value, n int) error {
	if len(args) != n {
		return c.Raise(host.TypeError, "%s() takes exactly %d argument(s) (%d given)", name, n, len(args))
	}
	return nil
}
