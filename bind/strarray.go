package bind

import (
	"iter"
	"strings"

	"github.com/wippyai/imath-bind/array"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/strtab"
)

// bindStringArray binds an array of pooled strings. Equal strings share
// one table entry; comparisons return IntArray masks.
func bindStringArray(opts *options) *Type[*strtab.Array] {
	const name = "StringArray"
	t := newType[*strtab.Array](name, name+" is a fixed-length array of strings", nil)

	construct := func(c *host.Call, args []host.Value) (*strtab.Array, error) {
		switch len(args) {
		case 1:
			if _, isBool := args[0].(bool); !isBool {
				if n, ok := host.AsInt(args[0]); ok {
					return strtab.New(int(n))
				}
			}
			if a, ok := t.Unwrap(args[0]); ok {
				return strtab.FromStrings(a.Strings()), nil
			}
			if xs, ok := items(args[0]); ok {
				ss := make([]string, len(xs))
				for i, x := range xs {
					s, err := toString(name, x)
					if err != nil {
						return nil, err
					}
					ss[i] = s
				}
				return strtab.FromStrings(ss), nil
			}
		case 2:
			s, err := toString(name+".value", args[0])
			if err != nil {
				return nil, err
			}
			n, err := toInt(name+".length", args[1])
			if err != nil {
				return nil, err
			}
			return strtab.Filled(n, s)
		}
		return nil, badInit(name, args)
	}
	t.init(func(c *host.Call, args []host.Value) (*strtab.Array, error) {
		a, err := construct(c, args)
		if err != nil {
			return nil, err
		}
		a.SetPool(opts.pool)
		return a, nil
	})

	render := func(c *host.Call, self host.Value) string {
		a, ok := t.Unwrap(self)
		if !ok {
			return name + "()"
		}
		var b strings.Builder
		b.WriteString(name + "([")
		i := 0
		for s := range a.Values() {
			if opts.reprLimit > 0 && i >= opts.reprLimit {
				b.WriteString(", ...")
				break
			}
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Repr(s))
			i++
		}
		b.WriteString("])")
		return b.String()
	}
	t.Class.Slots.Repr = render
	t.Class.Slots.Str = render

	t.Class.Slots.Len = func(_ *host.Call, self host.Value) (int, error) {
		a, err := t.receiver("__len__", self)
		if err != nil {
			return 0, err
		}
		return a.Len(), nil
	}
	t.Class.Slots.GetItem = func(c *host.Call, self, key host.Value) (host.Value, error) {
		a, err := t.receiver("__getitem__", self)
		if err != nil {
			return nil, err
		}
		if s, ok := key.(*host.Slice); ok {
			r, err := c.SliceRange(s, a.Len())
			if err != nil {
				return nil, err
			}
			return t.Wrap(a.Range(r)), nil
		}
		i, err := c.Index(name, key, a.Len())
		if err != nil {
			return nil, err
		}
		s, err := a.Get(i)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	t.Class.Slots.SetItem = func(c *host.Call, self, key, v host.Value) error {
		a, err := t.receiver("__setitem__", self)
		if err != nil {
			return err
		}
		if s, ok := key.(*host.Slice); ok {
			r, err := c.SliceRange(s, a.Len())
			if err != nil {
				return err
			}
			if src, ok := t.Unwrap(v); ok {
				return a.SetRange(r, src)
			}
			str, err := toString(name+"[slice]", v)
			if err != nil {
				return err
			}
			a.FillRange(r, str)
			return nil
		}
		i, err := c.Index(name, key, a.Len())
		if err != nil {
			return err
		}
		str, err := toString(name+"[]", v)
		if err != nil {
			return err
		}
		return a.Set(i, str)
	}
	t.Class.Slots.Iter = func(_ *host.Call, self host.Value) (iter.Seq[host.Value], error) {
		a, err := t.receiver("__iter__", self)
		if err != nil {
			return nil, err
		}
		return func(yield func(host.Value) bool) {
			for s := range a.Values() {
				if !yield(s) {
					return
				}
			}
		}, nil
	}

	compare := func(cmp array.Cmp) rule[*strtab.Array] {
		return func(_ *host.Call, a *strtab.Array, other host.Value) (host.Value, bool, error) {
			var (
				m   *array.FixedArray[array.Mask]
				err error
			)
			switch o := other.(type) {
			case string:
				m, err = a.CompareElem(cmp, o)
			default:
				b, ok := t.Unwrap(other)
				if !ok {
					return nil, false, nil
				}
				m, err = a.Compare(cmp, b)
			}
			if err != nil {
				return nil, true, err
			}
			return opts.mask.Wrap(m), true, nil
		}
	}
	t.binary(host.OpEq, compare(array.CmpEq))
	t.binary(host.OpNe, compare(array.CmpNe))
	return t
}
