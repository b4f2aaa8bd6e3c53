package host

import (
	"math"
	"strconv"
	"strings"
)

// Repr renders v the way the host's repr() does.
func (c *Call) Repr(v Value) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return FormatFloat(x)
	case string:
		return quote(x)
	case Tuple:
		if len(x) == 1 {
			return "(" + c.Repr(x[0]) + ",)"
		}
		return "(" + c.join(x) + ")"
	case *List:
		return "[" + c.join(x.Items) + "]"
	case *Slice:
		return "slice(" + c.Repr(x.Start) + ", " + c.Repr(x.Stop) + ", " + c.Repr(x.Step) + ")"
	case *Class:
		return "<class '" + x.QualName() + "'>"
	case *Function:
		return "<built-in function " + x.Name + ">"
	case *BoundMethod:
		return "<bound method " + TypeName(x.Self) + "." + x.Name + " of " + c.Repr(x.Self) + ">"
	case *Module:
		return "<module '" + x.Name + "'>"
	}
	cls := ClassOf(v)
	if s := cls.slots(); s.Repr != nil {
		return s.Repr(c, v)
	}
	return "<" + cls.QualName() + " object>"
}

// Str renders v the way the host's str() does.
func (c *Call) Str(v Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	if _, ok := v.(Object); ok {
		if s := ClassOf(v).slots(); s.Str != nil {
			return s.Str(c, v)
		}
	}
	return c.Repr(v)
}

func (c *Call) join(items []Value) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = c.Repr(it)
	}
	return strings.Join(parts, ", ")
}

// FormatFloat renders a float the way the host prints it: integral values
// keep a trailing ".0".
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', -1, 64) + ".0"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
