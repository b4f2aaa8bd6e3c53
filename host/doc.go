// Package host is the dynamically typed object runtime that native types are
// exposed to.
//
// The host understands a small set of primitive values (nil for None, bool,
// int64, float64, string, Tuple, *List, *Slice) plus Objects whose behaviour is
// described by a *Class: a constructor, attributes, operator tables and
// sequence slots. Classes are grouped into Modules and installed into a
// Runtime.
//
// Every entry point on Runtime is a boundary crossing. It runs inside a pooled
// *Call that passes through the middleware chain, and any error produced by
// native code is translated into a *Exception before it is returned:
//
//	rt := host.New(host.WithLogger(logger), host.WithTranslator(registry))
//	if err := rt.Install(module); err != nil {
//		return err
//	}
//	v, err := rt.Call(ctx, cls, int64(1), int64(2), int64(3))
//
// Operators follow the host's reflected-operand protocol: the left operand's
// class is asked first, a NotImplemented answer hands the operation to the
// right operand's reflected table, and when both decline the call fails with
// a TypeError naming both operand types.
package host
