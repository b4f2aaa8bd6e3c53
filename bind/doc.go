// Package bind exposes the imath value types, their fixed arrays and the iex
// exception hierarchy to the host runtime.
//
// Every native type is bound through Type, which owns the host class and
// knows how to move values across the boundary: Wrap copies a native value
// into a new host instance, Accept and Convert copy it back out. Operators
// are registered as ordered rule lists per operator; the first rule that
// accepts the other operand wins and an operand no rule accepts yields
// host.NotImplemented, so the host can try the reflected form before it
// raises TypeError.
//
// NewIexModule and NewImathModule build the two host modules. Classes are
// created per module value and frozen with it.
package bind
