// Package errors provides structured error types for the binding layer.
//
// Errors are categorized by Phase (where in a boundary crossing the error
// occurred) and Kind (error category). The host runtime maps each Kind onto a
// builtin host exception class when the error crosses back to host code.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
//		Path("V3i", "x").
//		GoType("int").
//		HostType("float").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseIndex, path, 10, 5)
//	err := errors.UnsupportedOperands("+", "V3i", "V3f")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
