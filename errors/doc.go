// Package errors provides structured error types for memlayout.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: schema name, field path, declared type, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseWrite, errors.KindOutOfRange).
//		Schema("Rect").
//		Path("a", "x").
//		Type("uint16").
//		Detail("value 70000 is not representable as uint16").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Encoding(path, 6, 5)
//	err := errors.BufferTooSmall("Rect", 4, 8)
//
// Every Kind has an exported sentinel that matches with errors.Is
// regardless of phase:
//
//	if errors.Is(err, memerrors.ErrDetachedBuffer) { ... }
package errors
