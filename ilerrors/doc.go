// Package ilerrors provides structured error types for the deobfuscation
// pipeline.
//
// Errors are categorized by Phase (which pipeline component raised them) and
// Kind (the category of failure). The Error type carries a field path, an
// optional underlying cause, and a human-readable detail.
//
// Use the Builder for structured construction:
//
//	err := ilerrors.New(ilerrors.PhaseAnalyze, ilerrors.KindOutOfBounds).
//		Path("DecoderType", "get_42").
//		Detail("offset 59999 + length 10 exceeds payload length 60000").
//		Build()
//
// Or use the convenience constructors for common patterns:
//
//	err := ilerrors.OutOfBounds(typeName, methodName, offset, length, len(payload))
//	err := ilerrors.InvalidUTF8(typeName, methodName, decoded)
//
// All errors implement the standard error interface and support errors.Is.
package ilerrors
