package ilerrors

import (
	"fmt"
	"strings"
)

// Phase indicates which pipeline component raised the error.
type Phase string

const (
	PhaseLoad    Phase = "load"    // Module Facade: reading the input module
	PhaseLocate  Phase = "locate"  // Decoder Locator
	PhaseExtract Phase = "extract" // Payload Extractor
	PhaseDecrypt Phase = "decrypt" // Payload Decryptor
	PhaseAnalyze Phase = "analyze" // Accessor Analyzer
	PhaseRewrite Phase = "rewrite" // Call-site Rewriter
	PhaseVerify  Phase = "verify"  // Verifier
	PhaseWrite   Phase = "write"   // Module Facade: writing the output module
)

// Kind categorizes the error.
type Kind string

const (
	KindNotFound         Kind = "not_found"         // input file missing
	KindLoadFailed       Kind = "load_failed"       // module failed to decode
	KindExtractionFailed Kind = "extraction_failed" // payload bytes unreachable
	KindPatternMismatch  Kind = "pattern_mismatch"  // accessor body doesn't match the expected shape
	KindOutOfBounds      Kind = "out_of_bounds"     // offset+length exceeds payload
	KindInvalidUTF8      Kind = "invalid_utf8"      // decoded slice isn't valid UTF-8
	KindMalformedRecord  Kind = "malformed_record"  // lookup-table record couldn't be parsed
	KindWriteFailed      Kind = "write_failed"      // module failed to encode/write
)

// Error is the structured error type used throughout the pipeline.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error's phase and kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder for the given phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

// Path sets the field path (e.g. type name, method name).
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(format string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(format, args...)
	} else {
		b.err.Detail = format
	}
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the common per-accessor / per-record failures
// enumerated in the error handling design.

// NotFound creates an input-not-found error.
func NotFound(path string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("input file %q not found", path),
	}
}

// LoadFailed wraps an underlying decode failure.
func LoadFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindLoadFailed,
		Detail: "failed to decode module",
		Cause:  cause,
	}
}

// ExtractionFailed reports that the decoder's payload bytes could not be
// reached from metadata.
func ExtractionFailed(typeName string, cause error) *Error {
	return &Error{
		Phase:  PhaseExtract,
		Kind:   KindExtractionFailed,
		Path:   []string{typeName},
		Detail: "payload field initial bytes are unreachable",
		Cause:  cause,
	}
}

// PatternMismatch reports that an accessor's instruction stream didn't match
// the three-integer-constants-before-call shape.
func PatternMismatch(typeName, methodName, detail string) *Error {
	return &Error{
		Phase:  PhaseAnalyze,
		Kind:   KindPatternMismatch,
		Path:   []string{typeName, methodName},
		Detail: detail,
	}
}

// OutOfBounds reports an (offset, length) pair that overruns the payload.
func OutOfBounds(typeName, methodName string, offset, length, payloadLen int) *Error {
	return &Error{
		Phase: PhaseAnalyze,
		Kind:  KindOutOfBounds,
		Path:  []string{typeName, methodName},
		Detail: fmt.Sprintf(
			"offset %d + length %d = %d exceeds payload length %d",
			offset, length, offset+length, payloadLen,
		),
	}
}

// InvalidUTF8 reports that the decoded byte slice was not valid UTF-8.
func InvalidUTF8(typeName, methodName string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseAnalyze,
		Kind:   KindInvalidUTF8,
		Path:   []string{typeName, methodName},
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// MalformedRecord reports a lookup-table row that couldn't be parsed.
func MalformedRecord(line int, raw string, cause error) *Error {
	return &Error{
		Phase:  PhaseAnalyze,
		Kind:   KindMalformedRecord,
		Path:   []string{fmt.Sprintf("line %d", line)},
		Detail: fmt.Sprintf("malformed lookup-table record %q", raw),
		Cause:  cause,
	}
}

// WriteFailed wraps an underlying encode/write failure.
func WriteFailed(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindWriteFailed,
		Detail: fmt.Sprintf("failed to write module to %q", path),
		Cause:  cause,
	}
}
