package ilerrors

import (
	"errors"
	"strings"
	"testing"
)

func containsSubstring(s, substr string) bool {
	return strings.Contains(s, substr)
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseAnalyze,
				Kind:   KindOutOfBounds,
				Path:   []string{"DecoderType", "get_42"},
				Detail: "offset 5 + length 10 exceeds payload length 12",
			},
			contains: []string{"[analyze]", "out_of_bounds", "DecoderType.get_42", "exceeds payload length 12"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLoad,
				Kind:  KindNotFound,
			},
			contains: []string{"[load]", "not_found"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseWrite,
				Kind:   KindWriteFailed,
				Detail: "disk full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[write]", "write_failed", "disk full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Phase: PhaseExtract, Kind: KindExtractionFailed, Cause: cause}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{Phase: PhaseAnalyze, Kind: KindPatternMismatch, Path: []string{"foo"}}

	if !err.Is(&Error{Phase: PhaseAnalyze, Kind: KindPatternMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseLoad, Kind: KindPatternMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseAnalyze, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseAnalyze, Kind: KindPatternMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseAnalyze, KindPatternMismatch).
		Path("DecoderType", "get_1").
		Cause(cause).
		Detail("expected %d preceding int loads, found %d", 3, 1).
		Build()

	if err.Phase != PhaseAnalyze {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseAnalyze)
	}
	if err.Kind != KindPatternMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindPatternMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "DecoderType" || err.Path[1] != "get_1" {
		t.Errorf("Path = %v, want [DecoderType get_1]", err.Path)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected 3 preceding int loads, found 1" {
		t.Errorf("Detail = %v, want 'expected 3 preceding int loads, found 1'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound("missing.exe")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds("DecoderType", "get_B", 59999, 10, 60000)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if !containsSubstring(err.Detail, "60000") {
			t.Errorf("Detail = %v, should contain payload length", err.Detail)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		err := InvalidUTF8("DecoderType", "get_C", []byte{0xff, 0xfe})
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
	})

	t.Run("MalformedRecord", func(t *testing.T) {
		err := MalformedRecord(3, "X,,,oops,4", errors.New("bad int"))
		if err.Kind != KindMalformedRecord {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMalformedRecord)
		}
	})

	t.Run("WriteFailed", func(t *testing.T) {
		err := WriteFailed("out.exe", errors.New("disk full"))
		if err.Kind != KindWriteFailed {
			t.Errorf("Kind = %v, want %v", err.Kind, KindWriteFailed)
		}
	})
}
