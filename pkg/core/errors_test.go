package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFatal(t *testing.T) {
	cases := []struct {
		err   *Error
		fatal bool
	}{
		{NewNoUsableInputError(), true},
		{NewGenerationFailedError(errors.New("quota")), true},
		{NewTranscriptionUnavailableError(errors.New("timeout")), false},
		{NewSynthesisUnavailableError(errors.New("502")), false},
		{NewMalformedMessageError("bad json"), false},
	}
	for _, tc := range cases {
		if got := tc.err.Fatal(); got != tc.fatal {
			t.Errorf("%s: Fatal()=%v, want %v", tc.err.Type, got, tc.fatal)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	wrapped := NewGenerationFailedError(underlying)

	if !errors.Is(wrapped, underlying) {
		t.Fatalf("errors.Is should find the underlying error")
	}

	var coreErr *Error
	if !errors.As(fmt.Errorf("turn: %w", wrapped), &coreErr) {
		t.Fatalf("errors.As should find *Error through wrapping")
	}
	if coreErr.Type != ErrGenerationFailed {
		t.Fatalf("type=%s, want %s", coreErr.Type, ErrGenerationFailed)
	}
}
