// Package core defines the tutoring pipeline's canonical error taxonomy and
// the reasoning provider contract.
package core

import (
	"fmt"
)

// ErrorType categorizes pipeline failures per the partial-failure policy.
type ErrorType string

const (
	// ErrNoUsableInput: neither a transcript nor an image was available.
	// Client-caused; not retryable without new input.
	ErrNoUsableInput ErrorType = "no_usable_input"

	// ErrTranscriptionUnavailable: the speech-to-text dependency failed.
	// Recovered locally; the turn continues without a transcript.
	ErrTranscriptionUnavailable ErrorType = "transcription_unavailable"

	// ErrGenerationFailed: the reasoning dependency failed on the mandatory
	// path. Fatal to the turn, surfaced to the caller.
	ErrGenerationFailed ErrorType = "generation_failed"

	// ErrSynthesisUnavailable: the text-to-speech dependency failed.
	// Recovered locally; the turn still succeeds without audio.
	ErrSynthesisUnavailable ErrorType = "synthesis_unavailable"

	// ErrMalformedMessage: a transport-level parse failure. Reported back
	// over the same channel; the channel stays open.
	ErrMalformedMessage ErrorType = "malformed_message"
)

// Error is the canonical pipeline error.
type Error struct {
	Type          ErrorType `json:"type"`
	Message       string    `json:"message"`
	Param         string    `json:"param,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	ProviderError any       `json:"provider_error,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error wrapping.
func (e *Error) Unwrap() error {
	if ue, ok := e.ProviderError.(error); ok {
		return ue
	}
	return nil
}

// Fatal reports whether the error aborts the turn rather than degrading it.
func (e *Error) Fatal() bool {
	switch e.Type {
	case ErrNoUsableInput, ErrGenerationFailed:
		return true
	default:
		return false
	}
}

// NewNoUsableInputError creates a no-usable-input error.
func NewNoUsableInputError() *Error {
	return &Error{
		Type:    ErrNoUsableInput,
		Message: "no valid input provided",
	}
}

// NewTranscriptionUnavailableError wraps a speech-to-text failure.
func NewTranscriptionUnavailableError(underlying error) *Error {
	return &Error{
		Type:          ErrTranscriptionUnavailable,
		Message:       fmt.Sprintf("transcription unavailable: %v", underlying),
		ProviderError: underlying,
	}
}

// NewGenerationFailedError wraps a reasoning failure.
func NewGenerationFailedError(underlying error) *Error {
	return &Error{
		Type:          ErrGenerationFailed,
		Message:       fmt.Sprintf("generation failed: %v", underlying),
		ProviderError: underlying,
	}
}

// NewSynthesisUnavailableError wraps a text-to-speech failure.
func NewSynthesisUnavailableError(underlying error) *Error {
	return &Error{
		Type:          ErrSynthesisUnavailable,
		Message:       fmt.Sprintf("speech synthesis unavailable: %v", underlying),
		ProviderError: underlying,
	}
}

// NewMalformedMessageError creates a transport parse error.
func NewMalformedMessageError(message string) *Error {
	return &Error{
		Type:    ErrMalformedMessage,
		Message: message,
	}
}
