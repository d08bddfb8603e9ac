// Package apierror maps pipeline errors to HTTP statuses and the stateless
// endpoint's failure body.
package apierror

import (
	"context"
	"errors"
	"net/http"

	"github.com/inkwise/tutorgate/pkg/core"
	"github.com/inkwise/tutorgate/pkg/core/providers/gemini"
)

// Envelope is the failure body of the stateless turn endpoint. It mirrors the
// success shape with success=false and the error message set.
type Envelope struct {
	OK    bool   `json:"success"`
	Error string `json:"error"`
}

func FromError(err error, requestID string) (*core.Error, int) {
	if err == nil {
		return nil, http.StatusOK
	}

	// Context timeouts/cancellation.
	if errors.Is(err, context.DeadlineExceeded) {
		return &core.Error{
			Type:      core.ErrGenerationFailed,
			Message:   "request timeout",
			RequestID: requestID,
		}, http.StatusGatewayTimeout
	}
	if errors.Is(err, context.Canceled) {
		return &core.Error{
			Type:      core.ErrGenerationFailed,
			Message:   "request cancelled",
			RequestID: requestID,
		}, http.StatusRequestTimeout
	}

	// Already canonical. Retryable upstream conditions (rate limits,
	// overload) surface as 503 so clients know to back off and retry.
	var coreErr *core.Error
	if errors.As(err, &coreErr) && coreErr != nil {
		out := *coreErr
		out.RequestID = requestID
		status := statusFromType(coreErr.Type)
		if status == http.StatusBadGateway && isRetryableUpstream(err) {
			status = http.StatusServiceUnavailable
		}
		return &out, status
	}

	// Bare provider errors (normally wrapped by the orchestrator).
	var geminiErr *gemini.Error
	if errors.As(err, &geminiErr) && geminiErr != nil {
		status := http.StatusBadGateway
		if geminiErr.IsRetryable() {
			status = http.StatusServiceUnavailable
		}
		return &core.Error{
			Type:          core.ErrGenerationFailed,
			Message:       geminiErr.Message,
			RequestID:     requestID,
			ProviderError: geminiErr.ProviderError,
		}, status
	}

	// Unknown errors: treat as internal (do not leak details by default).
	return &core.Error{
		Type:      core.ErrGenerationFailed,
		Message:   "internal error",
		RequestID: requestID,
	}, http.StatusInternalServerError
}

// isRetryableUpstream reports whether err wraps a provider error the caller
// could reasonably retry.
func isRetryableUpstream(err error) bool {
	var geminiErr *gemini.Error
	return errors.As(err, &geminiErr) && geminiErr.IsRetryable()
}

func statusFromType(t core.ErrorType) int {
	switch t {
	case core.ErrNoUsableInput, core.ErrMalformedMessage:
		return http.StatusBadRequest
	case core.ErrGenerationFailed:
		return http.StatusBadGateway
	case core.ErrTranscriptionUnavailable, core.ErrSynthesisUnavailable:
		// Recovered paths; only reachable if a caller surfaces them directly.
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
