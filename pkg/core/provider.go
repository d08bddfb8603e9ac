package core

import (
	"context"

	"github.com/inkwise/tutorgate/pkg/core/types"
)

// Provider is the generative reasoning contract. Implementations wrap one
// external language-model API; GenerateContent must honor ctx cancellation
// and deadlines.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// GenerateContent sends an ordered list of content parts and returns the
	// model's free-text reply.
	GenerateContent(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error)
}
