// Package gemini implements the Google Gemini generateContent provider.
// It translates the core content parts into Gemini's camelCase wire format.
package gemini

import (
	"context"
	"net/http"

	"github.com/inkwise/tutorgate/pkg/core/types"
)

const (
	// DefaultBaseURL is the default Gemini API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is used when the request does not name a model.
	DefaultModel = "gemini-1.5-flash"

	// DefaultMaxTokens is the default max output tokens if not specified.
	DefaultMaxTokens = 2048
)

// Provider implements the Google Gemini API.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a new Gemini provider.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "gemini"
}

// GenerateContent sends a non-streaming request to Gemini.
func (p *Provider) GenerateContent(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	geminiReq := p.buildRequest(req)

	respBody, err := p.doRequest(ctx, model, geminiReq)
	if err != nil {
		return nil, err
	}

	return p.parseResponse(respBody, model)
}
