package gemini

import (
	"github.com/inkwise/tutorgate/pkg/core/types"
)

// geminiRequest is the Gemini API request format.
// Note: Gemini API uses camelCase for JSON field names.
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

// geminiContent represents a content object in Gemini format.
type geminiContent struct {
	Role  string       `json:"role,omitempty"` // "user" or "model"
	Parts []geminiPart `json:"parts"`
}

// geminiPart represents a single part within content.
type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inlineData,omitempty"`
}

// geminiBlob represents inline binary data.
type geminiBlob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

// geminiGenConfig contains generation configuration.
type geminiGenConfig struct {
	MaxOutputTokens *int `json:"maxOutputTokens,omitempty"`
}

// buildRequest converts a core request to a Gemini request.
// All parts go into a single user content, matching the prompt
// layout the orchestrator assembles.
func (p *Provider) buildRequest(req *types.GenerateRequest) *geminiRequest {
	parts := make([]geminiPart, 0, len(req.Parts))
	for _, part := range req.Parts {
		switch pt := part.(type) {
		case types.TextPart:
			parts = append(parts, geminiPart{Text: pt.Text})
		case types.InlinePart:
			parts = append(parts, geminiPart{
				InlineData: &geminiBlob{
					MIMEType: pt.MIMEType,
					Data:     pt.Data,
				},
			})
		}
	}

	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: parts},
		},
		GenerationConfig: &geminiGenConfig{
			MaxOutputTokens: &maxTokens,
		},
	}
}
