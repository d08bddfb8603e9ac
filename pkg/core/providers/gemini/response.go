package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkwise/tutorgate/pkg/core/types"
)

// geminiResponse is the Gemini API response format.
type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata *geminiUsage      `json:"usageMetadata,omitempty"`
	ModelVersion  string            `json:"modelVersion,omitempty"`
}

// geminiCandidate represents a single candidate response.
type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
	Index        int           `json:"index"`
}

// geminiUsage contains token usage information.
type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// parseResponse parses a Gemini response into a core response.
func (p *Provider) parseResponse(body []byte, model string) (*types.GenerateResponse, error) {
	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := geminiResp.Candidates[0]

	// Concatenate text parts. Non-text parts are ignored.
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}

	resp := &types.GenerateResponse{
		Text:  sb.String(),
		Model: model,
	}
	if geminiResp.UsageMetadata != nil {
		resp.InputTokens = geminiResp.UsageMetadata.PromptTokenCount
		resp.OutputTokens = geminiResp.UsageMetadata.CandidatesTokenCount
	}

	return resp, nil
}
