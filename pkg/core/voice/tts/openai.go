package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const openaiBaseURL = "https://api.openai.com/v1"

// OpenAIProvider implements the TTS Provider interface using OpenAI's
// audio speech API.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAI creates a new OpenAI TTS provider.
func NewOpenAI(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:     apiKey,
		baseURL:    openaiBaseURL,
		httpClient: &http.Client{},
	}
}

// NewOpenAIWithClient creates a new OpenAI TTS provider with a custom HTTP
// client and base URL. An empty baseURL keeps the default endpoint.
func NewOpenAIWithClient(apiKey, baseURL string, client *http.Client) *OpenAIProvider {
	p := NewOpenAI(apiKey)
	if baseURL != "" {
		p.baseURL = baseURL
	}
	if client != nil {
		p.httpClient = client
	}
	return p
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

type openaiSpeechRequest struct {
	Model          string  `json:"model"`
	Voice          string  `json:"voice"`
	Input          string  `json:"input"`
	Speed          float64 `json:"speed,omitempty"`
	ResponseFormat string  `json:"response_format,omitempty"`
}

// Synthesize converts text to audio via /v1/audio/speech.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string, opts SynthesizeOptions) (*Synthesis, error) {
	if text == "" {
		return nil, fmt.Errorf("empty input text")
	}

	model := opts.Model
	if model == "" {
		model = "tts-1"
	}
	voice := opts.Voice
	if voice == "" {
		voice = "alloy"
	}
	format := opts.Format
	if format == "" {
		format = "mp3"
	}

	body, err := json.Marshal(openaiSpeechRequest{
		Model:          model,
		Voice:          voice,
		Input:          text,
		Speed:          opts.Speed,
		ResponseFormat: format,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai error %d: %s", resp.StatusCode, string(errBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return &Synthesis{Audio: audio, Format: format}, nil
}
