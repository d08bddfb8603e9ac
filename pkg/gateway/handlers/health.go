package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/inkwise/tutorgate/pkg/gateway/config"
)

type HealthHandler struct{}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type ReadyHandler struct {
	Config config.Config
}

func (h ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type readyResp struct {
		OK          bool     `json:"ok"`
		Model       string   `json:"model"`
		CORSEnabled bool     `json:"cors_enabled"`
		Issues      []string `json:"issues,omitempty"`
	}

	issues := make([]string, 0, 4)

	if h.Config.GoogleAPIKey == "" {
		issues = append(issues, "GOOGLE_API_KEY is not configured")
	}
	if h.Config.OpenAIAPIKey == "" {
		issues = append(issues, "OPENAI_API_KEY is not configured")
	}
	if h.Config.MaxBodyBytes <= 0 {
		issues = append(issues, "max_body_bytes must be > 0")
	}
	if h.Config.MaxOutputTokens <= 0 {
		issues = append(issues, "max_output_tokens must be > 0")
	}
	if h.Config.TranscribeTimeout <= 0 || h.Config.GenerateTimeout <= 0 || h.Config.SynthesizeTimeout <= 0 {
		issues = append(issues, "adapter timeouts must be > 0")
	}
	if h.Config.ReadHeaderTimeout <= 0 || h.Config.ReadTimeout <= 0 {
		issues = append(issues, "server timeouts must be > 0")
	}

	ok := len(issues) == 0
	status := http.StatusOK
	if !ok {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(readyResp{
		OK:          ok,
		Model:       h.Config.GenerativeModel,
		CORSEnabled: len(h.Config.CORSAllowedOrigins) > 0,
		Issues:      issues,
	})
}
