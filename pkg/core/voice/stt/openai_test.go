package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenAI_ConstructorsAndName(t *testing.T) {
	client := &http.Client{}
	p := NewOpenAIWithClient("api-key", "http://example.invalid/v1", client)
	if p.httpClient != client {
		t.Fatal("expected custom http client to be set")
	}
	if p.baseURL != "http://example.invalid/v1" {
		t.Fatalf("baseURL = %q", p.baseURL)
	}
	if p.Name() != "openai" {
		t.Fatalf("name = %q, want openai", p.Name())
	}

	defaultProvider := NewOpenAI("api-key")
	if defaultProvider.httpClient == nil {
		t.Fatal("default provider should initialize http client")
	}
	if defaultProvider.baseURL != openaiBaseURL {
		t.Fatalf("baseURL = %q, want default", defaultProvider.baseURL)
	}
}

func TestTranscribe_SendsMultipartAndParsesText(t *testing.T) {
	var gotAuth, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Fatalf("form file: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"solve for x","duration":2.1}`))
	}))
	defer srv.Close()

	p := NewOpenAIWithClient("sk-test", srv.URL, srv.Client())
	got, err := p.Transcribe(context.Background(), strings.NewReader("fake-audio"), TranscribeOptions{})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got.Text != "solve for x" {
		t.Fatalf("text = %q", got.Text)
	}
	if got.Duration != 2.1 {
		t.Fatalf("duration = %v", got.Duration)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotModel != "whisper-1" {
		t.Fatalf("model = %q, want whisper-1", gotModel)
	}
}

func TestTranscribe_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenAIWithClient("sk-test", srv.URL, srv.Client())
	_, err := p.Transcribe(context.Background(), strings.NewReader("fake-audio"), TranscribeOptions{})
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error should carry status: %v", err)
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"wav", "wav"},
		{"mp3", "mp3"},
		{"pcm", "webm"},
		{"", "webm"},
	}
	for _, tc := range tests {
		if got := extensionFor(tc.format); got != tc.want {
			t.Fatalf("extensionFor(%q) = %q, want %q", tc.format, got, tc.want)
		}
	}
}
