// Package tts provides text-to-speech functionality.
package tts

import "context"

// Provider is the interface for text-to-speech services.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Synthesize converts text to audio.
	Synthesize(ctx context.Context, text string, opts SynthesizeOptions) (*Synthesis, error)
}

// SynthesizeOptions configures synthesis.
type SynthesizeOptions struct {
	Model  string  // Provider-specific model (default: "tts-1")
	Voice  string  // Voice identifier (default: "alloy")
	Speed  float64 // Speed multiplier, optional
	Format string  // Output format: "mp3", "wav", "opus", ...
}

// Synthesis is the result of synthesis.
type Synthesis struct {
	Audio  []byte // Audio data
	Format string // Audio format of the payload
}
