package turn

import (
	"bytes"
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/inkwise/tutorgate/pkg/core"
	"github.com/inkwise/tutorgate/pkg/core/history"
	"github.com/inkwise/tutorgate/pkg/core/types"
	"github.com/inkwise/tutorgate/pkg/core/voice/stt"
	"github.com/inkwise/tutorgate/pkg/core/voice/tts"
)

// Config parameterizes the pipeline. Zero values fall back to the defaults
// below.
type Config struct {
	SystemPrompt    string
	Model           string
	MaxOutputTokens int

	STTModel string
	TTSModel string
	TTSVoice string

	TranscribeTimeout time.Duration
	GenerateTimeout   time.Duration
	SynthesizeTimeout time.Duration
}

const (
	defaultTranscribeTimeout = 30 * time.Second
	defaultGenerateTimeout   = 60 * time.Second
	defaultSynthesizeTimeout = 30 * time.Second
)

func (c *Config) withDefaults() Config {
	out := *c
	if out.SystemPrompt == "" {
		out.SystemPrompt = DefaultSystemPrompt
	}
	if out.TranscribeTimeout <= 0 {
		out.TranscribeTimeout = defaultTranscribeTimeout
	}
	if out.GenerateTimeout <= 0 {
		out.GenerateTimeout = defaultGenerateTimeout
	}
	if out.SynthesizeTimeout <= 0 {
		out.SynthesizeTimeout = defaultSynthesizeTimeout
	}
	return out
}

// Orchestrator sequences one turn: classify, transcribe, generate, append
// history, synthesize. One instance is shared by both transports; it holds no
// per-turn state.
type Orchestrator struct {
	reasoner core.Provider
	stt      stt.Provider
	tts      tts.Provider
	cfg      Config
	logger   *slog.Logger

	// onAdapterFailure is called with the adapter name ("stt", "generate",
	// "tts") whenever an external call fails, for metrics.
	onAdapterFailure func(adapter string)

	// onUsage is called after every successful generation with the token
	// counts the provider reported.
	onUsage func(model string, inputTokens, outputTokens int)
}

// New creates an orchestrator. sttProvider and ttsProvider may be nil; a nil
// sttProvider skips transcription, a nil ttsProvider skips synthesis (the
// persistent transport replies text-only and runs without one).
func New(reasoner core.Provider, sttProvider stt.Provider, ttsProvider tts.Provider, cfg Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		reasoner: reasoner,
		stt:      sttProvider,
		tts:      ttsProvider,
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
}

// SetAdapterFailureHook registers a callback invoked on every external
// adapter failure, including the recovered ones.
func (o *Orchestrator) SetAdapterFailureHook(fn func(adapter string)) {
	o.onAdapterFailure = fn
}

// SetUsageHook registers a callback invoked with token usage after each
// successful generation.
func (o *Orchestrator) SetUsageHook(fn func(model string, inputTokens, outputTokens int)) {
	o.onUsage = fn
}

func (o *Orchestrator) adapterFailed(adapter string) {
	if o.onAdapterFailure != nil {
		o.onAdapterFailure(adapter)
	}
}

// ExecuteTurn runs the full pipeline for one turn against the given history.
// On success the returned result has OK set, Text populated, Transcription
// set when audio was transcribed, and AudioResponse set when synthesis
// succeeded. The error is non-nil only on the two fatal paths: no usable
// input and generation failure; history is never modified on those paths.
func (o *Orchestrator) ExecuteTurn(ctx context.Context, input *types.TurnInput, hist *history.History) (*types.TurnResult, error) {
	cls := Classify(input.MediaChunks)

	transcript := ""
	if cls.Audio != nil && o.stt != nil {
		transcript = o.transcribe(ctx, cls.Audio)
	}

	if transcript == "" && cls.Image == nil {
		return nil, core.NewNoUsableInputError()
	}

	text, err := o.generate(ctx, hist.Render(), transcript, cls.Image)
	if err != nil {
		return nil, err
	}

	hist.AppendTurn(transcript, text)

	result := &types.TurnResult{
		OK:            true,
		Text:          text,
		Transcription: transcript,
	}

	if o.tts != nil {
		result.AudioResponse = o.synthesize(ctx, text)
	}

	return result, nil
}

// transcribe converts the audio chunk to text. Any failure, including a
// malformed base64 payload, degrades to an empty transcript.
func (o *Orchestrator) transcribe(ctx context.Context, chunk *types.MediaChunk) string {
	raw, err := base64.StdEncoding.DecodeString(chunk.Data)
	if err != nil {
		o.logger.Warn("transcription skipped", "error", err, "mime_type", chunk.MIMEType)
		o.adapterFailed("stt")
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.TranscribeTimeout)
	defer cancel()

	tr, err := o.stt.Transcribe(ctx, bytes.NewReader(raw), stt.TranscribeOptions{
		Model:  o.cfg.STTModel,
		Format: strings.TrimPrefix(chunk.MIMEType, "audio/"),
	})
	if err != nil {
		werr := core.NewTranscriptionUnavailableError(err)
		o.logger.Warn("transcription unavailable", "error", werr, "provider", o.stt.Name())
		o.adapterFailed("stt")
		return ""
	}
	return tr.Text
}

// generate runs the mandatory reasoning call.
func (o *Orchestrator) generate(ctx context.Context, historyText, transcript string, image *types.MediaChunk) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.GenerateTimeout)
	defer cancel()

	resp, err := o.reasoner.GenerateContent(ctx, &types.GenerateRequest{
		Model:           o.cfg.Model,
		Parts:           buildParts(o.cfg.SystemPrompt, historyText, transcript, image),
		MaxOutputTokens: o.cfg.MaxOutputTokens,
	})
	if err != nil {
		o.logger.Error("generation failed", "error", err, "provider", o.reasoner.Name())
		o.adapterFailed("generate")
		return "", core.NewGenerationFailedError(err)
	}

	if o.onUsage != nil {
		o.onUsage(resp.Model, resp.InputTokens, resp.OutputTokens)
	}
	o.logger.Debug("generation complete",
		"provider", o.reasoner.Name(),
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens)
	return resp.Text, nil
}

// synthesize converts the reply text to base64 audio. Failures are logged
// and swallowed; the turn already succeeded.
func (o *Orchestrator) synthesize(ctx context.Context, text string) string {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.SynthesizeTimeout)
	defer cancel()

	syn, err := o.tts.Synthesize(ctx, text, tts.SynthesizeOptions{
		Model: o.cfg.TTSModel,
		Voice: o.cfg.TTSVoice,
	})
	if err != nil {
		werr := core.NewSynthesisUnavailableError(err)
		o.logger.Warn("synthesis unavailable", "error", werr, "provider", o.tts.Name())
		o.adapterFailed("tts")
		return ""
	}
	return base64.StdEncoding.EncodeToString(syn.Audio)
}
