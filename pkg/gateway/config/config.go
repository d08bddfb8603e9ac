package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	// Provider credentials.
	GoogleAPIKey string
	OpenAIAPIKey string

	// Model selection.
	GenerativeModel string
	MaxOutputTokens int
	STTModel        string
	TTSModel        string
	TTSVoice        string

	// Overrides the built-in tutoring instruction when set.
	SystemPrompt string

	MaxBodyBytes int64

	// CORS
	CORSAllowedOrigins map[string]struct{} // empty => disabled

	// Per-adapter call timeouts.
	TranscribeTimeout time.Duration
	GenerateTimeout   time.Duration
	SynthesizeTimeout time.Duration

	// Live WebSocket mode (/v1/live).
	LiveMaxMessageBytes int64
	LiveWSWriteTimeout  time.Duration
	LiveWSPingInterval  time.Duration

	// Operational defaults
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                envOr("TUTORGATE_ADDR", ":8080"),
		GoogleAPIKey:        strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		GenerativeModel:     envOr("TUTORGATE_MODEL", "gemini-1.5-flash"),
		MaxOutputTokens:     envIntOr("TUTORGATE_MAX_OUTPUT_TOKENS", 2048),
		STTModel:            envOr("TUTORGATE_STT_MODEL", "whisper-1"),
		TTSModel:            envOr("TUTORGATE_TTS_MODEL", "tts-1"),
		TTSVoice:            envOr("TUTORGATE_TTS_VOICE", "alloy"),
		SystemPrompt:        os.Getenv("TUTORGATE_SYSTEM_PROMPT"),
		MaxBodyBytes:        envInt64Or("TUTORGATE_MAX_BODY_BYTES", 16<<20), // 16 MiB; image+audio payloads
		CORSAllowedOrigins:  make(map[string]struct{}),
		TranscribeTimeout:   envDurationOr("TUTORGATE_TRANSCRIBE_TIMEOUT", 30*time.Second),
		GenerateTimeout:     envDurationOr("TUTORGATE_GENERATE_TIMEOUT", 60*time.Second),
		SynthesizeTimeout:   envDurationOr("TUTORGATE_SYNTHESIZE_TIMEOUT", 30*time.Second),
		LiveMaxMessageBytes: envInt64Or("TUTORGATE_LIVE_MAX_MESSAGE_BYTES", 16<<20),
		LiveWSWriteTimeout:  envDurationOr("TUTORGATE_LIVE_WS_WRITE_TIMEOUT", 5*time.Second),
		LiveWSPingInterval:  envDurationOr("TUTORGATE_LIVE_WS_PING_INTERVAL", 20*time.Second),
		ReadHeaderTimeout:   envDurationOr("TUTORGATE_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:         envDurationOr("TUTORGATE_READ_TIMEOUT", 30*time.Second),
		ShutdownGracePeriod: envDurationOr("TUTORGATE_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}

	for _, origin := range splitCSV(os.Getenv("TUTORGATE_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	if cfg.GoogleAPIKey == "" {
		return Config{}, fmt.Errorf("GOOGLE_API_KEY must be set")
	}
	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY must be set")
	}
	if cfg.MaxOutputTokens <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_MAX_OUTPUT_TOKENS must be > 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_MAX_BODY_BYTES must be > 0")
	}
	if cfg.TranscribeTimeout <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_TRANSCRIBE_TIMEOUT must be > 0")
	}
	if cfg.GenerateTimeout <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_GENERATE_TIMEOUT must be > 0")
	}
	if cfg.SynthesizeTimeout <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_SYNTHESIZE_TIMEOUT must be > 0")
	}
	if cfg.LiveMaxMessageBytes <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_LIVE_MAX_MESSAGE_BYTES must be > 0")
	}
	if cfg.LiveWSWriteTimeout <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_LIVE_WS_WRITE_TIMEOUT must be > 0")
	}
	if cfg.LiveWSPingInterval <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_LIVE_WS_PING_INTERVAL must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ReadTimeout <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_READ_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("TUTORGATE_SHUTDOWN_GRACE_PERIOD must be > 0")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64Or(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envIntOr(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
