package server

import (
	"log/slog"
	"net/http"

	"github.com/inkwise/tutorgate/pkg/core/providers/gemini"
	"github.com/inkwise/tutorgate/pkg/core/turn"
	"github.com/inkwise/tutorgate/pkg/core/voice/stt"
	"github.com/inkwise/tutorgate/pkg/core/voice/tts"
	"github.com/inkwise/tutorgate/pkg/gateway/config"
	"github.com/inkwise/tutorgate/pkg/gateway/handlers"
	"github.com/inkwise/tutorgate/pkg/gateway/live/sessions"
	"github.com/inkwise/tutorgate/pkg/gateway/metrics"
	"github.com/inkwise/tutorgate/pkg/gateway/mw"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux

	metrics *metrics.Metrics
	tracker *sessions.Tracker

	// Both transports share the reasoning/transcription stack. The live
	// orchestrator carries no synthesis provider: that transport replies
	// text-only.
	statelessOrch *turn.Orchestrator
	liveOrch      *turn.Orchestrator
}

func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	reasoner := gemini.New(cfg.GoogleAPIKey)
	sttProvider := stt.NewOpenAI(cfg.OpenAIAPIKey)
	ttsProvider := tts.NewOpenAI(cfg.OpenAIAPIKey)

	turnCfg := turn.Config{
		SystemPrompt:      cfg.SystemPrompt,
		Model:             cfg.GenerativeModel,
		MaxOutputTokens:   cfg.MaxOutputTokens,
		STTModel:          cfg.STTModel,
		TTSModel:          cfg.TTSModel,
		TTSVoice:          cfg.TTSVoice,
		TranscribeTimeout: cfg.TranscribeTimeout,
		GenerateTimeout:   cfg.GenerateTimeout,
		SynthesizeTimeout: cfg.SynthesizeTimeout,
	}

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		mux:           http.NewServeMux(),
		metrics:       metrics.New(""),
		tracker:       sessions.NewTracker(),
		statelessOrch: turn.New(reasoner, sttProvider, ttsProvider, turnCfg, logger),
		liveOrch:      turn.New(reasoner, sttProvider, nil, turnCfg, logger),
	}

	for _, orch := range []*turn.Orchestrator{s.statelessOrch, s.liveOrch} {
		orch.SetAdapterFailureHook(s.metrics.RecordAdapterFailure)
		orch.SetUsageHook(s.metrics.RecordTokens)
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("/healthz", handlers.HealthHandler{})
	s.mux.Handle("/readyz", handlers.ReadyHandler{Config: s.cfg})
	s.mux.Handle("/metrics", s.metrics.Handler())

	s.mux.Handle("/v1/process", handlers.ProcessHandler{
		Config:       s.cfg,
		Orchestrator: s.statelessOrch,
		Logger:       s.logger,
		Metrics:      s.metrics,
	})
	s.mux.Handle("/v1/live", handlers.LiveHandler{
		Config:       s.cfg,
		Orchestrator: s.liveOrch,
		Logger:       s.logger,
		Metrics:      s.metrics,
		Tracker:      s.tracker,
	})

	s.mux.Handle("/", handlers.NotFoundHandler{})
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.CORS(s.cfg, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}

// Sessions returns the live-session tracker, used for graceful shutdown.
func (s *Server) Sessions() *sessions.Tracker {
	return s.tracker
}
