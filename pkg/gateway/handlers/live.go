package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/inkwise/tutorgate/pkg/core/turn"
	"github.com/inkwise/tutorgate/pkg/gateway/apierror"
	"github.com/inkwise/tutorgate/pkg/gateway/config"
	"github.com/inkwise/tutorgate/pkg/gateway/live/session"
	"github.com/inkwise/tutorgate/pkg/gateway/live/sessions"
	"github.com/inkwise/tutorgate/pkg/gateway/metrics"
)

// LiveHandler handles GET /v1/live: upgrades to a websocket and hands the
// connection to a Session. One SessionState per connection, torn down on
// disconnect.
type LiveHandler struct {
	Config       config.Config
	Orchestrator *turn.Orchestrator
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Tracker      *sessions.Tracker
}

func (h LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, apierror.Envelope{OK: false, Error: "method not allowed"})
		return
	}
	if !h.originAllowed(r) {
		writeJSON(w, http.StatusForbidden, apierror.Envelope{OK: false, Error: "origin is not allowed"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake failure.
		return
	}

	sessionID := "sess_" + uuid.NewString()
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sess := session.New(sessionID, conn, h.Orchestrator, session.Config{
		MaxMessageBytes: h.Config.LiveMaxMessageBytes,
		WriteTimeout:    h.Config.LiveWSWriteTimeout,
		PingInterval:    h.Config.LiveWSPingInterval,
	}, logger)

	if h.Metrics != nil {
		h.Metrics.RecordLiveSessionStart()
		sess.SetTurnHook(func(ok bool, duration time.Duration) {
			outcome := "ok"
			if !ok {
				outcome = "error"
			}
			h.Metrics.RecordTurn("live", outcome, duration)
		})
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	unregister := h.Tracker.Register(sessionID, sessions.Handle{
		Cancel: cancel,
		Warn:   sess.Warn,
	})
	defer unregister()

	logger.Info("live session started", "session_id", sessionID, "remote", r.RemoteAddr)
	start := time.Now()

	runErr := sess.Run(ctx)

	status := "ok"
	if runErr != nil && ctx.Err() == nil {
		status = "error"
	}
	if h.Metrics != nil {
		h.Metrics.RecordLiveSessionEnd(status, time.Since(start))
	}
	logger.Info("live session ended",
		"session_id", sessionID,
		"status", status,
		"turns", sess.History().Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// originAllowed applies the CORS allowlist to the websocket handshake.
// Browsers enforce nothing for websockets, so the server has to. An empty
// allowlist admits every origin, matching the HTTP middleware.
func (h LiveHandler) originAllowed(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" || len(h.Config.CORSAllowedOrigins) == 0 {
		return true
	}
	_, ok := h.Config.CORSAllowedOrigins[origin]
	return ok
}
