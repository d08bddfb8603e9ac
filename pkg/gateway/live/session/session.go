// Package session implements the persistent live connection: one websocket,
// one conversation history, turns processed strictly in arrival order.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/inkwise/tutorgate/pkg/core"
	"github.com/inkwise/tutorgate/pkg/core/history"
	"github.com/inkwise/tutorgate/pkg/core/turn"
	"github.com/inkwise/tutorgate/pkg/core/types"
	"github.com/inkwise/tutorgate/pkg/gateway/live/protocol"
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseAwaitingSetup Phase = iota
	PhaseActive
	PhaseClosed
)

// Config bounds the connection's I/O.
type Config struct {
	MaxMessageBytes int64
	WriteTimeout    time.Duration
	PingInterval    time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = 16 << 20
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 20 * time.Second
	}
	return c
}

// wsConn is the subset of *websocket.Conn the session uses.
type wsConn interface {
	SetReadLimit(limit int64)
	ReadMessage() (messageType int, p []byte, err error)
	SetWriteDeadline(t time.Time) error
	WriteJSON(v any) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Session owns one live connection's state. History is touched only by the
// connection's processing loop, so it needs no locking; the write mutex
// exists only because the keepalive goroutine shares the socket.
type Session struct {
	id     string
	conn   wsConn
	orch   *turn.Orchestrator
	hist   *history.History
	cfg    Config
	logger *slog.Logger

	phase Phase

	writeMu sync.Mutex

	// onTurn is called after every processed turn, for metrics.
	onTurn func(ok bool, duration time.Duration)
}

// New creates a session in the AwaitingSetup phase.
func New(id string, conn *websocket.Conn, orch *turn.Orchestrator, cfg Config, logger *slog.Logger) *Session {
	return newSession(id, conn, orch, cfg, logger)
}

func newSession(id string, conn wsConn, orch *turn.Orchestrator, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		id:     id,
		conn:   conn,
		orch:   orch,
		hist:   history.New(),
		cfg:    cfg.withDefaults(),
		logger: logger.With("session_id", id),
		phase:  PhaseAwaitingSetup,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// History returns the session's conversation history.
func (s *Session) History() *history.History { return s.hist }

// SetTurnHook registers a callback invoked after each processed turn.
func (s *Session) SetTurnHook(fn func(ok bool, duration time.Duration)) {
	s.onTurn = fn
}

// Warn sends an out-of-band warning frame. Safe to call from outside the
// read loop; the shutdown tracker uses it.
func (s *Session) Warn(message string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteJSON(protocol.Warning(message))
}

// readResult is one ReadMessage outcome forwarded by the read pump.
type readResult struct {
	data []byte
	err  error
}

// Run drives the session until the client disconnects or parent is canceled.
// Frames are read by a pump goroutine but processed strictly one at a time in
// arrival order, so each turn's reply is written before the next frame is
// handled. The pump exists so a transport close is observed while a turn is
// in flight: it cancels the session context, which aborts the in-flight
// adapter call.
func (s *Session) Run(parent context.Context) error {
	s.conn.SetReadLimit(s.cfg.MaxMessageBytes)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Keepalive pings and shutdown teardown. Closing the conn is the only
	// way to unblock ReadMessage.
	done := make(chan struct{})
	defer close(done)
	go s.keepalive(parent, done)

	defer func() {
		s.phase = PhaseClosed
		_ = s.conn.Close()
	}()

	frames := make(chan readResult)
	go s.readPump(cancel, frames)

	for rr := range frames {
		if rr.err != nil {
			if parent.Err() != nil {
				return parent.Err()
			}
			if websocket.IsCloseError(rr.err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return nil
			}
			return rr.err
		}
		s.handleMessage(ctx, rr.data)
	}
	return nil
}

// readPump forwards frames to the processing loop. On any read error it
// cancels the session context first, so a disconnect aborts whatever turn is
// currently executing, then delivers the error and exits.
func (s *Session) readPump(cancel context.CancelFunc, frames chan<- readResult) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			cancel()
			frames <- readResult{err: err}
			return
		}
		frames <- readResult{data: data}
	}
}

func (s *Session) keepalive(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			s.writeMu.Lock()
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(s.cfg.WriteTimeout))
			s.writeMu.Unlock()
			_ = s.conn.Close()
			return
		case <-ticker.C:
			s.writeMu.Lock()
			_ = s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.cfg.WriteTimeout))
			s.writeMu.Unlock()
		}
	}
}

// handleMessage processes one inbound frame. Every failure is reported back
// over the connection; nothing here closes it.
func (s *Session) handleMessage(ctx context.Context, data []byte) {
	msg, err := protocol.DecodeClientMessage(data)
	if err != nil {
		werr := core.NewMalformedMessageError(err.Error())
		s.logger.Warn("malformed message", "error", werr)
		s.send(protocol.Error("Error processing message"))
		return
	}

	if msg.IsSetup() {
		// Accepted without validation; acknowledged silently.
		if s.phase == PhaseAwaitingSetup {
			s.phase = PhaseActive
		}
		s.logger.Info("setup received")
		return
	}

	if msg.RealtimeInput == nil {
		s.logger.Warn("message carries neither setup nor realtimeInput")
		s.send(protocol.Error("Error processing message"))
		return
	}

	if s.phase == PhaseAwaitingSetup {
		s.send(protocol.Error("setup required before input"))
		return
	}

	s.runTurn(ctx, msg.RealtimeInput.MediaChunks)
}

func (s *Session) runTurn(ctx context.Context, chunks []types.MediaChunk) {
	start := time.Now()
	result, err := s.orch.ExecuteTurn(ctx, &types.TurnInput{MediaChunks: chunks}, s.hist)
	if s.onTurn != nil {
		s.onTurn(err == nil, time.Since(start))
	}
	if err != nil {
		var cerr *core.Error
		if errors.As(err, &cerr) && cerr.Type == core.ErrNoUsableInput {
			s.send(protocol.Error("no valid input provided"))
			return
		}
		s.logger.Error("turn failed", "error", err)
		s.send(protocol.Error("Error generating response"))
		return
	}
	s.send(protocol.Response(result.Text))
}

func (s *Session) send(msg protocol.ServerMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Warn("write failed", "error", err)
	}
}
