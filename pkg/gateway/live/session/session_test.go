package session

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/inkwise/tutorgate/pkg/core/turn"
	"github.com/inkwise/tutorgate/pkg/core/types"
	"github.com/inkwise/tutorgate/pkg/core/voice/stt"
	"github.com/inkwise/tutorgate/pkg/gateway/live/protocol"
)

type fakeConn struct {
	mu      sync.Mutex
	inbound [][]byte
	sent    []protocol.ServerMessage
	closed  bool
}

func (c *fakeConn) SetReadLimit(int64) {}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inbound) == 0 {
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
	data := c.inbound[0]
	c.inbound = c.inbound[1:]
	return websocket.TextMessage, data, nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, v.(protocol.ServerMessage))
	return nil
}

func (c *fakeConn) WriteControl(int, []byte, time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) messages() []protocol.ServerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]protocol.ServerMessage, len(c.sent))
	copy(out, c.sent)
	return out
}

type scriptedReasoner struct {
	replies  []string
	err      error
	requests []*types.GenerateRequest
}

func (r *scriptedReasoner) Name() string { return "scripted" }

func (r *scriptedReasoner) GenerateContent(_ context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	reply := r.replies[0]
	if len(r.replies) > 1 {
		r.replies = r.replies[1:]
	}
	return &types.GenerateResponse{Text: reply}, nil
}

type fixedSTT struct{ text string }

func (f *fixedSTT) Name() string { return "fixed" }

func (f *fixedSTT) Transcribe(_ context.Context, audio io.Reader, _ stt.TranscribeOptions) (*stt.Transcript, error) {
	io.Copy(io.Discard, audio)
	return &stt.Transcript{Text: f.text}, nil
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func frame(s string) []byte { return []byte(s) }

func runSession(t *testing.T, conn *fakeConn, reasoner *scriptedReasoner, sttText string) *Session {
	t.Helper()
	orch := turn.New(reasoner, &fixedSTT{text: sttText}, nil, turn.Config{}, nil)
	s := newSession("sess_test", conn, orch, Config{}, nil)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return s
}

func TestSessionSetupThenTwoTurns(t *testing.T) {
	conn := &fakeConn{inbound: [][]byte{
		frame(`{"setup":{"model":"whatever"}}`),
		frame(`{"realtimeInput":{"mediaChunks":[{"mimeType":"image/jpeg","data":"` + b64("img") + `"}]}}`),
		frame(`{"realtimeInput":{"mediaChunks":[{"mimeType":"audio/pcm","data":"` + b64("pcm") + `"}]}}`),
	}}
	reasoner := &scriptedReasoner{replies: []string{"R1", "R2"}}

	s := runSession(t, conn, reasoner, "yes")

	msgs := conn.messages()
	// Setup is acknowledged silently: exactly one reply per turn message.
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want 2: %+v", len(msgs), msgs)
	}
	if msgs[0] != protocol.Response("R1") || msgs[1] != protocol.Response("R2") {
		t.Errorf("replies = %+v", msgs)
	}

	// Turn 2's prompt sees turn 1's reply and its own transcript part.
	if len(reasoner.requests) != 2 {
		t.Fatalf("generation calls = %d", len(reasoner.requests))
	}
	instr := reasoner.requests[1].Parts[0].(types.TextPart).Text
	if !strings.Contains(instr, "assistant: R1") {
		t.Errorf("turn 2 instruction missing turn 1 reply:\n%s", instr)
	}
	transcriptPart := reasoner.requests[1].Parts[1].(types.TextPart).Text
	if transcriptPart != "User said: yes" {
		t.Errorf("transcript part = %q", transcriptPart)
	}

	if s.Phase() != PhaseClosed {
		t.Errorf("phase = %v, want PhaseClosed", s.Phase())
	}
	if got := s.History().Len(); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}

func TestSessionTurnBeforeSetup(t *testing.T) {
	conn := &fakeConn{inbound: [][]byte{
		frame(`{"realtimeInput":{"mediaChunks":[{"mimeType":"image/jpeg","data":"` + b64("img") + `"}]}}`),
	}}
	reasoner := &scriptedReasoner{replies: []string{"never"}}

	runSession(t, conn, reasoner, "")

	msgs := conn.messages()
	if len(msgs) != 1 || msgs[0].Type != protocol.ServerTypeError {
		t.Fatalf("messages = %+v, want one error", msgs)
	}
	if len(reasoner.requests) != 0 {
		t.Error("turn should not reach generation before setup")
	}
}

func TestSessionMalformedMessageKeepsConnectionOpen(t *testing.T) {
	conn := &fakeConn{inbound: [][]byte{
		frame(`{"setup":{}}`),
		frame(`this is not json`),
		frame(`{"realtimeInput":{"mediaChunks":[{"mimeType":"image/jpeg","data":"` + b64("img") + `"}]}}`),
	}}
	reasoner := &scriptedReasoner{replies: []string{"still works"}}

	runSession(t, conn, reasoner, "")

	msgs := conn.messages()
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want 2: %+v", len(msgs), msgs)
	}
	if msgs[0].Type != protocol.ServerTypeError {
		t.Errorf("first reply = %+v, want error", msgs[0])
	}
	// The turn after the malformed frame still went through.
	if msgs[1] != protocol.Response("still works") {
		t.Errorf("second reply = %+v", msgs[1])
	}
}

func TestSessionTurnFailureReportsError(t *testing.T) {
	conn := &fakeConn{inbound: [][]byte{
		frame(`{"setup":{}}`),
		frame(`{"realtimeInput":{"mediaChunks":[{"mimeType":"image/jpeg","data":"` + b64("img") + `"}]}}`),
	}}
	reasoner := &scriptedReasoner{err: errors.New("model down")}

	s := runSession(t, conn, reasoner, "")

	msgs := conn.messages()
	if len(msgs) != 1 || msgs[0] != protocol.Error("Error generating response") {
		t.Fatalf("messages = %+v", msgs)
	}
	if s.History().Len() != 0 {
		t.Errorf("history length = %d, want 0 after failed turn", s.History().Len())
	}
}

func TestSessionNoUsableInput(t *testing.T) {
	conn := &fakeConn{inbound: [][]byte{
		frame(`{"setup":{}}`),
		frame(`{"realtimeInput":{"mediaChunks":[]}}`),
	}}
	reasoner := &scriptedReasoner{replies: []string{"never"}}

	runSession(t, conn, reasoner, "")

	msgs := conn.messages()
	if len(msgs) != 1 || msgs[0] != protocol.Error("no valid input provided") {
		t.Fatalf("messages = %+v", msgs)
	}
}

// blockingReasoner stalls until its call context is canceled, standing in for
// a slow upstream generation call.
type blockingReasoner struct {
	started  chan struct{}
	canceled chan struct{}
}

func (r *blockingReasoner) Name() string { return "blocking" }

func (r *blockingReasoner) GenerateContent(ctx context.Context, _ *types.GenerateRequest) (*types.GenerateResponse, error) {
	close(r.started)
	<-ctx.Done()
	close(r.canceled)
	return nil, ctx.Err()
}

func TestSessionDisconnectCancelsInFlightTurn(t *testing.T) {
	conn := &fakeConn{inbound: [][]byte{
		frame(`{"setup":{}}`),
		frame(`{"realtimeInput":{"mediaChunks":[{"mimeType":"image/jpeg","data":"` + b64("img") + `"}]}}`),
	}}
	reasoner := &blockingReasoner{
		started:  make(chan struct{}),
		canceled: make(chan struct{}),
	}
	orch := turn.New(reasoner, nil, nil, turn.Config{}, nil)
	s := newSession("sess_cancel", conn, orch, Config{}, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	select {
	case <-reasoner.started:
	case <-time.After(5 * time.Second):
		t.Fatal("generation never started")
	}

	// The fake's read queue is drained while the turn is in flight, so the
	// next read reports the client gone; that must abort the generation call
	// well before its own timeout.
	select {
	case <-reasoner.canceled:
	case <-time.After(5 * time.Second):
		t.Fatal("disconnect did not cancel the in-flight generation call")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after disconnect")
	}

	if s.History().Len() != 0 {
		t.Errorf("history length = %d, want 0 after canceled turn", s.History().Len())
	}
}

func TestSessionTurnHook(t *testing.T) {
	conn := &fakeConn{inbound: [][]byte{
		frame(`{"setup":{}}`),
		frame(`{"realtimeInput":{"mediaChunks":[{"mimeType":"image/jpeg","data":"` + b64("img") + `"}]}}`),
	}}
	reasoner := &scriptedReasoner{replies: []string{"ok"}}
	orch := turn.New(reasoner, nil, nil, turn.Config{}, nil)
	s := newSession("sess_hook", conn, orch, Config{}, nil)

	var oks []bool
	s.SetTurnHook(func(ok bool, _ time.Duration) { oks = append(oks, ok) })

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(oks) != 1 || !oks[0] {
		t.Errorf("hook calls = %v", oks)
	}
}

