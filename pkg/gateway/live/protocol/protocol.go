// Package protocol defines the wire messages of the live websocket session.
package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/inkwise/tutorgate/pkg/core/types"
)

const (
	ServerTypeResponse = "response"
	ServerTypeError    = "error"
	ServerTypeWarning  = "warning"
)

// RealtimeInput carries one turn's media batch.
type RealtimeInput struct {
	MediaChunks []types.MediaChunk `json:"mediaChunks"`
}

// ClientMessage is either a one-time setup handshake or a turn. Exactly one
// of the two fields is set on a valid message.
type ClientMessage struct {
	Setup         json.RawMessage `json:"setup,omitempty"`
	RealtimeInput *RealtimeInput  `json:"realtimeInput,omitempty"`
}

// IsSetup reports whether the message is the setup handshake.
func (m *ClientMessage) IsSetup() bool {
	return len(m.Setup) > 0
}

// ServerMessage is one reply frame: a turn response or an error report.
type ServerMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response builds a turn reply.
func Response(text string) ServerMessage {
	return ServerMessage{Type: ServerTypeResponse, Text: text}
}

// Error builds an error report. The connection stays open after sending one.
func Error(text string) ServerMessage {
	return ServerMessage{Type: ServerTypeError, Text: text}
}

// Warning builds an out-of-band notice, e.g. an imminent server shutdown. It
// is not part of the turn/response pairing.
func Warning(text string) ServerMessage {
	return ServerMessage{Type: ServerTypeWarning, Text: text}
}

// DecodeClientMessage strictly parses one inbound frame. Unknown fields are
// rejected so a typo'd turn does not silently decode as an empty message.
func DecodeClientMessage(data []byte) (*ClientMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var msg ClientMessage
	if err := dec.Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
