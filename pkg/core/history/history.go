// Package history owns the ordered conversation record for a session or
// request and renders it into the prompt context given to the reasoning
// provider.
package history

import (
	"strings"

	"github.com/inkwise/tutorgate/pkg/core/types"
)

// History is an append-only, chronologically ordered message list. It is
// owned by exactly one session (persistent transport) or one request
// (stateless transport) and is never shared across connections, so it
// needs no locking.
type History struct {
	messages []types.ConversationMessage
}

// New creates an empty history.
func New() *History {
	return &History{messages: make([]types.ConversationMessage, 0, 16)}
}

// FromMessages seeds a history from a caller-supplied message list, as the
// stateless transport does on every call. The input slice is copied.
func FromMessages(msgs []types.ConversationMessage) *History {
	h := &History{messages: make([]types.ConversationMessage, len(msgs))}
	copy(h.messages, msgs)
	return h
}

// Len returns the number of recorded messages.
func (h *History) Len() int {
	return len(h.messages)
}

// Snapshot returns a copy of the recorded messages.
func (h *History) Snapshot() []types.ConversationMessage {
	out := make([]types.ConversationMessage, len(h.messages))
	copy(out, h.messages)
	return out
}

// Render produces the role-prefixed chronological transcript placed into the
// model prompt. Empty history renders as the empty string.
func (h *History) Render() string {
	if len(h.messages) == 0 {
		return ""
	}
	var b strings.Builder
	for i, msg := range h.messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// AppendTurn records a completed turn. It must only be called after the
// reasoning provider returned successfully, so a failed turn never leaves a
// partial entry. The user transcript is recorded only when non-empty
// (image-only turns have no user text).
func (h *History) AppendTurn(userTranscript, assistantReply string) {
	if userTranscript != "" {
		h.messages = append(h.messages, types.UserMessage(userTranscript))
	}
	h.messages = append(h.messages, types.AssistantMessage(assistantReply))
}
