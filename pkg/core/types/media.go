// Package types defines the wire and domain types shared by the tutoring
// core and both transports.
package types

import "strings"

// MediaKind is the closed set of media types the pipeline understands.
type MediaKind string

const (
	MediaAudio   MediaKind = "audio"
	MediaImage   MediaKind = "image"
	MediaUnknown MediaKind = "unknown"
)

// MediaChunk is one piece of client-captured media for a turn.
// Data is base64-encoded raw bytes; MIMEType declares the content
// (e.g. "audio/webm", "audio/pcm", "image/jpeg").
type MediaChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Kind classifies the chunk by its declared MIME type. Anything that is not
// audio or image is MediaUnknown and is ignored by the classifier.
func (c MediaChunk) Kind() MediaKind {
	switch {
	case strings.HasPrefix(c.MIMEType, "audio/"):
		return MediaAudio
	case strings.HasPrefix(c.MIMEType, "image/"):
		return MediaImage
	default:
		return MediaUnknown
	}
}

// TurnInput is everything a single turn consumes. It is immutable after
// construction; the stateless transport fills History from the request body,
// the persistent transport leaves it nil and uses the session's own history.
type TurnInput struct {
	MediaChunks []MediaChunk          `json:"mediaChunks"`
	History     []ConversationMessage `json:"history,omitempty"`
}

// TurnResult is the outcome of one turn. Produced exactly once per turn.
// AudioResponse is base64-encoded synthesized speech and is absent when
// synthesis was skipped or failed.
type TurnResult struct {
	OK            bool   `json:"success"`
	Text          string `json:"text,omitempty"`
	Transcription string `json:"transcription,omitempty"`
	AudioResponse string `json:"audioResponse,omitempty"`
	ErrorMessage  string `json:"error,omitempty"`
}
