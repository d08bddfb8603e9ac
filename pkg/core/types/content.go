package types

// Part is one ordered element of the prompt sent to the reasoning model.
// INPUT: text, inline (base64 media)
type Part interface {
	PartType() string
}

// TextPart carries plain prompt text.
type TextPart struct {
	Text string
}

func (p TextPart) PartType() string { return "text" }

// InlinePart carries base64-encoded media with its MIME type, used for the
// turn's image snapshot.
type InlinePart struct {
	MIMEType string
	Data     string
}

func (p InlinePart) PartType() string { return "inline" }

// GenerateRequest is a reasoning call: an ordered list of content parts plus
// generation parameters. Part order is fixed by the orchestrator (instruction,
// history context, transcript, image) so the model always sees stable context
// placement.
type GenerateRequest struct {
	Model           string
	Parts           []Part
	MaxOutputTokens int
}

// GenerateResponse is the model's free-text reply.
type GenerateResponse struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}
