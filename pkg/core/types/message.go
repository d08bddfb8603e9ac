package types

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationMessage is a single entry in the running conversation.
// Entries are append-only and replayed verbatim into the model prompt,
// so ordering is semantically meaningful.
type ConversationMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a user-authored message.
func UserMessage(content string) ConversationMessage {
	return ConversationMessage{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-authored message.
func AssistantMessage(content string) ConversationMessage {
	return ConversationMessage{Role: RoleAssistant, Content: content}
}
