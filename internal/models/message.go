package models

// Roles carried by transcript messages. They are passed through to the
// upstream completion API unchanged.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn in a conversation transcript. The full
// transcript is replayed verbatim to the upstream model on every completion,
// so message order is semantically significant.
type Message struct {
	Role    string `json:"role"`    // "system", "user" or "assistant"
	Content string `json:"content"` // The text content of the message
}
