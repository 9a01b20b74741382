package llm

import "context"

// Role tags a message for the model provider.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged piece of text sent to the model.
type Message struct {
	Role    Role
	Content string
}

// UserMessage is shorthand for a single user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	// Invoke sends messages and returns the text content of the reply.
	Invoke(ctx context.Context, messages []Message) (string, error)
}
