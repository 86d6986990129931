package llm

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged chat message. Values are never mutated after creation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(content string) Message    { return Message{Role: RoleSystem, Content: content} }
func UserMessage(content string) Message      { return Message{Role: RoleUser, Content: content} }
func AssistantMessage(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// ChatTransport performs one request/response exchange against a chat-completion backend.
// It hides concrete providers to preserve dependency direction.
type ChatTransport interface {
	Complete(ctx context.Context, model string, messages []Message, credential string) (string, error)
}

// TransportFunc adapts a plain function to ChatTransport.
type TransportFunc func(ctx context.Context, model string, messages []Message, credential string) (string, error)

func (f TransportFunc) Complete(ctx context.Context, model string, messages []Message, credential string) (string, error) {
	return f(ctx, model, messages, credential)
}
