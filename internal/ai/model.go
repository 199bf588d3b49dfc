package ai

import "context"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is one call to a language model.
type Request struct {
	Prompt  string
	System  string
	History []Message
}

// Model turns a prompt into text. Implementations own retries and timeouts.
type Model interface {
	Invoke(ctx context.Context, req Request) (string, error)
}

// ModelFunc adapts a plain function to Model.
type ModelFunc func(ctx context.Context, req Request) (string, error)

func (f ModelFunc) Invoke(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
