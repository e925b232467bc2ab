package reactkit

import "context"

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Completer is the chat-completion service: it takes an ordered list of messages
// and returns the model's text. reactkit never calls a provider itself; callers
// plug in their own client and drive the turns.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, messages []Message) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// Conversation starts a message list with the registry's system prompt and the user's prompt.
func (r *Registry) Conversation(prompt string) []Message {
	return []Message{
		{Role: RoleSystem, Content: SystemPrompt(r.Catalog())},
		{Role: RoleUser, Content: prompt},
	}
}
