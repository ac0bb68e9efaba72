package domain

import "context"

// Chat roles as the completion endpoint expects them.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one role-tagged message in a conversation. Options is set
// on assistant messages that present a multiple-choice question, so the UI
// can render answer buttons.
type ChatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Options []string `json:"options,omitempty"`
}

// ChatClient performs one blocking request/response exchange against a remote
// completion endpoint. Implementations must distinguish transport failures
// (ErrTransport) from successful exchanges with an unusable body
// (ErrEmptyCompletion). No retries; retry policy belongs to the caller.
type ChatClient interface {
	Complete(ctx context.Context, messages []ChatMessage, maxTokens int) (string, error)
}
