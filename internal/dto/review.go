package dto

// SendMessageRequest is the request body for posting one user turn.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// AssistantMessage is one assistant message produced by a turn. Options is set
// when the message poses a multiple-choice question.
type AssistantMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Options []string `json:"options,omitempty"`
}

// TurnResponse carries everything one queued user action produced. Notice is a
// non-fatal warning, e.g. when saving the result to history failed.
type TurnResponse struct {
	Messages []AssistantMessage `json:"messages"`
	Notice   string             `json:"notice,omitempty"`
}
