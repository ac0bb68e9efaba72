// Package groq implements the chat transport against Groq's OpenAI-compatible
// completion endpoint.
package groq

import (
	"net/http"
	"strings"

	"context"

	"studybuddy/internal/config"
	"studybuddy/internal/domain"
	"studybuddy/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Client performs single blocking chat completion exchanges. It does not
// retry; a failed call surfaces to the session engine which decides whether
// the user may resubmit.
type Client struct {
	model       llms.Model
	temperature float64
}

// New builds a Client from configuration. The HTTP client carries the
// configured timeout; a timeout surfaces as a transport failure like any
// other network error.
func New(cfg config.GroqConfig) (*Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, domain.NewInternalError("Failed to create Groq client", err)
	}
	return NewWithModel(llm, cfg.Temperature), nil
}

// NewWithModel wires a Client over an existing model, used by tests.
func NewWithModel(model llms.Model, temperature float64) *Client {
	return &Client{model: model, temperature: temperature}
}

// Complete implements domain.ChatClient.
func (c *Client) Complete(ctx context.Context, messages []domain.ChatMessage, maxTokens int) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, message := range messages {
		content = append(content, llms.TextParts(toMessageType(message.Role), message.Content))
	}

	response, err := c.model.GenerateContent(ctx, content,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		logger.Get().Error("Chat completion failed", zap.Error(err), zap.Int("max_tokens", maxTokens))
		return "", domain.NewTransportError(err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", domain.NewEmptyCompletionError()
	}
	text := response.Choices[0].Content
	if strings.TrimSpace(text) == "" {
		return "", domain.NewEmptyCompletionError()
	}
	return text, nil
}

func toMessageType(role string) llms.ChatMessageType {
	switch role {
	case domain.RoleSystem:
		return llms.ChatMessageTypeSystem
	case domain.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
