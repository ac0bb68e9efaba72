package handler

import (
	"strings"

	"studybuddy/internal/domain"
	"studybuddy/internal/dto"
	"studybuddy/internal/logger"
	"studybuddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const generationRetryNotice = "Couldn't reach the tutor for the next question. Send any message to retry."

// ReviewHandler exposes the conversational review session over HTTP.
type ReviewHandler struct {
	worker *service.SessionWorker
}

// NewReviewHandler creates a new ReviewHandler instance
func NewReviewHandler(worker *service.SessionWorker) *ReviewHandler {
	return &ReviewHandler{worker: worker}
}

// StartSession handles POST /api/review/session. It resets the conversation
// and returns the greeting.
func (h *ReviewHandler) StartSession(c *fiber.Ctx) error {
	turn, err := h.worker.StartSession(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(toTurnResponse(turn))
}

// SendMessage handles POST /api/review/messages. One user input in, the
// assistant messages that turn produced out.
func (h *ReviewHandler) SendMessage(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}
	if strings.TrimSpace(req.Text) == "" {
		return domain.NewInvalidInputError("message text is empty")
	}

	turn, err := h.worker.SendMessage(c.Context(), req.Text)
	if err != nil {
		// A transport failure can interrupt a turn that already produced
		// messages (e.g. answer feedback before the next question). Deliver
		// what we have; resubmitting retries the rest.
		if turn != nil && len(turn.Messages) > 0 {
			logger.Get().Warn("Turn completed partially", zap.Error(err))
			response := toTurnResponse(turn)
			response.Notice = generationRetryNotice
			return c.JSON(response)
		}
		return err
	}

	return c.JSON(toTurnResponse(turn))
}

func toTurnResponse(turn *service.Turn) dto.TurnResponse {
	response := dto.TurnResponse{
		Messages: make([]dto.AssistantMessage, 0, len(turn.Messages)),
		Notice:   turn.Notice,
	}
	for _, message := range turn.Messages {
		response.Messages = append(response.Messages, dto.AssistantMessage{
			Role:    message.Role,
			Content: message.Content,
			Options: message.Options,
		})
	}
	return response
}
