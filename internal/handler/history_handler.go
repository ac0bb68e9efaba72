package handler

import (
	"strconv"

	"studybuddy/internal/domain"
	"studybuddy/internal/dto"
	"studybuddy/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HistoryHandler exposes the persisted quiz history.
type HistoryHandler struct {
	repo domain.HistoryRepository
}

// NewHistoryHandler creates a new HistoryHandler instance
func NewHistoryHandler(repo domain.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{repo: repo}
}

// ListRecords handles GET /api/history/records
func (h *HistoryHandler) ListRecords(c *fiber.Ctx) error {
	records, err := h.repo.AllRecords(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToHistoryListResponse(records))
}

// ListSessions handles GET /api/history/sessions
func (h *HistoryHandler) ListSessions(c *fiber.Ctx) error {
	ids, err := h.repo.SessionIDs(c.Context())
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(dto.SessionListResponse{SessionIDs: ids})
}

// GetSession handles GET /api/history/sessions/:id
func (h *HistoryHandler) GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	records, err := h.repo.BySession(c.Context(), sessionID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return domain.NewNotFoundError("no records for session " + sessionID)
	}
	return c.JSON(dto.ToHistoryListResponse(records))
}

// DeleteSession handles DELETE /api/history/sessions/:id
func (h *HistoryHandler) DeleteSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if err := h.repo.DeleteBySession(c.Context(), sessionID); err != nil {
		return err
	}
	logger.Get().Info("Deleted session history", zap.String("session_id", sessionID))
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteRecord handles DELETE /api/history/records/:id
func (h *HistoryHandler) DeleteRecord(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return domain.NewInvalidInputError("record id must be an integer")
	}
	if err := h.repo.DeleteByID(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAll handles DELETE /api/history/records
func (h *HistoryHandler) DeleteAll(c *fiber.Ctx) error {
	if err := h.repo.DeleteAll(c.Context()); err != nil {
		return err
	}
	logger.Get().Info("Deleted all quiz history")
	return c.SendStatus(fiber.StatusNoContent)
}
