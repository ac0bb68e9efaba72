package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"studybuddy/internal/domain"
	"studybuddy/internal/dto"
	"studybuddy/internal/handler"
	"studybuddy/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

// MockHistoryRepository
type MockHistoryRepository struct {
	InsertFunc              func(ctx context.Context, record *domain.QuizHistory) error
	AllRecordsFunc          func(ctx context.Context) ([]*domain.QuizHistory, error)
	SessionIDsFunc          func(ctx context.Context) ([]string, error)
	BySessionFunc           func(ctx context.Context, sessionID string) ([]*domain.QuizHistory, error)
	CategoryPerformanceFunc func(ctx context.Context) ([]domain.CategoryPerformance, error)
	WeakQuestionsFunc       func(ctx context.Context, categories []string, limit int) ([]*domain.QuizHistory, error)
	TouchReviewFunc         func(ctx context.Context, id int64, reviewedAt time.Time) error
	DeleteByIDFunc          func(ctx context.Context, id int64) error
	DeleteBySessionFunc     func(ctx context.Context, sessionID string) error
	DeleteAllFunc           func(ctx context.Context) error
}

func (m *MockHistoryRepository) Insert(ctx context.Context, record *domain.QuizHistory) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, record)
	}
	panic("MockHistoryRepository.InsertFunc not implemented")
}
func (m *MockHistoryRepository) AllRecords(ctx context.Context) ([]*domain.QuizHistory, error) {
	if m.AllRecordsFunc != nil {
		return m.AllRecordsFunc(ctx)
	}
	panic("MockHistoryRepository.AllRecordsFunc not implemented")
}
func (m *MockHistoryRepository) SessionIDs(ctx context.Context) ([]string, error) {
	if m.SessionIDsFunc != nil {
		return m.SessionIDsFunc(ctx)
	}
	panic("MockHistoryRepository.SessionIDsFunc not implemented")
}
func (m *MockHistoryRepository) BySession(ctx context.Context, sessionID string) ([]*domain.QuizHistory, error) {
	if m.BySessionFunc != nil {
		return m.BySessionFunc(ctx, sessionID)
	}
	panic("MockHistoryRepository.BySessionFunc not implemented")
}
func (m *MockHistoryRepository) CategoryPerformance(ctx context.Context) ([]domain.CategoryPerformance, error) {
	if m.CategoryPerformanceFunc != nil {
		return m.CategoryPerformanceFunc(ctx)
	}
	panic("MockHistoryRepository.CategoryPerformanceFunc not implemented")
}
func (m *MockHistoryRepository) WeakQuestions(ctx context.Context, categories []string, limit int) ([]*domain.QuizHistory, error) {
	if m.WeakQuestionsFunc != nil {
		return m.WeakQuestionsFunc(ctx, categories, limit)
	}
	panic("MockHistoryRepository.WeakQuestionsFunc not implemented")
}
func (m *MockHistoryRepository) TouchReview(ctx context.Context, id int64, reviewedAt time.Time) error {
	if m.TouchReviewFunc != nil {
		return m.TouchReviewFunc(ctx, id, reviewedAt)
	}
	panic("MockHistoryRepository.TouchReviewFunc not implemented")
}
func (m *MockHistoryRepository) DeleteByID(ctx context.Context, id int64) error {
	if m.DeleteByIDFunc != nil {
		return m.DeleteByIDFunc(ctx, id)
	}
	panic("MockHistoryRepository.DeleteByIDFunc not implemented")
}
func (m *MockHistoryRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	if m.DeleteBySessionFunc != nil {
		return m.DeleteBySessionFunc(ctx, sessionID)
	}
	panic("MockHistoryRepository.DeleteBySessionFunc not implemented")
}
func (m *MockHistoryRepository) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	panic("MockHistoryRepository.DeleteAllFunc not implemented")
}

func newHistoryApp(repo domain.HistoryRepository) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	h := handler.NewHistoryHandler(repo)
	app.Get("/api/history/records", h.ListRecords)
	app.Delete("/api/history/records", h.DeleteAll)
	app.Delete("/api/history/records/:id", h.DeleteRecord)
	app.Get("/api/history/sessions", h.ListSessions)
	app.Get("/api/history/sessions/:id", h.GetSession)
	app.Delete("/api/history/sessions/:id", h.DeleteSession)
	return app
}

func TestListRecords(t *testing.T) {
	repo := &MockHistoryRepository{
		AllRecordsFunc: func(ctx context.Context) ([]*domain.QuizHistory, error) {
			return []*domain.QuizHistory{
				{
					ID:        1,
					Category:  "fractions",
					Question:  "What is 1/2 + 1/4?",
					IsCorrect: true,
					Options:   []string{"1/2", "3/4"},
					SessionID: "01SESSION",
				},
			}, nil
		},
	}
	app := newHistoryApp(repo)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/history/records", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.HistoryListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Records, 1)
	assert.Equal(t, "What is 1/2 + 1/4?", body.Records[0].Question)
	assert.Equal(t, []string{"1/2", "3/4"}, body.Records[0].Options)
}

func TestListRecordsRepositoryError(t *testing.T) {
	repo := &MockHistoryRepository{
		AllRecordsFunc: func(ctx context.Context) ([]*domain.QuizHistory, error) {
			return nil, domain.NewPersistenceError(errors.New("database is locked"))
		},
	}
	app := newHistoryApp(repo)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/history/records", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.ErrPersistence), body.Code)
}

func TestListSessions(t *testing.T) {
	repo := &MockHistoryRepository{
		SessionIDsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"01NEWER", "01OLDER"}, nil
		},
	}
	app := newHistoryApp(repo)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/history/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.SessionListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"01NEWER", "01OLDER"}, body.SessionIDs)
}

func TestGetSessionNotFound(t *testing.T) {
	repo := &MockHistoryRepository{
		BySessionFunc: func(ctx context.Context, sessionID string) ([]*domain.QuizHistory, error) {
			return nil, nil
		},
	}
	app := newHistoryApp(repo)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/history/sessions/01MISSING", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteSession(t *testing.T) {
	var deleted string
	repo := &MockHistoryRepository{
		DeleteBySessionFunc: func(ctx context.Context, sessionID string) error {
			deleted = sessionID
			return nil
		},
	}
	app := newHistoryApp(repo)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/history/sessions/01GONE", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "01GONE", deleted)
}

func TestDeleteRecordRejectsNonNumericID(t *testing.T) {
	app := newHistoryApp(&MockHistoryRepository{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/history/records/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteAll(t *testing.T) {
	called := false
	repo := &MockHistoryRepository{
		DeleteAllFunc: func(ctx context.Context) error {
			called = true
			return nil
		},
	}
	app := newHistoryApp(repo)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/history/records", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.True(t, called)
}
