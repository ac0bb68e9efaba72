package service

import (
	"context"
	"time"

	"studybuddy/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockChatClient ---

type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) Complete(ctx context.Context, messages []domain.ChatMessage, maxTokens int) (string, error) {
	args := m.Called(ctx, messages, maxTokens)
	return args.String(0), args.Error(1)
}

// --- MockHistoryRepository ---

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Insert(ctx context.Context, record *domain.QuizHistory) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) AllRecords(ctx context.Context) ([]*domain.QuizHistory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizHistory), args.Error(1)
}

func (m *MockHistoryRepository) SessionIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockHistoryRepository) BySession(ctx context.Context, sessionID string) ([]*domain.QuizHistory, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizHistory), args.Error(1)
}

func (m *MockHistoryRepository) CategoryPerformance(ctx context.Context) ([]domain.CategoryPerformance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryPerformance), args.Error(1)
}

func (m *MockHistoryRepository) WeakQuestions(ctx context.Context, categories []string, limit int) ([]*domain.QuizHistory, error) {
	args := m.Called(ctx, categories, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizHistory), args.Error(1)
}

func (m *MockHistoryRepository) TouchReview(ctx context.Context, id int64, reviewedAt time.Time) error {
	args := m.Called(ctx, id, reviewedAt)
	return args.Error(0)
}

func (m *MockHistoryRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHistoryRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockHistoryRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockAnswerCache ---

type MockAnswerCache struct {
	mock.Mock
}

func (m *MockAnswerCache) Get(ctx context.Context, question, userAnswer string) (*domain.QuizResult, error) {
	args := m.Called(ctx, question, userAnswer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizResult), args.Error(1)
}

func (m *MockAnswerCache) Put(ctx context.Context, question, userAnswer string, result *domain.QuizResult) error {
	args := m.Called(ctx, question, userAnswer, result)
	return args.Error(0)
}

// scriptedChatClient replays canned completions in order. Unlike the testify
// mock it keeps per-call token budgets for later inspection.
type scriptedChatClient struct {
	responses []scriptedResponse
	calls     int
	maxTokens []int
}

type scriptedResponse struct {
	text string
	err  error
}

func (c *scriptedChatClient) Complete(ctx context.Context, messages []domain.ChatMessage, maxTokens int) (string, error) {
	c.maxTokens = append(c.maxTokens, maxTokens)
	if c.calls >= len(c.responses) {
		return "", domain.NewEmptyCompletionError()
	}
	r := c.responses[c.calls]
	c.calls++
	return r.text, r.err
}
