package domain

import (
	"context"
	"time"
)

// QuizResult is the immutable outcome of one answered question, produced by
// the answer-check parser and handed to the persistence layer.
type QuizResult struct {
	Category      string   `json:"category"`
	Question      string   `json:"question"`
	UserAnswer    string   `json:"user_answer"`
	CorrectAnswer string   `json:"correct_answer"`
	IsCorrect     bool     `json:"is_correct"`
	Explanation   string   `json:"explanation"`
	Options       []string `json:"options,omitempty"`
	SessionID     string   `json:"session_id,omitempty"`
}

// QuizHistory is one persisted answered question.
type QuizHistory struct {
	ID            int64
	Category      string
	Question      string
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
	Explanation   string
	Timestamp     time.Time
	ReviewCount   int
	LastReviewed  time.Time
	Options       []string
	// SessionID groups records of one quiz; empty for legacy ungrouped rows.
	SessionID string
}

// NewQuizHistory builds a history record from a quiz result.
func NewQuizHistory(result *QuizResult) *QuizHistory {
	now := time.Now()
	category := result.Category
	if category == "" {
		category = "General"
	}
	return &QuizHistory{
		Category:      category,
		Question:      result.Question,
		UserAnswer:    result.UserAnswer,
		CorrectAnswer: result.CorrectAnswer,
		IsCorrect:     result.IsCorrect,
		Explanation:   result.Explanation,
		Timestamp:     now,
		LastReviewed:  now,
		Options:       result.Options,
		SessionID:     result.SessionID,
	}
}

// CategoryPerformance aggregates answer history per category.
type CategoryPerformance struct {
	Category  string
	Total     int
	Incorrect int
}

// HistoryRepository is the persistence surface the review engine consumes.
// All access happens from the session worker, so implementations need only
// per-statement atomicity.
type HistoryRepository interface {
	Insert(ctx context.Context, record *QuizHistory) error
	AllRecords(ctx context.Context) ([]*QuizHistory, error)
	SessionIDs(ctx context.Context) ([]string, error)
	BySession(ctx context.Context, sessionID string) ([]*QuizHistory, error)
	CategoryPerformance(ctx context.Context) ([]CategoryPerformance, error)
	// WeakQuestions returns previously missed questions in the given categories,
	// ordered by (last_reviewed asc, review_count asc), capped at limit.
	WeakQuestions(ctx context.Context, categories []string, limit int) ([]*QuizHistory, error)
	// TouchReview bumps a record's review counter and last-reviewed time.
	TouchReview(ctx context.Context, id int64, reviewedAt time.Time) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteBySession(ctx context.Context, sessionID string) error
	DeleteAll(ctx context.Context) error
}
