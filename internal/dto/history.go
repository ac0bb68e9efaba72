package dto

import (
	"time"

	"studybuddy/internal/domain"
)

// HistoryRecordResponse represents one answered question in the API response
type HistoryRecordResponse struct {
	ID            int64     `json:"id"`
	Category      string    `json:"category"`
	Question      string    `json:"question"`
	UserAnswer    string    `json:"user_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	IsCorrect     bool      `json:"is_correct"`
	Explanation   string    `json:"explanation"`
	Timestamp     time.Time `json:"timestamp"`
	ReviewCount   int       `json:"review_count"`
	LastReviewed  time.Time `json:"last_reviewed"`
	Options       []string  `json:"options"`
	SessionID     string    `json:"session_id,omitempty"`
}

// HistoryListResponse wraps a list of history records
type HistoryListResponse struct {
	Records []HistoryRecordResponse `json:"records"`
}

// SessionListResponse lists quiz session ids, most recent first
type SessionListResponse struct {
	SessionIDs []string `json:"session_ids"`
}

// ToHistoryRecordResponse converts a domain record to its API representation.
func ToHistoryRecordResponse(record *domain.QuizHistory) HistoryRecordResponse {
	options := record.Options
	if options == nil {
		options = []string{}
	}
	return HistoryRecordResponse{
		ID:            record.ID,
		Category:      record.Category,
		Question:      record.Question,
		UserAnswer:    record.UserAnswer,
		CorrectAnswer: record.CorrectAnswer,
		IsCorrect:     record.IsCorrect,
		Explanation:   record.Explanation,
		Timestamp:     record.Timestamp,
		ReviewCount:   record.ReviewCount,
		LastReviewed:  record.LastReviewed,
		Options:       options,
		SessionID:     record.SessionID,
	}
}

// ToHistoryListResponse converts a list of domain records.
func ToHistoryListResponse(records []*domain.QuizHistory) HistoryListResponse {
	out := HistoryListResponse{Records: make([]HistoryRecordResponse, 0, len(records))}
	for _, record := range records {
		out.Records = append(out.Records, ToHistoryRecordResponse(record))
	}
	return out
}
