package repository

import (
	"context"
	"database/sql"
	"time"

	"studybuddy/internal/domain"
	"studybuddy/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxHistoryRepository implements domain.HistoryRepository using sqlx.
type sqlxHistoryRepository struct {
	db *sqlx.DB
}

// NewSQLXHistoryRepository creates a new history repository over the given database.
func NewSQLXHistoryRepository(db *sqlx.DB) domain.HistoryRepository {
	return &sqlxHistoryRepository{db: db}
}

func toDomainHistory(m *models.QuizHistory) *domain.QuizHistory {
	if m == nil {
		return nil
	}
	var options []string
	if len(m.Options) > 0 {
		options = m.Options
	}
	return &domain.QuizHistory{
		ID:            m.ID,
		Category:      m.Category,
		Question:      m.Question,
		UserAnswer:    m.UserAnswer,
		CorrectAnswer: m.CorrectAnswer,
		IsCorrect:     m.IsCorrect,
		Explanation:   m.Explanation,
		Timestamp:     time.UnixMilli(m.Timestamp),
		ReviewCount:   m.ReviewCount,
		LastReviewed:  time.UnixMilli(m.LastReviewed),
		Options:       options,
		SessionID:     m.SessionID.String,
	}
}

func fromDomainHistory(d *domain.QuizHistory) *models.QuizHistory {
	if d == nil {
		return nil
	}
	var sessionID sql.NullString
	if d.SessionID != "" {
		sessionID = sql.NullString{String: d.SessionID, Valid: true}
	}
	return &models.QuizHistory{
		ID:            d.ID,
		Category:      d.Category,
		Question:      d.Question,
		UserAnswer:    d.UserAnswer,
		CorrectAnswer: d.CorrectAnswer,
		IsCorrect:     d.IsCorrect,
		Explanation:   d.Explanation,
		Timestamp:     d.Timestamp.UnixMilli(),
		ReviewCount:   d.ReviewCount,
		LastReviewed:  d.LastReviewed.UnixMilli(),
		Options:       models.OptionList(d.Options),
		SessionID:     sessionID,
	}
}

// Insert persists a new answered question.
func (r *sqlxHistoryRepository) Insert(ctx context.Context, record *domain.QuizHistory) error {
	m := fromDomainHistory(record)
	if m.Timestamp == 0 {
		m.Timestamp = time.Now().UnixMilli()
	}
	if m.LastReviewed == 0 {
		m.LastReviewed = m.Timestamp
	}

	query := `INSERT INTO quiz_history
		(category, question, user_answer, correct_answer, is_correct, explanation,
		 timestamp, review_count, last_reviewed, options, session_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	optionsValue, err := m.Options.Value()
	if err != nil {
		return domain.NewPersistenceError(err)
	}

	result, err := r.db.ExecContext(ctx, query,
		m.Category, m.Question, m.UserAnswer, m.CorrectAnswer, m.IsCorrect,
		m.Explanation, m.Timestamp, m.ReviewCount, m.LastReviewed,
		optionsValue, m.SessionID)
	if err != nil {
		return domain.NewPersistenceError(err)
	}
	if id, err := result.LastInsertId(); err == nil {
		record.ID = id
	}
	return nil
}

// AllRecords returns every record, newest first.
func (r *sqlxHistoryRepository) AllRecords(ctx context.Context) ([]*domain.QuizHistory, error) {
	var rows []models.QuizHistory
	query := `SELECT * FROM quiz_history ORDER BY timestamp DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.NewInternalError("Failed to query quiz history", err)
	}
	return toDomainHistories(rows), nil
}

// SessionIDs returns distinct session ids ordered by most recent activity.
func (r *sqlxHistoryRepository) SessionIDs(ctx context.Context) ([]string, error) {
	var ids []string
	query := `SELECT session_id FROM quiz_history
		WHERE session_id IS NOT NULL
		GROUP BY session_id
		ORDER BY MAX(timestamp) DESC`
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, domain.NewInternalError("Failed to query session ids", err)
	}
	return ids, nil
}

// BySession returns one session's records in the order they were answered.
func (r *sqlxHistoryRepository) BySession(ctx context.Context, sessionID string) ([]*domain.QuizHistory, error) {
	var rows []models.QuizHistory
	query := `SELECT * FROM quiz_history WHERE session_id = ? ORDER BY timestamp ASC`
	if err := r.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, domain.NewInternalError("Failed to query session records", err)
	}
	return toDomainHistories(rows), nil
}

// CategoryPerformance returns total and incorrect counts per category.
func (r *sqlxHistoryRepository) CategoryPerformance(ctx context.Context) ([]domain.CategoryPerformance, error) {
	var rows []models.CategoryPerformance
	query := `SELECT category,
		COUNT(*) AS total,
		SUM(CASE WHEN is_correct = 0 THEN 1 ELSE 0 END) AS incorrect
		FROM quiz_history
		GROUP BY category`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.NewInternalError("Failed to query category performance", err)
	}

	performance := make([]domain.CategoryPerformance, 0, len(rows))
	for _, row := range rows {
		performance = append(performance, domain.CategoryPerformance{
			Category:  row.Category,
			Total:     row.Total,
			Incorrect: row.Incorrect,
		})
	}
	return performance, nil
}

// WeakQuestions returns missed questions in the given categories, spaced-repetition
// ordered: least recently reviewed first, then fewest reviews.
func (r *sqlxHistoryRepository) WeakQuestions(ctx context.Context, categories []string, limit int) ([]*domain.QuizHistory, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM quiz_history
		WHERE category IN (?) AND is_correct = 0
		ORDER BY last_reviewed ASC, review_count ASC
		LIMIT ?`, categories, limit)
	if err != nil {
		return nil, domain.NewInternalError("Failed to build weak questions query", err)
	}

	var rows []models.QuizHistory
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, domain.NewInternalError("Failed to query weak questions", err)
	}
	return toDomainHistories(rows), nil
}

// TouchReview records that a question was used as a review seed.
func (r *sqlxHistoryRepository) TouchReview(ctx context.Context, id int64, reviewedAt time.Time) error {
	query := `UPDATE quiz_history
		SET review_count = review_count + 1, last_reviewed = ?
		WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, reviewedAt.UnixMilli(), id); err != nil {
		return domain.NewPersistenceError(err)
	}
	return nil
}

func (r *sqlxHistoryRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM quiz_history WHERE id = ?`, id); err != nil {
		return domain.NewPersistenceError(err)
	}
	return nil
}

func (r *sqlxHistoryRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM quiz_history WHERE session_id = ?`, sessionID); err != nil {
		return domain.NewPersistenceError(err)
	}
	return nil
}

func (r *sqlxHistoryRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM quiz_history`); err != nil {
		return domain.NewPersistenceError(err)
	}
	return nil
}

func toDomainHistories(rows []models.QuizHistory) []*domain.QuizHistory {
	records := make([]*domain.QuizHistory, 0, len(rows))
	for i := range rows {
		records = append(records, toDomainHistory(&rows[i]))
	}
	return records
}
