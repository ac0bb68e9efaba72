package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// OptionList stores a question's answer choices as a JSON array string.
type OptionList []string

// Value implements the driver.Valuer interface
func (o OptionList) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (o *OptionList) Scan(value interface{}) error {
	if value == nil {
		*o = OptionList{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("OptionList Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*o = OptionList{}
		return nil
	}
	return json.Unmarshal(bytesToParse, o)
}

// QuizHistory is the quiz_history table row. Timestamps are unix milliseconds.
type QuizHistory struct {
	ID            int64          `db:"id"`
	Category      string         `db:"category"`
	Question      string         `db:"question"`
	UserAnswer    string         `db:"user_answer"`
	CorrectAnswer string         `db:"correct_answer"`
	IsCorrect     bool           `db:"is_correct"`
	Explanation   string         `db:"explanation"`
	Timestamp     int64          `db:"timestamp"`
	ReviewCount   int            `db:"review_count"`
	LastReviewed  int64          `db:"last_reviewed"`
	Options       OptionList     `db:"options"`
	SessionID     sql.NullString `db:"session_id"`
}

// CategoryPerformance is the per-category aggregate row.
type CategoryPerformance struct {
	Category  string `db:"category"`
	Total     int    `db:"total"`
	Incorrect int    `db:"incorrect"`
}
