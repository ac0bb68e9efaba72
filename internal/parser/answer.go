package parser

import (
	"encoding/json"
	"strings"

	"studybuddy/internal/domain"
)

// FallbackExplanation is used when no JSON block could be recovered from the
// model's answer check.
const FallbackExplanation = "Could not parse response. Please check manually."

// AnswerContext supplies the defaults for fields the model omitted.
type AnswerContext struct {
	Category   string
	Question   string
	UserAnswer string
}

// ExtractQuizResult locates the JSON block in the model's answer-check reply
// and builds a QuizResult from it. Missing fields default from ctx; is_correct
// defaults to false. It never fails: unparseable input yields a fallback
// result marked incorrect, so the quiz can always advance.
func ExtractQuizResult(raw string, ctx AnswerContext) *domain.QuizResult {
	category := ctx.Category
	if category == "" {
		category = "General"
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return fallbackResult(category, ctx)
	}

	var payload struct {
		Category      *string `json:"category"`
		Question      *string `json:"question"`
		UserAnswer    *string `json:"user_answer"`
		CorrectAnswer *string `json:"correct_answer"`
		IsCorrect     *bool   `json:"is_correct"`
		Explanation   *string `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return fallbackResult(category, ctx)
	}

	result := &domain.QuizResult{
		Category:   category,
		Question:   ctx.Question,
		UserAnswer: ctx.UserAnswer,
	}
	if payload.Category != nil && *payload.Category != "" {
		result.Category = *payload.Category
	}
	if payload.Question != nil && *payload.Question != "" {
		result.Question = *payload.Question
	}
	if payload.UserAnswer != nil && *payload.UserAnswer != "" {
		result.UserAnswer = *payload.UserAnswer
	}
	if payload.CorrectAnswer != nil {
		result.CorrectAnswer = *payload.CorrectAnswer
	}
	if payload.IsCorrect != nil {
		result.IsCorrect = *payload.IsCorrect
	}
	if payload.Explanation != nil {
		result.Explanation = *payload.Explanation
	}
	return result
}

func fallbackResult(category string, ctx AnswerContext) *domain.QuizResult {
	return &domain.QuizResult{
		Category:    category,
		Question:    ctx.Question,
		UserAnswer:  ctx.UserAnswer,
		IsCorrect:   false,
		Explanation: FallbackExplanation,
	}
}
