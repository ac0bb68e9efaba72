package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"studybuddy/internal/cache"
	"studybuddy/internal/domain"
	"studybuddy/internal/logger"

	"go.uber.org/zap"
)

const answerCacheExpiration = 24 * time.Hour

// AnswerCacheService caches answer-check evaluations per question so that
// re-answering an identical question with the same answer skips the LLM call.
// Session id and options are session-specific and are never cached; callers
// re-attach them from the live session.
type AnswerCacheService interface {
	Get(ctx context.Context, question, userAnswer string) (*domain.QuizResult, error)
	Put(ctx context.Context, question, userAnswer string, result *domain.QuizResult) error
}

type answerCacheService struct {
	cache domain.Cache
}

// NewAnswerCacheService creates an AnswerCacheService over the given cache.
func NewAnswerCacheService(c domain.Cache) AnswerCacheService {
	return &answerCacheService{cache: c}
}

// Get returns the cached evaluation for (question, answer), or (nil, nil) on miss.
func (s *answerCacheService) Get(ctx context.Context, question, userAnswer string) (*domain.QuizResult, error) {
	if s.cache == nil {
		return nil, nil
	}

	raw, err := s.cache.HGet(ctx, answerCacheKey(question), answerField(userAnswer))
	if err != nil {
		if err == domain.ErrCacheMiss {
			return nil, nil
		}
		return nil, err
	}

	var result domain.QuizResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logger.Get().Warn("Failed to unmarshal cached answer evaluation",
			zap.String("question", question), zap.Error(err))
		return nil, nil
	}
	return &result, nil
}

// Put stores an evaluation and refreshes the question hash's TTL.
func (s *answerCacheService) Put(ctx context.Context, question, userAnswer string, result *domain.QuizResult) error {
	if s.cache == nil {
		return nil
	}

	cacheable := *result
	cacheable.SessionID = ""
	cacheable.Options = nil

	payload, err := json.Marshal(&cacheable)
	if err != nil {
		return err
	}

	key := answerCacheKey(question)
	if err := s.cache.HSet(ctx, key, answerField(userAnswer), string(payload)); err != nil {
		return err
	}
	return s.cache.Expire(ctx, key, answerCacheExpiration)
}

func answerCacheKey(question string) string {
	return cache.GenerateCacheKey("review", "answer", hashText(question))
}

func answerField(userAnswer string) string {
	return hashText(strings.ToLower(strings.TrimSpace(userAnswer)))
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
