package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studybuddy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache is an in-memory domain.Cache for exercising the answer cache
// without a redis server.
type fakeCache struct {
	hashes  map[string]map[string]string
	ttls    map[string]time.Duration
	hgetErr error
	hsetErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		hashes: make(map[string]map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (c *fakeCache) HGet(ctx context.Context, key, field string) (string, error) {
	if c.hgetErr != nil {
		return "", c.hgetErr
	}
	value, ok := c.hashes[key][field]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return value, nil
}

func (c *fakeCache) HSet(ctx context.Context, key, field, value string) error {
	if c.hsetErr != nil {
		return c.hsetErr
	}
	if c.hashes[key] == nil {
		c.hashes[key] = make(map[string]string)
	}
	c.hashes[key][field] = value
	return nil
}

func (c *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	c.ttls[key] = expiration
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }

func sampleResult() *domain.QuizResult {
	return &domain.QuizResult{
		Category:      "fractions",
		Question:      "What is 1/2 + 1/4?",
		UserAnswer:    "3/4",
		CorrectAnswer: "3/4",
		IsCorrect:     true,
		Explanation:   "Common denominators.",
		Options:       []string{"1/2", "3/4", "2/3", "1/6"},
		SessionID:     "01TESTSESSION",
	}
}

func TestAnswerCacheRoundTrip(t *testing.T) {
	fake := newFakeCache()
	svc := NewAnswerCacheService(fake)
	ctx := context.Background()
	result := sampleResult()

	require.NoError(t, svc.Put(ctx, result.Question, result.UserAnswer, result))

	cached, err := svc.Get(ctx, result.Question, result.UserAnswer)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, result.Category, cached.Category)
	assert.Equal(t, result.CorrectAnswer, cached.CorrectAnswer)
	assert.True(t, cached.IsCorrect)
	// Session-specific fields are never cached.
	assert.Empty(t, cached.SessionID)
	assert.Nil(t, cached.Options)
	// The original result is left intact.
	assert.Equal(t, "01TESTSESSION", result.SessionID)
	assert.NotNil(t, result.Options)
}

func TestAnswerCacheSetsExpiration(t *testing.T) {
	fake := newFakeCache()
	svc := NewAnswerCacheService(fake)
	result := sampleResult()

	require.NoError(t, svc.Put(context.Background(), result.Question, result.UserAnswer, result))

	require.Len(t, fake.ttls, 1)
	for _, ttl := range fake.ttls {
		assert.Equal(t, answerCacheExpiration, ttl)
	}
}

func TestAnswerCacheMissReturnsNil(t *testing.T) {
	svc := NewAnswerCacheService(newFakeCache())

	cached, err := svc.Get(context.Background(), "What is 1/2 + 1/4?", "3/4")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestAnswerCacheFieldIgnoresCaseAndSpace(t *testing.T) {
	fake := newFakeCache()
	svc := NewAnswerCacheService(fake)
	result := sampleResult()
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, result.Question, "3/4", result))

	cached, err := svc.Get(ctx, result.Question, "  3/4  ")
	require.NoError(t, err)
	assert.NotNil(t, cached)
}

func TestAnswerCacheCorruptEntryIsAMiss(t *testing.T) {
	fake := newFakeCache()
	svc := NewAnswerCacheService(fake)
	ctx := context.Background()
	result := sampleResult()

	require.NoError(t, svc.Put(ctx, result.Question, result.UserAnswer, result))
	for key, fields := range fake.hashes {
		for field := range fields {
			fake.hashes[key][field] = "{not json"
		}
	}

	cached, err := svc.Get(ctx, result.Question, result.UserAnswer)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestAnswerCachePropagatesBackendError(t *testing.T) {
	fake := newFakeCache()
	fake.hgetErr = errors.New("connection refused")
	svc := NewAnswerCacheService(fake)

	_, err := svc.Get(context.Background(), "What is 1/2 + 1/4?", "3/4")
	require.Error(t, err)
}

func TestAnswerCacheNilBackendIsNoop(t *testing.T) {
	svc := NewAnswerCacheService(nil)
	ctx := context.Background()
	result := sampleResult()

	require.NoError(t, svc.Put(ctx, result.Question, result.UserAnswer, result))
	cached, err := svc.Get(ctx, result.Question, result.UserAnswer)
	require.NoError(t, err)
	assert.Nil(t, cached)
}
