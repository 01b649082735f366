package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-form-service/internal/cache"
	"github.com/SAP-F-2025/exam-form-service/internal/models"
)

const sessionKeyPrefix = "exam:session:"

type redisSessionRepository struct {
	cache cache.CacheService
	ttl   time.Duration
}

// NewRedisSessionRepository stores sessions as JSON under exam:session:<id>.
// Expiry is left to redis.
func NewRedisSessionRepository(c cache.CacheService, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{cache: c, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *redisSessionRepository) Get(ctx context.Context, sessionID string) (*models.AnswerState, error) {
	var state models.AnswerState
	if err := r.cache.Get(ctx, sessionKey(sessionID), &state); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if state.Values == nil {
		state.Values = make(map[string]string)
	}
	if state.Lists == nil {
		state.Lists = make(map[string][]string)
	}
	return &state, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, state *models.AnswerState) error {
	if err := r.cache.Set(ctx, sessionKey(state.SessionID), state, r.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.cache.Delete(ctx, sessionKey(sessionID))
}

// DeleteExpired is a no-op; redis expires keys itself.
func (r *redisSessionRepository) DeleteExpired(ctx context.Context) error {
	return nil
}
