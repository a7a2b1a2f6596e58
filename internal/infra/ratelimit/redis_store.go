package ratelimit

import (
	"context"
	"errors"

	"weather-api/pkg/redis"
)

// RedisStore shares the windows between replicas through Redis
type RedisStore struct {
	limiter *redis.RateLimiter
}

func NewRedisStore(limiter *redis.RateLimiter) *RedisStore {
	return &RedisStore{limiter: limiter}
}

func (s *RedisStore) Hit(ctx context.Context, key string) (Decision, error) {
	acquisition, err := s.limiter.Acquire(ctx, key)
	if err != nil && !errors.Is(err, redis.ErrLimitReached) {
		return Decision{}, err
	}

	return Decision{
		Allowed:   acquisition.Allowed(),
		Limit:     acquisition.Limit,
		Remaining: acquisition.Remaining(),
		ResetAt:   acquisition.ResetAt,
	}, nil
}
