package ratelimit

import (
	"context"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"shopfolio/internal/platform/redis"
)

// RedisStore implements the sliding window over a sorted set per key, so
// multiple server instances share one counter.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := time.Now()
	cutoff := now.Add(-window)
	redisKey := "ratelimit:" + key

	var card *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
		card = pipe.ZCard(ctx, redisKey)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	count := int(card.Val())
	if count >= limit {
		return Result{
			Allowed: false,
			Limit:   limit,
			ResetAt: now.Add(window),
		}, nil
	}

	member := strconv.FormatInt(now.UnixNano(), 10)
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZAdd(ctx, redisKey, goredis.Z{Score: float64(now.UnixNano()), Member: member})
		pipe.Expire(ctx, redisKey, window)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - count - 1,
		ResetAt:   now.Add(window),
	}, nil
}
