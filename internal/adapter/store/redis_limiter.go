package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter tracks per-user daily token usage. Keys roll over at UTC
// midnight and expire after two days.
type RedisLimiter struct {
	client *redis.Client
	limit  int // max tokens per user per day
}

func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
	}
}

func (r *RedisLimiter) CheckLimit(ctx context.Context, userID string) (bool, error) {
	val, err := r.client.Get(ctx, usageKey(userID)).Result()
	if err == redis.Nil {
		return true, nil // no usage yet today
	}
	if err != nil {
		return false, err
	}
	usage, _ := strconv.Atoi(val)
	return usage < r.limit, nil
}

func (r *RedisLimiter) Increment(ctx context.Context, userID string, tokens int) error {
	key := usageKey(userID)
	if err := r.client.IncrBy(ctx, key, int64(tokens)).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, 48*time.Hour).Err()
}

func usageKey(userID string) string {
	return "usage:" + userID + ":" + time.Now().UTC().Format("20060102")
}
