package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitRepository keeps per-minute counters as expiring Redis keys.
type RedisRateLimitRepository struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

// NewRedisRateLimitRepository constructs the store. Keys expire after retention.
func NewRedisRateLimitRepository(client *redis.Client, retention time.Duration) *RedisRateLimitRepository {
	if retention <= 0 {
		retention = 2 * time.Hour
	}
	return &RedisRateLimitRepository{client: client, prefix: "ratelimit", retention: retention}
}

// MinuteCount returns the count for the window, zero when the key is absent.
func (r *RedisRateLimitRepository) MinuteCount(ctx context.Context, keyHash string, windowStart time.Time) (int, error) {
	count, err := r.client.Get(ctx, r.counterKey(keyHash, windowStart)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get minute counter: %w", err)
	}
	return count, nil
}

// HourTotal sums the minute keys in the hour starting at since. Windows that
// have not happened yet are simply absent.
func (r *RedisRateLimitRepository) HourTotal(ctx context.Context, keyHash string, since time.Time) (int, error) {
	keys := r.windowKeys(keyHash, since, since.Add(time.Hour-time.Minute))
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("sum hour counters: %w", err)
	}
	return sumCounters(values), nil
}

// Increment bumps the window counter and refreshes its expiry in one round trip.
func (r *RedisRateLimitRepository) Increment(ctx context.Context, keyHash string, windowStart time.Time) (int, error) {
	key := r.counterKey(keyHash, windowStart)
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, r.retention)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("increment counter: %w", err)
	}
	return int(incr.Val()), nil
}

// PurgeBefore is a no-op: Redis expires counters on its own.
func (r *RedisRateLimitRepository) PurgeBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *RedisRateLimitRepository) counterKey(keyHash string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", r.prefix, keyHash, windowStart.UTC().Truncate(time.Minute).Unix())
}

func (r *RedisRateLimitRepository) windowKeys(keyHash string, since, until time.Time) []string {
	start := since.UTC().Truncate(time.Minute)
	end := until.UTC().Truncate(time.Minute)
	keys := make([]string, 0, 60)
	for w := start; !w.After(end); w = w.Add(time.Minute) {
		keys = append(keys, r.counterKey(keyHash, w))
	}
	return keys
}

func sumCounters(values []interface{}) int {
	total := 0
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		total += n
	}
	return total
}
