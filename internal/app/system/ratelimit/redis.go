// internal/app/system/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter shared by every instance that
// points at the same Redis. Each window is one INCR'd key that expires
// with the window.
type RedisLimiter struct {
	rdb      redis.UniversalClient
	prefix   string
	limit    int64
	duration time.Duration
}

func NewRedis(rdb redis.UniversalClient, prefix string, limit int, duration time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "guildhub:rl"
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: int64(limit), duration: duration}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(l.duration)
	k := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, l.duration)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= l.limit, nil
}
