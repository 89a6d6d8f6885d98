// Package ratelimit bounds guest submissions with a Redis fixed window.
// The limiter is optional infrastructure: when Redis is not configured the
// handlers run without one, and Redis errors fail open so a cache outage
// never blocks the Q&A.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/summit-companion/backend/pkg/redis"
)

const window = time.Minute

// Limiter is a fixed-window counter keyed by caller-supplied strings
// (e.g. "qa:submit:<session_id>").
type Limiter struct {
	client *redis.Client
	max    int
	logger *zap.Logger
}

// New creates a limiter allowing max operations per key per minute.
func New(client *redis.Client, max int, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, max: max, logger: logger}
}

// Allow reports whether the key is under its window budget, counting this call.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(window.Seconds()))

	n, err := l.client.Incr(ctx, windowKey).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	if n == 1 {
		if err := l.client.Expire(ctx, windowKey, window).Err(); err != nil {
			l.logger.Warn("rate limiter expire", zap.Error(err))
		}
	}
	return n <= int64(l.max)
}
