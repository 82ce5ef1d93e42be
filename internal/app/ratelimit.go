// internal/app/ratelimit.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/trekker/logger"
)

const rateLimitKeyPrefix = "kardemumma:ratelimit:"

// RateLimiter is a fixed-window counter backed by redis. When disabled
// or when redis is unreachable it lets requests through.
type RateLimiter struct {
	enabled bool
	redis   *redis.Client
	limit   int
	window  time.Duration
}

func NewRateLimiter(config *Config) (*RateLimiter, error) {
	if !config.RateLimit.Enabled {
		return &RateLimiter{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.RateLimit.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RateLimiter{
		enabled: true,
		redis:   client,
		limit:   config.RateLimit.Requests,
		window:  config.RateLimitWindow(),
	}, nil
}

func (rl *RateLimiter) Close() error {
	if rl.redis != nil {
		return rl.redis.Close()
	}
	return nil
}

// Allow reports whether the caller identified by key may proceed
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if !rl.enabled {
		return true
	}

	redisKey := rateLimitKeyPrefix + key
	counter, err := rl.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		logger.Debug.Printf("Rate limiter incr failed, letting request through: %v", err)
		return true
	}
	if counter == 1 {
		if err := rl.redis.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			logger.Debug.Printf("Rate limiter expire failed: %v", err)
		}
	}

	return int(counter) <= rl.limit
}
