package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key patterns:
// - ratelimit:{user_id}:messages - per-window message creation limit
// - ratelimit:{user_id}:reactions - per-window reaction toggle limit
// - ratelimit:{user_id}:ws - per-window websocket connection limit

type RateLimitConfig struct {
	MessageLimit   int
	MessageWindow  time.Duration
	ReactionLimit  int
	ReactionWindow time.Duration
	ConnectLimit   int
	ConnectWindow  time.Duration
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MessageLimit:   30,
		MessageWindow:  60 * time.Second,
		ReactionLimit:  60,
		ReactionWindow: 60 * time.Second,
		ConnectLimit:   10,
		ConnectWindow:  60 * time.Second,
	}
}

type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	Limit     int
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

func (r *RateLimiter) AllowMessage(ctx context.Context, userID string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, limitKey(userID, "messages"), r.config.MessageLimit, r.config.MessageWindow)
}

func (r *RateLimiter) AllowReaction(ctx context.Context, userID string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, limitKey(userID, "reactions"), r.config.ReactionLimit, r.config.ReactionWindow)
}

func (r *RateLimiter) AllowWebSocket(ctx context.Context, userID string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, limitKey(userID, "ws"), r.config.ConnectLimit, r.config.ConnectWindow)
}

// ResetUser clears every counter held for the user.
func (r *RateLimiter) ResetUser(ctx context.Context, userID string) error {
	return r.client.Del(ctx,
		limitKey(userID, "messages"),
		limitKey(userID, "reactions"),
		limitKey(userID, "ws"),
	).Err()
}

func limitKey(subject, action string) string {
	return fmt.Sprintf("ratelimit:%s:%s", subject, action)
}

// fixedWindowScript counts hits in a window that starts on the first hit and
// expires after ARGV[2] seconds. Returns {allowed, remaining, ttl}.
var fixedWindowScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = tonumber(redis.call('GET', key) or '0')

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		redis.call('INCR', key)
		if ttl == window then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	end
	return {0, 0, ttl}
`)

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	if limit <= 0 {
		return &RateLimitResult{Allowed: true, Remaining: 0, Limit: 0}, nil
	}
	result, err := fixedWindowScript.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}
	allowed, _ := resultSlice[0].(int64)
	remaining, _ := resultSlice[1].(int64)
	ttl, _ := resultSlice[2].(int64)

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetIn:   time.Duration(ttl) * time.Second,
		Limit:     limit,
	}, nil
}
