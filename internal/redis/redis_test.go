package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	mr, client := newTestClient(t)
	limiter := NewRateLimiter(client, RateLimitConfig{MessageLimit: 2, MessageWindow: time.Minute})
	ctx := context.Background()

	first, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)

	second, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, third.Allowed)

	other, err := limiter.AllowMessage(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	mr.FastForward(2 * time.Minute)
	again, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, again.Allowed)

	require.NoError(t, limiter.ResetUser(ctx, "u1"))
	assert.False(t, mr.Exists("ratelimit:u1:messages"))
}

func TestRateLimiterDisabledWhenLimitZero(t *testing.T) {
	_, client := newTestClient(t)
	limiter := NewRateLimiter(client, RateLimitConfig{})
	res, err := limiter.AllowReaction(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

type countingResolver struct {
	calls int
	err   error
}

func (r *countingResolver) ResolveURL(_ context.Context, key string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return "https://files.example/" + key, nil
}

func TestCachedURLResolver(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewCacheStore(client, CacheConfig{URLTTL: time.Minute})
	next := &countingResolver{}
	resolver := NewCachedURLResolver(cache, next)
	ctx := context.Background()

	url, err := resolver.ResolveURL(ctx, "uploads/a")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/uploads/a", url)

	url, err = resolver.ResolveURL(ctx, "uploads/a")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/uploads/a", url)
	assert.Equal(t, 1, next.calls)

	mr.FastForward(2 * time.Minute)
	_, err = resolver.ResolveURL(ctx, "uploads/a")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)

	next.err = errors.New("s3 down")
	_, err = resolver.ResolveURL(ctx, "uploads/b")
	assert.Error(t, err)
}

func TestPublisherAndSubscriber(t *testing.T) {
	_, client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 1)
	ready := make(chan struct{})
	sub := NewSubscriber(client)
	go func() {
		close(ready)
		_ = sub.Subscribe(ctx, []string{"channel:workspace:*"}, func(channel string, payload []byte) {
			select {
			case got <- channel + "|" + string(payload):
			default:
			}
		})
	}()
	<-ready

	pub := NewPublisher(client)
	require.Eventually(t, func() bool {
		_ = pub.Publish(ctx, "channel:workspace:w1", []byte("hello"))
		select {
		case msg := <-got:
			return assert.Equal(t, "channel:workspace:w1|hello", msg)
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)
}
