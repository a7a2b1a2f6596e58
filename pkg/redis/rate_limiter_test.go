package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewClient(NewRedisConfig().WithHost(mr.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRateLimiterOptions_Validate(t *testing.T) {
	assert.NoError(t, NewRateLimiterOptions().Validate())
	assert.Error(t, NewRateLimiterOptions().WithMaxTransactionsPerMinute(0).Validate())
	assert.Error(t, NewRateLimiterOptions().WithWindow(0).Validate())
}

func TestRateLimiter_AcquireUntilQuota(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	limiter, err := NewRateLimiter(client, "requests", NewRateLimiterOptions().
		WithMaxTransactionsPerMinute(3).
		WithNamespace("weather_api"))
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		acq, err := limiter.Acquire(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, int64(i), acq.Count)
		assert.Equal(t, 3-i, acq.Remaining())
	}

	acq, err := limiter.Acquire(ctx, "10.0.0.1")
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.False(t, acq.Allowed())
	assert.Equal(t, 0, acq.Remaining())
	assert.WithinDuration(t, time.Now().Add(time.Minute), acq.ResetAt, 2*time.Second)

	assert.True(t, mr.Exists("weather_api::requests::10.0.0.1"))
	assert.Equal(t, time.Minute, mr.TTL("weather_api::requests::10.0.0.1"))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	limiter, err := NewRateLimiter(client, "requests", NewRateLimiterOptions().WithMaxTransactionsPerMinute(1))
	require.NoError(t, err)

	_, err = limiter.Acquire(ctx, "a")
	require.NoError(t, err)
	b, err := limiter.Acquire(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Count)

	_, err = limiter.Acquire(ctx, "a")
	assert.ErrorIs(t, err, ErrLimitReached)
}

func TestRateLimiter_WindowExpiryResetsCount(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	limiter, err := NewRateLimiter(client, "requests", NewRateLimiterOptions().WithMaxTransactionsPerMinute(1))
	require.NoError(t, err)

	_, err = limiter.Acquire(ctx, "client")
	require.NoError(t, err)
	_, err = limiter.Acquire(ctx, "client")
	require.ErrorIs(t, err, ErrLimitReached)

	mr.FastForward(61 * time.Second)

	acq, err := limiter.Acquire(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, int64(1), acq.Count)
}

func TestRateLimiter_StoreUnavailable(t *testing.T) {
	client, mr := newTestClient(t)
	limiter, err := NewRateLimiter(client, "requests", nil)
	require.NoError(t, err)

	mr.Close()

	_, err = limiter.Acquire(context.Background(), "client")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrLimitReached)
}

func TestNewRateLimiter_RequiresClient(t *testing.T) {
	_, err := NewRateLimiter(nil, "requests", nil)
	assert.Error(t, err)
}
