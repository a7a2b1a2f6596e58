package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLimitReached is returned by Acquire when the caller exhausted the quota of the current window
var ErrLimitReached = errors.New("rate limit reached")

// RateLimiterOptions represents options for rate limiting
type RateLimiterOptions struct {
	// MaxTransactionsPerMinute is the number of transactions allowed per window
	MaxTransactionsPerMinute int
	// Window is the length of a fixed window, one minute unless overridden
	Window time.Duration
	// Namespace is the namespace for organizing rate limiters
	Namespace string
}

// NewRateLimiterOptions creates a new rate limiter options with default values
func NewRateLimiterOptions() *RateLimiterOptions {
	return &RateLimiterOptions{
		MaxTransactionsPerMinute: 60,
		Window:                   time.Minute,
	}
}

// WithMaxTransactionsPerMinute sets the maximum number of transactions per minute
func (rlo *RateLimiterOptions) WithMaxTransactionsPerMinute(max int) *RateLimiterOptions {
	rlo.MaxTransactionsPerMinute = max
	return rlo
}

// WithWindow overrides the window length
func (rlo *RateLimiterOptions) WithWindow(window time.Duration) *RateLimiterOptions {
	rlo.Window = window
	return rlo
}

// WithNamespace sets the namespace for organizing rate limiters
func (rlo *RateLimiterOptions) WithNamespace(namespace string) *RateLimiterOptions {
	rlo.Namespace = namespace
	return rlo
}

// Validate validates the rate limiter options
func (rlo *RateLimiterOptions) Validate() error {
	if rlo.MaxTransactionsPerMinute <= 0 {
		return fmt.Errorf("invalid max transactions per minute: %d, must be positive", rlo.MaxTransactionsPerMinute)
	}
	if rlo.Window < time.Millisecond {
		return fmt.Errorf("invalid window: %v, must be at least 1ms", rlo.Window)
	}
	return nil
}

// Acquisition is the state of a key's window right after an Acquire call
type Acquisition struct {
	// Count is the number of transactions seen in the current window, this one included
	Count int64
	// Limit is the configured quota
	Limit int
	// ResetAt is when the current window expires
	ResetAt time.Time
}

// Remaining returns how many transactions are left in the current window
func (a Acquisition) Remaining() int {
	left := int64(a.Limit) - a.Count
	if left < 0 {
		return 0
	}
	return int(left)
}

// Allowed reports whether the transaction fits the quota
func (a Acquisition) Allowed() bool {
	return a.Count <= int64(a.Limit)
}

// INCR and the window expiry run in one script so a fresh key never lives without a TTL.
var acquireScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RateLimiter is a distributed fixed-window counter keyed per caller
type RateLimiter struct {
	client *Client
	key    string
	opts   *RateLimiterOptions
	now    func() time.Time
}

// NewRateLimiter creates a new distributed rate limiter
func NewRateLimiter(client *Client, key string, opts *RateLimiterOptions) (*RateLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if opts == nil {
		opts = NewRateLimiterOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &RateLimiter{
		client: client,
		key:    key,
		opts:   opts,
		now:    time.Now,
	}, nil
}

// buildKey constructs the full key using Namespace::key::identifier format
func (rl *RateLimiter) buildKey(identifier string) string {
	if rl.opts.Namespace != "" {
		return rl.opts.Namespace + "::" + rl.key + "::" + identifier
	}
	return rl.key + "::" + identifier
}

// Acquire counts one transaction for identifier. When the quota is exhausted the
// acquisition is returned together with ErrLimitReached.
func (rl *RateLimiter) Acquire(ctx context.Context, identifier string) (Acquisition, error) {
	key := rl.buildKey(identifier)

	result, err := acquireScript.Run(ctx, rl.client.GetClient(), []string{key}, rl.opts.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Acquisition{}, fmt.Errorf("failed to acquire rate limiter: %w", err)
	}
	if len(result) != 2 {
		return Acquisition{}, fmt.Errorf("unexpected rate limiter reply: %v", result)
	}

	acquisition := Acquisition{
		Count:   result[0],
		Limit:   rl.opts.MaxTransactionsPerMinute,
		ResetAt: rl.now().Add(time.Duration(result[1]) * time.Millisecond),
	}
	if !acquisition.Allowed() {
		return acquisition, ErrLimitReached
	}
	return acquisition, nil
}
