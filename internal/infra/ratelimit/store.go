// Package ratelimit counts requests per client in fixed one-minute windows.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the state of a client's window after counting one request
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns the whole seconds until the window resets, at least one
func (d Decision) RetryAfter(now time.Time) int {
	seconds := int((d.ResetAt.Sub(now) + time.Second - 1) / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}

// Store counts one request for key and reports whether it fits the quota.
// Increments for the same key are atomic, keys are independent.
type Store interface {
	Hit(ctx context.Context, key string) (Decision, error)
}

// Window is the fixed window length of every store
const Window = time.Minute
