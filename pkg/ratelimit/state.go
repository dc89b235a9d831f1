// Package ratelimit gates requests per client with token buckets.
// Each client key (usually the remote IP) gets its own golang.org/x/time/rate
// limiter; clients that stay idle longer than the configured TTL are evicted.
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// Defaults applied when Config leaves a field zero.
const (
	DefaultRPS     = 50
	DefaultBurst   = 100
	DefaultIdleTTL = 10 * time.Minute
)

// clientState is the per-client bucket plus the time it was last used.
type clientState struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// isIdle reports whether the client has not been seen for longer than ttl.
func (s *clientState) isIdle(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.lastSeen) > ttl
}

// Decision describes the outcome of a single Allow call.
type Decision struct {
	// Allowed is false when the client's bucket is empty.
	Allowed bool

	// RetryAfter is how long the client should wait before the next token
	// becomes available. Zero when Allowed is true.
	RetryAfter time.Duration
}
