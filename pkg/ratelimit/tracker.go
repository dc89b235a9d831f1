package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for request gating.
var (
	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_rate_limited_total",
		Help: "Total number of requests rejected by the per-client rate limiter",
	})

	rateLimitClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_rate_limit_clients",
		Help: "Number of clients currently tracked by the rate limiter",
	})
)

// Config configures a Limiter.
type Config struct {
	// RPS is the sustained number of requests per second per client.
	RPS float64

	// Burst is the bucket size per client.
	Burst int

	// IdleTTL is how long an unused client bucket is kept.
	IdleTTL time.Duration

	Logger zerolog.Logger
}

// Limiter tracks one token bucket per client key.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientState
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	logger  zerolog.Logger
	now     func() time.Time
}

// NewLimiter creates a limiter. Zero fields in cfg fall back to the package defaults.
func NewLimiter(cfg Config) *Limiter {
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	return &Limiter{
		clients: make(map[string]*clientState),
		limit:   rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
		idleTTL: cfg.IdleTTL,
		logger:  cfg.Logger,
		now:     time.Now,
	}
}

// Allow consumes one token from the client's bucket.
func (l *Limiter) Allow(client string) Decision {
	now := l.now()

	l.mu.Lock()
	state, ok := l.clients[client]
	if !ok {
		state = &clientState{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = state
		rateLimitClients.Set(float64(len(l.clients)))
	}
	state.lastSeen = now
	r := state.limiter.ReserveN(now, 1)
	l.mu.Unlock()

	delay := r.DelayFrom(now)
	if delay == 0 {
		return Decision{Allowed: true}
	}

	// Give the token back; a rejected request must not push the client further out.
	r.CancelAt(now)
	rateLimitedTotal.Inc()
	l.logger.Warn().
		Str("client", client).
		Dur("retry_after", delay).
		Msg("Request rate limited")
	return Decision{Allowed: false, RetryAfter: delay}
}

// Sweep evicts clients idle longer than the configured TTL and returns how
// many were removed.
func (l *Limiter) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, state := range l.clients {
		if state.isIdle(now, l.idleTTL) {
			delete(l.clients, key)
			removed++
		}
	}
	rateLimitClients.Set(float64(len(l.clients)))
	if removed > 0 {
		l.logger.Debug().Int("removed", removed).Msg("Evicted idle rate limit clients")
	}
	return removed
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Run sweeps idle clients every interval until ctx is cancelled.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
