package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Outcome classifies a single result cache operation. Callers treat every
// outcome other than OutcomeHit as a miss.
type Outcome int

const (
	OutcomeHit Outcome = iota
	OutcomeMiss
	OutcomeStored
	// OutcomeError is a failure of the backing store.
	OutcomeError
	// OutcomeCorrupt is a stored payload that could not be decoded.
	OutcomeCorrupt
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	case OutcomeStored:
		return "stored"
	case OutcomeError:
		return "error"
	case OutcomeCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Config configures a ResultCache.
type Config struct {
	Store Store

	// TTL is fixed per entry at write time. Zero means DefaultTTL.
	TTL time.Duration

	Logger zerolog.Logger
}

// ResultCache stores JSON-encoded values on a Store on a best-effort basis.
// It never returns an error: store failures and undecodable payloads are
// logged and reported as outcomes.
type ResultCache struct {
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
}

// NewResultCache creates a result cache. It panics if cfg.Store is nil.
func NewResultCache(cfg Config) *ResultCache {
	if cfg.Store == nil {
		panic("cache store cannot be nil")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{
		store:  cfg.Store,
		ttl:    ttl,
		logger: cfg.Logger,
	}
}

// TTL returns the lifetime given to new entries.
func (c *ResultCache) TTL() time.Duration { return c.ttl }

// Load decodes the entry stored under key into v. The contents of v are only
// meaningful on OutcomeHit.
func (c *ResultCache) Load(ctx context.Context, key string, v any) Outcome {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return c.lookup(OutcomeMiss)
		}
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss")
		return c.lookup(OutcomeError)
	}

	if err := decode(data, v); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return c.lookup(OutcomeCorrupt)
	}

	PayloadBytes.Observe(float64(len(data)))
	return c.lookup(OutcomeHit)
}

// Save encodes v and stores it under key.
func (c *ResultCache) Save(ctx context.Context, key string, v any) Outcome {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache encode failed")
		Writes.WithLabelValues(OutcomeError.String()).Inc()
		return OutcomeError
	}

	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed, result not cached")
		Writes.WithLabelValues(OutcomeError.String()).Inc()
		return OutcomeError
	}

	PayloadBytes.Observe(float64(len(data)))
	Writes.WithLabelValues(OutcomeStored.String()).Inc()
	return OutcomeStored
}

// Remove deletes the entry under key. Failures are logged and ignored.
func (c *ResultCache) Remove(ctx context.Context, key string) {
	if err := c.store.Remove(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache remove failed")
	}
}

func (c *ResultCache) lookup(o Outcome) Outcome {
	Lookups.WithLabelValues(o.String()).Inc()
	return o
}

// decode rejects payloads with fields v does not know about, which is how a
// cached page from an incompatible build shows up.
func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return nil
}
