// Package cache provides the best-effort result cache for catalog queries.
//
// A ResultCache stores JSON-encoded query results on a Store under keys built by
// DeriveKey. The cache never fails a request: a store error on read is logged
// and reported as OutcomeError, an undecodable payload as OutcomeCorrupt, and
// both are handled by callers exactly like a miss. Write failures are logged and
// dropped.
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	results := cache.NewResultCache(cache.Config{
//		Store:  cache.NewRedisStore(redisClient),
//		TTL:    cache.DefaultTTL,
//		Logger: logger,
//	})
//
//	key := cache.DeriveKey(`price > 10`, "price desc", 1, 20)
//
//	var page catalog.PagedResult
//	if results.Load(ctx, key, &page) != cache.OutcomeHit {
//		// compute page
//		results.Save(ctx, key, &page)
//	}
//
// Without Redis, NewMemoryStore provides a process-local Store with the same
// expiry behavior.
//
// # Keys
//
// Keys are "catalog:" followed by the hex SHA-256 of
// "q=<filter>|o=<order>|p=<page>|ps=<pageSize>". Filter and order text are not
// normalized, so "price>1" and "price > 1" are cached separately.
//
// # Expiry
//
// Every entry lives for the TTL given at write time (DefaultTTL, 5 minutes).
// There is no sliding expiration and no invalidation: a cached page may be up
// to one TTL older than the underlying data.
//
// # Metrics
//
//   - catalog_cache_lookups_total{result} - reads by outcome
//   - catalog_cache_writes_total{result} - writes by outcome
//   - catalog_cache_payload_bytes - payload size histogram
package cache
