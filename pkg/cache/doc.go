// Package cache stores raw ESPN page bodies in Redis.
//
// The cache is opt-in. A pull that runs twice within the TTL reuses the
// bodies from the first run instead of hitting the API again. It holds
// HTTP bodies only; rows and CSV are always rebuilt from them.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient, 5*time.Minute)
//
//	key, err := cache.KeyForURL("https://site.web.api.espn.com/...?limit=50&page=2")
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch, then:
//		manager.Set(ctx, key, cache.NewEntry(body, resp.StatusCode, resp.Header, manager.TTL()))
//	}
//
// # Expiry
//
// An entry expires at the time given by the response's Cache-Control
// max-age, else its Expires header, else the manager's default TTL.
//
// # Metrics
//
//   - espn_cache_hits_total
//   - espn_cache_misses_total
//   - espn_cache_stored_bytes
//   - espn_cache_errors_total{operation}
package cache
