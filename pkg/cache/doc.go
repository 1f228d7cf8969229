// Package cache provides an optional Redis-backed cache for ClickUp GET responses.
//
// The client consults the cache before spending rate limit budget on a GET and
// stores successful (200) GET responses for a fixed TTL. Mutations (POST, PUT,
// DELETE) never touch the cache, and a request built with WithoutCache skips it.
//
// # Keys
//
// Keys combine the method, the resolved versioned path, the sorted query and a
// fingerprint of the credential:
//
//	clickup:GET:v2/list/901/task:archived=false:page=0:cred=9f86d081884c7d65
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, time.Minute)
//
//	key := cache.CacheKey{
//		Method:     http.MethodGet,
//		Path:       "v2/team",
//		Credential: cache.Fingerprint(token),
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch and Set
//	}
//
// # Metrics
//
//   - clickup_cache_hits_total{layer="redis"} - Cache hits
//   - clickup_cache_misses_total - Cache misses
//   - clickup_cache_writes_total - Stored entries
//   - clickup_cache_errors_total{operation} - Cache operation errors
//
// Rate limit headers are stripped from stored entries, so a cache hit never
// updates the rate limit tracker.
package cache
