package cache

import (
	"net/http"
	"time"
)

// CacheEntry represents a cached ClickUp response.
type CacheEntry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// Headers are the response headers
	Headers http.Header `json:"headers"`

	// CachedAt is when we cached this response
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the cache entry becomes stale
	Expires time.Time `json:"expires"`
}

// NewEntry builds an entry that expires ttl from now. Rate limit headers are
// dropped so a replayed entry never feeds stale quota into the tracker.
func NewEntry(status int, header http.Header, body []byte, ttl time.Duration) *CacheEntry {
	now := time.Now()
	h := header.Clone()
	for _, name := range volatileHeaders {
		h.Del(name)
	}
	return &CacheEntry{
		Data:       body,
		StatusCode: status,
		Headers:    h,
		CachedAt:   now,
		Expires:    now.Add(ttl),
	}
}

var volatileHeaders = []string{
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"X-RateLimit-Reset",
	"Retry-After",
	"Date",
}

// Cacheable reports whether a response to method with status may be stored.
func Cacheable(method string, status int) bool {
	return method == http.MethodGet && status == http.StatusOK
}

// IsExpired returns true if the cache entry has expired.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
