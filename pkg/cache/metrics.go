package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clickup_cache_hits_total",
			Help: "Total number of ClickUp response cache hits",
		},
		[]string{"layer"}, // "redis"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clickup_cache_misses_total",
			Help: "Total number of ClickUp response cache misses",
		},
	)

	// CacheWrites tracks stored entries
	CacheWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clickup_cache_writes_total",
			Help: "Total number of ClickUp responses written to the cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clickup_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "purge"
	)
)
