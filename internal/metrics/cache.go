package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus metrics for profile cache performance.
type CacheMetrics struct {
	Hits   prometheus.Counter
	Misses prometheus.Counter
	// Shared counts misses that were answered by a computation already in
	// flight for another request.
	Shared prometheus.Counter
}

// NewCacheMetrics creates and registers cache metrics on the given registry.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile_cache",
			Name:      "hits_total",
			Help:      "Total number of profile cache hits.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile_cache",
			Name:      "misses_total",
			Help:      "Total number of profile cache misses.",
		}),
		Shared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile_cache",
			Name:      "shared_total",
			Help:      "Total number of cache misses served by an in-flight computation.",
		}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Shared)
	return m
}
