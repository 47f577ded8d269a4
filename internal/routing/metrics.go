package routing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	routeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uzhroute_route_requests_total",
			Help: "Route calculations by profile and outcome",
		},
		[]string{"profile", "outcome"},
	)

	routeProviderAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uzhroute_route_provider_attempts_total",
			Help: "Individual provider attempts within the fallback chain",
		},
		[]string{"adapter", "profile_name", "outcome"},
	)

	routeFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uzhroute_route_fallbacks_total",
			Help: "Walking routes served via the synthesized driving fallback",
		},
	)

	routeCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uzhroute_route_cache_total",
			Help: "Route cache lookups by result",
		},
		[]string{"result"},
	)

	routeDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uzhroute_route_upstream_duration_seconds",
			Help:    "Latency of upstream directions calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"adapter"},
	)
)
