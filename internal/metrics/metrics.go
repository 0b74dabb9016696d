package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GeoResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mgnrega_geo_resolve_total",
		Help: "Reverse geocode resolutions by result (ok|exhausted|canceled)",
	}, []string{"result"})
	GeoResolveDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mgnrega_geo_resolve_duration_ms",
		Help:    "Whole provider chain duration in milliseconds",
		Buckets: []float64{5, 20, 50, 100, 200, 500, 1000, 2000, 5000, 15000},
	})
	GeoProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mgnrega_geo_provider_requests_total",
		Help: "Provider attempts by outcome",
	}, []string{"provider", "outcome"})
	GeoProviderDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mgnrega_geo_provider_duration_ms",
		Help:    "Single provider call duration in milliseconds",
		Buckets: []float64{5, 20, 50, 100, 200, 500, 1000, 2000, 5000, 15000},
	}, []string{"provider"})
	GeoCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mgnrega_geo_cache_hits_total",
		Help: "Redis reverse geocode cache hits",
	})
	GeoCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mgnrega_geo_cache_misses_total",
		Help: "Redis reverse geocode cache misses",
	})
	LeaderboardBuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mgnrega_leaderboard_builds_total",
		Help: "Leaderboards computed from source rows",
	})
	LeaderboardCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mgnrega_leaderboard_cache_hits_total",
		Help: "Leaderboards served from the in-process cache",
	})
	LeaderboardDistricts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mgnrega_leaderboard_districts",
		Help: "District count of the most recently built leaderboard",
	})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mgnrega_rate_limited_total",
		Help: "Requests rejected by the geo rate limiter",
	})
)

func init() {
	prometheus.MustRegister(GeoResolveTotal)
	prometheus.MustRegister(GeoResolveDurationMs)
	prometheus.MustRegister(GeoProviderRequestsTotal)
	prometheus.MustRegister(GeoProviderDurationMs)
	prometheus.MustRegister(GeoCacheHitsTotal)
	prometheus.MustRegister(GeoCacheMissesTotal)
	prometheus.MustRegister(LeaderboardBuildsTotal)
	prometheus.MustRegister(LeaderboardCacheHitsTotal)
	prometheus.MustRegister(LeaderboardDistricts)
	prometheus.MustRegister(RateLimitedTotal)
}

// 文档注释：返回 Prometheus 指标监听器，在主入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
