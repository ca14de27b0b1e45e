package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amapflomo_upstream_requests_total",
		Help: "Total upstream HTTP attempts",
	}, []string{"upstream"})
	UpstreamFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amapflomo_upstream_fail_total",
		Help: "Total upstream HTTP attempts that failed",
	}, []string{"upstream"})
	UpstreamDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amapflomo_upstream_duration_ms",
		Help:    "Upstream HTTP attempt duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	}, []string{"upstream"})
	ToolCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amapflomo_tool_calls_total",
		Help: "Total tool calls by outcome",
	}, []string{"tool", "status"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amapflomo_cache_hits_total",
		Help: "Total weather cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amapflomo_cache_misses_total",
		Help: "Total weather cache misses",
	})
)

func init() {
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamFailTotal)
	prometheus.MustRegister(UpstreamDurationMs)
	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

// Handler exposes the registered metrics.
func Handler() http.Handler { return promhttp.Handler() }
