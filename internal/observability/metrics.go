package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	resolveTotal    *prometheus.CounterVec
	resolveDuration prometheus.Histogram

	sessionStoreOpDuration *prometheus.HistogramVec
	storeFallbackActive    prometheus.Gauge

	candidateFetchTotal *prometheus.CounterVec

	activeSessions     prometheus.Gauge
	sessionsSweptTotal prometheus.Counter
	ttlRepairsTotal    prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			resolveTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "resolve_total",
					Help: "Total resolve requests by tier and status.",
				},
				[]string{"tier", "status"},
			),
			resolveDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "resolve_duration_seconds",
					Help:    "Resolve request duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			sessionStoreOpDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "session_store_op_duration_seconds",
					Help:    "Session store operation duration in seconds by operation.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"op"},
			),
			storeFallbackActive: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "store_fallback_active",
					Help: "Session store fallback state (1 in-memory fallback, 0 durable store).",
				},
			),
			candidateFetchTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "candidate_fetch_total",
					Help: "Total candidate pool fetches by status.",
				},
				[]string{"status"},
			),
			activeSessions: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "active_sessions",
					Help: "Sessions currently stored, as counted by the last sweep.",
				},
			),
			sessionsSweptTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "sessions_swept_total",
					Help: "Total sessions examined by sweep passes.",
				},
			),
			ttlRepairsTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "session_ttl_repairs_total",
					Help: "Total session keys that had lost their TTL and got one re-armed.",
				},
			),
		}

		prometheus.MustRegister(
			m.resolveTotal,
			m.resolveDuration,
			m.sessionStoreOpDuration,
			m.storeFallbackActive,
			m.candidateFetchTotal,
			m.activeSessions,
			m.sessionsSweptTotal,
			m.ttlRepairsTotal,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

func RecordResolve(tier string, duration time.Duration, success bool) {
	m := getMetrics()
	status := "error"
	if success {
		status = "success"
	}
	m.resolveTotal.WithLabelValues(tier, status).Inc()
	m.resolveDuration.Observe(duration.Seconds())
}

func RecordSessionStoreOp(op string, duration time.Duration) {
	m := getMetrics()
	m.sessionStoreOpDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func SetStoreFallback(active bool) {
	m := getMetrics()
	value := 0.0
	if active {
		value = 1.0
	}
	m.storeFallbackActive.Set(value)
}

func RecordCandidateFetch(success bool) {
	m := getMetrics()
	status := "error"
	if success {
		status = "success"
	}
	m.candidateFetchTotal.WithLabelValues(status).Inc()
}

func RecordSweep(live, repaired int) {
	m := getMetrics()
	m.activeSessions.Set(float64(live))
	m.sessionsSweptTotal.Add(float64(live))
	m.ttlRepairsTotal.Add(float64(repaired))
}
