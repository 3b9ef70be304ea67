package repository

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics are optional; nil when WithMetrics was not supplied.
type metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	refreshes       prometheus.Counter
	refreshFailures prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restlab",
			Subsystem: "repository",
			Name:      "requests_total",
			Help:      "Network attempts by method and response status (status 0 = transport failure).",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "restlab",
			Subsystem: "repository",
			Name:      "request_duration_seconds",
			Help:      "Attempt latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "restlab",
			Subsystem: "repository",
			Name:      "token_refreshes_total",
			Help:      "Token refresh attempts triggered by 401 responses.",
		}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "restlab",
			Subsystem: "repository",
			Name:      "token_refresh_failures_total",
			Help:      "Token refreshes that failed or yielded no token.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.refreshes, m.refreshFailures)
	return m
}

// observe records one network attempt.
func (r *Repository) observe(method string, status int, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	r.metrics.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	r.metrics.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
