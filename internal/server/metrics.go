package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	active   *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kanban_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kanban_http_request_duration_seconds",
				Help:    "Histogram of HTTP request durations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		active: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kanban_http_active_requests",
				Help: "Number of active HTTP requests",
			},
			[]string{"method"},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.active)
	return m
}

func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.active.WithLabelValues(r.Method).Inc()
		defer m.active.WithLabelValues(r.Method).Dec()

		rec := recordStatus(w)
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		switch route {
		case "/items", "/healthz", "/metrics":
		default:
			route = "other"
		}
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.code())).Inc()
	})
}
