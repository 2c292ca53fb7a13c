package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tiliavir/timeclock/internal/model"
)

// MetricsSource yields the current snapshot. Gauges are computed from it at
// scrape time, so an open interval is always measured against the scrape instant.
type MetricsSource func() model.Metrics

type Metrics struct {
	registry          *prometheus.Registry
	submissions       *prometheus.CounterVec
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func NewMetrics(source MetricsSource) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timeclock_submissions_total",
			Help: "Clock event submissions by result (ok or error kind).",
		}, []string{"result"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.submissions,
		m.httpRequestsTotal,
		m.httpDuration,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "timeclock_worked_seconds",
			Help: "Seconds worked today, including the open interval.",
		}, func() float64 { return source().TotalWorked.Seconds() }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "timeclock_remaining_seconds",
			Help: "Seconds left until the configured workday length is reached.",
		}, func() float64 { return source().Remaining.Seconds() }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "timeclock_progress_percent",
			Help: "Worked time as a percentage of the 9 hour ceiling.",
		}, func() float64 { return float64(source().ProgressPercent) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "timeclock_clocked_in",
			Help: "1 while clocked in, 0 otherwise.",
		}, func() float64 {
			if source().IsWorking {
				return 1
			}
			return 0
		}),
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSubmission counts a submission outcome; kind is "" on success.
func (m *Metrics) ObserveSubmission(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "ok"
	}
	m.submissions.WithLabelValues(kind).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Instrument wraps next, recording request count and latency under route.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
