package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	statsDuration   *prometheus.HistogramVec
	snapshotSize    *prometheus.GaugeVec
	timerOps        *prometheus.CounterVec
	sessionsCreated prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	statsDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stats_compute_duration_seconds",
		Help:    "Time spent reading the snapshot and aggregating a stats view",
		Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"view"})

	snapshotSize := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stats_snapshot_records",
		Help: "Number of records in the most recent stats snapshot",
	}, []string{"kind"})

	timerOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timer_operations_total",
		Help: "Study timer operations by outcome",
	}, []string{"operation", "result"})

	sessionsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timer_sessions_recorded_total",
		Help: "Study sessions recorded by stopping the timer",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, statsDuration, snapshotSize, timerOps, sessionsCreated, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		statsDuration:   statsDuration,
		snapshotSize:    snapshotSize,
		timerOps:        timerOps,
		sessionsCreated: sessionsCreated,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveStats records how long one stats view took and the snapshot size it read.
func (m *MetricsService) ObserveStats(view string, duration time.Duration, subjects, sessions int) {
	if m == nil {
		return
	}
	m.statsDuration.WithLabelValues(view).Observe(duration.Seconds())
	m.snapshotSize.WithLabelValues("subjects").Set(float64(subjects))
	m.snapshotSize.WithLabelValues("sessions").Set(float64(sessions))
}

// RecordTimerOperation counts a timer operation and its outcome.
func (m *MetricsService) RecordTimerOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.timerOps.WithLabelValues(operation, result).Inc()
}

// RecordTimerSession counts a session produced by stopping the timer.
func (m *MetricsService) RecordTimerSession() {
	if m == nil {
		return
	}
	m.sessionsCreated.Inc()
}
