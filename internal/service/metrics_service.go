package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studyflow/studyplan-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer
// and the scheduling engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	generations     *prometheus.CounterVec
	repairs         prometheus.Counter
	edits           *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	generationsAI        uint64
	generationsFallback  uint64
	repairCount          uint64
	editsApplied         uint64
	editsRejected        uint64
}

// NewMetricsService registers core Prometheus collectors.
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

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generations_total",
		Help: "Day plans generated, by mode (ai or fallback)",
	}, []string{"mode"})

	repairs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_repaired_commitments_total",
		Help: "Commitments re-inserted into model plans by the repair pass",
	})

	edits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_edits_total",
		Help: "Natural-language edit commands, by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, generations, repairs, edits, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		generations:     generations,
		repairs:         repairs,
		edits:           edits,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordGeneration counts a finished plan generation by mode.
func (m *MetricsService) RecordGeneration(mode string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(mode).Inc()
	if mode == "ai" {
		atomic.AddUint64(&m.generationsAI, 1)
	} else {
		atomic.AddUint64(&m.generationsFallback, 1)
	}
}

// RecordRepairs counts commitments the repair pass re-inserted.
func (m *MetricsService) RecordRepairs(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.repairs.Add(float64(count))
	atomic.AddUint64(&m.repairCount, uint64(count))
}

// RecordEdit counts an edit command by outcome.
func (m *MetricsService) RecordEdit(outcome string) {
	if m == nil {
		return
	}
	m.edits.WithLabelValues(outcome).Inc()
	if outcome == "applied" {
		atomic.AddUint64(&m.editsApplied, 1)
	} else {
		atomic.AddUint64(&m.editsRejected, 1)
	}
}

// Snapshot returns aggregated metrics for the status endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		GenerationsAI:            atomic.LoadUint64(&m.generationsAI),
		GenerationsFallback:      atomic.LoadUint64(&m.generationsFallback),
		RepairedCommitments:      atomic.LoadUint64(&m.repairCount),
		EditsApplied:             atomic.LoadUint64(&m.editsApplied),
		EditsRejected:            atomic.LoadUint64(&m.editsRejected),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
