// Package metrics provides Prometheus metrics for the insights service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Analysis metrics
	DocumentsAnalyzed *prometheus.CounterVec
	AnalysesInFlight  prometheus.Gauge
	BatchDuration     prometheus.Histogram
	UploadRejections  *prometheus.CounterVec

	SessionsActive prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{}

	m.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insights_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.HTTPRequestsInFlight = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "insights_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.DocumentsAnalyzed = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_documents_analyzed_total",
			Help: "Documents that reached a terminal status",
		},
		[]string{"status"},
	)

	m.AnalysesInFlight = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "insights_analyses_in_flight",
			Help: "Documents currently being analyzed",
		},
	)

	m.BatchDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insights_batch_duration_seconds",
			Help:    "Wall time from batch admission until every member settled",
			Buckets: []float64{.1, .5, 1, 2, 3, 5, 10, 30, 60},
		},
	)

	m.UploadRejections = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_upload_rejections_total",
			Help: "Upload batches rejected by validation",
		},
		[]string{"reason"},
	)

	m.SessionsActive = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "insights_sessions_active",
			Help: "Open dashboard sessions",
		},
	)

	return m
}

// RecordHTTPRequest records one finished HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RequestStarted() {
	if m != nil {
		m.HTTPRequestsInFlight.Inc()
	}
}

func (m *Metrics) RequestDone() {
	if m != nil {
		m.HTTPRequestsInFlight.Dec()
	}
}

func (m *Metrics) AnalysisStarted() {
	if m != nil {
		m.AnalysesInFlight.Inc()
	}
}

// AnalysisDone records one document reaching status.
func (m *Metrics) AnalysisDone(status string) {
	if m == nil {
		return
	}
	m.AnalysesInFlight.Dec()
	m.DocumentsAnalyzed.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveBatch(d time.Duration) {
	if m != nil {
		m.BatchDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) UploadRejected(reason string) {
	if m != nil {
		m.UploadRejections.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.SessionsActive.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.SessionsActive.Dec()
	}
}
