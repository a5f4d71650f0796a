package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	storeOperationsTotal   *prometheus.CounterVec
	storeOperationDuration *prometheus.HistogramVec
	storeRecordsTotal      prometheus.Gauge

	extractionsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tsmeta_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tsmeta_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		storeOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tsmeta_store_operations_total",
				Help: "Total number of metadata store operations",
			},
			[]string{"operation", "status"},
		),
		storeOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tsmeta_store_operation_duration_seconds",
				Help:    "Metadata store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeRecordsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tsmeta_store_records_total",
				Help: "Number of metadata records in the store",
			},
		),
		extractionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tsmeta_rowkey_extractions_total",
				Help: "Total number of TSUID extractions from row keys",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordStoreOperation records a metadata store operation.
func (m *Metrics) RecordStoreOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.storeOperationsTotal.WithLabelValues(operation, status).Inc()
	m.storeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordExtraction records a row-key extraction attempt.
func (m *Metrics) RecordExtraction(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.extractionsTotal.WithLabelValues(status).Inc()
}

// UpdateStoreStats updates the record-count gauge.
func (m *Metrics) UpdateStoreStats(records int) {
	m.storeRecordsTotal.Set(float64(records))
}

// InstrumentHandler instruments an HTTP handler with request metrics.
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
