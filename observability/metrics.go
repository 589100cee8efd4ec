package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Snapshot build metrics
	SnapshotRequestsTotal *prometheus.CounterVec
	SnapshotDuration      *prometheus.HistogramVec
	SnapshotErrorsTotal   *prometheus.CounterVec
	SnapshotScores        *prometheus.HistogramVec
	SnapshotDecisions     *prometheus.CounterVec

	// Advisor stream metrics
	AdvisorStreamsTotal *prometheus.CounterVec
	AdvisorChunksTotal  prometheus.Counter
	AdvisorDuration     *prometheus.HistogramVec

	// News metrics
	NewsSearchesTotal *prometheus.CounterVec
	NewsItemsReturned prometheus.Histogram

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryTotal    *prometheus.CounterVec
	DBErrorsTotal   *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// scoreBuckets are histogram buckets for the snapshot score range [30, 85]
var scoreBuckets = []float64{30, 40, 50, 60, 65, 70, 75, 80, 85}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		SnapshotRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "snapshot",
				Name:      "requests_total",
				Help:      "Total number of snapshot build requests",
			},
			[]string{"symbol"},
		),
		SnapshotDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "apex_titan",
				Subsystem: "snapshot",
				Name:      "duration_seconds",
				Help:      "Duration of snapshot builds in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"symbol", "status"},
		),
		SnapshotErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "snapshot",
				Name:      "errors_total",
				Help:      "Total number of snapshot build errors",
			},
			[]string{"symbol", "error_type"},
		),
		SnapshotScores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "apex_titan",
				Subsystem: "snapshot",
				Name:      "score",
				Help:      "Distribution of snapshot scores",
				Buckets:   scoreBuckets,
			},
			[]string{"decision"},
		),
		SnapshotDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "snapshot",
				Name:      "decisions_total",
				Help:      "Total number of snapshots by decision label",
			},
			[]string{"decision"},
		),
		AdvisorStreamsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "advisor",
				Name:      "streams_total",
				Help:      "Total number of advisor stream requests by outcome",
			},
			[]string{"outcome"},
		),
		AdvisorChunksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "advisor",
				Name:      "chunks_total",
				Help:      "Total number of advisor text chunks delivered",
			},
		),
		AdvisorDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "apex_titan",
				Subsystem: "advisor",
				Name:      "duration_seconds",
				Help:      "Duration of advisor streams in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"outcome"},
		),
		NewsSearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "news",
				Name:      "searches_total",
				Help:      "Total number of news searches by outcome",
			},
			[]string{"outcome"},
		),
		NewsItemsReturned: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "apex_titan",
				Subsystem: "news",
				Name:      "items_returned",
				Help:      "Number of news items returned per search",
				Buckets:   []float64{0, 1, 2, 3, 4, 5},
			},
		),
		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "apex_titan",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "apex_titan",
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "Duration of database queries in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"operation", "table"},
		),
		DBQueryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "db",
				Name:      "queries_total",
				Help:      "Total number of database queries",
			},
			[]string{"operation", "table"},
		),
		DBErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "Total number of database errors",
			},
			[]string{"operation", "table"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "apex_titan",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "apex_titan",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apex_titan",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// RecordSnapshotRequest records a snapshot build request
func (m *Metrics) RecordSnapshotRequest(symbol string) {
	m.SnapshotRequestsTotal.WithLabelValues(symbol).Inc()
}

// RecordSnapshotError records a snapshot build error
func (m *Metrics) RecordSnapshotError(symbol, errorType string) {
	m.SnapshotErrorsTotal.WithLabelValues(symbol, errorType).Inc()
}

// RecordSnapshotResult records the score and decision of a completed snapshot
func (m *Metrics) RecordSnapshotResult(decision string, score int) {
	m.SnapshotDecisions.WithLabelValues(decision).Inc()
	m.SnapshotScores.WithLabelValues(decision).Observe(float64(score))
}

// RecordAdvisorStream records a completed advisor stream by outcome
// (completed, unavailable, interrupted)
func (m *Metrics) RecordAdvisorStream(outcome string) {
	m.AdvisorStreamsTotal.WithLabelValues(outcome).Inc()
}

// RecordAdvisorChunk records one delivered advisor text chunk
func (m *Metrics) RecordAdvisorChunk() {
	m.AdvisorChunksTotal.Inc()
}

// RecordNewsSearch records a news search by outcome (success, error)
func (m *Metrics) RecordNewsSearch(outcome string, items int) {
	m.NewsSearchesTotal.WithLabelValues(outcome).Inc()
	m.NewsItemsReturned.Observe(float64(items))
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError records an external API error
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordExternalAPIDuration records the duration of an external API call
func (m *Metrics) RecordExternalAPIDuration(service, operation string, duration time.Duration) {
	m.ExternalAPIDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordDBQuery records a database query
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration) {
	m.DBQueryTotal.WithLabelValues(operation, table).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordDBError records a database error
func (m *Metrics) RecordDBError(operation, table string) {
	m.DBErrorsTotal.WithLabelValues(operation, table).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveSnapshot records the snapshot build duration and status
func (t *Timer) ObserveSnapshot(symbol, status string) {
	t.metrics.SnapshotDuration.WithLabelValues(symbol, status).Observe(time.Since(t.start).Seconds())
}

// ObserveAdvisor records the advisor stream duration by outcome
func (t *Timer) ObserveAdvisor(outcome string) {
	t.metrics.AdvisorDuration.WithLabelValues(outcome).Observe(time.Since(t.start).Seconds())
}

// ObserveExternalAPI records the external API duration
func (t *Timer) ObserveExternalAPI(service, operation string) {
	t.metrics.RecordExternalAPIDuration(service, operation, time.Since(t.start))
}

// ObserveDB records the database query duration
func (t *Timer) ObserveDB(operation, table string) {
	t.metrics.RecordDBQuery(operation, table, time.Since(t.start))
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
