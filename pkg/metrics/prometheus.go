// Package metrics provides Prometheus metrics for the collision resolver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fleet sizes and event counts span several orders of magnitude.
var countBuckets = prometheus.ExponentialBuckets(1, 4, 10) //nolint:gochecknoglobals // static bucket layout

// Manager owns every collector exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Resolution pipeline
	runsTotal           prometheus.Counter
	runDuration         prometheus.Histogram
	vehiclesPerRun      prometheus.Histogram
	pairsEvaluated      prometheus.Counter
	candidateEvents     prometheus.Counter
	committedCollisions prometheus.Counter
	discardedEvents     prometheus.Counter
	survivors           prometheus.Gauge
	duplicateLabels     prometheus.Counter

	// Queue and workers used for parallel generation
	queueSize          prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	workerCount        prometheus.Gauge
	workerLatency      prometheus.Histogram
	workerErrors       prometheus.Counter

	// Run store
	storedRuns   prometheus.Gauge
	storeLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// Process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "collide",
		subsystem:        "resolver",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounter(m.counter("runs_total", "Total number of fleets resolved"))
	m.runDuration = auto.NewHistogram(m.histogram("run_duration_milliseconds", "End-to-end resolution time in milliseconds", m.histogramBuckets))
	m.vehiclesPerRun = auto.NewHistogram(m.histogram("vehicles_per_run", "Number of vehicles in each resolved fleet", countBuckets))
	m.pairsEvaluated = auto.NewCounter(m.counter("pairs_evaluated_total", "Vehicle pairs checked for contact"))
	m.candidateEvents = auto.NewCounter(m.counter("candidate_events_total", "Pairs with a future contact time"))
	m.committedCollisions = auto.NewCounter(m.counter("committed_collisions_total", "Collisions accepted by the resolver"))
	m.discardedEvents = auto.NewCounter(m.counter("discarded_events_total", "Candidate events dropped because a participant was already removed"))
	m.survivors = auto.NewGauge(m.gauge("last_run_survivors", "Survivors in the most recent run"))
	m.duplicateLabels = auto.NewCounter(m.counter("duplicate_labels_total", "Input vehicles whose label repeats an earlier one"))

	m.queueSize = auto.NewGauge(m.gauge("queue_size", "Row jobs waiting in the generation queue"))
	m.queueEnqueue = auto.NewCounter(m.counter("queue_enqueue_total", "Row jobs enqueued"))
	m.queueDequeue = auto.NewCounter(m.counter("queue_dequeue_total", "Row jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counter("queue_enqueue_errors_total", "Row jobs rejected by the queue"))
	m.workerCount = auto.NewGauge(m.gauge("worker_count", "Workers in the most recent generation pool"))
	m.workerLatency = auto.NewHistogram(m.histogram("worker_processing_latency_milliseconds", "Time to evaluate one row of pairs", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counter("worker_errors_total", "Row jobs that failed"))

	m.storedRuns = auto.NewGauge(m.gauge("stored_runs", "Runs held by the run store"))
	m.storeLatency = auto.NewHistogramVec(m.histogram("store_latency_milliseconds", "Run store operation latency", m.histogramBuckets), []string{"operation"})

	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counter("errors_by_component_total", "Errors by component and type"), []string{"component", "error_type"})

	m.memoryUsage = auto.NewGauge(m.gauge("system_memory_bytes", "Heap bytes allocated"))
	m.goroutineCount = auto.NewGauge(m.gauge("system_goroutines", "Number of goroutines"))
	m.gcPauseTime = auto.NewHistogram(m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.histogramBuckets))
}

// RecordRun records one completed resolution.
func RecordRun(durationMs float64, vehicles, pairs, candidates, committed, discarded, survivors int) {
	globalManager.runsTotal.Inc()
	globalManager.runDuration.Observe(durationMs)
	globalManager.vehiclesPerRun.Observe(float64(vehicles))
	globalManager.pairsEvaluated.Add(float64(pairs))
	globalManager.candidateEvents.Add(float64(candidates))
	globalManager.committedCollisions.Add(float64(committed))
	globalManager.discardedEvents.Add(float64(discarded))
	globalManager.survivors.Set(float64(survivors))
}

// RecordDuplicateLabel counts an input label seen more than once.
func RecordDuplicateLabel() {
	globalManager.duplicateLabels.Inc()
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the size of the generation pool.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records the time spent on one job.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// UpdateStoredRuns sets the number of stored runs.
func UpdateStoredRuns(count int) {
	globalManager.storedRuns.Set(float64(count))
}

// RecordStoreLatency records the latency of a store operation.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.goroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause sample.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.gcPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
