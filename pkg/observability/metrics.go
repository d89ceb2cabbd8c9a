package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "contrastboard"

// Metrics collects board, query and HTTP measurements on a private registry
type Metrics struct {
	registry *prometheus.Registry

	mutations        *prometheus.CounterVec
	undos            *prometheus.CounterVec
	events           *prometheus.CounterVec
	boardNodes       *prometheus.GaugeVec
	boardConnections *prometheus.GaugeVec
	boardUndoDepth   *prometheus.GaugeVec
	importedColors   *prometheus.CounterVec
	importDuration   *prometheus.HistogramVec
	queryDuration    *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors. Runtime collectors are included when
// withRuntime is set.
func NewMetrics(namespace string, withRuntime bool) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "mutations_total",
			Help:      "Board operations by outcome; noop marks tolerated requests that changed nothing",
		}, []string{"operation", "result"}),

		undos: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "undos_total",
			Help:      "Consumed undo records by action kind",
		}, []string{"kind"}),

		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "events_total",
			Help:      "Published domain events by type",
		}, []string{"type"}),

		boardNodes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "nodes",
			Help:      "Nodes currently on a board",
		}, []string{"board"}),

		boardConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "connections",
			Help:      "Connections currently on a board",
		}, []string{"board"}),

		boardUndoDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "undo_depth",
			Help:      "Undo records available on a board",
		}, []string{"board"}),

		importedColors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "colors_total",
			Help:      "Nodes created by bulk import",
		}, []string{"source"}),

		importDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Bulk import latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}),

		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Query handling latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query", "status"}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "status"}),

		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordMutation counts a board operation
func (m *Metrics) RecordMutation(operation string, applied bool) {
	result := "applied"
	if !applied {
		result = "noop"
	}
	m.mutations.WithLabelValues(operation, result).Inc()
}

// RecordUndo counts a consumed undo record
func (m *Metrics) RecordUndo(kind string) {
	m.undos.WithLabelValues(kind).Inc()
}

// RecordEvent counts a published event
func (m *Metrics) RecordEvent(eventType string) {
	m.events.WithLabelValues(eventType).Inc()
}

// SetBoardSize reports the size of a board
func (m *Metrics) SetBoardSize(boardID string, nodes, connections, undoDepth int) {
	m.boardNodes.WithLabelValues(boardID).Set(float64(nodes))
	m.boardConnections.WithLabelValues(boardID).Set(float64(connections))
	m.boardUndoDepth.WithLabelValues(boardID).Set(float64(undoDepth))
}

// ForgetBoard drops the gauges of a deleted board
func (m *Metrics) ForgetBoard(boardID string) {
	m.boardNodes.DeleteLabelValues(boardID)
	m.boardConnections.DeleteLabelValues(boardID)
	m.boardUndoDepth.DeleteLabelValues(boardID)
}

// ObserveImport reports a bulk import
func (m *Metrics) ObserveImport(source string, added int, duration time.Duration) {
	m.importedColors.WithLabelValues(source).Add(float64(added))
	m.importDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// ObserveQuery reports a handled query
func (m *Metrics) ObserveQuery(queryType string, duration time.Duration, failed bool) {
	status := "ok"
	if failed {
		status = "error"
	}
	m.queryDuration.WithLabelValues(queryType, status).Observe(duration.Seconds())
}

// ObserveHTTP reports a served request. route is the matched pattern, not
// the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
