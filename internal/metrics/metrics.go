package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "freightledger"

// Mutation results.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics groups the ledger collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	mutations     *prometheus.CounterVec
	snapshots     prometheus.Counter
	recompute     prometheus.Histogram
	unpaidRecords prometheus.Gauge
	unpaidAmount  prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_mutations_total",
			Help:      "Record create, update and delete calls by outcome.",
		}, []string{"op", "result"}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_snapshots_total",
			Help:      "Full record snapshots received from the change feed.",
		}),
		recompute: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "live_recompute_seconds",
			Help:      "Time spent recomputing the live views for one snapshot.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		unpaidRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unpaid_records",
			Help:      "Records without a paid date in the latest snapshot.",
		}),
		unpaidAmount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unpaid_amount",
			Help:      "Outstanding total amount including VAT in the latest snapshot.",
		}),
	}

	m.registry.MustRegister(
		m.mutations,
		m.snapshots,
		m.recompute,
		m.unpaidRecords,
		m.unpaidAmount,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Mutations exposes the mutation counter for inspection.
func (m *Metrics) Mutations() *prometheus.CounterVec { return m.mutations }

// ObserveMutation counts a store write. A nil receiver is a no-op so callers
// can run without metrics.
func (m *Metrics) ObserveMutation(op, result string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, result).Inc()
}

// ObserveSnapshot records one recomputation of the live views.
func (m *Metrics) ObserveSnapshot(elapsed time.Duration, unpaidCount int, unpaidAmount int64) {
	if m == nil {
		return
	}
	m.snapshots.Inc()
	m.recompute.Observe(elapsed.Seconds())
	m.unpaidRecords.Set(float64(unpaidCount))
	m.unpaidAmount.Set(float64(unpaidAmount))
}
