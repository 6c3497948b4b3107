package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// Pipeline metrics
	signalsIngested     *prometheus.CounterVec
	signalsSkipped      *prometheus.CounterVec
	signalsAutoRejected prometheus.Counter
	scanDuration        prometheus.Histogram
	scanFailures        *prometheus.CounterVec

	// Lifecycle metrics
	evictions       *prometheus.CounterVec
	conflicts       prometheus.Counter
	trackedEntities *prometheus.GaugeVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		signalsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valker_signals_ingested_total",
				Help: "Raw signals that passed the quality gate and were stored",
			},
			[]string{"source"},
		),
		signalsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valker_signals_skipped_total",
				Help: "Raw signals dropped before storage",
			},
			[]string{"reason"},
		),
		signalsAutoRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "valker_signals_auto_rejected_total",
				Help: "Candidates refused at creation by retention criteria",
			},
		),
		scanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "valker_scan_duration_seconds",
				Help:    "Full scatter/gather scan duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		scanFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valker_scan_failures_total",
				Help: "Per-source scan failures, timeouts included",
			},
			[]string{"source"},
		),
		evictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valker_evictions_total",
				Help: "Entities removed by retention",
			},
			[]string{"entity"},
		),
		conflicts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "valker_conflicts_detected_total",
				Help: "Cross-source validations that found conflicting signals",
			},
		),
		trackedEntities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "valker_tracked_entities",
				Help: "Live entities in the store",
			},
			[]string{"entity"},
		),
	}

	reg.MustRegister(r.signalsIngested)
	reg.MustRegister(r.signalsSkipped)
	reg.MustRegister(r.signalsAutoRejected)
	reg.MustRegister(r.scanDuration)
	reg.MustRegister(r.scanFailures)
	reg.MustRegister(r.evictions)
	reg.MustRegister(r.conflicts)
	reg.MustRegister(r.trackedEntities)

	return r
}

// RecordIngested records a stored signal. Safe on a nil registry.
func (r *Registry) RecordIngested(source string) {
	if r == nil {
		return
	}
	r.signalsIngested.WithLabelValues(source).Inc()
}

// RecordSkipped records a dropped signal with its reason.
func (r *Registry) RecordSkipped(reason string) {
	if r == nil {
		return
	}
	r.signalsSkipped.WithLabelValues(reason).Inc()
}

// RecordAutoRejected records a retention refusal at creation time.
func (r *Registry) RecordAutoRejected() {
	if r == nil {
		return
	}
	r.signalsAutoRejected.Inc()
}

// RecordScan records a completed scan cycle.
func (r *Registry) RecordScan(seconds float64) {
	if r == nil {
		return
	}
	r.scanDuration.Observe(seconds)
}

// RecordScanFailure records a per-source scan failure.
func (r *Registry) RecordScanFailure(source string) {
	if r == nil {
		return
	}
	r.scanFailures.WithLabelValues(source).Inc()
}

// RecordEviction records a retention eviction.
func (r *Registry) RecordEviction(entity string) {
	if r == nil {
		return
	}
	r.evictions.WithLabelValues(entity).Inc()
}

// RecordConflict records a validation that detected conflicts.
func (r *Registry) RecordConflict() {
	if r == nil {
		return
	}
	r.conflicts.Inc()
}

// SetTracked sets the live entity gauge.
func (r *Registry) SetTracked(entity string, count int) {
	if r == nil {
		return
	}
	r.trackedEntities.WithLabelValues(entity).Set(float64(count))
}
