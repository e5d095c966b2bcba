// Package metrics records scoring activity with Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "handicap"

// Recorder receives scoring events from the service layer.
type Recorder interface {
	RecordRound(disposition string)
	RecordDiscount(strokes float64)
	RecordLowReset(kind string)
	RecordOperationDuration(operation string, d time.Duration)
	RecordOperationFailure(operation string)
}

// Prometheus is a Recorder backed by Prometheus collectors.
type Prometheus struct {
	rounds    *prometheus.CounterVec
	discounts *prometheus.CounterVec
	lowResets *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	failures  *prometheus.CounterVec
}

var _ Recorder = (*Prometheus)(nil)

// New creates the collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func New(reg prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_submitted_total",
			Help:      "Submitted rounds by disposition.",
		}, []string{"disposition"}),
		discounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exceptional_discounts_total",
			Help:      "Exceptional score reductions applied, by strokes.",
		}, []string{"strokes"}),
		lowResets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "low_index_changes_total",
			Help:      "Low handicap index changes by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of scoring operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Failed scoring operations.",
		}, []string{"operation"}),
	}

	if reg != nil {
		reg.MustRegister(m.rounds, m.discounts, m.lowResets, m.duration, m.failures)
	}
	return m
}

func (m *Prometheus) RecordRound(disposition string) {
	m.rounds.WithLabelValues(disposition).Inc()
}

func (m *Prometheus) RecordDiscount(strokes float64) {
	label := "1"
	if strokes >= 2 {
		label = "2"
	}
	m.discounts.WithLabelValues(label).Inc()
}

func (m *Prometheus) RecordLowReset(kind string) {
	m.lowResets.WithLabelValues(kind).Inc()
}

func (m *Prometheus) RecordOperationDuration(operation string, d time.Duration) {
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Prometheus) RecordOperationFailure(operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

// Nop discards every event.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordRound(string) {}
func (Nop) RecordDiscount(float64) {}
func (Nop) RecordLowReset(string) {}
func (Nop) RecordOperationDuration(string, time.Duration) {}
func (Nop) RecordOperationFailure(string) {}
