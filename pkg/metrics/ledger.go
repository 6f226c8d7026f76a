package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	DirectionIncrement = "increment"
	DirectionDecrement = "decrement"

	OutcomeApplied      = "applied"
	OutcomeInsufficient = "insufficient"
	OutcomeNotFound     = "not_found"
)

// LedgerMetrics tracks stock adjustments and reconciliation drift.
type LedgerMetrics struct {
	adjustments *prometheus.CounterVec
	units       *prometheus.CounterVec
	driftParts  prometheus.Gauge
	repaired    prometheus.Counter
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autoshop_ledger_adjustments_total",
		Help: "Part quantity adjustments by direction and outcome.",
	}, []string{"direction", "outcome"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autoshop_ledger_adjusted_units_total",
		Help: "Absolute units moved by applied adjustments.",
	}, []string{"direction"})
	driftParts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "autoshop_ledger_drift_parts",
		Help: "Parts whose qty_left disagreed with active records on the last reconciliation.",
	})
	repaired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "autoshop_ledger_repaired_parts_total",
		Help: "Parts whose qty_left was rewritten by reconciliation.",
	})
	reg.MustRegister(adjustments, units, driftParts, repaired)
	return &LedgerMetrics{
		adjustments: adjustments,
		units:       units,
		driftParts:  driftParts,
		repaired:    repaired,
	}
}

// ObserveAdjustment records one signed adjustment attempt.
func (m *LedgerMetrics) ObserveAdjustment(delta int, outcome string) {
	if m == nil || m.adjustments == nil {
		return
	}
	direction := DirectionIncrement
	units := delta
	if delta < 0 {
		direction = DirectionDecrement
		units = -delta
	}
	m.adjustments.WithLabelValues(direction, normalizeLabel(outcome)).Inc()
	if outcome == OutcomeApplied {
		m.units.WithLabelValues(direction).Add(float64(units))
	}
}

// SetDriftParts publishes the drift count of the latest reconciliation.
func (m *LedgerMetrics) SetDriftParts(count int) {
	if m == nil || m.driftParts == nil {
		return
	}
	m.driftParts.Set(float64(count))
}

// AddRepaired counts parts rewritten by reconciliation.
func (m *LedgerMetrics) AddRepaired(count int) {
	if m == nil || m.repaired == nil || count <= 0 {
		return
	}
	m.repaired.Add(float64(count))
}
