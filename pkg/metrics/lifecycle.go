package metrics

import "github.com/prometheus/client_golang/prometheus"

// LifecycleMetrics records stage transitions and lender delivery outcomes.
type LifecycleMetrics struct {
	stageTransitions *prometheus.CounterVec
	deliveryOutcomes *prometheus.CounterVec
}

// NewLifecycleMetrics registers the lifecycle metrics on the provided registerer.
// A nil registerer yields a no-op recorder, which tests rely on.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	if reg == nil {
		return &LifecycleMetrics{}
	}
	stageTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "application_stage_transitions_total",
		Help: "Application stage transitions by source and target stage.",
	}, []string{"from", "to"})
	deliveryOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lender_delivery_outcomes_total",
		Help: "Lender submission delivery outcomes by method and result.",
	}, []string{"method", "outcome"})
	reg.MustRegister(stageTransitions, deliveryOutcomes)
	return &LifecycleMetrics{
		stageTransitions: stageTransitions,
		deliveryOutcomes: deliveryOutcomes,
	}
}

// ObserveStageTransition counts one stage move.
func (m *LifecycleMetrics) ObserveStageTransition(from, to string) {
	if m == nil || m.stageTransitions == nil {
		return
	}
	m.stageTransitions.WithLabelValues(from, to).Inc()
}

// ObserveDeliveryOutcome counts one delivery attempt result.
func (m *LifecycleMetrics) ObserveDeliveryOutcome(method, outcome string) {
	if m == nil || m.deliveryOutcomes == nil {
		return
	}
	m.deliveryOutcomes.WithLabelValues(method, outcome).Inc()
}
