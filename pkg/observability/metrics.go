package observability

import (
	"context"

	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the wizard.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Submissions prometheus.Counter
	OpenDrafts  prometheus.Gauge
	Budget      prometheus.Histogram
	GroupSize   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfarer_transitions_total",
				Help: "Total number of wizard events by kind and outcome",
			},
			[]string{"event", "outcome"},
		),
		Submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wayfarer_submissions_total",
			Help: "Total number of submitted trip requests",
		}),
		OpenDrafts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wayfarer_open_drafts",
			Help: "Number of sessions currently collecting a trip request",
		}),
		Budget: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wayfarer_submitted_budget_per_person",
			Help:    "Budget per person of submitted requests",
			Buckets: prometheus.LinearBuckets(float64(domain.MinBudgetPerPerson), 20000, 10),
		}),
		GroupSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wayfarer_submitted_group_size",
			Help:    "Group size of submitted requests",
			Buckets: []float64{1, 2, 4, 6, 10, 15, 20},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Submissions, m.OpenDrafts, m.Budget, m.GroupSize)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.Event), string(e.Outcome)).Inc()

			// A draft exists exactly while collecting.
			switch e.Outcome {
			case domain.OutcomeStarted, domain.OutcomeEdited:
				m.OpenDrafts.Inc()
			case domain.OutcomeSubmitted, domain.OutcomeExited:
				m.OpenDrafts.Dec()
			}
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			m.Submissions.Inc()
			m.Budget.Observe(float64(e.Request.BudgetPerPerson))
			m.GroupSize.Observe(float64(e.Request.GroupSize))
		},
	}
}
