package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsTotal counts provisioning jobs by terminal outcome.
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provision_jobs_total",
			Help: "Total number of provisioning jobs by outcome",
		},
		[]string{"outcome"},
	)

	// StepDuration observes wall-clock execution time per pipeline step.
	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provision_step_duration_seconds",
			Help:    "Provisioning step duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"step"},
	)

	// StepFailures counts step failures by step name.
	StepFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provision_step_failures_total",
			Help: "Total number of failed provisioning steps",
		},
		[]string{"step"},
	)

	// NotificationsTotal counts notification dispatches by kind and result.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provision_notifications_total",
			Help: "Total number of notification dispatches",
		},
		[]string{"kind", "result"},
	)
)
