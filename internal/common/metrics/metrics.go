// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsActivated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_activated_total",
			Help: "Total number of jobs handed to a worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	EligibilityDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_eligibility_decisions_total",
			Help: "Eligibility decisions by loan type and outcome",
		},
		[]string{"loan_type", "eligible"},
	)

	ValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_validation_rejections_total",
			Help: "Application forms rejected by the validation gate, per failing field",
		},
		[]string{"field"},
	)

	EMIQuoteCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_emi_quote_cache_total",
			Help: "EMI quote cache lookups by result",
		},
		[]string{"result"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_notifications_total",
			Help: "Eligibility notifications by channel and status",
		},
		[]string{"channel", "status"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_events_published_total",
			Help: "Domain events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_api_requests_total",
			Help: "REST API requests by route and status",
		},
		[]string{"route", "status"},
	)
)

// RecordEligibility counts one eligibility decision.
func RecordEligibility(loanType string, eligible bool) {
	outcome := "false"
	if eligible {
		outcome = "true"
	}
	EligibilityDecisions.WithLabelValues(loanType, outcome).Inc()
}

// RecordValidationFailure counts each failing field of a rejected form.
func RecordValidationFailure(fields []string) {
	for _, f := range fields {
		ValidationRejections.WithLabelValues(f).Inc()
	}
}
