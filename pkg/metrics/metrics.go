package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records OTP login verifications by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirebridge_auth_attempts_total",
			Help: "Total number of login OTP verification attempts",
		},
		[]string{"result"},
	)

	// OTPDispatches counts outbound OTP deliveries by channel (email|sms) and outcome (sent|failed).
	OTPDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirebridge_otp_dispatches_total",
			Help: "Total number of OTP dispatch attempts",
		},
		[]string{"channel", "status"},
	)

	// JobPostingsCreated counts successfully created job postings.
	JobPostingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hirebridge_job_postings_created_total",
			Help: "Total number of job postings created",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hirebridge_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
