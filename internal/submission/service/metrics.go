package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotesync_submission_attempts_total",
		Help: "Pipeline runs that reached the network stage.",
	})

	submissionSuccesses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotesync_submission_success_total",
		Help: "Submissions finalized as SUCCESS.",
	})

	submissionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotesync_submission_failures_total",
		Help: "Submissions finalized as FAILED.",
	})

	writeLinesDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quotesync_netsuite_write_duration_seconds",
		Help:    "Wall time of the NetSuite write including transport retries.",
		Buckets: prometheus.DefBuckets,
	})
)
