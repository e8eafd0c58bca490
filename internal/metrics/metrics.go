// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts calls to external collaborators by source and outcome.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_upstream_requests_total",
			Help: "Total number of upstream requests",
		},
		[]string{"source", "outcome"},
	)

	// UpstreamLatency tracks upstream call latency.
	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_upstream_latency_seconds",
			Help:    "Upstream request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// ProfileTransitions counts profile controller state transitions by target state.
	ProfileTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_profile_transitions_total",
			Help: "Total number of profile controller state transitions",
		},
		[]string{"state"},
	)

	// ProfileRetries counts retry timer firings.
	ProfileRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_profile_retries_total",
			Help: "Total number of profile fetch retries",
		},
	)

	// ProfileStaleResponses counts responses discarded because a newer request superseded them.
	ProfileStaleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_profile_stale_responses_total",
			Help: "Total number of superseded profile responses discarded",
		},
	)

	// ActiveSessions tracks live visitor sessions.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_active_sessions",
			Help: "Number of live visitor sessions",
		},
	)

	// ContactSubmissions counts contact form submissions by outcome.
	ContactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_contact_submissions_total",
			Help: "Total number of contact form submissions",
		},
		[]string{"outcome"},
	)

	// HTTPRequestDuration tracks served request latency by route pattern and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeInvalid = "invalid"
)
