package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AI request outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
	OutcomeUnparseable = "unparseable"
)

var (
	AIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secondbrain_ai_requests_total",
			Help: "AI gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "secondbrain_ai_request_duration_seconds",
			Help:    "Latency of outbound AI calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	Extractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secondbrain_extractions_total",
			Help: "URL extractions by result",
		},
		[]string{"result"},
	)

	ChatAnswers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secondbrain_chat_answers_total",
			Help: "Chat answers by mode (ai or template)",
		},
		[]string{"mode"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "secondbrain_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secondbrain_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
