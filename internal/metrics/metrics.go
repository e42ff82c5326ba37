// Package metrics exposes Prometheus instruments for every pipeline stage.
// Observability only: nothing here influences control flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_requests_total",
			Help: "Total number of query requests",
		},
		[]string{"path", "status"},
	)

	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "atlas_request_duration_seconds",
			Help:    "End-to-end request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Routing metrics
	RoutingDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_routing_decisions_total",
			Help: "Agents enabled by routing decisions",
		},
		[]string{"agent"},
	)

	RoutingFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "atlas_routing_fallbacks_total",
			Help: "Routing decisions that fell back to conversation-only",
		},
	)

	// Agent metrics
	AgentRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_agent_runs_total",
			Help: "Total number of agent invocations",
		},
		[]string{"agent", "status"},
	)

	AgentStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlas_agent_stage_duration_ms",
			Help:    "Per-agent stage duration in milliseconds",
			Buckets: []float64{100, 500, 1000, 2000, 5000, 10000, 30000},
		},
		[]string{"agent", "stage"},
	)

	ValidatorRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_validator_rejections_total",
			Help: "Generated queries rejected by the safety validator",
		},
		[]string{"agent"},
	)

	// Token metrics
	TokensUsed = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlas_tokens_used",
			Help:    "Tokens consumed per stage",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
		[]string{"stage"},
	)

	// Synthesis metrics
	SynthesisFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "atlas_synthesis_failures_total",
			Help: "Response synthesis calls that failed",
		},
	)
)
