// Package metrics declares the prometheus instruments for the clip pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics
var (
	// ClipsIngestedTotal tracks clip submissions by outcome
	ClipsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clips_ingested_total",
			Help: "Total clip submissions by outcome (ok, validation, transcode, storage, metadata)",
		},
		[]string{"outcome"},
	)

	// IngestDuration tracks the full ingestion pipeline latency in seconds
	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clip_ingest_duration_seconds",
			Help:    "Clip ingestion duration in seconds (validation through metadata write)",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// IngestInconsistencies tracks partial ingestion failures needing reconciliation
	IngestInconsistencies = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clip_ingest_inconsistencies_total",
			Help: "Ingestions that left audio and metadata in disagreement",
		},
	)
)

// Transcoder metrics
var (
	// TranscodeFailures tracks codec failures by stage
	TranscodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transcode_failures_total",
			Help: "Total transcoding failures",
		},
	)

	// TranscodeInFlight tracks currently running transcoder processes
	TranscodeInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "transcode_in_flight",
			Help: "Transcoder processes currently running",
		},
	)
)

// Vote metrics
var (
	// VotesRecordedTotal tracks votes by validity
	VotesRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_recorded_total",
			Help: "Total votes recorded by validity",
		},
		[]string{"valid"},
	)

	// VoteMarkerFailures tracks best-effort vote marker writes that failed
	VoteMarkerFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vote_marker_failures_total",
			Help: "Vote marker writes that failed (vote itself still recorded)",
		},
	)
)

// Storage metrics
var (
	// StorageOpDuration tracks storage backend operation latency in seconds
	StorageOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Storage backend operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"operation"},
	)

	// StreamedBytesTotal tracks bytes served by the streaming endpoint
	StreamedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamed_bytes_total",
			Help: "Total audio bytes served by the streaming endpoint",
		},
	)

	// StreamRequestsTotal tracks stream requests by response class
	StreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_requests_total",
			Help: "Stream requests by response class (full, partial, not_found)",
		},
		[]string{"class"},
	)
)

// Redis metrics
var (
	// RedisOpsTotal tracks Redis commands by operation and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by command and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis command latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks failed Redis connection attempts
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection establishment failures",
		},
	)

	// RedisBreakerState exposes the Redis circuit breaker state (0 closed, 1 half-open, 2 open)
	RedisBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "redis_circuit_breaker_state",
			Help: "Redis circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)
