// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decision sources
const (
	SourceManual  = "manual"
	SourceAuto    = "auto"
	SourceCleared = "cleared"
)

var (
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movienight",
		Name:      "decisions_total",
		Help:      "Group decisions persisted, by source.",
	}, []string{"source"})

	Rotations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "movienight",
		Name:      "rotations_total",
		Help:      "Proposer rotations triggered by a watched movie.",
	})

	StaleProposalsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "movienight",
		Name:      "stale_proposals_deleted_total",
		Help:      "Unwatched proposals purged when a proposer's turn ended.",
	})

	TxRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "movienight",
		Name:      "tx_retries_total",
		Help:      "Transactions retried after a serialization failure or deadlock.",
	})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
