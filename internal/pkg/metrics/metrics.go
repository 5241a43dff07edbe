// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "seckill"

var (
	Admissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admissions_total",
		Help:      "Seckill admission decisions by result.",
	}, []string{"result"})

	ConsumerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consumer_messages_total",
		Help:      "Order intents handled by the stream consumers by outcome.",
	}, []string{"outcome"})

	ConsumerPending = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "consumer_pending_messages",
		Help:      "Delivered but unacknowledged order intents in the consumer group.",
	})

	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Cache lookups by strategy and outcome.",
	}, []string{"strategy", "outcome"})

	CacheRebuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_rebuilds_total",
		Help:      "Background cache rebuilds by outcome.",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Outcome labels
const (
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeNull     = "null"
	OutcomeStale    = "stale"
	OutcomeError    = "error"
	OutcomeOK       = "ok"
	OutcomeSkipped  = "skipped"
	OutcomeAcked    = "acked"
	OutcomeRetry    = "retry"
	OutcomeTerminal = "terminal"
	OutcomePoison   = "poison"
)
