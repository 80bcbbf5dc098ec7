package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "market_scope"

// HTTP request metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status_code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being processed.",
	})
)

// Refresh cycle metrics.
var (
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "total",
		Help:      "Total refresh cycles by outcome.",
	}, []string{"status"})

	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "duration_seconds",
		Help:      "Duration of a refresh cycle in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	RefreshLastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "last_success_timestamp",
		Help:      "Unix timestamp of the last successful refresh cycle.",
	})

	RewardFeedFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "reward_feed_failures_total",
		Help:      "Reward feed fetches that degraded to an empty feed.",
	})

	CacheDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "decisions_total",
		Help:      "Cache freshness decisions by outcome.",
	}, []string{"decision"})
)

// Market metrics.
var (
	MarketTVL = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "market",
		Name:      "tvl_usd",
		Help:      "Latest TVL of a market in USD.",
	}, []string{"market"})

	MarketReward = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "market",
		Name:      "reward_last_period",
		Help:      "Reward tokens distributed to a market last period.",
	}, []string{"market"})

	TokenPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "market",
		Name:      "token_price_usd",
		Help:      "Resolved USD price of a token.",
	}, []string{"token"})
)
