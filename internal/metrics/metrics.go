// Package metrics holds the Prometheus collectors shared by the presence link,
// the fan-out hub and the repository enricher. Collectors are registered on the
// default registry and exposed by the web server at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "presencedash"

var (
	// UpstreamState reports the presence link state (0 disconnected, 1 connecting,
	// 2 connected, 3 reconnecting).
	UpstreamState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "upstream_state",
		Help:      "Current state of the upstream presence connection.",
	})

	UpstreamReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_reconnects_total",
		Help:      "Reconnect attempts scheduled after the upstream connection dropped.",
	})

	PresenceUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "presence_updates_total",
		Help:      "Presence events decoded and stored.",
	})

	PresenceDecodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "presence_decode_errors_total",
		Help:      "Upstream messages skipped because they could not be decoded.",
	})

	FanoutClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fanout_clients",
		Help:      "Browser clients currently subscribed to presence updates.",
	})

	FanoutDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fanout_dropped_total",
		Help:      "Queued updates discarded in favour of a newer snapshot for a slow client.",
	})

	// GitHubRequests counts hosting API calls by endpoint (repos, topics, readme)
	// and outcome (ok, not_found, cancelled, rejected, error).
	GitHubRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "github_requests_total",
		Help:      "Hosting API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// GitHubBreakerState mirrors the hosting API circuit breaker (0 closed,
	// 1 half-open, 2 open).
	GitHubBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "github_breaker_state",
		Help:      "State of the hosting API circuit breaker.",
	})
)
