package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_sharing", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"service", "method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ride_sharing",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_sharing", Name: "events_published_total", Help: "Events published to the bus"},
		[]string{"exchange", "routing_key"},
	)
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_sharing", Name: "events_consumed_total", Help: "Events consumed from the bus"},
		[]string{"routing_key", "outcome"},
	)

	RideAcceptConflicts = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "ride_sharing", Name: "ride_accept_conflicts_total", Help: "Accept attempts that lost the race or hit a busy driver"},
	)
)
