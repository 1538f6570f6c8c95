// Package observability defines the Prometheus collectors shared by the
// client coordinator and the development gateway daemon.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rideflow", Name: "gateway_requests_total", Help: "Gateway calls by operation and outcome"},
		[]string{"op", "outcome"},
	)
	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rideflow",
			Name:      "gateway_request_duration_seconds",
			Help:      "Gateway call latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	ScreenTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rideflow", Name: "screen_transitions_total", Help: "Navigation transitions by target route"},
		[]string{"route"},
	)
	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rideflow", Name: "auth_events_total", Help: "Auth state changes by event type"},
		[]string{"event"},
	)
	RealtimeConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "rideflow", Name: "realtime_connections_total", Help: "Accepted realtime auth stream connections"},
	)
)
