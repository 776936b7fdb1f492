// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics provides Prometheus collectors for the HTTP layer and the
// editorial workflow. Collectors are registered on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsdesk/internal/apperr"
)

const namespace = "newsdesk"

var (
	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// HTTPRequestsInFlight tracks requests currently being served.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Transitions counts lifecycle operations by action and outcome
	// ("ok", "unauthorized", "invalid_transition", "not_found", ...).
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "editorial",
			Name:      "transitions_total",
			Help:      "Article lifecycle operations by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// NotificationsCreated counts notifications written by event type.
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "created_total",
			Help:      "Notifications created by event type",
		},
		[]string{"type"},
	)

	// NotificationsFailed counts fan-out writes that failed by event type.
	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "failed_total",
			Help:      "Notification writes that failed during fan-out, by event type",
		},
		[]string{"type"},
	)

	// LiveSubscriptions tracks open unread-notification streams.
	LiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "live_subscriptions",
			Help:      "Number of open unread-notification subscriptions",
		},
	)
)

// ObserveTransition records the outcome of one lifecycle operation.
func ObserveTransition(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = apperr.Kind(err)
	}
	Transitions.WithLabelValues(action, outcome).Inc()
}
