// Package metrics defines the Prometheus collectors shared across the
// application. Repository-level metrics live in common/repository.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook ingest metrics

	// WebhooksReceived tracks webhook deliveries by outcome at the ingest endpoint
	WebhooksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trackdeck",
			Subsystem: "webhook",
			Name:      "received_total",
			Help:      "Total webhook deliveries received at the ingest endpoint",
		},
		[]string{"event_type", "result"}, // result: accepted, duplicate, rejected, rate_limited, ignored
	)

	// WebhooksProcessed tracks processed webhooks by terminal status
	WebhooksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trackdeck",
			Subsystem: "webhook",
			Name:      "processed_total",
			Help:      "Total webhooks that reached a terminal processing state",
		},
		[]string{"event_type", "status"}, // status: processed, ignored, failed
	)

	// WebhookProcessingDuration tracks processing duration per event type
	WebhookProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trackdeck",
			Subsystem: "webhook",
			Name:      "processing_duration_seconds",
			Help:      "Time to run the workflow state machine for one webhook",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"event_type"},
	)

	// WebhookRetries tracks operator-initiated retries
	WebhookRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trackdeck",
			Subsystem: "webhook",
			Name:      "retries_total",
			Help:      "Total failed webhooks re-enqueued by an operator",
		},
	)

	// Issue metrics

	// IssueTransitions tracks workflow-driven status transitions
	IssueTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trackdeck",
			Subsystem: "issue",
			Name:      "transitions_total",
			Help:      "Total issue status transitions applied from webhook events",
		},
		[]string{"target_status"},
	)

	// Auth metrics

	// AuthFailures tracks rejected requests by reason
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trackdeck",
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Total requests rejected by authentication or permission checks",
		},
		[]string{"reason"}, // unauthorized, forbidden
	)

	// Queue metrics

	// QueueMessagesPublished tracks messages published to queue
	QueueMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trackdeck",
			Subsystem: "queue",
			Name:      "messages_published_total",
			Help:      "Total messages published to queue",
		},
		[]string{"queue_type"}, // embedded, nats
	)

	// QueueMessagesConsumed tracks messages consumed from queue
	QueueMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trackdeck",
			Subsystem: "queue",
			Name:      "messages_consumed_total",
			Help:      "Total messages consumed from queue",
		},
		[]string{"queue_type"},
	)

	// QueuePublishErrors tracks queue publish errors
	QueuePublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trackdeck",
			Subsystem: "queue",
			Name:      "publish_errors_total",
			Help:      "Total queue publish errors",
		},
		[]string{"queue_type"},
	)

	// HTTP API metrics

	// HTTPRequestsTotal tracks HTTP API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trackdeck",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP API requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP API request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trackdeck",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP API request duration",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// HTTPActiveConnections tracks active HTTP connections
	HTTPActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "trackdeck",
			Subsystem: "http",
			Name:      "active_connections",
			Help:      "Number of active HTTP connections",
		},
	)
)
