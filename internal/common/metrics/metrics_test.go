package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// === Webhook Metrics Tests ===

func TestWebhooksReceived_Labels(t *testing.T) {
	results := []string{"accepted", "duplicate", "rejected", "rate_limited", "ignored"}
	for _, result := range results {
		WebhooksReceived.WithLabelValues("pull_request", result).Inc()
	}

	counter := WebhooksReceived.WithLabelValues("pull_request", "accepted")
	if counter == nil {
		t.Error("Expected counter to be non-nil")
	}
}

func TestWebhooksProcessed_Labels(t *testing.T) {
	statuses := []string{"processed", "ignored", "failed"}
	for _, status := range statuses {
		WebhooksProcessed.WithLabelValues("push", status).Inc()
	}

	counter := WebhooksProcessed.WithLabelValues("push", "processed")
	if counter == nil {
		t.Error("Expected counter to be non-nil")
	}
}

func TestWebhookProcessingDuration_Observe(t *testing.T) {
	durations := []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0}
	for _, d := range durations {
		WebhookProcessingDuration.WithLabelValues("pull_request").Observe(d)
	}

	histogram := WebhookProcessingDuration.WithLabelValues("pull_request")
	if histogram == nil {
		t.Error("Expected histogram to be non-nil")
	}
}

func TestWebhookRetries_Counter(t *testing.T) {
	before := testutil.ToFloat64(WebhookRetries)
	WebhookRetries.Inc()
	WebhookRetries.Inc()

	if got := testutil.ToFloat64(WebhookRetries); got != before+2 {
		t.Errorf("Expected retries %v, got %v", before+2, got)
	}
}

// === Issue Metrics Tests ===

func TestIssueTransitions_Labels(t *testing.T) {
	statuses := []string{"development", "review", "done", "released"}
	for _, status := range statuses {
		IssueTransitions.WithLabelValues(status).Inc()
	}

	counter := IssueTransitions.WithLabelValues("development")
	if counter == nil {
		t.Error("Expected counter to be non-nil")
	}
}

// === Auth Metrics Tests ===

func TestAuthFailures_Labels(t *testing.T) {
	AuthFailures.WithLabelValues("unauthorized").Inc()
	AuthFailures.WithLabelValues("forbidden").Inc()

	counter := AuthFailures.WithLabelValues("forbidden")
	if counter == nil {
		t.Error("Expected counter to be non-nil")
	}
}

// === Queue Metrics Tests ===

func TestQueueMetrics_Labels(t *testing.T) {
	queueTypes := []string{"embedded", "nats"}

	for _, qt := range queueTypes {
		QueueMessagesPublished.WithLabelValues(qt).Inc()
		QueueMessagesConsumed.WithLabelValues(qt).Inc()
		QueuePublishErrors.WithLabelValues(qt).Inc()
	}

	counter := QueueMessagesPublished.WithLabelValues("nats")
	if counter == nil {
		t.Error("Expected counter to be non-nil")
	}
}

// === HTTP Metrics Tests ===

func TestHTTPRequestsTotal_Labels(t *testing.T) {
	statusCodes := []string{"200", "201", "400", "401", "403", "404", "429", "500"}
	methods := []string{"GET", "POST", "PUT", "DELETE"}

	for _, code := range statusCodes {
		for _, method := range methods {
			HTTPRequestsTotal.WithLabelValues(method, "/api/issues", code).Inc()
		}
	}

	counter := HTTPRequestsTotal.WithLabelValues("GET", "/api/issues", "200")
	if counter == nil {
		t.Error("Expected counter to be non-nil")
	}
}

func TestHTTPRequestDuration_Observe(t *testing.T) {
	HTTPRequestDuration.WithLabelValues("POST", "/webhooks/github").Observe(0.05)

	histogram := HTTPRequestDuration.WithLabelValues("POST", "/webhooks/github")
	if histogram == nil {
		t.Error("Expected histogram to be non-nil")
	}
}

func TestHTTPActiveConnections_GaugeOperations(t *testing.T) {
	HTTPActiveConnections.Set(5)
	HTTPActiveConnections.Inc()
	HTTPActiveConnections.Dec()

	if got := testutil.ToFloat64(HTTPActiveConnections); got != 5 {
		t.Errorf("Expected 5 active connections, got %v", got)
	}
}
