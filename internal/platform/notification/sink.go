// Package notification provides a fire-and-forget activity sink that
// forwards domain events to an external HTTP endpoint.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"go.trackdeck.dev/internal/platform/common"
)

// Config configures the notification sink.
type Config struct {
	// URL is the endpoint events are posted to. Empty disables the sink.
	URL string

	// AuthToken is sent as a bearer token when set.
	AuthToken string

	// Timeout for each delivery attempt.
	Timeout time.Duration

	// CircuitBreaker settings
	CircuitBreakerRequests    uint32
	CircuitBreakerInterval    time.Duration
	CircuitBreakerRatio       float64
	CircuitBreakerTimeout     time.Duration
	CircuitBreakerMinRequests uint32
}

// DefaultConfig returns sensible defaults. The sink stays disabled until a
// URL is set.
func DefaultConfig() *Config {
	return &Config{
		Timeout:                   10 * time.Second,
		CircuitBreakerRequests:    5,
		CircuitBreakerInterval:    60 * time.Second,
		CircuitBreakerRatio:       0.5,
		CircuitBreakerTimeout:     30 * time.Second,
		CircuitBreakerMinRequests: 5,
	}
}

// envelope is the wire format posted to the sink endpoint.
type envelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Subject       string          `json:"subject"`
	Time          time.Time       `json:"time"`
	CorrelationID string          `json:"correlationId,omitempty"`
	PrincipalID   string          `json:"principalId,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// Sink posts domain events to a configured endpoint. Deliveries are
// best-effort: failures are logged and counted by the circuit breaker,
// never surfaced to the emitting use case.
type Sink struct {
	url       string
	authToken string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
}

// NewSink creates a notification sink. A nil config or empty URL yields a
// disabled sink whose Notify is a no-op.
func NewSink(cfg *Config) *Sink {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.URL == "" {
		return &Sink{}
	}

	s := &Sink{
		url:       cfg.URL,
		authToken: cfg.AuthToken,
		client:    &http.Client{Timeout: cfg.Timeout},
	}

	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notification-sink",
		MaxRequests: cfg.CircuitBreakerRequests,
		Interval:    cfg.CircuitBreakerInterval,
		Timeout:     cfg.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.CircuitBreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.CircuitBreakerRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return s
}

// Enabled reports whether a URL is configured.
func (s *Sink) Enabled() bool {
	return s.url != ""
}

// Notify posts one event asynchronously. Safe to call on a disabled sink.
func (s *Sink) Notify(event common.DomainEvent) {
	if !s.Enabled() || event == nil {
		return
	}
	go s.deliver(event)
}

func (s *Sink) deliver(event common.DomainEvent) {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.post(event)
	})
	if err != nil {
		slog.Warn("Notification delivery failed",
			"eventType", event.EventType(),
			"eventId", event.EventID(),
			"error", err)
	}
}

func (s *Sink) post(event common.DomainEvent) error {
	body, err := json.Marshal(envelope{
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		Subject:       event.Subject(),
		Time:          event.Time(),
		CorrelationID: event.CorrelationID(),
		PrincipalID:   event.PrincipalID(),
		Data:          json.RawMessage(event.ToDataJSON()),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &DeliveryError{StatusCode: resp.StatusCode}
	}
	return nil
}

// DeliveryError reports a non-2xx response from the sink endpoint.
type DeliveryError struct {
	StatusCode int
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification endpoint returned %d", e.StatusCode)
}
