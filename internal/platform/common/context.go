package common

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Context keys for storing tracing information
type contextKey string

const (
	correlationIDKey contextKey = "correlationID"
	causationIDKey   contextKey = "causationID"
	executionCtxKey  contextKey = "executionContext"
)

// HTTP header names for distributed tracing
const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"
	HeaderCausationID   = "X-Causation-ID"
)

// ExecutionContext contains metadata about the current use case execution.
// It provides tracing information for audit logging and event causality.
type ExecutionContext struct {
	// ExecutionID is a unique identifier for this specific execution.
	ExecutionID string

	// CorrelationID is the distributed tracing identifier, propagated
	// across service boundaries to track a request through the system.
	CorrelationID string

	// CausationID is the ID of the event that caused this execution.
	CausationID string

	// PrincipalID identifies who is performing the action. For webhook
	// processing this is the integration ID.
	PrincipalID string

	// InitiatedAt is when the execution started.
	InitiatedAt time.Time
}

// NewExecutionContext creates a new execution context for a fresh request.
func NewExecutionContext(principalID string) *ExecutionContext {
	execID := "exec-" + uuid.NewString()
	return &ExecutionContext{
		ExecutionID:   execID,
		CorrelationID: execID, // correlation starts as execution ID
		CausationID:   "",
		PrincipalID:   principalID,
		InitiatedAt:   time.Now(),
	}
}

// ExecutionContextFromRequest creates an execution context from an HTTP request.
// It extracts correlation and causation IDs from headers if present.
func ExecutionContextFromRequest(r *http.Request, principalID string) *ExecutionContext {
	execID := "exec-" + uuid.NewString()

	correlationID := r.Header.Get(HeaderCorrelationID)
	if correlationID == "" {
		correlationID = r.Header.Get(HeaderRequestID)
	}
	if correlationID == "" {
		correlationID = execID
	}

	return &ExecutionContext{
		ExecutionID:   execID,
		CorrelationID: correlationID,
		CausationID:   r.Header.Get(HeaderCausationID),
		PrincipalID:   principalID,
		InitiatedAt:   time.Now(),
	}
}

// WithCorrelation creates a new execution context with a specific correlation ID.
// Used by the webhook dispatcher to continue the trace of the original delivery.
func WithCorrelation(principalID, correlationID string) *ExecutionContext {
	return &ExecutionContext{
		ExecutionID:   "exec-" + uuid.NewString(),
		CorrelationID: correlationID,
		CausationID:   "",
		PrincipalID:   principalID,
		InitiatedAt:   time.Now(),
	}
}

// ExecutionContextFromContext extracts execution context from a Go context.
// Returns nil if no execution context is present.
func ExecutionContextFromContext(ctx context.Context) *ExecutionContext {
	if ec, ok := ctx.Value(executionCtxKey).(*ExecutionContext); ok {
		return ec
	}
	return nil
}

// ToContext stores the execution context in a Go context.
func (ec *ExecutionContext) ToContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, executionCtxKey, ec)
}

// CorrelationIDFromContext extracts just the correlation ID from a context.
// Returns empty string if not present.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	if ec := ExecutionContextFromContext(ctx); ec != nil {
		return ec.CorrelationID
	}
	return ""
}

// WithCorrelationID adds a correlation ID to a context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// WithCausationID adds a causation ID to a context.
func WithCausationID(ctx context.Context, causationID string) context.Context {
	return context.WithValue(ctx, causationIDKey, causationID)
}

// TracingContext carries tracing information into background work.
// Capture it before handing a webhook off to the processor so the async run
// stays attached to the delivery's trace.
type TracingContext struct {
	CorrelationID string
	CausationID   string
}

// CaptureTracingContext captures the current tracing context from an HTTP request.
func CaptureTracingContext(r *http.Request) *TracingContext {
	correlationID := r.Header.Get(HeaderCorrelationID)
	if correlationID == "" {
		correlationID = r.Header.Get(HeaderRequestID)
	}
	if correlationID == "" {
		correlationID = "trace-" + uuid.NewString()
	}

	return &TracingContext{
		CorrelationID: correlationID,
		CausationID:   r.Header.Get(HeaderCausationID),
	}
}

// ToExecutionContext creates an ExecutionContext from the captured tracing info.
func (tc *TracingContext) ToExecutionContext(principalID string) *ExecutionContext {
	return &ExecutionContext{
		ExecutionID:   "exec-" + uuid.NewString(),
		CorrelationID: tc.CorrelationID,
		CausationID:   tc.CausationID,
		PrincipalID:   principalID,
		InitiatedAt:   time.Now(),
	}
}
