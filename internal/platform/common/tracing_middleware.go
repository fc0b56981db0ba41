package common

import (
	"net/http"

	"github.com/google/uuid"
)

// TracingMiddleware extracts distributed tracing headers from incoming requests
// and adds them to the request context. It also ensures a correlation ID is
// present in responses for client-side tracking.
//
// Supported headers:
//   - X-Correlation-ID: Primary distributed tracing ID
//   - X-Request-ID: Alternative to correlation ID (some clients use this)
//   - X-Causation-ID: ID of the event that caused this request
//
// If no correlation ID is provided, one is generated automatically.
func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(HeaderCorrelationID)
		if correlationID == "" {
			correlationID = r.Header.Get(HeaderRequestID)
		}
		if correlationID == "" {
			correlationID = "trace-" + uuid.NewString()
		}

		causationID := r.Header.Get(HeaderCausationID)

		ctx := WithCorrelationID(r.Context(), correlationID)
		if causationID != "" {
			ctx = WithCausationID(ctx, causationID)
		}

		// Echo correlation ID so clients can track the request
		w.Header().Set(HeaderCorrelationID, correlationID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PropagateTracingHeaders copies tracing headers to an outgoing request.
// Use this when making HTTP calls to other services to maintain the trace.
func PropagateTracingHeaders(ctx interface{ Value(any) any }, req *http.Request) {
	if correlationID, ok := ctx.Value(correlationIDKey).(string); ok && correlationID != "" {
		req.Header.Set(HeaderCorrelationID, correlationID)
	}
	if causationID, ok := ctx.Value(causationIDKey).(string); ok && causationID != "" {
		req.Header.Set(HeaderCausationID, causationID)
	}
}
