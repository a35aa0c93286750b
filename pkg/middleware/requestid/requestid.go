// Package requestid assigns a unique identifier to every HTTP request and
// exposes it to handlers and responses.
package requestid

import (
	"context"
	"net/http"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader defines the HTTP header that is set in each HTTP response
// for a given request. The value of the header is unique per request.
const RequestIDHeader = "X-Request-Id"

type ctxKey struct{}

// InitID returns the ID to be used to identify the request.
// If trace is enabled, returns trace ID; otherwise returns a new ULID.
func InitID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.TraceID().IsValid() {
		return spanCtx.TraceID().String()
	}
	return ulid.Make().String()
}

// FromContext extracts the request id assigned by the middleware.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// NewMiddleware tags each request with an id, stores it on the context,
// and echoes it in the response headers.
func NewMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := InitID(r.Context())

		ctx := context.WithValue(r.Context(), ctxKey{}, requestID)
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("request_id", requestID))

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
