package httptransport

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the request identifier.
const HeaderRequestID = "X-Request-ID"

// requestIDKey is the context key for the request ID value.
type requestIDKey struct{}

// WithRequestID returns a context carrying id. RequestID reuses it instead of
// generating a new one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request ID from the context.
// It returns an empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestID returns a middleware that tags every outbound request with an
// X-Request-ID header. The ID comes from the request context when set with
// WithRequestID, otherwise a new UUID v4 is generated. The ID is stored in
// the context seen by inner middleware.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			id := req.Header.Get(HeaderRequestID)
			if id == "" {
				id = RequestIDFromContext(req.Context())
			}
			if id == "" {
				id = uuid.New().String()
			}

			req = req.Clone(WithRequestID(req.Context(), id))
			req.Header.Set(HeaderRequestID, id)
			return next.RoundTrip(req)
		})
	}
}
