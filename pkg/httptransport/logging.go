package httptransport

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// LogRequests returns a middleware that logs each request with its status
// and duration. A nil lg uses the logger from the request context (zctx).
func LogRequests(lg *zap.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			log := lg
			if log == nil {
				log = zctx.From(req.Context())
			}
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("url", req.URL.Redacted()),
			}
			if id := RequestIDFromContext(req.Context()); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}

			start := time.Now()
			resp, err := next.RoundTrip(req)
			fields = append(fields, zap.Duration("duration", time.Since(start)))

			if err != nil {
				log.Warn("Request failed", append(fields, zap.Error(err))...)
				return nil, err
			}
			log.Debug("Request completed", append(fields, zap.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}
