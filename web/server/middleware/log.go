package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/nrednav/cuid2"
)

// RequestIDHeader is the header that carries the ID of each request.
const RequestIDHeader = "X-Request-Id"

// Logger logs request details and response metrics. It also assigns an ID to
// each request, which is returned in the X-Request-Id response header. A valid
// ID sent by the client is reused.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(RequestIDHeader)
			if !cuid2.IsCuid(reqID) {
				reqID = cuid2.Generate()
			}
			w.Header().Set(RequestIDHeader, reqID)

			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.Info(
				fmt.Sprintf("%s %s", r.Method, r.URL),
				"request_id", reqID,
				"response_code", m.Code,
				"duration", m.Duration,
				"bytes_sent", m.Written,
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}
