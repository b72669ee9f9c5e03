package linkhandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vitalvas/pagelink/link"
)

// AccessLogMiddleware returns a middleware that writes one info record per
// dispatched request with the resolved controller, pattern, action, status
// and duration.
func AccessLogMiddleware(logger *slog.Logger) link.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
			}
			if m := link.CurrentMatch(r); m != nil {
				attrs = append(attrs,
					slog.String("controller", m.Controller.String()),
					slog.String("pattern", m.Pattern),
					slog.String("action", link.Action(r)),
				)
			}
			if info, ok := RequestInfoFromContext(r.Context()); ok {
				if info.ID != "" {
					attrs = append(attrs, slog.String("request_id", info.ID))
				}
				if info.ParentID != "" {
					attrs = append(attrs, slog.String("parent_id", info.ParentID))
				}
			}

			logger.InfoContext(r.Context(), "linkhandlers: request", attrs...)
		})
	}
}

// statusResponseWriter records the status code written by the handler.
type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusResponseWriter) WriteHeader(statusCode int) {
	if !sw.wroteHeader {
		sw.status = statusCode
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(statusCode)
}

func (sw *statusResponseWriter) Write(b []byte) (int, error) {
	sw.wroteHeader = true
	return sw.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter for middleware compatibility.
func (sw *statusResponseWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
