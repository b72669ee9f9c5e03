package linkhandlers

import (
	"log/slog"
	"net/http"

	"github.com/vitalvas/pagelink/link"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// Logger receives an error record for every recovered panic, tagged with
	// the controller and pattern of the current match. When nil, nothing is
	// logged.
	Logger *slog.Logger

	// LogFunc is an optional callback invoked with the request and the
	// recovered value when a panic occurs.
	LogFunc func(r *http.Request, err any)
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// controller handlers. When a panic occurs it returns 500 Internal Server
// Error to the client.
func RecoveryMiddleware(cfg RecoveryConfig) link.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if cfg.Logger != nil {
						attrs := []any{slog.Any("panic", err), slog.String("path", r.URL.Path)}
						if m := link.CurrentMatch(r); m != nil {
							attrs = append(attrs,
								slog.String("controller", m.Controller.String()),
								slog.String("pattern", m.Pattern),
							)
						}
						cfg.Logger.ErrorContext(r.Context(), "linkhandlers: recovered panic", attrs...)
					}
					if cfg.LogFunc != nil {
						cfg.LogFunc(r, err)
					}

					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
