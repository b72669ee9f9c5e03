package linkhandlers

import (
	"context"
	"net/http"
	"reflect"

	"github.com/google/uuid"
	"github.com/vitalvas/pagelink/link"
)

// DefaultRequestIDHeader is the header used when RequestIDConfig.HeaderName
// is empty.
const DefaultRequestIDHeader = "X-Request-ID"

// RequestInfo identifies a dispatched request and the link it arrived on.
type RequestInfo struct {
	// ID is the request ID.
	ID string

	// ParentID is the ID of the request whose page rendered the link this
	// request followed, taken from RequestIDConfig.QueryParam. Empty when
	// the link carried none.
	ParentID string

	// Controller and Pattern describe the matched link.
	Controller reflect.Type
	Pattern    string
}

type requestInfoKey struct{}

// RequestInfoFromContext returns the request info stored by
// RequestIDMiddleware.
func RequestInfoFromContext(ctx context.Context) (RequestInfo, bool) {
	if ctx == nil {
		return RequestInfo{}, false
	}
	info, ok := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info, ok
}

// RequestIDFromContext returns the request ID stored by RequestIDMiddleware,
// or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	info, _ := RequestInfoFromContext(ctx)
	return info.ID
}

// RequestIDConfig configures RequestIDMiddleware.
type RequestIDConfig struct {
	// HeaderName carries the ID on the request and the response.
	// Defaults to DefaultRequestIDHeader.
	HeaderName string

	// QueryParam names the query parameter RequestIDInterceptor writes into
	// generated links. When set, its value on an incoming request becomes
	// RequestInfo.ParentID.
	QueryParam string

	// GenerateFunc returns a new ID for the request and its match.
	// Defaults to GenerateUUIDv4.
	GenerateFunc func(r *http.Request, m *link.Match) string

	// TrustIncoming reuses the ID of the incoming header when present.
	TrustIncoming bool
}

// RequestIDMiddleware returns a middleware that assigns every dispatched
// request an ID and records it, together with the matched controller and
// pattern, in the request context. The ID is also set on the request and
// response headers.
func RequestIDMiddleware(cfg RequestIDConfig) link.MiddlewareFunc {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = DefaultRequestIDHeader
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := link.CurrentMatch(r)

			info := RequestInfo{}
			if m != nil {
				info.Controller = m.Controller
				info.Pattern = m.Pattern
			}
			if cfg.QueryParam != "" {
				info.ParentID = r.URL.Query().Get(cfg.QueryParam)
			}
			if cfg.TrustIncoming {
				info.ID = r.Header.Get(headerName)
			}
			if info.ID == "" {
				info.ID = generate(r, m)
			}

			if info.ID != "" {
				r.Header.Set(headerName, info.ID)
				w.Header().Set(headerName, info.ID)
			}
			r = r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info))

			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDInterceptor returns an interceptor that appends param=<request
// ID> to links generated with Registry.LinkContext under a request handled
// by RequestIDMiddleware. Configure the middleware with the same QueryParam
// to read it back as RequestInfo.ParentID when the link is followed.
func RequestIDInterceptor(param string) link.Interceptor {
	return StickyQueryInterceptor(param, func(req link.LinkRequest) string {
		return RequestIDFromContext(req.Context)
	})
}

// GenerateUUIDv4 returns a new random UUID v4 string.
func GenerateUUIDv4(_ *http.Request, _ *link.Match) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new time-ordered UUID v7 string.
func GenerateUUIDv7(_ *http.Request, _ *link.Match) string {
	return uuid.Must(uuid.NewV7()).String()
}
