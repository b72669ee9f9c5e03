package link

import (
	"net/http"
	"path"
	"strings"
	"sync"
)

// Handler dispatches HTTP requests to the handler bound to the controller
// their path resolves to.
//
// It implements the http.Handler interface:
//
//	reg := link.New(link.Config{})
//	reg.MustRegister(link.Declare(ProfilePage{}, link.LinkSpec{Pattern: "profile/{handle}"}))
//
//	h := link.NewHandler(reg)
//	h.Handle(ProfilePage{}, profileHandler)
//	http.ListenAndServe(":8080", h)
type Handler struct {
	// NotFoundHandler is called when no pattern matches or the matched
	// controller has no bound handler. If nil, http.NotFoundHandler() is
	// used.
	NotFoundHandler http.Handler

	registry *Registry

	handlers sync.Map // map[reflect.Type]http.Handler

	// handlerCache caches the middleware-wrapped handler per controller.
	handlerCache sync.Map // map[reflect.Type]http.Handler

	mu          sync.RWMutex
	middlewares []MiddlewareFunc
}

// NewHandler returns a Handler resolving requests with reg.
func NewHandler(reg *Registry) *Handler {
	return &Handler{registry: reg}
}

// Registry returns the registry used to resolve requests.
func (h *Handler) Registry() *Registry {
	return h.registry
}

// Handle binds the controller ctrl to handler.
func (h *Handler) Handle(ctrl any, handler http.Handler) *Handler {
	t := TypeOf(ctrl)
	h.handlers.Store(t, handler)
	h.handlerCache.Delete(t)
	return h
}

// HandleFunc binds the controller ctrl to a handler function.
func (h *Handler) HandleFunc(ctrl any, f func(http.ResponseWriter, *http.Request)) *Handler {
	return h.Handle(ctrl, http.HandlerFunc(f))
}

// Use appends middleware to the chain. Middleware wraps bound handlers
// only.
func (h *Handler) Use(mwf ...MiddlewareFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.middlewares = append(h.middlewares, mwf...)
	h.handlerCache.Clear()
}

// ServeHTTP resolves the request path and dispatches the bound handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := h.notFound()

	if p, ok := h.relativePath(cleanPath(req.URL.Path)); ok {
		if m, ok := h.registry.Match(p); ok {
			if bound := h.bound(m); bound != nil {
				handler = bound
				req = setMatchContext(req, m)
			}
		}
	}

	handler.ServeHTTP(w, req)
}

// bound returns the middleware-wrapped handler of the matched controller.
func (h *Handler) bound(m *Match) http.Handler {
	if cached, ok := h.handlerCache.Load(m.Controller); ok {
		return cached.(http.Handler)
	}

	v, ok := h.handlers.Load(m.Controller)
	if !ok {
		return nil
	}

	wrapped := h.applyMiddleware(v.(http.Handler))
	h.handlerCache.Store(m.Controller, wrapped)
	return wrapped
}

func (h *Handler) applyMiddleware(handler http.Handler) http.Handler {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.middlewares) - 1; i >= 0; i-- {
		handler = h.middlewares[i].Middleware(handler)
	}
	return handler
}

func (h *Handler) notFound() http.Handler {
	if h.NotFoundHandler != nil {
		return h.NotFoundHandler
	}
	return http.NotFoundHandler()
}

// relativePath strips the registry's context path from p.
func (h *Handler) relativePath(p string) (string, bool) {
	cp := h.registry.ContextPath()
	if cp == "" {
		return p, true
	}
	if p == cp {
		return "/", true
	}
	if strings.HasPrefix(p, cp+"/") {
		return p[len(cp):], true
	}
	return "", false
}

// cleanPath returns the canonical path for p, eliminating . and .. elements.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

// MiddlewareFunc is a function which receives an http.Handler and returns
// another http.Handler.
type MiddlewareFunc func(http.Handler) http.Handler

// Middleware allows MiddlewareFunc to wrap a handler.
func (mw MiddlewareFunc) Middleware(handler http.Handler) http.Handler {
	return mw(handler)
}
