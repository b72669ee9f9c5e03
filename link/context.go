package link

import (
	"context"
	"net/http"
)

// matchContextKey is an unexported type for the context key.
type matchContextKey struct{}

// ActionParam is the query parameter that overrides a spec's default
// action.
const ActionParam = "action"

// CurrentMatch returns the match of the current request, if any. It only
// works inside handlers dispatched by Handler.
func CurrentMatch(r *http.Request) *Match {
	if m, ok := r.Context().Value(matchContextKey{}).(*Match); ok {
		return m
	}
	return nil
}

// Vars returns the pattern parameters of the current request, if any.
func Vars(r *http.Request) map[string]string {
	if m := CurrentMatch(r); m != nil {
		return m.Params
	}
	return nil
}

// Action returns the action requested via the "action" query parameter,
// falling back to the default action of the matched link spec.
func Action(r *http.Request) string {
	if a := r.URL.Query().Get(ActionParam); a != "" {
		return a
	}
	if m := CurrentMatch(r); m != nil {
		return m.Spec.Action
	}
	return ""
}

// WithMatch returns a copy of r carrying m. This is intended for testing
// controller handlers.
func WithMatch(r *http.Request, m *Match) *http.Request {
	return setMatchContext(r, m)
}

func setMatchContext(r *http.Request, m *Match) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), matchContextKey{}, m))
}
