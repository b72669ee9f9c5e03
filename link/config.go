package link

import (
	"log/slog"
	"reflect"
	"runtime"
	"strings"
)

// Config configures a Registry. The zero value is usable.
type Config struct {
	// ContextPath is prepended to every generated link, e.g. "/app".
	// A trailing slash is ignored.
	ContextPath string

	// EscapeQuery enables percent-encoding of overflow query keys and
	// values. Disabled by default: values are concatenated as given.
	EscapeQuery bool

	// InterceptorConcurrency caps the number of link generations that run
	// interceptors at the same time. Defaults to 8 * runtime.NumCPU().
	InterceptorConcurrency int64

	// Logger receives registration diagnostics at debug level.
	// When nil, nothing is logged.
	Logger *slog.Logger

	// Observer is notified about registrations, matches and generated
	// links. When nil, no notifications are sent.
	Observer Observer
}

// DefaultInterceptorConcurrency returns the default interceptor
// concurrency ceiling.
func DefaultInterceptorConcurrency() int64 {
	return int64(8 * runtime.NumCPU())
}

func (c Config) withDefaults() Config {
	c.ContextPath = strings.TrimSuffix(c.ContextPath, "/")
	if c.InterceptorConcurrency <= 0 {
		c.InterceptorConcurrency = DefaultInterceptorConcurrency()
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
	return c
}

// Observer receives notifications from a Registry. Implementations must be
// safe for concurrent use.
type Observer interface {
	// Registered is called after a declaration has been committed.
	Registered(ctrl reflect.Type, patterns int)

	// Matched is called for every Match call. m is nil when nothing matched.
	Matched(path string, m *Match)

	// Generated is called for every link generation. err is nil on success.
	Generated(ctrl reflect.Type, err error)
}

type nopObserver struct{}

func (nopObserver) Registered(reflect.Type, int)  {}
func (nopObserver) Matched(string, *Match)        {}
func (nopObserver) Generated(reflect.Type, error) {}
