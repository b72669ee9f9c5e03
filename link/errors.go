package link

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrConfiguration is the kind of every error reported while parsing
// patterns or registering declarations. Such errors are expected to abort
// application start-up.
var ErrConfiguration = errors.New("link: configuration error")

// ErrNoSuchLink is the kind of error returned when no registered pattern of
// a controller can be rendered from the supplied parameters.
var ErrNoSuchLink = errors.New("link: no such link")

// ErrIllegalArgument is returned by the interceptor registration API for
// empty or duplicated interceptor names.
var ErrIllegalArgument = errors.New("link: illegal argument")

// ConfigError describes a malformed pattern or a registration conflict.
type ConfigError struct {
	// Pattern is the raw pattern text involved, if any.
	Pattern string

	// Controller is the controller being registered, if known.
	Controller reflect.Type

	// Reason is a human-readable description of the failure.
	Reason string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Controller != nil && e.Pattern != "":
		return fmt.Sprintf("link: %s: %s in %q", controllerName(e.Controller), e.Reason, e.Pattern)
	case e.Controller != nil:
		return fmt.Sprintf("link: %s: %s", controllerName(e.Controller), e.Reason)
	case e.Pattern != "":
		return fmt.Sprintf("link: %s in %q", e.Reason, e.Pattern)
	}
	return "link: " + e.Reason
}

// Is reports ErrConfiguration as the kind of every ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// NoSuchLinkError is returned by the generator when no candidate pattern
// exists for the requested controller and link name.
type NoSuchLinkError struct {
	Controller reflect.Type
	Name       string
}

func (e *NoSuchLinkError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("link: no link named %q for %s", e.Name, controllerName(e.Controller))
	}
	return fmt.Sprintf("link: no link for %s", controllerName(e.Controller))
}

// Is reports ErrNoSuchLink as the kind of every NoSuchLinkError.
func (e *NoSuchLinkError) Is(target error) bool {
	return target == ErrNoSuchLink
}

func configErrorf(pattern string, format string, args ...any) *ConfigError {
	return &ConfigError{Pattern: pattern, Reason: fmt.Sprintf(format, args...)}
}

func controllerName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
