package link

import (
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// Registry maps controllers to link patterns. It resolves request paths to
// controllers (Match) and renders links to controllers (Link).
//
// Registration is serialized and expected to happen during start-up. Match
// and Link are lock-free: they read an immutable snapshot that is replaced
// atomically on every successful registration.
type Registry struct {
	// mu serializes registrations.
	mu    sync.Mutex
	state atomic.Pointer[registryState]

	interceptors *Interceptors

	contextPath string
	escapeQuery bool
	logger      *slog.Logger
	observer    Observer
}

// registryState is a committed, immutable view of all registrations.
type registryState struct {
	// controllers is kept in registration order.
	controllers []*controllerEntry
	byType      map[reflect.Type]*controllerEntry
	byName      map[string]reflect.Type
	// owners maps each raw pattern text to the controller that declared it.
	owners map[string]reflect.Type
}

// controllerEntry holds the patterns of one controller in declaration order.
type controllerEntry struct {
	typ   reflect.Type
	links []*registeredLink
}

// registeredLink is one pattern alternative together with its spec.
type registeredLink struct {
	pattern *Pattern
	spec    LinkSpec
}

// New returns an empty Registry configured by cfg.
func New(cfg Config) *Registry {
	cfg = cfg.withDefaults()
	r := &Registry{
		interceptors: NewInterceptors(cfg.InterceptorConcurrency),
		contextPath:  cfg.ContextPath,
		escapeQuery:  cfg.EscapeQuery,
		logger:       cfg.Logger,
		observer:     cfg.Observer,
	}
	r.state.Store(&registryState{
		byType: make(map[reflect.Type]*controllerEntry),
		byName: make(map[string]reflect.Type),
		owners: make(map[string]reflect.Type),
	})
	return r
}

// Interceptors returns the interceptor chain applied to generated links.
func (r *Registry) Interceptors() *Interceptors {
	return r.interceptors
}

// ContextPath returns the prefix of every generated link.
func (r *Registry) ContextPath() string {
	return r.contextPath
}

// Register validates and commits the effective link specs of d. Either all
// patterns of d are committed or none: any violation returns a
// *ConfigError and leaves the registry unchanged.
//
// Registering the same controller again appends new patterns to it; the
// same pattern text can never be registered twice.
func (r *Registry) Register(d *Declaration) error {
	if d == nil || d.Type == nil {
		return &ConfigError{Reason: "nil controller declaration"}
	}

	links := d.effectiveLinks()
	if len(links) == 0 {
		return &ConfigError{Controller: d.Type, Reason: "no link specs declared"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.state.Load()

	var added []*registeredLink
	local := make(map[string]bool)

	for _, spec := range links {
		patterns, err := ParseLinkSpec(spec)
		if err != nil {
			return withController(err, d.Type)
		}

		for _, p := range patterns {
			alt := p.text
			if owner, ok := cur.owners[alt]; ok {
				return &ConfigError{
					Controller: d.Type,
					Pattern:    alt,
					Reason:     "link pattern already registered by " + controllerName(owner),
				}
			}
			if local[alt] {
				return &ConfigError{Controller: d.Type, Pattern: alt, Reason: "link pattern declared twice"}
			}
			local[alt] = true

			added = append(added, &registeredLink{pattern: p, spec: spec})
		}
	}

	names := make(map[string]bool)
	for _, spec := range links {
		if spec.Name == "" {
			return &ConfigError{
				Controller: d.Type,
				Pattern:    spec.Pattern,
				Reason:     "link name is empty; unnamed controller types need an explicit name",
			}
		}
		if owner, ok := cur.byName[spec.Name]; ok && owner != d.Type {
			return &ConfigError{
				Controller: d.Type,
				Reason:     "link name " + spec.Name + " already used by " + controllerName(owner),
			}
		}
		names[spec.Name] = true
	}

	next := cur.with(d.Type, added, names)
	r.state.Store(next)

	r.logger.Debug("link: registered controller",
		slog.String("controller", controllerName(d.Type)),
		slog.Any("names", slices.Sorted(maps.Keys(names))),
		slog.Int("patterns", len(added)),
	)
	r.observer.Registered(d.Type, len(added))

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(decls ...*Declaration) {
	for _, d := range decls {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// with returns a copy of s extended by the given registration.
func (s *registryState) with(t reflect.Type, added []*registeredLink, names map[string]bool) *registryState {
	next := &registryState{
		byType: maps.Clone(s.byType),
		byName: maps.Clone(s.byName),
		owners: maps.Clone(s.owners),
	}

	entry := &controllerEntry{typ: t}
	existing, ok := s.byType[t]
	if ok {
		entry.links = append(entry.links, existing.links...)
	}
	entry.links = append(entry.links, added...)

	next.controllers = make([]*controllerEntry, 0, len(s.controllers)+1)
	for _, c := range s.controllers {
		if c.typ == t {
			c = entry
		}
		next.controllers = append(next.controllers, c)
	}
	if !ok {
		next.controllers = append(next.controllers, entry)
	}

	next.byType[t] = entry
	for name := range names {
		next.byName[name] = t
	}
	for _, l := range added {
		next.owners[l.pattern.text] = t
	}

	return next
}

// Lookup returns the controller registered under the logical name.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	t, ok := r.state.Load().byName[name]
	return t, ok
}

// Controllers returns the registered controllers in registration order.
func (r *Registry) Controllers() []reflect.Type {
	s := r.state.Load()
	types := make([]reflect.Type, len(s.controllers))
	for i, c := range s.controllers {
		types[i] = c.typ
	}
	return types
}

// Patterns returns the raw pattern texts of a controller in declaration
// order.
func (r *Registry) Patterns(ctrl any) []string {
	entry, ok := r.state.Load().byType[TypeOf(ctrl)]
	if !ok {
		return nil
	}
	texts := make([]string, len(entry.links))
	for i, l := range entry.links {
		texts[i] = l.pattern.text
	}
	return texts
}

// WalkFunc is called by Walk for every registered pattern.
type WalkFunc func(ctrl reflect.Type, pattern *Pattern, spec LinkSpec) error

// Walk calls fn for every registered pattern, controllers in registration
// order and patterns in declaration order. It stops at the first error.
func (r *Registry) Walk(fn WalkFunc) error {
	for _, c := range r.state.Load().controllers {
		for _, l := range c.links {
			if err := fn(c.typ, l.pattern, l.spec); err != nil {
				return err
			}
		}
	}
	return nil
}

// withController attaches the controller to a configuration error.
func withController(err error, t reflect.Type) error {
	if ce, ok := err.(*ConfigError); ok {
		out := *ce
		out.Controller = t
		return &out
	}
	return err
}
