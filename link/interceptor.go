package link

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Interceptor rewrites a generated link before it is returned to the
// caller.
type Interceptor func(link string, req LinkRequest) string

// Interceptors is an ordered, named chain of interceptors.
//
// Apply runs concurrently up to a fixed ceiling; callers beyond it block
// until a slot frees up. Add and Remove wait for every running Apply to
// finish and block new ones until the chain is updated, so a single Apply
// always sees either the old or the new set of interceptors.
//
// Interceptors must not call Add, Remove or Has on the chain running them.
type Interceptors struct {
	slots *semaphore.Weighted

	mu     sync.RWMutex
	names  []string
	byName map[string]Interceptor
}

// NewInterceptors returns an empty chain allowing up to concurrency
// simultaneous Apply calls. A non-positive value selects
// DefaultInterceptorConcurrency.
func NewInterceptors(concurrency int64) *Interceptors {
	if concurrency <= 0 {
		concurrency = DefaultInterceptorConcurrency()
	}
	return &Interceptors{
		slots:  semaphore.NewWeighted(concurrency),
		byName: make(map[string]Interceptor),
	}
}

// Add appends fn to the chain under name.
func (c *Interceptors) Add(name string, fn Interceptor) error {
	if name == "" {
		return fmt.Errorf("%w: empty interceptor name", ErrIllegalArgument)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil interceptor %q", ErrIllegalArgument, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byName[name]; ok {
		return fmt.Errorf("%w: interceptor %q already registered", ErrIllegalArgument, name)
	}
	c.names = append(c.names, name)
	c.byName[name] = fn

	return nil
}

// Remove deletes the interceptor registered under name. Removing an unknown
// name is a no-op.
func (c *Interceptors) Remove(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty interceptor name", ErrIllegalArgument)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byName[name]; !ok {
		return nil
	}
	delete(c.byName, name)
	c.names = slices.DeleteFunc(c.names, func(n string) bool { return n == name })

	return nil
}

// Has reports whether an interceptor is registered under name.
func (c *Interceptors) Has(name string) bool {
	if name == "" {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.byName[name]
	return ok
}

// Names returns the registered interceptor names in registration order.
func (c *Interceptors) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.names)
}

// Apply runs every interceptor in registration order, skipping those listed
// in req.Spec.SkipInterceptors, and returns the rewritten link.
func (c *Interceptors) Apply(link string, req LinkRequest) string {
	// Acquire only fails on context cancellation, which Background never
	// reports.
	if err := c.slots.Acquire(context.Background(), 1); err != nil {
		return link
	}
	defer c.slots.Release(1)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, name := range c.names {
		if req.Spec.Skips(name) {
			continue
		}
		link = c.byName[name](link, req)
	}

	return link
}
