package link

import (
	"context"
	"net/url"
	"reflect"
	"strings"
)

// LinkRequest describes a generated link. Interceptors receive it together
// with the rendered link.
type LinkRequest struct {
	// Context is the context passed to LinkContext, or
	// context.Background() for Link and LinkByName.
	Context context.Context

	// Controller is the target controller.
	Controller reflect.Type

	// Name is the requested link name, empty when any name was accepted.
	Name string

	// Params holds the caller's parameters as given.
	Params *Params

	// Pattern is the raw text of the selected pattern alternative.
	Pattern string

	// Spec is the link spec that declared the selected pattern.
	Spec LinkSpec
}

// Link renders a link to the controller ctrl, which may be a value of the
// controller type or its reflect.Type. When name is not empty only patterns
// declared under that link name are considered.
//
// Among the patterns whose parameter segments are all satisfied by params,
// the one consuming the most parameters wins; ties go to the pattern
// declared first. Parameters not consumed by the path, and extra values of
// multi-valued parameters, are appended as a query string. The result is
// passed through the interceptor chain.
//
// A *NoSuchLinkError is returned when no pattern can be rendered.
func (r *Registry) Link(ctrl any, name string, params *Params) (string, error) {
	return r.LinkContext(context.Background(), ctrl, name, params)
}

// LinkContext is like Link and hands ctx to the interceptors through
// LinkRequest.Context, e.g. the context of the request being served.
func (r *Registry) LinkContext(ctx context.Context, ctrl any, name string, params *Params) (string, error) {
	t := TypeOf(ctrl)
	link, err := r.generate(ctx, t, name, params)
	r.observer.Generated(t, err)
	return link, err
}

// LinkByName renders a link to the controller registered under the logical
// name, considering only the patterns declared under that name.
func (r *Registry) LinkByName(name string, params *Params) (string, error) {
	return r.LinkByNameContext(context.Background(), name, params)
}

// LinkByNameContext is like LinkByName with a context for the interceptors.
func (r *Registry) LinkByNameContext(ctx context.Context, name string, params *Params) (string, error) {
	t, ok := r.Lookup(name)
	if !ok {
		err := &NoSuchLinkError{Name: name}
		r.observer.Generated(nil, err)
		return "", err
	}
	return r.LinkContext(ctx, t, name, params)
}

func (r *Registry) generate(ctx context.Context, t reflect.Type, name string, params *Params) (string, error) {
	n := params.normalize()

	best := r.selectLink(t, name, n)
	if best == nil {
		return "", &NoSuchLinkError{Controller: t, Name: name}
	}

	link := r.render(best.pattern, n)

	return r.interceptors.Apply(link, LinkRequest{
		Context:    ctx,
		Controller: t,
		Name:       name,
		Params:     params,
		Pattern:    best.pattern.text,
		Spec:       best.spec,
	}), nil
}

// selectLink returns the candidate pattern satisfying the most parameter
// segments, or nil when no pattern has all its parameters satisfied.
func (r *Registry) selectLink(t reflect.Type, name string, n normalizedParams) *registeredLink {
	entry, ok := r.state.Load().byType[t]
	if !ok {
		return nil
	}

	var (
		best      *registeredLink
		bestCount = -1
	)
	for _, l := range entry.links {
		if name != "" && l.spec.Name != name {
			continue
		}
		count, ok := l.pattern.satisfiedBy(n)
		if !ok {
			continue
		}
		if count > bestCount {
			best, bestCount = l, count
		}
	}
	return best
}

// satisfiedBy counts the parameter segments satisfied by n. ok is false
// when at least one parameter segment is not satisfied.
func (p *Pattern) satisfiedBy(n normalizedParams) (count int, ok bool) {
	for _, seg := range p.segments {
		if seg.kind != segmentParam {
			continue
		}
		v, found := n.first(seg.text)
		if !found || !seg.Allows(v) {
			return 0, false
		}
		count++
	}
	return count, true
}

// render writes the context path, the pattern with its parameters
// substituted, and the overflow query string.
func (r *Registry) render(p *Pattern, n normalizedParams) string {
	var b strings.Builder
	b.WriteString(r.contextPath)

	used := make(map[string]bool, p.params)
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.kind == segmentLiteral {
			b.WriteString(seg.text)
			continue
		}
		v, _ := n.first(seg.text)
		b.WriteString(v)
		used[seg.text] = true
	}

	sep := byte('?')
	for _, k := range n.keys {
		values := n.values[k]
		if used[k] {
			if !n.multi {
				continue
			}
			values = values[1:]
		}
		for _, v := range values {
			b.WriteByte(sep)
			sep = '&'
			r.writeQueryPair(&b, k, v)
		}
	}

	return b.String()
}

func (r *Registry) writeQueryPair(b *strings.Builder, key, value string) {
	if r.escapeQuery {
		key = url.QueryEscape(key)
		value = url.QueryEscape(value)
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(value)
}
