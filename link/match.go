package link

import (
	"reflect"
	"strings"
)

// Match is the result of resolving a request path.
type Match struct {
	// Controller is the controller the path resolved to.
	Controller reflect.Type

	// Pattern is the raw text of the matched pattern alternative.
	Pattern string

	// Params holds the values bound to the pattern's parameters.
	Params map[string]string

	// Spec is the link spec that declared the matched pattern. Callers use
	// it for the default action and the skipped interceptors.
	Spec LinkSpec
}

// Match resolves path to a controller. The path must be absolute; a
// trailing "#fragment" and "?query" are ignored.
//
// Controllers are scanned in registration order and their patterns in
// declaration order; the first structural match wins. Match reports false
// when no pattern matches.
func (r *Registry) Match(path string) (*Match, bool) {
	m := r.match(path)
	r.observer.Matched(path, m)
	return m, m != nil
}

func (r *Registry) match(path string) *Match {
	tokens, ok := pathTokens(path)
	if !ok {
		return nil
	}

	for _, c := range r.state.Load().controllers {
		for _, l := range c.links {
			params, ok := l.pattern.bind(tokens)
			if !ok {
				continue
			}
			return &Match{
				Controller: c.typ,
				Pattern:    l.pattern.text,
				Params:     params,
				Spec:       l.spec,
			}
		}
	}

	return nil
}

// bind walks the pattern segments against the path tokens and returns the
// parameter values on success.
func (p *Pattern) bind(tokens []string) (map[string]string, bool) {
	if len(p.segments) != len(tokens) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range p.segments {
		tok := tokens[i]
		if !seg.Allows(tok) {
			return nil, false
		}
		if seg.kind == segmentParam {
			if params == nil {
				params = make(map[string]string, p.params)
			}
			params[seg.text] = tok
		}
	}

	if params == nil {
		params = map[string]string{}
	}
	return params, true
}

// pathTokens strips the fragment and query of path and splits the rest
// into slash-separated tokens.
func pathTokens(path string) ([]string, bool) {
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path = path[:i]
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	return strings.Split(path[1:], "/"), true
}
