package link

import (
	"strings"
)

// segmentKind distinguishes literal segments from parameter segments.
type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentParam
)

// Segment is one slash-delimited unit of a parsed pattern.
type Segment struct {
	kind segmentKind
	// text is the literal text, or the parameter name.
	text string
	// allowed is the set of accepted values for a parameter.
	// A nil set accepts any non-empty value.
	allowed map[string]struct{}
}

// IsParam reports whether the segment binds a parameter.
func (s Segment) IsParam() bool {
	return s.kind == segmentParam
}

// Name returns the parameter name, or the literal text for literals.
func (s Segment) Name() string {
	return s.text
}

// Allows reports whether v satisfies the segment. Literals require an exact
// match; parameters require a non-empty value that belongs to the allowed
// set when one is declared.
func (s Segment) Allows(v string) bool {
	if s.kind == segmentLiteral {
		return v == s.text
	}
	if v == "" {
		return false
	}
	if s.allowed == nil {
		return true
	}
	_, ok := s.allowed[v]
	return ok
}

// Pattern is the compiled form of one pattern alternative.
type Pattern struct {
	// text is the raw pattern text.
	text     string
	segments []Segment
	// params is the number of parameter segments.
	params int
}

// String returns the raw pattern text.
func (p *Pattern) String() string {
	return p.text
}

// Segments returns a copy of the pattern segments.
func (p *Pattern) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// ParamNames returns the parameter names in declaration order.
func (p *Pattern) ParamNames() []string {
	names := make([]string, 0, p.params)
	for _, s := range p.segments {
		if s.kind == segmentParam {
			names = append(names, s.text)
		}
	}
	return names
}

// ParsePattern compiles a single pattern alternative such as
// "profile/{handle}" or "action/{kind:purchase,sell}".
//
// Parsed patterns are cached by their raw text, so repeated calls with the
// same text return the same *Pattern.
func ParsePattern(text string) (*Pattern, error) {
	if v, ok := patternCache.Load(text); ok {
		return v.(*Pattern), nil
	}

	p, err := parsePattern(text)
	if err != nil {
		return nil, err
	}

	actual, _ := patternCache.LoadOrStore(text, p)

	return actual.(*Pattern), nil
}

func parsePattern(text string) (*Pattern, error) {
	if text == "" {
		return nil, configErrorf(text, "empty link pattern")
	}
	if strings.HasPrefix(text, "/") || strings.HasSuffix(text, "/") {
		return nil, configErrorf(text, "link pattern must not start or end with '/'")
	}

	tokens := strings.Split(text, "/")
	p := &Pattern{
		text:     text,
		segments: make([]Segment, 0, len(tokens)),
	}

	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			return nil, configErrorf(text, "empty link section")
		}

		if !strings.HasPrefix(tok, "{") || !strings.HasSuffix(tok, "}") {
			p.segments = append(p.segments, Segment{kind: segmentLiteral, text: tok})
			continue
		}

		seg, err := parseParam(text, tok[1:len(tok)-1])
		if err != nil {
			return nil, err
		}
		if seen[seg.text] {
			return nil, configErrorf(text, "duplicated link parameter %q", seg.text)
		}
		seen[seg.text] = true

		p.segments = append(p.segments, seg)
		p.params++
	}

	return p, nil
}

// parseParam parses the inner part of a {name} or {name:v1,v2} section.
func parseParam(text, inner string) (Segment, error) {
	parts := strings.Split(inner, ":")
	if parts[0] == "" {
		return Segment{}, configErrorf(text, "missing parameter name in {%s}", inner)
	}

	switch len(parts) {
	case 1:
		return Segment{kind: segmentParam, text: parts[0]}, nil
	case 2:
		allowed := make(map[string]struct{})
		for _, v := range strings.Split(parts[1], ",") {
			if v != "" {
				allowed[v] = struct{}{}
			}
		}
		if len(allowed) == 0 {
			return Segment{}, configErrorf(text, "empty allowed values in {%s}", inner)
		}
		return Segment{kind: segmentParam, text: parts[0], allowed: allowed}, nil
	}

	return Segment{}, configErrorf(text, "invalid link section format {%s}", inner)
}

// ParseLinkSpec compiles every pattern alternative of s in declaration
// order.
func ParseLinkSpec(s LinkSpec) ([]*Pattern, error) {
	alts, err := splitAlternatives(s.Pattern)
	if err != nil {
		return nil, err
	}

	patterns := make([]*Pattern, len(alts))
	for i, alt := range alts {
		if patterns[i], err = ParsePattern(alt); err != nil {
			return nil, err
		}
	}
	return patterns, nil
}

// splitAlternatives splits a semicolon-separated link specification.
func splitAlternatives(spec string) ([]string, error) {
	raw := strings.Split(spec, ";")
	alts := make([]string, 0, len(raw))
	for _, alt := range raw {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			return nil, configErrorf(spec, "empty link pattern alternative")
		}
		alts = append(alts, alt)
	}
	return alts, nil
}
