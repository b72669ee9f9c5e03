package linkhandlers

import (
	"errors"
	"net/url"
	"strings"

	"github.com/vitalvas/pagelink/link"
)

// ErrInvalidBaseURL is returned by AbsoluteURLInterceptor when the base URL
// is not an absolute http(s) URL without path, query or fragment.
var ErrInvalidBaseURL = errors.New("absolute url: base must be an absolute http(s) URL without path")

// AbsoluteURLInterceptor returns an interceptor that turns generated links
// into absolute URLs on base, e.g. "https://example.com".
func AbsoluteURLInterceptor(base string) (link.Interceptor, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidBaseURL
	}
	if strings.TrimSuffix(u.Path, "/") != "" || u.RawQuery != "" || u.Fragment != "" {
		return nil, ErrInvalidBaseURL
	}

	prefix := u.Scheme + "://" + u.Host

	return func(l string, _ link.LinkRequest) string {
		if strings.HasPrefix(l, "/") {
			return prefix + l
		}
		return l
	}, nil
}

// StickyQueryInterceptor returns an interceptor that appends key=value to
// every generated link, e.g. to carry a locale or session marker across
// pages. Links that already carry key, or for which value returns an empty
// string, are left untouched. The value is query-escaped.
func StickyQueryInterceptor(key string, value func(req link.LinkRequest) string) link.Interceptor {
	return func(l string, req link.LinkRequest) string {
		if key == "" || value == nil {
			return l
		}
		v := value(req)
		if v == "" || hasQueryKey(l, key) {
			return l
		}

		sep := "?"
		if strings.Contains(l, "?") {
			sep = "&"
		}
		return l + sep + url.QueryEscape(key) + "=" + url.QueryEscape(v)
	}
}

// hasQueryKey reports whether the query part of l contains key.
func hasQueryKey(l, key string) bool {
	_, query, ok := strings.Cut(l, "?")
	if !ok {
		return false
	}
	query, _, _ = strings.Cut(query, "#")
	for _, pair := range strings.Split(query, "&") {
		k, _, _ := strings.Cut(pair, "=")
		if k == key {
			return true
		}
	}
	return false
}
