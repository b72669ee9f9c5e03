package linkhandlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/pagelink/link"
)

func TestAbsoluteURLInterceptor(t *testing.T) {
	t.Run("prefixes relative links", func(t *testing.T) {
		fn, err := AbsoluteURLInterceptor("https://example.com/")
		require.NoError(t, err)

		assert.Equal(t, "https://example.com/user/1?x=y", fn("/user/1?x=y", link.LinkRequest{}))
		assert.Equal(t, "https://other.org/a", fn("https://other.org/a", link.LinkRequest{}))
	})

	invalid := []string{
		"example.com",
		"ftp://example.com",
		"https://",
		"https://example.com/base",
		"https://example.com?x=1",
		"https://example.com#top",
		"://bad",
	}
	for _, base := range invalid {
		t.Run("rejects "+base, func(t *testing.T) {
			fn, err := AbsoluteURLInterceptor(base)
			assert.Nil(t, fn)
			assert.ErrorIs(t, err, ErrInvalidBaseURL)
		})
	}
}

func TestStickyQueryInterceptor(t *testing.T) {
	lang := StickyQueryInterceptor("lang", func(req link.LinkRequest) string {
		if req.Pattern == "raw" {
			return ""
		}
		return "en us"
	})

	tests := []struct {
		name string
		link string
		req  link.LinkRequest
		want string
	}{
		{name: "no query", link: "/user/1", want: "/user/1?lang=en+us"},
		{name: "existing query", link: "/user/1?x=1", want: "/user/1?x=1&lang=en+us"},
		{name: "already present", link: "/user/1?lang=de", want: "/user/1?lang=de"},
		{name: "key as suffix of other key", link: "/user/1?xlang=de", want: "/user/1?xlang=de&lang=en+us"},
		{name: "empty value", link: "/raw", req: link.LinkRequest{Pattern: "raw"}, want: "/raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lang(tt.link, tt.req))
		})
	}

	t.Run("wired into a registry", func(t *testing.T) {
		reg := link.New(link.Config{})
		require.NoError(t, reg.Register(link.Declare(testPage{}, link.LinkSpec{Pattern: "test/{id}"})))
		require.NoError(t, reg.Interceptors().Add("lang", lang))

		got, err := reg.Link(testPage{}, "", link.Pairs("id", 3, "tab", "posts"))
		require.NoError(t, err)
		assert.Equal(t, "/test/3?tab=posts&lang=en+us", got)
	})
}
