package link

import (
	"fmt"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern(t *testing.T) {
	t.Run("literal sections", func(t *testing.T) {
		p, err := ParsePattern("about/team")
		require.NoError(t, err)
		assert.Equal(t, "about/team", p.String())

		segs := p.Segments()
		require.Len(t, segs, 2)
		assert.False(t, segs[0].IsParam())
		assert.Equal(t, "about", segs[0].Name())
		assert.Equal(t, "team", segs[1].Name())
		assert.Empty(t, p.ParamNames())
	})

	t.Run("unrestricted parameter", func(t *testing.T) {
		p, err := ParsePattern("profile/{handle}")
		require.NoError(t, err)

		segs := p.Segments()
		require.Len(t, segs, 2)
		assert.True(t, segs[1].IsParam())
		assert.Equal(t, "handle", segs[1].Name())
		assert.True(t, segs[1].Allows("anyone"))
		assert.False(t, segs[1].Allows(""))
		assert.Equal(t, []string{"handle"}, p.ParamNames())
	})

	t.Run("restricted parameter", func(t *testing.T) {
		p, err := ParsePattern("action/{kind:purchase,sell}")
		require.NoError(t, err)

		seg := p.Segments()[1]
		assert.True(t, seg.Allows("purchase"))
		assert.True(t, seg.Allows("sell"))
		assert.False(t, seg.Allows("rent"))
	})

	t.Run("restriction keywords are plain values", func(t *testing.T) {
		p, err := ParsePattern("item/{id:positive}")
		require.NoError(t, err)

		seg := p.Segments()[1]
		assert.True(t, seg.Allows("positive"))
		assert.False(t, seg.Allows("42"))
	})

	t.Run("literal segment allows only its text", func(t *testing.T) {
		p, err := ParsePattern("a/b")
		require.NoError(t, err)
		assert.True(t, p.Segments()[0].Allows("a"))
		assert.False(t, p.Segments()[0].Allows("b"))
	})

	t.Run("returns cached instance", func(t *testing.T) {
		p1, err := ParsePattern("cached/{x}")
		require.NoError(t, err)
		p2, err := ParsePattern("cached/{x}")
		require.NoError(t, err)
		assert.Same(t, p1, p2)
	})

	t.Run("segments copy is detached", func(t *testing.T) {
		p, err := ParsePattern("detached/{x}")
		require.NoError(t, err)

		segs := p.Segments()
		segs[0] = Segment{}
		assert.Equal(t, "detached", p.Segments()[0].Name())
	})
}

func TestParsePatternErrors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{name: "empty", pattern: ""},
		{name: "leading slash", pattern: "/bad"},
		{name: "trailing slash", pattern: "bad/"},
		{name: "only slash", pattern: "/"},
		{name: "empty section", pattern: "a//b"},
		{name: "too many colons", pattern: "{a:b:c}"},
		{name: "missing name", pattern: "x/{}"},
		{name: "missing name with values", pattern: "x/{:a,b}"},
		{name: "empty values", pattern: "x/{a:}"},
		{name: "duplicated parameter", pattern: "{a}/{a}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePattern(tt.pattern)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)

			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.pattern, ce.Pattern)
		})
	}
}

func TestSplitAlternatives(t *testing.T) {
	t.Run("splits and trims", func(t *testing.T) {
		alts, err := splitAlternatives("user; user/{id} ;u/{id}")
		require.NoError(t, err)
		assert.Equal(t, []string{"user", "user/{id}", "u/{id}"}, alts)
	})

	t.Run("rejects empty alternative", func(t *testing.T) {
		_, err := splitAlternatives("user;;u")
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestParseLinkSpec(t *testing.T) {
	patterns, err := ParseLinkSpec(LinkSpec{Pattern: "user;user/{id}"})
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "user", patterns[0].String())
	assert.Equal(t, []string{"id"}, patterns[1].ParamNames())

	_, err = ParseLinkSpec(LinkSpec{Pattern: "user;/bad"})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestFuzzParsePatternNoPanics(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(500, 1000)

	patterns := make(map[string]struct{})
	f.Fuzz(&patterns)

	for p := range patterns {
		require.NotPanicsf(t, func() {
			_, _ = ParsePattern(p)
		}, fmt.Sprintf("pattern: %q", p))
	}
}

func TestFuzzParsePatternParams(t *testing.T) {
	// No '/', ':', ',', '{', '}' or ';'.
	unicodeRanges := fuzz.UnicodeRanges{
		{First: 0x41, Last: 0x5A},
		{First: 0x61, Last: 0x7A},
		{First: 0x30, Last: 0x39},
	}
	f := fuzz.New().NilChance(0).Funcs(unicodeRanges.CustomStringFuzzFunc())

	for i := 0; i < 500; i++ {
		var lit, name, v1, v2 string
		f.Fuzz(&lit)
		f.Fuzz(&name)
		f.Fuzz(&v1)
		f.Fuzz(&v2)
		if lit == "" || name == "" || v1 == "" || v2 == "" {
			continue
		}

		p, err := ParsePattern(fmt.Sprintf("%s/{%s:%s,%s}", lit, name, v1, v2))
		require.NoError(t, err)

		segs := p.Segments()
		require.Len(t, segs, 2)
		assert.Equal(t, lit, segs[0].Name())
		assert.Equal(t, name, segs[1].Name())
		assert.True(t, segs[1].Allows(v1))
		assert.True(t, segs[1].Allows(v2))
	}
}

func BenchmarkParsePatternCached(b *testing.B) {
	// Prime the cache.
	ParsePattern("bench/{id}/posts/{kind:a,b,c}") //nolint:errcheck

	b.ResetTimer()
	for b.Loop() {
		ParsePattern("bench/{id}/posts/{kind:a,b,c}") //nolint:errcheck
	}
}
