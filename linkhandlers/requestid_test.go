package linkhandlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/pagelink/link"
)

var (
	uuidV4Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	uuidV7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		config      RequestIDConfig
		path        string
		incoming    string
		wantID      string
		wantUUID    bool
		wantParent  string
		wantPattern string
	}{
		{
			name:        "generates UUID v4 by default",
			path:        "/test",
			wantUUID:    true,
			wantPattern: "test",
		},
		{
			name:        "ignores incoming header by default",
			path:        "/test/3",
			incoming:    "existing-id",
			wantUUID:    true,
			wantPattern: "test/{id}",
		},
		{
			name:        "trusts incoming header when configured",
			config:      RequestIDConfig{TrustIncoming: true},
			path:        "/test",
			incoming:    "existing-id",
			wantID:      "existing-id",
			wantPattern: "test",
		},
		{
			name: "generator sees the match",
			config: RequestIDConfig{GenerateFunc: func(_ *http.Request, m *link.Match) string {
				return m.Spec.Action + ":" + m.Params["id"]
			}},
			path:        "/test/9",
			wantID:      "view:9",
			wantPattern: "test/{id}",
		},
		{
			name:        "parent id from query parameter",
			config:      RequestIDConfig{QueryParam: "rid", GenerateFunc: func(*http.Request, *link.Match) string { return "child" }},
			path:        "/test/9?rid=parent",
			wantID:      "child",
			wantParent:  "parent",
			wantPattern: "test/{id}",
		},
		{
			name:        "query parameter ignored when not configured",
			config:      RequestIDConfig{GenerateFunc: func(*http.Request, *link.Match) string { return "child" }},
			path:        "/test?rid=parent",
			wantID:      "child",
			wantPattern: "test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				info      RequestInfo
				found     bool
				reqHeader string
			)

			h := newTestHandler(t, func(_ http.ResponseWriter, r *http.Request) {
				info, found = RequestInfoFromContext(r.Context())
				reqHeader = r.Header.Get(DefaultRequestIDHeader)
			})
			h.Use(RequestIDMiddleware(tt.config))

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.incoming != "" {
				req.Header.Set(DefaultRequestIDHeader, tt.incoming)
			}
			h.ServeHTTP(w, req)

			require.True(t, found)
			if tt.wantUUID {
				assert.Regexp(t, uuidV4Regex, info.ID)
			} else {
				assert.Equal(t, tt.wantID, info.ID)
			}
			assert.Equal(t, tt.wantParent, info.ParentID)
			assert.Equal(t, reflect.TypeFor[testPage](), info.Controller)
			assert.Equal(t, tt.wantPattern, info.Pattern)

			assert.Equal(t, info.ID, reqHeader)
			assert.Equal(t, info.ID, w.Header().Get(DefaultRequestIDHeader))
		})
	}

	t.Run("custom header name", func(t *testing.T) {
		h := newTestHandler(t, func(http.ResponseWriter, *http.Request) {})
		h.Use(RequestIDMiddleware(RequestIDConfig{
			HeaderName:   "X-Trace-ID",
			GenerateFunc: func(*http.Request, *link.Match) string { return "trace-1" },
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, "trace-1", w.Header().Get("X-Trace-ID"))
		assert.Empty(t, w.Header().Get(DefaultRequestIDHeader))
	})

	t.Run("not applied to unmatched paths", func(t *testing.T) {
		h := newTestHandler(t, func(http.ResponseWriter, *http.Request) {})
		h.Use(RequestIDMiddleware(RequestIDConfig{}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Header().Get(DefaultRequestIDHeader))
	})

	t.Run("empty id sets no headers", func(t *testing.T) {
		var id string

		h := newTestHandler(t, func(_ http.ResponseWriter, r *http.Request) {
			id = RequestIDFromContext(r.Context())
		})
		h.Use(RequestIDMiddleware(RequestIDConfig{
			GenerateFunc: func(*http.Request, *link.Match) string { return "" },
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Empty(t, id)
		assert.Empty(t, w.Header().Get(DefaultRequestIDHeader))
	})
}

func TestRequestIDInterceptor(t *testing.T) {
	reg := link.New(link.Config{})
	require.NoError(t, reg.Register(link.Declare(testPage{}, link.LinkSpec{Pattern: "test;test/{id}"})))
	require.NoError(t, reg.Interceptors().Add("rid", RequestIDInterceptor("rid")))

	ids := []string{"first", "second"}
	var (
		next   int
		link1  string
		parent string
	)

	h := link.NewHandler(reg)
	h.HandleFunc(testPage{}, func(_ http.ResponseWriter, r *http.Request) {
		info, _ := RequestInfoFromContext(r.Context())
		parent = info.ParentID

		l, err := reg.LinkContext(r.Context(), testPage{}, "", link.Pairs("id", 2))
		require.NoError(t, err)
		link1 = l
	})
	h.Use(RequestIDMiddleware(RequestIDConfig{
		QueryParam: "rid",
		GenerateFunc: func(*http.Request, *link.Match) string {
			id := ids[next]
			next++
			return id
		},
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Empty(t, parent)
	assert.Equal(t, "/test/2?rid=first", link1)

	// Following the generated link links the two requests.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, link1, nil))
	assert.Equal(t, "first", parent)
	assert.Equal(t, "/test/2?rid=second", link1)

	t.Run("no request context", func(t *testing.T) {
		l, err := reg.Link(testPage{}, "", link.Pairs("id", 5))
		require.NoError(t, err)
		assert.Equal(t, "/test/5", l)

		assert.Equal(t, "/x", RequestIDInterceptor("rid")("/x", link.LinkRequest{}))
	})
}

func TestRequestInfoFromContext(t *testing.T) {
	_, ok := RequestInfoFromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestGenerateUUID(t *testing.T) {
	t.Run("v4 format", func(t *testing.T) {
		assert.Regexp(t, uuidV4Regex, GenerateUUIDv4(nil, nil))
	})

	t.Run("v7 format", func(t *testing.T) {
		assert.Regexp(t, uuidV7Regex, GenerateUUIDv7(nil, nil))
	})

	t.Run("v7 time ordered", func(t *testing.T) {
		id1 := GenerateUUIDv7(nil, nil)
		time.Sleep(2 * time.Millisecond)
		id2 := GenerateUUIDv7(nil, nil)

		assert.Less(t, id1, id2)
	})
}

func BenchmarkRequestIDMiddleware(b *testing.B) {
	h := newTestHandler(b, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h.Use(RequestIDMiddleware(RequestIDConfig{}))

	req := httptest.NewRequest(http.MethodGet, "/test/1", nil)

	b.ResetTimer()
	for b.Loop() {
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
}
