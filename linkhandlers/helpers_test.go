package linkhandlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vitalvas/pagelink/link"
)

type testPage struct{}

// newTestHandler returns a handler dispatching "/test" and "/test/{id}" to
// fn.
func newTestHandler(t testing.TB, fn http.HandlerFunc) *link.Handler {
	t.Helper()

	reg := link.New(link.Config{})
	require.NoError(t, reg.Register(link.Declare(testPage{}, link.LinkSpec{Pattern: "test;test/{id}", Action: "view"})))

	h := link.NewHandler(reg)
	h.HandleFunc(testPage{}, fn)
	return h
}
