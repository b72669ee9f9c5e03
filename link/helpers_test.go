package link

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type userPage struct{}

type tagPage struct{}

type actionPage struct{}

type profilePage struct{}

type homePage struct{}

type basePage struct{}

type adminPage struct{}

type searchPage struct{}

// newTestRegistry returns a registry with the given declarations
// registered.
func newTestRegistry(t *testing.T, cfg Config, decls ...*Declaration) *Registry {
	t.Helper()

	reg := New(cfg)
	for _, d := range decls {
		require.NoError(t, reg.Register(d))
	}
	return reg
}
