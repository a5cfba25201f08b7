package specialfn_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/jsrevive/runtime/specialfn"
)

func TestBindRoundTrips(t *testing.T) {
	r := specialfn.NewRegistry()
	target := "original-fn"
	bound := "bound-fn"
	r.Bind(bound, target, "thisArg", []interface{}{1, 2})

	e, ok := r.Lookup(bound)
	require.True(t, ok)
	require.Equal(t, specialfn.Bound, e.Kind)
	require.Equal(t, target, e.Target)
	require.Equal(t, []interface{}{1, 2}, e.BoundArgs)
}

func TestLookupMiss(t *testing.T) {
	r := specialfn.NewRegistry()
	_, ok := r.Lookup("anything")
	require.False(t, ok)
}

func TestRequireFuncRegistersModuleID(t *testing.T) {
	r := specialfn.NewRegistry()
	fn := "require-fn"
	r.RequireFunc(fn, "node:path")

	e, ok := r.Lookup(fn)
	require.True(t, ok)
	require.Equal(t, specialfn.Require, e.Kind)
	require.Equal(t, "node:path", e.ModuleID)
}
