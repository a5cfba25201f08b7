package hostiface_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/jsrevive/runtime/hostiface"
)

func TestGetTrackerForFileIsStablePerFilename(t *testing.T) {
	h := hostiface.New()
	a := h.GetTrackerForFile("a.js")
	b := h.GetTrackerForFile("a.js")
	c := h.GetTrackerForFile("b.js")
	require.Same(t, a, b)
	require.NotSame(t, a, c)
}

func TestGlobalRoundTrips(t *testing.T) {
	h := hostiface.New()
	_, ok := h.Global("Object")
	require.False(t, ok)

	h.SetGlobal("Object", "the-object-ctor")
	v, ok := h.Global("Object")
	require.True(t, ok)
	require.Equal(t, "the-object-ctor", v)
}

func TestWeakEntriesWithoutRegisteredWalkerErrors(t *testing.T) {
	h := hostiface.New()
	_, err := h.WeakEntries("anything")
	require.Error(t, err)
}

func TestWeakEntriesUsesRegisteredWalker(t *testing.T) {
	h := hostiface.New()
	h.RegisterWeakWalker(func(v interface{}) ([]hostiface.WeakEntry, bool) {
		return []hostiface.WeakEntry{{Key: v, Value: "v"}}, true
	})
	entries, err := h.WeakEntries("k")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
