package ident_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/jsrevive/internal/ident"
)

func TestIsLegal(t *testing.T) {
	require.True(t, ident.IsLegal("x"))
	require.True(t, ident.IsLegal("_foo"))
	require.True(t, ident.IsLegal("$bar123"))
	require.False(t, ident.IsLegal(""))
	require.False(t, ident.IsLegal("1abc"))
	require.False(t, ident.IsLegal("a-b"))
	require.False(t, ident.IsLegal("function"))
}

func TestSanitize(t *testing.T) {
	require.Equal(t, "foo_bar", ident.Sanitize("foo-bar"))
	require.Equal(t, "_123", ident.Sanitize("123"))
	require.Equal(t, "v", ident.Sanitize(""))
	require.Equal(t, "vfunction", ident.Sanitize("function"))
}

func TestAssignerReadableAvoidsReservedAndCollisions(t *testing.T) {
	a := ident.NewAssigner(ident.Readable, map[string]bool{"foo": true})
	require.Equal(t, "foo1", a.Next("foo"))
	require.Equal(t, "foo2", a.Next("foo"))
	require.Equal(t, "bar", a.Next("bar"))
}

func TestAssignerShortFirstSequence(t *testing.T) {
	a := ident.NewAssigner(ident.ShortFirst, nil)
	require.Equal(t, "a", a.Next("ignored"))
	require.Equal(t, "b", a.Next("ignored"))
}

func TestAssignerNoneModeKeepsSuggestionUntilCollision(t *testing.T) {
	a := ident.NewAssigner(ident.None, nil)
	require.Equal(t, "total", a.Next("total"))
	require.Equal(t, "total1", a.Next("total"))
}
