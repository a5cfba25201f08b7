package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mna/jsrevive/runtime/cache"
)

func TestPutThenGet(t *testing.T) {
	c := cache.New(t.TempDir(), "1")
	key := cache.Key{Filename: "a.js", ModTime: time.Unix(100, 0), Version: "1"}
	c.Put(key, "instrumented output")

	out, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "instrumented output", out)
}

func TestGetMissesOnStaleModTime(t *testing.T) {
	c := cache.New(t.TempDir(), "1")
	key := cache.Key{Filename: "a.js", ModTime: time.Unix(100, 0), Version: "1"}
	c.Put(key, "v1")

	staleKey := key
	staleKey.ModTime = time.Unix(200, 0)
	_, ok := c.Get(staleKey)
	require.False(t, ok)
}

func TestDisabledCacheNeverPersists(t *testing.T) {
	c := cache.New("", "1")
	key := cache.Key{Filename: "a.js"}
	c.Put(key, "v1")
	_, ok := c.Get(key)
	require.False(t, ok)
}

func TestGetOnMissingEntryIsNotAnError(t *testing.T) {
	c := cache.New(t.TempDir(), "1")
	_, ok := c.Get(cache.Key{Filename: "missing.js"})
	require.False(t, ok)
}
