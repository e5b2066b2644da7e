package kv_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnguyen-dev/bistro/pkg/kv"
)

type sessionRecord struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := kv.NewMemoryStore()

	in := sessionRecord{Email: "a@example.com", Name: "A"}
	require.NoError(t, store.Set("currentUser", in, 0))

	var out sessionRecord
	require.True(t, store.Get("currentUser", &out))
	assert.Equal(t, in, out)
}

func TestMemoryStoreMiss(t *testing.T) {
	store := kv.NewMemoryStore()

	var out sessionRecord
	assert.False(t, store.Get("absent", &out))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set("k", "v", time.Millisecond))

	time.Sleep(5 * time.Millisecond)

	var out string
	assert.False(t, store.Get("k", &out), "expired key must read as a miss")
}

func TestMemoryStoreDelete(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set("a", 1, 0))
	require.NoError(t, store.Set("b", 2, 0))
	require.NoError(t, store.Delete("a", "b"))

	var n int
	assert.False(t, store.Get("a", &n))
	assert.False(t, store.Get("b", &n))
}

func TestPackageLevelDefault(t *testing.T) {
	kv.Use(kv.NewMemoryStore())

	require.NoError(t, kv.Set("k", 42, 0))
	var n int
	require.True(t, kv.Get("k", &n))
	assert.Equal(t, 42, n)
}
