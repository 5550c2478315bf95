package memory

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
)

func TestNewConfigStore(t *testing.T) {
	var store driven.ConfigStore = NewConfigStore()
	assert.Equal(t, ":memory:", store.Path())

	_, ok := store.Get("service.base_url")
	assert.False(t, ok)
}

func TestNewConfigStore_Seed(t *testing.T) {
	store := NewConfigStore(map[string]any{"verify.max_days": int64(3)})

	assert.Equal(t, 3, store.GetInt("verify.max_days"))
	require.NoError(t, store.Load())
	assert.Equal(t, 3, store.GetInt("verify.max_days"), "seed counts as saved")
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", 7))
	require.NoError(t, store.Set("f", 2.0))
	require.NoError(t, store.Set("b", true))

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, 7, store.GetInt("i"))
	assert.Equal(t, 2, store.GetInt("f"))
	assert.True(t, store.GetBool("b"))

	assert.Empty(t, store.GetString("i"))
	assert.Zero(t, store.GetInt("s"))
	assert.False(t, store.GetBool("s"))
}

func TestConfigStore_LoadDiscardsUnsaved(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("a", "saved"))
	require.NoError(t, store.Save())
	require.NoError(t, store.Set("a", "draft"))

	require.NoError(t, store.Load())
	assert.Equal(t, "saved", store.GetString("a"))
	assert.Equal(t, 1, store.Saves())
}

func TestConfigStore_FailSaves(t *testing.T) {
	store := NewConfigStore()
	boom := errors.New("disk full")
	store.FailSaves(boom)

	assert.ErrorIs(t, store.Save(), boom)
	assert.Equal(t, 0, store.Saves())

	store.FailSaves(nil)
	assert.NoError(t, store.Save())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("k", n)
			_ = store.GetInt("k")
			_ = store.Save()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, store.Saves())
}
