package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	seed := map[string]string{"query.top_k": "3"}
	store := NewConfigStore(seed)
	seed["query.top_k"] = "9"

	val, ok := store.Get("query.top_k")
	assert.True(t, ok)
	assert.Equal(t, "3", val, "store copies its seed")
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Load())
}

func TestConfigStore_SetUnset(t *testing.T) {
	store := NewConfigStore(nil)

	require.NoError(t, store.Set("server.base_url", "http://x"))
	require.NoError(t, store.Set("server.base_url", "http://y"))

	val, ok := store.Get("server.base_url")
	assert.True(t, ok)
	assert.Equal(t, "http://y", val)

	require.NoError(t, store.Unset("server.base_url"))
	_, ok = store.Get("server.base_url")
	assert.False(t, ok)
}

func TestConfigStore_All_ReturnsCopy(t *testing.T) {
	store := NewConfigStore(map[string]string{"a": "1"})

	all := store.All()
	all["a"] = "changed"

	val, _ := store.Get("a")
	assert.Equal(t, "1", val)
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("k", "v")
			store.Get("k")
			store.All()
		}()
	}
	wg.Wait()
}
