package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	err := store.Save(ctx, "loyalty:u1", testDoc{Name: "beta", Count: 7})
	require.NoError(t, err)

	var got testDoc
	require.NoError(t, store.Load(ctx, "loyalty:u1", &got))
	assert.Equal(t, testDoc{Name: "beta", Count: 7}, got)

	// Documents are durable state, never expiring cache entries
	assert.Zero(t, mr.TTL("loyalty:u1"))
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	var got testDoc
	err := store.Load(context.Background(), "nonexistent", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_LoadInvalidJSON(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	doc, err := json.Marshal(testDoc{Name: "gamma"})
	require.NoError(t, err)
	require.NoError(t, mr.Set("broken", string(doc[:5])))

	var got testDoc
	err = store.Load(context.Background(), "broken", &got)
	require.ErrorContains(t, err, "unmarshal document")
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "k", testDoc{Name: "x"}))
	require.True(t, mr.Exists("k"))

	require.NoError(t, store.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}
