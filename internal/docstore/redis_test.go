package docstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfolio/internal/platform/config"
	"shopfolio/internal/platform/redis"
)

// Integration test against a real Redis. Set REDIS_TEST_URL to run,
// e.g. redis://localhost:6379/1
func redisStore(t *testing.T) *RedisStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	client, err := redis.New(config.RedisConfig{
		URL:          url,
		PoolSize:     2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { client.Close() })
	return NewRedis(client)
}

func TestRedisStoreMergeAndSubscribe(t *testing.T) {
	store := redisStore(t)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, store.UpsertMerge(ctx, "carts", id, Document{
		"items": []any{"a"},
		"note":  "first",
	}))
	require.NoError(t, store.UpsertMerge(ctx, "carts", id, Document{
		"items": []any{"b"},
	}))

	doc, err := store.Get(ctx, "carts", id)
	require.NoError(t, err)
	assert.Equal(t, "first", doc["note"])
	items, ok := doc["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0])

	got := make(chan Document, 4)
	unsub, err := store.Subscribe(ctx, "carts", id, func(doc Document) { got <- doc })
	require.NoError(t, err)
	defer unsub()

	// Initial delivery of the stored document.
	select {
	case doc := <-got:
		assert.Equal(t, "first", doc["note"])
	case <-time.After(3 * time.Second):
		t.Fatal("no initial document delivered")
	}

	require.NoError(t, store.UpsertMerge(ctx, "carts", id, Document{"note": "second"}))
	select {
	case doc := <-got:
		assert.Equal(t, "second", doc["note"])
	case <-time.After(3 * time.Second):
		t.Fatal("no update delivered over pub/sub")
	}
}
