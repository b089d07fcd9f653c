package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfolio/pkg/platform/sentinel"
)

func TestGetMissingDocument(t *testing.T) {
	s := NewInMemory()
	_, err := s.Get(context.Background(), "carts", "u1")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestUpsertMergeIsShallowLastWriterWins(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	require.NoError(t, s.UpsertMerge(ctx, "carts", "u1", Document{
		"items": []any{"a"},
		"note":  "first",
	}))
	require.NoError(t, s.UpsertMerge(ctx, "carts", "u1", Document{
		"items": []any{"b", "c"},
	}))

	doc, err := s.Get(ctx, "carts", "u1")
	require.NoError(t, err)
	// The whole items field is replaced, untouched fields survive.
	assert.Equal(t, []any{"b", "c"}, doc["items"])
	assert.Equal(t, "first", doc["note"])
}

func TestDocumentsAreIsolatedByCollectionAndID(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	require.NoError(t, s.UpsertMerge(ctx, "carts", "u1", Document{"v": 1}))
	require.NoError(t, s.UpsertMerge(ctx, "carts", "u2", Document{"v": 2}))
	require.NoError(t, s.UpsertMerge(ctx, "orders", "u1", Document{"v": 3}))

	doc, err := s.Get(ctx, "carts", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, doc["v"])
}

func TestSubscribeDeliversCurrentDocumentImmediately(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.UpsertMerge(ctx, "carts", "u1", Document{"v": 1}))

	var got []Document
	unsub, err := s.Subscribe(ctx, "carts", "u1", func(doc Document) { got = append(got, doc) })
	require.NoError(t, err)
	defer unsub()

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0]["v"])
}

func TestSubscribeSkipsInitialDeliveryWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	var got []Document
	unsub, err := s.Subscribe(ctx, "carts", "u1", func(doc Document) { got = append(got, doc) })
	require.NoError(t, err)
	defer unsub()
	assert.Empty(t, got)

	require.NoError(t, s.UpsertMerge(ctx, "carts", "u1", Document{"v": 1}))
	require.Len(t, got, 1)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	var got []Document
	unsub, err := s.Subscribe(ctx, "carts", "u1", func(doc Document) { got = append(got, doc) })
	require.NoError(t, err)
	unsub()

	require.NoError(t, s.UpsertMerge(ctx, "carts", "u1", Document{"v": 1}))
	assert.Empty(t, got)
}

func TestListenerGetsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	var captured Document
	_, err := s.Subscribe(ctx, "carts", "u1", func(doc Document) { captured = doc })
	require.NoError(t, err)

	require.NoError(t, s.UpsertMerge(ctx, "carts", "u1", Document{"v": 1}))
	captured["v"] = 99

	doc, err := s.Get(ctx, "carts", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, doc["v"])
}
