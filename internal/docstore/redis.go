package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"shopfolio/internal/platform/redis"
	"shopfolio/pkg/platform/sentinel"
)

// RedisStore persists one JSON document per `doc:<collection>:<id>` key and
// fans out merged writes over pub/sub on a channel of the same name. Writers
// on other devices publish through the same convention, which is what gives
// the controller its remote-wins cart reconciliation.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed document store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(collection, id string) string {
	return "doc:" + collection + ":" + id
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) (Document, error) {
	raw, err := s.client.Get(ctx, redisKey(collection, id)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, fmt.Errorf("document %s/%s: %w", collection, id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *RedisStore) UpsertMerge(ctx context.Context, collection, id string, partial Document) error {
	key := redisKey(collection, id)

	// Read-modify-write without a lock: concurrent writers race and the last
	// one wins, matching the declared cart-sync conflict policy.
	current, err := s.Get(ctx, collection, id)
	if err != nil && !isNotFound(err) {
		return err
	}
	merged := merge(current, partial)

	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("store document: %w", err)
	}
	if err := s.client.Publish(ctx, key, raw).Err(); err != nil {
		return fmt.Errorf("publish document update: %w", err)
	}
	return nil
}

func (s *RedisStore) Subscribe(ctx context.Context, collection, id string, fn func(Document)) (func(), error) {
	key := redisKey(collection, id)
	pubsub := s.client.Subscribe(ctx, key)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to document: %w", err)
	}

	// Deliver the current snapshot before streaming updates.
	if current, err := s.Get(ctx, collection, id); err == nil {
		fn(current)
	}

	go func() {
		for msg := range pubsub.Channel() {
			var doc Document
			if err := json.Unmarshal([]byte(msg.Payload), &doc); err != nil {
				continue
			}
			fn(doc)
		}
	}()

	return func() { pubsub.Close() }, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
