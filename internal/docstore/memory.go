package docstore

import (
	"context"
	"fmt"
	"sync"

	"shopfolio/pkg/platform/sentinel"
)

// InMemoryStore keeps documents in memory for tests/dev.
type InMemoryStore struct {
	mu      sync.Mutex
	docs    map[string]Document
	subs    map[string]map[int]func(Document)
	nextSub int
}

// NewInMemory constructs an empty in-memory document store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		docs: make(map[string]Document),
		subs: make(map[string]map[int]func(Document)),
	}
}

func docKey(collection, id string) string {
	return collection + "/" + id
}

func (s *InMemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docKey(collection, id)]
	if !ok {
		return nil, fmt.Errorf("document %s/%s: %w", collection, id, sentinel.ErrNotFound)
	}
	return merge(doc, nil), nil
}

func (s *InMemoryStore) UpsertMerge(_ context.Context, collection, id string, partial Document) error {
	key := docKey(collection, id)

	s.mu.Lock()
	merged := merge(s.docs[key], partial)
	s.docs[key] = merged
	listeners := make([]func(Document), 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(merge(merged, nil))
	}
	return nil
}

func (s *InMemoryStore) Subscribe(_ context.Context, collection, id string, fn func(Document)) (func(), error) {
	key := docKey(collection, id)

	s.mu.Lock()
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func(Document))
	}
	subID := s.nextSub
	s.nextSub++
	s.subs[key][subID] = fn
	current, ok := s.docs[key]
	if ok {
		current = merge(current, nil)
	}
	s.mu.Unlock()

	if ok {
		fn(current)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[key], subID)
	}, nil
}
