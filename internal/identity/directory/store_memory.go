package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"shopfolio/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts in memory for tests/dev.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]*Record
}

// NewInMemoryStore constructs an empty in-memory user store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]*Record)}
}

func (s *InMemoryStore) Create(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.User.Email, rec.User.Email) {
			return fmt.Errorf("email %s already registered: %w", rec.User.Email, sentinel.ErrConflict)
		}
	}
	cp := *rec
	s.users[rec.User.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.users[id]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.users {
		if strings.EqualFold(rec.User.Email, email) {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user by email: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) Update(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[rec.User.ID]; !ok {
		return fmt.Errorf("user %s: %w", rec.User.ID, sentinel.ErrNotFound)
	}
	cp := *rec
	s.users[rec.User.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.users, id)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.users))
	for _, rec := range s.users {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
