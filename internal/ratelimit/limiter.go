// Package ratelimit guards the credential endpoints with a sliding-window
// limiter so password guessing cannot run at line rate.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result reports one limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store counts events per key over a sliding window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Memory is a single-process sliding-window store. The window tracks
// individual timestamps, which avoids the boundary burst a fixed window
// allows.
type Memory struct {
	mu      sync.Mutex
	clock   func() time.Time
	windows map[string][]time.Time
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		clock:   time.Now,
		windows: make(map[string][]time.Time),
	}
}

// WithClock overrides the clock for tests.
func (m *Memory) WithClock(clock func() time.Time) *Memory {
	m.clock = clock
	return m
}

func (m *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	cutoff := now.Add(-window)
	kept := m.windows[key][:0]
	for _, ts := range m.windows[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		m.windows[key] = kept
		return Result{
			Allowed: false,
			Limit:   limit,
			ResetAt: kept[0].Add(window),
		}, nil
	}

	kept = append(kept, now)
	m.windows[key] = kept
	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(kept),
		ResetAt:   kept[0].Add(window),
	}, nil
}
