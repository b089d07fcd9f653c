package session

import (
	"sync"
	"time"
)

// DefaultTimeout is the sliding inactivity window before a session is
// force-expired.
const DefaultTimeout = 30 * time.Minute

// Timer implements sliding session expiration. Each Start or Reset schedules
// exactly one callback invocation unless Clear or a later Reset supersedes it
// first. A generation counter keeps a callback that has already left the
// runtime queue from firing after it was cancelled.
type Timer struct {
	mu    sync.Mutex
	d     time.Duration
	gen   uint64
	timer *time.Timer
}

// NewTimer builds a timer with the given duration, falling back to
// DefaultTimeout for non-positive values.
func NewTimer(d time.Duration) *Timer {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &Timer{d: d}
}

// Start cancels any pending countdown and schedules onTimeout after the
// configured duration.
func (t *Timer) Start(onTimeout func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	gen := t.gen
	t.timer = time.AfterFunc(t.d, func() {
		t.mu.Lock()
		live := t.gen == gen
		if live {
			t.timer = nil
		}
		t.mu.Unlock()
		if live {
			onTimeout()
		}
	})
}

// Reset is Clear followed by Start: user activity slides the window.
func (t *Timer) Reset(onTimeout func()) {
	t.Clear()
	t.Start(onTimeout)
}

// Clear cancels the pending countdown. A no-op when nothing is scheduled.
func (t *Timer) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) stopLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
