package utils

import (
	"sync"
	"time"
)

// ActionLock debounces manual moderation actions so two moderators (or a double
// submitted command) cannot act on the same member at once.
type ActionLock struct {
	mu     sync.Mutex
	locks  map[string]time.Time
	window time.Duration
}

func NewActionLock(window time.Duration) *ActionLock {
	return &ActionLock{locks: make(map[string]time.Time), window: window}
}

// Acquire sets a lock for key and returns true, or returns false if key was locked
// less than the window ago.
func (l *ActionLock) Acquire(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if last, ok := l.locks[key]; ok && now.Sub(last) < l.window {
		return false
	}
	for k, t := range l.locks {
		if now.Sub(t) >= l.window {
			delete(l.locks, k)
		}
	}
	l.locks[key] = now
	return true
}
