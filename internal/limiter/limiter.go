// Package limiter controls master password verification attempts and
// temporary lockouts.
package limiter

import (
	"sync"
	"time"
)

// Limiter controls verification attempts per key (typically a user id).
type Limiter interface {
	// Allow reports whether an attempt is currently allowed and, when it is
	// not, how long until the lock expires.
	Allow(key string) (bool, time.Duration)
	// Success resets counters after a successful verification.
	Success(key string)
	// Failure records a failed attempt; may place a temporary lock.
	Failure(key string)
}

type state struct {
	failures    int
	lockedUntil time.Time
}

// Memory is an in-process Limiter. Counters reset on restart, which is
// acceptable for slowing down online guessing of the master password.
type Memory struct {
	mu          sync.Mutex
	byKey       map[string]*state
	maxFailures int
	lockFor     time.Duration
	now         func() time.Time
}

// NewMemory creates an in-memory limiter locking a key for lockFor after
// maxFailures consecutive failures.
func NewMemory(maxFailures int, lockFor time.Duration) *Memory {
	return &Memory{
		byKey:       make(map[string]*state),
		maxFailures: maxFailures,
		lockFor:     lockFor,
		now:         time.Now,
	}
}

func (m *Memory) Allow(key string) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.byKey[key]
	if !ok {
		return true, 0
	}
	if remaining := st.lockedUntil.Sub(m.now()); remaining > 0 {
		return false, remaining
	}
	return true, 0
}

func (m *Memory) Success(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byKey, key)
}

func (m *Memory) Failure(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.byKey[key]
	if !ok {
		st = &state{}
		m.byKey[key] = st
	}
	st.failures++
	if st.failures >= m.maxFailures {
		st.lockedUntil = m.now().Add(m.lockFor)
		st.failures = 0
	}
}
