package concurrency

import "sync"

// SessionLocks hands out a mutex per session id, so concurrent chat turns
// on the same session serialize their message inserts and last_active_at
// updates without a single global lock across all sessions.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu       sync.Mutex
	refCount int
}

func NewSessionLocks() *SessionLocks {
	return &SessionLocks{locks: make(map[string]*sessionLock)}
}

// Lock acquires the lock for sessionID, creating it if needed. The
// returned func releases it and evicts the entry once no other goroutine
// holds a reference.
func (s *SessionLocks) Lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refCount++
	s.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refCount--
		if l.refCount == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}
