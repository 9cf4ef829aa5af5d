package memory

import (
	"log"
	"sync"
	"time"

	"trivia-arena-service/internal/app"
	"trivia-arena-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionStore with
// TTL-based eviction. Finished sessions linger for a short grace period so
// clients can read the final scoreboard; idle sessions are dropped after the
// idle TTL. Unbounded retention of finished games is treated as a defect.
type SessionStore struct {
	idleTTL       time.Duration
	finishedGrace time.Duration
	clock         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*app.Session

	stop chan struct{}
	done chan struct{}
}

// StoreOption adjusts a SessionStore at construction time.
type StoreOption func(*SessionStore)

// WithStoreClock replaces the wall clock, for deterministic eviction tests.
func WithStoreClock(clock func() time.Time) StoreOption {
	return func(s *SessionStore) { s.clock = clock }
}

func NewSessionStore(idleTTL, finishedGrace time.Duration, opts ...StoreOption) *SessionStore {
	s := &SessionStore{
		idleTTL:       idleTTL,
		finishedGrace: finishedGrace,
		clock:         time.Now,
		sessions:      make(map[string]*app.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Put(id string, session *app.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		return domain.ErrSessionExists
	}
	s.sessions[id] = session
	return nil
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		session.Close()
	}
}

// Len reports the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts every session that is past its TTL and returns how many were
// dropped. The janitor calls it periodically; tests call it directly.
func (s *SessionStore) Sweep() int {
	now := s.clock()

	s.mu.Lock()
	var evicted []*app.Session
	for id, session := range s.sessions {
		idle := now.Sub(session.LastActive())
		if (session.Finished() && idle >= s.finishedGrace) || idle >= s.idleTTL {
			delete(s.sessions, id)
			evicted = append(evicted, session)
		}
	}
	s.mu.Unlock()

	// Close outside the store lock; Close takes the session lock.
	for _, session := range evicted {
		session.Close()
	}
	return len(evicted)
}

// StartJanitor sweeps expired sessions every interval until Stop is called.
func (s *SessionStore) StartJanitor(interval time.Duration) {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Printf("session janitor: evicted %d expired sessions", n)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// StopJanitor halts the background sweeper.
func (s *SessionStore) StopJanitor() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
}
