package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"trivia-arena-service/internal/app"
	"trivia-arena-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionStore.
// Notes:
//   - Game sessions themselves stay in the local process map: their timers
//     and locks cannot move across instances.
//   - Redis only marks session liveness, so a fleet can detect id collisions
//     and operators can inspect which sessions exist.
//   - Eviction mirrors the in-memory store: finished sessions go after a
//     grace period, idle ones after the idle TTL, and the Redis marker is
//     dropped with them.
type SessionStore struct {
	client        *redis.Client
	markerTTL     time.Duration
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

func NewSessionStore(client *redis.Client, markerTTL, idleTTL, finishedGrace time.Duration, opts ...StoreOption) *SessionStore {
	s := &SessionStore{
		client:        client,
		markerTTL:     markerTTL,
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(id), "1", s.markerTTL).Err()
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
	_ = s.client.Del(context.Background(), s.key(id)).Err()
	s.mu.Unlock()
	if ok {
		session.Close()
	}
}

// Sweep evicts every session past its TTL and clears its liveness marker.
func (s *SessionStore) Sweep() int {
	now := s.clock()

	s.mu.Lock()
	evicted := make(map[string]*app.Session)
	for id, session := range s.sessions {
		idle := now.Sub(session.LastActive())
		if (session.Finished() && idle >= s.finishedGrace) || idle >= s.idleTTL {
			delete(s.sessions, id)
			evicted[id] = session
		}
	}
	s.mu.Unlock()

	for id, session := range evicted {
		session.Close()
		_ = s.client.Del(context.Background(), s.key(id)).Err()
	}
	return len(evicted)
}

// StartJanitor sweeps expired sessions every interval until StopJanitor is called.
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

func (s *SessionStore) key(id string) string {
	return "trivia:session:" + id
}
