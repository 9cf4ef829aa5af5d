package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"trivia-arena-service/internal/domain"
)

// SessionStore abstracts how game sessions are kept (in-memory, Redis-marked, etc).
type SessionStore interface {
	Put(id string, session *Session) error
	Get(id string) (*Session, bool)
	Delete(id string)
}

// QuestionRepository provides the immutable question corpus (from cache/backing store).
type QuestionRepository interface {
	Questions(ctx context.Context) ([]domain.Question, error)
}

// GameService contains the trivia game use cases. All randomness flows
// through the injected seed source so tests can pin outcomes.
type GameService struct {
	sessions SessionStore
	corpus   QuestionRepository
	settings Settings
	sched    Scheduler
	now      func() time.Time
	seed     func() int64
}

// Option tweaks a GameService at construction time.
type Option func(*GameService)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(sched Scheduler) Option {
	return func(s *GameService) { s.sched = sched }
}

// WithClock replaces the wall clock, for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

// WithSeed pins the seed for every session's random source.
func WithSeed(seed int64) Option {
	return func(s *GameService) { s.seed = func() int64 { return seed } }
}

func NewGameService(store SessionStore, corpus QuestionRepository, settings Settings, opts ...Option) *GameService {
	s := &GameService{
		sessions: store,
		corpus:   corpus,
		settings: settings,
		sched:    WallScheduler{},
		now:      time.Now,
		seed:     func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartGame creates and starts a session for one human against the default
// bot lineup. The id must be unused; a session that cannot draw any playable
// question is never stored.
func (s *GameService) StartGame(ctx context.Context, sessionID, humanName string) (domain.SessionStatus, error) {
	if _, ok := s.sessions.Get(sessionID); ok {
		return domain.SessionStatus{}, domain.ErrSessionExists
	}

	pool, err := s.corpus.Questions(ctx)
	if err != nil {
		return domain.SessionStatus{}, fmt.Errorf("load question corpus: %w", err)
	}

	rnd := rand.New(rand.NewSource(s.seed()))
	bots := make([]BotPlayer, 0, s.settings.BotCount)
	for i := 1; i <= s.settings.BotCount; i++ {
		bots = append(bots, BotPlayer{
			Name:  fmt.Sprintf("AI-%d", i),
			Skill: rnd.Intn(5) + 1,
		})
	}

	session := NewSession(sessionID, []string{humanName}, bots, s.settings, s.sched, s.now, rnd)
	if err := session.Start(pool); err != nil {
		return domain.SessionStatus{}, err
	}
	if err := s.sessions.Put(sessionID, session); err != nil {
		session.Close()
		return domain.SessionStatus{}, err
	}
	return session.Status(), nil
}

// SubmitAnswer records a participant's answer in the named session.
func (s *GameService) SubmitAnswer(_ context.Context, sessionID, participant, answer string) (domain.SessionStatus, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionStatus{}, domain.ErrSessionNotFound
	}
	return session.SubmitAnswer(participant, answer)
}

// GameStatus returns a snapshot of the named session.
func (s *GameService) GameStatus(_ context.Context, sessionID string) (domain.SessionStatus, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionStatus{}, domain.ErrSessionNotFound
	}
	return session.Status(), nil
}

// CurrentQuestion returns the live question of the named session together
// with its time budget.
func (s *GameService) CurrentQuestion(_ context.Context, sessionID string) (domain.QuestionCard, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuestionCard{}, domain.ErrSessionNotFound
	}
	return session.CurrentQuestion()
}

// Subscribe returns a channel that receives status updates for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionStatus, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// ListQuestions returns up to limit random corpus questions matching the
// optional type and difficulty filters.
func (s *GameService) ListQuestions(ctx context.Context, limit int, qtype domain.QuestionType, difficulty int) ([]domain.Question, error) {
	pool, err := s.corpus.Questions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question corpus: %w", err)
	}
	matched := FilterQuestions(pool, qtype, difficulty)

	rnd := rand.New(rand.NewSource(s.seed()))
	rnd.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// RandomQuestion returns one random corpus question matching the filters.
func (s *GameService) RandomQuestion(ctx context.Context, qtype domain.QuestionType, difficulty int) (domain.Question, error) {
	pool, err := s.corpus.Questions(ctx)
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question corpus: %w", err)
	}
	matched := FilterQuestions(pool, qtype, difficulty)
	if len(matched) == 0 {
		return domain.Question{}, domain.ErrNoMatchingQuestions
	}
	rnd := rand.New(rand.NewSource(s.seed()))
	return matched[rnd.Intn(len(matched))], nil
}
