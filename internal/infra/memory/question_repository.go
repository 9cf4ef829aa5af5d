package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-arena-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CorpusLoader fetches the full question corpus from a backing store
// (e.g., Postgres or a JSON document).
type CorpusLoader interface {
	LoadCorpus(ctx context.Context) ([]domain.Question, error)
}

// QuestionRepository caches the corpus with TTL to avoid repeated loads.
type QuestionRepository struct {
	loader CorpusLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader CorpusLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Questions(ctx context.Context) ([]domain.Question, error) {
	now := r.clock()

	r.mu.RLock()
	if r.cached != nil && r.expiresAt.After(now) {
		defer r.mu.RUnlock()
		return r.cached, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("corpus", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.cached != nil && r.expiresAt.After(now) {
			defer r.mu.RUnlock()
			return r.cached, nil
		}
		r.mu.RUnlock()

		corpus, err := r.loader.LoadCorpus(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = corpus
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return corpus, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// StaticCorpusLoader serves a fixed question slice (useful for tests/demos).
type StaticCorpusLoader struct {
	questions []domain.Question
}

func NewStaticCorpusLoader(questions []domain.Question) *StaticCorpusLoader {
	return &StaticCorpusLoader{questions: questions}
}

func (l *StaticCorpusLoader) LoadCorpus(_ context.Context) ([]domain.Question, error) {
	return l.questions, nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
