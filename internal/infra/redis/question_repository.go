package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"trivia-arena-service/internal/domain"
	"trivia-arena-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const corpusKey = "trivia:corpus"

// QuestionRepository caches the question corpus in Redis as a JSON document
// and falls back to a loader on cache miss, so multiple instances share one
// backing-store load.
type QuestionRepository struct {
	client *redis.Client
	loader memory.CorpusLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader memory.CorpusLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Questions(ctx context.Context) ([]domain.Question, error) {
	if corpus, ok := r.fromCache(ctx); ok {
		return corpus, nil
	}

	result, err, _ := r.sf.Do(corpusKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if corpus, ok := r.fromCache(ctx); ok {
			return corpus, nil
		}

		corpus, err := r.loader.LoadCorpus(ctx)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(corpus); err == nil {
			_ = r.client.Set(ctx, corpusKey, data, r.ttlWithJitter()).Err()
		}
		return corpus, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) fromCache(ctx context.Context) ([]domain.Question, bool) {
	data, err := r.client.Get(ctx, corpusKey).Bytes()
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var corpus []domain.Question
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, false
	}
	return corpus, len(corpus) > 0
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
