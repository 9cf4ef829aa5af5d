package app

import (
	"math/rand"

	"trivia-arena-service/internal/domain"
)

// SampleQuestions draws up to n distinct playable questions from pool.
// Unsupported question types are filtered out first; the remainder is
// shuffled with the caller-owned rng, so a seeded source gives a
// reproducible draw. The pool itself is never mutated.
func SampleQuestions(pool []domain.Question, n int, rnd *rand.Rand) []domain.Question {
	playable := make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		if q.Type.Supported() {
			playable = append(playable, q)
		}
	}

	rnd.Shuffle(len(playable), func(i, j int) {
		playable[i], playable[j] = playable[j], playable[i]
	})

	if n > len(playable) {
		n = len(playable)
	}
	return playable[:n]
}

// FilterQuestions returns the corpus entries matching the optional type and
// difficulty filters. A zero difficulty or empty type matches everything.
func FilterQuestions(pool []domain.Question, qtype domain.QuestionType, difficulty int) []domain.Question {
	out := make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		if qtype != "" && q.Type != qtype {
			continue
		}
		if difficulty != 0 && q.Difficulty != difficulty {
			continue
		}
		out = append(out, q)
	}
	return out
}
