package app

import (
	"math/rand"

	"trivia-arena-service/internal/domain"
)

// BotPlayer is a simulated opponent. Its skill (1-5) is fixed at creation and
// scales its chance of answering correctly; it holds no other state.
type BotPlayer struct {
	Name  string
	Skill int
}

// Answer produces the bot's answer text for q. Correctness probability is
// linear in skill within a per-type range: multiple choice 0.30-0.90,
// true/false 0.40-0.90, fill-in-the-blank 0.20-0.70. Fill-in-the-blank sits
// lowest because nothing can be guessed from visible options; true/false
// highest because the choice is binary. Wrong answers are drawn uniformly
// from the question's distractors.
func (b BotPlayer) Answer(q domain.Question, rnd *rand.Rand) string {
	var chance float64
	switch q.Type {
	case domain.MultipleChoice:
		chance = 0.30 + float64(b.Skill)/5*0.60
	case domain.TrueFalse:
		chance = 0.40 + float64(b.Skill)/5*0.50
	case domain.FillBlank:
		chance = 0.20 + float64(b.Skill)/5*0.50
	default:
		return q.CorrectAnswer
	}

	if rnd.Float64() < chance {
		return q.CorrectAnswer
	}
	if q.Type == domain.TrueFalse {
		return negate(q)
	}
	if len(q.WrongAnswers) == 0 {
		return q.CorrectAnswer
	}
	return q.WrongAnswers[rnd.Intn(len(q.WrongAnswers))]
}

// negate returns the opposing true/false value: the question's single
// distractor when the corpus carries one, a flipped literal otherwise.
func negate(q domain.Question) string {
	if len(q.WrongAnswers) > 0 {
		return q.WrongAnswers[0]
	}
	if q.CorrectAnswer == "true" {
		return "false"
	}
	return "true"
}
