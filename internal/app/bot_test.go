package app

import (
	"math/rand"
	"testing"

	"trivia-arena-service/internal/domain"
)

func correctRate(t *testing.T, bot BotPlayer, q domain.Question, n int, seed int64) float64 {
	t.Helper()
	rnd := rand.New(rand.NewSource(seed))
	correct := 0
	for i := 0; i < n; i++ {
		if bot.Answer(q, rnd) == q.CorrectAnswer {
			correct++
		}
	}
	return float64(correct) / float64(n)
}

func TestSkillScalesTrueFalseAccuracy(t *testing.T) {
	q := domain.Question{
		Type:          domain.TrueFalse,
		Prompt:        "water is wet",
		CorrectAnswer: "true",
		WrongAnswers:  []string{"false"},
	}

	// Design range is 0.40 at skill 1 up to 0.90 at skill 5; with n=2000 the
	// sampling error is well under the margins below.
	low := correctRate(t, BotPlayer{Name: "AI-1", Skill: 1}, q, 2000, 11)
	high := correctRate(t, BotPlayer{Name: "AI-2", Skill: 5}, q, 2000, 13)

	if low < 0.40 || low > 0.60 {
		t.Fatalf("skill 1 rate %v outside expected band around 0.50", low)
	}
	if high < 0.84 || high > 0.96 {
		t.Fatalf("skill 5 rate %v outside expected band around 0.90", high)
	}
	if high <= low {
		t.Fatalf("skill 5 must beat skill 1: %v vs %v", high, low)
	}
}

func TestFillBlankIsHardestToGuess(t *testing.T) {
	fitb := domain.Question{
		Type:          domain.FillBlank,
		Prompt:        "____ wrote the odyssey",
		CorrectAnswer: "Homer",
		WrongAnswers:  []string{"Virgil", "Ovid"},
	}
	mc := domain.Question{
		Type:          domain.MultipleChoice,
		Prompt:        "who wrote the odyssey",
		CorrectAnswer: "Homer",
		WrongAnswers:  []string{"Virgil", "Ovid"},
	}

	bot := BotPlayer{Name: "AI-1", Skill: 5}
	fitbRate := correctRate(t, bot, fitb, 2000, 17)
	mcRate := correctRate(t, bot, mc, 2000, 19)

	// Caps: fitb tops out at 0.70, mc at 0.90.
	if fitbRate > 0.76 {
		t.Fatalf("fill-in-the-blank rate %v above its ceiling", fitbRate)
	}
	if mcRate <= fitbRate {
		t.Fatalf("multiple choice should outscore fill-in-the-blank: %v vs %v", mcRate, fitbRate)
	}
}

func TestWrongAnswersComeFromDistractors(t *testing.T) {
	q := domain.Question{
		Type:          domain.MultipleChoice,
		Prompt:        "pick one",
		CorrectAnswer: "right",
		WrongAnswers:  []string{"wrong a", "wrong b"},
	}
	valid := map[string]bool{"right": true, "wrong a": true, "wrong b": true}

	rnd := rand.New(rand.NewSource(23))
	bot := BotPlayer{Name: "AI-1", Skill: 1}
	for i := 0; i < 500; i++ {
		if answer := bot.Answer(q, rnd); !valid[answer] {
			t.Fatalf("bot produced answer outside the question: %q", answer)
		}
	}
}

func TestTrueFalseWrongAnswerIsNegation(t *testing.T) {
	q := domain.Question{
		Type:          domain.TrueFalse,
		Prompt:        "statement",
		CorrectAnswer: "true",
		WrongAnswers:  []string{"false"},
	}

	rnd := rand.New(rand.NewSource(29))
	bot := BotPlayer{Name: "AI-1", Skill: 1}
	for i := 0; i < 500; i++ {
		answer := bot.Answer(q, rnd)
		if answer != "true" && answer != "false" {
			t.Fatalf("true/false answer must be one of the pair, got %q", answer)
		}
	}
}
