package app

import (
	"context"
	"reflect"
	"testing"

	"trivia-arena-service/internal/domain"
)

// mapStore is a minimal SessionStore for service tests.
type mapStore struct {
	sessions map[string]*Session
}

func newMapStore() *mapStore {
	return &mapStore{sessions: make(map[string]*Session)}
}

func (s *mapStore) Put(id string, session *Session) error {
	if _, ok := s.sessions[id]; ok {
		return domain.ErrSessionExists
	}
	s.sessions[id] = session
	return nil
}

func (s *mapStore) Get(id string) (*Session, bool) {
	session, ok := s.sessions[id]
	return session, ok
}

func (s *mapStore) Delete(id string) {
	delete(s.sessions, id)
}

// staticCorpus is a trivial QuestionRepository.
type staticCorpus struct {
	questions []domain.Question
}

func (c staticCorpus) Questions(context.Context) ([]domain.Question, error) {
	return c.questions, nil
}

func newTestService(pool []domain.Question) *GameService {
	return NewGameService(
		newMapStore(),
		staticCorpus{questions: pool},
		DefaultSettings(),
		WithScheduler(newFakeScheduler()),
		WithSeed(99),
	)
}

func TestStartGameBuildsDefaultLineup(t *testing.T) {
	ctx := context.Background()
	service := newTestService(testPool(20))

	status, err := service.StartGame(ctx, "game-1", "alice")
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	if status.Phase != domain.PhaseAwaitingAnswers {
		t.Fatalf("expected live session, got %s", status.Phase)
	}
	if len(status.Participants) != 4 {
		t.Fatalf("expected alice plus 3 bots, got %v", status.Participants)
	}
	if len(status.BotPlayers) != 3 {
		t.Fatalf("expected 3 bots, got %v", status.BotPlayers)
	}
	if status.TotalQuestions != 10 {
		t.Fatalf("expected 10 questions, got %d", status.TotalQuestions)
	}
	for _, score := range status.Scoreboard {
		if score != 0 {
			t.Fatalf("fresh scoreboard must be zeroed: %v", status.Scoreboard)
		}
	}
}

func TestStartGameRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	service := newTestService(testPool(20))

	if _, err := service.StartGame(ctx, "game-1", "alice"); err != nil {
		t.Fatalf("first start: %v", err)
	}
	before, err := service.GameStatus(ctx, "game-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}

	if _, err := service.StartGame(ctx, "game-1", "bob"); err != domain.ErrSessionExists {
		t.Fatalf("expected ErrSessionExists, got %v", err)
	}

	after, err := service.GameStatus(ctx, "game-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected start must not touch the session:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestStartGameWithoutPlayableQuestions(t *testing.T) {
	ctx := context.Background()
	service := newTestService(nil)

	if _, err := service.StartGame(ctx, "game-1", "alice"); err != domain.ErrNoQuestions {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	// The failed start must leave nothing behind.
	if _, err := service.GameStatus(ctx, "game-1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after failed start, got %v", err)
	}
}

func TestOperationsOnUnknownSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService(testPool(20))

	if _, err := service.SubmitAnswer(ctx, "missing", "alice", "x"); err != domain.ErrSessionNotFound {
		t.Fatalf("submit: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.GameStatus(ctx, "missing"); err != domain.ErrSessionNotFound {
		t.Fatalf("status: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.CurrentQuestion(ctx, "missing"); err != domain.ErrSessionNotFound {
		t.Fatalf("question: expected ErrSessionNotFound, got %v", err)
	}
	if _, _, err := service.Subscribe(ctx, "missing"); err != domain.ErrSessionNotFound {
		t.Fatalf("subscribe: expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitAnswerThroughService(t *testing.T) {
	ctx := context.Background()
	service := newTestService(testPool(20))

	started, err := service.StartGame(ctx, "game-1", "alice")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	status, err := service.SubmitAnswer(ctx, "game-1", "alice", started.CurrentQuestion.CorrectAnswer)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if status.Scoreboard["alice"] != 1 {
		t.Fatalf("expected alice at 1, got %d", status.Scoreboard["alice"])
	}
}

func TestListQuestionsHonorsFilters(t *testing.T) {
	ctx := context.Background()
	pool := []domain.Question{
		{Type: domain.MultipleChoice, Prompt: "a", CorrectAnswer: "x", Difficulty: 1},
		{Type: domain.TrueFalse, Prompt: "b", CorrectAnswer: "true", Difficulty: 2},
		{Type: domain.TrueFalse, Prompt: "c", CorrectAnswer: "false", Difficulty: 2},
		{Type: domain.FillBlank, Prompt: "d", CorrectAnswer: "y", Difficulty: 5},
	}
	service := newTestService(pool)

	questions, err := service.ListQuestions(ctx, 10, domain.TrueFalse, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 true/false questions, got %d", len(questions))
	}

	questions, err = service.ListQuestions(ctx, 1, "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("limit not applied, got %d", len(questions))
	}
}

func TestRandomQuestionMatchesFilters(t *testing.T) {
	ctx := context.Background()
	pool := []domain.Question{
		{Type: domain.MultipleChoice, Prompt: "a", CorrectAnswer: "x", Difficulty: 1},
		{Type: domain.FillBlank, Prompt: "d", CorrectAnswer: "y", Difficulty: 5},
	}
	service := newTestService(pool)

	q, err := service.RandomQuestion(ctx, domain.FillBlank, 0)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if q.Type != domain.FillBlank {
		t.Fatalf("filter ignored, got %s", q.Type)
	}

	if _, err := service.RandomQuestion(ctx, domain.TrueFalse, 4); err != domain.ErrNoMatchingQuestions {
		t.Fatalf("expected ErrNoMatchingQuestions, got %v", err)
	}
}
