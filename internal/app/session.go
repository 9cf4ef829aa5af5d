package app

import (
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"trivia-arena-service/internal/domain"
)

// Settings tunes the pacing of a game session.
type Settings struct {
	QuestionsPerGame int
	BotCount         int
	BotAnswerWindow  time.Duration // bots answer within [0, window)
	PacingDelay      time.Duration // pause between grading and the next question
	QuestionTime     time.Duration // informational per-question budget
}

// DefaultSettings matches the classic game: 10 questions against 3 bots,
// bot answers within 5s, 3s between questions, 30s question budget.
func DefaultSettings() Settings {
	return Settings{
		QuestionsPerGame: 10,
		BotCount:         3,
		BotAnswerWindow:  5 * time.Second,
		PacingDelay:      3 * time.Second,
		QuestionTime:     30 * time.Second,
	}
}

// Session is the state machine for one game round. All mutation goes through
// its methods and is serialized by the session mutex; timer callbacks take
// the same lock, so a caller's answer and a bot's answer can never interleave
// mid-update.
type Session struct {
	id       string
	settings Settings
	sched    Scheduler
	now      func() time.Time
	rnd      *rand.Rand

	mu           sync.RWMutex
	phase        domain.Phase
	bots         []BotPlayer
	participants []string
	questions    []domain.Question
	current      int
	scores       map[string]int
	answers      map[string]string
	deadline     time.Time
	timers       []Timer
	createdAt    time.Time
	lastActive   time.Time
	subscribers  map[chan domain.SessionStatus]struct{}
}

// NewSession builds a session in the Waiting phase. humans come first in the
// participant order, then the bots. The rng is owned by the session and only
// ever used under its lock.
func NewSession(id string, humans []string, bots []BotPlayer, settings Settings, sched Scheduler, now func() time.Time, rnd *rand.Rand) *Session {
	s := &Session{
		id:          id,
		settings:    settings,
		sched:       sched,
		now:         now,
		rnd:         rnd,
		phase:       domain.PhaseWaiting,
		bots:        bots,
		scores:      make(map[string]int),
		answers:     make(map[string]string),
		createdAt:   now(),
		lastActive:  now(),
		subscribers: make(map[chan domain.SessionStatus]struct{}),
	}
	for _, name := range humans {
		s.participants = append(s.participants, name)
		s.scores[name] = 0
	}
	for _, bot := range bots {
		s.participants = append(s.participants, bot.Name)
		s.scores[bot.Name] = 0
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Start draws the question sample and opens question 0 for answers.
// It fails without side effects when the pool holds nothing playable.
func (s *Session) Start(pool []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseWaiting {
		return domain.ErrAnswersClosed
	}
	questions := SampleQuestions(pool, s.settings.QuestionsPerGame, s.rnd)
	if len(questions) == 0 {
		return domain.ErrNoQuestions
	}
	s.questions = questions
	s.current = 0
	s.openQuestionLocked()
	s.broadcastLocked()
	return nil
}

// SubmitAnswer records one participant's answer for the live question and
// grades it immediately. First write wins; later writes for the same question
// are rejected and change nothing. When the last expected answer lands the
// session moves to Grading and arms the pacing timer toward the next question.
func (s *Session) SubmitAnswer(participant, answer string) (domain.SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseAwaitingAnswers {
		return domain.SessionStatus{}, domain.ErrAnswersClosed
	}
	if _, ok := s.scores[participant]; !ok {
		return domain.SessionStatus{}, domain.ErrParticipantNotFound
	}
	if _, ok := s.answers[participant]; ok {
		return domain.SessionStatus{}, domain.ErrAlreadyAnswered
	}

	s.answers[participant] = answer
	s.lastActive = s.now()
	if answer == s.questions[s.current].CorrectAnswer {
		s.scores[participant]++
	}

	if len(s.answers) == len(s.participants) {
		s.phase = domain.PhaseGrading
		s.stopTimersLocked()
		s.timers = append(s.timers, s.sched.AfterFunc(s.settings.PacingDelay, s.advance))
	}
	return s.broadcastLocked(), nil
}

// advance is timer-driven: it either opens the next question or finishes the
// session. A stale timer firing outside Grading is ignored.
func (s *Session) advance() {
	defer s.recoverTimer("advance")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseGrading {
		return
	}
	s.stopTimersLocked()
	if s.current+1 == len(s.questions) {
		s.finishLocked()
	} else {
		s.current++
		s.openQuestionLocked()
	}
	s.broadcastLocked()
}

// openQuestionLocked arms one delayed answer per bot for the current question
// and opens the answer window.
func (s *Session) openQuestionLocked() {
	s.phase = domain.PhaseAwaitingAnswers
	s.answers = make(map[string]string)
	s.deadline = s.now().Add(s.settings.QuestionTime)
	s.lastActive = s.now()
	for _, bot := range s.bots {
		bot := bot
		delay := time.Duration(s.rnd.Float64() * float64(s.settings.BotAnswerWindow))
		s.timers = append(s.timers, s.sched.AfterFunc(delay, func() { s.botAnswer(bot) }))
	}
}

// botAnswer runs on a timer. Failures here are isolated: a panicking callback
// is logged and the session keeps its invariants.
func (s *Session) botAnswer(bot BotPlayer) {
	defer s.recoverTimer("bot answer")

	s.mu.Lock()
	if s.phase != domain.PhaseAwaitingAnswers {
		s.mu.Unlock()
		return
	}
	answer := bot.Answer(s.questions[s.current], s.rnd)
	s.mu.Unlock()

	if _, err := s.SubmitAnswer(bot.Name, answer); err != nil {
		log.Printf("session %s: bot %s answer dropped: %v", s.id, bot.Name, err)
	}
}

func (s *Session) finishLocked() {
	s.phase = domain.PhaseFinished
	s.current = len(s.questions)
	s.deadline = time.Time{}
	s.stopTimersLocked()
}

// Close cancels all outstanding timers and drops subscribers. The registry
// calls it when evicting a session so no timer can fire into a stale round.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
	for ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = make(map[chan domain.SessionStatus]struct{})
}

func (s *Session) stopTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = s.timers[:0]
}

func (s *Session) recoverTimer(what string) {
	if r := recover(); r != nil {
		log.Printf("session %s: %s callback panicked: %v", s.id, what, r)
	}
}

// Status returns a point-in-time snapshot. It never blocks on timers.
func (s *Session) Status() domain.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// CurrentQuestion returns the live question with its time budget, or
// ErrAnswersClosed when no question is live.
func (s *Session) CurrentQuestion() (domain.QuestionCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phase != domain.PhaseAwaitingAnswers && s.phase != domain.PhaseGrading {
		return domain.QuestionCard{}, domain.ErrAnswersClosed
	}
	return domain.QuestionCard{
		Question:  s.questions[s.current],
		TimeLimit: s.settings.QuestionTime,
		Deadline:  s.deadline,
	}, nil
}

// Finished reports whether the session reached its terminal phase.
func (s *Session) Finished() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase == domain.PhaseFinished
}

// LastActive returns the time of the most recent state change, for TTL eviction.
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// Subscribe registers a channel that receives a status snapshot on every
// state change, starting with the current one. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.SessionStatus, func()) {
	ch := make(chan domain.SessionStatus, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.SessionStatus {
	status := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- status:
		default:
			// Drop the stale update so a slow subscriber cannot block the game.
			select {
			case <-ch:
			default:
			}
			ch <- status
		}
	}
	return status
}

func (s *Session) snapshotLocked() domain.SessionStatus {
	scoreboard := make(map[string]int, len(s.scores))
	for name, score := range s.scores {
		scoreboard[name] = score
	}
	answered := make([]string, 0, len(s.answers))
	for name := range s.answers {
		answered = append(answered, name)
	}
	sort.Strings(answered)
	botNames := make([]string, 0, len(s.bots))
	for _, bot := range s.bots {
		botNames = append(botNames, bot.Name)
	}

	status := domain.SessionStatus{
		SessionID:      s.id,
		Phase:          s.phase,
		Scoreboard:     scoreboard,
		Answered:       answered,
		Participants:   append([]string(nil), s.participants...),
		BotPlayers:     botNames,
		TotalQuestions: len(s.questions),
	}
	if s.phase == domain.PhaseAwaitingAnswers || s.phase == domain.PhaseGrading {
		q := s.questions[s.current]
		status.CurrentQuestion = &q
		status.CurrentQuestionNumber = s.current + 1
	} else if s.phase == domain.PhaseFinished {
		status.CurrentQuestionNumber = len(s.questions)
	}
	if len(s.questions) > 0 {
		status.Progress = float64(s.current) / float64(len(s.questions))
	}
	return status
}
