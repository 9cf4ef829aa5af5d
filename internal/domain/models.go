package domain

import "time"

// QuestionType identifies the answer format of a corpus question.
type QuestionType string

const (
	MultipleChoice QuestionType = "mc"
	TrueFalse      QuestionType = "tf"
	FillBlank      QuestionType = "fitb"
)

// Supported reports whether the engine knows how to play this question type.
func (t QuestionType) Supported() bool {
	switch t {
	case MultipleChoice, TrueFalse, FillBlank:
		return true
	}
	return false
}

// Question is one immutable entry of the corpus. Created at load time and
// read-only afterwards.
type Question struct {
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"prompt"`
	CorrectAnswer string       `json:"correctAnswer"`
	WrongAnswers  []string     `json:"wrongAnswers"`
	Difficulty    int          `json:"difficulty"` // 1-5
	Reference     string       `json:"reference,omitempty"`
	Categories    []string     `json:"categories,omitempty"`
}

// Phase is the stage of a game session's state machine. Transitions only move
// forward: Waiting -> AwaitingAnswers -> Grading -> AwaitingAnswers ... -> Finished.
type Phase string

const (
	PhaseWaiting         Phase = "waiting"
	PhaseAwaitingAnswers Phase = "awaitingAnswers"
	PhaseGrading         Phase = "grading"
	PhaseFinished        Phase = "finished"
)

// SessionStatus is a JSON-serializable snapshot of one game session.
type SessionStatus struct {
	SessionID             string         `json:"sessionId"`
	Phase                 Phase          `json:"phase"`
	CurrentQuestion       *Question      `json:"currentQuestion,omitempty"`
	Scoreboard            map[string]int `json:"scoreboard"`
	Answered              []string       `json:"answered"`
	Participants          []string       `json:"participants"`
	BotPlayers            []string       `json:"botPlayers"`
	TotalQuestions        int            `json:"totalQuestions"`
	CurrentQuestionNumber int            `json:"currentQuestionNumber"`
	Progress              float64        `json:"progress"`
}

// QuestionCard is the answer to a current-question lookup: the live question
// plus its informational time budget.
type QuestionCard struct {
	Question  Question      `json:"question"`
	TimeLimit time.Duration `json:"timeLimit"`
	Deadline  time.Time     `json:"deadline"`
}
