package domain

import "errors"

var (
	// ErrNoQuestions is returned when a game cannot start because the corpus
	// holds no playable questions.
	ErrNoQuestions = errors.New("no playable questions available")
	// ErrSessionNotFound is returned when an operation references an unknown session.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionExists is returned when a new game reuses an existing session id.
	ErrSessionExists = errors.New("game session already exists")
	// ErrAnswersClosed is returned when an answer arrives outside the answering phase.
	ErrAnswersClosed = errors.New("session is not accepting answers")
	// ErrAlreadyAnswered is returned when a participant answers the same question twice.
	ErrAlreadyAnswered = errors.New("participant already answered this question")
	// ErrParticipantNotFound is returned when the named participant is not part of the session.
	ErrParticipantNotFound = errors.New("participant not found in session")
	// ErrNoMatchingQuestions indicates a corpus lookup matched nothing.
	ErrNoMatchingQuestions = errors.New("no questions match the given filters")
)
