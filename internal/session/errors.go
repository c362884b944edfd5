package session

import "errors"

// Typed failures surfaced by the engine. Handlers map these to API error
// codes; the engine never applies a mutation it cannot validate.
var (
	// ErrOutOfRangeQuestion means the question id is not part of the
	// session's question order.
	ErrOutOfRangeQuestion = errors.New("question is not part of this session")

	// ErrSessionCompleted means a mutation was attempted after the session
	// reached a terminal status. Completion is irreversible.
	ErrSessionCompleted = errors.New("session is already completed")

	// ErrInvalidAnswerSelection means the selection has the wrong
	// cardinality for the question type or references an option index that
	// does not exist.
	ErrInvalidAnswerSelection = errors.New("invalid answer selection")
)
