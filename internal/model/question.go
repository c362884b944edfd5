package model

import "errors"

// QuestionType enumerates the supported answer cardinalities.
type QuestionType string

const (
	QuestionTypeSingle   QuestionType = "SINGLE"
	QuestionTypeMultiple QuestionType = "MULTIPLE"
)

// ErrExamInvalid is returned when a decoded exam violates its structural
// invariants.
var ErrExamInvalid = errors.New("exam definition is invalid")

// Question is a single exam question. IDs are dense integers starting at 0
// and stable for the lifetime of the exam.
type Question struct {
	ID             int          `json:"id"`
	Type           QuestionType `json:"type"`
	Text           string       `json:"text"`
	Options        []string     `json:"options"`
	CorrectAnswers []int        `json:"correct_answers"`
	Explanation    string       `json:"explanation,omitempty"`
}

// Validate checks the per-question invariants: at least two options, a
// non-empty correct set with in-bounds indices, and exactly one correct
// answer for SINGLE questions.
func (q *Question) Validate() error {
	if len(q.Options) < 2 {
		return ErrExamInvalid
	}
	if len(q.CorrectAnswers) == 0 {
		return ErrExamInvalid
	}
	if q.Type == QuestionTypeSingle && len(q.CorrectAnswers) != 1 {
		return ErrExamInvalid
	}
	for _, idx := range q.CorrectAnswers {
		if idx < 0 || idx >= len(q.Options) {
			return ErrExamInvalid
		}
	}
	return nil
}

// QuestionForTaker is a question without the correct answers, safe to send to
// a client while a session is in progress.
type QuestionForTaker struct {
	ID      int          `json:"id"`
	Type    QuestionType `json:"type"`
	Text    string       `json:"text"`
	Options []string     `json:"options"`
}

// ForTaker strips the correct answers and explanation from a question.
func (q *Question) ForTaker() QuestionForTaker {
	return QuestionForTaker{
		ID:      q.ID,
		Type:    q.Type,
		Text:    q.Text,
		Options: q.Options,
	}
}
