package model

import "time"

// SessionStatus enumerates exam session states.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
	SessionStatusAbandoned  SessionStatus = "ABANDONED"
)

// ExamSession is one attempt at an exam. It holds the question order and the
// answers captured so far, but not the question content itself; the exam is
// referenced by title and must be re-supplied on resume.
type ExamSession struct {
	SessionID     string              `json:"session_id"`
	ExamTitle     string              `json:"exam_title"`
	StartTime     time.Time           `json:"start_time"`
	EndTime       *time.Time          `json:"end_time,omitempty"`
	Status        SessionStatus       `json:"status"`
	QuestionOrder []int               `json:"question_order"`
	Answers       map[int]*UserAnswer `json:"answers"`
	Marked        map[int]bool        `json:"marked"`
	Score         *float64            `json:"score,omitempty"`
	Passed        *bool               `json:"passed,omitempty"`
}

// InOrder reports whether questionID appears in the session's question order.
func (s *ExamSession) InOrder(questionID int) bool {
	for _, id := range s.QuestionOrder {
		if id == questionID {
			return true
		}
	}
	return false
}

// UserAnswer records a learner's answer to one question. TimeSpentSeconds
// accumulates across revisits; IsCorrect is populated at grading time.
type UserAnswer struct {
	QuestionID       int       `json:"question_id"`
	SelectedAnswers  []int     `json:"selected_answers"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	LastModified     time.Time `json:"last_modified"`
	IsCorrect        *bool     `json:"is_correct,omitempty"`
	IsMarked         bool      `json:"is_marked"`
}

// SessionSummary carries enough session metadata for a resume picker without
// loading the full answer set.
type SessionSummary struct {
	SessionID string        `json:"session_id"`
	ExamTitle string        `json:"exam_title"`
	Status    SessionStatus `json:"status"`
	StartTime time.Time     `json:"start_time"`
	Score     *float64      `json:"score,omitempty"`
}

// StartSessionRequest is the payload for starting a new exam session.
type StartSessionRequest struct {
	Randomize    bool `json:"randomize"`
	MaxQuestions int  `json:"max_questions" binding:"min=0"`
}

// ResumeSessionRequest is the payload for rehydrating a persisted session.
// The caller is responsible for re-decoding the original exam file first.
type ResumeSessionRequest struct {
	ExamID string `json:"exam_id" binding:"required"`
}

// SelectAnswerRequest is the payload for recording an answer.
type SelectAnswerRequest struct {
	QuestionID       int   `json:"question_id" binding:"min=0"`
	SelectedAnswers  []int `json:"selected_answers" binding:"required,min=1"`
	TimeSpentSeconds int   `json:"time_spent_seconds" binding:"min=0"`
}

// MarkQuestionRequest is the payload for flagging a question for review.
type MarkQuestionRequest struct {
	QuestionID int  `json:"question_id" binding:"min=0"`
	Marked     bool `json:"marked"`
}
