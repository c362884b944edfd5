package model

// Exam is an immutable exam definition produced by the decoder. Once built it
// is never mutated; sessions reference it by title only.
type Exam struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Author           string     `json:"author"`
	Version          string     `json:"version"`
	TotalQuestions   int        `json:"total_questions"`
	PassingScore     int        `json:"passing_score"`
	TimeLimitMinutes *int       `json:"time_limit_minutes,omitempty"`
	Questions        []Question `json:"questions"`
}

// ExamSummary is the exam metadata returned after an upload, without question
// content.
type ExamSummary struct {
	ExamID           string `json:"exam_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Author           string `json:"author"`
	Version          string `json:"version"`
	TotalQuestions   int    `json:"total_questions"`
	PassingScore     int    `json:"passing_score"`
	TimeLimitMinutes *int   `json:"time_limit_minutes,omitempty"`
	// Synthetic is true when the uploaded payload could not be decoded and the
	// questions are generated placeholders, not recovered file content.
	Synthetic bool `json:"synthetic"`
}

// Validate checks the exam invariants: question count matches, passing score
// in range, and every question well-formed.
func (e *Exam) Validate() error {
	if e.TotalQuestions != len(e.Questions) {
		return ErrExamInvalid
	}
	if e.PassingScore < 0 || e.PassingScore > 100 {
		return ErrExamInvalid
	}
	for i := range e.Questions {
		if err := e.Questions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
