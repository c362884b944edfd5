package session

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/examplay/internal/model"
)

// Engine drives one exam's sessions: question ordering, answer capture,
// marking, and grading. It is bound to a single immutable exam definition.
//
// Engine operations are not reentrant-safe; callers must serialize access to
// a given session (the service layer holds one lock per session).
type Engine struct {
	exam *model.Exam
	rnd  *rand.Rand
	now  func() time.Time
}

// NewEngine creates an engine for the given exam.
func NewEngine(exam *model.Exam) *Engine {
	return &Engine{
		exam: exam,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
		now:  time.Now,
	}
}

// Exam returns the exam definition this engine is bound to.
func (e *Engine) Exam() *model.Exam { return e.exam }

// StartSession creates a new in-progress session. Order policy, in priority
// order: with a limit below the exam size, randomize picks maxQuestions
// indices by sampling without replacement (draw order kept, not sorted) and
// non-randomized takes the first maxQuestions ascending; without an effective
// limit, randomize yields a uniform permutation and non-randomized yields
// ascending order.
func (e *Engine) StartSession(randomize bool, maxQuestions int) *model.ExamSession {
	total := e.exam.TotalQuestions

	var order []int
	switch {
	case maxQuestions > 0 && maxQuestions < total:
		if randomize {
			order = e.rnd.Perm(total)[:maxQuestions]
		} else {
			order = ascending(maxQuestions)
		}
	case randomize:
		order = e.rnd.Perm(total)
	default:
		order = ascending(total)
	}

	return &model.ExamSession{
		SessionID:     uuid.New().String(),
		ExamTitle:     e.exam.Title,
		StartTime:     e.now().UTC(),
		Status:        model.SessionStatusInProgress,
		QuestionOrder: order,
		Answers:       make(map[int]*model.UserAnswer),
		Marked:        make(map[int]bool),
	}
}

func ascending(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// SelectAnswer records the learner's selection for a question, replacing any
// previous answer (last write wins). elapsed is the time the question was on
// screen since it was last displayed, tracked by the caller's navigation; it
// accumulates into the answer's total time spent.
func (e *Engine) SelectAnswer(sess *model.ExamSession, questionID int, selected []int, elapsed time.Duration) error {
	if err := e.ensureMutable(sess); err != nil {
		return err
	}
	if !sess.InOrder(questionID) || questionID >= len(e.exam.Questions) {
		return ErrOutOfRangeQuestion
	}

	q := &e.exam.Questions[questionID]
	normalized, err := normalizeSelection(q, selected)
	if err != nil {
		return err
	}

	now := e.now().UTC()
	if ans, ok := sess.Answers[questionID]; ok {
		ans.SelectedAnswers = normalized
		ans.TimeSpentSeconds += int(elapsed.Seconds())
		ans.LastModified = now
		ans.IsCorrect = nil // previous grading no longer applies
		return nil
	}

	sess.Answers[questionID] = &model.UserAnswer{
		QuestionID:       questionID,
		SelectedAnswers:  normalized,
		TimeSpentSeconds: int(elapsed.Seconds()),
		LastModified:     now,
		IsMarked:         sess.Marked[questionID],
	}
	return nil
}

// normalizeSelection validates cardinality and bounds, returning a sorted,
// de-duplicated copy of the selection.
func normalizeSelection(q *model.Question, selected []int) ([]int, error) {
	if len(selected) == 0 {
		return nil, ErrInvalidAnswerSelection
	}

	seen := make(map[int]bool, len(selected))
	normalized := make([]int, 0, len(selected))
	for _, idx := range selected {
		if idx < 0 || idx >= len(q.Options) {
			return nil, ErrInvalidAnswerSelection
		}
		if !seen[idx] {
			seen[idx] = true
			normalized = append(normalized, idx)
		}
	}
	sort.Ints(normalized)

	if q.Type == model.QuestionTypeSingle && len(normalized) != 1 {
		return nil, ErrInvalidAnswerSelection
	}
	return normalized, nil
}

// MarkQuestion toggles a question's review flag. Idempotent: marking an
// already-marked question is a no-op.
func (e *Engine) MarkQuestion(sess *model.ExamSession, questionID int, marked bool) error {
	if err := e.ensureMutable(sess); err != nil {
		return err
	}
	if !sess.InOrder(questionID) {
		return ErrOutOfRangeQuestion
	}

	if marked {
		sess.Marked[questionID] = true
	} else {
		delete(sess.Marked, questionID)
	}
	if ans, ok := sess.Answers[questionID]; ok {
		ans.IsMarked = marked
	}
	return nil
}

// QuestionView is the read model returned by Navigate: the question plus the
// session's current answer and marked state for it. Correctness details are
// only populated once the session is completed (review mode).
type QuestionView struct {
	Question model.QuestionForTaker `json:"question"`
	Position int                    `json:"position"` // 1-based within the question order
	Total    int                    `json:"total"`
	Answer   *model.UserAnswer      `json:"answer,omitempty"`
	Marked   bool                   `json:"marked"`

	CorrectAnswers []int  `json:"correct_answers,omitempty"`
	Explanation    string `json:"explanation,omitempty"`
}

// Navigate is a pure read: it returns the question and the session's state
// for it without mutating anything.
func (e *Engine) Navigate(sess *model.ExamSession, questionID int) (QuestionView, error) {
	position := 0
	for i, id := range sess.QuestionOrder {
		if id == questionID {
			position = i + 1
			break
		}
	}
	if position == 0 || questionID >= len(e.exam.Questions) {
		return QuestionView{}, ErrOutOfRangeQuestion
	}

	q := &e.exam.Questions[questionID]
	view := QuestionView{
		Question: q.ForTaker(),
		Position: position,
		Total:    len(sess.QuestionOrder),
		Answer:   sess.Answers[questionID],
		Marked:   sess.Marked[questionID],
	}
	if sess.Status == model.SessionStatusCompleted {
		view.CorrectAnswers = append([]int(nil), q.CorrectAnswers...)
		view.Explanation = q.Explanation
	}
	return view, nil
}

// EndSession grades the session and transitions it to COMPLETED. The
// transition is irreversible; any later mutation fails. Grading compares the
// selected set against the correct set with exact equality — no partial
// credit on MULTIPLE questions, and an unanswered question counts as an
// empty selection.
func (e *Engine) EndSession(sess *model.ExamSession) (score float64, passed bool, err error) {
	if err := e.ensureMutable(sess); err != nil {
		return 0, false, err
	}

	correct := 0
	for _, qid := range sess.QuestionOrder {
		if qid < 0 || qid >= len(e.exam.Questions) {
			continue // stale order entry: counts as incorrect
		}
		q := &e.exam.Questions[qid]
		ans := sess.Answers[qid]

		var selected []int
		if ans != nil {
			selected = ans.SelectedAnswers
		}
		ok := setsEqual(selected, q.CorrectAnswers)
		if ans != nil {
			isCorrect := ok
			ans.IsCorrect = &isCorrect
		}
		if ok {
			correct++
		}
	}

	if n := len(sess.QuestionOrder); n > 0 {
		score = math.Round(100*float64(correct)/float64(n)*100) / 100
	}
	passed = score >= float64(e.exam.PassingScore)

	now := e.now().UTC()
	sess.EndTime = &now
	sess.Status = model.SessionStatusCompleted
	sess.Score = &score
	sess.Passed = &passed
	return score, passed, nil
}

// Abandon marks an in-progress session as discarded.
func (e *Engine) Abandon(sess *model.ExamSession) error {
	if err := e.ensureMutable(sess); err != nil {
		return err
	}
	sess.Status = model.SessionStatusAbandoned
	return nil
}

// Progress is the read-only progress snapshot polled or pushed to
// collaborators.
type Progress struct {
	Answered       int                 `json:"answered"`
	Marked         int                 `json:"marked"`
	Total          int                 `json:"total"`
	ElapsedSeconds int                 `json:"elapsed_seconds"`
	Status         model.SessionStatus `json:"status"`
	Score          *float64            `json:"score,omitempty"`
	Passed         *bool               `json:"passed,omitempty"`
}

// Progress reports answered/marked counts and elapsed time for a session.
func (e *Engine) Progress(sess *model.ExamSession) Progress {
	end := e.now().UTC()
	if sess.EndTime != nil {
		end = *sess.EndTime
	}
	return Progress{
		Answered:       len(sess.Answers),
		Marked:         len(sess.Marked),
		Total:          len(sess.QuestionOrder),
		ElapsedSeconds: int(end.Sub(sess.StartTime).Seconds()),
		Status:         sess.Status,
		Score:          sess.Score,
		Passed:         sess.Passed,
	}
}

func (e *Engine) ensureMutable(sess *model.ExamSession) error {
	if sess.Status != model.SessionStatusInProgress {
		return ErrSessionCompleted
	}
	return nil
}

// setsEqual compares two index sets regardless of order. selected is already
// sorted and de-duplicated by normalizeSelection; correct comes from the
// immutable exam and may be in any order.
func setsEqual(selected, correct []int) bool {
	if len(selected) != len(correct) {
		return false
	}
	want := make(map[int]bool, len(correct))
	for _, idx := range correct {
		want[idx] = true
	}
	for _, idx := range selected {
		if !want[idx] {
			return false
		}
	}
	return true
}
