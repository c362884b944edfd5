package service

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/examplay/internal/session"
	"github.com/stemsi/examplay/internal/store"
)

// undecodable is a payload with no recognizable container: binary junk that
// always routes to the synthetic generator.
var undecodable = []byte{0x00, 0x01, 0x02, 0x03, 0x04}

func newTestPlayer(t *testing.T) (*PlayerService, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	return NewPlayerService(fs, zerolog.Nop()), dir
}

func TestLoadExamSynthetic(t *testing.T) {
	p, _ := newTestPlayer(t)

	summary := p.LoadExam(undecodable, "AZ-305.35q.vce")
	if !summary.Synthetic {
		t.Error("undecodable upload must be flagged synthetic")
	}
	if summary.TotalQuestions != 35 {
		t.Errorf("questions = %d, want 35", summary.TotalQuestions)
	}
	if summary.ExamID == "" {
		t.Error("exam id must be assigned")
	}

	got, err := p.GetExamSummary(summary.ExamID)
	if err != nil {
		t.Fatal(err)
	}
	if got != summary {
		t.Errorf("summary lookup mismatch: %+v vs %+v", got, summary)
	}
}

func TestGetExamQuestionsStripsAnswers(t *testing.T) {
	p, _ := newTestPlayer(t)
	summary := p.LoadExam(undecodable, "practice.vce")

	questions, err := p.GetExamQuestions(summary.ExamID)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != summary.TotalQuestions {
		t.Errorf("got %d questions, want %d", len(questions), summary.TotalQuestions)
	}

	if _, err := p.GetExamQuestions("unknown"); !errors.Is(err, ErrExamNotLoaded) {
		t.Errorf("unknown exam: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	p, _ := newTestPlayer(t)
	summary := p.LoadExam(undecodable, "lifecycle.6q.vce")

	sess, err := p.StartSession(summary.ExamID, false, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Starting persists immediately.
	summaries, err := p.ListSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].SessionID != sess.SessionID {
		t.Fatalf("summaries = %+v", summaries)
	}

	if err := p.SelectAnswer(sess.SessionID, 0, []int{0}, 5*time.Second); err != nil {
		t.Fatal(err)
	}
	if err := p.MarkQuestion(sess.SessionID, 1, true); err != nil {
		t.Fatal(err)
	}

	view, err := p.Navigate(sess.SessionID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if view.Answer == nil || view.Position != 1 {
		t.Errorf("view = %+v", view)
	}

	prog, err := p.Progress(sess.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if prog.Answered != 1 || prog.Marked != 1 {
		t.Errorf("progress = %+v", prog)
	}

	if _, _, err := p.EndSession(sess.SessionID); err != nil {
		t.Fatal(err)
	}
	if err := p.SelectAnswer(sess.SessionID, 0, []int{1}, 0); !errors.Is(err, session.ErrSessionCompleted) {
		t.Errorf("mutation after end: %v", err)
	}
}

func TestDirtyTracking(t *testing.T) {
	p, _ := newTestPlayer(t)
	summary := p.LoadExam(undecodable, "dirty.vce")
	sess, err := p.StartSession(summary.ExamID, false, 0)
	if err != nil {
		t.Fatal(err)
	}

	if ids := p.DirtySessions(); len(ids) != 0 {
		t.Errorf("fresh session dirty = %v, start saves synchronously", ids)
	}

	if err := p.SelectAnswer(sess.SessionID, 0, []int{0}, 0); err != nil {
		t.Fatal(err)
	}
	ids := p.DirtySessions()
	if len(ids) != 1 || ids[0] != sess.SessionID {
		t.Fatalf("dirty = %v", ids)
	}
	if ids = p.DirtySessions(); len(ids) != 0 {
		t.Errorf("drain must empty the set, got %v", ids)
	}

	if err := p.SaveSession(sess.SessionID); err != nil {
		t.Fatal(err)
	}

	// Grading clears the pending flag: the result is saved synchronously.
	if err := p.MarkQuestion(sess.SessionID, 0, true); err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.EndSession(sess.SessionID); err != nil {
		t.Fatal(err)
	}
	if ids := p.DirtySessions(); len(ids) != 0 {
		t.Errorf("dirty after end = %v", ids)
	}
}

func TestResumeAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	p1 := NewPlayerService(fs, zerolog.Nop())
	summary := p1.LoadExam(undecodable, "restart.6q.vce")
	sess, err := p1.StartSession(summary.ExamID, true, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := p1.SelectAnswer(sess.SessionID, sess.QuestionOrder[0], []int{0}, 0); err != nil {
		t.Fatal(err)
	}
	if err := p1.SaveSession(sess.SessionID); err != nil {
		t.Fatal(err)
	}

	// New process: same file decodes to the same exam, new exam id.
	fs2, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	p2 := NewPlayerService(fs2, zerolog.Nop())
	summary2 := p2.LoadExam(undecodable, "restart.6q.vce")

	resumed, err := p2.ResumeSession(sess.SessionID, summary2.ExamID)
	if err != nil {
		t.Fatal(err)
	}
	if len(resumed.QuestionOrder) != 4 {
		t.Fatalf("order = %v", resumed.QuestionOrder)
	}
	for i, id := range resumed.QuestionOrder {
		if id != sess.QuestionOrder[i] {
			t.Fatal("resumed order must replay the persisted order verbatim")
		}
	}
	if len(resumed.Answers) != 1 {
		t.Errorf("answers = %+v", resumed.Answers)
	}

	// Resuming against a different exam is refused.
	other := p2.LoadExam(undecodable, "unrelated-exam.vce")
	if other.Title != summary2.Title {
		if _, err := p2.ResumeSession(sess.SessionID, other.ExamID); !errors.Is(err, store.ErrSessionExamMismatch) {
			t.Errorf("resume against wrong exam: %v", err)
		}
	}
}

func TestResumeUnknownSession(t *testing.T) {
	p, _ := newTestPlayer(t)
	summary := p.LoadExam(undecodable, "x.vce")

	if _, err := p.ResumeSession("nope", summary.ExamID); !errors.Is(err, store.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
	if _, err := p.ResumeSession("nope", "missing-exam"); !errors.Is(err, ErrExamNotLoaded) {
		t.Errorf("err = %v, want ErrExamNotLoaded", err)
	}
}

func TestDeleteSession(t *testing.T) {
	p, _ := newTestPlayer(t)
	summary := p.LoadExam(undecodable, "del.vce")
	sess, err := p.StartSession(summary.ExamID, false, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.DeleteSession(sess.SessionID); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Progress(sess.SessionID); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("progress after delete: %v", err)
	}
	summaries, err := p.ListSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 0 {
		t.Errorf("summaries after delete = %+v", summaries)
	}
}

func TestOperationsOnInactiveSession(t *testing.T) {
	p, _ := newTestPlayer(t)

	if err := p.SelectAnswer("ghost", 0, []int{0}, 0); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("select: %v", err)
	}
	if _, err := p.Navigate("ghost", 0); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("navigate: %v", err)
	}
	if _, _, err := p.EndSession("ghost"); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("end: %v", err)
	}
}
