package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stemsi/examplay/internal/model"
)

func testSession(id, examTitle string, start time.Time) *model.ExamSession {
	correct := true
	score := 83.33
	return &model.ExamSession{
		SessionID:     id,
		ExamTitle:     examTitle,
		StartTime:     start,
		Status:        model.SessionStatusInProgress,
		QuestionOrder: []int{4, 1, 3},
		Answers: map[int]*model.UserAnswer{
			1: {
				QuestionID:       1,
				SelectedAnswers:  []int{0, 2},
				TimeSpentSeconds: 42,
				LastModified:     start.Add(time.Minute),
				IsCorrect:        &correct,
				IsMarked:         true,
			},
		},
		Marked: map[int]bool{1: true, 3: true},
		Score:  &score,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	start := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	sess := testSession("abc-123", "AZ 305", start)
	if err := fs.Save(sess); err != nil {
		t.Fatal(err)
	}

	exam := &model.Exam{Title: "AZ 305"}
	loaded, err := fs.Load("abc-123", exam)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sess, loaded) {
		t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", sess, loaded)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(testSession("s1", "Exam", time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestLoadNotFound(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Load("missing", &model.Exam{Title: "X"}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestLoadRejectsWrongExam(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(testSession("s1", "Exam A", time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	if _, err := fs.Load("s1", &model.Exam{Title: "Exam B"}); !errors.Is(err, ErrSessionExamMismatch) {
		t.Errorf("err = %v, want ErrSessionExamMismatch", err)
	}
}

func TestLoadBackfillsNilMaps(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	// A minimal legacy file without answers or marked keys.
	raw := `{"session_id":"old","exam_title":"Exam","start_time":"2026-01-01T00:00:00Z","status":"IN_PROGRESS","question_order":[0]}`
	if err := os.WriteFile(filepath.Join(dir, "session_old.json"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := fs.Load("old", &model.Exam{Title: "Exam"})
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Answers == nil || loaded.Marked == nil {
		t.Error("maps must be usable after load")
	}
}

func TestListSortedAndTolerant(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		if err := fs.Save(testSession(id, "Exam", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	// Foreign files in the directory must not break the listing.
	if err := os.WriteFile(filepath.Join(dir, "session_junk.json"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("unrelated"), 0o644); err != nil {
		t.Fatal(err)
	}

	summaries, err := fs.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(summaries))
	}
	want := []string{"third", "second", "first"}
	for i, s := range summaries {
		if s.SessionID != want[i] {
			t.Errorf("summaries[%d] = %s, want %s (newest first)", i, s.SessionID, want[i])
		}
	}
}

func TestDelete(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(testSession("gone", "Exam", time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	if err := fs.Delete("gone"); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Load("gone", &model.Exam{Title: "Exam"}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("load after delete: %v", err)
	}
	if err := fs.Delete("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("double delete: %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	sess := testSession("s1", "Exam", time.Now().UTC())
	if err := fs.Save(sess); err != nil {
		t.Fatal(err)
	}
	sess.Status = model.SessionStatusCompleted
	if err := fs.Save(sess); err != nil {
		t.Fatal(err)
	}

	loaded, err := fs.Load("s1", &model.Exam{Title: "Exam"})
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Status != model.SessionStatusCompleted {
		t.Errorf("status = %s, want overwritten COMPLETED", loaded.Status)
	}
}
