package worker

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/examplay/internal/model"
	"github.com/stemsi/examplay/internal/service"
	"github.com/stemsi/examplay/internal/store"
)

func setup(t *testing.T) (*service.PlayerService, *store.FileStore, *model.ExamSession) {
	t.Helper()
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	player := service.NewPlayerService(fs, zerolog.Nop())
	summary := player.LoadExam([]byte{0x00, 0x01}, "autosave.6q.vce")
	sess, err := player.StartSession(summary.ExamID, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	return player, fs, sess
}

func TestFlushPersistsDirtySessions(t *testing.T) {
	player, fs, sess := setup(t)

	if err := player.SelectAnswer(sess.SessionID, 0, []int{0}, 0); err != nil {
		t.Fatal(err)
	}

	w := NewAutosaveWorker(player, time.Hour, zerolog.Nop())
	w.flush(false)

	loaded, err := fs.Load(sess.SessionID, &model.Exam{Title: sess.ExamTitle})
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Answers) != 1 {
		t.Errorf("persisted answers = %+v, flush must write the dirty session", loaded.Answers)
	}
}

func TestStartDrainsOnShutdown(t *testing.T) {
	player, fs, sess := setup(t)

	if err := player.SelectAnswer(sess.SessionID, 1, []int{1}, 0); err != nil {
		t.Fatal(err)
	}

	w := NewAutosaveWorker(player, time.Hour, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	loaded, err := fs.Load(sess.SessionID, &model.Exam{Title: sess.ExamTitle})
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Answers) != 1 {
		t.Errorf("persisted answers = %+v, shutdown must drain dirty sessions", loaded.Answers)
	}
}

func TestNewAutosaveWorkerDefaultInterval(t *testing.T) {
	w := NewAutosaveWorker(nil, 0, zerolog.Nop())
	if w.interval != 15*time.Second {
		t.Errorf("interval = %v, want 15s default", w.interval)
	}
}
