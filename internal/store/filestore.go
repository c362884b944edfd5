package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stemsi/examplay/internal/model"
)

// ErrSessionExamMismatch means a persisted session was loaded against a
// different exam than the one it was started from.
var ErrSessionExamMismatch = errors.New("session does not belong to the supplied exam")

// ErrSessionNotFound means no persisted session exists for the given id.
var ErrSessionNotFound = errors.New("session not found")

const sessionPrefix = "session_"

// FileStore persists exam sessions as one JSON document per session. Every
// save writes to a temporary file in the same directory and renames it into
// place, so a crash mid-write never leaves a half-written session visible to
// Load or List.
type FileStore struct {
	dir string
}

// NewFileStore creates the sessions directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "./sessions"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionPrefix+sessionID+".json")
}

// Save persists a snapshot of the session atomically.
func (s *FileStore) Save(sess *model.ExamSession) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, sessionPrefix+sess.SessionID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(sess.SessionID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename session file: %w", err)
	}
	return nil
}

// Load reads a persisted session and validates it belongs to the supplied
// exam. The persisted question order is replayed verbatim — it is never
// recomputed, so randomized limited-question sessions resume with exactly
// the order they were started with.
func (s *FileStore) Load(sessionID string, exam *model.Exam) (*model.ExamSession, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	// Unknown fields are ignored so older binaries can read sessions
	// written by newer ones.
	var sess model.ExamSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if sess.ExamTitle != exam.Title {
		return nil, ErrSessionExamMismatch
	}

	if sess.Answers == nil {
		sess.Answers = make(map[int]*model.UserAnswer)
	}
	if sess.Marked == nil {
		sess.Marked = make(map[int]bool)
	}
	return &sess, nil
}

// List returns summaries of all persisted sessions, newest first. Files that
// cannot be parsed (e.g. foreign files dropped into the directory) are
// skipped rather than failing the listing.
func (s *FileStore) List() ([]model.SessionSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read session dir: %w", err)
	}

	summaries := make([]model.SessionSummary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, sessionPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		var sess model.ExamSession
		if err := json.Unmarshal(data, &sess); err != nil || sess.SessionID == "" {
			continue
		}

		summaries = append(summaries, model.SessionSummary{
			SessionID: sess.SessionID,
			ExamTitle: sess.ExamTitle,
			Status:    sess.Status,
			StartTime: sess.StartTime,
			Score:     sess.Score,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartTime.After(summaries[j].StartTime)
	})
	return summaries, nil
}

// Delete removes a persisted session.
func (s *FileStore) Delete(sessionID string) error {
	if err := os.Remove(s.path(sessionID)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
