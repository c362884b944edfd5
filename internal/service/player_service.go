package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/examplay/internal/model"
	"github.com/stemsi/examplay/internal/session"
	"github.com/stemsi/examplay/internal/store"
	"github.com/stemsi/examplay/internal/vce"
)

// Common player errors.
var (
	ErrExamNotLoaded    = errors.New("exam is not loaded")
	ErrSessionNotActive = errors.New("session is not active in memory")
)

// loadedExam is a decoded exam plus the engine bound to it.
type loadedExam struct {
	id        string
	exam      *model.Exam
	engine    *session.Engine
	synthetic bool
}

// activeSession pairs an in-memory session with its per-session lock and the
// exam it runs against.
type activeSession struct {
	mu     sync.Mutex
	examID string
	sess   *model.ExamSession
}

// PlayerService orchestrates the exam-taking flow: decoding uploads, running
// sessions through the engine, and persisting them through the file store.
// Engine calls are serialized per session; the dirty set feeds the autosave
// worker.
type PlayerService struct {
	store *store.FileStore
	log   zerolog.Logger

	mu     sync.RWMutex
	exams  map[string]*loadedExam
	active map[string]*activeSession

	dirtyMu sync.Mutex
	dirty   map[string]bool
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(st *store.FileStore, log zerolog.Logger) *PlayerService {
	return &PlayerService{
		store:  st,
		log:    log.With().Str("component", "player_service").Logger(),
		exams:  make(map[string]*loadedExam),
		active: make(map[string]*activeSession),
		dirty:  make(map[string]bool),
	}
}

// LoadExam decodes an uploaded exam file and registers it under a fresh exam
// id. Decoding never fails; an undecodable payload yields a synthetic exam
// flagged as such in the summary.
func (p *PlayerService) LoadExam(data []byte, filename string) model.ExamSummary {
	exam, synthetic := vce.Decode(data, filename)

	le := &loadedExam{
		id:        uuid.New().String(),
		exam:      exam,
		engine:    session.NewEngine(exam),
		synthetic: synthetic,
	}

	p.mu.Lock()
	p.exams[le.id] = le
	p.mu.Unlock()

	p.log.Info().
		Str("exam_id", le.id).
		Str("title", exam.Title).
		Int("questions", exam.TotalQuestions).
		Bool("synthetic", synthetic).
		Msg("Exam loaded")

	return summarize(le)
}

// GetExamSummary returns the metadata of a loaded exam.
func (p *PlayerService) GetExamSummary(examID string) (model.ExamSummary, error) {
	le, err := p.getExam(examID)
	if err != nil {
		return model.ExamSummary{}, err
	}
	return summarize(le), nil
}

// GetExamQuestions returns the questions of a loaded exam with the correct
// answers stripped.
func (p *PlayerService) GetExamQuestions(examID string) ([]model.QuestionForTaker, error) {
	le, err := p.getExam(examID)
	if err != nil {
		return nil, err
	}

	questions := make([]model.QuestionForTaker, len(le.exam.Questions))
	for i := range le.exam.Questions {
		questions[i] = le.exam.Questions[i].ForTaker()
	}
	return questions, nil
}

// StartSession creates a new session against a loaded exam and persists it
// immediately, so it is resumable even if the process dies right after.
func (p *PlayerService) StartSession(examID string, randomize bool, maxQuestions int) (*model.ExamSession, error) {
	le, err := p.getExam(examID)
	if err != nil {
		return nil, err
	}

	sess := le.engine.StartSession(randomize, maxQuestions)
	if err := p.store.Save(sess); err != nil {
		return nil, fmt.Errorf("persist new session: %w", err)
	}

	p.mu.Lock()
	p.active[sess.SessionID] = &activeSession{examID: examID, sess: sess}
	p.mu.Unlock()

	p.log.Info().
		Str("session_id", sess.SessionID).
		Str("exam_id", examID).
		Int("questions", len(sess.QuestionOrder)).
		Bool("randomize", randomize).
		Msg("Session started")

	return sess, nil
}

// ResumeSession rehydrates a persisted session against a loaded exam. The
// stored question order is replayed as-is; the store rejects sessions that
// belong to a different exam.
func (p *PlayerService) ResumeSession(sessionID, examID string) (*model.ExamSession, error) {
	le, err := p.getExam(examID)
	if err != nil {
		return nil, err
	}

	// Already live: hand back the in-memory session instead of re-reading a
	// possibly stale snapshot from disk.
	p.mu.RLock()
	as, ok := p.active[sessionID]
	p.mu.RUnlock()
	if ok {
		if as.examID != examID {
			return nil, store.ErrSessionExamMismatch
		}
		return as.sess, nil
	}

	sess, err := p.store.Load(sessionID, le.exam)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.active[sessionID] = &activeSession{examID: examID, sess: sess}
	p.mu.Unlock()

	p.log.Info().
		Str("session_id", sessionID).
		Str("exam_id", examID).
		Str("status", string(sess.Status)).
		Msg("Session resumed")

	return sess, nil
}

// SelectAnswer records an answer on an active session and queues it for
// autosave.
func (p *PlayerService) SelectAnswer(sessionID string, questionID int, selected []int, timeSpent time.Duration) error {
	return p.withSession(sessionID, func(as *activeSession, eng *session.Engine) error {
		if err := eng.SelectAnswer(as.sess, questionID, selected, timeSpent); err != nil {
			return err
		}
		p.markDirty(sessionID)
		return nil
	})
}

// MarkQuestion flags or unflags a question for review on an active session.
func (p *PlayerService) MarkQuestion(sessionID string, questionID int, marked bool) error {
	return p.withSession(sessionID, func(as *activeSession, eng *session.Engine) error {
		if err := eng.MarkQuestion(as.sess, questionID, marked); err != nil {
			return err
		}
		p.markDirty(sessionID)
		return nil
	})
}

// Navigate returns the view of one question within an active session.
func (p *PlayerService) Navigate(sessionID string, questionID int) (session.QuestionView, error) {
	var view session.QuestionView
	err := p.withSession(sessionID, func(as *activeSession, eng *session.Engine) error {
		v, err := eng.Navigate(as.sess, questionID)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	return view, err
}

// EndSession grades an active session and persists the result synchronously;
// a graded session must never be lost to a missed autosave tick.
func (p *PlayerService) EndSession(sessionID string) (score float64, passed bool, err error) {
	err = p.withSession(sessionID, func(as *activeSession, eng *session.Engine) error {
		s, ok, endErr := eng.EndSession(as.sess)
		if endErr != nil {
			return endErr
		}
		score, passed = s, ok
		if saveErr := p.store.Save(as.sess); saveErr != nil {
			return fmt.Errorf("persist graded session: %w", saveErr)
		}
		p.clearDirty(sessionID)

		p.log.Info().
			Str("session_id", sessionID).
			Float64("score", score).
			Bool("passed", passed).
			Msg("Session graded")
		return nil
	})
	return score, passed, err
}

// Progress returns the progress snapshot of an active session.
func (p *PlayerService) Progress(sessionID string) (session.Progress, error) {
	var prog session.Progress
	err := p.withSession(sessionID, func(as *activeSession, eng *session.Engine) error {
		prog = eng.Progress(as.sess)
		return nil
	})
	return prog, err
}

// ListSessions returns summaries of all persisted sessions.
func (p *PlayerService) ListSessions() ([]model.SessionSummary, error) {
	return p.store.List()
}

// DeleteSession abandons a live session if it is still mutable, removes it
// from memory, and deletes its persisted file.
func (p *PlayerService) DeleteSession(sessionID string) error {
	p.mu.Lock()
	as, ok := p.active[sessionID]
	delete(p.active, sessionID)
	p.mu.Unlock()
	p.clearDirty(sessionID)

	if ok {
		as.mu.Lock()
		if as.sess.Status == model.SessionStatusInProgress {
			as.sess.Status = model.SessionStatusAbandoned
		}
		as.mu.Unlock()
	}

	return p.store.Delete(sessionID)
}

// DirtySessions drains the set of session ids with unsaved changes.
func (p *PlayerService) DirtySessions() []string {
	p.dirtyMu.Lock()
	defer p.dirtyMu.Unlock()

	if len(p.dirty) == 0 {
		return nil
	}
	ids := make([]string, 0, len(p.dirty))
	for id := range p.dirty {
		ids = append(ids, id)
	}
	p.dirty = make(map[string]bool)
	return ids
}

// SaveSession snapshots an active session to disk under its lock. Sessions
// already evicted from memory are a no-op: their last synchronous save is the
// final word.
func (p *PlayerService) SaveSession(sessionID string) error {
	p.mu.RLock()
	as, ok := p.active[sessionID]
	p.mu.RUnlock()
	if !ok {
		return nil
	}

	as.mu.Lock()
	defer as.mu.Unlock()
	return p.store.Save(as.sess)
}

// MarkDirty re-queues a session for autosave. Used by the worker when a save
// attempt fails.
func (p *PlayerService) MarkDirty(sessionID string) {
	p.markDirty(sessionID)
}

func (p *PlayerService) markDirty(sessionID string) {
	p.dirtyMu.Lock()
	p.dirty[sessionID] = true
	p.dirtyMu.Unlock()
}

func (p *PlayerService) clearDirty(sessionID string) {
	p.dirtyMu.Lock()
	delete(p.dirty, sessionID)
	p.dirtyMu.Unlock()
}

func (p *PlayerService) getExam(examID string) (*loadedExam, error) {
	p.mu.RLock()
	le, ok := p.exams[examID]
	p.mu.RUnlock()
	if !ok {
		return nil, ErrExamNotLoaded
	}
	return le, nil
}

// withSession runs fn with the session's lock held and the engine of the exam
// the session belongs to.
func (p *PlayerService) withSession(sessionID string, fn func(*activeSession, *session.Engine) error) error {
	p.mu.RLock()
	as, ok := p.active[sessionID]
	var le *loadedExam
	if ok {
		le = p.exams[as.examID]
	}
	p.mu.RUnlock()

	if !ok {
		return ErrSessionNotActive
	}
	if le == nil {
		return ErrExamNotLoaded
	}

	as.mu.Lock()
	defer as.mu.Unlock()
	return fn(as, le.engine)
}

func summarize(le *loadedExam) model.ExamSummary {
	return model.ExamSummary{
		ExamID:           le.id,
		Title:            le.exam.Title,
		Description:      le.exam.Description,
		Author:           le.exam.Author,
		Version:          le.exam.Version,
		TotalQuestions:   le.exam.TotalQuestions,
		PassingScore:     le.exam.PassingScore,
		TimeLimitMinutes: le.exam.TimeLimitMinutes,
		Synthetic:        le.synthetic,
	}
}
