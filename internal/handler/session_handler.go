package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/examplay/internal/model"
	"github.com/stemsi/examplay/internal/response"
	"github.com/stemsi/examplay/internal/service"
	"github.com/stemsi/examplay/internal/session"
	"github.com/stemsi/examplay/internal/store"
	"github.com/stemsi/examplay/internal/validator"
)

// SessionHandler handles the exam session lifecycle endpoints.
type SessionHandler struct {
	player *service.PlayerService
	tokens *service.TokenService
	log    zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(player *service.PlayerService, tokens *service.TokenService, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		player: player,
		tokens: tokens,
		log:    log.With().Str("component", "session_handler").Logger(),
	}
}

// StartSession godoc
// POST /api/v1/exams/:exam_id/sessions
// Starts a new session against a loaded exam. The body is optional; an empty
// body starts a full-length, in-order session.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req model.StartSessionRequest
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	sess, err := h.player.StartSession(c.Param("exam_id"), req.Randomize, req.MaxQuestions)
	if err != nil {
		h.failSession(c, err)
		return
	}

	token, err := h.tokens.GenerateSessionToken(sess.SessionID)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sess.SessionID).Msg("Token generation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"session": sess,
		"token":   token,
	})
}

// ResumeSession godoc
// POST /api/v1/sessions/:session_id/resume
// Rehydrates a persisted session against a loaded exam and issues a fresh
// session token.
func (h *SessionHandler) ResumeSession(c *gin.Context) {
	var req model.ResumeSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.player.ResumeSession(c.Param("session_id"), req.ExamID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	token, err := h.tokens.GenerateSessionToken(sess.SessionID)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sess.SessionID).Msg("Token generation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session": sess,
		"token":   token,
	})
}

// ListSessions godoc
// GET /api/v1/sessions
// Lists all persisted sessions, newest first.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	summaries, err := h.player.ListSessions()
	if err != nil {
		h.log.Error().Err(err).Msg("Session listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrPersistence)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sessions": summaries})
}

// GetQuestion godoc
// GET /api/v1/sessions/:session_id/questions/:question_id
// Returns one question with the session's answer and marked state. Correct
// answers and explanations appear only after the session is completed.
func (h *SessionHandler) GetQuestion(c *gin.Context) {
	questionID, ok := intParam(c, "question_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.player.Navigate(c.Param("session_id"), questionID)
	if err != nil {
		h.failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// SelectAnswer godoc
// PUT /api/v1/sessions/:session_id/answers
// Records an answer; re-answering replaces the previous selection.
func (h *SessionHandler) SelectAnswer(c *gin.Context) {
	var req model.SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	elapsed := time.Duration(req.TimeSpentSeconds) * time.Second
	if err := h.player.SelectAnswer(c.Param("session_id"), req.QuestionID, req.SelectedAnswers, elapsed); err != nil {
		h.failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "saved"})
}

// MarkQuestion godoc
// PUT /api/v1/sessions/:session_id/marks
// Flags or unflags a question for review.
func (h *SessionHandler) MarkQuestion(c *gin.Context) {
	var req model.MarkQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.player.MarkQuestion(c.Param("session_id"), req.QuestionID, req.Marked); err != nil {
		h.failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "saved"})
}

// EndSession godoc
// POST /api/v1/sessions/:session_id/end
// Grades the session and returns the final score. Irreversible.
func (h *SessionHandler) EndSession(c *gin.Context) {
	score, passed, err := h.player.EndSession(c.Param("session_id"))
	if err != nil {
		h.failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"score":  score,
		"passed": passed,
	})
}

// GetProgress godoc
// GET /api/v1/sessions/:session_id/progress
// Returns answered/marked counts and elapsed time.
func (h *SessionHandler) GetProgress(c *gin.Context) {
	prog, err := h.player.Progress(c.Param("session_id"))
	if err != nil {
		h.failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, prog)
}

// DeleteSession godoc
// DELETE /api/v1/sessions/:session_id
// Abandons a live session and removes its persisted file.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.player.DeleteSession(c.Param("session_id")); err != nil {
		h.failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

// failSession maps service and engine errors to API error codes.
func (h *SessionHandler) failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotLoaded):
		response.Fail(c, http.StatusNotFound, response.ErrExamNotLoaded)
	case errors.Is(err, service.ErrSessionNotActive), errors.Is(err, store.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, store.ErrSessionExamMismatch):
		response.Fail(c, http.StatusConflict, response.ErrSessionMismatch)
	case errors.Is(err, session.ErrOutOfRangeQuestion):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionOutOfRange)
	case errors.Is(err, session.ErrSessionCompleted):
		response.Fail(c, http.StatusConflict, response.ErrSessionCompleted)
	case errors.Is(err, session.ErrInvalidAnswerSelection):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidSelection)
	default:
		h.log.Error().Err(err).Msg("Session operation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
