package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/examplay/internal/response"
	"github.com/stemsi/examplay/internal/service"
)

// ExamHandler handles exam upload and metadata endpoints.
type ExamHandler struct {
	player         *service.PlayerService
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(player *service.PlayerService, maxUploadBytes int64, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		player:         player,
		maxUploadBytes: maxUploadBytes,
		log:            log.With().Str("component", "exam_handler").Logger(),
	}
}

// UploadExam godoc
// POST /api/v1/exams
// Uploads an exam file, decodes it, and returns the exam summary. Undecodable
// files still succeed with synthetic content, flagged in the summary.
func (h *ExamHandler) UploadExam(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	var reader io.Reader = file
	if h.maxUploadBytes > 0 {
		reader = io.LimitReader(file, h.maxUploadBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("Upload read failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if h.maxUploadBytes > 0 && int64(len(data)) > h.maxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	summary := h.player.LoadExam(data, header.Filename)
	response.Success(c, http.StatusCreated, summary)
}

// GetExam godoc
// GET /api/v1/exams/:exam_id
// Returns the metadata of a loaded exam.
func (h *ExamHandler) GetExam(c *gin.Context) {
	summary, err := h.player.GetExamSummary(c.Param("exam_id"))
	if err != nil {
		if errors.Is(err, service.ErrExamNotLoaded) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotLoaded)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// GetExamQuestions godoc
// GET /api/v1/exams/:exam_id/questions
// Returns the exam's questions without correct answers or explanations.
func (h *ExamHandler) GetExamQuestions(c *gin.Context) {
	questions, err := h.player.GetExamQuestions(c.Param("exam_id"))
	if err != nil {
		if errors.Is(err, service.ErrExamNotLoaded) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotLoaded)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}
