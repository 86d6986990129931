package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/hr-interviewer/api/http/presenter"
	"github.com/artem13815/hr-interviewer/pkg/resume"
	"github.com/artem13815/hr-interviewer/pkg/session"
)

// InterviewHandler exposes server-held interview sessions.
type InterviewHandler struct {
	svc session.UseCase
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
}

func NewInterviewHandler(svc session.UseCase, maxBytes int64) *InterviewHandler {
	if maxBytes <= 0 {
		maxBytes = 15 << 20
	}
	return &InterviewHandler{svc: svc, maxBytes: maxBytes}
}

type StartInterviewRequest struct {
	Context string `json:"context"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

// Start begins an interview from free-form context and returns the first question.
// @Summary Start an interview
// @Tags    interviews
// @Accept  json
// @Produce json
// @Param   body body handlers.StartInterviewRequest true "Interview context: job description, candidate notes"
// @Success 201 {object} session.Session
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 412 {object} presenter.ErrorResponse "API key or model not configured"
// @Failure 502 {object} presenter.ErrorResponse "Provider call failed"
// @Router  /interviews [post]
func (h *InterviewHandler) Start(c *fiber.Ctx) error {
	var req StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid request body")
	}
	return h.start(c, req.Context)
}

// StartFromResume builds the interview context from an uploaded resume (PDF/DOCX) and an
// optional job description.
// @Summary Start an interview from a resume
// @Tags    interviews
// @Accept  multipart/form-data
// @Produce json
// @Param   file           formData file   true  "Resume (PDF or DOCX)"
// @Param   jobDescription formData string false "Job description"
// @Success 201 {object} session.Session
// @Failure 400 {object} presenter.ErrorResponse "Validation or file read error"
// @Failure 412 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /interviews/resume [post]
func (h *InterviewHandler) StartFromResume(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf or docx)")
	}
	if !resume.Supported(fh.Filename) {
		return presenter.Error(c, http.StatusBadRequest, resume.ErrUnsupportedFormat.Error())
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	text, err := resume.ParseResumeText(fh.Filename, data)
	if err != nil {
		if errors.Is(err, resume.ErrEmpty) || errors.Is(err, resume.ErrUnsupportedFormat) {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
		return presenter.Error(c, http.StatusBadRequest, fmt.Sprintf("failed to read resume: %v", err))
	}
	return h.start(c, resume.ComposeContext(text, c.FormValue("jobDescription")))
}

func (h *InterviewHandler) start(c *fiber.Ctx, interviewContext string) error {
	sess, err := h.svc.Start(c.UserContext(), interviewContext)
	if err != nil {
		return presenter.Fail(c, err, presenter.MsgStartFailed)
	}
	return presenter.JSON(c, http.StatusCreated, sess)
}

// Get returns an interview with its full transcript.
// @Summary Get an interview
// @Tags    interviews
// @Produce json
// @Param   id path string true "Interview ID"
// @Success 200 {object} session.Session
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /interviews/{id} [get]
func (h *InterviewHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid interview id")
	}
	sess, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return presenter.Fail(c, err, presenter.MsgInternal)
	}
	return presenter.JSON(c, http.StatusOK, sess)
}

// Send appends the candidate's answer and returns the interviewer's next message. The
// answer stays in the transcript even when the provider call fails.
// @Summary Answer the interviewer
// @Tags    interviews
// @Accept  json
// @Produce json
// @Param   id   path string                      true "Interview ID"
// @Param   body body handlers.SendMessageRequest true "Candidate answer"
// @Success 200 {object} session.Turn
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse "Another turn is in progress"
// @Failure 412 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /interviews/{id}/messages [post]
func (h *InterviewHandler) Send(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid interview id")
	}
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid request body")
	}
	turn, err := h.svc.Send(c.UserContext(), id, req.Content)
	if err != nil {
		return presenter.Fail(c, err, presenter.MsgTurnFailed)
	}
	return presenter.JSON(c, http.StatusOK, turn)
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
