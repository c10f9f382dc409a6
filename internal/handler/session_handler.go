package handler

import (
	"errors"
	"net/http"

	"github.com/certifyai/certify-backend/internal/middleware"
	"github.com/certifyai/certify-backend/internal/model"
	"github.com/certifyai/certify-backend/internal/response"
	"github.com/certifyai/certify-backend/internal/service"
	"github.com/certifyai/certify-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// SessionHandler exposes exam attempt operations. Every route requires auth;
// the attempt is addressed by the authenticated user, never by a path param.
type SessionHandler struct {
	sessionService  *service.SessionService
	progressService *service.ProgressService
	log             zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	sessionService *service.SessionService,
	progressService *service.ProgressService,
	log zerolog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessionService:  sessionService,
		progressService: progressService,
		log:             log.With().Str("component", "session_handler").Logger(),
	}
}

// Start godoc
// POST /api/v1/session/start
// Begins a new attempt for the given exam, replacing any live one.
func (h *SessionHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var req model.StartExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.StartExam(c.Request.Context(), claims.UserID, req.ExamID)
	if err != nil {
		h.failStart(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": state})
}

// failStart separates an unknown exam id from snapshot persistence failures.
func (h *SessionHandler) failStart(c *gin.Context, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return
	}
	h.log.Error().Err(err).Msg("failed to start exam")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// Answer godoc
// POST /api/v1/session/answer
// Upserts the answer for one question. The payload must carry exactly one
// answer form.
func (h *SessionHandler) Answer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.Answer(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// ClearAnswer godoc
// POST /api/v1/session/clear-answer
func (h *SessionHandler) ClearAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var req model.QuestionRef
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.ClearAnswer(c.Request.Context(), claims.UserID, req.QuestionID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// ToggleMark godoc
// POST /api/v1/session/mark
// Toggles the review flag on one question.
func (h *SessionHandler) ToggleMark(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var req model.QuestionRef
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.ToggleMark(c.Request.Context(), claims.UserID, req.QuestionID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// Navigate godoc
// POST /api/v1/session/navigate
// Moves the current question pointer (next, previous, or goto with index).
func (h *SessionHandler) Navigate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if req.Direction == "goto" && req.Index == nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidNavTarget)
		return
	}

	state, err := h.sessionService.Navigate(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// Tick godoc
// POST /api/v1/session/tick
// Advances the countdown by one second; the client drives the cadence and
// submits when the countdown reaches zero.
func (h *SessionHandler) Tick(c *gin.Context) {
	claims := middleware.GetClaims(c)

	state, err := h.sessionService.Tick(c.Request.Context(), claims.UserID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// Pause godoc
// POST /api/v1/session/pause
func (h *SessionHandler) Pause(c *gin.Context) {
	claims := middleware.GetClaims(c)

	state, err := h.sessionService.Pause(c.Request.Context(), claims.UserID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// Resume godoc
// POST /api/v1/session/resume
func (h *SessionHandler) Resume(c *gin.Context) {
	claims := middleware.GetClaims(c)

	state, err := h.sessionService.Resume(c.Request.Context(), claims.UserID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// Submit godoc
// POST /api/v1/session/submit
// Scores the attempt and records the result into the user's progress ledger.
// The response carries the graded result plus XP, streak, and any newly
// unlocked achievements.
func (h *SessionHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)

	result, err := h.sessionService.Submit(c.Request.Context(), claims.UserID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	outcome, err := h.progressService.RecordExamResult(c.Request.Context(), claims.UserID, result)
	if err != nil {
		// The attempt is already scored; losing the ledger write is worth a
		// 500 so the client can retry against its local copy.
		h.log.Error().Err(err).Int("user_id", claims.UserID).Msg("failed to record exam result")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result":  result,
		"outcome": outcome,
	})
}

// Reset godoc
// POST /api/v1/session/reset
// Discards the attempt and its snapshot.
func (h *SessionHandler) Reset(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if err := h.sessionService.Reset(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// State godoc
// GET /api/v1/session
// Returns the current attempt view, restoring from the snapshot if the
// server restarted since the last mutation.
func (h *SessionHandler) State(c *gin.Context) {
	claims := middleware.GetClaims(c)

	state, err := h.sessionService.State(c.Request.Context(), claims.UserID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": state})
}

func (h *SessionHandler) failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveExam):
		response.Fail(c, http.StatusConflict, response.ErrNoActiveExam)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrBadAnswerShape):
		response.Fail(c, http.StatusBadRequest, response.ErrBadAnswerShape)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
