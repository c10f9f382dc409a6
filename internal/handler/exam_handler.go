package handler

import (
	"net/http"

	"github.com/certifyai/certify-backend/internal/response"
	"github.com/certifyai/certify-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ExamHandler serves the exam catalog.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// List godoc
// GET /api/v1/exams
// Returns summaries of every exam in the catalog.
func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.examService.ListExams(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// Get godoc
// GET /api/v1/exams/:id
// Returns the sanitized payload for one exam. Correct answers and
// explanations are never included.
func (h *ExamHandler) Get(c *gin.Context) {
	examID := c.Param("id")
	if examID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	payload, err := h.examService.GetExamPayload(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": payload})
}
