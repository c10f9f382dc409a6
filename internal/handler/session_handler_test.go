package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

func TestFailStartDistinguishesMissingExam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &SessionHandler{log: zerolog.Nop()}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "unknown exam id",
			err:      fmt.Errorf("get exam: %w", pgx.ErrNoRows),
			wantCode: http.StatusNotFound,
			wantBody: "EXAM_NOT_FOUND",
		},
		{
			name:     "snapshot persist failure",
			err:      errors.New("persist session: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/session/start", nil)

			h.failStart(c, tt.err)

			if w.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %q, got %s", tt.wantBody, w.Body.String())
			}
		})
	}
}
