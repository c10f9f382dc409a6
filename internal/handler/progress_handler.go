package handler

import (
	"net/http"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/certifyai/certify-backend/internal/middleware"
	"github.com/certifyai/certify-backend/internal/repository"
	"github.com/certifyai/certify-backend/internal/response"
	"github.com/certifyai/certify-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ProgressHandler exposes the XP ledger, levels, achievements, and the
// leaderboard.
type ProgressHandler struct {
	progressService *service.ProgressService
	leaderboardRepo *repository.LeaderboardRepository
	cfg             *config.Config
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(
	progressService *service.ProgressService,
	leaderboardRepo *repository.LeaderboardRepository,
	cfg *config.Config,
) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		leaderboardRepo: leaderboardRepo,
		cfg:             cfg,
	}
}

// Get godoc
// GET /api/v1/progress
// Returns the full ledger for the authenticated user. A user who has never
// finished an exam gets zeroed defaults, not a 404.
func (h *ProgressHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)

	ledger, err := h.progressService.GetProgress(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": ledger})
}

// Level godoc
// GET /api/v1/progress/level
// Returns the current level and XP position within it.
func (h *ProgressHandler) Level(c *gin.Context) {
	claims := middleware.GetClaims(c)

	level, err := h.progressService.GetLevel(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"level": level})
}

// Achievements godoc
// GET /api/v1/progress/achievements
// Returns the full catalog annotated with the user's unlock state.
func (h *ProgressHandler) Achievements(c *gin.Context) {
	claims := middleware.GetClaims(c)

	achievements, err := h.progressService.GetAchievements(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"achievements": achievements})
}

// Leaderboard godoc
// GET /api/v1/leaderboard
// Returns the top users by total XP. Rows are written asynchronously by the
// persistence worker, so very recent submissions may lag a few seconds.
func (h *ProgressHandler) Leaderboard(c *gin.Context) {
	entries, err := h.leaderboardRepo.Top(c.Request.Context(), h.cfg.LeaderboardSize)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}
