package router

import (
	"net/http"
	"time"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/certifyai/certify-backend/internal/handler"
	"github.com/certifyai/certify-backend/internal/middleware"
	"github.com/certifyai/certify-backend/internal/response"
	"github.com/certifyai/certify-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Exam     *handler.ExamHandler
	Session  *handler.SessionHandler
	Progress *handler.ProgressHandler
	Chat     *handler.ChatHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// The assistant proxies a paid upstream; keep the ceiling low.
	chatLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
	}

	// ─── 2. Catalog Group (JWT) ────────────────────────────────────────
	exams := router.Group("/api/v1/exams")
	exams.Use(middleware.RequireAuth(authService))
	{
		exams.GET("", handlers.Exam.List)
		exams.GET("/:id", handlers.Exam.Get)
	}

	// ─── 3. Session Group (JWT) ────────────────────────────────────────
	session := router.Group("/api/v1/session")
	session.Use(middleware.RequireAuth(authService))
	{
		session.GET("", handlers.Session.State)
		session.GET("/state", handlers.Session.State)
		session.POST("/start", handlers.Session.Start)
		session.POST("/answer", handlers.Session.Answer)
		session.POST("/clear-answer", handlers.Session.ClearAnswer)
		session.POST("/mark", handlers.Session.ToggleMark)
		session.POST("/navigate", handlers.Session.Navigate)
		session.POST("/tick", handlers.Session.Tick)
		session.POST("/pause", handlers.Session.Pause)
		session.POST("/resume", handlers.Session.Resume)
		session.POST("/submit", handlers.Session.Submit)
		session.POST("/reset", handlers.Session.Reset)
	}

	// ─── 4. Progress Group (JWT) ───────────────────────────────────────
	progress := router.Group("/api/v1/progress")
	progress.Use(middleware.RequireAuth(authService))
	{
		progress.GET("", handlers.Progress.Get)
		progress.GET("/level", handlers.Progress.Level)
		progress.GET("/achievements", handlers.Progress.Achievements)
	}

	router.GET("/api/v1/leaderboard",
		middleware.RequireAuth(authService),
		handlers.Progress.Leaderboard,
	)

	// ─── 5. Chat (JWT, Rate Limited, Streaming) ────────────────────────
	router.POST("/api/v1/chat",
		middleware.RequireAuth(authService),
		chatLimiter.Middleware(),
		handlers.Chat.Chat,
	)

	return router
}
