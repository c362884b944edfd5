package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/examplay/internal/config"
	"github.com/stemsi/examplay/internal/handler"
	"github.com/stemsi/examplay/internal/middleware"
	"github.com/stemsi/examplay/internal/response"
	"github.com/stemsi/examplay/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Exam    *handler.ExamHandler
	Session *handler.SessionHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	tokenService *service.TokenService,
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

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Exam Group (Public) ────────────────────────────────────────
	examAPI := router.Group("/api/v1/exams")
	{
		examAPI.POST("", handlers.Exam.UploadExam)
		examAPI.GET("/:exam_id", handlers.Exam.GetExam)
		examAPI.GET("/:exam_id/questions", handlers.Exam.GetExamQuestions)

		// Starting a session is what mints the session token.
		examAPI.POST("/:exam_id/sessions", handlers.Session.StartSession)
	}

	// ─── 2. Session Group ──────────────────────────────────────────────
	sessionAPI := router.Group("/api/v1/sessions")
	{
		// Listing and resuming need no token: resume re-issues one after the
		// caller proves they have the session id and the matching exam.
		sessionAPI.GET("", handlers.Session.ListSessions)
		sessionAPI.POST("/:session_id/resume", handlers.Session.ResumeSession)

		// Everything touching a session's content requires its token.
		authed := sessionAPI.Group("/:session_id")
		authed.Use(middleware.RequireSessionToken(tokenService))
		{
			authed.GET("/questions/:question_id", handlers.Session.GetQuestion)
			authed.PUT("/answers", handlers.Session.SelectAnswer)
			authed.PUT("/marks", handlers.Session.MarkQuestion)
			authed.POST("/end", handlers.Session.EndSession)
			authed.GET("/progress", handlers.Session.GetProgress)
			authed.DELETE("", handlers.Session.DeleteSession)
		}
	}

	// ─── 3. WebSocket Group (WS Auth) ──────────────────────────────────
	wsGroup := router.Group("/ws/v1")
	wsGroup.Use(middleware.RequireWSAuth(tokenService))
	{
		wsGroup.GET("/sessions/:session_id/progress", handlers.WS.SessionProgressStream)
	}

	return router
}
