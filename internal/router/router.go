package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mkkmani/musicbackend/internal/config"
	"github.com/mkkmani/musicbackend/internal/handler"
	"github.com/mkkmani/musicbackend/internal/metrics"
	"github.com/mkkmani/musicbackend/internal/middleware"
	"github.com/mkkmani/musicbackend/internal/response"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	StudentMgmt *handler.StudentManagementHandler
	AdminUser   *handler.AdminUserHandler
	Video       *handler.VideoHandler
	Gallery     *handler.GalleryHandler
}

// SetupRouter configures all Gin routes with appropriate middlewares.
// m may be nil, in which case /metrics is not mounted.
func SetupRouter(
	auth middleware.TokenVerifier,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
	m *metrics.Metrics,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so every log line and response carries it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(m.Middleware())

	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			return strings.HasPrefix(c.Request.URL.Path, "/metrics")
		},
	}))

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		router.GET("/metrics", m.Handler())
	}

	// ─── 1. Login (Public) ─────────────────────────────────────────────
	login := router.Group("/")
	login.Use(middleware.NoStore())
	{
		login.POST("/studentLogin", handlers.Auth.StudentLogin)
		login.POST("/admin-login", handlers.Auth.AdminLogin)
	}

	// ─── 2. Public Content ─────────────────────────────────────────────
	public := router.Group("/")
	public.Use(middleware.NoCache())
	{
		public.GET("/allVideos", handlers.Video.AllVideos)
		public.GET("/search", handlers.Video.Search)
		public.GET("/gallery", handlers.Gallery.ListImages)
	}

	// ─── 3. Admin Writes (Admin JWT) ───────────────────────────────────
	adminAPI := router.Group("/")
	adminAPI.Use(middleware.RequireAdminJWT(auth), middleware.NoStore())
	{
		adminAPI.POST("/addStudent", handlers.StudentMgmt.AddStudent)
		adminAPI.POST("/add-admin", handlers.AdminUser.AddAdmin)
		adminAPI.POST("/addVideo", handlers.Video.AddVideo)
		adminAPI.POST("/add-to-gallery", handlers.Gallery.AddImage)
		adminAPI.GET("/admin/me", handlers.Auth.GetAdminProfile)
	}

	// ─── 4. Student Profile (Student JWT) ──────────────────────────────
	studentAPI := router.Group("/student")
	studentAPI.Use(middleware.RequireStudentJWT(auth), middleware.NoStore())
	{
		studentAPI.GET("/me", handlers.Auth.GetStudentProfile)
	}

	return router
}
