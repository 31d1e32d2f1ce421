package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"job-finder/internal/auth"
	"job-finder/internal/service"
	"job-finder/internal/storage"
)

// Options carries the collaborators and settings of a Handler.
type Options struct {
	Jobs     service.JobService
	Users    service.UserService
	Sessions *auth.SessionManager
	Identity auth.IdentityProvider

	// Logos is optional; logo uploads answer 503 without it.
	Logos         storage.Service
	Bucket        string
	KeyPrefix     string
	LogoURLExpiry time.Duration
	MaxLogoSize   int64

	ClientURL    string
	SecureCookie bool
	Logger       *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	jobs     service.JobService
	users    service.UserService
	sessions *auth.SessionManager
	identity auth.IdentityProvider

	logos         storage.Service
	bucket        string
	keyPrefix     string
	logoURLExpiry time.Duration
	maxLogoSize   int64

	clientURL    string
	secureCookie bool
	logger       *logrus.Logger
}

func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.LogoURLExpiry <= 0 {
		opts.LogoURLExpiry = time.Hour
	}
	if opts.MaxLogoSize <= 0 {
		opts.MaxLogoSize = 2 << 20
	}
	return &Handler{
		jobs:          opts.Jobs,
		users:         opts.Users,
		sessions:      opts.Sessions,
		identity:      opts.Identity,
		logos:         opts.Logos,
		bucket:        opts.Bucket,
		keyPrefix:     opts.KeyPrefix,
		logoURLExpiry: opts.LogoURLExpiry,
		maxLogoSize:   opts.MaxLogoSize,
		clientURL:     opts.ClientURL,
		secureCookie:  opts.SecureCookie,
		logger:        opts.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger))
	router.Use(corsMiddleware(h.clientURL))
	router.Use(h.loadSession())

	router.GET("/", h.root)
	router.GET("/login", h.login)
	router.GET("/callback", h.callback)
	router.GET("/logout", h.logout)

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
		api.GET("/check-auth", h.checkAuth)
		api.GET("/user/:id", h.getUser)

		api.GET("/jobs", h.listJobs)
		api.GET("/jobs/search", h.searchJobs)
		api.GET("/jobs/user/:id", h.listJobsByUser)
		api.GET("/jobs/:id", h.getJob)

		protected := api.Group("", requireAuth())
		protected.POST("/jobs", h.createJob)
		protected.PUT("/jobs/:id/apply", h.applyJob)
		protected.PUT("/jobs/:id/like", h.likeJob)
		protected.PUT("/jobs/:id/logo", h.uploadLogo)
		protected.DELETE("/jobs/:id", h.deleteJob)
	}
}
