package handlers

import (
	"net/http"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	defaultVisitorCookie = "visitor_id"
	defaultVisitorMaxAge = 365 * 24 * time.Hour
	defaultTrackRPS      = 5
	defaultTrackBurst    = 20
)

// Options holds the HTTP-layer knobs that come from configuration.
type Options struct {
	VisitorCookie string
	VisitorMaxAge time.Duration
	SecureCookies bool
	RespectDNT    bool
	RateLimit     RateLimit
	StaticDir     string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if opts.VisitorCookie == "" {
		opts.VisitorCookie = defaultVisitorCookie
	}
	if opts.VisitorMaxAge <= 0 {
		opts.VisitorMaxAge = defaultVisitorMaxAge
	}
	if opts.RateLimit.RequestsPerSecond <= 0 {
		opts.RateLimit.RequestsPerSecond = defaultTrackRPS
	}
	if opts.RateLimit.Burst <= 0 {
		opts.RateLimit.Burst = defaultTrackBurst
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	if h.opts.StaticDir != "" {
		router.Static("/static", h.opts.StaticDir)
	}

	// Visitor-facing pages and endpoints
	h.registerSiteRoutes(router)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerSiteRoutes(r *gin.Engine) {
	site := r.Group("", h.visitorMiddleware, h.dntMiddleware)
	{
		site.GET("/", h.homePage)
		site.GET("/go/:label", h.followLink)

		prefs := site.Group("/prefs")
		{
			prefs.GET("", h.getPreferences)
			prefs.POST("/dark-mode/toggle", h.toggleDarkMode)
			prefs.POST("/ama/toggle", h.toggleAMA)
		}

		// Preference stream (HTTP upgrade), same port
		site.GET("/ws", h.wsConnect)
	}
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/track",
			newRateLimiter(h.opts.RateLimit).middleware,
			h.visitorMiddleware,
			h.dntMiddleware,
			h.track,
		)

		admin := api.Group("/admin", h.adminMiddleware)
		{
			admin.GET("/events", h.getEvents)
			admin.GET("/stats", h.getStats)
		}
	}
}

// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// logAndJSONError logs err under logKey (with optional key/values) and writes
// {"error": userMsg} with httpCode.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any, logKey string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow(logKey, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
