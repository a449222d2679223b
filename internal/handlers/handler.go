package handlers

import (
	"time"

	_ "autoprint/docs"
	"autoprint/internal/logger"
	"autoprint/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options tunes the HTTP layer.
type Options struct {
	// AuthEnabled guards /api/v1 and /ws with operator bearer tokens.
	AuthEnabled bool
	// StreamInterval is the default period of /ws state messages.
	StreamInterval time.Duration
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = defaultInterval
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

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Mirrored state stream over WebSocket on the same port
	router.GET("/ws", h.operatorMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorMiddleware)
	{
		api.GET("/state", h.getState)
		api.POST("/state/refresh", h.refreshState)
		h.registerViewRoutes(api)
		h.registerDeviceRoutes(api)
		h.registerStorageRoutes(api)
		h.registerDraftRoutes(api)
		h.registerJobRoutes(api)
	}
}

func (h *Handler) registerViewRoutes(api *gin.RouterGroup) {
	view := api.Group("/view")
	{
		view.POST("/activate", h.activateView)
		view.POST("/deactivate", h.deactivateView)
	}
}

func (h *Handler) registerDeviceRoutes(api *gin.RouterGroup) {
	device := api.Group("/device")
	{
		device.POST("/startup", h.startUp)
		device.POST("/shutdown", h.shutDown)
		device.POST("/cancel-shutdown", h.cancelShutDown)
		device.POST("/light", h.toggleLight)
	}
}

func (h *Handler) registerStorageRoutes(api *gin.RouterGroup) {
	api.GET("/folders", h.getFolders)
	api.POST("/folders/refresh", h.refreshFolders)
	api.GET("/files", h.getFiles)
}

func (h *Handler) registerDraftRoutes(api *gin.RouterGroup) {
	draft := api.Group("/draft")
	{
		draft.GET("", h.getDraft)
		// Body example: {"folder":"/cal","time_display":"2024-06-01T21:45","trigger":"finish"}
		draft.PUT("", h.updateDraft)
		// Body example: {"path":"cal/ring.gcode"}
		draft.POST("/browse", h.browseSelect)
		draft.DELETE("/folder", h.clearFolder)
	}
}

func (h *Handler) registerJobRoutes(api *gin.RouterGroup) {
	job := api.Group("/job")
	{
		job.POST("", h.submitJob)
		job.DELETE("", h.cancelJob)
		job.GET("/errors", h.getFieldErrors)
	}
}
