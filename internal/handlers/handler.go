package handlers

import (
	"context"

	"cup_controller/internal/logger"
	"cup_controller/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthChecker is an optional side-channel sink reported by /health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	checks   map[string]HealthChecker
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log, checks: map[string]HealthChecker{}}
}

// AddHealthCheck reports c under name in /health. Call before InitRoutes.
func (h *Handler) AddHealthCheck(name string, c HealthChecker) {
	h.checks[name] = c
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// status stream on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerCupRoutes(api)
		h.registerCycleRoutes(api)
		h.registerDeviceRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerCupRoutes(api *gin.RouterGroup) {
	cup := api.Group("/cup")
	{
		cup.POST("/open", h.openCup)
		cup.POST("/close", h.closeCup)
		cup.GET("/status", h.cupStatus)
	}
}

func (h *Handler) registerCycleRoutes(api *gin.RouterGroup) {
	cycle := api.Group("/cycle")
	{
		// Body: {"id":"p1","name":"Bake","steps":[{"id":"s1","state":"open","durationMinutes":5}],"repeat":3}
		cycle.POST("/start", h.startCycle)
		cycle.POST("/pause", h.pauseCycle)
		cycle.POST("/resume", h.resumeCycle)
		cycle.POST("/stop", h.stopCycle)
		cycle.GET("/status", h.cycleStatus)
	}
}

func (h *Handler) registerDeviceRoutes(api *gin.RouterGroup) {
	api.GET("/poll", h.poll)
	api.POST("/init", h.initDevice)
	api.GET("/debug", h.debugInfo)
	api.DELETE("/history", h.clearHistory)
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.getLogs)
}
