package handlers

import (
	"time"

	"mood_journal/internal/logger"
	"mood_journal/internal/service"

	"github.com/gin-gonic/gin"

	_ "mood_journal/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// CookieOptions controls the session cookie issued on login.
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

const defaultCookieName = "session"

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cookie   CookieOptions
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cookie CookieOptions) *Handler {
	if cookie.Name == "" {
		cookie.Name = defaultCookieName
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log, cookie: cookie}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", h.index)
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerMoodRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.POST("/user", h.register)
	r.POST("/login", h.login)
	r.GET("/logout", h.sessionMiddleware, h.logout)
}

func (h *Handler) registerMoodRoutes(r *gin.Engine) {
	mood := r.Group("/", h.sessionMiddleware)
	{
		mood.GET("/mood", h.getMoods)
		mood.POST("/mood", h.addMood)
		mood.GET("/ws/mood", h.wsMoods)
	}
}
