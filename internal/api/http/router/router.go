package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/zyneth-auth/internal/api/http/handler"
	"github.com/dtroode/zyneth-auth/internal/api/http/middleware"
	"github.com/dtroode/zyneth-auth/internal/logger"
	"github.com/dtroode/zyneth-auth/internal/model"
)

// Readiness reports whether the service can handle traffic.
type Readiness interface {
	Ready() bool
}

// Router wires HTTP handlers and middleware.
type Router struct {
	authService    handler.AuthService
	userService    handler.UserService
	sessions       middleware.SessionParser
	contextManager model.ContextManager
	readiness      Readiness
	report         handler.ConfigReport
	logger         *logger.Logger
}

func New(
	authService handler.AuthService,
	userService handler.UserService,
	sessions middleware.SessionParser,
	contextManager model.ContextManager,
	readiness Readiness,
	report handler.ConfigReport,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		userService:    userService,
		sessions:       sessions,
		contextManager: contextManager,
		readiness:      readiness,
		report:         report,
		logger:         logger,
	}
}

// Register builds the gin engine with all routes.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.sessions, r.contextManager, r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.Handle)

	engine.GET("/healthz", r.healthz)

	r.registerAuthRoutes(engine)

	users := engine.Group("/users", authenticate.Handle)
	userHandler := handler.NewUser(r.userService, r.contextManager, r.logger)
	users.GET("/me", userHandler.Me)

	return engine
}

func (r *Router) registerAuthRoutes(engine *gin.Engine) {
	authHandler := handler.NewAuth(r.authService, r.report, r.logger)

	auth := engine.Group("/auth")
	auth.GET("/google/url", authHandler.GoogleURL)
	auth.POST("/google/exchange", authHandler.GoogleExchange)
	auth.GET("/test-config", authHandler.TestConfig)
	auth.POST("/logout", authHandler.Logout)
}

func (r *Router) healthz(c *gin.Context) {
	if !r.readiness.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
