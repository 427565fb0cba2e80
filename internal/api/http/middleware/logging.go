package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/zyneth-auth/internal/logger"
)

// Logging logs HTTP requests and their results.
type Logging struct {
	logger *logger.Logger
}

func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, duration and status for each request.
func (l *Logging) Handle(c *gin.Context) {
	start := time.Now()
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}

	c.Next()

	status := c.Writer.Status()
	l.logger.Info("HTTP request completed",
		"method", c.Request.Method,
		"path", path,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", status)

	if len(c.Errors) > 0 {
		l.logger.Error("HTTP request failed",
			"method", c.Request.Method,
			"path", path,
			"error", c.Errors.String(),
			"status", status)
	}
}
