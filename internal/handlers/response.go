package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Result is the {success, error} envelope every control endpoint returns.
type Result struct {
	Success bool   `json:"success" example:"true"`
	Error   string `json:"error,omitempty" example:"a cycle program is already running"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, Result{Success: false, Error: userMsg})
}

// requestLogger writes one debug line per request.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Debugw("http_request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
