package handlers

import (
	"context"
	"net/http"
	"time"

	"cup_controller/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"

	healthCheckTimeout = 2 * time.Second

	errGetStatus = "failed to load status"
)

// CommandResponse is returned by the open and close endpoints.
type CommandResponse struct {
	Success bool            `json:"success" example:"true"`
	State   models.CupState `json:"state,omitempty" example:"open"`
	Error   string          `json:"error,omitempty" example:"failed with status 503"`
}

// HealthResponse reports the process and each configured sink.
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// @Summary      Health check
// @Description  status is degraded when a configured sink (mqtt, influxdb) is unreachable. Commands keep working either way.
// @Tags         system
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	res := HealthResponse{Status: statusOK}
	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		res.Checks = make(map[string]string, len(h.checks))
		for name, chk := range h.checks {
			if err := chk.HealthCheck(ctx); err != nil {
				res.Checks[name] = err.Error()
				res.Status = statusDegraded
				continue
			}
			res.Checks[name] = statusOK
		}
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Open the cup
// @Tags         cup
// @Produce      json
// @Success      200  {object}  CommandResponse
// @Failure      500  {object}  CommandResponse
// @Router       /api/v1/cup/open [post]
func (h *Handler) openCup(c *gin.Context) {
	h.sendCommand(c, models.CupOpen)
}

// @Summary      Close the cup
// @Tags         cup
// @Produce      json
// @Success      200  {object}  CommandResponse
// @Failure      500  {object}  CommandResponse
// @Router       /api/v1/cup/close [post]
func (h *Handler) closeCup(c *gin.Context) {
	h.sendCommand(c, models.CupClosed)
}

func (h *Handler) sendCommand(c *gin.Context, state models.CupState) {
	res := h.services.Commander.Send(c.Request.Context(), state)
	if !res.Success {
		c.JSON(http.StatusInternalServerError, CommandResponse{Success: false, Error: res.Error})
		return
	}
	c.JSON(http.StatusOK, CommandResponse{Success: true, State: state})
}

// @Summary      Cup status
// @Description  Current and last commanded state, the running cycle (if any) and the last 10 command attempts.
// @Tags         cup
// @Produce      json
// @Success      200  {object}  service.CupStatus
// @Failure      500  {object}  Result
// @Router       /api/v1/cup/status [get]
func (h *Handler) cupStatus(c *gin.Context) {
	st, err := h.services.Monitoring.GetStatus(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "cup_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
