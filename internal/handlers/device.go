package handlers

import (
	"net/http"

	"cup_controller/internal/models"

	"github.com/gin-gonic/gin"
)

// PollResponse reports the relay position read back from the board.
type PollResponse struct {
	Success bool            `json:"success" example:"true"`
	State   models.CupState `json:"state" example:"closed"`
	Error   string          `json:"error,omitempty"`
}

// @Summary      Poll the relay
// @Description  Reads the relay position now and stores it as the current state. History is not touched.
// @Tags         device
// @Produce      json
// @Success      200  {object}  PollResponse
// @Failure      500  {object}  PollResponse
// @Router       /api/v1/poll [get]
func (h *Handler) poll(c *gin.Context) {
	state, err := h.services.Poller.Poll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, PollResponse{Success: false, State: models.CupUnknown, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, PollResponse{Success: true, State: state})
}

// @Summary      Initialize device polling
// @Description  Polls once and starts background polling. Calling it again does not start a second poller.
// @Tags         device
// @Produce      json
// @Success      200  {object}  Result
// @Failure      500  {object}  Result
// @Router       /api/v1/init [post]
func (h *Handler) initDevice(c *gin.Context) {
	if err := h.services.Poller.Init(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, err.Error(), "device_init_failed", err)
		return
	}
	c.JSON(http.StatusOK, Result{Success: true})
}

// @Summary      Debug info
// @Tags         system
// @Produce      json
// @Success      200  {object}  service.DebugInfo
// @Router       /api/v1/debug [get]
func (h *Handler) debugInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.DebugInfo())
}

// @Summary      Clear command history
// @Tags         cup
// @Produce      json
// @Success      200  {object}  Result
// @Router       /api/v1/history [delete]
func (h *Handler) clearHistory(c *gin.Context) {
	h.services.Monitoring.ClearHistory()
	c.JSON(http.StatusOK, Result{Success: true})
}
