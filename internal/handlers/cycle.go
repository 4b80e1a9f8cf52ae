package handlers

import (
	"errors"
	"io"
	"net/http"

	"cup_controller/internal/models"
	"cup_controller/internal/service"

	"github.com/gin-gonic/gin"
)

const errInvalidBodyPref = "invalid body: "

// CycleStatusResponse wraps the live execution; cycleExecution is null when idle.
type CycleStatusResponse struct {
	CycleExecution *models.CycleExecution `json:"cycleExecution"`
}

// scheduler precondition and validation failures are the caller's fault
func isClientError(err error) bool {
	return errors.Is(err, service.ErrAlreadyRunning) ||
		errors.Is(err, service.ErrEmptyProgram) ||
		errors.Is(err, service.ErrInvalidProgram) ||
		errors.Is(err, service.ErrNotRunning) ||
		errors.Is(err, service.ErrAlreadyPaused) ||
		errors.Is(err, service.ErrNotPaused) ||
		errors.Is(err, service.ErrProgramMismatch)
}

func (h *Handler) respondCycleError(c *gin.Context, logKey string, err error) {
	if isClientError(err) {
		if h.log != nil {
			h.log.Infow(logKey, "err", err)
		}
		c.JSON(http.StatusBadRequest, Result{Success: false, Error: err.Error()})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, err.Error(), logKey, err)
}

// @Summary      Start a cycle program
// @Description  Missing program and step ids are generated. Returns as soon as the first step is dispatched.
// @Tags         cycle
// @Accept       json
// @Produce      json
// @Param        body  body      models.CycleProgram  true  "Cycle program"
// @Success      200   {object}  Result
// @Failure      400   {object}  Result
// @Router       /api/v1/cycle/start [post]
func (h *Handler) startCycle(c *gin.Context) {
	var program models.CycleProgram
	if err := c.ShouldBindJSON(&program); err != nil {
		c.JSON(http.StatusBadRequest, Result{Success: false, Error: errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Cycle.Start(service.NormalizeProgram(program)); err != nil {
		h.respondCycleError(c, "cycle_start_rejected", err)
		return
	}
	c.JSON(http.StatusOK, Result{Success: true})
}

// @Summary      Pause the running cycle
// @Tags         cycle
// @Produce      json
// @Success      200  {object}  Result
// @Failure      400  {object}  Result
// @Router       /api/v1/cycle/pause [post]
func (h *Handler) pauseCycle(c *gin.Context) {
	if err := h.services.Cycle.Pause(); err != nil {
		h.respondCycleError(c, "cycle_pause_rejected", err)
		return
	}
	c.JSON(http.StatusOK, Result{Success: true})
}

// @Summary      Resume the paused cycle
// @Description  The body is optional. When given it must be the program that was started (same id, step count and repeat) and replaces the retained copy.
// @Tags         cycle
// @Accept       json
// @Produce      json
// @Param        body  body      models.CycleProgram  false  "Cycle program"
// @Success      200   {object}  Result
// @Failure      400   {object}  Result
// @Router       /api/v1/cycle/resume [post]
func (h *Handler) resumeCycle(c *gin.Context) {
	var program *models.CycleProgram
	if c.Request.ContentLength != 0 {
		var p models.CycleProgram
		err := c.ShouldBindJSON(&p)
		switch {
		case errors.Is(err, io.EOF):
		case err != nil:
			c.JSON(http.StatusBadRequest, Result{Success: false, Error: errInvalidBodyPref + err.Error()})
			return
		default:
			program = &p
		}
	}
	if err := h.services.Cycle.Resume(program); err != nil {
		h.respondCycleError(c, "cycle_resume_rejected", err)
		return
	}
	c.JSON(http.StatusOK, Result{Success: true})
}

// @Summary      Stop the cycle
// @Description  Idempotent.
// @Tags         cycle
// @Produce      json
// @Success      200  {object}  Result
// @Router       /api/v1/cycle/stop [post]
func (h *Handler) stopCycle(c *gin.Context) {
	h.services.Cycle.Stop()
	c.JSON(http.StatusOK, Result{Success: true})
}

// @Summary      Cycle status
// @Tags         cycle
// @Produce      json
// @Success      200  {object}  CycleStatusResponse
// @Router       /api/v1/cycle/status [get]
func (h *Handler) cycleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, CycleStatusResponse{CycleExecution: h.services.Cycle.Status()})
}
