package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cup_controller/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLimitInvalid = "invalid 'limit'; use a non-negative integer"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	maxLogLimit = 1000
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List audit events
// @Description  Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only 'to' is end-of-day inclusive. 'limit' keeps the newest N events.
// @Tags         logs
// @Produce      json
// @Param        from   query   string  false  "Start of range"  example(2025-08-01)
// @Param        to     query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        type   query   string  false  "Event type"  Enums(COMMAND,COMMAND_FAILED,CYCLE_START,CYCLE_PAUSE,CYCLE_RESUME,CYCLE_STOP,CYCLE_COMPLETE,POLL)
// @Param        limit  query   int     false  "Newest N events (max 1000)"
// @Success      200    {object}  map[string]interface{}  "count, events"
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from      time.Time
		to        time.Time
		limit     int
		eventType = strings.ToUpper(strings.TrimSpace(c.Query("type")))
		err       error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}
	if qs := c.Query("limit"); qs != "" {
		limit, err = strconv.Atoi(qs)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return
		}
		limit = min(limit, maxLogLimit)
	}

	events, err := h.services.EventLog.List(ctx, service.LogFilter{
		From:  from,
		To:    to,
		Type:  eventType,
		Limit: limit,
	})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("logs_list_failed", "err", err, "from", from, "to", to, "type", eventType)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
