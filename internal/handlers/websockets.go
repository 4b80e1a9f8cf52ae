package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = (pongWait * 9) / 10
	maxReadSize = 1 << 12

	defaultInterval  = 2 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000

	frameStatus = "status"
	frameError  = "error"
)

// wsFrame is one message on the status stream. Seq counts status frames
// sent on this connection, starting at 1.
type wsFrame struct {
	Type  string          `json:"type"`
	Seq   int             `json:"seq,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// The lab dashboard is served from a different origin than the daemon.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statusStream pushes cup status to one websocket client.
type statusStream struct {
	h           *Handler
	conn        *websocket.Conn
	interval    time.Duration
	changesOnly bool

	seq  int
	last []byte
}

// @Summary      Status stream
// @Description  Websocket upgrade. Sends a "status" frame right away and then every interval (default 2s, max 10s). With changes_only=true a tick whose status equals the previous frame is skipped.
// @Tags         cup
// @Param        interval      query  string  false  "Go duration, e.g. 500ms"
// @Param        interval_ms   query  int     false  "Interval in milliseconds"
// @Param        changes_only  query  bool    false  "Skip unchanged status frames"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	changesOnly, _ := strconv.ParseBool(c.Query("changes_only"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	s := &statusStream{h: h, conn: conn, interval: interval, changesOnly: changesOnly}
	s.run(c.Request.Context())
}

// parseInterval reads ?interval=2s or ?interval_ms=2000; out-of-range
// values fall back to the default.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

func (s *statusStream) run(ctx context.Context) {
	s.conn.SetReadLimit(maxReadSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	closed := s.watchClose()

	if err := s.push(ctx, true); err != nil {
		s.logInfo("ws_write_failed_initial", err)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logInfo("ws_ping_failed", err)
				return
			}
		case <-ticker.C:
			if err := s.push(ctx, false); err != nil {
				s.logInfo("ws_write_failed", err)
				return
			}
		}
	}
}

// watchClose drains client frames so control frames are processed; the
// returned channel closes when the client goes away.
func (s *statusStream) watchClose() <-chan struct{} {
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := s.conn.ReadMessage(); err != nil {
				s.logInfo("ws_read_closed", err)
				return
			}
		}
	}()
	return closed
}

// push writes the current status. A failed status read is reported to the
// client as an "error" frame and ends the stream.
func (s *statusStream) push(ctx context.Context, first bool) error {
	st, err := s.h.services.Monitoring.GetStatus(ctx)
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		if s.h.log != nil {
			s.h.log.Errorw("ws_get_status_failed", "err", err)
		}
		_ = s.conn.WriteJSON(wsFrame{Type: frameError, Error: errGetStatus})
		return err
	}

	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if s.changesOnly && !first && bytes.Equal(data, s.last) {
		return nil
	}
	s.last = data
	s.seq++
	return s.conn.WriteJSON(wsFrame{Type: frameStatus, Seq: s.seq, Data: data})
}

func (s *statusStream) logInfo(key string, err error) {
	if s.h.log != nil {
		s.h.log.Infow(key, "err", err)
	}
}
