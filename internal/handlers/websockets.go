package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"mood_journal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000

	wsTypeMoods = "moods"

	closeReasonSessionEnded = "session ended"
	closeReasonInternal     = "internal error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Same-origin only: the session cookie would otherwise be usable cross-site.
var upgrader = websocket.Upgrader{}

// moodStream pushes one user's records over a socket for as long as the
// session that opened it stays valid.
type moodStream struct {
	h     *Handler
	conn  *websocket.Conn
	token string
}

// push re-resolves the session, then writes the current records. A logged-out
// or expired session yields an error wrapping service.ErrUnauthenticated.
func (s *moodStream) push(ctx context.Context) error {
	id, err := s.h.services.Resolve(ctx, s.token)
	if err != nil {
		return err
	}
	entries, err := s.h.services.ListForUser(ctx, id)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(wsEnvelope{Type: wsTypeMoods, Data: entries})
}

// close sends a close frame explaining why the stream stopped.
func (s *moodStream) close(cause error) {
	code, reason := websocket.CloseInternalServerErr, closeReasonInternal
	if errors.Is(cause, service.ErrUnauthenticated) {
		code, reason = websocket.ClosePolicyViolation, closeReasonSessionEnded
	}
	msg := websocket.FormatCloseMessage(code, reason)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// @Summary      Mood stream
// @Description  WebSocket that pushes the current user's mood records on connect and every interval (?interval=2s or ?interval_ms=2000, max 10s). Closes with 1008 once the session ends.
// @Tags         mood
// @Router       /ws/mood [get]
// @Security     SessionCookie
func (h *Handler) wsMoods(c *gin.Context) {
	id, ok := identityFrom(c)
	token, _ := h.sessionToken(c)
	if !ok || token == "" {
		abortWithError(c, http.StatusUnauthorized, codeUnauthenticated, msgMissingSession)
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	stream := &moodStream{h: h, conn: conn, token: token}
	ctx := c.Request.Context()

	stop := func(err error) {
		h.log.Infow("ws_mood_stream_closed", "username", id.Username, "err", err)
		stream.close(err)
	}

	if err := stream.push(ctx); err != nil {
		stop(err)
		return
	}

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "username", id.Username, "err", err)
				return
			}
		case <-ticker.C:
			if err := stream.push(ctx); err != nil {
				stop(err)
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
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

// startReader drains incoming frames so control messages are processed and
// a client disconnect is noticed.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
