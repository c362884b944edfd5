package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/examplay/internal/middleware"
	"github.com/stemsi/examplay/internal/service"
	ws "github.com/stemsi/examplay/internal/websocket"
)

// progressPushInterval is how often a connected client receives an unsolicited
// progress snapshot.
const progressPushInterval = 5 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles WebSocket session progress streaming.
type WSHandler struct {
	player   *service.PlayerService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(player *service.PlayerService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		player:   player,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// SessionProgressStream godoc
// WS /ws/v1/sessions/:session_id/progress
// Upgrades to WebSocket and pushes progress snapshots: periodically, and on
// explicit "progress" requests from the client.
func (h *WSHandler) SessionProgressStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sessionID := c.Param("session_id")

	// The session must be live before streaming starts.
	if _, err := h.player.Progress(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", sessionID).Logger()
	wsLog.Info().Msg("Client connected")

	// All writes happen on this goroutine; the reader only forwards actions.
	actions := make(chan ws.Action, 8)
	done := make(chan struct{})
	go h.readLoop(conn, wsLog, actions, done)

	ticker := time.NewTicker(progressPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Connection closed")
			return
		case <-ticker.C:
			if !h.pushProgress(conn, wsLog, sessionID) {
				return
			}
		case action := <-actions:
			switch action {
			case ws.ActionPing:
				if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
					return
				}
			case ws.ActionProgress:
				if !h.pushProgress(conn, wsLog, sessionID) {
					return
				}
			default:
				wsLog.Warn().Str("action", string(action)).Msg("Unknown action")
				ws.WriteError(conn, "unknown action: "+string(action))
			}
		}
	}
}

func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, actions chan<- ws.Action, done chan<- struct{}) {
	defer close(done)
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		select {
		case actions <- msg.Action:
		default:
			// Writer is saturated; drop the request rather than block the
			// read loop on a connection that is going away.
		}
	}
}

// pushProgress sends a snapshot; returns false when the connection or session
// is gone and the stream should end.
func (h *WSHandler) pushProgress(conn *websocket.Conn, wsLog zerolog.Logger, sessionID string) bool {
	prog, err := h.player.Progress(sessionID)
	if err != nil {
		ws.WriteError(conn, "session no longer active")
		return false
	}
	if err := ws.WriteTyped(conn, ws.ProgressResponse{Event: ws.EventProgress, Progress: prog}); err != nil {
		wsLog.Debug().Err(err).Msg("Progress push failed")
		return false
	}
	return true
}
