package websocket

import "github.com/stemsi/examplay/internal/session"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionProgress Action = "progress"
	ActionPing     Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventProgress Event = "progress"
	EventPong     Event = "pong"
	EventError    Event = "error"
)

// ProgressResponse pushes a session's progress snapshot.
type ProgressResponse struct {
	Event    Event            `json:"event"`
	Progress session.Progress `json:"progress"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
