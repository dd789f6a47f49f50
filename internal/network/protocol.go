package network

import (
	"encoding/json"

	"github.com/gravitas-games/hexfield/pkg/models"
)

// Message types - Client → Server
const (
	MsgTypeViewport = "viewport"
	MsgTypePing     = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome       = "welcome"
	MsgTypeGeometryDelta = "geometry_delta"
	MsgTypeStatusUpdate  = "status_update"
	MsgTypeError         = "error"
	MsgTypePong          = "pong"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ViewportPayload carries a viewport change from the map view. It is the
// only client message that drives the overlay pipeline.
type ViewportPayload struct {
	Center models.LatLng `json:"center"`
	Span   models.Span   `json:"span"`
}

// Viewport converts the payload into the core's viewport type.
func (p ViewportPayload) Viewport() models.Viewport {
	return models.Viewport{Center: p.Center, Span: p.Span}
}

// WelcomePayload confirms a join and tells the client its team.
type WelcomePayload struct {
	PlayerID string            `json:"player_id"`
	Username string            `json:"username"`
	Team     models.CellStatus `json:"team"`
}

// GeometryDeltaPayload carries one applied overlay delta: boundaries for
// cells that entered the viewport, ids for cells that left it, and the
// statuses of the entering cells. Unchanged cells are never re-sent.
type GeometryDeltaPayload struct {
	Resolution int                                 `json:"resolution"`
	Added      map[models.CellID]models.Boundary   `json:"added,omitempty"`
	Removed    []models.CellID                     `json:"removed,omitempty"`
	Statuses   map[models.CellID]models.CellStatus `json:"statuses,omitempty"`
}

// StatusUpdatePayload carries a batch of cell status changes. The same
// shape arrives from the sync feed and leaves toward clients, filtered to
// their visible cells.
type StatusUpdatePayload struct {
	Cells map[models.CellID]models.CellStatus `json:"cells"`
}

// ErrorPayload reports a recoverable protocol error to the client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
