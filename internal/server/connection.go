package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gravitas-games/hexfield/internal/metrics"
	"github.com/gravitas-games/hexfield/internal/network"
	"github.com/gravitas-games/hexfield/internal/overlay"
	"github.com/gravitas-games/hexfield/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client. Each connection
// owns an overlay pipeline for its own viewport; statuses are shared through
// the world.
type Connection struct {
	// WebSocket connection
	ws *websocket.Conn

	// Server reference
	server *Server

	// Player information (validated before the upgrade)
	player *models.Player

	// Overlay pipeline for this client's viewport
	pipeline *overlay.Pipeline

	// Buffered channel for outbound messages
	send chan []byte

	// Closed when the connection shuts down
	done chan struct{}

	closeOnce sync.Once
}

// NewConnection creates a new connection with its own overlay pipeline.
func NewConnection(ws *websocket.Conn, server *Server, player *models.Player) (*Connection, error) {
	pipeline, err := overlay.NewPipeline(server.config.Overlay.Core(), server.index)
	if err != nil {
		return nil, err
	}

	return &Connection{
		ws:       ws,
		server:   server,
		player:   player,
		pipeline: pipeline,
		send:     make(chan []byte, 256),
		done:     make(chan struct{}),
	}, nil
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	// Set up connection parameters
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.player.Connected = true
	c.player.ConnectedAt = time.Now()
	c.server.world.AddConnection(c)
	metrics.ConnectionsActive.Inc()

	c.pipeline.Start()

	// Send welcome message
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			PlayerID: c.player.ID,
			Username: c.player.Username,
			Team:     c.player.Team,
		},
	})

	// Start delta, write and read pumps
	go c.deltaPump()
	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the server
func (c *Connection) readPump() {
	defer func() {
		c.Close()
	}()

	for {
		// Read message
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		// Parse message
		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Failed to parse client message: %v", err)
			c.SendError("invalid_message", "Failed to parse message")
			continue
		}

		// Handle message based on type
		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			// Send ping
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-c.server.ctx.Done():
			// Server shutting down
			return
		}
	}
}

// deltaPump forwards applied overlay deltas to the client. Boundaries and
// statuses are read at send time, so a cell already dropped by a newer
// update is omitted from added and its removal arrives with the next delta.
func (c *Connection) deltaPump() {
	for {
		select {
		case delta := <-c.pipeline.Changed():
			c.SendMessage(&network.ServerMessage{
				Type: network.MsgTypeGeometryDelta,
				Payload: network.GeometryDeltaPayload{
					Resolution: delta.Resolution,
					Added:      c.pipeline.Geometry().Fetch(delta.Added),
					Removed:    delta.Removed,
					Statuses:   c.server.world.Statuses().Fetch(delta.Added),
				},
			})

		case <-c.done:
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	switch msg.Type {
	case network.MsgTypeViewport:
		c.handleViewport(msg.Payload)

	case network.MsgTypePing:
		c.handlePing()

	default:
		log.Printf("Unknown message type: %s", msg.Type)
		c.SendError("unknown_message_type", "Unknown message type")
	}
}

// handleViewport handles viewport changes from the map view
func (c *Connection) handleViewport(payload json.RawMessage) {
	var viewportMsg network.ViewportPayload
	if err := json.Unmarshal(payload, &viewportMsg); err != nil {
		log.Printf("Failed to parse viewport payload: %v", err)
		c.SendError("invalid_viewport", "Invalid viewport payload")
		return
	}

	viewport := viewportMsg.Viewport()
	if err := viewport.Validate(); err != nil {
		c.SendError("invalid_viewport", err.Error())
		return
	}

	// Latest viewport wins; an update already in flight keeps the cache
	// consistent and the next one starts from it.
	c.pipeline.Submit(viewport)
}

// handlePing handles ping requests
func (c *Connection) handlePing() {
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypePong,
		Payload: map[string]interface{}{"timestamp": time.Now().Unix()},
	})
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("Send buffer full, dropping message")
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Sees reports whether this connection currently has the cell's geometry.
func (c *Connection) Sees(id models.CellID) bool {
	return c.pipeline.Contains(id)
}

// Close closes the connection
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.server.world.RemoveConnection(c)
		metrics.ConnectionsActive.Dec()

		c.pipeline.Stop()

		// Closing done stops the pumps; the send channel stays open so
		// concurrent senders never hit a closed channel.
		close(c.done)

		// Close WebSocket connection
		c.ws.Close()
	})
}
