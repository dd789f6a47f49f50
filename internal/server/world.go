package server

import (
	"log"
	"sync"
	"time"

	"github.com/gravitas-games/hexfield/internal/config"
	"github.com/gravitas-games/hexfield/internal/metrics"
	"github.com/gravitas-games/hexfield/internal/network"
	"github.com/gravitas-games/hexfield/internal/overlay"
	"github.com/gravitas-games/hexfield/pkg/models"
)

// World holds the state shared by every connection. Geometry is per
// connection, statuses are global: one status store serves all viewports,
// so a feed update reaches every client that currently sees the cell.
type World struct {
	CreatedAt time.Time

	// Player management
	players     map[string]*models.Player // playerID -> Player
	connections map[string]*Connection    // playerID -> Connection
	mu          sync.RWMutex

	// Shared cell statuses, lazily defaulted by cell id
	statuses *overlay.StatusStore

	// Configuration
	config *config.Config

	quit chan struct{}
	wg   sync.WaitGroup
}

// WorldStatus is the health snapshot reported by the server.
type WorldStatus struct {
	Players      int   `json:"players"`
	TrackedCells int   `json:"tracked_cells"`
	Uptime       int64 `json:"uptime"` // seconds
}

// NewWorld creates the shared world state
func NewWorld(cfg *config.Config) *World {
	world := &World{
		CreatedAt:   time.Now(),
		players:     make(map[string]*models.Player),
		connections: make(map[string]*Connection),
		statuses:    overlay.NewStatusStore(models.TeamForCell),
		config:      cfg,
		quit:        make(chan struct{}),
	}

	log.Println("World state initialized")
	return world
}

// Start launches the status eviction sweeper
func (w *World) Start() {
	w.wg.Add(1)
	go w.evictionLoop()
}

// Stop stops the sweeper and waits for it
func (w *World) Stop() {
	close(w.quit)
	w.wg.Wait()
}

// evictionLoop periodically drops statuses nobody has touched for the
// configured idle window. Evicted cells fall back to their default status
// on the next lookup.
func (w *World) evictionLoop() {
	defer w.wg.Done()

	interval := time.Duration(w.config.Overlay.EvictionIntervalMins) * time.Minute
	maxIdle := time.Duration(w.config.Overlay.StatusIdleEvictionHrs) * time.Hour
	if interval <= 0 || maxIdle <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := w.statuses.EvictIdle(maxIdle); evicted > 0 {
				log.Printf("Evicted %d idle cell statuses", evicted)
				metrics.StatusEvictionsTotal.Add(float64(evicted))
			}
			metrics.StatusEntries.Set(float64(w.statuses.Len()))

		case <-w.quit:
			return
		}
	}
}

// AddConnection registers a connection and its player
func (w *World) AddConnection(c *Connection) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.players[c.player.ID] = c.player
	w.connections[c.player.ID] = c

	log.Printf("Player %s (%s) connected", c.player.Username, c.player.ID)
}

// RemoveConnection unregisters a connection. A newer connection for the
// same player is left alone.
func (w *World) RemoveConnection(c *Connection) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if current, exists := w.connections[c.player.ID]; exists && current == c {
		delete(w.connections, c.player.ID)
		delete(w.players, c.player.ID)
		log.Printf("Player %s (%s) disconnected", c.player.Username, c.player.ID)
	}
}

// GetPlayer retrieves a player by ID
func (w *World) GetPlayer(playerID string) (*models.Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	player, exists := w.players[playerID]
	return player, exists
}

// GetPlayers returns all connected players
func (w *World) GetPlayers() []*models.Player {
	w.mu.RLock()
	defer w.mu.RUnlock()

	players := make([]*models.Player, 0, len(w.players))
	for _, player := range w.players {
		players = append(players, player)
	}
	return players
}

// Connections returns a snapshot of the active connections
func (w *World) Connections() []*Connection {
	w.mu.RLock()
	defer w.mu.RUnlock()

	conns := make([]*Connection, 0, len(w.connections))
	for _, conn := range w.connections {
		conns = append(conns, conn)
	}
	return conns
}

// Statuses exposes the shared status store
func (w *World) Statuses() *overlay.StatusStore {
	return w.statuses
}

// ApplyStatusUpdate stores a batch of status changes and forwards each one
// to the clients that currently see the cell.
func (w *World) ApplyStatusUpdate(cells map[models.CellID]models.CellStatus) {
	if len(cells) == 0 {
		return
	}

	w.statuses.BulkUpdate(cells)
	metrics.StatusEntries.Set(float64(w.statuses.Len()))

	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, conn := range w.connections {
		visible := make(map[models.CellID]models.CellStatus)
		for id, status := range cells {
			if conn.Sees(id) {
				visible[id] = status
			}
		}
		if len(visible) == 0 {
			continue
		}

		conn.SendMessage(&network.ServerMessage{
			Type:    network.MsgTypeStatusUpdate,
			Payload: network.StatusUpdatePayload{Cells: visible},
		})
	}
}

// GetStatus returns the current world status
func (w *World) GetStatus() WorldStatus {
	w.mu.RLock()
	players := len(w.players)
	w.mu.RUnlock()

	return WorldStatus{
		Players:      players,
		TrackedCells: w.statuses.Len(),
		Uptime:       int64(time.Since(w.CreatedAt).Seconds()),
	}
}
