package overlay

import (
	"sync"
	"time"

	"github.com/gravitas-games/hexfield/pkg/models"
)

// Defaulter supplies the status for a cell seen for the first time. It is
// a pluggable policy: the demo wiring uses models.TeamForCell, production
// sync replaces it without touching the store's locking.
type Defaulter func(models.CellID) models.CellStatus

// StatusStore is the sparse store of per-cell claim status. Its lifecycle
// is independent of the geometry cache: statuses are created lazily on
// first read, survive their cell scrolling off-screen, and are only
// removed by the explicit idle eviction sweep (or Remove/Clear). Safe for
// concurrent use.
type StatusStore struct {
	mu        sync.RWMutex
	cells     map[models.CellID]*statusEntry
	defaulter Defaulter
}

type statusEntry struct {
	status  models.CellStatus
	touched time.Time
}

// NewStatusStore builds a store around the given defaulting policy; nil
// defaults every unseen cell to unclaimed.
func NewStatusStore(defaulter Defaulter) *StatusStore {
	if defaulter == nil {
		defaulter = func(models.CellID) models.CellStatus { return models.StatusUnclaimed }
	}
	return &StatusStore{
		cells:     make(map[models.CellID]*statusEntry),
		defaulter: defaulter,
	}
}

// Get returns the status for a cell. It never fails: on first miss the
// defaulting policy runs once, the result is stored, and later reads see
// the stored value. Reading counts as activity for eviction purposes.
func (s *StatusStore) Get(id models.CellID) models.CellStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getLocked(id)
}

func (s *StatusStore) getLocked(id models.CellID) models.CellStatus {
	if e, ok := s.cells[id]; ok {
		e.touched = time.Now()
		return e.status
	}
	st := s.defaulter(id)
	s.cells[id] = &statusEntry{status: st, touched: time.Now()}
	return st
}

// Fetch resolves many cells in one locked pass, lazily creating entries
// exactly as Get does.
func (s *StatusStore) Fetch(ids []models.CellID) map[models.CellID]models.CellStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[models.CellID]models.CellStatus, len(ids))
	for _, id := range ids {
		out[id] = s.getLocked(id)
	}
	return out
}

// Set stores a status for a cell.
func (s *StatusStore) Set(id models.CellID, st models.CellStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cells[id] = &statusEntry{status: st, touched: time.Now()}
}

// BulkUpdate applies a batch of statuses as one logical unit; a concurrent
// reader sees either none or all of the batch. This is the insertion point
// for the server sync layer.
func (s *StatusStore) BulkUpdate(updates map[models.CellID]models.CellStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, st := range updates {
		s.cells[id] = &statusEntry{status: st, touched: now}
	}
}

// Remove drops a cell's status outright.
func (s *StatusStore) Remove(id models.CellID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cells, id)
}

// Clear drops every entry.
func (s *StatusStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cells = make(map[models.CellID]*statusEntry)
}

// Snapshot returns a point-in-time copy of all stored statuses without
// touching activity timestamps.
func (s *StatusStore) Snapshot() map[models.CellID]models.CellStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.CellID]models.CellStatus, len(s.cells))
	for id, e := range s.cells {
		out[id] = e.status
	}
	return out
}

// Len returns the number of stored statuses.
func (s *StatusStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.cells)
}

// EvictIdle removes entries that have seen no reads or writes for longer
// than maxIdle and reports how many were dropped. This is the store's only
// automatic removal path.
func (s *StatusStore) EvictIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.cells {
		if time.Since(e.touched) > maxIdle {
			delete(s.cells, id)
			evicted++
		}
	}
	return evicted
}
