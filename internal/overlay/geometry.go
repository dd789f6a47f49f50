package overlay

import (
	"sync"

	"github.com/gravitas-games/hexfield/pkg/models"
)

// GeometryCache is the sparse store of per-cell boundary geometry for the
// currently visible set. Entries are write-once-per-presence: a cell's
// shape at a fixed resolution never changes, so entries are only ever
// inserted fresh or removed wholesale, never mutated in place. Readers
// therefore never observe a torn boundary. Safe for concurrent use by one
// writer and many readers.
type GeometryCache struct {
	mu    sync.RWMutex
	cells map[models.CellID]models.Boundary
}

// NewGeometryCache returns an empty cache.
func NewGeometryCache() *GeometryCache {
	return &GeometryCache{cells: make(map[models.CellID]models.Boundary)}
}

// Get returns the boundary for a cell, if present.
func (g *GeometryCache) Get(id models.CellID) (models.Boundary, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	b, ok := g.cells[id]
	return b, ok
}

// Has reports whether the cell is currently cached.
func (g *GeometryCache) Has(id models.CellID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.cells[id]
	return ok
}

// Insert stores a boundary for a cell.
func (g *GeometryCache) Insert(id models.CellID, b models.Boundary) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cells[id] = b
}

// Remove drops a cell's boundary.
func (g *GeometryCache) Remove(id models.CellID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.cells, id)
}

// ApplyDelta applies a whole update as one unit: readers observe either
// the cache before the delta or after it, never a half-applied state.
func (g *GeometryCache) ApplyDelta(inserts map[models.CellID]models.Boundary, removals []models.CellID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range removals {
		delete(g.cells, id)
	}
	for id, b := range inserts {
		g.cells[id] = b
	}
}

// Fetch returns the boundaries for the requested ids in one locked pass;
// ids without an entry are left out of the result.
func (g *GeometryCache) Fetch(ids []models.CellID) map[models.CellID]models.Boundary {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[models.CellID]models.Boundary, len(ids))
	for _, id := range ids {
		if b, ok := g.cells[id]; ok {
			out[id] = b
		}
	}
	return out
}

// Snapshot returns a point-in-time copy of the whole cache for consistent
// iteration by a renderer. Boundaries are shared, not copied; they are
// immutable by contract.
func (g *GeometryCache) Snapshot() map[models.CellID]models.Boundary {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[models.CellID]models.Boundary, len(g.cells))
	for id, b := range g.cells {
		out[id] = b
	}
	return out
}

// Len returns the number of cached cells.
func (g *GeometryCache) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.cells)
}
