// Package overlay maintains the set of hexagonal grid cells needed to
// represent a moving map viewport at an appropriate level of detail, and
// keeps sparse caches of per-cell boundary geometry and per-cell status
// synchronized with that set. It decides which cells exist, at what
// resolution, and how the visible set changes from frame to frame;
// rendering, input handling and network sync live elsewhere.
package overlay

import "github.com/gravitas-games/hexfield/pkg/models"

// CellIndex is the geospatial index the overlay is built on. It is
// consumed as a black box: the production implementation wraps the H3
// library (internal/hexgrid), tests substitute a synthetic grid.
type CellIndex interface {
	// PolygonToCells returns all cells of the given resolution that
	// intersect the closed ring. May fail for distortion-heavy regions
	// even when the ring itself is valid.
	PolygonToCells(ring []models.LatLng, resolution int) ([]models.CellID, error)

	// Boundary returns the vertex ring outlining a cell, closed by
	// repeating the first vertex.
	Boundary(id models.CellID) (models.Boundary, error)

	// Resolution returns the resolution the cell belongs to.
	Resolution(id models.CellID) int

	// BaseCells returns the coarsest cells of the index: the fixed set
	// covering the whole sphere (122 cells for H3). It is the guaranteed
	// fallback when polygon fills fail at every ladder resolution.
	BaseCells() ([]models.CellID, error)
}

// CellSet is an unordered set of cell ids.
type CellSet map[models.CellID]struct{}

// NewCellSet builds a set from a slice of ids.
func NewCellSet(ids []models.CellID) CellSet {
	s := make(CellSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s CellSet) Has(id models.CellID) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy of the set.
func (s CellSet) Clone() CellSet {
	out := make(CellSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
