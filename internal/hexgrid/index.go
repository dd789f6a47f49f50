// Package hexgrid adapts the H3 geospatial index to the overlay's
// CellIndex contract. It is the only package that touches H3 types;
// everything above it works with models.CellID and models.LatLng.
package hexgrid

import (
	"fmt"

	"github.com/uber/h3-go/v4"

	"github.com/gravitas-games/hexfield/pkg/models"
)

// Index is the production cell index backed by H3. It is stateless and
// safe for concurrent use.
type Index struct{}

// New returns an H3-backed index.
func New() Index { return Index{} }

// PolygonToCells returns the cells of the given resolution intersecting
// the ring. H3 can fail here even for a valid ring, typically on
// distortion-heavy regions; the resolver treats that as a ladder retry.
func (Index) PolygonToCells(ring []models.LatLng, resolution int) ([]models.CellID, error) {
	loop := make(h3.GeoLoop, len(ring))
	for i, v := range ring {
		loop[i] = h3.LatLng{Lat: v.Lat, Lng: v.Lng}
	}
	cells, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: loop}, resolution)
	if err != nil {
		return nil, fmt.Errorf("hexgrid: polygon fill at resolution %d: %w", resolution, err)
	}
	out := make([]models.CellID, len(cells))
	for i, c := range cells {
		out[i] = models.CellID(c)
	}
	return out, nil
}

// Boundary returns the cell outline closed by repeating the first vertex:
// 7 vertices for a hexagon, 6 for the pentagonal base cells.
func (Index) Boundary(id models.CellID) (models.Boundary, error) {
	verts, err := h3.Cell(id).Boundary()
	if err != nil {
		return nil, fmt.Errorf("hexgrid: boundary of cell %v: %w", id, err)
	}
	out := make(models.Boundary, 0, len(verts)+1)
	for _, v := range verts {
		out = append(out, models.LatLng{Lat: v.Lat, Lng: v.Lng})
	}
	if len(out) > 0 {
		out = append(out, out[0])
	}
	return out, nil
}

// Resolution returns the resolution encoded in the cell id.
func (Index) Resolution(id models.CellID) int {
	return h3.Cell(id).Resolution()
}

// BaseCells returns the 122 resolution-0 cells covering the whole sphere.
func (Index) BaseCells() ([]models.CellID, error) {
	cells, err := h3.Res0Cells()
	if err != nil {
		return nil, fmt.Errorf("hexgrid: base cells: %w", err)
	}
	out := make([]models.CellID, len(cells))
	for i, c := range cells {
		out[i] = models.CellID(c)
	}
	return out, nil
}
