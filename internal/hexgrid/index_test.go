package hexgrid_test

import (
	"testing"

	"github.com/gravitas-games/hexfield/internal/hexgrid"
	"github.com/gravitas-games/hexfield/internal/overlay"
	"github.com/gravitas-games/hexfield/pkg/models"
)

var _ overlay.CellIndex = hexgrid.New()

// A small box over San Francisco, open ring in NW NE SE SW order, the
// shape the polygon builder produces.
func sfRing() []models.LatLng {
	return []models.LatLng{
		{Lat: 37.85, Lng: -122.52},
		{Lat: 37.85, Lng: -122.35},
		{Lat: 37.70, Lng: -122.35},
		{Lat: 37.70, Lng: -122.52},
	}
}

func TestBaseCells(t *testing.T) {
	idx := hexgrid.New()

	cells, err := idx.BaseCells()
	if err != nil {
		t.Fatalf("unexpected base cells error: %v", err)
	}
	if len(cells) != 122 {
		t.Fatalf("expected the 122 base cells, got %d", len(cells))
	}

	seen := make(map[models.CellID]struct{}, len(cells))
	for _, id := range cells {
		if idx.Resolution(id) != 0 {
			t.Fatalf("base cell %v reports resolution %d", id, idx.Resolution(id))
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate base cell %v", id)
		}
		seen[id] = struct{}{}
	}
}

func TestPolygonToCells(t *testing.T) {
	idx := hexgrid.New()

	cells, err := idx.PolygonToCells(sfRing(), 7)
	if err != nil {
		t.Fatalf("unexpected fill error: %v", err)
	}
	if len(cells) == 0 {
		t.Fatalf("expected cells over the box")
	}
	for _, id := range cells {
		if idx.Resolution(id) != 7 {
			t.Fatalf("cell %v reports resolution %d, want 7", id, idx.Resolution(id))
		}
	}
}

func TestPolygonToCellsRefines(t *testing.T) {
	idx := hexgrid.New()

	coarse, err := idx.PolygonToCells(sfRing(), 6)
	if err != nil {
		t.Fatalf("unexpected fill error at res 6: %v", err)
	}
	fine, err := idx.PolygonToCells(sfRing(), 7)
	if err != nil {
		t.Fatalf("unexpected fill error at res 7: %v", err)
	}
	if len(fine) <= len(coarse) {
		t.Fatalf("res 7 yielded %d cells, res 6 yielded %d; finer must be more", len(fine), len(coarse))
	}
}

func TestBoundaryClosedRing(t *testing.T) {
	idx := hexgrid.New()

	cells, err := idx.PolygonToCells(sfRing(), 7)
	if err != nil {
		t.Fatalf("unexpected fill error: %v", err)
	}

	for _, id := range cells[:3] {
		b, err := idx.Boundary(id)
		if err != nil {
			t.Fatalf("unexpected boundary error for %v: %v", id, err)
		}
		// Hexagon: 6 vertices plus the closing repeat. Distorted cells may
		// carry a few more.
		if len(b) < 6 {
			t.Fatalf("boundary of %v has %d vertices", id, len(b))
		}
		if b[0] != b[len(b)-1] {
			t.Fatalf("boundary of %v not closed: %v vs %v", id, b[0], b[len(b)-1])
		}
		for i, v := range b {
			if !v.Valid() {
				t.Fatalf("boundary vertex %d of %v out of range: %v", i, id, v)
			}
		}
	}
}
