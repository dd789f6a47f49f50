package overlay

import (
	"testing"

	"github.com/gravitas-games/hexfield/pkg/models"
)

// fakeIndex is a synthetic planar grid standing in for the real index.
// Resolution r splits the globe into (2<<r) lat rows by (4<<r) lng
// columns, so every refinement step roughly quadruples the cell count the
// way a real hierarchical grid does. Ids encode (resolution, row, column)
// so boundaries can be derived from the id alone.
type fakeIndex struct {
	fillErr     map[int]error
	boundaryErr map[models.CellID]error
	baseErr     error

	fillCalls     int
	boundaryCalls int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		fillErr:     make(map[int]error),
		boundaryErr: make(map[models.CellID]error),
	}
}

func fakeCell(res, row, col int) models.CellID {
	return models.CellID(uint64(res)<<32 | uint64(row)<<16 | uint64(col))
}

func fakeCellDims(res int) (rows, cols int, height, width float64) {
	rows = 2 << res
	cols = 4 << res
	height = 180.0 / float64(rows)
	width = 360.0 / float64(cols)
	return
}

func (f *fakeIndex) PolygonToCells(ring []models.LatLng, resolution int) ([]models.CellID, error) {
	f.fillCalls++
	if err := f.fillErr[resolution]; err != nil {
		return nil, err
	}

	north, south := ring[0].Lat, ring[0].Lat
	east, west := ring[0].Lng, ring[0].Lng
	for _, v := range ring {
		if v.Lat > north {
			north = v.Lat
		}
		if v.Lat < south {
			south = v.Lat
		}
		if v.Lng > east {
			east = v.Lng
		}
		if v.Lng < west {
			west = v.Lng
		}
	}

	rows, cols, height, width := fakeCellDims(resolution)
	rowAt := func(lat float64) int {
		r := int((lat + 90) / height)
		if r < 0 {
			r = 0
		}
		if r >= rows {
			r = rows - 1
		}
		return r
	}
	colAt := func(lng float64) int {
		c := int((lng + 180) / width)
		if c < 0 {
			c = 0
		}
		if c >= cols {
			c = cols - 1
		}
		return c
	}

	var cells []models.CellID
	for row := rowAt(south); row <= rowAt(north); row++ {
		for col := colAt(west); col <= colAt(east); col++ {
			cells = append(cells, fakeCell(resolution, row, col))
		}
	}
	return cells, nil
}

func (f *fakeIndex) Boundary(id models.CellID) (models.Boundary, error) {
	f.boundaryCalls++
	if err := f.boundaryErr[id]; err != nil {
		return nil, err
	}

	res := int(uint64(id) >> 32)
	row := int(uint64(id) >> 16 & 0xffff)
	col := int(uint64(id) & 0xffff)
	_, _, height, width := fakeCellDims(res)

	south := -90 + float64(row)*height
	west := -180 + float64(col)*width
	return models.Boundary{
		{Lat: south + height, Lng: west},
		{Lat: south + height, Lng: west + width},
		{Lat: south, Lng: west + width},
		{Lat: south, Lng: west},
		{Lat: south + height, Lng: west},
	}, nil
}

func (f *fakeIndex) Resolution(id models.CellID) int {
	return int(uint64(id) >> 32)
}

func (f *fakeIndex) BaseCells() ([]models.CellID, error) {
	if f.baseErr != nil {
		return nil, f.baseErr
	}
	rows, cols, _, _ := fakeCellDims(0)
	cells := make([]models.CellID, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cells = append(cells, fakeCell(0, row, col))
		}
	}
	return cells, nil
}

// worldPolygon covers everything the fake grid knows about.
func worldPolygon() Polygon {
	return Polygon{
		{Lat: 85, Lng: -180},
		{Lat: 85, Lng: 180},
		{Lat: -85, Lng: 180},
		{Lat: -85, Lng: -180},
	}
}

func TestNewCellSetDeduplicates(t *testing.T) {
	s := NewCellSet([]models.CellID{1, 2, 2, 3, 1})
	if len(s) != 3 {
		t.Fatalf("expected 3 distinct cells, got %d", len(s))
	}
	for _, id := range []models.CellID{1, 2, 3} {
		if !s.Has(id) {
			t.Fatalf("expected set to contain %v", id)
		}
	}
	if s.Has(4) {
		t.Fatalf("set should not contain 4")
	}
}

func TestCellSetCloneIsIndependent(t *testing.T) {
	s := NewCellSet([]models.CellID{1, 2})
	c := s.Clone()
	delete(c, 1)
	c[3] = struct{}{}

	if !s.Has(1) {
		t.Fatalf("mutating the clone must not touch the original")
	}
	if s.Has(3) {
		t.Fatalf("insert into clone leaked into the original")
	}
}

func TestFakeIndexRefinement(t *testing.T) {
	idx := newFakeIndex()

	prev := 0
	for res := 0; res <= 3; res++ {
		cells, err := idx.PolygonToCells(worldPolygon(), res)
		if err != nil {
			t.Fatalf("unexpected fill error at res %d: %v", res, err)
		}
		if len(cells) <= prev {
			t.Fatalf("res %d produced %d cells, want more than %d", res, len(cells), prev)
		}
		for _, id := range cells {
			if idx.Resolution(id) != res {
				t.Fatalf("cell %v reports resolution %d, want %d", id, idx.Resolution(id), res)
			}
		}
		prev = len(cells)
	}
}
