package overlay

import (
	"testing"

	"github.com/gravitas-games/hexfield/pkg/models"
)

func boundaryFor(t *testing.T, idx *fakeIndex, id models.CellID) models.Boundary {
	t.Helper()
	b, err := idx.Boundary(id)
	if err != nil {
		t.Fatalf("unexpected boundary error for %v: %v", id, err)
	}
	return b
}

func TestGeometryCacheInsertGetRemove(t *testing.T) {
	idx := newFakeIndex()
	g := NewGeometryCache()
	id := fakeCell(2, 1, 1)

	if _, ok := g.Get(id); ok {
		t.Fatalf("empty cache returned a boundary")
	}

	g.Insert(id, boundaryFor(t, idx, id))
	if !g.Has(id) {
		t.Fatalf("cache missing inserted cell")
	}
	b, ok := g.Get(id)
	if !ok || len(b) != 5 {
		t.Fatalf("expected the 5-vertex fake boundary, got %v (ok=%v)", b, ok)
	}
	if g.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", g.Len())
	}

	g.Remove(id)
	if g.Has(id) {
		t.Fatalf("cell still present after remove")
	}
}

func TestGeometryCacheApplyDelta(t *testing.T) {
	idx := newFakeIndex()
	g := NewGeometryCache()

	a, b, c := fakeCell(1, 0, 0), fakeCell(1, 0, 1), fakeCell(1, 0, 2)
	g.Insert(a, boundaryFor(t, idx, a))
	g.Insert(b, boundaryFor(t, idx, b))

	g.ApplyDelta(map[models.CellID]models.Boundary{c: boundaryFor(t, idx, c)}, []models.CellID{a})

	if g.Has(a) {
		t.Fatalf("removed cell still cached")
	}
	if !g.Has(b) || !g.Has(c) {
		t.Fatalf("expected b and c cached")
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", g.Len())
	}
}

func TestGeometryCacheFetchSkipsMissing(t *testing.T) {
	idx := newFakeIndex()
	g := NewGeometryCache()
	a, b := fakeCell(1, 1, 0), fakeCell(1, 1, 1)
	g.Insert(a, boundaryFor(t, idx, a))

	got := g.Fetch([]models.CellID{a, b})
	if len(got) != 1 {
		t.Fatalf("expected 1 boundary, got %d", len(got))
	}
	if _, ok := got[a]; !ok {
		t.Fatalf("fetch missing the cached cell")
	}
}

func TestGeometryCacheSnapshotIsolation(t *testing.T) {
	idx := newFakeIndex()
	g := NewGeometryCache()
	a := fakeCell(1, 2, 0)
	g.Insert(a, boundaryFor(t, idx, a))

	snap := g.Snapshot()
	g.Remove(a)

	if _, ok := snap[a]; !ok {
		t.Fatalf("snapshot lost an entry after cache mutation")
	}
	if g.Has(a) {
		t.Fatalf("cache kept an entry removed after the snapshot")
	}
}
