package overlay

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gravitas-games/hexfield/pkg/models"
)

func testConfig() Config {
	return Config{
		Table: []SpanThreshold{
			{MaxSpan: 10, Resolution: 2},
			{MaxSpan: 100, Resolution: 1},
			{MaxSpan: 360, Resolution: 1},
		},
	}
}

func newTestPipeline(t *testing.T, idx CellIndex) *Pipeline {
	t.Helper()
	p, err := NewPipeline(testConfig(), idx)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}
	return p
}

func takeDelta(t *testing.T, p *Pipeline) Delta {
	t.Helper()
	select {
	case d := <-p.Changed():
		return d
	case <-time.After(2 * time.Second):
		t.Fatalf("no delta published within 2s")
		return Delta{}
	}
}

func TestPipelineApplyViewport(t *testing.T) {
	p := newTestPipeline(t, newFakeIndex())

	if p.Resolution() != -1 {
		t.Fatalf("fresh pipeline reports resolution %d, want -1", p.Resolution())
	}

	delta, err := p.ApplyViewport(viewport(0, 0, 8, 8))
	if err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if delta.Resolution != 2 {
		t.Fatalf("resolved at %d, want 2", delta.Resolution)
	}
	if len(delta.Added) == 0 || len(delta.Removed) != 0 {
		t.Fatalf("first delta +%d/-%d, want additions only", len(delta.Added), len(delta.Removed))
	}
	if p.Geometry().Len() != len(delta.Added) {
		t.Fatalf("cache %d cells, delta added %d", p.Geometry().Len(), len(delta.Added))
	}
	if p.Resolution() != 2 {
		t.Fatalf("pipeline resolution %d, want 2", p.Resolution())
	}
	for _, id := range delta.Added {
		if !p.Contains(id) {
			t.Fatalf("added cell %v not visible", id)
		}
	}

	published := takeDelta(t, p)
	assertCells(t, "published added", published.Added, delta.Added)
}

func TestPipelineZoomOutSwitchesResolution(t *testing.T) {
	p := newTestPipeline(t, newFakeIndex())

	first, err := p.ApplyViewport(viewport(0, 0, 8, 8))
	if err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	second, err := p.ApplyViewport(viewport(0, 0, 80, 80))
	if err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}

	if second.Resolution != 1 {
		t.Fatalf("zoomed-out delta at resolution %d, want 1", second.Resolution)
	}
	assertCells(t, "removed on switch", second.Removed, first.Added)
	if p.Geometry().Len() != len(second.Added) {
		t.Fatalf("cache %d cells after switch, want %d", p.Geometry().Len(), len(second.Added))
	}
}

func TestPipelineInvalidViewportKeepsState(t *testing.T) {
	p := newTestPipeline(t, newFakeIndex())

	if _, err := p.ApplyViewport(viewport(0, 0, 8, 8)); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	before := p.Geometry().Len()

	_, err := p.ApplyViewport(viewport(0, 0, -1, 8))
	if !errors.Is(err, ErrInvalidViewport) {
		t.Fatalf("expected ErrInvalidViewport, got %v", err)
	}
	if p.Geometry().Len() != before {
		t.Fatalf("cache changed on a skipped update: %d -> %d", before, p.Geometry().Len())
	}
	if p.Resolution() != 2 {
		t.Fatalf("resolution changed on a skipped update: %d", p.Resolution())
	}
}

func TestPipelineResolveFailureKeepsState(t *testing.T) {
	idx := newFakeIndex()
	p := newTestPipeline(t, idx)

	if _, err := p.ApplyViewport(viewport(0, 0, 8, 8)); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	before := p.Geometry().Snapshot()

	idx.fillErr[2] = fmt.Errorf("fill down")
	idx.fillErr[1] = fmt.Errorf("fill down")
	idx.baseErr = fmt.Errorf("index down")

	_, err := p.ApplyViewport(viewport(0, 0, 9, 9))
	if !errors.Is(err, ErrResolutionExhausted) {
		t.Fatalf("expected ErrResolutionExhausted, got %v", err)
	}

	after := p.Geometry().Snapshot()
	if len(after) != len(before) {
		t.Fatalf("cache changed on a failed resolve: %d -> %d", len(before), len(after))
	}
}

// When the consumer is slow, published deltas merge instead of queueing or
// vanishing: one read always yields the net change since the last read.
func TestPipelineChangedMerges(t *testing.T) {
	p := newTestPipeline(t, newFakeIndex())

	if _, err := p.ApplyViewport(viewport(0, 0, 8, 8)); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if _, err := p.ApplyViewport(viewport(0, 0, 80, 80)); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}

	merged := takeDelta(t, p)

	// Net of the two updates from an empty start: exactly the current
	// cache contents added, nothing removed.
	if len(merged.Removed) != 0 {
		t.Fatalf("merged delta removes %v; those cells were never delivered", merged.Removed)
	}
	snap := p.Geometry().Snapshot()
	if len(merged.Added) != len(snap) {
		t.Fatalf("merged delta adds %d cells, cache holds %d", len(merged.Added), len(snap))
	}
	for _, id := range merged.Added {
		if _, ok := snap[id]; !ok {
			t.Fatalf("merged delta added %v which is not cached", id)
		}
	}
}

func TestPipelineWorkerAppliesLatest(t *testing.T) {
	p := newTestPipeline(t, newFakeIndex())
	p.Start()
	defer p.Stop()

	if !p.Submit(viewport(0, 0, 8, 8)) {
		t.Fatalf("submit rejected on a running pipeline")
	}
	if !p.Submit(viewport(0, 0, 80, 80)) {
		t.Fatalf("second submit rejected")
	}

	deadline := time.Now().Add(2 * time.Second)
	for p.Resolution() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("worker never applied the latest viewport; resolution %d", p.Resolution())
		}
		time.Sleep(5 * time.Millisecond)
	}
	snap := p.Geometry().Snapshot()

	// Consume like a client would, folding deltas together. Whatever got
	// coalesced along the way, the accumulated net change must converge on
	// the final cache contents.
	net := Delta{}
	for !netMatches(net, snap) {
		if time.Now().After(deadline) {
			t.Fatalf("net delta +%d/-%d never converged on the %d cached cells",
				len(net.Added), len(net.Removed), len(snap))
		}
		select {
		case d := <-p.Changed():
			net = MergeDeltas(net, d)
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func netMatches(net Delta, snap map[models.CellID]models.Boundary) bool {
	if len(net.Removed) != 0 || len(net.Added) != len(snap) {
		return false
	}
	for _, id := range net.Added {
		if _, ok := snap[id]; !ok {
			return false
		}
	}
	return true
}

func TestPipelineStop(t *testing.T) {
	p := newTestPipeline(t, newFakeIndex())
	p.Start()

	p.Stop()
	p.Stop() // idempotent

	if p.Submit(viewport(0, 0, 8, 8)) {
		t.Fatalf("submit accepted after stop")
	}
}
