package overlay

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gravitas-games/hexfield/internal/metrics"
	"github.com/gravitas-games/hexfield/pkg/models"
)

// Pipeline drives the whole overlay update path: viewport in, polygon
// build, ladder resolve, differential cache update, change notification
// out. A single worker goroutine applies updates strictly in submission
// order, so a delta is never computed against a stale visible set and a
// superseded update can never land after a fresher one. Submission is
// latest-wins: when viewport events outpace the worker, intermediate
// viewports are dropped and only the most recent is processed; every
// update diffs against the last applied set regardless.
type Pipeline struct {
	selector *Selector
	builder  *PolygonBuilder
	resolver *Resolver
	updater  *Updater
	cache    *GeometryCache

	// applyMu serializes update application between the worker goroutine
	// and direct ApplyViewport callers.
	applyMu sync.Mutex

	pending chan models.Viewport
	changed chan Delta

	quit      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	stopped   atomic.Bool

	lastRes atomic.Int64
}

// NewPipeline builds a pipeline over the given index. The returned
// pipeline owns a fresh geometry cache; call Start to launch the worker,
// or drive it synchronously with ApplyViewport.
func NewPipeline(cfg Config, index CellIndex) (*Pipeline, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	selector, err := NewSelector(cfg.Table, cfg.FloorResolution, cfg.LadderDepth)
	if err != nil {
		return nil, err
	}

	cache := NewGeometryCache()
	p := &Pipeline{
		selector: selector,
		builder:  NewPolygonBuilder(cfg.PoleClampLat, cfg.PaddingFraction),
		resolver: NewResolver(index, cfg.CellBudget),
		updater:  NewUpdater(index, cache),
		cache:    cache,
		pending:  make(chan models.Viewport, 1),
		changed:  make(chan Delta, 1),
		quit:     make(chan struct{}),
	}
	p.lastRes.Store(-1)
	return p, nil
}

// Start launches the worker goroutine. Safe to call once.
func (p *Pipeline) Start() {
	p.startOnce.Do(func() {
		p.wg.Add(1)
		go p.run()
	})
}

// Stop halts the worker and waits for it to finish. Submissions after
// Stop are rejected; the caches keep their last applied state.
func (p *Pipeline) Stop() {
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		close(p.quit)
		p.wg.Wait()
	})
}

func (p *Pipeline) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.quit:
			return
		case vp := <-p.pending:
			if _, err := p.ApplyViewport(vp); err != nil {
				log.Printf("overlay: update skipped: %v", err)
			}
		}
	}
}

// Submit hands the pipeline a new viewport without blocking. When an
// earlier submission is still waiting it is replaced by this one. Returns
// false after Stop.
func (p *Pipeline) Submit(vp models.Viewport) bool {
	if p.stopped.Load() {
		return false
	}
	for {
		select {
		case p.pending <- vp:
			return true
		default:
			select {
			case <-p.pending:
				metrics.SubmitsCoalescedTotal.Inc()
			default:
			}
		}
	}
}

// ApplyViewport runs one full update synchronously and returns the delta
// it applied. On error the previous cache state is retained untouched and
// the viewport is simply skipped; both error paths are recoverable by
// waiting for the next viewport.
func (p *Pipeline) ApplyViewport(vp models.Viewport) (Delta, error) {
	p.applyMu.Lock()
	defer p.applyMu.Unlock()

	start := time.Now()
	poly, err := p.builder.Build(vp)
	if err != nil {
		metrics.UpdatesSkippedTotal.WithLabelValues("invalid_viewport").Inc()
		return Delta{}, err
	}

	ladder := p.selector.Ladder(p.selector.TargetFor(vp.Span))
	resolution, cells, err := p.resolver.Resolve(poly, ladder)
	if err != nil {
		metrics.UpdatesSkippedTotal.WithLabelValues("resolve_failed").Inc()
		return Delta{}, err
	}

	delta := p.updater.Apply(resolution, cells)
	p.lastRes.Store(int64(resolution))

	metrics.UpdatesTotal.Inc()
	metrics.UpdateDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	metrics.ResolvedCells.Observe(float64(len(cells)))
	metrics.DeltaAddedCells.Observe(float64(len(delta.Added)))
	metrics.DeltaRemovedCells.Observe(float64(len(delta.Removed)))

	if !delta.Empty() {
		p.publish(delta)
	}
	return delta, nil
}

// publish delivers a delta on the changed channel. If the consumer has
// not collected the previous delta yet, the two are merged so the
// consumer always receives the net change since its last read and a
// dropped notification can never hide a removal.
func (p *Pipeline) publish(d Delta) {
	for {
		select {
		case p.changed <- d:
			return
		default:
			select {
			case prev := <-p.changed:
				d = MergeDeltas(prev, d)
			default:
			}
		}
	}
}

// Changed returns the change notification channel. Consumers that only
// need a redraw trigger may ignore the payload and call Geometry().
func (p *Pipeline) Changed() <-chan Delta {
	return p.changed
}

// Geometry returns the cache the pipeline maintains.
func (p *Pipeline) Geometry() *GeometryCache {
	return p.cache
}

// Contains reports whether the cell is currently visible.
func (p *Pipeline) Contains(id models.CellID) bool {
	return p.cache.Has(id)
}

// Resolution returns the resolution of the last applied update, or -1
// when nothing has been applied yet.
func (p *Pipeline) Resolution() int {
	return int(p.lastRes.Load())
}
