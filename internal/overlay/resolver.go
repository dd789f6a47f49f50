package overlay

import (
	"fmt"
	"log"

	"github.com/gravitas-games/hexfield/internal/metrics"
)

// Resolver turns a polygon into a (resolution, cell set) pair by driving
// the geospatial index down the resolution ladder. It never hands back an
// over-budget set, and for any valid polygon it produces some result: if
// every ladder entry fails it falls back to the index's base cells, which
// cover the whole sphere and fit any reasonable budget by construction.
type Resolver struct {
	index  CellIndex
	budget int
}

// NewResolver builds a resolver with the given cell budget.
func NewResolver(index CellIndex, budget int) *Resolver {
	return &Resolver{index: index, budget: budget}
}

// Resolve tries each ladder resolution in order, skipping entries where
// the index errors or the result exceeds the budget, then falls back to
// the base cells. ErrResolutionExhausted is returned only when the
// base-cell query itself fails or its result exceeds the budget.
func (r *Resolver) Resolve(poly Polygon, ladder []int) (int, CellSet, error) {
	for _, res := range ladder {
		cells, err := r.index.PolygonToCells(poly, res)
		if err != nil {
			log.Printf("overlay: polygon fill at resolution %d failed: %v", res, err)
			metrics.ResolveRetriesTotal.Inc()
			continue
		}
		if len(cells) > r.budget {
			metrics.ResolveRetriesTotal.Inc()
			continue
		}
		return res, NewCellSet(cells), nil
	}

	base, err := r.index.BaseCells()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: base cells unavailable: %v", ErrResolutionExhausted, err)
	}
	if len(base) > r.budget {
		return 0, nil, fmt.Errorf("%w: %d base cells exceed budget %d", ErrResolutionExhausted, len(base), r.budget)
	}
	metrics.ResolveFloorTotal.Inc()
	return 0, NewCellSet(base), nil
}

// Budget returns the configured cell budget.
func (r *Resolver) Budget() int { return r.budget }
