package overlay

import (
	"fmt"

	"github.com/gravitas-games/hexfield/pkg/models"
)

// Selector maps viewport spans to a target grid resolution and produces
// the ladder of resolutions the resolver will attempt. The mapping is a
// monotonically non-increasing step function: a larger span never selects
// a finer resolution.
type Selector struct {
	table []SpanThreshold
	floor int
	depth int
}

// NewSelector validates the threshold table and builds a selector. The
// table must be ordered by ascending MaxSpan with non-increasing
// resolutions.
func NewSelector(table []SpanThreshold, floor, depth int) (*Selector, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("overlay: resolution table is empty")
	}
	for i, th := range table {
		if th.MaxSpan <= 0 {
			return nil, fmt.Errorf("overlay: resolution table entry %d has non-positive span %v", i, th.MaxSpan)
		}
		if th.Resolution < 0 || th.Resolution > 15 {
			return nil, fmt.Errorf("overlay: resolution table entry %d has resolution %d out of range", i, th.Resolution)
		}
		if i == 0 {
			continue
		}
		if th.MaxSpan <= table[i-1].MaxSpan {
			return nil, fmt.Errorf("overlay: resolution table spans not ascending at entry %d", i)
		}
		if th.Resolution > table[i-1].Resolution {
			return nil, fmt.Errorf("overlay: resolution table not monotonic at entry %d", i)
		}
	}
	return &Selector{table: table, floor: floor, depth: depth}, nil
}

// TargetFor returns the target resolution for a viewport span. The larger
// of the two deltas governs, so a stretched viewport never overshoots the
// budget along its long axis. Spans beyond the last table entry map to the
// floor resolution.
func (s *Selector) TargetFor(span models.Span) int {
	max := span.Max()
	for _, th := range s.table {
		if max <= th.MaxSpan {
			return th.Resolution
		}
	}
	return s.floor
}

// Ladder returns the resolutions to attempt, finest first: the target plus
// up to depth coarser steps, clipped at the floor. Cell counts for a fixed
// resolution vary with polygon shape and latitude, so the ladder is a
// safety buffer rather than a correctness requirement. Never empty.
func (s *Selector) Ladder(target int) []int {
	if target < s.floor {
		target = s.floor
	}
	ladder := make([]int, 0, s.depth+1)
	for r := target; r >= s.floor && len(ladder) <= s.depth; r-- {
		ladder = append(ladder, r)
	}
	return ladder
}
