package overlay

import "fmt"

// Defaults for the overlay configuration. The span thresholds are tuned so
// the expected cell count at the selected resolution stays well under the
// budget, leaving ladder headroom for aspect-ratio and latitude distortion.
const (
	DefaultCellBudget      = 50000
	DefaultLadderDepth     = 3
	DefaultFloorResolution = 1
	DefaultPoleClampLat    = 85.0
	DefaultPaddingFraction = 0.15
)

// SpanThreshold maps viewport spans up to MaxSpan degrees onto a target
// resolution. Tables are ordered by ascending MaxSpan with non-increasing
// resolutions, so a larger span never selects a finer resolution.
type SpanThreshold struct {
	MaxSpan    float64
	Resolution int
}

// DefaultTable is the calibrated span threshold table. Spans larger than
// the last entry fall through to the floor resolution.
func DefaultTable() []SpanThreshold {
	return []SpanThreshold{
		{MaxSpan: 0.01, Resolution: 12},
		{MaxSpan: 0.05, Resolution: 11},
		{MaxSpan: 0.15, Resolution: 10},
		{MaxSpan: 0.4, Resolution: 9},
		{MaxSpan: 1.0, Resolution: 8},
		{MaxSpan: 2.5, Resolution: 7},
		{MaxSpan: 6.0, Resolution: 6},
		{MaxSpan: 16.0, Resolution: 5},
		{MaxSpan: 40.0, Resolution: 4},
		{MaxSpan: 90.0, Resolution: 3},
		{MaxSpan: 180.0, Resolution: 2},
	}
}

// Config carries the tuning constants of the overlay pipeline. The zero
// value of any field selects its default.
type Config struct {
	// CellBudget caps how many cells a resolved set may contain.
	CellBudget int

	// LadderDepth is how many coarser resolutions the resolver may try
	// below the target before falling back to the base cells.
	LadderDepth int

	// FloorResolution is the coarsest resolution the ladder may reach.
	FloorResolution int

	// PoleClampLat bounds polygon latitudes to ±PoleClampLat degrees; the
	// index degrades near the true poles.
	PoleClampLat float64

	// PaddingFraction insets the west and east polygon edges by this
	// fraction of the longitudinal span before indexing.
	PaddingFraction float64

	// Table is the span→resolution mapping; nil selects DefaultTable.
	Table []SpanThreshold
}

// Validate checks the config the way NewPipeline will, so callers can
// fail fast at startup instead of on the first connection.
func (c Config) Validate() error {
	c, err := c.withDefaults()
	if err != nil {
		return err
	}
	_, err = NewSelector(c.Table, c.FloorResolution, c.LadderDepth)
	return err
}

// withDefaults fills zero-valued fields and validates the result.
func (c Config) withDefaults() (Config, error) {
	if c.CellBudget == 0 {
		c.CellBudget = DefaultCellBudget
	}
	if c.LadderDepth == 0 {
		c.LadderDepth = DefaultLadderDepth
	}
	if c.FloorResolution == 0 {
		c.FloorResolution = DefaultFloorResolution
	}
	if c.PoleClampLat == 0 {
		c.PoleClampLat = DefaultPoleClampLat
	}
	if c.PaddingFraction == 0 {
		c.PaddingFraction = DefaultPaddingFraction
	}
	if c.Table == nil {
		c.Table = DefaultTable()
	}

	if c.CellBudget < 0 {
		return c, fmt.Errorf("overlay: cell budget %d must be positive", c.CellBudget)
	}
	if c.LadderDepth < 0 {
		return c, fmt.Errorf("overlay: ladder depth %d must not be negative", c.LadderDepth)
	}
	if c.FloorResolution < 0 || c.FloorResolution > 15 {
		return c, fmt.Errorf("overlay: floor resolution %d out of range", c.FloorResolution)
	}
	if c.PoleClampLat <= 0 || c.PoleClampLat > 90 {
		return c, fmt.Errorf("overlay: pole clamp latitude %v out of range", c.PoleClampLat)
	}
	if c.PaddingFraction < 0 || c.PaddingFraction >= 0.5 {
		return c, fmt.Errorf("overlay: padding fraction %v must be in [0, 0.5)", c.PaddingFraction)
	}
	return c, nil
}
