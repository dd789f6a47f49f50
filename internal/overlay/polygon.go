package overlay

import (
	"fmt"

	"github.com/gravitas-games/hexfield/pkg/models"
)

// Polygon is a validated ring of vertices in NW → NE → SE → SW order,
// ready to hand to the geospatial index.
type Polygon []models.LatLng

// PolygonBuilder converts viewports into indexable polygons, correcting
// the geographic edge cases: latitudes are clamped away from the poles and
// rings that would cross the antimeridian are clamped to the hemisphere
// containing the viewport center. The antimeridian clamp deliberately
// drops a thin strip of cells right at the dateline during a crossing pan
// instead of splitting the ring in two; the gap heals as the pan
// continues.
type PolygonBuilder struct {
	clampLat float64
	padding  float64
}

// NewPolygonBuilder returns a builder with the given pole clamp latitude
// and per-side longitudinal padding fraction.
func NewPolygonBuilder(poleClampLat, paddingFraction float64) *PolygonBuilder {
	return &PolygonBuilder{clampLat: poleClampLat, padding: paddingFraction}
}

// Build converts a viewport into a polygon. It returns ErrInvalidViewport
// when the region degenerates (for example both bounds clamp onto the same
// pole edge); the caller skips the update and keeps the previous cache.
func (b *PolygonBuilder) Build(vp models.Viewport) (Polygon, error) {
	if err := vp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidViewport, err)
	}

	north := clamp(vp.Center.Lat+vp.Span.LatDelta/2, -b.clampLat, b.clampLat)
	south := clamp(vp.Center.Lat-vp.Span.LatDelta/2, -b.clampLat, b.clampLat)
	if north <= south {
		return nil, fmt.Errorf("%w: north %v not above south %v", ErrInvalidViewport, north, south)
	}

	// Longitudinal inset shrinks the indexed region, not the displayed
	// viewport.
	pad := b.padding * vp.Span.LonDelta
	west := vp.Center.Lng - vp.Span.LonDelta/2 + pad
	east := vp.Center.Lng + vp.Span.LonDelta/2 - pad

	// Antimeridian: the center is always inside [west, east], so clamping
	// to the valid range keeps the hemisphere the center sits in.
	if west < -180 {
		west = -180
	}
	if east > 180 {
		east = 180
	}

	return Polygon{
		{Lat: north, Lng: west},
		{Lat: north, Lng: east},
		{Lat: south, Lng: east},
		{Lat: south, Lng: west},
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
