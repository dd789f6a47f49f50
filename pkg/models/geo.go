package models

import (
	"fmt"
	"math"
)

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate is a real point on the globe.
// NaN, infinities and out-of-range degrees are rejected.
func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	if p.Lat < -90 || p.Lat > 90 {
		return false
	}
	if p.Lng < -180 || p.Lng > 180 {
		return false
	}
	return true
}

// Boundary is the outline of a single cell as an ordered ring of vertices.
// The first vertex is repeated at the end to close the ring: a hexagonal
// cell carries 7 vertices, the 12 pentagonal base cells carry 6.
// A Boundary is immutable once stored; consumers must not modify it.
type Boundary []LatLng

// Span is the angular extent of a viewport in degrees.
type Span struct {
	LatDelta float64 `json:"lat_delta"`
	LonDelta float64 `json:"lon_delta"`
}

// Max returns the larger of the two deltas.
func (s Span) Max() float64 {
	if s.LatDelta > s.LonDelta {
		return s.LatDelta
	}
	return s.LonDelta
}

// Viewport is the visible region of the map: a center point plus an
// angular span. It is produced by the map view on every interaction
// frame and is a read-only input to the overlay pipeline.
type Viewport struct {
	Center LatLng `json:"center"`
	Span   Span   `json:"span"`
}

// Validate checks that the viewport describes a usable region.
func (v Viewport) Validate() error {
	if !v.Center.Valid() {
		return fmt.Errorf("viewport center %v out of range", v.Center)
	}
	if math.IsNaN(v.Span.LatDelta) || math.IsNaN(v.Span.LonDelta) {
		return fmt.Errorf("viewport span is NaN")
	}
	if v.Span.LatDelta <= 0 || v.Span.LonDelta <= 0 {
		return fmt.Errorf("viewport span %v not positive", v.Span)
	}
	return nil
}
