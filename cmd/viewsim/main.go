// Command viewsim drives an overlay pipeline through a scripted camera
// move against the real cell index and prints what every frame resolved.
// Useful for eyeballing resolution selection and delta sizes without a
// client: zoom into a city, pan across the antimeridian, zoom back out.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/gravitas-games/hexfield/internal/hexgrid"
	"github.com/gravitas-games/hexfield/internal/overlay"
	"github.com/gravitas-games/hexfield/pkg/models"
)

var (
	steps  = flag.Int("steps", 6, "interpolated frames per camera leg")
	budget = flag.Int("budget", 0, "cell budget, 0 selects the default")
)

// A leg moves the camera to a target frame over a number of interpolated
// steps. Spans interpolate geometrically so zooming feels constant-rate.
type leg struct {
	name   string
	target models.Viewport
}

var script = []leg{
	{"atlantic overview", vp(25, -40, 120, 280)},
	{"zoom to london", vp(51.5, -0.12, 0.08, 0.12)},
	{"pan across town", vp(51.52, -0.01, 0.08, 0.12)},
	{"jump to fiji", vp(-17.7, 179.0, 4, 8)},
	{"zoom out to world", vp(10, 179.5, 140, 320)},
}

func vp(lat, lng, latDelta, lonDelta float64) models.Viewport {
	return models.Viewport{
		Center: models.LatLng{Lat: lat, Lng: lng},
		Span:   models.Span{LatDelta: latDelta, LonDelta: lonDelta},
	}
}

func main() {
	flag.Parse()

	pipeline, err := overlay.NewPipeline(overlay.Config{CellBudget: *budget}, hexgrid.New())
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	frame := 0
	current := script[0].target

	for i, l := range script {
		n := *steps
		if i == 0 {
			// First leg has no previous frame to interpolate from
			n = 1
		}

		fmt.Printf("== %s ==\n", l.name)
		for s := 1; s <= n; s++ {
			t := float64(s) / float64(n)
			view := interpolate(current, l.target, t)

			delta, err := pipeline.ApplyViewport(view)
			if err != nil {
				log.Printf("frame %d: update failed: %v", frame, err)
				continue
			}

			frame++
			fmt.Printf("frame %3d  center=(%7.2f,%8.2f)  span=%8.3f  res=%2d  +%-5d -%-5d cells=%d\n",
				frame, view.Center.Lat, view.Center.Lng, view.Span.Max(),
				delta.Resolution, len(delta.Added), len(delta.Removed),
				pipeline.Geometry().Len())
		}
		current = l.target
	}

	fmt.Printf("done: %d frames, %d cells resident\n", frame, pipeline.Geometry().Len())
}

// interpolate blends two frames: centers linearly, spans geometrically.
func interpolate(from, to models.Viewport, t float64) models.Viewport {
	return models.Viewport{
		Center: models.LatLng{
			Lat: from.Center.Lat + (to.Center.Lat-from.Center.Lat)*t,
			Lng: from.Center.Lng + (to.Center.Lng-from.Center.Lng)*t,
		},
		Span: models.Span{
			LatDelta: geom(from.Span.LatDelta, to.Span.LatDelta, t),
			LonDelta: geom(from.Span.LonDelta, to.Span.LonDelta, t),
		},
	}
}

func geom(a, b, t float64) float64 {
	return a * math.Pow(b/a, t)
}
