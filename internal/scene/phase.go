package scene

import (
	"math"
	"time"

	"github.com/ornina-dev/beamfield/internal/beam"
)

// animAt computes a beam's radial scale factor and opacity at time t.
// The beam rests at the perimeter (scale 1, base opacity) until its
// stagger delay elapses, then pulses toward the inner radius and back
// once per cycle.
func animAt(cfg beam.Config, origin, t time.Time) (scale, opacity float64) {
	p := progress(cfg, origin, t)
	pulse := 0.5 - 0.5*math.Cos(2*math.Pi*p)

	depth := 0.0
	if cfg.StartRadius > 0 {
		depth = 1 - cfg.EndRadius/cfg.StartRadius
	}
	scale = 1 - pulse*depth
	opacity = cfg.BaseOpacity + pulse*(cfg.PeakOpacity-cfg.BaseOpacity)
	return scale, opacity
}

// progress returns the cycle phase in [0,1): 0 at the perimeter, 0.5
// at the innermost point.
func progress(cfg beam.Config, origin, t time.Time) float64 {
	if cfg.CycleDuration <= 0 {
		return 0
	}
	elapsed := t.Sub(origin).Seconds() - cfg.StaggerDelay
	if elapsed <= 0 {
		return 0
	}
	p := elapsed / cfg.CycleDuration
	return p - math.Floor(p)
}
