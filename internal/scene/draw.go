package scene

import (
	"math"

	"github.com/ornina-dev/beamfield/internal/draw"
	"github.com/ornina-dev/beamfield/internal/geom"
)

// haloFalloff dims the blur halo relative to the beam core.
const haloFalloff = 0.35

// Draw paints the beam onto the canvas as a tapered wedge pointing out from
// the viewport center: a core at the beam's width plus a dimmer halo widened
// by the blur radius. The wedge tip sits at the animated radius, so a pulsing
// beam visibly travels between the outer and inner rings.
func (fb FrameBeam) Draw(c *draw.Canvas) {
	cfg := fb.Config
	if cfg.StartRadius <= 0 {
		return
	}

	center := geom.Point{X: c.LogicalWidth() / 2, Y: c.LogicalHeight() / 2}
	inner := cfg.EndRadius
	outer := cfg.StartRadius * fb.Scale
	if outer < inner {
		outer = inner
	}

	// Half-widths grow with radius so the wedge tapers toward the center.
	halfTip := cfg.Width / 2 * (outer / cfg.StartRadius)
	halfRoot := cfg.Width / 2 * (inner / cfg.StartRadius)

	haloInner := math.Max(0, inner-cfg.BlurRadius)
	fb.drawWedge(c, center, haloInner, outer+cfg.BlurRadius,
		halfRoot+cfg.BlurRadius, halfTip+cfg.BlurRadius, fb.Opacity*haloFalloff)
	fb.drawWedge(c, center, inner, outer, halfRoot, halfTip, fb.Opacity)
}

// drawWedge fills one quad between the inner and outer radii along the beam's
// angle. Uses the canvas point buffer to avoid per-frame allocations.
func (fb FrameBeam) drawWedge(c *draw.Canvas, center geom.Point, innerR, outerR, halfRoot, halfTip, intensity float64) {
	angle := fb.Config.Angle
	root := geom.PolarToCartesian(angle, innerR, center)
	tip := geom.PolarToCartesian(angle, outerR, center)

	// Unit vector perpendicular to the beam direction.
	rad := angle * math.Pi / 180
	px, py := -math.Sin(rad), math.Cos(rad)

	pts := c.BorrowPoints(4)
	pts[0] = geom.Point{X: root.X + px*halfRoot, Y: root.Y + py*halfRoot}
	pts[1] = geom.Point{X: tip.X + px*halfTip, Y: tip.Y + py*halfTip}
	pts[2] = geom.Point{X: tip.X - px*halfTip, Y: tip.Y - py*halfTip}
	pts[3] = geom.Point{X: root.X - px*halfRoot, Y: root.Y - py*halfRoot}

	c.DrawPolygon(pts, intensity, true)
}
