// Package geom provides polar geometry helpers for radial beam layouts.
package geom

import "math"

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X, Y float64
}

// Radii as fractions of the viewport diagonal.
const (
	OuterRadiusRatio = 0.70
	InnerRadiusRatio = 0.15
)

// Diagonal calculates the diagonal length of a viewport.
func Diagonal(width, height float64) float64 {
	return math.Sqrt(width*width + height*height)
}

// PolarToCartesian converts an angle in degrees and a radius to a point
// offset from center. Angle 0 points along +X, 90 along +Y.
func PolarToCartesian(angleDeg, radius float64, center Point) Point {
	rad := angleDeg * math.Pi / 180
	return Point{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y + radius*math.Sin(rad),
	}
}

// ResponsiveRadii derives outer and inner beam radii from viewport
// dimensions. Both scale with the diagonal so their ratio is constant
// across viewport sizes.
func ResponsiveRadii(width, height float64) (outer, inner float64) {
	d := Diagonal(width, height)
	return d * OuterRadiusRatio, d * InnerRadiusRatio
}

// Clamp limits v to the [lo, hi] range.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
