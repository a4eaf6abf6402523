package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDiagonal(t *testing.T) {
	if got := Diagonal(3, 4); !almostEqual(got, 5) {
		t.Errorf("Diagonal(3, 4) = %v, want 5", got)
	}
	if got := Diagonal(0, 0); got != 0 {
		t.Errorf("Diagonal(0, 0) = %v, want 0", got)
	}
}

func TestPolarToCartesian(t *testing.T) {
	center := Point{X: 100, Y: 50}
	tests := []struct {
		name   string
		angle  float64
		radius float64
		want   Point
	}{
		{"east", 0, 10, Point{X: 110, Y: 50}},
		{"south", 90, 10, Point{X: 100, Y: 60}},
		{"west", 180, 10, Point{X: 90, Y: 50}},
		{"north", 270, 10, Point{X: 100, Y: 40}},
		{"zero radius", 123, 0, Point{X: 100, Y: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PolarToCartesian(tt.angle, tt.radius, center)
			if !almostEqual(got.X, tt.want.X) || !almostEqual(got.Y, tt.want.Y) {
				t.Errorf("PolarToCartesian(%v, %v) = (%v, %v), want (%v, %v)",
					tt.angle, tt.radius, got.X, got.Y, tt.want.X, tt.want.Y)
			}
		})
	}
}

func TestResponsiveRadii(t *testing.T) {
	d := Diagonal(1920, 1080)
	outer, inner := ResponsiveRadii(1920, 1080)
	if !almostEqual(outer, 0.70*d) {
		t.Errorf("outer = %v, want %v", outer, 0.70*d)
	}
	if !almostEqual(inner, 0.15*d) {
		t.Errorf("inner = %v, want %v", inner, 0.15*d)
	}

	// Ratio holds regardless of viewport size.
	o2, i2 := ResponsiveRadii(320, 568)
	if !almostEqual(outer/inner, o2/i2) {
		t.Errorf("radius ratio changed across viewports: %v vs %v", outer/inner, o2/i2)
	}

	// Degenerate viewport degrades to zero radii without panicking.
	o3, i3 := ResponsiveRadii(0, 0)
	if o3 != 0 || i3 != 0 {
		t.Errorf("ResponsiveRadii(0, 0) = (%v, %v), want (0, 0)", o3, i3)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
