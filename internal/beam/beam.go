// Package beam implements radial light-beam configuration: batch
// generation with randomized visual parameters, per-field validation,
// and resolution of caller requests against viewport-derived defaults.
package beam

import "time"

// Descriptor field domains. The resolver clamps requests into these;
// the validator rejects descriptors outside them.
const (
	MinCount     = 16
	MaxCount     = 36
	DefaultCount = 24

	MinCycleDuration     = 5.0
	MaxCycleDuration     = 8.0
	DefaultCycleDuration = 6.0

	MinStagger     = 0.0
	MaxStagger     = 1.0
	DefaultStagger = 0.15

	MinBlurRadius = 18.0
	MaxBlurRadius = 28.0

	MinViewportWidth  = 320.0
	MinViewportHeight = 568.0

	FallbackViewportWidth  = 1920.0
	FallbackViewportHeight = 1080.0
)

// Randomized per-beam visual parameter ranges.
const (
	minWidth       = 80.0
	maxWidth       = 120.0
	minBaseOpacity = 0.3
	maxBaseOpacity = 0.4
	minPeakOpacity = 0.4
	maxPeakOpacity = 0.55
)

// Config describes one radial beam. A Config is immutable once
// generated; parameter changes replace the whole batch instead of
// mutating descriptors in place.
type Config struct {
	ID            string  `json:"id"`
	Angle         float64 `json:"angle"`
	StartRadius   float64 `json:"startRadius"`
	EndRadius     float64 `json:"endRadius"`
	Width         float64 `json:"width"`
	BaseOpacity   float64 `json:"baseOpacity"`
	PeakOpacity   float64 `json:"peakOpacity"`
	BlurRadius    float64 `json:"blurRadius"`
	CycleDuration float64 `json:"cycleDuration"`
	StaggerDelay  float64 `json:"staggerDelay"`
}

// Cycle returns the animation cycle duration as a time.Duration.
func (c Config) Cycle() time.Duration {
	return time.Duration(c.CycleDuration * float64(time.Second))
}

// Stagger returns the per-beam start delay as a time.Duration.
func (c Config) Stagger() time.Duration {
	return time.Duration(c.StaggerDelay * float64(time.Second))
}

// Validate reports whether every field of cfg is inside its allowed
// domain. All checks must pass. The result is a bare boolean; which
// check failed is surfaced only through generator diagnostics.
func Validate(cfg Config) bool {
	return len(violations(cfg)) == 0
}

// violations lists every failed range check, in field order.
func violations(cfg Config) []string {
	var v []string
	if cfg.Angle < 0 || cfg.Angle >= 360 {
		v = append(v, "angle outside [0,360)")
	}
	if cfg.StartRadius <= cfg.EndRadius {
		v = append(v, "startRadius not greater than endRadius")
	}
	if cfg.BlurRadius < MinBlurRadius || cfg.BlurRadius > MaxBlurRadius {
		v = append(v, "blurRadius outside [18,28]")
	}
	if cfg.BaseOpacity < 0 || cfg.BaseOpacity > 1 {
		v = append(v, "baseOpacity outside [0,1]")
	}
	if cfg.PeakOpacity < 0 || cfg.PeakOpacity > 1 {
		v = append(v, "peakOpacity outside [0,1]")
	}
	if cfg.CycleDuration < MinCycleDuration || cfg.CycleDuration > MaxCycleDuration {
		v = append(v, "cycleDuration outside [5,8]")
	}
	if cfg.Width <= 0 {
		v = append(v, "width not positive")
	}
	return v
}
