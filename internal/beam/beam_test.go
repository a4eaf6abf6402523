package beam

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func validConfig() Config {
	return Config{
		ID:            "beam-0",
		Angle:         45,
		StartRadius:   800,
		EndRadius:     150,
		Width:         100,
		BaseOpacity:   0.35,
		PeakOpacity:   0.5,
		BlurRadius:    22,
		CycleDuration: 6,
		StaggerDelay:  0.3,
	}
}

func TestValidateAcceptsBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"baseline", func(*Config) {}},
		{"angle at zero", func(c *Config) { c.Angle = 0 }},
		{"angle just under 360", func(c *Config) { c.Angle = 359.999 }},
		{"blur at floor", func(c *Config) { c.BlurRadius = 18 }},
		{"blur at ceiling", func(c *Config) { c.BlurRadius = 28 }},
		{"opacities at extremes", func(c *Config) { c.BaseOpacity = 0; c.PeakOpacity = 1 }},
		{"cycle at floor", func(c *Config) { c.CycleDuration = 5 }},
		{"cycle at ceiling", func(c *Config) { c.CycleDuration = 8 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if !Validate(cfg) {
				t.Errorf("Validate(%+v) = false, want true", cfg)
			}
		})
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative angle", func(c *Config) { c.Angle = -0.1 }},
		{"angle at 360", func(c *Config) { c.Angle = 360 }},
		{"equal radii", func(c *Config) { c.EndRadius = c.StartRadius }},
		{"inverted radii", func(c *Config) { c.StartRadius, c.EndRadius = 150, 800 }},
		{"blur below floor", func(c *Config) { c.BlurRadius = 17.9 }},
		{"blur above ceiling", func(c *Config) { c.BlurRadius = 28.1 }},
		{"negative base opacity", func(c *Config) { c.BaseOpacity = -0.01 }},
		{"base opacity above one", func(c *Config) { c.BaseOpacity = 1.01 }},
		{"negative peak opacity", func(c *Config) { c.PeakOpacity = -0.01 }},
		{"peak opacity above one", func(c *Config) { c.PeakOpacity = 1.01 }},
		{"cycle too short", func(c *Config) { c.CycleDuration = 4.9 }},
		{"cycle too long", func(c *Config) { c.CycleDuration = 8.1 }},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative width", func(c *Config) { c.Width = -10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if Validate(cfg) {
				t.Errorf("Validate(%+v) = true, want false", cfg)
			}
		})
	}
}

// Radius ordering fails a descriptor no matter how pristine the rest is.
func TestValidateRadiusOrderDominates(t *testing.T) {
	cfg := validConfig()
	cfg.StartRadius = 150
	cfg.EndRadius = 150
	if Validate(cfg) {
		t.Error("descriptor with startRadius == endRadius passed validation")
	}
}

func TestConfigDurations(t *testing.T) {
	cfg := validConfig()
	if got := cfg.Cycle(); got != 6*time.Second {
		t.Errorf("Cycle() = %v, want 6s", got)
	}
	if got := cfg.Stagger(); got != 300*time.Millisecond {
		t.Errorf("Stagger() = %v, want 300ms", got)
	}
}
