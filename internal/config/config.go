package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/logging"
	"github.com/ornina-dev/beamfield/internal/monitor"
	"github.com/ornina-dev/beamfield/internal/store"
)

// Config is the resolved service configuration. Beam parameters stay
// pointers so an unset key keeps resolver defaults rather than pinning
// a zero; everything else carries a usable value after Load.
type Config struct {
	Count         *int
	OuterRadius   *float64
	InnerRadius   *float64
	CycleDuration *float64
	Stagger       *float64

	// Viewport for headless surfaces. Zero means the beam resolver
	// picks its own fallback.
	ViewportWidth  float64
	ViewportHeight float64

	SSHHost    string
	SSHPort    string
	SSHHostKey string
	WebAddr    string

	MonitorEnabled  bool
	MonitorInterval time.Duration

	Theme    store.Theme
	Language store.Language
}

// Default returns the configuration used when no file, environment, or
// flags say otherwise.
func Default() Config {
	return Config{
		SSHHost:         "::",
		SSHPort:         "2222",
		SSHHostKey:      ".ssh/beamfield_host_key",
		WebAddr:         ":8080",
		MonitorEnabled:  true,
		MonitorInterval: monitor.DefaultInterval,
		Theme:           store.DefaultTheme,
		Language:        store.DefaultLanguage,
	}
}

// fileConfig mirrors Config for TOML. Pointer fields distinguish unset
// keys from explicit zeros; durations are strings to keep the file
// human-editable.
type fileConfig struct {
	Beams struct {
		Count        *int     `toml:"count"`
		OuterRadius  *float64 `toml:"outer_radius"`
		InnerRadius  *float64 `toml:"inner_radius"`
		CycleSeconds *float64 `toml:"cycle_seconds"`
		Stagger      *float64 `toml:"stagger"`
	} `toml:"beams"`
	Viewport struct {
		Width  *float64 `toml:"width"`
		Height *float64 `toml:"height"`
	} `toml:"viewport"`
	SSH struct {
		Host    *string `toml:"host"`
		Port    *string `toml:"port"`
		HostKey *string `toml:"host_key"`
	} `toml:"ssh"`
	Web struct {
		Addr *string `toml:"addr"`
	} `toml:"web"`
	Monitor struct {
		Enabled  *bool   `toml:"enabled"`
		Interval *string `toml:"interval"`
	} `toml:"monitor"`
	Site struct {
		Theme    *string `toml:"theme"`
		Language *string `toml:"language"`
	} `toml:"site"`
}

// DefaultPath returns ~/.beamfield/config.toml, or "" when the home
// directory cannot be determined.
func DefaultPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".beamfield", "config.toml")
	}
	return ""
}

// DefaultSitePath returns where the site's theme/language selection is
// persisted, next to the config file.
func DefaultSitePath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".beamfield", "site.json")
	}
	return ""
}

// Load builds a Config from defaults, then the TOML file, then the
// environment. An explicit path must exist and parse; the default path
// is only used if present. Malformed files fail Load so a bad edit
// surfaces at startup instead of silently running on defaults.
func Load(path string, log logging.Logger) (Config, error) {
	if log == nil {
		log = logging.NewNoop()
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			var fc fileConfig
			if err := toml.Unmarshal(b, &fc); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
			if err := applyFile(&cfg, fc); err != nil {
				return cfg, fmt.Errorf("apply %s: %w", path, err)
			}
		case explicit || !os.IsNotExist(err):
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}

	applyEnv(&cfg, log)
	cfg.normalize(log)
	return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) error {
	setOptInt(&cfg.Count, fc.Beams.Count)
	setOptFloat(&cfg.OuterRadius, fc.Beams.OuterRadius)
	setOptFloat(&cfg.InnerRadius, fc.Beams.InnerRadius)
	setOptFloat(&cfg.CycleDuration, fc.Beams.CycleSeconds)
	setOptFloat(&cfg.Stagger, fc.Beams.Stagger)

	if fc.Viewport.Width != nil {
		cfg.ViewportWidth = *fc.Viewport.Width
	}
	if fc.Viewport.Height != nil {
		cfg.ViewportHeight = *fc.Viewport.Height
	}

	if fc.SSH.Host != nil {
		cfg.SSHHost = *fc.SSH.Host
	}
	if fc.SSH.Port != nil {
		cfg.SSHPort = *fc.SSH.Port
	}
	if fc.SSH.HostKey != nil {
		cfg.SSHHostKey = *fc.SSH.HostKey
	}
	if fc.Web.Addr != nil {
		cfg.WebAddr = *fc.Web.Addr
	}

	if fc.Monitor.Enabled != nil {
		cfg.MonitorEnabled = *fc.Monitor.Enabled
	}
	if fc.Monitor.Interval != nil {
		d, err := time.ParseDuration(*fc.Monitor.Interval)
		if err != nil {
			return fmt.Errorf("monitor interval: %w", err)
		}
		cfg.MonitorInterval = d
	}

	if fc.Site.Theme != nil {
		cfg.Theme = store.Theme(*fc.Site.Theme)
	}
	if fc.Site.Language != nil {
		cfg.Language = store.Language(*fc.Site.Language)
	}
	return nil
}

// normalize replaces unusable values with defaults. Range clamping of
// beam parameters stays with the resolver so there is one clamping
// layer; this only guards values the resolver never sees.
func (c *Config) normalize(log logging.Logger) {
	st := store.Normalize(store.State{Theme: c.Theme, Language: c.Language})
	if st.Theme != c.Theme {
		log.Warn("unknown theme, using default",
			logging.String("theme", string(c.Theme)))
		c.Theme = st.Theme
	}
	if st.Language != c.Language {
		log.Warn("unknown language, using default",
			logging.String("language", string(c.Language)))
		c.Language = st.Language
	}

	if c.MonitorInterval <= 0 {
		log.Warn("monitor interval not positive, using default",
			logging.Duration("interval", c.MonitorInterval))
		c.MonitorInterval = monitor.DefaultInterval
	}

	if c.ViewportWidth < 0 {
		c.ViewportWidth = 0
	}
	if c.ViewportHeight < 0 {
		c.ViewportHeight = 0
	}
}

// BeamOverrides converts the configured beam parameters into resolver
// overrides.
func (c Config) BeamOverrides() beam.Overrides {
	return beam.Overrides{
		Count:         c.Count,
		OuterRadius:   c.OuterRadius,
		InnerRadius:   c.InnerRadius,
		CycleDuration: c.CycleDuration,
		Stagger:       c.Stagger,
	}
}

func setOptInt(dst **int, src *int) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func setOptFloat(dst **float64, src *float64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
