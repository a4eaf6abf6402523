// Package config layers service configuration from defaults, a TOML
// file, and BEAMFIELD_* environment variables, in that order. Flags are
// the caller's layer on top.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ornina-dev/beamfield/internal/logging"
	"github.com/ornina-dev/beamfield/internal/store"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// applyEnv overlays BEAMFIELD_* variables onto cfg. Unparseable values
// are reported and skipped so a typo never takes the service down.
func applyEnv(cfg *Config, log logging.Logger) {
	envOptInt("BEAMFIELD_COUNT", &cfg.Count, log)
	envOptFloat("BEAMFIELD_OUTER_RADIUS", &cfg.OuterRadius, log)
	envOptFloat("BEAMFIELD_INNER_RADIUS", &cfg.InnerRadius, log)
	envOptFloat("BEAMFIELD_CYCLE", &cfg.CycleDuration, log)
	envOptFloat("BEAMFIELD_STAGGER", &cfg.Stagger, log)

	envFloat("BEAMFIELD_VIEWPORT_WIDTH", &cfg.ViewportWidth, log)
	envFloat("BEAMFIELD_VIEWPORT_HEIGHT", &cfg.ViewportHeight, log)

	cfg.SSHHost = GetEnv("BEAMFIELD_SSH_HOST", cfg.SSHHost)
	cfg.SSHPort = GetEnv("BEAMFIELD_SSH_PORT", cfg.SSHPort)
	cfg.SSHHostKey = GetEnv("BEAMFIELD_SSH_HOST_KEY", cfg.SSHHostKey)
	cfg.WebAddr = GetEnv("BEAMFIELD_WEB_ADDR", cfg.WebAddr)

	envBool("BEAMFIELD_MONITOR_ENABLED", &cfg.MonitorEnabled, log)
	envDuration("BEAMFIELD_MONITOR_INTERVAL", &cfg.MonitorInterval, log)

	if v, ok := os.LookupEnv("BEAMFIELD_THEME"); ok {
		cfg.Theme = store.Theme(v)
	}
	if v, ok := os.LookupEnv("BEAMFIELD_LANG"); ok {
		cfg.Language = store.Language(v)
	}
}

func envOptInt(key string, dst **int, log logging.Logger) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		warnEnv(log, key, v)
		return
	}
	*dst = &n
}

func envOptFloat(key string, dst **float64, log logging.Logger) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		warnEnv(log, key, v)
		return
	}
	*dst = &f
}

func envFloat(key string, dst *float64, log logging.Logger) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		warnEnv(log, key, v)
		return
	}
	*dst = f
}

func envBool(key string, dst *bool, log logging.Logger) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		warnEnv(log, key, v)
		return
	}
	*dst = b
}

func envDuration(key string, dst *time.Duration, log logging.Logger) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		warnEnv(log, key, v)
		return
	}
	*dst = d
}

func warnEnv(log logging.Logger, key, value string) {
	log.Warn("ignoring unparseable environment override",
		logging.String("key", key), logging.String("value", value))
}
