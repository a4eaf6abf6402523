// Command beamfield-web serves the ORNINA beam demo page and the JSON
// API. One server-side scene is kept under drift watch so /api/monitor
// reports live statistics, and beam overrides reload when the TOML
// file changes on disk.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/config"
	"github.com/ornina-dev/beamfield/internal/logging"
	"github.com/ornina-dev/beamfield/internal/monitor"
	"github.com/ornina-dev/beamfield/internal/scene"
	"github.com/ornina-dev/beamfield/internal/store"
	"github.com/ornina-dev/beamfield/internal/web"
)

func main() {
	log := logging.NewConsole(os.Stderr)

	cfgPath := config.GetEnv("BEAMFIELD_CONFIG", "")
	cfg, err := config.Load(cfgPath, log)
	if err != nil {
		log.Error("configuration unusable", logging.Err(err))
		os.Exit(1)
	}

	persist := store.NewFilePersistence(config.DefaultSitePath())
	site := store.NewStore(
		store.WithPersistence(persist),
		store.WithStoreLogger(log),
	)
	if _, ok := persist.Load(); !ok {
		site.SetTheme(cfg.Theme)
		site.SetLanguage(cfg.Language)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := beam.NewGenerator(beam.WithLogger(log))

	// One server-side scene gives the monitor live scales to sample.
	sc := scene.New(gen, scene.WithLogger(log))
	batch := sc.Regenerate(cfg.BeamOverrides(), cfg.ViewportWidth, cfg.ViewportHeight)

	var mon *monitor.Monitor
	if cfg.MonitorEnabled {
		mon = monitor.New(sc, sc.ResetBeam,
			monitor.WithInterval(cfg.MonitorInterval),
			monitor.WithLogger(log))
		mon.SetBeams(batch.Beams)
		if err := mon.Start(ctx); err != nil {
			log.Error("monitor start failed", logging.Err(err))
			os.Exit(1)
		}
		defer mon.Stop()
	}

	watchPath := cfgPath
	if watchPath == "" {
		watchPath = config.DefaultPath()
	}
	watcher := config.NewWatcher(watchPath, func(c config.Config) {
		b := sc.Regenerate(c.BeamOverrides(), c.ViewportWidth, c.ViewportHeight)
		if mon != nil {
			mon.SetBeams(b.Beams)
		}
	}, log)
	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Warn("config watcher unavailable", logging.Err(err))
		}
	}()

	srv := web.NewServer(web.ServerConfig{
		Addr:      cfg.WebAddr,
		Generator: gen,
		Monitor:   mon,
		Site:      site,
		Logger:    log,
	})
	if err := srv.Start(ctx); err != nil {
		log.Error("server error", logging.Err(err))
		os.Exit(1)
	}
}
