// Command beamfield-ssh serves the beam field over SSH. Every connection
// gets its own scene and drift monitor; the site store is shared so theme
// and language survive across sessions.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlog "github.com/charmbracelet/wish/logging"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/config"
	"github.com/ornina-dev/beamfield/internal/draw"
	"github.com/ornina-dev/beamfield/internal/logging"
	"github.com/ornina-dev/beamfield/internal/loop"
	"github.com/ornina-dev/beamfield/internal/monitor"
	"github.com/ornina-dev/beamfield/internal/scene"
	"github.com/ornina-dev/beamfield/internal/store"
)

// Shared across all SSH sessions. New sessions read the latest config;
// sessions already running keep the batch they started with.
var (
	appLog  logging.Logger
	appSite *store.Store

	cfgMu  sync.RWMutex
	appCfg config.Config
)

func currentConfig() config.Config {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return appCfg
}

func storeConfig(cfg config.Config) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	appCfg = cfg
}

func main() {
	appLog = logging.NewConsole(os.Stderr)

	cfgPath := config.GetEnv("BEAMFIELD_CONFIG", "")
	cfg, err := config.Load(cfgPath, appLog)
	if err != nil {
		appLog.Error("configuration unusable", logging.Err(err))
		os.Exit(1)
	}
	storeConfig(cfg)

	persist := store.NewFilePersistence(config.DefaultSitePath())
	appSite = store.NewStore(
		store.WithPersistence(persist),
		store.WithStoreLogger(appLog),
	)
	if _, ok := persist.Load(); !ok {
		appSite.SetTheme(cfg.Theme)
		appSite.SetLanguage(cfg.Language)
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	watchPath := cfgPath
	if watchPath == "" {
		watchPath = config.DefaultPath()
	}
	watcher := config.NewWatcher(watchPath, storeConfig, appLog)
	go func() {
		if err := watcher.Run(watchCtx); err != nil {
			appLog.Warn("config watcher unavailable", logging.Err(err))
		}
	}()

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSHHost, cfg.SSHPort)),
		wish.WithMiddleware(
			beamMiddleware,
			activeterm.Middleware(),
			wishlog.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for key input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if cfg.SSHHostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSHHostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		appLog.Error("failed to create server", logging.Err(err))
		os.Exit(1)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	appLog.Info("ssh server listening",
		logging.String("host", cfg.SSHHost),
		logging.String("port", cfg.SSHPort))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			appLog.Error("server error", logging.Err(err))
			os.Exit(1)
		}
	}()

	<-done
	appLog.Info("shutting down ssh server")
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		appLog.Error("shutdown error", logging.Err(err))
		os.Exit(1)
	}
}

// beamMiddleware handles SSH sessions and runs the session loop.
func beamMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		appLog.Info("session started",
			logging.String("user", sess.User()),
			logging.String("term", pty.Term),
			logging.Int("width", pty.Window.Width),
			logging.Int("height", pty.Window.Height))

		// Track terminal size across window change events
		tracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				tracker.update(win.Width, win.Height)
			}
		}()

		cfg := currentConfig()
		sc := scene.New(beam.NewGenerator(beam.WithLogger(appLog)))

		var mon *monitor.Monitor
		if cfg.MonitorEnabled {
			mon = monitor.New(sc, sc.ResetBeam,
				monitor.WithInterval(cfg.MonitorInterval),
				monitor.WithLogger(appLog))
			if err := mon.Start(sess.Context()); err != nil {
				appLog.Warn("monitor start failed", logging.Err(err))
				mon = nil
			} else {
				defer mon.Stop()
			}
		}

		l := loop.New(bufio.NewReader(sess), sess, loop.Options{
			Scene:          sc,
			Monitor:        mon,
			Site:           appSite,
			ViewportWidth:  cfg.ViewportWidth,
			ViewportHeight: cfg.ViewportHeight,
			Overrides:      cfg.BeamOverrides(),
			TermSizeFunc:   tracker.getSize,
		})
		if err := l.Run(sess.Context()); err != nil {
			appLog.Warn("session error",
				logging.String("user", sess.User()),
				logging.Err(err))
		}

		appLog.Info("session ended", logging.String("user", sess.User()))
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
