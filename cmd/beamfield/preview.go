package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/config"
	"github.com/ornina-dev/beamfield/internal/logging"
	"github.com/ornina-dev/beamfield/internal/loop"
	"github.com/ornina-dev/beamfield/internal/monitor"
	"github.com/ornina-dev/beamfield/internal/scene"
	"github.com/ornina-dev/beamfield/internal/store"
)

func newPreviewCmd(cfgPath *string) *cobra.Command {
	var f beamFlags

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Animate a beam batch in the terminal",
		Long: "Preview runs the interactive beam loop against the local terminal.\n" +
			"Press ? inside the loop for the key reference, q to quit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewConsole(os.Stderr)
			cfg, err := config.Load(*cfgPath, log)
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), &cfg)

			sc := scene.New(beam.NewGenerator())
			site := store.NewStore()
			site.SetTheme(cfg.Theme)
			site.SetLanguage(cfg.Language)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var mon *monitor.Monitor
			if cfg.MonitorEnabled {
				mon = monitor.New(sc, sc.ResetBeam,
					monitor.WithInterval(cfg.MonitorInterval))
				if err := mon.Start(ctx); err != nil {
					return err
				}
				defer mon.Stop()
			}

			fd := int(os.Stdin.Fd())
			oldState, err := term.MakeRaw(fd)
			if err != nil {
				return fmt.Errorf("enable raw mode: %w", err)
			}
			defer func() {
				_ = term.Restore(fd, oldState)
			}()

			l := loop.New(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
				Scene:          sc,
				Monitor:        mon,
				Site:           site,
				ViewportWidth:  cfg.ViewportWidth,
				ViewportHeight: cfg.ViewportHeight,
				Overrides:      cfg.BeamOverrides(),
			})
			return l.Run(ctx)
		},
	}

	f.register(cmd)
	return cmd
}
