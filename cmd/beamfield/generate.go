package main

import (
	"encoding/json"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/config"
	"github.com/ornina-dev/beamfield/internal/logging"
)

func newGenerateCmd(cfgPath *string) *cobra.Command {
	var (
		f      beamFlags
		seed   int64
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one beam batch and print it as JSON",
		Example: "  beamfield generate --width 1920 --height 1080 --count 24\n" +
			"  beamfield generate --seed 7 --pretty",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewConsole(os.Stderr)
			cfg, err := config.Load(*cfgPath, log)
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), &cfg)

			opts := []beam.Option{beam.WithLogger(log)}
			if seed != 0 {
				opts = append(opts, beam.WithRand(rand.New(rand.NewSource(seed))))
			}
			gen := beam.NewGenerator(opts...)
			batch := gen.GenerateBatch(cfg.BeamOverrides(), cfg.ViewportWidth, cfg.ViewportHeight)

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(batch)
		},
	}

	f.register(cmd)
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for reproducible output (0 = time-seeded)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}
