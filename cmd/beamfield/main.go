// Command beamfield generates, checks, and previews radial beam
// batches from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "beamfield: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "beamfield",
		Short:         "Radial light beams for the ORNINA site, in your terminal and as JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "",
		"path to config file (default: $HOME/.beamfield/config.toml)")

	root.AddCommand(
		newGenerateCmd(&cfgPath),
		newCheckCmd(),
		newPreviewCmd(&cfgPath),
	)
	return root
}

// beamFlags are the generation parameters shared by generate and
// preview. Only flags the user actually set override the loaded
// configuration.
type beamFlags struct {
	width   float64
	height  float64
	count   int
	cycle   float64
	stagger float64
	outer   float64
	inner   float64
}

func (f *beamFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.width, "width", 0, "viewport width in CSS pixels (0 = fallback)")
	fl.Float64Var(&f.height, "height", 0, "viewport height in CSS pixels (0 = fallback)")
	fl.IntVar(&f.count, "count", beam.DefaultCount, "number of beams")
	fl.Float64Var(&f.cycle, "cycle", beam.DefaultCycleDuration, "pulse cycle duration in seconds")
	fl.Float64Var(&f.stagger, "stagger", beam.DefaultStagger, "per-beam start delay in seconds")
	fl.Float64Var(&f.outer, "outer", 0, "outer radius (used together with --inner)")
	fl.Float64Var(&f.inner, "inner", 0, "inner radius (used together with --outer)")
}

func (f *beamFlags) apply(fl *pflag.FlagSet, cfg *config.Config) {
	if fl.Changed("width") {
		cfg.ViewportWidth = f.width
	}
	if fl.Changed("height") {
		cfg.ViewportHeight = f.height
	}
	if fl.Changed("count") {
		cfg.Count = &f.count
	}
	if fl.Changed("cycle") {
		cfg.CycleDuration = &f.cycle
	}
	if fl.Changed("stagger") {
		cfg.Stagger = &f.stagger
	}
	if fl.Changed("outer") {
		cfg.OuterRadius = &f.outer
	}
	if fl.Changed("inner") {
		cfg.InnerRadius = &f.inner
	}
}
