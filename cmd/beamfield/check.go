package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ornina-dev/beamfield/internal/beam"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate the beams of a batch JSON file",
		Long: "Check reads a batch as printed by 'beamfield generate' (from a file,\n" +
			"or stdin when no file is given) and validates every beam. A peak\n" +
			"opacity below the base opacity is reported but does not fail the\n" +
			"check, matching what the validator accepts.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}

			var batch beam.Batch
			if err := json.NewDecoder(in).Decode(&batch); err != nil {
				return fmt.Errorf("decode batch: %w", err)
			}

			out := cmd.OutOrStdout()
			invalid := 0
			for _, b := range batch.Beams {
				if !beam.Validate(b) {
					invalid++
					fmt.Fprintf(out, "invalid: %s\n", b.ID)
					continue
				}
				if b.PeakOpacity < b.BaseOpacity {
					fmt.Fprintf(out, "note: %s peak opacity %.2f below base %.2f\n",
						b.ID, b.PeakOpacity, b.BaseOpacity)
				}
			}
			fmt.Fprintf(out, "%d beams, %d invalid\n", len(batch.Beams), invalid)

			if invalid > 0 {
				return fmt.Errorf("%d of %d beams invalid", invalid, len(batch.Beams))
			}
			return nil
		},
	}
	return cmd
}
