package cli

import (
	"fmt"
	"time"

	"image-filter-studio/internal/processing/filters"

	"github.com/spf13/cobra"
)

func newApplyCommand(st *state) *cobra.Command {
	var input, output string
	var printChecksum bool

	cmd := &cobra.Command{
		Use:   "apply -i <input> -o <output> <step>...",
		Short: "Apply transforms to an image without opening the window",
		Long: `Load <input>, apply each step in order and write the result to <output>.

A step is a transform name with optional parameters:

  erosion
  median_filter:ksize=3
  gaussian_noise:mean=0,sigma=10

The output format follows the extension of <output>; unknown extensions
are written as PNG.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := make([]filters.Step, 0, len(args))
			for _, arg := range args {
				step, err := filters.ParseStep(arg)
				if err != nil {
					return err
				}
				steps = append(steps, step)
			}

			ctx := cmd.Context()
			start := time.Now()

			if _, err := st.services.Images.Open(ctx, input); err != nil {
				return err
			}
			if err := st.services.Processing.RunSteps(ctx, steps); err != nil {
				return err
			}
			if err := st.services.Images.Save(ctx, output); err != nil {
				return err
			}

			st.logger.Info("Apply", "pipeline finished", map[string]interface{}{
				"input":    input,
				"output":   output,
				"steps":    len(steps),
				"duration": time.Since(start),
			})

			if printChecksum {
				fmt.Fprintf(cmd.OutOrStdout(), "%016x  %s\n", st.services.Session.Current().Checksum(), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "image to read")
	cmd.Flags().StringVarP(&output, "output", "o", "", "path to write")
	cmd.Flags().BoolVar(&printChecksum, "checksum", false, "print the xxhash64 of the result")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
