package cli

import (
	"context"

	"image-filter-studio/internal/app"

	"github.com/spf13/cobra"
)

func newGUICommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop window (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(cmd.Context(), st)
		},
	}
}

func runGUI(ctx context.Context, st *state) error {
	application, err := app.NewApplication(st.cfg, st.services)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}
