package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available transforms and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLABEL\tPARAMETERS")
			for _, d := range st.services.Processing.Filters() {
				params := make([]string, 0, len(d.Params))
				for _, p := range d.Params {
					params = append(params, fmt.Sprintf("%s=%v", p.Name, p.Default))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Label, strings.Join(params, " "))
			}
			return w.Flush()
		},
	}
}
