package commands

import (
	"github.com/spf13/cobra"

	"github.com/charypar/monobuild/pkg/impact"
	"github.com/charypar/monobuild/pkg/telemetry"
)

func newPrintCmd(a *app) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the build schedule or dependency graph",
		Long: `Print the build schedule of the whole repository: every component
with the components whose builds it has to wait for (strong dependencies).
With --dependencies, every dependency is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.loadGraph(cmd)
			if err != nil {
				return err
			}

			sel, err := out.selection()
			if err != nil {
				return err
			}

			_, span := telemetry.Start(cmd.Context(), "analyze")
			view, err := impact.Plan(g, sel, out.showDependencies())
			telemetry.End(span, err)
			if err != nil {
				return err
			}

			return out.render(cmd.Context(), cmd.OutOrStdout(), view)
		},
	}
	out.register(cmd)

	return cmd
}
