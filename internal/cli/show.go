package cli

import (
	"github.com/spf13/cobra"
)

func showCmd(opts *globalOpts) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "show",
		Short: "Print the whole program with semesters, modules, exams and learning times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			return printSnapshot(cmd.OutOrStdout(), app.tracker.Program(), format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json|yaml")
	return c
}

// dashboardCmd opens the TUI, or prints the summary when --format is given.
func dashboardCmd(opts *globalOpts) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "dashboard",
		Short: "Show progress metrics (interactive unless --format is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				return runDashboard(cmd, opts)
			}

			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			return printSummary(cmd.OutOrStdout(), app.tracker.Summary(), format)
		},
	}

	c.Flags().StringVar(&format, "format", "", "Print instead of opening the TUI: pretty|json")
	return c
}
