package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/ui/tui"
)

// globalOpts are the persistent flags shared by every command.
type globalOpts struct {
	configFile string
	debug      bool
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	cmd := &cobra.Command{
		Use:          "studytrack",
		Short:        "studytrack: track modules, exams and learning time of your studies",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to studytrack.yaml (default: search upward from the working directory)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging to .studytrack/logs/studytrack.log")

	cmd.AddCommand(
		initCmd(),
		moduleCmd(opts),
		examCmd(opts),
		learnCmd(opts),
		showCmd(opts),
		dashboardCmd(opts),
		queryCmd(opts),
		versionCmd(),
	)
	return cmd
}

func runDashboard(cmd *cobra.Command, opts *globalOpts) error {
	app, err := openApp(cmd, opts)
	if err != nil {
		return err
	}
	defer app.close()

	return tui.Run(tui.Deps{
		Tracker: app.tracker,
		Source:  app.source,
		Logger:  app.log,
		Debug:   opts.debug,
	})
}
