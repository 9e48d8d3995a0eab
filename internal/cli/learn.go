package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase"
)

func learnCmd(opts *globalOpts) *cobra.Command {
	c := &cobra.Command{
		Use:   "learn",
		Short: "Log learning time",
	}
	c.AddCommand(learnLogCmd(opts))
	return c
}

func learnLogCmd(opts *globalOpts) *cobra.Command {
	var in usecase.LogLearningTimeInput
	var date string

	c := &cobra.Command{
		Use:   "log",
		Short: "Log study hours for a module on a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if date != "" {
				d, err := time.Parse(domain.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD): %w", date, domain.ErrValidation)
				}
				in.Date = d
			}

			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			e, err := app.tracker.LogLearningTime(commandContext(cmd), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %gh for %q on %s\n", e.Hours, in.Title, e.Date.Format(domain.DateLayout))
			return nil
		},
	}

	refFlags(c, &in.ModuleRef)
	c.Flags().Float64Var(&in.Hours, "hours", 0, "hours spent, zero or more (required)")
	c.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD (default: today)")
	_ = c.MarkFlagRequired("hours")
	return c
}
