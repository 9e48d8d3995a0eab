package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase"
)

func examCmd(opts *globalOpts) *cobra.Command {
	c := &cobra.Command{
		Use:   "exam",
		Short: "Record exam attempts",
	}
	c.AddCommand(examRecordCmd(opts))
	return c
}

func examRecordCmd(opts *globalOpts) *cobra.Command {
	var in usecase.RecordExamInput

	c := &cobra.Command{
		Use:   "record",
		Short: "Record an exam attempt for a module (grade 1.0 to 5.0, pass <= 4.0)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			e, err := app.tracker.RecordExam(commandContext(cmd), in)
			if err != nil {
				return err
			}

			result := "failed"
			if e.Passed {
				result = "passed"
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Attempt %d for %q: %.1f (%s)\n", e.Attempt, in.Title, e.Grade, result)
			if s, ok := app.tracker.Program().Semester(in.Semester); ok {
				if m, ok := s.Module(in.Title); ok {
					fmt.Fprintf(w, "Module status: %s, attempts left: %d\n", m.Status(), m.AttemptsLeft())
				}
			}
			return nil
		},
	}

	refFlags(c, &in.ModuleRef)
	c.Flags().Float64VarP(&in.Grade, "grade", "g", 0, "grade between 1.0 and 5.0 (required)")
	_ = c.MarkFlagRequired("grade")
	return c
}
