package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase/query"
)

func queryCmd(opts *globalOpts) *cobra.Command {
	c := &cobra.Command{
		Use:   "query <jsonpath>...",
		Short: "Evaluate JSONPath expressions against the stored program",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			doc := app.tracker.Snapshot()
			w := cmd.OutOrStdout()
			for _, expr := range args {
				res, err := query.Eval(doc, expr)
				if err != nil {
					return err
				}
				text, err := res.Text()
				if err != nil {
					return err
				}
				if len(args) > 1 {
					fmt.Fprintf(w, "%s = %s\n", res.Expr, text)
					continue
				}
				fmt.Fprintln(w, text)
			}
			return nil
		},
	}
	c.Example = `  studytrack query '$.name'
  studytrack query '$.semesters[*].modules[?(@.status=="passed")].title'`
	return c
}
