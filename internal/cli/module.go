package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase"
)

func moduleCmd(opts *globalOpts) *cobra.Command {
	c := &cobra.Command{
		Use:   "module",
		Short: "Add, edit, move, delete and list modules",
	}
	c.AddCommand(
		moduleAddCmd(opts),
		moduleRenameCmd(opts),
		moduleECTSCmd(opts),
		moduleMoveCmd(opts),
		moduleDeleteCmd(opts),
		moduleListCmd(opts),
	)
	return c
}

// refFlags binds --semester and --title, which every module command needs.
func refFlags(c *cobra.Command, ref *usecase.ModuleRef) {
	c.Flags().IntVarP(&ref.Semester, "semester", "s", 0, "semester number (required)")
	c.Flags().StringVarP(&ref.Title, "title", "t", "", "module title, case and spacing insensitive (required)")
	_ = c.MarkFlagRequired("semester")
	_ = c.MarkFlagRequired("title")
}

func moduleAddCmd(opts *globalOpts) *cobra.Command {
	var in usecase.AddModuleInput

	c := &cobra.Command{
		Use:   "add",
		Short: "Add an open module to a semester",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			m, err := app.tracker.AddModule(commandContext(cmd), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%d ECTS) to semester %d\n", m.Title(), m.ECTS(), in.Semester)
			return nil
		},
	}

	c.Flags().IntVarP(&in.Semester, "semester", "s", 0, "semester number (required)")
	c.Flags().StringVarP(&in.Title, "title", "t", "", "module title (required)")
	c.Flags().IntVarP(&in.ECTS, "ects", "e", 5, "credits: 5 or 10")
	_ = c.MarkFlagRequired("semester")
	_ = c.MarkFlagRequired("title")
	return c
}

func moduleRenameCmd(opts *globalOpts) *cobra.Command {
	var in usecase.RenameModuleInput

	c := &cobra.Command{
		Use:   "rename",
		Short: "Change a module's title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.tracker.RenameModule(commandContext(cmd), in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", in.Title, in.NewTitle)
			return nil
		},
	}

	refFlags(c, &in.ModuleRef)
	c.Flags().StringVar(&in.NewTitle, "to", "", "new title (required)")
	_ = c.MarkFlagRequired("to")
	return c
}

func moduleECTSCmd(opts *globalOpts) *cobra.Command {
	var in usecase.ChangeECTSInput

	c := &cobra.Command{
		Use:   "ects",
		Short: "Change a module's credits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.tracker.ChangeECTS(commandContext(cmd), in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q now has %d ECTS\n", in.Title, in.ECTS)
			return nil
		},
	}

	refFlags(c, &in.ModuleRef)
	c.Flags().IntVarP(&in.ECTS, "ects", "e", 0, "credits: 5 or 10 (required)")
	_ = c.MarkFlagRequired("ects")
	return c
}

func moduleMoveCmd(opts *globalOpts) *cobra.Command {
	var in usecase.MoveModuleInput

	c := &cobra.Command{
		Use:   "move",
		Short: "Move a module to another semester",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.tracker.MoveModule(commandContext(cmd), in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %q from semester %d to %d\n", in.Title, in.Semester, in.To)
			return nil
		},
	}

	refFlags(c, &in.ModuleRef)
	c.Flags().IntVar(&in.To, "to", 0, "target semester (required)")
	_ = c.MarkFlagRequired("to")
	return c
}

func moduleDeleteCmd(opts *globalOpts) *cobra.Command {
	var ref usecase.ModuleRef

	c := &cobra.Command{
		Use:   "delete",
		Short: "Delete a module with its exams and learning times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.tracker.DeleteModule(commandContext(cmd), ref); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q from semester %d\n", ref.Title, ref.Semester)
			return nil
		},
	}

	refFlags(c, &ref)
	return c
}

func moduleListCmd(opts *globalOpts) *cobra.Command {
	var semester int

	c := &cobra.Command{
		Use:   "list",
		Short: "List modules, optionally of one semester",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			p := app.tracker.Program()
			if semester > 0 {
				if _, err := p.LookupSemester(semester); err != nil {
					return err
				}
			}
			printModuleTable(cmd.OutOrStdout(), p, semester)
			return nil
		},
	}

	c.Flags().IntVarP(&semester, "semester", "s", 0, "only this semester")
	return c
}
