package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/infra/config"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase"
)

func initCmd() *cobra.Command {
	var dir string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Write a starter studytrack.yaml into a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := dir
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root = wd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("invalid directory: %w", err)
			}

			uc := usecase.NewInitWorkspace(config.NewInitializer())
			if err := uc.Execute(root, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", filepath.Join(root, config.FileName))
			return nil
		},
	}

	c.Flags().StringVarP(&dir, "dir", "d", "", "target directory (default: working directory)")
	c.Flags().BoolVar(&force, "force", false, "overwrite an existing studytrack.yaml")
	return c
}
