package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stored plans and cached index responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := workingDir(cmd)
			if err != nil {
				return err
			}

			cache, _ := cmd.Flags().GetBool("cache")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{}
			switch {
			case all:
				opts.Store = true
				opts.Cache = true
			case cache:
				opts.Cache = true
			default:
				opts.Store = true
			}

			return c.app.Clean(cmd.Context(), cwd, opts)
		},
	}

	cmd.Flags().BoolP("cache", "c", false, "Clean the package index cache")
	cmd.Flags().BoolP("all", "a", false, "Clean the plan store and the package index cache")

	return cmd
}
