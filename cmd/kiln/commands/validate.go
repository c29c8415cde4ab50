package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/ui/style"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the project resolves on every supported platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := workingDir(cmd)
			if err != nil {
				return err
			}

			report, err := c.app.Validate(cmd.Context(), cwd)
			if report == nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range report.Platforms {
				if failure, failed := report.Failures[p]; failed {
					_, _ = fmt.Fprintln(out, style.Failure("%s: %v", p, failure))
					continue
				}
				_, _ = fmt.Fprintln(out, style.Success("%s", p))
			}
			return err
		},
	}
}
