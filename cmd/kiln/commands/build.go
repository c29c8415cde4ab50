package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/ui/style"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Plan the package for one platform and store the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := workingDir(cmd)
			if err != nil {
				return err
			}

			platform, _ := cmd.Flags().GetString("platform")
			plan, err := c.app.Build(cmd.Context(), cwd, app.BuildOptions{
				Platform: domain.PlatformID(platform),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, style.Success("planned %s", plan.Ref()))
			_, _ = fmt.Fprint(out, style.KeyValues("  ",
				style.KV("id", plan.ID),
				style.KV("platform", plan.Platform.String()),
				style.KV("inputs", strconv.Itoa(len(plan.Inputs))),
			))
			return nil
		},
	}
	cmd.Flags().StringP("platform", "p", "", "Platform to plan for (defaults to the running machine)")
	return cmd
}
