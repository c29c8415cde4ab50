package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/ui/style"
)

func (c *CLI) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the loaded project configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := workingDir(cmd)
			if err != nil {
				return err
			}

			project, err := c.app.Show(cwd)
			if err != nil {
				return err
			}

			platforms := "all"
			if len(project.Platforms) > 0 {
				names := make([]string, 0, len(project.Platforms))
				for _, p := range project.Platforms {
					names = append(names, p.String())
				}
				platforms = strings.Join(names, ", ")
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), style.KeyValues("",
				style.KV("package", project.Name+"-"+project.Version),
				style.KV("root", project.Root),
				style.KV("source", project.SourceRoot),
				style.KV("toolchain", project.Toolchain),
				style.KV("lock", project.LockPath),
				style.KV("platforms", platforms),
				style.KV("module", project.Module.Name),
				style.KV("enable", fmt.Sprintf("%t", project.Module.Default)),
			))
			return nil
		},
	}
}
