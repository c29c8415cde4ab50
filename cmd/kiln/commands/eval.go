package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/ui/style"
)

func (c *CLI) newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the module export against a host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := workingDir(cmd)
			if err != nil {
				return err
			}

			hostPath, _ := cmd.Flags().GetString("host")
			platform, _ := cmd.Flags().GetString("platform")
			write, _ := cmd.Flags().GetBool("write")

			opts := app.EvalOptions{
				HostPath: hostPath,
				Platform: domain.PlatformID(platform),
				Write:    write,
			}
			if cmd.Flags().Changed("enable") {
				enable, _ := cmd.Flags().GetBool("enable")
				opts.Enable = &enable
			}

			res, err := c.app.Eval(cmd.Context(), cwd, opts)
			if err != nil {
				return err
			}

			effect := res.Effect.Kind.String()
			if res.Effect.Kind == domain.EffectInstall {
				effect += " " + res.Effect.Descriptor.Ref()
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprint(out, style.KeyValues("",
				style.KV("module", res.Module),
				style.KV("platform", res.Host.Platform.String()),
				style.KV("effect", effect),
				style.KV("changed", fmt.Sprintf("%t", res.Changed)),
			))

			if len(res.Installed) == 0 {
				return nil
			}
			_, _ = fmt.Fprintln(out, "installed:")
			for _, p := range res.Installed {
				_, _ = fmt.Fprintf(out, "  %s %s-%s (%s)\n", style.Dot, p.Name, p.Version, p.ID)
			}
			return nil
		},
	}
	cmd.Flags().String("host", "", "Host configuration file to evaluate against")
	cmd.Flags().StringP("platform", "p", "", "Override the host platform")
	cmd.Flags().Bool("enable", false, "Override the module toggle")
	cmd.Flags().BoolP("write", "w", false, "Write the merged installed set back to the host file")
	return cmd
}
