package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/ui/style"
)

func (c *CLI) newLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock [package@version...]",
		Short: "Pin dependencies for every supported platform",
		Long: "Pin the given dependencies in the lock file for every supported platform.\n" +
			"Without arguments, every previously pinned dependency is refreshed.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := workingDir(cmd)
			if err != nil {
				return err
			}

			res, err := c.app.Lock(cmd.Context(), cwd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, key := range res.Packages {
				_, _ = fmt.Fprintln(out, style.Success("pinned %s", key))
			}
			_, _ = fmt.Fprint(out, style.KeyValues("",
				style.KV("lock", res.Path),
				style.KV("digest", res.Digest),
			))
			return nil
		},
	}
}
