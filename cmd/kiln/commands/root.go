// Package commands implements the CLI commands for kiln.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/compose"
)

// CLI represents the command line interface for kiln.
type CLI struct {
	app        Application
	rootCmd    *cobra.Command
	onJSONLogs func(bool)
}

// Application represents the application logic interface.
type Application interface {
	Outputs(ctx context.Context, cwd string) (*compose.Composition, error)
	Build(ctx context.Context, cwd string, opts app.BuildOptions) (domain.BuildDescriptor, error)
	Eval(ctx context.Context, cwd string, opts app.EvalOptions) (*app.EvalResult, error)
	Lock(ctx context.Context, cwd string, specs []string) (*app.LockResult, error)
	Validate(ctx context.Context, cwd string) (*app.ValidationReport, error)
	Show(cwd string) (*domain.Project, error)
	Clean(ctx context.Context, cwd string, opts app.CleanOptions) error
}

// Option configures a CLI.
type Option func(*CLI)

// WithJSONLogs registers the callback invoked with the value of --json-logs before any command runs.
func WithJSONLogs(fn func(bool)) Option {
	return func(c *CLI) {
		c.onJSONLogs = fn
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "kiln",
		Short:         "Compose a package and its module export for every platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("dir", "C", "", "Run as if kiln was started in this directory")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.onJSONLogs == nil {
			return
		}
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		c.onJSONLogs(jsonLogs)
	}

	rootCmd.AddCommand(c.newOutputsCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newEvalCmd())
	rootCmd.AddCommand(c.newLockCmd())
	rootCmd.AddCommand(c.newValidateCmd())
	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// workingDir returns the directory given with --dir, or the process working directory.
func workingDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}
