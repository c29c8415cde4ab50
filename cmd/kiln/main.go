// Package main is the entry point for kiln.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/cmd/kiln/commands"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	_ "go.trai.ch/kiln/internal/wiring"
)

// jsonSwitch is implemented by loggers that can emit JSON.
type jsonSwitch interface {
	SetJSON(enable bool)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		_ = components.Close()
	}()

	var opts []commands.Option
	if l, ok := components.Logger.(jsonSwitch); ok {
		opts = append(opts, commands.WithJSONLogs(l.SetJSON))
	}

	cli := commands.New(components.App, opts...)
	cli.SetArgs(args)

	if err := cli.Execute(ctx); err != nil {
		// Validation failures are already reported per platform.
		if errors.Is(err, domain.ErrValidationFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
