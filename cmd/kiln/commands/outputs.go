package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/compose"
	"go.trai.ch/kiln/internal/ui/style"
)

type outputsJSON struct {
	Packages *domain.OutputMapping `json:"packages"`
	Failures map[string]string     `json:"failures,omitempty"`
	Module   moduleJSON            `json:"module"`
}

type moduleJSON struct {
	Name      string              `json:"name"`
	Default   bool                `json:"default"`
	Platforms []domain.PlatformID `json:"platforms"`
}

func (c *CLI) newOutputsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Show the package export for every platform and the module export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := workingDir(cmd)
			if err != nil {
				return err
			}

			comp, err := c.app.Outputs(cmd.Context(), cwd)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return writeOutputsJSON(cmd.OutOrStdout(), comp)
			}
			writeOutputsTable(cmd.OutOrStdout(), comp)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the outputs as JSON")
	return cmd
}

func writeOutputsJSON(w io.Writer, comp *compose.Composition) error {
	out := outputsJSON{
		Packages: comp.Packages,
		Module: moduleJSON{
			Name:      comp.ModuleName,
			Default:   comp.Module.Default(),
			Platforms: comp.Module.Supported().Slice(),
		},
	}
	if len(comp.Failures) > 0 {
		out.Failures = make(map[string]string, len(comp.Failures))
		for p, err := range comp.Failures {
			out.Failures[p.String()] = err.Error()
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeOutputsTable(w io.Writer, comp *compose.Composition) {
	var rows [][]string
	for _, p := range comp.Module.Supported().Slice() {
		if d, ok := comp.Packages.Get(p); ok {
			rows = append(rows, []string{p.String(), d.Ref(), d.ID, style.Check})
			continue
		}
		rows = append(rows, []string{p.String(), "", "", style.Cross + " " + comp.Failures[p].Error()})
	}

	_, _ = fmt.Fprintln(w, style.Table([]string{"PLATFORM", "PACKAGE", "ID", "STATUS"}, rows))
	_, _ = fmt.Fprint(w, style.KeyValues("",
		style.KV("module", comp.ModuleName),
		style.KV("enable", fmt.Sprintf("%t", comp.Module.Default())),
	))
}
