package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/hookgate/hookgate/internal/checks"
)

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Probe every external tool hookgate knows about",
		Long: `Doctor runs the same capability probe the engine performs at startup and
prints which tools resolve on PATH. Missing tools are not errors: their
checks are skipped at run time.`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	tools := checks.KnownTools()
	prober := checks.Probe(tools)

	nameWidth := 0
	for _, tool := range tools {
		if w := runewidth.StringWidth(tool); w > nameWidth {
			nameWidth = w
		}
	}

	missing := 0
	for _, tool := range tools {
		status := "available"
		if !prober.Available(tool) {
			status = "not installed"
			missing++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", runewidth.FillRight(tool, nameWidth), status)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d/%d tools available\n", len(tools)-missing, len(tools))
	return nil
}
