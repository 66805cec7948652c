package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/hookgate/hookgate/internal/config"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter .hookgate.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	cmd.Flags().Bool("defaults", false, "Write the built-in defaults without prompting")
	cmd.Flags().Bool("force", false, "Overwrite an existing .hookgate.yaml")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	path := filepath.Join(dir, ".hookgate.yaml")

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.New()

	useDefaults, _ := cmd.Flags().GetBool("defaults")
	if !useDefaults && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := promptForConfig(cfg); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	header := []byte("# hookgate project configuration\n# See `hookgate run --help` for event semantics.\n")
	if err := os.WriteFile(path, append(header, data...), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

// promptForConfig collects the settings people most often change. Everything
// else keeps the built-in default and can be edited in the file afterwards.
func promptForConfig(cfg *config.Config) error {
	postEdit := cfg.Events[config.EventPostEdit]
	reportPath := cfg.Report

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Per-edit hook mode").
				Description("Advisory hooks inform the agent; blocking hooks reject completion.").
				Options(
					huh.NewOption("advisory (recommended for per-edit)", "advisory"),
					huh.NewOption("blocking", "blocking"),
				).
				Value(&postEdit.Mode),
			huh.NewInput().
				Title("Markdown report path").
				Description("Leave empty to skip report generation.").
				Value(&reportPath),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("running init form: %w", err)
	}

	cfg.Events[config.EventPostEdit] = postEdit
	cfg.Report = reportPath
	return nil
}
