package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hookgate",
		Short: "hookgate - quality-gate engine for AI coding assistant hooks",
		Long: `hookgate is the check engine behind AI-coding-assistant lifecycle hooks.

A harness (Claude Code, Kiro CLI, OpenCode) invokes it after a file edit, a
task, or a session, piping a JSON payload on stdin. hookgate detects the
project's ecosystems, runs the applicable external tools (tests, linters,
type checkers, security scanners, dependency audits) with bounded timeouts,
and reports advisorily (exit 0) or blockingly (exit 2).`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newDetectCommand())
	cmd.AddCommand(newDoctorCommand())
	cmd.AddCommand(newManifestCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
