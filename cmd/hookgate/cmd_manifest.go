package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hookgate/hookgate/internal/config"
	"github.com/hookgate/hookgate/internal/manifest"
)

func newManifestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest [dir]",
		Short: "Generate a JSON manifest and Markdown index of agent/skill prompts",
		Long: `Manifest scans the configured prompt directories (agents/, skills/ by
default) for markdown files, extracts their YAML front matter, verifies that
relative links resolve, and writes manifest.json plus INDEX.md.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runManifest,
	}
	cmd.Flags().StringSlice("dirs", nil, "Directories to scan (overrides configuration)")
	cmd.Flags().String("output", "", "Output directory (overrides configuration)")
	return cmd
}

func runManifest(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	dirs, _ := cmd.Flags().GetStringSlice("dirs")
	if len(dirs) == 0 {
		dirs = cfg.Manifest.Dirs
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.Manifest.Output
	}

	m, err := manifest.Scan(root, dirs, time.Now())
	if err != nil {
		return err
	}

	if err := m.WriteJSON(output); err != nil {
		return err
	}
	if err := m.WriteIndex(output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d prompt file(s) into %s\n", len(m.Entries), output)
	missing := 0
	for _, e := range m.Entries {
		if e.MissingFrontmatter {
			missing++
			fmt.Fprintf(cmd.OutOrStdout(), "  no front matter: %s\n", e.Path)
		}
	}
	for _, link := range m.BrokenLinks {
		fmt.Fprintf(cmd.OutOrStdout(), "  broken link: %s\n", link)
	}
	return nil
}
