package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hookgate/hookgate/internal/project"
)

func newDetectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [dir]",
		Short: "Show which ecosystems hookgate detects in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDetect,
	}
	cmd.Flags().String("format", "text", "Output format: text | json")
	return cmd
}

func runDetect(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	profile := project.Detect(dir)

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	case "text":
		if profile.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "No ecosystem markers found.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Detected: %s\n", strings.Join(profile.Ecosystems(), ", "))
		if profile.HasNode {
			fmt.Fprintf(cmd.OutOrStdout(), "  node: test script=%v, node_modules=%v\n",
				profile.HasNodeTestScript, profile.HasNodeModules)
		}
		return nil
	default:
		return fmt.Errorf("invalid format %q (want text or json)", format)
	}
}
