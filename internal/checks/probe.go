package checks

import (
	"log/slog"
	"os/exec"
	"sort"
)

// Prober answers "is this tool installed" from a one-time capability scan.
// Every runner consults the same immutable map instead of re-probing PATH
// per check.
type Prober struct {
	available map[string]bool
}

// Probe resolves each distinct tool name on PATH exactly once.
func Probe(tools []string) *Prober {
	available := make(map[string]bool, len(tools))
	for _, tool := range tools {
		if _, seen := available[tool]; seen {
			continue
		}
		_, err := exec.LookPath(tool)
		available[tool] = err == nil
		slog.Debug("probed tool", "tool", tool, "available", err == nil)
	}
	return &Prober{available: available}
}

// Available reports whether tool resolved on PATH during the probe pass.
// Tools that were never probed count as unavailable.
func (p *Prober) Available(tool string) bool {
	return p.available[tool]
}

// Tools returns the probed tool names, sorted.
func (p *Prober) Tools() []string {
	out := make([]string, 0, len(p.available))
	for tool := range p.available {
		out = append(out, tool)
	}
	sort.Strings(out)
	return out
}
