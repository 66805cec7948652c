// Package engine orchestrates one hook run: detect the project, select the
// applicable checks, execute them sequentially, and aggregate the outcomes.
package engine

import (
	"context"
	"log/slog"

	"github.com/hookgate/hookgate/internal/checks"
	"github.com/hookgate/hookgate/internal/project"
)

// Result bundles what one run produced.
type Result struct {
	Profile   project.Profile
	Aggregate checks.AggregateResult
}

// Run executes the check pipeline for dir. When no ecosystem is detected no
// subprocess is ever spawned and the aggregate is empty (vacuously clear).
// Checks run strictly one after another; a failing check never aborts the
// run, it only contributes a failed outcome.
func Run(ctx context.Context, dir string, opts checks.Options) Result {
	profile := project.Detect(dir)
	if profile.Empty() {
		slog.Debug("no ecosystem markers found", "dir", dir)
		return Result{Profile: profile}
	}

	defs := checks.Select(profile, opts)
	if len(defs) == 0 {
		return Result{Profile: profile}
	}

	tools := make([]string, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, def.Tool)
	}

	runner := &checks.Runner{Dir: dir, Prober: checks.Probe(tools)}

	var outcomes []checks.Outcome
	for _, def := range defs {
		outcomes = append(outcomes, runner.Run(ctx, def, profile)...)
	}

	return Result{Profile: profile, Aggregate: checks.Aggregate(outcomes)}
}
