package checks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/hookgate/hookgate/internal/project"
)

// timeoutExitCode is the conventional exit code of an external timeout
// wrapper (timeout(1)) killing its child. Treated the same as our own
// context deadline so classification is identical either way.
const timeoutExitCode = 124

// Runner executes checks one at a time against a project directory.
type Runner struct {
	Dir    string
	Prober *Prober
}

// Run executes a single check and returns its outcomes. Every selected
// definition yields exactly one primary outcome: tool-missing and
// not-applicable short-circuit to Skipped without spawning a subprocess,
// and subprocess failures of any kind are converted into Failed outcomes
// rather than errors.
func (r *Runner) Run(ctx context.Context, def Definition, profile project.Profile) []Outcome {
	if !r.Prober.Available(def.Tool) {
		return []Outcome{{
			Check:   def.Name,
			Status:  StatusSkipped,
			Message: def.Tool + " not installed",
		}}
	}

	if def.Applies != nil {
		if ok, reason := def.Applies(r.Dir, profile); !ok {
			return []Outcome{{Check: def.Name, Status: StatusSkipped, Message: reason}}
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, def.Timeout)
	defer cancel()

	//nolint:gosec // tool names and args come from the static check table
	cmd := exec.CommandContext(runCtx, def.Tool, def.Args...)
	cmd.Dir = r.Dir

	slog.Debug("running check", "check", def.Name, "tool", def.Tool, "timeout", def.Timeout)
	output, err := cmd.CombinedOutput()

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			exitCode = exitErr.ExitCode()
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			exitCode = timeoutExitCode
		default:
			// Spawn failure (tool vanished between probe and run, permission
			// problem). Converted into data like every other check failure.
			return []Outcome{{
				Check:   def.Name,
				Status:  StatusFailed,
				Message: fmt.Sprintf("%s: failed to run: %v", def.Label, err),
			}}
		}
	}

	if exitCode == timeoutExitCode || errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return []Outcome{{
			Check:    def.Name,
			Status:   StatusFailed,
			TimedOut: true,
			Message:  fmt.Sprintf("%s: TIMED OUT after %ds", def.Label, int(def.Timeout.Seconds())),
		}}
	}

	outcomes := def.Classify.Classify(exitCode, string(output))
	for i := range outcomes {
		outcomes[i].Check = def.Name
	}
	return outcomes
}
