// Package report formats aggregated check results for the calling harness.
// Advisory output goes to stdout and never changes the exit code; blocking
// output goes to stderr with exit code 2 so the harness rejects completion.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hookgate/hookgate/internal/checks"
)

// Mode selects how failures affect the process exit code.
type Mode string

const (
	// ModeAdvisory reports everything but always exits 0.
	ModeAdvisory Mode = "advisory"
	// ModeBlocking exits 2 when any check failed.
	ModeBlocking Mode = "blocking"
)

// Exit codes meaningful to the calling harness.
const (
	// ExitClear means nothing failed, or the run was advisory.
	ExitClear = 0
	// ExitBlocked tells the harness to reject completion and feed the
	// stderr message back to the acting agent.
	ExitBlocked = 2
)

// ParseMode validates a mode string from flags or configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAdvisory, ModeBlocking:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q (want %q or %q)", s, ModeAdvisory, ModeBlocking)
	}
}

var statusTag = map[checks.Status]string{
	checks.StatusPassed:  "PASS",
	checks.StatusWarned:  "WARN",
	checks.StatusFailed:  "FAIL",
	checks.StatusSkipped: "SKIP",
}

// Reporter writes run results to the harness's two channels.
type Reporter struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Report emits the result in text form and returns the process exit code.
func (r *Reporter) Report(result checks.AggregateResult, mode Mode) int {
	if mode == ModeBlocking {
		if !result.Blocked() {
			fmt.Fprintf(r.Stdout, "All checks clear (%d run).\n", len(result.Outcomes))
			return ExitClear
		}
		r.writeBlocking(result)
		return ExitBlocked
	}

	r.writeAdvisory(result)
	return ExitClear
}

// ReportJSON emits the result as a machine-readable document. The exit-code
// decision is identical to Report.
func (r *Reporter) ReportJSON(result checks.AggregateResult, mode Mode) (int, error) {
	doc := struct {
		Mode     Mode             `json:"mode"`
		Blocked  bool             `json:"blocked"`
		Outcomes []checks.Outcome `json:"outcomes"`
	}{Mode: mode, Blocked: result.Blocked(), Outcomes: result.Outcomes}

	enc := json.NewEncoder(r.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return ExitClear, fmt.Errorf("encoding result: %w", err)
	}

	if mode == ModeBlocking && result.Blocked() {
		return ExitBlocked, nil
	}
	return ExitClear, nil
}

// writeAdvisory prints failed items first so the agent sees them even when
// its harness truncates hook output, then everything else.
func (r *Reporter) writeAdvisory(result checks.AggregateResult) {
	for _, o := range result.Blocking() {
		writeOutcome(r.Stdout, o)
	}
	for _, o := range result.Advisory() {
		writeOutcome(r.Stdout, o)
	}
}

func (r *Reporter) writeBlocking(result checks.AggregateResult) {
	blocking := result.Blocking()
	fmt.Fprintf(r.Stderr, "%d check(s) failed:\n\n", len(blocking))
	for _, o := range blocking {
		writeOutcome(r.Stderr, o)
	}
	fmt.Fprintln(r.Stderr, "\nFix these issues before completing.")
}

func writeOutcome(w io.Writer, o checks.Outcome) {
	fmt.Fprintf(w, "[%s] %s\n", statusTag[o.Status], o.Message)
	for _, line := range o.Details {
		fmt.Fprintf(w, "    %s\n", strings.TrimRight(line, "\n"))
	}
}
