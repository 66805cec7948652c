package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hookgate/hookgate/internal/checks"
	"github.com/hookgate/hookgate/internal/project"
)

// recommendations are the static follow-up suggestions appended to every
// report, matching what the original hook scripts printed.
var recommendations = []string{
	"Address failing checks before merging.",
	"Treat medium-severity security findings as technical debt with an owner.",
	"Keep dependency audits green; pin and upgrade on a schedule.",
}

// WriteMarkdown renders the run result as a Markdown document at path,
// fully overwriting any previous report. The report is independent of the
// exit-code decision.
func WriteMarkdown(path string, result checks.AggregateResult, profile project.Profile, now time.Time) error {
	var b strings.Builder

	b.WriteString("# hookgate report\n\n")

	status := "CLEAR"
	if result.Blocked() {
		status = "BLOCKED"
	}
	b.WriteString(fmt.Sprintf("**Status:** %s | **Checks:** %d | **Generated:** %s\n\n",
		status, len(result.Outcomes), now.UTC().Format(time.RFC3339)))

	if ecosystems := profile.Ecosystems(); len(ecosystems) > 0 {
		b.WriteString(fmt.Sprintf("Detected ecosystems: %s\n\n", strings.Join(ecosystems, ", ")))
	}

	if blocking := result.Blocking(); len(blocking) > 0 {
		b.WriteString("## Blocking issues\n\n")
		for _, o := range blocking {
			b.WriteString(fmt.Sprintf("- ❌ %s\n", o.Message))
			for _, line := range o.Details {
				b.WriteString(fmt.Sprintf("  - `%s`\n", strings.TrimSpace(line)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Checks performed\n\n")
	for _, o := range result.Outcomes {
		icon := map[checks.Status]string{
			checks.StatusPassed:  "✅",
			checks.StatusWarned:  "⚠️",
			checks.StatusFailed:  "❌",
			checks.StatusSkipped: "⏭️",
		}[o.Status]
		b.WriteString(fmt.Sprintf("- %s %s — %s\n", icon, o.Check, o.Message))
	}
	b.WriteString("\n## Recommendations\n\n")
	for _, rec := range recommendations {
		b.WriteString(fmt.Sprintf("- %s\n", rec))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
