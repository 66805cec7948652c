package checks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// tailLines is how much of a failing test run's output we keep.
	tailLines = 15
	// headLines is how many findings a lint/type failure message carries.
	headLines = 10
)

var (
	highSeverityRe   = regexp.MustCompile(`(?i)severity:\s*high`)
	mediumSeverityRe = regexp.MustCompile(`(?i)severity:\s*medium`)
	lintFindingRe    = regexp.MustCompile(`^\S+:\d+:\d+`)
	vulnCountRe      = regexp.MustCompile(`"(?:high|critical)"\s*:\s*(\d+)`)
)

// testClassifier reads a test runner's result: exit 0 passes, anything else
// fails with the tail of the run attached for diagnosis.
type testClassifier struct {
	label string
}

func (c testClassifier) Classify(exitCode int, output string) []Outcome {
	if exitCode == 0 {
		return []Outcome{{Status: StatusPassed, Message: c.label + ": passed"}}
	}
	return []Outcome{{
		Status:  StatusFailed,
		Message: c.label + ": FAILED",
		Details: lastLines(output, tailLines),
	}}
}

// securityClassifier counts severity lines in a bandit-style report. High
// findings fail the check; medium findings add a non-blocking warning.
type securityClassifier struct {
	label string
}

func (c securityClassifier) Classify(exitCode int, output string) []Outcome {
	high := countMatchingLines(output, highSeverityRe)
	medium := countMatchingLines(output, mediumSeverityRe)

	var out []Outcome
	if high > 0 {
		out = append(out, Outcome{
			Status:  StatusFailed,
			Message: fmt.Sprintf("%s: %d HIGH severity issues", c.label, high),
			Details: firstMatchingLines(output, highSeverityRe, headLines),
		})
	} else {
		out = append(out, Outcome{Status: StatusPassed, Message: c.label + ": no high severity issues"})
	}
	if medium > 0 {
		out = append(out, Outcome{
			Status:  StatusWarned,
			Message: fmt.Sprintf("%s: %d MEDIUM severity issues", c.label, medium),
		})
	}
	return out
}

// auditClassifier reads a dependency auditor's result. Exit 0 passes.
// Otherwise it looks for a "high":N / "critical":N count or a generic
// "found" keyword; output it cannot interpret only warns.
type auditClassifier struct {
	label string
}

func (c auditClassifier) Classify(exitCode int, output string) []Outcome {
	if exitCode == 0 {
		return []Outcome{{Status: StatusPassed, Message: c.label + ": no known vulnerabilities"}}
	}

	total := 0
	for _, m := range vulnCountRe.FindAllStringSubmatch(output, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		total += n
	}
	if total > 0 {
		return []Outcome{{
			Status:  StatusFailed,
			Message: fmt.Sprintf("%s: %d high/critical vulnerabilities", c.label, total),
			Details: lastLines(output, tailLines),
		}}
	}
	if strings.Contains(strings.ToLower(output), "found") {
		return []Outcome{{
			Status:  StatusFailed,
			Message: c.label + ": vulnerabilities found",
			Details: lastLines(output, tailLines),
		}}
	}
	return []Outcome{{
		Status:  StatusWarned,
		Message: c.label + ": audit exited non-zero but reported no interpretable vulnerability count",
	}}
}

// lintClassifier counts file:line:col findings. A non-zero exit with no
// parseable findings is downgraded to a warning so a crashing linter does
// not masquerade as a lint failure.
type lintClassifier struct {
	label string
}

func (c lintClassifier) Classify(exitCode int, output string) []Outcome {
	if exitCode == 0 {
		return []Outcome{{Status: StatusPassed, Message: c.label + ": clean"}}
	}
	findings := countMatchingLines(output, lintFindingRe)
	if findings == 0 {
		return []Outcome{{
			Status:  StatusWarned,
			Message: fmt.Sprintf("%s: exited %d without parseable findings", c.label, exitCode),
		}}
	}
	return []Outcome{{
		Status:  StatusFailed,
		Message: fmt.Sprintf("%s: %d issues", c.label, findings),
		Details: firstMatchingLines(output, lintFindingRe, headLines),
	}}
}

// typecheckClassifier counts ": error:" lines in mypy-style output.
type typecheckClassifier struct {
	label string
}

func (c typecheckClassifier) Classify(exitCode int, output string) []Outcome {
	if exitCode == 0 {
		return []Outcome{{Status: StatusPassed, Message: c.label + ": clean"}}
	}
	errors := 0
	var matched []string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, ": error:") {
			errors++
			if len(matched) < headLines {
				matched = append(matched, line)
			}
		}
	}
	if errors == 0 {
		return []Outcome{{
			Status:  StatusWarned,
			Message: fmt.Sprintf("%s: exited %d without parseable errors", c.label, exitCode),
		}}
	}
	return []Outcome{{
		Status:  StatusFailed,
		Message: fmt.Sprintf("%s: %d type errors", c.label, errors),
		Details: matched,
	}}
}

func splitLines(output string) []string {
	return strings.Split(strings.TrimRight(output, "\n"), "\n")
}

func countMatchingLines(output string, re *regexp.Regexp) int {
	n := 0
	for _, line := range splitLines(output) {
		if re.MatchString(line) {
			n++
		}
	}
	return n
}

func firstMatchingLines(output string, re *regexp.Regexp, max int) []string {
	var out []string
	for _, line := range splitLines(output) {
		if re.MatchString(line) {
			out = append(out, line)
			if len(out) == max {
				break
			}
		}
	}
	return out
}

func lastLines(output string, max int) []string {
	lines := splitLines(output)
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return lines
}
