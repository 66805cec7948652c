// Package checks defines the external-tool check engine: the static check
// table, tool capability probing, the subprocess runner with bounded
// timeouts, per-tool output classification, and outcome aggregation.
package checks

import (
	"time"

	"github.com/hookgate/hookgate/internal/project"
)

// Status is the four-way classification of a single check outcome.
type Status string

const (
	// StatusSkipped means the tool or its inputs were absent. Not an error.
	StatusSkipped Status = "skipped"
	// StatusPassed means the check met its acceptance criteria.
	StatusPassed Status = "passed"
	// StatusWarned is a non-blocking signal, e.g. medium-severity findings.
	StatusWarned Status = "warned"
	// StatusFailed blocks completion in blocking mode. Includes timeouts.
	StatusFailed Status = "failed"
)

// Family groups checks by what they verify. Event configuration selects
// checks by family, not by individual name.
type Family string

const (
	FamilyTest      Family = "test"
	FamilyLint      Family = "lint"
	FamilyTypecheck Family = "typecheck"
	FamilySecurity  Family = "security"
	FamilyAudit     Family = "audit"
)

// Outcome holds the result of one check invocation. Immutable once created;
// consumed only by Aggregate.
type Outcome struct {
	// Check is the name of the Definition that produced this outcome.
	Check   string   `json:"check"`
	Status  Status   `json:"status"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	// TimedOut marks the timeout variant of a failure, so callers can
	// distinguish a killed subprocess from an ordinary non-zero exit.
	TimedOut bool `json:"timedOut,omitempty"`
}

// Blocking reports whether this outcome blocks completion.
func (o Outcome) Blocking() bool {
	return o.Status == StatusFailed
}

// Classifier turns a finished subprocess into outcomes. Implementations are
// tool-family specific. The first returned outcome is the primary one
// (Passed or Failed); any further outcomes must be Warned supplements.
type Classifier interface {
	Classify(exitCode int, output string) []Outcome
}

// Definition describes one check: which tool it runs, when it applies, and
// how its output is read. Definitions are static configuration; the registry
// never mutates them after construction.
type Definition struct {
	// Name is a stable identifier, e.g. "python-tests".
	Name string
	// Label prefixes user-facing messages, e.g. "Python tests".
	Label string
	// Family and Ecosystem drive selection and filtering.
	Family    Family
	Ecosystem string
	// Tool is the external binary resolved on PATH before running.
	Tool string
	// Args are the arguments passed to Tool.
	Args []string
	// Timeout bounds the subprocess wall clock.
	Timeout time.Duration
	// Applies may veto the run when the project lacks the inputs the tool
	// needs. Returning false with a reason yields a Skipped outcome without
	// spawning a subprocess. A nil Applies always applies.
	Applies func(dir string, p project.Profile) (bool, string)
	// Classify maps (exit code, combined output) to outcomes.
	Classify Classifier
}
