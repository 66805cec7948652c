package checks

// AggregateResult is the fold over every runner outcome of one engine run.
// Built once all applicable checks have completed, then handed to the
// reporter to decide the process exit code.
type AggregateResult struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Aggregate collects outcomes in execution order.
func Aggregate(outcomes []Outcome) AggregateResult {
	return AggregateResult{Outcomes: outcomes}
}

// Blocking returns the failed outcomes, in execution order.
func (r AggregateResult) Blocking() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Blocking() {
			out = append(out, o)
		}
	}
	return out
}

// Advisory returns every non-failed outcome, in execution order.
func (r AggregateResult) Advisory() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Blocking() {
			out = append(out, o)
		}
	}
	return out
}

// Blocked reports whether any check failed. A single failure blocks no
// matter how many other checks passed, warned, or were skipped.
func (r AggregateResult) Blocked() bool {
	for _, o := range r.Outcomes {
		if o.Blocking() {
			return true
		}
	}
	return false
}
