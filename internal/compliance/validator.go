package compliance

import (
	"strings"

	"gossipc/internal/schema"
)

// CheckResult is the outcome of one check.
type CheckResult struct {
	ID         CheckID  `json:"id"`
	Passed     bool     `json:"passed"`
	Violations []string `json:"violations,omitempty"`
}

// Report is the verdict over a component set. Passed is the AND of every
// check result.
type Report struct {
	Passed  bool          `json:"passed"`
	Results []CheckResult `json:"results"`
}

// Failing lists the checks that did not pass, in evaluation order.
func (r Report) Failing() []CheckID {
	var out []CheckID
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res.ID)
		}
	}
	return out
}

// String summarises failing checks, e.g. "fire_safety, accessibility".
func (r Report) String() string {
	if r.Passed {
		return "all checks passed"
	}
	ids := r.Failing()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

// Validator runs a fixed battery of checks.
type Validator struct {
	checks []Check
}

// NewValidator creates a validator running checks in the given order.
func NewValidator(checks ...Check) *Validator {
	return &Validator{checks: checks}
}

// NewDefaultValidator runs the four standard checks under p.
func NewDefaultValidator(p Policy) *Validator {
	return NewValidator(DefaultChecks(p)...)
}

// Validate evaluates every check; a failing check never stops the others.
// Each check sees its own copy of the components.
func (v *Validator) Validate(components []schema.Component) Report {
	report := Report{Passed: true, Results: make([]CheckResult, 0, len(v.checks))}
	for _, c := range v.checks {
		violations := c.Evaluate(schema.CloneAll(components))
		res := CheckResult{ID: c.ID(), Passed: len(violations) == 0, Violations: violations}
		if !res.Passed {
			report.Passed = false
		}
		report.Results = append(report.Results, res)
	}
	return report
}
