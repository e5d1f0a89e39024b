package executor

import (
	"time"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/tasks"
)

// Status is the outcome of one step
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// StepResult records one executed step
type StepResult struct {
	// Index is the 1-based position of the step in the plan
	Index    int
	Step     tasks.Invocation
	Status   Status
	Duration time.Duration
	// ExitCode is set for failed external commands
	ExitCode int
	Err      error
}

// Result is the outcome of a plan run. Steps holds every step that was
// started, in order; steps after a failure are absent.
type Result struct {
	Task     string
	Env      environment.Environment
	Total    int
	DryRun   bool
	Steps    []StepResult
	Duration time.Duration
}

// Succeeded reports whether every step ran without failing
func (r *Result) Succeeded() bool {
	return r.Failed() == nil && len(r.Steps) == r.Total
}

// Failed returns the failing step, or nil
func (r *Result) Failed() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Status == StatusFailed {
			return &r.Steps[i]
		}
	}
	return nil
}

// Completed returns the steps that finished successfully
func (r *Result) Completed() []StepResult {
	var done []StepResult
	for _, s := range r.Steps {
		if s.Status == StatusSucceeded {
			done = append(done, s)
		}
	}
	return done
}

// Skipped returns the steps recorded but not run in dry-run mode
func (r *Result) Skipped() []StepResult {
	var skipped []StepResult
	for _, s := range r.Steps {
		if s.Status == StatusSkipped {
			skipped = append(skipped, s)
		}
	}
	return skipped
}
