package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/gantry/pkg/executor"
)

// RecordingRunner is an executor.Runner that records each command line.
// The first command whose program is FailOn exits with status 1.
type RecordingRunner struct {
	FailOn string

	mu       sync.Mutex
	requests []executor.Request
}

// Run records req and fakes the tool's outcome
func (r *RecordingRunner) Run(ctx context.Context, req executor.Request) (executor.Output, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = append(r.requests, req)
	if len(req.Argv) > 0 && req.Argv[0] == r.FailOn {
		return executor.Output{ExitCode: 1, Stderr: r.FailOn + ": broken"}, fmt.Errorf("exit status 1")
	}
	return executor.Output{}, nil
}

// Ran returns the recorded command lines, words joined by spaces
func (r *RecordingRunner) Ran() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.requests))
	for i, req := range r.requests {
		out[i] = strings.Join(req.Argv, " ")
	}
	return out
}

// Requests returns the recorded requests
func (r *RecordingRunner) Requests() []executor.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]executor.Request(nil), r.requests...)
}
