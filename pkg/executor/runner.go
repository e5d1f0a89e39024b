package executor

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/rs/zerolog"
)

// Request is one external command to spawn
type Request struct {
	Argv []string
	Dir  string
	// Env is appended to the current process environment
	Env []string
}

// Output is what a finished command left behind
type Output struct {
	// ExitCode is -1 when the process never started or was killed
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner spawns external commands
type Runner interface {
	Run(ctx context.Context, req Request) (Output, error)
}

// ExecRunner runs commands with os/exec, teeing their output to Stdout and
// Stderr while capturing it
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	logger zerolog.Logger
}

// NewExecRunner creates a runner that streams to the process's own
// stdout and stderr
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logging.GetLogger("executor.runner"),
	}
}

// Run spawns req and waits for it. A non-zero exit is returned as the
// *exec.ExitError from os/exec with the exit code set in Output.
func (r *ExecRunner) Run(ctx context.Context, req Request) (Output, error) {
	out := Output{ExitCode: -1}
	if len(req.Argv) == 0 || req.Argv[0] == "" {
		return out, exec.ErrNotFound
	}

	logging.LogCommand(r.logger, req.Argv[0], req.Argv[1:])

	cmd := exec.CommandContext(ctx, req.Argv[0], req.Argv[1:]...)
	cmd.Dir = req.Dir
	cmd.Env = append(os.Environ(), req.Env...)
	cmd.Stdin = os.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(writerOrDiscard(r.Stdout), &stdout)
	cmd.Stderr = io.MultiWriter(writerOrDiscard(r.Stderr), &stderr)

	err := cmd.Run()
	out.Stdout = stdout.String()
	out.Stderr = stderr.String()
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	if stdout.Len() > 0 {
		r.logger.Trace().Str("output", out.Stdout).Msg("Command stdout")
	}
	if stderr.Len() > 0 {
		r.logger.Trace().Str("output", out.Stderr).Msg("Command stderr")
	}
	return out, err
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
