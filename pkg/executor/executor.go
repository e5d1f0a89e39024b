package executor

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/arthur-debert/gantry/pkg/tasks"
	"github.com/rs/zerolog"
)

// Observer is told about step progress, for terminal rendering
type Observer interface {
	StepStarted(index, total int, step tasks.Invocation)
	StepFinished(result StepResult, total int)
}

// Options contains configuration for the executor
type Options struct {
	// Runner spawns external commands; defaults to an ExecRunner
	Runner Runner
	// ProjectRoot is the working directory for commands without their own
	ProjectRoot string
	DryRun      bool
	Observer    Observer
	// Logger defaults to the "executor" component logger
	Logger *zerolog.Logger
}

// Executor runs plans sequentially
type Executor struct {
	runner      Runner
	projectRoot string
	dryRun      bool
	observer    Observer
	logger      zerolog.Logger
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	runner := opts.Runner
	if runner == nil {
		runner = NewExecRunner()
	}

	return &Executor{
		runner:      runner,
		projectRoot: opts.ProjectRoot,
		dryRun:      opts.DryRun,
		observer:    opts.Observer,
		logger:      logger,
	}
}

// Run executes plan's steps in order and halts at the first failure. The
// returned Result is never nil; on failure the error is also returned,
// annotated with the failing step.
func (e *Executor) Run(ctx context.Context, plan *tasks.Plan) (*Result, error) {
	result := &Result{
		Task:   plan.Task,
		Env:    plan.Env,
		Total:  plan.Len(),
		DryRun: e.dryRun,
	}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	e.logger.Info().
		Str("task", plan.Task).
		Str("env", plan.Env.String()).
		Int("steps", plan.Len()).
		Bool("dry_run", e.dryRun).
		Msg("Running plan")

	for i, step := range plan.Steps {
		index := i + 1
		if e.observer != nil {
			e.observer.StepStarted(index, result.Total, step)
		}

		sr := e.runStep(ctx, plan, index, step)
		result.Steps = append(result.Steps, sr)

		if e.observer != nil {
			e.observer.StepFinished(sr, result.Total)
		}

		if sr.Status == StatusFailed {
			e.logger.Error().
				Err(sr.Err).
				Str("task", plan.Task).
				Str("step", step.Name).
				Int("index", index).
				Int("total", result.Total).
				Msg("Plan halted")
			return result, sr.Err
		}
	}

	e.logger.Info().
		Str("task", plan.Task).
		Int("steps", len(result.Steps)).
		Msg("Plan finished")
	return result, nil
}

func (e *Executor) runStep(ctx context.Context, plan *tasks.Plan, index int, step tasks.Invocation) StepResult {
	start := time.Now()
	sr := StepResult{Index: index, Step: step}

	logger := e.logger.With().
		Str("step", step.Name).
		Int("index", index).
		Str("env", step.Env.String()).
		Logger()

	if e.dryRun {
		logger.Info().Str("run", step.String()).Msg("Dry run - step skipped")
		sr.Status = StatusSkipped
		return sr
	}

	var err error
	switch {
	case ctx.Err() != nil:
		code := errors.ErrExternalTool
		if step.IsBuiltin() {
			code = errors.ErrBuiltinFailure
		}
		err = errors.Wrap(ctx.Err(), code, "interrupted before the step started")
	case step.Action != nil:
		logger.Debug().Str("action", step.Action.Describe()).Msg("Running builtin")
		err = e.runBuiltin(ctx, step)
	case step.Command != nil:
		logger.Debug().Str("command", step.Command.String()).Msg("Running command")
		sr.ExitCode, err = e.runCommand(ctx, plan, step)
	default:
		err = errors.Newf(errors.ErrInternal, "step %s has nothing to run", step.Name)
	}

	sr.Duration = time.Since(start)
	if err != nil {
		sr.Status = StatusFailed
		sr.Err = annotate(err, plan, index, step)
		return sr
	}

	sr.Status = StatusSucceeded
	logger.Info().Dur("duration", sr.Duration).Msg("Step succeeded")
	return sr
}

func (e *Executor) runBuiltin(ctx context.Context, step tasks.Invocation) error {
	err := step.Action.Run(ctx, step.Env)
	if err == nil {
		return nil
	}
	if _, ok := err.(*errors.GantryError); ok {
		return err
	}
	return errors.Wrapf(err, errors.ErrBuiltinFailure, "%s failed", step.Action.Describe())
}

func (e *Executor) runCommand(ctx context.Context, plan *tasks.Plan, step tasks.Invocation) (int, error) {
	argv := step.Command.Argv()
	req := Request{
		Argv: argv,
		Dir:  e.workDir(step.Command.Dir),
		Env:  []string{"GANTRY_TASK=" + plan.Task},
	}
	if step.Env != "" {
		req.Env = append(req.Env, "GANTRY_STEP_ENV="+step.Env.String())
	}

	out, err := e.runner.Run(ctx, req)
	if err == nil {
		return 0, nil
	}

	msg := argv[0] + " exited with status " + strconv.Itoa(out.ExitCode)
	if out.ExitCode < 0 {
		msg = argv[0] + " could not be run"
	}
	if ctx.Err() != nil {
		msg = argv[0] + " was interrupted"
	}
	return out.ExitCode, errors.Wrap(err, errors.ErrExternalTool, msg).
		WithDetail(errors.DetailExitCode, out.ExitCode).
		WithDetail(errors.DetailStdout, out.Stdout).
		WithDetail(errors.DetailStderr, out.Stderr).
		WithDetail(errors.DetailCommand, strings.Join(argv, " "))
}

func (e *Executor) workDir(dir string) string {
	switch {
	case dir == "":
		return e.projectRoot
	case filepath.IsAbs(dir) || e.projectRoot == "":
		return dir
	default:
		return filepath.Join(e.projectRoot, dir)
	}
}

// annotate attaches the failing step's coordinates to err
func annotate(err error, plan *tasks.Plan, index int, step tasks.Invocation) error {
	ge, ok := err.(*errors.GantryError)
	if !ok {
		ge = errors.Wrap(err, errors.ErrInternal, "step failed")
	}
	return ge.
		WithDetail(errors.DetailTask, plan.Task).
		WithDetail(errors.DetailStep, step.Name).
		WithDetail(errors.DetailEnvironment, step.Env.String()).
		WithDetail(errors.DetailIndex, index).
		WithDetail(errors.DetailTotal, plan.Len())
}
