package core

import (
	"context"

	"github.com/arthur-debert/gantry/pkg/config"
	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/executor"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/arthur-debert/gantry/pkg/tasks"
)

// DefaultTask runs when no task name is given
const DefaultTask = "default"

// PlanResult is a resolved plan together with where it would run
type PlanResult struct {
	Plan        *tasks.Plan
	ProjectRoot string
}

// ListTasksResult describes the catalogue
type ListTasksResult struct {
	Tasks []tasks.Info
	Env   environment.Environment
}

// ConfigResult is the effective configuration and where it came from
type ConfigResult struct {
	Config            *config.Config
	ProjectRoot       string
	UserConfigPath    string
	ProjectConfigPath string
}

// PlanTask resolves name without running anything
func PlanTask(name string, opts Options) (*PlanResult, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "PlanTask").Str("task", name).Msg("Executing command")

	s, err := Open(opts)
	if err != nil {
		return nil, err
	}
	plan, err := s.Plan(taskName(name))
	if err != nil {
		return nil, err
	}

	log.Info().Str("command", "PlanTask").Str("task", plan.Task).Int("steps", plan.Len()).Msg("Command finished")
	return &PlanResult{Plan: plan, ProjectRoot: s.Paths.ProjectRoot()}, nil
}

// RunTask resolves and executes name. The Result is returned alongside a
// run failure so callers can report the completed steps.
func RunTask(ctx context.Context, name string, opts Options) (*executor.Result, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "RunTask").Str("task", name).Bool("dry_run", opts.DryRun).Msg("Executing command")

	s, err := Open(opts)
	if err != nil {
		return nil, err
	}
	result, err := s.Run(ctx, taskName(name))
	if err != nil {
		return result, err
	}

	log.Info().
		Str("command", "RunTask").
		Str("task", result.Task).
		Int("steps", len(result.Steps)).
		Dur("duration", result.Duration).
		Msg("Command finished")
	return result, nil
}

// ListTasks describes every registered task in registration order
func ListTasks(opts Options) (*ListTasksResult, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "ListTasks").Msg("Executing command")

	s, err := Open(opts)
	if err != nil {
		return nil, err
	}
	infos := s.Registry.DescribeAll()

	log.Info().Str("command", "ListTasks").Int("taskCount", len(infos)).Msg("Command finished")
	return &ListTasksResult{Tasks: infos, Env: s.Env}, nil
}

// ShowConfig returns the effective configuration
func ShowConfig(opts Options) (*ConfigResult, error) {
	s, err := Open(opts)
	if err != nil {
		return nil, err
	}
	return &ConfigResult{
		Config:            s.Config,
		ProjectRoot:       s.Paths.ProjectRoot(),
		UserConfigPath:    s.Paths.UserConfigPath(),
		ProjectConfigPath: s.Paths.ProjectConfigPath(),
	}, nil
}

func taskName(name string) string {
	if name == "" {
		return DefaultTask
	}
	return name
}
