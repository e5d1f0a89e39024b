package core

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/gantry/pkg/config"
	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/executor"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/arthur-debert/gantry/pkg/output/styles"
	"github.com/arthur-debert/gantry/pkg/paths"
	"github.com/arthur-debert/gantry/pkg/pipeline"
	"github.com/arthur-debert/gantry/pkg/tasks"
	"github.com/rs/zerolog"
)

// Options are shared by every core operation
type Options struct {
	// ProjectRoot is discovered when empty
	ProjectRoot string
	// Env is the --env flag value; empty falls through to the variable
	Env string
	// DryRun records every step as skipped instead of running it
	DryRun bool
	// Lookup reads process variables; defaults to os.LookupEnv
	Lookup environment.LookupFunc
	// ConfigOverrides are applied over every configuration layer
	ConfigOverrides map[string]interface{}
	// SkipEnvConfig ignores GANTRY_<SECTION>_<KEY> variables
	SkipEnvConfig bool
	// Runner spawns external commands; defaults to an executor.ExecRunner
	Runner executor.Runner
	// Observer receives step progress
	Observer executor.Observer
}

// Session is a loaded project: its paths, configuration, active
// environment and sealed task catalogue
type Session struct {
	Paths    paths.Paths
	Config   *config.Config
	Env      environment.Environment
	Registry *tasks.Registry

	executor *executor.Executor
	logger   zerolog.Logger
}

// Open loads the project described by opts
func Open(opts Options) (*Session, error) {
	logger := logging.GetLogger("core.session")
	done := logging.LogOperationStart(logger, "open")
	defer done()

	p, err := paths.New(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}
	if p.UsedFallback() {
		logger.Debug().Str("root", p.ProjectRoot()).Msg("No repository found, using the working directory")
	}

	cfg, err := config.Load(config.LoadOptions{
		UserConfigPath:    p.UserConfigPath(),
		ProjectConfigPath: p.ProjectConfigPath(),
		Overrides:         opts.ConfigOverrides,
		SkipEnv:           opts.SkipEnvConfig,
	})
	if err != nil {
		return nil, err
	}

	if file := cfg.Output.Styles; file != "" {
		if !filepath.IsAbs(file) {
			file = filepath.Join(p.ProjectRoot(), file)
		}
		if err := styles.LoadStyles(file); err != nil {
			return nil, err
		}
		logger.Debug().Str("file", file).Msg("Styles loaded")
	}

	resolver := cfg.Resolver()
	resolver.Lookup = opts.Lookup
	env, err := resolver.Resolve(opts.Env)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Paths:  p,
		Config: cfg,
		Env:    env,
		logger: logger,
	}
	s.executor = executor.New(executor.Options{
		Runner:      opts.Runner,
		ProjectRoot: p.ProjectRoot(),
		DryRun:      opts.DryRun,
		Observer:    opts.Observer,
	})

	reg, err := pipeline.Build(pipeline.Options{
		Config:      cfg,
		ProjectRoot: p.ProjectRoot(),
		RunPlan:     s.runPlan,
	})
	if err != nil {
		return nil, err
	}
	s.Registry = reg

	logger.Debug().
		Str("root", p.ProjectRoot()).
		Str("env", env.String()).
		Msg("Session opened")
	return s, nil
}

// Plan flattens the named task for the session's environment
func (s *Session) Plan(name string) (*tasks.Plan, error) {
	return s.Registry.Resolve(name, s.Env)
}

// Run resolves and executes the named task. The Result is nil only when
// resolution failed.
func (s *Session) Run(ctx context.Context, name string) (*executor.Result, error) {
	plan, err := s.Plan(name)
	if err != nil {
		return nil, err
	}
	return s.executor.Run(ctx, plan)
}

// runPlan lets the watch task run its rebuilds through the session executor
func (s *Session) runPlan(ctx context.Context, plan *tasks.Plan) error {
	_, err := s.executor.Run(ctx, plan)
	return err
}
