package tasks

import (
	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/errors"
)

// Expand produces one invocation of template per environment, in the order
// given. Each command receives --env=<environment> followed by the template's
// own flags and the environment's variant flags. An environment with no
// entry in variants fails the whole expansion with ErrMissingVariant.
func Expand(name string, template Command, variants map[environment.Environment]Flags, envs []environment.Environment) ([]Invocation, error) {
	out := make([]Invocation, 0, len(envs))
	for _, env := range envs {
		if !env.IsConcrete() {
			return nil, errors.Newf(errors.ErrInternal,
				"task '%s' cannot be expanded for environment %q", name, env).
				WithDetail(errors.DetailTask, name).
				WithDetail(errors.DetailEnvironment, env.String())
		}

		flags, ok := variants[env]
		if !ok {
			return nil, errors.Newf(errors.ErrMissingVariant,
				"task '%s' has no variant for environment '%s'", name, env).
				WithDetail(errors.DetailTask, name).
				WithDetail(errors.DetailEnvironment, env.String())
		}

		cmd := template.clone()
		cmd.Flags = make(Flags, 0, 1+len(template.Flags)+len(flags))
		cmd.Flags = append(cmd.Flags, Str("env", env.String()))
		cmd.Flags = append(cmd.Flags, template.Flags...)
		cmd.Flags = append(cmd.Flags, flags...)

		out = append(out, Invocation{
			Name:    name + ":" + env.String(),
			Task:    name,
			Env:     env,
			Command: &cmd,
		})
	}
	return out, nil
}
