package tasks

import (
	"strings"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/arthur-debert/gantry/pkg/registry"
	"github.com/rs/zerolog"
)

// Registry holds the task graph. It is filled during startup and sealed
// before the first resolution.
type Registry struct {
	tasks  registry.Registry[Task]
	logger zerolog.Logger
}

// NewRegistry creates an empty task registry
func NewRegistry() *Registry {
	return &Registry{
		tasks: registry.New[Task](registry.Options{
			Kind:          "task",
			DuplicateCode: errors.ErrDuplicateTask,
			MissingCode:   errors.ErrUnknownTask,
		}),
		logger: logging.GetLogger("tasks.registry"),
	}
}

// Register adds a task under name
func (r *Registry) Register(name string, t Task) error {
	if t == nil {
		return errors.Newf(errors.ErrInvalidInput, "task '%s' has no definition", name)
	}
	if err := validate(name, t); err != nil {
		return err
	}
	if err := r.tasks.Register(name, t); err != nil {
		return err
	}
	r.logger.Trace().Str("task", name).Str("kind", string(t.Kind())).Msg("Task registered")
	return nil
}

// MustRegister registers t and panics on error
func (r *Registry) MustRegister(name string, t Task) {
	if err := r.Register(name, t); err != nil {
		panic(err)
	}
}

// Seal prevents further registration
func (r *Registry) Seal() {
	r.tasks.Seal()
}

// Get returns the task registered under name
func (r *Registry) Get(name string) (Task, error) {
	return r.tasks.Get(name)
}

// Has reports whether name is registered
func (r *Registry) Has(name string) bool {
	return r.tasks.Has(name)
}

// Names returns the registered task names in registration order
func (r *Registry) Names() []string {
	return r.tasks.Names()
}

func validate(name string, t Task) error {
	switch v := t.(type) {
	case Leaf:
		if v.Command.Program == "" {
			return errors.Newf(errors.ErrInvalidInput, "task '%s' has no program", name)
		}
	case Builtin:
		if v.Action == nil {
			return errors.Newf(errors.ErrInvalidInput, "task '%s' has no action", name)
		}
	case Variants:
		if v.Template.Program == "" {
			return errors.Newf(errors.ErrInvalidInput, "task '%s' has no program", name)
		}
	case Composite:
		for _, child := range v.Children {
			if child == "" {
				return errors.Newf(errors.ErrInvalidInput, "task '%s' has an empty child name", name)
			}
		}
	case Branch:
		if v.Select == nil {
			return errors.Newf(errors.ErrInvalidInput, "task '%s' has no selector", name)
		}
	}
	return nil
}

// Resolve flattens the named task into a Plan for env
func (r *Registry) Resolve(name string, env environment.Environment) (*Plan, error) {
	if !env.IsConcrete() && !env.IsAll() {
		return nil, errors.Newf(errors.ErrInvalidEnvironment, "unknown environment %q", env).
			WithDetail(errors.DetailEnvironment, env.String())
	}

	res := &resolution{
		reg:     r,
		env:     env,
		onStack: make(map[string]bool),
	}
	if err := res.visit(name, ""); err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("task", name).
		Str("env", env.String()).
		Int("steps", len(res.steps)).
		Msg("Plan resolved")

	return &Plan{Task: name, Env: env, Steps: res.steps}, nil
}

// resolution carries the recursion state of one Resolve call
type resolution struct {
	reg     *Registry
	env     environment.Environment
	stack   []string
	onStack map[string]bool
	steps   []Invocation
}

func (res *resolution) visit(name, parent string) error {
	if res.onStack[name] {
		cycle := append(append([]string(nil), res.stack...), name)
		return errors.Newf(errors.ErrCyclicTask, "task '%s' includes itself: %s", name, strings.Join(cycle, " -> ")).
			WithDetail(errors.DetailTask, name).
			WithDetail(errors.DetailCycle, cycle)
	}

	t, err := res.reg.tasks.Get(name)
	if err != nil {
		if parent != "" {
			return errors.Newf(errors.ErrUnknownTask, "task '%s' is not registered (required by '%s')", name, parent).
				WithDetail(errors.DetailTask, name).
				WithDetail("parent", parent)
		}
		return err
	}

	res.onStack[name] = true
	res.stack = append(res.stack, name)
	defer func() {
		res.stack = res.stack[:len(res.stack)-1]
		delete(res.onStack, name)
	}()

	switch v := t.(type) {
	case Leaf:
		cmd := v.Command.clone()
		res.steps = append(res.steps, Invocation{Name: name, Task: name, Env: res.leafEnv(), Command: &cmd})
	case Builtin:
		res.steps = append(res.steps, Invocation{Name: name, Task: name, Env: res.leafEnv(), Action: v.Action})
	case Variants:
		steps, err := Expand(name, v.Template, v.Flags, v.Environments(res.env))
		if err != nil {
			return err
		}
		res.steps = append(res.steps, steps...)
	case Composite:
		return res.visitAll(name, v.Children)
	case Branch:
		return res.visitAll(name, v.Select(res.env))
	default:
		return errors.Newf(errors.ErrInternal, "task '%s' has unsupported kind %T", name, t)
	}
	return nil
}

func (res *resolution) visitAll(parent string, children []string) error {
	for _, child := range children {
		if err := res.visit(child, parent); err != nil {
			return err
		}
	}
	return nil
}

// leafEnv keeps the All sentinel away from single steps
func (res *resolution) leafEnv() environment.Environment {
	if res.env.IsAll() {
		return ""
	}
	return res.env
}
