package tasks

import (
	"context"
	"fmt"
	"testing"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAction struct {
	label string
	runs  int
}

func (a *recordingAction) Run(ctx context.Context, env environment.Environment) error {
	a.runs++
	return nil
}

func (a *recordingAction) Describe() string { return "builtin " + a.label }

func leaf(program string, args ...string) Leaf {
	return Leaf{Command: Command{Program: program, Args: args}}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("npm", leaf("npm", "install")))

	t.Run("duplicate", func(t *testing.T) {
		err := r.Register("npm", leaf("npm", "ci"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateTask), "got %v", err)
	})

	t.Run("invalid_definitions", func(t *testing.T) {
		cases := map[string]Task{
			"no-program":  Leaf{},
			"no-action":   Builtin{},
			"no-template": Variants{},
			"empty-child": Composite{Children: []string{"npm", ""}},
			"no-selector": Branch{},
		}
		for name, task := range cases {
			err := r.Register(name, task)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "%s: got %v", name, err)
			assert.False(t, r.Has(name))
		}
		assert.True(t, errors.IsErrorCode(r.Register("nil", nil), errors.ErrInvalidInput))
	})

	t.Run("sealed", func(t *testing.T) {
		r.Seal()
		err := r.Register("late", leaf("late"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
	})
}

func TestResolveLeaf(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("migrate", Leaf{Command: Command{
		Program: "php",
		Args:    []string{"app/console", "doctrine:migrations:migrate"},
		Flags:   Flags{Bool("no-interaction")},
	}})

	plan, err := r.Resolve("migrate", environment.Dev)
	require.NoError(t, err)
	require.Equal(t, 1, plan.Len())

	step := plan.Steps[0]
	assert.Equal(t, "migrate", step.Name)
	assert.Equal(t, environment.Dev, step.Env)
	assert.False(t, step.IsBuiltin())
	assert.Equal(t, []string{"php", "app/console", "doctrine:migrations:migrate", "--no-interaction"}, step.Command.Argv())
}

func TestResolveCompositeOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"a1", "a2", "b1", "c1", "c2", "d"} {
		r.MustRegister(name, leaf(name))
	}
	r.MustRegister("a", Composite{Children: []string{"a1", "a2"}})
	r.MustRegister("c", Composite{Children: []string{"c1", "c2"}})
	r.MustRegister("b", Composite{Children: []string{"b1", "c"}})
	r.MustRegister("top", Composite{Children: []string{"a", "b", "d"}})

	plan, err := r.Resolve("top", environment.Dev)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "b1", "c1", "c2", "d"}, plan.Names())
	assert.Equal(t, "top", plan.Task)
	assert.Equal(t, environment.Dev, plan.Env)
}

func TestResolveRepeatedTaskIsNotACycle(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("npm", leaf("npm", "install"))
	r.MustRegister("vendor", Composite{Children: []string{"npm"}})
	r.MustRegister("twice", Composite{Children: []string{"vendor", "npm"}})

	plan, err := r.Resolve("twice", environment.Dev)
	require.NoError(t, err)
	assert.Equal(t, []string{"npm", "npm"}, plan.Names())
}

func TestResolveUnknown(t *testing.T) {
	action := &recordingAction{label: "never"}
	r := NewRegistry()
	r.MustRegister("first", Builtin{Action: action})
	r.MustRegister("parent", Composite{Children: []string{"first", "ghost"}})

	t.Run("top_level", func(t *testing.T) {
		plan, err := r.Resolve("nope", environment.Dev)
		assert.Nil(t, plan)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownTask), "got %v", err)
	})

	t.Run("child", func(t *testing.T) {
		plan, err := r.Resolve("parent", environment.Dev)
		assert.Nil(t, plan)
		require.True(t, errors.IsErrorCode(err, errors.ErrUnknownTask), "got %v", err)
		assert.Equal(t, "parent", errors.GetErrorDetails(err)["parent"])
	})

	assert.Zero(t, action.runs, "resolution must never run a step")
}

func TestResolveCycles(t *testing.T) {
	tests := []struct {
		name      string
		register  func(r *Registry)
		start     string
		wantCycle []string
	}{
		{
			name: "self",
			register: func(r *Registry) {
				r.MustRegister("loop", Composite{Children: []string{"loop"}})
			},
			start:     "loop",
			wantCycle: []string{"loop", "loop"},
		},
		{
			name: "chain",
			register: func(r *Registry) {
				r.MustRegister("leaf", leaf("true"))
				r.MustRegister("a", Composite{Children: []string{"leaf", "b"}})
				r.MustRegister("b", Composite{Children: []string{"c"}})
				r.MustRegister("c", Composite{Children: []string{"a"}})
			},
			start:     "a",
			wantCycle: []string{"a", "b", "c", "a"},
		},
		{
			name: "through_branch",
			register: func(r *Registry) {
				r.MustRegister("pick", Branch{Select: func(environment.Environment) []string { return []string{"outer"} }})
				r.MustRegister("outer", Composite{Children: []string{"pick"}})
			},
			start:     "outer",
			wantCycle: []string{"outer", "pick", "outer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			tt.register(r)

			_, err := r.Resolve(tt.start, environment.Dev)
			require.True(t, errors.IsErrorCode(err, errors.ErrCyclicTask), "got %v", err)
			assert.Equal(t, tt.wantCycle, errors.GetErrorDetails(err)[errors.DetailCycle])
		})
	}
}

func TestResolveBranch(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("clean", leaf("clean"))
	r.MustRegister("copy", leaf("copy"))

	var seen []environment.Environment
	r.MustRegister("configure", Branch{
		Options: []string{"clean", "copy"},
		Select: func(env environment.Environment) []string {
			seen = append(seen, env)
			if env == environment.Prod {
				return []string{"clean"}
			}
			return []string{"copy"}
		},
	})

	for _, env := range environment.Concrete() {
		plan, err := r.Resolve("configure", env)
		require.NoError(t, err)
		if env == environment.Prod {
			assert.Equal(t, []string{"clean"}, plan.Names())
		} else {
			assert.Equal(t, []string{"copy"}, plan.Names(), "env %s", env)
		}
	}
	assert.Equal(t, environment.Concrete(), seen)
}

func TestResolveVariants(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("cache", Variants{
		Template: Command{Program: "php", Args: []string{"app/console", "cache:clear"}},
		Flags: map[environment.Environment]Flags{
			environment.Prod:  {Bool("no-debug"), Bool("no-warmup")},
			environment.Stage: {Bool("no-debug"), Bool("no-warmup")},
			environment.QA:    {Bool("no-debug"), Bool("no-warmup")},
			environment.Test:  {Bool("no-warmup")},
			environment.Dev:   {Bool("no-warmup")},
			environment.Local: {Bool("no-warmup")},
		},
	})

	t.Run("single", func(t *testing.T) {
		plan, err := r.Resolve("cache", environment.Prod)
		require.NoError(t, err)
		require.Equal(t, 1, plan.Len())
		assert.Equal(t, "cache:prod", plan.Steps[0].Name)
		assert.Equal(t, "php app/console cache:clear --env=prod --no-debug --no-warmup", plan.Steps[0].String())
	})

	t.Run("all", func(t *testing.T) {
		plan, err := r.Resolve("cache", environment.All)
		require.NoError(t, err)

		var want []string
		for _, env := range environment.Concrete() {
			want = append(want, "cache:"+env.String())
		}
		assert.Equal(t, want, plan.Names())
		for _, step := range plan.Steps {
			assert.True(t, step.Env.IsConcrete())
		}
	})
}

func TestResolveVariantsPartial(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("cache", Variants{
		Template: Command{Program: "php", Args: []string{"app/console", "cache:clear"}},
		Flags: map[environment.Environment]Flags{
			environment.Prod: {Bool("no-debug")},
			environment.Dev:  {},
		},
	})

	t.Run("all covers configured environments", func(t *testing.T) {
		plan, err := r.Resolve("cache", environment.All)
		require.NoError(t, err)
		assert.Equal(t, []string{"cache:prod", "cache:dev"}, plan.Names())
	})

	t.Run("unconfigured environment", func(t *testing.T) {
		_, err := r.Resolve("cache", environment.QA)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMissingVariant))
		assert.Equal(t, "qa", errors.GetErrorDetails(err)[errors.DetailEnvironment])
	})
}

func TestResolveLeafDoesNotShareCommand(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("migrate", Leaf{Command: Command{
		Program: "php",
		Args:    []string{"app/console", "doctrine:migrations:migrate"},
		Flags:   Flags{Bool("no-interaction")},
	}})

	plan, err := r.Resolve("migrate", environment.Dev)
	require.NoError(t, err)
	plan.Steps[0].Command.Args[0] = "changed"
	plan.Steps[0].Command.Flags[0] = Bool("changed")

	again, err := r.Resolve("migrate", environment.Dev)
	require.NoError(t, err)
	assert.Equal(t, "php app/console doctrine:migrations:migrate --no-interaction", again.Steps[0].String())
}

func TestResolveAllNeverReachesSteps(t *testing.T) {
	r := NewRegistry()
	action := &recordingAction{label: "copy"}
	r.MustRegister("npm", leaf("npm", "install"))
	r.MustRegister("copy", Builtin{Action: action})
	r.MustRegister("both", Composite{Children: []string{"npm", "copy"}})

	plan, err := r.Resolve("both", environment.All)
	require.NoError(t, err)
	for _, step := range plan.Steps {
		assert.False(t, step.Env.IsAll(), "step %s", step.Name)
		assert.Equal(t, environment.Environment(""), step.Env)
	}
	assert.Equal(t, "builtin copy", plan.Steps[1].String())
}

func TestResolveMissingVariant(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("dump", Variants{
		Template: Command{Program: "php", Args: []string{"app/console", "assetic:dump"}},
		Flags: map[environment.Environment]Flags{
			environment.Prod: {Bool("no-debug")},
			environment.Dev:  {},
		},
	})
	r.MustRegister("deploy", Composite{Children: []string{"dump"}})

	_, err := r.Resolve("deploy", environment.QA)
	require.True(t, errors.IsErrorCode(err, errors.ErrMissingVariant), "got %v", err)
	assert.Equal(t, "qa", errors.GetErrorDetails(err)[errors.DetailEnvironment])

	_, err = r.Resolve("deploy", environment.All)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingVariant))

	plan, err := r.Resolve("deploy", environment.Dev)
	require.NoError(t, err)
	assert.Equal(t, "php app/console assetic:dump --env=dev", plan.Steps[0].String())
}

func TestResolveInvalidEnvironment(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("npm", leaf("npm"))
	_, err := r.Resolve("npm", environment.Environment("moon"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidEnvironment))
}

func TestDescribe(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("npm", Leaf{Command: Command{Program: "npm", Args: []string{"install"}}, Desc: "Install node modules"})
	r.MustRegister("copy", Builtin{Action: &recordingAction{label: "x"}})
	r.MustRegister("vendor", Composite{Children: []string{"npm"}})
	r.MustRegister("pick", Branch{Options: []string{"npm", "copy"}, Select: func(environment.Environment) []string { return nil }})
	r.MustRegister("cache", Variants{
		Template: Command{Program: "php"},
		Flags: map[environment.Environment]Flags{
			environment.Local: {},
			environment.Prod:  {},
		},
	})

	infos := r.DescribeAll()
	require.Len(t, infos, 5)

	assert.Equal(t, Info{Name: "npm", Kind: KindLeaf, Description: "Install node modules", Command: "npm install"}, infos[0])
	assert.Equal(t, "builtin x", infos[1].Command)
	assert.Equal(t, []string{"npm"}, infos[2].Children)
	assert.Equal(t, []string{"npm", "copy"}, infos[3].Children)
	assert.Equal(t, []environment.Environment{environment.Prod, environment.Local}, infos[4].Environments)

	_, err := r.Describe("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownTask))
}

func ExampleRegistry_Resolve() {
	r := NewRegistry()
	r.MustRegister("init", Leaf{Command: Command{Program: "git", Args: []string{"submodule", "init"}}})
	r.MustRegister("update", Leaf{Command: Command{Program: "git", Args: []string{"submodule", "update"}}})
	r.MustRegister("submodules", Composite{Children: []string{"init", "update"}})
	r.Seal()

	plan, _ := r.Resolve("submodules", environment.Dev)
	for _, step := range plan.Steps {
		fmt.Println(step.String())
	}
	// Output:
	// git submodule init
	// git submodule update
}
