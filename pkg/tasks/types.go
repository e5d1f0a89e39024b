package tasks

import (
	"context"

	"github.com/arthur-debert/gantry/pkg/environment"
)

// Kind identifies the variant of a Task
type Kind string

const (
	KindLeaf      Kind = "leaf"
	KindBuiltin   Kind = "builtin"
	KindVariants  Kind = "variants"
	KindComposite Kind = "composite"
	KindBranch    Kind = "branch"
)

// Task is a node of the task graph. The set of implementations is closed.
type Task interface {
	Kind() Kind
	Description() string
	task()
}

// Action is work performed in-process by a Builtin task.
// env is the concrete environment, or "" when the plan targets all.
type Action interface {
	Run(ctx context.Context, env environment.Environment) error
	// Describe renders the action for plan listings
	Describe() string
}

// Leaf runs one external command
type Leaf struct {
	Command Command
	Desc    string
}

// Builtin runs one in-process action
type Builtin struct {
	Action Action
	Desc   string
}

// Variants runs Template once per environment with that environment's flags
type Variants struct {
	Template Command
	Flags    map[environment.Environment]Flags
	Desc     string
}

// Environments lists the environments env stands for that have a flag set.
// All covers only the configured ones; a concrete env is returned as is so
// that a missing variant is reported by Expand.
func (t Variants) Environments(env environment.Environment) []environment.Environment {
	if !env.IsAll() {
		return environment.Expand(env)
	}
	var out []environment.Environment
	for _, e := range environment.Concrete() {
		if _, ok := t.Flags[e]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Composite runs its children in order
type Composite struct {
	Children []string
	Desc     string
}

// Selector picks the children of a Branch for the resolved environment,
// which may be environment.All.
type Selector func(env environment.Environment) []string

// Branch is a composite whose children are chosen at resolution time
type Branch struct {
	Select Selector
	// Options lists every name Select may return, for listings
	Options []string
	Desc    string
}

func (Leaf) Kind() Kind      { return KindLeaf }
func (Builtin) Kind() Kind   { return KindBuiltin }
func (Variants) Kind() Kind  { return KindVariants }
func (Composite) Kind() Kind { return KindComposite }
func (Branch) Kind() Kind    { return KindBranch }

func (t Leaf) Description() string      { return t.Desc }
func (t Builtin) Description() string   { return t.Desc }
func (t Variants) Description() string  { return t.Desc }
func (t Composite) Description() string { return t.Desc }
func (t Branch) Description() string    { return t.Desc }

func (Leaf) task()      {}
func (Builtin) task()   {}
func (Variants) task()  {}
func (Composite) task() {}
func (Branch) task()    {}

// Invocation is one step of a Plan
type Invocation struct {
	// Name identifies the step, "cache:prod" for a variant
	Name string
	// Task is the registered task the step came from
	Task string
	// Env is the concrete environment, or "" for environment-independent
	// steps of a plan that targets all
	Env environment.Environment
	// Exactly one of Command and Action is set
	Command *Command
	Action  Action
}

// IsBuiltin reports whether the step runs in-process
func (i Invocation) IsBuiltin() bool {
	return i.Action != nil
}

// String renders the step's command line or builtin description
func (i Invocation) String() string {
	if i.Action != nil {
		return i.Action.Describe()
	}
	if i.Command != nil {
		return i.Command.String()
	}
	return ""
}

// Plan is the flattened, ordered list of steps for one request
type Plan struct {
	Task  string
	Env   environment.Environment
	Steps []Invocation
}

// Len returns the number of steps
func (p *Plan) Len() int {
	return len(p.Steps)
}

// Names returns the step names in order
func (p *Plan) Names() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Name
	}
	return names
}
