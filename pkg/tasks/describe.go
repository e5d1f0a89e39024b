package tasks

import (
	"github.com/arthur-debert/gantry/pkg/environment"
)

// Info is a display-oriented summary of a registered task
type Info struct {
	Name        string
	Kind        Kind
	Description string
	// Children lists static children, or every option of a branch
	Children []string
	// Environments lists the configured variants in declared order
	Environments []environment.Environment
	// Command is the rendered command or builtin description
	Command string
}

// Describe summarises the task registered under name
func (r *Registry) Describe(name string) (Info, error) {
	t, err := r.tasks.Get(name)
	if err != nil {
		return Info{}, err
	}

	info := Info{Name: name, Kind: t.Kind(), Description: t.Description()}
	switch v := t.(type) {
	case Leaf:
		info.Command = v.Command.String()
	case Builtin:
		info.Command = v.Action.Describe()
	case Variants:
		info.Command = v.Template.String()
		info.Environments = v.Environments(environment.All)
	case Composite:
		info.Children = append(info.Children, v.Children...)
	case Branch:
		info.Children = append(info.Children, v.Options...)
	}
	return info, nil
}

// DescribeAll summarises every task in registration order
func (r *Registry) DescribeAll() []Info {
	names := r.Names()
	out := make([]Info, 0, len(names))
	for _, name := range names {
		if info, err := r.Describe(name); err == nil {
			out = append(out, info)
		}
	}
	return out
}
