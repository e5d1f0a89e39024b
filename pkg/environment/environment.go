// Package environment models the deployment targets a task can run against.
//
// The set of environments is closed and ordered. The sentinel All stands for
// every environment and must be expanded before any step is built from it.
package environment

import (
	"os"
	"strings"

	"github.com/arthur-debert/gantry/pkg/errors"
)

// Environment is a named deployment target
type Environment string

const (
	Prod  Environment = "prod"
	Stage Environment = "stage"
	QA    Environment = "qa"
	Test  Environment = "test"
	Dev   Environment = "dev"
	Local Environment = "local"

	// All expands to every environment in declared order
	All Environment = "all"
)

// DefaultVariable is the process variable consulted when no flag is given
const DefaultVariable = "GANTRY_ENV"

// declared is the canonical ordering used by Expand
var declared = [...]Environment{Prod, Stage, QA, Test, Dev, Local}

// Concrete returns the concrete environments in declared order
func Concrete() []Environment {
	out := make([]Environment, len(declared))
	copy(out, declared[:])
	return out
}

// String returns the environment name
func (e Environment) String() string {
	return string(e)
}

// IsAll reports whether e is the All sentinel
func (e Environment) IsAll() bool {
	return e == All
}

// IsConcrete reports whether e is a member of the declared set
func (e Environment) IsConcrete() bool {
	for _, d := range declared {
		if d == e {
			return true
		}
	}
	return false
}

// Parse converts a string into an Environment. Surrounding whitespace is
// ignored; matching is case sensitive.
func Parse(s string) (Environment, error) {
	env := Environment(strings.TrimSpace(s))
	if env.IsConcrete() || env.IsAll() {
		return env, nil
	}
	return "", errors.Newf(errors.ErrInvalidEnvironment,
		"unknown environment %q (expected one of %s or all)", s, joined()).
		WithDetail(errors.DetailEnvironment, s)
}

// LookupFunc reads a process variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Resolver determines the active environment
type Resolver struct {
	// Variable is the process variable consulted after the flag
	Variable string
	// Default is used when neither flag nor variable yields a value
	Default string
	// Lookup defaults to os.LookupEnv
	Lookup LookupFunc
}

// Resolve picks the flag value if non-empty, then the configured process
// variable, then the default, and validates the result.
func (r Resolver) Resolve(flag string) (Environment, error) {
	lookup := r.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return Resolve(flag, r.Variable, r.Default, lookup)
}

// Resolve is the functional form of Resolver.Resolve
func Resolve(flag, variable, def string, lookup LookupFunc) (Environment, error) {
	if strings.TrimSpace(flag) != "" {
		return Parse(flag)
	}
	if variable != "" && lookup != nil {
		if v, ok := lookup(variable); ok && strings.TrimSpace(v) != "" {
			return Parse(v)
		}
	}
	return Parse(def)
}

// Expand returns the concrete environments e stands for: e itself, or the
// whole declared set when e is All.
func Expand(e Environment) []Environment {
	if e.IsAll() {
		return Concrete()
	}
	return []Environment{e}
}

func joined() string {
	names := make([]string, len(declared))
	for i, d := range declared {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}
