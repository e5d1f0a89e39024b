package tasks

import (
	"strconv"
	"strings"
)

// Flag is a single --name or --name=value command line option
type Flag struct {
	Name string
	// Value is rendered as --name=value when non-empty
	Value string
	// Switch renders as --name when Value is empty
	Switch bool
}

// Bool returns an enabled switch flag
func Bool(name string) Flag {
	return Flag{Name: name, Switch: true}
}

// Str returns a valued flag
func Str(name, value string) Flag {
	return Flag{Name: name, Value: value}
}

// Arg renders the flag, or "" when it is a disabled switch
func (f Flag) Arg() string {
	switch {
	case f.Value != "":
		return "--" + f.Name + "=" + f.Value
	case f.Switch:
		return "--" + f.Name
	default:
		return ""
	}
}

// Flags is an ordered flag set. Order is preserved when rendering.
type Flags []Flag

// Args renders every enabled flag in declaration order
func (fs Flags) Args() []string {
	args := make([]string, 0, len(fs))
	for _, f := range fs {
		if a := f.Arg(); a != "" {
			args = append(args, a)
		}
	}
	return args
}

// Command is an external tool invocation template
type Command struct {
	Program string
	Args    []string
	Flags   Flags
	// Dir is the working directory; empty means the project root
	Dir string
}

// clone returns a copy that shares no slices with c
func (c Command) clone() Command {
	c.Args = append([]string(nil), c.Args...)
	c.Flags = append(Flags(nil), c.Flags...)
	return c
}

// Argv returns the program followed by its arguments and rendered flags
func (c Command) Argv() []string {
	argv := make([]string, 0, 1+len(c.Args)+len(c.Flags))
	argv = append(argv, c.Program)
	argv = append(argv, c.Args...)
	argv = append(argv, c.Flags.Args()...)
	return argv
}

// String renders the command for display, quoting words a shell would split
func (c Command) String() string {
	argv := c.Argv()
	words := make([]string, len(argv))
	for i, w := range argv {
		if w == "" || strings.ContainsAny(w, " \t\n\"'|&;$<>()*?") {
			words[i] = strconv.Quote(w)
		} else {
			words[i] = w
		}
	}
	return strings.Join(words, " ")
}
