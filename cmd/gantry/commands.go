package gantry

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/gantry/internal/version"
	"github.com/arthur-debert/gantry/pkg/core"
	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/executor"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/arthur-debert/gantry/pkg/output"
	"github.com/arthur-debert/gantry/pkg/ui"
	"github.com/spf13/cobra"
)

// reportedError marks a failure whose summary was already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already printed by the command that
// returned it
func IsReported(err error) bool {
	var r *reportedError
	return stderrors.As(err, &r)
}

// report prints err through the printer and marks it as printed. Text
// failures go to stderr; JSON failures are part of the stdout document.
func report(cmd *cobra.Command, g *globalOptions, p output.Printer, err error, res *executor.Result) error {
	target := p
	if g.parsedFormat != ui.FormatJSON {
		if ep, perr := g.printer(cmd.ErrOrStderr()); perr == nil {
			target = ep
		}
	}
	if perr := target.Error(err, res); perr != nil {
		return err
	}
	return &reportedError{err: err}
}

func runTask(cmd *cobra.Command, g *globalOptions, name string) error {
	logger := logging.GetLogger("cmd.run")

	p, err := g.printer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	opts := g.coreOptions()
	opts.Runner = g.runner(cmd)
	opts.Observer = p

	logger.Info().Str("task", name).Str("env", g.env).Bool("dryRun", g.dryRun).Msg("Running task")
	res, err := core.RunTask(cmd.Context(), name, opts)
	if err != nil {
		return report(cmd, g, p, err, res)
	}
	return p.Summary(res)
}

func newRunCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "run [task]",
		Short:             MsgRunShort,
		Long:              MsgRunLong,
		Example:           MsgRunExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: taskNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := core.DefaultTask
			if len(args) == 1 {
				name = args[0]
			}
			return runTask(cmd, g, name)
		},
	}
}

func newPlanCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "plan [task]",
		Short:             MsgPlanShort,
		Long:              MsgPlanLong,
		Example:           MsgPlanExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: taskNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.printer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			result, err := core.PlanTask(name, g.coreOptions())
			if err != nil {
				return report(cmd, g, p, err, nil)
			}
			return p.Plan(result.Plan, result.ProjectRoot)
		},
	}
}

func newTasksCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "tasks",
		Short:   MsgTasksShort,
		Long:    MsgTasksLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.printer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			result, err := core.ListTasks(g.coreOptions())
			if err != nil {
				return report(cmd, g, p, err, nil)
			}
			return p.Tasks(result.Tasks, result.Env)
		},
	}
}

func newConfigCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := core.ShowConfig(g.coreOptions())
			if err != nil {
				return err
			}
			data, err := result.Config.Dump()
			if err != nil {
				return fmt.Errorf(MsgErrConfigDump, err)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, MsgConfigFileHeader, result.ProjectRoot, result.UserConfigPath, result.ProjectConfigPath)
			_, err = w.Write(data)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, MsgVersionFormat, info.Version)
			_, _ = fmt.Fprintf(w, MsgCommitFormat, info.Commit)
			_, _ = fmt.Fprintf(w, MsgBuiltFormat, info.Date)
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			helpCmd, _, err := cmd.Root().Find([]string{"help"})
			if err != nil || helpCmd == nil || helpCmd.Run == nil {
				return stderrors.New(MsgErrHelpMissing)
			}
			helpCmd.Run(helpCmd, []string{"topics"})
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
}

// taskNamesCompletion completes registered task names with their
// descriptions
func taskNamesCompletion(g *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		result, err := core.ListTasks(g.coreOptions())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var names []string
		for _, info := range result.Tasks {
			if !strings.HasPrefix(info.Name, toComplete) {
				continue
			}
			if info.Description != "" {
				names = append(names, info.Name+"\t"+info.Description)
			} else {
				names = append(names, info.Name)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

func envCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, env := range environment.Concrete() {
		names = append(names, env.String())
	}
	names = append(names, environment.All.String())
	return names, cobra.ShellCompDirectiveNoFileComp
}
