package gantry

import (
	"embed"
	"fmt"
	"io"
	"io/fs"

	"github.com/arthur-debert/gantry/internal/version"
	"github.com/arthur-debert/gantry/pkg/cobrax/topics"
	"github.com/arthur-debert/gantry/pkg/core"
	"github.com/arthur-debert/gantry/pkg/executor"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/arthur-debert/gantry/pkg/output"
	"github.com/arthur-debert/gantry/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbosity int
	env       string
	dryRun    bool
	project   string
	noColor   bool
	format    string

	parsedFormat ui.Format
}

// coreOptions translates the flags for the core commands
func (g *globalOptions) coreOptions() core.Options {
	return core.Options{
		ProjectRoot: g.project,
		Env:         g.env,
		DryRun:      g.dryRun,
	}
}

// printer creates the result printer for w
func (g *globalOptions) printer(w io.Writer) (output.Printer, error) {
	return output.New(g.parsedFormat, w, g.noColor)
}

// runner streams tool output through the command's writers. JSON output
// keeps stdout for the result document, so tools write to stderr.
func (g *globalOptions) runner(cmd *cobra.Command) executor.Runner {
	r := executor.NewExecRunner()
	r.Stdout = cmd.OutOrStdout()
	r.Stderr = cmd.ErrOrStderr()
	if g.parsedFormat == ui.FormatJSON {
		r.Stdout = cmd.ErrOrStderr()
	}
	return r
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "gantry [task]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Get().Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(g.verbosity, g.noColor)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			format, err := ui.ParseFormat(g.format)
			if err != nil {
				return fmt.Errorf(MsgErrFormat, err)
			}
			g.parsedFormat = format
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := core.DefaultTask
			if len(args) == 1 {
				name = args[0]
			}
			return runTask(cmd, g, name)
		},
		ValidArgsFunction: taskNamesCompletion(g),
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&g.env, "env", "e", "", MsgFlagEnv)
	flags.BoolVar(&g.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVarP(&g.project, "project", "C", "", MsgFlagProject)
	flags.BoolVar(&g.noColor, "no-color", false, MsgFlagNoColor)
	flags.StringVar(&g.format, "format", "auto", MsgFlagFormat)

	_ = rootCmd.RegisterFlagCompletionFunc("env", envCompletion)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRunCmd(g))
	rootCmd.AddCommand(newPlanCmd(g))
	rootCmd.AddCommand(newTasksCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	sub, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		_, err = topics.InitializeWithOptions(rootCmd, sub, topics.Options{
			Renderer: &topicRenderer{g: g},
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// topicRenderer picks the glamour style once --no-color is known
type topicRenderer struct {
	g *globalOptions
}

func (r *topicRenderer) Render(content string, format string) string {
	return topics.NewGlamourRenderer(r.g.noColor || !styledHelp()).Render(content, format)
}
