package gantry

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "An environment-aware build task runner"
	MsgRunShort        = "Run a task"
	MsgPlanShort       = "Show the steps a task would run"
	MsgTasksShort      = "List registered tasks"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgVersionFormat    = "gantry version %s\n"
	MsgCommitFormat     = "  commit: %s\n"
	MsgBuiltFormat      = "  built:  %s\n"
	MsgConfigFileHeader = "# project: %s\n# user config: %s\n# project config: %s\n\n"
	MsgErrorPrefix      = "Error: "

	// Error messages
	MsgErrFormat      = "invalid --format: %w"
	MsgErrConfigDump  = "failed to render configuration: %w"
	MsgErrHelpMissing = "help command not found"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "List the steps without running them"
	MsgFlagEnv     = "Deployment environment: dev, test, local, qa, stage, prod or all"
	MsgFlagProject = "Project root (default: the enclosing git repository or the current directory)"
	MsgFlagNoColor = "Disable colored output"
	MsgFlagFormat  = "Output format: auto, term, text or json"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/plan-example.txt
	msgPlanExampleRaw string
	MsgPlanExample    = strings.TrimRight(msgPlanExampleRaw, "\n")

	//go:embed msgs/tasks-long.txt
	msgTasksLongRaw string
	MsgTasksLong    = strings.TrimSpace(msgTasksLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
