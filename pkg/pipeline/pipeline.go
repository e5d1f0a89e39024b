package pipeline

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/arthur-debert/gantry/pkg/builtin"
	"github.com/arthur-debert/gantry/pkg/config"
	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/arthur-debert/gantry/pkg/tasks"
)

// Task names referenced outside the catalogue
const (
	TaskDefault   = "default"
	TaskInstall   = "install"
	TaskUpdate    = "update"
	TaskDev       = "dev"
	TaskCache     = "cache"
	TaskConfigure = "configure"
	TaskWatch     = "watch"
)

// watchThen are the tasks the watcher reruns after a stylesheet changes
var watchThen = []string{"copy:assets", "sass:build"}

// PlanRunner executes a resolved plan. The watch task uses it to run its
// follow-up tasks.
type PlanRunner func(ctx context.Context, plan *tasks.Plan) error

// Options configures Build
type Options struct {
	Config *config.Config
	// ProjectRoot is the absolute directory the project lives in
	ProjectRoot string
	// RunPlan runs the watch task's rebuilds; nil disables them
	RunPlan PlanRunner
}

// builder accumulates the catalogue; the first registration error sticks
type builder struct {
	reg  *tasks.Registry
	cfg  *config.Config
	root string
	run  PlanRunner
	err  error
}

// Build creates the sealed task registry for a project
func Build(opts Options) (*tasks.Registry, error) {
	if opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "pipeline needs a configuration")
	}
	if opts.ProjectRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "pipeline needs a project root")
	}

	b := &builder{
		reg:  tasks.NewRegistry(),
		cfg:  opts.Config,
		root: opts.ProjectRoot,
		run:  opts.RunPlan,
	}

	b.pipelines()
	b.setup()
	b.vendor()
	b.console()
	b.assets()

	if b.err != nil {
		return nil, b.err
	}
	b.reg.Seal()

	logger := logging.GetLogger("pipeline")
	logger.Debug().
		Int("tasks", len(b.reg.Names())).
		Str("root", b.root).
		Msg("Task catalogue built")
	return b.reg, nil
}

func (b *builder) add(name string, t tasks.Task) {
	if b.err != nil {
		return
	}
	b.err = b.reg.Register(name, t)
}

func (b *builder) composite(name, desc string, children ...string) {
	b.add(name, tasks.Composite{Children: children, Desc: desc})
}

func (b *builder) leaf(name, desc, program string, args ...string) {
	b.add(name, tasks.Leaf{Command: tasks.Command{Program: program, Args: args}, Desc: desc})
}

// abs turns a slash-separated project path into an absolute one
func (b *builder) abs(rel string) string {
	return filepath.Join(b.root, filepath.FromSlash(rel))
}

func (b *builder) pipelines() {
	b.composite(TaskDefault, "Alias for install", TaskInstall)
	b.composite(TaskInstall, "Set up a checkout from scratch",
		"submodules", TaskConfigure, "vendor", "migrate", "assets", TaskCache, "plans", "tests")
	b.composite(TaskUpdate, "Bring an existing checkout up to date",
		"submodules", "composer-update", "npm", "bower", "migrate", "assets", TaskCache)
	b.composite(TaskDev, "Build front-end assets and rebuild on change",
		"copy:assets", "sass:build", TaskWatch)
	b.composite("dev:js", "Copy scripts only, skipping vendored ones", "copy:jsOnlyIgnoreVendor")
}

func (b *builder) setup() {
	bins := b.cfg.Bins

	b.composite("submodules", "Initialise and update git submodules",
		"git-submodule-init", "git-submodule-update")
	b.leaf("git-submodule-init", "Register git submodules", bins.Git, "submodule", "init")
	b.leaf("git-submodule-update", "Check out git submodules", bins.Git, "submodule", "update")

	b.add(TaskConfigure, tasks.Branch{
		Select: func(env environment.Environment) []string {
			if env == environment.Prod {
				return []string{"clean:prod"}
			}
			return []string{"copy:configs"}
		},
		Options: []string{"clean:prod", "copy:configs"},
		Desc:    "Remove front controllers in prod, install them elsewhere",
	})
}

func (b *builder) vendor() {
	bins := b.cfg.Bins

	b.composite("vendor", "Install PHP and JavaScript dependencies", "composer", "npm", "bower")
	b.composite("composer", "Fetch composer and install PHP dependencies",
		"composer-require", "composer-install")

	composerPhar := b.abs(bins.Composer)
	b.add("composer-require", tasks.Branch{
		Select: func(environment.Environment) []string {
			if _, err := os.Stat(composerPhar); err == nil {
				return []string{"composer-self-update"}
			}
			return []string{"composer-download"}
		},
		Options: []string{"composer-self-update", "composer-download"},
		Desc:    "Download composer, or self-update it when present",
	})
	b.leaf("composer-download", "Download composer.phar",
		bins.Shell, "-c", bins.Curl+" -sS "+b.cfg.URLs.Composer+" | "+bins.Php)
	b.leaf("composer-self-update", "Update composer.phar", bins.Php, bins.Composer, "self-update")
	b.leaf("composer-install", "Install PHP dependencies", bins.Php, bins.Composer, "install", "-o")
	b.leaf("composer-update", "Update PHP dependencies", bins.Php, bins.Composer, "update", "-o")

	b.leaf("npm", "Install node modules", bins.Npm, "install")
	b.leaf("bower", "Install bower components",
		bins.Bower, "install", "--config.directory="+path.Join(b.cfg.Dirs.AssetsSrc, "vendor"))
	b.leaf("behat", "Run the acceptance suite", bins.Behat)
	b.composite("tests", "Run the test suites", "behat")
}

// console registers the framework console tasks
func (b *builder) console() {
	bins := b.cfg.Bins
	console := func(command string) tasks.Command {
		return tasks.Command{Program: bins.Php, Args: []string{bins.Console, command}}
	}

	b.add("migrate", tasks.Leaf{
		Command: tasks.Command{
			Program: bins.Php,
			Args:    []string{bins.Console, "doctrine:migrations:migrate"},
			Flags:   tasks.Flags{tasks.Bool("no-interaction")},
		},
		Desc: "Run database migrations",
	})
	b.add("plans", tasks.Leaf{
		Command: tasks.Command{
			Program: bins.Php,
			Args:    []string{bins.Console, "stripe:create:plans", path.Join(b.cfg.Dirs.Stripe, "plans.csv")},
			Flags:   tasks.Flags{tasks.Bool("no-debug"), tasks.Bool("no-interaction")},
		},
		Desc: "Create billing plans",
	})

	b.add("sf2-cache-clear", tasks.Variants{
		Template: console("cache:clear"),
		Flags: perEnvironment(
			tasks.Flags{tasks.Bool("no-debug"), tasks.Bool("no-warmup")},
			tasks.Flags{tasks.Bool("no-warmup")},
		),
		Desc: "Clear the framework cache",
	})
	b.add("sf2-assets-install", tasks.Variants{
		Template: console("assets:install"),
		Flags: perEnvironment(
			tasks.Flags{tasks.Bool("no-debug")},
			tasks.Flags{tasks.Bool("no-debug")},
		),
		Desc: "Publish bundle assets",
	})
	b.add("sf2-assetic-dump", tasks.Variants{
		Template: console("assetic:dump"),
		Flags: perEnvironment(
			tasks.Flags{tasks.Bool("no-debug")},
			tasks.Flags{},
		),
		Desc: "Dump compiled assets",
	})

	b.composite(TaskCache, "Clear the framework cache", "sf2-cache-clear")
	b.composite("assets", "Install and dump framework assets", "sf2-assets-install", "sf2-assetic-dump")
}

// perEnvironment assigns deployed to prod, stage and qa and local to dev and
// local. test has no console variants.
func perEnvironment(deployed, local tasks.Flags) map[environment.Environment]tasks.Flags {
	return map[environment.Environment]tasks.Flags{
		environment.Prod:  deployed,
		environment.Stage: deployed,
		environment.QA:    deployed,
		environment.Dev:   local,
		environment.Local: local,
	}
}

// assets registers the front-end tasks
func (b *builder) assets() {
	dirs := b.cfg.Dirs
	src, dest := dirs.AssetsSrc, dirs.AssetsDest

	b.composite("copy:assets", "Rebuild the public asset tree", "clean:build", "copy:dev")

	b.add("clean:build", tasks.Builtin{
		Action: builtin.MustClean(b.root, path.Join(dest, "**")),
		Desc:   "Remove built assets",
	})
	b.add("clean:prod", tasks.Builtin{
		Action: builtin.MustClean(b.root,
			path.Join(dirs.Web, "app_*.php"),
			path.Join(dirs.Web, "config.php"),
			path.Join(dirs.Web, "check.php"),
		),
		Desc: "Remove development front controllers",
	})
	b.add("copy:configs", tasks.Builtin{
		Action: builtin.NewCopy(b.abs(path.Join(dirs.Manage, "web")), b.abs(dirs.Web),
			builtin.MustPatternSet("app_*.php"),
			path.Join(dirs.Manage, "web", "app_*.php")+" -> "+dirs.Web+"/"),
		Desc: "Install front controllers",
	})
	b.add("copy:dev", tasks.Builtin{
		Action: builtin.NewCopy(b.abs(src), b.abs(dest),
			builtin.MustPatternSet("**/*.js", "**/*.css", "fonts/**", "img/**", "!**/scss/**"),
			src+"/{**/*.js,**/*.css,fonts/**,img/**,!**/scss/**} -> "+dest),
		Desc: "Copy scripts, styles, fonts and images",
	})
	b.add("copy:jsOnlyIgnoreVendor", tasks.Builtin{
		Action: builtin.NewCopy(b.abs(src), b.abs(dest),
			builtin.MustPatternSet("**/*.js", "!**/vendor/**"),
			src+"/{**/*.js,!**/vendor/**} -> "+dest),
		Desc: "Copy scripts, skipping vendored ones",
	})

	b.add("sass:build", tasks.Leaf{
		Command: tasks.Command{
			Program: b.cfg.Bins.Sass,
			Args: []string{
				"--load-path=" + src + "/vendor/foundation/scss/",
				"--load-path=" + src + "/scss/",
				"--source-map",
				src + "/scss:" + dest + "/css",
			},
		},
		Desc: "Compile stylesheets",
	})

	b.add(TaskWatch, tasks.Builtin{
		Action: builtin.NewWatch(b.abs(path.Join(src, "scss")), builtin.MustPatternSet("**/*.scss"),
			b.cfg.Watch.Debounce, watchThen, b.rebuild),
		Desc: "Rebuild assets when stylesheets change",
	})
}

// rebuild resolves and runs the watch follow-up tasks in order
func (b *builder) rebuild(ctx context.Context, env environment.Environment) error {
	if b.run == nil {
		return errors.New(errors.ErrInternal, "no plan runner configured for watch")
	}
	if env == "" {
		env = environment.All
	}
	for _, name := range watchThen {
		plan, err := b.reg.Resolve(name, env)
		if err != nil {
			return err
		}
		if err := b.run(ctx, plan); err != nil {
			return err
		}
	}
	return nil
}
