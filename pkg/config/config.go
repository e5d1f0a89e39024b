package config

import (
	"path"
	"time"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/errors"
)

// Config is the complete, resolved configuration
type Config struct {
	Bins        Bins        `koanf:"bins"`
	Dirs        Dirs        `koanf:"dirs"`
	URLs        URLs        `koanf:"urls"`
	Environment Environment `koanf:"environment"`
	Watch       Watch       `koanf:"watch"`
	Output      Output      `koanf:"output"`
}

// Bins names the external tools tasks invoke
type Bins struct {
	Behat    string `koanf:"behat"`
	Bower    string `koanf:"bower"`
	Composer string `koanf:"composer"`
	Console  string `koanf:"console"`
	Curl     string `koanf:"curl"`
	Git      string `koanf:"git"`
	Npm      string `koanf:"npm"`
	Php      string `koanf:"php"`
	Sass     string `koanf:"sass"`
	Shell    string `koanf:"shell"`
}

// Dirs holds project-relative directories, always slash separated
type Dirs struct {
	Manage     string `koanf:"manage"`
	Resources  string `koanf:"resources"`
	Stripe     string `koanf:"stripe"`
	Web        string `koanf:"web"`
	AssetsSrc  string `koanf:"assets_src"`
	AssetsDest string `koanf:"assets_dest"`
}

// URLs holds remote locations used by tasks
type URLs struct {
	Composer string `koanf:"composer"`
}

// Environment configures environment resolution
type Environment struct {
	// Default is used when neither flag nor variable is set
	Default string `koanf:"default"`
	// Variable is the process variable consulted after the flag
	Variable string `koanf:"variable"`
}

// Watch configures the watch builtin
type Watch struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Output configures terminal rendering
type Output struct {
	// Styles is a YAML style file replacing the built-in styles. Relative
	// paths are taken from the project root.
	Styles string `koanf:"styles"`
}

// Resolver returns an environment resolver for this configuration
func (c *Config) Resolver() environment.Resolver {
	return environment.Resolver{
		Variable: c.Environment.Variable,
		Default:  c.Environment.Default,
	}
}

// postProcess fills derived values
func (c *Config) postProcess() {
	if c.Dirs.AssetsSrc == "" {
		c.Dirs.AssetsSrc = path.Join(c.Dirs.Resources, "assets")
	}
	if c.Dirs.AssetsDest == "" {
		c.Dirs.AssetsDest = path.Join(c.Dirs.Web, "assets")
	}
}

// Validate checks the configuration for values no task could work with
func (c *Config) Validate() error {
	bins := map[string]string{
		"bins.behat":    c.Bins.Behat,
		"bins.bower":    c.Bins.Bower,
		"bins.composer": c.Bins.Composer,
		"bins.console":  c.Bins.Console,
		"bins.curl":     c.Bins.Curl,
		"bins.git":      c.Bins.Git,
		"bins.npm":      c.Bins.Npm,
		"bins.php":      c.Bins.Php,
		"bins.sass":     c.Bins.Sass,
		"bins.shell":    c.Bins.Shell,
		"dirs.web":      c.Dirs.Web,
		"dirs.manage":   c.Dirs.Manage,
	}
	for _, key := range sortedKeys(bins) {
		if bins[key] == "" {
			return errors.Newf(errors.ErrConfigValid, "%s must not be empty", key).WithDetail("key", key)
		}
	}

	if _, err := environment.Parse(c.Environment.Default); err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "environment.default is invalid")
	}

	if c.Watch.Debounce < 0 {
		return errors.New(errors.ErrConfigValid, "watch.debounce must not be negative")
	}
	return nil
}
