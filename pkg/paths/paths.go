package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/gantry/pkg/errors"
)

// Environment variable names
const (
	// EnvProjectRoot overrides project root discovery
	EnvProjectRoot = "GANTRY_PROJECT"

	// EnvConfigDir overrides the XDG config directory for gantry
	EnvConfigDir = "GANTRY_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for gantry
	EnvStateDir = "GANTRY_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name used under the XDG base directories
	AppDirName = "gantry"

	// UserConfigFile is the user-level configuration file name
	UserConfigFile = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "gantry.log"
)

// ProjectConfigFiles are the project-level configuration file names, in
// lookup order. The first one found wins.
var ProjectConfigFiles = []string{"gantry.toml", ".gantry.toml"}

// Paths provides centralized path management for gantry
type Paths interface {
	// ProjectRoot is the directory tasks run in
	ProjectRoot() string
	// UsedFallback reports whether the root fell back to the working directory
	UsedFallback() bool
	// Resolve joins a project-relative path onto the root
	Resolve(rel string) string
	ConfigDir() string
	StateDir() string
	UserConfigPath() string
	LogFilePath() string
	// ProjectConfigPath returns the first existing project config file, or ""
	ProjectConfigPath() string
}

type paths struct {
	projectRoot  string
	usedFallback bool
	configDir    string
	stateDir     string
}

// New creates a Paths instance. An empty projectRoot is discovered from
// GANTRY_PROJECT, then the enclosing git repository, then the working
// directory.
func New(projectRoot string) (Paths, error) {
	p := &paths{}

	if projectRoot == "" {
		root, usedFallback, err := findProjectRoot()
		if err != nil {
			return nil, err
		}
		p.projectRoot = root
		p.usedFallback = usedFallback
	} else {
		p.projectRoot = expandHome(projectRoot)
	}

	absRoot, err := filepath.Abs(p.projectRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for project root")
	}
	p.projectRoot = absRoot

	p.configDir = ConfigDir()
	p.stateDir = StateDir()
	return p, nil
}

// ConfigDir returns gantry's XDG config directory
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// StateDir returns gantry's XDG state directory
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return expandHome(dir)
	}
	// xdg caches its lookups at init; honour changes made afterwards
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, AppDirName)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// findProjectRoot determines the project root using the following priority:
// 1. GANTRY_PROJECT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
func findProjectRoot() (string, bool, error) {
	if root := os.Getenv(EnvProjectRoot); root != "" {
		return expandHome(root), false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrInternal, "failed to get current directory")
	}
	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrInternal, "git root is empty")
	}
	return gitRoot, nil
}

// expandHome expands a leading ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	// ~user forms are left alone
	return path
}

func (p *paths) ProjectRoot() string {
	return p.projectRoot
}

func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

func (p *paths) Resolve(rel string) string {
	if rel == "" {
		return p.projectRoot
	}
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.projectRoot, filepath.FromSlash(rel))
}

func (p *paths) ConfigDir() string {
	return p.configDir
}

func (p *paths) StateDir() string {
	return p.stateDir
}

func (p *paths) UserConfigPath() string {
	return filepath.Join(p.configDir, UserConfigFile)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

func (p *paths) ProjectConfigPath() string {
	for _, name := range ProjectConfigFiles {
		candidate := filepath.Join(p.projectRoot, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
