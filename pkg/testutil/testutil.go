package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/gantry/pkg/paths"
)

// CreateFile creates a file with the given content under dir. name is
// slash separated; parent directories are created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// CreateFiles creates every listed file under dir, each holding its own
// relative name
func CreateFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		CreateFile(t, dir, name, name)
	}
}

// CreateDir creates a directory under parent
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()

	path := filepath.Join(parent, filepath.FromSlash(name))
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// ListFiles returns the slash separated paths of all regular files under
// root, sorted. A missing root yields nil.
func ListFiles(t *testing.T, root string) []string {
	t.Helper()

	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk %s: %v", root, err)
	}
	sort.Strings(out)
	return out
}

// Isolate keeps a test away from the user's configuration and log file and
// returns an empty project root
func Isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(home, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(home, "state"))
	t.Setenv(paths.EnvProjectRoot, "")
	return t.TempDir()
}
