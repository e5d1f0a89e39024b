package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/gantry/pkg/executor"
	"github.com/arthur-debert/gantry/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListFiles(t *testing.T) {
	root := t.TempDir()

	CreateFiles(t, root, "js/app.js", "css/site.css")
	path := CreateFile(t, root, "web/app_dev.php", "<?php")
	CreateDir(t, root, "empty/dir")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<?php", string(data))

	assert.Equal(t, []string{"css/site.css", "js/app.js", "web/app_dev.php"}, ListFiles(t, root))
	assert.DirExists(t, filepath.Join(root, "empty", "dir"))
	assert.Nil(t, ListFiles(t, filepath.Join(root, "missing")))
}

func TestIsolate(t *testing.T) {
	root := Isolate(t)

	assert.DirExists(t, root)
	assert.Empty(t, ListFiles(t, root))
	assert.NotEmpty(t, os.Getenv(paths.EnvConfigDir))
	assert.NotEmpty(t, os.Getenv(paths.EnvStateDir))
	assert.Equal(t, filepath.Join(paths.ConfigDir(), "config.toml"), filepath.Join(os.Getenv(paths.EnvConfigDir), "config.toml"))
}

func TestRecordingRunner(t *testing.T) {
	r := &RecordingRunner{FailOn: "npm"}

	out, err := r.Run(context.Background(), executor.Request{Argv: []string{"git", "submodule", "init"}, Dir: "/srv"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)

	out, err = r.Run(context.Background(), executor.Request{Argv: []string{"npm", "install"}})
	require.Error(t, err)
	assert.Equal(t, 1, out.ExitCode)
	assert.Equal(t, "npm: broken", out.Stderr)

	assert.Equal(t, []string{"git submodule init", "npm install"}, r.Ran())
	assert.Equal(t, "/srv", r.Requests()[0].Dir)
}
