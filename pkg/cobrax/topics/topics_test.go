package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func TestTopicManager_ScanTopics(t *testing.T) {
	fsys := fstest.MapFS{
		"dry-run.txt":     file("Information about dry-run mode"),
		"environments.md": file("# Environments\n\ndev, prod and all"),
		"config.txxt":     file("Configuration Guide\n=================="),
		"ignore.json":     file("This should be ignored"),
	}

	t.Run("default extensions", func(t *testing.T) {
		tm := New(fsys)
		require.NoError(t, tm.scanTopics())

		tests := []struct {
			name     string
			expected bool
			content  string
		}{
			{"dry-run", true, "Information about dry-run mode"},
			{"environments", true, "# Environments\n\ndev, prod and all"},
			{"config", false, ""},
			{"ignore", false, ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				topic, exists := tm.GetTopic(tt.name)
				assert.Equal(t, tt.expected, exists)
				if exists {
					assert.Equal(t, tt.content, topic.Content)
				}
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(fsys, Options{Extensions: []string{".txt", ".md", ".txxt"}})
		require.NoError(t, tm.scanTopics())

		topic, exists := tm.GetTopic("config")
		require.True(t, exists)
		assert.Equal(t, ".txxt", topic.Format())
		_, exists = tm.GetTopic("ignore")
		assert.False(t, exists)
	})
}

func TestTopicManager_GetTopic(t *testing.T) {
	tm := New(fstest.MapFS{
		"option-dry-run.txt": file("Dry run help"),
		"option-env.txt":     file("Env help"),
		"pipelines.txt":      file("Pipelines help"),
	})
	require.NoError(t, tm.scanTopics())

	tests := []struct {
		input    string
		expected string
		exists   bool
	}{
		{"pipelines", "pipelines", true},
		{"option-dry-run", "option-dry-run", true},
		{"dry-run", "option-dry-run", true},
		{"--dry-run", "option-dry-run", true},
		{"-dry-run", "option-dry-run", true},
		{"--env", "option-env", true},
		{"-e", "", false},
		{"nonexistent", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, exists := tm.GetTopic(tt.input)
			assert.Equal(t, tt.exists, exists)
			if exists {
				assert.Equal(t, tt.expected, topic.Name)
			}
		})
	}
}

func TestTopicManager_ListTopics(t *testing.T) {
	tm := New(fstest.MapFS{
		"pipelines.txt":    file("p"),
		"environments.txt": file("e"),
		"dry-run.txt":      file("d"),
		"configuration.md": file("c"),
	})
	require.NoError(t, tm.scanTopics())

	assert.Equal(t, []string{"configuration", "dry-run", "environments", "pipelines"}, tm.ListTopics())
}

func TestNilAndEmptyFS(t *testing.T) {
	tm := New(nil)
	require.NoError(t, tm.scanTopics())
	assert.Empty(t, tm.ListTopics())

	tm = New(fstest.MapFS{})
	require.NoError(t, tm.scanTopics())
	assert.Empty(t, tm.ListTopics())
}

func TestSubdirectoryTopics(t *testing.T) {
	tm := New(fstest.MapFS{"advanced/watching.txt": file("Watch help")})
	require.NoError(t, tm.scanTopics())

	topic, exists := tm.GetTopic("watching")
	require.True(t, exists)
	assert.Equal(t, "Watch help", topic.Content)
	assert.Equal(t, "advanced/watching.txt", topic.Path)
}

func newTestRoot(t *testing.T, fsys fstest.MapFS) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	rootCmd := &cobra.Command{Use: "testapp", Short: "Test application"}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "plan",
		Short: "Show what a task would run",
		Run:   func(cmd *cobra.Command, args []string) {},
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	_, err := InitializeWithOptions(rootCmd, fsys, Options{})
	require.NoError(t, err)
	return rootCmd, &out
}

func TestInitialize(t *testing.T) {
	rootCmd, _ := newTestRoot(t, fstest.MapFS{"test-topic.txt": file("Test topic content")})

	helpCmd, _, err := rootCmd.Find([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, "help", helpCmd.Name())
	assert.Equal(t, "help [command or topic]", helpCmd.Use)
}

func TestHelpCommand(t *testing.T) {
	fsys := fstest.MapFS{
		"option-dry-run.txt": file("DRY RUN MODE\nNothing is executed."),
		"environments.txt":   file("dev prod all"),
	}

	t.Run("topic", func(t *testing.T) {
		rootCmd, out := newTestRoot(t, fsys)
		rootCmd.SetArgs([]string{"help", "dry-run"})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), "DRY RUN MODE")
	})

	t.Run("topic list", func(t *testing.T) {
		rootCmd, out := newTestRoot(t, fsys)
		rootCmd.SetArgs([]string{"help", "topics"})
		require.NoError(t, rootCmd.Execute())

		assert.Contains(t, out.String(), "General topics:\n  environments")
		assert.Contains(t, out.String(), "Option topics:\n  --dry-run")
		assert.Contains(t, out.String(), "Use 'testapp help <topic>'")
	})

	t.Run("command", func(t *testing.T) {
		rootCmd, out := newTestRoot(t, fsys)
		rootCmd.SetArgs([]string{"help", "plan"})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), "Show what a task would run")
	})

	t.Run("no topics", func(t *testing.T) {
		rootCmd, out := newTestRoot(t, fstest.MapFS{})
		rootCmd.SetArgs([]string{"help", "topics"})
		require.NoError(t, rootCmd.Execute())
		assert.Equal(t, "No help topics available.\n", out.String())
	})
}

func TestGlamourRenderer(t *testing.T) {
	r := NewGlamourRenderer(true)
	assert.Equal(t, "notty", r.Style)

	assert.Equal(t, "plain *text*", r.Render("plain *text*", ".txt"))

	rendered := r.Render("# Environments\n\nUse **dev** locally.", ".md")
	assert.Contains(t, rendered, "Environments")
	assert.Contains(t, rendered, "dev")

	r = &GlamourRenderer{Style: "/nonexistent/style.json"}
	assert.Equal(t, "# raw", r.Render("# raw", ".md"))
}
