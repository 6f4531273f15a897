package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/spire/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())

		c, err := config.Load("", nil)
		require.NoError(t, err)

		assert.Equal(t, 1, c.Display)
		assert.Equal(t, 2*time.Second, c.TickInterval)
		assert.Equal(t, "prompt.json", c.PromptsFile)
		assert.Equal(t, "game_knowledge.json", c.KnowledgeFile)
		assert.Equal(t, "openai", c.Reasoner.Provider)
		assert.Equal(t, "https://api.chatanywhere.tech/v1", c.Reasoner.BaseURL)
		assert.Equal(t, 150, c.Reasoner.MaxTokens)
		assert.InDelta(t, 0.7, c.Reasoner.Temperature, 1e-9)
		assert.Equal(t, 30*time.Second, c.Reasoner.Timeout)
		assert.Equal(t, "chi_sim", c.Recognizer.Language)
		assert.Equal(t, 10*time.Second, c.Recognizer.Timeout)
		assert.Equal(t, "CE.exe", c.Memory.Command)
		assert.Equal(t, 5*time.Second, c.Memory.Timeout)
		assert.Equal(t, "memory", c.Scratch.Backend)
		assert.Equal(t, "spire:", c.Redis.Prefix)
		assert.Equal(t, "log", c.Chat.Backend)
		assert.Equal(t, "spire:chat", c.Chat.Channel)
		assert.Empty(t, c.HTTP.Listen)
		assert.Empty(t, c.Debug.CaptureDir)
	})

	t.Run("File Then Env", func(t *testing.T) {
		path := writeFile(t, "spire.yaml", `
display: 2
tick_interval: 500ms
reasoner:
  provider: mock
  model: gemini-2.0-flash
memory:
  command: ./reader
  args: ["--pid", "42"]
  timeout: 3s
scratch:
  backend: redis
`)
		t.Setenv("SPIRE_REASONER_MODEL", "gpt-4o")
		t.Setenv("SPIRE_HTTP_LISTEN", ":9090")

		c, err := config.Load(path, nil)
		require.NoError(t, err)

		assert.Equal(t, 2, c.Display)
		assert.Equal(t, 500*time.Millisecond, c.TickInterval)
		assert.Equal(t, "mock", c.Reasoner.Provider)
		assert.Equal(t, "gpt-4o", c.Reasoner.Model, "env wins over file")
		assert.Equal(t, ":9090", c.HTTP.Listen)
		assert.Equal(t, "./reader", c.Memory.Command)
		assert.Equal(t, []string{"--pid", "42"}, c.Memory.Args)
		assert.Equal(t, 3*time.Second, c.Memory.Timeout)
		assert.Equal(t, "redis", c.Scratch.Backend)
	})

	t.Run("Search Path", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "spire.yaml"), []byte("display: 3\n"), 0o644))
		t.Chdir(dir)

		c, err := config.Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Display)
	})

	t.Run("Explicit Flags Win", func(t *testing.T) {
		path := writeFile(t, "spire.yaml", "display: 2\nlog:\n  level: warn\n")
		flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
		flags.Int("display", 1, "")
		flags.String("log-level", "info", "")
		flags.String("reasoner", "openai", "")
		require.NoError(t, flags.Parse([]string{"--display", "4", "--reasoner", "mock"}))

		c, err := config.Load(path, flags)
		require.NoError(t, err)

		assert.Equal(t, 4, c.Display)
		assert.Equal(t, "mock", c.Reasoner.Provider)
		assert.Equal(t, "warn", c.Log.Level, "unset flags keep the file value")
	})

	t.Run("Missing Explicit File", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		assert.Error(t, err)
	})

	t.Run("Invalid Values", func(t *testing.T) {
		path := writeFile(t, "spire.yaml", "display: 0\nreasoner:\n  provider: llama\nchat:\n  backend: tcp\n")

		_, err := config.Load(path, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "display")
		assert.Contains(t, err.Error(), "llama")
		assert.Contains(t, err.Error(), "tcp")
	})
}

func TestReasonerConfig_Key(t *testing.T) {
	t.Setenv("SPIRE_TEST_KEY", "from-env")

	assert.Equal(t, "explicit", config.ReasonerConfig{APIKey: "explicit", APIKeyEnv: "SPIRE_TEST_KEY"}.Key())
	assert.Equal(t, "from-env", config.ReasonerConfig{APIKeyEnv: "SPIRE_TEST_KEY"}.Key())
	assert.Empty(t, config.ReasonerConfig{}.Key())
}
