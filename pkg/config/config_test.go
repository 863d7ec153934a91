package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	Reset()
	path := filepath.Join(t.TempDir(), ConfigFilename)

	require.NoError(t, LoadConfig(path))
	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	Reset()
	path := writeConfig(t, `
workspace_root: /srv/work
read_limit_bytes: 2048
journal:
  enabled: true
  path: /srv/work/journal.db
preview:
  max_tokens: 500
metrics_enabled: true
`)

	require.NoError(t, LoadConfig(path))
	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/work", cfg.WorkspaceRoot)
	assert.Equal(t, int64(2048), cfg.ReadLimitBytes)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "/srv/work/journal.db", cfg.Journal.Path)
	assert.Equal(t, 500, cfg.Preview.MaxTokens)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	Reset()
	path := writeConfig(t, "workspace_root: /srv/work\n")

	require.NoError(t, LoadConfig(path))
	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/work", cfg.WorkspaceRoot)
	assert.Equal(t, int64(DefaultReadLimitBytes), cfg.ReadLimitBytes)
	assert.Equal(t, DefaultPreviewMaxTokens, cfg.Preview.MaxTokens)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	Reset()

	for name, content := range map[string]string{
		"empty root":      "workspace_root: \"\"\n",
		"bad read limit":  "read_limit_bytes: -1\n",
		"bad tokens":      "preview:\n  max_tokens: 0\n",
		"journal no path": "journal:\n  enabled: true\n  path: \"\"\n",
		"not yaml":        "{{{\n",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, LoadConfig(writeConfig(t, content)))
		})
	}
}

func TestGetConfigBeforeLoad(t *testing.T) {
	Reset()

	_, err := GetConfig()
	assert.Error(t, err)
}
