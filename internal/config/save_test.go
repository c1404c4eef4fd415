package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetValue_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	err := SetValue(configPath, "backend", "sqlite")
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
}

func TestSetValue_PreservesOtherConfigAndComments(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# Hospital settings
data_dir: /var/lib/hms # keep me
backend: text
output: json
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o600))

	require.NoError(t, SetValue(configPath, "backend", "sqlite"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# Hospital settings")
	assert.Contains(t, content, "# keep me")
	assert.Contains(t, content, "output: json")
	assert.Contains(t, content, "backend: sqlite")
	assert.NotContains(t, content, "backend: text")
}

func TestSetValue_NestedKeyRoundtrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600))

	require.NoError(t, SetValue(configPath, "flags.strict-load", "true"))
	require.NoError(t, SetValue(configPath, "tracing.enabled", "true"))
	require.NoError(t, SetValue(configPath, "metrics.textfile_path", "/tmp/hms.prom"))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	assert.True(t, cfg.Flags["strict-load"])
	assert.True(t, cfg.Flags["write-through"], "sibling flag untouched")
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "/tmp/hms.prom", cfg.Metrics.TextfilePath)
	assert.Equal(t, BackendText, cfg.Backend)
}

func TestSetValue_InvalidKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.Error(t, SetValue(configPath, "", "x"))
	require.Error(t, SetValue(configPath, "tracing..enabled", "x"))
}

func TestSetValue_ScalarParent(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("backend: text\n"), 0o600))

	err := SetValue(configPath, "backend.kind", "x")

	require.ErrorContains(t, err, "is not a mapping")
}

func TestSetValue_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	require.NoError(t, SetValue(configPath, "output", "yaml"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}
