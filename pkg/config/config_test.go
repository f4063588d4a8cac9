package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "**/Dependencies", cfg.DependencyFiles)
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, "master", cfg.BaseBranch)
	assert.Equal(t, "HEAD^1", cfg.BaseCommit)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	file := filepath.Join(t.TempDir(), "monobuild.yaml")
	content := "dependency_files: \"**/DEPS\"\nbase_branch: main\nlog:\n  level: debug\n  format: json\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	t.Setenv("MONOBUILD_BASE_BRANCH", "develop")
	t.Setenv("MONOBUILD_TELEMETRY_ENABLED", "true")

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)

	assert.Equal(t, "**/DEPS", cfg.DependencyFiles)
	assert.Equal(t, "develop", cfg.BaseBranch)
	assert.Equal(t, "HEAD^1", cfg.BaseCommit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := LogConfig{Level: "info", Format: "json"}.Logger(&buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "components", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"components":3`)

	_, err = LogConfig{Level: "loud"}.Logger(&buf)
	assert.Error(t, err)

	_, err = LogConfig{Level: "info", Format: "xml"}.Logger(&buf)
	assert.Error(t, err)
}
