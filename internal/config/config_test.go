package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ARTIFACTPLAN_TARGET", "ARTIFACTPLAN_FILTER", "ARTIFACTPLAN_HOST",
		"ARTIFACTPLAN_TOOLCHAIN", "ARTIFACTPLAN_BACKEND", "CI",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"--list-required-artifacts=json"}, cfg.ManifestArgs)
	assert.Equal(t, "all()", cfg.Nextest.Filter)
	assert.Equal(t, 30*time.Minute, cfg.GetExecutionTimeout())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearOverrides(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	clearOverrides(t)
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(`
target: aarch64-unknown-linux-gnu
release: true
backend: github
packages:
  workspace: true
  exclude: [xtask]
features:
  names: [ci]
nextest:
  archive_file: /out/tests.tar.zst
  filter: "test(boot)"
execution:
  timeout: 45m
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "aarch64-unknown-linux-gnu", cfg.Target)
	assert.True(t, cfg.Release)
	assert.Equal(t, "github", cfg.Backend)
	assert.Equal(t, PackagesConfig{Workspace: true, Exclude: []string{"xtask"}}, cfg.Packages)
	assert.Equal(t, []string{"ci"}, cfg.Features.Names)
	assert.Equal(t, "test(boot)", cfg.Nextest.Filter)
	assert.Equal(t, 45*time.Minute, cfg.GetExecutionTimeout())
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultConfig().ManifestArgs, cfg.ManifestArgs)
	assert.Equal(t, DefaultConfig().Execution.MaxOutputBytes, cfg.Execution.MaxOutputBytes)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearOverrides(t)
	path := filepath.Join(t.TempDir(), "nested", "artifactplan.yaml")

	cfg := DefaultConfig()
	cfg.Toolchain = "1.86"
	cfg.Packages.Crates = []string{"vmm_tests", "tmk_tests"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("explicit variables", func(t *testing.T) {
		clearOverrides(t)
		t.Setenv("ARTIFACTPLAN_TARGET", "x86_64-pc-windows-msvc")
		t.Setenv("ARTIFACTPLAN_FILTER", "test(tmk)")
		t.Setenv("ARTIFACTPLAN_HOST", "windows")
		t.Setenv("ARTIFACTPLAN_TOOLCHAIN", "nightly")
		t.Setenv("ARTIFACTPLAN_BACKEND", "ado")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "x86_64-pc-windows-msvc", cfg.Target)
		assert.Equal(t, "test(tmk)", cfg.Nextest.Filter)
		assert.Equal(t, "windows", cfg.Host)
		assert.Equal(t, "nightly", cfg.Toolchain)
		assert.Equal(t, "ado", cfg.Backend)
	})

	t.Run("CI implies ci backend", func(t *testing.T) {
		clearOverrides(t)
		t.Setenv("CI", "true")

		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "ci", cfg.Backend)
	})

	t.Run("CI does not override configured backend", func(t *testing.T) {
		clearOverrides(t)
		t.Setenv("CI", "true")

		cfg := &Config{Backend: "local"}
		cfg.applyEnvOverrides()
		assert.Equal(t, "local", cfg.Backend)
	})

	t.Run("explicit backend beats CI", func(t *testing.T) {
		clearOverrides(t)
		t.Setenv("CI", "1")
		t.Setenv("ARTIFACTPLAN_BACKEND", "github")

		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "github", cfg.Backend)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty target", func(c *Config) { c.Target = " " }},
		{"bad backend", func(c *Config) { c.Backend = "jenkins" }},
		{"bad host", func(c *Config) { c.Host = "plan9" }},
		{"workspace and crates", func(c *Config) {
			c.Packages.Workspace = true
			c.Packages.Crates = []string{"vmm_tests"}
		}},
		{"exclude without workspace", func(c *Config) { c.Packages.Exclude = []string{"xtask"} }},
		{"bad timeout", func(c *Config) { c.Execution.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.Execution.Timeout = "-1s" }},
		{"zero output cap", func(c *Config) { c.Execution.MaxOutputBytes = 0 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetExecutionTimeoutFallback(t *testing.T) {
	cfg := &Config{Execution: ExecutionConfig{Timeout: "garbage"}}
	assert.Equal(t, 30*time.Minute, cfg.GetExecutionTimeout())
}
