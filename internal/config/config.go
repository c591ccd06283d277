// Package config loads artifactplan settings from YAML, layered as
// defaults < file < environment < command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "artifactplan.yaml"

// Config holds all artifactplan configuration.
type Config struct {
	// Target is the rust target triple the tests are built for.
	Target string `yaml:"target"`

	// Release selects the release profile over dev.
	Release bool `yaml:"release"`

	// Host is the platform the tests will run on. Empty means the platform
	// artifactplan itself runs on.
	Host string `yaml:"host"`

	// Backend is local, ci, ado or github.
	Backend string `yaml:"backend"`

	Locked  bool `yaml:"locked"`
	Verbose bool `yaml:"verbose"`

	Packages PackagesConfig `yaml:"packages"`
	Features FeaturesConfig `yaml:"features"`

	// Profile overrides the profile implied by Release with a custom one.
	Profile string `yaml:"profile"`

	// Toolchain runs cargo through `rustup run <toolchain>`.
	Toolchain string `yaml:"toolchain"`

	// ManifestArgs are passed to the test binary to request the manifest.
	ManifestArgs []string `yaml:"manifest_args"`

	Nextest   NextestConfig   `yaml:"nextest"`
	Execution ExecutionConfig `yaml:"execution"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PackagesConfig selects cargo packages. Workspace and Crates are exclusive;
// when neither is set the vmm_tests crate is used.
type PackagesConfig struct {
	Workspace bool     `yaml:"workspace"`
	Exclude   []string `yaml:"exclude,omitempty"`
	Crates    []string `yaml:"crates,omitempty"`
}

// FeaturesConfig selects cargo features.
type FeaturesConfig struct {
	All   bool     `yaml:"all"`
	Names []string `yaml:"names,omitempty"`
}

// NextestConfig configures the test listing.
type NextestConfig struct {
	// Binary is a standalone cargo-nextest; empty runs `cargo nextest`.
	Binary      string `yaml:"binary"`
	ArchiveFile string `yaml:"archive_file"`
	ConfigFile  string `yaml:"config_file"`
	Profile     string `yaml:"profile"`

	// Filter is the filterset expression selecting the tests to plan for.
	Filter string `yaml:"filter"`

	// WorkingDir is the source checkout an archive is remapped onto.
	WorkingDir string `yaml:"working_dir"`
	RunIgnored bool   `yaml:"run_ignored"`
}

// ExecutionConfig configures the process runner.
type ExecutionConfig struct {
	// Timeout bounds each cargo invocation.
	Timeout        string `yaml:"timeout"`
	MaxOutputBytes int64  `yaml:"max_output_bytes"`
	WorkingDir     string `yaml:"working_dir"`

	// AllowedEnvVars are passed through from the current environment.
	AllowedEnvVars []string `yaml:"allowed_env_vars"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text

	// Categories disables individual log categories when set to false.
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Target: "x86_64-unknown-linux-gnu",

		ManifestArgs: []string{"--list-required-artifacts=json"},

		Nextest: NextestConfig{
			Filter: "all()",
		},

		Execution: ExecutionConfig{
			Timeout:        "30m",
			MaxOutputBytes: 64 * 1024 * 1024,
			WorkingDir:     ".",
			AllowedEnvVars: []string{"RUSTFLAGS", "RUST_LOG", "NEXTEST_PROFILE"},
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ARTIFACTPLAN_TARGET"); v != "" {
		c.Target = v
	}
	if v := os.Getenv("ARTIFACTPLAN_FILTER"); v != "" {
		c.Nextest.Filter = v
	}
	if v := os.Getenv("ARTIFACTPLAN_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("ARTIFACTPLAN_TOOLCHAIN"); v != "" {
		c.Toolchain = v
	}

	if v := os.Getenv("ARTIFACTPLAN_BACKEND"); v != "" {
		c.Backend = v
	} else if c.Backend == "" && os.Getenv("CI") != "" {
		c.Backend = "ci"
	}
}

// GetExecutionTimeout returns the per-invocation timeout as a duration.
func (c *Config) GetExecutionTimeout() time.Duration {
	d, err := time.ParseDuration(c.Execution.Timeout)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// ValidBackends lists the supported backends.
var ValidBackends = []string{"local", "ci", "ado", "github"}

// ValidHosts lists the supported host platforms.
var ValidHosts = []string{"linux", "windows", "macos", "darwin"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target) == "" {
		return fmt.Errorf("target triple not configured (set target or ARTIFACTPLAN_TARGET)")
	}

	if c.Backend != "" && !contains(ValidBackends, strings.ToLower(c.Backend)) {
		return fmt.Errorf("invalid backend: %s (valid: %v)", c.Backend, ValidBackends)
	}
	if c.Host != "" && !contains(ValidHosts, strings.ToLower(c.Host)) {
		return fmt.Errorf("invalid host: %s (valid: %v)", c.Host, ValidHosts)
	}

	if c.Packages.Workspace && len(c.Packages.Crates) > 0 {
		return fmt.Errorf("packages: workspace and crates are mutually exclusive")
	}
	if !c.Packages.Workspace && len(c.Packages.Exclude) > 0 {
		return fmt.Errorf("packages: exclude requires workspace: true")
	}

	if c.Execution.Timeout != "" {
		if d, err := time.ParseDuration(c.Execution.Timeout); err != nil || d <= 0 {
			return fmt.Errorf("invalid execution.timeout: %q", c.Execution.Timeout)
		}
	}
	if c.Execution.MaxOutputBytes <= 0 {
		return fmt.Errorf("execution.max_output_bytes must be positive, got %d", c.Execution.MaxOutputBytes)
	}

	switch c.Logging.Format {
	case "", "json", "text", "console":
	default:
		return fmt.Errorf("invalid logging.format: %s (valid: json, text)", c.Logging.Format)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
