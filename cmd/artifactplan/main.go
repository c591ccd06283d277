package main

import (
	"fmt"
	"os"
	"runtime"

	"artifactplan/internal/config"
	"artifactplan/internal/logging"
	"artifactplan/internal/selection"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	hostFlag   string
	format     string
	outputPath string

	// Loaded by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "artifactplan",
		Short: "Compute the minimal set of build artifacts for a filtered VMM test run",
		Long: `artifactplan lists the tests a nextest filter selects, asks the test binary
which artifacts each of them requires, and prints the build selections the
build scheduler needs so nothing unused gets built.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Host platform the tests run on (default: this machine)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or text")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Write output to a file instead of stdout")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newArgsCmd())
	rootCmd.AddCommand(newTableCmd())
	rootCmd.AddCommand(newInitCmd())

	return rootCmd
}

// setup loads configuration and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	switch format {
	case "json", "yaml", "text":
	default:
		return fmt.Errorf("invalid --format %q (valid: json, yaml, text)", format)
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if hostFlag != "" {
		cfg.Host = hostFlag
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err = logging.New(level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.Configure(logger, cfg.Logging.Categories)
	logging.Boot("Loaded config from %s (target=%s, backend=%q)", configPath, cfg.Target, cfg.Backend)
	logging.BootDebug("Output format %s, host override %q, default host %q", format, hostFlag, defaultHost())

	return nil
}

// defaultHost is the platform artifactplan itself runs on.
func defaultHost() selection.Platform {
	host, err := selection.ParsePlatform(runtime.GOOS)
	if err != nil {
		return ""
	}
	return host
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
