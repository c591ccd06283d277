package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"artifactplan/internal/config"
	"artifactplan/internal/pipeline"
	"artifactplan/internal/tactile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resolveFlags override the loaded configuration when set.
type resolveFlags struct {
	target      string
	release     bool
	filter      string
	backend     string
	toolchain   string
	archiveFile string
	workspace   bool
	crates      []string
	features    []string
}

func newResolveCmd() *cobra.Command {
	var f resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Run nextest list and the artifact manifest, then print the build plan",
		Long: `Runs the nextest listing and the test binary's artifact manifest concurrently,
joins them on test name and classifies every required artifact into build
selections. Either invocation failing aborts the other.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyResolveFlags(cmd, cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}

			req, err := pipeline.RequestFromConfig(cfg, defaultHost())
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			plan, err := pipeline.New(newExecutor(cfg)).Resolve(ctx, req)
			if err != nil {
				return err
			}

			logger.Info("Resolved build plan",
				zap.String("request_id", plan.RequestID),
				zap.String("host", string(plan.Host)),
				zap.Int("matched_tests", len(plan.MatchedTests)),
				zap.Int("required", len(plan.Required)),
				zap.Stringer("selections", plan.Selections.Toggles()))

			return emitPlan(cmd, plan)
		},
	}

	cmd.Flags().StringVar(&f.target, "target", "", "Rust target triple")
	cmd.Flags().BoolVar(&f.release, "release", false, "Use the release profile")
	cmd.Flags().StringVarP(&f.filter, "filter", "E", "", "Nextest filterset expression")
	cmd.Flags().StringVar(&f.backend, "backend", "", "Execution backend: local, ci, ado or github")
	cmd.Flags().StringVar(&f.toolchain, "toolchain", "", "Run cargo through rustup with this toolchain")
	cmd.Flags().StringVar(&f.archiveFile, "archive-file", "", "List from a nextest archive instead of building")
	cmd.Flags().BoolVar(&f.workspace, "workspace", false, "Select every workspace package")
	cmd.Flags().StringSliceVarP(&f.crates, "package", "p", nil, "Select specific crates")
	cmd.Flags().StringSliceVarP(&f.features, "features", "F", nil, "Cargo features to enable")

	return cmd
}

func applyResolveFlags(cmd *cobra.Command, c *config.Config, f resolveFlags) {
	flags := cmd.Flags()
	if flags.Changed("target") {
		c.Target = f.target
	}
	if flags.Changed("release") {
		c.Release = f.release
	}
	if flags.Changed("filter") {
		c.Nextest.Filter = f.filter
	}
	if flags.Changed("backend") {
		c.Backend = f.backend
	}
	if flags.Changed("toolchain") {
		c.Toolchain = f.toolchain
	}
	if flags.Changed("archive-file") {
		c.Nextest.ArchiveFile = f.archiveFile
	}
	if flags.Changed("workspace") {
		c.Packages.Workspace = f.workspace
	}
	if flags.Changed("package") {
		c.Packages.Workspace = false
		c.Packages.Crates = f.crates
	}
	if flags.Changed("features") {
		c.Features.Names = f.features
	}
}

func newExecutor(c *config.Config) tactile.Executor {
	execCfg := tactile.DefaultExecutorConfig()
	execCfg.DefaultTimeout = c.GetExecutionTimeout()
	if execCfg.DefaultTimeout > execCfg.MaxTimeout {
		execCfg.MaxTimeout = execCfg.DefaultTimeout
	}
	if c.Execution.MaxOutputBytes > 0 {
		execCfg.MaxOutputBytes = c.Execution.MaxOutputBytes
	}
	if c.Execution.WorkingDir != "" {
		execCfg.DefaultWorkingDir = c.Execution.WorkingDir
	}
	return tactile.NewDirectExecutorWithConfig(execCfg)
}

// signalContext is cancelled on interrupt.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
