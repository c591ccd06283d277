package main

import (
	"fmt"
	"os"
	"time"

	"artifactplan/internal/pipeline"
	"artifactplan/internal/resolve"
	"artifactplan/internal/selection"
	"artifactplan/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newClassifyCmd() *cobra.Command {
	var (
		listingPath  string
		manifestPath string
		watchFiles   bool
		debounce     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Build a plan from saved listing and manifest output",
		Long: `Reads previously captured nextest list JSON and artifact manifest output
from files and prints the resulting build plan. With --watch the plan is
printed again each time either file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := resolveHost()
			if err != nil {
				return err
			}

			if watchFiles {
				return watchPlans(cmd, listingPath, manifestPath, host, debounce)
			}

			plan, err := classifyFiles(listingPath, manifestPath, host)
			if err != nil {
				return err
			}
			return emitPlan(cmd, plan)
		},
	}

	cmd.Flags().StringVar(&listingPath, "listing", "", "File holding nextest list JSON output")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "File holding artifact manifest output")
	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "Re-resolve whenever an input file changes")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period before re-resolving in watch mode (0 keeps the default)")
	_ = cmd.MarkFlagRequired("listing")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

// resolveHost returns the configured host, or this machine's platform.
func resolveHost() (selection.Platform, error) {
	if cfg.Host == "" {
		if host := defaultHost(); host != "" {
			return host, nil
		}
		return "", fmt.Errorf("no host platform given")
	}
	return selection.ParsePlatform(cfg.Host)
}

func classifyFiles(listingPath, manifestPath string, host selection.Platform) (*resolve.Plan, error) {
	listingOut, err := os.ReadFile(listingPath)
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	manifestOut, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return pipeline.ResolveOutputs(listingOut, string(manifestOut), host)
}

func watchPlans(cmd *cobra.Command, listingPath, manifestPath string, host selection.Platform, debounce time.Duration) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	pw, err := watch.NewPlanWatcher(listingPath, manifestPath, host, func(plan *resolve.Plan, err error) {
		if err != nil {
			logger.Warn("Re-resolution failed", zap.Error(err))
			return
		}
		if err := emitPlan(cmd, plan); err != nil {
			logger.Error("Failed to write plan", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	defer pw.Stop()
	if debounce > 0 {
		pw.SetDebounce(debounce)
	}

	// Print the current plan before the first change arrives.
	pw.Trigger()

	if err := pw.Start(ctx); err != nil {
		return err
	}
	logger.Info("Watching for changes",
		zap.Strings("dirs", pw.GetWatchedDirs()),
		zap.String("host", string(host)))

	<-ctx.Done()

	stats := pw.GetStats()
	logger.Info("Stopped watching",
		zap.Int("events", stats.Events),
		zap.Int("resolutions", stats.Resolutions),
		zap.Int("failures", stats.Failures))
	return nil
}
