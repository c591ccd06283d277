// Package pipeline runs one resolution request end to end: it executes the
// listing and manifest invocations, parses both outputs and resolves the
// build plan. Any failure aborts the request; no partial plan is returned.
package pipeline

import (
	"context"
	"fmt"

	"artifactplan/internal/artifact"
	"artifactplan/internal/build"
	"artifactplan/internal/invocation"
	"artifactplan/internal/listing"
	"artifactplan/internal/logging"
	"artifactplan/internal/manifest"
	"artifactplan/internal/resolve"
	"artifactplan/internal/selection"
	"artifactplan/internal/tactile"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Pipeline resolves requests through an executor. It holds no per-request
// state and may serve concurrent requests.
type Pipeline struct {
	executor tactile.Executor
}

// New returns a pipeline running commands through executor, or directly on
// this machine when executor is nil.
func New(executor tactile.Executor) *Pipeline {
	if executor == nil {
		executor = tactile.NewDirectExecutor()
	}
	return &Pipeline{executor: executor}
}

// Resolve runs both invocations concurrently and resolves the plan. The
// first failure cancels the other invocation.
func (p *Pipeline) Resolve(ctx context.Context, req Request) (*resolve.Plan, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	timer := logging.StartTimer(logging.CategoryPipeline, "Resolution request "+req.ID)
	defer timer.StopWithInfo()

	logging.Pipeline("[%s] Resolving build plan: target=%s host=%s filter=%q",
		req.ID, req.Run.Target, req.Host, req.List.Filter)

	var (
		matched listing.Names
		records []artifact.TestRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := tactile.Run(gctx, p.executor, req.command(req.List.Invocation()))
		if err != nil {
			return fmt.Errorf("list tests: %w", err)
		}
		names, err := listing.ExtractMatched([]byte(result.Stdout), req.List.Filter)
		if err != nil {
			return fmt.Errorf("list tests: %w", err)
		}
		logging.PipelineDebug("[%s] Listing matched %d tests", req.ID, len(names))
		matched = names
		return nil
	})

	g.Go(func() error {
		result, err := tactile.Run(gctx, p.executor, req.command(req.Run.Invocation()))
		if err != nil {
			return fmt.Errorf("collect artifact manifest: %w", err)
		}
		recs, err := manifest.Parse(result.Stdout)
		if err != nil {
			return fmt.Errorf("collect artifact manifest: %w", err)
		}
		logging.PipelineDebug("[%s] Manifest declared %d test records", req.ID, len(recs))
		records = recs
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.PipelineError("[%s] Resolution failed: %v", req.ID, err)
		return nil, err
	}

	plan := resolve.Resolve(matched, records, req.Host)
	plan.RequestID = req.ID
	return &plan, nil
}

// command turns an invocation into an executable command.
func (r Request) command(inv invocation.Invocation) tactile.Command {
	logging.Build("[%s] %s", r.ID, inv)
	cmd := tactile.Command{
		Binary:           inv.Program,
		Arguments:        inv.Args,
		WorkingDirectory: r.WorkingDir,
		Environment:      build.Env(r.AllowedEnv, inv.Env),
		RequestID:        r.ID,
	}
	if r.Timeout > 0 {
		cmd.Limits = &tactile.ResourceLimits{TimeoutMs: r.Timeout.Milliseconds()}
	}
	return cmd
}

// ResolveOutputs resolves a plan from already captured listing and manifest
// output, without running anything.
func ResolveOutputs(listingOut []byte, manifestOut string, host selection.Platform) (*resolve.Plan, error) {
	matched, err := listing.ExtractMatched(listingOut, "")
	if err != nil {
		return nil, err
	}
	records, err := manifest.Parse(manifestOut)
	if err != nil {
		return nil, err
	}
	plan := resolve.Resolve(matched, records, host)
	return &plan, nil
}
