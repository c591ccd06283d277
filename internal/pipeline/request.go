package pipeline

import (
	"fmt"
	"time"

	"artifactplan/internal/config"
	"artifactplan/internal/invocation"
	"artifactplan/internal/selection"
)

// Request is one resolution request: the two invocations to run and the
// host to plan for.
type Request struct {
	// ID tags log lines, commands and the resulting plan. Generated when
	// empty.
	ID string

	Host selection.Platform

	List invocation.NextestList
	Run  invocation.TestRun

	// WorkingDir is where cargo runs.
	WorkingDir string

	// AllowedEnv are variables passed through from the current process.
	AllowedEnv []string

	// Timeout bounds each invocation. Zero uses the executor default.
	Timeout time.Duration
}

// RequestFromConfig builds a request from configuration. defaultHost is
// used when the configuration names no host.
func RequestFromConfig(cfg *config.Config, defaultHost selection.Platform) (Request, error) {
	host := defaultHost
	if cfg.Host != "" {
		h, err := selection.ParsePlatform(cfg.Host)
		if err != nil {
			return Request{}, err
		}
		host = h
	}
	if host == "" {
		return Request{}, fmt.Errorf("no host platform given")
	}

	backend, err := invocation.ParseBackend(cfg.Backend)
	if err != nil {
		return Request{}, err
	}

	run := manifestRun(cfg, backend)

	return Request{
		Host: host,
		List: invocation.NextestList{
			Binary:         cfg.Nextest.Binary,
			Toolchain:      cfg.Toolchain,
			ArchiveFile:    cfg.Nextest.ArchiveFile,
			WorkspaceRemap: cfg.Nextest.WorkingDir,
			Packages:       run.Packages,
			Features:       run.Features,
			CargoProfile:   run.Profile,
			ConfigFile:     cfg.Nextest.ConfigFile,
			NextestProfile: cfg.Nextest.Profile,
			Target:         cfg.Target,
			Filter:         cfg.Nextest.Filter,
			RunIgnored:     cfg.Nextest.RunIgnored,
			Backend:        backend,
		},
		Run:        run,
		WorkingDir: cfg.Execution.WorkingDir,
		AllowedEnv: cfg.Execution.AllowedEnvVars,
		Timeout:    cfg.GetExecutionTimeout(),
	}, nil
}

// manifestRun starts from the default manifest run for the configured target
// and applies whatever the configuration sets on top of it.
func manifestRun(cfg *config.Config, backend invocation.Backend) invocation.TestRun {
	run := invocation.NewManifestRun(cfg.Target, cfg.Release)
	run.Toolchain = cfg.Toolchain
	run.Locked = cfg.Locked
	run.Verbose = cfg.Verbose
	if cfg.Features.All {
		run.Features = invocation.AllFeatures()
	} else {
		run.Features = invocation.Features(cfg.Features.Names...)
	}
	run.Backend = backend

	if packages := packagesFromConfig(cfg.Packages); packages != nil {
		run.Packages = packages
	}
	if cfg.Profile != "" {
		run.Profile = invocation.CustomProfile(cfg.Profile)
	}
	if len(cfg.ManifestArgs) > 0 {
		run.ExtraArgs = cfg.ManifestArgs
	}
	return run
}

// packagesFromConfig returns nil when the configuration selects no packages.
func packagesFromConfig(p config.PackagesConfig) invocation.PackageSelection {
	switch {
	case p.Workspace:
		return invocation.Workspace{Exclude: p.Exclude}
	case len(p.Crates) > 0:
		return invocation.Crates{Names: p.Crates}
	default:
		return nil
	}
}
