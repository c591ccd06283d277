package invocation

// ManifestModeArg asks the vmm test binary to print its artifact
// requirements instead of running tests.
const ManifestModeArg = "--list-required-artifacts=json"

// DefaultTestCrate is the package holding the VMM integration tests.
const DefaultTestCrate = "vmm_tests"

// TestRun describes a `cargo test` invocation.
type TestRun struct {
	// Toolchain, when set, runs cargo through `rustup run <toolchain>`.
	Toolchain string

	Locked  bool
	Verbose bool

	// Packages defaults to the whole workspace when nil.
	Packages PackageSelection
	Features FeatureSet

	// Target is the target triple.
	Target  string
	Profile Profile

	// ExtraArgs are passed to the test binary after "--".
	ExtraArgs []string

	Backend Backend
}

// NewManifestRun returns the run that makes the vmm test binary emit its
// artifact manifest for target.
func NewManifestRun(target string, release bool) TestRun {
	return TestRun{
		Packages:  Crates{Names: []string{DefaultTestCrate}},
		Target:    target,
		Profile:   ProfileFor(release),
		ExtraArgs: []string{ManifestModeArg},
	}
}

// Args returns the cargo test arguments, without the program name or the
// `test` subcommand:
//
//	[--locked] [--verbose] --tests --bins <packages> <features>
//	--target <triple> --profile <name> [-- <extra>...]
func (r TestRun) Args() []string {
	var args []string
	if r.Locked {
		args = append(args, "--locked")
	}
	if r.Verbose {
		args = append(args, "--verbose")
	}

	// Benchmarks are never part of the test universe.
	args = append(args, "--tests", "--bins")

	args = append(args, packageArgs(r.Packages)...)
	args = append(args, r.Features.Args()...)
	args = append(args, "--target", r.Target)
	args = append(args, "--profile", r.Profile.String())

	if len(r.ExtraArgs) > 0 {
		args = append(args, "--")
		args = append(args, r.ExtraArgs...)
	}
	return args
}

// Env returns the environment overrides for the run.
func (r TestRun) Env() map[string]string {
	return envFor(r.Backend)
}

// Invocation assembles the complete command.
func (r TestRun) Invocation() Invocation {
	program, args := cargoCommand(r.Toolchain, "test")
	return Invocation{
		Program: program,
		Args:    append(args, r.Args()...),
		Env:     r.Env(),
	}
}
