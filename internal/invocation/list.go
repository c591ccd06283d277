package invocation

// NextestList describes a `nextest list` invocation whose JSON output
// reports, per test, whether the filter expression matched it.
type NextestList struct {
	// Binary is a standalone cargo-nextest executable. When empty the
	// listing runs as `cargo nextest list`.
	Binary string

	// Toolchain applies only when running through cargo.
	Toolchain string

	// ArchiveFile lists tests from a prebuilt nextest archive instead of
	// building the workspace. WorkspaceRemap points the archive at the
	// checked-out sources.
	ArchiveFile    string
	WorkspaceRemap string

	// Packages, Features and CargoProfile apply when no archive is used.
	Packages     PackageSelection
	Features     FeatureSet
	CargoProfile Profile

	ConfigFile     string
	NextestProfile string
	Target         string

	// Filter is a nextest filterset expression. Empty selects every test.
	Filter string

	// RunIgnored includes #[ignore] tests in the match.
	RunIgnored bool

	Backend Backend
}

// Args returns the arguments following `list`.
func (l NextestList) Args() []string {
	var args []string

	if l.ArchiveFile != "" {
		args = append(args, "--archive-file", l.ArchiveFile)
		if l.WorkspaceRemap != "" {
			args = append(args, "--workspace-remap", l.WorkspaceRemap)
		}
	} else {
		args = append(args, packageArgs(l.Packages)...)
		args = append(args, l.Features.Args()...)
		args = append(args, "--cargo-profile", l.CargoProfile.String())
	}

	if l.ConfigFile != "" {
		args = append(args, "--config-file", l.ConfigFile)
	}
	if l.NextestProfile != "" {
		args = append(args, "--profile", l.NextestProfile)
	}
	if l.Target != "" {
		args = append(args, "--target", l.Target)
	}

	args = append(args, "--message-format", "json")

	if l.RunIgnored {
		args = append(args, "--run-ignored", "all")
	}
	if l.Filter != "" {
		args = append(args, "-E", l.Filter)
	}
	return args
}

// Env returns the environment overrides for the listing.
func (l NextestList) Env() map[string]string {
	return envFor(l.Backend)
}

// Invocation assembles the complete command.
func (l NextestList) Invocation() Invocation {
	var program string
	var args []string
	if l.Binary != "" {
		program, args = l.Binary, []string{"list"}
	} else {
		program, args = cargoCommand(l.Toolchain, "nextest", "list")
	}
	return Invocation{
		Program: program,
		Args:    append(args, l.Args()...),
		Env:     l.Env(),
	}
}
