package invocation

import (
	"fmt"
	"sort"
	"strings"
)

// PackageSelection chooses which cargo packages an invocation covers.
// It is either Workspace or Crates.
type PackageSelection interface {
	// Args renders the selection as cargo flags.
	Args() []string

	isPackageSelection()
}

// Workspace selects every workspace package except Exclude.
type Workspace struct {
	Exclude []string
}

// Args emits --workspace followed by one --exclude pair per excluded
// package, in caller order.
func (w Workspace) Args() []string {
	args := make([]string, 0, 1+2*len(w.Exclude))
	args = append(args, "--workspace")
	for _, name := range w.Exclude {
		args = append(args, "--exclude", name)
	}
	return args
}

func (Workspace) isPackageSelection() {}

// Crates selects an explicit list of packages.
type Crates struct {
	Names []string
}

// Args emits one -p pair per crate, in caller order.
func (c Crates) Args() []string {
	args := make([]string, 0, 2*len(c.Names))
	for _, name := range c.Names {
		args = append(args, "-p", name)
	}
	return args
}

func (Crates) isPackageSelection() {}

// packageArgs treats a nil selection as the whole workspace.
func packageArgs(p PackageSelection) []string {
	if p == nil {
		return Workspace{}.Args()
	}
	return p.Args()
}

// Profile is a cargo build profile name.
type Profile string

const (
	ProfileDebug   Profile = "dev"
	ProfileRelease Profile = "release"
)

// CustomProfile names a profile defined in the workspace's Cargo.toml.
func CustomProfile(name string) Profile {
	return Profile(name)
}

// ProfileFor maps the release switch onto the two built-in profiles.
func ProfileFor(release bool) Profile {
	if release {
		return ProfileRelease
	}
	return ProfileDebug
}

// String returns the profile name as cargo expects it.
func (p Profile) String() string {
	if p == "" {
		return string(ProfileDebug)
	}
	return string(p)
}

// FeatureSet is the set of cargo features to enable.
type FeatureSet struct {
	// All enables every feature and overrides Names.
	All bool `yaml:"all" json:"all"`

	Names []string `yaml:"names" json:"names"`
}

// Features returns a set enabling names.
func Features(names ...string) FeatureSet {
	return FeatureSet{Names: names}
}

// AllFeatures returns a set enabling every feature.
func AllFeatures() FeatureSet {
	return FeatureSet{All: true}
}

// IsEmpty reports whether the set renders to no tokens.
func (f FeatureSet) IsEmpty() bool {
	return !f.All && len(f.sortedNames()) == 0
}

// Args renders the feature tokens: --all-features, --features a,b (sorted,
// deduplicated), or nothing.
func (f FeatureSet) Args() []string {
	if f.All {
		return []string{"--all-features"}
	}
	if f.IsEmpty() {
		return nil
	}
	return []string{"--features", strings.Join(f.sortedNames(), ",")}
}

func (f FeatureSet) sortedNames() []string {
	seen := make(map[string]struct{}, len(f.Names))
	out := make([]string, 0, len(f.Names))
	for _, n := range f.Names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Backend is where an invocation executes.
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendCI     Backend = "ci"
	BackendADO    Backend = "ado"
	BackendGitHub Backend = "github"
)

// ParseBackend accepts the backend names used in configuration.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendLocal, BackendCI, BackendADO, BackendGitHub:
		return b, nil
	case "":
		return BackendLocal, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want local, ci, ado or github)", s)
	}
}

// IsLocal reports whether b is a developer machine.
func (b Backend) IsLocal() bool {
	return b == BackendLocal || b == ""
}

// IncrementalVar is the cargo variable toggling incremental compilation.
const IncrementalVar = "CARGO_INCREMENTAL"

// envFor returns the environment overrides for backend b. Incremental
// compilation is disabled everywhere except on local backends.
func envFor(b Backend) map[string]string {
	if b.IsLocal() {
		return map[string]string{}
	}
	return map[string]string{IncrementalVar: "0"}
}
