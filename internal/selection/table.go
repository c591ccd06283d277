package selection

import "artifactplan/internal/artifact"

// Rule maps a group of artifact identifiers onto build toggles.
type Rule struct {
	// Name labels the group in diagnostics and the rendered table.
	Name string

	// IDs are the identifiers that trigger this rule.
	IDs []artifact.ID

	// Toggles are set whenever any of IDs is required.
	Toggles ToggleSet

	// HostToggles are additionally set depending on the host platform.
	// Hosts without an entry contribute nothing extra.
	HostToggles map[Platform]ToggleSet
}

// TogglesFor returns the toggles this rule sets on host.
func (r Rule) TogglesFor(host Platform) ToggleSet {
	return r.Toggles.Union(r.HostToggles[host])
}

// table is the process-wide classification table. It is never mutated.
var table = []Rule{
	{
		Name:    "pipette (windows)",
		IDs:     []artifact.ID{artifact.PipetteWindowsX64, artifact.PipetteWindowsAarch64},
		Toggles: Toggles(TogglePipetteWindows),
	},
	{
		Name:    "pipette (linux)",
		IDs:     []artifact.ID{artifact.PipetteLinuxX64, artifact.PipetteLinuxAarch64},
		Toggles: Toggles(TogglePipetteLinux),
	},
	{
		Name:    "openvmm",
		IDs:     []artifact.ID{artifact.OpenVMMNative},
		Toggles: Toggles(ToggleOpenVMM),
	},
	{
		Name: "openhcl igvm",
		IDs: []artifact.ID{
			artifact.OpenHCLLatestStandardX64,
			artifact.OpenHCLLatestStandardDevKernelX64,
			artifact.OpenHCLLatestCVMX64,
			artifact.OpenHCLLatestLinuxDirectTestX64,
			artifact.OpenHCLLatestStandardAarch64,
			artifact.OpenHCLLatestStandardDevKernelAarch64,
			artifact.OpenHCLRelease2505StandardX64,
			artifact.OpenHCLRelease2505LinuxDirectX64,
			artifact.OpenHCLRelease2505StandardAarch64,
			artifact.OpenHCLUmBinLatestLinuxDirectTestX64,
			artifact.OpenHCLUmDbgLatestLinuxDirectTestX64,
		},
		Toggles: Toggles(ToggleOpenHCL),
	},
	{
		Name:    "guest test uefi",
		IDs:     []artifact.ID{artifact.GuestTestUEFIX64, artifact.GuestTestUEFIAarch64},
		Toggles: Toggles(ToggleGuestTestUEFI),
	},
	{
		Name:    "prepped test vhd",
		IDs:     []artifact.ID{artifact.Gen2WindowsDataCenterCore2025X64Prepped},
		Toggles: Toggles(TogglePrepSteps),
	},
	{
		// The native runner is whatever the host runs natively.
		Name:    "tmk vmm (native)",
		IDs:     []artifact.ID{artifact.TMKVMMNative},
		Toggles: Toggles(ToggleTMKs),
		HostToggles: map[Platform]ToggleSet{
			PlatformWindows: Toggles(ToggleTMKVMMWindows),
			PlatformLinux:   Toggles(ToggleTMKVMMLinux),
		},
	},
	{
		Name:    "tmk vmm (linux musl)",
		IDs:     []artifact.ID{artifact.TMKVMMLinuxX64Musl, artifact.TMKVMMLinuxAarch64Musl},
		Toggles: Toggles(ToggleTMKs, ToggleTMKVMMLinux),
	},
	{
		Name:    "simple tmk",
		IDs:     []artifact.ID{artifact.SimpleTMKX64, artifact.SimpleTMKAarch64},
		Toggles: Toggles(ToggleTMKs),
	},
	{
		Name:    "vmgstool",
		IDs:     []artifact.ID{artifact.VmgstoolNative},
		Toggles: Toggles(ToggleVmgstool),
	},
}

// index maps each identifier to the rules that mention it.
var index = buildIndex(table)

func buildIndex(rules []Rule) map[artifact.ID][]int {
	idx := make(map[artifact.ID][]int)
	for i, r := range rules {
		for _, id := range r.IDs {
			idx[id] = append(idx[id], i)
		}
	}
	return idx
}

// Table returns a copy of the classification table.
func Table() []Rule {
	out := make([]Rule, len(table))
	for i, r := range table {
		out[i] = r
		out[i].IDs = append([]artifact.ID(nil), r.IDs...)
		if r.HostToggles != nil {
			out[i].HostToggles = make(map[Platform]ToggleSet, len(r.HostToggles))
			for p, s := range r.HostToggles {
				out[i].HostToggles[p] = s
			}
		}
	}
	return out
}

// Lookup returns the toggles id sets on host. ok is false for identifiers
// with no table entry.
func Lookup(id artifact.ID, host Platform) (toggles ToggleSet, ok bool) {
	rules, ok := index[id]
	if !ok {
		return 0, false
	}
	for _, i := range rules {
		toggles = toggles.Union(table[i].TogglesFor(host))
	}
	return toggles, true
}

// Classify computes the selections for a set of required identifiers.
// Identifiers with no table entry contribute nothing and are returned in
// unclassified, in input order.
func Classify(ids []artifact.ID, host Platform) (sel BuildSelections, unclassified []artifact.ID) {
	var set ToggleSet
	for _, id := range ids {
		toggles, ok := Lookup(id, host)
		if !ok {
			unclassified = append(unclassified, id)
			continue
		}
		set = set.Union(toggles)
	}
	return FromToggles(set), unclassified
}
