package resolve

import (
	"math/rand"
	"testing"

	"artifactplan/internal/artifact"
	"artifactplan/internal/listing"
	"artifactplan/internal/manifest"
	"artifactplan/internal/selection"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(name string, required []artifact.ID, optional ...artifact.ID) artifact.TestRecord {
	return artifact.TestRecord{Name: name, Required: required, Optional: optional}
}

func sampleRecords() []artifact.TestRecord {
	return []artifact.TestRecord{
		rec("test_boot_uefi", []artifact.ID{artifact.GuestTestUEFIX64, artifact.OpenVMMNative}),
		rec("test_tmk", []artifact.ID{artifact.TMKVMMNative, artifact.SimpleTMKX64}),
		rec("test_servicing", []artifact.ID{artifact.OpenHCLLatestStandardX64}, artifact.PipetteWindowsX64),
		rec("test_prepped", []artifact.ID{artifact.Gen2WindowsDataCenterCore2025X64Prepped, artifact.PipetteWindowsX64}),
		rec("test_unrelated", []artifact.ID{artifact.VmgstoolNative, artifact.PipetteLinuxX64}),
	}
}

func TestOnlyMatchedUEFITest(t *testing.T) {
	records, err := manifest.Parse(`[{"name":"test_boot_uefi","required":["GUEST_TEST_UEFI_X64"],"optional":[]}]`)
	require.NoError(t, err)

	plan := Resolve(listing.NewNames("test_boot_uefi"), records, selection.PlatformLinux)

	want := selection.FromToggles(selection.Toggles(selection.ToggleGuestTestUEFI))
	if diff := cmp.Diff(want, plan.Selections); diff != "" {
		t.Errorf("selections mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []artifact.ID{artifact.GuestTestUEFIX64}, plan.Required)
	assert.Empty(t, plan.Optional)
	assert.Empty(t, plan.Unclassified)
	assert.Empty(t, plan.Undeclared)
}

func TestUnmatchedRecordsDoNotContribute(t *testing.T) {
	records := []artifact.TestRecord{
		rec("test_unrelated", []artifact.ID{artifact.VmgstoolNative, artifact.OpenVMMNative}, artifact.PipetteLinuxX64),
	}

	plan := Resolve(listing.NewNames("test_other"), records, selection.PlatformLinux)

	assert.Equal(t, selection.Default(), plan.Selections)
	assert.Empty(t, plan.Required)
	assert.Equal(t, []string{"test_other"}, plan.Undeclared)
}

func TestEmptyMatchIsDefault(t *testing.T) {
	for _, host := range []selection.Platform{selection.PlatformLinux, selection.PlatformWindows, selection.PlatformMacOS} {
		plan := Resolve(listing.NewNames(), sampleRecords(), host)
		assert.True(t, plan.Selections.IsEmpty(), host)
		assert.Empty(t, plan.MatchedTests)
	}
}

func TestExclusion(t *testing.T) {
	all := listing.NewNames("test_boot_uefi", "test_tmk", "test_servicing", "test_prepped")
	plan := Resolve(all, sampleRecords(), selection.PlatformLinux)

	// test_unrelated alone needs vmgstool and linux pipette.
	assert.False(t, plan.Selections.Vmgstool)
	assert.False(t, plan.Selections.PipetteLinux)
	assert.NotContains(t, plan.Required, artifact.VmgstoolNative)
}

func TestOptionalArtifactsSetToggles(t *testing.T) {
	plan := Resolve(listing.NewNames("test_servicing"), sampleRecords(), selection.PlatformWindows)

	assert.True(t, plan.Selections.OpenHCL)
	assert.True(t, plan.Selections.PipetteWindows)
	assert.Equal(t, []artifact.ID{artifact.PipetteWindowsX64}, plan.Optional)
}

func TestHostConditionalTMK(t *testing.T) {
	matched := listing.NewNames("test_tmk")

	linux := Resolve(matched, sampleRecords(), selection.PlatformLinux).Selections
	windows := Resolve(matched, sampleRecords(), selection.PlatformWindows).Selections

	assert.True(t, linux.TMKs)
	assert.True(t, linux.TMKVMMLinux)
	assert.False(t, linux.TMKVMMWindows)

	assert.True(t, windows.TMKs)
	assert.True(t, windows.TMKVMMWindows)
	assert.False(t, windows.TMKVMMLinux)
}

func TestPreppedImpliesPrepSteps(t *testing.T) {
	plan := Resolve(listing.NewNames("test_prepped"), sampleRecords(), selection.PlatformWindows)

	assert.True(t, plan.Selections.PrepSteps)
	assert.True(t, plan.Selections.PipetteWindows)
}

func TestIdempotentAndOrderIndependent(t *testing.T) {
	matched := listing.NewNames("test_boot_uefi", "test_tmk", "test_servicing", "test_prepped", "test_missing")
	records := sampleRecords()
	want := Resolve(matched, records, selection.PlatformLinux)

	again := Resolve(matched, records, selection.PlatformLinux)
	assert.Equal(t, want, again)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]artifact.TestRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		for j := range shuffled {
			req := append([]artifact.ID(nil), shuffled[j].Required...)
			rng.Shuffle(len(req), func(a, b int) { req[a], req[b] = req[b], req[a] })
			shuffled[j].Required = req
		}

		got := Resolve(matched, shuffled, selection.PlatformLinux)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("permutation %d changed the plan (-want +got):\n%s", i, diff)
		}
	}
}

func TestUnknownArtifactsAreReported(t *testing.T) {
	records := []artifact.TestRecord{
		rec("test_future", []artifact.ID{"FUTURE_FIRMWARE_X64", artifact.OpenVMMNative}, "ZZZ_OPTIONAL_TOOL"),
	}

	plan := Resolve(listing.NewNames("test_future"), records, selection.PlatformLinux)

	assert.Equal(t, selection.FromToggles(selection.Toggles(selection.ToggleOpenVMM)), plan.Selections)
	assert.Equal(t, []artifact.ID{"FUTURE_FIRMWARE_X64", "ZZZ_OPTIONAL_TOOL"}, plan.Unknown)
	assert.Empty(t, plan.Unclassified)
}

func TestSplitUnclassified(t *testing.T) {
	unmapped, unknown := splitUnclassified([]artifact.ID{"NEW_X64", artifact.VmgstoolNative, "OTHER", artifact.OpenVMMNative})

	assert.Equal(t, []artifact.ID{artifact.VmgstoolNative, artifact.OpenVMMNative}, unmapped)
	assert.Equal(t, []artifact.ID{"NEW_X64", "OTHER"}, unknown)

	unmapped, unknown = splitUnclassified(nil)
	assert.Nil(t, unmapped)
	assert.Nil(t, unknown)
}

func TestDiagnosticsAreDeduplicated(t *testing.T) {
	records := []artifact.TestRecord{
		rec("a", []artifact.ID{artifact.OpenVMMNative, artifact.PipetteLinuxX64}),
		rec("b", []artifact.ID{artifact.PipetteLinuxX64, artifact.OpenVMMNative}, artifact.PipetteLinuxX64),
	}

	plan := Resolve(listing.NewNames("b", "a"), records, selection.PlatformLinux)

	assert.Equal(t, []string{"a", "b"}, plan.MatchedTests)
	assert.Equal(t, []artifact.ID{artifact.OpenVMMNative, artifact.PipetteLinuxX64}, plan.Required)
	assert.Equal(t, []artifact.ID{artifact.PipetteLinuxX64}, plan.Optional)
	assert.Equal(t, selection.PlatformLinux, plan.Host)
}
