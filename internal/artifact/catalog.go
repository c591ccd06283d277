package artifact

import "sort"

// Common artifacts shared by every VMM test crate.
const (
	PipetteWindowsX64     ID = "PIPETTE_WINDOWS_X64"
	PipetteWindowsAarch64 ID = "PIPETTE_WINDOWS_AARCH64"
	PipetteLinuxX64       ID = "PIPETTE_LINUX_X64"
	PipetteLinuxAarch64   ID = "PIPETTE_LINUX_AARCH64"
)

// Native host tools.
const (
	OpenVMMNative  ID = "OPENVMM_NATIVE"
	VmgstoolNative ID = "VMGSTOOL_NATIVE"
)

// OpenHCL IGVM firmware images.
const (
	OpenHCLLatestStandardX64              ID = "LATEST_STANDARD_X64"
	OpenHCLLatestStandardDevKernelX64     ID = "LATEST_STANDARD_DEV_KERNEL_X64"
	OpenHCLLatestCVMX64                   ID = "LATEST_CVM_X64"
	OpenHCLLatestLinuxDirectTestX64       ID = "LATEST_LINUX_DIRECT_TEST_X64"
	OpenHCLLatestStandardAarch64          ID = "LATEST_STANDARD_AARCH64"
	OpenHCLLatestStandardDevKernelAarch64 ID = "LATEST_STANDARD_DEV_KERNEL_AARCH64"
	OpenHCLRelease2505StandardX64         ID = "RELEASE_25_05_STANDARD_X64"
	OpenHCLRelease2505LinuxDirectX64      ID = "RELEASE_25_05_LINUX_DIRECT_X64"
	OpenHCLRelease2505StandardAarch64     ID = "RELEASE_25_05_STANDARD_AARCH64"
	OpenHCLUmBinLatestLinuxDirectTestX64  ID = "um_bin::LATEST_LINUX_DIRECT_TEST_X64"
	OpenHCLUmDbgLatestLinuxDirectTestX64  ID = "um_dbg::LATEST_LINUX_DIRECT_TEST_X64"
)

// Test disk images.
const (
	GuestTestUEFIX64                        ID = "GUEST_TEST_UEFI_X64"
	GuestTestUEFIAarch64                    ID = "GUEST_TEST_UEFI_AARCH64"
	Gen2WindowsDataCenterCore2025X64Prepped ID = "GEN2_WINDOWS_DATA_CENTER_CORE2025_X64_PREPPED"
)

// Test micro-kernels and their runners.
const (
	TMKVMMNative           ID = "TMK_VMM_NATIVE"
	TMKVMMLinuxX64Musl     ID = "TMK_VMM_LINUX_X64_MUSL"
	TMKVMMLinuxAarch64Musl ID = "TMK_VMM_LINUX_AARCH64_MUSL"
	SimpleTMKX64           ID = "SIMPLE_TMK_X64"
	SimpleTMKAarch64       ID = "SIMPLE_TMK_AARCH64"
)

var catalog = []ID{
	PipetteWindowsX64,
	PipetteWindowsAarch64,
	PipetteLinuxX64,
	PipetteLinuxAarch64,
	OpenVMMNative,
	VmgstoolNative,
	OpenHCLLatestStandardX64,
	OpenHCLLatestStandardDevKernelX64,
	OpenHCLLatestCVMX64,
	OpenHCLLatestLinuxDirectTestX64,
	OpenHCLLatestStandardAarch64,
	OpenHCLLatestStandardDevKernelAarch64,
	OpenHCLRelease2505StandardX64,
	OpenHCLRelease2505LinuxDirectX64,
	OpenHCLRelease2505StandardAarch64,
	OpenHCLUmBinLatestLinuxDirectTestX64,
	OpenHCLUmDbgLatestLinuxDirectTestX64,
	GuestTestUEFIX64,
	GuestTestUEFIAarch64,
	Gen2WindowsDataCenterCore2025X64Prepped,
	TMKVMMNative,
	TMKVMMLinuxX64Musl,
	TMKVMMLinuxAarch64Musl,
	SimpleTMKX64,
	SimpleTMKAarch64,
}

// Catalog returns every identifier this build knows about, sorted.
func Catalog() []ID {
	out := make([]ID, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

var known = func() map[ID]struct{} {
	m := make(map[ID]struct{}, len(catalog))
	for _, id := range Catalog() {
		m[id] = struct{}{}
	}
	return m
}()

// Known reports whether id is part of the catalog.
func Known(id ID) bool {
	_, ok := known[id]
	return ok
}
