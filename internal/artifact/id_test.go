package artifact

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ID
	}{
		{"catalog form", "GUEST_TEST_UEFI_X64", GuestTestUEFIX64},
		{"whitespace", "  OPENVMM_NATIVE\n", OpenVMMNative},
		{"common path", "petri_artifacts_common::artifacts::PIPETTE_LINUX_X64", PipetteLinuxX64},
		{"vhd group", "petri_artifacts_vmm_test::artifacts::test_vhd::GUEST_TEST_UEFI_AARCH64", GuestTestUEFIAarch64},
		{"tmk group", "petri_artifacts_vmm_test::artifacts::tmks::TMK_VMM_NATIVE", TMKVMMNative},
		{"igvm group", "petri_artifacts_vmm_test::artifacts::openhcl_igvm::LATEST_CVM_X64", OpenHCLLatestCVMX64},
		{"igvm nested", "petri_artifacts_vmm_test::artifacts::openhcl_igvm::um_bin::LATEST_LINUX_DIRECT_TEST_X64", OpenHCLUmBinLatestLinuxDirectTestX64},
		{"relative path", "artifacts::tmks::SIMPLE_TMK_X64", SimpleTMKX64},
		{"unknown stays opaque", "some_crate::artifacts::NEW_THING", ID("NEW_THING")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestIDUnmarshalJSONNormalizes(t *testing.T) {
	var ids []ID
	err := json.Unmarshal([]byte(`["petri_artifacts_vmm_test::artifacts::test_vhd::GUEST_TEST_UEFI_X64","VMGSTOOL_NATIVE"]`), &ids)
	require.NoError(t, err)
	assert.Equal(t, []ID{GuestTestUEFIX64, VmgstoolNative}, ids)
}

func TestIDUnmarshalJSONRejectsNonString(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`42`), &id))
}

func TestIDUnmarshalJSONRejectsNullAndEmpty(t *testing.T) {
	for _, in := range []string{`null`, `[null]`, `[""]`, `["  "]`, `["some_crate::artifacts::"]`} {
		var ids []ID
		assert.Error(t, json.Unmarshal([]byte(in), &ids), "input %s", in)
	}

	var id ID
	assert.Error(t, id.UnmarshalText([]byte("")))
}

func TestIDOrdering(t *testing.T) {
	assert.True(t, OpenVMMNative.Less(PipetteLinuxX64))
	assert.False(t, PipetteLinuxX64.Less(OpenVMMNative))
	assert.False(t, OpenVMMNative.Less(OpenVMMNative))
}

func TestCatalog(t *testing.T) {
	ids := Catalog()
	require.Len(t, ids, len(catalog))
	for i := 1; i < len(ids); i++ {
		assert.True(t, ids[i-1].Less(ids[i]), "catalog not strictly sorted at %d", i)
	}
	assert.True(t, Known(TMKVMMNative))
	assert.False(t, Known(ID("NOT_A_REAL_ARTIFACT")))
}

func TestSet(t *testing.T) {
	s := NewSet(PipetteLinuxX64, OpenVMMNative, PipetteLinuxX64)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(OpenVMMNative))
	assert.False(t, s.Has(VmgstoolNative))

	s.Union(NewSet(VmgstoolNative, OpenVMMNative))
	s.Union(nil)
	assert.Equal(t, []ID{OpenVMMNative, PipetteLinuxX64, VmgstoolNative}, s.Sorted())
}

func TestTestRecordSets(t *testing.T) {
	r := TestRecord{
		Name:     "boot",
		Required: []ID{GuestTestUEFIX64, GuestTestUEFIX64},
		Optional: []ID{},
	}
	assert.Equal(t, 1, r.RequiredSet().Len())
	assert.Equal(t, 0, r.OptionalSet().Len())
}
