package selection

// BuildSelections records which component classes must be built for a
// filtered test run. The field set is closed and versioned together with the
// classification table.
//
// Values are built in one step from a ToggleSet; the zero value is the
// all-false default.
type BuildSelections struct {
	OpenHCL        bool `json:"openhcl" yaml:"openhcl"`
	OpenVMM        bool `json:"openvmm" yaml:"openvmm"`
	PipetteWindows bool `json:"pipette_windows" yaml:"pipette_windows"`
	PipetteLinux   bool `json:"pipette_linux" yaml:"pipette_linux"`
	PrepSteps      bool `json:"prep_steps" yaml:"prep_steps"`
	GuestTestUEFI  bool `json:"guest_test_uefi" yaml:"guest_test_uefi"`
	TMKs           bool `json:"tmks" yaml:"tmks"`
	TMKVMMWindows  bool `json:"tmk_vmm_windows" yaml:"tmk_vmm_windows"`
	TMKVMMLinux    bool `json:"tmk_vmm_linux" yaml:"tmk_vmm_linux"`
	Vmgstool       bool `json:"vmgstool" yaml:"vmgstool"`
}

// Default returns selections with every toggle off.
func Default() BuildSelections {
	return BuildSelections{}
}

// FromToggles builds the record for a computed toggle set.
func FromToggles(s ToggleSet) BuildSelections {
	return BuildSelections{
		OpenHCL:        s.Has(ToggleOpenHCL),
		OpenVMM:        s.Has(ToggleOpenVMM),
		PipetteWindows: s.Has(TogglePipetteWindows),
		PipetteLinux:   s.Has(TogglePipetteLinux),
		PrepSteps:      s.Has(TogglePrepSteps),
		GuestTestUEFI:  s.Has(ToggleGuestTestUEFI),
		TMKs:           s.Has(ToggleTMKs),
		TMKVMMWindows:  s.Has(ToggleTMKVMMWindows),
		TMKVMMLinux:    s.Has(ToggleTMKVMMLinux),
		Vmgstool:       s.Has(ToggleVmgstool),
	}
}

// Toggles returns the set of enabled toggles.
func (b BuildSelections) Toggles() ToggleSet {
	var s ToggleSet
	for _, t := range AllToggles() {
		if b.Get(t) {
			s = s.With(t)
		}
	}
	return s
}

// Get reads one toggle.
func (b BuildSelections) Get(t Toggle) bool {
	switch t {
	case ToggleOpenHCL:
		return b.OpenHCL
	case ToggleOpenVMM:
		return b.OpenVMM
	case TogglePipetteWindows:
		return b.PipetteWindows
	case TogglePipetteLinux:
		return b.PipetteLinux
	case TogglePrepSteps:
		return b.PrepSteps
	case ToggleGuestTestUEFI:
		return b.GuestTestUEFI
	case ToggleTMKs:
		return b.TMKs
	case ToggleTMKVMMWindows:
		return b.TMKVMMWindows
	case ToggleTMKVMMLinux:
		return b.TMKVMMLinux
	case ToggleVmgstool:
		return b.Vmgstool
	}
	return false
}

// IsEmpty reports whether nothing needs to be built.
func (b BuildSelections) IsEmpty() bool {
	return b == Default()
}
