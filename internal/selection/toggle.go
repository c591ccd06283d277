// Package selection holds the build plan record handed to the build
// scheduler and the static table that maps artifact identifiers onto it.
package selection

import (
	"fmt"
	"strings"
)

// Toggle names one buildable component class.
type Toggle uint8

const (
	ToggleOpenHCL Toggle = iota
	ToggleOpenVMM
	TogglePipetteWindows
	TogglePipetteLinux
	TogglePrepSteps
	ToggleGuestTestUEFI
	ToggleTMKs
	ToggleTMKVMMWindows
	ToggleTMKVMMLinux
	ToggleVmgstool

	toggleCount
)

var toggleNames = [toggleCount]string{
	ToggleOpenHCL:        "openhcl",
	ToggleOpenVMM:        "openvmm",
	TogglePipetteWindows: "pipette_windows",
	TogglePipetteLinux:   "pipette_linux",
	TogglePrepSteps:      "prep_steps",
	ToggleGuestTestUEFI:  "guest_test_uefi",
	ToggleTMKs:           "tmks",
	ToggleTMKVMMWindows:  "tmk_vmm_windows",
	ToggleTMKVMMLinux:    "tmk_vmm_linux",
	ToggleVmgstool:       "vmgstool",
}

// AllToggles lists every toggle in declaration order.
func AllToggles() []Toggle {
	out := make([]Toggle, 0, toggleCount)
	for t := Toggle(0); t < toggleCount; t++ {
		out = append(out, t)
	}
	return out
}

// String returns the field name used in serialized plans.
func (t Toggle) String() string {
	if t >= toggleCount {
		return fmt.Sprintf("toggle(%d)", uint8(t))
	}
	return toggleNames[t]
}

// ParseToggle looks a toggle up by its serialized name.
func ParseToggle(name string) (Toggle, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range toggleNames {
		if n == name {
			return Toggle(t), nil
		}
	}
	return 0, fmt.Errorf("unknown build toggle: %q", name)
}

// MarshalText encodes a toggle by its serialized name.
func (t Toggle) MarshalText() ([]byte, error) {
	if t >= toggleCount {
		return nil, fmt.Errorf("unknown build toggle: %d", uint8(t))
	}
	return []byte(toggleNames[t]), nil
}

// UnmarshalText decodes a toggle name.
func (t *Toggle) UnmarshalText(text []byte) error {
	v, err := ParseToggle(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ToggleSet is a set of toggles. Combining sets only ever adds members,
// which is what keeps resolution monotonic.
type ToggleSet uint16

// Toggles builds a set from individual toggles.
func Toggles(ts ...Toggle) ToggleSet {
	var s ToggleSet
	for _, t := range ts {
		s = s.With(t)
	}
	return s
}

// With returns s plus t.
func (s ToggleSet) With(t Toggle) ToggleSet {
	return s | 1<<t
}

// Union returns the members of either set.
func (s ToggleSet) Union(other ToggleSet) ToggleSet {
	return s | other
}

// Has reports whether t is a member.
func (s ToggleSet) Has(t Toggle) bool {
	return s&(1<<t) != 0
}

// Empty reports whether no toggle is set.
func (s ToggleSet) Empty() bool {
	return s == 0
}

// Members returns the set toggles in declaration order.
func (s ToggleSet) Members() []Toggle {
	var out []Toggle
	for _, t := range AllToggles() {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// String renders the set as a comma separated list of names.
func (s ToggleSet) String() string {
	members := s.Members()
	names := make([]string, len(members))
	for i, t := range members {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}
