// Package artifact names the buildable outputs (executables, disk images,
// firmware blobs) that integration tests declare a dependency on.
//
// Identifiers are opaque tokens. They are compared, ordered and used as set
// members; this package never builds or inspects the artifacts themselves.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID identifies one buildable artifact variant
// (component x platform x architecture x edition).
type ID string

// groupModules are catalog sub-modules whose prefix is not part of the
// canonical identifier. Nested modules such as um_bin:: and um_dbg:: are kept
// because they distinguish otherwise identical names.
var groupModules = []string{"test_vhd::", "tmks::", "openhcl_igvm::"}

const artifactsModule = "artifacts::"

// Normalize maps an identifier as emitted by a test binary to its catalog
// form. Fully qualified paths such as
// "petri_artifacts_vmm_test::artifacts::test_vhd::GUEST_TEST_UEFI_X64"
// become "GUEST_TEST_UEFI_X64". Identifiers already in catalog form are
// returned unchanged apart from surrounding whitespace.
func Normalize(raw string) ID {
	s := strings.TrimSpace(raw)
	if i := strings.LastIndex(s, "::"+artifactsModule); i >= 0 {
		s = s[i+len("::"+artifactsModule):]
	} else {
		s = strings.TrimPrefix(s, artifactsModule)
	}
	for _, g := range groupModules {
		if rest, ok := strings.CutPrefix(s, g); ok {
			s = rest
			break
		}
	}
	return ID(s)
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// Less reports whether id sorts before other.
func (id ID) Less(other ID) bool {
	return id < other
}

// UnmarshalJSON decodes a JSON string and normalizes it. null and
// identifiers that normalize to the empty string are rejected.
func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("artifact identifier must be a string, got null")
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return id.set(s)
}

// UnmarshalText normalizes identifiers read from text formats (YAML, map keys).
func (id *ID) UnmarshalText(text []byte) error {
	return id.set(string(text))
}

func (id *ID) set(raw string) error {
	n := Normalize(raw)
	if n == "" {
		return fmt.Errorf("empty artifact identifier %q", raw)
	}
	*id = n
	return nil
}
