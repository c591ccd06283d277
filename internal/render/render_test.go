package render

import (
	"bytes"
	"strings"
	"testing"

	"artifactplan/internal/artifact"
	"artifactplan/internal/resolve"
	"artifactplan/internal/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	plan := &resolve.Plan{
		RequestID:    "req-1",
		Host:         selection.PlatformWindows,
		Selections:   selection.FromToggles(selection.Toggles(selection.ToggleTMKs, selection.ToggleTMKVMMWindows)),
		MatchedTests: []string{"tmk::a", "tmk::b"},
		Required:     []artifact.ID{artifact.TMKVMMNative},
		Unclassified: []artifact.ID{artifact.VmgstoolNative},
		Unknown:      []artifact.ID{"FUTURE_X64"},
		Undeclared:   []string{"tmk::b"},
	}

	var buf bytes.Buffer
	require.NoError(t, Plan(&buf, plan))
	out := buf.String()

	assert.Contains(t, out, "Build plan req-1")
	assert.Contains(t, out, "(host windows)")
	assert.Contains(t, out, "matched tests: 2")
	assert.Contains(t, out, "[x] tmks")
	assert.Contains(t, out, "[x] tmk_vmm_windows")
	assert.Contains(t, out, "[ ] tmk_vmm_linux")
	assert.Contains(t, out, "unclassified artifacts: VMGSTOOL_NATIVE")
	assert.Contains(t, out, "artifacts not in catalog: FUTURE_X64")
	assert.Contains(t, out, "tests without manifest entry: tmk::b")
	// Plain writers get no escape sequences.
	assert.NotContains(t, out, "\x1b[")
}

func TestPlanOmitsEmptyDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Plan(&buf, &resolve.Plan{Host: selection.PlatformLinux}))

	out := buf.String()
	assert.NotContains(t, out, "unclassified")
	assert.NotContains(t, out, "not in catalog")
	assert.NotContains(t, out, "without manifest")
	assert.Equal(t, len(selection.AllToggles()), strings.Count(out, "[ ]"))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, selection.Table()))
	out := buf.String()

	for _, id := range artifact.Catalog() {
		assert.Contains(t, out, id.String())
	}
	assert.Contains(t, out, "windows: tmk_vmm_windows")
	assert.Contains(t, out, "linux: tmk_vmm_linux")
	assert.Contains(t, out, "prep_steps")
}

func TestTableHeaderUsesPrimaryBackground(t *testing.T) {
	s := NewStyles(&bytes.Buffer{})
	assert.Equal(t, Primary, s.Header.GetBackground())
	assert.Equal(t, Info, s.Header.GetForeground())
}
