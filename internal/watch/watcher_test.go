package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"artifactplan/internal/planerr"
	"artifactplan/internal/resolve"
	"artifactplan/internal/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const listingJSON = `{"rust-suites": {"vmm_tests": {"testcases": {
	"boot": {"filter-match": {"status": "matches"}}
}}}}`

type outcome struct {
	plan *resolve.Plan
	err  error
}

func setup(t *testing.T, manifest string) (string, string, chan outcome, *PlanWatcher) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fsnotify Windows goroutines cause goleak failures")
	}

	dir := t.TempDir()
	listingPath := filepath.Join(dir, "listing.json")
	manifestPath := filepath.Join(dir, "manifest.jsonl")
	require.NoError(t, os.WriteFile(listingPath, []byte(listingJSON), 0o644))
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o644))

	results := make(chan outcome, 16)
	pw, err := NewPlanWatcher(listingPath, manifestPath, selection.PlatformLinux, func(p *resolve.Plan, err error) {
		results <- outcome{p, err}
	})
	require.NoError(t, err)
	pw.SetDebounce(20 * time.Millisecond)
	return listingPath, manifestPath, results, pw
}

func next(t *testing.T, results chan outcome) outcome {
	t.Helper()
	select {
	case o := <-results:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("no plan produced")
		return outcome{}
	}
}

func TestTrigger(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, _, results, pw := setup(t, `[{"name":"boot","required":["OPENVMM_NATIVE"],"optional":[]}]`)
	defer pw.Stop()

	pw.Trigger()
	o := next(t, results)
	require.NoError(t, o.err)
	assert.True(t, o.plan.Selections.OpenVMM)
	assert.Equal(t, 1, pw.GetStats().Resolutions)
}

func TestReResolvesOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, manifestPath, results, pw := setup(t, `[{"name":"boot","required":["OPENVMM_NATIVE"],"optional":[]}]`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, pw.Start(ctx))
	defer pw.Stop()
	assert.True(t, isRunning(pw))
	assert.Len(t, pw.GetWatchedDirs(), 1)

	require.NoError(t, os.WriteFile(manifestPath,
		[]byte(`[{"name":"boot","required":["VMGSTOOL_NATIVE"],"optional":[]}]`), 0o644))

	o := next(t, results)
	require.NoError(t, o.err)
	assert.True(t, o.plan.Selections.Vmgstool)
	assert.False(t, o.plan.Selections.OpenVMM)
	assert.Equal(t, manifestPath, pw.GetStats().LastEventPath)
}

func TestReportsParseFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, manifestPath, results, pw := setup(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, pw.Start(ctx))
	defer pw.Stop()

	require.NoError(t, os.WriteFile(manifestPath, []byte("[{oops\n"), 0o644))

	o := next(t, results)
	assert.Nil(t, o.plan)
	var pe *planerr.ParseError
	assert.True(t, errors.As(o.err, &pe), "expected ParseError, got %v", o.err)
	assert.GreaterOrEqual(t, pw.GetStats().Failures, 1)
}

func TestIgnoresUnrelatedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	listingPath, _, results, pw := setup(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, pw.Start(ctx))
	defer pw.Stop()

	other := filepath.Join(filepath.Dir(listingPath), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("hello"), 0o644))

	select {
	case o := <-results:
		t.Fatalf("unexpected resolution: %+v", o)
	case <-time.After(300 * time.Millisecond):
	}
	assert.Zero(t, pw.GetStats().Events)
}

func TestStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, _, _, pw := setup(t, "")
	pw.Stop()
	assert.False(t, isRunning(pw))
}

func isRunning(pw *PlanWatcher) bool {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return pw.running
}
