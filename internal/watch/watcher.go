// Package watch re-resolves an offline build plan whenever the captured
// listing or manifest file changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"artifactplan/internal/logging"
	"artifactplan/internal/pipeline"
	"artifactplan/internal/resolve"
	"artifactplan/internal/selection"

	"github.com/fsnotify/fsnotify"
)

// PlanFunc receives each re-resolved plan, or the error that prevented it.
type PlanFunc func(plan *resolve.Plan, err error)

// PlanWatcher watches a listing file and a manifest file. Their parent
// directories are watched rather than the files themselves so that editors
// and tools that replace files by rename are still observed.
type PlanWatcher struct {
	mu           sync.RWMutex
	watcher      *fsnotify.Watcher
	listingPath  string
	manifestPath string
	host         selection.Platform
	onPlan       PlanFunc
	debounceMap  map[string]time.Time
	debounceDur  time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
	running      bool

	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Resolutions   int
	Failures      int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
}

// NewPlanWatcher creates a watcher for the two input files. onPlan is
// called from the watcher goroutine.
func NewPlanWatcher(listingPath, manifestPath string, host selection.Platform, onPlan PlanFunc) (*PlanWatcher, error) {
	listingAbs, err := filepath.Abs(listingPath)
	if err != nil {
		return nil, err
	}
	manifestAbs, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &PlanWatcher{
		watcher:      watcher,
		listingPath:  listingAbs,
		manifestPath: manifestAbs,
		host:         host,
		onPlan:       onPlan,
		debounceMap:  make(map[string]time.Time),
		debounceDur:  300 * time.Millisecond, // Debounce rapid rewrites
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}, nil
}

// SetDebounce changes how long a file must be quiet before re-resolving.
// It must be called before Start.
func (pw *PlanWatcher) SetDebounce(d time.Duration) {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	pw.debounceDur = d
}

// Start begins watching. It is non-blocking.
func (pw *PlanWatcher) Start(ctx context.Context) error {
	pw.mu.Lock()
	if pw.running {
		pw.mu.Unlock()
		return nil
	}

	dirs := map[string]struct{}{
		filepath.Dir(pw.listingPath):  {},
		filepath.Dir(pw.manifestPath): {},
	}
	for dir := range dirs {
		if err := pw.watcher.Add(dir); err != nil {
			pw.mu.Unlock()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		logging.Watch("PlanWatcher: watching directory: %s", dir)
	}

	pw.running = true
	pw.mu.Unlock()

	go pw.run(ctx)

	return nil
}

// Stop stops the watcher and waits for cleanup. Stopping a watcher that
// was never started only releases its resources.
func (pw *PlanWatcher) Stop() {
	pw.mu.Lock()
	wasRunning := pw.running
	pw.running = false
	pw.mu.Unlock()

	if wasRunning {
		close(pw.stopCh)
		<-pw.doneCh
	}

	if err := pw.watcher.Close(); err != nil {
		logging.WatchError("PlanWatcher: error closing watcher: %v", err)
	}
	logging.Watch("PlanWatcher: stopped")
}

func (pw *PlanWatcher) run(ctx context.Context) {
	defer close(pw.doneCh)

	debounceTicker := time.NewTicker(50 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Watch("PlanWatcher: context cancelled")
			return

		case <-pw.stopCh:
			return

		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			pw.handleEvent(event)

		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			logging.WatchError("PlanWatcher error: %v", err)
			pw.mu.Lock()
			pw.stats.Errors++
			pw.mu.Unlock()

		case <-debounceTicker.C:
			pw.processDebouncedEvents()
		}
	}
}

func (pw *PlanWatcher) handleEvent(event fsnotify.Event) {
	name := filepath.Clean(event.Name)
	if name != pw.listingPath && name != pw.manifestPath {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	logging.WatchDebug("PlanWatcher: %s event for %s", event.Op, name)

	pw.mu.Lock()
	pw.stats.Events++
	pw.stats.LastEventTime = time.Now()
	pw.stats.LastEventPath = name
	pw.debounceMap[name] = time.Now()
	pw.mu.Unlock()
}

// processDebouncedEvents re-resolves once when any input has settled.
func (pw *PlanWatcher) processDebouncedEvents() {
	pw.mu.Lock()
	now := time.Now()
	settled := false
	for path, eventTime := range pw.debounceMap {
		if now.Sub(eventTime) >= pw.debounceDur {
			settled = true
			delete(pw.debounceMap, path)
		}
	}
	pw.mu.Unlock()

	if settled {
		pw.Trigger()
	}
}

// Trigger resolves the plan from the current file contents and reports it.
func (pw *PlanWatcher) Trigger() {
	plan, err := pw.resolve()

	pw.mu.Lock()
	if err != nil {
		pw.stats.Failures++
	} else {
		pw.stats.Resolutions++
	}
	pw.mu.Unlock()

	if err != nil {
		logging.WatchError("PlanWatcher: resolution failed: %v", err)
	}
	if pw.onPlan != nil {
		pw.onPlan(plan, err)
	}
}

func (pw *PlanWatcher) resolve() (*resolve.Plan, error) {
	listingOut, err := os.ReadFile(pw.listingPath)
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	manifestOut, err := os.ReadFile(pw.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return pipeline.ResolveOutputs(listingOut, string(manifestOut), pw.host)
}

// GetStats returns the current watcher statistics.
func (pw *PlanWatcher) GetStats() Stats {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return pw.stats
}

// GetWatchedDirs returns the directories being watched.
func (pw *PlanWatcher) GetWatchedDirs() []string {
	return pw.watcher.WatchList()
}
