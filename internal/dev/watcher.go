package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeConfig ChangeType = iota
	ChangeTemplate
	ChangeOther
)

// String returns the change type name.
func (t ChangeType) String() string {
	switch t {
	case ChangeConfig:
		return "config"
	case ChangeTemplate:
		return "template"
	default:
		return "other"
	}
}

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch.
	Paths []string

	// Ignore holds base names or globs to skip.
	Ignore []string

	// Interval is the delay between scans.
	Interval time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher monitors files for changes.
type Watcher struct {
	config     WatcherConfig
	onChange   func(Change)
	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	timestamps map[string]time.Time
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval == 0 {
		config.Interval = 250 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}

	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback for file changes.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start scans until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	w.scan(false)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Poll scans once and reports changes. At most one change per type is
// reported per scan.
func (w *Watcher) Poll() {
	changes := w.scan(true)

	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()
	if callback == nil {
		return
	}

	reported := make(map[ChangeType]bool)
	for _, change := range changes {
		if !reported[change.Type] {
			reported[change.Type] = true
			callback(change)
		}
	}
}

// scan records modification times and, when report is set, returns the
// files that appeared, changed or disappeared since the last scan.
func (w *Watcher) scan(report bool) []Change {
	w.mu.Lock()
	defer w.mu.Unlock()

	var changes []Change
	seen := make(map[string]bool, len(w.timestamps))

	for _, root := range w.config.Paths {
		filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if w.shouldIgnore(p) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() {
				return nil
			}

			seen[p] = true
			last, exists := w.timestamps[p]
			if !exists || info.ModTime().After(last) {
				w.timestamps[p] = info.ModTime()
				if report {
					changes = append(changes, Change{Path: p, Type: classifyChange(p)})
				}
			}
			return nil
		})
	}

	for p := range w.timestamps {
		if !seen[p] {
			delete(w.timestamps, p)
			if report {
				changes = append(changes, Change{Path: p, Type: classifyChange(p)})
			}
		}
	}
	return changes
}

// shouldIgnore checks the base name against the ignore list.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// classifyChange determines the type of change from the file name.
func classifyChange(path string) ChangeType {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasPrefix(name, "vbind.") {
		switch filepath.Ext(name) {
		case ".yaml", ".yml", ".json":
			return ChangeConfig
		}
	}
	switch filepath.Ext(name) {
	case ".html", ".htm":
		return ChangeTemplate
	default:
		return ChangeOther
	}
}
