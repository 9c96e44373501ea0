package indexer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/uilens/pkg/extractor"
	"github.com/gnana997/uilens/pkg/parser"
)

// FileWatcher keeps a ComponentIndex current as files change on disk.
//
// **Features:**
//   - Recursive: every non-ignored directory under the root is watched,
//     including directories created later
//   - Debouncing: rapid writes to one file cause a single re-analysis
//   - Removal: deleted or renamed files leave the index
//
// **Usage:**
//
//	watcher, err := NewFileWatcher(ex, index, DefaultWatchOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	if err := watcher.Start("/repo/src"); err != nil {
//	    return err
//	}
//	defer watcher.Stop()
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	extractor *extractor.Extractor
	index     *ComponentIndex
	logger    *slog.Logger
	options   WatchOptions
	root      string

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// NewFileWatcher creates a file watcher. Call Start to begin watching.
func NewFileWatcher(
	ex *extractor.Extractor,
	index *ComponentIndex,
	options WatchOptions,
	logger *slog.Logger,
) (*FileWatcher, error) {
	if ex == nil || index == nil {
		return nil, fmt.Errorf("file watcher requires an extractor and an index")
	}
	for _, pattern := range options.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern: %s", pattern)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if options.DebounceMs <= 0 {
		options.DebounceMs = DefaultWatchOptions().DebounceMs
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FileWatcher{
		watcher:        watcher,
		extractor:      ex,
		index:          index,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches rootPath and its subdirectories. Events are handled on a
// background goroutine until Stop is called.
func (fw *FileWatcher) Start(rootPath string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if fw.started {
		return fmt.Errorf("watcher already started")
	}

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", rootPath, err)
	}
	fw.root = root

	if err := fw.watcher.Add(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	if err := fw.addTree(root); err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	fw.started = true
	fw.logger.Info("file watcher started", "root", root)

	go fw.eventLoop()
	return nil
}

// addTree adds watches for every non-ignored directory below dir.
func (fw *FileWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() || path == fw.root {
			return nil
		}
		if fw.shouldIgnore(path, true) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops the watcher and cancels pending re-analyses. Idempotent.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return nil
	}
	fw.stopped = true
	close(fw.stopChan)

	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceTimers = make(map[string]*time.Timer)
	fw.debounceMu.Unlock()

	err := fw.watcher.Close()
	fw.logger.Info("file watcher stopped")
	return err
}

func (fw *FileWatcher) eventLoop() {
	for {
		select {
		case <-fw.stopChan:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) && isDir(path) {
		if fw.shouldIgnore(path, true) {
			return
		}
		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("failed to watch directory", "path", path, "error", err)
			return
		}
		if err := fw.addTree(path); err != nil {
			fw.logger.Warn("failed to watch new subtree", "path", path, "error", err)
		}
		return
	}

	if !parser.IsSupportedFile(path) || fw.shouldIgnore(path, false) {
		return
	}

	fw.logger.Debug("file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		fw.index.Invalidate(path)
		fw.debounceReanalyze(path, event.Op.String())

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		fw.removeFile(path, event.Op.String())
	}
}

// debounceReanalyze schedules a re-analysis after the debounce delay,
// replacing any pending one for the same file.
func (fw *FileWatcher) debounceReanalyze(path, op string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[path]; exists {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(
		time.Duration(fw.options.DebounceMs)*time.Millisecond,
		func() { fw.fireDebounced(path, op, timer) },
	)
	fw.debounceTimers[path] = timer
}

// fireDebounced runs the re-analysis scheduled by timer. A timer that was
// replaced or cancelled after it fired leaves the map untouched and does
// nothing.
func (fw *FileWatcher) fireDebounced(path, op string, timer *time.Timer) {
	fw.debounceMu.Lock()
	current := fw.debounceTimers[path] == timer
	if current {
		delete(fw.debounceTimers, path)
	}
	fw.debounceMu.Unlock()

	if current {
		fw.reanalyze(path, op)
	}
}

func (fw *FileWatcher) reanalyze(path, op string) {
	fw.extractor.Invalidate(path)

	event := WatchEvent{FilePath: path, Op: op, Timestamp: time.Now()}
	result, err := fw.extractor.ExtractPath(path)
	if err != nil {
		fw.logger.Warn("failed to re-analyze file", "file", path, "error", err)
		event.Err = err
		fw.notify(event)
		return
	}

	fc := fw.index.Add(result)
	event.Component = fc.Component
	fw.logger.Debug("file re-analyzed", "file", path, "component", fc.Component.Name)
	fw.notify(event)
}

func (fw *FileWatcher) removeFile(path, op string) {
	fw.debounceMu.Lock()
	if timer, exists := fw.debounceTimers[path]; exists {
		timer.Stop()
		delete(fw.debounceTimers, path)
	}
	fw.debounceMu.Unlock()

	fw.extractor.Invalidate(path)
	fw.index.Remove(path)
	fw.logger.Debug("file removed from index", "file", path)
	fw.notify(WatchEvent{FilePath: path, Op: op, Removed: true, Timestamp: time.Now()})
}

func (fw *FileWatcher) notify(event WatchEvent) {
	fw.mu.Lock()
	stopped := fw.stopped
	fw.mu.Unlock()
	if stopped || fw.options.OnChange == nil {
		return
	}
	fw.options.OnChange(event)
}

// shouldIgnore matches ignore patterns against the base name and the path
// relative to the watched root.
func (fw *FileWatcher) shouldIgnore(path string, dir bool) bool {
	base := filepath.Base(path)
	rel := base
	if r, err := filepath.Rel(fw.root, path); err == nil {
		rel = filepath.ToSlash(r)
	}
	for _, pattern := range fw.options.IgnorePatterns {
		if m, _ := doublestar.Match(pattern, base); m {
			return true
		}
	}
	return matchesAny(fw.options.IgnorePatterns, rel, dir)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// GetStats returns file watcher statistics.
func (fw *FileWatcher) GetStats() FileWatcherStats {
	fw.debounceMu.Lock()
	pending := len(fw.debounceTimers)
	fw.debounceMu.Unlock()

	fw.mu.Lock()
	running := fw.started && !fw.stopped
	fw.mu.Unlock()

	return FileWatcherStats{
		PendingReanalyses: pending,
		IsRunning:         running,
	}
}

// FileWatcherStats contains file watcher statistics.
type FileWatcherStats struct {
	PendingReanalyses int
	IsRunning         bool
}
