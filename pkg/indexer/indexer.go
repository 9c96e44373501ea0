package indexer

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/extractor"
)

// ComponentIndex holds the analysis of every indexed file.
//
// **Architecture:**
//   - LRU store: FilePath → FileComponent, bounded by MaxCachedFiles
//   - Reverse index: component name → file paths
//   - Lazy invalidation: files are marked dirty and re-analyzed by the caller
//
// **Thread Safety:**
//   - sync.RWMutex guards the store and reverse index
//   - Atomic counters for statistics
//
// **Usage:**
//
//	index, err := NewComponentIndex(DefaultIndexConfig(), logger)
//	index.Add(result)
//	button, found := index.Get("/repo/src/Button.tsx")
//	cards := index.FindByName("Card")
type ComponentIndex struct {
	files *lru.Cache[string, *FileComponent]

	// byName maps an identified component name to the files declaring it.
	// Unknown components are not indexed by name.
	byName map[string]map[string]struct{}

	dirty map[string]bool

	mu sync.RWMutex

	indexedFiles   atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	evictions      atomic.Int64
	totalIndexTime atomic.Int64 // Microseconds

	config IndexConfig
	logger *slog.Logger
}

// NewComponentIndex creates an empty index.
func NewComponentIndex(config IndexConfig, logger *slog.Logger) (*ComponentIndex, error) {
	if config.MaxCachedFiles <= 0 {
		config.MaxCachedFiles = DefaultIndexConfig().MaxCachedFiles
	}
	if logger == nil {
		logger = slog.Default()
	}

	ci := &ComponentIndex{
		byName: make(map[string]map[string]struct{}),
		dirty:  make(map[string]bool),
		config: config,
		logger: logger,
	}

	// The callback runs for evictions, Remove and Purge, always with ci.mu
	// held by the caller.
	files, err := lru.NewWithEvict(config.MaxCachedFiles, func(path string, fc *FileComponent) {
		ci.unlinkName(path, fc)
		if config.Debug {
			logger.Debug("component index dropped file", "path", path)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create component store: %w", err)
	}
	ci.files = files

	logger.Debug("component index initialized", "max_cached_files", config.MaxCachedFiles)
	return ci, nil
}

// Add stores an extraction result, replacing any previous entry for the
// same file, and clears the file's dirty flag.
func (ci *ComponentIndex) Add(result *extractor.FileResult) *FileComponent {
	start := time.Now()
	defer func() {
		ci.totalIndexTime.Add(time.Since(start).Microseconds())
	}()

	fc := &FileComponent{
		FilePath:    result.FilePath,
		Component:   result.Component,
		ContentHash: result.ContentHash,
		IndexedAt:   time.Now(),
	}

	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.files.Remove(fc.FilePath)
	if evicted := ci.files.Add(fc.FilePath, fc); evicted {
		ci.evictions.Add(1)
	}
	ci.linkName(fc)
	delete(ci.dirty, fc.FilePath)
	ci.indexedFiles.Add(1)

	if ci.config.Debug {
		ci.logger.Debug("indexed file", "path", fc.FilePath, "component", fc.Component.Name)
	}
	return fc
}

func (ci *ComponentIndex) linkName(fc *FileComponent) {
	name := fc.Component.Name
	if name == analyzer.UnknownName {
		return
	}
	paths, ok := ci.byName[name]
	if !ok {
		paths = make(map[string]struct{})
		ci.byName[name] = paths
	}
	paths[fc.FilePath] = struct{}{}
}

func (ci *ComponentIndex) unlinkName(path string, fc *FileComponent) {
	name := fc.Component.Name
	paths, ok := ci.byName[name]
	if !ok {
		return
	}
	delete(paths, path)
	if len(paths) == 0 {
		delete(ci.byName, name)
	}
}

// Get returns the indexed entry for a file.
func (ci *ComponentIndex) Get(filePath string) (*FileComponent, bool) {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	fc, found := ci.files.Get(filePath)
	if found {
		ci.cacheHits.Add(1)
	} else {
		ci.cacheMisses.Add(1)
	}
	return fc, found
}

// All returns a snapshot of every entry, sorted by file path.
func (ci *ComponentIndex) All() []*FileComponent {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	keys := ci.files.Keys()
	out := make([]*FileComponent, 0, len(keys))
	for _, key := range keys {
		if fc, ok := ci.files.Peek(key); ok {
			out = append(out, fc)
		}
	}
	sortByPath(out)
	return out
}

// FindByName returns the files whose identified component has the given
// name, sorted by path.
func (ci *ComponentIndex) FindByName(name string) []*FileComponent {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	out := make([]*FileComponent, 0, len(ci.byName[name]))
	for path := range ci.byName[name] {
		if fc, ok := ci.files.Peek(path); ok {
			out = append(out, fc)
		}
	}
	sortByPath(out)
	return out
}

// Find returns entries matching predicate, sorted by path.
//
// Example:
//
//	tailwind := index.Find(func(fc *FileComponent) bool {
//	    return fc.Component.StylingLibrary.Type == analyzer.StylingTailwindLike
//	})
func (ci *ComponentIndex) Find(predicate func(*FileComponent) bool) []*FileComponent {
	var out []*FileComponent
	for _, fc := range ci.All() {
		if predicate(fc) {
			out = append(out, fc)
		}
	}
	return out
}

// Invalidate marks a file dirty without removing it. The entry stays
// readable until the caller re-indexes it.
func (ci *ComponentIndex) Invalidate(filePath string) {
	ci.mu.Lock()
	ci.dirty[filePath] = true
	ci.mu.Unlock()
}

// IsDirty reports whether a file is marked for re-analysis.
func (ci *ComponentIndex) IsDirty(filePath string) bool {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	return ci.dirty[filePath]
}

// Remove drops a file from the index.
func (ci *ComponentIndex) Remove(filePath string) {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.files.Remove(filePath)
	delete(ci.dirty, filePath)
}

// Len returns the number of indexed files.
func (ci *ComponentIndex) Len() int {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	return ci.files.Len()
}

// Stats returns current index statistics.
func (ci *ComponentIndex) Stats() IndexStats {
	ci.mu.RLock()
	cachedFiles := ci.files.Len()
	names := len(ci.byName)
	dirtyFiles := len(ci.dirty)
	ci.mu.RUnlock()

	hits := ci.cacheHits.Load()
	misses := ci.cacheMisses.Load()
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}

	indexed := ci.indexedFiles.Load()
	avgTime := 0.0
	if indexed > 0 {
		avgTime = float64(ci.totalIndexTime.Load()) / float64(indexed) / 1000.0
	}

	return IndexStats{
		IndexedFiles:       int(indexed),
		CachedFiles:        cachedFiles,
		ComponentNames:     names,
		DirtyFiles:         dirtyFiles,
		CacheHits:          hits,
		CacheMisses:        misses,
		CacheHitRate:       hitRate,
		Evictions:          ci.evictions.Load(),
		AverageIndexTimeMs: avgTime,
	}
}

// Close empties the index.
func (ci *ComponentIndex) Close() {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.files.Purge()
	ci.dirty = make(map[string]bool)
	ci.logger.Debug("component index closed")
}

func sortByPath(files []*FileComponent) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].FilePath < files[j].FilePath
	})
}
