package indexer

import (
	"time"

	"github.com/gnana997/uilens/pkg/analyzer"
)

// FileComponent is the indexed analysis of one source file.
type FileComponent struct {
	// FilePath is the absolute path to the file
	FilePath string

	Component *analyzer.ComponentResult

	// ContentHash is the SHA-256 of the analyzed source (for change detection)
	ContentHash string

	IndexedAt time.Time
}

// IndexConfig configures a ComponentIndex.
type IndexConfig struct {
	// MaxCachedFiles is the maximum number of files kept in the index.
	// When the index is full, least recently used files are evicted.
	// Default: 5000 files
	MaxCachedFiles int

	// Debug enables verbose logging
	Debug bool
}

// DefaultIndexConfig returns the default configuration.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		MaxCachedFiles: 5000,
	}
}

// IndexStats provides statistics about the index state.
type IndexStats struct {
	// IndexedFiles is the total number of Add calls (including evicted files)
	IndexedFiles int

	// CachedFiles is the number of files currently in the index
	CachedFiles int

	// ComponentNames is the number of distinct identified component names
	ComponentNames int

	// DirtyFiles is the number of files marked for re-analysis
	DirtyFiles int

	CacheHits    int64
	CacheMisses  int64
	CacheHitRate float64

	// Evictions is the number of LRU evictions that have occurred
	Evictions int64

	AverageIndexTimeMs float64
}

// ScanOptions configures workspace scanning.
type ScanOptions struct {
	// Include patterns (doublestar syntax, e.g. "**/*.tsx").
	// Empty means every supported source file.
	Include []string

	// Exclude patterns, matched against paths relative to the root.
	// A matching directory is skipped entirely.
	Exclude []string

	// MaxDepth limits directory traversal depth. 0 = unlimited.
	MaxDepth int
}

// DefaultScanOptions returns options that pick up component sources and
// skip dependencies, build output, tests, stories and mocks.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.{ts,tsx,js,jsx}",
		},
		Exclude: []string{
			"**/node_modules/**",
			"**/.git/**",
			"**/dist/**",
			"**/build/**",
			"**/out/**",
			"**/.next/**",
			"**/coverage/**",
			"**/__mocks__/**",
			"**/*.d.ts",
			"**/*.test.*",
			"**/*.spec.*",
			"**/*.stories.*",
		},
	}
}

// ScanStats contains statistics about a workspace scan.
type ScanStats struct {
	// RunID identifies the scan in logs and catalogs.
	RunID string

	FilesDiscovered int
	FilesIndexed    int
	FilesFailed     int

	// ComponentsFound counts indexed files where a component was identified.
	ComponentsFound int

	TotalTimeMs     int64
	DiscoveryTimeMs int64
	IndexingTimeMs  int64

	AverageFileTimeMs float64
	FilesPerSecond    float64

	WorkerCount int

	// SuccessRate is the fraction of discovered files indexed (0.0 - 1.0)
	SuccessRate float64

	// Errors contains per-file errors (if any)
	Errors []FileError

	// Cancelled indicates the scan context was cancelled before all files
	// were processed.
	Cancelled bool

	StartTime time.Time
	EndTime   time.Time
}

// FileError represents an error that occurred while processing a file.
type FileError struct {
	FilePath string
	Error    error
}

// ProgressCallback is called after each file is processed.
//
// Parameters:
//   - processed: Number of files processed so far (indexed or failed)
//   - total: Total number of files to process
//   - currentFile: Path of the file just processed
type ProgressCallback func(processed, total int, currentFile string)

// WatchOptions configures file watching behavior.
type WatchOptions struct {
	// DebounceMs is the debounce delay in milliseconds.
	// Rapid changes to one file are grouped into a single re-analysis.
	// Default: 200ms
	DebounceMs int

	// IgnorePatterns are doublestar patterns matched against base names
	// and paths relative to the watched root.
	IgnorePatterns []string

	// OnChange is called after a file is re-analyzed or removed. It runs on
	// the watcher's timer goroutines and must not block.
	OnChange func(WatchEvent)
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs: 200,
		IgnorePatterns: []string{
			"*.swp",
			"*.tmp",
			"*~",
			"**/node_modules/**",
			"**/.git/**",
		},
	}
}

// WatchEvent describes the outcome of a file system change.
type WatchEvent struct {
	// FilePath is the absolute path to the changed file
	FilePath string

	// Op is the fsnotify operation that triggered the event
	Op string

	// Removed is true when the file was deleted or renamed away
	Removed bool

	// Component is the new analysis, nil when Removed or on failure
	Component *analyzer.ComponentResult

	// Err is set when re-analysis failed
	Err error

	Timestamp time.Time
}
