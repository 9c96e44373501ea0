package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/extractor"
	"github.com/gnana997/uilens/pkg/parser"
)

// WorkspaceScanner analyzes every matching file under a root directory.
//
// **Pipeline:**
//  1. Discovery: walk the tree, applying exclude and include patterns
//  2. Analysis: files fan out to a WorkerPool
//  3. Indexing: results are stored in the ComponentIndex as they arrive
//
// **Usage:**
//
//	scanner := NewWorkspaceScanner(ex, index, logger)
//	stats, err := scanner.ScanWorkspace(ctx, "/repo", DefaultScanOptions(),
//	    func(processed, total int, file string) {
//	        fmt.Printf("%d/%d %s\n", processed, total, file)
//	    })
type WorkspaceScanner struct {
	extractor *extractor.Extractor
	index     *ComponentIndex
	logger    *slog.Logger

	// Workers overrides the pool size; 0 uses util.GetOptimalPoolSize().
	Workers int
}

// NewWorkspaceScanner creates a new workspace scanner.
func NewWorkspaceScanner(ex *extractor.Extractor, index *ComponentIndex, logger *slog.Logger) *WorkspaceScanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceScanner{
		extractor: ex,
		index:     index,
		logger:    logger,
	}
}

// Index returns the index the scanner writes to.
func (ws *WorkspaceScanner) Index() *ComponentIndex {
	return ws.index
}

// ScanWorkspace discovers and analyzes all matching files under rootPath.
//
// Per-file failures are recorded in ScanStats.Errors and do not fail the
// scan. Cancelling ctx stops the scan early; the returned stats then have
// Cancelled set and cover the files processed so far.
func (ws *WorkspaceScanner) ScanWorkspace(
	ctx context.Context,
	rootPath string,
	options ScanOptions,
	progress ProgressCallback,
) (*ScanStats, error) {
	startTime := time.Now()
	stats := &ScanStats{
		RunID:     uuid.NewString(),
		StartTime: startTime,
		Errors:    make([]FileError, 0),
	}
	logger := ws.logger.With("run_id", stats.RunID)

	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	logger.Info("starting workspace scan", "root", absRoot)

	discoveryStart := time.Now()
	files, err := discoverFiles(absRoot, options, logger)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	logger.Info("file discovery complete",
		"files_found", len(files),
		"duration_ms", stats.DiscoveryTimeMs)

	if len(files) > 0 {
		indexingStart := time.Now()
		ws.processFiles(ctx, files, stats, progress, logger)
		stats.IndexingTimeMs = time.Since(indexingStart).Milliseconds()
	} else {
		logger.Warn("no files found matching criteria")
	}

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()

	if stats.FilesIndexed > 0 {
		stats.AverageFileTimeMs = float64(stats.IndexingTimeMs) / float64(stats.FilesIndexed)
		if stats.IndexingTimeMs > 0 {
			stats.FilesPerSecond = float64(stats.FilesIndexed) / (float64(stats.IndexingTimeMs) / 1000.0)
		}
	}
	if stats.FilesDiscovered > 0 {
		stats.SuccessRate = float64(stats.FilesIndexed) / float64(stats.FilesDiscovered)
	}

	logger.Info("workspace scan complete",
		"files_indexed", stats.FilesIndexed,
		"files_failed", stats.FilesFailed,
		"components_found", stats.ComponentsFound,
		"cancelled", stats.Cancelled,
		"duration_ms", stats.TotalTimeMs)

	return stats, nil
}

// discoverFiles returns the supported source files under root that pass
// the scan options, in walk (lexical) order.
func discoverFiles(root string, options ScanOptions, logger *slog.Logger) ([]string, error) {
	for _, pattern := range options.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range options.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("walk error", "path", path, "error", err)
			return nil
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if matchesAny(options.Exclude, relPath, true) {
				return filepath.SkipDir
			}
			if options.MaxDepth > 0 && strings.Count(relPath, "/")+1 >= options.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if matchesAny(options.Exclude, relPath, false) {
			return nil
		}
		if !parser.IsSupportedFile(path) {
			return nil
		}
		if len(options.Include) > 0 && !matchesAny(options.Include, relPath, false) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// matchesAny reports whether relPath matches one of patterns. A directory
// is also tried with a trailing slash so "dir/**" excludes dir itself.
func matchesAny(patterns []string, relPath string, isDir bool) bool {
	for _, pattern := range patterns {
		if m, _ := doublestar.Match(pattern, relPath); m {
			return true
		}
		if isDir {
			if m, _ := doublestar.Match(pattern, relPath+"/"); m {
				return true
			}
		}
	}
	return false
}

// processFiles fans files out to a worker pool and indexes the results.
func (ws *WorkspaceScanner) processFiles(
	ctx context.Context,
	files []string,
	stats *ScanStats,
	progress ProgressCallback,
	logger *slog.Logger,
) {
	total := len(files)

	pool := NewWorkerPool(ctx, ws.Workers, ws.extractor, logger)
	stats.WorkerCount = pool.numWorkers
	pool.Start()

	// Submission runs on its own goroutine so the collector below can drain
	// results while the jobs channel is full.
	submitted := make(chan struct{})
	go func() {
		defer close(submitted)
		defer pool.FinishSubmitting()
		for i, file := range files {
			if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
				logger.Debug("job submission stopped", "file", file, "error", err)
				return
			}
		}
	}()

	processed := 0
	for processed < total {
		if ctx.Err() != nil {
			stats.Cancelled = true
			logger.Warn("workspace scan cancelled", "processed", processed, "total", total)
			break
		}
		select {
		case <-ctx.Done():
			continue

		case result := <-pool.Results():
			ws.index.Add(result.Result)
			stats.FilesIndexed++
			if result.Result.Component.Name != analyzer.UnknownName {
				stats.ComponentsFound++
			}
			processed++
			if progress != nil {
				progress(processed, total, result.FilePath)
			}

		case fileErr := <-pool.Errors():
			stats.Errors = append(stats.Errors, fileErr)
			stats.FilesFailed++
			logger.Warn("file analysis failed", "file", fileErr.FilePath, "error", fileErr.Error)
			processed++
			if progress != nil {
				progress(processed, total, fileErr.FilePath)
			}
		}
	}

	// Cancelling unblocks a pending Submit, so the submitter has closed the
	// jobs channel before Stop runs.
	pool.cancel()
	<-submitted
	pool.Stop()
}
