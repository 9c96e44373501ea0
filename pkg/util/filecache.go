package util

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
)

// FileCache serves component source files from memory-mapped regions.
//
// Files are mapped on first access and stay mapped until invalidated or the
// cache is closed. When mmap fails the file is read into memory instead.
// ReadSource returns a private copy, so callers may keep the bytes after the
// file is invalidated.
//
// All methods are safe for concurrent use.
type FileCache interface {
	// Get returns the mapped file, loading it on first access.
	Get(filePath string) (*MappedFile, error)

	// ReadSource returns a copy of the file's contents.
	ReadSource(filePath string) ([]byte, error)

	// Invalidate drops a cached file so the next access reloads it. It is a
	// no-op for files that are not cached.
	Invalidate(filePath string) error

	// Size returns the number of cached files.
	Size() int

	Stats() FileCacheStats

	// Close unmaps every file.
	Close() error
}

// FileCacheConfig bounds a FileCache.
type FileCacheConfig struct {
	// MaxFiles caps the number of cached files. Zero means unlimited.
	MaxFiles int

	// MaxMemoryMB caps mapped virtual memory. Zero means unlimited.
	MaxMemoryMB int

	EnableMetrics bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig fits workspaces of up to ten thousand component
// files.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		MaxFiles:      10000,
		MaxMemoryMB:   2048,
		EnableMetrics: true,
	}
}

// UnboundedFileCacheConfig has no limits. Intended for tests and one-shot
// commands.
func UnboundedFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{EnableMetrics: true}
}

// MappedFile is one cached file.
type MappedFile struct {
	Path string

	// Data is the mapped region, or the file contents when mapping failed.
	// Nil for empty files.
	Data mmap.MMap

	// File is nil for entries read without mmap.
	File *os.File

	Size     int64
	MappedAt time.Time
}

// FileCacheStats tracks cache activity.
type FileCacheStats struct {
	FilesLoaded   int64
	FilesCached   int
	CacheHits     int64
	CacheMisses   int64
	MmapFailures  int64
	Invalidations int64
	TotalMappedMB float64
}

// NewFileCache creates a FileCache. A nil config uses
// DefaultFileCacheConfig().
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &fileCache{
		config:   config,
		logger:   logger,
		mapped:   make(map[string]*MappedFile),
		fallback: make(map[string][]byte),
	}
}

type fileCache struct {
	config *FileCacheConfig
	logger *slog.Logger

	mu       sync.RWMutex
	mapped   map[string]*MappedFile
	fallback map[string][]byte

	statsMu sync.Mutex
	stats   FileCacheStats
}

func (fc *fileCache) lookupLocked(filePath string) (*MappedFile, bool) {
	if mf, ok := fc.mapped[filePath]; ok {
		return mf, true
	}
	if data, ok := fc.fallback[filePath]; ok {
		return wrapBytes(filePath, data), true
	}
	return nil, false
}

func (fc *fileCache) Get(filePath string) (*MappedFile, error) {
	fc.mu.RLock()
	mf, ok := fc.lookupLocked(filePath)
	fc.mu.RUnlock()
	if ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.getLocked(filePath)
}

func (fc *fileCache) getLocked(filePath string) (*MappedFile, error) {
	if mf, ok := fc.lookupLocked(filePath); ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}
	fc.record(func(s *FileCacheStats) { s.CacheMisses++ })

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", filePath, err)
	}
	if err := fc.checkLimitsLocked(info.Size()); err != nil {
		return nil, err
	}

	mf, err := fc.loadLocked(filePath)
	if err != nil {
		return nil, err
	}
	fc.record(func(s *FileCacheStats) { s.FilesLoaded++ })
	return mf, nil
}

func (fc *fileCache) checkLimitsLocked(newSize int64) error {
	if fc.config.MaxFiles > 0 {
		if n := len(fc.mapped) + len(fc.fallback); n >= fc.config.MaxFiles {
			return fmt.Errorf("file cache limit reached: %d files (limit %d)", n, fc.config.MaxFiles)
		}
	}
	if fc.config.MaxMemoryMB > 0 && newSize > 0 {
		current := fc.totalMBLocked()
		after := current + float64(newSize)/(1024*1024)
		if after >= float64(fc.config.MaxMemoryMB) {
			return fmt.Errorf("file cache memory limit reached: %.2f MB (limit %d MB)", after, fc.config.MaxMemoryMB)
		}
	}
	return nil
}

func (fc *fileCache) loadLocked(filePath string) (*MappedFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", filePath, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", filePath, err)
	}

	if info.Size() == 0 {
		file.Close()
		fc.fallback[filePath] = nil
		return wrapBytes(filePath, nil), nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		fc.logger.Warn("mmap failed, reading file instead", "file", filePath, "error", err)
		fc.record(func(s *FileCacheStats) { s.MmapFailures++ })

		contents, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read %q after mmap error %v: %w", filePath, err, readErr)
		}
		fc.fallback[filePath] = contents
		return wrapBytes(filePath, contents), nil
	}

	mf := &MappedFile{
		Path:     filePath,
		Data:     data,
		File:     file,
		Size:     info.Size(),
		MappedAt: time.Now(),
	}
	fc.mapped[filePath] = mf
	return mf, nil
}

func wrapBytes(filePath string, data []byte) *MappedFile {
	return &MappedFile{
		Path:     filePath,
		Data:     mmap.MMap(data),
		Size:     int64(len(data)),
		MappedAt: time.Now(),
	}
}

func (fc *fileCache) ReadSource(filePath string) ([]byte, error) {
	// Copies happen under the lock so a concurrent Invalidate cannot unmap
	// the region mid-copy.
	fc.mu.RLock()
	if mf, ok := fc.lookupLocked(filePath); ok {
		out := bytes.Clone([]byte(mf.Data))
		fc.mu.RUnlock()
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return nonNil(out), nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()
	mf, err := fc.getLocked(filePath)
	if err != nil {
		return nil, err
	}
	return nonNil(bytes.Clone([]byte(mf.Data))), nil
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func (fc *fileCache) Invalidate(filePath string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if _, ok := fc.fallback[filePath]; ok {
		delete(fc.fallback, filePath)
		fc.record(func(s *FileCacheStats) { s.Invalidations++ })
		return nil
	}

	mf, ok := fc.mapped[filePath]
	if !ok {
		return nil
	}
	delete(fc.mapped, filePath)
	fc.record(func(s *FileCacheStats) { s.Invalidations++ })
	return unmap(mf)
}

func unmap(mf *MappedFile) error {
	var err error
	if mf.Data != nil {
		if uerr := mf.Data.Unmap(); uerr != nil {
			err = fmt.Errorf("unmap %q: %w", mf.Path, uerr)
		}
	}
	if mf.File != nil {
		if cerr := mf.File.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", mf.Path, cerr)
		}
	}
	return err
}

func (fc *fileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.mapped) + len(fc.fallback)
}

func (fc *fileCache) Stats() FileCacheStats {
	fc.mu.RLock()
	cached := len(fc.mapped) + len(fc.fallback)
	totalMB := fc.totalMBLocked()
	fc.mu.RUnlock()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	stats := fc.stats
	stats.FilesCached = cached
	stats.TotalMappedMB = totalMB
	return stats
}

func (fc *fileCache) totalMBLocked() float64 {
	var total int64
	for _, mf := range fc.mapped {
		total += mf.Size
	}
	for _, data := range fc.fallback {
		total += int64(len(data))
	}
	return float64(total) / (1024 * 1024)
}

func (fc *fileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for _, mf := range fc.mapped {
		if err := unmap(mf); err != nil {
			fc.logger.Warn("failed to release mapped file", "error", err)
			errs = append(errs, err)
		}
	}
	fc.mapped = make(map[string]*MappedFile)
	fc.fallback = make(map[string][]byte)

	fc.logger.Debug("file cache closed", "unmap_errors", len(errs))

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

func (fc *fileCache) record(update func(*FileCacheStats)) {
	if !fc.config.EnableMetrics {
		return
	}
	fc.statsMu.Lock()
	update(&fc.stats)
	fc.statsMu.Unlock()
}
