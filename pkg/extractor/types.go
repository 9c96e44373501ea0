// Package extractor runs the component analysis pipeline over source files.
//
// Each file is parsed once, lowered to the ast package's tree and handed to
// the analyzer pipeline. Results are cached by path and content hash, so
// re-extracting an unchanged file is a map lookup.
package extractor

import (
	"log/slog"
	"time"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/parser"
)

// FileResult is the analysis of one source file.
//
// Results handed out by the Extractor may be shared with other callers
// through the cache and must be treated as read-only.
type FileResult struct {
	FilePath string
	Language parser.Language

	// ContentHash is the hex SHA-256 of the analyzed source.
	ContentHash string

	Component *analyzer.ComponentResult

	// Duration covers parsing and analysis.
	Duration time.Duration
}

// Config configures an Extractor.
type Config struct {
	// CacheSize is the number of results kept in memory. Default: 512.
	CacheSize int

	// Parallel runs independent analyzers concurrently.
	Parallel bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() *Config {
	return &Config{CacheSize: 512}
}

// Stats describes extractor activity.
type Stats struct {
	Extractions   int64
	CacheHits     int64
	CacheMisses   int64
	Failures      int64
	CachedResults int
}
