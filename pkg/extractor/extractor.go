package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/parser"
	"github.com/gnana997/uilens/pkg/util"
)

// Extractor turns source files into ComponentResults.
//
// Usage:
//
//	ex, err := extractor.NewExtractor(parserManager, fileCache, nil)
//	if err != nil {
//	    return err
//	}
//	result, err := ex.ExtractPath("src/components/Button.tsx")
//
// Safe for concurrent use.
type Extractor struct {
	parserManager *parser.ParserManager
	pipeline      *analyzer.Pipeline
	files         util.FileCache

	// results maps file path to the latest result; a hit also requires a
	// matching content hash.
	results *lru.Cache[string, *FileResult]

	logger *slog.Logger

	extractions atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	failures    atomic.Int64
}

// NewExtractor creates an Extractor. files is used by ExtractPath and may be
// nil when only ExtractFile is called. A nil config uses DefaultConfig().
func NewExtractor(pm *parser.ParserManager, files util.FileCache, config *Config) (*Extractor, error) {
	if pm == nil {
		return nil, fmt.Errorf("parser manager is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := config.CacheSize
	if size <= 0 {
		size = DefaultConfig().CacheSize
	}

	results, err := lru.New[string, *FileResult](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &Extractor{
		parserManager: pm,
		pipeline: analyzer.NewPipeline(&analyzer.PipelineConfig{
			Parallel: config.Parallel,
			Logger:   logger,
		}),
		files:   files,
		results: results,
		logger:  logger,
	}, nil
}

// ExtractFile analyzes source as the contents of filePath. The path selects
// the grammar and is recorded in the result; the file is not read.
func (e *Extractor) ExtractFile(filePath string, source []byte) (*FileResult, error) {
	e.extractions.Add(1)

	lang := parser.DetectLanguage(filePath)
	if lang == parser.LanguageUnknown {
		e.failures.Add(1)
		return nil, fmt.Errorf("unsupported language for file: %s", filePath)
	}

	hash := ContentHash(source)
	if cached, ok := e.results.Get(filePath); ok && cached.ContentHash == hash {
		e.cacheHits.Add(1)
		return cached, nil
	}
	e.cacheMisses.Add(1)

	start := time.Now()
	root, err := e.parserManager.ParseAST(source, filePath)
	if err != nil {
		e.failures.Add(1)
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	result := &FileResult{
		FilePath:    filePath,
		Language:    lang,
		ContentHash: hash,
		Component:   e.pipeline.Run(root, filePath),
		Duration:    time.Since(start),
	}
	e.results.Add(filePath, result)

	e.logger.Debug("extracted file",
		"file", filePath,
		"component", result.Component.Name,
		"duration", result.Duration)

	return result, nil
}

// ExtractPath reads filePath through the file cache and analyzes it.
func (e *Extractor) ExtractPath(filePath string) (*FileResult, error) {
	if e.files == nil {
		return nil, fmt.Errorf("no file cache configured to read %s", filePath)
	}
	if !parser.IsSupportedFile(filePath) {
		e.extractions.Add(1)
		e.failures.Add(1)
		return nil, fmt.Errorf("unsupported language for file: %s", filePath)
	}

	source, err := e.files.ReadSource(filePath)
	if err != nil {
		e.extractions.Add(1)
		e.failures.Add(1)
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return e.ExtractFile(filePath, source)
}

// Invalidate drops the cached result and cached source for filePath.
func (e *Extractor) Invalidate(filePath string) {
	e.results.Remove(filePath)
	if e.files != nil {
		if err := e.files.Invalidate(filePath); err != nil {
			e.logger.Warn("failed to invalidate cached source", "file", filePath, "error", err)
		}
	}
}

// Stats returns extractor statistics.
func (e *Extractor) Stats() Stats {
	return Stats{
		Extractions:   e.extractions.Load(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		Failures:      e.failures.Load(),
		CachedResults: e.results.Len(),
	}
}

// ContentHash returns the hex SHA-256 of content.
func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
