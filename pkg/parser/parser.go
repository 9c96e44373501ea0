package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/uilens/pkg/ast"
)

// poolKey identifies a parser pool: grammar plus TSX variant.
type poolKey struct {
	lang  Language
	isTSX bool
}

// ParserManager owns tree-sitter parser pools for the supported grammars.
//
// Pools are created lazily, one per (language, TSX) pair, and each pool
// hands out parsers to concurrent callers. Trees returned by Parse and
// ParseFile belong to the caller and must be closed. ParseAST closes the
// tree itself and returns a detached ast.Node.
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	root, err := manager.ParseAST(src, "components/button.tsx")
//	if err != nil {
//	    return err
//	}
type ParserManager struct {
	pools map[poolKey]*parserPool

	mutex sync.RWMutex

	logger *slog.Logger

	stats struct {
		parsesCalled int
		parseErrors  int
	}
}

// NewParserManager creates a ParserManager. A nil logger falls back to
// slog.Default().
func NewParserManager(logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &ParserManager{
		pools:  make(map[poolKey]*parserPool),
		logger: logger,
	}
}

// Parse parses source with the grammar for lang. isTSX selects the TSX
// grammar for TypeScript and is ignored otherwise.
//
// Trees with syntax errors are still returned; the error nodes are kept and
// a warning is logged. The caller must Close the tree.
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree")
	}

	if tree.RootNode().HasError() {
		pm.mutex.Lock()
		pm.stats.parseErrors++
		pm.mutex.Unlock()
		pm.logger.Warn("parse tree contains errors",
			"language", lang.String(),
			"tsx", isTSX)
	}

	return tree, nil
}

// ParseFile parses source with the grammar selected by filePath's extension.
// The caller must Close the tree.
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	return pm.Parse(source, lang, IsTSXFile(filePath))
}

// ParseAST parses source and lowers the result into an ast.Node tree. The
// tree-sitter tree is released before returning.
func (pm *ParserManager) ParseAST(source []byte, filePath string) (*ast.Node, error) {
	tree, err := pm.ParseFile(source, filePath)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return Lower(tree.RootNode(), source), nil
}

// Close releases every parser pool. The manager cannot be used afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.logger.Debug("closing parser manager",
		"parses_called", pm.stats.parsesCalled,
		"parse_errors", pm.stats.parseErrors)

	for _, pool := range pm.pools {
		if pool != nil {
			pool.close()
		}
	}
	pm.pools = make(map[poolKey]*parserPool)

	return nil
}

// getOrCreatePool returns the pool for (lang, isTSX), creating it on first
// use with double-checked locking.
func (pm *ParserManager) getOrCreatePool(lang Language, isTSX bool) (*parserPool, error) {
	key := poolKey{lang: lang, isTSX: isTSX}

	pm.mutex.RLock()
	pool, exists := pm.pools[key]
	pm.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, exists = pm.pools[key]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(lang, isTSX)
	if err != nil {
		return nil, err
	}

	size := getDefaultPoolSize()
	pool = newParserPool(lang, langPtr, isTSX, size, pm.logger)
	pm.pools[key] = pool

	pm.logger.Debug("created parser pool",
		"language", lang.String(),
		"tsx", isTSX,
		"max_size", size)

	return pool, nil
}

func languagePointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	created := 0
	for _, pool := range pm.pools {
		created += pool.getCreatedCount()
	}

	return ParserStats{
		ParsersCreated: created,
		ParsesCalled:   pm.stats.parsesCalled,
		ParseErrors:    pm.stats.parseErrors,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
	// ParseErrors counts parses whose tree contained error nodes.
	ParseErrors int
}
