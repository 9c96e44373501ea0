// Package analyzer extracts component facts from a parsed source file.
//
// A Pipeline runs a fixed sequence of analyzers over one ast tree. Each
// analyzer owns a disjoint set of ComponentResult fields and never fails:
// unrecognized shapes leave its fields at their defaults.
package analyzer

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gnana997/uilens/pkg/ast"
)

// Analyzer fills the ComponentResult fields it owns.
type Analyzer interface {
	Name() string

	// Analyze inspects the tree and writes the analyzer's fields.
	Analyze(root *ast.Node, result *ComponentResult)

	// Reset restores the analyzer's fields to their defaults.
	Reset(result *ComponentResult)
}

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	// Parallel runs the analyzers that depend on nothing but the tree
	// concurrently. Output is identical to a sequential run.
	Parallel bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultPipelineConfig returns a sequential pipeline configuration.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// Pipeline runs the analyzers in dependency order.
//
// Stages run in sequence. Analyzers within a stage only read the tree and
// the fields of earlier stages, so they may run concurrently.
type Pipeline struct {
	stages   [][]Analyzer
	parallel bool
	logger   *slog.Logger
}

// NewPipeline creates the standard pipeline.
func NewPipeline(config *PipelineConfig) *Pipeline {
	if config == nil {
		config = DefaultPipelineConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		stages: [][]Analyzer{
			{&ComponentIdentifier{}},
			{
				&ImportCollector{},
				&ExportClassifier{},
				&PropCollector{},
				&HookCollector{},
				&JSXStructureCollector{},
				&VariantConfigAnalyzer{},
				&ClassNameUsageAnalyzer{},
			},
			{&StylingLibraryClassifier{}},
		},
		parallel: config.Parallel,
		logger:   logger,
	}
}

// Analyzers returns the analyzers in execution order.
func (p *Pipeline) Analyzers() []Analyzer {
	var out []Analyzer
	for _, stage := range p.stages {
		out = append(out, stage...)
	}
	return out
}

// Run analyzes root and returns a fresh result. It never fails; a nil root
// yields a result with every field at its default.
func (p *Pipeline) Run(root *ast.Node, filePath string) *ComponentResult {
	start := time.Now()
	result := NewComponentResult(filePath)
	if root == nil {
		return result
	}

	for _, stage := range p.stages {
		if !p.parallel || len(stage) == 1 {
			for _, a := range stage {
				p.runAnalyzer(a, root, result)
			}
			continue
		}

		var g errgroup.Group
		for _, a := range stage {
			g.Go(func() error {
				p.runAnalyzer(a, root, result)
				return nil
			})
		}
		_ = g.Wait()
	}

	p.logger.Debug("component analyzed",
		"file", filePath,
		"component", result.Name,
		"styling", result.StylingLibrary.Type,
		"duration", time.Since(start))

	return result
}

func (p *Pipeline) runAnalyzer(a Analyzer, root *ast.Node, result *ComponentResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("analyzer failed, using defaults",
				"analyzer", a.Name(),
				"file", result.FilePath,
				"panic", fmt.Sprint(r))
			a.Reset(result)
		}
	}()
	a.Analyze(root, result)
}
