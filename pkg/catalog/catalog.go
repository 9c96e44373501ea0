// Package catalog stores workspace analysis results as a JSON document and
// answers queries over it.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/indexer"
)

// Catalog is the analysis of every component file in a workspace.
type Catalog struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Root        string    `json:"root"`
	RunID       string    `json:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Components  []Entry   `json:"components"`
}

// CatalogIndex provides O(1) lookups into the catalog.
// Built during LoadFromFile after validation passes.
type CatalogIndex struct {
	// EntryByPath maps file path -> *Entry.
	EntryByPath map[string]*Entry

	// EntriesByName maps component name -> entries, in path order.
	// Files without an identified component are not listed.
	EntriesByName map[string][]*Entry

	// EntriesByStyling maps styling category -> entries.
	EntriesByStyling map[analyzer.StylingType][]*Entry

	// EntriesByPackage maps import source -> entries that import it.
	EntriesByPackage map[string][]*Entry

	// EntriesByHook maps hook name -> entries that call it.
	EntriesByHook map[string][]*Entry
}

// BuildOptions names a catalog produced by Build.
type BuildOptions struct {
	Name    string
	Version string
	Root    string
	RunID   string
}

// Build creates a catalog from indexed files. Paths are stored relative to
// options.Root and entries are sorted by path.
func Build(options BuildOptions, files []*indexer.FileComponent) *Catalog {
	cat := &Catalog{
		Name:        options.Name,
		Version:     options.Version,
		Root:        options.Root,
		RunID:       options.RunID,
		GeneratedAt: time.Now().UTC(),
		Components:  make([]Entry, 0, len(files)),
	}

	for _, fc := range files {
		path := fc.FilePath
		if options.Root != "" {
			if rel, err := filepath.Rel(options.Root, fc.FilePath); err == nil {
				path = rel
			}
		}
		cat.Components = append(cat.Components, Entry{
			FilePath:    filepath.ToSlash(path),
			ContentHash: fc.ContentHash,
			Component:   fc.Component,
		})
	}

	sort.Slice(cat.Components, func(i, j int) bool {
		return cat.Components[i].FilePath < cat.Components[j].FilePath
	})
	return cat
}

var validStyling = map[analyzer.StylingType]bool{
	analyzer.StylingTailwindLike:         true,
	analyzer.StylingStyledComponentsLike: true,
	analyzer.StylingEmotionLike:          true,
	analyzer.StylingVariantAuthoring:     true,
	analyzer.StylingUnknown:              true,
}

var validExportTypes = map[analyzer.ExportType]bool{
	analyzer.ExportDefault: true,
	analyzer.ExportNamed:   true,
}

// Validate checks the catalog for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Catalog) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, fmt.Errorf("catalog name is required"))
	}
	if c.Version == "" {
		errs = append(errs, fmt.Errorf("catalog version is required"))
	}

	paths := make(map[string]bool, len(c.Components))
	for i, entry := range c.Components {
		if entry.FilePath == "" {
			errs = append(errs, fmt.Errorf("components[%d]: file_path is required", i))
			continue
		}
		if paths[entry.FilePath] {
			errs = append(errs, fmt.Errorf("components[%d]: duplicate file_path %q", i, entry.FilePath))
			continue
		}
		paths[entry.FilePath] = true

		comp := entry.Component
		if comp == nil {
			errs = append(errs, fmt.Errorf("entry %q: component is required", entry.FilePath))
			continue
		}
		if comp.Name == "" {
			errs = append(errs, fmt.Errorf("entry %q: component name is required", entry.FilePath))
		}
		if !validExportTypes[comp.ExportType] {
			errs = append(errs, fmt.Errorf("entry %q: invalid exportType %q", entry.FilePath, comp.ExportType))
		}
		styling := comp.StylingLibrary
		if !validStyling[styling.Type] {
			errs = append(errs, fmt.Errorf("entry %q: invalid styling type %q", entry.FilePath, styling.Type))
		}
		if styling.Confidence < 0 || styling.Confidence > 100 {
			errs = append(errs, fmt.Errorf("entry %q: styling confidence %d out of range [0, 100]", entry.FilePath, styling.Confidence))
		}
		for j, prop := range comp.Props {
			if prop.Name == "" {
				errs = append(errs, fmt.Errorf("entry %q props[%d]: name is required", entry.FilePath, j))
			}
		}
	}

	return errs
}

// BuildIndex creates lookup maps for fast access.
// Should be called after Validate() passes.
func (c *Catalog) BuildIndex() *CatalogIndex {
	idx := &CatalogIndex{
		EntryByPath:      make(map[string]*Entry, len(c.Components)),
		EntriesByName:    make(map[string][]*Entry),
		EntriesByStyling: make(map[analyzer.StylingType][]*Entry),
		EntriesByPackage: make(map[string][]*Entry),
		EntriesByHook:    make(map[string][]*Entry),
	}

	for i := range c.Components {
		entry := &c.Components[i]
		comp := entry.Component

		idx.EntryByPath[entry.FilePath] = entry
		if entry.Identified() {
			idx.EntriesByName[comp.Name] = append(idx.EntriesByName[comp.Name], entry)
		}
		idx.EntriesByStyling[comp.StylingLibrary.Type] = append(idx.EntriesByStyling[comp.StylingLibrary.Type], entry)

		for _, pkg := range comp.Packages {
			idx.EntriesByPackage[pkg] = append(idx.EntriesByPackage[pkg], entry)
		}

		// A hook called twice in one file lists the file once.
		seen := make(map[string]bool, len(comp.Hooks))
		for _, hook := range comp.Hooks {
			if seen[hook.Name] {
				continue
			}
			seen[hook.Name] = true
			idx.EntriesByHook[hook.Name] = append(idx.EntriesByHook[hook.Name], entry)
		}
	}

	return idx
}

// Save writes the catalog as indented JSON, creating parent directories.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// LoadFromFile loads a catalog from a JSON file, validates it, and builds the index.
func LoadFromFile(path string) (*Catalog, *CatalogIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a catalog from raw JSON bytes, validates it, and builds the index.
func LoadFromBytes(data []byte) (*Catalog, *CatalogIndex, error) {
	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	if errs := catalog.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}

	index := catalog.BuildIndex()
	return &catalog, index, nil
}
