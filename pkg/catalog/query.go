package catalog

import (
	"strings"

	"github.com/gnana997/uilens/pkg/analyzer"
)

// QueryService provides read-only query methods over a loaded catalog.
type QueryService struct {
	Catalog *Catalog
	Index   *CatalogIndex
}

// NewQueryService creates a QueryService from a validated catalog and its index.
func NewQueryService(cat *Catalog, idx *CatalogIndex) *QueryService {
	return &QueryService{Catalog: cat, Index: idx}
}

// LoadAndQuery loads a catalog from file and returns a ready-to-use QueryService.
func LoadAndQuery(path string) (*QueryService, error) {
	cat, idx, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// LoadAndQueryBytes loads a catalog from raw JSON bytes and returns a ready-to-use QueryService.
func LoadAndQueryBytes(data []byte) (*QueryService, error) {
	cat, idx, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// ListComponents returns identified components filtered by styling category
// and/or keyword. Both filters are optional (pass "" to skip) and combine
// with AND logic. The keyword matches case-insensitively against the
// component name and file path.
func (q *QueryService) ListComponents(styling analyzer.StylingType, keyword string) []Entry {
	var candidates []*Entry
	if styling != "" {
		candidates = q.Index.EntriesByStyling[styling]
	} else {
		candidates = make([]*Entry, 0, len(q.Catalog.Components))
		for i := range q.Catalog.Components {
			candidates = append(candidates, &q.Catalog.Components[i])
		}
	}

	keyword = strings.ToLower(keyword)
	result := make([]Entry, 0)

	for _, entry := range candidates {
		if !entry.Identified() {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(entry.Name()), keyword) &&
			!strings.Contains(strings.ToLower(entry.FilePath), keyword) {
			continue
		}
		result = append(result, *entry)
	}

	return result
}

// GetComponent looks up an entry by component name, falling back to file
// path. When several files declare the same name the first by path wins.
func (q *QueryService) GetComponent(name string) (*Entry, bool) {
	if entries := q.Index.EntriesByName[name]; len(entries) > 0 {
		return entries[0], true
	}
	if entry, ok := q.Index.EntryByPath[name]; ok {
		return entry, true
	}
	return nil, false
}

// StylingSummary counts identified components per styling category, in
// analyzer.CategoryOrder. Categories with no components are omitted.
func (q *QueryService) StylingSummary() []StylingCount {
	summary := make([]StylingCount, 0, len(analyzer.CategoryOrder))
	for _, styling := range analyzer.CategoryOrder {
		var names []string
		for _, entry := range q.Index.EntriesByStyling[styling] {
			if entry.Identified() {
				names = append(names, entry.Name())
			}
		}
		if len(names) == 0 {
			continue
		}
		summary = append(summary, StylingCount{Type: styling, Count: len(names), Components: names})
	}
	return summary
}

// ComponentsUsingPackage returns entries that import pkg.
func (q *QueryService) ComponentsUsingPackage(pkg string) []Entry {
	return derefEntries(q.Index.EntriesByPackage[pkg])
}

// ComponentsUsingHook returns entries that call the named hook.
func (q *QueryService) ComponentsUsingHook(name string) []Entry {
	return derefEntries(q.Index.EntriesByHook[name])
}

// SearchComponents performs a case-insensitive search across component
// names, file paths, prop names, hook names and imported packages.
// Returns matching entries with the reason for the match.
func (q *QueryService) SearchComponents(query string) []ComponentSearchResult {
	query = strings.ToLower(query)
	if query == "" {
		return nil
	}

	var results []ComponentSearchResult
	for i := range q.Catalog.Components {
		entry := &q.Catalog.Components[i]
		if reason, ok := matchReason(entry, query); ok {
			results = append(results, ComponentSearchResult{Entry: entry, MatchReason: reason})
		}
	}
	return results
}

func matchReason(entry *Entry, query string) (string, bool) {
	comp := entry.Component
	if entry.Identified() && strings.Contains(strings.ToLower(comp.Name), query) {
		return "name", true
	}
	if strings.Contains(strings.ToLower(entry.FilePath), query) {
		return "path", true
	}
	for _, prop := range comp.Props {
		if strings.Contains(strings.ToLower(prop.Name), query) {
			return "prop:" + prop.Name, true
		}
	}
	for _, hook := range comp.Hooks {
		if strings.Contains(strings.ToLower(hook.Name), query) {
			return "hook:" + hook.Name, true
		}
	}
	for _, pkg := range comp.Packages {
		if strings.Contains(strings.ToLower(pkg), query) {
			return "package:" + pkg, true
		}
	}
	return "", false
}

func derefEntries(entries []*Entry) []Entry {
	result := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, *entry)
	}
	return result
}
