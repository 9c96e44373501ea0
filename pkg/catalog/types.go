package catalog

import "github.com/gnana997/uilens/pkg/analyzer"

// Entry is one analyzed source file in the catalog.
type Entry struct {
	// FilePath is relative to the catalog root, slash-separated.
	FilePath    string                    `json:"file_path"`
	ContentHash string                    `json:"content_hash,omitempty"`
	Component   *analyzer.ComponentResult `json:"component"`
}

// Name returns the identified component name.
func (e *Entry) Name() string {
	return e.Component.Name
}

// Identified reports whether a component was found in the file.
func (e *Entry) Identified() bool {
	return e.Component.Name != analyzer.UnknownName
}

// StylingCount summarizes the components in one styling category.
type StylingCount struct {
	Type       analyzer.StylingType `json:"type"`
	Count      int                  `json:"count"`
	Components []string             `json:"components"`
}

// ComponentSearchResult holds an entry with the reason it matched.
type ComponentSearchResult struct {
	Entry       *Entry `json:"entry"`
	MatchReason string `json:"match_reason"`
}
