package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/catalog"
)

// componentSummary is the compact list_components row.
type componentSummary struct {
	Name       string                 `json:"name"`
	FilePath   string                 `json:"file_path"`
	Type       analyzer.ComponentType `json:"type"`
	ExportType analyzer.ExportType    `json:"export_type"`
	Styling    analyzer.StylingType   `json:"styling"`
	Props      int                    `json:"prop_count"`
}

type searchMatch struct {
	Name        string `json:"name"`
	FilePath    string `json:"file_path"`
	MatchReason string `json:"match_reason"`
}

func (s *Server) handleAnalyzeSource(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	code, ok := args["code"].(string)
	if !ok || code == "" {
		return mcp.NewToolResultError("code is required"), nil
	}
	fileName, _ := args["file_name"].(string)
	if fileName == "" {
		fileName = defaultSourceName
	}

	result, err := s.extractor.ExtractFile(fileName, []byte(code))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to analyze source", err), nil
	}
	return jsonResult(result.Component)
}

func (s *Server) handleAnalyzeFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, ok := req.GetArguments()["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	result, err := s.extractor.ExtractPath(path)
	if err != nil {
		return mcp.NewToolResultErrorFromErr(fmt.Sprintf("failed to analyze %s", path), err), nil
	}
	return jsonResult(result.Component)
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.query == nil {
		return noCatalog(), nil
	}
	args := req.GetArguments()
	styling, _ := args["styling"].(string)
	keyword, _ := args["keyword"].(string)

	entries := s.query.ListComponents(analyzer.StylingType(styling), keyword)
	return jsonResult(summarize(entries))
}

func (s *Server) handleFindComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.query == nil {
		return noCatalog(), nil
	}
	args := req.GetArguments()
	pkg, _ := args["package"].(string)
	hook, _ := args["hook"].(string)

	var entries []catalog.Entry
	switch {
	case pkg != "" && hook != "":
		usesHook := make(map[string]bool)
		for _, entry := range s.query.ComponentsUsingHook(hook) {
			usesHook[entry.FilePath] = true
		}
		for _, entry := range s.query.ComponentsUsingPackage(pkg) {
			if usesHook[entry.FilePath] {
				entries = append(entries, entry)
			}
		}
	case pkg != "":
		entries = s.query.ComponentsUsingPackage(pkg)
	case hook != "":
		entries = s.query.ComponentsUsingHook(hook)
	default:
		return mcp.NewToolResultError("package or hook is required"), nil
	}
	return jsonResult(summarize(entries))
}

func (s *Server) handleSearchComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.query == nil {
		return noCatalog(), nil
	}
	query, ok := req.GetArguments()["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	results := s.query.SearchComponents(query)
	matches := make([]searchMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, searchMatch{
			Name:        r.Entry.Name(),
			FilePath:    r.Entry.FilePath,
			MatchReason: r.MatchReason,
		})
	}
	return jsonResult(matches)
}

func summarize(entries []catalog.Entry) []componentSummary {
	rows := make([]componentSummary, 0, len(entries))
	for _, entry := range entries {
		c := entry.Component
		rows = append(rows, componentSummary{
			Name:       c.Name,
			FilePath:   entry.FilePath,
			Type:       c.Type,
			ExportType: c.ExportType,
			Styling:    c.StylingLibrary.Type,
			Props:      len(c.Props),
		})
	}
	return rows
}

func (s *Server) handleGetComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.query == nil {
		return noCatalog(), nil
	}
	name, ok := req.GetArguments()["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	entry, found := s.query.GetComponent(name)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("component %q not found", name)), nil
	}
	return jsonResult(entry)
}

func (s *Server) handleStylingSummary(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.query == nil {
		return noCatalog(), nil
	}
	return jsonResult(s.query.StylingSummary())
}

func noCatalog() *mcp.CallToolResult {
	return mcp.NewToolResultError("no catalog loaded; run `uilens scan` first or pass --catalog")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to encode result", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
