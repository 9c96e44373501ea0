package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/catalog"
	"github.com/gnana997/uilens/pkg/extractor"
	"github.com/gnana997/uilens/pkg/mcplog"
	"github.com/gnana997/uilens/pkg/parser"
	"github.com/gnana997/uilens/pkg/util"
)

const buttonSource = `import { cva } from "class-variance-authority";
import { cn } from "@/lib/utils";

const buttonVariants = cva("inline-flex items-center", {
  variants: { variant: { default: "bg-primary", ghost: "bg-transparent" } },
  defaultVariants: { variant: "default" },
});

export function Button({ variant, className, ...props }) {
  return <button className={cn(buttonVariants({ variant }), className)} {...props} />;
}`

// --- helpers ---

func testExtractor(t *testing.T) *extractor.Extractor {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pm := parser.NewParserManager(logger)
	files := util.NewFileCache(&util.FileCacheConfig{Logger: logger})
	t.Cleanup(func() {
		files.Close()
		pm.Close()
	})

	ex, err := extractor.NewExtractor(pm, files, &extractor.Config{CacheSize: 8, Logger: logger})
	require.NoError(t, err)
	return ex
}

func catalogComponent(path, name string, styling analyzer.StylingType, props ...string) *analyzer.ComponentResult {
	c := analyzer.NewComponentResult(path)
	c.Name = name
	c.Type = analyzer.ComponentFunctionDecl
	c.ExportType = analyzer.ExportNamed
	c.StylingLibrary.Type = styling
	for _, p := range props {
		c.Props = append(c.Props, analyzer.Prop{Name: p, Type: "any", IsOptional: true})
	}
	return c
}

func testQueryService() *catalog.QueryService {
	cat := &catalog.Catalog{
		Name:    "test",
		Version: "1.0",
		Components: []catalog.Entry{
			{FilePath: "src/ui/Button.tsx", Component: catalogComponent("src/ui/Button.tsx", "Button", analyzer.StylingVariantAuthoring, "variant", "size")},
			{FilePath: "src/ui/Dialog.tsx", Component: catalogComponent("src/ui/Dialog.tsx", "Dialog", analyzer.StylingTailwindLike, "open")},
			{FilePath: "src/ui/Badge.tsx", Component: catalogComponent("src/ui/Badge.tsx", "Badge", analyzer.StylingTailwindLike)},
			{FilePath: "src/lib/utils.ts", Component: catalogComponent("src/lib/utils.ts", analyzer.UnknownName, analyzer.StylingUnknown)},
		},
	}
	button, dialog := cat.Components[0].Component, cat.Components[1].Component
	button.Packages = []string{"react", "@/lib/utils"}
	button.Hooks = []analyzer.Hook{{Name: "useState", Arguments: []string{"false"}}}
	dialog.Packages = []string{"react"}
	dialog.Hooks = []analyzer.Hook{
		{Name: "useState", Arguments: []string{}},
		{Name: "useEffect", Arguments: []string{"() => {...}"}},
	}
	return catalog.NewQueryService(cat, cat.BuildIndex())
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(testExtractor(t), testQueryService(), nil)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	for _, tool := range s.serverTools() {
		if tool.Tool.Name == req.Params.Name {
			handler = tool.Handler
		}
	}
	require.NotNil(t, handler, "unknown tool: %s", req.Params.Name)

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), v))
}

// --- tool registration ---

func TestServerTools(t *testing.T) {
	s := testServer(t)

	var names []string
	for _, tool := range s.serverTools() {
		names = append(names, tool.Tool.Name)
	}
	assert.Equal(t, []string{"analyze_source", "analyze_file", "list_components", "get_component", "styling_summary", "find_components", "search_components"}, names)
	assert.NotNil(t, s.MCPServer())
}

// --- analyze_source ---

func TestHandleAnalyzeSource(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("analyze_source", map[string]any{
		"code":      buttonSource,
		"file_name": "Button.tsx",
	}))

	var component map[string]any
	decodeResult(t, result, &component)
	assert.Equal(t, "Button", component["name"])
	assert.Equal(t, "Button.tsx", component["filePath"])
	assert.Equal(t, "named", component["exportType"])

	styling := component["stylingLibrary"].(map[string]any)
	assert.Equal(t, "variantAuthoring", styling["type"])

	variants := component["variantConfigs"].([]any)
	require.Len(t, variants, 1)
	assert.Equal(t, "buttonVariants", variants[0].(map[string]any)["variableName"])
}

func TestHandleAnalyzeSourceDefaultFileName(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("analyze_source", map[string]any{
		"code": `export default function Card() { return <div className="p-4" /> }`,
	}))

	var component map[string]any
	decodeResult(t, result, &component)
	assert.Equal(t, "Card", component["name"])
	assert.Equal(t, defaultSourceName, component["filePath"])
}

func TestHandleAnalyzeSourceMissingCode(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("analyze_source", nil))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "code is required")
}

// --- analyze_file ---

func TestHandleAnalyzeFile(t *testing.T) {
	s := testServer(t)
	path := filepath.Join(t.TempDir(), "Button.tsx")
	require.NoError(t, os.WriteFile(path, []byte(buttonSource), 0o644))

	result := callTool(t, s, makeRequest("analyze_file", map[string]any{"path": path}))

	var component map[string]any
	decodeResult(t, result, &component)
	assert.Equal(t, "Button", component["name"])
	assert.Equal(t, path, component["filePath"])
}

func TestHandleAnalyzeFileErrors(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("analyze_file", nil))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "path is required")

	missing := filepath.Join(t.TempDir(), "Nope.tsx")
	result = callTool(t, s, makeRequest("analyze_file", map[string]any{"path": missing}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "failed to analyze")
}

// --- list_components ---

func TestHandleListComponents(t *testing.T) {
	s := testServer(t)

	var rows []componentSummary
	decodeResult(t, callTool(t, s, makeRequest("list_components", nil)), &rows)
	require.Len(t, rows, 3)

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	assert.ElementsMatch(t, []string{"Button", "Dialog", "Badge"}, names)
	assert.NotContains(t, names, analyzer.UnknownName)
}

func TestHandleListComponentsFilters(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"styling", map[string]any{"styling": "tailwindLike"}, []string{"Dialog", "Badge"}},
		{"keyword", map[string]any{"keyword": "butt"}, []string{"Button"}},
		{"styling and keyword", map[string]any{"styling": "tailwindLike", "keyword": "badge"}, []string{"Badge"}},
		{"no match", map[string]any{"styling": "emotionLike"}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rows []componentSummary
			decodeResult(t, callTool(t, s, makeRequest("list_components", tc.args)), &rows)

			names := make([]string, 0, len(rows))
			for _, row := range rows {
				names = append(names, row.Name)
			}
			assert.ElementsMatch(t, tc.want, names)
		})
	}
}

func TestHandleListComponentsSummaryFields(t *testing.T) {
	s := testServer(t)

	var rows []componentSummary
	decodeResult(t, callTool(t, s, makeRequest("list_components", map[string]any{"keyword": "button"})), &rows)
	require.Len(t, rows, 1)

	assert.Equal(t, "src/ui/Button.tsx", rows[0].FilePath)
	assert.Equal(t, analyzer.StylingVariantAuthoring, rows[0].Styling)
	assert.Equal(t, analyzer.ExportNamed, rows[0].ExportType)
	assert.Equal(t, 2, rows[0].Props)
}

// --- get_component ---

func TestHandleGetComponent(t *testing.T) {
	s := testServer(t)

	var entry map[string]any
	decodeResult(t, callTool(t, s, makeRequest("get_component", map[string]any{"name": "Dialog"})), &entry)
	assert.Equal(t, "src/ui/Dialog.tsx", entry["file_path"])

	component := entry["component"].(map[string]any)
	assert.Equal(t, "Dialog", component["name"])
	assert.Len(t, component["props"], 1)
}

func TestHandleGetComponentByPath(t *testing.T) {
	s := testServer(t)

	var entry map[string]any
	decodeResult(t, callTool(t, s, makeRequest("get_component", map[string]any{"name": "src/ui/Badge.tsx"})), &entry)
	assert.Equal(t, "Badge", entry["component"].(map[string]any)["name"])
}

func TestHandleGetComponentErrors(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("get_component", nil))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "name is required")

	result = callTool(t, s, makeRequest("get_component", map[string]any{"name": "Nope"}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), `component "Nope" not found`)
}

// --- styling_summary ---

func TestHandleStylingSummary(t *testing.T) {
	s := testServer(t)

	var counts []catalog.StylingCount
	decodeResult(t, callTool(t, s, makeRequest("styling_summary", nil)), &counts)
	require.Len(t, counts, 2)

	assert.Equal(t, analyzer.StylingTailwindLike, counts[0].Type)
	assert.Equal(t, 2, counts[0].Count)
	assert.ElementsMatch(t, []string{"Dialog", "Badge"}, counts[0].Components)
	assert.Equal(t, analyzer.StylingVariantAuthoring, counts[1].Type)
	assert.Equal(t, []string{"Button"}, counts[1].Components)
}

// --- find_components ---

func TestHandleFindComponents(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"package", map[string]any{"package": "react"}, []string{"Button", "Dialog"}},
		{"hook", map[string]any{"hook": "useEffect"}, []string{"Dialog"}},
		{"package and hook", map[string]any{"package": "@/lib/utils", "hook": "useState"}, []string{"Button"}},
		{"disjoint", map[string]any{"package": "@/lib/utils", "hook": "useEffect"}, []string{}},
		{"unknown package", map[string]any{"package": "vue"}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rows []componentSummary
			decodeResult(t, callTool(t, s, makeRequest("find_components", tc.args)), &rows)

			names := make([]string, 0, len(rows))
			for _, row := range rows {
				names = append(names, row.Name)
			}
			assert.ElementsMatch(t, tc.want, names)
		})
	}
}

func TestHandleFindComponentsRequiresFilter(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("find_components", nil))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "package or hook is required")
}

// --- search_components ---

func TestHandleSearchComponents(t *testing.T) {
	s := testServer(t)

	var matches []searchMatch
	decodeResult(t, callTool(t, s, makeRequest("search_components", map[string]any{"query": "OPEN"})), &matches)
	require.Len(t, matches, 1)
	assert.Equal(t, searchMatch{Name: "Dialog", FilePath: "src/ui/Dialog.tsx", MatchReason: "prop:open"}, matches[0])

	decodeResult(t, callTool(t, s, makeRequest("search_components", map[string]any{"query": "useeffect"})), &matches)
	require.Len(t, matches, 1)
	assert.Equal(t, "hook:useEffect", matches[0].MatchReason)

	result := callTool(t, s, makeRequest("search_components", nil))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "query is required")
}

// --- no catalog ---

func TestCatalogToolsWithoutCatalog(t *testing.T) {
	s := NewServer(testExtractor(t), nil, nil)

	for _, req := range []mcp.CallToolRequest{
		makeRequest("list_components", nil),
		makeRequest("get_component", map[string]any{"name": "Button"}),
		makeRequest("styling_summary", nil),
		makeRequest("find_components", map[string]any{"hook": "useState"}),
		makeRequest("search_components", map[string]any{"query": "button"}),
	} {
		result := callTool(t, s, req)
		assert.True(t, result.IsError, req.Params.Name)
		assert.Contains(t, resultText(t, result), "no catalog loaded")
	}

	result := callTool(t, s, makeRequest("analyze_source", map[string]any{"code": buttonSource}))
	assert.False(t, result.IsError)
}

// --- call logging ---

func TestLoggingMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	callLog, err := mcplog.NewLogger(path)
	require.NoError(t, err)

	s := NewServer(testExtractor(t), testQueryService(), callLog)
	wrap := s.loggingMiddleware()

	_, err = wrap(s.handleAnalyzeSource)(context.Background(), makeRequest("analyze_source", map[string]any{"code": buttonSource}))
	require.NoError(t, err)
	_, err = wrap(s.handleGetComponent)(context.Background(), makeRequest("get_component", map[string]any{"name": "Nope"}))
	require.NoError(t, err)
	require.NoError(t, callLog.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []mcplog.LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry mcplog.LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.Len(t, entries, 2)

	assert.Equal(t, "analyze_source", entries[0].Tool)
	assert.Contains(t, entries[0].Params, "code_len")
	assert.Greater(t, entries[0].ResponseBytes, 0)
	assert.Nil(t, entries[0].Error)

	assert.Equal(t, "get_component", entries[1].Tool)
	assert.Equal(t, "Nope", entries[1].Params["name"])
	require.NotNil(t, entries[1].Error)
	assert.Contains(t, *entries[1].Error, "not found")
}
