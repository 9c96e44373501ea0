package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// defaultSourceName is used by analyze_source when no file name is given.
const defaultSourceName = "Component.tsx"

func (s *Server) serverTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: analyzeSourceTool(), Handler: s.handleAnalyzeSource},
		{Tool: analyzeFileTool(), Handler: s.handleAnalyzeFile},
		{Tool: listComponentsTool(), Handler: s.handleListComponents},
		{Tool: getComponentTool(), Handler: s.handleGetComponent},
		{Tool: stylingSummaryTool(), Handler: s.handleStylingSummary},
		{Tool: findComponentsTool(), Handler: s.handleFindComponents},
		{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
	}
}

func analyzeSourceTool() mcp.Tool {
	return mcp.NewTool("analyze_source",
		mcp.WithDescription("Analyze React component source code and return its name, props, hooks, variant configs, class-name usage, JSX structure and styling approach"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("JavaScript or TypeScript (JSX/TSX) source of one module"),
		),
		mcp.WithString("file_name",
			mcp.Description("File name used to pick the grammar, e.g. Button.tsx (default: "+defaultSourceName+")"),
		),
	)
}

func analyzeFileTool() mcp.Tool {
	return mcp.NewTool("analyze_file",
		mcp.WithDescription("Read a .js, .jsx, .ts or .tsx file from disk and analyze the component it declares"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the source file"),
		),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List components in the loaded catalog, optionally filtered by styling category and keyword"),
		mcp.WithString("styling",
			mcp.Description("Styling category filter"),
			mcp.Enum("tailwindLike", "styledComponentsLike", "emotionLike", "variantAuthoring"),
		),
		mcp.WithString("keyword",
			mcp.Description("Case-insensitive match against component name and file path"),
		),
	)
}

func getComponentTool() mcp.Tool {
	return mcp.NewTool("get_component",
		mcp.WithDescription("Full analysis of one catalog component, looked up by component name or file path"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Component name (e.g. Button) or catalog file path"),
		),
	)
}

func stylingSummaryTool() mcp.Tool {
	return mcp.NewTool("styling_summary",
		mcp.WithDescription("Count catalog components per styling category"),
	)
}

func findComponentsTool() mcp.Tool {
	return mcp.NewTool("find_components",
		mcp.WithDescription("List catalog components that import a package and/or call a hook. When both are given, components must match both"),
		mcp.WithString("package",
			mcp.Description("Import source, e.g. react or @/lib/utils"),
		),
		mcp.WithString("hook",
			mcp.Description("Hook name, e.g. useState"),
		),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Case-insensitive search across component names, file paths, props, hooks and packages"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
	)
}
