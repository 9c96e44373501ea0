package analyzer

import (
	"github.com/gnana997/uilens/pkg/ast"
)

// ImportCollector records the module sources the file imports.
type ImportCollector struct{}

func (*ImportCollector) Name() string { return "import-collector" }

func (*ImportCollector) Reset(result *ComponentResult) {
	result.Packages = []string{}
}

func (*ImportCollector) Analyze(root *ast.Node, result *ComponentResult) {
	seen := make(map[string]bool)
	packages := []string{}
	ast.Inspect(root, ast.KindImportDeclaration, func(n *ast.Node) {
		if n.Text == "" || seen[n.Text] {
			return
		}
		seen[n.Text] = true
		packages = append(packages, n.Text)
	})
	result.Packages = packages
}

// DefaultExportPrefix marks the default export in ComponentResult.Exports.
const DefaultExportPrefix = "default:"

// AnonymousExport names a default export without a name.
const AnonymousExport = "(anonymous)"

// ExportClassifier collects exported names and decides whether the
// identified component is the default export. It reads Name, so it must run
// after ComponentIdentifier.
type ExportClassifier struct{}

func (*ExportClassifier) Name() string { return "export-classifier" }

func (*ExportClassifier) Reset(result *ComponentResult) {
	result.Exports = []string{}
	result.ExportType = ExportNamed
}

func (*ExportClassifier) Analyze(root *ast.Node, result *ComponentResult) {
	exports := []string{}
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			exports = append(exports, name)
		}
	}

	exportType := ExportNamed
	for _, stmt := range root.Items {
		switch stmt.Kind {
		case ast.KindExportNamedDeclaration:
			if stmt.Declaration != nil {
				for _, name := range declaredNames(stmt.Declaration) {
					add(name)
				}
			}
			for _, spec := range stmt.Items {
				add(spec.Name)
			}
		case ast.KindExportAllDeclaration:
			add(stmt.Name)
		case ast.KindExportDefaultDeclaration:
			name := defaultExportName(stmt.Declaration)
			add(DefaultExportPrefix + name)
			if name == result.Name {
				exportType = ExportDefault
			}
		}
	}

	result.Exports = exports
	result.ExportType = exportType
}

func defaultExportName(decl *ast.Node) string {
	switch {
	case decl == nil:
		return AnonymousExport
	case decl.Is(ast.KindIdentifier):
		return decl.Name
	case decl.Name != "" && (decl.Kind == ast.KindFunctionDeclaration ||
		decl.Kind == ast.KindFunctionExpression ||
		decl.Kind == ast.KindClassDeclaration ||
		decl.Kind == ast.KindClassExpression):
		return decl.Name
	}
	return AnonymousExport
}

// declaredNames returns the bindings a declaration introduces, including
// names bound by destructuring patterns.
func declaredNames(decl *ast.Node) []string {
	switch decl.Kind {
	case ast.KindFunctionDeclaration, ast.KindClassDeclaration:
		if decl.Name != "" {
			return []string{decl.Name}
		}
	case ast.KindVariableDeclaration:
		var names []string
		for _, d := range decl.Items {
			names = append(names, patternNames(d.ID)...)
		}
		return names
	}
	return nil
}

func patternNames(p *ast.Node) []string {
	if p == nil {
		return nil
	}
	switch p.Kind {
	case ast.KindIdentifier:
		return []string{p.Name}
	case ast.KindObjectPattern:
		var names []string
		for _, item := range p.Items {
			if item.Is(ast.KindProperty) {
				names = append(names, patternNames(item.Value)...)
			} else {
				names = append(names, patternNames(item)...)
			}
		}
		return names
	case ast.KindArrayPattern:
		var names []string
		for _, item := range p.Items {
			names = append(names, patternNames(item)...)
		}
		return names
	case ast.KindAssignmentPattern:
		return patternNames(p.Left)
	case ast.KindRestElement:
		return patternNames(p.Argument)
	}
	return nil
}
