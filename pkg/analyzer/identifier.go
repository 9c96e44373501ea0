package analyzer

import (
	"unicode"
	"unicode/utf8"

	"github.com/gnana997/uilens/pkg/ast"
)

// ComponentIdentifier determines the component's name and declaration form.
//
// The default export wins when it names a declaration. Otherwise the last
// top-level declaration with an uppercase name that looks like a component
// is used.
type ComponentIdentifier struct{}

func (*ComponentIdentifier) Name() string { return "component-identifier" }

func (*ComponentIdentifier) Reset(result *ComponentResult) {
	result.Name = UnknownName
	result.Type = ComponentUnknown
}

func (c *ComponentIdentifier) Analyze(root *ast.Node, result *ComponentResult) {
	c.Reset(result)

	if def := findDefaultExport(root); def != nil {
		decl := def.Declaration
		switch {
		case (decl.Is(ast.KindFunctionDeclaration) || decl.Is(ast.KindFunctionExpression)) && decl.Name != "":
			result.Name, result.Type = decl.Name, ComponentFunctionDecl
		case (decl.Is(ast.KindClassDeclaration) || decl.Is(ast.KindClassExpression)) && decl.Name != "":
			result.Name, result.Type = decl.Name, ComponentClassDecl
		case decl.Is(ast.KindIdentifier):
			result.Name = decl.Name
			if typ, ok := resolveDeclaration(root, decl.Name); ok {
				result.Type = typ
			}
		}
		return
	}

	for _, stmt := range root.Items {
		if stmt.Is(ast.KindExportNamedDeclaration) {
			stmt = stmt.Declaration
		}
		for _, cand := range declaredComponents(stmt) {
			if startsUpper(cand.name) {
				result.Name, result.Type = cand.name, cand.typ
			}
		}
	}
}

func findDefaultExport(root *ast.Node) *ast.Node {
	for _, stmt := range root.Items {
		if stmt.Is(ast.KindExportDefaultDeclaration) {
			return stmt
		}
	}
	return nil
}

type candidate struct {
	name string
	typ  ComponentType
}

// declaredComponents lists the component-shaped declarations a statement
// introduces.
func declaredComponents(stmt *ast.Node) []candidate {
	switch {
	case stmt.Is(ast.KindFunctionDeclaration) && stmt.Name != "":
		return []candidate{{stmt.Name, ComponentFunctionDecl}}
	case stmt.Is(ast.KindClassDeclaration) && stmt.Name != "":
		return []candidate{{stmt.Name, ComponentClassDecl}}
	case stmt.Is(ast.KindVariableDeclaration):
		var out []candidate
		for _, d := range stmt.Items {
			if !d.ID.Is(ast.KindIdentifier) {
				continue
			}
			if typ, ok := classifyInit(d.Init); ok {
				out = append(out, candidate{d.ID.Name, typ})
			}
		}
		return out
	}
	return nil
}

// resolveDeclaration finds how name is declared anywhere in the tree. The
// last matching declaration wins.
func resolveDeclaration(root *ast.Node, name string) (ComponentType, bool) {
	var (
		found ComponentType
		ok    bool
	)
	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindFunctionDeclaration:
			if n.Name == name {
				found, ok = ComponentFunctionDecl, true
			}
		case ast.KindClassDeclaration:
			if n.Name == name {
				found, ok = ComponentClassDecl, true
			}
		case ast.KindVariableDeclarator:
			if n.ID.IsIdentifier(name) {
				if typ, matched := classifyInit(n.Init); matched {
					found, ok = typ, true
				}
			}
		}
		return true
	})
	return found, ok
}

func classifyInit(init *ast.Node) (ComponentType, bool) {
	switch {
	case init.Is(ast.KindArrowFunction):
		return ComponentArrowFn, true
	case init.Is(ast.KindFunctionExpression):
		return ComponentFunctionExpr, true
	case init.Is(ast.KindCallExpression) && isForwardRef(init.Callee):
		return ComponentForwardRef, true
	}
	return "", false
}

func isForwardRef(callee *ast.Node) bool {
	switch ast.CalleeName(callee) {
	case "forwardRef", "React.forwardRef":
		return true
	}
	return false
}

func startsUpper(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
