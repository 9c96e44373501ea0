package analyzer

import (
	"github.com/gnana997/uilens/pkg/ast"
)

// propsIdentifier is the conventional name of a component's props parameter.
const propsIdentifier = "props"

// PropCollector finds props by three syntactic heuristics: member access on
// props, destructured function parameters, and destructuring of props in a
// declarator. Every hit is recorded, so a prop seen twice appears twice.
type PropCollector struct{}

func (*PropCollector) Name() string { return "prop-collector" }

func (*PropCollector) Reset(result *ComponentResult) {
	result.Props = []Prop{}
}

func (*PropCollector) Analyze(root *ast.Node, result *ComponentResult) {
	props := []Prop{}

	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindMemberExpression:
			if !n.Computed && n.Object.IsIdentifier(propsIdentifier) && n.Property.Is(ast.KindIdentifier) {
				props = append(props, newProp(n.Property.Name, nil))
			}

		case ast.KindFunctionDeclaration, ast.KindFunctionExpression, ast.KindArrowFunction:
			for _, param := range n.Items {
				if param.Is(ast.KindAssignmentPattern) {
					param = param.Left
				}
				if param.Is(ast.KindObjectPattern) {
					props = append(props, patternProps(param)...)
				}
			}

		case ast.KindVariableDeclarator:
			if n.ID.Is(ast.KindObjectPattern) && n.Init.IsIdentifier(propsIdentifier) {
				props = append(props, patternProps(n.ID)...)
			}
		}
		return true
	})

	result.Props = props
}

func newProp(name string, defaultValue *string) Prop {
	return Prop{
		Name:         name,
		Type:         "any",
		IsOptional:   true,
		DefaultValue: defaultValue,
	}
}

// patternProps returns one prop per keyed entry of an object pattern. Rest
// elements carry no prop name and are skipped.
func patternProps(pattern *ast.Node) []Prop {
	var props []Prop
	for _, item := range pattern.Items {
		if !item.Is(ast.KindProperty) || item.Computed {
			continue
		}
		name, ok := ast.KeyName(item.Key)
		if !ok {
			continue
		}
		var def *string
		if item.Value.Is(ast.KindAssignmentPattern) {
			if text, ok := literalText(item.Value.Right); ok {
				def = &text
			}
		}
		props = append(props, newProp(name, def))
	}
	return props
}

// literalText renders literals and identifiers as source-like text.
func literalText(n *ast.Node) (string, bool) {
	switch {
	case n.Is(ast.KindStringLiteral), n.Is(ast.KindNumericLiteral), n.Is(ast.KindBooleanLiteral):
		return n.Text, true
	case n.Is(ast.KindNullLiteral):
		return "null", true
	case n.Is(ast.KindIdentifier):
		return n.Name, true
	}
	return "", false
}
