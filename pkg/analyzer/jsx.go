package analyzer

import (
	"strings"

	"github.com/gnana997/uilens/pkg/ast"
)

// JSXStructureCollector summarizes markup elements: their props, direct
// children and, for intrinsic elements, attributes.
//
// JSXElements is keyed by tag name, so when a tag occurs more than once the
// last occurrence in document order is kept. JSXElementSequence keeps every
// occurrence.
type JSXStructureCollector struct{}

func (*JSXStructureCollector) Name() string { return "jsx-structure-collector" }

func (*JSXStructureCollector) Reset(result *ComponentResult) {
	result.JSXElements = map[string]JSXElement{}
	result.JSXElementSequence = []JSXOccurrence{}
}

func (*JSXStructureCollector) Analyze(root *ast.Node, result *ComponentResult) {
	elements := map[string]JSXElement{}
	sequence := []JSXOccurrence{}

	ast.Inspect(root, ast.KindJSXElement, func(n *ast.Node) {
		el := summarizeElement(n)
		elements[el.Name] = el
		pos := n.Position()
		sequence = append(sequence, JSXOccurrence{JSXElement: el, Line: pos.Line, Column: pos.Column})
	})

	result.JSXElements = elements
	result.JSXElementSequence = sequence
}

func summarizeElement(n *ast.Node) JSXElement {
	el := JSXElement{
		Name:       n.Name,
		Props:      []JSXProp{},
		Children:   []JSXChild{},
		Attributes: []JSXAttribute{},
	}
	intrinsic := isIntrinsic(n.Name)

	for _, attr := range n.Attributes {
		switch attr.Kind {
		case ast.KindJSXSpreadAttribute:
			el.Props = append(el.Props, JSXProp{Name: ElidedPlaceholder, IsSpread: true})
		case ast.KindJSXAttribute:
			value := attributeValue(attr.Value)
			el.Props = append(el.Props, JSXProp{Name: attr.Name, Value: value})
			if intrinsic {
				el.Attributes = append(el.Attributes, JSXAttribute{Name: attr.Name, Value: value})
			}
		}
	}

	for _, child := range n.Items {
		switch child.Kind {
		case ast.KindJSXText:
			if text := strings.TrimSpace(child.Text); text != "" {
				el.Children = append(el.Children, JSXChild{Kind: JSXChildText, Content: text})
			}
		case ast.KindJSXElement:
			el.Children = append(el.Children, JSXChild{Kind: JSXChildElement, Content: child.Name})
		case ast.KindJSXExpressionContainer:
			if child.Expression.Is(ast.KindIdentifier) {
				el.Children = append(el.Children, JSXChild{Kind: JSXChildExpression, Content: child.Expression.Name})
			}
		case ast.KindJSXFragment:
			el.Children = append(el.Children, JSXChild{Kind: JSXChildFragment, Content: "Fragment"})
		}
	}

	return el
}

// attributeValue returns string literal and identifier values, including
// those wrapped in an expression container.
func attributeValue(v *ast.Node) *string {
	if v.Is(ast.KindJSXExpressionContainer) {
		v = v.Expression
	}
	switch {
	case v.Is(ast.KindStringLiteral):
		s := v.Text
		return &s
	case v.Is(ast.KindIdentifier):
		s := v.Name
		return &s
	}
	return nil
}

// isIntrinsic reports whether a tag names a host element (div, svg:rect)
// rather than a component.
func isIntrinsic(tag string) bool {
	return tag != "" && tag[0] >= 'a' && tag[0] <= 'z'
}
