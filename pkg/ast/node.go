// Package ast defines the parser-neutral syntax tree the component analyzers
// walk. A provider (see pkg/parser) lowers its concrete tree into these nodes;
// analyzers never see grammar-specific node types.
package ast

// Kind identifies the syntactic category of a Node.
type Kind string

const (
	KindProgram Kind = "Program"

	KindImportDeclaration        Kind = "ImportDeclaration"
	KindImportSpecifier          Kind = "ImportSpecifier"
	KindImportDefaultSpecifier   Kind = "ImportDefaultSpecifier"
	KindImportNamespaceSpecifier Kind = "ImportNamespaceSpecifier"
	KindExportNamedDeclaration   Kind = "ExportNamedDeclaration"
	KindExportDefaultDeclaration Kind = "ExportDefaultDeclaration"
	KindExportAllDeclaration     Kind = "ExportAllDeclaration"
	KindExportSpecifier          Kind = "ExportSpecifier"

	KindFunctionDeclaration Kind = "FunctionDeclaration"
	KindFunctionExpression  Kind = "FunctionExpression"
	KindArrowFunction       Kind = "ArrowFunctionExpression"
	KindClassDeclaration    Kind = "ClassDeclaration"
	KindClassExpression     Kind = "ClassExpression"
	KindVariableDeclaration Kind = "VariableDeclaration"
	KindVariableDeclarator  Kind = "VariableDeclarator"

	KindCallExpression        Kind = "CallExpression"
	KindMemberExpression      Kind = "MemberExpression"
	KindConditionalExpression Kind = "ConditionalExpression"
	KindBinaryExpression      Kind = "BinaryExpression"
	KindTaggedTemplate        Kind = "TaggedTemplateExpression"
	KindThisExpression        Kind = "ThisExpression"
	KindIdentifier            Kind = "Identifier"

	KindStringLiteral   Kind = "StringLiteral"
	KindTemplateLiteral Kind = "TemplateLiteral"
	KindNumericLiteral  Kind = "NumericLiteral"
	KindBooleanLiteral  Kind = "BooleanLiteral"
	KindNullLiteral     Kind = "NullLiteral"

	KindObjectExpression Kind = "ObjectExpression"
	KindArrayExpression  Kind = "ArrayExpression"
	KindProperty         Kind = "Property"
	KindSpreadElement    Kind = "SpreadElement"

	KindObjectPattern     Kind = "ObjectPattern"
	KindArrayPattern      Kind = "ArrayPattern"
	KindAssignmentPattern Kind = "AssignmentPattern"
	KindRestElement       Kind = "RestElement"

	KindJSXElement             Kind = "JSXElement"
	KindJSXFragment            Kind = "JSXFragment"
	KindJSXAttribute           Kind = "JSXAttribute"
	KindJSXSpreadAttribute     Kind = "JSXSpreadAttribute"
	KindJSXText                Kind = "JSXText"
	KindJSXExpressionContainer Kind = "JSXExpressionContainer"

	// KindOther covers every construct the analyzers have no use for. Its
	// children are still lowered so walks reach nested nodes.
	KindOther Kind = "Other"
)

// Location is a source position: 1-based line, 0-based column.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Node is one syntax tree node.
//
// Which slots are populated depends on Kind:
//
//	ImportDeclaration         Text=source, Items=specifiers
//	ImportSpecifier           Name=local binding, Text=imported name
//	ImportDefaultSpecifier    Name=local binding
//	ImportNamespaceSpecifier  Name=local binding
//	ExportNamedDeclaration    Declaration, or Items=ExportSpecifier; Text=source for re-exports
//	ExportSpecifier           Name=exported name, Text=local name
//	ExportDefaultDeclaration  Declaration (declaration or expression)
//	ExportAllDeclaration      Text=source, Name=namespace alias if any
//	Function*/ArrowFunction   Name (may be empty), Items=params, Body
//	Class*                    Name (may be empty), SuperClass, Body
//	VariableDeclaration       Text=let|const|var, Items=declarators
//	VariableDeclarator        ID, Init
//	CallExpression            Callee, Items=arguments
//	MemberExpression          Object, Property, Computed
//	ConditionalExpression     Test, Consequent, Alternate
//	BinaryExpression          Name=operator, Left, Right
//	TaggedTemplate            Tag, Quasi
//	Identifier                Name
//	StringLiteral             Text=cooked value
//	TemplateLiteral           Quasis=static parts, Items=embedded expressions
//	NumericLiteral            Text=normalized number
//	BooleanLiteral            Text=true|false
//	ObjectExpression          Items=Property|SpreadElement
//	ArrayExpression           Items (nil entries are elided elements)
//	Property                  Key, Value, Shorthand
//	SpreadElement/RestElement Argument
//	ObjectPattern             Items=Property|RestElement
//	AssignmentPattern         Left, Right
//	JSXElement                Name=tag, Attributes, Items=children, SelfClosing
//	JSXFragment               Items=children
//	JSXAttribute              Name, Value (nil for bare attributes)
//	JSXSpreadAttribute        Argument
//	JSXText                   Text=raw text
//	JSXExpressionContainer    Expression (nil when empty)
type Node struct {
	Kind Kind
	// Origin is the provider's node type the node was lowered from.
	Origin string

	Name   string
	Text   string
	Quasis []string
	Loc    *Location

	Computed    bool
	Shorthand   bool
	SelfClosing bool

	Declaration *Node
	ID          *Node
	Key         *Node
	Tag         *Node
	Callee      *Node
	Object      *Node
	Property    *Node
	Test        *Node
	Left        *Node
	SuperClass  *Node
	Consequent  *Node
	Right       *Node
	Alternate   *Node
	Init        *Node
	Value       *Node
	Argument    *Node
	Quasi       *Node
	Expression  *Node

	Attributes []*Node
	Items      []*Node

	Body *Node
}

// Position returns the node's location, or the zero location when the
// provider did not record one.
func (n *Node) Position() Location {
	if n == nil || n.Loc == nil {
		return Location{}
	}
	return *n.Loc
}

// Is reports whether n is non-nil and of kind k.
func (n *Node) Is(k Kind) bool {
	return n != nil && n.Kind == k
}

// IsIdentifier reports whether n is an identifier named name.
func (n *Node) IsIdentifier(name string) bool {
	return n.Is(KindIdentifier) && n.Name == name
}

// Children returns the node's direct children in document order. Elided
// array elements are skipped.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}

	out := make([]*Node, 0, 4+len(n.Attributes)+len(n.Items))
	for _, c := range []*Node{
		n.Declaration, n.ID, n.Key, n.Tag, n.Callee, n.Object, n.Property,
		n.Test, n.Left, n.SuperClass, n.Consequent, n.Right, n.Alternate,
		n.Init, n.Value, n.Argument, n.Quasi, n.Expression,
	} {
		if c != nil {
			out = append(out, c)
		}
	}
	for _, c := range n.Attributes {
		if c != nil {
			out = append(out, c)
		}
	}
	for _, c := range n.Items {
		if c != nil {
			out = append(out, c)
		}
	}
	if n.Body != nil {
		out = append(out, n.Body)
	}
	return out
}
