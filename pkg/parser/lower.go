package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uilens/pkg/ast"
)

// typeOnlyKinds are TypeScript constructs that carry no runtime value. They
// are lowered as childless Other nodes.
var typeOnlyKinds = map[string]bool{
	"type_annotation":          true,
	"type_arguments":           true,
	"type_parameters":          true,
	"type_alias_declaration":   true,
	"interface_declaration":    true,
	"ambient_declaration":      true,
	"predefined_type":          true,
	"type_identifier":          true,
	"omitting_type_annotation": true,
	"opting_type_annotation":   true,
	"asserts_annotation":       true,
}

// Lower converts a tree-sitter concrete syntax tree into the parser-neutral
// ast form. The result holds copies of all text it needs, so the tree-sitter
// tree may be closed afterwards.
func Lower(root *ts.Node, source []byte) *ast.Node {
	l := &lowerer{source: source}
	return l.lower(root)
}

type lowerer struct {
	source []byte
}

func (l *lowerer) text(n *ts.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(l.source)
}

func (l *lowerer) node(kind ast.Kind, n *ts.Node) *ast.Node {
	pos := n.StartPosition()
	return &ast.Node{
		Kind:   kind,
		Origin: n.Kind(),
		Loc:    &ast.Location{Line: int(pos.Row) + 1, Column: int(pos.Column)},
	}
}

// namedChildren returns n's named children without comments.
func namedChildren(n *ts.Node) []*ts.Node {
	if n == nil {
		return nil
	}
	out := make([]*ts.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func (l *lowerer) lowerAll(nodes []*ts.Node) []*ast.Node {
	out := make([]*ast.Node, 0, len(nodes))
	for _, n := range nodes {
		if lowered := l.lower(n); lowered != nil {
			out = append(out, lowered)
		}
	}
	return out
}

func (l *lowerer) lower(n *ts.Node) *ast.Node {
	if n == nil || n.IsMissing() {
		return nil
	}

	switch n.Kind() {
	case "comment", "hash_bang_line":
		return nil

	case "program":
		out := l.node(ast.KindProgram, n)
		out.Items = l.lowerAll(namedChildren(n))
		return out

	case "import_statement":
		return l.lowerImport(n)
	case "export_statement":
		return l.lowerExport(n)

	case "function_declaration", "generator_function_declaration":
		return l.lowerFunction(ast.KindFunctionDeclaration, n)
	case "function_expression", "function", "generator_function":
		return l.lowerFunction(ast.KindFunctionExpression, n)
	case "arrow_function":
		return l.lowerFunction(ast.KindArrowFunction, n)
	case "method_definition":
		return l.lowerFunction(ast.KindFunctionExpression, n)

	case "class_declaration", "abstract_class_declaration":
		return l.lowerClass(ast.KindClassDeclaration, n)
	case "class":
		return l.lowerClass(ast.KindClassExpression, n)

	case "lexical_declaration", "variable_declaration":
		out := l.node(ast.KindVariableDeclaration, n)
		out.Text = declarationKeyword(l.text(n))
		for _, child := range namedChildren(n) {
			if child.Kind() == "variable_declarator" {
				out.Items = append(out.Items, l.lowerDeclarator(child))
			}
		}
		return out

	case "call_expression":
		return l.lowerCall(n)

	case "member_expression":
		out := l.node(ast.KindMemberExpression, n)
		out.Object = l.lower(n.ChildByFieldName("object"))
		out.Property = l.lower(n.ChildByFieldName("property"))
		return out
	case "subscript_expression":
		out := l.node(ast.KindMemberExpression, n)
		out.Computed = true
		out.Object = l.lower(n.ChildByFieldName("object"))
		out.Property = l.lower(n.ChildByFieldName("index"))
		return out

	case "ternary_expression":
		out := l.node(ast.KindConditionalExpression, n)
		out.Test = l.lower(n.ChildByFieldName("condition"))
		out.Consequent = l.lower(n.ChildByFieldName("consequence"))
		out.Alternate = l.lower(n.ChildByFieldName("alternative"))
		return out

	case "binary_expression":
		out := l.node(ast.KindBinaryExpression, n)
		out.Name = l.text(n.ChildByFieldName("operator"))
		out.Left = l.lower(n.ChildByFieldName("left"))
		out.Right = l.lower(n.ChildByFieldName("right"))
		return out

	case "parenthesized_expression":
		for _, child := range namedChildren(n) {
			if !typeOnlyKinds[child.Kind()] {
				return l.lower(child)
			}
		}
		return nil

	case "identifier", "property_identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "private_property_identifier",
		"statement_identifier", "undefined", "jsx_identifier", "nested_identifier",
		"jsx_namespace_name":
		out := l.node(ast.KindIdentifier, n)
		out.Name = l.text(n)
		return out

	case "this":
		return l.node(ast.KindThisExpression, n)

	case "string":
		out := l.node(ast.KindStringLiteral, n)
		out.Text = l.stringValue(n)
		return out
	case "template_string":
		return l.lowerTemplate(n)
	case "number":
		out := l.node(ast.KindNumericLiteral, n)
		out.Text = normalizeNumber(l.text(n))
		return out
	case "true", "false":
		out := l.node(ast.KindBooleanLiteral, n)
		out.Text = n.Kind()
		return out
	case "null":
		return l.node(ast.KindNullLiteral, n)

	case "object":
		return l.lowerObject(n)
	case "array":
		return l.lowerArray(n, ast.KindArrayExpression)
	case "array_pattern":
		return l.lowerArray(n, ast.KindArrayPattern)
	case "spread_element":
		out := l.node(ast.KindSpreadElement, n)
		out.Argument = l.lower(firstNamed(n))
		return out

	case "object_pattern":
		return l.lowerObjectPattern(n)
	case "rest_pattern":
		out := l.node(ast.KindRestElement, n)
		out.Argument = l.lower(firstNamed(n))
		return out
	case "assignment_pattern":
		out := l.node(ast.KindAssignmentPattern, n)
		out.Left = l.lower(n.ChildByFieldName("left"))
		out.Right = l.lower(n.ChildByFieldName("right"))
		return out
	case "required_parameter", "optional_parameter":
		return l.lowerParameter(n)

	case "jsx_element":
		return l.lowerJSXElement(n)
	case "jsx_self_closing_element":
		out := l.node(ast.KindJSXElement, n)
		out.SelfClosing = true
		out.Name = l.text(n.ChildByFieldName("name"))
		out.Attributes = l.lowerJSXAttributes(n)
		return out
	case "jsx_fragment":
		out := l.node(ast.KindJSXFragment, n)
		out.Items = l.lowerJSXChildren(n)
		return out
	case "jsx_attribute":
		return l.lowerJSXAttribute(n)
	case "jsx_expression":
		out := l.node(ast.KindJSXExpressionContainer, n)
		out.Expression = l.lower(firstNamed(n))
		return out
	case "jsx_text", "html_character_reference":
		out := l.node(ast.KindJSXText, n)
		out.Text = l.text(n)
		return out
	}

	if typeOnlyKinds[n.Kind()] {
		return l.node(ast.KindOther, n)
	}

	out := l.node(ast.KindOther, n)
	out.Items = l.lowerAll(namedChildren(n))
	return out
}

func firstNamed(n *ts.Node) *ts.Node {
	children := namedChildren(n)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

func declarationKeyword(src string) string {
	for _, kw := range []string{"const", "let", "var"} {
		if strings.HasPrefix(src, kw) {
			return kw
		}
	}
	return ""
}

func (l *lowerer) lowerImport(n *ts.Node) *ast.Node {
	out := l.node(ast.KindImportDeclaration, n)
	out.Text = l.stringValue(n.ChildByFieldName("source"))

	for _, child := range namedChildren(n) {
		if child.Kind() != "import_clause" {
			continue
		}
		for _, part := range namedChildren(child) {
			switch part.Kind() {
			case "identifier":
				spec := l.node(ast.KindImportDefaultSpecifier, part)
				spec.Name = l.text(part)
				out.Items = append(out.Items, spec)
			case "namespace_import":
				spec := l.node(ast.KindImportNamespaceSpecifier, part)
				spec.Name = l.text(firstNamed(part))
				out.Items = append(out.Items, spec)
			case "named_imports":
				for _, named := range namedChildren(part) {
					if named.Kind() != "import_specifier" {
						continue
					}
					spec := l.node(ast.KindImportSpecifier, named)
					spec.Text = l.moduleName(named.ChildByFieldName("name"))
					spec.Name = spec.Text
					if alias := named.ChildByFieldName("alias"); alias != nil {
						spec.Name = l.text(alias)
					}
					out.Items = append(out.Items, spec)
				}
			}
		}
	}
	return out
}

// moduleName reads an import/export name, which may be an identifier or a
// string literal ("default as x", "'a-b' as c").
func (l *lowerer) moduleName(n *ts.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind() == "string" {
		return l.stringValue(n)
	}
	return l.text(n)
}

func (l *lowerer) lowerExport(n *ts.Node) *ast.Node {
	isDefault := false
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil && !child.IsNamed() && child.Kind() == "default" {
			isDefault = true
			break
		}
	}

	if isDefault {
		out := l.node(ast.KindExportDefaultDeclaration, n)
		decl := n.ChildByFieldName("declaration")
		if decl == nil {
			decl = n.ChildByFieldName("value")
		}
		out.Declaration = l.lower(decl)
		return out
	}

	source := n.ChildByFieldName("source")

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		out := l.node(ast.KindExportNamedDeclaration, n)
		out.Declaration = l.lower(decl)
		return out
	}

	for _, child := range namedChildren(n) {
		if child.Kind() != "export_clause" {
			continue
		}
		out := l.node(ast.KindExportNamedDeclaration, n)
		out.Text = l.stringValue(source)
		for _, spec := range namedChildren(child) {
			if spec.Kind() != "export_specifier" {
				continue
			}
			s := l.node(ast.KindExportSpecifier, spec)
			s.Text = l.moduleName(spec.ChildByFieldName("name"))
			s.Name = s.Text
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				s.Name = l.moduleName(alias)
			}
			out.Items = append(out.Items, s)
		}
		return out
	}

	if source != nil {
		out := l.node(ast.KindExportAllDeclaration, n)
		out.Text = l.stringValue(source)
		for _, child := range namedChildren(n) {
			if child.Kind() == "namespace_export" {
				out.Name = l.moduleName(firstNamed(child))
			}
		}
		return out
	}

	// export = x, export as namespace X and similar TypeScript forms.
	out := l.node(ast.KindOther, n)
	out.Items = l.lowerAll(namedChildren(n))
	return out
}

func (l *lowerer) lowerFunction(kind ast.Kind, n *ts.Node) *ast.Node {
	out := l.node(kind, n)
	if name := n.ChildByFieldName("name"); name != nil {
		out.Name = l.text(name)
	}

	if param := n.ChildByFieldName("parameter"); param != nil {
		out.Items = append(out.Items, l.lower(param))
	} else if params := n.ChildByFieldName("parameters"); params != nil {
		out.Items = l.lowerAll(namedChildren(params))
	}

	out.Body = l.lower(n.ChildByFieldName("body"))
	return out
}

func (l *lowerer) lowerParameter(n *ts.Node) *ast.Node {
	pattern := l.lower(n.ChildByFieldName("pattern"))
	value := n.ChildByFieldName("value")
	if value == nil {
		return pattern
	}
	out := l.node(ast.KindAssignmentPattern, n)
	out.Left = pattern
	out.Right = l.lower(value)
	return out
}

func (l *lowerer) lowerClass(kind ast.Kind, n *ts.Node) *ast.Node {
	out := l.node(kind, n)
	if name := n.ChildByFieldName("name"); name != nil {
		out.Name = l.text(name)
	}
	for _, child := range namedChildren(n) {
		if child.Kind() != "class_heritage" {
			continue
		}
		heritage := firstNamed(child)
		if heritage != nil && heritage.Kind() == "extends_clause" {
			heritage = heritage.ChildByFieldName("value")
		}
		if heritage != nil && heritage.Kind() != "implements_clause" {
			out.SuperClass = l.lower(heritage)
		}
	}
	out.Body = l.lower(n.ChildByFieldName("body"))
	return out
}

func (l *lowerer) lowerDeclarator(n *ts.Node) *ast.Node {
	out := l.node(ast.KindVariableDeclarator, n)
	out.ID = l.lower(n.ChildByFieldName("name"))
	out.Init = l.lower(n.ChildByFieldName("value"))
	return out
}

func (l *lowerer) lowerCall(n *ts.Node) *ast.Node {
	callee := l.lower(n.ChildByFieldName("function"))
	args := n.ChildByFieldName("arguments")

	if args != nil && args.Kind() == "template_string" {
		out := l.node(ast.KindTaggedTemplate, n)
		out.Tag = callee
		out.Quasi = l.lowerTemplate(args)
		return out
	}

	out := l.node(ast.KindCallExpression, n)
	out.Callee = callee
	out.Items = l.lowerAll(namedChildren(args))
	return out
}

// stringValue returns the cooked contents of a string literal.
func (l *lowerer) stringValue(n *ts.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range namedChildren(n) {
		raw := l.text(part)
		if part.Kind() == "escape_sequence" {
			b.WriteString(unescape(raw))
		} else {
			b.WriteString(raw)
		}
	}
	return b.String()
}

func unescape(seq string) string {
	if len(seq) < 2 {
		return seq
	}
	switch {
	case strings.HasPrefix(seq, `\u{`) && strings.HasSuffix(seq, "}"):
		if r, err := strconv.ParseUint(seq[3:len(seq)-1], 16, 32); err == nil && r <= unicode.MaxRune {
			return string(rune(r))
		}
	case strings.Trim(seq[1:], "\r\n\u2028\u2029") == "":
		// Line continuation.
		return ""
	case seq == `\0`:
		return "\x00"
	}
	if s, err := strconv.Unquote(`"` + seq + `"`); err == nil {
		return s
	}
	return strings.TrimPrefix(seq, `\`)
}

func (l *lowerer) lowerTemplate(n *ts.Node) *ast.Node {
	out := l.node(ast.KindTemplateLiteral, n)

	// Static parts are the byte ranges between substitutions, minus the
	// surrounding backticks.
	start := n.StartByte() + 1
	end := n.EndByte() - 1
	cursor := start
	for _, child := range namedChildren(n) {
		if child.Kind() != "template_substitution" {
			continue
		}
		out.Quasis = append(out.Quasis, string(l.source[cursor:child.StartByte()]))
		out.Items = append(out.Items, l.lower(firstNamed(child)))
		cursor = child.EndByte()
	}
	if cursor <= end {
		out.Quasis = append(out.Quasis, string(l.source[cursor:end]))
	} else {
		out.Quasis = append(out.Quasis, "")
	}
	return out
}

func normalizeNumber(raw string) string {
	clean := strings.ReplaceAll(raw, "_", "")
	if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := strconv.ParseFloat(clean, 64); err == nil {
		return formatNumber(f)
	}
	return raw
}

// formatNumber renders f the way Number.prototype.toString does: plain
// decimal notation, switching to exponent form below 1e-6 and from 1e21.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

func (l *lowerer) lowerObject(n *ts.Node) *ast.Node {
	out := l.node(ast.KindObjectExpression, n)
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "pair":
			prop := l.node(ast.KindProperty, child)
			key := child.ChildByFieldName("key")
			prop.Key = l.lowerKey(key)
			prop.Computed = key != nil && key.Kind() == "computed_property_name"
			prop.Value = l.lower(child.ChildByFieldName("value"))
			out.Items = append(out.Items, prop)
		case "shorthand_property_identifier":
			prop := l.node(ast.KindProperty, child)
			prop.Shorthand = true
			prop.Key = l.lower(child)
			prop.Value = l.lower(child)
			out.Items = append(out.Items, prop)
		case "method_definition":
			prop := l.node(ast.KindProperty, child)
			prop.Key = l.lowerKey(child.ChildByFieldName("name"))
			prop.Value = l.lower(child)
			out.Items = append(out.Items, prop)
		default:
			if lowered := l.lower(child); lowered != nil {
				out.Items = append(out.Items, lowered)
			}
		}
	}
	return out
}

func (l *lowerer) lowerKey(n *ts.Node) *ast.Node {
	if n != nil && n.Kind() == "computed_property_name" {
		return l.lower(firstNamed(n))
	}
	return l.lower(n)
}

// lowerArray keeps elided elements as nil entries. The grammar drops them,
// so holes are recovered from consecutive commas.
func (l *lowerer) lowerArray(n *ts.Node, kind ast.Kind) *ast.Node {
	out := l.node(kind, n)
	pendingElement := false
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch {
		case !child.IsNamed() && child.Kind() == ",":
			if !pendingElement {
				out.Items = append(out.Items, nil)
			}
			pendingElement = false
		case child.IsNamed() && child.Kind() != "comment":
			out.Items = append(out.Items, l.lower(child))
			pendingElement = true
		}
	}
	return out
}

func (l *lowerer) lowerObjectPattern(n *ts.Node) *ast.Node {
	out := l.node(ast.KindObjectPattern, n)
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "shorthand_property_identifier_pattern":
			prop := l.node(ast.KindProperty, child)
			prop.Shorthand = true
			prop.Key = l.lower(child)
			prop.Value = l.lower(child)
			out.Items = append(out.Items, prop)
		case "object_assignment_pattern":
			prop := l.node(ast.KindProperty, child)
			prop.Shorthand = true
			left := l.lower(child.ChildByFieldName("left"))
			prop.Key = left
			assign := l.node(ast.KindAssignmentPattern, child)
			assign.Left = left
			assign.Right = l.lower(child.ChildByFieldName("right"))
			prop.Value = assign
			out.Items = append(out.Items, prop)
		case "pair_pattern":
			prop := l.node(ast.KindProperty, child)
			prop.Key = l.lowerKey(child.ChildByFieldName("key"))
			prop.Value = l.lower(child.ChildByFieldName("value"))
			out.Items = append(out.Items, prop)
		default:
			if lowered := l.lower(child); lowered != nil {
				out.Items = append(out.Items, lowered)
			}
		}
	}
	return out
}

func (l *lowerer) lowerJSXElement(n *ts.Node) *ast.Node {
	open := n.ChildByFieldName("open_tag")
	if open == nil {
		open = firstNamed(n)
	}

	var name *ts.Node
	if open != nil && open.Kind() == "jsx_opening_element" {
		name = open.ChildByFieldName("name")
	}
	if name == nil {
		out := l.node(ast.KindJSXFragment, n)
		out.Items = l.lowerJSXChildren(n)
		return out
	}

	out := l.node(ast.KindJSXElement, n)
	out.Name = l.text(name)
	out.Attributes = l.lowerJSXAttributes(open)
	out.Items = l.lowerJSXChildren(n)
	return out
}

func (l *lowerer) lowerJSXAttributes(tag *ts.Node) []*ast.Node {
	var attrs []*ast.Node
	for _, child := range namedChildren(tag) {
		switch child.Kind() {
		case "jsx_attribute":
			attrs = append(attrs, l.lowerJSXAttribute(child))
		case "jsx_expression":
			inner := firstNamed(child)
			if inner == nil || inner.Kind() != "spread_element" {
				continue
			}
			spread := l.node(ast.KindJSXSpreadAttribute, child)
			spread.Argument = l.lower(firstNamed(inner))
			attrs = append(attrs, spread)
		}
	}
	return attrs
}

func (l *lowerer) lowerJSXAttribute(n *ts.Node) *ast.Node {
	out := l.node(ast.KindJSXAttribute, n)
	children := namedChildren(n)
	if len(children) == 0 {
		return out
	}
	out.Name = l.text(children[0])
	if len(children) > 1 {
		value := children[1]
		if value.Kind() == "string" {
			str := l.node(ast.KindStringLiteral, value)
			str.Text = jsxStringValue(l.text(value))
			out.Value = str
		} else {
			out.Value = l.lower(value)
		}
	}
	return out
}

// jsxStringValue strips the quotes of a JSX attribute string. JSX strings
// have no escape sequences.
func jsxStringValue(raw string) string {
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// lowerJSXChildren lowers the children of an element or fragment. The
// grammar splits a text run at every character reference; adjacent pieces
// are joined back into one JSXText node with the references left raw.
func (l *lowerer) lowerJSXChildren(n *ts.Node) []*ast.Node {
	var children []*ast.Node
	var text *ast.Node
	var textStart uint
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "jsx_opening_element", "jsx_closing_element":
			continue
		case "jsx_text", "html_character_reference":
			if text == nil {
				text = l.node(ast.KindJSXText, child)
				textStart = child.StartByte()
				children = append(children, text)
			}
			text.Text = string(l.source[textStart:child.EndByte()])
			continue
		}
		text = nil
		if lowered := l.lower(child); lowered != nil {
			children = append(children, lowered)
		}
	}
	return children
}
