package analyzer

import (
	"encoding/json"
	"fmt"

	"github.com/gnana997/uilens/pkg/ast"
)

// classNameUtilities are the canonical names of class-name composition
// helpers.
var classNameUtilities = map[string]bool{
	"cn":         true,
	"clsx":       true,
	"classnames": true,
	"cx":         true,
}

// ClassNameUsageAnalyzer records calls to cn, clsx, classnames and cx with
// their arguments classified by shape.
type ClassNameUsageAnalyzer struct{}

func (*ClassNameUsageAnalyzer) Name() string { return "classname-usage-analyzer" }

func (*ClassNameUsageAnalyzer) Reset(result *ComponentResult) {
	result.ClassNameUsage = ClassNameUsage{Usages: []ClassNameCall{}}
	result.ClassNameLegacy = LegacyClassNameUsage{Usages: []LegacyClassNameCall{}}
}

// binding is a local name bound to a class-name utility by an import.
type binding struct {
	imported string
	source   string
}

func (c *ClassNameUsageAnalyzer) Analyze(root *ast.Node, result *ComponentResult) {
	usage := ClassNameUsage{Usages: []ClassNameCall{}}
	bindings := make(map[string]binding)

	ast.Inspect(root, ast.KindImportDeclaration, func(imp *ast.Node) {
		for _, spec := range imp.Items {
			var imported string
			switch spec.Kind {
			case ast.KindImportSpecifier:
				imported = spec.Text
			case ast.KindImportDefaultSpecifier:
				imported = "default"
			default:
				continue
			}
			if !classNameUtilities[spec.Name] {
				continue
			}
			bindings[spec.Name] = binding{imported: imported, source: imp.Text}
			usage.HasUtility = true
			usage.ImportSource = imp.Text
		}
	})

	ast.Inspect(root, ast.KindCallExpression, func(call *ast.Node) {
		if !call.Callee.Is(ast.KindIdentifier) {
			return
		}
		callee := call.Callee.Name
		b, bound := bindings[callee]
		if !bound && !classNameUtilities[callee] {
			return
		}

		args := make([]TypedArg, 0, len(call.Items))
		for _, arg := range call.Items {
			args = append(args, typedArg(arg))
		}
		pos := call.Position()
		usage.Usages = append(usage.Usages, ClassNameCall{
			Kind:      classNameKind(callee, b, bound),
			Arguments: args,
			Line:      pos.Line,
			Column:    pos.Column,
		})
	})

	result.ClassNameUsage = usage
	result.ClassNameLegacy = legacyView(usage)
}

// classNameKind maps a callee to its utility. A binding whose import name
// differs from its local name (import { clsx as cn }) counts as cn.
func classNameKind(callee string, b binding, bound bool) ClassNameKind {
	switch {
	case callee == "cn":
		return ClassNameCn
	case bound && b.imported != "default" && b.imported != callee:
		return ClassNameCn
	case callee == "clsx":
		return ClassNameClsx
	}
	return ClassNameClassnames
}

func typedArg(arg *ast.Node) TypedArg {
	switch arg.Kind {
	case ast.KindStringLiteral:
		return TypedArg{Kind: ArgString, Value: StringValue(arg.Text)}
	case ast.KindTemplateLiteral:
		return TypedArg{Kind: ArgString, Value: Reconstruct(arg)}

	case ast.KindObjectExpression:
		var m MapValue
		for _, item := range arg.Items {
			if !item.Is(ast.KindProperty) || item.Computed {
				continue
			}
			key, ok := ast.KeyName(item.Key)
			if !ok {
				continue
			}
			switch {
			case item.Value.Is(ast.KindBooleanLiteral):
				m.Set(key, BoolValue(item.Value.Text == "true"))
			case item.Value.Is(ast.KindStringLiteral):
				m.Set(key, StringValue(item.Value.Text))
			default:
				m.Set(key, BoolValue(true))
			}
		}
		return TypedArg{Kind: ArgObject, Value: m}

	case ast.KindArrayExpression:
		arr := ArrayValue{}
		for _, item := range arg.Items {
			switch {
			case item.Is(ast.KindStringLiteral):
				arr = append(arr, StringValue(item.Text))
			case item.Is(ast.KindIdentifier):
				arr = append(arr, StringValue(item.Name))
			}
		}
		return TypedArg{Kind: ArgArray, Value: arr}

	case ast.KindIdentifier:
		return TypedArg{Kind: ArgIdentifier, Value: StringValue(arg.Name)}

	case ast.KindConditionalExpression:
		return TypedArg{Kind: ArgConditional, Value: ConditionalValue{
			Condition:  conditionText(arg.Test),
			TrueValue:  branchText(arg.Consequent),
			FalseValue: branchText(arg.Alternate),
		}}
	}
	return TypedArg{Kind: ArgUnknown, Value: StringValue("")}
}

func conditionText(test *ast.Node) string {
	if test.Is(ast.KindBinaryExpression) {
		return fmt.Sprintf("%s %s %s", operandText(test.Left), test.Name, operandText(test.Right))
	}
	return operandText(test)
}

func operandText(n *ast.Node) string {
	switch {
	case n.Is(ast.KindIdentifier), n.Is(ast.KindMemberExpression):
		return ast.CalleeName(n)
	}
	if text, ok := literalText(n); ok {
		return text
	}
	return ""
}

func branchText(n *ast.Node) string {
	text, _ := literalText(n)
	return text
}

// legacyView flattens typed usages into plain strings.
func legacyView(usage ClassNameUsage) LegacyClassNameUsage {
	legacy := LegacyClassNameUsage{
		ImportSource: usage.ImportSource,
		Usages:       make([]LegacyClassNameCall, 0, len(usage.Usages)),
	}
	if len(usage.Usages) > 0 {
		legacy.ImportName = string(usage.Usages[0].Kind)
	}

	for _, call := range usage.Usages {
		args := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			args = append(args, flattenArg(arg))
		}
		legacy.Usages = append(legacy.Usages, LegacyClassNameCall{
			Line:      call.Line,
			Column:    call.Column,
			Arguments: args,
		})
	}
	return legacy
}

func flattenArg(arg TypedArg) string {
	switch v := arg.Value.(type) {
	case StringValue:
		return string(v)
	case IdentifierValue:
		return string(v)
	case ConditionalValue:
		return fmt.Sprintf("%s ? %q : %q", v.Condition, v.TrueValue, v.FalseValue)
	case nil:
		return ""
	}
	data, err := json.Marshal(arg.Value)
	if err != nil {
		return ""
	}
	return string(data)
}
