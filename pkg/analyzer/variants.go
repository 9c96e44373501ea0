package analyzer

import (
	"strings"

	"github.com/gnana997/uilens/pkg/ast"
)

const variantFactory = "cva"

// VariantConfigAnalyzer reconstructs class-variance-authority configs:
//
//	const buttonVariants = cva("base classes", { variants, defaultVariants, compoundVariants })
//
// Only calls assigned directly to a variable are recorded.
type VariantConfigAnalyzer struct{}

func (*VariantConfigAnalyzer) Name() string { return "variant-config-analyzer" }

func (*VariantConfigAnalyzer) Reset(result *ComponentResult) {
	result.VariantConfigs = []VariantConfig{}
}

func (*VariantConfigAnalyzer) Analyze(root *ast.Node, result *ComponentResult) {
	configs := []VariantConfig{}
	ast.Inspect(root, ast.KindVariableDeclarator, func(n *ast.Node) {
		if !n.ID.Is(ast.KindIdentifier) || !n.Init.Is(ast.KindCallExpression) {
			return
		}
		if !n.Init.Callee.IsIdentifier(variantFactory) {
			return
		}
		configs = append(configs, VariantConfig{
			VariableName: n.ID.Name,
			Value:        variantValue(n.Init.Items),
		})
	})
	result.VariantConfigs = configs
}

func variantValue(args []*ast.Node) VariantValue {
	value := VariantValue{CompoundVariants: ArrayValue{}}

	if len(args) > 0 {
		value.Base = baseClasses(Reconstruct(args[0]))
	}
	if len(args) < 2 {
		return value
	}

	config, ok := Reconstruct(args[1]).(MapValue)
	if !ok {
		return value
	}
	if v, ok := config.Get("variants"); ok {
		if m, ok := v.(MapValue); ok {
			value.Variants = m
		}
	}
	if v, ok := config.Get("defaultVariants"); ok {
		if m, ok := v.(MapValue); ok {
			value.DefaultVariants = m
		}
	}
	if v, ok := config.Get("compoundVariants"); ok {
		if arr, ok := v.(ArrayValue); ok {
			value.CompoundVariants = arr
		}
	}
	return value
}

// baseClasses accepts a class string or an array of class strings.
func baseClasses(v Value) string {
	switch t := v.(type) {
	case StringValue:
		return string(t)
	case ArrayValue:
		var parts []string
		for _, elem := range t {
			if s, ok := elem.(StringValue); ok && s != "" {
				parts = append(parts, string(s))
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}
