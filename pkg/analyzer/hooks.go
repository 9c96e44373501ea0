package analyzer

import (
	"strings"

	"github.com/gnana997/uilens/pkg/ast"
)

const (
	hookPrefix = "use"

	// FunctionPlaceholder stands in for function-valued hook arguments.
	FunctionPlaceholder = "() => {...}"
	// ElidedPlaceholder stands in for arguments that are not rendered.
	ElidedPlaceholder = "..."
)

// HookCollector records every call whose callee starts with "use", along
// with a short rendering of its arguments.
type HookCollector struct{}

func (*HookCollector) Name() string { return "hook-collector" }

func (*HookCollector) Reset(result *ComponentResult) {
	result.Hooks = []Hook{}
}

func (*HookCollector) Analyze(root *ast.Node, result *ComponentResult) {
	hooks := []Hook{}
	ast.Inspect(root, ast.KindCallExpression, func(n *ast.Node) {
		name, ok := hookName(n.Callee)
		if !ok {
			return
		}
		args := make([]string, 0, len(n.Items))
		for _, arg := range n.Items {
			args = append(args, hookArgument(arg))
		}
		hooks = append(hooks, Hook{Name: name, Arguments: args})
	})
	result.Hooks = hooks
}

// hookName accepts useX() and React.useX().
func hookName(callee *ast.Node) (string, bool) {
	switch {
	case callee.Is(ast.KindIdentifier) && strings.HasPrefix(callee.Name, hookPrefix):
		return callee.Name, true
	case callee.Is(ast.KindMemberExpression) && !callee.Computed &&
		callee.Object.IsIdentifier("React") &&
		callee.Property.Is(ast.KindIdentifier) &&
		strings.HasPrefix(callee.Property.Name, hookPrefix):
		return callee.Property.Name, true
	}
	return "", false
}

func hookArgument(arg *ast.Node) string {
	switch arg.Kind {
	case ast.KindIdentifier:
		return arg.Name
	case ast.KindStringLiteral, ast.KindNumericLiteral:
		return arg.Text
	case ast.KindArrayExpression:
		parts := make([]string, 0, len(arg.Items))
		for _, item := range arg.Items {
			if item == nil {
				parts = append(parts, ElidedPlaceholder)
				continue
			}
			parts = append(parts, hookArgument(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ast.KindArrowFunction, ast.KindFunctionExpression:
		return FunctionPlaceholder
	}
	return ElidedPlaceholder
}
