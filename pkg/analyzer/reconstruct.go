package analyzer

import (
	"strings"

	"github.com/gnana997/uilens/pkg/ast"
)

// Reconstruct statically rebuilds the value of an expression. Anything that
// is not a literal, identifier, array, object or call becomes an empty
// string.
func Reconstruct(n *ast.Node) Value {
	if n == nil {
		return StringValue("")
	}

	switch n.Kind {
	case ast.KindStringLiteral:
		return StringValue(n.Text)
	case ast.KindTemplateLiteral:
		return StringValue(strings.Join(n.Quasis, ""))
	case ast.KindNumericLiteral:
		return NumberValue(n.Text)
	case ast.KindBooleanLiteral:
		return BoolValue(n.Text == "true")
	case ast.KindNullLiteral:
		return NullValue{}
	case ast.KindIdentifier:
		return IdentifierValue(n.Name)

	case ast.KindArrayExpression:
		arr := make(ArrayValue, 0, len(n.Items))
		for _, item := range n.Items {
			if item == nil {
				arr = append(arr, NullValue{})
				continue
			}
			arr = append(arr, Reconstruct(item))
		}
		return arr

	case ast.KindObjectExpression:
		var m MapValue
		for _, item := range n.Items {
			switch item.Kind {
			case ast.KindProperty:
				if item.Computed {
					continue
				}
				if key, ok := ast.KeyName(item.Key); ok {
					m.Set(key, Reconstruct(item.Value))
				}
			case ast.KindSpreadElement:
				if spread, ok := Reconstruct(item.Argument).(MapValue); ok {
					for _, entry := range spread.Entries {
						m.Set(entry.Key, entry.Value)
					}
				}
			}
		}
		return m

	case ast.KindCallExpression:
		args := make([]Value, 0, len(n.Items))
		for _, arg := range n.Items {
			args = append(args, Reconstruct(arg))
		}
		return CallValue{Callee: ast.CalleeName(n.Callee), Arguments: args}
	}

	return StringValue("")
}
