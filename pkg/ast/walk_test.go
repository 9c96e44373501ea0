package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ident(name string) *Node {
	return &Node{Kind: KindIdentifier, Name: name}
}

func TestWalkDocumentOrder(t *testing.T) {
	// cn(a, b ? c : d)
	call := &Node{
		Kind:   KindCallExpression,
		Callee: ident("cn"),
		Items: []*Node{
			ident("a"),
			{Kind: KindConditionalExpression, Test: ident("b"), Consequent: ident("c"), Alternate: ident("d")},
		},
	}

	var names []string
	Walk(call, func(n *Node) bool {
		if n.Kind == KindIdentifier {
			names = append(names, n.Name)
		}
		return true
	})

	assert.Equal(t, []string{"cn", "a", "b", "c", "d"}, names)
}

func TestWalkPrunesChildren(t *testing.T) {
	fn := &Node{Kind: KindArrowFunction, Items: []*Node{ident("props")}, Body: ident("x")}
	root := &Node{Kind: KindProgram, Items: []*Node{fn, ident("y")}}

	var seen []string
	Walk(root, func(n *Node) bool {
		if n.Kind == KindIdentifier {
			seen = append(seen, n.Name)
		}
		return n.Kind != KindArrowFunction
	})

	assert.Equal(t, []string{"y"}, seen)
}

func TestChildrenSkipsElidedElements(t *testing.T) {
	arr := &Node{Kind: KindArrayExpression, Items: []*Node{ident("a"), nil, ident("b")}}
	assert.Len(t, arr.Children(), 2)

	count := 0
	Inspect(arr, KindIdentifier, func(*Node) { count++ })
	assert.Equal(t, 2, count)
}

func TestPositionDefaultsToZero(t *testing.T) {
	assert.Equal(t, Location{}, (&Node{}).Position())
	assert.Equal(t, Location{Line: 3, Column: 4}, (&Node{Loc: &Location{Line: 3, Column: 4}}).Position())

	var n *Node
	assert.Equal(t, Location{}, n.Position())
}

func TestCalleeName(t *testing.T) {
	member := &Node{Kind: KindMemberExpression, Object: ident("React"), Property: ident("forwardRef")}
	assert.Equal(t, "React.forwardRef", CalleeName(member))
	assert.Equal(t, "cva", CalleeName(ident("cva")))

	computed := &Node{Kind: KindMemberExpression, Object: ident("a"), Property: ident("b"), Computed: true}
	assert.Equal(t, "", CalleeName(computed))
	assert.Equal(t, "", CalleeName(&Node{Kind: KindCallExpression}))
}

func TestKeyName(t *testing.T) {
	name, ok := KeyName(ident("variants"))
	assert.True(t, ok)
	assert.Equal(t, "variants", name)

	name, ok = KeyName(&Node{Kind: KindStringLiteral, Text: "aria-label"})
	assert.True(t, ok)
	assert.Equal(t, "aria-label", name)

	_, ok = KeyName(&Node{Kind: KindNumericLiteral, Text: "1"})
	assert.False(t, ok)
}
