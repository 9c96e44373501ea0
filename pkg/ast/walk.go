package ast

// Walk visits root and its descendants depth-first in document order. When
// fn returns false the node's children are skipped.
func Walk(root *Node, fn func(n *Node) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, child := range root.Children() {
		Walk(child, fn)
	}
}

// Inspect calls fn for every node of kind k under root, including root.
func Inspect(root *Node, k Kind, fn func(n *Node)) {
	Walk(root, func(n *Node) bool {
		if n.Kind == k {
			fn(n)
		}
		return true
	})
}

// KeyName returns the static name of a property key: an identifier's name or
// a string literal's value. Computed and numeric keys yield "", false.
func KeyName(key *Node) (string, bool) {
	switch {
	case key.Is(KindIdentifier):
		return key.Name, true
	case key.Is(KindStringLiteral):
		return key.Text, true
	}
	return "", false
}

// CalleeName renders a callee as a dotted name ("cva", "React.forwardRef").
// It returns "" for anything that is not an identifier or a non-computed
// member chain of identifiers.
func CalleeName(n *Node) string {
	switch {
	case n.Is(KindIdentifier):
		return n.Name
	case n.Is(KindThisExpression):
		return "this"
	case n.Is(KindMemberExpression) && !n.Computed:
		obj := CalleeName(n.Object)
		if obj == "" || !n.Property.Is(KindIdentifier) {
			return ""
		}
		return obj + "." + n.Property.Name
	}
	return ""
}
