package sgf

import "strings"

var valueEscaper = strings.NewReplacer(`\`, `\\`, `]`, `\]`)

// Serialize renders the tree rooted at root back into SGF text. Parsing the
// output yields a tree with identical shape and property contents; ']' and
// '\' inside values are escaped.
func Serialize[P any](root *Node[P]) string {
	var b strings.Builder
	writeTree(&b, root)
	return b.String()
}

func writeTree[P any](b *strings.Builder, node *Node[P]) {
	b.WriteByte('(')
	// Single-child chains stay in one sequence; branching opens subtrees.
	current := node
	for {
		writeNode(b, current)
		if current.numChildren != 1 {
			break
		}
		current = current.child
	}
	for child := current.child; child != nil; child = child.nextSibling {
		writeTree(b, child)
	}
	b.WriteByte(')')
}

func writeNode[P any](b *strings.Builder, node *Node[P]) {
	b.WriteByte(';')
	for _, prop := range node.props {
		b.WriteString(prop.key)
		for _, value := range prop.values {
			b.WriteByte('[')
			b.WriteString(valueEscaper.Replace(value))
			b.WriteByte(']')
		}
	}
}
