package sgf

// Color identifies which side played a node's move.
type Color int

const (
	ColorNone Color = iota
	ColorBlack
	ColorWhite
)

func (c Color) Opponent() Color {
	switch c {
	case ColorBlack:
		return ColorWhite
	case ColorWhite:
		return ColorBlack
	}
	return ColorNone
}

func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "B"
	case ColorWhite:
		return "W"
	}
	return "?"
}

// property keeps one key and its values in the order they were parsed.
type property struct {
	key    string
	values []string
}

// Node is one node of an SGF game tree. Children of a parent form a
// singly-linked list through nextSibling; each link is owned by the previous
// sibling, the first by the parent. The payload type P carries whatever extra
// per-node data the caller needs (search statistics, nothing, ...).
type Node[P any] struct {
	parent      *Node[P]
	child       *Node[P]
	nextSibling *Node[P]
	numChildren int
	props       []property
	color       Color

	Payload P
}

func (n *Node[P]) Parent() *Node[P] { return n.parent }

// FirstChild returns the head of the child list, or nil.
func (n *Node[P]) FirstChild() *Node[P] { return n.child }

func (n *Node[P]) NextSibling() *Node[P] { return n.nextSibling }

func (n *Node[P]) NumChildren() int { return n.numChildren }

// ChildAt returns the i-th child, or nil if out of range.
func (n *Node[P]) ChildAt(i int) *Node[P] {
	child := n.child
	for child != nil && i > 0 {
		child = child.nextSibling
		i--
	}
	return child
}

// Children collects the child list into a slice.
func (n *Node[P]) Children() []*Node[P] {
	children := make([]*Node[P], 0, n.numChildren)
	for child := n.child; child != nil; child = child.nextSibling {
		children = append(children, child)
	}
	return children
}

// AddChild appends node to the end of the child list, detaching it from any
// previous parent first.
func (n *Node[P]) AddChild(node *Node[P]) {
	node.Detach()
	if n.child == nil {
		n.child = node
	} else {
		last := n.child
		for last.nextSibling != nil {
			last = last.nextSibling
		}
		last.nextSibling = node
	}
	node.parent = n
	n.numChildren++
}

// Detach unlinks the node from its parent and sibling chain and returns it.
// The subtree below the node stays intact.
func (n *Node[P]) Detach() *Node[P] {
	if n.parent == nil {
		return n
	}
	if n.parent.child == n {
		n.parent.child = n.nextSibling
	} else {
		prev := n.parent.child
		for prev.nextSibling != n {
			prev = prev.nextSibling
		}
		prev.nextSibling = n.nextSibling
	}
	n.parent.numChildren--
	n.parent = nil
	n.nextSibling = nil
	return n
}

// AddProperty appends values under key, extending the value list if the key
// is already present. The move color is cached on first sight of a B or W key
// so later lookups avoid string probing.
func (n *Node[P]) AddProperty(key string, values []string) {
	if n.color == ColorNone {
		switch key {
		case "B":
			n.color = ColorBlack
		case "W":
			n.color = ColorWhite
		}
	}
	for i := range n.props {
		if n.props[i].key == key {
			n.props[i].values = append(n.props[i].values, values...)
			return
		}
	}
	n.props = append(n.props, property{key: key, values: values})
}

// Values returns the values stored under key.
func (n *Node[P]) Values(key string) ([]string, bool) {
	for i := range n.props {
		if n.props[i].key == key {
			return n.props[i].values, true
		}
	}
	return nil, false
}

func (n *Node[P]) Has(key string) bool {
	_, ok := n.Values(key)
	return ok
}

// Keys returns the property keys in parse order.
func (n *Node[P]) Keys() []string {
	keys := make([]string, len(n.props))
	for i := range n.props {
		keys[i] = n.props[i].key
	}
	return keys
}

// Color is the color that played this node's move, or ColorNone for a node
// without a B/W property (typically the root).
func (n *Node[P]) Color() Color { return n.color }
