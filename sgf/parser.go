package sgf

// Allocator hands out fresh nodes for the parser, letting callers substitute
// richer payload types or pooled storage without parser changes.
type Allocator[P any] interface {
	Allocate() *Node[P]
}

// AllocatorFunc adapts a plain function to the Allocator interface.
type AllocatorFunc[P any] func() *Node[P]

func (f AllocatorFunc[P]) Allocate() *Node[P] { return f() }

// Parser consumes a token stream and builds a node tree. It tracks at every
// point which token categories are legal next and fails on the first token
// that is not, without recovery.
type Parser[P any] struct {
	alloc Allocator[P]
}

// NewParser returns a parser using alloc for node allocation. A nil alloc
// falls back to plain allocation.
func NewParser[P any](alloc Allocator[P]) *Parser[P] {
	if alloc == nil {
		alloc = AllocatorFunc[P](func() *Node[P] { return &Node[P]{} })
	}
	return &Parser[P]{alloc: alloc}
}

// Parse parses a full SGF record and returns the root node of the single
// top-level tree.
func (p *Parser[P]) Parse(src string) (*Node[P], error) {
	return p.ParseAt(src, 0, nil)
}

// ParseAt parses starting at byte offset start, reporting lexing progress to
// the optional progress callback.
func (p *Parser[P]) ParseAt(src string, start int, progress func(done, total int)) (*Node[P], error) {
	lexer := NewLexer(src, start)
	if progress != nil {
		lexer.SetProgress(progress)
	}

	// A synthetic root accepts the single top-level tree; it is discarded at
	// the end.
	dummy := &Node[P]{}
	current := dummy

	type frame struct {
		node *Node[P]
		open Token
	}
	var stack []frame

	// Values accumulate under the most recently seen key until the next key
	// or node boundary.
	var pendingKey string
	var pendingValues []string
	flush := func() {
		if pendingValues != nil {
			current.AddProperty(pendingKey, pendingValues)
			pendingValues = nil
		}
	}

	canOpen, canClose, canNode, canKey, canValue := true, false, false, false, false

	for {
		token, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		if token.Type == TokenEnd {
			break
		}

		switch token.Type {
		case TokenOpenGroup:
			if !canOpen {
				return nil, &SyntaxError{Msg: "unexpected '('", Start: token.Start, End: token.End}
			}
			stack = append(stack, frame{node: current, open: token})
			canOpen, canClose, canNode, canKey, canValue = false, false, true, false, false

		case TokenCloseGroup:
			if !canClose {
				return nil, &SyntaxError{Msg: "unexpected ')'", Start: token.Start, End: token.End}
			}
			if len(stack) == 0 {
				return nil, &SyntaxError{Msg: "unmatched ')'", Start: token.Start, End: token.End}
			}
			flush()
			current = stack[len(stack)-1].node
			stack = stack[:len(stack)-1]
			canOpen, canClose, canNode, canKey, canValue = true, true, false, false, false

		case TokenNodeStart:
			if !canNode {
				return nil, &SyntaxError{Msg: "unexpected ';'", Start: token.Start, End: token.End}
			}
			flush()
			if current == dummy && dummy.numChildren == 1 {
				return nil, &SyntaxError{Msg: "more than one top-level tree", Start: token.Start, End: token.End}
			}
			node := p.alloc.Allocate()
			current.AddChild(node)
			current = node
			canOpen, canClose, canNode, canKey, canValue = false, false, false, true, false

		case TokenKey:
			if !canKey {
				return nil, &SyntaxError{Msg: "unexpected property key " + token.Text, Start: token.Start, End: token.End}
			}
			flush()
			pendingKey = token.Text
			canOpen, canClose, canNode, canKey, canValue = false, false, false, false, true

		case TokenValue:
			if !canValue {
				return nil, &SyntaxError{Msg: "unexpected property value", Start: token.Start, End: token.End}
			}
			if pendingValues == nil {
				pendingValues = []string{}
			}
			pendingValues = append(pendingValues, token.Text)
			canOpen, canClose, canNode, canKey, canValue = true, true, true, true, true
		}
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1].open
		return nil, &SyntaxError{Msg: "unmatched '('", Start: open.Start, End: open.End}
	}

	root := dummy.FirstChild()
	if root == nil {
		return nil, &SyntaxError{Msg: "empty record", Start: 0, End: len(src)}
	}
	return root.Detach(), nil
}

// Parse parses an SGF record into a tree of payload-free nodes.
func Parse(src string) (*Node[struct{}], error) {
	return NewParser[struct{}](nil).Parse(src)
}
