package solver

// Result is the oracle's answer for one evaluated node.
type Result struct {
	// Moves heads a sibling chain of newly suggested children; ownership
	// transfers to the expanded node.
	Moves *Node
	// Score is in [-1,+1] in Black's absolute frame: +1 certain Black win.
	Score float64
	// State is the oracle's own certainty about the evaluated node.
	State Status
	// Comments carries the oracle's comment fields, in order.
	Comments []string
	// Raw retains the unparsed oracle output for audit.
	Raw string
}
