package sgf

import "fmt"

// LexicalError reports a character the lexer has no rule for, with the
// offending [Start,End) byte range.
type LexicalError struct {
	Msg   string
	Start int
	End   int
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("sgf: %s at offset %d..%d", e.Msg, e.Start, e.End)
}

// SyntaxError reports a token that arrived when the parser's state did not
// permit it, or an unmatched group boundary.
type SyntaxError struct {
	Msg   string
	Start int
	End   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("sgf: %s at offset %d..%d", e.Msg, e.Start, e.End)
}
