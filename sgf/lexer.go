package sgf

// TokenType tags the lexical category of a token.
type TokenType int

const (
	TokenOpenGroup  TokenType = iota // '('
	TokenCloseGroup                  // ')'
	TokenNodeStart                   // ';'
	TokenKey                         // property identifier
	TokenValue                       // bracketed value, text holds the unescaped content
	TokenEnd                         // end of input
)

func (t TokenType) String() string {
	switch t {
	case TokenOpenGroup:
		return "OPEN_GROUP"
	case TokenCloseGroup:
		return "CLOSE_GROUP"
	case TokenNodeStart:
		return "NODE_START"
	case TokenKey:
		return "PROPERTY_KEY"
	case TokenValue:
		return "PROPERTY_VALUE"
	case TokenEnd:
		return "END"
	}
	return "UNKNOWN"
}

// Token is one lexical unit with its [Start,End) byte range in the source.
// For TokenValue, Text is the value with bracket escapes already resolved
// while the offsets still cover the surrounding brackets.
type Token struct {
	Type  TokenType
	Text  string
	Start int
	End   int
}

// Lexer produces tokens from SGF text one at a time, restartable from any
// byte offset. Whitespace outside brackets is skipped.
type Lexer struct {
	src      string
	pos      int
	progress func(done, total int)
}

// NewLexer returns a lexer over src starting at byte offset start.
func NewLexer(src string, start int) *Lexer {
	return &Lexer{src: src, pos: start}
}

// SetProgress installs a callback reporting (bytes consumed, total bytes)
// after each token. Purely observational; tokenization is unaffected.
func (l *Lexer) SetProgress(fn func(done, total int)) {
	l.progress = fn
}

// Next returns the next token, or a TokenEnd token at end of input.
func (l *Lexer) Next() (Token, error) {
	token, err := l.next()
	if err != nil {
		return Token{}, err
	}
	if l.progress != nil {
		l.progress(l.pos, len(l.src))
	}
	return token, nil
}

func (l *Lexer) next() (Token, error) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '(':
			return l.single(TokenOpenGroup), nil
		case c == ')':
			return l.single(TokenCloseGroup), nil
		case c == ';':
			return l.single(TokenNodeStart), nil
		case c == '[':
			return l.value()
		case isKeyChar(c):
			return l.key(), nil
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		default:
			return Token{}, &LexicalError{Msg: "invalid character", Start: l.pos, End: l.pos + 1}
		}
	}
	return Token{Type: TokenEnd, Start: l.pos, End: l.pos}, nil
}

func (l *Lexer) single(t TokenType) Token {
	token := Token{Type: t, Text: l.src[l.pos : l.pos+1], Start: l.pos, End: l.pos + 1}
	l.pos++
	return token
}

// value scans a bracketed value. '\' escapes the next character, so '\]' and
// '\\' are literal; the value may be empty.
func (l *Lexer) value() (Token, error) {
	start := l.pos
	l.pos++ // consume '['
	var text []byte
	escaped := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		if escaped {
			text = append(text, c)
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case ']':
			return Token{Type: TokenValue, Text: string(text), Start: start, End: l.pos}, nil
		default:
			text = append(text, c)
		}
	}
	return Token{}, &LexicalError{Msg: "unterminated property value", Start: start, End: l.pos}
}

func (l *Lexer) key() Token {
	start := l.pos
	for l.pos < len(l.src) && isKeyChar(l.src[l.pos]) {
		l.pos++
	}
	return Token{Type: TokenKey, Text: l.src[start:l.pos], Start: start, End: l.pos}
}

func isKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
