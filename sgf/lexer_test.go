package sgf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collectTokens(t *testing.T, src string) []Token {
	t.Helper()
	lexer := NewLexer(src, 0)
	var tokens []Token
	for {
		token, err := lexer.Next()
		require.NoError(t, err)
		tokens = append(tokens, token)
		if token.Type == TokenEnd {
			return tokens
		}
	}
}

func TestLexerNext(t *testing.T) {
	t.Run("tokenizing a minimal record with byte offsets", func(t *testing.T) {
		tokens := collectTokens(t, "(;B[dd])")

		want := []Token{
			{Type: TokenOpenGroup, Text: "(", Start: 0, End: 1},
			{Type: TokenNodeStart, Text: ";", Start: 1, End: 2},
			{Type: TokenKey, Text: "B", Start: 2, End: 3},
			{Type: TokenValue, Text: "dd", Start: 3, End: 7},
			{Type: TokenCloseGroup, Text: ")", Start: 7, End: 8},
			{Type: TokenEnd, Start: 8, End: 8},
		}
		require.Equal(t, want, tokens, "Tokens should carry their category, text and [start,end) offsets")
	})

	t.Run("resolving escapes inside a value", func(t *testing.T) {
		tokens := collectTokens(t, `(;C[a\]b\\c])`)

		require.Equal(t, TokenValue, tokens[3].Type)
		require.Equal(t, `a]b\c`, tokens[3].Text, "Escaped ']' and '\\' should be unescaped in the token text")
		require.Equal(t, 3, tokens[3].Start, "Offsets should cover the surrounding brackets")
		require.Equal(t, 12, tokens[3].End, "Offsets should cover the surrounding brackets")
	})

	t.Run("tokenizing an empty value", func(t *testing.T) {
		tokens := collectTokens(t, "(;B[])")

		require.Equal(t, TokenValue, tokens[3].Type)
		require.Equal(t, "", tokens[3].Text, "An empty value should produce an empty text")
	})

	t.Run("skipping whitespace outside brackets", func(t *testing.T) {
		tokens := collectTokens(t, " ( ;\nB\t[d d] ) ")

		types := make([]TokenType, len(tokens))
		for i, token := range tokens {
			types[i] = token.Type
		}
		require.Equal(t, []TokenType{TokenOpenGroup, TokenNodeStart, TokenKey, TokenValue, TokenCloseGroup, TokenEnd}, types)
		require.Equal(t, "d d", tokens[3].Text, "Whitespace inside brackets should be preserved")
	})

	t.Run("restarting from a byte offset", func(t *testing.T) {
		lexer := NewLexer("(;B[dd])", 2)

		token, err := lexer.Next()

		require.NoError(t, err)
		require.Equal(t, Token{Type: TokenKey, Text: "B", Start: 2, End: 3}, token)
	})

	t.Run("failing on a character no rule matches", func(t *testing.T) {
		lexer := NewLexer("(;B[dd]%)", 0)
		var err error
		var token Token
		for err == nil && token.Type != TokenEnd {
			token, err = lexer.Next()
		}

		require.Error(t, err)
		var lexErr *LexicalError
		require.ErrorAs(t, err, &lexErr)
		require.Equal(t, 7, lexErr.Start, "The error should point at the offending byte")
		require.Equal(t, 8, lexErr.End)
	})

	t.Run("failing on an unterminated value", func(t *testing.T) {
		lexer := NewLexer("(;B[dd", 0)
		var err error
		var token Token
		for err == nil && token.Type != TokenEnd {
			token, err = lexer.Next()
		}

		require.Error(t, err)
		var lexErr *LexicalError
		require.ErrorAs(t, err, &lexErr)
		require.Equal(t, 3, lexErr.Start, "The error should point at the opening bracket")
	})

	t.Run("reporting progress without affecting tokenization", func(t *testing.T) {
		src := "(;B[dd];W[cc])"
		var reports [][2]int
		lexer := NewLexer(src, 0)
		lexer.SetProgress(func(done, total int) {
			reports = append(reports, [2]int{done, total})
		})

		for {
			token, err := lexer.Next()
			require.NoError(t, err)
			if token.Type == TokenEnd {
				break
			}
		}

		require.NotEmpty(t, reports)
		previous := 0
		for _, report := range reports {
			require.Equal(t, len(src), report[1], "Total should be the source length")
			require.GreaterOrEqual(t, report[0], previous, "Consumed offsets should be monotonic")
			previous = report[0]
		}
		require.Equal(t, len(src), previous, "The final report should cover the whole source")
	})
}
