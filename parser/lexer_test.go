package parser

import (
	"testing"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"custom", []TokenKind{TokenCustom, TokenEOF}},
		{"x : int;", []TokenKind{TokenIdent, TokenColon, TokenInt, TokenSemicolon, TokenEOF}},
		{"123", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"\"hello\"", []TokenKind{TokenStringLiteral, TokenEOF}},
		{"// comment\nwhile", []TokenKind{TokenWhile, TokenEOF}},
		{"+ - * /", []TokenKind{TokenCross, TokenDash, TokenStar, TokenSlash, TokenEOF}},
		{"== != < <= > >=", []TokenKind{TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE, TokenEOF}},
		{"and or not", []TokenKind{TokenAnd, TokenOr, TokenNot, TokenEOF}},
		{"!x", []TokenKind{TokenNot, TokenIdent, TokenEOF}},
		{"++ --", []TokenKind{TokenPostInc, TokenPostDec, TokenEOF}},
		{"->", []TokenKind{TokenArrow, TokenEOF}},
		{"- ->", []TokenKind{TokenDash, TokenArrow, TokenEOF}},
		{"eh?", []TokenKind{TokenEh, TokenEOF}},
		{"eh", []TokenKind{TokenIdent, TokenEOF}},
		{"ehx?", []TokenKind{TokenIdent, TokenError, TokenEOF}},
		{"maybe x means 1 otherwise 2;", []TokenKind{
			TokenMaybe, TokenIdent, TokenMeans, TokenIntLiteral,
			TokenOtherwise, TokenIntLiteral, TokenSemicolon, TokenEOF,
		}},
		{"fromconsole toconsole", []TokenKind{TokenFromConsole, TokenToConsole, TokenEOF}},
		{"immutable ref bool void", []TokenKind{TokenImmutable, TokenRef, TokenBool, TokenVoid, TokenEOF}},
		{"true false return", []TokenKind{TokenTrue, TokenFalse, TokenReturn, TokenEOF}},
		{"if else", []TokenKind{TokenIf, TokenElse, TokenEOF}},
		{"( ) { } , ; : =", []TokenKind{
			TokenLParen, TokenRParen, TokenLCurly, TokenRCurly,
			TokenComma, TokenSemicolon, TokenColon, TokenAssign, TokenEOF,
		}},
		{"\"unterminated", []TokenKind{TokenError, TokenEOF}},
		{"@", []TokenKind{TokenError, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.alang")
			var got []TokenKind
			for {
				tok := lexer.NextToken()
				if tok.Kind != TokenWhitespace && tok.Kind != TokenLineComment {
					got = append(got, tok.Kind)
				}
				if tok.Kind == TokenEOF {
					break
				}
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d tokens (%v), want %d", len(got), got, len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerIntValue(t *testing.T) {
	lexer := NewLexer([]byte("407"), "test.alang")
	tok := lexer.NextToken()
	if tok.Kind != TokenIntLiteral {
		t.Fatalf("got %v, want integer literal", tok.Kind)
	}
	if tok.Int != 407 {
		t.Errorf("got %d, want 407", tok.Int)
	}
	if tok.Literal != "407" {
		t.Errorf("got literal %q, want %q", tok.Literal, "407")
	}
}

func TestLexerStringLiteralKeepsQuotes(t *testing.T) {
	lexer := NewLexer([]byte(`"hi there"`), "test.alang")
	tok := lexer.NextToken()
	if tok.Kind != TokenStringLiteral {
		t.Fatalf("got %v, want string literal", tok.Kind)
	}
	if tok.Literal != `"hi there"` {
		t.Errorf("got literal %q, want %q", tok.Literal, `"hi there"`)
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("x\n  y"), "test.alang")

	tok := lexer.NextToken()
	if tok.Span.Start.Line != 1 || tok.Span.Start.Column != 1 {
		t.Errorf("x starts at %d:%d, want 1:1", tok.Span.Start.Line, tok.Span.Start.Column)
	}

	for tok.Kind != TokenIdent || tok.Literal != "y" {
		tok = lexer.NextToken()
		if tok.Kind == TokenEOF {
			t.Fatal("never saw y")
		}
	}
	if tok.Span.Start.Line != 2 || tok.Span.Start.Column != 3 {
		t.Errorf("y starts at %d:%d, want 2:3", tok.Span.Start.Line, tok.Span.Start.Column)
	}
}
