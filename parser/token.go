package parser

import "github.com/dhamidi/alang/ast"

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenStringLiteral

	// Keywords
	TokenInt
	TokenBool
	TokenVoid
	TokenImmutable
	TokenRef
	TokenCustom
	TokenIf
	TokenElse
	TokenWhile
	TokenMaybe
	TokenMeans
	TokenOtherwise
	TokenFromConsole
	TokenToConsole
	TokenReturn
	TokenTrue
	TokenFalse
	TokenEh
	TokenAnd
	TokenOr
	TokenNot

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLCurly
	TokenRCurly
	TokenSemicolon
	TokenComma
	TokenColon
	TokenArrow
	TokenAssign
	TokenCross
	TokenDash
	TokenStar
	TokenSlash
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenPostInc
	TokenPostDec
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "end of input",
	TokenError:         "invalid token",
	TokenWhitespace:    "whitespace",
	TokenLineComment:   "comment",
	TokenIdent:         "identifier",
	TokenIntLiteral:    "integer literal",
	TokenStringLiteral: "string literal",
	TokenInt:           "int",
	TokenBool:          "bool",
	TokenVoid:          "void",
	TokenImmutable:     "immutable",
	TokenRef:           "ref",
	TokenCustom:        "custom",
	TokenIf:            "if",
	TokenElse:          "else",
	TokenWhile:         "while",
	TokenMaybe:         "maybe",
	TokenMeans:         "means",
	TokenOtherwise:     "otherwise",
	TokenFromConsole:   "fromconsole",
	TokenToConsole:     "toconsole",
	TokenReturn:        "return",
	TokenTrue:          "true",
	TokenFalse:         "false",
	TokenEh:            "eh?",
	TokenAnd:           "and",
	TokenOr:            "or",
	TokenNot:           "not",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLCurly:        "{",
	TokenRCurly:        "}",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenColon:         ":",
	TokenArrow:         "->",
	TokenAssign:        "=",
	TokenCross:         "+",
	TokenDash:          "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenEQ:            "==",
	TokenNE:            "!=",
	TokenLT:            "<",
	TokenLE:            "<=",
	TokenGT:            ">",
	TokenGE:            ">=",
	TokenPostInc:       "++",
	TokenPostDec:       "--",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is an immutable lexical token. Literal holds the exact source
// text; Int is the decoded value for integer literals.
type Token struct {
	Kind    TokenKind
	Span    ast.Span
	Literal string
	Int     int
}

var keywords = map[string]TokenKind{
	"int":         TokenInt,
	"bool":        TokenBool,
	"void":        TokenVoid,
	"immutable":   TokenImmutable,
	"ref":         TokenRef,
	"custom":      TokenCustom,
	"if":          TokenIf,
	"else":        TokenElse,
	"while":       TokenWhile,
	"maybe":       TokenMaybe,
	"means":       TokenMeans,
	"otherwise":   TokenOtherwise,
	"fromconsole": TokenFromConsole,
	"toconsole":   TokenToConsole,
	"return":      TokenReturn,
	"true":        TokenTrue,
	"false":       TokenFalse,
	"and":         TokenAnd,
	"or":          TokenOr,
	"not":         TokenNot,
}

// LookupKeyword maps an identifier spelling to its keyword kind, or
// TokenIdent if it is not a keyword. The "eh?" literal is not in this
// table because its spelling is not an identifier; the lexer fuses it.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
