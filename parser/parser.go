package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/alang/ast"
)

type Option func(*Parser)

// WithFile attributes all token and node positions to the given path.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// SyntaxError is the single fatal error a parse can produce. Parsing
// stops at the first token that cannot be accepted; there is no
// recovery and no multi-error accumulation.
type SyntaxError struct {
	Got      Token
	Expected []TokenKind
	Message  string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	pos := e.Got.Span.Start
	if pos.File != "" {
		fmt.Fprintf(&b, "%s:", pos.File)
	}
	fmt.Fprintf(&b, "%d:%d: syntax error: ", pos.Line, pos.Column)
	if e.Message != "" {
		b.WriteString(e.Message)
		return b.String()
	}
	fmt.Fprintf(&b, "unexpected %s", describeToken(e.Got))
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, kind := range e.Expected {
			names[i] = kind.String()
		}
		fmt.Fprintf(&b, ", expected %s", strings.Join(names, " or "))
	}
	return b.String()
}

func describeToken(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return "end of input"
	case TokenError:
		return fmt.Sprintf("invalid token %q", tok.Literal)
	case TokenIdent:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case TokenIntLiteral, TokenStringLiteral:
		return tok.Literal
	default:
		return fmt.Sprintf("%q", tok.Kind.String())
	}
}

// Parser consumes a token stream with a single token of lookahead and
// produces an AST or one fatal SyntaxError. Each parse uses a fresh
// instance; a Parser is not safe for concurrent use.
type Parser struct {
	file    string
	reader  io.Reader
	input   []byte
	tokens  []Token
	pos     int
	prevEnd ast.Position
}

// Parse reads a whole program. On success the returned Program owns the
// complete tree; on failure the Program is nil and the error is a
// *SyntaxError (or an I/O error from the reader).
func Parse(r io.Reader, opts ...Option) (*ast.Program, error) {
	p := newParser(r, opts)
	if err := p.tokenize(); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

// ParseExpression reads a single expression followed by end of input.
func ParseExpression(r io.Reader, opts ...Option) (ast.Exp, error) {
	p := newParser(r, opts)
	if err := p.tokenize(); err != nil {
		return nil, err
	}
	e, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenEOF) {
		return nil, p.errExpected(TokenEOF)
	}
	return e, nil
}

func newParser(r io.Reader, opts []Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) tokenize() error {
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	lexer := NewLexer(p.input, p.file)
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenWhitespace || tok.Kind == TokenLineComment {
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			return nil
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.prevEnd = tok.Span.End
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	if !p.check(kind) {
		return Token{}, p.errExpected(kind)
	}
	return p.advance(), nil
}

func (p *Parser) errExpected(expected ...TokenKind) error {
	return &SyntaxError{Got: p.peek(), Expected: expected}
}

// spanFrom covers everything consumed since start. Every node's span is
// the merge of its first and last matched tokens.
func (p *Parser) spanFrom(start ast.Position) ast.Span {
	return ast.Span{Start: start, End: p.prevEnd}
}

// program := decl*
func (p *Parser) parseProgram() (*ast.Program, error) {
	program := &ast.Program{}
	for !p.check(TokenEOF) {
		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		program.Globals = append(program.Globals, d)
	}
	// An empty program keeps the synthetic zero span.
	if len(program.Globals) > 0 {
		first := program.Globals[0]
		last := program.Globals[len(program.Globals)-1]
		program.SetSpan(ast.Merge(first.Span(), last.Span()))
	}
	return program, nil
}

// decl := name ":" ( classDefn | fnDecl | varDeclRest ";" )
func (p *Parser) parseDecl() (ast.Decl, error) {
	id, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	switch p.peek().Kind {
	case TokenCustom:
		return p.parseClassDefn(id)
	case TokenLParen:
		return p.parseFnDecl(id)
	default:
		d, err := p.parseVarDeclRest(id)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return d, nil
	}
}

// varDeclRest := type [ "=" exp ]
// The leading "name :" has already been consumed.
func (p *Parser) parseVarDeclRest(id *ast.ID) (*ast.VarDecl, error) {
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	d := &ast.VarDecl{ID: id, Type: t}
	if p.check(TokenAssign) {
		p.advance()
		init, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		d.Init = init
	}
	d.SetSpan(p.spanFrom(id.Span().Start))
	return d, nil
}

// classDefn := "custom" "{" member* "}" ";"
func (p *Parser) parseClassDefn(id *ast.ID) (*ast.ClassDefn, error) {
	p.advance() // custom
	if _, err := p.expect(TokenLCurly); err != nil {
		return nil, err
	}
	defn := &ast.ClassDefn{ID: id}
	for !p.check(TokenRCurly) && !p.check(TokenEOF) {
		member, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		defn.Members = append(defn.Members, member)
	}
	if _, err := p.expect(TokenRCurly); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	defn.SetSpan(p.spanFrom(id.Span().Start))
	return defn, nil
}

// member := name ":" ( fnDecl | varDeclRest ";" )
// Class bodies hold variable and function members only.
func (p *Parser) parseMember() (ast.Decl, error) {
	id, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	if p.check(TokenLParen) {
		return p.parseFnDecl(id)
	}
	d, err := p.parseVarDeclRest(id)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return d, nil
}

// fnDecl := "(" [ formal ("," formal)* ] ")" "->" type "{" stmt* "}"
func (p *Parser) parseFnDecl(id *ast.ID) (*ast.FnDecl, error) {
	p.advance() // (
	fn := &ast.FnDecl{ID: id}
	if !p.check(TokenRParen) {
		for {
			formal, err := p.parseFormalDecl()
			if err != nil {
				return nil, err
			}
			fn.Formals = append(fn.Formals, formal)
			if !p.check(TokenComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenArrow); err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	fn.RetType = ret
	if _, err := p.expect(TokenLCurly); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	if _, err := p.expect(TokenRCurly); err != nil {
		return nil, err
	}
	fn.SetSpan(p.spanFrom(id.Span().Start))
	return fn, nil
}

// formal := name ":" type
func (p *Parser) parseFormalDecl() (*ast.FormalDecl, error) {
	id, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	formal := &ast.FormalDecl{}
	formal.ID = id
	formal.Type = t
	formal.SetSpan(p.spanFrom(id.Span().Start))
	return formal, nil
}

// type := [ "immutable" ] [ "ref" ] ( "int" | "bool" | "void" | name )
func (p *Parser) parseType() (ast.Type, error) {
	if p.check(TokenImmutable) {
		start := p.advance().Span.Start
		sub, err := p.parseRefType()
		if err != nil {
			return nil, err
		}
		t := &ast.ImmutableType{Sub: sub}
		t.SetSpan(p.spanFrom(start))
		return t, nil
	}
	return p.parseRefType()
}

func (p *Parser) parseRefType() (ast.Type, error) {
	if p.check(TokenRef) {
		start := p.advance().Span.Start
		sub, err := p.parsePrimType()
		if err != nil {
			return nil, err
		}
		t := &ast.RefType{Sub: sub}
		t.SetSpan(p.spanFrom(start))
		return t, nil
	}
	return p.parsePrimType()
}

func (p *Parser) parsePrimType() (ast.Type, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenInt:
		p.advance()
		t := &ast.IntType{}
		t.SetSpan(tok.Span)
		return t, nil
	case TokenBool:
		p.advance()
		t := &ast.BoolType{}
		t.SetSpan(tok.Span)
		return t, nil
	case TokenVoid:
		p.advance()
		t := &ast.VoidType{}
		t.SetSpan(tok.Span)
		return t, nil
	case TokenIdent:
		id, err := p.parseName()
		if err != nil {
			return nil, err
		}
		t := &ast.ClassType{ID: id}
		t.SetSpan(id.Span())
		return t, nil
	default:
		return nil, p.errExpected(TokenInt, TokenBool, TokenVoid, TokenImmutable, TokenRef, TokenIdent)
	}
}

func (p *Parser) parseStmtList() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(TokenRCurly) && !p.check(TokenEOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIf:
		return p.parseIfStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenReturn:
		return p.parseReturnStmt()
	case TokenMaybe:
		return p.parseMaybeStmt()
	case TokenFromConsole:
		start := p.advance().Span.Start
		target, err := p.parseLoc()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		s := &ast.FromConsole{Target: target}
		s.SetSpan(p.spanFrom(start))
		return s, nil
	case TokenToConsole:
		start := p.advance().Span.Start
		src, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		s := &ast.ToConsole{Src: src}
		s.SetSpan(p.spanFrom(start))
		return s, nil
	case TokenIdent:
		return p.parseLocStmt()
	default:
		return nil, p.errExpected(
			TokenIdent, TokenIf, TokenWhile, TokenReturn, TokenMaybe,
			TokenFromConsole, TokenToConsole)
	}
}

// parseLocStmt handles every statement that begins with a location:
// variable declaration, assignment, call, and post
// increment/decrement. The token after the location decides which
// production applies, keeping the parser at one token of lookahead.
func (p *Parser) parseLocStmt() (ast.Stmt, error) {
	target, err := p.parseLoc()
	if err != nil {
		return nil, err
	}
	switch p.peek().Kind {
	case TokenColon:
		id, ok := target.(*ast.ID)
		if !ok {
			// "a->b : int" is not declarable.
			return nil, p.errExpected(TokenAssign, TokenLParen, TokenPostInc, TokenPostDec)
		}
		p.advance()
		d, err := p.parseVarDeclRest(id)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return d, nil
	case TokenAssign:
		p.advance()
		value, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		s := &ast.Assign{Target: target, Value: value}
		s.SetSpan(p.spanFrom(target.Span().Start))
		return s, nil
	case TokenLParen:
		call, err := p.parseCallRest(target)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		s := &ast.CallStmt{Call: call}
		s.SetSpan(p.spanFrom(target.Span().Start))
		return s, nil
	case TokenPostInc:
		p.advance()
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		s := &ast.PostInc{Target: target}
		s.SetSpan(p.spanFrom(target.Span().Start))
		return s, nil
	case TokenPostDec:
		p.advance()
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		s := &ast.PostDec{Target: target}
		s.SetSpan(p.spanFrom(target.Span().Start))
		return s, nil
	default:
		return nil, p.errExpected(TokenColon, TokenAssign, TokenLParen, TokenPostInc, TokenPostDec)
	}
}

func (p *Parser) parseIfStmt() (ast.Stmt, error) {
	start := p.advance().Span.Start // if
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenElse) {
		s := &ast.If{Cond: cond, Body: body}
		s.SetSpan(p.spanFrom(start))
		return s, nil
	}
	p.advance() // else
	elseBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	s := &ast.IfElse{Cond: cond, Then: body, Else: elseBody}
	s.SetSpan(p.spanFrom(start))
	return s, nil
}

func (p *Parser) parseWhileStmt() (ast.Stmt, error) {
	start := p.advance().Span.Start // while
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	s := &ast.While{Cond: cond, Body: body}
	s.SetSpan(p.spanFrom(start))
	return s, nil
}

func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(TokenLCurly); err != nil {
		return nil, err
	}
	stmts, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRCurly); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseReturnStmt() (ast.Stmt, error) {
	start := p.advance().Span.Start // return
	s := &ast.Return{}
	if !p.check(TokenSemicolon) {
		value, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		s.Exp = value
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	s.SetSpan(p.spanFrom(start))
	return s, nil
}

// maybe := "maybe" loc "means" exp "otherwise" exp ";"
func (p *Parser) parseMaybeStmt() (ast.Stmt, error) {
	start := p.advance().Span.Start // maybe
	target, err := p.parseLoc()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenMeans); err != nil {
		return nil, err
	}
	means, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenOtherwise); err != nil {
		return nil, err
	}
	otherwise, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	s := &ast.Maybe{Target: target, Means: means, Otherwise: otherwise}
	s.SetSpan(p.spanFrom(start))
	return s, nil
}

// Expressions are parsed by one layer per precedence level, lowest
// first: or < and < relational < additive < multiplicative < unary.

func (p *Parser) parseExp() (ast.Exp, error) {
	return p.parseOrExp()
}

func (p *Parser) parseOrExp() (ast.Exp, error) {
	lhs, err := p.parseAndExp()
	if err != nil {
		return nil, err
	}
	for p.check(TokenOr) {
		p.advance()
		rhs, err := p.parseAndExp()
		if err != nil {
			return nil, err
		}
		lhs = p.newBinary(ast.Or, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseAndExp() (ast.Exp, error) {
	lhs, err := p.parseRelExp()
	if err != nil {
		return nil, err
	}
	for p.check(TokenAnd) {
		p.advance()
		rhs, err := p.parseRelExp()
		if err != nil {
			return nil, err
		}
		lhs = p.newBinary(ast.And, lhs, rhs)
	}
	return lhs, nil
}

var relOps = map[TokenKind]ast.BinOp{
	TokenEQ: ast.Eq,
	TokenNE: ast.NotEq,
	TokenLT: ast.Less,
	TokenLE: ast.LessEq,
	TokenGT: ast.Greater,
	TokenGE: ast.GreaterEq,
}

// parseRelExp accepts at most one relational or equality operator.
// These operators do not associate: "a < b < c" is a syntax error.
func (p *Parser) parseRelExp() (ast.Exp, error) {
	lhs, err := p.parseAddExp()
	if err != nil {
		return nil, err
	}
	op, ok := relOps[p.peek().Kind]
	if !ok {
		return lhs, nil
	}
	p.advance()
	rhs, err := p.parseAddExp()
	if err != nil {
		return nil, err
	}
	if _, chained := relOps[p.peek().Kind]; chained {
		return nil, &SyntaxError{
			Got:     p.peek(),
			Message: fmt.Sprintf("unexpected %s: relational operators do not chain", describeToken(p.peek())),
		}
	}
	return p.newBinary(op, lhs, rhs), nil
}

func (p *Parser) parseAddExp() (ast.Exp, error) {
	lhs, err := p.parseMulExp()
	if err != nil {
		return nil, err
	}
	for p.check(TokenCross) || p.check(TokenDash) {
		op := ast.Plus
		if p.peek().Kind == TokenDash {
			op = ast.Minus
		}
		p.advance()
		rhs, err := p.parseMulExp()
		if err != nil {
			return nil, err
		}
		lhs = p.newBinary(op, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseMulExp() (ast.Exp, error) {
	lhs, err := p.parseUnaryExp()
	if err != nil {
		return nil, err
	}
	for p.check(TokenStar) || p.check(TokenSlash) {
		op := ast.Times
		if p.peek().Kind == TokenSlash {
			op = ast.Divide
		}
		p.advance()
		rhs, err := p.parseUnaryExp()
		if err != nil {
			return nil, err
		}
		lhs = p.newBinary(op, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseUnaryExp() (ast.Exp, error) {
	switch p.peek().Kind {
	case TokenNot:
		start := p.advance().Span.Start
		operand, err := p.parseUnaryExp()
		if err != nil {
			return nil, err
		}
		e := &ast.UnaryExp{Op: ast.Not, Operand: operand}
		e.SetSpan(p.spanFrom(start))
		return e, nil
	case TokenDash:
		start := p.advance().Span.Start
		operand, err := p.parseUnaryExp()
		if err != nil {
			return nil, err
		}
		e := &ast.UnaryExp{Op: ast.Neg, Operand: operand}
		e.SetSpan(p.spanFrom(start))
		return e, nil
	default:
		return p.parseTerm()
	}
}

func (p *Parser) parseTerm() (ast.Exp, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIntLiteral:
		p.advance()
		e := &ast.IntLit{Value: tok.Int}
		e.SetSpan(tok.Span)
		return e, nil
	case TokenStringLiteral:
		p.advance()
		e := &ast.StrLit{Value: tok.Literal}
		e.SetSpan(tok.Span)
		return e, nil
	case TokenTrue:
		p.advance()
		e := &ast.True{}
		e.SetSpan(tok.Span)
		return e, nil
	case TokenFalse:
		p.advance()
		e := &ast.False{}
		e.SetSpan(tok.Span)
		return e, nil
	case TokenEh:
		p.advance()
		e := &ast.Eh{}
		e.SetSpan(tok.Span)
		return e, nil
	case TokenLParen:
		p.advance()
		e, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return e, nil
	case TokenIdent:
		l, err := p.parseLoc()
		if err != nil {
			return nil, err
		}
		if p.check(TokenLParen) {
			return p.parseCallRest(l)
		}
		return l, nil
	default:
		return nil, p.errExpected(
			TokenIntLiteral, TokenStringLiteral, TokenTrue, TokenFalse,
			TokenEh, TokenIdent, TokenLParen, TokenNot, TokenDash)
	}
}

// callRest := "(" [ exp ("," exp)* ] ")"
// The callee location has already been parsed.
func (p *Parser) parseCallRest(callee ast.Loc) (*ast.CallExp, error) {
	p.advance() // (
	call := &ast.CallExp{Callee: callee}
	if !p.check(TokenRParen) {
		for {
			arg, err := p.parseExp()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if !p.check(TokenComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	call.SetSpan(p.spanFrom(callee.Span().Start))
	return call, nil
}

// loc := name ( "->" name )*
func (p *Parser) parseLoc() (ast.Loc, error) {
	id, err := p.parseName()
	if err != nil {
		return nil, err
	}
	var l ast.Loc = id
	for p.check(TokenArrow) {
		p.advance()
		field, err := p.parseName()
		if err != nil {
			return nil, err
		}
		member := &ast.MemberLoc{Base: l, Field: field}
		member.SetSpan(ast.Merge(l.Span(), field.Span()))
		l = member
	}
	return l, nil
}

func (p *Parser) parseName() (*ast.ID, error) {
	tok, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	id := &ast.ID{Name: tok.Literal}
	id.SetSpan(tok.Span)
	return id, nil
}

func (p *Parser) newBinary(op ast.BinOp, lhs, rhs ast.Exp) *ast.BinaryExp {
	e := &ast.BinaryExp{Op: op, LHS: lhs, RHS: rhs}
	e.SetSpan(ast.Merge(lhs.Span(), rhs.Span()))
	return e
}
