// Package ast defines the abstract syntax tree for a-lang programs.
//
// The tree is built once by the parser and read-only afterwards. Every
// node belongs to exactly one parent; the Program node owns the whole
// tree. Nodes are grouped into five closed families: declarations,
// statements, expressions, types, and locations (assignable
// expressions). Locations are expressions, and declarations double as
// statements, mirroring how a var decl can appear in a function body.
package ast

import "fmt"

// Position is a point in a source file. Line and Column are 1-based,
// Offset is the byte offset from the start of the input.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the half-open source range [Start, End) covered by a token or
// node.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Merge returns the smallest span covering both a and b. Node spans are
// computed by merging the spans of their first and last constituents.
func Merge(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}

// Node is implemented by every AST node.
type Node interface {
	Span() Span
	aNode()
}

// node carries the source span shared by all AST nodes. It is embedded
// unexported so the node set stays closed to this package.
type node struct {
	span Span
}

func (n *node) Span() Span     { return n.span }
func (n *node) SetSpan(s Span) { n.span = s }
func (*node) aNode()           {}

// Stmt is a statement.
type Stmt interface {
	Node
	stmtNode()
}

type stmt struct{ node }

func (*stmt) stmtNode() {}

// Decl is a declaration. Declarations are statements: a variable
// declaration may appear in a function body as well as at top level.
type Decl interface {
	Stmt
	declNode()
}

type decl struct{ stmt }

func (*decl) declNode() {}

// Exp is an expression.
type Exp interface {
	Node
	expNode()
}

type exp struct{ node }

func (*exp) expNode() {}

// Type is a type annotation.
type Type interface {
	Node
	typeNode()
}

type typ struct{ node }

func (*typ) typeNode() {}

// Loc is an addressable expression: an identifier or a member-access
// chain. Locs are the only legal assignment targets and call callees.
type Loc interface {
	Exp
	locNode()
}

type loc struct{ exp }

func (*loc) locNode() {}

// Program is the root of the tree: the global declarations in source
// order. An empty program has a zero span.
type Program struct {
	node
	Globals []Decl
}

// Declarations

// VarDecl declares a variable: "name: type" with an optional
// "= init" part. Init is nil when the initializer is absent.
type VarDecl struct {
	decl
	ID   *ID
	Type Type
	Init Exp
}

// FormalDecl is a function parameter: a VarDecl that never carries an
// initializer.
type FormalDecl struct {
	VarDecl
}

// ClassDefn declares a class: "name : custom { members };". Members
// keep declaration order and are VarDecls or FnDecls.
type ClassDefn struct {
	decl
	ID      *ID
	Members []Decl
}

// FnDecl declares a function: "name : (formals) -> type { body }".
type FnDecl struct {
	decl
	ID      *ID
	Formals []*FormalDecl
	RetType Type
	Body    []Stmt
}

// Types

type IntType struct{ typ }

type BoolType struct{ typ }

type VoidType struct{ typ }

// ClassType names a user-defined class used as a type.
type ClassType struct {
	typ
	ID *ID
}

// ImmutableType wraps the declared type of an immutable binding.
type ImmutableType struct {
	typ
	Sub Type
}

// RefType wraps the declared type of a reference binding.
type RefType struct {
	typ
	Sub Type
}

// Locations

// ID is an identifier used as a location.
type ID struct {
	loc
	Name string
}

// MemberLoc is a field access "base->field". Chains associate left:
// a->b->c is MemberLoc(MemberLoc(a, b), c).
type MemberLoc struct {
	loc
	Base  Loc
	Field *ID
}

// Expressions

type IntLit struct {
	exp
	Value int
}

// StrLit holds a string literal exactly as scanned, quotes and escape
// sequences included, so rendering it reproduces the source spelling.
type StrLit struct {
	exp
	Value string
}

type True struct{ exp }

type False struct{ exp }

// Eh is the "eh?" literal: an explicit unknown/placeholder value.
type Eh struct{ exp }

// BinOp enumerates the binary operators.
type BinOp int

const (
	Plus BinOp = iota
	Minus
	Times
	Divide
	And
	Or
	Eq
	NotEq
	Less
	LessEq
	Greater
	GreaterEq
)

var binOpNames = map[BinOp]string{
	Plus:      "+",
	Minus:     "-",
	Times:     "*",
	Divide:    "/",
	And:       "and",
	Or:        "or",
	Eq:        "==",
	NotEq:     "!=",
	Less:      "<",
	LessEq:    "<=",
	Greater:   ">",
	GreaterEq: ">=",
}

func (op BinOp) String() string {
	if name, ok := binOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("BinOp(%d)", int(op))
}

type BinaryExp struct {
	exp
	Op  BinOp
	LHS Exp
	RHS Exp
}

// UnOp enumerates the unary operators.
type UnOp int

const (
	Neg UnOp = iota
	Not
)

func (op UnOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "not"
	}
	return fmt.Sprintf("UnOp(%d)", int(op))
}

type UnaryExp struct {
	exp
	Op      UnOp
	Operand Exp
}

// CallExp is a call "callee(args)". Args keep source order.
type CallExp struct {
	exp
	Callee Loc
	Args   []Exp
}

// Statements

// Assign writes Value into Target: "target = value;".
type Assign struct {
	stmt
	Target Loc
	Value  Exp
}

// CallStmt is a call expression used for its effect.
type CallStmt struct {
	stmt
	Call *CallExp
}

// Return exits the enclosing function. Exp is nil for a bare "return;".
type Return struct {
	stmt
	Exp Exp
}

// Maybe is the conditional assignment "maybe target means a otherwise b;".
type Maybe struct {
	stmt
	Target    Loc
	Means     Exp
	Otherwise Exp
}

// FromConsole reads into a location: "fromconsole loc;".
type FromConsole struct {
	stmt
	Target Loc
}

// ToConsole writes an expression: "toconsole exp;".
type ToConsole struct {
	stmt
	Src Exp
}

type PostDec struct {
	stmt
	Target Loc
}

type PostInc struct {
	stmt
	Target Loc
}

type If struct {
	stmt
	Cond Exp
	Body []Stmt
}

type IfElse struct {
	stmt
	Cond Exp
	Then []Stmt
	Else []Stmt
}

type While struct {
	stmt
	Cond Exp
	Body []Stmt
}
