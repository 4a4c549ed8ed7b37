package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/alang/ast"
)

// ASTJSONEncoder serializes an AST as a tagged-union JSON document:
// every node object carries a "kind" field plus its span and children.
type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node ast.Node) ([]byte, error) {
	return MarshalText(node)
}

// MarshalText renders node as an indented JSON document.
func MarshalText(node ast.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToMap(node), "", "  ")
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func spanOf(n ast.Node) jsonSpan {
	s := n.Span()
	return jsonSpan{
		Start: jsonPosition{Line: s.Start.Line, Column: s.Start.Column},
		End:   jsonPosition{Line: s.End.Line, Column: s.End.Column},
	}
}

// m builds a node object from alternating key/value pairs.
func m(kind string, n ast.Node, pairs ...any) map[string]any {
	out := map[string]any{
		"kind": kind,
		"span": spanOf(n),
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		out[pairs[i].(string)] = pairs[i+1]
	}
	return out
}

func nodeToMap(node ast.Node) map[string]any {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		return m("Program", n, "globals", declSlice(n.Globals))

	// Declarations
	case *ast.FormalDecl:
		return m("FormalDecl", n,
			"name", n.ID.Name,
			"type", nodeToMap(n.Type))
	case *ast.VarDecl:
		fields := []any{"name", n.ID.Name, "type", nodeToMap(n.Type)}
		if n.Init != nil {
			fields = append(fields, "init", nodeToMap(n.Init))
		}
		return m("VarDecl", n, fields...)
	case *ast.ClassDefn:
		return m("ClassDefn", n,
			"name", n.ID.Name,
			"members", declSlice(n.Members))
	case *ast.FnDecl:
		formals := make([]any, len(n.Formals))
		for i, formal := range n.Formals {
			formals[i] = nodeToMap(formal)
		}
		return m("FnDecl", n,
			"name", n.ID.Name,
			"formals", formals,
			"returnType", nodeToMap(n.RetType),
			"body", stmtSlice(n.Body))

	// Types
	case *ast.IntType:
		return m("IntType", n)
	case *ast.BoolType:
		return m("BoolType", n)
	case *ast.VoidType:
		return m("VoidType", n)
	case *ast.ClassType:
		return m("ClassType", n, "name", n.ID.Name)
	case *ast.ImmutableType:
		return m("ImmutableType", n, "sub", nodeToMap(n.Sub))
	case *ast.RefType:
		return m("RefType", n, "sub", nodeToMap(n.Sub))

	// Locations
	case *ast.ID:
		return m("ID", n, "name", n.Name)
	case *ast.MemberLoc:
		return m("MemberLoc", n,
			"base", nodeToMap(n.Base),
			"field", n.Field.Name)

	// Expressions
	case *ast.IntLit:
		return m("IntLit", n, "value", n.Value)
	case *ast.StrLit:
		return m("StrLit", n, "value", n.Value)
	case *ast.True:
		return m("True", n)
	case *ast.False:
		return m("False", n)
	case *ast.Eh:
		return m("Eh", n)
	case *ast.BinaryExp:
		return m("BinaryExp", n,
			"op", n.Op.String(),
			"lhs", nodeToMap(n.LHS),
			"rhs", nodeToMap(n.RHS))
	case *ast.UnaryExp:
		return m("UnaryExp", n,
			"op", n.Op.String(),
			"operand", nodeToMap(n.Operand))
	case *ast.CallExp:
		return m("CallExp", n,
			"callee", nodeToMap(n.Callee),
			"args", expSlice(n.Args))

	// Statements
	case *ast.Assign:
		return m("Assign", n,
			"target", nodeToMap(n.Target),
			"value", nodeToMap(n.Value))
	case *ast.CallStmt:
		return m("CallStmt", n, "call", nodeToMap(n.Call))
	case *ast.Return:
		if n.Exp == nil {
			return m("Return", n)
		}
		return m("Return", n, "exp", nodeToMap(n.Exp))
	case *ast.Maybe:
		return m("Maybe", n,
			"target", nodeToMap(n.Target),
			"means", nodeToMap(n.Means),
			"otherwise", nodeToMap(n.Otherwise))
	case *ast.FromConsole:
		return m("FromConsole", n, "target", nodeToMap(n.Target))
	case *ast.ToConsole:
		return m("ToConsole", n, "src", nodeToMap(n.Src))
	case *ast.PostDec:
		return m("PostDec", n, "target", nodeToMap(n.Target))
	case *ast.PostInc:
		return m("PostInc", n, "target", nodeToMap(n.Target))
	case *ast.If:
		return m("If", n,
			"cond", nodeToMap(n.Cond),
			"body", stmtSlice(n.Body))
	case *ast.IfElse:
		return m("IfElse", n,
			"cond", nodeToMap(n.Cond),
			"then", stmtSlice(n.Then),
			"else", stmtSlice(n.Else))
	case *ast.While:
		return m("While", n,
			"cond", nodeToMap(n.Cond),
			"body", stmtSlice(n.Body))
	}

	panic(fmt.Sprintf("format: unknown node %T", node))
}

func declSlice(decls []ast.Decl) []any {
	out := make([]any, len(decls))
	for i, d := range decls {
		out[i] = nodeToMap(d)
	}
	return out
}

func stmtSlice(stmts []ast.Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = nodeToMap(s)
	}
	return out
}

func expSlice(exps []ast.Exp) []any {
	out := make([]any, len(exps))
	for i, e := range exps {
		out[i] = nodeToMap(e)
	}
	return out
}
