// Package format renders a-lang ASTs back into canonical source text
// and serializes them as JSON.
package format

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/dhamidi/alang/ast"
)

// RenderMode selects how a statement renders itself.
//
// Standalone statements emit their own indentation and their trailing
// ";\n". Embedded mode suppresses both so that call, post-inc/dec, and
// maybe statements can be spliced into a larger construct without
// double-terminating.
type RenderMode int

const (
	Standalone RenderMode = iota
	Embedded
)

// Unparser renders an AST as canonical a-lang source. Blocks indent by
// one tab per nesting level. Re-parsing the output yields a tree
// structurally equivalent to the input.
type Unparser struct {
	w         io.Writer
	indentStr string
	err       error
}

func NewUnparser(w io.Writer) *Unparser {
	return &Unparser{w: w, indentStr: "\t"}
}

// Err reports the first write error encountered, if any.
func (u *Unparser) Err() error {
	return u.err
}

// Unparse renders a whole program to a string.
func Unparse(program *ast.Program) string {
	var buf bytes.Buffer
	NewUnparser(&buf).Print(program)
	return buf.String()
}

// Fprint renders a whole program to w, returning the first write error.
func Fprint(w io.Writer, program *ast.Program) error {
	u := NewUnparser(w)
	u.Print(program)
	return u.err
}

func (u *Unparser) Print(program *ast.Program) {
	for _, global := range program.Globals {
		u.printDecl(global, 0)
	}
}

// PrintStmt renders a single statement at the given indentation.
func (u *Unparser) PrintStmt(s ast.Stmt, indent int, mode RenderMode) {
	u.printStmt(s, indent, mode)
}

// PrintExp renders a single expression in statement position, without
// outer parentheses.
func (u *Unparser) PrintExp(e ast.Exp) {
	u.printExp(e)
}

func (u *Unparser) write(s string) {
	if u.err != nil {
		return
	}
	_, u.err = io.WriteString(u.w, s)
}

func (u *Unparser) doIndent(indent int) {
	for i := 0; i < indent; i++ {
		u.write(u.indentStr)
	}
}

func (u *Unparser) printDecl(d ast.Decl, indent int) {
	switch d := d.(type) {
	case *ast.FormalDecl:
		u.printFormal(d)
	case *ast.VarDecl:
		u.doIndent(indent)
		u.write(d.ID.Name)
		u.write(": ")
		u.printType(d.Type)
		if d.Init != nil {
			u.write(" = ")
			u.printExp(d.Init)
		}
		u.write(";\n")
	case *ast.ClassDefn:
		u.doIndent(indent)
		u.write(d.ID.Name)
		u.write(" : custom {\n")
		for _, member := range d.Members {
			u.printDecl(member, indent+1)
		}
		u.doIndent(indent)
		u.write("};\n")
	case *ast.FnDecl:
		u.doIndent(indent)
		u.write(d.ID.Name)
		u.write(" : (")
		for i, formal := range d.Formals {
			if i > 0 {
				u.write(", ")
			}
			u.printFormal(formal)
		}
		u.write(") -> ")
		u.printType(d.RetType)
		u.write(" {\n")
		for _, s := range d.Body {
			u.printStmt(s, indent+1, Standalone)
		}
		u.doIndent(indent)
		u.write("}\n")
	default:
		panic(fmt.Sprintf("format: unknown declaration %T", d))
	}
}

func (u *Unparser) printFormal(formal *ast.FormalDecl) {
	u.write(formal.ID.Name)
	u.write(" : ")
	u.printType(formal.Type)
}

func (u *Unparser) printType(t ast.Type) {
	switch t := t.(type) {
	case *ast.IntType:
		u.write("int")
	case *ast.BoolType:
		u.write("bool")
	case *ast.VoidType:
		u.write("void")
	case *ast.ClassType:
		u.write(t.ID.Name)
	case *ast.ImmutableType:
		u.write("immutable ")
		u.printType(t.Sub)
	case *ast.RefType:
		u.write("ref ")
		u.printType(t.Sub)
	default:
		panic(fmt.Sprintf("format: unknown type %T", t))
	}
}

func (u *Unparser) printStmt(s ast.Stmt, indent int, mode RenderMode) {
	switch s := s.(type) {
	case ast.Decl:
		u.printDecl(s, indent)
	case *ast.Assign:
		u.doIndent(indent)
		u.printLoc(s.Target)
		u.write(" = ")
		u.printExp(s.Value)
		u.write(";\n")
	case *ast.CallStmt:
		if mode == Standalone {
			u.doIndent(indent)
		}
		u.printExp(s.Call)
		if mode == Standalone {
			u.write(";\n")
		}
	case *ast.Return:
		u.doIndent(indent)
		u.write("return")
		if s.Exp != nil {
			u.write(" ")
			u.printExp(s.Exp)
		}
		u.write(";\n")
	case *ast.Maybe:
		if mode == Standalone {
			u.doIndent(indent)
		}
		u.write("maybe ")
		u.printLoc(s.Target)
		u.write(" means ")
		u.printExp(s.Means)
		u.write(" otherwise ")
		u.printExp(s.Otherwise)
		if mode == Standalone {
			u.write(";\n")
		}
	case *ast.FromConsole:
		u.doIndent(indent)
		u.write("fromconsole ")
		u.printLoc(s.Target)
		u.write(";\n")
	case *ast.ToConsole:
		u.doIndent(indent)
		u.write("toconsole ")
		u.printExp(s.Src)
		u.write(";\n")
	case *ast.PostDec:
		if mode == Standalone {
			u.doIndent(indent)
		}
		u.printLoc(s.Target)
		u.write("--")
		if mode == Standalone {
			u.write(";\n")
		}
	case *ast.PostInc:
		if mode == Standalone {
			u.doIndent(indent)
		}
		u.printLoc(s.Target)
		u.write("++")
		if mode == Standalone {
			u.write(";\n")
		}
	case *ast.If:
		u.doIndent(indent)
		u.write("if (")
		u.printExp(s.Cond)
		u.write("){\n")
		for _, body := range s.Body {
			u.printStmt(body, indent+1, Standalone)
		}
		u.doIndent(indent)
		u.write("}\n")
	case *ast.IfElse:
		u.doIndent(indent)
		u.write("if (")
		u.printExp(s.Cond)
		u.write("){\n")
		for _, body := range s.Then {
			u.printStmt(body, indent+1, Standalone)
		}
		u.doIndent(indent)
		u.write("} else {\n")
		for _, body := range s.Else {
			u.printStmt(body, indent+1, Standalone)
		}
		u.doIndent(indent)
		u.write("}\n")
	case *ast.While:
		u.doIndent(indent)
		u.write("while (")
		u.printExp(s.Cond)
		u.write("){\n")
		for _, body := range s.Body {
			u.printStmt(body, indent+1, Standalone)
		}
		u.doIndent(indent)
		u.write("}\n")
	default:
		panic(fmt.Sprintf("format: unknown statement %T", s))
	}
}

func (u *Unparser) printExp(e ast.Exp) {
	switch e := e.(type) {
	case *ast.IntLit:
		u.write(strconv.Itoa(e.Value))
	case *ast.StrLit:
		u.write(e.Value)
	case *ast.True:
		u.write("true")
	case *ast.False:
		u.write("false")
	case *ast.Eh:
		u.write("eh?")
	case *ast.BinaryExp:
		u.printOperand(e.LHS)
		u.write(" ")
		u.write(e.Op.String())
		u.write(" ")
		u.printOperand(e.RHS)
	case *ast.UnaryExp:
		if e.Op == ast.Not {
			u.write("!")
		} else {
			u.write("-")
		}
		u.printOperand(e.Operand)
	case *ast.CallExp:
		u.printLoc(e.Callee)
		u.write("(")
		for i, arg := range e.Args {
			if i > 0 {
				u.write(", ")
			}
			u.printExp(arg)
		}
		u.write(")")
	case ast.Loc:
		u.printLoc(e)
	default:
		panic(fmt.Sprintf("format: unknown expression %T", e))
	}
}

// printOperand renders an expression in operand position. Everything
// except a bare literal parenthesizes itself, which guarantees the
// structural round-trip regardless of operator precedence.
func (u *Unparser) printOperand(e ast.Exp) {
	switch e.(type) {
	case *ast.IntLit, *ast.StrLit, *ast.True, *ast.False, *ast.Eh:
		u.printExp(e)
	default:
		u.write("(")
		u.printExp(e)
		u.write(")")
	}
}

func (u *Unparser) printLoc(l ast.Loc) {
	switch l := l.(type) {
	case *ast.ID:
		u.write(l.Name)
	case *ast.MemberLoc:
		u.printLoc(l.Base)
		u.write("->")
		u.write(l.Field.Name)
	default:
		panic(fmt.Sprintf("format: unknown location %T", l))
	}
}
