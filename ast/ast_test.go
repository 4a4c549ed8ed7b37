package ast

import "testing"

func TestMerge(t *testing.T) {
	a := Span{
		Start: Position{Line: 1, Column: 1},
		End:   Position{Line: 1, Column: 4},
	}
	b := Span{
		Start: Position{Line: 3, Column: 2},
		End:   Position{Line: 3, Column: 9},
	}
	merged := Merge(a, b)
	if merged.Start != a.Start {
		t.Errorf("merged start is %v, want %v", merged.Start, a.Start)
	}
	if merged.End != b.End {
		t.Errorf("merged end is %v, want %v", merged.End, b.End)
	}
	if got, want := merged.String(), "1:1-3:9"; got != want {
		t.Errorf("merged span renders as %q, want %q", got, want)
	}
}

func TestBinOpString(t *testing.T) {
	tests := []struct {
		op   BinOp
		want string
	}{
		{Plus, "+"},
		{Minus, "-"},
		{Times, "*"},
		{Divide, "/"},
		{And, "and"},
		{Or, "or"},
		{Eq, "=="},
		{NotEq, "!="},
		{Less, "<"},
		{LessEq, "<="},
		{Greater, ">"},
		{GreaterEq, ">="},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("op %d renders as %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestDeclIsStmt(t *testing.T) {
	// Variable declarations appear in statement position inside
	// function bodies; the interfaces must reflect that.
	var s Stmt = &VarDecl{}
	if _, ok := s.(Decl); !ok {
		t.Error("VarDecl does not satisfy Decl through Stmt")
	}
	var e Exp = &ID{}
	if _, ok := e.(Loc); !ok {
		t.Error("ID does not satisfy Loc through Exp")
	}
}
