// parser_test.go
package crablang

import (
	"errors"
	"testing"
)

func parseProg(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return prog
}

func wantParseErr(t *testing.T, src string) *ParseError {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected parse error for:\n%s", src)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	return pe
}

// binOp unwraps e as a BinaryExpr with the given operator.
func binOp(t *testing.T, e Expr, op TokenType) *BinaryExpr {
	t.Helper()
	b, ok := e.(*BinaryExpr)
	if !ok {
		t.Fatalf("want *BinaryExpr, got %T", e)
	}
	if b.Op != op {
		t.Fatalf("want operator %v, got %v", op, b.Op)
	}
	return b
}

func intLit(t *testing.T, e Expr, v int64) {
	t.Helper()
	lit, ok := e.(*IntLit)
	if !ok {
		t.Fatalf("want *IntLit, got %T", e)
	}
	if lit.Value != v {
		t.Fatalf("want literal %d, got %d", v, lit.Value)
	}
}

func Test_Parser_LetForms(t *testing.T) {
	prog := parseProg(t, "let a\nlet b = 7")
	if len(prog.Stmts) != 2 {
		t.Fatalf("want 2 statements, got %d", len(prog.Stmts))
	}
	decl := prog.Stmts[0].(*LetStmt)
	if decl.Name != "a" || decl.Init != nil {
		t.Fatalf("bare let: %+v", decl)
	}
	init := prog.Stmts[1].(*LetStmt)
	if init.Name != "b" || init.Init == nil {
		t.Fatalf("let with init: %+v", init)
	}
	intLit(t, init.Init, 7)
}

func Test_Parser_AssignVsExprStmt(t *testing.T) {
	// `x = 1` needs the two-token peek; bare `x` is an expression statement.
	prog := parseProg(t, "x = 1\nx")
	if _, ok := prog.Stmts[0].(*AssignStmt); !ok {
		t.Fatalf("want AssignStmt, got %T", prog.Stmts[0])
	}
	es, ok := prog.Stmts[1].(*ExprStmt)
	if !ok {
		t.Fatalf("want ExprStmt, got %T", prog.Stmts[1])
	}
	if _, ok := es.X.(*VarRef); !ok {
		t.Fatalf("want VarRef expression, got %T", es.X)
	}
}

func Test_Parser_AssignVsEquality(t *testing.T) {
	// `x == 1` must not be mistaken for an assignment.
	prog := parseProg(t, "x == 1")
	es := prog.Stmts[0].(*ExprStmt)
	binOp(t, es.X, EQ)
}

func Test_Parser_AddIsLeftAssociative(t *testing.T) {
	prog := parseProg(t, "1 - 2 + 3")
	// ((1 - 2) + 3)
	add := binOp(t, prog.Stmts[0].(*ExprStmt).X, PLUS)
	sub := binOp(t, add.L, MINUS)
	intLit(t, sub.L, 1)
	intLit(t, sub.R, 2)
	intLit(t, add.R, 3)
}

func Test_Parser_MultBindsTighterThanAdd(t *testing.T) {
	prog := parseProg(t, "2 + 3 * 4")
	add := binOp(t, prog.Stmts[0].(*ExprStmt).X, PLUS)
	intLit(t, add.L, 2)
	mul := binOp(t, add.R, MULT)
	intLit(t, mul.L, 3)
	intLit(t, mul.R, 4)
}

func Test_Parser_ParensOverridePrecedence(t *testing.T) {
	prog := parseProg(t, "1 - (2 + 3)")
	sub := binOp(t, prog.Stmts[0].(*ExprStmt).X, MINUS)
	intLit(t, sub.L, 1)
	add := binOp(t, sub.R, PLUS)
	intLit(t, add.L, 2)
	intLit(t, add.R, 3)
}

func Test_Parser_UnaryMinusBindsTightest(t *testing.T) {
	// -2 * 3 is (-2) * 3.
	prog := parseProg(t, "-2 * 3")
	mul := binOp(t, prog.Stmts[0].(*ExprStmt).X, MULT)
	neg, ok := mul.L.(*UnaryExpr)
	if !ok {
		t.Fatalf("want UnaryExpr on the left, got %T", mul.L)
	}
	intLit(t, neg.X, 2)
	intLit(t, mul.R, 3)

	// 2 - -3: unary on the right of binary minus.
	prog = parseProg(t, "2 - -3")
	sub := binOp(t, prog.Stmts[0].(*ExprStmt).X, MINUS)
	if _, ok := sub.R.(*UnaryExpr); !ok {
		t.Fatalf("want UnaryExpr on the right, got %T", sub.R)
	}
}

func Test_Parser_ChainedComparisons(t *testing.T) {
	// Comparison chains fold left: (a < b) < c.
	prog := parseProg(t, "a < b < c")
	outer := binOp(t, prog.Stmts[0].(*ExprStmt).X, LESS)
	binOp(t, outer.L, LESS)
	if _, ok := outer.R.(*VarRef); !ok {
		t.Fatalf("want VarRef on the right, got %T", outer.R)
	}
}

func Test_Parser_IfRequiresBlock(t *testing.T) {
	prog := parseProg(t, "if a == 1 { exit 3 }")
	ifs := prog.Stmts[0].(*IfStmt)
	binOp(t, ifs.Cond, EQ)
	if len(ifs.Body.Stmts) != 1 {
		t.Fatalf("if body: %+v", ifs.Body)
	}
	pe := wantParseErr(t, "if a == 1 exit 3")
	if pe.Kind != DiagParse {
		t.Fatalf("want hard parse error, got %v", pe)
	}
}

func Test_Parser_NestedBlocks(t *testing.T) {
	prog := parseProg(t, "{ let a = 1 { let a = 2 } }")
	outer := prog.Stmts[0].(*BlockStmt)
	if len(outer.Stmts) != 2 {
		t.Fatalf("outer block: %d statements", len(outer.Stmts))
	}
	if _, ok := outer.Stmts[1].(*BlockStmt); !ok {
		t.Fatalf("want nested BlockStmt, got %T", outer.Stmts[1])
	}
}

func Test_Parser_UnterminatedBlock(t *testing.T) {
	wantParseErr(t, "{ let a = 1")
	wantParseErr(t, "if 1 { exit 2")
}

func Test_Parser_MissingCloseParen(t *testing.T) {
	wantParseErr(t, "exit (1 + 2")
}

func Test_Parser_LetRequiresIdent(t *testing.T) {
	wantParseErr(t, "let 5 = 3")
	wantParseErr(t, "let")
}

func Test_Parser_Interactive_IncompleteAtEOF(t *testing.T) {
	for _, src := range []string{"{ let a = 1", "if 1 {", "exit (1 + 2", "let"} {
		_, err := ParseInteractive(src)
		if err == nil {
			t.Fatalf("expected error for %q", src)
		}
		if !IsIncomplete(err) {
			t.Fatalf("want incomplete diagnostic for %q, got %v", src, err)
		}
	}
	// A hard error stays hard even interactively.
	_, err := ParseInteractive("let 5 = 3")
	if err == nil || IsIncomplete(err) {
		t.Fatalf("want hard parse error, got %v", err)
	}
}

func Test_Parser_ErrorPositions(t *testing.T) {
	pe := wantParseErr(t, "exit +")
	if pe.Line != 1 || pe.Col != 5 {
		t.Fatalf("error position: got %d:%d", pe.Line, pe.Col)
	}
}
