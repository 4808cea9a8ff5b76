// printer.go — canonical textual rendering of a parsed program.
//
// The parser collapses parentheses, so the printer re-derives them from
// operator precedence: an operand is parenthesized exactly when printing it
// bare would re-associate under the left-associative grammar. Formatting a
// program and re-parsing the output therefore yields a structurally
// identical tree, which the formatter tests rely on. Used by `crab fmt` and
// as a test aid.
package crablang

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// FormatProgram renders prog as canonical source, one statement per line,
// blocks indented by four spaces, trailing newline included.
func FormatProgram(prog *Program) string {
	var b strings.Builder
	for _, s := range prog.Stmts {
		writeStmt(&b, s, 0)
	}
	return b.String()
}

// FormatExpr renders a single expression with minimal parentheses.
func FormatExpr(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e, 0, false)
	return b.String()
}

func writeStmt(b *strings.Builder, s Stmt, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	switch s := s.(type) {
	case *LetStmt:
		if s.Init == nil {
			fmt.Fprintf(b, "%slet %s\n", ind, s.Name)
		} else {
			fmt.Fprintf(b, "%slet %s = %s\n", ind, s.Name, FormatExpr(s.Init))
		}
	case *AssignStmt:
		fmt.Fprintf(b, "%s%s = %s\n", ind, s.Name, FormatExpr(s.Value))
	case *ExprStmt:
		fmt.Fprintf(b, "%s%s\n", ind, FormatExpr(s.X))
	case *IfStmt:
		fmt.Fprintf(b, "%sif %s {\n", ind, FormatExpr(s.Cond))
		for _, inner := range s.Body.Stmts {
			writeStmt(b, inner, depth+1)
		}
		fmt.Fprintf(b, "%s}\n", ind)
	case *BlockStmt:
		fmt.Fprintf(b, "%s{\n", ind)
		for _, inner := range s.Stmts {
			writeStmt(b, inner, depth+1)
		}
		fmt.Fprintf(b, "%s}\n", ind)
	case *ExitStmt:
		fmt.Fprintf(b, "%sexit %s\n", ind, FormatExpr(s.Code))
	default:
		panic(fmt.Sprintf("unhandled statement %T", s))
	}
}

// Binding powers for rendering; must order exactly like the parser tiers.
const (
	precCompare = 1
	precAdd     = 2
	precMult    = 3
	precLeaf    = 4
)

func opPrec(op TokenType) int {
	switch op {
	case EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ:
		return precCompare
	case PLUS, MINUS:
		return precAdd
	case MULT, DIV:
		return precMult
	}
	panic(fmt.Sprintf("not a binary operator: %v", op))
}

var opText = map[TokenType]string{
	PLUS:       "+",
	MINUS:      "-",
	MULT:       "*",
	DIV:        "/",
	EQ:         "==",
	NEQ:        "!=",
	LESS:       "<",
	LESS_EQ:    "<=",
	GREATER:    ">",
	GREATER_EQ: ">=",
}

// writeExpr renders e as it appears under a parent of the given precedence.
// rightSide marks the right operand of a binary node: equal precedence
// there needs parentheses (left-associativity), on the left it does not.
func writeExpr(b *strings.Builder, e Expr, parentPrec int, rightSide bool) {
	switch e := e.(type) {
	case *IntLit:
		fmt.Fprintf(b, "%d", e.Value)
	case *VarRef:
		b.WriteString(e.Name)
	case *UnaryExpr:
		b.WriteByte('-')
		if _, bin := e.X.(*BinaryExpr); bin {
			b.WriteByte('(')
			writeExpr(b, e.X, 0, false)
			b.WriteByte(')')
		} else {
			writeExpr(b, e.X, precLeaf, false)
		}
	case *BinaryExpr:
		p := opPrec(e.Op)
		parens := p < parentPrec || (p == parentPrec && rightSide)
		if parens {
			b.WriteByte('(')
		}
		writeExpr(b, e.L, p, false)
		fmt.Fprintf(b, " %s ", opText[e.Op])
		writeExpr(b, e.R, p, true)
		if parens {
			b.WriteByte(')')
		}
	default:
		panic(fmt.Sprintf("unhandled expression %T", e))
	}
}
