// lexer_test.go
package crablang

import (
	"errors"
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src)
	ts, err := l.Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func wantLexErr(t *testing.T, src string, kind LexErrorKind) *LexError {
	t.Helper()
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("expected lex error for %q, got none", src)
	}
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	if le.Kind != kind {
		t.Fatalf("wrong error kind for %q: got %d want %d (%v)", src, le.Kind, kind, le)
	}
	return le
}

func Test_Lexer_KeywordsAndIdents(t *testing.T) {
	src := `let answer = 42
if answer { exit answer }
lettuce iffy exits`
	wantTypes(t, src, []TokenType{
		LET, ID, ASSIGN, INTLIT,
		IF, ID, LCURLY, EXIT, ID, RCURLY,
		ID, ID, ID,
	})
}

func Test_Lexer_IntLiteral_Value(t *testing.T) {
	ts := wantTypes(t, "1337", []TokenType{INTLIT})
	if ts[0].Literal.(int64) != 1337 {
		t.Fatalf("want 1337, got %v", ts[0].Literal)
	}
}

func Test_Lexer_IntLiteral_LeadingZeros(t *testing.T) {
	ts := wantTypes(t, "0000132", []TokenType{INTLIT})
	if ts[0].Literal.(int64) != 132 {
		t.Fatalf("leading zeros: want 132, got %v", ts[0].Literal)
	}
}

func Test_Lexer_Operators_GreedyTwoChar(t *testing.T) {
	wantTypes(t, "== != <= >= = < > + - * / ( ) { }", []TokenType{
		EQ, NEQ, LESS_EQ, GREATER_EQ, ASSIGN, LESS, GREATER,
		PLUS, MINUS, MULT, DIV, LROUND, RROUND, LCURLY, RCURLY,
	})
	// No space: the two-char forms still win over their prefixes.
	wantTypes(t, "a<=b==c", []TokenType{ID, LESS_EQ, ID, EQ, ID})
}

func Test_Lexer_MalformedNumeral(t *testing.T) {
	le := wantLexErr(t, "let x = 135ab32", LexInvalidNumber)
	if le.Line != 1 || le.Col != 8 {
		t.Fatalf("error position: got %d:%d", le.Line, le.Col)
	}
}

func Test_Lexer_NumberThenOperator_OK(t *testing.T) {
	// A delimiter or operator directly after digits is fine.
	wantTypes(t, "12+3", []TokenType{INTLIT, PLUS, INTLIT})
	wantTypes(t, "(12)", []TokenType{LROUND, INTLIT, RROUND})
}

func Test_Lexer_BangAlone_IsError(t *testing.T) {
	wantLexErr(t, "let x = !1", LexUnknownChar)
}

func Test_Lexer_UnknownChar(t *testing.T) {
	le := wantLexErr(t, "let @x = 1", LexUnknownChar)
	if le.Col != 4 {
		t.Fatalf("error column: got %d want 4", le.Col)
	}
}

func Test_Lexer_Positions(t *testing.T) {
	ts := toks(t, "let a\nexit a")
	// 'exit' starts line 2, column 0.
	if ts[2].Type != EXIT || ts[2].Line != 2 || ts[2].Col != 0 {
		t.Fatalf("exit token position: %+v", ts[2])
	}
	if ts[3].Type != ID || ts[3].Line != 2 || ts[3].Col != 5 {
		t.Fatalf("ident token position: %+v", ts[3])
	}
}

func Test_Lexer_ColumnsStayExactAcrossLine(t *testing.T) {
	// Idents and numbers rewind one byte before scanning; a miscounted
	// rewind would shift every later column on the line by one per token.
	ts := toks(t, "let abc = 12 + cnt")
	want := []struct {
		typ TokenType
		col int
	}{
		{LET, 0}, {ID, 4}, {ASSIGN, 8}, {INTLIT, 10}, {PLUS, 13}, {ID, 15},
	}
	for i, w := range want {
		if ts[i].Type != w.typ || ts[i].Col != w.col {
			t.Fatalf("token %d: got %v at col %d, want %v at col %d", i, ts[i].Type, ts[i].Col, w.typ, w.col)
		}
	}
}

func Test_Lexer_NumeralJunkFollower(t *testing.T) {
	// Any non-delimiter follower makes the run malformed, letters or not.
	le := wantLexErr(t, "exit 135@", LexInvalidNumber)
	if le.Line != 1 || le.Col != 5 {
		t.Fatalf("error position: got %d:%d", le.Line, le.Col)
	}
	wantLexErr(t, "135#6", LexInvalidNumber)
}

func Test_Lexer_EOFAlwaysEmitted(t *testing.T) {
	ts := toks(t, "")
	if len(ts) != 1 || ts[0].Type != EOF {
		t.Fatalf("empty source: want single EOF, got %v", ts)
	}
	ts = toks(t, "   \n\t ")
	if len(ts) != 1 || ts[0].Type != EOF {
		t.Fatalf("blank source: want single EOF, got %v", ts)
	}
}
