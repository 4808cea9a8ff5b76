// parser.go — recursive-descent parser for CrabLang.
//
// Statements are parsed by dispatch on one token of lookahead; the single
// exception is telling `x = ...` (assignment) apart from `x` at the head of
// an expression statement, which peeks one token past the identifier.
//
// Expressions use precedence climbing with four tiers, lowest to highest
// binding power:
//
//	compare:  == != < <= > >=   (left-associative; chains fold left)
//	add:      + -
//	mult:     * /
//	term:     INTLIT | ID | '-' term | '(' expression ')'
//
// The documented grammar's left recursion (RExp -> RExp + RExp) is replaced
// by the iterative folds below, resolving every binary tier to
// left-associative. Parenthesized groups are collapsed: the tree keeps no
// Paren node, the printer re-derives parentheses from precedence.
//
// In interactive mode, running out of tokens inside an open construct
// surfaces a *ParseError with Kind DiagIncomplete instead of a hard error,
// so a REPL can keep prompting for the rest of the input.
package crablang

import "fmt"

// ParseErrorKind distinguishes hard parse failures from incomplete input.
type ParseErrorKind int

const (
	DiagParse ParseErrorKind = iota
	DiagIncomplete
)

type ParseError struct {
	Kind ParseErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err marks input that stopped mid-construct
// (REPL continuation signal).
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Kind == DiagIncomplete
}

// Parse tokenizes and parses a complete CrabLang source string.
func Parse(src string) (*Program, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	return parseTokens(toks)
}

// ParseInteractive parses in REPL-friendly mode: unterminated constructs at
// EOF produce *ParseError{Kind: DiagIncomplete}.
func ParseInteractive(src string) (*Program, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, interactive: true}
	return p.program()
}

// parseTokens parses an already-scanned token stream (must end with EOF).
func parseTokens(toks []Token) (*Program, error) {
	p := &parser{toks: toks}
	return p.program()
}

type parser struct {
	toks        []Token
	i           int
	interactive bool
}

// ----- token basics & helpers -----

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

// peekNext looks one token past the current one (two-token lookahead,
// needed only for the `ID =` assignment case).
func (p *parser) peekNext() Token {
	if p.i+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+1]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) match(tt ...TokenType) bool {
	if p.atEnd() {
		return false
	}
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType, msg string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	return Token{}, p.errAt(p.peek(), msg)
}

func (p *parser) errAt(tok Token, msg string) *ParseError {
	kind := DiagParse
	if tok.Type == EOF && p.interactive {
		kind = DiagIncomplete
	}
	return &ParseError{Kind: kind, Line: tok.Line, Col: tok.Col, Msg: msg}
}

func posOf(tok Token) Pos { return Pos{Line: tok.Line, Col: tok.Col} }

// ----- statements -----

func (p *parser) program() (*Program, error) {
	prog := &Program{}
	for !p.atEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, s)
	}
	return prog, nil
}

func (p *parser) statement() (Stmt, error) {
	switch p.peek().Type {
	case LET:
		return p.letStmt()
	case IF:
		return p.ifStmt()
	case LCURLY:
		blk, err := p.blockStmt()
		if err != nil {
			return nil, err
		}
		return blk, nil
	case EXIT:
		return p.exitStmt()
	case ID:
		if p.peekNext().Type == ASSIGN {
			return p.assignStmt()
		}
	}
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{X: x}, nil
}

// letStmt parses `let ID` or `let ID = RExp`. The initializer is optional;
// without one the binding starts out uninitialized.
func (p *parser) letStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // consume 'let'
	name, err := p.need(ID, "expected identifier after 'let'")
	if err != nil {
		return nil, err
	}
	s := &LetStmt{Name: name.Lexeme, Pos: posOf(kw)}
	if p.match(ASSIGN) {
		s.Init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *parser) assignStmt() (Stmt, error) {
	name := p.peek()
	p.i += 2 // consume ID '='
	v, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &AssignStmt{Name: name.Lexeme, Value: v, Pos: posOf(name)}, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // consume 'if'
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != LCURLY {
		return nil, p.errAt(p.peek(), "expected '{' after if condition")
	}
	body, err := p.blockStmt()
	if err != nil {
		return nil, err
	}
	return &IfStmt{Cond: cond, Body: body, Pos: posOf(kw)}, nil
}

func (p *parser) exitStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // consume 'exit'
	code, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ExitStmt{Code: code, Pos: posOf(kw)}, nil
}

// blockStmt parses `{ stmt* }`. A missing '}' is fatal; the block is never
// implicitly closed.
func (p *parser) blockStmt() (*BlockStmt, error) {
	open, err := p.need(LCURLY, "expected '{'")
	if err != nil {
		return nil, err
	}
	blk := &BlockStmt{Pos: posOf(open)}
	for p.peek().Type != RCURLY {
		if p.atEnd() {
			return nil, p.errAt(p.peek(), "expected '}' to close block")
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, s)
	}
	p.i++ // consume '}'
	return blk, nil
}

// ----- expressions (precedence climbing) -----

// expression is the compare tier: the lowest binding power, entered from
// every statement form and re-entered by parenthesized groups.
func (p *parser) expression() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.match(EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ) {
		op := p.prev()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Type, L: left, R: right, Pos: posOf(op)}
	}
	return left, nil
}

func (p *parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.match(PLUS, MINUS) {
		op := p.prev()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Type, L: left, R: right, Pos: posOf(op)}
	}
	return left, nil
}

func (p *parser) multiplicative() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(MULT, DIV) {
		op := p.prev()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Type, L: left, R: right, Pos: posOf(op)}
	}
	return left, nil
}

// term parses the highest tier: literals, variable reads, unary minus
// (which binds tighter than every binary operator and recurses into
// another term), and parenthesized groups recursing back to tier 1.
func (p *parser) term() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case INTLIT:
		p.i++
		return &IntLit{Value: tok.Literal.(int64), Pos: posOf(tok)}, nil
	case ID:
		p.i++
		return &VarRef{Name: tok.Lexeme, Pos: posOf(tok)}, nil
	case MINUS:
		p.i++
		x, err := p.term()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: MINUS, X: x, Pos: posOf(tok)}, nil
	case LROUND:
		p.i++
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "expected ')' to close group"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, p.errAt(tok, fmt.Sprintf("unexpected %s; expected an expression", describe(tok)))
}

// describe renders a token for error messages.
func describe(tok Token) string {
	switch tok.Type {
	case ID:
		return fmt.Sprintf("identifier %q", tok.Lexeme)
	case EOF:
		return "end of input"
	default:
		return tok.Type.String()
	}
}
