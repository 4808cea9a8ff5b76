// lexer.go — scanner for CrabLang source.
package crablang

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LROUND // "("
	RROUND // ")"
	LCURLY // "{"
	RCURLY // "}"

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ

	// Literals & identifiers
	ID
	INTLIT

	// Keywords
	LET
	IF
	EXIT
)

// tokenNames maps token types to a display form for diagnostics.
var tokenNames = map[TokenType]string{
	EOF:        "end of input",
	ILLEGAL:    "illegal token",
	LROUND:     "'('",
	RROUND:     "')'",
	LCURLY:     "'{'",
	RCURLY:     "'}'",
	PLUS:       "'+'",
	MINUS:      "'-'",
	MULT:       "'*'",
	DIV:        "'/'",
	ASSIGN:     "'='",
	EQ:         "'=='",
	NEQ:        "'!='",
	LESS:       "'<'",
	LESS_EQ:    "'<='",
	GREATER:    "'>'",
	GREATER_EQ: "'>='",
	ID:         "identifier",
	INTLIT:     "integer literal",
	LET:        "'let'",
	IF:         "'if'",
	EXIT:       "'exit'",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(tt))
}

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for INTLIT (int64)
	Line    int         // 1-based
	Col     int         // 0-based column within line
}

// keywords map
var keywords = map[string]TokenType{
	"let":  LET,
	"if":   IF,
	"exit": EXIT,
}

// Lexer scans a CrabLang source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) rewindToStart() {
	// The dispatch in scanToken has already advanced past the first byte;
	// put the position counters back too, or every re-consumed byte would
	// drift col by one for the rest of the line.
	l.cur = l.start
	l.line = l.tokStartLine
	l.col = l.tokStartCol
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	lex := l.src[l.start:l.cur]
	tok := Token{
		Type:    tt,
		Lexeme:  lex,
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

// isBoundary reports bytes that may legally follow a numeral: whitespace,
// punctuation, and operator starts.
func isBoundary(b byte) bool {
	switch b {
	case ' ', '\r', '\n', '\t', '(', ')', '{', '}', '+', '-', '*', '/', '=', '!', '<', '>':
		return true
	}
	return false
}

// ----- errors -----

// LexErrorKind distinguishes the lexical failure classes.
type LexErrorKind int

const (
	LexUnknownChar LexErrorKind = iota
	LexInvalidNumber
)

type LexError struct {
	Kind LexErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (l *Lexer) err(kind LexErrorKind, msg string) error {
	return &LexError{Kind: kind, Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

// ----- scanners -----

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// scanNumber parses a run of decimal digits. Leading zeros are allowed and
// the value is read as plain base-10 ("0000132" is 132). A digit run that
// runs directly into anything other than whitespace, a delimiter, or an
// operator is malformed ("135ab32", "135@").
func (l *Lexer) scanNumber() (lit int64, err error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && !isBoundary(b) {
		// Consume the trailing junk so the error covers the whole run.
		for {
			b, ok := l.peek()
			if !ok || isBoundary(b) {
				break
			}
			l.advance()
		}
		return 0, l.err(LexInvalidNumber, fmt.Sprintf("malformed numeral: %q", l.src[l.start:l.cur]))
	}
	lex := l.src[l.start:l.cur]
	v, convErr := strconv.ParseInt(lex, 10, 64)
	if convErr != nil {
		return 0, l.err(LexInvalidNumber, fmt.Sprintf("invalid integer literal: %q", lex))
	}
	return v, nil
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	l.skipWhitespace()
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF, nil), nil
	}

	ch, _ := l.advance()

	// Single-char tokens & punctuation
	switch ch {
	case '(':
		return l.addToken(LROUND, nil), nil
	case ')':
		return l.addToken(RROUND, nil), nil
	case '{':
		return l.addToken(LCURLY, nil), nil
	case '}':
		return l.addToken(RCURLY, nil), nil
	case '+':
		return l.addToken(PLUS, nil), nil
	case '-':
		return l.addToken(MINUS, nil), nil
	case '*':
		return l.addToken(MULT, nil), nil
	case '/':
		return l.addToken(DIV, nil), nil
	}

	// Two-char operators and their one-char fallbacks. The two-char forms
	// match greedily, before the prefixes.
	switch ch {
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(EQ, nil), nil
		}
		return l.addToken(ASSIGN, nil), nil
	case '!':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(NEQ, nil), nil
		}
		// No unary logical negation in the language; a lone '!' is illegal.
		return Token{}, l.err(LexUnknownChar, "unexpected character '!' ('!' is only valid as part of '!=')")
	case '<':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(LESS_EQ, nil), nil
		}
		return l.addToken(LESS, nil), nil
	case '>':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(GREATER_EQ, nil), nil
		}
		return l.addToken(GREATER, nil), nil
	}

	// Numbers (starting with digit)
	if isDigit(ch) {
		l.rewindToStart()
		v, err := l.scanNumber()
		if err != nil {
			return Token{}, err
		}
		return l.addToken(INTLIT, v), nil
	}

	// Identifiers / Keywords
	if isAlpha(ch) {
		l.rewindToStart()
		lex := l.scanIdentifier()
		if tt, ok := keywords[lex]; ok {
			return l.addToken(tt, nil), nil
		}
		return l.addToken(ID, nil), nil
	}

	return Token{}, l.err(LexUnknownChar, fmt.Sprintf("unexpected character: %q", ch))
}

// Scan tokenizes the entire source and returns tokens (EOF included).
// It aborts at the first lexical error; no partial stream is returned.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
