// errors.go — caret-snippet rendering for user-facing diagnostics.
//
// The pipeline stages only record a failure kind plus a position; turning
// that into something readable is this collaborator's job. WrapErrorWithName
// recognizes *LexError, *ParseError, and *RuntimeError and returns a new
// error whose message is a multi-line snippet with numbered context lines
// and a caret under the offending column:
//
//	PARSE ERROR in demo.crab at 2:14: expected ')' to close group
//
//	   1 | let x = 5
//	   2 | let y = (x + 1
//	     |              ^
//	   3 | exit y
//
// Any other error is returned unchanged. Columns are stored 0-based by the
// lexer and rendered 1-based here.
package crablang

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns err augmented with a caret-annotated snippet
// of src. Errors that are not crablang diagnostics pass through untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("demo.crab",
// "<repl>") included in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", snippet(src, "RUNTIME ERROR", srcName, e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// snippet builds the header plus up to one line of context on each side,
// with a caret under the 1-based column. Coordinates are clamped to the
// source bounds so a stale position can never break rendering.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
