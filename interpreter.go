// interpreter.go — tree-walking evaluator for CrabLang.
//
// Programs evaluate in environments (*Env) forming a lexical chain. The
// Interp exposes one well-known frame, Global: persistent program state for
// REPL-style use. Run and RunSource execute in a fresh child of Global, so
// one-shot programs leave Global untouched; EvalPersistentSource executes in
// Global itself.
//
// Early exit is not an exception: every statement-execution call returns an
// explicit control result (ctrl). An `exit` statement sets ctrl.exited and
// the code; callers stop walking their statement list and return, which
// drops each block's frame on the way out. The same path handles runtime
// errors, so frame release is identical for normal completion, exit
// unwinding, and failure.
package crablang

import (
	"errors"
	"fmt"
)

// RuntimeErrorKind distinguishes the runtime failure classes.
type RuntimeErrorKind int

const (
	RunUndefinedVariable RuntimeErrorKind = iota
	RunUseBeforeInit
	RunDivisionByZero
)

// RuntimeError is an execution-time failure with a source position.
type RuntimeError struct {
	Kind RuntimeErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func runtimeErr(kind RuntimeErrorKind, at Pos, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Line: at.Line, Col: at.Col, Msg: fmt.Sprintf(format, args...)}
}

// ctrl describes how a statement sequence finished: fell off the end, or
// hit an `exit` with the given code.
type ctrl struct {
	exited bool
	code   int64
}

// Result reports the outcome of a persistent (REPL) evaluation.
type Result struct {
	Exited   bool  // an exit statement ran
	Code     int64 // exit code, valid when Exited
	HasValue bool  // the chunk ended with at least one expression statement
	Value    int64 // value of the last expression statement
}

// Interp evaluates CrabLang programs against a scope chain.
type Interp struct {
	Global *Env

	lastVal    int64
	lastValSet bool
}

// NewInterp returns an interpreter with an empty Global environment.
func NewInterp() *Interp {
	return &Interp{Global: NewEnv(nil)}
}

// Run executes prog in a fresh child of Global and returns the program's
// exit code: the value of the first `exit` reached, or 0 if the program
// runs to completion without one.
func (ip *Interp) Run(prog *Program) (int, error) {
	c, err := ip.execStmts(prog.Stmts, NewEnv(ip.Global))
	if err != nil {
		return 0, err
	}
	if c.exited {
		return int(c.code), nil
	}
	return 0, nil
}

// EvalPersistentSource parses and executes source in Global (REPL-style):
// lets and assignments persist across calls. The Result carries the last
// expression-statement value for echoing, and whether an `exit` fired.
func (ip *Interp) EvalPersistentSource(src string) (Result, error) {
	prog, err := Parse(src)
	if err != nil {
		return Result{}, err
	}
	ip.lastValSet = false
	c, err := ip.execStmts(prog.Stmts, ip.Global)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Exited:   c.exited,
		Code:     c.code,
		HasValue: ip.lastValSet,
		Value:    ip.lastVal,
	}, nil
}

// RunSource is the one-shot entry point: tokenize, parse, and run src,
// returning the exit code. Failures come back wrapped with a caret snippet
// naming the source (see errors.go); the accompanying code is 1.
func RunSource(name, src string) (int, error) {
	prog, err := Parse(src)
	if err != nil {
		return 1, WrapErrorWithName(err, name, src)
	}
	code, err := NewInterp().Run(prog)
	if err != nil {
		return 1, WrapErrorWithName(err, name, src)
	}
	return code, nil
}

// ----- statement execution -----

func (ip *Interp) execStmts(stmts []Stmt, env *Env) (ctrl, error) {
	for _, s := range stmts {
		c, err := ip.execStmt(s, env)
		if err != nil {
			return ctrl{}, err
		}
		if c.exited {
			return c, nil
		}
	}
	return ctrl{}, nil
}

func (ip *Interp) execStmt(s Stmt, env *Env) (ctrl, error) {
	switch s := s.(type) {
	case *LetStmt:
		if s.Init == nil {
			env.Define(s.Name)
			return ctrl{}, nil
		}
		v, err := ip.eval(s.Init, env)
		if err != nil {
			return ctrl{}, err
		}
		env.DefineInit(s.Name, v)
		return ctrl{}, nil

	case *AssignStmt:
		v, err := ip.eval(s.Value, env)
		if err != nil {
			return ctrl{}, err
		}
		if err := env.Set(s.Name, v); err != nil {
			return ctrl{}, runtimeErr(RunUndefinedVariable, s.Pos,
				"assignment to undeclared variable %q", s.Name)
		}
		return ctrl{}, nil

	case *ExprStmt:
		v, err := ip.eval(s.X, env)
		if err != nil {
			return ctrl{}, err
		}
		ip.lastVal, ip.lastValSet = v, true
		return ctrl{}, nil

	case *IfStmt:
		cond, err := ip.eval(s.Cond, env)
		if err != nil {
			return ctrl{}, err
		}
		if cond == 0 {
			return ctrl{}, nil
		}
		return ip.execStmts(s.Body.Stmts, NewEnv(env))

	case *BlockStmt:
		return ip.execStmts(s.Stmts, NewEnv(env))

	case *ExitStmt:
		code, err := ip.eval(s.Code, env)
		if err != nil {
			return ctrl{}, err
		}
		return ctrl{exited: true, code: code}, nil
	}
	panic(fmt.Sprintf("unhandled statement %T", s))
}

// ----- expression evaluation -----

func (ip *Interp) eval(e Expr, env *Env) (int64, error) {
	switch e := e.(type) {
	case *IntLit:
		return e.Value, nil

	case *VarRef:
		v, err := env.Get(e.Name)
		if err != nil {
			return 0, varError(err, e)
		}
		return v, nil

	case *UnaryExpr:
		v, err := ip.eval(e.X, env)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case *BinaryExpr:
		l, err := ip.eval(e.L, env)
		if err != nil {
			return 0, err
		}
		r, err := ip.eval(e.R, env)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case PLUS:
			return l + r, nil
		case MINUS:
			return l - r, nil
		case MULT:
			return l * r, nil
		case DIV:
			if r == 0 {
				return 0, runtimeErr(RunDivisionByZero, e.Pos, "division by zero")
			}
			return l / r, nil
		case EQ:
			return boolToInt(l == r), nil
		case NEQ:
			return boolToInt(l != r), nil
		case LESS:
			return boolToInt(l < r), nil
		case LESS_EQ:
			return boolToInt(l <= r), nil
		case GREATER:
			return boolToInt(l > r), nil
		case GREATER_EQ:
			return boolToInt(l >= r), nil
		}
		panic(fmt.Sprintf("unhandled binary operator %v", e.Op))
	}
	panic(fmt.Sprintf("unhandled expression %T", e))
}

// varError maps an Env lookup failure to a positioned RuntimeError.
func varError(err error, ref *VarRef) *RuntimeError {
	if errors.Is(err, ErrUninitialized) {
		return runtimeErr(RunUseBeforeInit, ref.Pos,
			"variable %q read before initialization", ref.Name)
	}
	return runtimeErr(RunUndefinedVariable, ref.Pos,
		"undefined variable %q", ref.Name)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
