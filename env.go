// env.go — lexical scope chain for the evaluator.
//
// An Env is one binding frame with a parent link; the chain grows on block
// entry and shrinks on block exit (the child frame is simply dropped, the
// parent chain is untouched). Cells are mutable 64-bit integers plus an
// initialized flag, because `let x` without an initializer produces a live
// but unreadable binding until the first assignment.
package crablang

import (
	"errors"
	"fmt"
)

// Env errors. The evaluator turns these into *RuntimeError with positions.
var (
	ErrUndefined     = errors.New("undefined variable")
	ErrUninitialized = errors.New("use of uninitialized variable")
)

type binding struct {
	value       int64
	initialized bool
}

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward, innermost first.
type Env struct {
	parent *Env
	table  map[string]*binding
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]*binding)}
}

// Define binds name in the current frame as uninitialized, shadowing any
// outer binding. Redeclaring a name in the same frame rebinds it with a
// fresh cell; this is not an error.
func (e *Env) Define(name string) {
	e.table[name] = &binding{}
}

// DefineInit binds name in the current frame with an initial value.
// Same shadowing and rebinding rules as Define.
func (e *Env) DefineInit(name string, v int64) {
	e.table[name] = &binding{value: v, initialized: true}
}

// Get retrieves the nearest visible binding for name. Unbound names and
// bindings that were declared but never written both fail.
func (e *Env) Get(name string) (int64, error) {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.table[name]; ok {
			if !b.initialized {
				return 0, fmt.Errorf("%w: %s", ErrUninitialized, name)
			}
			return b.value, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUndefined, name)
}

// Set updates the nearest existing binding of name in place. It never
// implicitly defines; writing an unbound name fails. Writing a binding that
// was declared without an initializer initializes it.
func (e *Env) Set(name string, v int64) error {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.table[name]; ok {
			b.value = v
			b.initialized = true
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUndefined, name)
}

// Has reports whether name is visible from this frame (initialized or not).
func (e *Env) Has(name string) bool {
	for f := e; f != nil; f = f.parent {
		if _, ok := f.table[name]; ok {
			return true
		}
	}
	return false
}
