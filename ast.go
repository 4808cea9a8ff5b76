// ast.go — syntax tree for CrabLang programs.
//
// The tree is strictly owned top-down: a parent uniquely owns its children,
// there is no sharing and no cycles. Every node carries the position of its
// leading (or operator) token so later stages can report locations without
// keeping the token stream around.
package crablang

// Pos is a source position: 1-based line, 0-based column.
type Pos struct {
	Line int
	Col  int
}

// Program is an ordered sequence of top-level statements.
type Program struct {
	Stmts []Stmt
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	stmtNode()
}

// LetStmt declares a name in the current frame. Init == nil means the
// binding starts out uninitialized; reading it before a later assignment
// is a runtime error.
type LetStmt struct {
	Name string
	Init Expr // may be nil
	Pos  Pos
}

// AssignStmt mutates the nearest existing binding of Name in place.
// It never declares.
type AssignStmt struct {
	Name  string
	Value Expr
	Pos   Pos
}

// ExprStmt evaluates X and discards the result.
type ExprStmt struct {
	X Expr
}

// IfStmt runs Body in a fresh frame when Cond evaluates nonzero.
type IfStmt struct {
	Cond Expr
	Body *BlockStmt
	Pos  Pos
}

// BlockStmt is a brace-delimited statement sequence and a scope boundary.
type BlockStmt struct {
	Stmts []Stmt
	Pos   Pos
}

// ExitStmt halts the program with the value of Code as the exit code,
// unwinding through every enclosing block.
type ExitStmt struct {
	Code Expr
	Pos  Pos
}

func (*LetStmt) stmtNode()    {}
func (*AssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
func (*IfStmt) stmtNode()     {}
func (*BlockStmt) stmtNode()  {}
func (*ExitStmt) stmtNode()   {}

// Expr is implemented by all expression nodes.
type Expr interface {
	exprNode()
	Position() Pos
}

// IntLit is a decimal integer literal.
type IntLit struct {
	Value int64
	Pos   Pos
}

// VarRef reads a variable through the scope chain.
type VarRef struct {
	Name string
	Pos  Pos
}

// UnaryExpr is prefix negation (Op is always MINUS).
type UnaryExpr struct {
	Op  TokenType
	X   Expr
	Pos Pos
}

// BinaryExpr applies Op to L and R. Pos is the operator token.
type BinaryExpr struct {
	Op  TokenType
	L   Expr
	R   Expr
	Pos Pos
}

func (*IntLit) exprNode()     {}
func (*VarRef) exprNode()     {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}

func (e *IntLit) Position() Pos     { return e.Pos }
func (e *VarRef) Position() Pos     { return e.Pos }
func (e *UnaryExpr) Position() Pos  { return e.Pos }
func (e *BinaryExpr) Position() Pos { return e.Pos }
