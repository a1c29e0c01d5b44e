// Package asm models the embedded assembly sublanguage as its own small
// arena-based AST. It deliberately shares nothing with the primary AST: the
// sublanguage has its own identifier rules and its own binding regime.
package asm

import (
	"sable/internal/source"
)

// BlockID identifies an assembly block.
type BlockID uint32

// StmtID identifies an assembly statement.
type StmtID uint32

// ExprID identifies an assembly expression. Identifier occurrences are
// distinct ExprIDs, so per-occurrence annotations can differ for the same
// name.
type ExprID uint32

const (
	NoBlockID BlockID = 0
	NoStmtID  StmtID  = 0
	NoExprID  ExprID  = 0
)

func (id BlockID) IsValid() bool { return id != NoBlockID }
func (id StmtID) IsValid() bool  { return id != NoStmtID }
func (id ExprID) IsValid() bool  { return id != NoExprID }

// Block is a sequence of assembly statements.
type Block struct {
	Span  source.Span
	Stmts []StmtID
}

// StmtKind enumerates assembly statements.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtExpr
	StmtVarDecl
	StmtFuncDef
	StmtBlock
)

// Stmt is the kind-tagged assembly statement header.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	payload uint32
}

// TypedName is a declared name inside the sublanguage: a function name,
// parameter, return variable, or let-bound variable.
type TypedName struct {
	Name source.StringID
	Span source.Span
}

// VarDeclStmt is a `let` declaration with an optional initializer.
type VarDeclStmt struct {
	Vars  []TypedName
	Value ExprID
}

// FuncDefStmt defines an assembly function. Its body executes in its own
// stack frame, which is why outer locals are unreachable from it.
type FuncDefStmt struct {
	Name     source.StringID
	NameSpan source.Span
	Params   []TypedName
	Returns  []TypedName
	Body     BlockID
}

// ExprStmt evaluates an expression, usually a call.
type ExprStmt struct {
	Expr ExprID
}

// BlockStmt nests a block.
type BlockStmt struct {
	Block BlockID
}

// ExprKind enumerates assembly expressions.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprCall
	ExprLit
)

// Expr is the kind-tagged assembly expression header.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	payload uint32
}

// IdentExpr reads a name, possibly carrying a `.slot`/`.offset` suffix.
type IdentExpr struct {
	Name source.StringID
}

// CallExpr calls an opcode or a user-defined assembly function by name.
type CallExpr struct {
	Target ExprID
	Args   []ExprID
}

// LitExpr is a literal operand.
type LitExpr struct {
	Text string
}
