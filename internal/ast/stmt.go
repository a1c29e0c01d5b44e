package ast

import (
	"sable/internal/source"
)

// StmtKind enumerates statement nodes.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtTry
	StmtTryClause
	StmtFor
	StmtVarDecl
	StmtReturn
	StmtExpr
	StmtAsm
)

// Stmt is the kind-tagged statement header.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	payload uint32
}

// BlockStmt owns a scope.
type BlockStmt struct {
	Stmts []StmtID
}

// TryStmt guards an expression with catch clauses. The clauses, not the try
// itself, own scopes.
type TryStmt struct {
	Value   ExprID
	Clauses []StmtID
}

// TryClauseStmt owns a scope holding its error parameters.
type TryClauseStmt struct {
	Params ParamListID
	Body   StmtID
}

// ForStmt owns a scope covering init, condition, post and body.
type ForStmt struct {
	Init StmtID
	Cond ExprID
	Post ExprID
	Body StmtID
}

// VarDeclStmt declares one or more variables with an optional shared
// initializer. The declared names become visible only after the initializer.
type VarDeclStmt struct {
	Decls []VarDeclID
	Value ExprID
}

// ReturnStmt returns from the enclosing function or modifier.
type ReturnStmt struct {
	Value ExprID
}

// ExprStmt evaluates an expression for effect.
type ExprStmt struct {
	Expr ExprID
}

// AsmStmt embeds an assembly block.
type AsmStmt struct {
	Block AsmBlockRef
}

// VarDecl is one declared variable, in a statement or a parameter list.
type VarDecl struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID
}

// ParamList groups parameter or return-variable declarations.
type ParamList struct {
	Params []VarDeclID
	Span   source.Span
}
