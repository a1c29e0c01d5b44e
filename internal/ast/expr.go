package ast

import (
	"sable/internal/source"
)

// ExprKind enumerates expression nodes.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprCall
	ExprBinary
	ExprIndex
	ExprMember
	ExprLit
)

// Expr is the kind-tagged expression header.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	payload uint32
}

// IdentExpr is a plain identifier reference.
type IdentExpr struct {
	Name source.StringID
}

// CallExpr applies arguments to a target expression.
type CallExpr struct {
	Target ExprID
	Args   []ExprID
}

// BinaryOp enumerates binary operators; binding does not care which one.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpAssign
	OpEq
	OpLt
)

// BinaryExpr combines two operands.
type BinaryExpr struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

// IndexExpr subscripts a target.
type IndexExpr struct {
	Target ExprID
	Index  ExprID
}

// MemberExpr selects a member; the member name itself is resolved by a later
// pass against the target's type.
type MemberExpr struct {
	Target ExprID
	Member source.StringID
}

// LitExpr is any literal; binding skips it.
type LitExpr struct {
	Text string
}
