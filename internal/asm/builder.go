package asm

import (
	"fmt"

	"fortio.org/safecast"

	"sable/internal/source"
)

// Builder owns the arenas of one or more assembly trees. Index 0 of every
// arena is reserved for the "no node" sentinel.
type Builder struct {
	blocks    []Block
	stmts     []Stmt
	varDecls  []VarDeclStmt
	funcDefs  []FuncDefStmt
	exprStmts []ExprStmt
	blockSts  []BlockStmt
	exprs     []Expr
	idents    []IdentExpr
	calls     []CallExpr
	lits      []LitExpr
}

func NewBuilder() *Builder {
	return &Builder{}
}

func allocate[T any](data *[]T, value T) uint32 {
	*data = append(*data, value)
	idx, err := safecast.Conv[uint32](len(*data))
	if err != nil {
		panic(fmt.Errorf("asm arena overflow: %w", err))
	}
	return idx
}

func get[T any](data []T, index uint32) *T {
	if index == 0 || int(index) > len(data) {
		return nil
	}
	return &data[index-1]
}

func (b *Builder) NewBlock(span source.Span, stmts []StmtID) BlockID {
	return BlockID(allocate(&b.blocks, Block{Span: span, Stmts: stmts}))
}

func (b *Builder) Block(id BlockID) *Block {
	return get(b.blocks, uint32(id))
}

func (b *Builder) newStmt(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(allocate(&b.stmts, Stmt{Kind: kind, Span: span, payload: payload}))
}

func (b *Builder) Stmt(id StmtID) *Stmt {
	return get(b.stmts, uint32(id))
}

func (b *Builder) NewVarDecl(span source.Span, data VarDeclStmt) StmtID {
	return b.newStmt(StmtVarDecl, span, allocate(&b.varDecls, data))
}

func (b *Builder) NewFuncDef(span source.Span, data FuncDefStmt) StmtID {
	return b.newStmt(StmtFuncDef, span, allocate(&b.funcDefs, data))
}

func (b *Builder) NewExprStmt(span source.Span, expr ExprID) StmtID {
	return b.newStmt(StmtExpr, span, allocate(&b.exprStmts, ExprStmt{Expr: expr}))
}

func (b *Builder) NewBlockStmt(span source.Span, block BlockID) StmtID {
	return b.newStmt(StmtBlock, span, allocate(&b.blockSts, BlockStmt{Block: block}))
}

func (b *Builder) VarDecl(id StmtID) *VarDeclStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtVarDecl {
		return get(b.varDecls, stmt.payload)
	}
	return nil
}

func (b *Builder) FuncDef(id StmtID) *FuncDefStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtFuncDef {
		return get(b.funcDefs, stmt.payload)
	}
	return nil
}

func (b *Builder) ExprStmtData(id StmtID) *ExprStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtExpr {
		return get(b.exprStmts, stmt.payload)
	}
	return nil
}

func (b *Builder) BlockStmtData(id StmtID) *BlockStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtBlock {
		return get(b.blockSts, stmt.payload)
	}
	return nil
}

func (b *Builder) newExpr(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(allocate(&b.exprs, Expr{Kind: kind, Span: span, payload: payload}))
}

func (b *Builder) Expr(id ExprID) *Expr {
	return get(b.exprs, uint32(id))
}

func (b *Builder) NewIdent(span source.Span, name source.StringID) ExprID {
	return b.newExpr(ExprIdent, span, allocate(&b.idents, IdentExpr{Name: name}))
}

func (b *Builder) NewCall(span source.Span, data CallExpr) ExprID {
	return b.newExpr(ExprCall, span, allocate(&b.calls, data))
}

func (b *Builder) NewLit(span source.Span, text string) ExprID {
	return b.newExpr(ExprLit, span, allocate(&b.lits, LitExpr{Text: text}))
}

func (b *Builder) Ident(id ExprID) *IdentExpr {
	if expr := b.Expr(id); expr != nil && expr.Kind == ExprIdent {
		return get(b.idents, expr.payload)
	}
	return nil
}

func (b *Builder) Call(id ExprID) *CallExpr {
	if expr := b.Expr(id); expr != nil && expr.Kind == ExprCall {
		return get(b.calls, expr.payload)
	}
	return nil
}

func (b *Builder) Lit(id ExprID) *LitExpr {
	if expr := b.Expr(id); expr != nil && expr.Kind == ExprLit {
		return get(b.lits, expr.payload)
	}
	return nil
}
