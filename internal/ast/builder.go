package ast

import (
	"sable/internal/source"
)

// Unit is one compilation unit: an ordered list of top-level items.
type Unit struct {
	Span  source.Span
	Items []ItemID
}

// Builder owns every arena of one AST. The tree is immutable once built;
// later passes attach results in side tables keyed by node IDs.
type Builder struct {
	StringsInterner *source.Interner

	units      *Arena[Unit]
	items      *Arena[Item]
	contracts  *Arena[ContractItem]
	fns        *Arena[FnItem]
	modifiers  *Arena[ModifierItem]
	structs    *Arena[StructItem]
	stateVars  *Arena[StateVarItem]
	stmts      *Arena[Stmt]
	blocks     *Arena[BlockStmt]
	tries      *Arena[TryStmt]
	tryClauses *Arena[TryClauseStmt]
	fors       *Arena[ForStmt]
	varDeclSts *Arena[VarDeclStmt]
	returns    *Arena[ReturnStmt]
	exprStmts  *Arena[ExprStmt]
	asmStmts   *Arena[AsmStmt]
	exprs      *Arena[Expr]
	idents     *Arena[IdentExpr]
	calls      *Arena[CallExpr]
	binaries   *Arena[BinaryExpr]
	indexes    *Arena[IndexExpr]
	members    *Arena[MemberExpr]
	lits       *Arena[LitExpr]
	typeNames  *Arena[TypeName]
	elementary *Arena[ElementaryType]
	named      *Arena[NamedType]
	varDecls   *Arena[VarDecl]
	paramLists *Arena[ParamList]
}

// NewBuilder creates an empty AST builder. If strings is nil a fresh
// interner is allocated.
func NewBuilder(strings *source.Interner) *Builder {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		StringsInterner: strings,
		units:           NewArena[Unit](4),
		items:           NewArena[Item](32),
		contracts:       NewArena[ContractItem](4),
		fns:             NewArena[FnItem](16),
		modifiers:       NewArena[ModifierItem](4),
		structs:         NewArena[StructItem](8),
		stateVars:       NewArena[StateVarItem](16),
		stmts:           NewArena[Stmt](64),
		blocks:          NewArena[BlockStmt](16),
		tries:           NewArena[TryStmt](4),
		tryClauses:      NewArena[TryClauseStmt](4),
		fors:            NewArena[ForStmt](8),
		varDeclSts:      NewArena[VarDeclStmt](16),
		returns:         NewArena[ReturnStmt](8),
		exprStmts:       NewArena[ExprStmt](32),
		asmStmts:        NewArena[AsmStmt](4),
		exprs:           NewArena[Expr](64),
		idents:          NewArena[IdentExpr](32),
		calls:           NewArena[CallExpr](16),
		binaries:        NewArena[BinaryExpr](16),
		indexes:         NewArena[IndexExpr](8),
		members:         NewArena[MemberExpr](8),
		lits:            NewArena[LitExpr](16),
		typeNames:       NewArena[TypeName](16),
		elementary:      NewArena[ElementaryType](8),
		named:           NewArena[NamedType](8),
		varDecls:        NewArena[VarDecl](32),
		paramLists:      NewArena[ParamList](16),
	}
}

// Intern is a shorthand for interning an identifier spelling.
func (b *Builder) Intern(s string) source.StringID {
	return b.StringsInterner.Intern(s)
}

// NewUnit registers a compilation unit.
func (b *Builder) NewUnit(span source.Span, items []ItemID) UnitID {
	return UnitID(b.units.Allocate(Unit{Span: span, Items: items}))
}

func (b *Builder) Unit(id UnitID) *Unit {
	return b.units.Get(uint32(id))
}

func (b *Builder) Item(id ItemID) *Item {
	return b.items.Get(uint32(id))
}

func (b *Builder) newItem(kind ItemKind, span source.Span, payload uint32) ItemID {
	return ItemID(b.items.Allocate(Item{Kind: kind, Span: span, payload: payload}))
}

func (b *Builder) NewContract(span source.Span, data ContractItem) ItemID {
	return b.newItem(ItemContract, span, b.contracts.Allocate(data))
}

func (b *Builder) NewFn(span source.Span, data FnItem) ItemID {
	return b.newItem(ItemFunction, span, b.fns.Allocate(data))
}

func (b *Builder) NewModifier(span source.Span, data ModifierItem) ItemID {
	return b.newItem(ItemModifier, span, b.modifiers.Allocate(data))
}

func (b *Builder) NewStruct(span source.Span, data StructItem) ItemID {
	return b.newItem(ItemStruct, span, b.structs.Allocate(data))
}

func (b *Builder) NewStateVar(span source.Span, data StateVarItem) ItemID {
	return b.newItem(ItemStateVar, span, b.stateVars.Allocate(data))
}

func (b *Builder) Contract(id ItemID) *ContractItem {
	if item := b.Item(id); item != nil && item.Kind == ItemContract {
		return b.contracts.Get(item.payload)
	}
	return nil
}

func (b *Builder) Fn(id ItemID) *FnItem {
	if item := b.Item(id); item != nil && item.Kind == ItemFunction {
		return b.fns.Get(item.payload)
	}
	return nil
}

func (b *Builder) Modifier(id ItemID) *ModifierItem {
	if item := b.Item(id); item != nil && item.Kind == ItemModifier {
		return b.modifiers.Get(item.payload)
	}
	return nil
}

func (b *Builder) Struct(id ItemID) *StructItem {
	if item := b.Item(id); item != nil && item.Kind == ItemStruct {
		return b.structs.Get(item.payload)
	}
	return nil
}

func (b *Builder) StateVar(id ItemID) *StateVarItem {
	if item := b.Item(id); item != nil && item.Kind == ItemStateVar {
		return b.stateVars.Get(item.payload)
	}
	return nil
}

func (b *Builder) Stmt(id StmtID) *Stmt {
	return b.stmts.Get(uint32(id))
}

func (b *Builder) newStmt(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(b.stmts.Allocate(Stmt{Kind: kind, Span: span, payload: payload}))
}

func (b *Builder) NewBlock(span source.Span, data BlockStmt) StmtID {
	return b.newStmt(StmtBlock, span, b.blocks.Allocate(data))
}

func (b *Builder) NewTry(span source.Span, data TryStmt) StmtID {
	return b.newStmt(StmtTry, span, b.tries.Allocate(data))
}

func (b *Builder) NewTryClause(span source.Span, data TryClauseStmt) StmtID {
	return b.newStmt(StmtTryClause, span, b.tryClauses.Allocate(data))
}

func (b *Builder) NewFor(span source.Span, data ForStmt) StmtID {
	return b.newStmt(StmtFor, span, b.fors.Allocate(data))
}

func (b *Builder) NewVarDeclStmt(span source.Span, data VarDeclStmt) StmtID {
	return b.newStmt(StmtVarDecl, span, b.varDeclSts.Allocate(data))
}

func (b *Builder) NewReturn(span source.Span, data ReturnStmt) StmtID {
	return b.newStmt(StmtReturn, span, b.returns.Allocate(data))
}

func (b *Builder) NewExprStmt(span source.Span, data ExprStmt) StmtID {
	return b.newStmt(StmtExpr, span, b.exprStmts.Allocate(data))
}

func (b *Builder) NewAsm(span source.Span, data AsmStmt) StmtID {
	return b.newStmt(StmtAsm, span, b.asmStmts.Allocate(data))
}

func (b *Builder) Block(id StmtID) *BlockStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtBlock {
		return b.blocks.Get(stmt.payload)
	}
	return nil
}

func (b *Builder) Try(id StmtID) *TryStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtTry {
		return b.tries.Get(stmt.payload)
	}
	return nil
}

func (b *Builder) TryClause(id StmtID) *TryClauseStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtTryClause {
		return b.tryClauses.Get(stmt.payload)
	}
	return nil
}

func (b *Builder) For(id StmtID) *ForStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtFor {
		return b.fors.Get(stmt.payload)
	}
	return nil
}

func (b *Builder) VarDeclStmtData(id StmtID) *VarDeclStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtVarDecl {
		return b.varDeclSts.Get(stmt.payload)
	}
	return nil
}

func (b *Builder) Return(id StmtID) *ReturnStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtReturn {
		return b.returns.Get(stmt.payload)
	}
	return nil
}

func (b *Builder) ExprStmtData(id StmtID) *ExprStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtExpr {
		return b.exprStmts.Get(stmt.payload)
	}
	return nil
}

func (b *Builder) Asm(id StmtID) *AsmStmt {
	if stmt := b.Stmt(id); stmt != nil && stmt.Kind == StmtAsm {
		return b.asmStmts.Get(stmt.payload)
	}
	return nil
}

func (b *Builder) Expr(id ExprID) *Expr {
	return b.exprs.Get(uint32(id))
}

func (b *Builder) newExpr(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(b.exprs.Allocate(Expr{Kind: kind, Span: span, payload: payload}))
}

func (b *Builder) NewIdent(span source.Span, name source.StringID) ExprID {
	return b.newExpr(ExprIdent, span, b.idents.Allocate(IdentExpr{Name: name}))
}

func (b *Builder) NewCall(span source.Span, data CallExpr) ExprID {
	return b.newExpr(ExprCall, span, b.calls.Allocate(data))
}

func (b *Builder) NewBinary(span source.Span, data BinaryExpr) ExprID {
	return b.newExpr(ExprBinary, span, b.binaries.Allocate(data))
}

func (b *Builder) NewIndex(span source.Span, data IndexExpr) ExprID {
	return b.newExpr(ExprIndex, span, b.indexes.Allocate(data))
}

func (b *Builder) NewMember(span source.Span, data MemberExpr) ExprID {
	return b.newExpr(ExprMember, span, b.members.Allocate(data))
}

func (b *Builder) NewLit(span source.Span, text string) ExprID {
	return b.newExpr(ExprLit, span, b.lits.Allocate(LitExpr{Text: text}))
}

func (b *Builder) Ident(id ExprID) *IdentExpr {
	if expr := b.Expr(id); expr != nil && expr.Kind == ExprIdent {
		return b.idents.Get(expr.payload)
	}
	return nil
}

func (b *Builder) Call(id ExprID) *CallExpr {
	if expr := b.Expr(id); expr != nil && expr.Kind == ExprCall {
		return b.calls.Get(expr.payload)
	}
	return nil
}

func (b *Builder) Binary(id ExprID) *BinaryExpr {
	if expr := b.Expr(id); expr != nil && expr.Kind == ExprBinary {
		return b.binaries.Get(expr.payload)
	}
	return nil
}

func (b *Builder) Index(id ExprID) *IndexExpr {
	if expr := b.Expr(id); expr != nil && expr.Kind == ExprIndex {
		return b.indexes.Get(expr.payload)
	}
	return nil
}

func (b *Builder) Member(id ExprID) *MemberExpr {
	if expr := b.Expr(id); expr != nil && expr.Kind == ExprMember {
		return b.members.Get(expr.payload)
	}
	return nil
}

func (b *Builder) Lit(id ExprID) *LitExpr {
	if expr := b.Expr(id); expr != nil && expr.Kind == ExprLit {
		return b.lits.Get(expr.payload)
	}
	return nil
}

func (b *Builder) TypeName(id TypeID) *TypeName {
	return b.typeNames.Get(uint32(id))
}

func (b *Builder) NewElementaryType(span source.Span, name source.StringID) TypeID {
	payload := b.elementary.Allocate(ElementaryType{Name: name})
	return TypeID(b.typeNames.Allocate(TypeName{Kind: TypeElementary, Span: span, payload: payload}))
}

func (b *Builder) NewNamedType(span source.Span, segments []source.StringID) TypeID {
	payload := b.named.Allocate(NamedType{Segments: segments})
	return TypeID(b.typeNames.Allocate(TypeName{Kind: TypeNamed, Span: span, payload: payload}))
}

func (b *Builder) Elementary(id TypeID) *ElementaryType {
	if tn := b.TypeName(id); tn != nil && tn.Kind == TypeElementary {
		return b.elementary.Get(tn.payload)
	}
	return nil
}

func (b *Builder) Named(id TypeID) *NamedType {
	if tn := b.TypeName(id); tn != nil && tn.Kind == TypeNamed {
		return b.named.Get(tn.payload)
	}
	return nil
}

func (b *Builder) NewVarDecl(data VarDecl) VarDeclID {
	return VarDeclID(b.varDecls.Allocate(data))
}

func (b *Builder) VarDecl(id VarDeclID) *VarDecl {
	return b.varDecls.Get(uint32(id))
}

func (b *Builder) NewParamList(span source.Span, params []VarDeclID) ParamListID {
	return ParamListID(b.paramLists.Allocate(ParamList{Params: params, Span: span}))
}

func (b *Builder) ParamList(id ParamListID) *ParamList {
	return b.paramLists.Get(uint32(id))
}
