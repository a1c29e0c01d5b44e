package binder

import (
	"fmt"
	"strings"

	"sable/internal/asm"
	"sable/internal/ast"
	"sable/internal/diag"
	"sable/internal/source"
)

const (
	slotSuffix   = ".slot"
	offsetSuffix = ".offset"

	legacySlotSuffix   = "_slot"
	legacyOffsetSuffix = "_offset"
)

func asmBlockID(ref ast.AsmBlockRef) asm.BlockID {
	return asm.BlockID(ref)
}

// bindAsmBlock resolves one embedded assembly block. Names declared inside
// the sublanguage never enter the primary scope table; only references to
// outer declarations are recorded, as AsmRefs entries.
func (b *binder) bindAsmBlock(blockID asm.BlockID) {
	block := b.asm.Block(blockID)
	if block == nil {
		return
	}
	for _, stmtID := range block.Stmts {
		b.bindAsmStmt(stmtID)
	}
}

func (b *binder) bindAsmStmt(stmtID asm.StmtID) {
	stmt := b.asm.Stmt(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case asm.StmtExpr:
		if data := b.asm.ExprStmtData(stmtID); data != nil {
			b.bindAsmExpr(data.Expr)
		}
	case asm.StmtVarDecl:
		if data := b.asm.VarDecl(stmtID); data != nil {
			b.bindAsmVarDecl(data)
		}
	case asm.StmtFuncDef:
		if data := b.asm.FuncDef(stmtID); data != nil {
			b.bindAsmFuncDef(data)
		}
	case asm.StmtBlock:
		if data := b.asm.BlockStmtData(stmtID); data != nil {
			b.bindAsmBlock(data.Block)
		}
	}
}

// bindAsmVarDecl checks each declared name and then resolves the
// initializer. Shadowing an outer declaration is an error here, not a
// warning: the shadow would silently flip storage-vs-local semantics.
func (b *binder) bindAsmVarDecl(decl *asm.VarDeclStmt) {
	for _, v := range decl.Vars {
		b.validateAsmName(v.Name, v.Span)
		b.checkAsmShadow(v.Name, v.Span)
	}
	if decl.Value.IsValid() {
		b.bindAsmExpr(decl.Value)
	}
}

func (b *binder) checkAsmShadow(name source.StringID, span source.Span) {
	shadowed := b.scopes.LookupAll(name)
	if len(shadowed) == 0 {
		return
	}
	msg := fmt.Sprintf("the assembly variable '%s' shadows another declaration", b.lookupString(name))
	builder := diag.ReportError(b.reporter, diag.AsmShadowsOuter, span, msg)
	for _, symID := range shadowed {
		if sym := b.table.Symbols.Get(symID); sym != nil {
			builder.WithNote(sym.Span, "the shadowed declaration is here")
		}
	}
	builder.Emit()
}

// bindAsmFuncDef validates the declared names and traverses the body with
// the in-function flag raised. The flag nests: a definition inside another
// definition restores the enclosing value, not false.
func (b *binder) bindAsmFuncDef(def *asm.FuncDefStmt) {
	b.validateAsmName(def.Name, def.NameSpan)
	for _, p := range def.Params {
		b.validateAsmName(p.Name, p.Span)
	}
	for _, r := range def.Returns {
		b.validateAsmName(r.Name, r.Span)
	}

	wasInside := b.insideAsmFunction
	b.insideAsmFunction = true
	b.bindAsmBlock(def.Body)
	b.insideAsmFunction = wasInside
}

// validateAsmName enforces the no-dot rule for user-declared sublanguage
// names. The dot is reserved for the addressing-mode suffixes.
func (b *binder) validateAsmName(name source.StringID, span source.Span) {
	if name == source.NoStringID {
		return
	}
	if strings.Contains(b.lookupString(name), ".") {
		diag.ReportError(b.reporter, diag.AsmDotInName, span,
			"user-defined identifiers in inline assembly cannot contain '.'").Emit()
	}
}

func (b *binder) bindAsmExpr(exprID asm.ExprID) {
	expr := b.asm.Expr(exprID)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case asm.ExprIdent:
		if data := b.asm.Ident(exprID); data != nil {
			b.resolveAsmIdent(exprID, expr.Span, data.Name)
		}
	case asm.ExprCall:
		// The call target names an opcode or a sublanguage function, never an
		// outer declaration; only the arguments re-enter resolution.
		if data := b.asm.Call(exprID); data != nil {
			for _, arg := range data.Args {
				b.bindAsmExpr(arg)
			}
		}
	case asm.ExprLit:
	}
}

// resolveAsmIdent resolves one identifier occurrence against the active
// scope chain, after peeling an addressing-mode suffix. Unknown plain names
// are accepted silently: they are opcode-like intrinsics whose set is not
// this pass's business.
func (b *binder) resolveAsmIdent(exprID asm.ExprID, span source.Span, name source.StringID) {
	if name == source.NoStringID {
		return
	}
	full := b.lookupString(name)

	mode := AddrNone
	base := full
	switch {
	case strings.HasSuffix(full, slotSuffix):
		mode = AddrSlot
		base = strings.TrimSuffix(full, slotSuffix)
	case strings.HasSuffix(full, offsetSuffix):
		mode = AddrOffset
		base = strings.TrimSuffix(full, offsetSuffix)
	}

	lookupName := name
	if mode != AddrNone {
		// The suffixed spelling must not itself be a declared name: the
		// suffix forms are reserved.
		if len(b.scopes.LookupAll(name)) > 0 {
			msg := fmt.Sprintf("'%s' is a reserved form; declarations must not use the '%s' and '%s' suffixes",
				full, slotSuffix, offsetSuffix)
			diag.ReportError(b.reporter, diag.AsmReservedSuffix, span, msg).Emit()
			return
		}
		lookupName = b.builder.Intern(base)
	}

	matches := b.scopes.LookupAll(lookupName)
	switch {
	case len(matches) > 1:
		diag.ReportError(b.reporter, diag.AsmOverloadedIdent, span,
			"multiple matching identifiers; resolving overloaded identifiers is not supported").Emit()
		return

	case len(matches) == 0:
		if mode == AddrNone {
			b.reportAsmLegacySuffix(span, full)
		}
		return
	}

	sym := b.table.Symbols.Get(matches[0])
	if sym == nil {
		return
	}
	if sym.Kind.IsStackVariable() && b.insideAsmFunction {
		diag.ReportError(b.reporter, diag.AsmLocalInFunction, span,
			"cannot access local variables from inside an assembly function").Emit()
		return
	}
	b.out.AsmRefs[exprID] = AsmRef{Mode: mode, Symbol: matches[0]}
}

// reportAsmLegacySuffix emits the migration hint for the deprecated
// underscore spelling of the addressing-mode suffixes. A plain unknown name
// stays silent.
func (b *binder) reportAsmLegacySuffix(span source.Span, full string) {
	var legacy, modern string
	switch {
	case strings.HasSuffix(full, legacySlotSuffix):
		legacy, modern = legacySlotSuffix, slotSuffix
	case strings.HasSuffix(full, legacyOffsetSuffix):
		legacy, modern = legacyOffsetSuffix, offsetSuffix
	default:
		return
	}
	fixed := strings.TrimSuffix(full, legacy) + modern
	diag.ReportError(b.reporter, diag.AsmLegacySuffix, span,
		"identifier not found; use '.slot' and '.offset' to access storage variables").
		WithFix(fmt.Sprintf("replace '%s' with '%s'", full, fixed),
			diag.FixEdit{Span: span, NewText: fixed}).
		Emit()
}
