package symbols

import (
	"sable/internal/ast"
	"sable/internal/diag"
	"sable/internal/source"
)

// DeclareOptions controls declaration registration for a single unit.
type DeclareOptions struct {
	Table    *Table
	Hints    Hints
	Reporter diag.Reporter
}

// Result captures declaration artefacts for one unit. The scopes it builds
// are what the binding pass later activates; binding never creates scopes.
type Result struct {
	Table       *Table
	Unit        ast.UnitID
	UnitScope   ScopeID
	ItemSymbols map[ast.ItemID]SymbolID
}

// DeclareUnit walks the AST unit, creates every scope owned by a
// scope-introducing node, and declares all named entities. Local variables
// are registered as pending: visible only after the binder activates them.
func DeclareUnit(builder *ast.Builder, unitID ast.UnitID, opts DeclareOptions) Result {
	table := opts.Table
	if table == nil {
		table = NewTable(opts.Hints, builder.StringsInterner)
	}

	result := Result{
		Table:       table,
		Unit:        unitID,
		ItemSymbols: make(map[ast.ItemID]SymbolID),
	}

	unit := builder.Unit(unitID)
	if unit == nil {
		return result
	}

	unitScope := table.UnitRoot(unitID, unit.Span)
	result.UnitScope = unitScope

	dr := unitDeclarer{
		builder:  builder,
		result:   &result,
		resolver: NewResolver(table, unitScope, ResolverOptions{Reporter: opts.Reporter}),
		unitID:   unitID,
	}
	for _, itemID := range unit.Items {
		dr.handleItem(itemID)
	}
	return result
}

type unitDeclarer struct {
	builder  *ast.Builder
	result   *Result
	resolver *Resolver
	unitID   ast.UnitID
}

func (dr *unitDeclarer) handleItem(id ast.ItemID) {
	item := dr.builder.Item(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemContract:
		if contract := dr.builder.Contract(id); contract != nil {
			dr.declareContract(id, item, contract)
		}
	case ast.ItemFunction:
		if fn := dr.builder.Fn(id); fn != nil {
			dr.declareFn(id, item, fn)
		}
	case ast.ItemModifier:
		if mod := dr.builder.Modifier(id); mod != nil {
			dr.declareModifier(id, item, mod)
		}
	case ast.ItemStruct:
		if st := dr.builder.Struct(id); st != nil {
			dr.declareStruct(id, item, st)
		}
	case ast.ItemStateVar:
		if sv := dr.builder.StateVar(id); sv != nil {
			dr.declareStateVar(id, item, sv)
		}
	}
}

func (dr *unitDeclarer) declareContract(itemID ast.ItemID, item *ast.Item, contract *ast.ContractItem) {
	symID, ok := dr.resolver.Declare(Symbol{
		Name: contract.Name,
		Kind: SymbolContract,
		Span: preferSpan(contract.NameSpan, item.Span),
		Decl: SymbolDecl{Unit: dr.unitID, Item: itemID},
	})
	owner := ScopeOwner{Kind: ScopeOwnerItem, Item: itemID}
	scopeID := dr.resolver.Enter(ScopeContract, owner, item.Span)
	if ok {
		dr.result.ItemSymbols[itemID] = symID
		if sym := dr.result.Table.Symbols.Get(symID); sym != nil {
			sym.OwnScope = scopeID
		}
	}
	for _, member := range contract.Items {
		dr.handleItem(member)
	}
	dr.resolver.Leave(scopeID)
}

func (dr *unitDeclarer) declareFn(itemID ast.ItemID, item *ast.Item, fn *ast.FnItem) {
	symID, ok := dr.resolver.Declare(Symbol{
		Name:    fn.Name,
		Kind:    SymbolFunction,
		Span:    preferSpan(fn.NameSpan, item.Span),
		Decl:    SymbolDecl{Unit: dr.unitID, Item: itemID},
		Returns: fn.Returns,
	})
	owner := ScopeOwner{Kind: ScopeOwnerItem, Item: itemID}
	scopeID := dr.resolver.Enter(ScopeFunction, owner, item.Span)
	if ok {
		dr.result.ItemSymbols[itemID] = symID
		if sym := dr.result.Table.Symbols.Get(symID); sym != nil {
			sym.OwnScope = scopeID
		}
	}
	dr.declareParams(itemID, fn.Params)
	dr.declareParams(itemID, fn.Returns)
	dr.walkStmt(fn.Body)
	dr.resolver.Leave(scopeID)
}

func (dr *unitDeclarer) declareModifier(itemID ast.ItemID, item *ast.Item, mod *ast.ModifierItem) {
	symID, ok := dr.resolver.Declare(Symbol{
		Name: mod.Name,
		Kind: SymbolModifier,
		Span: preferSpan(mod.NameSpan, item.Span),
		Decl: SymbolDecl{Unit: dr.unitID, Item: itemID},
	})
	owner := ScopeOwner{Kind: ScopeOwnerItem, Item: itemID}
	scopeID := dr.resolver.Enter(ScopeFunction, owner, item.Span)
	if ok {
		dr.result.ItemSymbols[itemID] = symID
		if sym := dr.result.Table.Symbols.Get(symID); sym != nil {
			sym.OwnScope = scopeID
		}
	}
	dr.declareParams(itemID, mod.Params)
	dr.walkStmt(mod.Body)
	dr.resolver.Leave(scopeID)
}

func (dr *unitDeclarer) declareStruct(itemID ast.ItemID, item *ast.Item, st *ast.StructItem) {
	symID, ok := dr.resolver.Declare(Symbol{
		Name: st.Name,
		Kind: SymbolStruct,
		Span: preferSpan(st.NameSpan, item.Span),
		Decl: SymbolDecl{Unit: dr.unitID, Item: itemID},
	})
	if ok {
		dr.result.ItemSymbols[itemID] = symID
	}
}

func (dr *unitDeclarer) declareStateVar(itemID ast.ItemID, item *ast.Item, sv *ast.StateVarItem) {
	symID, ok := dr.resolver.Declare(Symbol{
		Name:  sv.Name,
		Kind:  SymbolStateVar,
		Span:  preferSpan(sv.NameSpan, item.Span),
		Flags: SymbolFlagStorage,
		Decl:  SymbolDecl{Unit: dr.unitID, Item: itemID},
	})
	if ok {
		dr.result.ItemSymbols[itemID] = symID
	}
}

// declareParams registers parameter and return-variable names. They are
// visible throughout the owning body, so they are declared active.
func (dr *unitDeclarer) declareParams(itemID ast.ItemID, listID ast.ParamListID) {
	list := dr.builder.ParamList(listID)
	if list == nil {
		return
	}
	for _, declID := range list.Params {
		decl := dr.builder.VarDecl(declID)
		if decl == nil || decl.Name == source.NoStringID {
			continue
		}
		dr.resolver.Declare(Symbol{
			Name: decl.Name,
			Kind: SymbolParam,
			Span: decl.NameSpan,
			Decl: SymbolDecl{Unit: dr.unitID, Item: itemID, Var: declID},
		})
	}
}

func (dr *unitDeclarer) walkStmt(stmtID ast.StmtID) {
	if !stmtID.IsValid() {
		return
	}
	stmt := dr.builder.Stmt(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		block := dr.builder.Block(stmtID)
		if block == nil {
			return
		}
		owner := ScopeOwner{Kind: ScopeOwnerStmt, Stmt: stmtID}
		scopeID := dr.resolver.Enter(ScopeBlock, owner, stmt.Span)
		for _, child := range block.Stmts {
			dr.walkStmt(child)
		}
		dr.resolver.Leave(scopeID)
	case ast.StmtTry:
		try := dr.builder.Try(stmtID)
		if try == nil {
			return
		}
		for _, clause := range try.Clauses {
			dr.walkStmt(clause)
		}
	case ast.StmtTryClause:
		clause := dr.builder.TryClause(stmtID)
		if clause == nil {
			return
		}
		owner := ScopeOwner{Kind: ScopeOwnerStmt, Stmt: stmtID}
		scopeID := dr.resolver.Enter(ScopeTryClause, owner, stmt.Span)
		dr.declareClauseParams(stmtID, clause.Params)
		dr.walkStmt(clause.Body)
		dr.resolver.Leave(scopeID)
	case ast.StmtFor:
		forStmt := dr.builder.For(stmtID)
		if forStmt == nil {
			return
		}
		owner := ScopeOwner{Kind: ScopeOwnerStmt, Stmt: stmtID}
		scopeID := dr.resolver.Enter(ScopeLoop, owner, stmt.Span)
		dr.walkStmt(forStmt.Init)
		dr.walkStmt(forStmt.Body)
		dr.resolver.Leave(scopeID)
	case ast.StmtVarDecl:
		varDecl := dr.builder.VarDeclStmtData(stmtID)
		if varDecl == nil {
			return
		}
		for _, declID := range varDecl.Decls {
			decl := dr.builder.VarDecl(declID)
			if decl == nil || decl.Name == source.NoStringID {
				continue
			}
			dr.resolver.DeclarePending(Symbol{
				Name: decl.Name,
				Kind: SymbolLocalVar,
				Span: decl.NameSpan,
				Decl: SymbolDecl{Unit: dr.unitID, Stmt: stmtID, Var: declID},
			})
		}
	case ast.StmtReturn, ast.StmtExpr, ast.StmtAsm:
		// No declarations inside; assembly names are never part of these scopes.
	}
}

func (dr *unitDeclarer) declareClauseParams(stmtID ast.StmtID, listID ast.ParamListID) {
	list := dr.builder.ParamList(listID)
	if list == nil {
		return
	}
	for _, declID := range list.Params {
		decl := dr.builder.VarDecl(declID)
		if decl == nil || decl.Name == source.NoStringID {
			continue
		}
		dr.resolver.Declare(Symbol{
			Name: decl.Name,
			Kind: SymbolParam,
			Span: decl.NameSpan,
			Decl: SymbolDecl{Unit: dr.unitID, Stmt: stmtID, Var: declID},
		})
	}
}

func preferSpan(primary, fallback source.Span) source.Span {
	if primary != (source.Span{}) {
		return primary
	}
	return fallback
}
