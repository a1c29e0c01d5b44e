package binder

import (
	"fmt"

	"sable/internal/ast"
	"sable/internal/diag"
	"sable/internal/source"
	"sable/internal/symbols"
)

func (b *binder) bindItem(itemID ast.ItemID) error {
	item := b.builder.Item(itemID)
	if item == nil {
		return nil
	}
	switch item.Kind {
	case ast.ItemContract:
		return b.bindContract(itemID)
	case ast.ItemFunction:
		return b.bindFn(itemID)
	case ast.ItemModifier:
		return b.bindModifier(itemID)
	case ast.ItemStateVar:
		return b.bindStateVar(itemID)
	case ast.ItemStruct:
		// Nothing to resolve in the declaration itself.
		return nil
	}
	return nil
}

func (b *binder) bindContract(itemID ast.ItemID) error {
	contract := b.builder.Contract(itemID)
	if contract == nil {
		return nil
	}
	b.resolveInheritDoc(itemID, contract.Docs)

	restore := b.activateScope(b.table.ScopeForItem(itemID))
	defer restore()

	for _, member := range contract.Items {
		if err := b.bindItem(member); err != nil {
			return err
		}
	}
	return nil
}

func (b *binder) bindFn(itemID ast.ItemID) error {
	fn := b.builder.Fn(itemID)
	if fn == nil {
		return nil
	}
	b.resolveInheritDoc(itemID, fn.Docs)

	// The return-context entry must outlive any fatal unwind from the body.
	b.returnParams = append(b.returnParams, fn.Returns)
	defer func() {
		b.returnParams = b.returnParams[:len(b.returnParams)-1]
	}()

	restore := b.activateScope(b.table.ScopeForItem(itemID))
	defer restore()

	if err := b.bindParamTypes(fn.Params); err != nil {
		return err
	}
	if err := b.bindParamTypes(fn.Returns); err != nil {
		return err
	}
	if b.resolveBodies && fn.Body.IsValid() {
		return b.bindStmt(fn.Body)
	}
	return nil
}

func (b *binder) bindModifier(itemID ast.ItemID) error {
	mod := b.builder.Modifier(itemID)
	if mod == nil {
		return nil
	}
	b.resolveInheritDoc(itemID, mod.Docs)

	// Modifiers have no return values: push the explicit marker, distinct
	// from an empty stack.
	b.returnParams = append(b.returnParams, ast.NoParamListID)
	defer func() {
		b.returnParams = b.returnParams[:len(b.returnParams)-1]
	}()

	restore := b.activateScope(b.table.ScopeForItem(itemID))
	defer restore()

	if err := b.bindParamTypes(mod.Params); err != nil {
		return err
	}
	if b.resolveBodies && mod.Body.IsValid() {
		return b.bindStmt(mod.Body)
	}
	return nil
}

func (b *binder) bindStateVar(itemID ast.ItemID) error {
	sv := b.builder.StateVar(itemID)
	if sv == nil {
		return nil
	}
	b.resolveInheritDoc(itemID, sv.Docs)
	if err := b.bindTypeName(sv.Type); err != nil {
		return err
	}
	if sv.Value.IsValid() {
		return b.bindExpr(sv.Value)
	}
	return nil
}

// activateScope switches the resolver to the scope owned by a node and
// returns a restore func. The enclosing scope is read off the scope record
// itself, never recomputed from traversal state, and the restore runs even
// when a fatal error unwinds the subtree.
func (b *binder) activateScope(scope symbols.ScopeID) func() {
	if !scope.IsValid() {
		return func() {}
	}
	enclosing := symbols.NoScopeID
	if sc := b.table.Scopes.Get(scope); sc != nil {
		enclosing = sc.Parent
	}
	b.scopes.SetScope(scope)
	return func() {
		b.scopes.SetScope(enclosing)
	}
}

func (b *binder) bindParamTypes(listID ast.ParamListID) error {
	list := b.builder.ParamList(listID)
	if list == nil {
		return nil
	}
	for _, declID := range list.Params {
		decl := b.builder.VarDecl(declID)
		if decl == nil {
			continue
		}
		if err := b.bindTypeName(decl.Type); err != nil {
			return err
		}
	}
	return nil
}

func (b *binder) bindStmt(stmtID ast.StmtID) error {
	if !stmtID.IsValid() {
		return nil
	}
	stmt := b.builder.Stmt(stmtID)
	if stmt == nil {
		return nil
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		block := b.builder.Block(stmtID)
		if block == nil {
			return nil
		}
		restore := b.activateScope(b.table.ScopeForStmt(stmtID))
		defer restore()
		for _, child := range block.Stmts {
			if err := b.bindStmt(child); err != nil {
				return err
			}
		}
		return nil

	case ast.StmtTry:
		try := b.builder.Try(stmtID)
		if try == nil {
			return nil
		}
		if err := b.bindExpr(try.Value); err != nil {
			return err
		}
		for _, clause := range try.Clauses {
			if err := b.bindStmt(clause); err != nil {
				return err
			}
		}
		return nil

	case ast.StmtTryClause:
		clause := b.builder.TryClause(stmtID)
		if clause == nil {
			return nil
		}
		restore := b.activateScope(b.table.ScopeForStmt(stmtID))
		defer restore()
		if err := b.bindParamTypes(clause.Params); err != nil {
			return err
		}
		return b.bindStmt(clause.Body)

	case ast.StmtFor:
		forStmt := b.builder.For(stmtID)
		if forStmt == nil {
			return nil
		}
		restore := b.activateScope(b.table.ScopeForStmt(stmtID))
		defer restore()
		if err := b.bindStmt(forStmt.Init); err != nil {
			return err
		}
		if err := b.bindExpr(forStmt.Cond); err != nil {
			return err
		}
		if err := b.bindExpr(forStmt.Post); err != nil {
			return err
		}
		return b.bindStmt(forStmt.Body)

	case ast.StmtVarDecl:
		return b.bindVarDeclStmt(stmtID)

	case ast.StmtReturn:
		b.annotateReturn(stmtID, stmt.Span)
		ret := b.builder.Return(stmtID)
		if ret == nil {
			return nil
		}
		return b.bindExpr(ret.Value)

	case ast.StmtExpr:
		if exprStmt := b.builder.ExprStmtData(stmtID); exprStmt != nil {
			return b.bindExpr(exprStmt.Expr)
		}
		return nil

	case ast.StmtAsm:
		if asmStmt := b.builder.Asm(stmtID); asmStmt != nil {
			b.bindAsmBlock(asmBlockID(asmStmt.Block))
		}
		return nil
	}
	return nil
}

// bindVarDeclStmt resolves the declared types and the initializer first,
// then activates the declared names: a variable must not be visible to its
// own initializer but must be visible to every following statement.
func (b *binder) bindVarDeclStmt(stmtID ast.StmtID) error {
	varDecl := b.builder.VarDeclStmtData(stmtID)
	if varDecl == nil {
		return nil
	}
	for _, declID := range varDecl.Decls {
		decl := b.builder.VarDecl(declID)
		if decl == nil {
			continue
		}
		if err := b.bindTypeName(decl.Type); err != nil {
			return err
		}
	}
	if varDecl.Value.IsValid() {
		if err := b.bindExpr(varDecl.Value); err != nil {
			return err
		}
	}
	for _, declID := range varDecl.Decls {
		decl := b.builder.VarDecl(declID)
		if decl == nil || decl.Name == source.NoStringID {
			continue
		}
		b.scopes.ActivateVariable(decl.Name)
	}
	return nil
}

// annotateReturn points a return statement at the return-parameter list of
// its innermost enclosing function or modifier. An empty stack here is a
// broken invariant, not a user error: returns cannot occur outside bodies.
func (b *binder) annotateReturn(stmtID ast.StmtID, span source.Span) {
	if len(b.returnParams) == 0 {
		diag.ReportError(b.reporter, diag.BindInternal, span,
			"return statement outside of a function or modifier body").Emit()
		return
	}
	b.out.ReturnParams[stmtID] = b.returnParams[len(b.returnParams)-1]
}

func (b *binder) bindExpr(exprID ast.ExprID) error {
	if !exprID.IsValid() {
		return nil
	}
	expr := b.builder.Expr(exprID)
	if expr == nil {
		return nil
	}
	switch expr.Kind {
	case ast.ExprIdent:
		if data := b.builder.Ident(exprID); data != nil {
			b.resolveIdent(exprID, expr.Span, data.Name)
		}
		return nil
	case ast.ExprCall:
		data := b.builder.Call(exprID)
		if data == nil {
			return nil
		}
		if err := b.bindExpr(data.Target); err != nil {
			return err
		}
		for _, arg := range data.Args {
			if err := b.bindExpr(arg); err != nil {
				return err
			}
		}
		return nil
	case ast.ExprBinary:
		data := b.builder.Binary(exprID)
		if data == nil {
			return nil
		}
		if err := b.bindExpr(data.Left); err != nil {
			return err
		}
		return b.bindExpr(data.Right)
	case ast.ExprIndex:
		data := b.builder.Index(exprID)
		if data == nil {
			return nil
		}
		if err := b.bindExpr(data.Target); err != nil {
			return err
		}
		return b.bindExpr(data.Index)
	case ast.ExprMember:
		// Member names resolve against the target's type in a later pass;
		// only the target is bound here.
		if data := b.builder.Member(exprID); data != nil {
			return b.bindExpr(data.Target)
		}
		return nil
	case ast.ExprLit:
		return nil
	}
	return nil
}

// resolveIdent binds a plain identifier reference. Exactly one match
// annotates the single resolution; several matches record the candidate set
// and leave overload selection to a later pass.
func (b *binder) resolveIdent(exprID ast.ExprID, span source.Span, name source.StringID) {
	if name == source.NoStringID {
		return
	}
	decls := b.scopes.LookupAll(name)
	switch {
	case len(decls) == 0:
		b.reportUndeclared(span, name)
	case len(decls) == 1:
		b.out.IdentSymbols[exprID] = decls[0]
	default:
		b.out.IdentCandidates[exprID] = decls
	}
}

func (b *binder) reportUndeclared(span source.Span, name source.StringID) {
	nameStr := b.lookupString(name)
	msg := "undeclared identifier"
	if later := b.scopes.LookupAllAnyVisibility(name); len(later) > 0 {
		// The name exists, just later in program order.
		msg = fmt.Sprintf("undeclared identifier: '%s' is not (or not yet) visible at this point", nameStr)
	} else if suggestion := b.suggest(nameStr); suggestion != "" && suggestion != nameStr {
		msg = fmt.Sprintf("undeclared identifier, did you mean '%s'?", suggestion)
	}
	diag.ReportError(b.reporter, diag.BindUndeclaredIdent, span, msg).Emit()
}

// bindTypeName resolves a user-defined type reference via qualified path
// lookup. Failure is fatal: later passes cannot proceed without a concrete
// type, so the enclosing subtree is abandoned.
func (b *binder) bindTypeName(typeID ast.TypeID) error {
	if !typeID.IsValid() {
		return nil
	}
	tn := b.builder.TypeName(typeID)
	if tn == nil || tn.Kind != ast.TypeNamed {
		return nil
	}
	named := b.builder.Named(typeID)
	if named == nil {
		return nil
	}
	sym := b.scopes.LookupPath(named.Segments)
	if !sym.IsValid() {
		diag.ReportError(b.reporter, diag.BindTypeNameNotFound, tn.Span,
			"identifier not found or not unique").Emit()
		return errFatal
	}
	b.out.TypeSymbols[typeID] = sym
	return nil
}
