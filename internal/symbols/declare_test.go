package symbols

import (
	"testing"

	"sable/internal/ast"
	"sable/internal/diag"
	"sable/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestDeclareUnitRegistersTopLevelSymbols(t *testing.T) {
	b := ast.NewBuilder(nil)

	sv := b.NewStateVar(sp(20, 40), ast.StateVarItem{
		Name: b.Intern("supply"), NameSpan: sp(25, 31),
	})
	fn := b.NewFn(sp(50, 90), ast.FnItem{
		Name: b.Intern("mint"), NameSpan: sp(55, 59),
	})
	contract := b.NewContract(sp(0, 100), ast.ContractItem{
		Name: b.Intern("Token"), NameSpan: sp(9, 14),
		Items: []ast.ItemID{sv, fn},
	})
	st := b.NewStruct(sp(110, 130), ast.StructItem{
		Name: b.Intern("Owner"), NameSpan: sp(117, 122),
	})
	unit := b.NewUnit(sp(0, 130), []ast.ItemID{contract, st})

	bag := diag.NewBag(8)
	res := DeclareUnit(b, unit, DeclareOptions{Reporter: diag.BagReporter{Bag: bag}})

	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	if !res.UnitScope.IsValid() {
		t.Fatalf("expected a unit root scope")
	}

	wantKinds := map[ast.ItemID]SymbolKind{
		contract: SymbolContract,
		sv:       SymbolStateVar,
		fn:       SymbolFunction,
		st:       SymbolStruct,
	}
	for itemID, kind := range wantKinds {
		symID, ok := res.ItemSymbols[itemID]
		if !ok {
			t.Fatalf("item %d has no symbol", itemID)
		}
		sym := res.Table.Symbols.Get(symID)
		if sym == nil || sym.Kind != kind {
			t.Fatalf("item %d: want kind %v, got %+v", itemID, kind, sym)
		}
	}

	if !res.Table.ScopeForItem(contract).IsValid() {
		t.Errorf("contract should own a scope")
	}
	if !res.Table.ScopeForItem(fn).IsValid() {
		t.Errorf("function should own a scope")
	}
	if res.Table.ScopeForItem(st).IsValid() {
		t.Errorf("struct should not own a scope")
	}
}

func TestDeclareUnitReportsDuplicates(t *testing.T) {
	b := ast.NewBuilder(nil)

	first := b.NewStateVar(sp(10, 20), ast.StateVarItem{
		Name: b.Intern("value"), NameSpan: sp(10, 15),
	})
	second := b.NewStateVar(sp(30, 40), ast.StateVarItem{
		Name: b.Intern("value"), NameSpan: sp(30, 35),
	})
	contract := b.NewContract(sp(0, 50), ast.ContractItem{
		Name: b.Intern("C"), NameSpan: sp(0, 1),
		Items: []ast.ItemID{first, second},
	})
	unit := b.NewUnit(sp(0, 50), []ast.ItemID{contract})

	bag := diag.NewBag(8)
	DeclareUnit(b, unit, DeclareOptions{Reporter: diag.BagReporter{Bag: bag}})

	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.DeclDuplicateSymbol {
		t.Fatalf("expected DeclDuplicateSymbol, got %v", d.Code)
	}
	if len(d.Notes) != 1 {
		t.Fatalf("expected a note at the previous declaration, got %d notes", len(d.Notes))
	}
	if d.Notes[0].Span != sp(10, 15) {
		t.Errorf("note should point at the first declaration, got %v", d.Notes[0].Span)
	}
}

func TestDeclareUnitAllowsFunctionOverloads(t *testing.T) {
	b := ast.NewBuilder(nil)

	f1 := b.NewFn(sp(0, 10), ast.FnItem{Name: b.Intern("get"), NameSpan: sp(0, 3)})
	f2 := b.NewFn(sp(20, 30), ast.FnItem{Name: b.Intern("get"), NameSpan: sp(20, 23)})
	unit := b.NewUnit(sp(0, 30), []ast.ItemID{f1, f2})

	bag := diag.NewBag(8)
	res := DeclareUnit(b, unit, DeclareOptions{Reporter: diag.BagReporter{Bag: bag}})

	if bag.Len() != 0 {
		t.Fatalf("overloads should not be diagnosed, got %d diagnostics", bag.Len())
	}
	r := NewResolver(res.Table, res.UnitScope, ResolverOptions{})
	if got := len(r.LookupAll(b.Intern("get"))); got != 2 {
		t.Fatalf("expected 2 overloads, got %d", got)
	}
}

func TestLocalVariablesStartPending(t *testing.T) {
	b := ast.NewBuilder(nil)

	decl := b.NewVarDecl(ast.VarDecl{Name: b.Intern("tmp"), NameSpan: sp(62, 65)})
	varStmt := b.NewVarDeclStmt(sp(60, 70), ast.VarDeclStmt{Decls: []ast.VarDeclID{decl}})
	body := b.NewBlock(sp(58, 80), ast.BlockStmt{Stmts: []ast.StmtID{varStmt}})
	fn := b.NewFn(sp(50, 80), ast.FnItem{
		Name: b.Intern("run"), NameSpan: sp(53, 56), Body: body,
	})
	unit := b.NewUnit(sp(0, 80), []ast.ItemID{fn})

	res := DeclareUnit(b, unit, DeclareOptions{})

	blockScope := res.Table.ScopeForStmt(body)
	if !blockScope.IsValid() {
		t.Fatalf("block should own a scope")
	}
	r := NewResolver(res.Table, blockScope, ResolverOptions{})

	name := b.Intern("tmp")
	if got := r.LookupAll(name); len(got) != 0 {
		t.Fatalf("pending variable must not be visible yet, got %d matches", len(got))
	}
	if got := r.LookupAllAnyVisibility(name); len(got) != 1 {
		t.Fatalf("pending variable must be found order-insensitively, got %d matches", len(got))
	}

	r.ActivateVariable(name)
	if got := r.LookupAll(name); len(got) != 1 {
		t.Fatalf("activated variable must be visible, got %d matches", len(got))
	}
}

func TestLookupPathDescendsOwnedScopes(t *testing.T) {
	b := ast.NewBuilder(nil)

	st := b.NewStruct(sp(20, 40), ast.StructItem{
		Name: b.Intern("Token"), NameSpan: sp(27, 32),
	})
	contract := b.NewContract(sp(0, 50), ast.ContractItem{
		Name: b.Intern("Base"), NameSpan: sp(9, 13),
		Items: []ast.ItemID{st},
	})
	unit := b.NewUnit(sp(0, 50), []ast.ItemID{contract})

	res := DeclareUnit(b, unit, DeclareOptions{})
	r := NewResolver(res.Table, res.UnitScope, ResolverOptions{})

	path := []source.StringID{b.Intern("Base"), b.Intern("Token")}
	symID := r.LookupPath(path)
	if !symID.IsValid() {
		t.Fatalf("Base.Token should resolve")
	}
	if sym := res.Table.Symbols.Get(symID); sym.Kind != SymbolStruct {
		t.Fatalf("Base.Token should resolve to the struct, got %v", sym.Kind)
	}

	missing := []source.StringID{b.Intern("Base"), b.Intern("Nope")}
	if r.LookupPath(missing).IsValid() {
		t.Errorf("Base.Nope should not resolve")
	}
	if r.LookupPath(nil).IsValid() {
		t.Errorf("empty path should not resolve")
	}
}

func TestLeaveReportsScopeMismatch(t *testing.T) {
	table := NewTable(Hints{}, nil)
	root := table.UnitRoot(1, sp(0, 100))
	bag := diag.NewBag(8)
	r := NewResolver(table, root, ResolverOptions{Reporter: diag.BagReporter{Bag: bag}})

	a := r.Enter(ScopeBlock, ScopeOwner{}, sp(0, 10))
	b := r.Enter(ScopeBlock, ScopeOwner{}, sp(10, 20))

	r.Leave(a) // actually closes b
	if bag.Len() != 1 {
		t.Fatalf("expected a scope mismatch warning, got %d diagnostics", bag.Len())
	}
	if got := bag.Items()[0].Code; got != diag.DeclScopeMismatch {
		t.Fatalf("expected DeclScopeMismatch, got %v", got)
	}
	_ = b
}

func TestSetScopeReturnsPrevious(t *testing.T) {
	table := NewTable(Hints{}, nil)
	root := table.UnitRoot(1, sp(0, 100))
	r := NewResolver(table, root, ResolverOptions{})

	child := table.Scopes.New(ScopeBlock, root, ScopeOwner{}, sp(0, 10))
	prev := r.SetScope(child)
	if prev != root {
		t.Fatalf("SetScope should return the replaced scope, got %v", prev)
	}
	if r.CurrentScope() != child {
		t.Fatalf("current scope should be the new one")
	}
	r.SetScope(prev)
	if r.CurrentScope() != root {
		t.Fatalf("restore should bring back the previous scope")
	}
}
