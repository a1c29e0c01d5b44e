package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"sable/internal/ast"
	"sable/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates symbol-related arenas and the scope-ownership index.
// Every scope-introducing AST node owns exactly one scope; the index lets
// the binder activate a node's scope without recomputation.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner

	unitRoot  map[ast.UnitID]ScopeID
	itemScope map[ast.ItemID]ScopeID
	stmtScope map[ast.StmtID]ScopeID
}

// NewTable builds a fresh table with optional capacity hints. If strings is
// nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:    NewScopes(scopeCap),
		Symbols:   NewSymbols(symCap),
		Strings:   strings,
		unitRoot:  make(map[ast.UnitID]ScopeID),
		itemScope: make(map[ast.ItemID]ScopeID),
		stmtScope: make(map[ast.StmtID]ScopeID),
	}
}

// UnitRoot returns (and creates if needed) the root scope for a unit.
func (t *Table) UnitRoot(unit ast.UnitID, span source.Span) ScopeID {
	if scope, ok := t.unitRoot[unit]; ok {
		return scope
	}
	scope := t.Scopes.New(ScopeUnit, NoScopeID, ScopeOwner{
		Kind: ScopeOwnerUnit,
		Unit: unit,
	}, span)
	t.unitRoot[unit] = scope
	return scope
}

// ScopeForItem returns the scope owned by a declaration item.
func (t *Table) ScopeForItem(id ast.ItemID) ScopeID {
	return t.itemScope[id]
}

// ScopeForStmt returns the scope owned by a scope-introducing statement.
func (t *Table) ScopeForStmt(id ast.StmtID) ScopeID {
	return t.stmtScope[id]
}

func (t *Table) bindOwner(scope ScopeID, owner ScopeOwner) {
	switch owner.Kind {
	case ScopeOwnerItem:
		if owner.Item.IsValid() {
			t.itemScope[owner.Item] = scope
		}
	case ScopeOwnerStmt:
		if owner.Stmt.IsValid() {
			t.stmtScope[owner.Stmt] = scope
		}
	case ScopeOwnerUnit:
		if owner.Unit.IsValid() {
			t.unitRoot[owner.Unit] = scope
		}
	}
}
