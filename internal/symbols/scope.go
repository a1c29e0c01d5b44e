package symbols

import (
	"sable/internal/ast"
	"sable/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid   ScopeKind = iota
	ScopeUnit                // compilation-unit root
	ScopeContract            // contract body
	ScopeFunction            // function or modifier body, parameters included
	ScopeBlock               // generic block scope
	ScopeTryClause           // try/catch clause with its error parameters
	ScopeLoop                // for-loop header plus body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeUnit:
		return "unit"
	case ScopeContract:
		return "contract"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeTryClause:
		return "try clause"
	case ScopeLoop:
		return "loop"
	default:
		return "invalid"
	}
}

// ScopeOwnerKind distinguishes what AST element owns a scope.
type ScopeOwnerKind uint8

const (
	ScopeOwnerUnknown ScopeOwnerKind = iota
	ScopeOwnerUnit
	ScopeOwnerItem
	ScopeOwnerStmt
)

// ScopeOwner references the AST construct that introduced the scope.
type ScopeOwner struct {
	Kind ScopeOwnerKind
	Unit ast.UnitID
	Item ast.ItemID
	Stmt ast.StmtID
}

// Scope models a lexical scope with a parent-child hierarchy. Pending holds
// declarations that exist in program order but are not yet visible; the
// binder moves them into NameIndex when the declaration point is passed.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ScopeOwner
	Span      source.Span
	NameIndex map[source.StringID][]SymbolID
	Pending   map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
