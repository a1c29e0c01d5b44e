package symbols

import (
	"sable/internal/ast"
	"sable/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolContract
	SymbolFunction
	SymbolModifier
	SymbolStruct
	SymbolStateVar
	SymbolLocalVar
	SymbolParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolContract:
		return "contract"
	case SymbolFunction:
		return "function"
	case SymbolModifier:
		return "modifier"
	case SymbolStruct:
		return "struct"
	case SymbolStateVar:
		return "state variable"
	case SymbolLocalVar:
		return "variable"
	case SymbolParam:
		return "parameter"
	default:
		return "invalid"
	}
}

// IsStackVariable reports whether the symbol lives in the current call frame
// rather than in storage. Assembly function bodies run in a different frame,
// which is why they may not touch these.
func (k SymbolKind) IsStackVariable() bool {
	return k == SymbolLocalVar || k == SymbolParam
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	// SymbolFlagStorage marks storage-resident declarations, addressable via
	// `.slot`/`.offset` in assembly.
	SymbolFlagStorage SymbolFlags = 1 << iota
)

// SymbolDecl records the AST origin of a symbol for diagnostics.
type SymbolDecl struct {
	Unit ast.UnitID
	Item ast.ItemID
	Stmt ast.StmtID
	Var  ast.VarDeclID
}

// Symbol describes a named entity available in a scope. OwnScope is set for
// symbols that introduce a scope of their own (contracts, functions,
// modifiers); qualified path lookup descends through it.
type Symbol struct {
	Name     source.StringID
	Kind     SymbolKind
	Scope    ScopeID
	OwnScope ScopeID
	Span     source.Span
	Flags    SymbolFlags
	Decl     SymbolDecl
	Returns  ast.ParamListID
}
