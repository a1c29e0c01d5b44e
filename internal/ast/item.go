package ast

import (
	"sable/internal/source"
)

// ItemKind enumerates declaration items.
type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	ItemContract
	ItemFunction
	ItemModifier
	ItemStruct
	ItemStateVar
)

func (k ItemKind) String() string {
	switch k {
	case ItemContract:
		return "contract"
	case ItemFunction:
		return "function"
	case ItemModifier:
		return "modifier"
	case ItemStruct:
		return "struct"
	case ItemStateVar:
		return "state variable"
	default:
		return "invalid"
	}
}

// Item is the kind-tagged header shared by all declaration items. The
// payload index points into the kind-specific arena.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	payload uint32
}

// DocTag is one structured documentation tag attached to an item, e.g.
// {"inheritdoc", "Base.Token"}.
type DocTag struct {
	Tag     string
	Content string
	Span    source.Span
}

// ContractItem is a contract declaration with its member items.
type ContractItem struct {
	Name     source.StringID
	NameSpan source.Span
	Items    []ItemID
	Docs     []DocTag
}

// FnItem is a function definition. Returns is always a valid list for a
// function, even when it declares no return values.
type FnItem struct {
	Name     source.StringID
	NameSpan source.Span
	Params   ParamListID
	Returns  ParamListID
	Body     StmtID
	Docs     []DocTag
}

// ModifierItem is a modifier definition. Modifiers never declare returns.
type ModifierItem struct {
	Name     source.StringID
	NameSpan source.Span
	Params   ParamListID
	Body     StmtID
	Docs     []DocTag
}

// StructItem is a user-defined type declaration, the usual target of
// qualified type-name paths.
type StructItem struct {
	Name     source.StringID
	NameSpan source.Span
}

// StateVarItem is a storage-resident contract variable.
type StateVarItem struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID
	Value    ExprID
	Docs     []DocTag
}
