package astio

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"sable/internal/asm"
	"sable/internal/ast"
	"sable/internal/binder"
	"sable/internal/symbols"
)

// AsmRefDTO mirrors one assembly external reference.
type AsmRefDTO struct {
	Mode   uint8  `msgpack:"mode"`
	Symbol uint32 `msgpack:"symbol"`
}

// BindingsDTO is the serialized form of a binding result. IDs are raw arena
// indices; a payload is only meaningful together with the unit payload it
// was produced from.
type BindingsDTO struct {
	Schema     uint16               `msgpack:"schema"`
	Idents     map[uint32]uint32    `msgpack:"idents,omitempty"`
	Candidates map[uint32][]uint32  `msgpack:"candidates,omitempty"`
	Types      map[uint32]uint32    `msgpack:"types,omitempty"`
	Returns    map[uint32]uint32    `msgpack:"returns,omitempty"`
	InheritDoc map[uint32]uint32    `msgpack:"inheritdoc,omitempty"`
	AsmRefs    map[uint32]AsmRefDTO `msgpack:"asmrefs,omitempty"`
}

// EncodeBindings writes a binding result as a payload.
func EncodeBindings(w io.Writer, b *binder.Bindings) error {
	dto := BindingsDTO{
		Schema:     Schema,
		Idents:     make(map[uint32]uint32, len(b.IdentSymbols)),
		Candidates: make(map[uint32][]uint32, len(b.IdentCandidates)),
		Types:      make(map[uint32]uint32, len(b.TypeSymbols)),
		Returns:    make(map[uint32]uint32, len(b.ReturnParams)),
		InheritDoc: make(map[uint32]uint32, len(b.InheritDoc)),
		AsmRefs:    make(map[uint32]AsmRefDTO, len(b.AsmRefs)),
	}
	for expr, sym := range b.IdentSymbols {
		dto.Idents[uint32(expr)] = uint32(sym)
	}
	for expr, syms := range b.IdentCandidates {
		ids := make([]uint32, 0, len(syms))
		for _, sym := range syms {
			ids = append(ids, uint32(sym))
		}
		dto.Candidates[uint32(expr)] = ids
	}
	for typ, sym := range b.TypeSymbols {
		dto.Types[uint32(typ)] = uint32(sym)
	}
	for stmt, list := range b.ReturnParams {
		dto.Returns[uint32(stmt)] = uint32(list)
	}
	for item, sym := range b.InheritDoc {
		dto.InheritDoc[uint32(item)] = uint32(sym)
	}
	for expr, ref := range b.AsmRefs {
		dto.AsmRefs[uint32(expr)] = AsmRefDTO{Mode: uint8(ref.Mode), Symbol: uint32(ref.Symbol)}
	}
	if err := msgpack.NewEncoder(w).Encode(&dto); err != nil {
		return fmt.Errorf("astio: encode bindings: %w", err)
	}
	return nil
}

// DecodeBindings reads a binding-result payload back into its in-memory
// form.
func DecodeBindings(r io.Reader) (*binder.Bindings, error) {
	var dto BindingsDTO
	if err := msgpack.NewDecoder(r).Decode(&dto); err != nil {
		return nil, fmt.Errorf("astio: decode bindings: %w", err)
	}
	if dto.Schema != Schema {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaVersion, dto.Schema, Schema)
	}
	out := &binder.Bindings{
		IdentSymbols:    make(map[ast.ExprID]symbols.SymbolID, len(dto.Idents)),
		IdentCandidates: make(map[ast.ExprID][]symbols.SymbolID, len(dto.Candidates)),
		TypeSymbols:     make(map[ast.TypeID]symbols.SymbolID, len(dto.Types)),
		ReturnParams:    make(map[ast.StmtID]ast.ParamListID, len(dto.Returns)),
		InheritDoc:      make(map[ast.ItemID]symbols.SymbolID, len(dto.InheritDoc)),
		AsmRefs:         make(map[asm.ExprID]binder.AsmRef, len(dto.AsmRefs)),
	}
	for expr, sym := range dto.Idents {
		out.IdentSymbols[ast.ExprID(expr)] = symbols.SymbolID(sym)
	}
	for expr, ids := range dto.Candidates {
		syms := make([]symbols.SymbolID, 0, len(ids))
		for _, id := range ids {
			syms = append(syms, symbols.SymbolID(id))
		}
		out.IdentCandidates[ast.ExprID(expr)] = syms
	}
	for typ, sym := range dto.Types {
		out.TypeSymbols[ast.TypeID(typ)] = symbols.SymbolID(sym)
	}
	for stmt, list := range dto.Returns {
		out.ReturnParams[ast.StmtID(stmt)] = ast.ParamListID(list)
	}
	for item, sym := range dto.InheritDoc {
		out.InheritDoc[ast.ItemID(item)] = symbols.SymbolID(sym)
	}
	for expr, ref := range dto.AsmRefs {
		out.AsmRefs[asm.ExprID(expr)] = binder.AsmRef{
			Mode:   binder.AddrMode(ref.Mode),
			Symbol: symbols.SymbolID(ref.Symbol),
		}
	}
	return out, nil
}
