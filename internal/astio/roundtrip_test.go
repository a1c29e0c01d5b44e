package astio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"sable/internal/asm"
	"sable/internal/ast"
	"sable/internal/binder"
	"sable/internal/diag"
	"sable/internal/source"
	"sable/internal/symbols"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

// Builds a small contract with a storage variable, a function using it, and
// an assembly block taking its slot. The tree exercises every payload branch
// a real unit would.
func buildSampleUnit(b *ast.Builder, ab *asm.Builder) ast.UnitID {
	supply := b.NewStateVar(sp(20, 45), ast.StateVarItem{
		Name: b.Intern("supply"), NameSpan: sp(25, 31),
		Type:  b.NewElementaryType(sp(20, 24), b.Intern("uint")),
		Value: b.NewLit(sp(40, 41), "0"),
	})

	amount := b.NewVarDecl(ast.VarDecl{
		Name: b.Intern("amount"), NameSpan: sp(60, 66),
		Type: b.NewElementaryType(sp(55, 59), b.Intern("uint")),
	})
	params := b.NewParamList(sp(55, 67), []ast.VarDeclID{amount})
	returns := b.NewParamList(sp(68, 68), nil)

	use := b.NewBinary(sp(80, 95), ast.BinaryExpr{
		Op:    ast.OpAdd,
		Left:  b.NewIdent(sp(80, 86), b.Intern("supply")),
		Right: b.NewIdent(sp(89, 95), b.Intern("amount")),
	})
	ret := b.NewReturn(sp(75, 96), ast.ReturnStmt{Value: use})

	slotRef := ab.NewIdent(sp(105, 116), b.Intern("supply.slot"))
	asmBlock := ab.NewBlock(sp(100, 120), []asm.StmtID{
		ab.NewExprStmt(sp(105, 116), slotRef),
	})
	asmStmt := b.NewAsm(sp(100, 120), ast.AsmStmt{Block: ast.AsmBlockRef(asmBlock)})

	body := b.NewBlock(sp(70, 125), ast.BlockStmt{Stmts: []ast.StmtID{ret, asmStmt}})
	fn := b.NewFn(sp(50, 125), ast.FnItem{
		Name: b.Intern("mint"), NameSpan: sp(53, 57),
		Params: params, Returns: returns, Body: body,
		Docs: []ast.DocTag{{Tag: "notice", Content: "mints supply", Span: sp(50, 52)}},
	})

	contract := b.NewContract(sp(0, 130), ast.ContractItem{
		Name: b.Intern("Token"), NameSpan: sp(9, 14),
		Items: []ast.ItemID{supply, fn},
	})
	return b.NewUnit(sp(0, 130), []ast.ItemID{contract})
}

func TestUnitRoundTripBindsCleanly(t *testing.T) {
	srcB := ast.NewBuilder(nil)
	srcAsm := asm.NewBuilder()
	unit := buildSampleUnit(srcB, srcAsm)

	var buf bytes.Buffer
	if err := NewEncoder(srcB, srcAsm).EncodeUnit(&buf, unit); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dstB := ast.NewBuilder(nil)
	dstAsm := asm.NewBuilder()
	const file = source.FileID(7)
	decoded, err := NewDecoder(dstB, dstAsm, file).DecodeUnit(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got := dstB.Unit(decoded).Span.File; got != file {
		t.Fatalf("decoded spans should be stamped with the target file, got %v", got)
	}

	bag := diag.NewBag(16)
	decl := symbols.DeclareUnit(dstB, decoded, symbols.DeclareOptions{
		Reporter: diag.BagReporter{Bag: bag},
	})
	out, ok := binder.Bind(dstB, dstAsm, &decl, binder.Options{
		Reporter:      diag.BagReporter{Bag: bag},
		ResolveBodies: true,
	})
	if !ok || bag.Len() != 0 {
		for _, d := range bag.Items() {
			t.Logf("diagnostic: [%v] %s", d.Code, d.Message)
		}
		t.Fatalf("decoded unit should bind cleanly, ok=%v with %d diagnostics", ok, bag.Len())
	}
	if len(out.IdentSymbols) != 2 {
		t.Fatalf("both identifiers should bind, got %d", len(out.IdentSymbols))
	}
	if len(out.AsmRefs) != 1 {
		t.Fatalf("the assembly slot reference should bind, got %d", len(out.AsmRefs))
	}
	for _, ref := range out.AsmRefs {
		if ref.Mode != binder.AddrSlot {
			t.Fatalf("want slot mode, got %v", ref.Mode)
		}
	}
}

func TestUnitRoundTripIsStable(t *testing.T) {
	srcB := ast.NewBuilder(nil)
	srcAsm := asm.NewBuilder()
	unit := buildSampleUnit(srcB, srcAsm)

	var first bytes.Buffer
	if err := NewEncoder(srcB, srcAsm).EncodeUnit(&first, unit); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dstB := ast.NewBuilder(nil)
	dstAsm := asm.NewBuilder()
	decoded, err := NewDecoder(dstB, dstAsm, 1).DecodeUnit(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var second bytes.Buffer
	if err := NewEncoder(dstB, dstAsm).EncodeUnit(&second, decoded); err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("a decode-encode round trip must reproduce the payload byte for byte")
	}
}

func TestDecodeRejectsWrongSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&UnitDTO{Schema: Schema + 1}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err := NewDecoder(ast.NewBuilder(nil), asm.NewBuilder(), 1).DecodeUnit(&buf)
	if !errors.Is(err, ErrSchemaVersion) {
		t.Fatalf("want ErrSchemaVersion, got %v", err)
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	dto := &UnitDTO{Schema: Schema, Items: []ItemDTO{{Kind: "gadget"}}}
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(dto); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := NewDecoder(ast.NewBuilder(nil), asm.NewBuilder(), 1).DecodeUnit(&buf); err == nil {
		t.Fatalf("unknown item kinds must be rejected")
	}
}

func TestBindingsRoundTrip(t *testing.T) {
	in := &binder.Bindings{
		IdentSymbols:    map[ast.ExprID]symbols.SymbolID{3: 11, 4: 12},
		IdentCandidates: map[ast.ExprID][]symbols.SymbolID{5: {11, 12}},
		TypeSymbols:     map[ast.TypeID]symbols.SymbolID{1: 13},
		ReturnParams:    map[ast.StmtID]ast.ParamListID{2: 1},
		InheritDoc:      map[ast.ItemID]symbols.SymbolID{1: 14},
		AsmRefs: map[asm.ExprID]binder.AsmRef{
			6: {Mode: binder.AddrOffset, Symbol: 11},
		},
	}

	var buf bytes.Buffer
	if err := EncodeBindings(&buf, in); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeBindings(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if out.IdentSymbols[3] != 11 || out.IdentSymbols[4] != 12 {
		t.Fatalf("identifier bindings lost: %v", out.IdentSymbols)
	}
	if got := out.IdentCandidates[5]; len(got) != 2 || got[0] != 11 || got[1] != 12 {
		t.Fatalf("candidate sets lost: %v", got)
	}
	if out.ReturnParams[2] != 1 || out.InheritDoc[1] != 14 || out.TypeSymbols[1] != 13 {
		t.Fatalf("scalar maps lost")
	}
	ref := out.AsmRefs[6]
	if ref.Mode != binder.AddrOffset || ref.Symbol != 11 {
		t.Fatalf("assembly references lost: %+v", ref)
	}
}
