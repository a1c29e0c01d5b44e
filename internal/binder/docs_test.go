package binder

import (
	"testing"

	"sable/internal/asm"
	"sable/internal/ast"
	"sable/internal/diag"
	"sable/internal/symbols"
)

func TestInheritDocResolvesContract(t *testing.T) {
	b := ast.NewBuilder(nil)
	ab := asm.NewBuilder()

	base := b.NewContract(sp(0, 20), ast.ContractItem{
		Name: b.Intern("Base"), NameSpan: sp(9, 13),
	})
	fn := b.NewFn(sp(30, 50), ast.FnItem{
		Name: b.Intern("total"), NameSpan: sp(33, 38),
		Docs: []ast.DocTag{{Tag: "inheritdoc", Content: "Base", Span: sp(30, 32)}},
	})
	unit := b.NewUnit(sp(0, 50), []ast.ItemID{base, fn})

	bag := diag.NewBag(8)
	decl := symbols.DeclareUnit(b, unit, symbols.DeclareOptions{
		Reporter: diag.BagReporter{Bag: bag},
	})
	out, ok := Bind(b, ab, &decl, Options{
		Reporter:      diag.BagReporter{Bag: bag},
		ResolveBodies: true,
	})
	if !ok || bag.Len() != 0 {
		t.Fatalf("expected a clean run, got %d diagnostics", bag.Len())
	}
	symID, bound := out.InheritDoc[fn]
	if !bound {
		t.Fatalf("the tag should resolve")
	}
	if symID != decl.ItemSymbols[base] {
		t.Fatalf("the tag should point at the Base contract")
	}
}

func TestInheritDocMissingTarget(t *testing.T) {
	b := ast.NewBuilder(nil)
	ab := asm.NewBuilder()

	fn := b.NewFn(sp(0, 20), ast.FnItem{
		Name: b.Intern("total"), NameSpan: sp(3, 8),
		Docs: []ast.DocTag{{Tag: "inheritdoc", Content: "Ghost", Span: sp(0, 2)}},
	})
	unit := b.NewUnit(sp(0, 20), []ast.ItemID{fn})

	out, _, bag := bindUnit(t, b, ab, unit)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if got := bag.Items()[0].Code; got != diag.DocInheritMissing {
		t.Fatalf("expected DocInheritMissing, got %v", got)
	}
	if len(out.InheritDoc) != 0 {
		t.Fatalf("nothing should resolve")
	}
}

func TestInheritDocTargetMustBeContract(t *testing.T) {
	b := ast.NewBuilder(nil)
	ab := asm.NewBuilder()

	st := b.NewStruct(sp(0, 15), ast.StructItem{Name: b.Intern("Token"), NameSpan: sp(7, 12)})
	fn := b.NewFn(sp(20, 40), ast.FnItem{
		Name: b.Intern("total"), NameSpan: sp(23, 28),
		Docs: []ast.DocTag{{Tag: "inheritdoc", Content: "Token", Span: sp(20, 22)}},
	})
	unit := b.NewUnit(sp(0, 40), []ast.ItemID{st, fn})

	_, _, bag := bindUnit(t, b, ab, unit)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if got := bag.Items()[0].Code; got != diag.DocInheritNotContract {
		t.Fatalf("expected DocInheritNotContract, got %v", got)
	}
}

func TestInheritDocGivenTwiceReportsOnce(t *testing.T) {
	b := ast.NewBuilder(nil)
	ab := asm.NewBuilder()

	base := b.NewContract(sp(0, 20), ast.ContractItem{
		Name: b.Intern("Base"), NameSpan: sp(9, 13),
	})
	fn := b.NewFn(sp(30, 60), ast.FnItem{
		Name: b.Intern("total"), NameSpan: sp(33, 38),
		Docs: []ast.DocTag{
			{Tag: "inheritdoc", Content: "Base", Span: sp(30, 32)},
			{Tag: "inheritdoc", Content: "Base", Span: sp(33, 35)},
		},
	})
	unit := b.NewUnit(sp(0, 60), []ast.ItemID{base, fn})

	out, _, bag := bindUnit(t, b, ab, unit)
	if bag.Len() != 1 {
		t.Fatalf("exactly one error for the duplicate tag, got %d", bag.Len())
	}
	if got := bag.Items()[0].Code; got != diag.DocInheritDuplicate {
		t.Fatalf("expected DocInheritDuplicate, got %v", got)
	}
	if len(out.InheritDoc) != 0 {
		t.Fatalf("no resolution attempt should be made")
	}
}

func TestInheritDocQualifiedPath(t *testing.T) {
	b := ast.NewBuilder(nil)
	ab := asm.NewBuilder()

	inner := b.NewContract(sp(10, 30), ast.ContractItem{
		Name: b.Intern("Inner"), NameSpan: sp(19, 24),
	})
	outer := b.NewContract(sp(0, 40), ast.ContractItem{
		Name: b.Intern("Outer"), NameSpan: sp(9, 14),
		Items: []ast.ItemID{inner},
	})
	fn := b.NewFn(sp(50, 80), ast.FnItem{
		Name: b.Intern("total"), NameSpan: sp(53, 58),
		Docs: []ast.DocTag{{Tag: "inheritdoc", Content: "Outer.Inner", Span: sp(50, 52)}},
	})
	unit := b.NewUnit(sp(0, 80), []ast.ItemID{outer, fn})

	out, ok, bag := bindUnit(t, b, ab, unit)
	if !ok || bag.Len() != 0 {
		t.Fatalf("expected a clean run, got %d diagnostics", bag.Len())
	}
	if _, bound := out.InheritDoc[fn]; !bound {
		t.Fatalf("the dotted path should resolve")
	}
}
