package diag

import (
	"testing"

	"sable/internal/source"
)

func sp(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagStopsAtLimit(t *testing.T) {
	bag := NewBag(2)
	d := Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(1, 0, 1)}

	if !bag.Add(d) || !bag.Add(d) {
		t.Fatalf("the first two diagnostics must be accepted")
	}
	if bag.Add(d) {
		t.Fatalf("the third diagnostic must be dropped")
	}
	if bag.Len() != 2 {
		t.Fatalf("want 2 diagnostics, got %d", bag.Len())
	}
}

func TestBagHasErrorsIgnoresWarnings(t *testing.T) {
	bag := NewBag(4)
	bag.Add(Diagnostic{Severity: SevWarning, Code: DeclScopeMismatch, Primary: sp(1, 0, 1)})
	if bag.HasErrors() {
		t.Fatalf("a warning alone is not an error")
	}
	bag.Add(Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(1, 2, 3)})
	if !bag.HasErrors() {
		t.Fatalf("an error must be detected")
	}
}

func TestBagSortOrdersByFileThenSpan(t *testing.T) {
	bag := NewBag(8)
	bag.Add(Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(2, 0, 1)})
	bag.Add(Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(1, 50, 55)})
	bag.Add(Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(1, 10, 15)})

	bag.Sort()

	items := bag.Items()
	if items[0].Primary != sp(1, 10, 15) || items[1].Primary != sp(1, 50, 55) || items[2].Primary != sp(2, 0, 1) {
		t.Fatalf("unexpected order: %v %v %v", items[0].Primary, items[1].Primary, items[2].Primary)
	}
}

func TestBagSortPutsErrorsBeforeWarningsAtSameSpan(t *testing.T) {
	bag := NewBag(4)
	bag.Add(Diagnostic{Severity: SevWarning, Code: DeclScopeMismatch, Primary: sp(1, 0, 5)})
	bag.Add(Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(1, 0, 5)})

	bag.Sort()

	if got := bag.Items()[0].Severity; got != SevError {
		t.Fatalf("errors sort first at the same span, got %v", got)
	}
}

func TestBagDedupDropsRepeats(t *testing.T) {
	bag := NewBag(8)
	d := Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(1, 0, 5)}
	bag.Add(d)
	bag.Add(d)
	bag.Add(Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(1, 10, 15)})

	bag.Dedup()

	if bag.Len() != 2 {
		t.Fatalf("want 2 after dedup, got %d", bag.Len())
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(1, 0, 1)})
	b := NewBag(2)
	b.Add(Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(1, 2, 3)})
	b.Add(Diagnostic{Severity: SevError, Code: BindUndeclaredIdent, Primary: sp(1, 4, 5)})

	a.Merge(b)

	if a.Len() != 3 {
		t.Fatalf("merge must keep everything, got %d", a.Len())
	}
	if a.Cap() < 3 {
		t.Fatalf("merge should have grown the limit, got %d", a.Cap())
	}
}
