package symbols

import (
	"testing"

	"sable/internal/diag"
)

func declareNames(t *testing.T, names ...string) *Resolver {
	t.Helper()
	table := NewTable(Hints{}, nil)
	root := table.UnitRoot(1, sp(0, 100))
	r := NewResolver(table, root, ResolverOptions{Reporter: diag.BagReporter{Bag: diag.NewBag(8)}})
	for _, name := range names {
		if _, ok := r.Declare(Symbol{Name: table.Strings.Intern(name), Kind: SymbolLocalVar}); !ok {
			t.Fatalf("failed to declare %q", name)
		}
	}
	return r
}

func TestSuggestSimilarFindsCloseName(t *testing.T) {
	r := declareNames(t, "balance", "owner")
	if got := r.SuggestSimilar("blance"); got != "balance" {
		t.Fatalf("want balance, got %q", got)
	}
}

func TestSuggestSimilarRejectsDistantNames(t *testing.T) {
	r := declareNames(t, "balance")
	if got := r.SuggestSimilar("zzz"); got != "" {
		t.Fatalf("nothing is close to zzz, got %q", got)
	}
}

func TestSuggestSimilarShortNamesAreStrict(t *testing.T) {
	r := declareNames(t, "ab")
	// Distance 2 on a 3-letter query exceeds the short-name budget.
	if got := r.SuggestSimilar("xyb"); got != "" {
		t.Fatalf("short names tolerate distance 1 only, got %q", got)
	}
	if got := r.SuggestSimilar("ab1"); got != "ab" {
		t.Fatalf("distance 1 should match, got %q", got)
	}
}

func TestSuggestSimilarTieBreaksLexicographically(t *testing.T) {
	r := declareNames(t, "countB", "countA")
	if got := r.SuggestSimilar("countC"); got != "countA" {
		t.Fatalf("ties break lexicographically, got %q", got)
	}
}

func TestSuggestSimilarSearchesOuterScopes(t *testing.T) {
	r := declareNames(t, "supply")
	r.Enter(ScopeBlock, ScopeOwner{}, sp(0, 10))
	if got := r.SuggestSimilar("suply"); got != "supply" {
		t.Fatalf("outer scope names should be candidates, got %q", got)
	}
}
