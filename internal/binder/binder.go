// Package binder implements the reference-binding pass: it walks a declared
// AST unit, resolves every identifier and type name against the symbol
// table, and records the results in side tables keyed by node IDs. The tree
// itself is never mutated.
package binder

import (
	"errors"

	"sable/internal/asm"
	"sable/internal/ast"
	"sable/internal/diag"
	"sable/internal/source"
	"sable/internal/symbols"
)

// AddrMode is the assembly addressing mode attached to an external
// reference.
type AddrMode uint8

const (
	AddrNone AddrMode = iota
	// AddrSlot addresses the storage slot of a storage variable.
	AddrSlot
	// AddrOffset addresses the byte offset within the slot.
	AddrOffset
)

func (m AddrMode) String() string {
	switch m {
	case AddrSlot:
		return "slot"
	case AddrOffset:
		return "offset"
	default:
		return "none"
	}
}

// AsmRef records one external reference from assembly code: which
// declaration a syntactic occurrence resolved to and with which addressing
// mode. Keyed by occurrence, not by name: the same declaration may be
// referenced with different modes.
type AsmRef struct {
	Mode   AddrMode
	Symbol symbols.SymbolID
}

// Bindings holds every annotation the pass produces. Fields stay empty for
// nodes the pass did not resolve; IdentSymbols and IdentCandidates are
// mutually exclusive per node.
type Bindings struct {
	IdentSymbols    map[ast.ExprID]symbols.SymbolID
	IdentCandidates map[ast.ExprID][]symbols.SymbolID
	TypeSymbols     map[ast.TypeID]symbols.SymbolID
	ReturnParams    map[ast.StmtID]ast.ParamListID
	InheritDoc      map[ast.ItemID]symbols.SymbolID
	AsmRefs         map[asm.ExprID]AsmRef
}

func newBindings() *Bindings {
	return &Bindings{
		IdentSymbols:    make(map[ast.ExprID]symbols.SymbolID),
		IdentCandidates: make(map[ast.ExprID][]symbols.SymbolID),
		TypeSymbols:     make(map[ast.TypeID]symbols.SymbolID),
		ReturnParams:    make(map[ast.StmtID]ast.ParamListID),
		InheritDoc:      make(map[ast.ItemID]symbols.SymbolID),
		AsmRefs:         make(map[asm.ExprID]AsmRef),
	}
}

// Options configures one binding run.
type Options struct {
	Reporter diag.Reporter
	// ResolveBodies gates statement-body traversal. With it off the pass
	// still resolves declaration signatures (parameter and return types),
	// which supports a signatures-only run followed by a full run.
	ResolveBodies bool
	// Suggest overrides the similar-name engine; nil uses the resolver's.
	Suggest func(name string) string
}

// errFatal aborts resolution of the current subtree. It is absorbed per
// top-level item so one broken declaration does not stop its siblings.
var errFatal = errors.New("binder: fatal diagnostic")

// Bind resolves one unit against its declaration result. The boolean
// reports success: true iff the run emitted no diagnostics. Bindings stay
// valid (possibly partial) on failure.
func Bind(builder *ast.Builder, asmBuilder *asm.Builder, decl *symbols.Result, opts Options) (*Bindings, bool) {
	watcher := &countingReporter{inner: opts.Reporter}
	scopes := symbols.NewResolver(decl.Table, decl.UnitScope, symbols.ResolverOptions{
		Reporter: watcher,
	})

	b := &binder{
		builder:       builder,
		asm:           asmBuilder,
		table:         decl.Table,
		scopes:        scopes,
		reporter:      watcher,
		resolveBodies: opts.ResolveBodies,
		suggest:       opts.Suggest,
		out:           newBindings(),
	}
	if b.suggest == nil {
		b.suggest = scopes.SuggestSimilar
	}

	unit := builder.Unit(decl.Unit)
	if unit != nil {
		for _, itemID := range unit.Items {
			if err := b.bindItem(itemID); err != nil && !errors.Is(err, errFatal) {
				break
			}
		}
	}
	return b.out, watcher.reported == 0
}

type binder struct {
	builder       *ast.Builder
	asm           *asm.Builder
	table         *symbols.Table
	scopes        *symbols.Resolver
	reporter      *countingReporter
	resolveBodies bool
	suggest       func(string) string

	// returnParams is the return-context stack: one entry per enclosing
	// function or modifier, where a modifier contributes the explicit
	// no-returns marker.
	returnParams []ast.ParamListID

	// insideAsmFunction is true while traversing an assembly function body,
	// which runs in its own stack frame.
	insideAsmFunction bool

	out *Bindings
}

func (b *binder) lookupString(id source.StringID) string {
	return b.table.Strings.MustLookup(id)
}

// countingReporter forwards to the configured reporter while counting every
// report, so Bind can answer "did this run stay clean" without owning the
// sink.
type countingReporter struct {
	inner    diag.Reporter
	reported int
}

func (c *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	c.reported++
	if c.inner != nil {
		c.inner.Report(code, sev, primary, msg, notes, fixes)
	}
}
