package symbols

import (
	"fmt"

	"sable/internal/diag"
	"sable/internal/source"
)

// ResolverOptions configures resolver construction.
type ResolverOptions struct {
	Reporter diag.Reporter
}

func allowsOverload(kind SymbolKind) bool {
	return kind == SymbolFunction
}

func canShareName(existing, next SymbolKind) bool {
	if existing == next {
		return allowsOverload(next)
	}
	return false
}

// Resolver drives scope management and declaration/lookup routines. It is
// single-threaded state for one resolution run; concurrent runs need
// independent resolvers.
type Resolver struct {
	table                 *Table
	reporter              diag.Reporter
	stack                 []ScopeID
	scopeMismatchReported map[ScopeID]bool
}

// NewResolver wires a resolver to an existing table. If root is valid it
// becomes the current scope; otherwise scope-sensitive operations are no-ops.
func NewResolver(table *Table, root ScopeID, opts ResolverOptions) *Resolver {
	r := &Resolver{
		table:                 table,
		reporter:              opts.Reporter,
		stack:                 make([]ScopeID, 0, 8),
		scopeMismatchReported: make(map[ScopeID]bool),
	}
	if root.IsValid() {
		r.stack = append(r.stack, root)
	}
	return r
}

// Table exposes the underlying symbol table.
func (r *Resolver) Table() *Table {
	return r.table
}

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Depth reports the current scope stack depth.
func (r *Resolver) Depth() int {
	return len(r.stack)
}

// SetScope makes scope the active lookup scope and returns the previously
// active one. This is the activation/restoration primitive the binder uses:
// the previous scope is recorded by the caller, never recomputed.
func (r *Resolver) SetScope(scope ScopeID) (prev ScopeID) {
	prev = r.CurrentScope()
	if len(r.stack) == 0 {
		r.stack = append(r.stack, scope)
		return prev
	}
	r.stack[len(r.stack)-1] = scope
	return prev
}

// Enter creates a child scope, pushes it onto the stack, registers its owner
// in the table index, and returns its ID. Used by the declaration pass.
func (r *Resolver) Enter(kind ScopeKind, owner ScopeOwner, span source.Span) ScopeID {
	parent := r.CurrentScope()
	scope := r.table.Scopes.New(kind, parent, owner, span)
	r.table.bindOwner(scope, owner)
	r.stack = append(r.stack, scope)
	return scope
}

// Leave pops the current scope, validating against the expected one.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		return
	}
	top := r.stack[len(r.stack)-1]
	if expected.IsValid() && top != expected {
		r.reportScopeMismatch(expected, top)
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Declare installs a visible symbol into the current scope. Returns false if
// there is no active scope or the declaration conflicts with an existing
// entry.
func (r *Resolver) Declare(sym Symbol) (SymbolID, bool) {
	return r.declare(sym, false)
}

// DeclarePending installs a symbol that exists in program order but is not
// yet visible; ActivateVariable makes it visible. This models
// declare-after-use-is-illegal-within-the-same-initializer semantics.
func (r *Resolver) DeclarePending(sym Symbol) (SymbolID, bool) {
	return r.declare(sym, true)
}

func (r *Resolver) declare(sym Symbol, pending bool) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	if !scopeID.IsValid() {
		return NoSymbolID, false
	}
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}

	existing := scope.NameIndex[sym.Name]
	if pending {
		existing = append(existing, scope.Pending[sym.Name]...)
	}
	for _, symID := range existing {
		prev := r.table.Symbols.Get(symID)
		if prev == nil || canShareName(prev.Kind, sym.Kind) {
			continue
		}
		r.reportDuplicateSymbol(sym.Name, sym.Span, prev.Span)
		return NoSymbolID, false
	}

	sym.Scope = scopeID
	id := r.table.Symbols.New(&sym)
	scope.Symbols = append(scope.Symbols, id)
	if pending {
		if scope.Pending == nil {
			scope.Pending = make(map[source.StringID][]SymbolID)
		}
		scope.Pending[sym.Name] = append(scope.Pending[sym.Name], id)
	} else {
		scope.NameIndex[sym.Name] = append(scope.NameIndex[sym.Name], id)
	}
	return id, true
}

// ActivateVariable makes all pending declarations of name in the current
// scope visible from this point forward.
func (r *Resolver) ActivateVariable(name source.StringID) {
	scope := r.table.Scopes.Get(r.CurrentScope())
	if scope == nil || scope.Pending == nil {
		return
	}
	ids := scope.Pending[name]
	if len(ids) == 0 {
		return
	}
	scope.NameIndex[name] = append(scope.NameIndex[name], ids...)
	delete(scope.Pending, name)
}

// LookupAll returns every visible declaration of name in the nearest scope of
// the active chain that has one. Multiple results mean the name is
// overloaded there.
func (r *Resolver) LookupAll(name source.StringID) []SymbolID {
	scopeID := r.CurrentScope()
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if ids := scope.NameIndex[name]; len(ids) > 0 {
			out := make([]SymbolID, len(ids))
			copy(out, ids)
			return out
		}
		scopeID = scope.Parent
	}
	return nil
}

// LookupAllAnyVisibility is the order-insensitive variant of LookupAll: it
// also finds declarations that exist later in program order (still pending).
func (r *Resolver) LookupAllAnyVisibility(name source.StringID) []SymbolID {
	scopeID := r.CurrentScope()
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		ids := scope.NameIndex[name]
		if pending := scope.Pending[name]; len(pending) > 0 {
			ids = append(append([]SymbolID(nil), ids...), pending...)
		}
		if len(ids) > 0 {
			return ids
		}
		scopeID = scope.Parent
	}
	return nil
}

// LookupPath resolves a dot-separated qualified path: the first segment in
// the active chain, each following segment inside the scope owned by the
// previous result. Missing or ambiguous segments yield NoSymbolID; the
// caller decides how hard to fail.
func (r *Resolver) LookupPath(path []source.StringID) SymbolID {
	if len(path) == 0 {
		return NoSymbolID
	}
	matches := r.LookupAll(path[0])
	if len(matches) != 1 {
		return NoSymbolID
	}
	current := matches[0]
	for _, segment := range path[1:] {
		sym := r.table.Symbols.Get(current)
		if sym == nil || !sym.OwnScope.IsValid() {
			return NoSymbolID
		}
		scope := r.table.Scopes.Get(sym.OwnScope)
		if scope == nil {
			return NoSymbolID
		}
		ids := scope.NameIndex[segment]
		if len(ids) != 1 {
			return NoSymbolID
		}
		current = ids[0]
	}
	return current
}

func (r *Resolver) reportDuplicateSymbol(name source.StringID, span, prevSpan source.Span) {
	if r.reporter == nil {
		return
	}
	nameStr := r.table.Strings.MustLookup(name)
	msg := fmt.Sprintf("duplicate declaration of '%s'", nameStr)
	builder := diag.ReportError(r.reporter, diag.DeclDuplicateSymbol, span, msg)
	if prevSpan != (source.Span{}) {
		builder.WithNote(prevSpan, "previous declaration here")
	}
	builder.Emit()
}

func (r *Resolver) reportScopeMismatch(expected, actual ScopeID) {
	if r.reporter == nil {
		return
	}
	if actual.IsValid() && r.scopeMismatchReported[actual] {
		return
	}
	if actual.IsValid() {
		r.scopeMismatchReported[actual] = true
	}

	var primary source.Span
	actualLabel := fmt.Sprintf("scope #%d", actual)
	if scope := r.table.Scopes.Get(actual); scope != nil {
		primary = scope.Span
		actualLabel = fmt.Sprintf("%s scope #%d", scope.Kind, actual)
	}
	expectedLabel := "unknown scope"
	if scope := r.table.Scopes.Get(expected); scope != nil {
		expectedLabel = fmt.Sprintf("%s scope #%d", scope.Kind, expected)
	}

	msg := fmt.Sprintf("scope stack mismatch: closing %s while expecting %s", actualLabel, expectedLabel)
	builder := diag.ReportWarning(r.reporter, diag.DeclScopeMismatch, primary, msg)
	if scope := r.table.Scopes.Get(expected); scope != nil {
		builder.WithNote(scope.Span, "expected scope declared here")
	}
	builder.Emit()
}
