package binder

import (
	"fmt"
	"strings"

	"sable/internal/ast"
	"sable/internal/diag"
	"sable/internal/source"
	"sable/internal/symbols"
)

const inheritDocTag = "inheritdoc"

// resolveInheritDoc handles the documentation-inheritance tag on a
// documented declaration. Zero tags is a no-op, one tag must name a
// contract via qualified path, more than one is an error with no resolution
// attempted.
func (b *binder) resolveInheritDoc(itemID ast.ItemID, docs []ast.DocTag) {
	var tags []ast.DocTag
	for _, tag := range docs {
		if tag.Tag == inheritDocTag {
			tags = append(tags, tag)
		}
	}
	switch len(tags) {
	case 0:
		return
	case 1:
	default:
		diag.ReportError(b.reporter, diag.DocInheritDuplicate, tags[1].Span,
			"documentation tag @inheritdoc can only be given once").Emit()
		return
	}

	tag := tags[0]
	segments := strings.Split(tag.Content, ".")
	path := make([]source.StringID, 0, len(segments))
	for _, seg := range segments {
		path = append(path, b.table.Strings.Intern(seg))
	}

	sym := b.scopes.LookupPath(path)
	if !sym.IsValid() {
		msg := fmt.Sprintf("documentation tag @inheritdoc references inexistent contract '%s'", tag.Content)
		diag.ReportError(b.reporter, diag.DocInheritMissing, tag.Span, msg).Emit()
		return
	}
	target := b.table.Symbols.Get(sym)
	if target == nil || target.Kind != symbols.SymbolContract {
		msg := fmt.Sprintf("documentation tag @inheritdoc reference '%s' is not a contract", tag.Content)
		diag.ReportError(b.reporter, diag.DocInheritNotContract, tag.Span, msg).Emit()
		return
	}
	b.out.InheritDoc[itemID] = sym
}
