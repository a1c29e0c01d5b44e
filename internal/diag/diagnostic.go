package diag

import (
	"sable/internal/source"
)

// Note attaches a secondary location to a diagnostic, e.g. "the shadowed
// declaration is here".
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a single text replacement suggested by a diagnostic.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a suggested source rewrite, e.g. migrating `x_slot` to `x.slot`.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// WithFix returns a copy of the diagnostic with an attached fix.
func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}
