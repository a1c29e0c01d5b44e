// Package ui renders accumulated diagnostics for humans and tools.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sable/internal/diag"
	"sable/internal/source"
)

// PrettyOpts configures human-readable rendering.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	ShowFixes bool
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	caretColor   = color.New(color.FgGreen)
)

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func paint(c *color.Color, enabled bool, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

// Pretty writes every diagnostic in the bag with source context. The caller
// is expected to Sort the bag first; rendering preserves its order.
//
// The layout per diagnostic is:
//
//	path:line:col: error[BND2001]: undeclared identifier
//	  12 | balance = blance + 1
//	     |           ^~~~~~
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		renderOne(w, d, fs, opts)
	}
}

func renderOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := strings.ToLower(d.Severity.String())
	head := fmt.Sprintf("%s[%s]", sev, d.Code.ID())
	fmt.Fprintf(w, "%s: %s: %s\n",
		location(fs, d.Primary),
		paint(severityColor(d.Severity), opts.Color, head),
		d.Message)
	renderContext(w, fs, d.Primary, opts)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  note: %s: %s\n", location(fs, note.Span), note.Msg)
			renderContext(w, fs, note.Span, opts)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  fix: %s\n", fix.Title)
			for _, edit := range fix.Edits {
				fmt.Fprintf(w, "    %s -> %q\n", location(fs, edit.Span), edit.NewText)
			}
		}
	}
}

func location(fs *source.FileSet, span source.Span) string {
	file := fs.Get(span.File)
	if file == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

// renderContext prints the first source line the span covers, with a
// caret-and-tilde underline. Column math uses display width so tabs and
// wide runes keep the underline aligned.
func renderContext(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	file := fs.Get(span.File)
	if file == nil || span.Empty() {
		return
	}
	start, end := fs.Resolve(span)
	line := file.Line(start.Line)
	if line == "" {
		return
	}

	gutter := fmt.Sprintf("%4d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", gutter, line)

	runes := []rune(line)
	startCol := int(start.Col) - 1
	if startCol > len(runes) {
		startCol = len(runes)
	}
	width := 1
	if end.Line == start.Line && int(end.Col)-1 > startCol {
		width = int(end.Col) - 1 - startCol
	}
	if startCol+width > len(runes) {
		width = len(runes) - startCol
	}

	pad := runewidth.StringWidth(string(runes[:startCol]))
	underlined := 1
	if width > 0 {
		underlined = runewidth.StringWidth(string(runes[startCol : startCol+width]))
	}
	marker := "^" + strings.Repeat("~", maxInt(0, underlined-1))
	fmt.Fprintf(w, "%s | %s%s\n",
		strings.Repeat(" ", 4),
		strings.Repeat(" ", pad),
		paint(caretColor, opts.Color, marker))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
