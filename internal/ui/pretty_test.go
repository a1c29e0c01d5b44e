package ui

import (
	"bytes"
	"strings"
	"testing"

	"sable/internal/diag"
	"sable/internal/source"
)

const sampleSource = "contract Token {\nuint supply\nbalance = blance\n}\n"

func sampleBag(fs *source.FileSet) (*diag.Bag, source.FileID) {
	fileID := fs.AddVirtual("main.sbl", []byte(sampleSource))
	bag := diag.NewBag(8)
	// "blance" sits on line 3, columns 11..16.
	span := source.Span{File: fileID, Start: 39, End: 45}
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.BindUndeclaredIdent,
		Message:  "undeclared identifier; did you mean 'balance'?",
		Primary:  span,
		Notes: []diag.Note{
			{Span: source.Span{File: fileID, Start: 29, End: 36}, Msg: "the assignment target is here"},
		},
		Fixes: []diag.Fix{
			{Title: "replace 'blance' with 'balance'", Edits: []diag.FixEdit{
				{Span: span, NewText: "balance"},
			}},
		},
	})
	return bag, fileID
}

func TestPrettyRendersLocationAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := sampleBag(fs)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	out := buf.String()
	if !strings.Contains(out, "main.sbl:3:11: error[BND2001]: undeclared identifier") {
		t.Fatalf("missing header line:\n%s", out)
	}
	if !strings.Contains(out, "   3 | balance = blance") {
		t.Fatalf("missing source line:\n%s", out)
	}
	caret := "| " + strings.Repeat(" ", 10) + "^~~~~~"
	if !strings.Contains(out, caret) {
		t.Fatalf("caret underline misaligned:\n%s", out)
	}
	if strings.Contains(out, "note:") || strings.Contains(out, "fix:") {
		t.Fatalf("notes and fixes are opt-in:\n%s", out)
	}
}

func TestPrettyShowsNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := sampleBag(fs)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowFixes: true})

	out := buf.String()
	if !strings.Contains(out, "note: main.sbl:3:1: the assignment target is here") {
		t.Fatalf("missing note:\n%s", out)
	}
	if !strings.Contains(out, "fix: replace 'blance' with 'balance'") {
		t.Fatalf("missing fix:\n%s", out)
	}
	if !strings.Contains(out, `-> "balance"`) {
		t.Fatalf("missing fix edit:\n%s", out)
	}
}

func TestPrettyUnknownFile(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOLoadFileError,
		Message:  "failed to load unit payload",
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	if !strings.Contains(buf.String(), "<unknown>: error[IO4001]") {
		t.Fatalf("diagnostics without a file still render:\n%s", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := sampleBag(fs)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})

	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("want 1 diagnostic, got %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "BND2001" {
		t.Fatalf("want code BND2001, got %q", d.Code)
	}
	if d.Location.File != "main.sbl" || d.Location.StartLine != 3 || d.Location.StartCol != 11 {
		t.Fatalf("bad location: %+v", d.Location)
	}
	if len(d.Notes) != 1 || len(d.Fixes) != 1 {
		t.Fatalf("notes and fixes should be included: %+v", d)
	}
	if d.Fixes[0].Edits[0].NewText != "balance" {
		t.Fatalf("bad fix edit: %+v", d.Fixes[0])
	}
}

func TestJSONOmitsPositionsUnlessAsked(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := sampleBag(fs)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	loc := out.Diagnostics[0].Location
	if loc.StartLine != 0 || loc.StartCol != 0 {
		t.Fatalf("positions are opt-in: %+v", loc)
	}
	if loc.StartByte != 39 || loc.EndByte != 45 {
		t.Fatalf("byte offsets always present: %+v", loc)
	}
}
