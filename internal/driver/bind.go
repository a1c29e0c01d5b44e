// Package driver orchestrates the binding pipeline: loading unit payloads,
// registering declarations, and running reference binding, optionally across
// many units in parallel.
package driver

import (
	"bytes"

	"sable/internal/asm"
	"sable/internal/ast"
	"sable/internal/astio"
	"sable/internal/binder"
	"sable/internal/diag"
	"sable/internal/source"
	"sable/internal/symbols"
)

// Options configures one driver run.
type Options struct {
	// MaxDiagnostics caps the per-unit diagnostic bag.
	MaxDiagnostics int
	// Jobs bounds parallelism in BindUnits; 0 means one worker per CPU.
	Jobs int
	// ResolveBodies gates statement-body resolution.
	ResolveBodies bool
}

// UnitResult is everything the pipeline produced for one unit.
type UnitResult struct {
	Path     string
	FileID   source.FileID
	Builder  *ast.Builder
	Asm      *asm.Builder
	Unit     ast.UnitID
	Decl     symbols.Result
	Bindings *binder.Bindings
	Bag      *diag.Bag
	// OK is true iff the binding run emitted no diagnostics.
	OK bool
}

// BindUnit runs declaration registration and reference binding over one
// already-materialized unit. Both phases report into the same bag and share
// one symbol table.
func BindUnit(builder *ast.Builder, asmBuilder *asm.Builder, unitID ast.UnitID, opts Options) (*UnitResult, *diag.Bag) {
	limit := opts.MaxDiagnostics
	if limit <= 0 {
		limit = 256
	}
	bag := diag.NewBag(limit)
	reporter := diag.BagReporter{Bag: bag}

	decl := symbols.DeclareUnit(builder, unitID, symbols.DeclareOptions{
		Reporter: reporter,
	})
	bindings, clean := binder.Bind(builder, asmBuilder, &decl, binder.Options{
		Reporter:      reporter,
		ResolveBodies: opts.ResolveBodies,
	})

	return &UnitResult{
		Builder:  builder,
		Asm:      asmBuilder,
		Unit:     unitID,
		Decl:     decl,
		Bindings: bindings,
		Bag:      bag,
		OK:       clean && !bag.HasErrors(),
	}, bag
}

// BindPayload decodes one unit payload already registered in the file set
// and binds it. Decode failures are reported as diagnostics, not returned.
func BindPayload(fileSet *source.FileSet, fileID source.FileID, path string, opts Options) *UnitResult {
	limit := opts.MaxDiagnostics
	if limit <= 0 {
		limit = 256
	}

	builder := ast.NewBuilder(nil)
	asmBuilder := asm.NewBuilder()

	file := fileSet.Get(fileID)
	if file == nil {
		bag := diag.NewBag(limit)
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Message:  "failed to load unit payload: " + path,
		})
		return &UnitResult{Path: path, FileID: fileID, Builder: builder, Asm: asmBuilder, Bag: bag}
	}

	dec := astio.NewDecoder(builder, asmBuilder, fileID)
	unitID, err := dec.DecodeUnit(bytes.NewReader(file.Content))
	if err != nil {
		bag := diag.NewBag(limit)
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.DrvBadUnitPayload,
			Message:  "malformed unit payload " + path + ": " + err.Error(),
			Primary:  source.Span{File: fileID},
		})
		return &UnitResult{Path: path, FileID: fileID, Builder: builder, Asm: asmBuilder, Bag: bag}
	}

	result, _ := BindUnit(builder, asmBuilder, unitID, opts)
	result.Path = path
	result.FileID = fileID
	return result
}
