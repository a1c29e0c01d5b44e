package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"sable/internal/diag"
	"sable/internal/source"
)

// BindUnits binds many unit payloads in parallel. Files are registered into
// one FileSet up front; each unit then gets its own builders, symbol table,
// and bag, so workers never share mutable state. Results keep the input
// order regardless of completion order.
func BindUnits(ctx context.Context, paths []string, opts Options) (*source.FileSet, []UnitResult, error) {
	fileSet := source.NewFileSet()
	if len(paths) == 0 {
		return fileSet, nil, nil
	}

	limit := opts.MaxDiagnostics
	if limit <= 0 {
		limit = 256
	}

	// The FileSet is not safe for concurrent mutation, so loading stays
	// serial. Load failures become diagnostics in the failing unit's slot.
	fileIDs := make(map[string]source.FileID, len(paths))
	loadErrors := make(map[string]error, len(paths))
	for _, path := range paths {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(paths) {
		jobs = len(paths)
	}

	results := make([]UnitResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(limit)
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load unit payload: " + loadErr.Error(),
				})
				results[i] = UnitResult{Path: path, Bag: bag}
				return nil
			}

			results[i] = *BindPayload(fileSet, fileIDs[path], path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, nil, err
	}
	return fileSet, results, nil
}

// MergeBags collects every unit's diagnostics into one sorted, deduplicated
// bag for rendering.
func MergeBags(results []UnitResult) *diag.Bag {
	total := 0
	for i := range results {
		if results[i].Bag != nil {
			total += results[i].Bag.Len()
		}
	}
	merged := diag.NewBag(total + 1)
	for i := range results {
		if results[i].Bag != nil {
			merged.Merge(results[i].Bag)
		}
	}
	merged.Sort()
	merged.Dedup()
	return merged
}
