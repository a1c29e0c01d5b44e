package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sable/internal/astio"
	"sable/internal/driver"
	"sable/internal/project"
	"sable/internal/ui"
)

var bindCmd = &cobra.Command{
	Use:   "bind [flags] [unit.mp ...]",
	Short: "Resolve references in unit payloads",
	Long: `Bind loads MessagePack unit payloads, registers their declarations, and
resolves every identifier and type reference. Without arguments the units
come from the [bind].units list in the nearest sable.toml.`,
	RunE: runBind,
}

func init() {
	bindCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	bindCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	bindCmd.Flags().Bool("signatures", false, "resolve declaration signatures only, skip bodies")
	bindCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	bindCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	bindCmd.Flags().String("export", "", "write resolved bindings for each unit next to it, with the given extension")
}

func runBind(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	signaturesOnly, err := cmd.Flags().GetBool("signatures")
	if err != nil {
		return fmt.Errorf("failed to get signatures flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	exportExt, err := cmd.Flags().GetString("export")
	if err != nil {
		return fmt.Errorf("failed to get export flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		ResolveBodies:  !signaturesOnly,
	}

	paths := args
	if len(paths) == 0 {
		manifest, ok, err := project.LoadManifest(".")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no sable.toml found\nplease pass unit payloads explicitly, e.g.:\n  sable bind path/to/unit.mp")
		}
		paths = manifest.UnitPaths()
		if len(paths) == 0 {
			return fmt.Errorf("%s: [bind].units is empty", manifest.Path)
		}
		if !cmd.Root().PersistentFlags().Changed("max-diagnostics") {
			opts.MaxDiagnostics = manifest.Config.Bind.DiagnosticLimit()
		}
		if opts.Jobs == 0 {
			opts.Jobs = manifest.Config.Bind.Jobs
		}
		if !cmd.Flags().Changed("signatures") {
			opts.ResolveBodies = manifest.Config.Bind.WantBodies()
		}
	}

	fileSet, results, err := driver.BindUnits(cmd.Context(), paths, opts)
	if err != nil {
		return err
	}

	if exportExt != "" {
		for i := range results {
			if results[i].Bindings == nil || !results[i].OK {
				continue
			}
			if err := exportBindings(&results[i], exportExt); err != nil {
				return err
			}
		}
	}

	merged := driver.MergeBags(results)
	switch format {
	case "json":
		if err := ui.JSON(cmd.OutOrStdout(), merged, fileSet, ui.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     withNotes,
			IncludeFixes:     suggest,
		}); err != nil {
			return err
		}
	default:
		useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
		ui.Pretty(cmd.OutOrStdout(), merged, fileSet, ui.PrettyOpts{
			Color:     useColor,
			ShowNotes: withNotes,
			ShowFixes: suggest,
		})
	}

	if merged.HasErrors() {
		return fmt.Errorf("binding failed with %d diagnostics", merged.Len())
	}
	return nil
}

func exportBindings(result *driver.UnitResult, ext string) error {
	path := result.Path + "." + ext
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := astio.EncodeBindings(f, result.Bindings); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
