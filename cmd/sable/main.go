package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sable/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sable",
	Short: "Sable name-resolution toolchain",
	Long:  `Sable binds parsed compilation units: every identifier and type reference is resolved to its declaration, or diagnosed.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(bindCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 256, "maximum number of diagnostics to accumulate")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
