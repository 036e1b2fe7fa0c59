package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "natc",
	Short: "Batch compiler for the while-language",
	Long: `natc is a batch compiler for a small imperative while-language:
booleans, naturals, declarations, assignment, I/O, conditionals, and
while/repeat loops.

A compile runs the program through static type checking, then a
constant-propagation and algebraic optimization pass over the AST,
before emitting 32-bit x86 NASM assembly.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
