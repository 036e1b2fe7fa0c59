package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/natc-lang/natc/internal/diagnostics"
	"github.com/natc-lang/natc/internal/parser"
	"github.com/natc-lang/natc/internal/printer"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a while-language program and print its canonical form",
	Long: `Parse a while-language source file and print it back in its canonical
textual form (equivalent to "natc fmt"), or report parse errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	input, filename, err := readInput(args)
	if err != nil {
		return err
	}

	p := parser.New(input)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return reportDiagnostics(errs, input, filename)
	}

	fmt.Print(printer.Print(prog, p.SymbolTable()))
	return nil
}

// reportDiagnostics prints the spec-mandated one-line "Line <N>: Error:
// <message>" for the earliest diagnostic to stdout (spec.md §6/§7: no
// errors are recovered, so only the first one is ever shown). The
// caret-pointing, optionally colorized rendering is an opt-in debug aid
// printed to stderr under -v, never the default path.
func reportDiagnostics(errs []*diagnostics.Error, source, filename string) error {
	for _, e := range errs {
		e.Source = source
		e.File = filename
	}
	fmt.Println(errs[0].Error())

	if verbose {
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, diagnostics.FormatAll(errs, isTerminal(os.Stderr)))
		fmt.Fprintln(os.Stderr)
	}

	return fmt.Errorf("compilation failed with %d error(s)", len(errs))
}
