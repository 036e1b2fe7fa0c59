package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/natc-lang/natc/internal/parser"
	"github.com/natc-lang/natc/internal/semantic"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check a while-language program without compiling it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	input, filename, err := readInput(args)
	if err != nil {
		return err
	}

	p := parser.New(input)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return reportDiagnostics(errs, input, filename)
	}

	if errs := semantic.Check(prog, p.SymbolTable(), input); len(errs) > 0 {
		return reportDiagnostics(errs, input, filename)
	}

	fmt.Printf("%s: ok\n", filename)
	return nil
}
