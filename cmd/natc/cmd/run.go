package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/natc-lang/natc/internal/eval"
	"github.com/natc-lang/natc/internal/optimizer"
	"github.com/natc-lang/natc/internal/parser"
	"github.com/natc-lang/natc/internal/printer"
	"github.com/natc-lang/natc/internal/semantic"
)

var (
	runDumpAST  bool
	runOptimize bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Type-check, optionally optimize, and interpret a while-language program",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "print the program's canonical form before running it")
	runCmd.Flags().BoolVar(&runOptimize, "optimize", true, "run the constant-propagation/algebraic optimizer before interpreting")
}

func runProgram(_ *cobra.Command, args []string) error {
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

	if runOptimize {
		optimizer.Optimize(prog)
	}

	if runDumpAST {
		fmt.Fprint(os.Stderr, printer.Print(prog, p.SymbolTable()))
		fmt.Fprintln(os.Stderr, "---")
	}

	interp := eval.New(p.SymbolTable(), os.Stdin, os.Stdout)
	if err := interp.Run(prog); err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	return nil
}
