package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/natc-lang/natc/internal/ast"
	"github.com/natc-lang/natc/internal/codegen"
	"github.com/natc-lang/natc/internal/optimizer"
	"github.com/natc-lang/natc/internal/parser"
	"github.com/natc-lang/natc/internal/report"
	"github.com/natc-lang/natc/internal/semantic"
)

var (
	compileOutput       string
	compileSkipOptimize bool
	compileReportPath   string
)

var compileCmd = &cobra.Command{
	Use:   "compile file",
	Short: "Compile a while-language program to NASM assembly",
	Long: `Compile a while-language source file: parse it, type-check it, run the
constant-propagation/algebraic optimizer over its AST, and emit 32-bit
x86 NASM assembly.

Examples:
  natc compile program.nat
  natc compile program.nat -o program.asm
  natc compile program.nat --skip-optimize
  natc compile program.nat --report build.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output file (default: <input>.asm)")
	compileCmd.Flags().BoolVar(&compileSkipOptimize, "skip-optimize", false, "skip the constant-propagation/algebraic optimizer")
	compileCmd.Flags().StringVar(&compileReportPath, "report", "", "write a JSON build manifest to this path")
}

// countInstructions counts instructions recursively, including nested
// If/While/Repeat bodies, for the build report's instruction total.
func countInstructions(instrs []ast.Instruction) int {
	total := 0
	for _, instr := range instrs {
		total++
		switch n := instr.(type) {
		case *ast.If:
			total += countInstructions(n.Then) + countInstructions(n.Else)
		case *ast.While:
			total += countInstructions(n.Body)
		case *ast.Repeat:
			total += countInstructions(n.Body)
		}
	}
	return total
}

func runCompile(_ *cobra.Command, args []string) error {
	filename := args[0]
	started := time.Now()

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(content)

	if verbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	p := parser.New(input)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return reportDiagnostics(errs, input, filename)
	}

	if errs := semantic.Check(prog, p.SymbolTable(), input); len(errs) > 0 {
		return reportDiagnostics(errs, input, filename)
	}

	if !compileSkipOptimize {
		optimizer.Optimize(prog)
	} else if verbose {
		fmt.Fprintln(os.Stderr, "Optimizer disabled (--skip-optimize)")
	}

	gen := codegen.New(p.SymbolTable(), p.Labels())
	asm := gen.Generate(prog)

	outFile := compileOutput
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".asm"
		} else {
			outFile = filename + ".asm"
		}
	}
	if err := os.WriteFile(outFile, []byte(asm), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	rep := report.New(filename, started)
	rep.Finish(countInstructions(prog.Instructions), len(p.SymbolTable().InOrder()), time.Now())

	if compileReportPath != "" {
		data, err := rep.JSON()
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		if err := os.WriteFile(compileReportPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report file %s: %w", compileReportPath, err)
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, rep.HumanSummary())
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}
	return nil
}
