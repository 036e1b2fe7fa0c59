// Command natc is the while-language batch compiler: it lexes, parses,
// type-checks, optimizes, and emits NASM assembly, with subcommands for
// inspecting each stage independently.
package main

import (
	"fmt"
	"os"

	"github.com/natc-lang/natc/cmd/natc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
