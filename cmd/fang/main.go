// Command fang runs a .fang source file: lex, parse, lower, evaluate.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/builtins"
	"github.com/tascord/fang/internal/config"
	"github.com/tascord/fang/internal/diagnostics"
	"github.com/tascord/fang/internal/lexer"
	"github.com/tascord/fang/internal/lower"
	"github.com/tascord/fang/internal/opcode"
	"github.com/tascord/fang/internal/parser"
	"github.com/tascord/fang/internal/scope"
	"github.com/tascord/fang/internal/vm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <file.fang> [--trace]\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	path := os.Args[1]
	trace := false
	for _, arg := range os.Args[2:] {
		if arg == "--trace" {
			trace = true
		}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %s\n", path, err)
		os.Exit(1)
	}
	config.SetFileName(path)

	cfg, err := loadDriverConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading driver config: %s\n", err)
		os.Exit(1)
	}
	if cfg.Trace {
		trace = true
	}

	l := lexer.New(string(source))
	p := parser.New(l, "global")
	program, err := p.Program()
	if err != nil {
		printDiagnostic(err, cfg.ResolveColor())
		os.Exit(1)
	}

	if cfg.DumpAST {
		if err := dumpAST(cfg.DumpPath, program); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write AST dump: %s\n", err)
		}
	}

	root := scope.New("global", nil)
	if err := builtins.Seed(root, os.Stdout); err != nil {
		printDiagnostic(err, cfg.ResolveColor())
		os.Exit(1)
	}

	var ops []opcode.Op
	lower.Statements(program, &ops)

	machine := vm.New(ops)
	machine.Trace = trace
	machine.TraceOut = os.Stderr

	if _, err := machine.Run(root); err != nil {
		printDiagnostic(err, cfg.ResolveColor())
		os.Exit(1)
	}
}

// loadDriverConfig looks for fang.yaml or .fangrc.yaml next to the
// source file; a missing file falls back to the defaults.
func loadDriverConfig(sourcePath string) (config.DriverConfig, error) {
	dir := filepath.Dir(sourcePath)
	for _, name := range []string{"fang.yaml", ".fangrc.yaml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return config.LoadDriverConfig(candidate)
		}
	}
	return config.DefaultDriverConfig(), nil
}

// printDiagnostic renders err to stderr, colorizing the caret snippet
// when color is true and err is one of the evaluator's own diagnostics.
func printDiagnostic(err error, color bool) {
	if de, ok := err.(*diagnostics.Error); ok {
		fmt.Fprintln(os.Stderr, de.Render(color))
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}

// dumpAST writes a flat, indented rendering of the parsed statement list
// to path, for debugging a run.
func dumpAST(path string, program []*ast.Node) error {
	var b strings.Builder
	for _, n := range program {
		writeNode(&b, n, 0)
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func writeNode(b *strings.Builder, n *ast.Node, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s", indent, n.Kind)
	if n.Name != "" {
		fmt.Fprintf(b, " %s", n.Name)
	}
	b.WriteByte('\n')

	for _, child := range []*ast.Node{n.Lhs, n.Rhs} {
		writeNode(b, child, depth+1)
	}
	for _, child := range n.Args {
		writeNode(b, child, depth+1)
	}
	for _, child := range n.Body {
		writeNode(b, child, depth+1)
	}
	for _, child := range n.Fields {
		writeNode(b, child, depth+1)
	}
}
