// Package builtins seeds the root scope with the evaluator's host-backed
// surface: for now, a single "console" object with a "log(msg)" method
// that accepts any value and prints its inspected form.
package builtins

import (
	"fmt"
	"io"

	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/scope"
)

// Seed declares "console" in the root scope, writing console.log output
// to out (the driver passes os.Stdout; tests pass a buffer).
func Seed(root *scope.Scope, out io.Writer) error {
	logFn := ast.BuiltinFn(
		"log",
		[]*ast.Node{ast.Identifier("msg", ast.NoSpan)},
		func(s ast.Scope) *ast.Node {
			msg, _ := s.Get("msg")
			fmt.Fprintln(out, msg.Inspect())
			return nil
		},
		nil,
		ast.NoSpan,
	)

	console := ast.Object("<Internal>", []*ast.Node{
		ast.Field("log", logFn, ast.NoSpan),
	}, ast.NoSpan)

	return root.Declare("console", console, ast.NoSpan)
}
