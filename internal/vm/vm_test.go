package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tascord/fang/internal/builtins"
	"github.com/tascord/fang/internal/lexer"
	"github.com/tascord/fang/internal/lower"
	"github.com/tascord/fang/internal/opcode"
	"github.com/tascord/fang/internal/parser"
	"github.com/tascord/fang/internal/scope"
)

func runProgram(t *testing.T, src string) (string, error) {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l, "global")
	program, err := p.Program()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var out bytes.Buffer
	root := scope.New("global", nil)
	if err := builtins.Seed(root, &out); err != nil {
		t.Fatalf("seed builtins: %v", err)
	}

	var ops []opcode.Op
	lower.Statements(program, &ops)

	machine := New(ops)
	_, runErr := machine.Run(root)
	return out.String(), runErr
}

func TestScenarioArithmeticPrecedence(t *testing.T) {
	out, err := runProgram(t, `let x: int = 1 + 2 * 3; console.log(x);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "7" {
		t.Errorf("output = %q, want 7", out)
	}
}

func TestScenarioIntWidensToFloat(t *testing.T) {
	out, err := runProgram(t, `let a: float = 1; let b: float = 2.5; console.log(a + b);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "3.5" {
		t.Errorf("output = %q, want 3.5", out)
	}
}

func TestScenarioStringConcatCoercesRhs(t *testing.T) {
	out, err := runProgram(t, `let s: string = "hi "; console.log(s + 42);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "hi 42" {
		t.Errorf("output = %q, want %q", out, "hi 42")
	}
}

func TestScenarioFunctionCallReturnsValue(t *testing.T) {
	out, err := runProgram(t, `fn add(a: int, b: int) -> int { return a + b; } console.log(add(2, 3));`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "5" {
		t.Errorf("output = %q, want 5", out)
	}
}

func TestScenarioAssignTypeMismatchErrors(t *testing.T) {
	_, err := runProgram(t, `let x: int = 1; x = "no";`)
	if err == nil {
		t.Fatalf("expected TypeMismatch error")
	}
}

func TestScenarioArgumentLengthMismatchErrors(t *testing.T) {
	_, err := runProgram(t, `fn f(a: int) {} f(1, 2);`)
	if err == nil {
		t.Fatalf("expected ArgumentLengthMismatch error")
	}
}

func TestSpliceLeavesReturnValueOnStack(t *testing.T) {
	out, err := runProgram(t, `fn one() -> int { return 1; } console.log(one() + 41);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "42" {
		t.Errorf("output = %q, want 42", out)
	}
}

func TestSubtractionOperandOrderIsPreserved(t *testing.T) {
	out, err := runProgram(t, `console.log(5 - 2);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "3" {
		t.Errorf("5 - 2 should be 3 (operand order matters), got %q", out)
	}
}

func TestDivisionOperandOrderIsPreserved(t *testing.T) {
	out, err := runProgram(t, `console.log(10 / 2);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "5" {
		t.Errorf("10 / 2 should be 5 (operand order matters), got %q", out)
	}
}

func TestTraitImplEnablesDottedCall(t *testing.T) {
	src := `
struct Point { x: int }
trait Greet { fn hello(self) -> int; }
impl Greet for Point { fn hello(self) -> int { return 1; } }
let p: Point = Point { x: 1 };
console.log(p.hello());
`
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "1" {
		t.Errorf("output = %q, want 1", out)
	}
}

func TestTopLevelReturnHaltsCleanly(t *testing.T) {
	out, err := runProgram(t, `console.log(1); return 99; console.log(2);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "1" {
		t.Errorf("expected execution to stop after top-level return, got %q", out)
	}
}
