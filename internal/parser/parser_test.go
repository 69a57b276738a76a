package parser

import (
	"testing"

	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/lexer"
)

func parseProgram(t *testing.T, src string) []*ast.Node {
	t.Helper()
	p := New(lexer.New(src), "global")
	program, err := p.Program()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return program
}

func TestParseLetDeclarationWithType(t *testing.T) {
	program := parseProgram(t, `let x: int = 1 + 2;`)
	if len(program) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program))
	}
	decl := program[0]
	if decl.Kind != ast.KindDeclaration || decl.Name != "x" {
		t.Fatalf("expected Declaration x, got %+v", decl)
	}
	if decl.VarType == nil || *decl.VarType != "int" {
		t.Fatalf("expected declared type int, got %v", decl.VarType)
	}
	if decl.Rhs.Kind != ast.KindAdd {
		t.Fatalf("expected rhs to be Add, got %v", decl.Rhs.Kind)
	}
}

func TestParsePrecedenceMulBindsTighterThanAdd(t *testing.T) {
	program := parseProgram(t, `let x = 1 + 2 * 3;`)
	rhs := program[0].Rhs
	if rhs.Kind != ast.KindAdd {
		t.Fatalf("top-level op should be Add, got %v", rhs.Kind)
	}
	if rhs.Rhs.Kind != ast.KindMul {
		t.Fatalf("right operand of + should be the Mul subtree, got %v", rhs.Rhs.Kind)
	}
}

func TestParseFunctionDeclarationWithParamsAndReturn(t *testing.T) {
	program := parseProgram(t, `fn add(a: int, b: int) -> int { return a + b; }`)
	fn := program[0]
	if fn.Kind != ast.KindFunction || fn.Name != "add" {
		t.Fatalf("expected Function add, got %+v", fn)
	}
	if len(fn.Args) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Args))
	}
	if fn.VarType == nil || *fn.VarType != "int" {
		t.Fatalf("expected return type int, got %v", fn.VarType)
	}
	if len(fn.Body) != 1 || fn.Body[0].Kind != ast.KindReturn {
		t.Fatalf("expected single Return statement body, got %+v", fn.Body)
	}
}

func TestParseFunctionOutlineHasNoBody(t *testing.T) {
	program := parseProgram(t, `trait Greet { fn hello(self) -> int; }`)
	trait := program[0]
	if trait.Kind != ast.KindTrait {
		t.Fatalf("expected Trait, got %v", trait.Kind)
	}
	member := trait.Fields[0]
	if member.Kind != ast.KindFunctionOutline {
		t.Fatalf("expected FunctionOutline member, got %v", member.Kind)
	}
	if member.Args[0].Kind != ast.KindSelfRef {
		t.Fatalf("expected first param to be SelfRef, got %v", member.Args[0].Kind)
	}
}

func TestParseStructDeclaration(t *testing.T) {
	program := parseProgram(t, `struct Point { x: int, y: int }`)
	st := program[0]
	if st.Kind != ast.KindStruct || st.Name != "Point" {
		t.Fatalf("expected Struct Point, got %+v", st)
	}
	if len(st.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(st.Fields))
	}
	if st.Fields[0].Kind != ast.KindTypedVariable || st.Fields[0].Name != "x" {
		t.Fatalf("expected first field TypedVariable x, got %+v", st.Fields[0])
	}
}

func TestParseImplDeclaration(t *testing.T) {
	program := parseProgram(t, `impl Greet for Point { fn hello(self) -> int { return 1; } }`)
	impl := program[0]
	if impl.Kind != ast.KindTraitImpl || impl.TraitName != "Greet" || impl.TypeName != "Point" {
		t.Fatalf("expected TraitImpl Greet/Point, got %+v", impl)
	}
	if len(impl.Fields) != 1 || impl.Fields[0].Kind != ast.KindFunction {
		t.Fatalf("expected one provided Function, got %+v", impl.Fields)
	}
}

func TestParseDottedCall(t *testing.T) {
	program := parseProgram(t, `console.log("hi");`)
	call := program[0]
	if call.Kind != ast.KindCall || call.Name != "console.log" {
		t.Fatalf("expected Call console.log, got %+v", call)
	}
	if len(call.Args) != 1 || call.Args[0].Kind != ast.KindString {
		t.Fatalf("expected one string arg, got %+v", call.Args)
	}
}

func TestParseObjectLiteral(t *testing.T) {
	program := parseProgram(t, `let p = Point { x: 1, y: 2 };`)
	obj := program[0].Rhs
	if obj.Kind != ast.KindObject || obj.TypeName != "Point" {
		t.Fatalf("expected Object Point, got %+v", obj)
	}
	if len(obj.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(obj.Fields))
	}
}

func TestParseAssignment(t *testing.T) {
	program := parseProgram(t, `let x = 1; x = 2;`)
	assign := program[1]
	if assign.Kind != ast.KindAssignment || assign.Name != "x" {
		t.Fatalf("expected Assignment x, got %+v", assign)
	}
	if assign.Rhs.Kind != ast.KindInteger || assign.Rhs.IntVal != 2 {
		t.Fatalf("expected rhs Integer(2), got %+v", assign.Rhs)
	}
}

func TestParseUnexpectedTokenProducesDiagnostic(t *testing.T) {
	p := New(lexer.New(`let = 1;`), "global")
	_, err := p.Program()
	if err == nil {
		t.Fatalf("expected a parse error for missing identifier after let")
	}
}
