package ast

import "testing"

func TestCompareTypeTypedVariableMatchesConcrete(t *testing.T) {
	formal := TypedVariable("int", "x", NoSpan)
	actual := Integer(5, NoSpan)

	if !formal.CompareType(actual) {
		t.Fatalf("expected TypedVariable(int) to match Integer value")
	}
	if !actual.CompareType(formal) {
		t.Fatalf("CompareType should be symmetric for TypedVariable vs concrete")
	}
}

func TestCompareTypeMismatch(t *testing.T) {
	formal := TypedVariable("string", "x", NoSpan)
	actual := Integer(5, NoSpan)

	if formal.CompareType(actual) {
		t.Fatalf("expected TypedVariable(string) not to match Integer value")
	}
}

func TestCompareTypeSameKind(t *testing.T) {
	a := Integer(1, NoSpan)
	b := Integer(2, NoSpan)
	if !a.CompareType(b) {
		t.Fatalf("two Integer nodes should compare type-equal regardless of value")
	}
}

func TestGetTypePrimitives(t *testing.T) {
	cases := []struct {
		node *Node
		want string
	}{
		{Integer(1, NoSpan), "int"},
		{Float(1.5, NoSpan), "float"},
		{String("hi", NoSpan), "string"},
		{Boolean(true, NoSpan), "bool"},
	}
	for _, c := range cases {
		if got := c.node.GetType(); got != c.want {
			t.Errorf("GetType() = %q, want %q", got, c.want)
		}
	}
}

func TestGetTypeObjectIsStructName(t *testing.T) {
	obj := Object("Point", []*Node{
		Field("x", Integer(1, NoSpan), NoSpan),
	}, NoSpan)
	if got := obj.GetType(); got != "Point" {
		t.Errorf("GetType() on Object = %q, want %q", got, "Point")
	}
}

func TestInspectObject(t *testing.T) {
	obj := Object("Point", []*Node{
		Field("x", Integer(1, NoSpan), NoSpan),
		Field("y", Integer(2, NoSpan), NoSpan),
	}, NoSpan)
	want := "Point {x: 1, y: 2}"
	if got := obj.Inspect(); got != want {
		t.Errorf("Inspect() = %q, want %q", got, want)
	}
}

func TestInspectPrimitives(t *testing.T) {
	if got := Integer(42, NoSpan).Inspect(); got != "42" {
		t.Errorf("Integer.Inspect() = %q", got)
	}
	if got := String("hi", NoSpan).Inspect(); got != "hi" {
		t.Errorf("String.Inspect() = %q", got)
	}
	if got := Boolean(false, NoSpan).Inspect(); got != "false" {
		t.Errorf("Boolean.Inspect() = %q", got)
	}
}

func TestIsOp(t *testing.T) {
	add := BinOp(KindAdd, Integer(1, NoSpan), Integer(2, NoSpan), NoSpan)
	if !add.IsOp() {
		t.Fatalf("expected Add node to be IsOp")
	}
	if Integer(1, NoSpan).IsOp() {
		t.Fatalf("expected Integer node not to be IsOp")
	}
}
