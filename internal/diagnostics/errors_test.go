package diagnostics

import (
	"strings"
	"testing"

	"github.com/tascord/fang/internal/ast"
)

func TestTypeMismatchMessage(t *testing.T) {
	err := NewTypeMismatch("int", "string", "global", ast.NoSpan)
	msg := err.Error()
	if !strings.Contains(msg, "Type mismatch") {
		t.Errorf("message missing label: %s", msg)
	}
	if !strings.Contains(msg, "Expected int, found string") {
		t.Errorf("message missing detail: %s", msg)
	}
	if !strings.Contains(msg, "scope global") {
		t.Errorf("message missing scope: %s", msg)
	}
}

func TestArgumentLengthMismatchMessage(t *testing.T) {
	err := NewArgumentLengthMismatch(2, 3, "global", ast.NoSpan)
	msg := err.Error()
	if !strings.Contains(msg, "Expected 2 arguments, found 3") {
		t.Errorf("message = %s", msg)
	}
}

func TestUndeclaredVariableMessage(t *testing.T) {
	err := NewUndeclaredVariable("x", "global", ast.NoSpan)
	msg := err.Error()
	if !strings.Contains(msg, "Variable x not found") {
		t.Errorf("message = %s", msg)
	}
}

func TestSnippetRendersCaretUnderSpan(t *testing.T) {
	span := ast.Span{LineText: "let x = 1", LineStart: 1, LineEnd: 1, ColStart: 9, ColEnd: 10}
	err := &Error{Kind: TypeMismatch, Expected: "int", Found: "string", Scope: "global", Span: span}
	msg := err.Error()
	if !strings.Contains(msg, "let x = 1") {
		t.Errorf("snippet missing source line: %s", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Errorf("snippet missing caret: %s", msg)
	}
}
