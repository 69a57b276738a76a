// Package diagnostics implements the evaluator's closed error taxonomy.
// Every semantic failure surfaces as a *Error carrying the responsible
// span; there is no local recovery.
package diagnostics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/config"
)

// Kind identifies one of the closed set of diagnostic kinds.
type Kind int

const (
	TypeMismatch Kind = iota
	OperationUnsupported
	UndeclaredVariable
	UndeclaredFunction
	UndeclaredType
	AlreadyDeclaredVariable
	AlreadyDeclaredFunction
	AlreadyDeclaredTrait
	AlreadyDeclaredStruct
	AlreadyImplementedTrait
	UnexpectedToken
	UnexpectedType
	ArgumentLengthMismatch
)

var kindLabels = map[Kind]string{
	TypeMismatch:            "Type mismatch",
	OperationUnsupported:    "Operation unsupported",
	UndeclaredVariable:      "Undeclared variable",
	UndeclaredFunction:      "Undeclared function",
	UndeclaredType:          "Undeclared type",
	AlreadyDeclaredVariable: "Already declared",
	AlreadyDeclaredFunction: "Already declared",
	AlreadyDeclaredTrait:    "Already declared",
	AlreadyDeclaredStruct:   "Already declared",
	AlreadyImplementedTrait: "Already implemented",
	UnexpectedToken:         "Unexpected token",
	UnexpectedType:          "Unexpected type",
	ArgumentLengthMismatch:  "Argument mismatch",
}

// Error is the single struct backing every diagnostic kind. Only the
// fields relevant to Kind are populated.
type Error struct {
	Kind  Kind
	Scope string
	Span  ast.Span

	// Name carries the undeclared/already-declared/already-implemented
	// symbol's name.
	Name string

	// Expected/Found are the TypeMismatch, UnexpectedToken and
	// UnexpectedType payload.
	Expected string
	Found    string

	// Op/Lhs/Rhs are OperationUnsupported's payload.
	Op  string
	Lhs string
	Rhs string

	ExpectedN int
	FoundN    int
}

func (e *Error) Error() string {
	return e.Render(false)
}

const (
	ansiRed   = "\033[31m"
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

// Render formats the diagnostic the same way Error does, additionally
// colorizing the kind label and the caret line when color is true.
func (e *Error) Render(color bool) string {
	label := kindLabels[e.Kind]
	snippet := snippetOf(e.Span)
	if color {
		label = ansiBold + ansiRed + label + ansiReset
		snippet = colorizeCarets(snippet)
	}
	return fmt.Sprintf("[%s]: %s in scope %s\n\n%s", label, e.message(), e.Scope, snippet)
}

// colorizeCarets wraps the caret-run line of a rendered snippet (see
// ast.Span.Snippet) in red, leaving the header and source line plain.
func colorizeCarets(snippet string) string {
	lines := strings.Split(snippet, "\n")
	for i, l := range lines {
		if l != "" && strings.Trim(l, "^") == "" {
			lines[i] = ansiRed + l + ansiReset
		}
	}
	return strings.Join(lines, "\n")
}

func (e *Error) message() string {
	switch e.Kind {
	case TypeMismatch:
		return fmt.Sprintf("Expected %s, found %s", e.Expected, e.Found)
	case OperationUnsupported:
		return fmt.Sprintf("Tried to %s %s and %s", e.Op, e.Lhs, e.Rhs)
	case UndeclaredVariable:
		return fmt.Sprintf("Variable %s not found", e.Name)
	case UndeclaredFunction:
		return fmt.Sprintf("Function %s not found", e.Name)
	case UndeclaredType:
		return fmt.Sprintf("Type %s not found", e.Name)
	case AlreadyDeclaredVariable:
		return fmt.Sprintf("Variable %s already declared", e.Name)
	case AlreadyDeclaredFunction:
		return fmt.Sprintf("Function %s already declared", e.Name)
	case AlreadyDeclaredTrait:
		return fmt.Sprintf("Trait %s already declared", e.Name)
	case AlreadyDeclaredStruct:
		return fmt.Sprintf("Struct %s already declared", e.Name)
	case AlreadyImplementedTrait:
		return fmt.Sprintf("Trait %s already implemented", e.Name)
	case UnexpectedToken:
		return fmt.Sprintf("Expected %s, found %s", e.Expected, e.Found)
	case UnexpectedType:
		return fmt.Sprintf("Expected %s, found %s", e.Expected, e.Found)
	case ArgumentLengthMismatch:
		return fmt.Sprintf("Expected %s arguments, found %s", strconv.Itoa(e.ExpectedN), strconv.Itoa(e.FoundN))
	default:
		return "unknown error"
	}
}

func snippetOf(s ast.Span) string { return s.Snippet(config.FileName()) }

// --- constructors -------------------------------------------------------

func NewTypeMismatch(expected, found, scope string, span ast.Span) *Error {
	return &Error{Kind: TypeMismatch, Expected: expected, Found: found, Scope: scope, Span: span}
}

func NewOperationUnsupported(op, lhs, rhs, scope string, span ast.Span) *Error {
	return &Error{Kind: OperationUnsupported, Op: op, Lhs: lhs, Rhs: rhs, Scope: scope, Span: span}
}

func NewUndeclaredVariable(name, scope string, span ast.Span) *Error {
	return &Error{Kind: UndeclaredVariable, Name: name, Scope: scope, Span: span}
}

func NewUndeclaredFunction(name, scope string, span ast.Span) *Error {
	return &Error{Kind: UndeclaredFunction, Name: name, Scope: scope, Span: span}
}

func NewUndeclaredType(name, scope string, span ast.Span) *Error {
	return &Error{Kind: UndeclaredType, Name: name, Scope: scope, Span: span}
}

func NewAlreadyDeclaredVariable(name, scope string, span ast.Span) *Error {
	return &Error{Kind: AlreadyDeclaredVariable, Name: name, Scope: scope, Span: span}
}

func NewAlreadyDeclaredFunction(name, scope string, span ast.Span) *Error {
	return &Error{Kind: AlreadyDeclaredFunction, Name: name, Scope: scope, Span: span}
}

func NewAlreadyDeclaredTrait(name, scope string, span ast.Span) *Error {
	return &Error{Kind: AlreadyDeclaredTrait, Name: name, Scope: scope, Span: span}
}

func NewAlreadyDeclaredStruct(name, scope string, span ast.Span) *Error {
	return &Error{Kind: AlreadyDeclaredStruct, Name: name, Scope: scope, Span: span}
}

func NewAlreadyImplementedTrait(name, scope string, span ast.Span) *Error {
	return &Error{Kind: AlreadyImplementedTrait, Name: name, Scope: scope, Span: span}
}

func NewUnexpectedToken(expected, found, scope string, span ast.Span) *Error {
	return &Error{Kind: UnexpectedToken, Expected: expected, Found: found, Scope: scope, Span: span}
}

func NewUnexpectedType(expected, found, scope string, span ast.Span) *Error {
	return &Error{Kind: UnexpectedType, Expected: expected, Found: found, Scope: scope, Span: span}
}

func NewArgumentLengthMismatch(expected, found int, scope string, span ast.Span) *Error {
	return &Error{Kind: ArgumentLengthMismatch, ExpectedN: expected, FoundN: found, Scope: scope, Span: span}
}
