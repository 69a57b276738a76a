package vm

import (
	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/diagnostics"
	"github.com/tascord/fang/internal/opcode"
	"github.com/tascord/fang/internal/scope"
)

// standardize resolves identifiers, recursively evaluates any operator
// sub-expressions in place, and applies the coercion priority order:
// String beats Float beats matching Int/Int or Bool/Bool.
//
// Every failure is reported at span, the arithmetic op's own span, never
// at either operand's: an undeclared identifier is reported under its own
// name (a's or b's), and a coerce failure reports both operands' types —
// see DESIGN.md.
func (vm *VM) standardize(a, b *ast.Node, s *scope.Scope, span ast.Span) (*ast.Node, *ast.Node, error) {
	var err error
	a, err = vm.resolveOperand(a, s, span)
	if err != nil {
		return nil, nil, err
	}
	b, err = vm.resolveOperand(b, s, span)
	if err != nil {
		return nil, nil, err
	}

	if a.IsString() || b.IsString() {
		return ast.String(a.Inspect(), a.Span), ast.String(b.Inspect(), b.Span), nil
	}

	if a.IsFloat() || b.IsFloat() {
		return widenToFloat(a), widenToFloat(b), nil
	}

	if a.IsInt() && b.IsInt() {
		return a, b, nil
	}

	if a.IsBool() && b.IsBool() {
		return a, b, nil
	}

	return nil, nil, diagnostics.NewOperationUnsupported("coerce", a.GetType(), b.GetType(), s.Name, span)
}

func (vm *VM) resolveOperand(n *ast.Node, s *scope.Scope, span ast.Span) (*ast.Node, error) {
	if n.IsIdentifier() {
		val, ok := s.Get(n.Name)
		if !ok {
			return nil, diagnostics.NewUndeclaredVariable(n.Name, s.Name, span)
		}
		n = val
	}
	for n.IsOp() {
		var err error
		n, err = vm.evalInPlace(n, s)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

// evalInPlace evaluates a single Add/Sub/Mul/Div node immediately,
// without going through the op stream — needed because an operand can
// itself be an arithmetic expression nested inside another operand.
func (vm *VM) evalInPlace(n *ast.Node, s *scope.Scope) (*ast.Node, error) {
	a, b, err := vm.standardize(n.Lhs, n.Rhs, s, n.Span)
	if err != nil {
		return nil, err
	}
	return applyArith(arithOpFor(n.Kind), a, b, n.Span, s.Name)
}

func widenToFloat(n *ast.Node) *ast.Node {
	if n.IsInt() {
		return ast.Float(float64(n.IntVal), n.Span)
	}
	return n
}

func arithOpFor(k ast.Kind) opcode.ArithOp {
	switch k {
	case ast.KindAdd:
		return opcode.Add
	case ast.KindSub:
		return opcode.Sub
	case ast.KindMul:
		return opcode.Mul
	default:
		return opcode.Div
	}
}

// execArith pops the two operands an Arith op consumes. Node lowers
// Rhs before Lhs, so Lhs ends on top of the stack and is popped first.
func (vm *VM) execArith(op opcode.Op, s *scope.Scope) (*ast.Node, error) {
	lhs := vm.pop()
	rhs := vm.pop()
	a, b, err := vm.standardize(lhs, rhs, s, op.Span)
	if err != nil {
		return nil, err
	}
	return applyArith(op.ArithOp, a, b, op.Span, s.Name)
}

// applyArith performs the arithmetic once both operands share a kind.
// Integer division by zero is not trapped here: Go's own "/" panics on
// divide-by-zero for integers, and that host fault is left to propagate
// unwrapped.
func applyArith(op opcode.ArithOp, a, b *ast.Node, span ast.Span, scopeName string) (*ast.Node, error) {
	switch {
	case a.IsInt() && b.IsInt():
		switch op {
		case opcode.Add:
			return ast.Integer(a.IntVal+b.IntVal, span), nil
		case opcode.Sub:
			return ast.Integer(a.IntVal-b.IntVal, span), nil
		case opcode.Mul:
			return ast.Integer(a.IntVal*b.IntVal, span), nil
		case opcode.Div:
			return ast.Integer(a.IntVal/b.IntVal, span), nil
		}
	case a.IsFloat() && b.IsFloat():
		switch op {
		case opcode.Add:
			return ast.Float(a.FloatVal+b.FloatVal, span), nil
		case opcode.Sub:
			return ast.Float(a.FloatVal-b.FloatVal, span), nil
		case opcode.Mul:
			return ast.Float(a.FloatVal*b.FloatVal, span), nil
		case opcode.Div:
			return ast.Float(a.FloatVal/b.FloatVal, span), nil
		}
	case a.IsString() && b.IsString():
		if op == opcode.Add {
			return ast.String(a.StrVal+b.StrVal, span), nil
		}
	}
	return nil, diagnostics.NewOperationUnsupported(op.String(), a.GetType(), b.GetType(), scopeName, span)
}
