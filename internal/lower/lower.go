// Package lower turns a statement list into a flat opcode stream.
// Emission is postorder and right-to-left for binary
// operators, so the left operand ends up on top of the value stack.
package lower

import (
	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/opcode"
)

// Statements lowers a whole statement list, appending to ops.
func Statements(nodes []*ast.Node, ops *[]opcode.Op) {
	for _, n := range nodes {
		Node(n, ops)
	}
}

// Node lowers a single node, appending the emitted ops to ops. A
// function's body is lowered lazily elsewhere — only when it is
// actually called — so Node never recurses into a
// Function's Body.
func Node(n *ast.Node, ops *[]opcode.Op) {
	switch n.Kind {
	case ast.KindAdd, ast.KindSub, ast.KindMul, ast.KindDiv:
		Node(n.Rhs, ops)
		Node(n.Lhs, ops)
		*ops = append(*ops, opcode.Op{Kind: opcode.Arith, ArithOp: arithOpFor(n.Kind), Span: n.Span})

	case ast.KindDeclaration:
		if n.Rhs != nil {
			Node(n.Rhs, ops)
		}
		*ops = append(*ops, opcode.Op{Kind: opcode.Declare, Name: n.Name, VarType: n.VarType, Span: n.Span})

	case ast.KindAssignment:
		Node(n.Rhs, ops)
		*ops = append(*ops, opcode.Op{Kind: opcode.Assign, Name: n.Name, Span: n.Span})

	case ast.KindIdentifier:
		*ops = append(*ops, opcode.Op{Kind: opcode.Load, Name: n.Name, Span: n.Span})

	case ast.KindObject:
		*ops = append(*ops, opcode.Op{Kind: opcode.Push, Value: n, Span: n.Span})

	case ast.KindFunction:
		*ops = append(*ops, opcode.Op{
			Kind: opcode.Function, Name: n.Name, Args: n.Args, Body: n.Body,
			ReturnType: n.VarType, Span: n.Span,
		})

	case ast.KindCall:
		for i := len(n.Args) - 1; i >= 0; i-- {
			Node(n.Args[i], ops)
		}
		*ops = append(*ops, opcode.Op{Kind: opcode.Call, Name: n.Name, Span: n.Span, ArgCount: len(n.Args)})

	case ast.KindBuiltinFn:
		*ops = append(*ops, opcode.Op{Kind: opcode.BuiltinCall, Host: n.Host, Span: n.Span})

	case ast.KindStruct:
		*ops = append(*ops, opcode.Op{Kind: opcode.DefineStruct, Name: n.Name, Fields: n.Fields, Span: n.Span})

	case ast.KindTrait:
		*ops = append(*ops, opcode.Op{Kind: opcode.DefineTrait, Name: n.Name, Members: n.Fields, Span: n.Span})

	case ast.KindTraitImpl:
		*ops = append(*ops, opcode.Op{
			Kind: opcode.ImplTrait, TraitName: n.TraitName, TypeName: n.TypeName,
			Fields: n.Fields, Span: n.Span,
		})

	case ast.KindReturn:
		Node(n.Rhs, ops)
		*ops = append(*ops, opcode.Op{Kind: opcode.Return, Span: n.Span})

	case ast.KindEmpty:
		// nothing emitted

	default:
		*ops = append(*ops, opcode.Op{Kind: opcode.Push, Value: n, Span: n.Span})
	}
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
