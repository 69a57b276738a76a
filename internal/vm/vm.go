// Package vm implements the splice-based stack machine: a single
// instruction pointer scanning a []opcode.Op, a value stack, and the
// ability to insert ops into the stream immediately after the current
// instruction pointer. A call runs the callee's lowered body in a nested
// VM with its own lexical Scope, then splices a Push of the returned
// value (if any) into the caller's stream.
package vm

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/diagnostics"
	"github.com/tascord/fang/internal/opcode"
	"github.com/tascord/fang/internal/scope"
)

// VM holds the mutable instruction stream, the instruction pointer, and
// the value stack for one evaluation run.
type VM struct {
	ops   []opcode.Op
	sp    int
	stack []*ast.Node

	// Trace, when set, writes a line per call-frame splice/return to
	// TraceOut, tagging each frame with a fresh UUID. Purely
	// observational — it never affects program semantics.
	Trace    bool
	TraceOut io.Writer
}

// New creates a VM over an already-lowered op stream.
func New(ops []opcode.Op) *VM {
	return &VM{ops: ops}
}

func (vm *VM) push(v *ast.Node) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() *ast.Node {
	n := len(vm.stack)
	v := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return v
}

// splice inserts newOps into the op stream immediately after the current
// instruction pointer: ops = ops[:sp+1] ++ newOps ++ ops[sp+1:]. Because
// execution is single-threaded and splices always occur strictly after
// sp, no earlier index is invalidated.
func (vm *VM) splice(newOps []opcode.Op) {
	head := append([]opcode.Op{}, vm.ops[:vm.sp+1]...)
	tail := vm.ops[vm.sp+1:]
	vm.ops = append(head, append(newOps, tail...)...)
}

// Run scans the op stream against s, returning the value a Return
// produced (if any). A Return — even one that occurs at the top level,
// outside any call — stops the run immediately and its value is handed
// back to the caller.
func (vm *VM) Run(s *scope.Scope) (*ast.Node, error) {
	for vm.sp = 0; vm.sp < len(vm.ops); vm.sp++ {
		op := vm.ops[vm.sp]
		switch op.Kind {
		case opcode.Push:
			vm.push(op.Value)

		case opcode.Arith:
			result, err := vm.execArith(op, s)
			if err != nil {
				return nil, err
			}
			vm.push(result)

		case opcode.Assign:
			val := vm.pop()
			if err := s.Assign(op.Name, val, op.Span); err != nil {
				return nil, err
			}

		case opcode.Declare:
			val := vm.pop()
			if op.VarType != nil && *op.VarType == "float" {
				val = widenToFloat(val)
			}
			if op.VarType != nil && *op.VarType != val.GetType() {
				return nil, diagnostics.NewTypeMismatch(*op.VarType, val.GetType(), s.Name, op.Span)
			}
			if err := s.Declare(op.Name, val, op.Span); err != nil {
				return nil, err
			}

		case opcode.Load:
			val, ok := s.Get(op.Name)
			if !ok {
				return nil, diagnostics.NewUndeclaredVariable(op.Name, s.Name, op.Span)
			}
			vm.push(val)

		case opcode.Function:
			if err := s.PutFn(op.Name, scope.FunctionRecord{
				Args: op.Args, Body: op.Body, ReturnType: op.ReturnType,
			}, op.Span); err != nil {
				return nil, err
			}

		case opcode.Call:
			if err := vm.execCall(op, s); err != nil {
				return nil, err
			}

		case opcode.BuiltinCall:
			if val := op.Host(s); val != nil {
				vm.push(val)
			}

		case opcode.DefineStruct:
			if err := s.DefineStruct(op.Name, op.Fields, op.Span); err != nil {
				return nil, err
			}

		case opcode.DefineTrait:
			functions := make(map[string]scope.TraitFn, len(op.Members))
			for _, m := range op.Members {
				functions[m.Name] = scope.TraitFn{Args: m.Args, Body: m.Body, ReturnType: m.VarType}
			}
			if err := s.DefineTrait(op.Name, functions, op.Span); err != nil {
				return nil, err
			}

		case opcode.ImplTrait:
			if err := s.ImplementTrait(op.TraitName, op.TypeName, op.Fields, op.Span); err != nil {
				return nil, err
			}

		case opcode.Return:
			var v *ast.Node
			if len(vm.stack) > 0 {
				v = vm.pop()
			}
			return v, nil
		}
	}
	return nil, nil
}

func (vm *VM) traceEnter(name string) string {
	if !vm.Trace {
		return ""
	}
	id := uuid.New().String()
	fmt.Fprintf(vm.TraceOut, "scope %s [%s]: entering\n", name, id)
	return id
}

func (vm *VM) traceLeave(name, id string) {
	if !vm.Trace || id == "" {
		return
	}
	fmt.Fprintf(vm.TraceOut, "scope %s [%s]: leaving\n", name, id)
}
