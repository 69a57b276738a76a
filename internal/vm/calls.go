package vm

import (
	"strings"

	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/diagnostics"
	"github.com/tascord/fang/internal/lower"
	"github.com/tascord/fang/internal/opcode"
	"github.com/tascord/fang/internal/scope"
)

// selfBindingName is the identifier a SelfRef formal is bound to in the
// callee's child scope, used by trait default methods reached through
// dotted access.
const selfBindingName = "self"

// resolveCallable finds a call target for name, returning its formal
// parameter list, its (unlowered) body, and — for a dotted path — the
// left-of-dot object SelfRef formals bind to.
func resolveCallable(s *scope.Scope, name string) (args, body []*ast.Node, self *ast.Node, ok bool) {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		objPath := name[:idx]
		obj, found := s.Get(objPath)
		if !found {
			return nil, nil, nil, false
		}
		fn, found := s.Get(name)
		if !found {
			return nil, nil, nil, false
		}
		switch fn.Kind {
		case ast.KindFunction:
			return fn.Args, fn.Body, obj, true
		case ast.KindBuiltinFn:
			return fn.Args, []*ast.Node{fn}, obj, true
		default:
			return nil, nil, nil, false
		}
	}

	callable, found := s.GetFn(name)
	if !found {
		return nil, nil, nil, false
	}
	return callable.Args, callable.Body, nil, true
}

// execCall resolves op.Name, binds actual arguments into a fresh child
// scope, lowers the callee body (lazily — only now that it's actually
// called) and runs it in a separate VM against that scope. Only a Push
// of the value its Return produced (if any) is spliced into the host
// stream right after the current instruction pointer; the callee's own
// ops never enter the host stream.
func (vm *VM) execCall(op opcode.Op, s *scope.Scope) error {
	args, body, self, ok := resolveCallable(s, op.Name)
	if !ok {
		return diagnostics.NewUndeclaredFunction(op.Name, s.Name, op.Span)
	}

	formalCount := len(args)
	for _, formal := range args {
		if formal.Kind == ast.KindSelfRef {
			// SelfRef is bound implicitly, not counted against the
			// actual argument list the call site pushed.
			formalCount--
		}
	}
	if formalCount != op.ArgCount {
		return diagnostics.NewArgumentLengthMismatch(formalCount, op.ArgCount, s.Name, op.Span)
	}

	child := s.NewChild(op.Name)
	for _, formal := range args {
		if formal.Kind == ast.KindSelfRef {
			if err := child.Declare(selfBindingName, self, op.Span); err != nil {
				return err
			}
			continue
		}

		// A plain Identifier formal (no declared type) accepts any
		// argument; only a TypedVariable formal is checked.
		actual := vm.pop()
		if formal.Kind == ast.KindTypedVariable && !formal.CompareType(actual) {
			return diagnostics.NewTypeMismatch(formal.GetType(), actual.GetType(), s.Name, op.Span)
		}
		if err := child.Declare(formal.Name, actual, op.Span); err != nil {
			return err
		}
	}

	traceID := vm.traceEnter(op.Name)
	callee := New(nil)
	lower.Statements(body, &callee.ops)
	ret, err := callee.Run(child)
	vm.traceLeave(op.Name, traceID)
	if err != nil {
		return err
	}

	var spliced []opcode.Op
	if ret != nil {
		spliced = []opcode.Op{{Kind: opcode.Push, Value: ret, Span: op.Span}}
	}
	vm.splice(spliced)
	return nil
}
