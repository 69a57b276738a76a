package scope

import (
	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/diagnostics"
)

// ImplementTrait validates fields (a TraitImpl's provided Function set)
// against traitName's NoBody members and, if every one is satisfied,
// records the implementation on typeName's Struct type.
//
// The Rust original's validate_trait/validate_struct read
// "if compare_type(...) { return Err(TypeMismatch) }" — inverted, since
// that fires when the types DO match. This implements the corrected
// polarity: error when a formal and its provided counterpart do NOT
// match (see DESIGN.md's Open Question decisions).
func (s *Scope) ImplementTrait(traitName, typeName string, fields []*ast.Node, span ast.Span) error {
	traitType := s.lookupType(traitName)
	if traitType == nil {
		return diagnostics.NewUndeclaredType(traitName, s.Name, span)
	}
	if !traitType.IsTrait {
		return diagnostics.NewUnexpectedType("Trait", traitName, s.Name, span)
	}

	structType := s.lookupType(typeName)
	if structType == nil {
		return diagnostics.NewUndeclaredType(typeName, s.Name, span)
	}
	if structType.IsTrait {
		return diagnostics.NewUnexpectedType("Struct", typeName, s.Name, span)
	}

	provided := make(map[string]FunctionRecord, len(fields))
	for _, f := range fields {
		if f.Kind != ast.KindFunction {
			return diagnostics.NewUnexpectedToken("Function", f.Kind.String(), s.Name, span)
		}
		provided[f.Name] = FunctionRecord{Args: f.Args, Body: f.Body, ReturnType: f.VarType}
	}

	for name, sig := range traitType.Functions {
		impl, ok := provided[name]
		if !ok {
			if sig.HasBody() {
				continue // defaulted, no override required
			}
			return diagnostics.NewUndeclaredFunction(name, s.Name, span)
		}
		if err := matchSignature(name, sig.Args, sig.ReturnType, impl.Args, impl.ReturnType, s.Name, span); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := structType.Implementations[traitName]; ok {
		return diagnostics.NewAlreadyImplementedTrait(traitName, s.Name, span)
	}
	structType.Implementations[traitName] = provided
	structType.Implements = append(structType.Implements, traitName)
	return nil
}

// matchSignature checks that two formal parameter lists and return types
// agree positionally: SelfRef matches SelfRef, TypedVariable matches by
// var_type, and the two return-type options must be equal.
func matchSignature(name string, wantArgs []*ast.Node, wantRet *string, gotArgs []*ast.Node, gotRet *string, scope string, span ast.Span) error {
	if len(wantArgs) != len(gotArgs) {
		return diagnostics.NewArgumentLengthMismatch(len(wantArgs), len(gotArgs), scope, span)
	}
	for i, want := range wantArgs {
		got := gotArgs[i]
		if want.Kind == ast.KindSelfRef || got.Kind == ast.KindSelfRef {
			if want.Kind != got.Kind {
				return diagnostics.NewTypeMismatch(want.Kind.String(), got.Kind.String(), scope, span)
			}
			continue
		}
		if !want.CompareType(got) {
			return diagnostics.NewTypeMismatch(want.GetType(), got.GetType(), scope, span)
		}
	}
	if !returnTypeEqual(wantRet, gotRet) {
		return diagnostics.NewTypeMismatch(optStr(wantRet), optStr(gotRet), scope, span)
	}
	return nil
}

func returnTypeEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func optStr(s *string) string {
	if s == nil {
		return "()"
	}
	return *s
}
