// Package scope implements the evaluator's nested, parent-linked name
// environment: variables, user functions, and type (trait/struct)
// definitions, plus the conformance checks that bind them together.
package scope

import (
	"strings"
	"sync"

	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/diagnostics"
)

// FunctionRecord is a user function's formal parameters, body, and
// optional declared return type.
type FunctionRecord struct {
	Args       []*ast.Node
	Body       []*ast.Node
	ReturnType *string
}

// TraitFn is one member of a Trait: either a Default (carries a body) or
// a NoBody signature that an impl must satisfy.
type TraitFn struct {
	Args       []*ast.Node
	Body       []*ast.Node // nil for a NoBody signature
	ReturnType *string
}

func (f TraitFn) HasBody() bool { return f.Body != nil }

// Type is the discriminated Trait/Struct type-environment entry.
type Type struct {
	IsTrait bool

	Name string

	// Trait fields.
	Functions map[string]TraitFn

	// Struct fields.
	Fields          []*ast.Node // TypedVariable templates
	Implements      []string
	Implementations map[string]map[string]FunctionRecord // trait name -> method name -> record
}

// NewTrait creates a Trait type.
func NewTrait(name string, functions map[string]TraitFn) *Type {
	return &Type{IsTrait: true, Name: name, Functions: functions}
}

// NewStruct creates a Struct type with no traits implemented yet.
func NewStruct(name string, fields []*ast.Node) *Type {
	return &Type{
		Name:            name,
		Fields:          fields,
		Implementations: make(map[string]map[string]FunctionRecord),
	}
}

// Scope is a lexically nested environment. The parent link is used only
// for lookup; a scope never mutates its parent, and its lifetime equals
// the lifetime of the call it was created for, except the root
// scope which lives for the whole program.
type Scope struct {
	mu sync.RWMutex

	Name      string
	store     map[string]*ast.Node
	functions map[string]FunctionRecord
	types     map[string]*Type
	parent    *Scope
}

// New creates a root or detached scope.
func New(name string, parent *Scope) *Scope {
	return &Scope{
		Name:      name,
		store:     make(map[string]*ast.Node),
		functions: make(map[string]FunctionRecord),
		types:     make(map[string]*Type),
		parent:    parent,
	}
}

// Declare binds name to val in this scope. Redeclaration is a diagnostic
// (invariant 2: store is write-once per scope).
func (s *Scope) Declare(name string, val *ast.Node, span ast.Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.store[name]; ok {
		return diagnostics.NewAlreadyDeclaredVariable(name, s.Name, span)
	}
	s.store[name] = val
	return nil
}

// Assign rebinds an already-declared name. The new value's type must
// match the existing binding's type (invariant 1).
func (s *Scope) Assign(name string, val *ast.Node, span ast.Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.store[name]
	if !ok {
		return diagnostics.NewUndeclaredVariable(name, s.Name, span)
	}
	if !existing.CompareType(val) {
		return diagnostics.NewTypeMismatch(existing.GetType(), val.GetType(), s.Name, span)
	}
	s.store[name] = val
	return nil
}

// PutFn registers a user function. Redeclaration is a diagnostic
// (invariant 2).
func (s *Scope) PutFn(name string, rec FunctionRecord, span ast.Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.functions[name]; ok {
		return diagnostics.NewAlreadyDeclaredFunction(name, s.Name, span)
	}
	s.functions[name] = rec
	return nil
}

// Get resolves name through the local-then-parent chain, supporting
// dotted access: the leftmost segment must resolve to an Object, and
// each subsequent segment searches that object's Fields, falling back to
// a trait method (see resolveTraitMethod) materialized as a Function value.
func (s *Scope) Get(name string) (*ast.Node, bool) {
	if !strings.Contains(name, ".") {
		return s.getLocal(name)
	}

	parts := strings.Split(name, ".")
	container, ok := s.getLocal(parts[0])
	if !ok {
		return nil, false
	}

	for _, part := range parts[1:] {
		if container == nil || container.Kind != ast.KindObject {
			return nil, false
		}
		var next *ast.Node
		for _, f := range container.Fields {
			if f.Kind == ast.KindField && f.Name == part {
				next = f.FieldValue()
				break
			}
		}
		if next == nil {
			next = s.resolveTraitMethod(container.TypeName, part)
		}
		if next == nil {
			return nil, false
		}
		container = next
	}

	return container, true
}

func (s *Scope) getLocal(name string) (*ast.Node, bool) {
	s.mu.RLock()
	v, ok := s.store[name]
	parent := s.parent
	s.mu.RUnlock()
	if ok {
		return v, true
	}
	if parent != nil {
		return parent.Get(name)
	}
	return nil, false
}

// resolveTraitMethod looks up method on each trait implemented by the
// struct type typeName, in implements order: the impl block's own method
// first, else the trait's Default method. The result is materialized as a
// Function value. Lookup is a plain search over implements, not a
// precomputed vtable, per the design notes.
func (s *Scope) resolveTraitMethod(typeName, method string) *ast.Node {
	st := s.lookupType(typeName)
	if st == nil || st.IsTrait {
		return nil
	}
	for _, traitName := range st.Implements {
		if rec, ok := st.Implementations[traitName][method]; ok {
			return ast.Function(method, rec.Args, rec.Body, rec.ReturnType, ast.NoSpan)
		}
		tr := s.lookupType(traitName)
		if tr == nil || !tr.IsTrait {
			continue
		}
		if fn, ok := tr.Functions[method]; ok && fn.HasBody() {
			return ast.Function(method, fn.Args, fn.Body, fn.ReturnType, ast.NoSpan)
		}
	}
	return nil
}

func (s *Scope) lookupType(name string) *Type {
	s.mu.RLock()
	t, ok := s.types[name]
	parent := s.parent
	s.mu.RUnlock()
	if ok {
		return t
	}
	if parent != nil {
		return parent.lookupType(name)
	}
	return nil
}

// LookupType exposes type lookup for the VM's trait-impl handling.
func (s *Scope) LookupType(name string) (*Type, bool) {
	t := s.lookupType(name)
	return t, t != nil
}

// DefineStruct registers a Struct type. Types are write-once per scope
// (invariant 2).
func (s *Scope) DefineStruct(name string, fields []*ast.Node, span ast.Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[name]; ok {
		return diagnostics.NewAlreadyDeclaredStruct(name, s.Name, span)
	}
	s.types[name] = NewStruct(name, fields)
	return nil
}

// DefineTrait registers a Trait type. Types are write-once per scope
// (invariant 2).
func (s *Scope) DefineTrait(name string, functions map[string]TraitFn, span ast.Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[name]; ok {
		return diagnostics.NewAlreadyDeclaredTrait(name, s.Name, span)
	}
	s.types[name] = NewTrait(name, functions)
	return nil
}

// Callable describes a resolved call target: formal parameters plus the
// statements to lower and execute in the child scope, or a single
// BuiltinFn node to splice as a one-op body.
type Callable struct {
	Args []*ast.Node
	Body []*ast.Node
}

// GetFn resolves a call target in order: this scope's functions table,
// then this scope's store (if it holds a Function or BuiltinFn, the
// latter wrapped as a one-op body), then the parent scope recursively.
func (s *Scope) GetFn(name string) (Callable, bool) {
	s.mu.RLock()
	rec, ok := s.functions[name]
	parent := s.parent
	s.mu.RUnlock()
	if ok {
		return Callable{Args: rec.Args, Body: rec.Body}, true
	}

	if v, ok := s.getLocal(name); ok {
		switch v.Kind {
		case ast.KindFunction:
			return Callable{Args: v.Args, Body: v.Body}, true
		case ast.KindBuiltinFn:
			return Callable{Args: v.Args, Body: []*ast.Node{v}}, true
		}
	}

	if parent != nil {
		return parent.GetFn(name)
	}
	return Callable{}, false
}

// NewChild creates a child scope parented to s, used for a call's
// argument bindings.
func (s *Scope) NewChild(name string) *Scope {
	return New(name, s)
}
