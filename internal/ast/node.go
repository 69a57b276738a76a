// Package ast defines the single tagged-union node type used both as the
// parser's output tree and as the evaluator's runtime value. Sharing one
// representation between "parsed literal" and "evaluated value" keeps
// the evaluator from needing a separate conversion step between the two.
package ast

import "fmt"

// Kind tags which variant a Node holds.
type Kind uint8

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindBoolean
	KindIdentifier
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindDeclaration
	KindAssignment
	KindTypedVariable
	KindSelfRef
	KindFunction
	KindFunctionOutline
	KindCall
	KindBuiltinFn
	KindStruct
	KindObject
	KindField
	KindTrait
	KindTraitImpl
	KindReturn
	KindEmpty
)

var kindNames = map[Kind]string{
	KindInteger:         "int",
	KindFloat:           "float",
	KindString:          "string",
	KindBoolean:         "bool",
	KindIdentifier:      "identifier",
	KindAdd:             "add",
	KindSub:             "subtract",
	KindMul:             "multiply",
	KindDiv:             "divide",
	KindDeclaration:     "declaration",
	KindAssignment:      "assignment",
	KindTypedVariable:   "typed variable",
	KindSelfRef:         "self",
	KindFunction:        "function",
	KindFunctionOutline: "function outline",
	KindCall:            "call",
	KindBuiltinFn:       "builtin function",
	KindStruct:          "struct",
	KindObject:          "object",
	KindField:           "field",
	KindTrait:           "trait",
	KindTraitImpl:       "trait impl",
	KindReturn:          "return",
	KindEmpty:           "empty",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Scope is the minimal surface a HostCallable needs from the evaluating
// scope. It exists here (rather than importing the scope package) purely
// to avoid an ast<->scope import cycle; scope.Scope satisfies it
// structurally.
type Scope interface {
	Get(name string) (*Node, bool)
}

// HostCallable is an opaque host-implemented function body. Per the
// design notes, two HostCallable values are never considered equal to
// each other, even if they wrap the same underlying func — callers that
// need identity should compare the enclosing BuiltinFn node by pointer.
type HostCallable func(s Scope) *Node

// Node is the tagged union covering every parse-tree and runtime-value
// shape the evaluator deals with. Only the fields relevant to Kind are
// populated; the rest are left zero.
type Node struct {
	Kind Kind
	Span Span

	IntVal   uint64
	FloatVal float64
	StrVal   string
	BoolVal  bool

	// Name carries the identifier/declared/function/struct/trait/field
	// name, depending on Kind.
	Name string

	// VarType is the optional declared type: TypedVariable.var_type,
	// Declaration's optional var_type, Function/FunctionOutline/BuiltinFn's
	// optional return_type. nil means "not annotated".
	VarType *string

	// Lhs/Rhs hold Add/Sub/Mul/Div operands. Rhs is reused as the single
	// child expression for Declaration (optional rhs), Assignment (rhs),
	// Return (value) and Field (value) — those shapes only ever need one
	// child slot.
	Lhs *Node
	Rhs *Node

	// Args holds Function/FunctionOutline/BuiltinFn formal parameters
	// (TypedVariable/SelfRef nodes, or an untyped Identifier for a
	// built-in that accepts any value) or Call's actual argument
	// expressions.
	Args []*Node

	// Body holds a Function's statement list.
	Body []*Node

	// Fields holds Struct's TypedVariable field templates, Object's Field
	// entries, Trait's Function/FunctionOutline members, or TraitImpl's
	// provided Function methods.
	Fields []*Node

	// Host is the body of a BuiltinFn.
	Host HostCallable

	// TraitName/TypeName are TraitImpl's two names. TypeName doubles as
	// Object's declared struct type name.
	TraitName string
	TypeName string
}

// --- constructors -----------------------------------------------------

func Integer(val uint64, span Span) *Node {
	return &Node{Kind: KindInteger, IntVal: val, Span: span}
}

func Float(val float64, span Span) *Node {
	return &Node{Kind: KindFloat, FloatVal: val, Span: span}
}

func String(val string, span Span) *Node {
	return &Node{Kind: KindString, StrVal: val, Span: span}
}

func Boolean(val bool, span Span) *Node {
	return &Node{Kind: KindBoolean, BoolVal: val, Span: span}
}

func Identifier(name string, span Span) *Node {
	return &Node{Kind: KindIdentifier, Name: name, Span: span}
}

func BinOp(kind Kind, lhs, rhs *Node, span Span) *Node {
	return &Node{Kind: kind, Lhs: lhs, Rhs: rhs, Span: span}
}

func Declaration(name string, varType *string, rhs *Node, span Span) *Node {
	return &Node{Kind: KindDeclaration, Name: name, VarType: varType, Rhs: rhs, Span: span}
}

func Assignment(name string, rhs *Node, span Span) *Node {
	return &Node{Kind: KindAssignment, Name: name, Rhs: rhs, Span: span}
}

func TypedVariable(varType, name string, span Span) *Node {
	return &Node{Kind: KindTypedVariable, VarType: &varType, Name: name, Span: span}
}

func SelfRef(span Span) *Node {
	return &Node{Kind: KindSelfRef, Span: span}
}

func Function(name string, args, body []*Node, returnType *string, span Span) *Node {
	return &Node{Kind: KindFunction, Name: name, Args: args, Body: body, VarType: returnType, Span: span}
}

func FunctionOutline(name string, args []*Node, returnType *string, span Span) *Node {
	return &Node{Kind: KindFunctionOutline, Name: name, Args: args, VarType: returnType, Span: span}
}

func Call(name string, args []*Node, span Span) *Node {
	return &Node{Kind: KindCall, Name: name, Args: args, Span: span}
}

func BuiltinFn(name string, args []*Node, host HostCallable, returnType *string, span Span) *Node {
	return &Node{Kind: KindBuiltinFn, Name: name, Args: args, Host: host, VarType: returnType, Span: span}
}

func Struct(name string, fields []*Node, span Span) *Node {
	return &Node{Kind: KindStruct, Name: name, Fields: fields, Span: span}
}

func Object(typeName string, fields []*Node, span Span) *Node {
	return &Node{Kind: KindObject, TypeName: typeName, Fields: fields, Span: span}
}

func Field(name string, value *Node, span Span) *Node {
	return &Node{Kind: KindField, Name: name, Rhs: value, Span: span}
}

func Trait(name string, fields []*Node, span Span) *Node {
	return &Node{Kind: KindTrait, Name: name, Fields: fields, Span: span}
}

func TraitImpl(traitName, typeName string, fields []*Node, span Span) *Node {
	return &Node{Kind: KindTraitImpl, TraitName: traitName, TypeName: typeName, Fields: fields, Span: span}
}

func Return(value *Node, span Span) *Node {
	return &Node{Kind: KindReturn, Rhs: value, Span: span}
}

func Empty() *Node {
	return &Node{Kind: KindEmpty}
}

// --- predicates used by operand standardization ------------------------

func (n *Node) IsInt() bool        { return n.Kind == KindInteger }
func (n *Node) IsFloat() bool      { return n.Kind == KindFloat }
func (n *Node) IsString() bool     { return n.Kind == KindString }
func (n *Node) IsBool() bool       { return n.Kind == KindBoolean }
func (n *Node) IsIdentifier() bool { return n.Kind == KindIdentifier }

func (n *Node) IsOp() bool {
	switch n.Kind {
	case KindAdd, KindSub, KindMul, KindDiv:
		return true
	default:
		return false
	}
}

// FieldValue returns the Field node's value, mirroring the Rust name.
func (n *Node) FieldValue() *Node { return n.Rhs }

// GetType returns the value's nominal type name: "int"/"float"/"string"/
// "bool" for primitives, the struct name for an Object, or a diagnostic
// label for internal/parse-tree forms that never flow into a value slot.
func (n *Node) GetType() string {
	switch n.Kind {
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBoolean:
		return "bool"
	case KindTypedVariable:
		return *n.VarType
	case KindObject:
		return n.TypeName
	case KindFunction, KindBuiltinFn:
		return fmt.Sprintf("<Function: '%s'>", n.Name)
	default:
		return n.Inspect()
	}
}

// CompareType reports whether n and other are type-compatible: true when
// either side is a TypedVariable whose declared var_type equals the
// other's computed type, or when both sides carry the same Kind.
func (n *Node) CompareType(other *Node) bool {
	if n.Kind == KindTypedVariable {
		return *n.VarType == other.GetType()
	}
	if other.Kind == KindTypedVariable {
		return *other.VarType == n.GetType()
	}
	return n.Kind == other.Kind
}

// Inspect renders the human-readable form: the literal for primitives,
// "Type { name: val, ... }" for objects, "<Function: n>" for functions.
func (n *Node) Inspect() string {
	switch n.Kind {
	case KindInteger:
		return fmt.Sprintf("%d", n.IntVal)
	case KindFloat:
		return fmt.Sprintf("%g", n.FloatVal)
	case KindString:
		return n.StrVal
	case KindBoolean:
		return fmt.Sprintf("%t", n.BoolVal)
	case KindIdentifier:
		return n.Name
	case KindTypedVariable:
		return n.Name
	case KindFunction, KindBuiltinFn:
		return fmt.Sprintf("<Function: %s>", n.Name)
	case KindObject:
		parts := make([]string, 0, len(n.Fields))
		for _, f := range n.Fields {
			switch f.Kind {
			case KindField:
				parts = append(parts, fmt.Sprintf("%s: %s", f.Name, f.FieldValue().Inspect()))
			case KindFunction, KindBuiltinFn:
				parts = append(parts, fmt.Sprintf("<Function: %s>", f.Name))
			}
		}
		out := n.TypeName + " {"
		for i, p := range parts {
			if i > 0 {
				out += ", "
			}
			out += p
		}
		return out + "}"
	default:
		return fmt.Sprintf("<Internal: %s>", n.Kind)
	}
}
