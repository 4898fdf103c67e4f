package compiler

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"junon/pkg/asm"
)

// Element is implemented by every node the parser produces. The set of
// implementations is closed: consumers switch over all of them.
type Element interface {
	elementNode()
	String() string
}

// ValueKind says where the value of a Value lives.
type ValueKind int

const (
	NoValue         ValueKind = iota // nothing was written
	LiteralValue                     // Token holds the literal or identifier
	ExpressionValue                  // the next element is an Expression holding the value
	ArrayValue                       // the next element is an Array holding the value
	OperationValue                   // the next element is an Operation holding the value
)

// Value is an initializer, return value or right operand.
//
//	let a: int = 5       Value{Kind: LiteralValue, Token: OTHER("5")}
//	let a: int = { .. }  Value{Kind: ExpressionValue, Token: LBRACE}
//	let a: int           Value{Kind: NoValue}
type Value struct {
	Kind  ValueKind
	Token Token
}

func (v Value) String() string {
	switch v.Kind {
	case NoValue:
		return "<none>"
	case LiteralValue:
		return v.Token.Lexeme
	case ExpressionValue:
		return "<expression>"
	case ArrayValue:
		return "<array>"
	case OperationValue:
		return "<operation>"
	}
	return fmt.Sprintf("Value(%d)", int(v.Kind))
}

// Expression is a nested scope: the elements between { and }.
type Expression struct {
	Elements []Element
}

func (*Expression) elementNode() {}
func (e *Expression) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// Function represents  fun name(params): type { body }
// Params is nil when no parameter list was written and Body is nil when no
// block follows the declaration.
type Function struct {
	Name       string
	Params     *Parameters
	ReturnType Type
	Body       *Expression
	Line       int
}

func (*Function) elementNode() {}
func (f *Function) String() string {
	params := "()"
	if f.Params != nil {
		params = f.Params.String()
	}
	s := fmt.Sprintf("Function(%s%s: %s)", f.Name, params, f.ReturnType)
	if f.Body != nil {
		s += " " + f.Body.String()
	}
	return s
}

// VariableID identifies one declaration. It is stable for the lifetime of the
// AST, so later stages key their own tables on it.
type VariableID = uuid.UUID

// Variable represents  let name: type = value  (or static).
type Variable struct {
	ID     VariableID
	Name   string
	Static bool
	Type   Type
	Init   Value
	Line   int
}

func (*Variable) elementNode() {}
func (v *Variable) String() string {
	kw := "let"
	if v.Static {
		kw = "static"
	}
	return fmt.Sprintf("Variable(%s %s: %s = %s)", kw, v.Name, v.Type, v.Init)
}

// Operation represents  Left Operator Right.
//
//	a + 5
//	^ ^ ^
//	| | Right: Value{LiteralValue, OTHER("5")}
//	| Operator: PLUS
//	Left: &Other{OTHER("a")}
type Operation struct {
	Operator TokenType
	Left     Element
	Right    Value
}

func (*Operation) elementNode() {}
func (o *Operation) String() string {
	return fmt.Sprintf("(%s %s %s)", o.Left, Spelling(o.Operator), o.Right)
}

// Array is the flat item list of [a, b, c]. Items are not parsed further.
type Array struct {
	Items []Token
}

func (*Array) elementNode() {}
func (a *Array) String() string {
	items := make([]string, len(a.Items))
	for i, tok := range a.Items {
		items[i] = tok.Text()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// Parameters is the raw token span between ( and ). Its structure is left
// to a later pass.
type Parameters struct {
	Tokens []Token
}

func (*Parameters) elementNode() {}
func (p *Parameters) String() string {
	parts := make([]string, len(p.Tokens))
	for i, tok := range p.Tokens {
		parts[i] = tok.Text()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Assembly is one line of inline assembly, kept opaque.
type Assembly struct {
	Code string
	Line int
}

func (*Assembly) elementNode()     {}
func (a *Assembly) String() string { return fmt.Sprintf("Assembly(%q)", a.Code) }

// Instruction splits the code into labels, mnemonic and operands.
func (a *Assembly) Instruction() (asm.Instruction, error) {
	return asm.ParseLine(a.Code, a.Line)
}

// Return represents  ret value.
type Return struct {
	Value Value
}

func (*Return) elementNode()     {}
func (r *Return) String() string { return fmt.Sprintf("Return(%s)", r.Value) }

// Other wraps a token used as a value at statement level.
type Other struct {
	Token Token
}

func (*Other) elementNode()     {}
func (o *Other) String() string { return o.Token.Text() }
