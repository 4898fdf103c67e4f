package compiler

import (
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// ParseError is a structural failure that leaves no well-defined element
// sequence: unbalanced brackets, a bad array length, an operator without
// operands. It is fatal for the file being parsed.
type ParseError struct {
	Message string
	Line    int
	Token   Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s (near %q)", e.Line, e.Message, e.Token.Text())
}

// Parser consumes the flat token slice produced by the Tokenizer and builds
// the element sequence of one scope. Nested scopes get their own Parser over
// the sub-slice between the brackets.
//
// Productions, selected by the token under the cursor:
//
//	fun NAME [( PARAMS )] [: TYPE] [{ BODY }]
//	let|static NAME [: TYPE] [= VALUE]
//	TYPE     = NAME | NAME [ INTEGER ]
//	VALUE    = OTHER | { ... } | [ ... ]
//	{ ... }  Expression, parsed recursively
//	[ ... ]  Array, commas dropped
//	( ... )  Parameters, kept raw
//	@ TEXT   Assembly
//	ret [VALUE]
//	OP OPERAND  Operation, left operand taken from the previous element
type Parser struct {
	tokens []Token
	pos    int // index of the next unconsumed token
	out    []Element
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse builds the element sequence for tokens.
func Parse(tokens []Token) ([]Element, error) {
	return NewParser(tokens).Run()
}

// Run parses until the cursor reaches the end of the token slice.
func (p *Parser) Run() ([]Element, error) {
	for p.pos < len(p.tokens) {
		tok := p.advance()
		elements, err := p.parseToken(tok)
		if err != nil {
			return nil, err
		}
		p.out = append(p.out, elements...)
	}
	return p.out, nil
}

func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Line: tok.Line, Token: tok}
}

// peek returns the current token without consuming it. Past the end it
// returns a NEWLINE, which every production treats as "nothing more here".
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		line := 0
		if len(p.tokens) > 0 {
			line = p.tokens[len(p.tokens)-1].Line
		}
		return Token{Type: NEWLINE, Lexeme: "\n", Line: line}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.errorf(tok, "expected %s, got %s", what, tok.Type)
	}
	return p.advance(), nil
}

func (p *Parser) parseToken(tok Token) ([]Element, error) {
	switch tok.Type {
	case NEWLINE, SEMICOLON:
		return nil, nil
	case FUNCTION:
		f, err := p.parseFunction(tok)
		if err != nil {
			return nil, err
		}
		return []Element{f}, nil
	case VARIABLE, STATIC:
		v, err := p.parseVariable(tok)
		if err != nil {
			return nil, err
		}
		return []Element{v}, nil
	case LBRACE:
		e, err := p.parseExpression(tok)
		if err != nil {
			return nil, err
		}
		return []Element{e}, nil
	case LBRACKET:
		a, err := p.parseArray(tok)
		if err != nil {
			return nil, err
		}
		return []Element{a}, nil
	case LPAREN:
		params, err := p.parseParameters(tok)
		if err != nil {
			return nil, err
		}
		return []Element{params}, nil
	case RBRACE, RBRACKET, RPAREN:
		return nil, p.errorf(tok, "unbalanced %q", tok.Text())
	case ASSEMBLY:
		return []Element{p.parseAssembly(tok)}, nil
	case RETURN:
		return []Element{&Return{Value: p.parseValue()}}, nil
	}

	if IsBinaryOperator(tok.Type) {
		return p.parseOperation(tok)
	}
	return []Element{&Other{Token: tok}}, nil
}

func (p *Parser) parseName(lead Token) (string, error) {
	tok := p.peek()
	if tok.Type != OTHER {
		return "", p.errorf(tok, "expected a name after %q", lead.Text())
	}
	p.advance()
	return tok.Lexeme, nil
}

func (p *Parser) parseFunction(lead Token) (*Function, error) {
	name, err := p.parseName(lead)
	if err != nil {
		return nil, err
	}
	f := &Function{Name: name, Line: lead.Line}

	if p.peek().Type == LPAREN {
		if f.Params, err = p.parseParameters(p.advance()); err != nil {
			return nil, err
		}
	}

	if f.ReturnType, err = p.parseTypeSuffix(); err != nil {
		return nil, err
	}

	if f.Params == nil && p.peek().Type == LPAREN {
		if f.Params, err = p.parseParameters(p.advance()); err != nil {
			return nil, err
		}
	}

	if p.peek().Type == LBRACE {
		if f.Body, err = p.parseExpression(p.advance()); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (p *Parser) parseVariable(lead Token) (*Variable, error) {
	name, err := p.parseName(lead)
	if err != nil {
		return nil, err
	}
	v := &Variable{
		ID:     uuid.New(),
		Name:   name,
		Static: lead.Type == STATIC,
		Line:   lead.Line,
	}

	if v.Type, err = p.parseTypeSuffix(); err != nil {
		return nil, err
	}

	if p.peek().Type == ASSIGN {
		p.advance()
		v.Init = p.parseValue()
	}
	return v, nil
}

// parseTypeSuffix reads ": name" or ": name[n]". Without a colon the
// declaration has no type.
func (p *Parser) parseTypeSuffix() (Type, error) {
	if p.peek().Type != TYPEDEF {
		return NoType, nil
	}
	colon := p.advance()

	name := p.peek()
	if name.Type != OTHER {
		return NoType, p.errorf(colon, "expected a type name after ':'")
	}
	p.advance()

	if p.peek().Type != LBRACKET {
		return ParseType(name.Lexeme), nil
	}
	p.advance()

	size := p.advance()
	n, err := strconv.ParseUint(size.Lexeme, 10, 64)
	if size.Type != OTHER || err != nil {
		return NoType, p.errorf(size, "invalid array size %q", size.Text())
	}
	elem := ParseType(name.Lexeme)
	if n > uint64(math.MaxInt/elem.Size()) {
		return NoType, p.errorf(size, "array size too large %q", size.Text())
	}
	if _, err := p.expect(RBRACKET, "']'"); err != nil {
		return NoType, err
	}
	return ArrayOf(elem, n), nil
}

// parseValue reads an initializer or return value. Brackets are left under
// the cursor: the dispatch loop turns them into the element that holds the
// real value. An operand followed by an operator is left too, so the
// Operation production can take it as its left side.
func (p *Parser) parseValue() Value {
	tok := p.peek()
	switch tok.Type {
	case LBRACE:
		return Value{Kind: ExpressionValue, Token: tok}
	case LBRACKET:
		return Value{Kind: ArrayValue, Token: tok}
	case OTHER:
		if IsBinaryOperator(p.peekAt(1).Type) {
			return Value{Kind: OperationValue, Token: tok}
		}
		p.advance()
		return Value{Kind: LiteralValue, Token: tok}
	}
	return Value{}
}

// extractSpan returns the tokens between the opener (already consumed) and
// its matching closer, and moves the cursor past the closer.
func (p *Parser) extractSpan(opener Token, closer TokenType) ([]Token, error) {
	depth := 1
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case opener.Type:
			depth++
		case closer:
			depth--
			if depth == 0 {
				span := p.tokens[p.pos:i]
				p.pos = i + 1
				return span, nil
			}
		}
	}
	return nil, p.errorf(opener, "%q opened on line %d is never closed", opener.Text(), opener.Line)
}

func (p *Parser) parseExpression(opener Token) (*Expression, error) {
	span, err := p.extractSpan(opener, RBRACE)
	if err != nil {
		return nil, err
	}
	elements, err := Parse(span)
	if err != nil {
		return nil, err
	}
	return &Expression{Elements: elements}, nil
}

func (p *Parser) parseArray(opener Token) (*Array, error) {
	span, err := p.extractSpan(opener, RBRACKET)
	if err != nil {
		return nil, err
	}
	var items []Token
	for _, tok := range span {
		if tok.Type == COMMA || tok.Type == NEWLINE {
			continue
		}
		items = append(items, tok)
	}
	return &Array{Items: items}, nil
}

func (p *Parser) parseParameters(opener Token) (*Parameters, error) {
	span, err := p.extractSpan(opener, RPAREN)
	if err != nil {
		return nil, err
	}
	return &Parameters{Tokens: span}, nil
}

// parseAssembly joins the raw text that follows @ on its line. The tokenizer
// splits operands at commas; they are put back together here.
func (p *Parser) parseAssembly(lead Token) *Assembly {
	start := p.pos
	for p.pos < len(p.tokens) {
		if tt := p.tokens[p.pos].Type; tt != OTHER && tt != COMMA {
			break
		}
		p.pos++
	}
	return &Assembly{Code: joinAssembly(p.tokens[start:p.pos]), Line: lead.Line}
}

// parseOperation takes the element emitted just before the operator as the
// left operand. When the right operand is a bracket, its element follows the
// Operation and the Operation only records the opener.
func (p *Parser) parseOperation(op Token) ([]Element, error) {
	if len(p.out) == 0 {
		return nil, p.errorf(op, "operator %q has no left operand", op.Text())
	}
	left := p.out[len(p.out)-1]
	if !isOperand(left) {
		return nil, p.errorf(op, "operator %q cannot apply to %s", op.Text(), left)
	}
	p.out = p.out[:len(p.out)-1]

	next := p.peek()
	switch next.Type {
	case OTHER:
		p.advance()
		return []Element{&Operation{Operator: op.Type, Left: left, Right: Value{Kind: LiteralValue, Token: next}}}, nil
	case LBRACE:
		e, err := p.parseExpression(p.advance())
		if err != nil {
			return nil, err
		}
		return []Element{&Operation{Operator: op.Type, Left: left, Right: Value{Kind: ExpressionValue, Token: next}}, e}, nil
	case LBRACKET:
		a, err := p.parseArray(p.advance())
		if err != nil {
			return nil, err
		}
		return []Element{&Operation{Operator: op.Type, Left: left, Right: Value{Kind: ArrayValue, Token: next}}, a}, nil
	}
	return nil, p.errorf(op, "operator %q has no right operand", op.Text())
}

// isOperand reports whether e can be the left side of an operation.
func isOperand(e Element) bool {
	switch e := e.(type) {
	case *Other:
		return e.Token.Type == OTHER
	case *Expression, *Array, *Operation:
		return true
	case *Function, *Variable, *Parameters, *Assembly, *Return:
		return false
	}
	return false
}
