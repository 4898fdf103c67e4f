package compiler

import "strings"

// RuleItemKind is one position of an instruction pattern.
type RuleItemKind int

const (
	ItemMain       RuleItemKind = iota // the rule's own token
	ItemValue                          // a literal: number or string
	ItemLabel                          // an identifier
	ItemExpression                     // a { ... } span
	ItemOperation                      // operand operator operand
	ItemToken                          // one fixed token
	ItemSkip                           // anything, checked elsewhere (argument lists)
)

// RuleItem is one position of a Rule. Token is set for ItemMain and ItemToken.
type RuleItem struct {
	Kind  RuleItemKind
	Token TokenType
}

func (it RuleItem) String() string {
	switch it.Kind {
	case ItemMain:
		return "Main(" + Spelling(it.Token) + ")"
	case ItemValue:
		return "Value"
	case ItemLabel:
		return "Label"
	case ItemExpression:
		return "Expression"
	case ItemOperation:
		return "Operation"
	case ItemToken:
		return "Token(" + Spelling(it.Token) + ")"
	case ItemSkip:
		return "Skip"
	}
	return "?"
}

// Rule is one accepted shape of an instruction.
type Rule struct {
	Items []RuleItem
}

func (r Rule) String() string {
	parts := make([]string, len(r.Items))
	for i, it := range r.Items {
		parts[i] = it.String()
	}
	return strings.Join(parts, " ")
}

var (
	anyValue      = RuleItem{Kind: ItemValue}
	anyLabel      = RuleItem{Kind: ItemLabel}
	anyExpression = RuleItem{Kind: ItemExpression}
	anyOperation  = RuleItem{Kind: ItemOperation}
	anySkip       = RuleItem{Kind: ItemSkip}
)

func lead(tt TokenType) RuleItem  { return RuleItem{Kind: ItemMain, Token: tt} }
func fixed(tt TokenType) RuleItem { return RuleItem{Kind: ItemToken, Token: tt} }

func rule(items ...RuleItem) Rule { return Rule{Items: items} }

// operatorRules makes every operand combination around op: "5 + 5",
// "a + 5", "{..} + b" and so on.
func operatorRules(op TokenType) []Rule {
	operands := []RuleItem{anyValue, anyLabel, anyExpression}
	rules := make([]Rule, 0, len(operands)*len(operands))
	for _, left := range operands {
		for _, right := range operands {
			rules = append(rules, rule(left, lead(op), right))
		}
	}
	return rules
}

// basicRules accepts tt followed by one value, label or expression.
func basicRules(tt TokenType) []Rule {
	return []Rule{
		rule(lead(tt), anyValue),
		rule(lead(tt), anyLabel),
		rule(lead(tt), anyExpression),
	}
}

// declarationRules covers "let a: int" with no, value, label or expression
// initializer.
func declarationRules(tt TokenType) []Rule {
	head := []RuleItem{lead(tt), anyLabel, fixed(TYPEDEF), anyLabel}
	with := func(init RuleItem) Rule {
		items := append(append([]RuleItem{}, head...), fixed(ASSIGN), init)
		return rule(items...)
	}
	return []Rule{
		rule(head...),
		with(anyValue),
		with(anyLabel),
		with(anyExpression),
	}
}

// RulesFor returns the accepted shapes of an instruction led by tt. The
// result is empty when tt cannot lead an instruction.
func RulesFor(tt TokenType) []Rule {
	switch tt {
	case PLUS, MINUS, MULTIPLY, DIVIDE, LESS, LESS_EQ, MORE, MORE_EQ:
		return operatorRules(tt)
	case VARIABLE, STATIC:
		return declarationRules(tt)
	case ASSEMBLY:
		return []Rule{
			rule(lead(ASSEMBLY)),
			rule(lead(ASSEMBLY), anyValue),
		}
	case ASSIGN:
		return []Rule{
			rule(anyLabel, lead(ASSIGN), anyValue),
			rule(anyLabel, lead(ASSIGN), anyLabel),
			rule(anyLabel, lead(ASSIGN), anyExpression),
		}
	case ELSE:
		return []Rule{rule(lead(ELSE), anyExpression)}
	case IF:
		return []Rule{
			rule(lead(IF), anyExpression, anyExpression),
			rule(lead(IF), anyOperation, anyExpression),
		}
	case LOOP:
		return []Rule{
			rule(lead(LOOP), anyExpression),
			rule(lead(LOOP), anyExpression, anyExpression),
			rule(lead(LOOP), anyOperation, anyExpression),
		}
	case BREAK, CONTINUE:
		return []Rule{rule(lead(tt))}
	case FUNCTION:
		return []Rule{
			rule(lead(FUNCTION), anyLabel),
			rule(lead(FUNCTION), anyLabel, fixed(LPAREN), anySkip, fixed(RPAREN)),
			rule(lead(FUNCTION), anyLabel, fixed(TYPEDEF), anyLabel),
			rule(lead(FUNCTION), anyLabel, fixed(LPAREN), anySkip, fixed(RPAREN), fixed(TYPEDEF), anyLabel),
		}
	case POINT:
		return []Rule{rule(anyLabel, lead(POINT), anyLabel)}
	case RETURN:
		return append([]Rule{rule(lead(RETURN))}, basicRules(RETURN)...)
	case TYPEDEF:
		return []Rule{rule(lead(TYPEDEF), anyLabel)}
	case PRINT, EXIT:
		return basicRules(tt)
	}
	return nil
}
