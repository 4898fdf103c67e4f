package compiler

import "testing"

func TestRulesFor(t *testing.T) {
	t.Run("Operators", func(t *testing.T) {
		for _, op := range []TokenType{PLUS, MINUS, MULTIPLY, DIVIDE, LESS, LESS_EQ, MORE, MORE_EQ} {
			rules := RulesFor(op)
			if len(rules) != 9 {
				t.Errorf("RulesFor(%s) has %d rules, want 9", op, len(rules))
				continue
			}
			seen := make(map[string]bool)
			for _, r := range rules {
				if len(r.Items) != 3 || r.Items[1] != lead(op) {
					t.Errorf("RulesFor(%s): bad rule %s", op, r)
				}
				seen[r.String()] = true
			}
			if len(seen) != 9 {
				t.Errorf("RulesFor(%s) has duplicate rules", op)
			}
		}
	})

	t.Run("Declarations", func(t *testing.T) {
		for _, kw := range []TokenType{VARIABLE, STATIC} {
			rules := RulesFor(kw)
			if len(rules) != 4 {
				t.Fatalf("RulesFor(%s) has %d rules, want 4", kw, len(rules))
			}
			for _, r := range rules {
				if len(r.Items) < 4 ||
					r.Items[0] != lead(kw) ||
					r.Items[1] != anyLabel ||
					r.Items[2] != fixed(TYPEDEF) ||
					r.Items[3] != anyLabel {
					t.Errorf("RulesFor(%s): rule %s is not gated by the type annotation", kw, r)
				}
			}
		}
	})

	t.Run("Leaders", func(t *testing.T) {
		for tt := range tokenNames {
			if IsLeader(TokenType(tt)) && len(RulesFor(TokenType(tt))) == 0 {
				t.Errorf("leader %s has no rules", TokenType(tt))
			}
		}
	})

	t.Run("No Rules", func(t *testing.T) {
		for _, tt := range []TokenType{OTHER, NEWLINE, LBRACE, COMMA, SEMICOLON, EQUAL} {
			if rules := RulesFor(tt); rules != nil {
				t.Errorf("RulesFor(%s) = %v, want none", tt, rules)
			}
		}
	})
}

func TestRuleString(t *testing.T) {
	tests := []struct {
		rule Rule
		want string
	}{
		{rule(lead(RETURN), anyValue), "Main(ret) Value"},
		{rule(anyLabel, lead(ASSIGN), anyExpression), "Label Main(=) Expression"},
		{rule(lead(FUNCTION), anyLabel, fixed(LPAREN), anySkip, fixed(RPAREN)), "Main(fun) Label Token(() Skip Token())"},
		{rule(lead(IF), anyOperation, anyExpression), "Main(if) Operation Expression"},
	}
	for _, tc := range tests {
		if got := tc.rule.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

// lineOf tokenizes src and drops the trailing NEWLINE.
func lineOf(src string) []Token {
	toks := Tokenize(src)
	return toks[:len(toks)-1]
}

func TestMatchRule(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		src  string
		want bool
	}{
		{"Value", rule(lead(PRINT), anyValue), "print 42", true},
		{"String Value", rule(lead(PRINT), anyValue), "print 'hi'", true},
		{"Label Is Not Value", rule(lead(PRINT), anyValue), "print x", false},
		{"Label", rule(lead(PRINT), anyLabel), "print x", true},
		{"Member Label", rule(lead(PRINT), anyLabel), "print p.x", true},
		{"Indexed Label", rule(lead(PRINT), anyLabel), "print v[2]", true},
		{"Call Label", rule(lead(PRINT), anyLabel), "print f(1, 2)", true},
		{"Operation Chain", rule(lead(RETURN), anyLabel), "ret a + b * 2", true},
		{"Leftover Tokens", rule(lead(RETURN), anyLabel), "ret a b", false},
		{"Missing Item", rule(lead(RETURN), anyLabel), "ret", false},
		{"Closed Expression", rule(lead(ELSE), anyExpression), "else { ret 1 }", true},
		{"Open Expression", rule(lead(ELSE), anyExpression), "else {", true},
		{"Operation", rule(lead(IF), anyOperation, anyExpression), "if a <= 10 {", true},
		{"Operation Needs Operator", rule(lead(IF), anyOperation, anyExpression), "if a {", false},
		{"Skip", rule(lead(FUNCTION), anyLabel, fixed(LPAREN), anySkip, fixed(RPAREN)), "fun f(a: int, b: int)", true},
		{"Trailing Block", rule(lead(FUNCTION), anyLabel), "fun main {", true},
		{"Declaration", rule(lead(VARIABLE), anyLabel, fixed(TYPEDEF), anyLabel, fixed(ASSIGN), anyValue), "let a: int = 5", true},
		{"Array Declaration", rule(lead(STATIC), anyLabel, fixed(TYPEDEF), anyLabel, fixed(ASSIGN), anyValue), "static v: u8[2] = [1, 2]", true},
		{"Wrong Lead", rule(lead(VARIABLE), anyLabel), "static a", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchRule(tc.rule, lineOf(tc.src)); got != tc.want {
				t.Errorf("MatchRule(%s, %q) = %v, want %v", tc.rule, tc.src, got, tc.want)
			}
		})
	}
}

// TestMatchRuleSkip checks that every signature form has a FUNCTION rule.
func TestMatchRuleSkip(t *testing.T) {
	for _, src := range []string{"fun f(a: int, b: int)", "fun f(a: int): int {"} {
		matched := false
		for _, r := range RulesFor(FUNCTION) {
			if MatchRule(r, lineOf(src)) {
				matched = true
				break
			}
		}
		if !matched {
			t.Errorf("no FUNCTION rule matches %q", src)
		}
	}
}
