package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	// Open variants
	OTHER   TokenType = iota // identifier, literal, string literal, raw assembly
	NEWLINE                  // sentinel: end of a physical line

	// Keywords
	FUNCTION // "fun"
	VARIABLE // "let"
	STATIC   // "static"
	RETURN   // "ret"
	IF       // "if"
	ELSE     // "else"
	LOOP     // "loop"
	BREAK    // "break"
	CONTINUE // "continue"
	PRINT    // "print"
	EXIT     // "exit"

	// Paired delimiters
	LBRACE   // {
	RBRACE   // }
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Punctuation
	COMMA      // ,
	POINT      // .
	SEMICOLON  // ;
	STRING_DOT // '
	TYPEDEF    // :
	ASSEMBLY   // @
	COMMENT    // //  (recognized, never emitted)

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	MULTIPLY // *
	DIVIDE   // /
	EQUAL    // ==
	LESS     // <
	LESS_EQ  // <=
	MORE     // >
	MORE_EQ  // >=
)

var tokenNames = [...]string{
	OTHER:      "OTHER",
	NEWLINE:    "NEWLINE",
	FUNCTION:   "FUNCTION",
	VARIABLE:   "VARIABLE",
	STATIC:     "STATIC",
	RETURN:     "RETURN",
	IF:         "IF",
	ELSE:       "ELSE",
	LOOP:       "LOOP",
	BREAK:      "BREAK",
	CONTINUE:   "CONTINUE",
	PRINT:      "PRINT",
	EXIT:       "EXIT",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	COMMA:      "COMMA",
	POINT:      "POINT",
	SEMICOLON:  "SEMICOLON",
	STRING_DOT: "STRING_DOT",
	TYPEDEF:    "TYPEDEF",
	ASSEMBLY:   "ASSEMBLY",
	COMMENT:    "COMMENT",
	ASSIGN:     "ASSIGN",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	MULTIPLY:   "MULTIPLY",
	DIVIDE:     "DIVIDE",
	EQUAL:      "EQUAL",
	LESS:       "LESS",
	LESS_EQ:    "LESS_EQ",
	MORE:       "MORE",
	MORE_EQ:    "MORE_EQ",
}

// spellings holds the fixed source text of every token that has one.
// OTHER has no fixed spelling.
var spellings = map[TokenType]string{
	NEWLINE:    "\n",
	FUNCTION:   "fun",
	VARIABLE:   "let",
	STATIC:     "static",
	RETURN:     "ret",
	IF:         "if",
	ELSE:       "else",
	LOOP:       "loop",
	BREAK:      "break",
	CONTINUE:   "continue",
	PRINT:      "print",
	EXIT:       "exit",
	LBRACE:     "{",
	RBRACE:     "}",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACKET:   "[",
	RBRACKET:   "]",
	COMMA:      ",",
	POINT:      ".",
	SEMICOLON:  ";",
	STRING_DOT: "'",
	TYPEDEF:    ":",
	ASSEMBLY:   "@",
	COMMENT:    "//",
	ASSIGN:     "=",
	PLUS:       "+",
	MINUS:      "-",
	MULTIPLY:   "*",
	DIVIDE:     "/",
	EQUAL:      "==",
	LESS:       "<",
	LESS_EQ:    "<=",
	MORE:       ">",
	MORE_EQ:    ">=",
}

// bySpelling is the reverse of spellings, built once in init.
var bySpelling = make(map[string]TokenType, len(spellings))

func init() {
	for tt, s := range spellings {
		bySpelling[s] = tt
	}
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Spelling returns the fixed source text of tt, or "" for OTHER.
func Spelling(tt TokenType) string {
	return spellings[tt]
}

// LookupSpelling maps source text to its token. Text with no fixed token
// becomes an OTHER token carrying the text.
func LookupSpelling(s string) Token {
	if tt, ok := bySpelling[s]; ok {
		return Token{Type: tt, Lexeme: s}
	}
	return Token{Type: OTHER, Lexeme: s}
}

// IsBinaryOperator reports whether tt is one of the binary operators the
// parser folds into an Operation.
func IsBinaryOperator(tt TokenType) bool {
	switch tt {
	case PLUS, MINUS, MULTIPLY, DIVIDE, EQUAL, LESS, LESS_EQ, MORE, MORE_EQ:
		return true
	}
	return false
}

// IsDeclaration reports whether tt introduces a variable.
func IsDeclaration(tt TokenType) bool {
	return tt == VARIABLE || tt == STATIC
}

// IsLeader reports whether tt may begin an instruction.
func IsLeader(tt TokenType) bool {
	switch tt {
	case ASSEMBLY, FUNCTION, RETURN, VARIABLE, STATIC, PRINT, EXIT,
		IF, ELSE, LOOP, BREAK, CONTINUE:
		return true
	}
	return false
}

// Token is a single lexical unit produced by the Tokenizer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Line   int    // 1-based source line
}

// Text returns the token as it would be written in source.
func (t Token) Text() string {
	if t.Type == OTHER {
		return t.Lexeme
	}
	return spellings[t.Type]
}

func (t Token) String() string {
	if t.Type == NEWLINE {
		return fmt.Sprintf("%-10s %-14q  line %d", t.Type, "\\n", t.Line)
	}
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
