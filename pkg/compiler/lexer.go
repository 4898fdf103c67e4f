package compiler

import (
	"fmt"
	"strings"
	"unicode"
)

// Tokenizer holds all mutable state for a single scanning pass over src.
//
// The scan is one forward pass over the runes of the source. Each rune is
// offered, in order, to the comment, string, newline, assembly and generic
// handlers; the first one that claims it wins.
type Tokenizer struct {
	src    []rune
	tokens []Token
	line   int // current 1-based source line

	lexeme []rune // identifier/keyword/number being built

	wasDoubleChar bool // the previous rune was the first half of a two-rune token
	isAsmCode     bool // inside an @ line: text is opaque
	isComment     bool // inside a // comment: text is discarded

	isString   bool
	strContent []rune
	strLine    int
}

// sourceNormalizer turns CRLF line endings into \n and tabs into spaces.
var sourceNormalizer = strings.NewReplacer("\r\n", "\n", "\t", " ")

// NewTokenizer returns a Tokenizer over src. Tabs are normalized to spaces
// and CRLF line endings to \n.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{
		src:  []rune(sourceNormalizer.Replace(src)),
		line: 1,
	}
}

// Tokenize turns src into its token sequence. It never fails: text with no
// fixed spelling becomes OTHER. The result always ends with one NEWLINE.
func Tokenize(src string) []Token {
	t := NewTokenizer(src)
	t.Run()
	return t.Tokens()
}

// Tokens returns the tokens produced by Run.
func (t *Tokenizer) Tokens() []Token {
	return t.tokens
}

// Run scans the whole source.
func (t *Tokenizer) Run() {
	for i, c := range t.src {
		if t.isComment && c != '\n' {
			continue
		}
		if t.scanString(c) || t.scanNewLine(c) || t.scanAsm(c) {
			continue
		}
		t.scanOther(c, i)
	}

	t.flush()
	if t.isString {
		// Unterminated string: the marker and what followed it are kept as
		// is, minus the final newlines, which still end the file.
		for n := len(t.strContent); n > 0 && t.strContent[n-1] == '\n'; n-- {
			t.strContent = t.strContent[:n-1]
			t.line--
		}
		t.emit(Token{Type: STRING_DOT, Lexeme: "'", Line: t.strLine})
		if len(t.strContent) > 0 {
			t.emit(Token{Type: OTHER, Lexeme: string(t.strContent), Line: t.strLine})
		}
		t.isString = false
		t.strContent = nil
	}

	// Exactly one trailing NEWLINE.
	n := len(t.tokens)
	for n > 1 && t.tokens[n-1].Type == NEWLINE && t.tokens[n-2].Type == NEWLINE {
		n--
	}
	t.tokens = t.tokens[:n]
	if n == 0 || t.tokens[n-1].Type != NEWLINE {
		t.tokens = append(t.tokens, Token{Type: NEWLINE, Lexeme: "\n", Line: t.line})
	}

	t.mergeRelational()
}

// scanString handles the ' marker and everything between two markers.
func (t *Tokenizer) scanString(c rune) bool {
	if c == '\'' {
		if t.isString {
			t.isString = false
			t.emit(Token{Type: OTHER, Lexeme: "'" + string(t.strContent) + "'", Line: t.strLine})
			t.strContent = nil
		} else {
			t.flush()
			t.isString = true
			t.strLine = t.line
		}
		return true
	}

	if t.isString {
		t.strContent = append(t.strContent, c)
		if c == '\n' {
			t.line++
		}
		return true
	}
	return false
}

func (t *Tokenizer) scanNewLine(c rune) bool {
	if c != '\n' {
		return false
	}
	t.flush() // the line's last token
	t.emit(Token{Type: NEWLINE, Lexeme: "\n", Line: t.line})
	t.line++

	t.isAsmCode = false
	t.isComment = false
	t.wasDoubleChar = false
	return true
}

// scanAsm enters assembly mode on @ and, once inside, accumulates raw text.
// Only the comma keeps its meaning so operands stay separated.
func (t *Tokenizer) scanAsm(c rune) bool {
	if t.isAsmCode {
		if c == ',' {
			t.flush()
			t.emit(Token{Type: COMMA, Lexeme: ",", Line: t.line})
			return true
		}
		t.lexeme = append(t.lexeme, c)
		return true
	}

	if c == '@' {
		t.flush()
		t.emit(Token{Type: ASSEMBLY, Lexeme: "@", Line: t.line})
		t.isAsmCode = true
		return true
	}
	return false
}

func (t *Tokenizer) scanOther(c rune, i int) {
	if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
		t.lexeme = append(t.lexeme, c) // still the same token
		return
	}

	t.flush()

	if c == ' ' || t.wasDoubleChar {
		t.wasDoubleChar = false
		return
	}

	if i+1 < len(t.src) && t.src[i+1] == c {
		double := LookupSpelling(string([]rune{c, c}))
		if double.Type == COMMENT {
			t.isComment = true
			return
		}
		if double.Type != OTHER {
			double.Line = t.line
			t.emit(double)
			t.wasDoubleChar = true
			return
		}
	}

	single := LookupSpelling(string(c))
	single.Line = t.line
	t.emit(single)
}

// flush emits the pending lexeme, if any.
func (t *Tokenizer) flush() {
	if len(t.lexeme) == 0 {
		return
	}
	text := string(t.lexeme)
	t.lexeme = t.lexeme[:0]

	if t.isAsmCode {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		t.emit(Token{Type: OTHER, Lexeme: text, Line: t.line})
		return
	}

	tok := LookupSpelling(text)
	tok.Line = t.line
	t.emit(tok)
}

func (t *Tokenizer) emit(tok Token) {
	t.tokens = append(t.tokens, tok)
}

// mergeRelational folds "< =" and "> =" into <= and >=. The lookahead in
// scanOther only pairs identical runes, so these arrive as two tokens.
func (t *Tokenizer) mergeRelational() {
	out := t.tokens[:0]
	for _, tok := range t.tokens {
		if tok.Type == ASSIGN && len(out) > 0 {
			prev := &out[len(out)-1]
			switch prev.Type {
			case LESS:
				prev.Type, prev.Lexeme = LESS_EQ, "<="
				continue
			case MORE:
				prev.Type, prev.Lexeme = MORE_EQ, ">="
				continue
			}
		}
		out = append(out, tok)
	}
	t.tokens = out
}

// FormatTokens renders tokens one source line per output line, for debugging.
func FormatTokens(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		if tok.Type == NEWLINE {
			sb.WriteString("NEWLINE\n")
			continue
		}
		if tok.Type == OTHER {
			fmt.Fprintf(&sb, "OTHER(%q) ", tok.Lexeme)
			continue
		}
		fmt.Fprintf(&sb, "%s ", tok.Type)
	}
	return sb.String()
}
