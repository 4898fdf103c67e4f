package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"junon/pkg/asm"
	"junon/pkg/diagnostics"
)

const (
	invalidTokenTitle  = "Invalid token"
	invalidTokenMsg    = "No valid instruction found for token '%s'"
	unrecognizedTitle  = "Unrecognized instruction"
	unrecognizedMsg    = "'%s' is not followed by any accepted form"
	invalidAsmTitle    = "Invalid assembly"
	checkerCaretMarker = "^"
)

// CheckOptions configures a SyntaxChecker run.
type CheckOptions struct {
	// File names the source in diagnostics.
	File string
	// Strict also matches every instruction against its Rule alternatives
	// and validates inline assembly. Mismatches are warnings.
	Strict bool
	// Output receives the rendered diagnostics when the run ends. Nil keeps
	// them silent; they are returned either way.
	Output   io.Writer
	Renderer *diagnostics.Renderer
	// Logger receives a warning when Output cannot be written. Nil discards
	// it; the error stays available from Log().FlushErr().
	Logger *slog.Logger
}

// SyntaxChecker verifies that each instruction starts with a token allowed to
// lead one. Once a leader is seen the rest of its line belongs to the parser.
// Problems never stop the scan: they are collected and flushed at the end.
type SyntaxChecker struct {
	lines  []string // source lines, normalized as the tokenizer sees them
	tokens []Token
	opts   CheckOptions
	log    *diagnostics.Log

	current Token

	tokenIndex     int // index of current in tokens
	lineTokenIndex int // index of current within its line
	lineIndex      int // number of NEWLINEs passed
	skipLine       bool

	newLines []int // index just past each NEWLINE token
}

// NewSyntaxChecker prepares a check of tokens, which Tokenize produced from
// source.
func NewSyntaxChecker(source string, tokens []Token, opts CheckOptions) *SyntaxChecker {
	var newLines []int
	for i, tok := range tokens {
		if tok.Type == NEWLINE {
			newLines = append(newLines, i+1)
		}
	}
	if opts.Renderer == nil {
		opts.Renderer = diagnostics.NewRenderer(false)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &SyntaxChecker{
		lines:    strings.Split(sourceNormalizer.Replace(source), "\n"),
		tokens:   tokens,
		opts:     opts,
		log:      diagnostics.NewLog(opts.File),
		newLines: newLines,
	}
}

// Check runs a default SyntaxChecker and returns its diagnostics.
func Check(source string, tokens []Token) []diagnostics.Diagnostic {
	return NewSyntaxChecker(source, tokens, CheckOptions{}).Run()
}

// Log exposes the diagnostics collected so far.
func (c *SyntaxChecker) Log() *diagnostics.Log {
	return c.log
}

// Run scans every token, flushes the log to the configured output and
// returns the diagnostics in source order.
func (c *SyntaxChecker) Run() []diagnostics.Diagnostic {
	for i, tok := range c.tokens {
		c.current = tok
		c.tokenIndex = i

		if c.skipLine && tok.Type != NEWLINE {
			c.lineTokenIndex++
			continue
		}
		c.checkToken()
	}

	if c.opts.Output != nil {
		if err := c.log.Flush(c.opts.Output, c.opts.Renderer); err != nil {
			c.opts.Logger.Warn("failed to write diagnostics", "file", c.opts.File, "error", err)
		}
	}
	return c.log.Diagnostics()
}

func (c *SyntaxChecker) checkToken() {
	tok := c.current

	switch {
	case tok.Type == NEWLINE:
		c.skipLine = false
		c.lineTokenIndex = 0
		c.lineIndex++
		return
	case IsLeader(tok.Type):
		c.skipLine = true
		if c.opts.Strict {
			c.matchLine()
		}
	case isStructural(tok.Type):
		// legal anywhere on a line
	default:
		c.log.Add(diagnostics.NewError(invalidTokenTitle, fmt.Sprintf(invalidTokenMsg, tok.Text())).
			At(tok.Line, c.column()).
			WithCause(c.excerpt()))
		c.skipLine = true
	}
	c.lineTokenIndex++
}

func isStructural(tt TokenType) bool {
	switch tt {
	case ASSIGN, LBRACE, RBRACE, LPAREN, RPAREN, COMMA, POINT, STRING_DOT, TYPEDEF:
		return true
	}
	return false
}

// lineTokens returns the tokens of the current line, NEWLINE excluded.
func (c *SyntaxChecker) lineTokens() []Token {
	start := 0
	if c.lineIndex > 0 && c.lineIndex <= len(c.newLines) {
		start = c.newLines[c.lineIndex-1]
	}
	end := len(c.tokens)
	if c.lineIndex < len(c.newLines) {
		end = c.newLines[c.lineIndex] - 1
	}
	if start > end {
		return nil
	}
	return c.tokens[start:end]
}

// locate finds the byte offset of the current token in its source line by
// walking the line's tokens in order.
func (c *SyntaxChecker) locate() (string, int, bool) {
	n := c.current.Line
	if n < 1 || n > len(c.lines) {
		return "", 0, false
	}
	text := c.lines[n-1]
	toks := c.lineTokens()
	if c.lineTokenIndex >= len(toks) {
		return "", 0, false
	}

	pos := 0
	for j, tok := range toks[:c.lineTokenIndex+1] {
		k := strings.Index(text[pos:], tok.Text())
		if k < 0 {
			return "", 0, false
		}
		if j == c.lineTokenIndex {
			return text, pos + k, true
		}
		pos += k + len(tok.Text())
	}
	return "", 0, false
}

// column is the 1-based rune column of the current token, falling back to
// its position among the line's tokens.
func (c *SyntaxChecker) column() int {
	if text, off, ok := c.locate(); ok {
		return utf8.RuneCountInString(text[:off]) + 1
	}
	return c.lineTokenIndex + 1
}

// excerpt renders the current line with a caret under the current token. The
// source line is used when the token can be found in it; otherwise the line
// is rebuilt from its tokens.
func (c *SyntaxChecker) excerpt() string {
	if text, off, ok := c.locate(); ok {
		pad := strings.Repeat(" ", utf8.RuneCountInString(text[:off]))
		return text + "\n" + pad + checkerCaretMarker
	}

	var sb strings.Builder
	caret := 0
	for j, tok := range c.lineTokens() {
		if j > 0 {
			sb.WriteByte(' ')
		}
		if j == c.lineTokenIndex {
			caret = utf8.RuneCountInString(sb.String())
		}
		sb.WriteString(tok.Text())
	}
	return sb.String() + "\n" + strings.Repeat(" ", caret) + checkerCaretMarker
}

// matchLine checks the instruction led by the current token against its
// Rule alternatives.
func (c *SyntaxChecker) matchLine() {
	toks := c.lineTokens()
	if c.lineTokenIndex >= len(toks) {
		return
	}
	toks = toks[c.lineTokenIndex:]
	lead := toks[0]

	if lead.Type == ASSEMBLY {
		code := joinAssembly(toks[1:])
		if code == "" {
			return
		}
		if _, err := asm.ParseLine(code, lead.Line); err != nil {
			c.log.Add(diagnostics.NewWarning(invalidAsmTitle, err.Error()).
				At(lead.Line, c.column()).
				WithCause(c.excerpt()))
		}
		return
	}

	rules := RulesFor(lead.Type)
	if len(rules) == 0 {
		return
	}
	for _, r := range rules {
		if MatchRule(r, toks) {
			return
		}
	}
	c.log.Add(diagnostics.NewWarning(unrecognizedTitle, fmt.Sprintf(unrecognizedMsg, lead.Text())).
		At(lead.Line, c.column()).
		WithCause(c.excerpt()))
}

// joinAssembly puts an @ line back together the same way the parser does.
// A quoted literal arrives as its own OTHER token and is set off by a space.
func joinAssembly(toks []Token) string {
	var sb strings.Builder
	prev := COMMA
	for _, tok := range toks {
		switch tok.Type {
		case COMMA:
			sb.WriteString(", ")
		case OTHER:
			if prev == OTHER {
				sb.WriteByte(' ')
			}
			sb.WriteString(tok.Lexeme)
		default:
			continue
		}
		prev = tok.Type
	}
	return strings.TrimSpace(sb.String())
}

// MatchRule reports whether toks, one instruction without its NEWLINE, has
// the shape r describes. A trailing "{" opening a block that continues on the
// next lines is accepted after any rule.
func MatchRule(r Rule, toks []Token) bool {
	m := &ruleMatcher{toks: toks}
	for i, item := range r.Items {
		if !m.item(item, r.Items[i+1:]) {
			return false
		}
	}
	if m.pos < len(m.toks) && m.toks[m.pos].Type == LBRACE {
		m.block()
	}
	return m.pos == len(m.toks)
}

type ruleMatcher struct {
	toks []Token
	pos  int
}

func (m *ruleMatcher) peek() (Token, bool) {
	if m.pos >= len(m.toks) {
		return Token{}, false
	}
	return m.toks[m.pos], true
}

func (m *ruleMatcher) item(it RuleItem, rest []RuleItem) bool {
	switch it.Kind {
	case ItemMain, ItemToken:
		tok, ok := m.peek()
		if !ok || tok.Type != it.Token {
			return false
		}
		m.pos++
		return true
	case ItemValue:
		return m.operand(m.value)
	case ItemLabel:
		// A fixed "(" next means the list belongs to the rule, not a call.
		calls := len(rest) == 0 || rest[0] != fixed(LPAREN)
		return m.operand(func() bool { return m.label(calls) })
	case ItemExpression:
		return m.operand(m.block)
	case ItemOperation:
		if !m.term() {
			return false
		}
		tok, ok := m.peek()
		if !ok || !IsBinaryOperator(tok.Type) {
			return false
		}
		m.pos++
		return m.operand(m.term)
	case ItemSkip:
		if len(rest) > 0 && rest[0].Kind == ItemToken {
			for m.pos < len(m.toks) {
				if m.toks[m.pos].Type == rest[0].Token {
					return true
				}
				m.pos++
			}
			return false
		}
		m.pos = len(m.toks)
		return true
	}
	return false
}

// operand matches first and then any "op term" chain that follows it: an
// operation is accepted wherever its first operand would be.
func (m *ruleMatcher) operand(first func() bool) bool {
	if !first() {
		return false
	}
	for {
		tok, ok := m.peek()
		if !ok || !IsBinaryOperator(tok.Type) {
			return true
		}
		save := m.pos
		m.pos++
		if !m.term() {
			m.pos = save
			return true
		}
	}
}

func (m *ruleMatcher) term() bool {
	return m.value() || m.label(true) || m.block()
}

// value matches a number, a string literal or an array literal.
func (m *ruleMatcher) value() bool {
	tok, ok := m.peek()
	if !ok {
		return false
	}
	if tok.Type == LBRACKET {
		return m.span(LBRACKET, RBRACKET, false)
	}
	if tok.Type != OTHER || tok.Lexeme == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(tok.Lexeme)
	if r == '\'' || unicode.IsDigit(r) {
		m.pos++
		return true
	}
	return false
}

// label matches an identifier with any index or member suffixes, and call
// suffixes when calls is set.
func (m *ruleMatcher) label(calls bool) bool {
	tok, ok := m.peek()
	if !ok || !isLabel(tok) {
		return false
	}
	m.pos++
	for {
		next, ok := m.peek()
		if !ok {
			return true
		}
		switch next.Type {
		case LBRACKET:
			if !m.span(LBRACKET, RBRACKET, false) {
				return false
			}
		case LPAREN:
			if !calls {
				return true
			}
			if !m.span(LPAREN, RPAREN, false) {
				return false
			}
		case POINT:
			if m.pos+1 >= len(m.toks) || !isLabel(m.toks[m.pos+1]) {
				return true
			}
			m.pos += 2
		default:
			return true
		}
	}
}

// block matches a { ... } span. An unclosed brace runs to the end of the
// line: the block goes on below.
func (m *ruleMatcher) block() bool {
	return m.span(LBRACE, RBRACE, true)
}

func (m *ruleMatcher) span(open, close TokenType, openEnded bool) bool {
	tok, ok := m.peek()
	if !ok || tok.Type != open {
		return false
	}
	depth := 0
	for i := m.pos; i < len(m.toks); i++ {
		switch m.toks[i].Type {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				m.pos = i + 1
				return true
			}
		}
	}
	if openEnded {
		m.pos = len(m.toks)
		return true
	}
	return false
}

func isLabel(tok Token) bool {
	if tok.Type != OTHER || tok.Lexeme == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(tok.Lexeme)
	return unicode.IsLetter(r) || r == '_'
}
