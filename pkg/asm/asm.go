package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// registers lists the x86-64 register names accepted as register operands.
var registers = map[string]bool{
	"RAX": true, "RBX": true, "RCX": true, "RDX": true,
	"RSI": true, "RDI": true, "RBP": true, "RSP": true,
	"R8": true, "R9": true, "R10": true, "R11": true,
	"R12": true, "R13": true, "R14": true, "R15": true,
	"EAX": true, "EBX": true, "ECX": true, "EDX": true,
	"ESI": true, "EDI": true, "EBP": true, "ESP": true,
	"AX": true, "BX": true, "CX": true, "DX": true,
	"AL": true, "BL": true, "CL": true, "DL": true,
	"AH": true, "BH": true, "CH": true, "DH": true,
}

// OperandKind classifies one instruction operand.
type OperandKind int

const (
	Register  OperandKind = iota // rax
	Immediate                    // 1, 0x10
	Memory                       // [rbp-8]
	Symbol                       // a label or variable name
	Literal                      // 'text'
)

func (k OperandKind) String() string {
	switch k {
	case Register:
		return "register"
	case Immediate:
		return "immediate"
	case Memory:
		return "memory"
	case Symbol:
		return "symbol"
	case Literal:
		return "literal"
	}
	return fmt.Sprintf("OperandKind(%d)", int(k))
}

// Operand is one comma-separated operand of an instruction.
type Operand struct {
	Kind OperandKind
	Text string
}

// Instruction is one line of inline assembly split into its parts.
//
//	loop: add rax, [rbp-8]
//	^^^^  ^^^  ^^^  ^^^^^^
//	label mnem op1  op2
type Instruction struct {
	Line     int
	Labels   []string
	Mnemonic string
	Operands []Operand
}

// ParseLine splits one line of inline assembly. The mnemonic is returned in
// lower case; operand text is kept as written.
func ParseLine(raw string, lineNo int) (Instruction, error) {
	p := Instruction{Line: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if strings.ContainsAny(beforeColon, " \t[") {
			break
		}
		if !isIdentifier(beforeColon) {
			return p, fmt.Errorf("invalid label '%s' on line %d", beforeColon, lineNo)
		}

		p.Labels = append(p.Labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	mnemonic, rest := line, ""
	if sp := strings.IndexFunc(line, unicode.IsSpace); sp >= 0 {
		mnemonic, rest = line[:sp], line[sp:]
	}
	if !isIdentifier(mnemonic) {
		return p, fmt.Errorf("invalid mnemonic '%s' on line %d", mnemonic, lineNo)
	}
	p.Mnemonic = strings.ToLower(mnemonic)

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return p, nil
	}
	for _, field := range splitOperands(rest) {
		op, err := parseOperand(strings.TrimSpace(field), lineNo)
		if err != nil {
			return p, err
		}
		p.Operands = append(p.Operands, op)
	}
	return p, nil
}

func parseOperand(text string, lineNo int) (Operand, error) {
	if text == "" {
		return Operand{}, fmt.Errorf("empty operand on line %d", lineNo)
	}

	switch {
	case strings.ContainsAny(text, "[]"):
		// An optional size prefix may come first: qword [rbp-8]
		open := strings.Index(text, "[")
		if open < 0 || !strings.HasSuffix(text, "]") || strings.Count(text, "[") != 1 || strings.Count(text, "]") != 1 {
			return Operand{}, fmt.Errorf("unbalanced memory operand '%s' on line %d", text, lineNo)
		}
		if strings.TrimSpace(text[open+1:len(text)-1]) == "" {
			return Operand{}, fmt.Errorf("empty memory operand on line %d", lineNo)
		}
		return Operand{Kind: Memory, Text: text}, nil
	case strings.HasPrefix(text, "'"):
		return Operand{Kind: Literal, Text: text}, nil
	case registers[strings.ToUpper(text)]:
		return Operand{Kind: Register, Text: text}, nil
	}

	if _, err := strconv.ParseInt(text, 0, 64); err == nil {
		return Operand{Kind: Immediate, Text: text}, nil
	}
	if isIdentifier(text) {
		return Operand{Kind: Symbol, Text: text}, nil
	}
	return Operand{}, fmt.Errorf("invalid operand '%s' on line %d", text, lineNo)
}

func stripComments(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == ';':
			return line[:i]
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

// splitOperands splits on the commas that are not inside a quoted literal.
func splitOperands(rest string) []string {
	var fields []string
	inQuote := false
	start := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\'':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				fields = append(fields, rest[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, rest[start:])
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' && r != '.' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}
