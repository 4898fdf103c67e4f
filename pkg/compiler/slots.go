package compiler

import (
	"fmt"
	"sort"
	"strings"
)

type ScopeType int

const (
	ScopeGlobal ScopeType = iota
	ScopeLocal
)

func (s ScopeType) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "local"
}

// Slot is where a backend keeps one variable.
type Slot struct {
	Name   string
	Offset int    // offset from the frame pointer for locals; 0 for globals
	Label  string // data label for globals
	Size   int
	Scope  ScopeType
	Type   Type
}

// SlotTable maps variables to storage. It is owned by the backend and keyed
// by VariableID, so the parser's elements stay untouched.
// Globals use labels resolved by the assembler.
// Locals are assigned negative offsets from the frame pointer.
type SlotTable struct {
	slots map[VariableID]Slot

	globals map[string]VariableID // label -> id

	// Stack of local scopes.
	// Each scope maps name -> id.
	locals []map[string]VariableID

	// Next available local offset (monotonically decreasing).
	nextLocal int

	function string
	frames   map[string]int // function name -> bytes of locals

	// Enclosing functions, saved while a nested one is walked.
	outer []frameState
}

type frameState struct {
	locals    []map[string]VariableID
	nextLocal int
	function  string
}

func NewSlotTable() *SlotTable {
	return &SlotTable{
		slots:   make(map[VariableID]Slot),
		globals: make(map[string]VariableID),
		frames:  make(map[string]int),
	}
}

// AssignSlots walks elements and gives every declared variable a slot.
// Function bodies open a frame, nested expressions open scopes, and static or
// top-level variables become globals.
func AssignSlots(elements []Element) *SlotTable {
	s := NewSlotTable()
	s.walk(elements)
	return s
}

func (s *SlotTable) walk(elements []Element) {
	for _, el := range elements {
		s.visit(el)
	}
}

func (s *SlotTable) visit(el Element) {
	switch el := el.(type) {
	case *Function:
		if el.Body == nil {
			return
		}
		s.EnterFunction(el.Name)
		s.walk(el.Body.Elements)
		s.ExitFunction()
	case *Variable:
		s.Allocate(el)
	case *Expression:
		if !s.inFunction() {
			s.walk(el.Elements)
			return
		}
		s.EnterScope()
		s.walk(el.Elements)
		s.ExitScope()
	case *Operation:
		if el.Left != nil {
			s.visit(el.Left)
		}
	case *Array, *Parameters, *Assembly, *Return, *Other:
		// nothing declared
	}
}

// EnterFunction opens a frame for name. A function declared inside another
// gets its own frame, named "outer.name"; the enclosing one resumes at
// ExitFunction.
func (s *SlotTable) EnterFunction(name string) {
	if s.inFunction() {
		s.outer = append(s.outer, frameState{locals: s.locals, nextLocal: s.nextLocal, function: s.function})
		name = s.function + "." + name
	}
	// One scope for the function body.
	s.locals = []map[string]VariableID{make(map[string]VariableID)}
	s.nextLocal = 0
	s.function = name
}

func (s *SlotTable) EnterScope() {
	if len(s.locals) == 0 {
		panic("EnterScope called outside function")
	}
	s.locals = append(s.locals, make(map[string]VariableID))
}

func (s *SlotTable) ExitScope() {
	if len(s.locals) > 0 {
		s.locals = s.locals[:len(s.locals)-1]
	}
}

func (s *SlotTable) ExitFunction() {
	s.frames[s.function] = -s.nextLocal
	if n := len(s.outer); n > 0 {
		prev := s.outer[n-1]
		s.outer = s.outer[:n-1]
		s.locals, s.nextLocal, s.function = prev.locals, prev.nextLocal, prev.function
		return
	}
	s.locals = nil
	s.nextLocal = 0
	s.function = ""
}

// Allocate gives v the next free slot in the current scope. A variable that
// already has one keeps it; the second result reports that case.
func (s *SlotTable) Allocate(v *Variable) (Slot, bool) {
	if slot, ok := s.slots[v.ID]; ok {
		return slot, true
	}

	size := v.Type.Size()
	if v.Static || !s.inFunction() {
		label := v.Name
		if s.inFunction() {
			label = s.function + "." + v.Name
		}
		// Redeclared globals get a fresh label.
		base := label
		for n := 1; ; n++ {
			if _, taken := s.globals[label]; !taken {
				break
			}
			label = fmt.Sprintf("%s.%d", base, n)
		}
		slot := Slot{Name: v.Name, Label: label, Size: size, Scope: ScopeGlobal, Type: v.Type}
		s.globals[label] = v.ID
		s.slots[v.ID] = slot
		if s.inFunction() {
			s.locals[len(s.locals)-1][v.Name] = v.ID
		}
		return slot, false
	}

	// For locals (growing down):
	// Reserve 'size' bytes.
	s.nextLocal -= size
	slot := Slot{Name: v.Name, Offset: s.nextLocal, Size: size, Scope: ScopeLocal, Type: v.Type}
	s.locals[len(s.locals)-1][v.Name] = v.ID
	s.slots[v.ID] = slot
	return slot, false
}

// Lookup returns the slot of the variable with id.
func (s *SlotTable) Lookup(id VariableID) (Slot, bool) {
	slot, ok := s.slots[id]
	return slot, ok
}

// LookupName resolves name in the active scopes, innermost first, then among
// the top-level globals.
func (s *SlotTable) LookupName(name string) (Slot, bool) {
	for i := len(s.locals) - 1; i >= 0; i-- {
		if id, ok := s.locals[i][name]; ok {
			return s.slots[id], true
		}
	}
	id, ok := s.globals[name]
	if !ok {
		return Slot{}, false
	}
	return s.slots[id], true
}

// FrameSize returns the bytes of locals function needs.
func (s *SlotTable) FrameSize(function string) int {
	return s.frames[function]
}

// Len returns the number of variables with a slot.
func (s *SlotTable) Len() int {
	return len(s.slots)
}

// inFunction returns true if we are inside a function.
func (s *SlotTable) inFunction() bool {
	return len(s.locals) > 0
}

// String returns a deterministically ordered dump of the table.
func (s *SlotTable) String() string {
	var sb strings.Builder
	if len(s.globals) > 0 {
		sb.WriteString("Globals:\n")
		labels := make([]string, 0, len(s.globals))
		for label := range s.globals {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			slot := s.slots[s.globals[label]]
			fmt.Fprintf(&sb, "  %-20s  Label: %s (Size: %d, Type: %s)\n", slot.Name, slot.Label, slot.Size, slot.Type)
		}
	} else {
		sb.WriteString("Globals: (empty)\n")
	}

	var locals []Slot
	for _, slot := range s.slots {
		if slot.Scope == ScopeLocal {
			locals = append(locals, slot)
		}
	}
	if len(locals) > 0 {
		sb.WriteString("Locals:\n")
		sort.Slice(locals, func(i, j int) bool {
			if locals[i].Offset != locals[j].Offset {
				return locals[i].Offset > locals[j].Offset
			}
			return locals[i].Name < locals[j].Name
		})
		for _, slot := range locals {
			fmt.Fprintf(&sb, "  %-20s  Offset: %d (Size: %d, Type: %s)\n", slot.Name, slot.Offset, slot.Size, slot.Type)
		}
	}

	if len(s.frames) > 0 {
		sb.WriteString("Frames:\n")
		names := make([]string, 0, len(s.frames))
		for name := range s.frames {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %-20s  %d bytes\n", name, s.frames[name])
		}
	}
	return sb.String()
}
