// Package compiler is the Junon front end: a tokenizer, a syntax checker
// backed by a table of instruction shapes, and a recursive-descent parser
// producing the element tree a code generator consumes.
//
// Pipeline: Junon source → Tokenize → Check → Parse → AssignSlots
package compiler
