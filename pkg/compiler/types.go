package compiler

import "fmt"

// TypeKind says which of the Type variants a Type holds.
type TypeKind int

const (
	TypeNone    TypeKind = iota // no annotation present
	TypeBuiltin                 // one of the scalar names in builtinSizes
	TypeUser                    // an unrecognized name, passed through
	TypeArray                   // Elem[Len]
)

// builtinSizes maps every builtin scalar name to its size in bytes.
var builtinSizes = map[string]int{
	"int":   8,
	"uint":  8,
	"i8":    1,
	"i16":   2,
	"i32":   4,
	"i64":   8,
	"u8":    1,
	"u16":   2,
	"u32":   4,
	"u64":   8,
	"float": 8,
	"f32":   4,
	"f64":   8,
	"bool":  1,
	"char":  1,
	"str":   8, // pointer to the characters
}

// wordSize is the size assumed for user-defined types.
const wordSize = 8

// Type is the resolved form of a type annotation.
//
//	let a: int        Type{Kind: TypeBuiltin, Name: "int"}
//	let p: Point      Type{Kind: TypeUser, Name: "Point"}
//	let b: u8[4]      Type{Kind: TypeArray, Elem: &Type{TypeBuiltin, "u8"}, Len: 4}
type Type struct {
	Kind TypeKind
	Name string
	Elem *Type
	Len  uint64
}

// NoType is the type of a declaration without annotation.
var NoType = Type{Kind: TypeNone}

// ParseType resolves a type name.
func ParseType(name string) Type {
	if _, ok := builtinSizes[name]; ok {
		return Type{Kind: TypeBuiltin, Name: name}
	}
	return Type{Kind: TypeUser, Name: name}
}

// ArrayOf returns the type of n consecutive elem values.
func ArrayOf(elem Type, n uint64) Type {
	return Type{Kind: TypeArray, Name: elem.Name, Elem: &elem, Len: n}
}

// Size returns the storage size in bytes. An unannotated value takes a word.
func (t Type) Size() int {
	switch t.Kind {
	case TypeBuiltin:
		return builtinSizes[t.Name]
	case TypeArray:
		return t.Elem.Size() * int(t.Len)
	default:
		return wordSize
	}
}

func (t Type) String() string {
	switch t.Kind {
	case TypeNone:
		return "none"
	case TypeArray:
		return fmt.Sprintf("%s[%d]", t.Elem, t.Len)
	default:
		return t.Name
	}
}
