package main

import (
	"fmt"
	"strings"
)

// TypeKind discriminates the source-language type representation.
type TypeKind int

const (
	TypeUnsizedInt TypeKind = iota
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeF32
	TypeF64
	TypeBool
	TypeVoid
	TypeChar
	TypePointer
	TypeArray
	TypeTuple
	TypeAlias
	TypeParam
	TypeFunc
)

// Type is a resolved source-language type as produced by the semantic
// checker. Alias and type-parameter kinds may still appear unresolved; every
// other kind is fully concrete by the time code generation sees it.
type Type struct {
	Kind    TypeKind
	Elem    *Type   // TypePointer, TypeArray
	Len     uint32  // TypeArray; zero means unsized
	Members []*Type // TypeTuple
	Params  []*Type // TypeFunc
	Ret     *Type   // TypeFunc
	Name    string  // TypeAlias, TypeParam
}

// Shared singletons for the primitive types.
var (
	typeUnsizedInt = &Type{Kind: TypeUnsizedInt}
	typeU8         = &Type{Kind: TypeU8}
	typeU16        = &Type{Kind: TypeU16}
	typeU32        = &Type{Kind: TypeU32}
	typeU64        = &Type{Kind: TypeU64}
	typeI8         = &Type{Kind: TypeI8}
	typeI16        = &Type{Kind: TypeI16}
	typeI32        = &Type{Kind: TypeI32}
	typeI64        = &Type{Kind: TypeI64}
	typeF32        = &Type{Kind: TypeF32}
	typeF64        = &Type{Kind: TypeF64}
	typeBool       = &Type{Kind: TypeBool}
	typeVoid       = &Type{Kind: TypeVoid}
	typeChar       = &Type{Kind: TypeChar}
)

func pointerTo(elem *Type) *Type { return &Type{Kind: TypePointer, Elem: elem} }

func arrayOf(elem *Type, n uint32) *Type { return &Type{Kind: TypeArray, Elem: elem, Len: n} }

func tupleOf(members ...*Type) *Type { return &Type{Kind: TypeTuple, Members: members} }

func funcOf(ret *Type, params ...*Type) *Type {
	return &Type{Kind: TypeFunc, Params: params, Ret: ret}
}

// IsFloat reports whether t is one of the two float types.
func (t *Type) IsFloat() bool {
	return t.Kind == TypeF32 || t.Kind == TypeF64
}

// IsUnsignedInt reports whether t is a sized unsigned integer. The unsized
// integer counts as signed.
func (t *Type) IsUnsignedInt() bool {
	switch t.Kind {
	case TypeU8, TypeU16, TypeU32, TypeU64:
		return true
	}
	return false
}

func (t *Type) IsSignedInt() bool {
	switch t.Kind {
	case TypeUnsizedInt, TypeI8, TypeI16, TypeI32, TypeI64:
		return true
	}
	return false
}

func (t *Type) String() string {
	switch t.Kind {
	case TypeUnsizedInt:
		return "int"
	case TypeU8:
		return "U8"
	case TypeU16:
		return "U16"
	case TypeU32:
		return "U32"
	case TypeU64:
		return "U64"
	case TypeI8:
		return "I8"
	case TypeI16:
		return "I16"
	case TypeI32:
		return "I32"
	case TypeI64:
		return "I64"
	case TypeF32:
		return "F32"
	case TypeF64:
		return "F64"
	case TypeBool:
		return "bool"
	case TypeVoid:
		return "void"
	case TypeChar:
		return "char"
	case TypePointer:
		return "*" + t.Elem.String()
	case TypeArray:
		if t.Len == 0 {
			return "[]" + t.Elem.String()
		}
		return fmt.Sprintf("[%d]%s", t.Len, t.Elem)
	case TypeTuple:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case TypeAlias, TypeParam:
		return t.Name
	case TypeFunc:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + t.Ret.String()
	default:
		return fmt.Sprintf("Type(%d)", t.Kind)
	}
}
