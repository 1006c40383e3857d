package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func mustLower(t *testing.T, ty *Type) IRType {
	t.Helper()
	lowered, err := lowerType(ty)
	be.Err(t, err, nil)
	return lowered
}

func TestLowerPrimitives(t *testing.T) {
	tests := []struct {
		ty   *Type
		want IRType
	}{
		{typeU8, irI8},
		{typeI8, irI8},
		{typeU16, irI16},
		{typeI16, irI16},
		{typeU32, irI32},
		{typeI32, irI32},
		{typeU64, irI64},
		{typeI64, irI64},
		{typeF32, irF32},
		{typeF64, irF64},
		{typeBool, irI1},
		{typeVoid, irVoid},
		// Characters are stored as their 32-bit scalar value.
		{typeChar, irI32},
		{typeUnsizedInt, irI32},
	}
	for _, test := range tests {
		be.True(t, sameIRType(mustLower(t, test.ty), test.want))
	}
}

func TestLowerPointerAndArray(t *testing.T) {
	be.Equal(t, mustLower(t, pointerTo(typeI64)).String(), "*i64")
	be.Equal(t, mustLower(t, arrayOf(typeU8, 16)).String(), "[16 x i8]")
}

func TestLowerUnsizedArrayIsFatPointer(t *testing.T) {
	lowered := mustLower(t, arrayOf(typeI32, 0))
	be.Equal(t, lowered.String(), "{i16, *i32}")
	be.True(t, sameIRType(lowered, fatPtrType(irI32)))
}

func TestLowerTuple(t *testing.T) {
	lowered := mustLower(t, tupleOf(typeI16, typeF64, pointerTo(typeBool)))
	be.Equal(t, lowered.String(), "{i16, f64, *i1}")
}

func TestLowerFunc(t *testing.T) {
	lowered := mustLower(t, funcOf(typeI32, typeI64, typeBool))
	be.Equal(t, lowered.String(), "fn(i64, i1) -> i32")
}

func TestLowerUnresolvedTypes(t *testing.T) {
	_, err := lowerType(&Type{Kind: TypeAlias, Name: "MyInt"})
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "internal error"))
	be.True(t, strings.Contains(err.Error(), "MyInt"))

	_, err = lowerType(&Type{Kind: TypeParam, Name: "T"})
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "internal error"))
}

func TestLowerNestedFailurePropagates(t *testing.T) {
	bad := &Type{Kind: TypeAlias, Name: "Opaque"}
	_, err := lowerType(pointerTo(bad))
	be.Err(t, err)
	_, err = lowerType(tupleOf(typeI32, bad))
	be.Err(t, err)
	_, err = lowerType(funcOf(bad))
	be.Err(t, err)
}
