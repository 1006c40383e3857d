package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func foldBinary(t *testing.T, op Opcode, pred CmpPred, ty IRType, l, r Value) Value {
	t.Helper()
	v, err := constFolder{}.Binary(op, pred, ty, l, r)
	be.Err(t, err, nil)
	return v
}

func ci(ty *IntType, val uint64) *ConstInt { return &ConstInt{Ty: ty, Val: val} }

func cf(ty *FloatType, val float64) *ConstFloat { return &ConstFloat{Ty: ty, Val: val} }

func TestFoldIntArithmetic(t *testing.T) {
	tests := []struct {
		op   Opcode
		ty   *IntType
		l, r uint64
		want uint64
	}{
		{OpAdd, irI32, 2, 3, 5},
		{OpSub, irI32, 3, 5, 0xFFFFFFFE}, // wraps at width
		{OpMul, irI32, 6, 7, 42},
		{OpAdd, irI8, 200, 100, 44}, // wraps at 8 bits
		{OpUDiv, irI32, 7, 2, 3},
		{OpURem, irI32, 7, 2, 1},
		{OpAnd, irI32, 0b1100, 0b1010, 0b1000},
		{OpOr, irI32, 0b1100, 0b1010, 0b1110},
		{OpXor, irI32, 0b1100, 0b1010, 0b0110},
		{OpShl, irI32, 1, 4, 16},
		{OpLShr, irI32, 16, 4, 1},
	}
	for _, test := range tests {
		v := foldBinary(t, test.op, CmpNone, test.ty, ci(test.ty, test.l), ci(test.ty, test.r))
		got, ok := v.(*ConstInt)
		be.True(t, ok)
		be.Equal(t, got.Val, test.want)
		be.Equal(t, got.Ty.Bits, test.ty.Bits)
	}
}

func TestFoldSignedDivision(t *testing.T) {
	minusSix := truncToBits(uint64(1<<32)-6, 32) // -6 as i32
	v := foldBinary(t, OpSDiv, CmpNone, irI32, ci(irI32, minusSix), ci(irI32, 2))
	got := v.(*ConstInt)
	be.Equal(t, got.Val, truncToBits(uint64(1<<32)-3, 32)) // -3
}

func TestFoldDivisionByZero(t *testing.T) {
	for _, op := range []Opcode{OpSDiv, OpUDiv, OpSRem, OpURem} {
		_, err := constFolder{}.Binary(op, CmpNone, irI32, ci(irI32, 1), ci(irI32, 0))
		be.Err(t, err)
	}
}

func TestFoldIntCompare(t *testing.T) {
	minusOne := ci(irI32, 0xFFFFFFFF)
	one := ci(irI32, 1)

	// Signed: -1 < 1.
	v := foldBinary(t, OpICmp, CmpSLT, irI1, minusOne, one)
	be.Equal(t, v.(*ConstInt).Val, 1)
	be.Equal(t, v.(*ConstInt).Ty.Bits, 1)

	// Unsigned: 0xFFFFFFFF is the largest i32.
	v = foldBinary(t, OpICmp, CmpULT, irI1, minusOne, one)
	be.Equal(t, v.(*ConstInt).Val, 0)

	v = foldBinary(t, OpICmp, CmpEQ, irI1, one, one)
	be.Equal(t, v.(*ConstInt).Val, 1)
	v = foldBinary(t, OpICmp, CmpNE, irI1, one, one)
	be.Equal(t, v.(*ConstInt).Val, 0)
}

func TestFoldFloatArithmetic(t *testing.T) {
	v := foldBinary(t, OpFAdd, CmpNone, irF64, cf(irF64, 1.5), cf(irF64, 2.25))
	be.Equal(t, v.(*ConstFloat).Val, 3.75)

	v = foldBinary(t, OpFDiv, CmpNone, irF64, cf(irF64, 1), cf(irF64, 2))
	be.Equal(t, v.(*ConstFloat).Val, 0.5)

	v = foldBinary(t, OpFRem, CmpNone, irF64, cf(irF64, 7.5), cf(irF64, 2))
	be.Equal(t, v.(*ConstFloat).Val, 1.5)
}

func TestFoldFloatCompare(t *testing.T) {
	v := foldBinary(t, OpFCmp, CmpOLT, irI1, cf(irF64, 1), cf(irF64, 2))
	be.Equal(t, v.(*ConstInt).Val, 1)
	v = foldBinary(t, OpFCmp, CmpOGE, irI1, cf(irF64, 1), cf(irF64, 2))
	be.Equal(t, v.(*ConstInt).Val, 0)
}

func TestFoldUnary(t *testing.T) {
	v, err := constFolder{}.Unary(OpNeg, irI32, ci(irI32, 5))
	be.Err(t, err, nil)
	be.Equal(t, v.(*ConstInt).Val, 0xFFFFFFFB) // -5 at 32 bits

	v, err = constFolder{}.Unary(OpNot, irI8, ci(irI8, 0b1010))
	be.Err(t, err, nil)
	be.Equal(t, v.(*ConstInt).Val, 0b11110101)

	v, err = constFolder{}.Unary(OpFNeg, irF64, cf(irF64, 1.5))
	be.Err(t, err, nil)
	be.Equal(t, v.(*ConstFloat).Val, -1.5)
}

func TestFoldRejectsMixedOperands(t *testing.T) {
	_, err := constFolder{}.Binary(OpAdd, CmpNone, irI32, ci(irI32, 1), cf(irF64, 1))
	be.Err(t, err)
}

func TestFoldHasNoBuilder(t *testing.T) {
	be.True(t, constFolder{}.Builder() == nil)
}

func TestTruncAndExtend(t *testing.T) {
	be.Equal(t, truncToBits(0x1FF, 8), 0xFF)
	be.Equal(t, truncToBits(0x1FF, 64), 0x1FF)
	// Sign extension recovers the arithmetic value of a narrow negative.
	be.Equal(t, signExtend(0xFF, 8), int64(-1))
	be.Equal(t, signExtend(0x7F, 8), int64(127))
}
