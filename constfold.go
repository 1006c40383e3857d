package main

import "math"

// constFolder is the valueFactory for constant mode: it evaluates operator
// applications over immediates without touching any basic block. Global
// initializers are emitted through it, so anything that needs runtime
// storage or control flow is rejected as an internal error (the checker
// guarantees global initializers are constant).
type constFolder struct{}

func (constFolder) Builder() *Builder { return nil }

func truncToBits(v uint64, bits int) uint64 {
	if bits >= 64 {
		return v
	}
	return v & (1<<uint(bits) - 1)
}

// signExtend reinterprets the low bits of v as a signed value.
func signExtend(v uint64, bits int) int64 {
	shift := uint(64 - bits)
	return int64(v<<shift) >> shift
}

func boolConst(b bool) *ConstInt {
	v := uint64(0)
	if b {
		v = 1
	}
	return &ConstInt{Ty: irI1, Val: v}
}

func (constFolder) Binary(op Opcode, pred CmpPred, ty IRType, l, r Value) (Value, error) {
	switch l := l.(type) {
	case *ConstInt:
		ri, ok := r.(*ConstInt)
		if !ok {
			return nil, internalf("mixed operand kinds in constant expression")
		}
		return foldIntBinary(op, pred, ty, l, ri)
	case *ConstFloat:
		rf, ok := r.(*ConstFloat)
		if !ok {
			return nil, internalf("mixed operand kinds in constant expression")
		}
		return foldFloatBinary(op, pred, ty, l, rf)
	default:
		return nil, internalf("non-constant operand in constant expression")
	}
}

func (constFolder) Unary(op Opcode, ty IRType, v Value) (Value, error) {
	switch v := v.(type) {
	case *ConstInt:
		switch op {
		case OpNeg:
			return &ConstInt{Ty: v.Ty, Val: truncToBits(-v.Val, v.Ty.Bits)}, nil
		case OpNot:
			return &ConstInt{Ty: v.Ty, Val: truncToBits(^v.Val, v.Ty.Bits)}, nil
		}
	case *ConstFloat:
		if op == OpFNeg {
			return &ConstFloat{Ty: v.Ty, Val: -v.Val}, nil
		}
	default:
		return nil, internalf("non-constant operand in constant expression")
	}
	return nil, internalf("operator %s cannot be constant-folded", op)
}

func foldIntBinary(op Opcode, pred CmpPred, ty IRType, l, r *ConstInt) (Value, error) {
	bits := l.Ty.Bits
	mk := func(v uint64) *ConstInt {
		return &ConstInt{Ty: l.Ty, Val: truncToBits(v, bits)}
	}
	switch op {
	case OpAdd:
		return mk(l.Val + r.Val), nil
	case OpSub:
		return mk(l.Val - r.Val), nil
	case OpMul:
		return mk(l.Val * r.Val), nil
	case OpUDiv:
		if r.Val == 0 {
			return nil, internalf("division by zero in constant expression")
		}
		return mk(l.Val / r.Val), nil
	case OpSDiv:
		if r.Val == 0 {
			return nil, internalf("division by zero in constant expression")
		}
		return mk(uint64(signExtend(l.Val, bits) / signExtend(r.Val, bits))), nil
	case OpURem:
		if r.Val == 0 {
			return nil, internalf("division by zero in constant expression")
		}
		return mk(l.Val % r.Val), nil
	case OpSRem:
		if r.Val == 0 {
			return nil, internalf("division by zero in constant expression")
		}
		return mk(uint64(signExtend(l.Val, bits) % signExtend(r.Val, bits))), nil
	case OpAnd:
		return mk(l.Val & r.Val), nil
	case OpOr:
		return mk(l.Val | r.Val), nil
	case OpXor:
		return mk(l.Val ^ r.Val), nil
	case OpShl:
		if r.Val >= 64 {
			return mk(0), nil
		}
		return mk(l.Val << r.Val), nil
	case OpLShr:
		if r.Val >= 64 {
			return mk(0), nil
		}
		return mk(l.Val >> r.Val), nil
	case OpICmp:
		return foldICmp(pred, bits, l.Val, r.Val)
	default:
		return nil, internalf("operator %s cannot be constant-folded", op)
	}
}

func foldICmp(pred CmpPred, bits int, l, r uint64) (Value, error) {
	ls, rs := signExtend(l, bits), signExtend(r, bits)
	switch pred {
	case CmpEQ:
		return boolConst(l == r), nil
	case CmpNE:
		return boolConst(l != r), nil
	case CmpULT:
		return boolConst(l < r), nil
	case CmpULE:
		return boolConst(l <= r), nil
	case CmpUGT:
		return boolConst(l > r), nil
	case CmpUGE:
		return boolConst(l >= r), nil
	case CmpSLT:
		return boolConst(ls < rs), nil
	case CmpSLE:
		return boolConst(ls <= rs), nil
	case CmpSGT:
		return boolConst(ls > rs), nil
	case CmpSGE:
		return boolConst(ls >= rs), nil
	default:
		return nil, internalf("bad integer comparison predicate %d", pred)
	}
}

func foldFloatBinary(op Opcode, pred CmpPred, ty IRType, l, r *ConstFloat) (Value, error) {
	mk := func(v float64) *ConstFloat { return &ConstFloat{Ty: l.Ty, Val: v} }
	switch op {
	case OpFAdd:
		return mk(l.Val + r.Val), nil
	case OpFSub:
		return mk(l.Val - r.Val), nil
	case OpFMul:
		return mk(l.Val * r.Val), nil
	case OpFDiv:
		return mk(l.Val / r.Val), nil
	case OpFRem:
		return mk(math.Mod(l.Val, r.Val)), nil
	case OpFCmp:
		// Ordered comparisons: false whenever an operand is NaN, which is
		// how Go's comparison operators already behave.
		switch pred {
		case CmpOEQ:
			return boolConst(l.Val == r.Val), nil
		case CmpONE:
			return boolConst(l.Val != r.Val && l.Val == l.Val && r.Val == r.Val), nil
		case CmpOLT:
			return boolConst(l.Val < r.Val), nil
		case CmpOLE:
			return boolConst(l.Val <= r.Val), nil
		case CmpOGT:
			return boolConst(l.Val > r.Val), nil
		case CmpOGE:
			return boolConst(l.Val >= r.Val), nil
		default:
			return nil, internalf("bad float comparison predicate %d", pred)
		}
	default:
		return nil, internalf("operator %s cannot be constant-folded", op)
	}
}
