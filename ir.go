package main

import (
	"fmt"
	"strings"
)

// The target representation produced by code generation: a module of
// globals and functions, each function an ordered list of basic blocks,
// each block a straight-line instruction sequence ending in exactly one
// terminator. The object-file backend consumes a verified Module.

// IRType is a lowered target type.
type IRType interface {
	irType()
	String() string
}

type IntType struct{ Bits int }

type FloatType struct{ Bits int }

type VoidType struct{}

type PtrType struct{ Elem IRType }

type IRArrayType struct {
	Elem IRType
	Len  uint32
}

type IRStructType struct{ Fields []IRType }

type IRFuncType struct {
	Params []IRType
	Ret    IRType
}

func (*IntType) irType()      {}
func (*FloatType) irType()    {}
func (*VoidType) irType()     {}
func (*PtrType) irType()      {}
func (*IRArrayType) irType()  {}
func (*IRStructType) irType() {}
func (*IRFuncType) irType()   {}

func (t *IntType) String() string   { return fmt.Sprintf("i%d", t.Bits) }
func (t *FloatType) String() string { return fmt.Sprintf("f%d", t.Bits) }
func (t *VoidType) String() string  { return "void" }
func (t *PtrType) String() string   { return "*" + t.Elem.String() }

func (t *IRArrayType) String() string {
	return fmt.Sprintf("[%d x %s]", t.Len, t.Elem)
}

func (t *IRStructType) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (t *IRFuncType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ") -> " + t.Ret.String()
}

// Shared primitive target types.
var (
	irI1   = &IntType{Bits: 1}
	irI8   = &IntType{Bits: 8}
	irI16  = &IntType{Bits: 16}
	irI32  = &IntType{Bits: 32}
	irI64  = &IntType{Bits: 64}
	irF32  = &FloatType{Bits: 32}
	irF64  = &FloatType{Bits: 64}
	irVoid = &VoidType{}
)

func sameIRType(a, b IRType) bool {
	switch a := a.(type) {
	case *IntType:
		b, ok := b.(*IntType)
		return ok && a.Bits == b.Bits
	case *FloatType:
		b, ok := b.(*FloatType)
		return ok && a.Bits == b.Bits
	case *VoidType:
		_, ok := b.(*VoidType)
		return ok
	case *PtrType:
		b, ok := b.(*PtrType)
		return ok && sameIRType(a.Elem, b.Elem)
	case *IRArrayType:
		b, ok := b.(*IRArrayType)
		return ok && a.Len == b.Len && sameIRType(a.Elem, b.Elem)
	case *IRStructType:
		b, ok := b.(*IRStructType)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !sameIRType(a.Fields[i], b.Fields[i]) {
				return false
			}
		}
		return true
	case *IRFuncType:
		b, ok := b.(*IRFuncType)
		if !ok || len(a.Params) != len(b.Params) || !sameIRType(a.Ret, b.Ret) {
			return false
		}
		for i := range a.Params {
			if !sameIRType(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Value is anything an instruction can consume: constants, parameters,
// globals, functions, and the results of other instructions.
type Value interface {
	Type() IRType
}

// ConstInt is an immediate integer of any bit width (bools are 1-bit
// integers).
type ConstInt struct {
	Ty  *IntType
	Val uint64
}

type ConstFloat struct {
	Ty  *FloatType
	Val float64
}

// ConstBytes is a string literal: an immediate byte array.
type ConstBytes struct {
	Data []byte
}

// Param is one function parameter.
type Param struct {
	Ty    IRType
	Name  string
	Index int
}

// Global is a module-level value. Its Type is a pointer to the stored
// element, like an alloca.
type Global struct {
	Name  string
	Elem  IRType
	Init  Value
	Const bool
}

func (c *ConstInt) Type() IRType   { return c.Ty }
func (c *ConstFloat) Type() IRType { return c.Ty }
func (c *ConstBytes) Type() IRType {
	return &IRArrayType{Elem: irI8, Len: uint32(len(c.Data))}
}
func (p *Param) Type() IRType  { return p.Ty }
func (g *Global) Type() IRType { return &PtrType{Elem: g.Elem} }

// Opcode identifies an instruction.
type Opcode int

const (
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpSDiv
	OpUDiv
	OpSRem
	OpURem
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpLShr
	OpNeg
	OpFNeg
	OpNot
	OpICmp
	OpFCmp
	OpAlloca
	OpLoad
	OpStore
	OpMember
	OpBr
	OpCondBr
	OpRet
)

var opcodeNames = [...]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpSDiv: "sdiv", OpUDiv: "udiv",
	OpSRem: "srem", OpURem: "urem", OpFAdd: "fadd", OpFSub: "fsub",
	OpFMul: "fmul", OpFDiv: "fdiv", OpFRem: "frem", OpAnd: "and", OpOr: "or",
	OpXor: "xor", OpShl: "shl", OpLShr: "lshr", OpNeg: "neg", OpFNeg: "fneg",
	OpNot: "not", OpICmp: "icmp", OpFCmp: "fcmp", OpAlloca: "alloca",
	OpLoad: "load", OpStore: "store", OpMember: "member", OpBr: "br",
	OpCondBr: "condbr", OpRet: "ret",
}

func (op Opcode) String() string { return opcodeNames[op] }

// CmpPred is the predicate of an icmp or fcmp instruction.
type CmpPred int

const (
	CmpNone CmpPred = iota
	CmpEQ
	CmpNE
	CmpSLT
	CmpSLE
	CmpSGT
	CmpSGE
	CmpULT
	CmpULE
	CmpUGT
	CmpUGE
	CmpOEQ
	CmpONE
	CmpOLT
	CmpOLE
	CmpOGT
	CmpOGE
)

var predNames = [...]string{
	CmpNone: "", CmpEQ: "eq", CmpNE: "ne", CmpSLT: "slt", CmpSLE: "sle",
	CmpSGT: "sgt", CmpSGE: "sge", CmpULT: "ult", CmpULE: "ule",
	CmpUGT: "ugt", CmpUGE: "uge", CmpOEQ: "oeq", CmpONE: "one",
	CmpOLT: "olt", CmpOLE: "ole", CmpOGT: "ogt", CmpOGE: "oge",
}

func (p CmpPred) String() string { return predNames[p] }

// Instr is one instruction. Ty is the result type (void for instructions
// that produce no value). Branch targets live in Dest/DestTrue/DestFalse
// rather than Args.
type Instr struct {
	Op        Opcode
	Ty        IRType
	Pred      CmpPred // OpICmp, OpFCmp
	Args      []Value
	Index     int    // OpMember
	Name      string // OpAlloca: the declared variable's name
	Dest      *Block // OpBr
	DestTrue  *Block // OpCondBr
	DestFalse *Block
}

func (in *Instr) Type() IRType { return in.Ty }

// IsTerminator reports whether the instruction ends a basic block.
func (in *Instr) IsTerminator() bool {
	switch in.Op {
	case OpBr, OpCondBr, OpRet:
		return true
	}
	return false
}

// Block is a basic block: straight-line instructions ending in exactly one
// terminator.
type Block struct {
	Name   string
	Parent *Func
	Instrs []*Instr
}

// Terminated reports whether the block already ends in a terminator.
func (b *Block) Terminated() bool {
	return len(b.Instrs) > 0 && b.Instrs[len(b.Instrs)-1].IsTerminator()
}

// Terminator returns the block's final instruction, or nil if the block is
// not terminated.
func (b *Block) Terminator() *Instr {
	if !b.Terminated() {
		return nil
	}
	return b.Instrs[len(b.Instrs)-1]
}

// countOps returns how many instructions in the block use the given opcode.
func (b *Block) countOps(op Opcode) int {
	n := 0
	for _, in := range b.Instrs {
		if in.Op == op {
			n++
		}
	}
	return n
}

// Func is a function under construction or finished.
type Func struct {
	Name   string
	Sig    *IRFuncType
	Params []*Param
	Blocks []*Block
}

func (f *Func) Type() IRType { return f.Sig }

// NewBlock appends a fresh, empty block to the function.
func (f *Func) NewBlock(name string) *Block {
	b := &Block{Name: name, Parent: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

// Module is the ordered set of globals and functions handed to the target
// backend.
type Module struct {
	Name    string
	Globals []*Global
	Funcs   []*Func
}

func NewModule(name string) *Module { return &Module{Name: name} }

func (m *Module) AddGlobal(g *Global) { m.Globals = append(m.Globals, g) }

// NewFunc adds a function with the given signature. paramNames must match
// the signature's parameter count.
func (m *Module) NewFunc(name string, sig *IRFuncType, paramNames []string) *Func {
	f := &Func{Name: name, Sig: sig}
	for i, ty := range sig.Params {
		pname := ""
		if i < len(paramNames) {
			pname = paramNames[i]
		}
		f.Params = append(f.Params, &Param{Ty: ty, Name: pname, Index: i})
	}
	m.Funcs = append(m.Funcs, f)
	return f
}

// Verify checks the structural invariants the backend relies on: every
// function has at least one block, every block ends in exactly one
// terminator, and no terminator appears mid-block.
func (m *Module) Verify() error {
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			return internalf("function %q has no basic blocks", f.Name)
		}
		for _, b := range f.Blocks {
			if !b.Terminated() {
				return internalf("block %q in function %q is not terminated", b.Name, f.Name)
			}
			for _, in := range b.Instrs[:len(b.Instrs)-1] {
				if in.IsTerminator() {
					return internalf("terminator in the middle of block %q in function %q",
						b.Name, f.Name)
				}
			}
		}
	}
	return nil
}

// Builder appends instructions to a basic block.
type Builder struct {
	fn    *Func
	block *Block
}

// NewBuilder positions a builder at the end of the given block.
func NewBuilder(b *Block) *Builder {
	return &Builder{fn: b.Parent, block: b}
}

// Block returns the current insertion block.
func (bd *Builder) Block() *Block { return bd.block }

// Func returns the function being built.
func (bd *Builder) Func() *Func { return bd.fn }

// SetInsert moves the insertion point to the end of block b.
func (bd *Builder) SetInsert(b *Block) { bd.block = b }

func (bd *Builder) insert(in *Instr) *Instr {
	bd.block.Instrs = append(bd.block.Instrs, in)
	return in
}

// Binary appends a two-operand instruction of result type ty.
func (bd *Builder) Binary(op Opcode, pred CmpPred, ty IRType, l, r Value) *Instr {
	return bd.insert(&Instr{Op: op, Ty: ty, Pred: pred, Args: []Value{l, r}})
}

// Unary appends a one-operand instruction of result type ty.
func (bd *Builder) Unary(op Opcode, ty IRType, v Value) *Instr {
	return bd.insert(&Instr{Op: op, Ty: ty, Args: []Value{v}})
}

// Alloca reserves a local storage slot for one value of type elem,
// yielding its address.
func (bd *Builder) Alloca(elem IRType, name string) *Instr {
	return bd.insert(&Instr{Op: OpAlloca, Ty: &PtrType{Elem: elem}, Name: name})
}

// Load reads through a pointer value.
func (bd *Builder) Load(ptr Value) *Instr {
	elem := ptr.Type().(*PtrType).Elem
	return bd.insert(&Instr{Op: OpLoad, Ty: elem, Args: []Value{ptr}})
}

// Store writes val through ptr. Stores produce no value.
func (bd *Builder) Store(val, ptr Value) *Instr {
	return bd.insert(&Instr{Op: OpStore, Ty: irVoid, Args: []Value{val, ptr}})
}

// Member yields the address of field index within the aggregate that ptr
// points to.
func (bd *Builder) Member(ptr Value, index int) *Instr {
	st := ptr.Type().(*PtrType).Elem.(*IRStructType)
	return bd.insert(&Instr{
		Op:    OpMember,
		Ty:    &PtrType{Elem: st.Fields[index]},
		Args:  []Value{ptr},
		Index: index,
	})
}

// Br appends an unconditional branch terminator.
func (bd *Builder) Br(dest *Block) *Instr {
	return bd.insert(&Instr{Op: OpBr, Ty: irVoid, Dest: dest})
}

// CondBr branches to destTrue when cond is non-zero, destFalse otherwise.
func (bd *Builder) CondBr(cond Value, destTrue, destFalse *Block) *Instr {
	return bd.insert(&Instr{
		Op: OpCondBr, Ty: irVoid, Args: []Value{cond},
		DestTrue: destTrue, DestFalse: destFalse,
	})
}

// Ret appends a return terminator. val may be nil for void returns.
func (bd *Builder) Ret(val Value) *Instr {
	in := &Instr{Op: OpRet, Ty: irVoid}
	if val != nil {
		in.Args = []Value{val}
	}
	return bd.insert(in)
}
