package main

// Code generation lowers the checked AST into a target Module. Expressions
// are emitted through a valueFactory so the same lowering logic serves both
// emission modes: global initializers fold to immediate constants, function
// bodies append instructions to the current basic block.

type codegen struct {
	mod  *Module
	syms *SymbolTable
}

// Generate lowers a checked program (an ordered list of top-level
// declarations) into a target module named moduleName.
func Generate(decls []*Decl, moduleName string) (*Module, error) {
	cg := &codegen{mod: NewModule(moduleName), syms: NewSymbolTable()}
	cg.syms.Enter() // global scope
	defer cg.syms.Leave()
	for _, d := range decls {
		if err := cg.emitDecl(d); err != nil {
			return nil, err
		}
	}
	return cg.mod, nil
}

// valueFactory abstracts where computed values come from. The constant
// folder produces immediates and refuses anything that needs a block; the
// block builder appends instructions at the current insertion point.
type valueFactory interface {
	Binary(op Opcode, pred CmpPred, ty IRType, l, r Value) (Value, error)
	Unary(op Opcode, ty IRType, v Value) (Value, error)
	// Builder returns the active instruction builder, or nil in constant
	// mode.
	Builder() *Builder
}

type blockBuilder struct{ bd *Builder }

func (b blockBuilder) Builder() *Builder { return b.bd }

func (b blockBuilder) Binary(op Opcode, pred CmpPred, ty IRType, l, r Value) (Value, error) {
	return b.bd.Binary(op, pred, ty, l, r), nil
}

func (b blockBuilder) Unary(op Opcode, ty IRType, v Value) (Value, error) {
	return b.bd.Unary(op, ty, v), nil
}

// Declarations

func (cg *codegen) emitDecl(d *Decl) error {
	switch d.Type.Kind {
	case TypeUnsizedInt, TypeVoid:
		// The checker rejects these before we run.
		return internalf("global %q has type %s", d.Name, d.Type)
	case TypeFunc:
		return cg.emitFunc(d)
	default:
		return cg.emitGlobal(d)
	}
}

func (cg *codegen) emitGlobal(d *Decl) error {
	elem, err := lowerType(d.Type)
	if err != nil {
		return err
	}
	if d.Init == nil {
		return internalf("global %q has no initializer", d.Name)
	}
	init, err := cg.emitExpr(constFolder{}, d.Init)
	if err != nil {
		return err
	}
	g := &Global{Name: d.Name, Elem: elem, Init: init, Const: d.IsConst}
	cg.mod.AddGlobal(g)
	if err := cg.syms.Insert(d.Name, g, true); err != nil {
		return internalf("%s", err)
	}
	return nil
}

func (cg *codegen) emitFunc(d *Decl) error {
	lam, ok := d.Init.(*LambdaExpr)
	if !ok {
		return internalf("function %q is not initialized with a lambda", d.Name)
	}
	sigTy, err := lowerType(d.Type)
	if err != nil {
		return err
	}
	sig := sigTy.(*IRFuncType)
	fn := cg.mod.NewFunc(d.Name, sig, lam.Params)
	if err := cg.syms.Insert(d.Name, fn, false); err != nil {
		return internalf("%s", err)
	}
	bd := NewBuilder(fn.NewBlock(d.Name))

	cg.syms.Enter()
	defer cg.syms.Leave()
	for _, p := range fn.Params {
		if err := cg.syms.Insert(p.Name, p, false); err != nil {
			return internalf("%s", err)
		}
	}
	ret, err := cg.emitExpr(blockBuilder{bd}, lam.Body)
	if err != nil {
		return err
	}
	// The body's trailing value becomes the function's return value.
	if _, void := sig.Ret.(*VoidType); void {
		bd.Ret(nil)
	} else {
		if ret == nil {
			return internalf("body of function %q yields no value", d.Name)
		}
		bd.Ret(ret)
	}
	return nil
}

// Statements

func (cg *codegen) emitStmts(bd *Builder, stmts []Stmt) error {
	for _, s := range stmts {
		if err := cg.emitStmt(bd, s); err != nil {
			return err
		}
	}
	return nil
}

func (cg *codegen) emitStmt(bd *Builder, s Stmt) error {
	switch s := s.(type) {
	case *DeclStmt:
		return cg.emitLocal(bd, s.D)
	case *ExprStmt:
		_, err := cg.emitExpr(blockBuilder{bd}, s.E)
		return err
	case *IfStmt:
		return cg.emitIf(bd, s)
	case *DoStmt:
		return cg.emitDo(bd, s)
	case *WhileStmt:
		return cg.emitWhile(bd, s)
	case *ForStmt:
		return internalf("for statements are not supported yet")
	default:
		return internalf("unknown statement kind %T", s)
	}
}

func (cg *codegen) emitLocal(bd *Builder, d *Decl) error {
	ty, err := lowerType(d.Type)
	if err != nil {
		return err
	}
	ptr := bd.Alloca(ty, d.Name)
	if d.Init != nil {
		val, err := cg.emitExpr(blockBuilder{bd}, d.Init)
		if err != nil {
			return err
		}
		bd.Store(val, ptr)
	}
	if err := cg.syms.Insert(d.Name, ptr, true); err != nil {
		return internalf("%s", err)
	}
	return nil
}

// emitIf lowers an if statement into then/else/merge blocks. Both branches
// are built even when the source else branch is empty, so every path
// branches into the merge block.
func (cg *codegen) emitIf(bd *Builder, s *IfStmt) error {
	cond, err := cg.emitExpr(blockBuilder{bd}, s.Cond)
	if err != nil {
		return err
	}
	fn := bd.Func()
	thenBlock := fn.NewBlock("then")
	elseBlock := fn.NewBlock("else")
	mergeBlock := fn.NewBlock("merge")
	bd.CondBr(cond, thenBlock, elseBlock)

	bd.SetInsert(thenBlock)
	if err := cg.emitStmts(bd, s.Then); err != nil {
		return err
	}
	bd.Br(mergeBlock)

	bd.SetInsert(elseBlock)
	if err := cg.emitStmts(bd, s.Else); err != nil {
		return err
	}
	bd.Br(mergeBlock)

	bd.SetInsert(mergeBlock)
	return nil
}

// emitDo lowers a post-test loop: the body block runs once unconditionally,
// then the condition (evaluated at the end of the body on every iteration)
// either repeats the body or falls through.
func (cg *codegen) emitDo(bd *Builder, s *DoStmt) error {
	fn := bd.Func()
	body := fn.NewBlock("do")
	after := fn.NewBlock("after_do")
	bd.Br(body)

	bd.SetInsert(body)
	if err := cg.emitStmts(bd, s.Body); err != nil {
		return err
	}
	cond, err := cg.emitExpr(blockBuilder{bd}, s.Cond)
	if err != nil {
		return err
	}
	bd.CondBr(cond, body, after)

	bd.SetInsert(after)
	return nil
}

// emitWhile is the pre-test counterpart of emitDo: a header block
// re-evaluates the condition before every iteration.
func (cg *codegen) emitWhile(bd *Builder, s *WhileStmt) error {
	fn := bd.Func()
	header := fn.NewBlock("while")
	body := fn.NewBlock("while_body")
	after := fn.NewBlock("after_while")
	bd.Br(header)

	bd.SetInsert(header)
	cond, err := cg.emitExpr(blockBuilder{bd}, s.Cond)
	if err != nil {
		return err
	}
	bd.CondBr(cond, body, after)

	bd.SetInsert(body)
	if err := cg.emitStmts(bd, s.Body); err != nil {
		return err
	}
	bd.Br(header)

	bd.SetInsert(after)
	return nil
}

// Expressions

func (cg *codegen) emitExpr(f valueFactory, e Expr) (Value, error) {
	ty, err := lowerType(e.ExprType())
	if err != nil {
		return nil, err
	}
	switch e := e.(type) {
	case *BoolLit:
		val := uint64(0)
		if e.Val {
			val = 1
		}
		return constIntOf(ty, val)
	case *IntLit:
		return constIntOf(ty, e.Val)
	case *CharLit:
		return constIntOf(ty, uint64(e.Val))
	case *FloatLit:
		fty, ok := ty.(*FloatType)
		if !ok {
			return nil, internalf("float literal with non-float type %s", ty)
		}
		return &ConstFloat{Ty: fty, Val: e.Val}, nil
	case *StringLit:
		return &ConstBytes{Data: e.Val}, nil
	case *IdentExpr:
		return cg.emitIdent(f, e)
	case *UnaryExpr:
		return cg.emitUnary(f, e, ty)
	case *BinaryExpr:
		return cg.emitBinary(f, e, ty)
	case *FieldExpr:
		addr, err := cg.emitAddr(f, e)
		if err != nil {
			return nil, err
		}
		bd := f.Builder()
		if bd == nil {
			return nil, internalf("member access in constant expression")
		}
		return bd.Load(addr), nil
	case *BlockExpr:
		return cg.emitBlock(f, e)
	case *LambdaExpr:
		return nil, internalf("lambda expressions as values are not supported yet")
	case *IfExpr:
		return nil, internalf("if expressions are not supported yet")
	case *SwitchExpr:
		return nil, internalf("switch expressions are not supported yet")
	case *TupleExpr:
		return nil, internalf("tuple expressions are not supported yet")
	case *ArrayLitExpr:
		return nil, internalf("array literal expressions are not supported yet")
	default:
		return nil, internalf("unknown expression kind %T", e)
	}
}

func constIntOf(ty IRType, val uint64) (Value, error) {
	ity, ok := ty.(*IntType)
	if !ok {
		return nil, internalf("integer literal with non-integer type %s", ty)
	}
	return &ConstInt{Ty: ity, Val: truncToBits(val, ity.Bits)}, nil
}

// emitAddr emits an addressable expression as its storage location. Only
// identifiers bound to storage, dereferences, and tuple member accesses
// denote storage.
func (cg *codegen) emitAddr(f valueFactory, e Expr) (Value, error) {
	switch e := e.(type) {
	case *IdentExpr:
		sym := cg.syms.Lookup(e.Name)
		if sym == nil {
			return nil, internalf("undefined identifier %q", e.Name)
		}
		if !sym.Addressable {
			return nil, internalf("%q does not denote a storage location", e.Name)
		}
		return sym.Val, nil
	case *UnaryExpr:
		if e.Op != UnDeref {
			return nil, internalf("unary expression is not addressable")
		}
		// The pointer value being dereferenced is the address.
		return cg.emitExpr(f, e.Operand)
	case *FieldExpr:
		base, err := cg.emitAddr(f, e.Tuple)
		if err != nil {
			return nil, err
		}
		bd := f.Builder()
		if bd == nil {
			return nil, internalf("member access in constant expression")
		}
		return bd.Member(base, e.Index), nil
	default:
		return nil, internalf("expression of kind %T is not addressable", e)
	}
}

func (cg *codegen) emitIdent(f valueFactory, e *IdentExpr) (Value, error) {
	sym := cg.syms.Lookup(e.Name)
	if sym == nil {
		return nil, internalf("undefined identifier %q", e.Name)
	}
	if !sym.Addressable {
		return sym.Val, nil
	}
	bd := f.Builder()
	if bd == nil {
		return nil, internalf("identifier %q in constant expression", e.Name)
	}
	return bd.Load(sym.Val), nil
}

func (cg *codegen) emitUnary(f valueFactory, e *UnaryExpr, ty IRType) (Value, error) {
	switch e.Op {
	case UnPreInc, UnPostInc, UnPreDec, UnPostDec:
		return cg.emitIncDec(f, e, ty)
	case UnDeref:
		ptr, err := cg.emitExpr(f, e.Operand)
		if err != nil {
			return nil, err
		}
		bd := f.Builder()
		if bd == nil {
			return nil, internalf("dereference in constant expression")
		}
		return bd.Load(ptr), nil
	case UnAddr:
		// Address-of forwards the operand's already-computed storage
		// location.
		return cg.emitAddr(f, e.Operand)
	case UnNeg:
		operand, err := cg.emitExpr(f, e.Operand)
		if err != nil {
			return nil, err
		}
		op := OpNeg
		if e.ExprType().IsFloat() {
			op = OpFNeg
		}
		return f.Unary(op, ty, operand)
	case UnBitNot:
		operand, err := cg.emitExpr(f, e.Operand)
		if err != nil {
			return nil, err
		}
		return f.Unary(OpNot, ty, operand)
	case UnLogNot:
		// Logical complement is equality with zero.
		operand, err := cg.emitExpr(f, e.Operand)
		if err != nil {
			return nil, err
		}
		zeroTy, err := lowerType(e.Operand.ExprType())
		if err != nil {
			return nil, err
		}
		zero, err := constIntOf(zeroTy, 0)
		if err != nil {
			return nil, err
		}
		return f.Binary(OpICmp, CmpEQ, irI1, operand, zero)
	default:
		return nil, internalf("unknown unary operator %d", e.Op)
	}
}

// emitIncDec lowers ++ and -- as a read-modify-write on the operand's
// storage. These are runtime operations only, never folded.
func (cg *codegen) emitIncDec(f valueFactory, e *UnaryExpr, ty IRType) (Value, error) {
	bd := f.Builder()
	if bd == nil {
		return nil, internalf("increment or decrement in constant expression")
	}
	ptr, err := cg.emitAddr(f, e.Operand)
	if err != nil {
		return nil, err
	}
	one, err := constIntOf(ty, 1)
	if err != nil {
		return nil, err
	}
	old := bd.Load(ptr)
	op := OpAdd
	if e.Op == UnPreDec || e.Op == UnPostDec {
		op = OpSub
	}
	updated := bd.Binary(op, CmpNone, ty, old, one)
	bd.Store(updated, ptr)
	if e.Op == UnPreInc || e.Op == UnPreDec {
		return updated, nil
	}
	return old, nil
}

func isCmpOp(op BinOp) bool {
	switch op {
	case BinLt, BinGt, BinLe, BinGe, BinEq, BinNe:
		return true
	}
	return false
}

// arithOpcode selects the instruction family for a binary operator based on
// the governing source type: float types get float instructions, unsigned
// integers get the unsigned variants, everything else the signed variants.
// Logical and bitwise and/or share one instruction since the checker has
// already reduced logical operands to single-bit integers.
func arithOpcode(op BinOp, t *Type) (Opcode, CmpPred, error) {
	isFloat := t.IsFloat()
	isUnsigned := t.IsUnsignedInt()
	pick := func(f, u, s Opcode) Opcode {
		if isFloat {
			return f
		}
		if isUnsigned {
			return u
		}
		return s
	}
	cmp := func(o, u, s CmpPred) (Opcode, CmpPred, error) {
		if isFloat {
			return OpFCmp, o, nil
		}
		if isUnsigned {
			return OpICmp, u, nil
		}
		return OpICmp, s, nil
	}
	switch op {
	case BinAdd, BinAddAssign:
		return pick(OpFAdd, OpAdd, OpAdd), CmpNone, nil
	case BinSub, BinSubAssign:
		return pick(OpFSub, OpSub, OpSub), CmpNone, nil
	case BinMul, BinMulAssign:
		return pick(OpFMul, OpMul, OpMul), CmpNone, nil
	case BinDiv, BinDivAssign:
		return pick(OpFDiv, OpUDiv, OpSDiv), CmpNone, nil
	case BinMod, BinModAssign:
		return pick(OpFRem, OpURem, OpSRem), CmpNone, nil
	case BinBitAnd, BinLogAnd, BinAndAssign:
		return OpAnd, CmpNone, nil
	case BinBitOr, BinLogOr, BinOrAssign:
		return OpOr, CmpNone, nil
	case BinXor, BinXorAssign:
		return OpXor, CmpNone, nil
	case BinShl, BinShlAssign:
		return OpShl, CmpNone, nil
	case BinShr, BinShrAssign:
		return OpLShr, CmpNone, nil
	case BinLt:
		return cmp(CmpOLT, CmpULT, CmpSLT)
	case BinGt:
		return cmp(CmpOGT, CmpUGT, CmpSGT)
	case BinLe:
		return cmp(CmpOLE, CmpULE, CmpSLE)
	case BinGe:
		return cmp(CmpOGE, CmpUGE, CmpSGE)
	case BinEq:
		if isFloat {
			return OpFCmp, CmpOEQ, nil
		}
		return OpICmp, CmpEQ, nil
	case BinNe:
		if isFloat {
			return OpFCmp, CmpONE, nil
		}
		return OpICmp, CmpNE, nil
	default:
		return 0, CmpNone, internalf("unknown binary operator %d", op)
	}
}

func (cg *codegen) emitBinary(f valueFactory, e *BinaryExpr, ty IRType) (Value, error) {
	if isAssignOp(e.Op) {
		return cg.emitAssign(f, e, ty)
	}
	l, err := cg.emitExpr(f, e.L)
	if err != nil {
		return nil, err
	}
	r, err := cg.emitExpr(f, e.R)
	if err != nil {
		return nil, err
	}
	// Comparisons are typed by their operands; the expression itself is
	// bool.
	govType := e.ExprType()
	if isCmpOp(e.Op) {
		govType = e.L.ExprType()
	}
	op, pred, err := arithOpcode(e.Op, govType)
	if err != nil {
		return nil, err
	}
	return f.Binary(op, pred, ty, l, r)
}

// emitAssign lowers plain and compound assignment. The left operand's
// address is computed exactly once; compound forms are a single
// read-modify-write through it.
func (cg *codegen) emitAssign(f valueFactory, e *BinaryExpr, ty IRType) (Value, error) {
	bd := f.Builder()
	if bd == nil {
		return nil, internalf("assignment in constant expression")
	}
	addr, err := cg.emitAddr(f, e.L)
	if err != nil {
		return nil, err
	}
	r, err := cg.emitExpr(f, e.R)
	if err != nil {
		return nil, err
	}
	if e.Op == BinAssign {
		bd.Store(r, addr)
		return r, nil
	}
	old := bd.Load(addr)
	op, pred, err := arithOpcode(e.Op, e.ExprType())
	if err != nil {
		return nil, err
	}
	updated := bd.Binary(op, pred, ty, old, r)
	bd.Store(updated, addr)
	return updated, nil
}

func (cg *codegen) emitBlock(f valueFactory, e *BlockExpr) (Value, error) {
	bd := f.Builder()
	if bd == nil {
		return nil, internalf("block expression in constant expression")
	}
	cg.syms.Enter()
	defer cg.syms.Leave()
	if err := cg.emitStmts(bd, e.Stmts); err != nil {
		return nil, err
	}
	if e.Value == nil {
		return nil, nil
	}
	return cg.emitExpr(f, e.Value)
}
