package main

// The AST consumed by code generation. It is produced upstream by the
// parser and semantic checker; every expression node arrives here carrying
// its resolved type, and code generation only reads the tree.

// Expr is a type-checked expression node.
type Expr interface {
	ExprType() *Type
	exprNode()
}

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	UnNeg UnaryOp = iota
	UnPreInc
	UnPostInc
	UnPreDec
	UnPostDec
	UnDeref
	UnAddr
	UnBitNot
	UnLogNot
)

// BinOp enumerates the binary operators, including the assignment forms.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinLt
	BinGt
	BinLe
	BinGe
	BinEq
	BinNe
	BinBitAnd
	BinLogAnd
	BinBitOr
	BinLogOr
	BinXor
	BinShl
	BinShr
	BinAssign
	BinAddAssign
	BinSubAssign
	BinMulAssign
	BinDivAssign
	BinModAssign
	BinAndAssign
	BinOrAssign
	BinXorAssign
	BinShlAssign
	BinShrAssign
)

// isAssignOp reports whether op stores into its left operand.
func isAssignOp(op BinOp) bool {
	return op >= BinAssign && op <= BinShrAssign
}

type BoolLit struct {
	T   *Type
	Val bool
}

type IntLit struct {
	T   *Type
	Val uint64
}

type FloatLit struct {
	T   *Type
	Val float64
}

type CharLit struct {
	T   *Type
	Val rune
}

type StringLit struct {
	T   *Type
	Val []byte
}

type IdentExpr struct {
	T    *Type
	Name string
}

type UnaryExpr struct {
	T       *Type
	Op      UnaryOp
	Operand Expr
}

type BinaryExpr struct {
	T    *Type
	Op   BinOp
	L, R Expr
}

// FieldExpr selects one member of a tuple by its compile-time index.
type FieldExpr struct {
	T     *Type
	Tuple Expr
	Index int
}

// LambdaExpr is a function literal. At the top level it provides a
// function declaration's parameters and body.
type LambdaExpr struct {
	T      *Type // TypeFunc
	Params []string
	Body   Expr
}

// BlockExpr is a statement sequence evaluated in its own scope, yielding
// the value of its trailing expression (nil for void blocks).
type BlockExpr struct {
	T     *Type
	Stmts []Stmt
	Value Expr
}

type IfExpr struct {
	T          *Type
	Cond       Expr
	Then, Else Expr
}

type SwitchExpr struct {
	T       *Type
	Subject Expr
	Cases   []Expr
}

type TupleExpr struct {
	T     *Type
	Items []Expr
}

type ArrayLitExpr struct {
	T     *Type
	Items []Expr
}

func (e *BoolLit) ExprType() *Type      { return e.T }
func (e *IntLit) ExprType() *Type       { return e.T }
func (e *FloatLit) ExprType() *Type     { return e.T }
func (e *CharLit) ExprType() *Type      { return e.T }
func (e *StringLit) ExprType() *Type    { return e.T }
func (e *IdentExpr) ExprType() *Type    { return e.T }
func (e *UnaryExpr) ExprType() *Type    { return e.T }
func (e *BinaryExpr) ExprType() *Type   { return e.T }
func (e *FieldExpr) ExprType() *Type    { return e.T }
func (e *LambdaExpr) ExprType() *Type   { return e.T }
func (e *BlockExpr) ExprType() *Type    { return e.T }
func (e *IfExpr) ExprType() *Type       { return e.T }
func (e *SwitchExpr) ExprType() *Type   { return e.T }
func (e *TupleExpr) ExprType() *Type    { return e.T }
func (e *ArrayLitExpr) ExprType() *Type { return e.T }

func (*BoolLit) exprNode()      {}
func (*IntLit) exprNode()       {}
func (*FloatLit) exprNode()     {}
func (*CharLit) exprNode()      {}
func (*StringLit) exprNode()    {}
func (*IdentExpr) exprNode()    {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*FieldExpr) exprNode()    {}
func (*LambdaExpr) exprNode()   {}
func (*BlockExpr) exprNode()    {}
func (*IfExpr) exprNode()       {}
func (*SwitchExpr) exprNode()   {}
func (*TupleExpr) exprNode()    {}
func (*ArrayLitExpr) exprNode() {}

// Stmt is a statement node.
type Stmt interface {
	stmtNode()
}

type DeclStmt struct {
	D *Decl
}

type ExprStmt struct {
	E Expr
}

type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// DoStmt is a post-test loop: the body runs once before the condition is
// first evaluated.
type DoStmt struct {
	Body []Stmt
	Cond Expr
}

type WhileStmt struct {
	Cond Expr
	Body []Stmt
}

type ForStmt struct {
	Init Stmt
	Cond Expr
	Post Expr
	Body []Stmt
}

func (*DeclStmt) stmtNode()  {}
func (*ExprStmt) stmtNode()  {}
func (*IfStmt) stmtNode()    {}
func (*DoStmt) stmtNode()    {}
func (*WhileStmt) stmtNode() {}
func (*ForStmt) stmtNode()   {}

// Decl is a declaration, at the top level or inside a block. A top-level
// declaration with a function type declares a function whose Init must be a
// LambdaExpr; every other top-level declaration is a global value and its
// initializer is required and must be constant-foldable.
type Decl struct {
	Name    string
	Type    *Type
	IsConst bool
	Init    Expr
}
