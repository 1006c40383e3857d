package main

// demoProgram builds the checked AST for a small sample program, standing in
// for the parser and checker that normally feed code generation:
//
//	const scale I32 = 3;
//	var sum_to (I32) -> I32 = \n {
//	    var acc I32 = 0;
//	    var i I32 = 0;
//	    while i < n {
//	        acc += i * scale;
//	        i++;
//	    }
//	    if acc < 0 {
//	        acc = 0;
//	    }
//	    acc
//	};
func demoProgram() []*Decl {
	i32 := func(v uint64) Expr { return &IntLit{T: typeI32, Val: v} }
	ident := func(name string) Expr { return &IdentExpr{T: typeI32, Name: name} }
	bin := func(op BinOp, t *Type, l, r Expr) Expr {
		return &BinaryExpr{T: t, Op: op, L: l, R: r}
	}

	body := &BlockExpr{
		T: typeI32,
		Stmts: []Stmt{
			&DeclStmt{D: &Decl{Name: "acc", Type: typeI32, Init: i32(0)}},
			&DeclStmt{D: &Decl{Name: "i", Type: typeI32, Init: i32(0)}},
			&WhileStmt{
				Cond: bin(BinLt, typeBool, ident("i"), ident("n")),
				Body: []Stmt{
					&ExprStmt{E: bin(BinAddAssign, typeI32,
						ident("acc"),
						bin(BinMul, typeI32, ident("i"), ident("scale")))},
					&ExprStmt{E: &UnaryExpr{T: typeI32, Op: UnPostInc, Operand: ident("i")}},
				},
			},
			&IfStmt{
				Cond: bin(BinLt, typeBool, ident("acc"), i32(0)),
				Then: []Stmt{
					&ExprStmt{E: bin(BinAssign, typeI32, ident("acc"), i32(0))},
				},
			},
		},
		Value: ident("acc"),
	}

	return []*Decl{
		{Name: "scale", Type: typeI32, IsConst: true, Init: i32(3)},
		{
			Name:    "sum_to",
			Type:    funcOf(typeI32, typeI32),
			IsConst: true,
			Init:    &LambdaExpr{T: funcOf(typeI32, typeI32), Params: []string{"n"}, Body: body},
		},
	}
}
