package main

import (
	"fmt"
	"strconv"
	"strings"
)

// S-expression printing of target modules, used by tests and the CLI's
// verbose output. Instruction results are numbered %0, %1, ... per
// function; parameters print as %name and globals/functions as @name.

type irPrinter struct {
	sb    strings.Builder
	names map[Value]string
	next  int
}

func moduleSExpr(m *Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "(module %q", m.Name)
	for _, g := range m.Globals {
		sb.WriteString("\n  " + globalSExpr(g))
	}
	for _, f := range m.Funcs {
		sb.WriteString("\n  " + strings.ReplaceAll(funcSExpr(f), "\n", "\n  "))
	}
	sb.WriteString(")")
	return sb.String()
}

func globalSExpr(g *Global) string {
	kind := "global"
	if g.Const {
		kind = "const"
	}
	return fmt.Sprintf("(%s @%s %s %s)", kind, g.Name, g.Elem, valueRef(nil, g.Init))
}

func funcSExpr(f *Func) string {
	p := &irPrinter{names: make(map[Value]string)}
	fmt.Fprintf(&p.sb, "(func @%s %s", f.Name, f.Sig)
	for _, param := range f.Params {
		p.names[param] = "%" + param.Name
	}
	for _, b := range f.Blocks {
		fmt.Fprintf(&p.sb, "\n  (block %q", b.Name)
		for _, in := range b.Instrs {
			p.sb.WriteString("\n    " + p.instrSExpr(in))
		}
		p.sb.WriteString(")")
	}
	p.sb.WriteString(")")
	return p.sb.String()
}

func (p *irPrinter) instrSExpr(in *Instr) string {
	var parts []string
	switch in.Op {
	case OpBr:
		parts = []string{"br", strconv.Quote(in.Dest.Name)}
	case OpCondBr:
		parts = []string{"condbr", valueRef(p, in.Args[0]),
			strconv.Quote(in.DestTrue.Name), strconv.Quote(in.DestFalse.Name)}
	case OpRet:
		parts = []string{"ret"}
		if len(in.Args) > 0 {
			parts = append(parts, valueRef(p, in.Args[0]))
		}
	case OpStore:
		parts = []string{"store", valueRef(p, in.Args[0]), valueRef(p, in.Args[1])}
	case OpAlloca:
		parts = []string{p.define(in), "alloca", in.Ty.(*PtrType).Elem.String()}
		if in.Name != "" {
			parts = append(parts, strconv.Quote(in.Name))
		}
	case OpMember:
		parts = []string{p.define(in), "member", valueRef(p, in.Args[0]),
			strconv.Itoa(in.Index)}
	case OpICmp, OpFCmp:
		parts = []string{p.define(in), in.Op.String(), in.Pred.String()}
		for _, a := range in.Args {
			parts = append(parts, valueRef(p, a))
		}
	default:
		parts = []string{p.define(in), in.Op.String()}
		for _, a := range in.Args {
			parts = append(parts, valueRef(p, a))
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// define assigns the next result number to in and returns it with a
// trailing "=" marker.
func (p *irPrinter) define(in *Instr) string {
	name := "%" + strconv.Itoa(p.next)
	p.next++
	p.names[in] = name
	return name + "="
}

func valueRef(p *irPrinter, v Value) string {
	switch v := v.(type) {
	case *ConstInt:
		return fmt.Sprintf("(%s %d)", v.Ty, v.Val)
	case *ConstFloat:
		return fmt.Sprintf("(%s %g)", v.Ty, v.Val)
	case *ConstBytes:
		return fmt.Sprintf("(bytes %q)", string(v.Data))
	case *Global:
		return "@" + v.Name
	case *Func:
		return "@" + v.Name
	case *Param:
		if p != nil {
			return p.names[v]
		}
		return "%" + v.Name
	case *Instr:
		if p != nil {
			return p.names[v]
		}
		return "%?"
	default:
		return "%?"
	}
}
