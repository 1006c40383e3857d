package main

// fatPtrType is the runtime representation of an unsized array: a 16-bit
// length field paired with a pointer to the elements. The length field caps
// such arrays at 65535 addressable elements.
func fatPtrType(elem IRType) *IRStructType {
	return &IRStructType{Fields: []IRType{irI16, &PtrType{Elem: elem}}}
}

// lowerType maps a resolved source type to its target representation. An
// alias or type parameter reaching this point means the checker failed to
// resolve it, which is an internal error.
func lowerType(t *Type) (IRType, error) {
	switch t.Kind {
	case TypeUnsizedInt:
		// TODO: Base this on the compilation target.
		return irI32, nil
	case TypeU8, TypeI8:
		return irI8, nil
	case TypeU16, TypeI16:
		return irI16, nil
	case TypeU32, TypeI32, TypeChar:
		return irI32, nil
	case TypeU64, TypeI64:
		return irI64, nil
	case TypeF32:
		return irF32, nil
	case TypeF64:
		return irF64, nil
	case TypeBool:
		return irI1, nil
	case TypeVoid:
		return irVoid, nil
	case TypeAlias:
		return nil, internalf("unresolved alias type %q at lowering", t.Name)
	case TypeParam:
		return nil, internalf("unresolved type parameter %q at lowering", t.Name)
	case TypePointer:
		elem, err := lowerType(t.Elem)
		if err != nil {
			return nil, err
		}
		return &PtrType{Elem: elem}, nil
	case TypeArray:
		elem, err := lowerType(t.Elem)
		if err != nil {
			return nil, err
		}
		if t.Len == 0 {
			return fatPtrType(elem), nil
		}
		return &IRArrayType{Elem: elem, Len: t.Len}, nil
	case TypeTuple:
		fields := make([]IRType, len(t.Members))
		for i, m := range t.Members {
			f, err := lowerType(m)
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}
		return &IRStructType{Fields: fields}, nil
	case TypeFunc:
		params := make([]IRType, len(t.Params))
		for i, p := range t.Params {
			lp, err := lowerType(p)
			if err != nil {
				return nil, err
			}
			params[i] = lp
		}
		ret, err := lowerType(t.Ret)
		if err != nil {
			return nil, err
		}
		return &IRFuncType{Params: params, Ret: ret}, nil
	default:
		return nil, internalf("unknown type kind %d at lowering", t.Kind)
	}
}
