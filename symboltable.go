package main

import "fmt"

// Symbol binds a source name to the value it resolves to during code
// generation. Addressable symbols (locals, globals) hold a pointer to their
// storage; the rest (parameters, functions) hold the value itself.
type Symbol struct {
	Name        string
	Val         Value
	Addressable bool
}

// SymbolTable is an explicit stack of lexical scopes. It is owned by one
// code-generation pass; scopes are strictly nested and lookups search
// innermost-to-outermost.
type SymbolTable struct {
	scopes []map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// Depth returns the number of open scopes.
func (st *SymbolTable) Depth() int { return len(st.scopes) }

// Enter opens a new innermost scope.
func (st *SymbolTable) Enter() {
	st.scopes = append(st.scopes, make(map[string]*Symbol))
}

// Leave closes the innermost scope, dropping its bindings.
func (st *SymbolTable) Leave() {
	if len(st.scopes) == 0 {
		panic("symbol table: Leave without matching Enter")
	}
	st.scopes = st.scopes[:len(st.scopes)-1]
}

// Insert binds name in the innermost scope. Rebinding a name already bound
// in the same scope is an error; shadowing an outer scope is not.
func (st *SymbolTable) Insert(name string, val Value, addressable bool) error {
	if len(st.scopes) == 0 {
		panic("symbol table: Insert with no open scope")
	}
	scope := st.scopes[len(st.scopes)-1]
	if _, ok := scope[name]; ok {
		return fmt.Errorf("variable %q already declared in this scope", name)
	}
	scope[name] = &Symbol{Name: name, Val: val, Addressable: addressable}
	return nil
}

// Lookup resolves name against the innermost scope that binds it, or nil.
func (st *SymbolTable) Lookup(name string) *Symbol {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if sym, ok := st.scopes[i][name]; ok {
			return sym
		}
	}
	return nil
}
