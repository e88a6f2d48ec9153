// Package symbols implements the scoped variable environment the resolver
// consults for let-bound names, following the teacher corpus's nested
// SymbolTable-with-outer-pointer idiom, cut down to what spec.md §4.4
// actually needs: a variable's type and whether it was declared mutable.
package symbols

import ts "github.com/neknaj/neplg1/internal/typesystem"

// Symbol is one let-bound variable: its type and whether `set` may target
// it (spec.md §4.4.3's purity/mutability rules).
type Symbol struct {
	Name string
	Type ts.Type
	Mut  bool
}

// Table is a single lexical scope, chained to its enclosing scope. Lookups
// walk outward; Define only ever writes to the innermost table.
type Table struct {
	store map[string]Symbol
	outer *Table
}

// NewRoot creates the outermost (empty) scope for a compilation unit.
func NewRoot() *Table {
	return &Table{store: make(map[string]Symbol)}
}

// NewEnclosed creates a child scope nested inside outer, as entered when
// the resolver descends into a Block, FuncLiteral body, or loop body.
func NewEnclosed(outer *Table) *Table {
	return &Table{store: make(map[string]Symbol), outer: outer}
}

// Define introduces name into this scope, shadowing any outer binding of
// the same name for the remainder of the scope (spec.md §4.4.3).
func (t *Table) Define(sym Symbol) {
	t.store[sym.Name] = sym
}

// Resolve looks up name in this scope and, failing that, every enclosing
// scope in turn.
func (t *Table) Resolve(name string) (Symbol, bool) {
	if sym, ok := t.store[name]; ok {
		return sym, true
	}
	if t.outer != nil {
		return t.outer.Resolve(name)
	}
	return Symbol{}, false
}

// DefinedLocally reports whether name was bound directly in this scope,
// not merely visible through an enclosing one - used to detect shadowing
// versus redefinition.
func (t *Table) DefinedLocally(name string) bool {
	_, ok := t.store[name]
	return ok
}
