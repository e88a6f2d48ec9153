package symbols

import (
	"testing"

	ts "github.com/neknaj/neplg1/internal/typesystem"
)

func TestResolveWalksOuterScopes(t *testing.T) {
	root := NewRoot()
	root.Define(Symbol{Name: "x", Type: ts.I32})
	child := NewEnclosed(root)
	sym, ok := child.Resolve("x")
	if !ok || !ts.Equal(sym.Type, ts.I32) {
		t.Fatalf("expected to resolve x=i32 from outer scope, got %+v, %v", sym, ok)
	}
}

func TestShadowingPrefersInnerScope(t *testing.T) {
	root := NewRoot()
	root.Define(Symbol{Name: "x", Type: ts.I32})
	child := NewEnclosed(root)
	child.Define(Symbol{Name: "x", Type: ts.Bool})
	sym, _ := child.Resolve("x")
	if !ts.Equal(sym.Type, ts.Bool) {
		t.Errorf("expected inner shadowing binding Bool, got %s", sym.Type)
	}
	outerSym, _ := root.Resolve("x")
	if !ts.Equal(outerSym.Type, ts.I32) {
		t.Errorf("outer scope binding must be unaffected by inner shadow, got %s", outerSym.Type)
	}
}

func TestUndefinedNameNotResolved(t *testing.T) {
	root := NewRoot()
	if _, ok := root.Resolve("nope"); ok {
		t.Error("expected undefined name to not resolve")
	}
}

func TestDefinedLocallyDoesNotSeeOuter(t *testing.T) {
	root := NewRoot()
	root.Define(Symbol{Name: "x", Type: ts.I32})
	child := NewEnclosed(root)
	if child.DefinedLocally("x") {
		t.Error("expected x to not be locally defined in child scope")
	}
}
