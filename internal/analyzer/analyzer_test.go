package analyzer

import (
	"testing"

	"github.com/neknaj/neplg1/internal/ast"
	"github.com/neknaj/neplg1/internal/diagnostics"
	"github.com/neknaj/neplg1/internal/hir"
	"github.com/neknaj/neplg1/internal/token"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

func tok(tt token.Type, lex string) token.Token {
	return token.Token{Type: tt, Lexeme: lex}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Token: tok(token.IDENT, name), Name: name}
}

func intLit(v int64) *ast.IntLiteral {
	return &ast.IntLiteral{Token: tok(token.INT, "n"), Value: v}
}

func seq(terms ...ast.Expression) *ast.PrefixSequence {
	return &ast.PrefixSequence{Token: terms[0].GetToken(), Terms: terms}
}

func resolveTop(t *testing.T, top ast.Expression) hir.Node {
	t.Helper()
	prog, errs := New().Resolve(&ast.Program{Top: top})
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	return prog.Top
}

func TestResolveSimpleArithmeticCall(t *testing.T) {
	top := seq(ident("add"), intLit(1), intLit(2))
	node := resolveTop(t, top)
	call, ok := node.(*hir.Call)
	if !ok {
		t.Fatalf("expected *hir.Call, got %T", node)
	}
	if call.CalleeName != "add" || !ts.Equal(call.Type(), ts.I32) {
		t.Errorf("unexpected call: %+v", call)
	}
	if !call.IsPure {
		t.Error("built-in add must resolve as pure")
	}
}

func TestResolveNestedPrefixSequence(t *testing.T) {
	// add (add 1 2) 3
	inner := seq(ident("add"), intLit(1), intLit(2))
	top := seq(ident("add"), &ast.Group{Token: tok(token.LPAREN, "("), Inner: inner}, intLit(3))
	node := resolveTop(t, top)
	call, ok := node.(*hir.Call)
	if !ok {
		t.Fatalf("expected *hir.Call, got %T", node)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	if _, ok := call.Args[0].(*hir.Call); !ok {
		t.Errorf("expected first arg to be a nested call, got %T", call.Args[0])
	}
}

func TestExcessArgumentsIsAnError(t *testing.T) {
	// neg is unary; a third trailing term must be rejected.
	top := seq(ident("neg"), intLit(1), intLit(2))
	_, errs := New().Resolve(&ast.Program{Top: top})
	if len(errs) == 0 {
		t.Fatal("expected an error for excess arguments")
	}
}

func TestUndefinedNameIsAnError(t *testing.T) {
	top := ident("not_defined_anywhere")
	_, errs := New().Resolve(&ast.Program{Top: top})
	if len(errs) == 0 {
		t.Fatal("expected an error for an undefined name")
	}
}

func TestLetBindsAndVariableResolves(t *testing.T) {
	let := &ast.LetExpr{Token: tok(token.LET, "let"), Name: "x", Value: intLit(5)}
	use := ident("x")
	block := &ast.Block{Token: tok(token.LBRACE, "{"), Statements: []ast.Expression{let, use}}
	node := resolveTop(t, block)
	b, ok := node.(*hir.Block)
	if !ok {
		t.Fatalf("expected *hir.Block, got %T", node)
	}
	if _, ok := b.Statements[1].(*hir.Var); !ok {
		t.Errorf("expected second statement to be *hir.Var, got %T", b.Statements[1])
	}
	if !ts.Equal(b.Type(), ts.I32) {
		t.Errorf("expected block type i32, got %s", b.Type())
	}
}

func TestSetOnImmutableBindingFails(t *testing.T) {
	let := &ast.LetExpr{Token: tok(token.LET, "let"), Name: "x", Mut: false, Value: intLit(5)}
	set := &ast.SetExpr{Token: tok(token.SET, "set"), Name: "x", Value: intLit(6)}
	block := &ast.Block{Token: tok(token.LBRACE, "{"), Statements: []ast.Expression{let, set}}
	_, errs := New().Resolve(&ast.Program{Top: block})
	if len(errs) == 0 {
		t.Fatal("expected an error assigning to an immutable binding")
	}
}

func TestSetOnMutableBindingSucceeds(t *testing.T) {
	let := &ast.LetExpr{Token: tok(token.LET, "let"), Name: "x", Mut: true, Value: intLit(5)}
	set := &ast.SetExpr{Token: tok(token.SET, "set"), Name: "x", Value: intLit(6)}
	block := &ast.Block{Token: tok(token.LBRACE, "{"), Statements: []ast.Expression{let, set}}
	resolveTop(t, block)
}

func TestIfWithoutElseTypesAsUnit(t *testing.T) {
	let := &ast.LetExpr{Token: tok(token.LET, "let"), Name: "x", Mut: true, Value: intLit(5)}
	set := &ast.SetExpr{Token: tok(token.SET, "set"), Name: "x", Value: intLit(6)}
	block := &ast.Block{Token: tok(token.LBRACE, "{"), Statements: []ast.Expression{let, set}}
	ifExpr := &ast.IfExpr{
		Token: tok(token.IF, "if"),
		Cond:  &ast.BoolLiteral{Token: tok(token.TRUE, "true"), Value: true},
		Then:  block,
	}
	node := resolveTop(t, ifExpr)
	if !ts.Equal(node.Type(), ts.Unit) {
		t.Errorf("expected Unit, got %s", node.Type())
	}
}

func TestIfWithoutElseAndNonUnitThenIsMissingElseError(t *testing.T) {
	ifExpr := &ast.IfExpr{
		Token: tok(token.IF, "if"),
		Cond:  &ast.BoolLiteral{Token: tok(token.TRUE, "true"), Value: true},
		Then:  intLit(1),
	}
	_, errs := New().Resolve(&ast.Program{Top: ifExpr})
	if len(errs) == 0 {
		t.Fatal("expected a MissingElse error for an i32-typed then-branch with no else")
	}
	if errs[0].Code != diagnostics.ErrTMissingElse {
		t.Fatalf("expected error code %s, got %s", diagnostics.ErrTMissingElse, errs[0].Code)
	}
}

func TestIfWithMatchingBranchesTypesAsBranchType(t *testing.T) {
	ifExpr := &ast.IfExpr{
		Token: tok(token.IF, "if"),
		Cond:  &ast.BoolLiteral{Token: tok(token.TRUE, "true"), Value: true},
		Then:  intLit(1),
		Else:  intLit(2),
	}
	node := resolveTop(t, ifExpr)
	if !ts.Equal(node.Type(), ts.I32) {
		t.Errorf("expected i32, got %s", node.Type())
	}
}

func TestBreakOutsideLoopIsAnError(t *testing.T) {
	brk := &ast.BreakExpr{Token: tok(token.BREAK, "break")}
	_, errs := New().Resolve(&ast.Program{Top: brk})
	if len(errs) == 0 {
		t.Fatal("expected an error for break outside a loop")
	}
}

func TestLoopTypesAsLcsOfBreakValues(t *testing.T) {
	brk := &ast.BreakExpr{Token: tok(token.BREAK, "break"), Value: intLit(7)}
	loopExpr := &ast.LoopExpr{Token: tok(token.LOOP, "loop"), Body: brk}
	node := resolveTop(t, loopExpr)
	if !ts.Equal(node.Type(), ts.I32) {
		t.Errorf("expected i32, got %s", node.Type())
	}
}

func TestPureFuncLiteralRejectsIntrinsicCall(t *testing.T) {
	body := seq(&ast.Intrinsic{Token: tok(token.INTRINSIC, "@wasi_random"), Name: "wasi_random"})
	fn := &ast.FuncLiteral{
		Token:      tok(token.BAR, "|"),
		Arrow:      ast.Pure,
		ReturnType: "i32",
		Body:       body,
	}
	_, errs := New().Resolve(&ast.Program{Top: fn})
	if len(errs) == 0 {
		t.Fatal("expected a purity violation resolving an intrinsic inside a pure function")
	}
}

func TestVectorLiteralTypesAsElementLcs(t *testing.T) {
	vec := &ast.VectorLiteral{Token: tok(token.LBRACKET, "["), Elements: []ast.Expression{intLit(1), intLit(2)}}
	node := resolveTop(t, vec)
	vt, ok := node.Type().(ts.VecType)
	if !ok {
		t.Fatalf("expected VecType, got %T", node.Type())
	}
	if !ts.Equal(vt.Elem, ts.I32) {
		t.Errorf("expected Vec[i32], got %s", node.Type())
	}
}
