package codegen

import (
	"bytes"
	"testing"

	"github.com/neknaj/neplg1/internal/hir"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

func mustCompile(t *testing.T, top hir.Node) []byte {
	t.Helper()
	m, err := Compile(&hir.Program{Top: top})
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	return m.Encode()
}

func TestCompileIntLiteralEncodesWasmHeader(t *testing.T) {
	out := mustCompile(t, &hir.IntLiteral{Value: 42, Ty: ts.I32})
	want := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	if !bytes.Equal(out[:8], want) {
		t.Fatalf("missing wasm magic/version header, got % X", out[:8])
	}
}

func TestCompileArithmeticCall(t *testing.T) {
	top := &hir.Call{
		CalleeName: "add",
		Args: []hir.Node{
			&hir.IntLiteral{Value: 1, Ty: ts.I32},
			&hir.IntLiteral{Value: 2, Ty: ts.I32},
		},
		Ty:     ts.I32,
		IsPure: true,
	}
	out := mustCompile(t, top)
	if len(out) <= 8 {
		t.Fatalf("expected a non-trivial module body, got %d bytes", len(out))
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	build := func() []byte {
		top := &hir.If{
			Cond: &hir.BoolLiteral{Value: true},
			Then: &hir.IntLiteral{Value: 1, Ty: ts.I32},
			Else: &hir.IntLiteral{Value: 0, Ty: ts.I32},
			Ty:   ts.I32,
		}
		return mustCompile(t, top)
	}
	a, b := build(), build()
	if !bytes.Equal(a, b) {
		t.Fatal("identical hir programs must compile to identical wasm bytes")
	}
}

func TestCompileLoopWithBreakValue(t *testing.T) {
	// loop { if i >= 3 { break 1 } else { set i (add i 1) } }
	top := &hir.Loop{
		Ty: ts.I32,
		Body: &hir.If{
			Ty:   ts.I32,
			Cond: &hir.Call{CalleeName: "ge", Ty: ts.Bool, IsPure: true, Args: []hir.Node{
				&hir.Var{Name: "i", Ty: ts.I32},
				&hir.IntLiteral{Value: 3, Ty: ts.I32},
			}},
			Then: &hir.Break{Value: &hir.IntLiteral{Value: 1, Ty: ts.I32}},
			Else: &hir.Set{Name: "i", Value: &hir.Call{
				CalleeName: "add", Ty: ts.I32, IsPure: true,
				Args: []hir.Node{&hir.Var{Name: "i", Ty: ts.I32}, &hir.IntLiteral{Value: 1, Ty: ts.I32}},
			}},
		},
	}
	block := &hir.Block{
		Ty: ts.I32,
		Statements: []hir.Node{
			&hir.Let{Name: "i", Mut: true, Ty: ts.I32, Value: &hir.IntLiteral{Value: 0, Ty: ts.I32}},
			top,
		},
	}
	out := mustCompile(t, block)
	if len(out) <= 8 {
		t.Fatalf("expected a non-trivial module body, got %d bytes", len(out))
	}
}

func TestCompileRejectsStringLiteral(t *testing.T) {
	_, err := Compile(&hir.Program{Top: &hir.StringLiteral{Value: "hi"}})
	if err == nil {
		t.Fatal("expected an unsupported-construct error for a string literal, got nil")
	}
}

func TestCompileRejectsNonI32TopLevel(t *testing.T) {
	_, err := Compile(&hir.Program{Top: &hir.IntLiteral{Value: 1, Ty: ts.I64}})
	if err == nil {
		t.Fatal("expected a MainNotI32 error for an i64-typed top level, got nil")
	}
}

func TestCompileRejectsUnitTopLevel(t *testing.T) {
	_, err := Compile(&hir.Program{Top: &hir.Block{Ty: ts.Unit}})
	if err == nil {
		t.Fatal("expected a MainNotI32 error for a Unit-typed top level, got nil")
	}
}

func TestCompileFactorialUsesRuntimeHelper(t *testing.T) {
	top := &hir.Call{
		CalleeName: "factorial",
		Args:       []hir.Node{&hir.IntLiteral{Value: 5, Ty: ts.I32}},
		Ty:         ts.I32,
		IsPure:     true,
	}
	m, err := Compile(&hir.Program{Top: top})
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if len(m.Functions) != 2 {
		t.Fatalf("expected main plus one hoisted factorial helper, got %d functions", len(m.Functions))
	}
}

func TestCompileHoistsLetBoundFunction(t *testing.T) {
	fn := &hir.FuncValue{
		Params: []hir.Param{{Name: "x", Ty: ts.I32}},
		Body: &hir.Call{
			CalleeName: "add", Ty: ts.I32, IsPure: true,
			Args: []hir.Node{&hir.Var{Name: "x", Ty: ts.I32}, &hir.IntLiteral{Value: 1, Ty: ts.I32}},
		},
		Ty: ts.FuncType{Params: []ts.Type{ts.I32}, Result: ts.I32, Arrow: ts.Pure},
	}
	block := &hir.Block{
		Ty: ts.I32,
		Statements: []hir.Node{
			&hir.Let{Name: "inc", Value: fn, Ty: fn.Ty},
			&hir.Call{CalleeName: "inc", Ty: ts.I32, IsPure: true, Args: []hir.Node{&hir.IntLiteral{Value: 41, Ty: ts.I32}}},
		},
	}
	m, err := Compile(&hir.Program{Top: block})
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if len(m.Functions) != 2 {
		t.Fatalf("expected main plus one hoisted function, got %d functions", len(m.Functions))
	}
	if len(m.Exports) != 1 || m.Exports[0].Name != "main" {
		t.Fatalf("expected exactly one export named main, got %+v", m.Exports)
	}
}
