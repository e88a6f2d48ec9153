package wasmvm

import (
	"testing"

	"github.com/neknaj/neplg1/internal/codegen"
	"github.com/neknaj/neplg1/internal/hir"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

func runHIR(t *testing.T, top hir.Node) Value {
	t.Helper()
	m, err := codegen.Compile(&hir.Program{Top: top})
	if err != nil {
		t.Fatalf("codegen.Compile: %v", err)
	}
	results, err := Run(m.Encode(), "main", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(results))
	}
	return results[0]
}

func TestRunArithmeticCall(t *testing.T) {
	top := &hir.Call{
		CalleeName: "add",
		Args: []hir.Node{
			&hir.IntLiteral{Value: 1, Ty: ts.I32},
			&hir.IntLiteral{Value: 2, Ty: ts.I32},
		},
		Ty: ts.I32,
	}
	if got := runHIR(t, top).AsI32(); got != 3 {
		t.Fatalf("add 1 2 = %d, want 3", got)
	}
}

func TestRunIfElse(t *testing.T) {
	top := &hir.If{
		Cond: &hir.Call{CalleeName: "gt", Ty: ts.Bool, Args: []hir.Node{
			&hir.IntLiteral{Value: 5, Ty: ts.I32}, &hir.IntLiteral{Value: 3, Ty: ts.I32},
		}},
		Then: &hir.IntLiteral{Value: 100, Ty: ts.I32},
		Else: &hir.IntLiteral{Value: 200, Ty: ts.I32},
		Ty:   ts.I32,
	}
	if got := runHIR(t, top).AsI32(); got != 100 {
		t.Fatalf("if 5>3 then 100 else 200 = %d, want 100", got)
	}
}

// let mut i = 0; while (lt i 5) { set i (add i 1) }; i
func TestRunWhileLoopCountsToFive(t *testing.T) {
	block := &hir.Block{
		Ty: ts.I32,
		Statements: []hir.Node{
			&hir.Let{Name: "i", Mut: true, Ty: ts.I32, Value: &hir.IntLiteral{Value: 0, Ty: ts.I32}},
			&hir.While{
				Cond: &hir.Call{CalleeName: "lt", Ty: ts.Bool, Args: []hir.Node{
					&hir.Var{Name: "i", Ty: ts.I32}, &hir.IntLiteral{Value: 5, Ty: ts.I32},
				}},
				Body: &hir.Set{Name: "i", Value: &hir.Call{CalleeName: "add", Ty: ts.I32, Args: []hir.Node{
					&hir.Var{Name: "i", Ty: ts.I32}, &hir.IntLiteral{Value: 1, Ty: ts.I32},
				}}},
			},
			&hir.Var{Name: "i", Ty: ts.I32},
		},
	}
	if got := runHIR(t, block).AsI32(); got != 5 {
		t.Fatalf("while-counted i = %d, want 5", got)
	}
}

// loop { if (ge i 3) { break i } else { set i (add i 1) } }, i starting at 0
func TestRunLoopBreakWithValue(t *testing.T) {
	block := &hir.Block{
		Ty: ts.I32,
		Statements: []hir.Node{
			&hir.Let{Name: "i", Mut: true, Ty: ts.I32, Value: &hir.IntLiteral{Value: 0, Ty: ts.I32}},
			&hir.Loop{
				Ty: ts.I32,
				Body: &hir.If{
					Ty: ts.Unit,
					Cond: &hir.Call{CalleeName: "ge", Ty: ts.Bool, Args: []hir.Node{
						&hir.Var{Name: "i", Ty: ts.I32}, &hir.IntLiteral{Value: 3, Ty: ts.I32},
					}},
					Then: &hir.Break{Value: &hir.Var{Name: "i", Ty: ts.I32}},
					Else: &hir.Set{Name: "i", Value: &hir.Call{CalleeName: "add", Ty: ts.I32, Args: []hir.Node{
						&hir.Var{Name: "i", Ty: ts.I32}, &hir.IntLiteral{Value: 1, Ty: ts.I32},
					}}},
				},
			},
		},
	}
	if got := runHIR(t, block).AsI32(); got != 3 {
		t.Fatalf("loop-break i = %d, want 3", got)
	}
}

func TestRunFactorialHelper(t *testing.T) {
	top := &hir.Call{
		CalleeName: "factorial",
		Args:       []hir.Node{&hir.IntLiteral{Value: 5, Ty: ts.I32}},
		Ty:         ts.I32,
	}
	if got := runHIR(t, top).AsI32(); got != 120 {
		t.Fatalf("factorial 5 = %d, want 120", got)
	}
}

func TestRunGCDHelper(t *testing.T) {
	top := &hir.Call{
		CalleeName: "gcd",
		Args: []hir.Node{
			&hir.IntLiteral{Value: 54, Ty: ts.I32},
			&hir.IntLiteral{Value: 24, Ty: ts.I32},
		},
		Ty: ts.I32,
	}
	if got := runHIR(t, top).AsI32(); got != 6 {
		t.Fatalf("gcd 54 24 = %d, want 6", got)
	}
}

func TestRunHoistedFunctionCall(t *testing.T) {
	fn := &hir.FuncValue{
		Params: []hir.Param{{Name: "x", Ty: ts.I32}},
		Body: &hir.Call{CalleeName: "add", Ty: ts.I32, Args: []hir.Node{
			&hir.Var{Name: "x", Ty: ts.I32}, &hir.IntLiteral{Value: 1, Ty: ts.I32},
		}},
		Ty: ts.FuncType{Params: []ts.Type{ts.I32}, Result: ts.I32, Arrow: ts.Pure},
	}
	block := &hir.Block{
		Ty: ts.I32,
		Statements: []hir.Node{
			&hir.Let{Name: "inc", Value: fn, Ty: fn.Ty},
			&hir.Call{CalleeName: "inc", Ty: ts.I32, Args: []hir.Node{&hir.IntLiteral{Value: 41, Ty: ts.I32}}},
		},
	}
	if got := runHIR(t, block).AsI32(); got != 42 {
		t.Fatalf("inc 41 = %d, want 42", got)
	}
}

func TestRunIntrinsicCallInvokesHostImport(t *testing.T) {
	top := &hir.IntrinsicCall{Module: "env", Field: "wasm_pagesize", Ty: ts.I32}
	m, err := codegen.Compile(&hir.Program{Top: top})
	if err != nil {
		t.Fatalf("codegen.Compile: %v", err)
	}
	host := map[string]HostFunc{
		"env.wasm_pagesize": func(args []Value) ([]Value, error) {
			return []Value{vi32(65536)}, nil
		},
	}
	results, err := Run(m.Encode(), "main", host)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := results[0].AsI32(); got != 65536 {
		t.Fatalf("wasm_pagesize() = %d, want 65536", got)
	}
}
