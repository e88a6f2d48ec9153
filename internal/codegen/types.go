// Package codegen lowers a resolved internal/hir.Program into a core
// WebAssembly module (internal/wasmenc). It covers the scalar value
// universe in full (i32/i64/f32/f64/Bool, functions, control flow,
// intrinsics); Vec/String values type-check completely in
// internal/analyzer but have no linear-memory representation here yet -
// see DESIGN.md for the scope decision and what it would take to lift it.
package codegen

import (
	"fmt"

	"github.com/neknaj/neplg1/internal/wasmenc"
	ts "github.com/neknaj/neplg1/internal/typesystem"
)

// valType maps a closed scalar type to its wasm representation. Bool
// lowers to i32 (0/1); Unit has no runtime representation at all, which
// callers must check for separately before calling this.
func valType(t ts.Type) (wasmenc.ValType, error) {
	switch t {
	case ts.I32, ts.Bool:
		return wasmenc.I32, nil
	case ts.I64:
		return wasmenc.I64, nil
	case ts.F32:
		return wasmenc.F32, nil
	case ts.F64:
		return wasmenc.F64, nil
	}
	return 0, fmt.Errorf("no wasm representation for type %s (Vec/String values are not yet lowered)", t.String())
}

// isVoid reports whether a HIR type produces no wasm stack value at all.
// Never is included alongside Unit: every site typed Never (Return,
// Break, Continue, or an If/Loop where every branch diverges through
// one of those) has already transferred control away via br/return
// before reaching here, so there is nothing left to push or drop.
func isVoid(t ts.Type) bool { return t == ts.Unit || t == ts.Never }

func typeKey(t ts.Type) string {
	switch t {
	case ts.I32, ts.Bool:
		return "i32"
	case ts.I64:
		return "i64"
	case ts.F32:
		return "f32"
	case ts.F64:
		return "f64"
	}
	return ""
}
